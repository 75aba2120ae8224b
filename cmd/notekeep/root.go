package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep"
	"github.com/aretw0/notekeep/pkg/core"
)

var (
	verbose     bool
	dataDir     string
	adapterName string
	configPath  string

	// cfg is the configuration file loaded in PersistentPreRunE.
	cfg notekeep.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notekeep",
	Short: "A local note store with drawings and highlights",
	Long: `notekeep keeps notes, freehand drawings and text highlights in a local store.
Every change is written through to disk (JSON files or SQLite) immediately.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)

		return loadConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default: nearest .notekeep)")
	rootCmd.PersistentFlags().StringVar(&adapterName, "adapter", "", "Storage adapter: fs, sqlite or memory (default fs)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.notekeep/config.toml)")
}

func loadConfig() error {
	path := configPath
	optional := false
	if path == "" {
		def, err := notekeep.DefaultConfigPath()
		if err != nil {
			cfg = notekeep.Config{}
			return nil
		}
		path, optional = def, true
	}

	loaded, err := notekeep.LoadConfig(path, optional)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// resolveDataDir applies flag > config > nearest .notekeep > ./.notekeep.
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := notekeep.FindDataDir(wd)
	if err == nil {
		return root, nil
	}
	return filepath.Join(wd, ".notekeep"), nil
}

func resolveAdapter() string {
	if adapterName != "" {
		return adapterName
	}
	if cfg.Adapter != "" {
		return cfg.Adapter
	}
	return notekeep.AdapterFS
}

// openService opens the store with synchronous writes so every command
// has persisted its change before the process exits.
func openService(cmd *cobra.Command, extra ...notekeep.Option) (*core.Service, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}

	opts := append([]notekeep.Option{
		notekeep.WithAdapter(resolveAdapter()),
		notekeep.WithLogger(slog.Default()),
		notekeep.WithSyncWrites(true),
	}, extra...)

	svc, err := notekeep.New(cmd.Context(), dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	slog.Debug("opened store", "path", dir, "adapter", resolveAdapter())
	return svc, nil
}

// closeService flushes and closes svc, folding its error into err.
func closeService(cmd *cobra.Command, svc *core.Service, err *error) {
	if cerr := svc.Close(cmd.Context()); cerr != nil && !errors.Is(cerr, core.ErrClosed) {
		*err = errors.Join(*err, cerr)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s not found: %s", kind, id)
}
