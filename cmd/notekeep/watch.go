package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep"
	"github.com/aretw0/notekeep/pkg/adapters/lifecycle"
	"github.com/aretw0/notekeep/pkg/core"
)

var watchAutoSave bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes made to the store by other processes",
	Long: `Watch keeps the store open and reloads it whenever another process
changes the data files. Each change is printed with the new note count.
Only the fs adapter supports watching.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []notekeep.Option
		if watchAutoSave {
			opts = append(opts, notekeep.WithAutoSave(autoSaveInterval()))
		}
		svc, err := openService(cmd, opts...)
		if err != nil {
			return err
		}
		// Close with a fresh context: ctx is already done on interrupt.
		defer func() {
			if cerr := svc.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
				err = cerr
			}
		}()

		events, err := svc.Watch(ctx)
		if err != nil {
			return err
		}

		source := lifecycle.NewSource(events)
		if err := source.Start(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")
		for e := range source.Events() {
			fmt.Fprintf(out, "%s\t(%d notes)\n", e, len(svc.Notes()))
		}
		return nil
	},
}

func autoSaveInterval() time.Duration {
	if d, err := cfg.AutoSave(); err == nil && d > 0 {
		return d
	}
	return core.DefaultAutoSaveInterval
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchAutoSave, "autosave", false, "Re-save the full state periodically")
}
