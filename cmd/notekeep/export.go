package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/codec"
	"github.com/aretw0/notekeep/pkg/core"
)

var (
	exportFormat string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all notes and highlights to a backup file",
	Long: `Export writes every note and highlight to a single document.
The default file is notes_backup_YYYY-MM-DD.json. Use "-" for stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, err := codec.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		target := core.ExportFileName(time.Now(), format)
		if len(args) == 1 {
			target = args[0]
			if !cmd.Flags().Changed("format") {
				format = codec.FormatFromPath(target)
			}
		}

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if target == "-" {
			return svc.ExportData(cmd.OutOrStdout(), format)
		}

		var buf bytes.Buffer
		if err := svc.ExportData(&buf, format); err != nil {
			return err
		}
		if err := fs.WriteFileAtomic(target, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", len(svc.Notes()), target)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace all notes and highlights with a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		path := args[0]
		format := codec.FormatFromPath(path)
		if importFormat != "" {
			if format, err = codec.ParseFormat(importFormat); err != nil {
				return err
			}
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open backup: %w", err)
		}
		defer f.Close()

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if err := svc.ImportData(cmd.Context(), f, format); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes from %s\n", len(svc.Notes()), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(codec.JSON), "Output format: json or yaml")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format (default: from file extension)")
}
