package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/backup"
	"github.com/aretw0/notekeep/pkg/core"
)

var (
	backupDir  string
	backupKeep int
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot notes to a backup directory",
}

var backupRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Write a new snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		target, err := connectBackup(cmd)
		if err != nil {
			return err
		}
		notes := svc.Notes()
		if err := target.Backup(cmd.Context(), notes); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d notes to %s\n", len(notes), target.Path)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace notes with the newest snapshot",
	Long: `Restore replaces every note with the newest snapshot.
Highlights of notes that survive the restore are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		target, err := connectBackup(cmd)
		if err != nil {
			return err
		}
		notes, err := target.Restore(cmd.Context())
		if err != nil {
			return err
		}

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if err := svc.Replace(cmd.Context(), notes, keepHighlightsFor(notes, svc.Highlights())); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d notes from %s\n", len(notes), target.Path)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := connectBackup(cmd)
		if err != nil {
			return err
		}
		names, err := target.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// connectBackup resolves the backup directory: flag > config > <data-dir>/backups.
func connectBackup(cmd *cobra.Command) (*backup.Directory, error) {
	dir := backupDir
	if dir == "" {
		dir = cfg.BackupDir
	}
	if dir == "" {
		data, err := resolveDataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(data, "backups")
	}

	keep := backupKeep
	if !cmd.Flags().Changed("keep") && cfg.BackupKeep > 0 {
		keep = cfg.BackupKeep
	}

	target := backup.NewDirectory(dir, keep, slog.Default())
	if err := target.Connect(cmd.Context()); err != nil {
		return nil, err
	}
	return target, nil
}

func keepHighlightsFor(notes []core.Note, groups []core.NoteHighlight) []core.NoteHighlight {
	ids := make(map[string]bool, len(notes))
	for _, n := range notes {
		ids[n.ID] = true
	}
	kept := []core.NoteHighlight{}
	for _, g := range groups {
		if ids[g.NoteID] {
			kept = append(kept, g)
		}
	}
	return kept
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupRunCmd, backupRestoreCmd, backupListCmd)
	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default: <data-dir>/backups)")
	backupCmd.PersistentFlags().IntVar(&backupKeep, "keep", 0, "Snapshots to retain (0 keeps all)")
}
