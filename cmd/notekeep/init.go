package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .notekeep data directory here",
	Long: `Initialize a notekeep workspace in the current directory.
Commands run from this directory or any subdirectory will use it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		dir := dataDir
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			dir = filepath.Join(cwd, ".notekeep")
		}
		dataDir = dir

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		// Persist empty collections so the workspace is complete on disk.
		svc.Save()

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized empty notekeep store in", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
