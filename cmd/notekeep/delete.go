package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note and its highlights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id := args[0]

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if !svc.DeleteNote(id) {
			return notFound("note", id)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", id)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every note and highlight",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if !clearYes {
			return errors.New("refusing to clear without --yes")
		}

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		count := len(svc.Notes())
		svc.ClearAllNotes()

		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d notes.\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Confirm")
}
