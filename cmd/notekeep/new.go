package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/core"
)

var (
	newTitle   string
	newContent string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note and print its id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		id := svc.CreateNote()

		var patch core.NotePatch
		if cmd.Flags().Changed("title") {
			patch.Title = &newTitle
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &newContent
		}
		if patch.Title != nil || patch.Content != nil {
			svc.UpdateNote(id, patch)
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Note title")
	newCmd.Flags().StringVar(&newContent, "content", "", "Note content")
}
