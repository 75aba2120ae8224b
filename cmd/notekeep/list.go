package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/codec"
	"github.com/aretw0/notekeep/pkg/core"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		notes, err := svc.FindNotes(listMatch)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			if notes == nil {
				notes = []core.Note{}
			}
			return codec.Encode(out, codec.JSON, notes)
		}

		for _, note := range notes {
			title := note.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(out, "%s - %s\n", note.ID, title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Filter notes by a title glob (e.g. \"meeting*\")")
}
