package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/codec"
)

var (
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Long:  `Show a note by its ID. Outputs the content by default, or the full note as JSON with --json.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id := args[0]

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		note, ok := svc.GetNote(id)
		if !ok {
			return notFound("note", id)
		}

		out := cmd.OutOrStdout()
		if showJSON {
			return codec.Encode(out, codec.JSON, note)
		}

		if note.Title != "" {
			fmt.Fprintf(out, "# %s\n\n", note.Title)
		}
		fmt.Fprintln(out, note.Content)
		if note.HasDrawing {
			fmt.Fprintf(out, "\n[drawing: %d strokes]\n", len(note.Paths))
		}
		for _, h := range svc.HighlightsFor(id) {
			fmt.Fprintf(out, "> [%s] %s (%s)\n", h.Color, h.Text, h.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
