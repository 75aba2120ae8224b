package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/codec"
	"github.com/aretw0/notekeep/pkg/core"
)

var (
	hlColor  string
	hlSource string
	hlInfo   string
	hlJSON   bool

	// update flags have no defaults, so they get their own variables.
	upText   string
	upColor  string
	upSource string
	upInfo   string
)

var highlightCmd = &cobra.Command{
	Use:     "highlight",
	Aliases: []string{"hl"},
	Short:   "Manage highlights",
}

var highlightAddCmd = &cobra.Command{
	Use:   "add [note-id] [text]",
	Short: "Highlight a piece of text in a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		noteID, text := args[0], args[1]

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if _, ok := svc.GetNote(noteID); !ok {
			return notFound("note", noteID)
		}

		h := core.Highlight{Text: text, Color: hlColor, SourceURL: hlSource, AIInfo: hlInfo}
		if !svc.AddHighlight(h, noteID) {
			return fmt.Errorf("failed to add highlight to %s", noteID)
		}

		added := svc.HighlightsFor(noteID)
		fmt.Fprintln(cmd.OutOrStdout(), added[len(added)-1].ID)
		return nil
	},
}

var highlightUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a highlight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id := args[0]
		flags := cmd.Flags()

		var patch core.HighlightPatch
		if flags.Changed("text") {
			patch.Text = &upText
		}
		if flags.Changed("color") {
			patch.Color = &upColor
		}
		if flags.Changed("source") {
			patch.SourceURL = &upSource
		}
		if flags.Changed("info") {
			patch.AIInfo = &upInfo
		}

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if !svc.UpdateHighlight(id, patch) {
			return notFound("highlight", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Highlight '%s' updated.\n", id)
		return nil
	},
}

var highlightDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a highlight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id := args[0]

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if !svc.DeleteHighlight(id) {
			return notFound("highlight", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Highlight deleted: %s\n", id)
		return nil
	},
}

var highlightListCmd = &cobra.Command{
	Use:   "list [note-id]",
	Short: "List highlights, optionally of a single note",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		groups := svc.Highlights()
		if len(args) == 1 {
			groups = []core.NoteHighlight{{NoteID: args[0], Highlights: svc.HighlightsFor(args[0])}}
		}

		out := cmd.OutOrStdout()
		if hlJSON {
			return codec.Encode(out, codec.JSON, groups)
		}
		for _, g := range groups {
			printHighlights(out, g.NoteID, g.Highlights)
		}
		return nil
	},
}

func printHighlights(out io.Writer, noteID string, highlights []core.Highlight) {
	for _, h := range highlights {
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", noteID, h.ID, h.Color, h.Text)
	}
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	highlightCmd.AddCommand(highlightAddCmd, highlightUpdateCmd, highlightDeleteCmd, highlightListCmd)

	highlightAddCmd.Flags().StringVar(&hlColor, "color", "yellow", "Highlight color")
	highlightAddCmd.Flags().StringVar(&hlSource, "source", "", "Source URL")
	highlightAddCmd.Flags().StringVar(&hlInfo, "info", "", "Annotation")

	highlightUpdateCmd.Flags().StringVar(&upText, "text", "", "New text")
	highlightUpdateCmd.Flags().StringVar(&upColor, "color", "", "New color")
	highlightUpdateCmd.Flags().StringVar(&upSource, "source", "", "New source URL")
	highlightUpdateCmd.Flags().StringVar(&upInfo, "info", "", "New annotation")

	highlightListCmd.Flags().BoolVar(&hlJSON, "json", false, "Output in JSON format")
}
