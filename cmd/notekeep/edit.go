package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/core"
)

var (
	editTitle     string
	editContent   string
	editThumbnail string
	editTouch     bool
	editNoDrawing bool
)

// editCmd applies a partial update. Only the flags that are set change.
var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Update fields of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id := args[0]
		flags := cmd.Flags()

		var patch core.NotePatch
		if flags.Changed("title") {
			patch.Title = &editTitle
		}
		if flags.Changed("content") {
			patch.Content = &editContent
		}
		if flags.Changed("thumbnail") {
			patch.DrawingThumbnail = &editThumbnail
		}
		if editNoDrawing {
			patch.SetPaths = true
			patch.Paths = []core.PathData{}
			patch.HasDrawing = core.Ptr(false)
			patch.DrawingThumbnail = core.Ptr("")
		}
		if editTouch {
			patch.UpdatedAt = core.Ptr(time.Now().UTC())
		}

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		if !svc.UpdateNote(id, patch) {
			return notFound("note", id)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' updated.\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringVar(&editThumbnail, "thumbnail", "", "Drawing thumbnail (data URL)")
	editCmd.Flags().BoolVar(&editTouch, "touch", false, "Set updatedAt to now")
	editCmd.Flags().BoolVar(&editNoDrawing, "clear-drawing", false, "Remove the drawing")
}
