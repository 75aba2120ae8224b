package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/render"
)

var (
	renderPretty bool
	renderMatch  string
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render notes to a Markdown document",
	Long: `Render writes notes to one Markdown file with YAML frontmatter per note.
The default file is notes_export_YYYY-MM-DD.md in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		notes, err := svc.FindNotes(renderMatch)
		if err != nil {
			return err
		}

		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		md := &render.Markdown{Dir: wd, Pretty: renderPretty}
		if len(args) == 1 {
			md.Path = args[0]
		}

		var renderer render.Renderer = md
		path, err := renderer.Render(cmd.Context(), notes)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d notes to %s\n", len(notes), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderPretty, "pretty", false, "Add headings for the document and each note")
	renderCmd.Flags().StringVar(&renderMatch, "match", "", "Only render notes whose title matches a glob")
}
