package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/codec"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/search"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search highlights",
	Long:  `Search all highlights for a case-insensitive substring. Results are ranked by match position.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		var searcher search.Searcher = search.Substring{}
		results, err := searcher.Search(cmd.Context(), args[0], svc.AllHighlights())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchJSON {
			if results == nil {
				results = []core.Highlight{}
			}
			return codec.Encode(out, codec.JSON, results)
		}
		for _, h := range results {
			fmt.Fprintf(out, "%s\t%s\n", h.ID, h.Text)
			if h.AIInfo != "" {
				fmt.Fprintf(out, "\t%s\n", h.AIInfo)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
