package main

import (
	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep"
	"github.com/aretw0/notekeep/pkg/codec"
)

var stateFormat string

type componentState struct {
	Type  string `json:"type" yaml:"type"`
	State any    `json:"state" yaml:"state"`
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the internal state of the store and its adapter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, err := codec.ParseFormat(stateFormat)
		if err != nil {
			return err
		}

		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		store, err := notekeep.OpenStore(cmd.Context(), dir, notekeep.WithAdapter(resolveAdapter()))
		if err != nil {
			return err
		}
		svc, err := openService(cmd, notekeep.WithStore(store))
		if err != nil {
			return err
		}
		defer closeService(cmd, svc, &err)

		report := []componentState{{Type: svc.ComponentType(), State: svc.State()}}
		if intro, ok := store.(introspection.Introspectable); ok {
			st := componentState{Type: "store", State: intro.State()}
			if comp, ok := store.(introspection.Component); ok {
				st.Type = comp.ComponentType()
			}
			report = append(report, st)
		}

		return codec.Encode(cmd.OutOrStdout(), format, report)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().StringVarP(&stateFormat, "format", "f", string(codec.JSON), "Output format: json or yaml")
}
