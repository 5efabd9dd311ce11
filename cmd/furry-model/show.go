package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-model/inspect"
	"github.com/odvcencio/furry-model/state"
)

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show STATE.yaml",
		Short: "Print a state document as the store sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			store := state.New(doc)
			out, err := inspect.YAML(store.Current())
			if err != nil {
				return err
			}
			return opts.writeYAML(cmd.OutOrStdout(), out)
		},
	}
}
