package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-model/inspect"
	"github.com/odvcencio/furry-model/state"
)

type document = map[string]any

type applyOptions struct {
	*options
	format string
	atomic bool
}

func newApplyCmd(opts *options) *cobra.Command {
	apply := &applyOptions{options: opts}
	cmd := &cobra.Command{
		Use:   "apply STATE.yaml PATCH.yaml...",
		Short: "Apply patches to a state document",
		Long: `Each patch is a YAML mapping whose top-level keys replace the state's keys.
Patches run as one transaction each, or as a single transaction with --atomic,
in which case a failing patch leaves the state untouched.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apply.run(cmd, args[0], args[1:])
		},
	}
	cmd.Flags().StringVarP(&apply.format, "format", "f", "yaml", "Output format (yaml, diff, markdown, html)")
	cmd.Flags().BoolVar(&apply.atomic, "atomic", false, "Apply all patches in one transaction")
	return cmd
}

func (a *applyOptions) run(cmd *cobra.Command, statePath string, patchPaths []string) error {
	logger, err := a.logger(cmd)
	if err != nil {
		return err
	}
	initial, err := readDocument(statePath)
	if err != nil {
		return err
	}
	patches := make([]document, 0, len(patchPaths))
	for _, path := range patchPaths {
		patch, err := readDocument(path)
		if err != nil {
			return err
		}
		patches = append(patches, patch)
	}

	commits := 0
	store := state.New(initial,
		state.WithLogger(logger),
		state.WithHooks(state.Hooks{OnCommit: func(state.Commit) { commits++ }}),
	)
	before := store.Current()

	if a.atomic {
		err = store.Update(state.Mutator[document](func(*document) error {
			return applyPatches(store, patchPaths, patches)
		}))
	} else {
		err = applyPatches(store, patchPaths, patches)
	}
	if err != nil {
		return err
	}
	logger.Info("patches applied", "patches", len(patches), "commits", commits, "atomic", a.atomic)

	return a.report(cmd.OutOrStdout(), before, store.Current())
}

// applyPatches runs each patch through the store. Inside an open transaction
// they fold into it.
func applyPatches(store state.Writable[document], paths []string, patches []document) error {
	for i, patch := range patches {
		if err := store.Update(state.Patch[document](patch)); err != nil {
			return fmt.Errorf("apply %s: %w", paths[i], err)
		}
	}
	return nil
}

func (a *applyOptions) report(w io.Writer, before, after document) error {
	switch a.format {
	case "yaml":
		out, err := inspect.YAML(after)
		if err != nil {
			return err
		}
		return a.writeYAML(w, out)
	case "diff", "markdown", "html":
	default:
		return fmt.Errorf("unknown format %q", a.format)
	}

	changes, err := inspect.Diff(before, after)
	if err != nil {
		return err
	}
	switch a.format {
	case "diff":
		_, err = io.WriteString(w, inspect.Text(changes))
	case "markdown":
		_, err = io.WriteString(w, inspect.Markdown(changes))
	default:
		var html string
		if html, err = inspect.HTML(inspect.Markdown(changes)); err == nil {
			_, err = io.WriteString(w, html)
		}
	}
	return err
}
