package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/furry-model/inspect"
	"github.com/odvcencio/furry-model/internal/logging"
)

type options struct {
	logLevel string
	color    bool
	style    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "furry-model",
		Short:        "Apply patches to a state document",
		Long:         `furry-model loads a YAML state document into a store, applies YAML patches as transactions and prints the outcome.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.color, "color", false, "Highlight YAML output")
	root.PersistentFlags().StringVar(&opts.style, "style", inspect.DefaultStyle, "Highlight style")

	root.AddCommand(newApplyCmd(opts), newShowCmd(opts))
	return root
}

func (o *options) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.logLevel, err)
	}
	return logging.NewWriter(cmd.ErrOrStderr(), level), nil
}

// writeYAML writes source, highlighted when --color is set.
func (o *options) writeYAML(w io.Writer, source string) error {
	if o.color {
		return inspect.Highlight(w, source, o.style)
	}
	_, err := io.WriteString(w, source)
	return err
}

// readDocument loads a YAML mapping. An empty document yields an empty map.
func readDocument(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
