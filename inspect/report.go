package inspect

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DefaultStyle is the chroma style used when none is given.
const DefaultStyle = "monokai"

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Text renders changes one per line: "+" added, "-" removed, "~" modified.
func Text(changes []Change) string {
	var b strings.Builder
	for _, c := range changes {
		switch c.Kind {
		case Added:
			fmt.Fprintf(&b, "+ %s: %s\n", c.Key, inline(c.New))
		case Removed:
			fmt.Fprintf(&b, "- %s: %s\n", c.Key, inline(c.Old))
		default:
			fmt.Fprintf(&b, "~ %s: %s -> %s\n", c.Key, inline(c.Old), inline(c.New))
		}
	}
	return b.String()
}

// Markdown renders changes as a table.
func Markdown(changes []Change) string {
	if len(changes) == 0 {
		return "_no changes_\n"
	}
	var b strings.Builder
	b.WriteString("| Key | Change | Old | New |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, c := range changes {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(c.Key), c.Kind, value(c.Kind != Added, c.Old), value(c.Kind != Removed, c.New))
	}
	return b.String()
}

// HTML converts markdown, such as a Markdown report, to HTML.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Highlight writes YAML source with terminal colors.
func Highlight(w io.Writer, source, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	if err := quick.Highlight(w, source, "yaml", "terminal256", style); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}

func value(present bool, v any) string {
	if !present {
		return ""
	}
	return "`" + cell(inline(v)) + "`"
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
