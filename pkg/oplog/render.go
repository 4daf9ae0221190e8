package oplog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/shelf/pkg/yaml"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")

	AllFormats = []string{
		string(FormatText),
		string(FormatYAML),
		string(FormatJSON),
	}
)

// GetFormat parses an output format name.
func GetFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if slices.Contains([]Format{FormatText, FormatYAML, FormatJSON}, f) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Styles maps entry kinds to the style used for their prefix in text output.
type Styles map[Kind]lipgloss.Style

// DefaultStyles colors prefixes by outcome.
func DefaultStyles() Styles {
	return Styles{
		KindInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		KindPreview: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		KindDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		KindFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		KindSkip:    lipgloss.NewStyle().Faint(true),
		KindItem:    lipgloss.NewStyle(),
	}
}

// Renderer writes a [Log] in one of the supported formats.
type Renderer struct {
	styles Styles
	format Format
}

type RendererOpt func(*Renderer)

// WithStyles enables styled prefixes for text output.
func WithStyles(s Styles) RendererOpt {
	return func(r *Renderer) {
		r.styles = s
	}
}

// NewRenderer creates a new [Renderer] for the given format.
func NewRenderer(format Format, opts ...RendererOpt) *Renderer {
	r := &Renderer{format: format}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render writes l to w.
func (r *Renderer) Render(w io.Writer, l *Log) error {
	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		err := enc.Encode(l.Entries())
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close() //nolint:wrapcheck // Return the original error.

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		entries := l.Entries()
		if entries == nil {
			entries = []Entry{}
		}

		err := enc.Encode(entries)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case FormatText:
		for _, e := range l.Entries() {
			_, err := fmt.Fprintln(w, r.styleLine(e))
			if err != nil {
				return fmt.Errorf("write log line: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
}

func (r *Renderer) styleLine(e Entry) string {
	style, ok := r.styles[e.Kind]
	if !ok {
		return e.String()
	}

	line := e.String()
	if e.Kind == KindItem {
		return line
	}

	prefix := fmt.Sprintf("[%s]", e.Kind)

	return style.Render(prefix) + strings.TrimPrefix(line, prefix)
}
