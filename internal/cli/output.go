package cli

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// renderer writes command results in the configured output format.
type renderer struct {
	w      io.Writer
	format string
}

func newRenderer(w io.Writer, format string) *renderer {
	return &renderer{w: w, format: format}
}

// structured reports whether the output is machine readable (json / yaml).
func (r *renderer) structured() bool {
	return r.format == "json" || r.format == "yaml"
}

// encode writes v as JSON or YAML.
func (r *renderer) encode(v any) error {
	if r.format == "yaml" {
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table renders a go-pretty table filled by fill.
func (r *renderer) table(fill func(t table.Writer)) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	fill(t)
	t.Render()
}

// render encodes v for structured formats and falls back to a table.
func (r *renderer) render(v any, fill func(t table.Writer)) error {
	if r.structured() {
		return r.encode(v)
	}
	r.table(fill)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
