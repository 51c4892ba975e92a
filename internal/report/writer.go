package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gocarina/gocsv"
)

// Format specifies the output format of a report
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type Options struct {
	Color bool // text format only
}

// Write renders the table in the given format.
func Write(w io.Writer, t *Table, format Format, opts Options) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatText:
		return WriteText(w, t, opts)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Save writes the report to path, creating parent directories.
func Save(path string, t *Table, format Format, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, t, format, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the flat rows with a header; failures and details are not part of CSV output.
func WriteCSV(w io.Writer, t *Table) error {
	if len(t.Rows) == 0 {
		_, err := io.WriteString(w, strings.Join(Columns, ",")+"\n")
		return err
	}
	return gocsv.Marshal(t.Rows, w)
}

func WriteJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteText writes an aligned table followed by any skipped files.
func WriteText(w io.Writer, t *Table, opts Options) error {
	header := color.New(color.Bold)
	pos := color.New(color.FgGreen)
	neg := color.New(color.FgRed)
	warn := color.New(color.FgYellow)
	if opts.Color {
		for _, c := range []*color.Color{header, pos, neg, warn} {
			c.EnableColor()
		}
	} else {
		for _, c := range []*color.Color{header, pos, neg, warn} {
			c.DisableColor()
		}
	}

	widths := make([]int, len(Columns))
	for i, c := range Columns {
		widths[i] = len(c)
	}
	for _, r := range t.Rows {
		for i, v := range r.values() {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}

	var sb strings.Builder
	for i, c := range Columns {
		sb.WriteString(header.Sprint(pad(c, widths[i], i)))
		sb.WriteString(sep(i))
	}
	total := 0
	for _, wd := range widths {
		total += wd + 2
	}
	sb.WriteString(strings.Repeat("-", total-2) + "\n")

	for _, r := range t.Rows {
		for i, v := range r.values() {
			cell := pad(v, widths[i], i)
			if Columns[i] == "net_alpha" {
				switch {
				case strings.HasPrefix(v, "-"):
					cell = neg.Sprint(cell)
				case v != "0.00":
					cell = pos.Sprint(cell)
				}
			}
			sb.WriteString(cell)
			sb.WriteString(sep(i))
		}
	}

	if len(t.Failures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(warn.Sprintf("SKIPPED FILES: %d", len(t.Failures)))
		sb.WriteString("\n")
		for _, f := range t.Failures {
			sb.WriteString(fmt.Sprintf("  #%d %s (%s): %s\n", f.Index, f.Filename, f.Kind, f.Error))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// pad fills every column but the last to width.
func pad(s string, width, col int) string {
	if col == len(Columns)-1 || len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func sep(i int) string {
	if i == len(Columns)-1 {
		return "\n"
	}
	return "  "
}
