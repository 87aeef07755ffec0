package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// OutputFormat is a --output value.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (must be one of: text, json, yaml)", s)
	}
}

// Formatter writes command output in one format.
type Formatter interface {
	PrintSuccess(message string) error
	PrintError(message string) error
	PrintTable(headers []string, rows [][]string) error
	// PrintData writes a structured value. Text output falls back to JSON.
	PrintData(data any) error
}

// NewFormatter returns the formatter for format, writing to w (stdout when nil).
func NewFormatter(format OutputFormat, w io.Writer) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(w)
	case FormatYAML:
		return NewYAMLFormatter(w)
	default:
		return NewTextFormatter(w)
	}
}

func orStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

// TextFormatter prints styled lines and aligned tables.
type TextFormatter struct {
	out   io.Writer
	theme *Theme
}

func NewTextFormatter(w io.Writer) *TextFormatter {
	w = orStdout(w)
	return &TextFormatter{out: w, theme: NewTheme(w)}
}

// Theme returns the styles bound to the formatter's writer.
func (f *TextFormatter) Theme() *Theme { return f.theme }

func (f *TextFormatter) PrintSuccess(message string) error {
	return f.line(f.theme.Success.Render("✓ " + message))
}

func (f *TextFormatter) PrintError(message string) error {
	return f.line(f.theme.Danger.Render("✗ " + message))
}

func (f *TextFormatter) line(s string) error {
	_, err := fmt.Fprintln(f.out, s)
	return err
}

// PrintTable aligns columns under upper-cased headers and a dashed rule.
func (f *TextFormatter) PrintTable(headers []string, rows [][]string) error {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	upper := make([]string, len(headers))
	rule := make([]string, len(headers))
	for col, h := range headers {
		upper[col] = strings.ToUpper(h)
		rule[col] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(upper, "\t"))
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(f.out, b.String())
	return err
}

func (f *TextFormatter) PrintData(data any) error {
	return encodeJSON(f.out, data)
}

// structured backs the machine-readable formats: every call becomes one
// encoded document.
type structured struct {
	out    io.Writer
	encode func(io.Writer, any) error
}

func (s structured) PrintSuccess(message string) error {
	return s.PrintData(statusDoc{Status: "success", Message: message})
}

func (s structured) PrintError(message string) error {
	return s.PrintData(statusDoc{Status: "error", Message: message})
}

func (s structured) PrintTable(headers []string, rows [][]string) error {
	return s.PrintData(tableData(headers, rows))
}

func (s structured) PrintData(data any) error {
	return s.encode(s.out, data)
}

type statusDoc struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSONFormatter writes indented JSON documents.
type JSONFormatter struct{ structured }

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{structured{out: orStdout(w), encode: encodeJSON}}
}

// YAMLFormatter writes YAML documents.
type YAMLFormatter struct{ structured }

func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{structured{out: orStdout(w), encode: encodeYAML}}
}

// tableData keys every row by header; short rows are padded with "".
func tableData(headers []string, rows [][]string) []map[string]string {
	out := make([]map[string]string, len(rows))
	for n, r := range rows {
		m := make(map[string]string, len(headers))
		for col, h := range headers {
			m[h] = ""
			if col < len(r) {
				m[h] = r[col]
			}
		}
		out[n] = m
	}
	return out
}

func encodeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// encodeYAML goes through JSON first so json tags and custom JSON
// marshalers decide field names and value encoding.
func encodeYAML(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
