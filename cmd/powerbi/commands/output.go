package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/powerbi/internal/constants"
)

const (
	yamlIndent = 2
	timeLayout = "2006-01-02 15:04:05"
)

// outputFormat returns the configured output format, table by default.
func outputFormat() string {
	format := viper.GetString("output")
	if format == "" {
		return constants.FormatTable
	}

	return format
}

func validateOutput(format string) error {
	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q (use table, json or yaml)", constants.ErrUnsupportedOutput, format)
	}
}

// renderJSON writes data as indented JSON.
func renderJSON(out io.Writer, data any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// renderYAML writes data as YAML.
func renderYAML(out io.Writer, data any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// ListRenderer renders a resource list in any supported output format.
type ListRenderer[T any] struct {
	Header []string
	Row    func(item T) []string
	// Empty is printed instead of an empty table.
	Empty string
}

// Render writes items to out in the given format.
func (r ListRenderer[T]) Render(out io.Writer, format string, items []T) error {
	switch format {
	case constants.FormatJSON:
		return renderJSON(out, items)
	case constants.FormatYAML:
		return renderYAML(out, items)
	case constants.FormatTable:
	default:
		return validateOutput(format)
	}

	if len(items) == 0 && r.Empty != "" {
		_, _ = fmt.Fprintln(out, r.Empty)

		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header(toCells(r.Header)...)

	for _, item := range items {
		_ = table.Append(toCells(r.Row(item))...)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderObject renders a single value: JSON or YAML as is, otherwise a
// Property/Value table built from rows.
func renderObject(out io.Writer, format string, data any, rows [][2]string) error {
	switch format {
	case constants.FormatJSON:
		return renderJSON(out, data)
	case constants.FormatYAML:
		return renderYAML(out, data)
	case constants.FormatTable:
	default:
		return validateOutput(format)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}

	return cells
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return constants.NotAvailable
	}

	return t.Local().Format(timeLayout)
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
