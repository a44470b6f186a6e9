package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/powerbi/internal/constants"
)

type outputItem struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

var outputItemRenderer = ListRenderer[outputItem]{
	Header: []string{"Name", "ID"},
	Row: func(item outputItem) []string {
		return []string{item.Name, item.ID}
	},
	Empty: "No items found",
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestListRenderer_Render(t *testing.T) {
	t.Parallel()

	items := []outputItem{{ID: "a1", Name: "Sales"}, {ID: "b2", Name: "Finance"}}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := outputItemRenderer.Render(&buf, constants.FormatJSON, items)
		require.NoError(t, err)

		var decoded []outputItem

		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, items, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := outputItemRenderer.Render(&buf, constants.FormatYAML, items)
		require.NoError(t, err)

		var decoded []outputItem

		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, items, decoded)
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := outputItemRenderer.Render(&buf, constants.FormatTable, items)
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, strings.ToUpper(output), "NAME")
		assert.Contains(t, output, "Sales")
		assert.Contains(t, output, "b2")
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := outputItemRenderer.Render(&buf, constants.FormatTable, nil)
		require.NoError(t, err)
		assert.Equal(t, "No items found\n", buf.String())
	})

	t.Run("empty json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := outputItemRenderer.Render(&buf, constants.FormatJSON, []outputItem{})
		require.NoError(t, err)
		assert.JSONEq(t, "[]", buf.String())
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := outputItemRenderer.Render(&buf, "xml", items)
		require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
		assert.Empty(t, buf.String())
	})
}

func TestRenderObject(t *testing.T) {
	t.Parallel()

	item := outputItem{ID: "a1", Name: "Sales"}
	rows := [][2]string{{"Name", item.Name}, {"ID", item.ID}}

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, renderObject(&buf, constants.FormatTable, item, rows))
		assert.Contains(t, buf.String(), "Sales")
		assert.Contains(t, buf.String(), "a1")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, renderObject(&buf, constants.FormatJSON, item, rows))
		assert.JSONEq(t, `{"id":"a1","name":"Sales"}`, buf.String())
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()

		err := renderObject(&bytes.Buffer{}, "csv", item, rows)
		require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
	})
}

func TestValidateOutput(t *testing.T) {
	t.Parallel()

	for _, format := range []string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML} {
		assert.NoError(t, validateOutput(format))
	}

	err := validateOutput("TABLE")
	require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
	assert.Contains(t, err.Error(), `"TABLE"`)
}

func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constants.NotAvailable, formatTime(nil))
	assert.Equal(t, constants.NotAvailable, formatTime(&time.Time{}))

	moment := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-03-01 09:30:00", formatTime(&moment))

	assert.Equal(t, "yes", formatBool(true))
	assert.Equal(t, "no", formatBool(false))

	assert.Equal(t, constants.NotAvailable, valueOrNotAvailable(""))
	assert.Equal(t, "x", valueOrDefault("x", "y"))
	assert.Equal(t, "y", valueOrDefault("", "y"))
}
