package serializer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string            `json:"name" yaml:"name"`
	Count int               `json:"count" yaml:"count"`
	Tags  map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func TestWriterJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(FormatJSON, buf)
	defer w.Close()

	require.NoError(t, w.Serialize(t.Context(), sample{Name: "torch", Count: 2}))
	assert.Contains(t, buf.String(), `"name": "torch"`)
	assert.Contains(t, buf.String(), `"count": 2`)
}

func TestWriterYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(FormatYAML, buf)
	defer w.Close()

	require.NoError(t, w.Serialize(t.Context(), sample{Name: "torch", Count: 2}))
	assert.Contains(t, buf.String(), "name: torch")
	assert.Contains(t, buf.String(), "count: 2")
}

func TestWriterTable(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(FormatTable, buf)
	defer w.Close()

	require.NoError(t, w.Serialize(t.Context(), sample{
		Name:  "torch",
		Count: 2,
		Tags:  map[string]string{"suffix": "cu118"},
	}))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "torch")
	assert.Contains(t, out, "Tags.suffix")
	assert.Contains(t, out, "cu118")
}

func TestWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(Format("xml"), buf)
	defer w.Close()

	require.NoError(t, w.Serialize(t.Context(), sample{Name: "torch"}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewFileWriterOrStdout(FormatJSON, path)

	require.NoError(t, w.Serialize(t.Context(), sample{Name: "torch"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "torch"`)
}

func TestSupportedFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{"json", "yaml", "table"}, SupportedFormats())
}
