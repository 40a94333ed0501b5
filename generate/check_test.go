package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestCompareDirectories_IgnoresSourceVersion(t *testing.T) {
	generated := t.TempDir()
	existing := t.TempDir()

	writeFile(t, generated, "widget.h", "// Source version: abc123\nref class Widget;\n")
	writeFile(t, existing, "widget.h", "// Source version: def456\nref class Widget;\n")

	result, err := CompareDirectories(generated, existing)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.Empty(t, result.Differences)
}

func TestCompareDirectories_DetectsChanges(t *testing.T) {
	generated := t.TempDir()
	existing := t.TempDir()

	writeFile(t, generated, "widget.h", "ref class Widget;\n")
	writeFile(t, existing, "widget.h", "value struct Widget;\n")
	writeFile(t, generated, "widget.cpp", "same\n")
	writeFile(t, existing, "widget.cpp", "same\n")
	writeFile(t, generated, "gadget.h", "new\n")

	result, err := CompareDirectories(generated, existing)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{"widget.h"}, result.Differences)
	assert.Equal(t, []string{"gadget.h"}, result.Missing)
}

func TestCompareDirectories_MissingGeneratedDir(t *testing.T) {
	_, err := CompareDirectories(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.Error(t, err)
}

func TestFilterMetadataLines(t *testing.T) {
	got, err := filterMetadataLines([]byte("a\n  // Source version: 1\nb"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)
}
