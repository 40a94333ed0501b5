package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cxxbind/config"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/progress"
)

// project copies the widget AST into a fresh directory and writes a project
// config next to it
func project(t *testing.T, toml string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("..", "astio", "testdata", "widget.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ast.yaml"), data, 0644))

	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("[input]\npath = \"ast.yaml\"\n"+toml), 0644))

	cfg, err := config.Load(config.Options{File: path, Home: t.TempDir()})
	require.NoError(t, err)
	return cfg
}

type recorder struct {
	progress.Discard
	generated []string
	warnings  []string
	skipped   []string
	complete  map[string]interface{}
}

func (r *recorder) EmitGenerated(file string)                 { r.generated = append(r.generated, file) }
func (r *recorder) EmitWarning(msg string)                    { r.warnings = append(r.warnings, msg) }
func (r *recorder) EmitSkipped(_, decl string, _ error)       { r.skipped = append(r.skipped, decl) }
func (r *recorder) EmitComplete(summary map[string]interface{}) { r.complete = summary }

func TestRun(t *testing.T) {
	cfg := project(t, "")
	rec := &recorder{}

	res, err := Run(cfg, cfg.OutputDir(), rec)
	require.NoError(t, err)

	require.Len(t, res.Records, 1, "the system header is not generated")
	assert.Equal(t, []string{"widget.h", "widget.cpp"}, res.Files)
	assert.Equal(t, res.Files, rec.generated)
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, rec.skipped, res.Skipped)
	assert.Equal(t, 1, rec.complete["units"])

	header, err := os.ReadFile(filepath.Join(cfg.OutputDir(), "widget.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "namespace Lib")
	assert.Contains(t, string(header), "ref class Widget")
	assert.NotContains(t, string(header), "// Source version:", "the input is not in a git repository")
}

func TestRun_TransformAndLibraryName(t *testing.T) {
	cfg := project(t, `
[library]
name = "Widgets"

[transform]
edits = ["rename-class Widget Gizmo", "enum-from-macros Flags 'WIDGET_.*'"]
`)

	res, err := Run(cfg, cfg.OutputDir(), nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	header, err := os.ReadFile(filepath.Join(cfg.OutputDir(), "widget.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "namespace Widgets")
	assert.Contains(t, string(header), "ref class Gizmo")
	assert.Contains(t, string(header), "enum struct Flags")
	assert.NotContains(t, string(header), "ref class Widget\n")
}

func TestRun_ScriptFile(t *testing.T) {
	cfg := project(t, "[transform]\nscript = \"transform.toml\"\n")
	script := filepath.Join(filepath.Dir(cfg.File), "transform.toml")
	require.NoError(t, os.WriteFile(script, []byte("ignore_units = [\"widget\"]\nunknown = 1\n"), 0644))

	rec := &recorder{}
	res, err := Run(cfg, cfg.OutputDir(), rec)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, rec.generated)
	require.Len(t, rec.warnings, 1)
	assert.Contains(t, rec.warnings[0], "unknown")
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name  string
		toml  string
		setup func(t *testing.T, dir string)
	}{
		{
			name: "missing script",
			toml: "[transform]\nscript = \"nope.toml\"\n",
		},
		{
			name: "bad edit",
			toml: "[transform]\nedits = [\"rename-class OnlyOne\"]\n",
		},
		{
			name: "bad pattern",
			toml: "[transform]\nedits = [\"ignore-unit '(['\"]\n",
		},
		{
			name: "malformed AST",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "ast.yaml"), []byte("units: [\n"), 0644))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := project(t, tt.toml)
			if tt.setup != nil {
				tt.setup(t, filepath.Dir(cfg.File))
			}
			res, err := Run(cfg, cfg.OutputDir(), nil)
			assert.Error(t, err)
			assert.Nil(t, res)
			assert.NoDirExists(t, cfg.OutputDir())
		})
	}
}

func TestRun_InvalidPatternIsMarked(t *testing.T) {
	cfg := project(t, "[transform]\nedits = [\"ignore-unit '(['\"]\n")
	_, err := Run(cfg, cfg.OutputDir(), nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidPattern))
}

func TestCheck(t *testing.T) {
	cfg := project(t, "")

	result, err := Check(cfg, nil)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.ElementsMatch(t, []string{"widget.h", "widget.cpp"}, result.Missing)

	_, err = Run(cfg, cfg.OutputDir(), nil)
	require.NoError(t, err)
	result, err = Check(cfg, nil)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)

	stale := filepath.Join(cfg.OutputDir(), "widget.cpp")
	require.NoError(t, os.WriteFile(stale, []byte("// edited by hand\n"), 0644))
	result, err = Check(cfg, nil)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{"widget.cpp"}, result.Differences)
}
