package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/edit"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/progress"
)

// =============================================================================
// Test helpers
// =============================================================================

type fakeBackend struct {
	arity int
	calls []string
}

func (b *fakeBackend) Name() string { return "fake" }
func (b *fakeBackend) Arity() int   { return b.arity }

func (b *fakeBackend) Generate(unit *ast.TranslationUnit) (*UnitOutput, error) {
	b.calls = append(b.calls, unit.FileName)
	switch {
	case strings.HasPrefix(unit.FileName, "broken"):
		return nil, errors.New("template exploded")
	case strings.HasPrefix(unit.FileName, "nothing"):
		return &UnitOutput{}, nil
	case strings.HasPrefix(unit.FileName, "lopsided"):
		return &UnitOutput{Artifacts: []Artifact{{Extension: "h", Text: "x"}}}, nil
	}
	return &UnitOutput{
		Artifacts: []Artifact{
			{Extension: "h", Text: "// header " + unit.FileName + "\n"},
			{Extension: "cpp", Text: "// source " + unit.FileName + "\n"},
		},
		Skipped: []Skip{{Decl: "ns::skipped", Err: errors.Unsupported("member pointer", "ns::skipped")}},
	}, nil
}

func unitWithClass(path string) *ast.TranslationUnit {
	u := ast.NewTranslationUnit(path)
	u.AddDeclaration(&ast.Class{DeclBase: ast.DeclBase{Name: "C"}})
	return u
}

func freeze(units ...*ast.TranslationUnit) *edit.Snapshot {
	lib := ast.NewLibrary("Lib")
	for _, u := range units {
		lib.AddUnit(u)
	}
	return edit.New(lib).Freeze()
}

func fixedRunID(p *Pipeline) {
	p.newRunID = func() string { return "run-1" }
}

// =============================================================================
// Pipeline
// =============================================================================

func TestGenerate_SkipsAndPreservesOrder(t *testing.T) {
	ignored := unitWithClass("ignored.h")
	ignored.Ignore()
	system := unitWithClass("/usr/include/stdio.h")
	system.IsSystemHeader = true
	empty := ast.NewTranslationUnit("empty.h")

	snap := freeze(
		unitWithClass("a.h"),
		ignored,
		unitWithClass("b.h"),
		system,
		empty,
		unitWithClass("c.hpp"),
	)

	backend := &fakeBackend{arity: 2}
	p := New(backend)
	fixedRunID(p)

	records, err := p.Generate(snap)
	require.NoError(t, err)

	// N=6 units, M=3 skipped
	require.Len(t, records, 3)
	var names []string
	for _, r := range records {
		names = append(names, r.Unit.FileName)
		assert.Len(t, r.Artifacts, backend.Arity())
		assert.Equal(t, "run-1", r.RunID)
	}
	assert.Equal(t, []string{"a.h", "b.h", "c.hpp"}, names)
	assert.Equal(t, []string{"a.h", "b.h", "c.hpp"}, backend.calls, "skipped units never reach the backend")
}

func TestGenerate_ObserverCalledOncePerRecord(t *testing.T) {
	snap := freeze(unitWithClass("a.h"), unitWithClass("b.h"))
	p := New(&fakeBackend{arity: 2})

	var first, second []string
	p.OnUnitGenerated(func(r Record) { first = append(first, r.Unit.FileName) })
	p.OnUnitGenerated(func(r Record) { second = append(second, r.Unit.FileName) })

	records, err := p.Generate(snap)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a.h", "b.h"}, first)
	assert.Equal(t, first, second)
}

func TestGenerate_UnitFailuresDoNotAbortTheRun(t *testing.T) {
	snap := freeze(
		unitWithClass("a.h"),
		unitWithClass("broken.h"),
		unitWithClass("lopsided.h"),
		unitWithClass("b.h"),
	)
	p := New(&fakeBackend{arity: 2})

	var observed int
	p.OnUnitGenerated(func(Record) { observed++ })

	records, err := p.Generate(snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.h")
	assert.Contains(t, err.Error(), "template exploded")

	require.Len(t, records, 2)
	assert.Equal(t, "a.h", records[0].Unit.FileName)
	assert.Equal(t, "b.h", records[1].Unit.FileName)
	assert.Equal(t, 2, observed, "failed units are not observed")
}

func TestGenerate_ArityMismatchIsAnError(t *testing.T) {
	p := New(&fakeBackend{arity: 2})
	_, err := p.Generate(freeze(unitWithClass("lopsided.h")))
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestGenerate_EmptyOutputOmitsUnit(t *testing.T) {
	p := New(&fakeBackend{arity: 2})

	records, err := p.Generate(freeze(unitWithClass("nothing.h"), unitWithClass("a.h")))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a.h", records[0].Unit.FileName)
}

func TestGenerate_CarriesSkippedDeclarations(t *testing.T) {
	p := New(&fakeBackend{arity: 2})
	records, err := p.Generate(freeze(unitWithClass("a.h")))
	require.NoError(t, err)

	require.Len(t, records[0].Skipped, 1)
	assert.Equal(t, "ns::skipped", records[0].Skipped[0].Decl)
	assert.True(t, errors.IsUnsupported(records[0].Skipped[0].Err))
}

func TestGenerate_NewRunIDPerRun(t *testing.T) {
	snap := freeze(unitWithClass("a.h"))
	p := New(&fakeBackend{arity: 2})

	first, err := p.Generate(snap)
	require.NoError(t, err)
	second, err := p.Generate(snap)
	require.NoError(t, err)

	assert.NotEmpty(t, first[0].RunID)
	assert.NotEqual(t, first[0].RunID, second[0].RunID)
}

func TestGenerate_NilSnapshot(t *testing.T) {
	_, err := New(&fakeBackend{arity: 2}).Generate(nil)
	assert.Error(t, err)
}

func TestUnitSkip(t *testing.T) {
	u := unitWithClass("a.h")
	_, skip := UnitSkip(u)
	assert.False(t, skip)

	u.IsSystemHeader = true
	reason, skip := UnitSkip(u)
	assert.True(t, skip)
	assert.Equal(t, SkipSystemHeader, reason)

	u.Ignore()
	reason, _ = UnitSkip(u)
	assert.Equal(t, SkipIgnored, reason, "ignored is reported first")

	reason, _ = UnitSkip(ast.NewTranslationUnit("e.h"))
	assert.Equal(t, SkipEmpty, reason)
}

// =============================================================================
// Writer
// =============================================================================

type recordingEmitter struct {
	progress.Discard
	generated []string
}

func (r *recordingEmitter) EmitGenerated(file string) { r.generated = append(r.generated, file) }

func TestRecordFileName(t *testing.T) {
	rec := Record{Unit: ast.NewTranslationUnit("include/widget.hpp")}
	assert.Equal(t, "widget.h", rec.FileName(Artifact{Extension: "h"}))
	assert.Equal(t, "widget.cpp", rec.FileName(Artifact{Extension: "cpp"}))
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	emitter := &recordingEmitter{}
	w := NewWriter(dir, emitter)

	rec := Record{
		Unit: ast.NewTranslationUnit("include/widget.h"),
		Artifacts: []Artifact{
			{Extension: "h", Text: "header"},
			{Extension: "cpp", Text: "source"},
		},
	}

	paths, err := w.Write(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "widget.h"), filepath.Join(dir, "widget.cpp")}, paths)
	assert.Equal(t, []string{"widget.h", "widget.cpp"}, emitter.generated, "one line per file")

	content, err := os.ReadFile(filepath.Join(dir, "widget.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "source", string(content))
}

func TestWriter_Observer(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	p := New(&fakeBackend{arity: 2})
	observe, written := w.Observer()
	p.OnUnitGenerated(observe)

	_, err := p.Generate(freeze(unitWithClass("a.h"), unitWithClass("b.h")))
	require.NoError(t, err)
	require.NoError(t, written())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestWriter_ObserverCollectsFailures(t *testing.T) {
	// A file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	w := NewWriter(blocker, nil)
	observe, written := w.Observer()
	observe(Record{Unit: ast.NewTranslationUnit("a.h"), Artifacts: []Artifact{{Extension: "h"}}})

	assert.Error(t, written())
}
