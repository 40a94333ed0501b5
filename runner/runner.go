// Package runner performs one complete generation run: load the AST
// document, apply the transform, freeze the library, then generate and
// write every retained unit.
package runner

import (
	"os"
	"strconv"

	"github.com/teranos/cxxbind/astio"
	"github.com/teranos/cxxbind/backend/cli"
	"github.com/teranos/cxxbind/config"
	"github.com/teranos/cxxbind/edit"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/generate"
	"github.com/teranos/cxxbind/logger"
	"github.com/teranos/cxxbind/progress"
	"github.com/teranos/cxxbind/provenance"
	"github.com/teranos/cxxbind/transform"
	"github.com/teranos/cxxbind/typemap"
	"github.com/teranos/cxxbind/typemap/std"
	"github.com/teranos/cxxbind/typeprint"
)

// Result summarizes a run
type Result struct {
	RunID    string
	Records  []generate.Record
	Files    []string
	Skipped  int
	Warnings []string
}

// Summary is the map handed to the emitter when the run completes
func (r *Result) Summary() map[string]interface{} {
	return map[string]interface{}{
		"run_id":   r.RunID,
		"units":    len(r.Records),
		"files":    len(r.Files),
		"skipped":  r.Skipped,
		"warnings": len(r.Warnings),
	}
}

// Run generates bindings for cfg into outDir. Unit failures do not stop
// the run; they are combined into the returned error next to a Result
// describing what was written.
func Run(cfg *config.Config, outDir string, emitter progress.Emitter) (*Result, error) {
	if emitter == nil {
		emitter = progress.Discard{}
	}
	input := cfg.InputPath()

	emitter.EmitStage("load", input)
	lib, err := astio.Load(input)
	if err != nil {
		return nil, errors.Wrap(err, "load AST")
	}
	if cfg.Library.Name != "" {
		lib.Name = cfg.Library.Name
	}

	script, err := loadScript(cfg)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	for _, w := range script.Warnings() {
		res.Warnings = append(res.Warnings, w)
		emitter.EmitWarning(w)
	}

	emitter.EmitStage("transform", pluralEdits(len(script.Edits())))
	ed := edit.New(lib)
	if err := script.Apply(ed); err != nil {
		return nil, errors.Wrap(err, "transform")
	}
	snap := ed.Freeze()
	for _, w := range snap.Warnings() {
		res.Warnings = append(res.Warnings, w.String())
		emitter.EmitWarning(w.String())
	}

	backend, err := newBackend(lib.Name, script, input)
	if err != nil {
		return nil, err
	}

	emitter.EmitStage("generate", outDir)
	pipeline := generate.New(backend)
	writer := generate.NewWriter(outDir, emitter)
	write, writeErrs := writer.Observer()
	pipeline.OnUnitGenerated(write)
	pipeline.OnUnitGenerated(func(rec generate.Record) {
		res.RunID = rec.RunID
		for _, a := range rec.Artifacts {
			res.Files = append(res.Files, rec.FileName(a))
		}
		for _, s := range rec.Skipped {
			res.Skipped++
			emitter.EmitSkipped(rec.Unit.FilePath, s.Decl, s.Err)
		}
	})

	records, genErr := pipeline.Generate(snap)
	res.Records = records

	runErr := errors.CombineErrors(genErr, writeErrs())
	if runErr != nil {
		emitter.EmitError("generate", runErr)
	}
	emitter.EmitComplete(res.Summary())
	return res, runErr
}

func loadScript(cfg *config.Config) (*transform.Script, error) {
	script := transform.Empty()
	if path := cfg.ScriptPath(); path != "" {
		var err error
		if script, err = transform.Load(path); err != nil {
			return nil, err
		}
	}
	if err := script.AddEdits(cfg.Transform.Edits...); err != nil {
		return nil, errors.Wrap(err, "transform.edits")
	}
	return script, nil
}

func newBackend(libraryName string, script *transform.Script, input string) (*cli.Backend, error) {
	overrides, err := script.TypeMapEntries()
	if err != nil {
		return nil, errors.Wrap(err, "transform typemaps")
	}
	// Script typemaps come second so a duplicate name is reported against them
	reg, err := typemap.Build(std.Entries(), overrides)
	if err != nil {
		return nil, err
	}

	sourceVersion, err := provenance.SourceVersion(input)
	if err != nil {
		logger.Warnw("Source version unavailable", logger.FieldFile, input, logger.FieldError, err.Error())
		sourceVersion = ""
	}

	return cli.New(typeprint.NewPrinter(libraryName, reg), sourceVersion)
}

func pluralEdits(n int) string {
	if n == 1 {
		return "1 edit"
	}
	return strconv.Itoa(n) + " edits"
}

// Check generates into a scratch directory and compares the result with
// the committed output in cfg's output directory. A run with unit failures
// is an error; stale output is reported in the result.
func Check(cfg *config.Config, emitter progress.Emitter) (*generate.CheckResult, error) {
	dir, err := os.MkdirTemp("", "cxxbind-check-")
	if err != nil {
		return nil, errors.Wrap(err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	if _, err := Run(cfg, dir, emitter); err != nil {
		return nil, err
	}
	return generate.CompareDirectories(dir, cfg.OutputDir())
}
