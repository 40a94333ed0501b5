package generate

import (
	"os"
	"path/filepath"

	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/progress"
)

// Writer writes each artifact of a record to its own file under Dir and
// reports one line per written file
type Writer struct {
	Dir     string
	Emitter progress.Emitter
}

// NewWriter returns a writer for dir reporting to emitter
func NewWriter(dir string, emitter progress.Emitter) *Writer {
	if emitter == nil {
		emitter = progress.Discard{}
	}
	return &Writer{Dir: dir, Emitter: emitter}
}

// Write writes every artifact of rec and returns the written paths
func (w *Writer) Write(rec Record) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", w.Dir)
	}

	paths := make([]string, 0, len(rec.Artifacts))
	for _, a := range rec.Artifacts {
		file := rec.FileName(a)
		path := filepath.Join(w.Dir, file)
		if err := os.WriteFile(path, []byte(a.Text), 0644); err != nil {
			return paths, errors.Wrapf(err, "failed to write %s", path)
		}
		w.Emitter.EmitGenerated(file)
		paths = append(paths, path)
	}
	return paths, nil
}

// Observer returns an observer that writes each record as it is produced.
// Write failures are collected and returned by the returned func.
func (w *Writer) Observer() (Observer, func() error) {
	var errs error
	observe := func(rec Record) {
		if _, err := w.Write(rec); err != nil {
			w.Emitter.EmitError("write", err)
			errs = errors.CombineErrors(errs, err)
		}
	}
	return observe, func() error { return errs }
}
