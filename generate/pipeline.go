// Package generate drives per-unit generation over a frozen library.
//
// The pipeline iterates translation units in library order, skips units that
// are ignored, empty or system headers, asks the backend for artifacts and
// notifies observers once per produced record. A unit that fails is omitted
// and its error is combined into the run's error; the run itself always
// completes.
package generate

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/edit"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// UnitSkipReason says why a unit produced no record
type UnitSkipReason string

const (
	SkipIgnored      UnitSkipReason = "ignored"
	SkipEmpty        UnitSkipReason = "no declarations"
	SkipSystemHeader UnitSkipReason = "system header"
)

// Pipeline runs a backend over every eligible unit
type Pipeline struct {
	backend   Backend
	observers []Observer
	newRunID  func() string
	log       *zap.SugaredLogger
}

// New creates a pipeline for backend
func New(backend Backend) *Pipeline {
	return &Pipeline{
		backend:  backend,
		newRunID: func() string { return uuid.New().String() },
		log:      logger.Named("generate"),
	}
}

// OnUnitGenerated registers an observer called once per record
func (p *Pipeline) OnUnitGenerated(o Observer) {
	p.observers = append(p.observers, o)
}

// UnitSkip reports whether unit must be skipped and why
func UnitSkip(unit *ast.TranslationUnit) (UnitSkipReason, bool) {
	switch {
	case unit.IsIgnored():
		return SkipIgnored, true
	case !unit.HasDeclarations():
		return SkipEmpty, true
	case unit.IsSystemHeader:
		return SkipSystemHeader, true
	}
	return "", false
}

// Generate runs the backend over snap. Records are returned in unit order.
// The returned error combines every unit failure; records for the other
// units are still returned.
func (p *Pipeline) Generate(snap *edit.Snapshot) ([]Record, error) {
	if snap == nil {
		return nil, errors.AssertionFailedf("generate: nil snapshot")
	}

	runID := p.newRunID()
	log := p.log.With(logger.FieldRunID, runID, logger.FieldLibrary, snap.Name())
	start := time.Now()

	var records []Record
	var runErr error

	for _, unit := range snap.Units() {
		if reason, skip := UnitSkip(unit); skip {
			log.Debugw("Skipping unit",
				logger.FieldUnit, unit.FilePath,
				logger.FieldReason, string(reason))
			continue
		}

		out, err := p.backend.Generate(unit)
		if err == nil {
			err = p.checkArity(out)
		}
		if err != nil {
			log.Errorw("Unit generation failed",
				logger.FieldUnit, unit.FilePath,
				logger.FieldError, err)
			runErr = errors.CombineErrors(runErr, errors.Wrapf(err, "unit %s", unit.FilePath))
			continue
		}
		if out == nil || len(out.Artifacts) == 0 {
			log.Debugw("Backend produced nothing for unit", logger.FieldUnit, unit.FilePath)
			continue
		}

		for _, s := range out.Skipped {
			log.Infow("Skipped declaration",
				logger.FieldUnit, unit.FilePath,
				logger.FieldDecl, s.Decl,
				logger.FieldError, s.Err)
		}

		rec := Record{
			RunID:     runID,
			Unit:      unit,
			Artifacts: out.Artifacts,
			Skipped:   out.Skipped,
		}
		records = append(records, rec)

		log.Infow("Generated unit",
			logger.FieldUnit, unit.FilePath,
			logger.FieldCount, len(rec.Artifacts))
		for _, o := range p.observers {
			o(rec)
		}
	}

	log.Infow("Generation finished",
		logger.FieldCount, len(records),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return records, runErr
}

func (p *Pipeline) checkArity(out *UnitOutput) error {
	if out == nil || len(out.Artifacts) == 0 {
		return nil
	}
	if got, want := len(out.Artifacts), p.backend.Arity(); got != want {
		return errors.AssertionFailedf("backend %s produced %d artifacts, arity is %d",
			p.backend.Name(), got, want)
	}
	return nil
}
