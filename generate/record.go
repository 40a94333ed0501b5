package generate

import (
	"github.com/teranos/cxxbind/ast"
)

// Artifact is one rendered output file for a unit
type Artifact struct {
	// Extension is the file extension without the dot, e.g. "h"
	Extension string
	Text      string
}

// Skip is a declaration the backend dropped because it could not be translated
type Skip struct {
	// Decl is the qualified native name of the declaration
	Decl string
	Err  error
}

// UnitOutput is what a backend produces for one unit
type UnitOutput struct {
	Artifacts []Artifact
	Skipped   []Skip
}

// Record is the output of one retained translation unit
type Record struct {
	RunID     string
	Unit      *ast.TranslationUnit
	Artifacts []Artifact
	Skipped   []Skip
}

// FileName returns the output file name of a: <source basename>.<extension>
func (r Record) FileName(a Artifact) string {
	return r.Unit.BaseName() + "." + a.Extension
}

// Backend renders one translation unit into artifacts.
//
// Arity is the fixed number of artifacts per unit. A backend that produces
// no artifacts for a unit causes the unit to be omitted.
type Backend interface {
	Name() string
	Arity() int
	Generate(unit *ast.TranslationUnit) (*UnitOutput, error)
}

// Observer is notified once per generated record, in unit order
type Observer func(Record)
