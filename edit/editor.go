// Package edit is the pre-generation toolkit for massaging the AST:
// find-by-name, rename, force-ignore, class category coercion and enum
// synthesis from macro sets.
//
// An Editor owns the library during the pre-pass. Freeze ends the pre-pass
// and returns a read-only Snapshot, which is the only thing the generator
// pipeline accepts; the editor refuses every call after that.
//
// Lookups scan translation units in library order and the first match wins.
// A helper whose target does not exist does nothing. Only invalid regular
// expressions are reported as errors.
package edit

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// Editor mutates a library before generation
type Editor struct {
	lib      *ast.Library
	frozen   bool
	warnings []Warning
	log      *zap.SugaredLogger
}

// New returns an editor owning lib
func New(lib *ast.Library) *Editor {
	return &Editor{
		lib: lib,
		log: logger.Named("edit"),
	}
}

func (e *Editor) mustBeEditable() {
	if e.frozen {
		panic(errors.AssertionFailedf("edit: editor used after Freeze"))
	}
}

// Library returns the library being edited
func (e *Editor) Library() *ast.Library {
	e.mustBeEditable()
	return e.lib
}

// Warnings returns the degradations recorded so far
func (e *Editor) Warnings() []Warning {
	return append([]Warning(nil), e.warnings...)
}

// Freeze ends the pre-pass. The editor must not be used afterwards.
func (e *Editor) Freeze() *Snapshot {
	e.mustBeEditable()
	e.frozen = true
	return &Snapshot{lib: e.lib, warnings: e.Warnings()}
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewInvalidPatternError(pattern, err)
	}
	return re, nil
}

// =============================================================================
// Enums
// =============================================================================

// FindEnum returns the first enum named name, or nil
func (e *Editor) FindEnum(name string) *ast.Enumeration {
	e.mustBeEditable()
	for _, unit := range e.lib.Units {
		if found := unit.FindEnum(name); found != nil {
			return found
		}
	}
	return nil
}

// GetEnumWithMatchingItem returns the first enum, across all units, holding an
// item whose name matches pattern
func (e *Editor) GetEnumWithMatchingItem(pattern string) (*ast.Enumeration, error) {
	e.mustBeEditable()
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	for _, unit := range e.lib.Units {
		if found := unit.FindEnumWithItem(re); found != nil {
			return found, nil
		}
	}
	return nil, nil
}

// IgnoreEnumWithName ignores the first enum named name
func (e *Editor) IgnoreEnumWithName(name string) {
	if found := e.FindEnum(name); found != nil {
		found.Ignore()
	}
}

// IgnoreEnumWithMatchingItem ignores the first enum with an item matching pattern
func (e *Editor) IgnoreEnumWithMatchingItem(pattern string) error {
	found, err := e.GetEnumWithMatchingItem(pattern)
	if found != nil {
		found.Ignore()
	}
	return err
}

// SetNameOfEnumWithName renames the first enum named enumName
func (e *Editor) SetNameOfEnumWithName(enumName, name string) {
	if found := e.FindEnum(enumName); found != nil {
		found.Name = name
	}
}

// SetNameOfEnumWithMatchingItem renames the first enum with an item matching pattern
func (e *Editor) SetNameOfEnumWithMatchingItem(pattern, name string) error {
	found, err := e.GetEnumWithMatchingItem(pattern)
	if found != nil {
		found.Name = name
	}
	return err
}

// =============================================================================
// Classes
// =============================================================================

// FindClass returns the first class named name, or nil
func (e *Editor) FindClass(name string) *ast.Class {
	e.mustBeEditable()
	for _, unit := range e.lib.Units {
		if found := unit.FindClass(name); found != nil {
			return found
		}
	}
	return nil
}

// IgnoreClassWithName ignores the first class named name
func (e *Editor) IgnoreClassWithName(name string) {
	if found := e.FindClass(name); found != nil {
		found.Ignore()
	}
}

// SetClassBindName renames the first class named className
func (e *Editor) SetClassBindName(className, name string) {
	if found := e.FindClass(className); found != nil {
		found.Name = name
	}
}

// SetClassAsValueType gives the first class named className value semantics
func (e *Editor) SetClassAsValueType(className string) {
	if found := e.FindClass(className); found != nil {
		found.Category = ast.ValueType
	}
}

// IgnoreClassMethodWithName ignores the first method named name of the first
// class named className
func (e *Editor) IgnoreClassMethodWithName(className, name string) {
	class := e.FindClass(className)
	if class == nil {
		return
	}
	if m := class.FindMethod(name); m != nil {
		m.Ignore()
	}
}

// =============================================================================
// Functions
// =============================================================================

// FindFunction returns the first free function named name, or nil
func (e *Editor) FindFunction(name string) *ast.Function {
	e.mustBeEditable()
	for _, unit := range e.lib.Units {
		if found := unit.FindFunction(name); found != nil {
			return found
		}
	}
	return nil
}

// IgnoreFunctionWithName ignores the first free function named name
func (e *Editor) IgnoreFunctionWithName(name string) {
	if found := e.FindFunction(name); found != nil {
		found.Ignore()
	}
}

// =============================================================================
// Translation units
// =============================================================================

// IgnoreTranslationUnitsMatching ignores every unit whose file path matches
// pattern and returns how many matched
func (e *Editor) IgnoreTranslationUnitsMatching(pattern string) (int, error) {
	e.mustBeEditable()
	re, err := compile(pattern)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, unit := range e.lib.Units {
		if re.MatchString(unit.FilePath) {
			unit.Ignore()
			count++
		}
	}
	e.log.Debugw("Ignored translation units",
		logger.FieldPattern, pattern,
		logger.FieldCount, count)
	return count, nil
}
