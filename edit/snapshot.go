package edit

import (
	"github.com/teranos/cxxbind/ast"
)

// Snapshot is the read-only view of a library after the pre-pass.
// It can only be obtained from Editor.Freeze.
type Snapshot struct {
	lib      *ast.Library
	warnings []Warning
}

// Library returns the frozen library. Callers must not mutate it.
func (s *Snapshot) Library() *ast.Library {
	return s.lib
}

// Name returns the library name
func (s *Snapshot) Name() string {
	return s.lib.Name
}

// Units returns the translation units in library order
func (s *Snapshot) Units() []*ast.TranslationUnit {
	return s.lib.Units
}

// Warnings returns the degradations recorded during the pre-pass
func (s *Snapshot) Warnings() []Warning {
	return s.warnings
}
