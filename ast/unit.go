package ast

import (
	"path/filepath"
	"regexp"
	"strings"
)

// TranslationUnit is one native source file's worth of declarations and macros
type TranslationUnit struct {
	FilePath       string
	FileName       string
	IsSystemHeader bool
	Library        *Library

	// Declarations holds every top-level declaration other than enums, in source order
	Declarations []Decl
	Enums        []*Enumeration
	Macros       []*MacroDefinition

	ignored bool
}

// NewTranslationUnit returns a unit whose FileName is derived from path
func NewTranslationUnit(path string) *TranslationUnit {
	return &TranslationUnit{
		FilePath: path,
		FileName: filepath.Base(path),
	}
}

// IsIgnored reports whether the unit was excluded from generation
func (u *TranslationUnit) IsIgnored() bool { return u.ignored }

// Ignore excludes the unit from generation. There is no way back.
func (u *TranslationUnit) Ignore() { u.ignored = true }

// HasDeclarations reports whether the unit has anything to generate
func (u *TranslationUnit) HasDeclarations() bool {
	return len(u.Declarations) > 0 || len(u.Enums) > 0
}

// BaseName is the file name without its extension, used to name artifacts
func (u *TranslationUnit) BaseName() string {
	return strings.TrimSuffix(u.FileName, filepath.Ext(u.FileName))
}

// AddDeclaration appends d and makes u its owner. Enumerations and macros
// are routed to their own lists.
func (u *TranslationUnit) AddDeclaration(d Decl) {
	switch d := d.(type) {
	case *Enumeration:
		u.AddEnum(d)
		return
	case *MacroDefinition:
		u.AddMacro(d)
		return
	}
	u.adopt(d)
	u.Declarations = append(u.Declarations, d)
}

// AddEnum appends an enumeration and makes u its owner
func (u *TranslationUnit) AddEnum(e *Enumeration) {
	u.adopt(e)
	u.Enums = append(u.Enums, e)
}

// AddMacro appends a macro definition and makes u its owner
func (u *TranslationUnit) AddMacro(m *MacroDefinition) {
	u.adopt(m)
	u.Macros = append(u.Macros, m)
}

func (u *TranslationUnit) adopt(d Decl) {
	d.Base().Unit = u
	switch d := d.(type) {
	case *Class:
		for _, m := range d.Methods {
			m.Unit = u
			for _, p := range m.Parameters {
				p.Unit = u
			}
		}
		for _, f := range d.Fields {
			f.Unit = u
		}
	case *Function:
		for _, p := range d.Parameters {
			p.Unit = u
		}
	}
}

// FindClass returns the first class named name, or nil
func (u *TranslationUnit) FindClass(name string) *Class {
	for _, d := range u.Declarations {
		if c, ok := d.(*Class); ok && c.Name == name {
			return c
		}
	}
	return nil
}

// FindFunction returns the first free function named name, or nil
func (u *TranslationUnit) FindFunction(name string) *Function {
	for _, d := range u.Declarations {
		if f, ok := d.(*Function); ok && f.Name == name {
			return f
		}
	}
	return nil
}

// FindEnum returns the first enumeration named name, or nil
func (u *TranslationUnit) FindEnum(name string) *Enumeration {
	for _, e := range u.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindEnumWithItem returns the first enumeration with an item matching re, or nil
func (u *TranslationUnit) FindEnumWithItem(re *regexp.Regexp) *Enumeration {
	for _, e := range u.Enums {
		if _, ok := e.FindItemMatching(re); ok {
			return e
		}
	}
	return nil
}

// Classes returns the unit's classes in declaration order
func (u *TranslationUnit) Classes() []*Class {
	var out []*Class
	for _, d := range u.Declarations {
		if c, ok := d.(*Class); ok {
			out = append(out, c)
		}
	}
	return out
}

// Functions returns the unit's free functions in declaration order
func (u *TranslationUnit) Functions() []*Function {
	var out []*Function
	for _, d := range u.Declarations {
		if f, ok := d.(*Function); ok {
			out = append(out, f)
		}
	}
	return out
}

// Typedefs returns the unit's typedefs in declaration order
func (u *TranslationUnit) Typedefs() []*Typedef {
	var out []*Typedef
	for _, d := range u.Declarations {
		if t, ok := d.(*Typedef); ok {
			out = append(out, t)
		}
	}
	return out
}

// Library is the root of the AST. Name prefixes every qualified binding name.
type Library struct {
	Name  string
	Units []*TranslationUnit
}

// NewLibrary returns an empty library
func NewLibrary(name string) *Library {
	return &Library{Name: name}
}

// AddUnit appends a unit and makes lib its owner
func (lib *Library) AddUnit(u *TranslationUnit) {
	u.Library = lib
	lib.Units = append(lib.Units, u)
}
