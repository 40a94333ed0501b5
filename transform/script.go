// Package transform applies declarative edits to a library before
// generation. Edits come from a TOML script and from one-line edits given
// on the command line; both run through the same editor operations.
//
// A script looks like:
//
//	ignore_units = ["^internal/"]
//	value_types  = ["Point"]
//
//	[[rename_class]]
//	from = "widget_t"
//	to   = "Widget"
//
//	[[enum_from_macros]]
//	name     = "Flags"
//	patterns = ["FLAG_.*"]
//
//	[[typemap]]
//	names       = ["QString"]
//	signature   = "System::String^"
//	to_native   = "toQString({{.Name}})"
//	from_native = "fromQString({{.Name}})"
package transform

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/cxxbind/edit"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
	"github.com/teranos/cxxbind/typemap"
)

// Rename maps one binding name to another
type Rename struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// RenameWithItem renames the enum holding an item matching Pattern
type RenameWithItem struct {
	Pattern string `toml:"pattern"`
	To      string `toml:"to"`
}

// MethodRef names a method of a class
type MethodRef struct {
	Class  string `toml:"class"`
	Method string `toml:"method"`
}

// MacroEnum synthesizes enum Name from the macros matching Patterns
type MacroEnum struct {
	Name     string   `toml:"name"`
	Patterns []string `toml:"patterns"`
}

// TypeMap declares a template-driven strategy for one or more native names
type TypeMap struct {
	Names      []string `toml:"names"`
	Signature  string   `toml:"signature"`
	ToNative   string   `toml:"to_native"`
	FromNative string   `toml:"from_native"`
}

// File is the decoded form of a transform script
type File struct {
	IgnoreUnits         []string         `toml:"ignore_units"`
	IgnoreClasses       []string         `toml:"ignore_classes"`
	IgnoreFunctions     []string         `toml:"ignore_functions"`
	IgnoreEnums         []string         `toml:"ignore_enums"`
	IgnoreEnumsWithItem []string         `toml:"ignore_enums_with_item"`
	ValueTypes          []string         `toml:"value_types"`
	RenameClass         []Rename         `toml:"rename_class"`
	RenameEnum          []Rename         `toml:"rename_enum"`
	RenameEnumWithItem  []RenameWithItem `toml:"rename_enum_with_item"`
	IgnoreMethod        []MethodRef      `toml:"ignore_method"`
	EnumFromMacros      []MacroEnum      `toml:"enum_from_macros"`
	TypeMaps            []TypeMap        `toml:"typemap"`
}

// Script is an ordered list of edits plus the typemaps it declares
type Script struct {
	edits    []Edit
	typeMaps []TypeMap
	warnings []string
}

// Load decodes the script at path
func Load(path string) (*Script, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode transform script %s", path)
	}
	return fromFile(path, &f, md)
}

// Parse decodes a script from text; name labels its edits
func Parse(name, text string) (*Script, error) {
	var f File
	md, err := toml.Decode(text, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode transform script %s", name)
	}
	return fromFile(name, &f, md)
}

func fromFile(name string, f *File, md toml.MetaData) (*Script, error) {
	s := &Script{typeMaps: f.TypeMaps}

	for _, key := range md.Undecoded() {
		msg := "unknown key " + key.String() + " in " + name
		s.warnings = append(s.warnings, msg)
		logger.Warnw("Unknown transform key", logger.FieldFile, name, "key", key.String())
	}

	add := func(section, op string, args ...string) {
		s.edits = append(s.edits, Edit{Op: op, Args: args, Source: name + ":" + section})
	}

	// Unit ignores run first so later edits only see what will be generated
	for _, p := range f.IgnoreUnits {
		add("ignore_units", "ignore-unit", p)
	}
	for _, n := range f.IgnoreClasses {
		add("ignore_classes", "ignore-class", n)
	}
	for _, n := range f.IgnoreFunctions {
		add("ignore_functions", "ignore-function", n)
	}
	for _, n := range f.IgnoreEnums {
		add("ignore_enums", "ignore-enum", n)
	}
	for _, p := range f.IgnoreEnumsWithItem {
		add("ignore_enums_with_item", "ignore-enum-with-item", p)
	}
	for _, m := range f.IgnoreMethod {
		add("ignore_method", "ignore-method", m.Class, m.Method)
	}
	for _, me := range f.EnumFromMacros {
		add("enum_from_macros", "enum-from-macros", append([]string{me.Name}, me.Patterns...)...)
	}
	for _, n := range f.ValueTypes {
		add("value_types", "value-type", n)
	}
	for _, r := range f.RenameEnumWithItem {
		add("rename_enum_with_item", "rename-enum-with-item", r.Pattern, r.To)
	}
	for _, r := range f.RenameEnum {
		add("rename_enum", "rename-enum", r.From, r.To)
	}
	for _, r := range f.RenameClass {
		add("rename_class", "rename-class", r.From, r.To)
	}

	for _, e := range s.edits {
		if err := e.validate(); err != nil {
			return nil, errors.Wrapf(err, "%s", e.Source)
		}
	}
	return s, nil
}

// Empty returns a script with no edits, for runs without a script file
func Empty() *Script {
	return &Script{}
}

// AddEdits parses one-line edits and appends them after the script's own
func (s *Script) AddEdits(lines ...string) error {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ed, err := ParseEdit(line)
		if err != nil {
			return err
		}
		s.edits = append(s.edits, ed)
	}
	return nil
}

// Edits returns the edits in application order
func (s *Script) Edits() []Edit {
	return append([]Edit(nil), s.edits...)
}

// Warnings returns non-fatal problems found while decoding
func (s *Script) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// Apply runs every edit against e in order. The first failing edit stops
// the run; edits are not rolled back.
func (s *Script) Apply(e *edit.Editor) error {
	for _, ed := range s.edits {
		logger.Debugw("Applying edit", "edit", ed.String(), logger.FieldFile, ed.Source)
		if err := ed.apply(e); err != nil {
			return errors.Wrapf(err, "edit %q from %s", ed.String(), ed.Source)
		}
	}
	logger.Infow("Applied transform", logger.FieldCount, len(s.edits))
	return nil
}

// TypeMapEntries builds the registration rows for the script's typemaps
func (s *Script) TypeMapEntries() ([]typemap.Entry, error) {
	entries := make([]typemap.Entry, 0, len(s.typeMaps))
	for _, tm := range s.typeMaps {
		st, err := typemap.NewStatic(typemap.StaticSpec{
			Names:      tm.Names,
			Signature:  tm.Signature,
			ToNative:   tm.ToNative,
			FromNative: tm.FromNative,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, st.Entry())
	}
	return entries, nil
}
