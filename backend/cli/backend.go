// Package cli is the C++/CLI backend: every translation unit becomes a
// managed header declaring the bindings and a source file implementing them
// on top of the native library.
package cli

import (
	"bytes"
	"regexp"
	"strconv"
	"text/template"

	"go.uber.org/zap"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/filter"
	"github.com/teranos/cxxbind/generate"
	"github.com/teranos/cxxbind/logger"
	"github.com/teranos/cxxbind/typeprint"
)

// Artifact extensions, in the order they are produced
const (
	HeaderExtension = "h"
	SourceExtension = "cpp"
)

// Backend renders header and source artifacts through a type printer
type Backend struct {
	printer       *typeprint.Printer
	sourceVersion string
	log           *zap.SugaredLogger
}

// New returns a backend that stamps sourceVersion into every artifact.
// sourceVersion may be empty when the input is not under version control.
func New(printer *typeprint.Printer, sourceVersion string) (*Backend, error) {
	if printer == nil {
		return nil, errors.New("cli backend requires a type printer")
	}
	if printer.LibraryName() == "" {
		return nil, errors.WithHint(errors.New("cli backend requires a library name"),
			"set library.name in cxxbind.toml or CXXBIND_LIBRARY_NAME")
	}
	return &Backend{
		printer:       printer,
		sourceVersion: sourceVersion,
		log:           logger.Named("cli"),
	}, nil
}

func (b *Backend) Name() string { return "cli" }
func (b *Backend) Arity() int   { return 2 }

// unitState accumulates one unit's rendering data and skipped declarations
type unitState struct {
	header  headerData
	source  sourceData
	skipped []generate.Skip
}

// Generate renders unit. Declarations that cannot be translated are skipped
// and reported; any other failure fails the unit. A unit with nothing left
// to bind produces no artifacts.
func (b *Backend) Generate(unit *ast.TranslationUnit) (*generate.UnitOutput, error) {
	stamp := stampData{File: unit.FileName, Version: b.sourceVersion}
	st := &unitState{
		header: headerData{
			Stamp:        stamp,
			NativeHeader: unit.FileName,
			Namespace:    b.printer.LibraryName(),
		},
		source: sourceData{
			Stamp:  stamp,
			Header: unit.BaseName() + "." + HeaderExtension,
		},
	}

	for _, e := range unit.Enums {
		if filter.IsDeclarationExcluded(e) {
			continue
		}
		if err := b.skipUnsupported(st, e, b.enum(st, e)); err != nil {
			return nil, err
		}
	}

	for _, d := range unit.Declarations {
		if filter.IsDeclarationExcluded(d) {
			continue
		}
		var err error
		switch d := d.(type) {
		case *ast.Class:
			err = b.class(st, d)
		case *ast.Typedef:
			err = b.delegate(st, d)
		case *ast.Function:
			err = b.function(st, unit, d)
		}
		if err = b.skipUnsupported(st, d, err); err != nil {
			return nil, err
		}
	}

	h := st.header
	if len(h.Forwards) == 0 && len(h.Delegates) == 0 && h.Functions == nil {
		return &generate.UnitOutput{Skipped: st.skipped}, nil
	}

	headerText, err := render(header, st.header)
	if err != nil {
		return nil, errors.Wrapf(err, "render header for %s", unit.FilePath)
	}
	sourceText, err := render(source, st.source)
	if err != nil {
		return nil, errors.Wrapf(err, "render source for %s", unit.FilePath)
	}

	return &generate.UnitOutput{
		Artifacts: []generate.Artifact{
			{Extension: HeaderExtension, Text: headerText},
			{Extension: SourceExtension, Text: sourceText},
		},
		Skipped: st.skipped,
	}, nil
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// skipUnsupported records an unsupported construct as a skipped declaration
// and passes every other error through
func (b *Backend) skipUnsupported(st *unitState, d ast.Decl, err error) error {
	if err == nil || !errors.IsUnsupported(err) {
		return err
	}
	name := qualifiedName(d)
	st.skipped = append(st.skipped, generate.Skip{Decl: name, Err: err})
	b.log.Debugw("Skipping declaration",
		logger.FieldDecl, name,
		logger.FieldKind, d.DeclKind().String(),
		logger.FieldError, err)
	return nil
}

func (b *Backend) enum(st *unitState, e *ast.Enumeration) error {
	data := enumData{Comment: e.Comment, Name: e.Name}

	if e.Type != nil && !ast.IsPrimitive(e.Type, ast.Int32) {
		underlying, err := b.printer.Print(e.Type)
		if err != nil {
			return err
		}
		if underlying == "" {
			return errors.Unsupported("enum underlying type", qualifiedName(e))
		}
		data.Underlying = underlying
	}

	for i, item := range e.Items {
		line := item.Name + " = " + strconv.FormatInt(item.Value, 10)
		if i < len(e.Items)-1 {
			line += ","
		}
		data.Items = append(data.Items, line)
	}

	forward := "enum struct " + e.Name + ";"
	if data.Underlying != "" {
		forward = "enum struct " + e.Name + " : " + data.Underlying + ";"
	}
	st.header.Forwards = append(st.header.Forwards, forward)
	st.header.Enums = append(st.header.Enums, data)
	return nil
}

func (b *Backend) delegate(st *unitState, td *ast.Typedef) error {
	fn, ok := ast.PointeeFunction(td.Type)
	if !ok {
		return nil
	}
	decl, err := b.printer.Delegate(fn, td.Name)
	if err != nil {
		return err
	}
	st.header.Delegates = append(st.header.Delegates, decl)
	return nil
}

func (b *Backend) class(st *unitState, c *ast.Class) error {
	managed, err := b.managedName(c)
	if err != nil {
		return err
	}

	data := classData{Comment: c.Comment, Name: c.Name, Keyword: "value struct"}
	if c.IsRefType() {
		data.Keyword = "ref class"
		native := nativeName(c)
		data.Members = append(data.Members,
			memberData{Decl: "property " + native + "* NativePtr;"},
			memberData{Decl: c.Name + "(" + native + "* native);"})
		st.source.Bodies = append(st.source.Bodies, bodyData{
			Signature: managed + "::" + c.Name + "(" + native + "* native)",
			Lines:     []string{"NativePtr = native;"},
		})
	}

	for _, f := range c.Fields {
		if filter.IsDeclarationExcluded(f) {
			continue
		}
		member, bodies, err := b.field(c, managed, f)
		if err = b.skipUnsupported(st, f, err); err != nil {
			return err
		}
		if member != nil {
			data.Members = append(data.Members, *member)
			st.source.Bodies = append(st.source.Bodies, bodies...)
		}
	}

	for _, m := range filter.EligibleMethods(c) {
		member, body, err := b.method(c, managed, m)
		if err = b.skipUnsupported(st, m, err); err != nil {
			return err
		}
		if member != nil {
			data.Members = append(data.Members, *member)
			st.source.Bodies = append(st.source.Bodies, *body)
		}
	}

	st.header.Forwards = append(st.header.Forwards, data.Keyword+" "+c.Name+";")
	st.header.Classes = append(st.header.Classes, data)
	return nil
}

// field binds a data member. Value types carry it directly; reference types
// expose a property backed by the native instance.
func (b *Backend) field(c *ast.Class, managed string, f *ast.Field) (*memberData, []bodyData, error) {
	typ, err := b.printer.Print(f.Type)
	if err != nil {
		return nil, nil, err
	}
	if c.IsValueType() {
		return &memberData{Comment: f.Comment, Decl: typ + " " + f.Name + ";"}, nil, nil
	}

	native := "NativePtr->" + memberName(f)
	get, err := b.fromNative(f.Type, native)
	if err != nil {
		return nil, nil, err
	}
	set, err := b.toNative(f.Type, "value")
	if err != nil {
		return nil, nil, err
	}

	member := &memberData{
		Comment: f.Comment,
		Decl:    "property " + typ + " " + f.Name + " { " + typ + " get(); void set(" + typ + " value); }",
	}
	bodies := []bodyData{
		{Signature: typ + " " + managed + "::" + f.Name + "::get()", Lines: []string{"return " + get + ";"}},
		{Signature: "void " + managed + "::" + f.Name + "::set(" + typ + " value)", Lines: []string{native + " = " + set + ";"}},
	}
	return member, bodies, nil
}

func (b *Backend) method(c *ast.Class, managed string, m *ast.Method) (*memberData, *bodyData, error) {
	args, err := b.printer.ArgumentList(m.Parameters, true)
	if err != nil {
		return nil, nil, err
	}
	nativeArgs, err := b.nativeArguments(m.Parameters)
	if err != nil {
		return nil, nil, err
	}

	if m.IsConstructor {
		if !c.IsRefType() {
			return nil, nil, errors.Unsupported("value type constructor", qualifiedName(m))
		}
		member := &memberData{Comment: m.Comment, Decl: c.Name + "(" + args + ");"}
		body := &bodyData{
			Signature: managed + "::" + c.Name + "(" + args + ")",
			Lines:     []string{"NativePtr = new " + nativeName(c) + "(" + nativeArgs + ");"},
		}
		return member, body, nil
	}

	var call string
	switch {
	case m.IsStatic:
		call = nativeName(c) + "::" + memberName(m) + "(" + nativeArgs + ")"
	case c.IsRefType():
		call = "NativePtr->" + memberName(m) + "(" + nativeArgs + ")"
	default:
		return nil, nil, errors.Unsupported("value type instance method", qualifiedName(m))
	}

	ret, lines, err := b.callAndReturn(m.ReturnType, call)
	if err != nil {
		return nil, nil, err
	}

	decl := ret + " " + m.Name + "(" + args + ");"
	if m.IsStatic {
		decl = "static " + decl
	}
	member := &memberData{Comment: m.Comment, Decl: decl}
	body := &bodyData{Signature: ret + " " + managed + "::" + m.Name + "(" + args + ")", Lines: lines}
	if logger.ShouldLogTrace(logger.Verbosity()) {
		b.log.Debugw("Rendered method", logger.FieldDecl, qualifiedName(m), "signature", body.Signature)
	}
	return member, body, nil
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9_]`)

// functionsClassName names the static class holding a unit's free functions
func functionsClassName(unit *ast.TranslationUnit) string {
	name := nonIdentifier.ReplaceAllString(unit.BaseName(), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name + "Functions"
}

func (b *Backend) function(st *unitState, unit *ast.TranslationUnit, f *ast.Function) error {
	args, err := b.printer.ArgumentList(f.Parameters, true)
	if err != nil {
		return err
	}
	nativeArgs, err := b.nativeArguments(f.Parameters)
	if err != nil {
		return err
	}
	ret, lines, err := b.callAndReturn(f.ReturnType, nativeName(f)+"("+nativeArgs+")")
	if err != nil {
		return err
	}

	className := functionsClassName(unit)
	if st.header.Functions == nil {
		st.header.Functions = &classData{Keyword: "ref class", Name: className}
	}
	st.header.Functions.Members = append(st.header.Functions.Members, memberData{
		Comment: f.Comment,
		Decl:    "static " + ret + " " + f.Name + "(" + args + ");",
	})
	st.source.Bodies = append(st.source.Bodies, bodyData{
		Signature: ret + " " + b.printer.LibraryName() + "::" + className + "::" + f.Name + "(" + args + ")",
		Lines:     lines,
	})
	return nil
}

func (b *Backend) nativeArguments(params []*ast.Parameter) (string, error) {
	var out []byte
	for i, p := range params {
		arg, err := b.toNative(p.Type, p.Name)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %q", p.Name)
		}
		if i > 0 {
			out = append(out, ", "...)
		}
		out = append(out, arg...)
	}
	return string(out), nil
}

// callAndReturn renders the managed return type and the body lines that
// invoke call and convert its result
func (b *Backend) callAndReturn(returnType ast.Type, call string) (string, []string, error) {
	if returnType == nil || ast.IsPrimitive(returnType, ast.Void) {
		return "void", []string{call + ";"}, nil
	}

	ret, err := b.printer.Print(returnType)
	if err != nil {
		return "", nil, err
	}
	conv, err := b.fromNative(returnType, returnVar)
	if err != nil {
		return "", nil, err
	}
	return ret, []string{"auto " + returnVar + " = " + call + ";", "return " + conv + ";"}, nil
}
