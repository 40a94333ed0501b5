// Package typeprint renders AST types as target-language signatures.
//
// The printer is a recursive type switch over the closed ast.Type sum. At
// typedef and template-specialization nodes it consults the TypeMap registry
// by qualified name before falling back to structural translation.
package typeprint

import (
	"strings"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/typemap"
)

// Target-language tokens for the handle types
const (
	OpaquePointer = "System::IntPtr"
	StringHandle  = "System::String^"
	HandleMarker  = "^"
	Action        = "System::Action"
	Func          = "System::Func"
)

// primitiveTokens is the fixed primitive table. Kinds not listed render empty.
var primitiveTokens = map[ast.Primitive]string{
	ast.Bool:     "bool",
	ast.Void:     "void",
	ast.WideChar: "char",
	ast.Int8:     "char",
	ast.UInt8:    "unsigned char",
	ast.Int16:    "short",
	ast.UInt16:   "unsigned short",
	ast.Int32:    "int",
	ast.UInt32:   "unsigned int",
	ast.Int64:    "long",
	ast.UInt64:   "unsigned long",
	ast.Float:    "float",
	ast.Double:   "double",
}

// PrimitiveToken returns the binding token for p, or "" when p has none
func PrimitiveToken(p ast.Primitive) string {
	return primitiveTokens[p]
}

// Printer renders types for one library.
// It only reads the AST and the registry, so it is safe to share once
// generation has started.
type Printer struct {
	libraryName string
	registry    *typemap.Registry
}

// NewPrinter returns a printer that qualifies declaration references with
// libraryName and consults reg for overrides. reg may be nil.
func NewPrinter(libraryName string, reg *typemap.Registry) *Printer {
	return &Printer{libraryName: libraryName, registry: reg}
}

// LibraryName returns the namespace prefix used for declaration references
func (p *Printer) LibraryName() string {
	return p.libraryName
}

// Print renders t with no qualifiers
func (p *Printer) Print(t ast.Type) (string, error) {
	return p.PrintQualified(t, ast.TypeQualifiers{})
}

// PrintQualified renders t under quals
func (p *Printer) PrintQualified(t ast.Type, quals ast.TypeQualifiers) (string, error) {
	switch t := t.(type) {
	case nil:
		return "", errors.NewMalformedASTError("type reference is missing")
	case *ast.PointerType:
		return p.pointer(t)
	case *ast.FunctionType:
		return p.function(t)
	case *ast.TypedefType:
		return p.typedef(t, quals)
	case *ast.TemplateSpecializationType:
		return p.specialization(t)
	case *ast.TagType:
		if t.Decl == nil {
			return "", errors.NewMalformedASTError("tag type has no declaration")
		}
		return p.Declaration(t.Decl)
	case *ast.PrimitiveType:
		return PrimitiveToken(t.Primitive), nil
	case *ast.ArrayType:
		elem, err := p.Print(t.Element)
		if err != nil {
			return "", err
		}
		return "array<" + elem + ">", nil
	case *ast.MemberPointerType:
		return "", errors.Unsupported("member pointer", "")
	default:
		return "", errors.AssertionFailedf("typeprint: unhandled type %T", t)
	}
}

func (p *Printer) pointer(t *ast.PointerType) (string, error) {
	switch pointee := t.Pointee.(type) {
	case *ast.FunctionType:
		sig, err := p.function(pointee)
		if err != nil {
			return "", err
		}
		return sig + HandleMarker, nil
	case *ast.PrimitiveType:
		switch pointee.Primitive {
		case ast.Void:
			return OpaquePointer, nil
		case ast.Char:
			return StringHandle, nil
		}
	}
	return p.PrintQualified(t.Pointee, t.Qualifiers)
}

func (p *Printer) function(t *ast.FunctionType) (string, error) {
	args, err := p.ArgumentList(t.Parameters, false)
	if err != nil {
		return "", err
	}

	// A missing return type is how the frontend spells void
	if t.ReturnType == nil || ast.IsPrimitive(t.ReturnType, ast.Void) {
		if args == "" {
			return Action, nil
		}
		return Action + "<" + args + ">", nil
	}

	ret, err := p.Print(t.ReturnType)
	if err != nil {
		return "", err
	}
	if args == "" {
		return Func + "<" + ret + ">", nil
	}
	return Func + "<" + ret + ", " + args + ">", nil
}

func (p *Printer) typedef(t *ast.TypedefType, quals ast.TypeQualifiers) (string, error) {
	decl := t.Decl
	if decl == nil {
		return "", errors.NewMalformedASTError("typedef type has no declaration")
	}
	if decl.Name == "" {
		return "", errors.NewMalformedASTError("typedef %q has no name", decl.QualifiedOriginalName)
	}

	if tm, ok := p.registry.Lookup(decl.QualifiedOriginalName); ok {
		return tm.Signature(&typemap.Context{Type: t, Decl: decl, Printer: p})
	}

	if _, ok := ast.PointeeFunction(decl.Type); ok {
		return p.qualify(decl.Name) + HandleMarker, nil
	}

	return p.PrintQualified(decl.Type, quals)
}

func (p *Printer) specialization(t *ast.TemplateSpecializationType) (string, error) {
	if t.Template == nil {
		return "", errors.NewMalformedASTError("template specialization has no template")
	}

	if tm, ok := p.registry.Lookup(t.TemplateName()); ok {
		return tm.Signature(&typemap.Context{Type: t, Decl: templatedDecl(t), Printer: p})
	}

	// No strategy: keep the bare template name, arguments are dropped.
	// TODO: decide whether an unmapped specialization should be Unsupported instead.
	return templatedDecl(t).Base().Name, nil
}

func templatedDecl(t *ast.TemplateSpecializationType) ast.Decl {
	if t.Template.TemplatedDecl != nil {
		return t.Template.TemplatedDecl
	}
	return t.Template
}

// Declaration renders a reference to a class or enum as Library::Name.
// Classes with reference semantics carry the handle marker.
func (p *Printer) Declaration(d ast.Decl) (string, error) {
	switch d := d.(type) {
	case *ast.Class:
		if d.IsRefType() {
			return p.qualify(d.Name) + HandleMarker, nil
		}
		return p.qualify(d.Name), nil
	case *ast.Enumeration:
		return p.qualify(d.Name), nil
	case nil:
		return "", errors.NewMalformedASTError("declaration reference is missing")
	default:
		return "", errors.Unsupported(d.DeclKind().String()+" reference", d.Base().QualifiedOriginalName)
	}
}

func (p *Printer) qualify(name string) string {
	if p.libraryName == "" {
		return name
	}
	return p.libraryName + "::" + name
}

// ArgumentList renders params separated by ", ", optionally with names
func (p *Printer) ArgumentList(params []*ast.Parameter, withNames bool) (string, error) {
	parts := make([]string, 0, len(params))
	for _, param := range params {
		s, err := p.Parameter(param, withNames)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

// Parameter renders one parameter; its const flag becomes the qualifier
func (p *Printer) Parameter(param *ast.Parameter, withName bool) (string, error) {
	typ, err := p.PrintQualified(param.Type, ast.TypeQualifiers{IsConst: param.IsConst})
	if err != nil {
		return "", errors.Wrapf(err, "parameter %q", param.Name)
	}
	if withName && param.Name != "" {
		return typ + " " + param.Name, nil
	}
	return typ, nil
}

// Delegate renders a delegate declaration named name for the function type
func (p *Printer) Delegate(fn *ast.FunctionType, name string) (string, error) {
	ret := "void"
	if fn.ReturnType != nil {
		var err error
		if ret, err = p.Print(fn.ReturnType); err != nil {
			return "", err
		}
	}
	args, err := p.ArgumentList(fn.Parameters, true)
	if err != nil {
		return "", err
	}
	return "delegate " + ret + " " + name + "(" + args + ")", nil
}

// FindTypeMap returns the strategy that governs t, with the context it must
// be invoked with. References are looked through, then the same typedef and
// specialization lookups Print uses are tried, following typedef chains.
func (p *Printer) FindTypeMap(t ast.Type) (typemap.TypeMap, *typemap.Context, bool) {
	for t != nil {
		switch tt := t.(type) {
		case *ast.PointerType:
			if !tt.IsLValueReference {
				return nil, nil, false
			}
			t = tt.Pointee
		case *ast.TypedefType:
			if tt.Decl == nil {
				return nil, nil, false
			}
			if tm, ok := p.registry.Lookup(tt.Decl.QualifiedOriginalName); ok {
				return tm, &typemap.Context{Type: tt, Decl: tt.Decl, Printer: p}, true
			}
			t = tt.Decl.Type
		case *ast.TemplateSpecializationType:
			if tt.Template == nil {
				return nil, nil, false
			}
			if tm, ok := p.registry.Lookup(tt.TemplateName()); ok {
				return tm, &typemap.Context{Type: tt, Decl: templatedDecl(tt), Printer: p}, true
			}
			return nil, nil, false
		default:
			return nil, nil, false
		}
	}
	return nil, nil, false
}
