package cli

import (
	"strings"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/typemap"
	"github.com/teranos/cxxbind/typeprint"
)

// returnVar holds a native return value before it is converted back
const returnVar = "__ret"

// nativeName spells a declaration the way native code refers to it
func nativeName(d ast.Decl) string {
	return "::" + qualifiedName(d)
}

// qualifiedName is the declaration's original qualified name, falling back
// to its binding name
func qualifiedName(d ast.Decl) string {
	b := d.Base()
	if b.QualifiedOriginalName != "" {
		return b.QualifiedOriginalName
	}
	return b.Name
}

// memberName is the unqualified native name of a class member
func memberName(d ast.Decl) string {
	name := qualifiedName(d)
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// managedName is the qualified binding name of a declaration without the
// handle marker
func (b *Backend) managedName(d ast.Decl) (string, error) {
	s, err := b.printer.Declaration(d)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s, typeprint.HandleMarker), nil
}

// toNative returns the expression converting the managed value name into
// what native code expects for type t
func (b *Backend) toNative(t ast.Type, name string) (string, error) {
	if tm, ctx, ok := b.printer.FindTypeMap(t); ok {
		return typemap.Marshal(tm, ctx, typemap.MarshalContext{
			Direction:     typemap.ToNative,
			ParameterName: name,
		})
	}

	switch tt := t.(type) {
	case *ast.PrimitiveType:
		return name, nil
	case *ast.TypedefType:
		if tt.Decl == nil {
			return "", errors.NewMalformedASTError("typedef type has no declaration")
		}
		if _, ok := ast.PointeeFunction(tt.Decl.Type); ok {
			return "", errors.Unsupported("delegate marshaling", qualifiedName(tt.Decl))
		}
		return b.toNative(tt.Decl.Type, name)
	case *ast.TagType:
		switch d := tt.Decl.(type) {
		case *ast.Enumeration:
			return "(" + nativeName(d) + ")" + name, nil
		case *ast.Class:
			if d.IsRefType() {
				return "*" + name + "->NativePtr", nil
			}
			return "", errors.Unsupported("value type marshaling", qualifiedName(d))
		case nil:
			return "", errors.NewMalformedASTError("tag type has no declaration")
		}
	case *ast.PointerType:
		return b.pointerToNative(tt, name)
	case nil:
		return "", errors.NewMalformedASTError("missing type")
	}
	return "", errors.Unsupported(t.TypeKind().String()+" marshaling", "")
}

func (b *Backend) pointerToNative(t *ast.PointerType, name string) (string, error) {
	switch pointee := t.Pointee.(type) {
	case *ast.PrimitiveType:
		switch pointee.Primitive {
		case ast.Void:
			return name + ".ToPointer()", nil
		case ast.Char:
			return "marshalString<E_UTF8>(" + name + ").c_str()", nil
		}
	case *ast.TagType:
		if c, ok := pointee.Decl.(*ast.Class); ok && c.IsRefType() {
			if t.IsLValueReference {
				return "*" + name + "->NativePtr", nil
			}
			return name + "->NativePtr", nil
		}
	}
	return "", errors.Unsupported("pointer marshaling", "")
}

// fromNative returns the expression converting the native value expr of
// type t into its managed counterpart
func (b *Backend) fromNative(t ast.Type, expr string) (string, error) {
	if tm, ctx, ok := b.printer.FindTypeMap(t); ok {
		return typemap.Marshal(tm, ctx, typemap.MarshalContext{
			Direction:     typemap.FromNative,
			ReturnVarName: expr,
		})
	}

	switch tt := t.(type) {
	case *ast.PrimitiveType:
		return expr, nil
	case *ast.TypedefType:
		if tt.Decl == nil {
			return "", errors.NewMalformedASTError("typedef type has no declaration")
		}
		if _, ok := ast.PointeeFunction(tt.Decl.Type); ok {
			return "", errors.Unsupported("delegate marshaling", qualifiedName(tt.Decl))
		}
		return b.fromNative(tt.Decl.Type, expr)
	case *ast.TagType:
		return b.tagFromNative(tt.Decl, expr, false)
	case *ast.PointerType:
		switch pointee := tt.Pointee.(type) {
		case *ast.PrimitiveType:
			switch pointee.Primitive {
			case ast.Void:
				return typeprint.OpaquePointer + "(" + expr + ")", nil
			case ast.Char:
				return "marshalString<E_UTF8>(" + expr + ")", nil
			}
		case *ast.TagType:
			// A reference is returned by copy, a pointer is wrapped as is
			return b.tagFromNative(pointee.Decl, expr, !tt.IsLValueReference)
		}
		return "", errors.Unsupported("pointer marshaling", "")
	case nil:
		return "", errors.NewMalformedASTError("missing type")
	}
	return "", errors.Unsupported(t.TypeKind().String()+" marshaling", "")
}

func (b *Backend) tagFromNative(d ast.Decl, expr string, isPointer bool) (string, error) {
	switch d := d.(type) {
	case *ast.Enumeration:
		name, err := b.managedName(d)
		if err != nil {
			return "", err
		}
		if isPointer {
			return "", errors.Unsupported("enum pointer marshaling", qualifiedName(d))
		}
		return "(" + name + ")" + expr, nil
	case *ast.Class:
		if !d.IsRefType() {
			return "", errors.Unsupported("value type marshaling", qualifiedName(d))
		}
		name, err := b.managedName(d)
		if err != nil {
			return "", err
		}
		if isPointer {
			return "gcnew " + name + "((" + nativeName(d) + "*)" + expr + ")", nil
		}
		return "gcnew " + name + "(new " + nativeName(d) + "(" + expr + "))", nil
	case nil:
		return "", errors.NewMalformedASTError("tag type has no declaration")
	default:
		return "", errors.Unsupported(d.DeclKind().String()+" marshaling", qualifiedName(d))
	}
}
