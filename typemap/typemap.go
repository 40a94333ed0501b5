// Package typemap holds the per-type override strategies consulted by the
// type translator before it falls back to structural translation.
//
// A TypeMap is registered against one or more fully qualified native names.
// Registration happens once at startup from a fixed table of constructors
// (see Entry and Build); lookup is exact, case-sensitive string matching.
package typemap

import (
	"github.com/teranos/cxxbind/ast"
)

// Direction is the way a value crosses the native boundary
type Direction int

const (
	ToNative Direction = iota
	FromNative
)

func (d Direction) String() string {
	if d == FromNative {
		return "from-native"
	}
	return "to-native"
}

// Printer renders nested types for strategies that need them,
// e.g. the element type of a container specialization.
type Printer interface {
	Print(t ast.Type) (string, error)
}

// Context is handed to a strategy on every call: the concrete type being
// rendered and the declaration it was resolved through.
type Context struct {
	Type    ast.Type
	Decl    ast.Decl
	Printer Printer
}

// MarshalContext names the value being marshaled
type MarshalContext struct {
	Direction     Direction
	ParameterName string
	ReturnVarName string
}

// TypeMap is a custom translation strategy for one native type.
//
// An operation a strategy does not implement must return an
// errors.Unsupported error rather than emitting wrong code.
type TypeMap interface {
	Signature(ctx *Context) (string, error)
	MarshalToNative(ctx *Context, mctx MarshalContext) (string, error)
	MarshalFromNative(ctx *Context, mctx MarshalContext) (string, error)
}

// Marshal dispatches on mctx.Direction
func Marshal(tm TypeMap, ctx *Context, mctx MarshalContext) (string, error) {
	if mctx.Direction == FromNative {
		return tm.MarshalFromNative(ctx, mctx)
	}
	return tm.MarshalToNative(ctx, mctx)
}
