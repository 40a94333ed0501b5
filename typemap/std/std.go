// Package std provides the built-in strategies for C++ standard library types.
package std

import (
	"fmt"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/typemap"
)

// Entries is the fixed registration table of built-in strategies
func Entries() []typemap.Entry {
	return []typemap.Entry{
		{Names: []string{"std::string", "std::wstring"}, New: func() typemap.TypeMap { return String{} }},
		{Names: []string{"std::vector"}, New: func() typemap.TypeMap { return Vector{} }},
		{Names: []string{"std::map"}, New: func() typemap.TypeMap { return Map{} }},
		{Names: []string{"std::shared_ptr"}, New: func() typemap.TypeMap { return SharedPtr{} }},
	}
}

// String maps std::string and std::wstring to a managed string
type String struct{}

func (String) Signature(*typemap.Context) (string, error) {
	return "System::String^", nil
}

func (String) MarshalToNative(_ *typemap.Context, mctx typemap.MarshalContext) (string, error) {
	return fmt.Sprintf("marshalString<E_UTF8>(%s)", mctx.ParameterName), nil
}

func (String) MarshalFromNative(_ *typemap.Context, mctx typemap.MarshalContext) (string, error) {
	return fmt.Sprintf("marshalString<E_UTF8>(%s)", mctx.ReturnVarName), nil
}

// Vector maps std::vector<T> to a generic list
type Vector struct{}

func (Vector) Signature(ctx *typemap.Context) (string, error) {
	args, err := templateArgs(ctx, "std::vector", 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("System::Collections::Generic::List<%s>^", args[0]), nil
}

func (Vector) MarshalToNative(*typemap.Context, typemap.MarshalContext) (string, error) {
	return "", errors.Unsupported("vector marshaling", "std::vector")
}

func (Vector) MarshalFromNative(*typemap.Context, typemap.MarshalContext) (string, error) {
	return "", errors.Unsupported("vector marshaling", "std::vector")
}

// Map maps std::map<K, V> to a generic dictionary
type Map struct{}

func (Map) Signature(ctx *typemap.Context) (string, error) {
	args, err := templateArgs(ctx, "std::map", 2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("System::Collections::Generic::Dictionary<%s, %s>^", args[0], args[1]), nil
}

func (Map) MarshalToNative(*typemap.Context, typemap.MarshalContext) (string, error) {
	return "", errors.Unsupported("map marshaling", "std::map")
}

func (Map) MarshalFromNative(*typemap.Context, typemap.MarshalContext) (string, error) {
	return "", errors.Unsupported("map marshaling", "std::map")
}

// SharedPtr reserves std::shared_ptr; nothing is implemented yet
type SharedPtr struct{}

func (SharedPtr) Signature(*typemap.Context) (string, error) {
	return "", errors.Unsupported("shared pointer", "std::shared_ptr")
}

func (SharedPtr) MarshalToNative(*typemap.Context, typemap.MarshalContext) (string, error) {
	return "", errors.Unsupported("shared pointer", "std::shared_ptr")
}

func (SharedPtr) MarshalFromNative(*typemap.Context, typemap.MarshalContext) (string, error) {
	return "", errors.Unsupported("shared pointer", "std::shared_ptr")
}

// templateArgs renders the first n arguments of the specialization in ctx
func templateArgs(ctx *typemap.Context, name string, n int) ([]string, error) {
	if ctx == nil {
		return nil, errors.NewMalformedASTError("%s used without a type context", name)
	}
	spec, ok := ctx.Type.(*ast.TemplateSpecializationType)
	if !ok {
		return nil, errors.Unsupported(name+" outside a template specialization", name)
	}
	if len(spec.Arguments) < n {
		return nil, errors.NewMalformedASTError("%s specialization has %d arguments, want %d",
			name, len(spec.Arguments), n)
	}
	if ctx.Printer == nil {
		return nil, errors.AssertionFailedf("%s: no printer in context", name)
	}

	args := make([]string, n)
	for i := 0; i < n; i++ {
		printed, err := ctx.Printer.Print(spec.Arguments[i])
		if err != nil {
			return nil, err
		}
		args[i] = printed
	}
	return args, nil
}
