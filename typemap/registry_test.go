package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
)

type stubMap struct{ sig string }

func (s stubMap) Signature(*Context) (string, error) { return s.sig, nil }
func (s stubMap) MarshalToNative(_ *Context, m MarshalContext) (string, error) {
	return "to(" + m.ParameterName + ")", nil
}
func (s stubMap) MarshalFromNative(_ *Context, m MarshalContext) (string, error) {
	return "from(" + m.ReturnVarName + ")", nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register([]string{"std::string", "std::wstring"}, stubMap{sig: "S"}))

	tm, ok := r.Lookup("std::string")
	require.True(t, ok)
	sig, err := tm.Signature(nil)
	require.NoError(t, err)
	assert.Equal(t, "S", sig)

	_, ok = r.Lookup("std::wstring")
	assert.True(t, ok)

	assert.Equal(t, []string{"std::string", "std::wstring"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_LookupIsExact(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register([]string{"std::string"}, stubMap{}))

	for _, name := range []string{"std::strin", "std::string ", "STD::STRING", "string", "std::string_view", ""} {
		_, ok := r.Lookup(name)
		assert.False(t, ok, "%q must not match", name)
	}

	var nilRegistry *Registry
	_, ok := nilRegistry.Lookup("std::string")
	assert.False(t, ok)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		tm    TypeMap
	}{
		{"duplicate of existing", []string{"a", "taken"}, stubMap{}},
		{"duplicate within call", []string{"b", "b"}, stubMap{}},
		{"empty name", []string{""}, stubMap{}},
		{"no names", nil, stubMap{}},
		{"nil strategy", []string{"c"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			require.NoError(t, r.Register([]string{"taken"}, stubMap{}))

			err := r.Register(tt.names, tt.tm)
			require.Error(t, err)
			assert.Equal(t, 1, r.Len(), "a rejected registration installs nothing")
		})
	}
}

func TestBuild(t *testing.T) {
	table := []Entry{
		{Names: []string{"x"}, New: func() TypeMap { return stubMap{sig: "X"} }},
		{Names: []string{"y", "z"}, New: func() TypeMap { return stubMap{sig: "YZ"} }},
	}
	extra := []Entry{
		{Names: []string{"w"}, New: func() TypeMap { return stubMap{sig: "W"} }},
	}

	r, err := Build(table, extra)
	require.NoError(t, err)
	assert.Equal(t, []string{"w", "x", "y", "z"}, r.Names())

	_, err = Build(table, table)
	assert.Error(t, err, "the same table twice collides")

	_, err = Build([]Entry{{Names: []string{"n"}}})
	assert.Error(t, err, "entry without constructor")
}

func TestMarshal_Dispatch(t *testing.T) {
	tm := stubMap{}

	got, err := Marshal(tm, nil, MarshalContext{Direction: ToNative, ParameterName: "p"})
	require.NoError(t, err)
	assert.Equal(t, "to(p)", got)

	got, err = Marshal(tm, nil, MarshalContext{Direction: FromNative, ReturnVarName: "r"})
	require.NoError(t, err)
	assert.Equal(t, "from(r)", got)

	assert.Equal(t, "to-native", ToNative.String())
	assert.Equal(t, "from-native", FromNative.String())
}

type argPrinter struct{}

func (argPrinter) Print(t ast.Type) (string, error) {
	if p, ok := t.(*ast.PrimitiveType); ok {
		return p.Primitive.String(), nil
	}
	return "", errors.Unsupported("test type", "")
}

func TestStatic(t *testing.T) {
	s, err := NewStatic(StaticSpec{
		Names:      []string{"QString"},
		Signature:  "System::String^",
		ToNative:   "toQString({{.Name}})",
		FromNative: "fromQString({{.Name}})",
	})
	require.NoError(t, err)

	r, err := Build([]Entry{s.Entry()})
	require.NoError(t, err)
	tm, ok := r.Lookup("QString")
	require.True(t, ok)

	sig, err := tm.Signature(&Context{})
	require.NoError(t, err)
	assert.Equal(t, "System::String^", sig)

	got, err := tm.MarshalToNative(&Context{}, MarshalContext{ParameterName: "title"})
	require.NoError(t, err)
	assert.Equal(t, "toQString(title)", got)

	got, err = tm.MarshalFromNative(&Context{}, MarshalContext{ReturnVarName: "__ret"})
	require.NoError(t, err)
	assert.Equal(t, "fromQString(__ret)", got)
}

func TestStatic_TemplateArguments(t *testing.T) {
	s, err := NewStatic(StaticSpec{
		Names:     []string{"QList"},
		Signature: "List<{{index .Args 0}}>^",
	})
	require.NoError(t, err)

	ctx := &Context{
		Type:    &ast.TemplateSpecializationType{Arguments: []ast.Type{&ast.PrimitiveType{Primitive: ast.Int32}}},
		Printer: argPrinter{},
	}
	sig, err := s.Signature(ctx)
	require.NoError(t, err)
	assert.Equal(t, "List<int32>^", sig)

	_, err = s.MarshalToNative(ctx, MarshalContext{})
	assert.True(t, errors.IsUnsupported(err), "missing template means unsupported")
}

func TestNewStatic_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec StaticSpec
	}{
		{"no names", StaticSpec{Signature: "X"}},
		{"no signature", StaticSpec{Names: []string{"X"}}},
		{"bad template", StaticSpec{Names: []string{"X"}, Signature: "{{.Name"}},
		{"bad marshal template", StaticSpec{Names: []string{"X"}, Signature: "X", ToNative: "{{end}}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStatic(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var r *Registry

	_, ok := r.Lookup("std::string")
	assert.False(t, ok)
	assert.Empty(t, r.Names())
	assert.Equal(t, 0, r.Len())
}
