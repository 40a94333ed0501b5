package ast

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreIsMonotonic(t *testing.T) {
	c := &Class{DeclBase: DeclBase{Name: "Widget"}}
	assert.False(t, c.IsIgnored())

	c.Ignore()
	c.Ignore()
	assert.True(t, c.IsIgnored())

	u := NewTranslationUnit("include/widget.h")
	u.Ignore()
	assert.True(t, u.IsIgnored())
}

func TestTranslationUnit_AddDeclarationSetsOwner(t *testing.T) {
	lib := NewLibrary("Lib")
	u := NewTranslationUnit("include/widget.h")
	lib.AddUnit(u)

	c := &Class{DeclBase: DeclBase{Name: "Widget"}}
	c.AddMethod(&Method{
		DeclBase:   DeclBase{Name: "frob"},
		Parameters: []*Parameter{{DeclBase: DeclBase{Name: "x"}}},
	})
	c.AddField(&Field{DeclBase: DeclBase{Name: "size"}})
	u.AddDeclaration(c)
	u.AddDeclaration(NewEnumeration("Color"))
	u.AddDeclaration(&MacroDefinition{DeclBase: DeclBase{Name: "FOO_A"}, Expression: "1"})

	assert.Same(t, lib, u.Library)
	assert.Same(t, u, c.Unit)
	assert.Same(t, u, c.Methods[0].Unit)
	assert.Same(t, u, c.Methods[0].Parameters[0].Unit)
	assert.Same(t, u, c.Fields[0].Unit)
	assert.Same(t, c, c.Methods[0].Class)

	assert.Len(t, u.Declarations, 1)
	assert.Len(t, u.Enums, 1)
	assert.Len(t, u.Macros, 1)
	assert.Same(t, u, u.Enums[0].Unit)
}

func TestTranslationUnit_Names(t *testing.T) {
	u := NewTranslationUnit("/src/include/widget.hpp")
	assert.Equal(t, "widget.hpp", u.FileName)
	assert.Equal(t, "widget", u.BaseName())
}

func TestTranslationUnit_HasDeclarations(t *testing.T) {
	u := NewTranslationUnit("a.h")
	assert.False(t, u.HasDeclarations())

	u.AddMacro(&MacroDefinition{DeclBase: DeclBase{Name: "X"}})
	assert.False(t, u.HasDeclarations(), "macros alone generate nothing")

	u.AddEnum(NewEnumeration("E"))
	assert.True(t, u.HasDeclarations())
}

func TestTranslationUnit_Find(t *testing.T) {
	u := NewTranslationUnit("a.h")
	first := &Class{DeclBase: DeclBase{Name: "Widget"}}
	second := &Class{DeclBase: DeclBase{Name: "Widget"}}
	fn := &Function{DeclBase: DeclBase{Name: "make_widget"}}
	u.AddDeclaration(first)
	u.AddDeclaration(second)
	u.AddDeclaration(fn)

	e := NewEnumeration("Color")
	e.AddItem(EnumItem{Name: "COLOR_RED", Value: 1})
	u.AddEnum(e)

	assert.Same(t, first, u.FindClass("Widget"))
	assert.Nil(t, u.FindClass("widget"), "lookup is case-sensitive")
	assert.Same(t, fn, u.FindFunction("make_widget"))
	assert.Nil(t, u.FindFunction("Widget"))
	assert.Same(t, e, u.FindEnum("Color"))
	assert.Same(t, e, u.FindEnumWithItem(regexp.MustCompile("^COLOR_")))
	assert.Nil(t, u.FindEnumWithItem(regexp.MustCompile("^SHAPE_")))

	assert.Len(t, u.Classes(), 2)
	assert.Len(t, u.Functions(), 1)
	assert.Empty(t, u.Typedefs())
}

func TestNewEnumeration_DefaultsToInt32(t *testing.T) {
	e := NewEnumeration("Flags")
	assert.True(t, IsPrimitive(e.Type, Int32))
	assert.Equal(t, "Flags", e.QualifiedOriginalName)
}

func TestEnumeration_FindItemMatching(t *testing.T) {
	e := NewEnumeration("E")
	e.AddItem(EnumItem{Name: "A", Value: 1})
	e.AddItem(EnumItem{Name: "AB", Value: 2})

	item, ok := e.FindItemMatching(regexp.MustCompile("^A"))
	require.True(t, ok)
	assert.Equal(t, "A", item.Name)

	_, ok = e.FindItemMatching(regexp.MustCompile("Z"))
	assert.False(t, ok)
}

func TestPointeeFunction(t *testing.T) {
	fn := &FunctionType{ReturnType: &PrimitiveType{Primitive: Void}}

	got, ok := PointeeFunction(&PointerType{Pointee: fn})
	require.True(t, ok)
	assert.Same(t, fn, got)

	_, ok = PointeeFunction(&PointerType{Pointee: &PrimitiveType{Primitive: Int32}})
	assert.False(t, ok)
	_, ok = PointeeFunction(fn)
	assert.False(t, ok)
}

func TestTemplateName(t *testing.T) {
	pattern := &Class{DeclBase: DeclBase{Name: "vector", QualifiedOriginalName: "std::vector"}}
	tmpl := &ClassTemplate{
		DeclBase:      DeclBase{Name: "vector", QualifiedOriginalName: "std::vector<T>"},
		TemplatedDecl: pattern,
	}

	assert.Equal(t, "std::vector", (&TemplateSpecializationType{Template: tmpl}).TemplateName())

	tmpl.TemplatedDecl = nil
	assert.Equal(t, "std::vector<T>", (&TemplateSpecializationType{Template: tmpl}).TemplateName())
	assert.Equal(t, "", (&TemplateSpecializationType{}).TemplateName())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "class", KindClass.String())
	assert.Equal(t, "macro", KindMacroDefinition.String())
	assert.Equal(t, "unknown", DeclKind(42).String())
	assert.Equal(t, "member pointer", KindMemberPointer.String())
	assert.Equal(t, "unknown", TypeKind(-1).String())
	assert.Equal(t, "conversion", MethodConversion.String())
	assert.Equal(t, "private", AccessPrivate.String())
	assert.Equal(t, "value", ValueType.String())
}

func TestParsePrimitive(t *testing.T) {
	for p := Bool; p <= Null; p++ {
		got, ok := ParsePrimitive(p.String())
		require.True(t, ok, p.String())
		assert.Equal(t, p, got)
	}

	_, ok := ParsePrimitive("quad")
	assert.False(t, ok)
}
