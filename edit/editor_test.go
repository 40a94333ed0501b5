package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cxxbind/ast"
	"github.com/teranos/cxxbind/errors"
)

// =============================================================================
// Fixtures
// =============================================================================

func macro(name, expr string) *ast.MacroDefinition {
	return &ast.MacroDefinition{DeclBase: ast.DeclBase{Name: name, QualifiedOriginalName: name}, Expression: expr}
}

func class(name string) *ast.Class {
	return &ast.Class{DeclBase: ast.DeclBase{Name: name, QualifiedOriginalName: name}}
}

func enumWithItems(name string, items ...string) *ast.Enumeration {
	e := ast.NewEnumeration(name)
	for i, item := range items {
		e.AddItem(ast.EnumItem{Name: item, Value: int64(i)})
	}
	return e
}

// testLibrary has two units that both define a Widget class and a color enum,
// plus a system header
func testLibrary() *ast.Library {
	lib := ast.NewLibrary("Lib")

	first := ast.NewTranslationUnit("include/widget.h")
	w := class("Widget")
	w.AddMethod(&ast.Method{DeclBase: ast.DeclBase{Name: "frob"}})
	w.AddMethod(&ast.Method{DeclBase: ast.DeclBase{Name: "frob"}})
	first.AddDeclaration(w)
	first.AddDeclaration(&ast.Function{DeclBase: ast.DeclBase{Name: "make_widget"}})
	first.AddEnum(enumWithItems("Color", "COLOR_RED", "COLOR_GREEN"))
	lib.AddUnit(first)

	second := ast.NewTranslationUnit("include/other.h")
	second.AddDeclaration(class("Widget"))
	second.AddDeclaration(&ast.Function{DeclBase: ast.DeclBase{Name: "make_widget"}})
	second.AddEnum(enumWithItems("Color", "COLOR_BLUE"))
	second.AddEnum(enumWithItems("Shape", "SHAPE_SQUARE"))
	lib.AddUnit(second)

	system := ast.NewTranslationUnit("/usr/include/stdio.h")
	system.IsSystemHeader = true
	lib.AddUnit(system)

	return lib
}

// =============================================================================
// Find helpers
// =============================================================================

func TestFind_FirstMatchWins(t *testing.T) {
	lib := testLibrary()
	e := New(lib)

	assert.Same(t, lib.Units[0].Declarations[0], e.FindClass("Widget"))
	assert.Same(t, lib.Units[0].Declarations[1], e.FindFunction("make_widget"))
	assert.Same(t, lib.Units[0].Enums[0], e.FindEnum("Color"))
	assert.Same(t, lib.Units[1].Enums[1], e.FindEnum("Shape"))
}

func TestFind_MissReturnsNil(t *testing.T) {
	e := New(testLibrary())

	assert.Nil(t, e.FindClass("Gadget"))
	assert.Nil(t, e.FindFunction("Widget"))
	assert.Nil(t, e.FindEnum("color"))

	found, err := e.GetEnumWithMatchingItem("^NOPE_")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetEnumWithMatchingItem(t *testing.T) {
	lib := testLibrary()
	e := New(lib)

	found, err := e.GetEnumWithMatchingItem("BLUE")
	require.NoError(t, err)
	assert.Same(t, lib.Units[1].Enums[0], found)

	found, err = e.GetEnumWithMatchingItem("^COLOR_")
	require.NoError(t, err)
	assert.Same(t, lib.Units[0].Enums[0], found, "first unit wins")
}

// =============================================================================
// Mutation helpers
// =============================================================================

func TestMutations(t *testing.T) {
	tests := []struct {
		name  string
		apply func(e *Editor) error
		check func(t *testing.T, lib *ast.Library)
	}{
		{
			name:  "ignore class",
			apply: func(e *Editor) error { e.IgnoreClassWithName("Widget"); return nil },
			check: func(t *testing.T, lib *ast.Library) {
				assert.True(t, lib.Units[0].Declarations[0].Base().IsIgnored())
				assert.False(t, lib.Units[1].Declarations[0].Base().IsIgnored(), "only the first match")
			},
		},
		{
			name:  "rename class",
			apply: func(e *Editor) error { e.SetClassBindName("Widget", "ManagedWidget"); return nil },
			check: func(t *testing.T, lib *ast.Library) {
				c := lib.Units[0].Declarations[0].(*ast.Class)
				assert.Equal(t, "ManagedWidget", c.Name)
				assert.Equal(t, "Widget", c.QualifiedOriginalName, "original name is never edited")
			},
		},
		{
			name:  "value type",
			apply: func(e *Editor) error { e.SetClassAsValueType("Widget"); return nil },
			check: func(t *testing.T, lib *ast.Library) {
				c := lib.Units[0].Declarations[0].(*ast.Class)
				assert.True(t, c.IsValueType())
				assert.False(t, c.IsRefType())
			},
		},
		{
			name:  "ignore method",
			apply: func(e *Editor) error { e.IgnoreClassMethodWithName("Widget", "frob"); return nil },
			check: func(t *testing.T, lib *ast.Library) {
				c := lib.Units[0].Declarations[0].(*ast.Class)
				assert.True(t, c.Methods[0].IsIgnored())
				assert.False(t, c.Methods[1].IsIgnored())
			},
		},
		{
			name:  "ignore function",
			apply: func(e *Editor) error { e.IgnoreFunctionWithName("make_widget"); return nil },
			check: func(t *testing.T, lib *ast.Library) {
				assert.True(t, lib.Units[0].Declarations[1].Base().IsIgnored())
			},
		},
		{
			name:  "ignore enum",
			apply: func(e *Editor) error { e.IgnoreEnumWithName("Shape"); return nil },
			check: func(t *testing.T, lib *ast.Library) {
				assert.True(t, lib.Units[1].Enums[1].IsIgnored())
			},
		},
		{
			name:  "rename enum",
			apply: func(e *Editor) error { e.SetNameOfEnumWithName("Color", "Colour"); return nil },
			check: func(t *testing.T, lib *ast.Library) {
				assert.Equal(t, "Colour", lib.Units[0].Enums[0].Name)
				assert.Equal(t, "Color", lib.Units[1].Enums[0].Name)
			},
		},
		{
			name:  "rename enum by item",
			apply: func(e *Editor) error { return e.SetNameOfEnumWithMatchingItem("SHAPE_", "Shapes") },
			check: func(t *testing.T, lib *ast.Library) {
				assert.Equal(t, "Shapes", lib.Units[1].Enums[1].Name)
			},
		},
		{
			name:  "ignore enum by item",
			apply: func(e *Editor) error { return e.IgnoreEnumWithMatchingItem("COLOR_BLUE") },
			check: func(t *testing.T, lib *ast.Library) {
				assert.False(t, lib.Units[0].Enums[0].IsIgnored())
				assert.True(t, lib.Units[1].Enums[0].IsIgnored())
			},
		},
		{
			name: "ignore units by path",
			apply: func(e *Editor) error {
				n, err := e.IgnoreTranslationUnitsMatching(`^include/`)
				assert.Equal(t, 2, n)
				return err
			},
			check: func(t *testing.T, lib *ast.Library) {
				assert.True(t, lib.Units[0].IsIgnored())
				assert.True(t, lib.Units[1].IsIgnored())
				assert.False(t, lib.Units[2].IsIgnored())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := testLibrary()
			e := New(lib)
			require.NoError(t, tt.apply(e))
			tt.check(t, lib)

			// Applying twice is the same as once
			require.NoError(t, tt.apply(e))
			tt.check(t, lib)
		})
	}
}

func TestMutations_MissIsNoOp(t *testing.T) {
	lib := testLibrary()
	before := snapshotState(lib)
	e := New(lib)

	e.IgnoreClassWithName("Gadget")
	e.SetClassBindName("Gadget", "X")
	e.SetClassAsValueType("Gadget")
	e.IgnoreClassMethodWithName("Gadget", "frob")
	e.IgnoreClassMethodWithName("Widget", "nope")
	e.IgnoreFunctionWithName("nope")
	e.IgnoreEnumWithName("Nope")
	e.SetNameOfEnumWithName("Nope", "X")
	require.NoError(t, e.IgnoreEnumWithMatchingItem("^NOPE$"))
	require.NoError(t, e.SetNameOfEnumWithMatchingItem("^NOPE$", "X"))
	n, err := e.IgnoreTranslationUnitsMatching(`\.hpp$`)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, before, snapshotState(lib))
}

func TestInvalidPatterns(t *testing.T) {
	e := New(testLibrary())

	_, err := e.GetEnumWithMatchingItem("COLOR_(")
	assert.True(t, errors.Is(err, errors.ErrInvalidPattern))

	assert.Error(t, e.IgnoreEnumWithMatchingItem("["))
	assert.Error(t, e.SetNameOfEnumWithMatchingItem("[", "X"))

	_, err = e.IgnoreTranslationUnitsMatching("(")
	assert.True(t, errors.Is(err, errors.ErrInvalidPattern))

	_, err = e.GenerateEnumFromMacros("E", "FOO_(")
	assert.True(t, errors.Is(err, errors.ErrInvalidPattern))
}

// =============================================================================
// Phase boundary
// =============================================================================

func TestFreeze(t *testing.T) {
	lib := testLibrary()
	e := New(lib)
	e.SetClassBindName("Widget", "W")

	snap := e.Freeze()
	assert.Same(t, lib, snap.Library())
	assert.Equal(t, "Lib", snap.Name())
	assert.Len(t, snap.Units(), 3)

	calls := map[string]func(){
		"FindClass":    func() { e.FindClass("W") },
		"SetClass":     func() { e.SetClassBindName("W", "X") },
		"IgnoreUnits":  func() { _, _ = e.IgnoreTranslationUnitsMatching(".*") },
		"EnumMacros":   func() { _, _ = e.GenerateEnumFromMacros("E", "X") },
		"FreezeAgain":  func() { e.Freeze() },
		"Library":      func() { e.Library() },
		"IgnoreMethod": func() { e.IgnoreClassMethodWithName("W", "frob") },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r, "editor call after Freeze must panic")
				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, errors.HasAssertionFailure(err))
			}()
			call()
		})
	}

	assert.Equal(t, "W", lib.Units[0].Declarations[0].Base().Name, "nothing changed after Freeze")
}

// snapshotState captures names, categories and ignore flags for comparison
func snapshotState(lib *ast.Library) []string {
	var out []string
	for _, u := range lib.Units {
		out = append(out, u.FilePath, boolString(u.IsIgnored()))
		for _, d := range u.Declarations {
			out = append(out, d.Base().Name, boolString(d.Base().IsIgnored()))
			if c, ok := d.(*ast.Class); ok {
				out = append(out, c.Category.String())
				for _, m := range c.Methods {
					out = append(out, m.Name, boolString(m.IsIgnored()))
				}
			}
		}
		for _, en := range u.Enums {
			out = append(out, en.Name, boolString(en.IsIgnored()))
		}
	}
	return out
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
