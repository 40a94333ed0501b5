// Package ast models the declarations and types of a native library as
// produced by the external source-analysis frontend.
//
// Declarations and types are closed sum types: every variant implements an
// interface with an unexported marker method, so switches over them can be
// checked for exhaustiveness and no variant can be added outside this package.
package ast

import (
	"regexp"
)

// DeclKind identifies a declaration variant
type DeclKind int

const (
	KindClass DeclKind = iota
	KindEnumeration
	KindFunction
	KindMethod
	KindField
	KindParameter
	KindTypedef
	KindClassTemplate
	KindFunctionTemplate
	KindMacroDefinition
)

var declKindNames = [...]string{
	KindClass:            "class",
	KindEnumeration:      "enum",
	KindFunction:         "function",
	KindMethod:           "method",
	KindField:            "field",
	KindParameter:        "parameter",
	KindTypedef:          "typedef",
	KindClassTemplate:    "class template",
	KindFunctionTemplate: "function template",
	KindMacroDefinition:  "macro",
}

func (k DeclKind) String() string {
	if k < 0 || int(k) >= len(declKindNames) {
		return "unknown"
	}
	return declKindNames[k]
}

// AccessSpecifier is the C++ access level of a declaration
type AccessSpecifier int

const (
	AccessPublic AccessSpecifier = iota
	AccessProtected
	AccessPrivate
)

func (a AccessSpecifier) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Decl is implemented by every declaration variant
type Decl interface {
	Base() *DeclBase
	DeclKind() DeclKind
	decl()
}

// DeclBase holds the attributes shared by all declarations
type DeclBase struct {
	// Name is the binding name; the editor may change it
	Name string
	// QualifiedOriginalName is set by the loader and never changed
	QualifiedOriginalName string
	Access                AccessSpecifier
	// Comment is the brief documentation comment, if the frontend captured one
	Comment string
	// Unit is the owning translation unit
	Unit *TranslationUnit

	ignored bool
}

func (b *DeclBase) Base() *DeclBase { return b }
func (b *DeclBase) decl()           {}

// IsIgnored reports whether the declaration was excluded from generation
func (b *DeclBase) IsIgnored() bool { return b.ignored }

// Ignore excludes the declaration from generation. There is no way back.
func (b *DeclBase) Ignore() { b.ignored = true }

// ClassCategory selects reference or value semantics for a class
type ClassCategory int

const (
	RefType ClassCategory = iota
	ValueType
)

func (c ClassCategory) String() string {
	if c == ValueType {
		return "value"
	}
	return "ref"
}

// Class is a class, struct or union declaration
type Class struct {
	DeclBase
	Category   ClassCategory
	IsAbstract bool
	Methods    []*Method
	Fields     []*Field
}

func (*Class) DeclKind() DeclKind { return KindClass }

func (c *Class) IsValueType() bool { return c.Category == ValueType }
func (c *Class) IsRefType() bool   { return c.Category == RefType }

// AddMethod appends a method and sets its owner
func (c *Class) AddMethod(m *Method) {
	m.Class = c
	m.Unit = c.Unit
	for _, p := range m.Parameters {
		p.Unit = c.Unit
	}
	c.Methods = append(c.Methods, m)
}

// AddField appends a field and sets its owner
func (c *Class) AddField(f *Field) {
	f.Class = c
	f.Unit = c.Unit
	c.Fields = append(c.Fields, f)
}

// FindMethod returns the first method with the given name, or nil
func (c *Class) FindMethod(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// OperatorKind is the overloaded operator a method implements, if any
type OperatorKind int

const (
	OperatorNone OperatorKind = iota
	OperatorEqual
	OperatorNotEqual
	OperatorAssign
	OperatorLess
	OperatorPlus
	OperatorMinus
	OperatorSubscript
	OperatorCall
	OperatorOther
)

// MethodKind classifies special member functions
type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodConstructor
	MethodDestructor
	MethodConversion
	MethodOperator
)

func (k MethodKind) String() string {
	switch k {
	case MethodNormal:
		return "normal"
	case MethodConstructor:
		return "constructor"
	case MethodDestructor:
		return "destructor"
	case MethodConversion:
		return "conversion"
	case MethodOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Method is a member function of a Class
type Method struct {
	DeclBase
	Class      *Class
	ReturnType Type
	Parameters []*Parameter

	IsConstructor        bool
	IsDefaultConstructor bool
	IsCopyConstructor    bool
	IsMoveConstructor    bool
	IsDestructor         bool
	IsStatic             bool
	IsConst              bool
	IsVirtual            bool

	OperatorKind OperatorKind
	Kind         MethodKind
}

func (*Method) DeclKind() DeclKind { return KindMethod }

// Function is a free function
type Function struct {
	DeclBase
	ReturnType Type
	Parameters []*Parameter
}

func (*Function) DeclKind() DeclKind { return KindFunction }

// Parameter is a function or method parameter
type Parameter struct {
	DeclBase
	Type    Type
	IsConst bool
}

func (*Parameter) DeclKind() DeclKind { return KindParameter }

// Field is a data member of a Class
type Field struct {
	DeclBase
	Class *Class
	Type  Type
}

func (*Field) DeclKind() DeclKind { return KindField }

// Typedef aliases a Type under a new name
type Typedef struct {
	DeclBase
	Type Type
}

func (*Typedef) DeclKind() DeclKind { return KindTypedef }

// ClassTemplate is a class template; TemplatedDecl is the pattern class
type ClassTemplate struct {
	DeclBase
	TemplatedDecl Decl
}

func (*ClassTemplate) DeclKind() DeclKind { return KindClassTemplate }

// FunctionTemplate is a function template; TemplatedDecl is the pattern function
type FunctionTemplate struct {
	DeclBase
	TemplatedDecl Decl
}

func (*FunctionTemplate) DeclKind() DeclKind { return KindFunctionTemplate }

// MacroDefinition is a preprocessor #define with its literal replacement text
type MacroDefinition struct {
	DeclBase
	Expression string
}

func (*MacroDefinition) DeclKind() DeclKind { return KindMacroDefinition }

// EnumItem is one enumerator
type EnumItem struct {
	Name       string
	Expression string
	Value      int64
}

// Enumeration is an enum declaration. Type is the underlying integer type.
type Enumeration struct {
	DeclBase
	Type  Type
	Items []EnumItem
}

func (*Enumeration) DeclKind() DeclKind { return KindEnumeration }

// NewEnumeration returns an enum with the default int underlying type
func NewEnumeration(name string) *Enumeration {
	return &Enumeration{
		DeclBase: DeclBase{Name: name, QualifiedOriginalName: name},
		Type:     &PrimitiveType{Primitive: Int32},
	}
}

// AddItem appends an enumerator, preserving insertion order
func (e *Enumeration) AddItem(item EnumItem) {
	e.Items = append(e.Items, item)
}

// FindItemMatching returns the first item whose name matches re
func (e *Enumeration) FindItemMatching(re *regexp.Regexp) (EnumItem, bool) {
	for _, item := range e.Items {
		if re.MatchString(item.Name) {
			return item, true
		}
	}
	return EnumItem{}, false
}
