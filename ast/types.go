package ast

// TypeKind identifies a type variant
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindPointer
	KindArray
	KindFunctionType
	KindTag
	KindTypedefType
	KindTemplateSpecialization
	KindMemberPointer
)

var typeKindNames = [...]string{
	KindPrimitive:              "primitive",
	KindPointer:                "pointer",
	KindArray:                  "array",
	KindFunctionType:           "function type",
	KindTag:                    "tag",
	KindTypedefType:            "typedef type",
	KindTemplateSpecialization: "template specialization",
	KindMemberPointer:          "member pointer",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(typeKindNames) {
		return "unknown"
	}
	return typeKindNames[k]
}

// Type is implemented by every type variant
type Type interface {
	TypeKind() TypeKind
	typ()
}

// TypeQualifiers are the cv-qualifiers applied to a type reference
type TypeQualifiers struct {
	IsConst    bool
	IsVolatile bool
}

// Primitive is a builtin type kind
type Primitive int

const (
	Bool Primitive = iota
	Void
	WideChar
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float
	Double

	// Kinds the frontend may report that have no fixed binding token
	Char
	LongDouble
	Int128
	UInt128
	Null
)

var primitiveNames = [...]string{
	Bool:       "bool",
	Void:       "void",
	WideChar:   "wchar",
	Int8:       "int8",
	UInt8:      "uint8",
	Int16:      "int16",
	UInt16:     "uint16",
	Int32:      "int32",
	UInt32:     "uint32",
	Int64:      "int64",
	UInt64:     "uint64",
	Float:      "float",
	Double:     "double",
	Char:       "char",
	LongDouble: "long double",
	Int128:     "int128",
	UInt128:    "uint128",
	Null:       "null",
}

func (p Primitive) String() string {
	if p < 0 || int(p) >= len(primitiveNames) {
		return "unknown"
	}
	return primitiveNames[p]
}

// ParsePrimitive maps a frontend primitive name back to its kind
func ParsePrimitive(name string) (Primitive, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return Primitive(i), true
		}
	}
	return 0, false
}

// PrimitiveType is a builtin type
type PrimitiveType struct {
	Primitive Primitive
}

// PointerType is a pointer or reference. Qualifiers apply to the pointee.
type PointerType struct {
	Pointee           Type
	Qualifiers        TypeQualifiers
	IsLValueReference bool
}

// ArrayType is a fixed or incomplete array. Size is -1 when unknown.
type ArrayType struct {
	Element Type
	Size    int64
}

// FunctionType is the signature of a callable
type FunctionType struct {
	ReturnType Type
	Parameters []*Parameter
}

// TagType refers to a named Class or Enumeration
type TagType struct {
	Decl Decl
}

// TypedefType refers to a Typedef declaration
type TypedefType struct {
	Decl *Typedef
}

// TemplateSpecializationType is a template instantiated with arguments
type TemplateSpecializationType struct {
	Template  *ClassTemplate
	Arguments []Type
}

// MemberPointerType is a pointer to member
type MemberPointerType struct {
	Pointee Type
}

func (*PrimitiveType) TypeKind() TypeKind              { return KindPrimitive }
func (*PointerType) TypeKind() TypeKind                { return KindPointer }
func (*ArrayType) TypeKind() TypeKind                  { return KindArray }
func (*FunctionType) TypeKind() TypeKind               { return KindFunctionType }
func (*TagType) TypeKind() TypeKind                    { return KindTag }
func (*TypedefType) TypeKind() TypeKind                { return KindTypedefType }
func (*TemplateSpecializationType) TypeKind() TypeKind { return KindTemplateSpecialization }
func (*MemberPointerType) TypeKind() TypeKind          { return KindMemberPointer }

func (*PrimitiveType) typ()              {}
func (*PointerType) typ()                {}
func (*ArrayType) typ()                  {}
func (*FunctionType) typ()               {}
func (*TagType) typ()                    {}
func (*TypedefType) typ()                {}
func (*TemplateSpecializationType) typ() {}
func (*MemberPointerType) typ()          {}

// IsPrimitive reports whether t is the given primitive kind
func IsPrimitive(t Type, kind Primitive) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.Primitive == kind
}

// PointeeFunction returns the function type t points to, if t is a pointer to a function
func PointeeFunction(t Type) (*FunctionType, bool) {
	ptr, ok := t.(*PointerType)
	if !ok {
		return nil, false
	}
	fn, ok := ptr.Pointee.(*FunctionType)
	return fn, ok
}

// TemplateName returns the qualified name a specialization is looked up by:
// that of the templated declaration, falling back to the template itself.
func (t *TemplateSpecializationType) TemplateName() string {
	if t.Template == nil {
		return ""
	}
	if t.Template.TemplatedDecl != nil {
		return t.Template.TemplatedDecl.Base().QualifiedOriginalName
	}
	return t.Template.QualifiedOriginalName
}
