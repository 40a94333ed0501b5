// Package filter decides which declarations are eligible for generation.
//
// Every function here is a pure predicate over its arguments: no side
// effects, and the result does not depend on evaluation order.
package filter

import (
	"github.com/teranos/cxxbind/ast"
)

// Reason names the predicate that excluded a method
type Reason int

const (
	ReasonNone Reason = iota
	ReasonIgnored
	ReasonAbstractConstructor
	ReasonValueTypeDefaultConstructor
	ReasonCopyOrMoveConstructor
	ReasonDestructor
	ReasonEqualityOperator
	ReasonConversionOperator
	ReasonNotPublic
)

var reasonNames = [...]string{
	ReasonNone:                        "eligible",
	ReasonIgnored:                     "explicitly ignored",
	ReasonAbstractConstructor:         "constructor of abstract class",
	ReasonValueTypeDefaultConstructor: "default constructor of value type",
	ReasonCopyOrMoveConstructor:       "copy or move constructor",
	ReasonDestructor:                  "destructor",
	ReasonEqualityOperator:            "equality operator",
	ReasonConversionOperator:          "conversion operator",
	ReasonNotPublic:                   "not public",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// ExclusionReason returns the first predicate that excludes method from
// class, or (ReasonNone, false) when the method is eligible.
func ExclusionReason(class *ast.Class, method *ast.Method) (Reason, bool) {
	switch {
	case method.IsIgnored():
		return ReasonIgnored, true
	case class.IsAbstract && method.IsConstructor:
		return ReasonAbstractConstructor, true
	case class.IsValueType() && method.IsDefaultConstructor:
		return ReasonValueTypeDefaultConstructor, true
	case method.IsCopyConstructor || method.IsMoveConstructor:
		return ReasonCopyOrMoveConstructor, true
	case method.IsDestructor:
		return ReasonDestructor, true
	case method.OperatorKind == ast.OperatorEqual:
		return ReasonEqualityOperator, true
	case method.Kind == ast.MethodConversion:
		return ReasonConversionOperator, true
	case method.Access != ast.AccessPublic:
		return ReasonNotPublic, true
	}
	return ReasonNone, false
}

// IsMethodExcluded reports whether method must not be generated for class
func IsMethodExcluded(class *ast.Class, method *ast.Method) bool {
	_, excluded := ExclusionReason(class, method)
	return excluded
}

// IsDeclarationExcluded reports whether a top-level declaration must not be
// generated: it was ignored or is not public.
func IsDeclarationExcluded(d ast.Decl) bool {
	b := d.Base()
	return b.IsIgnored() || b.Access != ast.AccessPublic
}

// EligibleMethods returns the methods of class that survive IsMethodExcluded,
// in declaration order
func EligibleMethods(class *ast.Class) []*ast.Method {
	var out []*ast.Method
	for _, m := range class.Methods {
		if !IsMethodExcluded(class, m) {
			out = append(out, m)
		}
	}
	return out
}
