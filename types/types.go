// Package types implements the type descriptor system used by the
// semantic analyzer: the five scalar kinds plus array and struct types,
// structural equality, the numeric/integral predicates, and assignability.
package types

import "fmt"

// Kind is the coarse category of a Type.
type Kind int

const (
	// Error is the type assigned to any expression that already produced a
	// diagnostic, so later checks don't cascade a second error from the
	// same root cause.
	Error Kind = iota
	Void
	Integer
	Real
	Boolean
	Character
	String
	Array
	Struct
)

// Type is an immutable type descriptor. Array and Struct carry extra
// payload in Elem/Dims and Name/Fields respectively; all other kinds are
// fully described by Kind alone.
type Type struct {
	Kind Kind

	// Array payload.
	Elem *Type
	Dims []int // declared dimension sizes, -1 if absent, not constant-foldable, or not positive

	// Struct payload.
	Name   string
	Fields []Field
}

// Field is one member of a struct type, in declaration order.
type Field struct {
	Name string
	Type *Type
	// Offset is this field's position in the struct's layout table, in
	// declaration order. The emitters take field order from the AST's
	// StructDef instead of reading it.
	Offset int
}

var (
	ErrorType   = &Type{Kind: Error}
	VoidType    = &Type{Kind: Void}
	IntegerType = &Type{Kind: Integer}
	RealType    = &Type{Kind: Real}
	BoolType    = &Type{Kind: Boolean}
	CharType    = &Type{Kind: Character}
	StringType  = &Type{Kind: String}
)

// NewArray builds an array type over elem with the given dimension sizes.
func NewArray(elem *Type, dims []int) *Type {
	return &Type{Kind: Array, Elem: elem, Dims: dims}
}

// NewStruct builds a struct type descriptor; Offset in each Field should
// already reflect its position in the owning StructDef.
func NewStruct(name string, fields []Field) *Type {
	return &Type{Kind: Struct, Name: name, Fields: fields}
}

func (t *Type) String() string {
	switch t.Kind {
	case Error:
		return "<erreur>"
	case Void:
		return "<rien>"
	case Integer:
		return "entier"
	case Real:
		return "reel"
	case Boolean:
		return "booleen"
	case Character:
		return "caractere"
	case String:
		return "chaine"
	case Array:
		return fmt.Sprintf("tableau de %v %s", t.Dims, t.Elem)
	case Struct:
		return t.Name
	default:
		return "<type inconnu>"
	}
}

// IsNumeric reports whether t supports arithmetic operators: entier and
// reel directly, caractere by treating its ordinal value as an integer.
func (t *Type) IsNumeric() bool {
	return t.Kind == Integer || t.Kind == Real || t.Kind == Character
}

// IsIntegerish reports whether t may stand in an integer-only position
// (array index, for-loop variable/bound/step, Selon subject) under this system's
// permissive coercion rule: integer, character, and boolean values all
// decay to an integer there. Kept as one shared predicate so the rule is
// applied identically to indexing and to loop bounds rather than
// re-deriving it at each call site.
func (t *Type) IsIntegerish() bool {
	switch t.Kind {
	case Integer, Character, Boolean:
		return true
	default:
		return false
	}
}

// Equal reports structural equality: scalars compare by kind, arrays
// compare element type and dimension count, structs compare by name
// (nominal, not structural, matching a declared struct's identity).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Array:
		if len(a.Dims) != len(b.Dims) {
			return false
		}
		return Equal(a.Elem, b.Elem)
	case Struct:
		return a.Name == b.Name
	default:
		return true
	}
}

// Assignable reports whether a value of type src may be assigned to a
// destination of type dst. Integer, character, and boolean all widen to
// real; character and boolean both widen to integer; every other pair
// requires exact equality. Either side being Error makes the pair
// trivially assignable, so one malformed expression doesn't cascade a
// second diagnostic onto the assignment that contains it.
func Assignable(dst, src *Type) bool {
	if dst.Kind == Error || src.Kind == Error {
		return true
	}
	if dst.Kind == Real && (src.Kind == Integer || src.Kind == Character || src.Kind == Boolean) {
		return true
	}
	if dst.Kind == Integer && (src.Kind == Character || src.Kind == Boolean) {
		return true
	}
	return Equal(dst, src)
}

// DecayIndex reports the effective integer-position type t decays to for
// array indexing or a for-loop bound, or nil if t can't occupy that
// position at all.
func DecayIndex(t *Type) *Type {
	if t.IsIntegerish() {
		return IntegerType
	}
	return nil
}
