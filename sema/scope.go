package sema

import "github.com/codeassociates/algopseudo/types"

// SymbolKind distinguishes what a name in scope refers to.
type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymConst
	SymParam
	SymFunc
	SymProc
	SymStruct
)

// ParamSig is one parameter's name and resolved type, as recorded against
// a function/procedure symbol's signature.
type ParamSig struct {
	Name string
	Type *types.Type
}

// Symbol is an entry in a Scope: a declared name, what kind of thing it
// names, and its resolved type. Functions and procedures additionally
// carry their parameter signature and return type (Void for procedures).
// Integer constants with a foldable initializer carry their folded value.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type *types.Type

	HasConstValue bool
	ConstValue    int64

	Params     []ParamSig
	ReturnType *types.Type
}

// Scope is one link in the innermost-to-outermost scope chain. Lookup
// walks parent links; redeclaring a name already present in the same
// Scope is rejected by DeclareHere.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a Scope chained to parent (nil for the outermost scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]*Symbol)}
}

// DeclareHere adds sym to this scope, returning false if a symbol with
// the same name already exists in this exact scope (not a parent).
func (s *Scope) DeclareHere(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// Lookup walks from s outward through parent scopes.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
