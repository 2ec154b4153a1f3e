// Package ast defines the syntax tree produced by the parser and consumed
// by the semantic analyzer and emitters.
package ast

import (
	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/token"
)

// Node is the root interface implemented by every tree element.
type Node interface {
	Pos() diag.Pos
	TokenLiteral() string
}

// Statement is a Node that occurs in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// TypeExpr is a Node appearing in a type position (a declared variable's
// type, a function's return type, a struct field's type).
type TypeExpr interface {
	Node
	typeExprNode()
}

type Base struct {
	Tok token.Token
}

func (b Base) Pos() diag.Pos        { return diag.Pos{Line: b.Tok.Line, Column: b.Tok.Column} }
func (b Base) TokenLiteral() string { return b.Tok.Lit }

// ---- Program ----

// Program is the root node: an optional Objets section, declarations, and
// the Début/Fin main block.
type Program struct {
	Base
	Name    string
	Objets  []Statement
	Structs []*StructDef
	Procs   []*ProcDef
	Funcs   []*FuncDef
	Main    *Block
}

func (p *Program) statementNode() {}

// ---- Type expressions ----

// PrimitiveTypeExpr names a built-in scalar type.
type PrimitiveTypeExpr struct {
	Base
	Name string // "entier", "reel", "caractere", "chaine", "booleen"
}

func (t *PrimitiveTypeExpr) typeExprNode() {}

// NamedTypeExpr names a user-declared struct type.
type NamedTypeExpr struct {
	Base
	Name string
}

func (t *NamedTypeExpr) typeExprNode() {}

// ArrayTypeExpr is "tableau <elem> [dim]...", one dimension per entry in Dims.
type ArrayTypeExpr struct {
	Base
	Dims []Expression
	Elem TypeExpr
}

func (t *ArrayTypeExpr) typeExprNode() {}

// ---- Declarations ----

// VarDecl declares one or more names of the same type.
type VarDecl struct {
	Base
	Names []string
	Type  TypeExpr
}

func (d *VarDecl) statementNode() {}

// ConstDecl declares a named constant with a constant-foldable value.
type ConstDecl struct {
	Base
	Name  string
	Type  TypeExpr
	Value Expression
}

func (d *ConstDecl) statementNode() {}

// Field is one member of a struct definition.
type Field struct {
	Base
	Name string
	Type TypeExpr
}

// StructDef declares a struct type and its ordered fields.
type StructDef struct {
	Base
	Name   string
	Fields []*Field
}

func (d *StructDef) statementNode() {}

// Param is one formal parameter of a procedure or function.
type Param struct {
	Base
	Name string
	Type TypeExpr
}

// ProcDef declares a procedure (no return value).
type ProcDef struct {
	Base
	Name   string
	Params []*Param
	Locals []Statement
	Body   *Block
}

func (d *ProcDef) statementNode() {}

// FuncDef declares a function with a declared return type.
type FuncDef struct {
	Base
	Name       string
	Params     []*Param
	ReturnType TypeExpr
	Locals     []Statement
	Body       *Block
}

func (d *FuncDef) statementNode() {}

// ---- Statements ----

// Block is an ordered statement list.
type Block struct {
	Base
	Stmts []Statement
}

func (b *Block) statementNode() {}

// Assign is "lvalue <- expr".
type Assign struct {
	Base
	Target Expression
	Value  Expression
}

func (s *Assign) statementNode() {}

// If is "Si cond Alors ... [SinonSi cond Alors ...]* [Sinon ...] FinSi".
type If struct {
	Base
	Cond Expression
	Then *Block
	// ElseIfs holds any SinonSi clauses in source order.
	ElseIfs []*ElseIf
	Else    *Block // nil if no Sinon clause
}

func (s *If) statementNode() {}

// ElseIf is one SinonSi clause of an If.
type ElseIf struct {
	Base
	Cond Expression
	Then *Block
}

// While is "TantQue cond ... FinTantQue".
type While struct {
	Base
	Cond Expression
	Body *Block
}

func (s *While) statementNode() {}

// For is "Pour i <- from Jusqu'à to [Pas step] ... FinPour".
type For struct {
	Base
	Var  string
	From Expression
	To   Expression
	Step Expression // nil when no explicit Pas clause
	Body *Block
}

func (s *For) statementNode() {}

// Repeat is "Répéter ... TantQue cond", a post-tested loop that keeps
// running while cond holds.
type Repeat struct {
	Base
	Body *Block
	Cond Expression
}

func (s *Repeat) statementNode() {}

// CallStmt is a procedure call used as a statement.
type CallStmt struct {
	Base
	Call *Call
}

func (s *CallStmt) statementNode() {}

// Return is "Retourner expr" inside a function body.
type Return struct {
	Base
	Value Expression // nil for a bare Retour inside a procedure
}

func (s *Return) statementNode() {}

// Write is "Ecrire(expr [, expr]*)".
type Write struct {
	Base
	Args []Expression
}

func (s *Write) statementNode() {}

// Read is "Lire(lvalue [, lvalue]*)".
type Read struct {
	Base
	Targets []Expression
}

func (s *Read) statementNode() {}

// Break is "Sortir": exits the innermost loop or Selon.
type Break struct {
	Base
}

func (s *Break) statementNode() {}

// QuitFor is "Quitter Pour": exits the innermost Pour loop specifically.
type QuitFor struct {
	Base
}

func (s *QuitFor) statementNode() {}

// Switch is "Selon expr Cas v1: ... [Cas v2: ...]* [Défaut: ...] FinSelon".
type Switch struct {
	Base
	Subject Expression
	Cases   []*Case
	Default *Block // nil if no Défaut clause
}

func (s *Switch) statementNode() {}

// Case is one Cas clause of a Switch. Labels are constant-foldable
// expressions; duplicate folded values across a Switch are a semantic error.
type Case struct {
	Base
	Labels []Expression
	Body   *Block
}

// ---- Expressions ----

// BinaryOp enumerates the binary operators. DivInt and Div are kept
// distinct even though some target languages lower them to the same
// runtime operator, so each emitter can decide independently.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div    // real division ("/")
	DivInt // integer division ("Div")
	Mod
	Pow
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	And
	Or
)

// Binary is a binary-operator expression.
type Binary struct {
	Base
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (e *Binary) expressionNode() {}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

// Unary is a unary-operator expression.
type Unary struct {
	Base
	Op      UnaryOp
	Operand Expression
}

func (e *Unary) expressionNode() {}

// IntLit is an integer literal.
type IntLit struct {
	Base
	Value int64
}

func (e *IntLit) expressionNode() {}

// RealLit is a floating-point literal.
type RealLit struct {
	Base
	Value float64
}

func (e *RealLit) expressionNode() {}

// StringLit is a string literal.
type StringLit struct {
	Base
	Value string
}

func (e *StringLit) expressionNode() {}

// BoolLit is Vrai/Faux.
type BoolLit struct {
	Base
	Value bool
}

func (e *BoolLit) expressionNode() {}

// Identifier references a variable, constant, or parameter by name.
type Identifier struct {
	Base
	Name string
}

func (e *Identifier) expressionNode() {}

// Index is "array[expr]".
type Index struct {
	Base
	Array Expression
	Index Expression
}

func (e *Index) expressionNode() {}

// FieldAccess is "expr.field".
type FieldAccess struct {
	Base
	Target Expression
	Field  string
}

func (e *FieldAccess) expressionNode() {}

// Call is a function or procedure invocation with ordered arguments.
type Call struct {
	Base
	Callee string
	Args   []Expression
}

func (e *Call) expressionNode() {}
