package parser

import (
	"testing"

	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := New(l)
	prog := p.ParseProgram()
	if !p.Errors.Empty() {
		t.Fatalf("unexpected parser errors for %q: %v", src, p.Errors.Strings())
	}
	return prog
}

func TestParseHello(t *testing.T) {
	prog := parseProgram(t, `Algorithme H
Début
	Ecrire("hi")
Fin`)

	if prog.Name != "H" {
		t.Fatalf("expected program name H, got %q", prog.Name)
	}
	if len(prog.Main.Stmts) != 1 {
		t.Fatalf("expected 1 main statement, got %d", len(prog.Main.Stmts))
	}
	write, ok := prog.Main.Stmts[0].(*ast.Write)
	if !ok {
		t.Fatalf("expected *ast.Write, got %T", prog.Main.Stmts[0])
	}
	if len(write.Args) != 1 {
		t.Fatalf("expected 1 write arg, got %d", len(write.Args))
	}
	lit, ok := write.Args[0].(*ast.StringLit)
	if !ok || lit.Value != "hi" {
		t.Fatalf("expected StringLit(hi), got %#v", write.Args[0])
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := parseProgram(t, `Algorithme A
Objets:
	x : Variable entier
Début
	x <- 2 + 3 * 4
Fin`)

	if len(prog.Objets) != 1 {
		t.Fatalf("expected 1 Objets declaration, got %d", len(prog.Objets))
	}
	if _, ok := prog.Objets[0].(*ast.VarDecl); !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Objets[0])
	}

	if len(prog.Main.Stmts) != 1 {
		t.Fatalf("expected 1 main statement, got %d", len(prog.Main.Stmts))
	}
	assign, ok := prog.Main.Stmts[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog.Main.Stmts[0])
	}
	bin, ok := assign.Value.(*ast.Binary)
	if !ok || bin.Op != ast.Add {
		t.Fatalf("expected top-level Add, got %#v", assign.Value)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != ast.Mul {
		t.Fatalf("expected '*' to bind tighter than '+', got %#v", bin.Right)
	}
}

func TestParseStringEscapes(t *testing.T) {
	prog := parseProgram(t, `Algorithme S
Début
	Ecrire("a\"b\\c")
Fin`)

	write := prog.Main.Stmts[0].(*ast.Write)
	lit, ok := write.Args[0].(*ast.StringLit)
	if !ok {
		t.Fatalf("expected *ast.StringLit, got %T", write.Args[0])
	}
	if lit.Value != `a"b\c` {
		t.Fatalf("expected escapes resolved to %q, got %q", `a"b\c`, lit.Value)
	}
}

func TestParseIfElseIfElse(t *testing.T) {
	prog := parseProgram(t, `Algorithme C
Objets:
	n : Variable entier
Début
	Si n > 0 Alors
		Ecrire("pos")
	SinonSi n < 0 Alors
		Ecrire("neg")
	Sinon
		Ecrire("zero")
	FinSi
Fin`)

	ifs, ok := prog.Main.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Main.Stmts[0])
	}
	if len(ifs.ElseIfs) != 1 {
		t.Fatalf("expected 1 SinonSi clause, got %d", len(ifs.ElseIfs))
	}
	if ifs.Else == nil {
		t.Fatalf("expected a Sinon block")
	}
}

func TestParseForWithStep(t *testing.T) {
	prog := parseProgram(t, `Algorithme F
Objets:
	i : Variable entier
Début
	Pour i <- 10 jusqu'à 1 pas -1
		Ecrire(i)
	FinPour
Fin`)

	f, ok := prog.Main.Stmts[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", prog.Main.Stmts[0])
	}
	if f.Var != "i" {
		t.Fatalf("expected loop var i, got %q", f.Var)
	}
	if f.Step == nil {
		t.Fatalf("expected a Pas clause")
	}
}

func TestParseArrayDeclWithConstDim(t *testing.T) {
	prog := parseProgram(t, `Algorithme B
Objets:
	N : Constante entier = 5
	t : tableau entier [N]
Début
	t[0] <- 1
Fin`)

	if len(prog.Objets) != 2 {
		t.Fatalf("expected 2 Objets declarations, got %d", len(prog.Objets))
	}
	cd, ok := prog.Objets[0].(*ast.ConstDecl)
	if !ok || cd.Name != "N" {
		t.Fatalf("expected ConstDecl(N), got %#v", prog.Objets[0])
	}
	vd, ok := prog.Objets[1].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %#v", prog.Objets[1])
	}
	arr, ok := vd.Type.(*ast.ArrayTypeExpr)
	if !ok || len(arr.Dims) != 1 {
		t.Fatalf("expected array type with 1 dim, got %#v", vd.Type)
	}
}

func TestParseSwitchWithMultiLabelCase(t *testing.T) {
	prog := parseProgram(t, `Algorithme D
Objets:
	n : Variable entier
Début
	Selon n
	Cas 1, 2 :
		Ecrire("a")
	Défaut :
		Ecrire("b")
	FinSelon
Fin`)

	sw, ok := prog.Main.Stmts[0].(*ast.Switch)
	if !ok {
		t.Fatalf("expected *ast.Switch, got %T", prog.Main.Stmts[0])
	}
	if len(sw.Cases) != 1 || len(sw.Cases[0].Labels) != 2 {
		t.Fatalf("expected 1 case with 2 labels, got %#v", sw.Cases)
	}
	if sw.Default == nil {
		t.Fatalf("expected a Défaut block")
	}
}

func TestParseFuncDefWithReturn(t *testing.T) {
	prog := parseProgram(t, `Algorithme E
Début
	Fonction Carre(x : entier) : entier
	Début
		Retourner x * x
	FinFonct
	Ecrire(Carre(3))
Fin`)

	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 function def, got %d", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name != "Carre" || len(fn.Params) != 1 {
		t.Fatalf("unexpected func def: %#v", fn)
	}
	ret, ok := fn.Body.Stmts[0].(*ast.Return)
	if !ok || ret.Value == nil {
		t.Fatalf("expected a valued Return, got %#v", fn.Body.Stmts[0])
	}
}

func TestParseStructDef(t *testing.T) {
	prog := parseProgram(t, `Algorithme S
Début
	Structure Point
		x : entier
		y : entier
	Fin-struct
Fin`)

	if len(prog.Structs) != 1 {
		t.Fatalf("expected 1 struct def, got %d", len(prog.Structs))
	}
	if len(prog.Structs[0].Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(prog.Structs[0].Fields))
	}
}

func TestParseRepeatUntil(t *testing.T) {
	prog := parseProgram(t, `Algorithme R
Objets:
	i : Variable entier
Début
	Répéter
		i <- i + 1
	TantQue i > 10
Fin`)

	rep, ok := prog.Main.Stmts[0].(*ast.Repeat)
	if !ok {
		t.Fatalf("expected *ast.Repeat, got %T", prog.Main.Stmts[0])
	}
	if rep.Cond == nil {
		t.Fatalf("expected a condition on the repeat-until")
	}
}
