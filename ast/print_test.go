package ast_test

import (
	"testing"

	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/lexer"
	"github.com/codeassociates/algopseudo/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if !p.Errors.Empty() {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors.Strings())
	}
	return prog
}

// assertFixedPoint checks that printing prog, re-lexing and re-parsing the
// result, then printing again yields the same text: one cycle through the
// pretty-printer is a fixed point.
func assertFixedPoint(t *testing.T, prog *ast.Program) string {
	t.Helper()
	first := ast.Print(prog)

	reparsed := mustParse(t, first)
	second := ast.Print(reparsed)

	if first != second {
		t.Fatalf("pretty-printer is not a fixed point:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
	return first
}

func TestPrintRoundTripHello(t *testing.T) {
	prog := mustParse(t, `Algorithme H
Début
	Ecrire("hi")
Fin`)
	assertFixedPoint(t, prog)
}

func TestPrintRoundTripArithmetic(t *testing.T) {
	prog := mustParse(t, `Algorithme A
Objets:
	x : Variable entier
Début
	x <- 2 + 3 * 4
	Ecrire(x)
Fin`)
	assertFixedPoint(t, prog)
}

func TestPrintRoundTripControlFlow(t *testing.T) {
	prog := mustParse(t, `Algorithme C
Objets:
	i : Variable entier
	n : Variable entier
Début
	Si n > 0 Alors
		Ecrire("positif")
	SinonSi n < 0 Alors
		Ecrire("negatif")
	Sinon
		Ecrire("zero")
	FinSi
	Pour i <- 1 jusqu'à 10 pas 2
		Ecrire(i)
	FinPour
	TantQue i > 0
		i <- i - 1
	FinTantQue
	Répéter
		i <- i + 1
	TantQue i < 10
	Selon n
	Cas 1, 2 :
		Ecrire("un ou deux")
	Défaut :
		Ecrire("autre")
	FinSelon
Fin`)
	assertFixedPoint(t, prog)
}

func TestPrintRoundTripStructsAndFuncs(t *testing.T) {
	prog := mustParse(t, `Algorithme S
Début
	Structure Point
		x : entier
		y : entier
	Fin-struct
	Fonction Carre(n : entier) : entier
	Début
		Retourner n * n
	FinFonct
	Procédure Affiche(p : Point)
	Début
		Ecrire(p.x)
		Ecrire(p.y)
	FinProc
	Ecrire(Carre(4))
Fin`)
	out := assertFixedPoint(t, prog)
	if len(prog.Structs) != 1 || prog.Structs[0].Name != "Point" {
		t.Fatalf("expected struct Point to survive parsing, got %#v", prog.Structs)
	}
	if len(prog.Funcs) != 1 || len(prog.Procs) != 1 {
		t.Fatalf("expected 1 func and 1 proc, got %d/%d", len(prog.Funcs), len(prog.Procs))
	}
	_ = out
}

func TestPrintRoundTripEscapedString(t *testing.T) {
	prog := mustParse(t, `Algorithme E
Début
	Ecrire("a\"b\\c")
Fin`)
	assertFixedPoint(t, prog)
}

func TestPrintRoundTripArraysAndConstants(t *testing.T) {
	prog := mustParse(t, `Algorithme B
Objets:
	N : Constante entier = 5
	t : tableau entier [N]
Début
	t[0] <- 1
	Ecrire(t[0])
Fin`)
	assertFixedPoint(t, prog)
}
