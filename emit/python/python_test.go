package python

import (
	"strings"
	"testing"

	"github.com/codeassociates/algopseudo/lexer"
	"github.com/codeassociates/algopseudo/parser"
	"github.com/codeassociates/algopseudo/sema"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if !p.Errors.Empty() {
		t.Fatalf("unexpected parser errors: %v", p.Errors.Strings())
	}
	info, semErrs := sema.AnalyzeProgram(prog)
	if !semErrs.Empty() {
		t.Fatalf("unexpected semantic errors: %v", semErrs.Strings())
	}
	out, diags := Generate(prog, info.Types)
	if !diags.Empty() {
		t.Fatalf("unexpected emission diagnostics: %v", diags.Strings())
	}
	return out
}

func TestHelloEmitsPrintAndMainGuard(t *testing.T) {
	out := generate(t, `Algorithme H
Début
	Ecrire("bonjour")
Fin`)
	if !strings.Contains(out, `print("bonjour")`) {
		t.Fatalf("expected a print call, got:\n%s", out)
	}
	if !strings.Contains(out, `if __name__ == "__main__":`) {
		t.Fatalf("expected a main guard, got:\n%s", out)
	}
}

func TestIntegerDivisionUsesFloorDivOperator(t *testing.T) {
	out := generate(t, `Algorithme D
Objets:
	a : Variable entier
	b : Variable entier
	q : Variable entier
Début
	q <- a Div b
Fin`)
	if !strings.Contains(out, "(a // b)") {
		t.Fatalf("expected '//' for integer division, got:\n%s", out)
	}
}

func TestRealDivisionUsesSlashOperator(t *testing.T) {
	out := generate(t, `Algorithme D2
Objets:
	a : Variable reel
	b : Variable reel
	q : Variable reel
Début
	q <- a / b
Fin`)
	if !strings.Contains(out, "(a / b)") {
		t.Fatalf("expected '/' for real division, got:\n%s", out)
	}
}

func TestStructBecomesClassWithInit(t *testing.T) {
	out := generate(t, `Algorithme S
Début
	Structure Point
		x : entier
		y : entier
	Fin-struct
Fin`)
	if !strings.Contains(out, "class Point:") || !strings.Contains(out, "def __init__(self):") {
		t.Fatalf("expected a class with __init__, got:\n%s", out)
	}
}

func TestReadDispatchesOnResolvedTypes(t *testing.T) {
	out := generate(t, `Algorithme T
Objets:
	r : Variable reel
	s : Variable chaine
	n : Variable entier
Début
	Lire(r)
	Lire(s)
	Lire(n)
Fin`)
	for _, want := range []string{
		"r = float(input())",
		"s = input()",
		"n = int(input())",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in the generated Python, got:\n%s", want, out)
		}
	}
}

func TestRepeatLoopContinuesWhileConditionHolds(t *testing.T) {
	out := generate(t, `Algorithme R
Objets:
	i : Variable entier
Début
	Répéter
		i <- i + 1
	TantQue i < 10
Fin`)
	if !strings.Contains(out, "if not ((i < 10)):") {
		t.Fatalf("expected the loop to break only once the TantQue condition fails, got:\n%s", out)
	}
}

func TestFunctionBecomesTopLevelDef(t *testing.T) {
	out := generate(t, `Algorithme F
Début
	Fonction Carre(x : entier) : entier
	Début
		Retourner x * x
	FinFonct
	Ecrire(Carre(3))
Fin`)
	if !strings.Contains(out, "def Carre(x):") {
		t.Fatalf("expected a top-level def, got:\n%s", out)
	}
}
