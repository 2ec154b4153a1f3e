package c

import (
	"strings"
	"testing"

	"github.com/codeassociates/algopseudo/lexer"
	"github.com/codeassociates/algopseudo/parser"
	"github.com/codeassociates/algopseudo/sema"
)

func generate(t *testing.T, src string) (string, int) {
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
	return out, len(diags.List())
}

func TestHelloEmitsPrintf(t *testing.T) {
	out, n := generate(t, `Algorithme H
Début
	Ecrire("bonjour")
Fin`)
	if n != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	if !strings.Contains(out, `printf("%s\n", "bonjour");`) {
		t.Fatalf("expected a printf call, got:\n%s", out)
	}
	if !strings.Contains(out, "int main(void) {") {
		t.Fatalf("expected a main function, got:\n%s", out)
	}
}

func TestArithmeticAssignmentEmitsExpression(t *testing.T) {
	out, _ := generate(t, `Algorithme A
Objets:
	x : Variable entier
Début
	x <- 2 + 3 * 4
Fin`)
	if !strings.Contains(out, "int x;") {
		t.Fatalf("expected global int declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "x = (2 + (3 * 4));") {
		t.Fatalf("expected precedence-preserving assignment, got:\n%s", out)
	}
}

func TestMultiDimensionalArrayIsRejected(t *testing.T) {
	_, n := generate(t, `Algorithme M
Objets:
	t : tableau entier [2][3]
Début
	t[0][0] <- 1
Fin`)
	if n == 0 {
		t.Fatalf("expected a diagnostic rejecting the 2D array")
	}
}

func TestForLoopWithNegativeStepEmitsDescendingComparison(t *testing.T) {
	out, _ := generate(t, `Algorithme F
Objets:
	i : Variable entier
Début
	Pour i <- 10 jusqu'à 1 pas -1
		Ecrire(i)
	FinPour
Fin`)
	if !strings.Contains(out, "i >= ") {
		t.Fatalf("expected descending comparison for negative step, got:\n%s", out)
	}
}

func TestReadAndWriteDispatchOnResolvedTypes(t *testing.T) {
	out, n := generate(t, `Algorithme T
Objets:
	r : Variable reel
	c : Variable caractere
	s : Variable chaine
Début
	Lire(r)
	Lire(c)
	Lire(s)
	Ecrire(r)
	Ecrire(c)
	Ecrire(s)
Fin`)
	if n != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	for _, want := range []string{
		"#include <stdlib.h>",
		`scanf("%lf", &r);`,
		`scanf(" %c", &c);`,
		`s = malloc(256); scanf("%s", s);`,
		`printf("%g\n", r);`,
		`printf("%c\n", c);`,
		`printf("%s\n", s);`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in the generated C, got:\n%s", want, out)
		}
	}
}

func TestRepeatLoopContinuesWhileConditionHolds(t *testing.T) {
	out, _ := generate(t, `Algorithme R
Objets:
	i : Variable entier
Début
	Répéter
		i <- i + 1
	TantQue i < 10
Fin`)
	if !strings.Contains(out, "} while ((i < 10));") {
		t.Fatalf("expected the do-while to keep the TantQue condition as written, got:\n%s", out)
	}
}

func TestStructDefEmitsCStruct(t *testing.T) {
	out, _ := generate(t, `Algorithme S
Début
	Structure Point
		x : entier
		y : entier
	Fin-struct
Fin`)
	if !strings.Contains(out, "struct Point {") {
		t.Fatalf("expected a C struct definition, got:\n%s", out)
	}
}
