package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runOn writes src to a temp file and runs the full pipeline against it
// with the given target, returning the exit code and the generated output
// (empty when generation did not happen).
func runOn(t *testing.T, src, target string) (int, string) {
	t.Helper()
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "prog.algo")
	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "out")
	flagTokens, flagAST = false, false
	flagTarget, flagOutput = target, outPath
	defer func() { flagTarget, flagOutput = "", "" }()

	code := run(srcPath)
	out, _ := os.ReadFile(outPath)
	return code, string(out)
}

func TestRunHelloToPython(t *testing.T) {
	code, out := runOn(t, `Algorithme H
Début
	Ecrire("hi")
Fin`, "python")
	if code != exitSuccess {
		t.Fatalf("exit code = %d, want %d", code, exitSuccess)
	}
	if !strings.Contains(out, `print("hi")`) {
		t.Fatalf("expected a print call in the generated Python, got:\n%s", out)
	}
}

func TestRunArithmeticToC(t *testing.T) {
	code, out := runOn(t, `Algorithme A
Objets:
	x : Variable entier
Début
	x <- 2 + 3 * 4
	Ecrire(x)
Fin`, "c")
	if code != exitSuccess {
		t.Fatalf("exit code = %d, want %d", code, exitSuccess)
	}
	if !strings.Contains(out, "x = (2 + (3 * 4));") {
		t.Fatalf("expected the precedence-preserving assignment, got:\n%s", out)
	}
}

func TestRunMissingFileIsBadArgs(t *testing.T) {
	flagTarget = "python"
	defer func() { flagTarget = "" }()
	if code := run("/nonexistent/prog.algo"); code != exitBadArgs {
		t.Fatalf("exit code = %d, want %d", code, exitBadArgs)
	}
}

func TestRunLexicalErrorExits2(t *testing.T) {
	code, _ := runOn(t, "Algorithme L\nDébut\n@\nFin", "python")
	if code != exitLexical {
		t.Fatalf("exit code = %d, want %d", code, exitLexical)
	}
}

func TestRunSyntaxErrorExits3(t *testing.T) {
	code, _ := runOn(t, "Algorithme S\nDébut\n<- 1\nFin", "python")
	if code != exitSyntactic {
		t.Fatalf("exit code = %d, want %d", code, exitSyntactic)
	}
}

func TestRunUndeclaredIdentifierExits4(t *testing.T) {
	code, _ := runOn(t, `Algorithme U
Début
	y <- 1
Fin`, "python")
	if code != exitSemantic {
		t.Fatalf("exit code = %d, want %d", code, exitSemantic)
	}
}

func TestRunDuplicateCaseLabelExits4(t *testing.T) {
	code, _ := runOn(t, `Algorithme D
Objets:
	n : Variable entier
Début
	Selon n
	Cas 1 :
		Ecrire("a")
	Cas 1 :
		Ecrire("b")
	FinSelon
Fin`, "python")
	if code != exitSemantic {
		t.Fatalf("exit code = %d, want %d", code, exitSemantic)
	}
}

func TestRunMultiDimArrayToCExits5(t *testing.T) {
	code, _ := runOn(t, `Algorithme M
Objets:
	t : tableau entier [2][3]
Début
	t[0][0] <- 1
Fin`, "c")
	if code != exitEmission {
		t.Fatalf("exit code = %d, want %d", code, exitEmission)
	}
}

func TestRunTypedReadWriteToC(t *testing.T) {
	code, out := runOn(t, `Algorithme T
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
Fin`, "c")
	if code != exitSuccess {
		t.Fatalf("exit code = %d, want %d", code, exitSuccess)
	}
	for _, want := range []string{
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

func TestRunNegativeStepForToPython(t *testing.T) {
	code, out := runOn(t, `Algorithme F
Objets:
	i : Variable entier
Début
	Pour i <- 10 jusqu'à 1 pas -1
		Ecrire(i)
	FinPour
Fin`, "python")
	if code != exitSuccess {
		t.Fatalf("exit code = %d, want %d", code, exitSuccess)
	}
	if !strings.Contains(out, "range(10, 1 - 1, -(1))") {
		t.Fatalf("expected a descending range over 10..1 inclusive, got:\n%s", out)
	}
}
