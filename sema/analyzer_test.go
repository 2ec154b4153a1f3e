package sema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeassociates/algopseudo/lexer"
	"github.com/codeassociates/algopseudo/parser"
)

func analyze(t *testing.T, src string) []string {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	require.True(t, p.Errors.Empty(), "unexpected parser errors: %v", p.Errors.Strings())
	result := Analyze(prog)
	return result.Strings()
}

func TestHelloHasNoDiagnostics(t *testing.T) {
	diags := analyze(t, `Algorithme Hello
Début
	Ecrire("bonjour")
Fin`)
	assert.Empty(t, diags)
}

func TestArithmeticAssignmentHasNoDiagnostics(t *testing.T) {
	diags := analyze(t, `Algorithme Arith
Objets:
	x : Variable entier
	y : Variable reel
Début
	x <- 2 + 3 * 4
	y <- x / 2
Fin`)
	assert.Empty(t, diags)
}

func TestUndeclaredIdentifierIsReported(t *testing.T) {
	diags := analyze(t, `Algorithme U
Début
	Ecrire(n)
Fin`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "non déclaré")
}

func TestDuplicateCaseLabelIsReported(t *testing.T) {
	diags := analyze(t, `Algorithme D
Objets:
	n : Variable entier
Début
	Selon n
	Cas 1 :
		Ecrire("a")
	Cas 1 :
		Ecrire("b")
	FinSelon
Fin`)
	found := false
	for _, d := range diags {
		if strings.Contains(d, "dupliquée") {
			found = true
		}
	}
	assert.True(t, found, "expected a duplicate case label diagnostic, got %v", diags)
}

func TestArrayDimensionFoldsFromConstant(t *testing.T) {
	diags := analyze(t, `Algorithme T
Objets:
	N : Constante entier = 5
	t : tableau entier [N]
Début
	t[0] <- 1
Fin`)
	assert.Empty(t, diags)
}

func TestArrayDimensionMustBePositive(t *testing.T) {
	diags := analyze(t, `Algorithme T
Objets:
	N : Constante entier = 0
	t : tableau entier [N]
Début
	t[0] <- 1
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "strictement positive")
}

func TestForWithNegativeStepHasNoDiagnostics(t *testing.T) {
	diags := analyze(t, `Algorithme F
Objets:
	i : Variable entier
Début
	Pour i <- 10 jusqu'à 1 pas -1
		Ecrire(i)
	FinPour
Fin`)
	assert.Empty(t, diags)
}

func TestScopeRedeclarationInSameBlockIsRejected(t *testing.T) {
	diags := analyze(t, `Algorithme R
Objets:
	x : Variable entier
	x : Variable entier
Début
	x <- 1
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "double")
}

func TestRealWidensFromIntegerButNotReverse(t *testing.T) {
	diags := analyze(t, `Algorithme W
Objets:
	x : Variable entier
	y : Variable reel
Début
	y <- x
	x <- y
Fin`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "affectation invalide")
}

func TestCharacterAndBooleanWidenToIntegerAndReal(t *testing.T) {
	diags := analyze(t, `Algorithme W2
Objets:
	c : Variable caractere
	b : Variable booleen
	i : Variable entier
	r : Variable reel
Début
	i <- c
	i <- b
	r <- c
	r <- b
Fin`)
	assert.Empty(t, diags)
}

func TestCharacterArithmeticAndComparisonAreAccepted(t *testing.T) {
	diags := analyze(t, `Algorithme W3
Objets:
	c1 : Variable caractere
	c2 : Variable caractere
	i : Variable entier
	ok : Variable booleen
Début
	i <- c1 + c2
	ok <- c1 < c2
Fin`)
	assert.Empty(t, diags)
}

func TestBreakOutsideLoopOrSwitchIsRejected(t *testing.T) {
	diags := analyze(t, `Algorithme B
Début
	Sortir
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "Sortir")
}

func TestQuitForOutsideForLoopIsRejected(t *testing.T) {
	diags := analyze(t, `Algorithme Q
Objets:
	i : Variable entier
Début
	TantQue i < 10
		Quitter Pour
	FinTantQue
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "Quitter Pour")
}

func TestReturnOutsideFunctionOrProcedureIsRejected(t *testing.T) {
	diags := analyze(t, `Algorithme R2
Début
	Retourner 1
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "Retour")
}

func TestFunctionMustReturnAValue(t *testing.T) {
	diags := analyze(t, `Algorithme M
Début
	Fonction F() : entier
	Début
		Retour
	FinFonct
	Ecrire(F())
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "doit retourner une valeur")
}

func TestProcedureCannotReturnAValue(t *testing.T) {
	diags := analyze(t, `Algorithme M2
Début
	Procédure P()
	Début
		Retourner 1
	FinProc
	P()
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "ne peut pas retourner")
}

func TestCallWithWrongArgumentCountIsReported(t *testing.T) {
	diags := analyze(t, `Algorithme M3
Début
	Fonction Carre(x : entier) : entier
	Début
		Retourner x * x
	FinFonct
	Ecrire(Carre(1, 2))
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "nombre d'arguments")
}

func TestStructDuplicateFieldIsReported(t *testing.T) {
	diags := analyze(t, `Algorithme S
Début
	Structure Point
		x : entier
		x : entier
	Fin-struct
Fin`)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0], "champ dupliqué")
}
