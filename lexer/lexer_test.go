package lexer

import (
	"testing"

	"github.com/codeassociates/algopseudo/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `Algorithme Exemple
Variable
	x : entier
Début
	x <- 1 + 2
Fin`

	tests := []struct {
		expectedType token.Type
		expectedLit  string
	}{
		{token.ALGORITHME, "Algorithme"},
		{token.IDENT, "Exemple"},
		{token.FIN_INSTR, ""},
		{token.VARIABLE, "Variable"},
		{token.FIN_INSTR, ""},
		{token.IDENT, "x"},
		{token.DEUX_POINTS, ":"},
		{token.ENTIER, "entier"},
		{token.FIN_INSTR, ""},
		{token.DEBUT, "Début"},
		{token.FIN_INSTR, ""},
		{token.IDENT, "x"},
		{token.AFFECTATION, "<-"},
		{token.CONST_ENTIERE, "1"},
		{token.PLUS, "+"},
		{token.CONST_ENTIERE, "2"},
		{token.FIN_INSTR, ""},
		{token.FIN, "Fin"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s (lit=%q)", i, tt.expectedType, tok.Type, tok.Lit)
		}
		if tt.expectedLit != "" && tok.Lit != tt.expectedLit {
			t.Fatalf("test[%d] - wrong literal. expected=%q, got=%q", i, tt.expectedLit, tok.Lit)
		}
	}
}

func TestFinInstrSuppressedInsideParens(t *testing.T) {
	input := "f(1,\n2)\n"
	l := New(input)

	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}

	want := []token.Type{
		token.IDENT, token.PAREN_OUVRANTE, token.CONST_ENTIERE, token.VIRGULE,
		token.CONST_ENTIERE, token.PAREN_FERMANTE, token.FIN_INSTR, token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("wrong token count: got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token[%d] = %s, want %s (full: %v)", i, types[i], want[i], types)
		}
	}
}

func TestQuitterPourCombines(t *testing.T) {
	l := New("Quitter Pour\n")
	tok := l.NextToken()
	if tok.Type != token.QUITTER_POUR {
		t.Fatalf("expected QUITTER_POUR, got %s", tok.Type)
	}
	if tok.Lit != "Quitter Pour" {
		t.Fatalf("expected combined lexeme %q, got %q", "Quitter Pour", tok.Lit)
	}
}

func TestQuitterAloneStillQuitterPour(t *testing.T) {
	l := New("Quitter Faire\n")
	tok := l.NextToken()
	if tok.Type != token.QUITTER_POUR {
		t.Fatalf("expected QUITTER_POUR even without a following Pour, got %s", tok.Type)
	}
	if tok.Lit != "Quitter" {
		t.Fatalf("expected bare lexeme %q, got %q", "Quitter", tok.Lit)
	}

	next := l.NextToken()
	if next.Type != token.IDENT || next.Lit != "Faire" {
		t.Fatalf("expected the unmatched lookahead word to still be scanned as IDENT(Faire), got %s(%q)", next.Type, next.Lit)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input       string
		expected    token.Type
		expectedLit string
	}{
		{"42", token.CONST_ENTIERE, "42"},
		{"3,14", token.CONST_REEL, "3,14"},
		{"3.14", token.CONST_REEL, "3.14"},
		{".5", token.CONST_REEL, ".5"},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.expected || tok.Lit != tt.expectedLit {
			t.Fatalf("input %q: got %s(%q), want %s(%q)", tt.input, tok.Type, tok.Lit, tt.expected, tt.expectedLit)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"bonjour"` + "\n")
	tok := l.NextToken()
	if tok.Type != token.CONST_CHAINE || tok.Lit != "bonjour" {
		t.Fatalf("got %s(%q)", tok.Type, tok.Lit)
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	l := New(`"bonjour`)
	tok := l.NextToken()
	if tok.Type != token.CONST_CHAINE_ERR {
		t.Fatalf("expected CONST_CHAINE_ERR, got %s", tok.Type)
	}
	if l.Errors.Empty() {
		t.Fatalf("expected a lexical diagnostic for the unterminated string")
	}
}

func TestCommentsAreStripped(t *testing.T) {
	input := "x // un commentaire\ny /* bloc\nsur deux lignes */ z\n"
	l := New(input)

	var lits []string
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.FIN_INSTR {
			continue
		}
		lits = append(lits, tok.Lit)
	}
	want := []string{"x", "y", "z"}
	if len(lits) != len(want) {
		t.Fatalf("got %v, want %v", lits, want)
	}
	for i := range want {
		if lits[i] != want[i] {
			t.Fatalf("lits[%d] = %q, want %q", i, lits[i], want[i])
		}
	}
}

func TestUnknownByteIsError(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL_ERR {
		t.Fatalf("expected ILLEGAL_ERR, got %s", tok.Type)
	}
	if l.Errors.Empty() {
		t.Fatalf("expected a lexical diagnostic for the unknown byte")
	}
}

func TestCommentsOnlySourceTokenizesToEOFAlone(t *testing.T) {
	toks, errs := Tokenize("// rien\n/* toujours\nrien */\n   \t\n")
	if !errs.Empty() {
		t.Fatalf("unexpected diagnostics: %v", errs.Strings())
	}
	if len(toks) != 1 || toks[0].Type != token.EOF {
		t.Fatalf("expected the single EOF token, got %v", toks)
	}
}

func TestTokenPositionsAreMonotonic(t *testing.T) {
	src := `Algorithme P
Objets:
	x : Variable entier
Début
	x <- f(1,
		2)
	Ecrire(x)
Fin`
	toks, errs := Tokenize(src)
	if !errs.Empty() {
		t.Fatalf("unexpected diagnostics: %v", errs.Strings())
	}
	prev := toks[0]
	for _, tok := range toks[1:] {
		if tok.Line <= 0 || tok.Column <= 0 {
			t.Fatalf("token %s has a non-positive position %d:%d", tok.Type, tok.Line, tok.Column)
		}
		if tok.Line < prev.Line || (tok.Line == prev.Line && tok.Column < prev.Column) {
			t.Fatalf("position went backwards: %s at %d:%d after %s at %d:%d",
				tok.Type, tok.Line, tok.Column, prev.Type, prev.Line, prev.Column)
		}
		prev = tok
	}
}

func TestTokenizeReachesEOF(t *testing.T) {
	toks, errs := Tokenize("Fin")
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("Tokenize did not terminate with EOF: %v", toks)
	}
	if !errs.Empty() {
		t.Fatalf("unexpected diagnostics: %v", errs.Strings())
	}
}
