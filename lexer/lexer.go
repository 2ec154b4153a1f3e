// Package lexer turns French pseudocode source text into a stream of
// token.Token values plus a stream of lexical diagnostics.
package lexer

import (
	"strings"

	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/token"
)

// Lexer scans one source file byte at a time. It tracks paren/bracket
// nesting depth rather than an indent stack, since FIN_INSTR (the
// synthesized statement terminator) is suppressed inside an open ( or [
// rather than by indentation.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
	ch    byte

	parenDepth   int
	bracketDepth int

	haveEmitted bool
	lastType    token.Type

	Errors diag.Stream
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: 1}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) peek(offset int) byte {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0
	}
	return l.input[p]
}

// advance consumes n bytes: the character about to be left behind decides
// whether the line counter bumps, then the position moves past it.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

func (l *Lexer) pos0() diag.Pos { return diag.Pos{Line: l.line, Column: l.col} }

func (l *Lexer) make(typ token.Type, lit string) token.Token {
	return token.Token{Type: typ, Lit: lit, Line: l.line, Column: l.col}
}

func (l *Lexer) emit(tok token.Token) token.Token {
	l.lastType = tok.Type
	l.haveEmitted = true
	return tok
}

// shouldSynthesizeFinInstr: no terminator is synthesized before the first
// real token, while inside an open paren or bracket, or right after a
// terminator already emitted.
func (l *Lexer) shouldSynthesizeFinInstr() bool {
	if !l.haveEmitted {
		return false
	}
	if l.parenDepth > 0 || l.bracketDepth > 0 {
		return false
	}
	return l.lastType != token.FIN_INSTR
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetterStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentCont(c byte) bool {
	return isLetterStart(c) || isDigit(c) || c == '\'' || c == '-'
}

func isInlineSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

// NextToken scans and returns the next token, advancing internal state.
func (l *Lexer) NextToken() token.Token {
	for {
		if l.atEnd() {
			return l.emit(l.make(token.EOF, ""))
		}

		c := l.ch

		if c == '\n' {
			synth := l.shouldSynthesizeFinInstr()
			tok := l.make(token.FIN_INSTR, "")
			l.advance(1)
			if synth {
				return l.emit(tok)
			}
			continue
		}
		if isInlineSpace(c) {
			l.advance(1)
			continue
		}

		if isDigit(c) {
			return l.emit(l.readNumber())
		}
		if c == '.' && isDigit(l.peek(1)) {
			return l.emit(l.readNumber())
		}
		if isLetterStart(c) {
			return l.emit(l.readIdentifier())
		}
		if c == '"' || c == '\'' {
			return l.emit(l.readString())
		}

		if tok, handled := l.readComment(); handled {
			if tok != nil {
				return l.emit(*tok)
			}
			continue
		}

		return l.emit(l.readOperator())
	}
}

// Tokenize runs the lexer to completion, returning every token through EOF.
func Tokenize(input string) ([]token.Token, diag.Stream) {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks, l.Errors
}

func (l *Lexer) readNumber() token.Token {
	start := l.pos
	startPos := l.pos0()
	for isDigit(l.ch) {
		l.advance(1)
	}
	isReal := false
	if (l.ch == ',' || l.ch == '.') && isDigit(l.peek(1)) {
		isReal = true
		l.advance(1)
		for isDigit(l.ch) {
			l.advance(1)
		}
	}
	lit := l.input[start:l.pos]
	typ := token.CONST_ENTIERE
	if isReal {
		typ = token.CONST_REEL
	}
	return token.Token{Type: typ, Lit: lit, Line: startPos.Line, Column: startPos.Column}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	startPos := l.pos0()
	for isIdentCont(l.ch) {
		l.advance(1)
	}
	lit := l.input[start:l.pos]
	typ := token.Lookup(lit)

	if typ == token.QUITTER_POUR {
		return l.finishQuitterPour(lit, startPos)
	}

	return token.Token{Type: typ, Lit: lit, Line: startPos.Line, Column: startPos.Column}
}

// finishQuitterPour implements the "Quitter"+lookahead dance: if the next
// word (skipping only inline spaces) is "Pour"/"pour" the two combine into
// one QUITTER_POUR token with the combined lexeme. If lookahead fails the
// position is rewound, but the token is still QUITTER_POUR with just the
// first word; the lookahead failing never reverts the token type.
func (l *Lexer) finishQuitterPour(first string, startPos diag.Pos) token.Token {
	savedPos, savedLine, savedCol, savedCh := l.pos, l.line, l.col, l.ch

	for isInlineSpace(l.ch) {
		l.advance(1)
	}

	wordStart := l.pos
	for isIdentCont(l.ch) {
		l.advance(1)
	}
	word := l.input[wordStart:l.pos]

	if word == "Pour" || word == "pour" {
		combined := first + " " + word
		return token.Token{Type: token.QUITTER_POUR, Lit: combined, Line: startPos.Line, Column: startPos.Column}
	}

	l.pos, l.line, l.col, l.ch = savedPos, savedLine, savedCol, savedCh
	return token.Token{Type: token.QUITTER_POUR, Lit: first, Line: startPos.Line, Column: startPos.Column}
}

func (l *Lexer) readString() token.Token {
	delim := l.ch
	startPos := l.pos0()
	l.advance(1)
	start := l.pos
	for !l.atEnd() && l.ch != delim && l.ch != '\n' {
		if l.ch == '\\' {
			l.advance(1)
			if l.atEnd() || l.ch == '\n' {
				break
			}
		}
		l.advance(1)
	}
	content := l.input[start:l.pos]
	if l.atEnd() || l.ch != delim {
		l.Errors.Add(startPos, "chaîne non terminée")
		return token.Token{Type: token.CONST_CHAINE_ERR, Lit: content, Line: startPos.Line, Column: startPos.Column}
	}
	l.advance(1)
	return token.Token{Type: token.CONST_CHAINE, Lit: content, Line: startPos.Line, Column: startPos.Column}
}

// readComment consumes a line or block comment if one starts at the
// current position. No token is produced for a well-formed comment; it is
// stripped entirely. An unterminated block comment still yields an error
// token so the diagnostic carries a position.
func (l *Lexer) readComment() (*token.Token, bool) {
	if l.ch != '/' {
		return nil, false
	}
	switch l.peek(1) {
	case '/':
		l.advance(2)
		for !l.atEnd() && l.ch != '\n' {
			l.advance(1)
		}
		return nil, true
	case '*':
		startPos := l.pos0()
		l.advance(2)
		for {
			if l.atEnd() {
				l.Errors.Add(startPos, "commentaire de bloc non terminé")
				tok := token.Token{Type: token.ILLEGAL_ERR, Line: startPos.Line, Column: startPos.Column}
				return &tok, true
			}
			if l.ch == '*' && l.peek(1) == '/' {
				l.advance(2)
				return nil, true
			}
			l.advance(1)
		}
	default:
		return nil, false
	}
}

func (l *Lexer) readOperator() token.Token {
	startPos := l.pos0()
	c := l.ch

	two := func(typ token.Type, lit string) token.Token {
		l.advance(2)
		return token.Token{Type: typ, Lit: lit, Line: startPos.Line, Column: startPos.Column}
	}
	one := func(typ token.Type, lit string) token.Token {
		l.advance(1)
		return token.Token{Type: typ, Lit: lit, Line: startPos.Line, Column: startPos.Column}
	}

	switch c {
	case '(':
		l.parenDepth++
		return one(token.PAREN_OUVRANTE, "(")
	case ')':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
		return one(token.PAREN_FERMANTE, ")")
	case '[':
		l.bracketDepth++
		return one(token.CROCHET_OUVRANT, "[")
	case ']':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		return one(token.CROCHET_FERMANT, "]")
	case ',':
		return one(token.VIRGULE, ",")
	case '+':
		return one(token.PLUS, "+")
	case '-':
		return one(token.MOINS, "-")
	case '*':
		return one(token.FOIS, "*")
	case '/':
		return one(token.DIVISE, "/")
	case '^':
		return one(token.PUISSANCE, "^")
	case '.':
		return one(token.POINT, ".")
	case ':':
		return one(token.DEUX_POINTS, ":")
	case '=':
		return one(token.EGAL, "=")
	case '<':
		switch l.peek(1) {
		case '-':
			return two(token.AFFECTATION, "<-")
		case '=':
			return two(token.INFERIEUR_EGAL, "<=")
		case '>':
			return two(token.DIFFERENT, "<>")
		default:
			return one(token.INFERIEUR, "<")
		}
	case '>':
		if l.peek(1) == '=' {
			return two(token.SUPERIEUR_EGAL, ">=")
		}
		return one(token.SUPERIEUR, ">")
	}

	lit := string(c)
	l.Errors.Add(startPos, "caractère inconnu: %q (0x%02x)", lit, c)
	l.advance(1)
	return token.Token{Type: token.ILLEGAL_ERR, Lit: lit, Line: startPos.Line, Column: startPos.Column}
}

// TokenNames renders a slice of tokens as "TYPE(lit)" pairs, used by the
// CLI's token-stream dump.
func TokenNames(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Type.String())
		if t.Lit != "" {
			b.WriteString("(")
			b.WriteString(t.Lit)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
