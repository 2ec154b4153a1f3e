// Package parser implements a recursive-descent parser with precedence
// climbing for expressions, turning a token stream into an *ast.Program.
package parser

import (
	"strings"

	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/lexer"
	"github.com/codeassociates/algopseudo/token"
)

// Precedence levels, lowest to highest, per the expression grammar:
// logical-or < logical-and < comparison < additive < multiplicative <
// exponentiation < unary < postfix < primary.
const (
	LOWEST = iota
	orPrec
	andPrec
	comparison
	additive
	multiplicative
	exponent
	unary
	postfix
)

var precedences = map[token.Type]int{
	token.OU:              orPrec,
	token.ET:              andPrec,
	token.EGAL:            comparison,
	token.DIFFERENT:       comparison,
	token.INFERIEUR:       comparison,
	token.INFERIEUR_EGAL:  comparison,
	token.SUPERIEUR:       comparison,
	token.SUPERIEUR_EGAL:  comparison,
	token.PLUS:            additive,
	token.MOINS:           additive,
	token.FOIS:            multiplicative,
	token.DIVISE:          multiplicative,
	token.DIV_ENTIER:      multiplicative,
	token.MODULO:          multiplicative,
	token.PUISSANCE:       exponent,
	token.PAREN_OUVRANTE:  postfix,
	token.CROCHET_OUVRANT: postfix,
	token.POINT:           postfix,
}

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS:           ast.Add,
	token.MOINS:          ast.Sub,
	token.FOIS:           ast.Mul,
	token.DIVISE:         ast.Div,
	token.DIV_ENTIER:     ast.DivInt,
	token.MODULO:         ast.Mod,
	token.PUISSANCE:      ast.Pow,
	token.INFERIEUR:      ast.Lt,
	token.INFERIEUR_EGAL: ast.Le,
	token.SUPERIEUR:      ast.Gt,
	token.SUPERIEUR_EGAL: ast.Ge,
	token.EGAL:           ast.Eq,
	token.DIFFERENT:      ast.Ne,
	token.ET:             ast.And,
	token.OU:             ast.Or,
}

// Parser consumes tokens from a Lexer one at a time, keeping one token of
// lookahead.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	Errors diag.Stream
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() diag.Pos { return diag.Pos{Line: p.cur.Line, Column: p.cur.Column} }

func (p *Parser) errorf(format string, args ...any) {
	p.Errors.Add(p.pos(), format, args...)
}

func (p *Parser) curIs(tt token.Type) bool { return p.cur.Type == tt }

// expect consumes cur if it matches tt, else records a diagnostic and
// advances past the offending token anyway so parsing can continue.
func (p *Parser) expect(tt token.Type) bool {
	if p.curIs(tt) {
		p.next()
		return true
	}
	p.errorf("attendu %s, trouvé %s (%q)", tt, p.cur.Type, p.cur.Lit)
	p.next()
	return false
}

func (p *Parser) skipTerminators() {
	for p.curIs(token.FIN_INSTR) {
		p.next()
	}
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func tokBase(t token.Token) ast.Base { return ast.Base{Tok: t} }

// ParseProgram parses a complete source file.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Base: tokBase(p.cur)}

	if !p.expect(token.ALGORITHME) {
		return prog
	}
	prog.Name = p.cur.Lit
	p.expect(token.IDENT)
	p.skipTerminators()

	if p.curIs(token.OBJETS) {
		prog.Objets = p.parseObjetsBlock()
	}

	if !p.expect(token.DEBUT) {
		return prog
	}
	p.skipTerminators()

	prog.Main = &ast.Block{}
	for !p.curIs(token.FIN) && !p.curIs(token.EOF) {
		switch p.cur.Type {
		case token.STRUCTURE:
			prog.Structs = append(prog.Structs, p.parseStructDef())
		case token.FONCTION:
			prog.Funcs = append(prog.Funcs, p.parseFuncDef())
		case token.PROCEDURE:
			prog.Procs = append(prog.Procs, p.parseProcDef())
		case token.FIN_INSTR:
			p.next()
		default:
			if stmt := p.parseStatement(); stmt != nil {
				prog.Main.Stmts = append(prog.Main.Stmts, stmt)
			}
			p.skipTerminators()
		}
	}
	p.expect(token.FIN)
	return prog
}

// parseObjetsBlock parses "Objets" ":" Declaration* up to (not consuming)
// the following "Début".
func (p *Parser) parseObjetsBlock() []ast.Statement {
	p.expect(token.OBJETS)
	p.expect(token.DEUX_POINTS)
	p.skipTerminators()

	var decls []ast.Statement
	for !p.curIs(token.DEBUT) && !p.curIs(token.EOF) {
		if p.curIs(token.FIN_INSTR) {
			p.next()
			continue
		}
		if d := p.parseDeclaration(); d != nil {
			decls = append(decls, d)
		}
		p.skipTerminators()
	}
	return decls
}

// parseDeclaration parses IDENT ":" ("Variable" Type | "Constante" Type
// "=" Expr | "tableau" Type Dims).
func (p *Parser) parseDeclaration() ast.Statement {
	tok := p.cur
	name := p.cur.Lit
	if !p.expect(token.IDENT) {
		return nil
	}
	p.expect(token.DEUX_POINTS)

	switch p.cur.Type {
	case token.VARIABLE:
		p.next()
		typ := p.parseType()
		return &ast.VarDecl{Base: tokBase(tok), Names: []string{name}, Type: typ}
	case token.CONSTANTE:
		p.next()
		typ := p.parseType()
		p.expect(token.EGAL)
		val := p.parseExpression(LOWEST)
		return &ast.ConstDecl{Base: tokBase(tok), Name: name, Type: typ, Value: val}
	case token.TABLEAU:
		typ := p.parseType()
		return &ast.VarDecl{Base: tokBase(tok), Names: []string{name}, Type: typ}
	default:
		p.errorf("déclaration invalide pour %q: attendu Variable, Constante ou tableau, trouvé %s", name, p.cur.Type)
		p.next()
		return nil
	}
}

// parseType parses Primitive | IDENT | "tableau" Type ("[" Expr? "]")+.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.cur.Type {
	case token.ENTIER, token.REEL, token.CARACTERE, token.CHAINE, token.BOOLEEN:
		tok := p.cur
		t := &ast.PrimitiveTypeExpr{Base: tokBase(tok), Name: primitiveName(tok.Type)}
		p.next()
		return t
	case token.IDENT:
		tok := p.cur
		t := &ast.NamedTypeExpr{Base: tokBase(tok), Name: tok.Lit}
		p.next()
		return t
	case token.TABLEAU:
		tok := p.cur
		p.next()
		elem := p.parseType()
		var dims []ast.Expression
		for p.curIs(token.CROCHET_OUVRANT) {
			p.next()
			var dim ast.Expression
			if !p.curIs(token.CROCHET_FERMANT) {
				dim = p.parseExpression(LOWEST)
			}
			p.expect(token.CROCHET_FERMANT)
			dims = append(dims, dim)
		}
		if len(dims) == 0 {
			p.errorf("dimension de tableau manquante")
		}
		return &ast.ArrayTypeExpr{Base: tokBase(tok), Dims: dims, Elem: elem}
	default:
		p.errorf("type attendu, trouvé %s (%q)", p.cur.Type, p.cur.Lit)
		tok := p.cur
		p.next()
		return &ast.NamedTypeExpr{Base: tokBase(tok), Name: tok.Lit}
	}
}

func primitiveName(tt token.Type) string {
	switch tt {
	case token.ENTIER:
		return "entier"
	case token.REEL:
		return "reel"
	case token.CARACTERE:
		return "caractere"
	case token.CHAINE:
		return "chaine"
	case token.BOOLEEN:
		return "booleen"
	default:
		return "?"
	}
}

func (p *Parser) parseStructDef() *ast.StructDef {
	tok := p.cur
	p.expect(token.STRUCTURE)
	name := p.cur.Lit
	p.expect(token.IDENT)
	p.skipTerminators()

	def := &ast.StructDef{Base: tokBase(tok), Name: name}
	for !p.curIs(token.FIN_STRUCT) && !p.curIs(token.EOF) {
		if p.curIs(token.FIN_INSTR) {
			p.next()
			continue
		}
		fieldTok := p.cur
		fname := p.cur.Lit
		p.expect(token.IDENT)
		p.expect(token.DEUX_POINTS)
		ftyp := p.parseType()
		def.Fields = append(def.Fields, &ast.Field{Base: tokBase(fieldTok), Name: fname, Type: ftyp})
		p.skipTerminators()
	}
	p.expect(token.FIN_STRUCT)
	return def
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	p.expect(token.PAREN_OUVRANTE)
	for !p.curIs(token.PAREN_FERMANTE) && !p.curIs(token.EOF) {
		tok := p.cur
		name := p.cur.Lit
		p.expect(token.IDENT)
		p.expect(token.DEUX_POINTS)
		typ := p.parseType()
		params = append(params, &ast.Param{Base: tokBase(tok), Name: name, Type: typ})
		if p.curIs(token.VIRGULE) {
			p.next()
		}
	}
	p.expect(token.PAREN_FERMANTE)
	return params
}

func (p *Parser) parseFuncDef() *ast.FuncDef {
	tok := p.cur
	p.expect(token.FONCTION)
	name := p.cur.Lit
	p.expect(token.IDENT)
	params := p.parseParamList()
	p.expect(token.DEUX_POINTS)
	retType := p.parseType()
	p.skipTerminators()

	var locals []ast.Statement
	if p.curIs(token.OBJETS) {
		locals = p.parseObjetsBlock()
	}
	p.expect(token.DEBUT)
	p.skipTerminators()
	body := p.parseStatements(token.FIN_FONCT)
	body.Stmts = append(locals, body.Stmts...)
	p.expect(token.FIN_FONCT)

	return &ast.FuncDef{Base: tokBase(tok), Name: name, Params: params, ReturnType: retType, Locals: locals, Body: body}
}

func (p *Parser) parseProcDef() *ast.ProcDef {
	tok := p.cur
	p.expect(token.PROCEDURE)
	name := p.cur.Lit
	p.expect(token.IDENT)
	params := p.parseParamList()
	p.skipTerminators()

	var locals []ast.Statement
	if p.curIs(token.OBJETS) {
		locals = p.parseObjetsBlock()
	}
	p.expect(token.DEBUT)
	p.skipTerminators()
	body := p.parseStatements(token.FIN_PROC)
	body.Stmts = append(locals, body.Stmts...)
	p.expect(token.FIN_PROC)

	return &ast.ProcDef{Base: tokBase(tok), Name: name, Params: params, Locals: locals, Body: body}
}

// parseStatements parses statements until cur matches one of terminators
// (without consuming it) or EOF.
func (p *Parser) parseStatements(terminators ...token.Type) *ast.Block {
	block := &ast.Block{Base: tokBase(p.cur)}
	isTerm := func() bool {
		for _, t := range terminators {
			if p.curIs(t) {
				return true
			}
		}
		return p.curIs(token.EOF)
	}
	for !isTerm() {
		if p.curIs(token.FIN_INSTR) {
			p.next()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.skipTerminators()
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.IDENT:
		if p.peek.Type == token.DEUX_POINTS {
			return p.parseDeclaration()
		}
		return p.parseAssignOrCall()
	case token.SI:
		return p.parseIf()
	case token.TANTQUE:
		return p.parseWhile()
	case token.POUR:
		return p.parseFor()
	case token.REPETER:
		return p.parseRepeat()
	case token.SELON:
		return p.parseSwitch()
	case token.ECRIRE:
		return p.parseWrite()
	case token.LIRE:
		return p.parseRead()
	case token.RETOUR:
		return p.parseReturn(false)
	case token.RETOURNER:
		return p.parseReturn(true)
	case token.SORTIR:
		tok := p.cur
		p.next()
		return &ast.Break{Base: tokBase(tok)}
	case token.QUITTER_POUR:
		tok := p.cur
		p.next()
		return &ast.QuitFor{Base: tokBase(tok)}
	default:
		p.errorf("instruction inattendue: %s (%q)", p.cur.Type, p.cur.Lit)
		p.next()
		return nil
	}
}

// parseAssignOrCall parses a leading postfix expression and decides,
// based on what follows, whether it is an assignment or a call statement.
func (p *Parser) parseAssignOrCall() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)

	if p.curIs(token.AFFECTATION) {
		switch expr.(type) {
		case *ast.Identifier, *ast.Index, *ast.FieldAccess:
		default:
			p.errorf("cible d'affectation invalide")
		}
		p.next()
		value := p.parseExpression(LOWEST)
		return &ast.Assign{Base: tokBase(tok), Target: expr, Value: value}
	}

	if call, ok := expr.(*ast.Call); ok {
		return &ast.CallStmt{Base: tokBase(tok), Call: call}
	}

	p.errorf("instruction invalide: expression autonome qui n'est ni affectation ni appel")
	return nil
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur
	p.expect(token.SI)
	cond := p.parseExpression(LOWEST)
	p.expect(token.ALORS)
	p.skipTerminators()
	then := p.parseStatements(token.SINONSI, token.SINON, token.FIN_SI)

	stmt := &ast.If{Base: tokBase(tok), Cond: cond, Then: then}
	for p.curIs(token.SINONSI) {
		eTok := p.cur
		p.next()
		eCond := p.parseExpression(LOWEST)
		p.expect(token.ALORS)
		p.skipTerminators()
		eThen := p.parseStatements(token.SINONSI, token.SINON, token.FIN_SI)
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{Base: tokBase(eTok), Cond: eCond, Then: eThen})
	}
	if p.curIs(token.SINON) {
		p.next()
		p.skipTerminators()
		stmt.Else = p.parseStatements(token.FIN_SI)
	}
	p.expect(token.FIN_SI)
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur
	p.expect(token.TANTQUE)
	cond := p.parseExpression(LOWEST)
	p.skipTerminators()
	body := p.parseStatements(token.FIN_TANTQUE)
	p.expect(token.FIN_TANTQUE)
	return &ast.While{Base: tokBase(tok), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.cur
	p.expect(token.POUR)
	varName := p.cur.Lit
	p.expect(token.IDENT)
	p.expect(token.AFFECTATION)
	from := p.parseExpression(LOWEST)
	p.expect(token.JUSQUA)
	to := p.parseExpression(LOWEST)

	var step ast.Expression
	if p.curIs(token.PAS) {
		p.next()
		step = p.parseExpression(LOWEST)
	}
	p.skipTerminators()
	body := p.parseStatements(token.FIN_POUR)
	p.expect(token.FIN_POUR)
	return &ast.For{Base: tokBase(tok), Var: varName, From: from, To: to, Step: step, Body: body}
}

// parseRepeat parses "Répéter ... TantQue cond", a post-tested loop that
// reuses the TantQue keyword as its trailing condition introducer rather
// than opening a second FinTantQue-terminated block.
func (p *Parser) parseRepeat() ast.Statement {
	tok := p.cur
	p.expect(token.REPETER)
	p.skipTerminators()
	body := p.parseStatements(token.TANTQUE)
	p.expect(token.TANTQUE)
	cond := p.parseExpression(LOWEST)
	return &ast.Repeat{Base: tokBase(tok), Body: body, Cond: cond}
}

func (p *Parser) parseSwitch() ast.Statement {
	tok := p.cur
	p.expect(token.SELON)
	subj := p.parseExpression(LOWEST)
	p.skipTerminators()

	stmt := &ast.Switch{Base: tokBase(tok), Subject: subj}
	for p.curIs(token.CAS) {
		cTok := p.cur
		p.next()
		var labels []ast.Expression
		labels = append(labels, p.parseExpression(LOWEST))
		for p.curIs(token.VIRGULE) {
			p.next()
			labels = append(labels, p.parseExpression(LOWEST))
		}
		p.expect(token.DEUX_POINTS)
		p.skipTerminators()
		body := p.parseStatements(token.CAS, token.DEFAUT, token.FIN_SELON)
		stmt.Cases = append(stmt.Cases, &ast.Case{Base: tokBase(cTok), Labels: labels, Body: body})
	}
	if p.curIs(token.DEFAUT) {
		p.next()
		p.expect(token.DEUX_POINTS)
		p.skipTerminators()
		stmt.Default = p.parseStatements(token.FIN_SELON)
	}
	if len(stmt.Cases) == 0 && stmt.Default == nil {
		p.errorf("bloc Selon vide: au moins un Cas est attendu")
	}
	p.expect(token.FIN_SELON)
	return stmt
}

func (p *Parser) parseWrite() ast.Statement {
	tok := p.cur
	p.expect(token.ECRIRE)
	p.expect(token.PAREN_OUVRANTE)
	var args []ast.Expression
	for !p.curIs(token.PAREN_FERMANTE) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(token.VIRGULE) {
			p.next()
		}
	}
	p.expect(token.PAREN_FERMANTE)
	return &ast.Write{Base: tokBase(tok), Args: args}
}

func (p *Parser) parseRead() ast.Statement {
	tok := p.cur
	p.expect(token.LIRE)
	p.expect(token.PAREN_OUVRANTE)
	var targets []ast.Expression
	for !p.curIs(token.PAREN_FERMANTE) && !p.curIs(token.EOF) {
		targets = append(targets, p.parseExpression(LOWEST))
		if p.curIs(token.VIRGULE) {
			p.next()
		}
	}
	p.expect(token.PAREN_FERMANTE)
	return &ast.Read{Base: tokBase(tok), Targets: targets}
}

// parseReturn handles both "Retour" (bare when directly followed by the
// end of the line, FinProc, FinFonct, Fin, or EOF; otherwise it takes a
// value) and "Retourner" (always requires a value).
func (p *Parser) parseReturn(requireValue bool) ast.Statement {
	tok := p.cur
	p.next()
	if !requireValue && p.atReturnTerminator() {
		return &ast.Return{Base: tokBase(tok)}
	}
	value := p.parseExpression(LOWEST)
	return &ast.Return{Base: tokBase(tok), Value: value}
}

func (p *Parser) atReturnTerminator() bool {
	switch p.cur.Type {
	case token.FIN_INSTR, token.FIN_PROC, token.FIN_FONCT, token.FIN, token.EOF:
		return true
	default:
		return false
	}
}

// ---- Expressions ----

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.curIs(token.FIN_INSTR) && precedence < p.curPrecedence() {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur
	switch tok.Type {
	case token.IDENT:
		p.next()
		return p.parsePostfix(&ast.Identifier{Base: tokBase(tok), Name: tok.Lit})
	case token.CONST_ENTIERE:
		p.next()
		return &ast.IntLit{Base: tokBase(tok), Value: parseIntLiteral(tok.Lit)}
	case token.CONST_REEL:
		p.next()
		return &ast.RealLit{Base: tokBase(tok), Value: parseRealLiteral(tok.Lit)}
	case token.CONST_CHAINE:
		p.next()
		return &ast.StringLit{Base: tokBase(tok), Value: unescapeString(tok.Lit)}
	case token.VRAI:
		p.next()
		return &ast.BoolLit{Base: tokBase(tok), Value: true}
	case token.FAUX:
		p.next()
		return &ast.BoolLit{Base: tokBase(tok), Value: false}
	case token.MOINS:
		p.next()
		operand := p.parseExpression(unary)
		return &ast.Unary{Base: tokBase(tok), Op: ast.Neg, Operand: operand}
	case token.NON:
		p.next()
		operand := p.parseExpression(unary)
		return &ast.Unary{Base: tokBase(tok), Op: ast.Not, Operand: operand}
	case token.PAREN_OUVRANTE:
		p.next()
		expr := p.parseExpression(LOWEST)
		p.expect(token.PAREN_FERMANTE)
		return p.parsePostfix(expr)
	default:
		p.errorf("expression attendue, trouvé %s (%q)", tok.Type, tok.Lit)
		p.next()
		return nil
	}
}

// parsePostfix greedily consumes trailing .field, [index], and (args)
// suffixes, matching "identifier followed by any sequence of .field,
// [index], (args)" from the statement-dispatch rule.
func (p *Parser) parsePostfix(left ast.Expression) ast.Expression {
	for {
		switch p.cur.Type {
		case token.POINT:
			tok := p.cur
			p.next()
			field := p.cur.Lit
			p.expect(token.IDENT)
			left = &ast.FieldAccess{Base: tokBase(tok), Target: left, Field: field}
		case token.CROCHET_OUVRANT:
			tok := p.cur
			p.next()
			idx := p.parseExpression(LOWEST)
			p.expect(token.CROCHET_FERMANT)
			left = &ast.Index{Base: tokBase(tok), Array: left, Index: idx}
		case token.PAREN_OUVRANTE:
			tok := p.cur
			p.next()
			var args []ast.Expression
			for !p.curIs(token.PAREN_FERMANTE) && !p.curIs(token.EOF) {
				args = append(args, p.parseExpression(LOWEST))
				if p.curIs(token.VIRGULE) {
					p.next()
				}
			}
			p.expect(token.PAREN_FERMANTE)
			callee := ""
			if ident, ok := left.(*ast.Identifier); ok {
				callee = ident.Name
			} else {
				p.errorf("seul un identifiant peut être appelé")
			}
			left = &ast.Call{Base: tokBase(tok), Callee: callee, Args: args}
		default:
			return left
		}
	}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur
	op, ok := binaryOps[tok.Type]
	if !ok {
		p.errorf("opérateur binaire inattendu: %s", tok.Type)
		p.next()
		return left
	}
	prec := precedences[tok.Type]
	p.next()
	right := p.parseExpression(prec)
	return &ast.Binary{Base: tokBase(tok), Op: op, Left: left, Right: right}
}

// unescapeString resolves the lexer's backslash escapes: a backslash quotes
// the single character after it, nothing more. The lexeme arrives with the
// escapes still in place because the lexer only slices the input.
func unescapeString(lit string) string {
	if !strings.Contains(lit, "\\") {
		return lit
	}
	var b strings.Builder
	for i := 0; i < len(lit); i++ {
		if lit[i] == '\\' && i+1 < len(lit) {
			i++
		}
		b.WriteByte(lit[i])
	}
	return b.String()
}

func parseIntLiteral(lit string) int64 {
	var v int64
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int64(c-'0')
	}
	return v
}

func parseRealLiteral(lit string) float64 {
	var intPart int64
	i := 0
	for i < len(lit) && lit[i] >= '0' && lit[i] <= '9' {
		intPart = intPart*10 + int64(lit[i]-'0')
		i++
	}
	if i >= len(lit) || (lit[i] != '.' && lit[i] != ',') {
		return float64(intPart)
	}
	i++
	frac := 0.0
	scale := 0.1
	for i < len(lit) && lit[i] >= '0' && lit[i] <= '9' {
		frac += float64(lit[i]-'0') * scale
		scale /= 10
		i++
	}
	return float64(intPart) + frac
}
