package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer serializes a *Program back into the pseudocode surface syntax it
// was parsed from. The output is not a byte-exact echo of the original
// source (indentation, keyword capitalization, and parenthesization are
// normalized) but it re-lexes and re-parses to a structurally equal tree,
// which is what the CLI's AST dump and the parser's round-trip test both
// rely on.
type Printer struct {
	b      strings.Builder
	indent int
}

// Print renders prog as pseudocode source text.
func Print(prog *Program) string {
	p := &Printer{}
	p.printProgram(prog)
	return p.b.String()
}

func (p *Printer) line(format string, args ...any) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteString("\n")
}

func (p *Printer) printProgram(prog *Program) {
	p.line("Algorithme %s", prog.Name)
	if len(prog.Objets) > 0 {
		p.line("Objets:")
		p.indent++
		for _, d := range prog.Objets {
			p.printDecl(d)
		}
		p.indent--
	}
	p.line("Début")
	p.indent++
	for _, sd := range prog.Structs {
		p.printStructDef(sd)
		p.line("")
	}
	for _, fn := range prog.Funcs {
		p.printFuncDef(fn)
		p.line("")
	}
	for _, pr := range prog.Procs {
		p.printProcDef(pr)
		p.line("")
	}
	if prog.Main != nil {
		p.printStmts(prog.Main.Stmts)
	}
	p.indent--
	p.line("Fin")
}

func (p *Printer) printDecl(d Statement) {
	switch decl := d.(type) {
	case *VarDecl:
		if _, isArray := decl.Type.(*ArrayTypeExpr); isArray {
			p.line("%s : %s", decl.Names[0], p.typeExpr(decl.Type))
		} else {
			p.line("%s : Variable %s", decl.Names[0], p.typeExpr(decl.Type))
		}
	case *ConstDecl:
		p.line("%s : Constante %s = %s", decl.Name, p.typeExpr(decl.Type), p.expr(decl.Value))
	default:
		p.line("// déclaration inconnue")
	}
}

func (p *Printer) typeExpr(t TypeExpr) string {
	switch te := t.(type) {
	case *PrimitiveTypeExpr:
		return te.Name
	case *NamedTypeExpr:
		return te.Name
	case *ArrayTypeExpr:
		var b strings.Builder
		b.WriteString("tableau ")
		b.WriteString(p.typeExpr(te.Elem))
		for _, d := range te.Dims {
			b.WriteString("[")
			if d != nil {
				b.WriteString(p.expr(d))
			}
			b.WriteString("]")
		}
		return b.String()
	default:
		return "?"
	}
}

func (p *Printer) printStructDef(sd *StructDef) {
	p.line("Structure %s", sd.Name)
	p.indent++
	for _, f := range sd.Fields {
		p.line("%s : %s", f.Name, p.typeExpr(f.Type))
	}
	p.indent--
	p.line("Fin-struct")
}

func (p *Printer) paramList(params []*Param) string {
	parts := make([]string, len(params))
	for i, pa := range params {
		parts[i] = fmt.Sprintf("%s : %s", pa.Name, p.typeExpr(pa.Type))
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) printFuncDef(fn *FuncDef) {
	p.line("Fonction %s(%s) : %s", fn.Name, p.paramList(fn.Params), p.typeExpr(fn.ReturnType))
	p.line("Début")
	p.indent++
	if fn.Body != nil {
		p.printStmts(fn.Body.Stmts)
	}
	p.indent--
	p.line("FinFonct")
}

func (p *Printer) printProcDef(pr *ProcDef) {
	p.line("Procédure %s(%s)", pr.Name, p.paramList(pr.Params))
	p.line("Début")
	p.indent++
	if pr.Body != nil {
		p.printStmts(pr.Body.Stmts)
	}
	p.indent--
	p.line("FinProc")
}

func (p *Printer) printStmts(stmts []Statement) {
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *Printer) printStmt(s Statement) {
	switch n := s.(type) {
	case *VarDecl, *ConstDecl:
		p.printDecl(n)
	case *Assign:
		p.line("%s <- %s", p.expr(n.Target), p.expr(n.Value))
	case *If:
		p.printIf(n)
	case *While:
		p.line("TantQue %s", p.expr(n.Cond))
		p.indent++
		if n.Body != nil {
			p.printStmts(n.Body.Stmts)
		}
		p.indent--
		p.line("FinTantQue")
	case *For:
		p.printFor(n)
	case *Repeat:
		p.line("Répéter")
		p.indent++
		if n.Body != nil {
			p.printStmts(n.Body.Stmts)
		}
		p.indent--
		p.line("TantQue %s", p.expr(n.Cond))
	case *CallStmt:
		p.line("%s", p.expr(n.Call))
	case *Return:
		if n.Value == nil {
			p.line("Retour")
		} else {
			p.line("Retourner %s", p.expr(n.Value))
		}
	case *Write:
		p.line("Ecrire(%s)", p.exprList(n.Args))
	case *Read:
		p.line("Lire(%s)", p.exprList(n.Targets))
	case *Break:
		p.line("Sortir")
	case *QuitFor:
		p.line("Quitter Pour")
	case *Switch:
		p.printSwitch(n)
	case *Block:
		p.printStmts(n.Stmts)
	default:
		p.line("// instruction inconnue")
	}
}

func (p *Printer) printIf(n *If) {
	p.line("Si %s Alors", p.expr(n.Cond))
	p.indent++
	if n.Then != nil {
		p.printStmts(n.Then.Stmts)
	}
	p.indent--
	for _, ei := range n.ElseIfs {
		p.line("SinonSi %s Alors", p.expr(ei.Cond))
		p.indent++
		if ei.Then != nil {
			p.printStmts(ei.Then.Stmts)
		}
		p.indent--
	}
	if n.Else != nil {
		p.line("Sinon")
		p.indent++
		p.printStmts(n.Else.Stmts)
		p.indent--
	}
	p.line("FinSi")
}

func (p *Printer) printFor(n *For) {
	if n.Step != nil {
		p.line("Pour %s <- %s jusqu'à %s pas %s", n.Var, p.expr(n.From), p.expr(n.To), p.expr(n.Step))
	} else {
		p.line("Pour %s <- %s jusqu'à %s", n.Var, p.expr(n.From), p.expr(n.To))
	}
	p.indent++
	if n.Body != nil {
		p.printStmts(n.Body.Stmts)
	}
	p.indent--
	p.line("FinPour")
}

func (p *Printer) printSwitch(n *Switch) {
	p.line("Selon %s", p.expr(n.Subject))
	p.indent++
	for _, c := range n.Cases {
		p.line("Cas %s :", p.exprList(c.Labels))
		p.indent++
		if c.Body != nil {
			p.printStmts(c.Body.Stmts)
		}
		p.indent--
	}
	if n.Default != nil {
		p.line("Défaut :")
		p.indent++
		p.printStmts(n.Default.Stmts)
		p.indent--
	}
	p.indent--
	p.line("FinSelon")
}

func (p *Printer) exprList(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = p.expr(e)
	}
	return strings.Join(parts, ", ")
}

var binaryLexeme = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", DivInt: "Div", Mod: "Mod", Pow: "^",
	Lt: "<", Le: "<=", Gt: ">", Ge: ">=", Eq: "=", Ne: "<>", And: "Et", Or: "Ou",
}

// expr renders e as a fully parenthesized expression. Every binary and
// unary node is wrapped in its own parens so precedence never needs to
// survive the round trip through re-lexing and re-parsing; only the
// tree shape does.
func (p *Printer) expr(e Expression) string {
	switch n := e.(type) {
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", p.expr(n.Left), binaryLexeme[n.Op], p.expr(n.Right))
	case *Unary:
		if n.Op == Not {
			return fmt.Sprintf("(Non %s)", p.expr(n.Operand))
		}
		return fmt.Sprintf("(-%s)", p.expr(n.Operand))
	case *IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *RealLit:
		// 'f' (never exponential) since the lexer's number grammar has no
		// exponent notation, only a decimal-separator digit run.
		s := strconv.FormatFloat(n.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case *StringLit:
		return quoteString(n.Value)
	case *BoolLit:
		if n.Value {
			return "Vrai"
		}
		return "Faux"
	case *Identifier:
		return n.Name
	case *Index:
		return fmt.Sprintf("%s[%s]", p.expr(n.Array), p.expr(n.Index))
	case *FieldAccess:
		return fmt.Sprintf("%s.%s", p.expr(n.Target), n.Field)
	case *Call:
		return fmt.Sprintf("%s(%s)", n.Callee, p.exprList(n.Args))
	default:
		return "?"
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}
