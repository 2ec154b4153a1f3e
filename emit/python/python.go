// Package python emits Python 3 source from a resolved syntax tree:
// structs become classes with an __init__, declarations become
// module-level globals, functions/procedures become top-level def's, and
// the main block becomes a main() guarded by the usual __main__ check.
package python

import (
	"fmt"
	"strings"

	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/types"
)

// Generator walks a *ast.Program and writes one .py source file.
// exprTypes carries the analyzer's resolved type per expression node, used
// to pick the input() conversion for Lire.
type Generator struct {
	indent int
	b      strings.Builder

	exprTypes map[ast.Expression]*types.Type

	Diagnostics diag.Stream
}

// New creates a Generator consulting exprTypes for expression types.
func New(exprTypes map[ast.Expression]*types.Type) *Generator {
	return &Generator{exprTypes: exprTypes}
}

// Generate produces out.py's contents for prog. exprTypes is the
// analyzer's resolved-type map for prog's expressions.
func Generate(prog *ast.Program, exprTypes map[ast.Expression]*types.Type) (string, diag.Stream) {
	g := New(exprTypes)

	for _, sd := range prog.Structs {
		g.genStructDef(sd)
	}

	for _, d := range prog.Objets {
		g.genGlobalDecl(d)
	}
	if len(prog.Objets) > 0 {
		g.writeLine("")
	}

	for _, fn := range prog.Funcs {
		g.genFuncDef(fn)
	}
	for _, pr := range prog.Procs {
		g.genProcDef(pr)
	}

	g.writeLine("def main():")
	g.indent++
	if len(prog.Objets) > 0 {
		names := make([]string, 0, len(prog.Objets))
		for _, d := range prog.Objets {
			switch n := d.(type) {
			case *ast.VarDecl:
				names = append(names, n.Names...)
			case *ast.ConstDecl:
				names = append(names, n.Name)
			}
		}
		g.writeLine("global " + strings.Join(names, ", "))
	}
	for _, s := range prog.Main.Stmts {
		g.genStmt(s)
	}
	if len(prog.Main.Stmts) == 0 {
		g.writeLine("pass")
	}
	g.indent--
	g.writeLine("")
	g.writeLine(`if __name__ == "__main__":`)
	g.indent++
	g.writeLine("main()")
	g.indent--

	return g.b.String(), g.Diagnostics
}

func (g *Generator) writeLine(s string) {
	if s == "" {
		g.b.WriteString("\n")
		return
	}
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.b.WriteString(s)
	g.b.WriteString("\n")
}

func (g *Generator) write(s string) { g.b.WriteString(s) }

func (g *Generator) zeroValue(t ast.TypeExpr) string {
	switch n := t.(type) {
	case *ast.PrimitiveTypeExpr:
		switch n.Name {
		case "entier":
			return "0"
		case "reel":
			return "0.0"
		case "caractere":
			return `""`
		case "chaine":
			return `""`
		case "booleen":
			return "False"
		default:
			return "None"
		}
	case *ast.NamedTypeExpr:
		return n.Name + "()"
	case *ast.ArrayTypeExpr:
		return g.arrayLiteral(n)
	default:
		return "None"
	}
}

// arrayLiteral renders nested list comprehensions so each dimension gets
// its own list (mutating arr[0] never aliases arr[1] the way [[0]*n]*m would).
func (g *Generator) arrayLiteral(t *ast.ArrayTypeExpr) string {
	return g.arrayLiteralDim(t.Elem, t.Dims, 0)
}

func (g *Generator) arrayLiteralDim(elem ast.TypeExpr, dims []ast.Expression, i int) string {
	var size strings.Builder
	if dims[i] != nil {
		g.exprInto(&size, dims[i])
	} else {
		size.WriteString("0")
	}
	if i == len(dims)-1 {
		return fmt.Sprintf("[%s for _ in range(%s)]", g.zeroValue(elem), size.String())
	}
	inner := g.arrayLiteralDim(elem, dims, i+1)
	return fmt.Sprintf("[%s for _ in range(%s)]", inner, size.String())
}

// kindOf reports the resolved type kind of e, falling back to the literal's
// syntactic kind (and otherwise integer) when no resolved type is available.
func (g *Generator) kindOf(e ast.Expression) types.Kind {
	if t, ok := g.exprTypes[e]; ok && t != nil && t.Kind != types.Error {
		return t.Kind
	}
	switch e.(type) {
	case *ast.RealLit:
		return types.Real
	case *ast.StringLit:
		return types.String
	case *ast.BoolLit:
		return types.Boolean
	default:
		return types.Integer
	}
}

func (g *Generator) exprInto(buf *strings.Builder, e ast.Expression) {
	saved := g.b
	g.b = strings.Builder{}
	g.genExpr(e)
	buf.WriteString(g.b.String())
	g.b = saved
}

func (g *Generator) genStructDef(sd *ast.StructDef) {
	g.writeLine(fmt.Sprintf("class %s:", sd.Name))
	g.indent++
	g.writeLine("def __init__(self):")
	g.indent++
	for _, f := range sd.Fields {
		g.writeLine(fmt.Sprintf("self.%s = %s", f.Name, g.zeroValue(f.Type)))
	}
	g.indent--
	g.indent--
	g.writeLine("")
}

func (g *Generator) genGlobalDecl(d ast.Statement) {
	switch n := d.(type) {
	case *ast.VarDecl:
		for _, name := range n.Names {
			g.writeLine(fmt.Sprintf("%s = %s", name, g.zeroValue(n.Type)))
		}
	case *ast.ConstDecl:
		var buf strings.Builder
		g.exprInto(&buf, n.Value)
		g.writeLine(fmt.Sprintf("%s = %s", n.Name, buf.String()))
	}
}

func (g *Generator) paramList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) genFuncDef(fn *ast.FuncDef) {
	g.writeLine(fmt.Sprintf("def %s(%s):", fn.Name, g.paramList(fn.Params)))
	g.indent++
	g.genLocalsAndBody(fn.Body)
	g.indent--
	g.writeLine("")
}

func (g *Generator) genProcDef(pr *ast.ProcDef) {
	g.writeLine(fmt.Sprintf("def %s(%s):", pr.Name, g.paramList(pr.Params)))
	g.indent++
	g.genLocalsAndBody(pr.Body)
	g.indent--
	g.writeLine("")
}

func (g *Generator) genLocalsAndBody(b *ast.Block) {
	if len(b.Stmts) == 0 {
		g.writeLine("pass")
		return
	}
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
}

func (g *Generator) genStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.VarDecl:
		for _, name := range n.Names {
			g.writeLine(fmt.Sprintf("%s = %s", name, g.zeroValue(n.Type)))
		}
	case *ast.ConstDecl:
		var buf strings.Builder
		g.exprInto(&buf, n.Value)
		g.writeLine(fmt.Sprintf("%s = %s", n.Name, buf.String()))
	case *ast.Assign:
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.genExpr(n.Target)
		g.write(" = ")
		g.genExpr(n.Value)
		g.write("\n")
	case *ast.If:
		g.genIf(n)
	case *ast.While:
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.write("while ")
		g.genExpr(n.Cond)
		g.write(":\n")
		g.indent++
		g.genLocalsAndBody(n.Body)
		g.indent--
	case *ast.For:
		g.genFor(n)
	case *ast.Repeat:
		g.writeLine("while True:")
		g.indent++
		g.genLocalsAndBody(n.Body)
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.write("if not (")
		g.genExpr(n.Cond)
		g.write("):\n")
		g.indent++
		g.writeLine("break")
		g.indent--
		g.indent--
	case *ast.CallStmt:
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.genExpr(n.Call)
		g.write("\n")
	case *ast.Return:
		if n.Value == nil {
			g.writeLine("return")
		} else {
			g.b.WriteString(strings.Repeat("    ", g.indent))
			g.write("return ")
			g.genExpr(n.Value)
			g.write("\n")
		}
	case *ast.Write:
		g.genWrite(n)
	case *ast.Read:
		g.genRead(n)
	case *ast.Break:
		g.writeLine("break")
	case *ast.QuitFor:
		g.writeLine("break")
	case *ast.Switch:
		g.genSwitch(n)
	}
}

func (g *Generator) genIf(n *ast.If) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write("if ")
	g.genExpr(n.Cond)
	g.write(":\n")
	g.indent++
	g.genLocalsAndBody(n.Then)
	g.indent--
	for _, ei := range n.ElseIfs {
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.write("elif ")
		g.genExpr(ei.Cond)
		g.write(":\n")
		g.indent++
		g.genLocalsAndBody(ei.Then)
		g.indent--
	}
	if n.Else != nil {
		g.writeLine("else:")
		g.indent++
		g.genLocalsAndBody(n.Else)
		g.indent--
	}
}

func (g *Generator) genFor(n *ast.For) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write(fmt.Sprintf("for %s in range(", n.Var))
	g.genExpr(n.From)
	if n.Step != nil && isNegativeStep(n.Step) {
		g.write(", ")
		g.genExpr(n.To)
		g.write(" - 1, ")
		g.genExpr(n.Step)
	} else {
		g.write(", ")
		g.genExpr(n.To)
		g.write(" + 1")
		if n.Step != nil {
			g.write(", ")
			g.genExpr(n.Step)
		}
	}
	g.write("):\n")
	g.indent++
	g.genLocalsAndBody(n.Body)
	g.indent--
}

// isNegativeStep mirrors the C emitter's shallow check: range()'s stop
// bound must flip from "+1" to "-1" for a descending Pas clause.
func isNegativeStep(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.Unary:
		return n.Op == ast.Neg
	case *ast.IntLit:
		return n.Value < 0
	default:
		return false
	}
}

func (g *Generator) genWrite(n *ast.Write) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write("print(")
	for i, arg := range n.Args {
		if i > 0 {
			g.write(", ")
		}
		g.genExpr(arg)
	}
	g.write(")\n")
}

func (g *Generator) genRead(n *ast.Read) {
	for _, tgt := range n.Targets {
		var read string
		switch g.kindOf(tgt) {
		case types.Real:
			read = "float(input())"
		case types.Character, types.String:
			read = "input()"
		default:
			read = "int(input())"
		}
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.genExpr(tgt)
		g.write(" = " + read + "\n")
	}
}

func (g *Generator) genSwitch(n *ast.Switch) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write("_selon = ")
	g.genExpr(n.Subject)
	g.write("\n")
	first := true
	for _, c := range n.Cases {
		g.b.WriteString(strings.Repeat("    ", g.indent))
		if first {
			g.write("if ")
			first = false
		} else {
			g.write("elif ")
		}
		for i, lbl := range c.Labels {
			if i > 0 {
				g.write(" or ")
			}
			g.write("_selon == ")
			g.genExpr(lbl)
		}
		g.write(":\n")
		g.indent++
		g.genLocalsAndBody(c.Body)
		g.indent--
	}
	if n.Default != nil {
		g.writeLine("else:")
		g.indent++
		g.genLocalsAndBody(n.Default)
		g.indent--
	}
}

var pyBinaryOps = map[ast.BinaryOp]string{
	ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.DivInt: "//", ast.Mod: "%",
	ast.Lt: "<", ast.Le: "<=", ast.Gt: ">", ast.Ge: ">=", ast.Eq: "==", ast.Ne: "!=",
	ast.And: "and", ast.Or: "or",
}

func (g *Generator) genExpr(e ast.Expression) {
	switch n := e.(type) {
	case *ast.IntLit:
		g.write(fmt.Sprintf("%d", n.Value))
	case *ast.RealLit:
		g.write(fmt.Sprintf("%g", n.Value))
	case *ast.StringLit:
		g.write(fmt.Sprintf("%q", n.Value))
	case *ast.BoolLit:
		if n.Value {
			g.write("True")
		} else {
			g.write("False")
		}
	case *ast.Identifier:
		g.write(n.Name)
	case *ast.Unary:
		switch n.Op {
		case ast.Neg:
			g.write("-(")
		case ast.Not:
			g.write("not (")
		}
		g.genExpr(n.Operand)
		g.write(")")
	case *ast.Binary:
		if n.Op == ast.Pow {
			g.write("(")
			g.genExpr(n.Left)
			g.write(" ** ")
			g.genExpr(n.Right)
			g.write(")")
			return
		}
		g.write("(")
		g.genExpr(n.Left)
		g.write(" " + pyBinaryOps[n.Op] + " ")
		g.genExpr(n.Right)
		g.write(")")
	case *ast.Index:
		g.genExpr(n.Array)
		g.write("[")
		g.genExpr(n.Index)
		g.write("]")
	case *ast.FieldAccess:
		g.genExpr(n.Target)
		g.write(".")
		g.write(n.Field)
	case *ast.Call:
		g.write(n.Callee)
		g.write("(")
		for i, arg := range n.Args {
			if i > 0 {
				g.write(", ")
			}
			g.genExpr(arg)
		}
		g.write(")")
	}
}
