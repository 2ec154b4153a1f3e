// Package c emits C source from a resolved syntax tree.
package c

import (
	"fmt"
	"strings"

	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/types"
)

// Generator walks a *ast.Program and writes a single translation unit.
// exprTypes carries the analyzer's resolved type per expression node, used
// to pick printf/scanf conversions for Ecrire/Lire.
type Generator struct {
	indent int
	b      strings.Builder

	needStdlib  bool
	needStdbool bool
	needString  bool
	needMath    bool

	structs   map[string]*ast.StructDef
	exprTypes map[ast.Expression]*types.Type

	Diagnostics diag.Stream
}

// New creates a Generator consulting exprTypes for expression types.
func New(exprTypes map[ast.Expression]*types.Type) *Generator {
	return &Generator{structs: make(map[string]*ast.StructDef), exprTypes: exprTypes}
}

// Generate produces a complete .c source file for prog, along with any
// emission diagnostics (a non-multidimensional-array rule applies here:
// an array type with more than one declared dimension found by walkTypes
// is rejected with a diagnostic).
// exprTypes is the analyzer's resolved-type map for prog's expressions.
func Generate(prog *ast.Program, exprTypes map[ast.Expression]*types.Type) (string, diag.Stream) {
	g := New(exprTypes)
	for _, sd := range prog.Structs {
		g.structs[sd.Name] = sd
	}
	g.scanNeeds(prog)
	g.scanExprFeatures(prog)
	g.writeLine("#include <stdio.h>")
	if g.needStdlib {
		g.writeLine("#include <stdlib.h>")
	}
	if g.needStdbool {
		g.writeLine("#include <stdbool.h>")
	}
	if g.needString {
		g.writeLine("#include <string.h>")
	}
	if g.needMath {
		g.writeLine("#include <math.h>")
	}
	g.writeLine("")

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
		g.writeLine(g.funcSignature(fn) + ";")
	}
	for _, pr := range prog.Procs {
		g.writeLine(g.procSignature(pr) + ";")
	}
	g.writeLine("")

	for _, fn := range prog.Funcs {
		g.genFuncDef(fn)
	}
	for _, pr := range prog.Procs {
		g.genProcDef(pr)
	}

	g.writeLine("int main(void) {")
	g.indent++
	for _, s := range prog.Main.Stmts {
		g.genStmt(s)
	}
	g.writeLine("return 0;")
	g.indent--
	g.writeLine("}")

	return g.b.String(), g.Diagnostics
}

// scanExprFeatures walks every expression in prog once, setting the
// include flags that depend on what the code actually does: <math.h> for
// the exponentiation operator, <stdbool.h> for boolean literals, and
// <stdlib.h> for string reads (which allocate their buffer).
func (g *Generator) scanExprFeatures(prog *ast.Program) {
	var visitExpr func(ast.Expression)
	visitExpr = func(e ast.Expression) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.BoolLit:
			g.needStdbool = true
		case *ast.Binary:
			if n.Op == ast.Pow {
				g.needMath = true
			}
			visitExpr(n.Left)
			visitExpr(n.Right)
		case *ast.Unary:
			visitExpr(n.Operand)
		case *ast.Index:
			visitExpr(n.Array)
			visitExpr(n.Index)
		case *ast.FieldAccess:
			visitExpr(n.Target)
		case *ast.Call:
			for _, a := range n.Args {
				visitExpr(a)
			}
		}
	}
	var visitStmt func(ast.Statement)
	visitBlock := func(b *ast.Block) {
		if b == nil {
			return
		}
		for _, s := range b.Stmts {
			visitStmt(s)
		}
	}
	visitStmt = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.ConstDecl:
			visitExpr(n.Value)
		case *ast.Assign:
			visitExpr(n.Target)
			visitExpr(n.Value)
		case *ast.If:
			visitExpr(n.Cond)
			visitBlock(n.Then)
			for _, ei := range n.ElseIfs {
				visitExpr(ei.Cond)
				visitBlock(ei.Then)
			}
			visitBlock(n.Else)
		case *ast.While:
			visitExpr(n.Cond)
			visitBlock(n.Body)
		case *ast.For:
			visitExpr(n.From)
			visitExpr(n.To)
			visitExpr(n.Step)
			visitBlock(n.Body)
		case *ast.Repeat:
			visitBlock(n.Body)
			visitExpr(n.Cond)
		case *ast.CallStmt:
			visitExpr(n.Call)
		case *ast.Return:
			visitExpr(n.Value)
		case *ast.Write:
			for _, a := range n.Args {
				visitExpr(a)
			}
		case *ast.Read:
			for _, a := range n.Targets {
				visitExpr(a)
				if g.kindOf(a) == types.String {
					g.needStdlib = true
				}
			}
		case *ast.Switch:
			visitExpr(n.Subject)
			for _, c := range n.Cases {
				for _, l := range c.Labels {
					visitExpr(l)
				}
				visitBlock(c.Body)
			}
			visitBlock(n.Default)
		}
	}
	for _, d := range prog.Objets {
		if cd, ok := d.(*ast.ConstDecl); ok {
			visitExpr(cd.Value)
		}
	}
	for _, fn := range prog.Funcs {
		visitBlock(fn.Body)
	}
	for _, pr := range prog.Procs {
		visitBlock(pr.Body)
	}
	visitBlock(prog.Main)
}

func (g *Generator) scanNeeds(prog *ast.Program) {
	walkTypes(prog, func(t ast.TypeExpr) {
		if p, ok := t.(*ast.PrimitiveTypeExpr); ok && p.Name == "booleen" {
			g.needStdbool = true
		}
		if p, ok := t.(*ast.PrimitiveTypeExpr); ok && p.Name == "chaine" {
			g.needString = true
		}
		if arr, ok := t.(*ast.ArrayTypeExpr); ok && len(arr.Dims) > 1 {
			g.Diagnostics.Add(arr.Pos(), "le générateur C ne prend pas en charge les tableaux à %d dimensions", len(arr.Dims))
		}
	})
}

// walkTypes visits the TypeExprs of struct fields, the global Objets
// section, and each function's and procedure's parameters, return type and
// local Objets section. Declarations written among a block's statements
// are not visited.
func walkTypes(prog *ast.Program, visit func(ast.TypeExpr)) {
	var visitDecl func(ast.Statement)
	visitDecl = func(s ast.Statement) {
		switch d := s.(type) {
		case *ast.VarDecl:
			visit(d.Type)
		case *ast.ConstDecl:
			visit(d.Type)
		}
	}
	for _, sd := range prog.Structs {
		for _, f := range sd.Fields {
			visit(f.Type)
		}
	}
	for _, d := range prog.Objets {
		visitDecl(d)
	}
	for _, fn := range prog.Funcs {
		visit(fn.ReturnType)
		for _, p := range fn.Params {
			visit(p.Type)
		}
		for _, d := range fn.Locals {
			visitDecl(d)
		}
	}
	for _, pr := range prog.Procs {
		for _, p := range pr.Params {
			visit(p.Type)
		}
		for _, d := range pr.Locals {
			visitDecl(d)
		}
	}
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

func (g *Generator) cType(t ast.TypeExpr) string {
	switch n := t.(type) {
	case *ast.PrimitiveTypeExpr:
		switch n.Name {
		case "entier":
			return "int"
		case "reel":
			return "double"
		case "caractere":
			return "char"
		case "chaine":
			return "char *"
		case "booleen":
			return "bool"
		default:
			return "int"
		}
	case *ast.NamedTypeExpr:
		return "struct " + n.Name
	case *ast.ArrayTypeExpr:
		return g.cType(n.Elem)
	default:
		return "int"
	}
}

func (g *Generator) arraySuffix(t ast.TypeExpr) string {
	arr, ok := t.(*ast.ArrayTypeExpr)
	if !ok {
		return ""
	}
	var buf strings.Builder
	for _, d := range arr.Dims {
		buf.WriteString("[")
		if d != nil {
			g.exprInto(&buf, d)
		}
		buf.WriteString("]")
	}
	return buf.String()
}

// kindOf reports the resolved type kind of e. Literals fall back to their
// syntactic kind when no resolved type is available, everything else to
// integer, so a nil map reproduces the literal-only behavior.
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
	g.writeLine(fmt.Sprintf("struct %s {", sd.Name))
	g.indent++
	for _, f := range sd.Fields {
		g.writeLine(fmt.Sprintf("%s %s%s;", g.cType(f.Type), f.Name, g.arraySuffix(f.Type)))
	}
	g.indent--
	g.writeLine("};")
	g.writeLine("")
}

func (g *Generator) genGlobalDecl(d ast.Statement) {
	switch n := d.(type) {
	case *ast.VarDecl:
		for _, name := range n.Names {
			g.writeLine(fmt.Sprintf("%s %s%s;", g.cType(n.Type), name, g.arraySuffix(n.Type)))
		}
	case *ast.ConstDecl:
		var buf strings.Builder
		g.exprInto(&buf, n.Value)
		g.writeLine(fmt.Sprintf("#define %s (%s)", n.Name, buf.String()))
	}
}

func (g *Generator) paramList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s %s%s", g.cType(p.Type), p.Name, g.arraySuffix(p.Type))
	}
	if len(parts) == 0 {
		return "void"
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) funcSignature(fn *ast.FuncDef) string {
	return fmt.Sprintf("%s %s(%s)", g.cType(fn.ReturnType), fn.Name, g.paramList(fn.Params))
}

func (g *Generator) procSignature(pr *ast.ProcDef) string {
	return fmt.Sprintf("void %s(%s)", pr.Name, g.paramList(pr.Params))
}

func (g *Generator) genFuncDef(fn *ast.FuncDef) {
	g.writeLine(g.funcSignature(fn) + " {")
	g.indent++
	for _, s := range fn.Body.Stmts {
		g.genStmt(s)
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

func (g *Generator) genProcDef(pr *ast.ProcDef) {
	g.writeLine(g.procSignature(pr) + " {")
	g.indent++
	for _, s := range pr.Body.Stmts {
		g.genStmt(s)
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

func (g *Generator) genStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.VarDecl:
		for _, name := range n.Names {
			g.writeLine(fmt.Sprintf("%s %s%s;", g.cType(n.Type), name, g.arraySuffix(n.Type)))
		}
	case *ast.ConstDecl:
		var buf strings.Builder
		g.exprInto(&buf, n.Value)
		g.writeLine(fmt.Sprintf("const %s %s = %s;", g.cType(n.Type), n.Name, buf.String()))
	case *ast.Assign:
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.genExpr(n.Target)
		g.write(" = ")
		g.genExpr(n.Value)
		g.write(";\n")
	case *ast.If:
		g.genIf(n)
	case *ast.While:
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.write("while (")
		g.genExpr(n.Cond)
		g.write(") {\n")
		g.indent++
		for _, st := range n.Body.Stmts {
			g.genStmt(st)
		}
		g.indent--
		g.writeLine("}")
	case *ast.For:
		g.genFor(n)
	case *ast.Repeat:
		g.writeLine("do {")
		g.indent++
		for _, st := range n.Body.Stmts {
			g.genStmt(st)
		}
		g.indent--
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.write("} while (")
		g.genExpr(n.Cond)
		g.write(");\n")
	case *ast.CallStmt:
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.genExpr(n.Call)
		g.write(";\n")
	case *ast.Return:
		if n.Value == nil {
			g.writeLine("return;")
		} else {
			g.b.WriteString(strings.Repeat("    ", g.indent))
			g.write("return ")
			g.genExpr(n.Value)
			g.write(";\n")
		}
	case *ast.Write:
		g.genWrite(n)
	case *ast.Read:
		g.genRead(n)
	case *ast.Break:
		g.writeLine("break;")
	case *ast.QuitFor:
		g.writeLine("break;")
	case *ast.Switch:
		g.genSwitch(n)
	}
}

func (g *Generator) genIf(n *ast.If) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write("if (")
	g.genExpr(n.Cond)
	g.write(") {\n")
	g.indent++
	for _, st := range n.Then.Stmts {
		g.genStmt(st)
	}
	g.indent--
	for _, ei := range n.ElseIfs {
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.write("} else if (")
		g.genExpr(ei.Cond)
		g.write(") {\n")
		g.indent++
		for _, st := range ei.Then.Stmts {
			g.genStmt(st)
		}
		g.indent--
	}
	if n.Else != nil {
		g.writeLine("} else {")
		g.indent++
		for _, st := range n.Else.Stmts {
			g.genStmt(st)
		}
		g.indent--
	}
	g.writeLine("}")
}

func (g *Generator) genFor(n *ast.For) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write(fmt.Sprintf("for (%s = ", n.Var))
	g.genExpr(n.From)
	g.write("; ")
	if n.Step != nil {
		if isNegativeStep(n.Step) {
			g.write(fmt.Sprintf("%s >= ", n.Var))
			g.genExpr(n.To)
		} else {
			g.write(fmt.Sprintf("%s <= ", n.Var))
			g.genExpr(n.To)
		}
	} else {
		g.write(fmt.Sprintf("%s <= ", n.Var))
		g.genExpr(n.To)
	}
	g.write(fmt.Sprintf("; %s += ", n.Var))
	if n.Step != nil {
		g.genExpr(n.Step)
	} else {
		g.write("1")
	}
	g.write(") {\n")
	g.indent++
	for _, st := range n.Body.Stmts {
		g.genStmt(st)
	}
	g.indent--
	g.writeLine("}")
}

// isNegativeStep does a shallow syntactic check for a literal or unary-minus
// step expression; a computed step falls back to the ascending comparison.
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
	var format strings.Builder
	var args []string
	for _, arg := range n.Args {
		format.WriteString(g.formatSpecifier(arg))
		var buf strings.Builder
		g.exprInto(&buf, arg)
		args = append(args, buf.String())
	}
	format.WriteString(`\n`)
	line := fmt.Sprintf(`printf("%s"`, format.String())
	for _, a := range args {
		line += ", " + a
	}
	line += ");"
	g.writeLine(line)
}

// formatSpecifier picks the printf conversion from the resolved type, so a
// reel variable prints as %g and a caractere as %c, not as its raw bits.
func (g *Generator) formatSpecifier(e ast.Expression) string {
	switch g.kindOf(e) {
	case types.String:
		return "%s"
	case types.Real:
		return "%g"
	case types.Character:
		return "%c"
	default:
		return "%d"
	}
}

func (g *Generator) genRead(n *ast.Read) {
	for _, tgt := range n.Targets {
		var buf strings.Builder
		g.exprInto(&buf, tgt)
		x := buf.String()
		switch g.kindOf(tgt) {
		case types.Real:
			g.writeLine(fmt.Sprintf(`scanf("%%lf", &%s);`, x))
		case types.Character:
			// the leading space eats the newline left by a previous read
			g.writeLine(fmt.Sprintf(`scanf(" %%c", &%s);`, x))
		case types.String:
			g.writeLine(fmt.Sprintf(`%s = malloc(256); scanf("%%s", %s);`, x, x))
		case types.Boolean:
			g.writeLine(fmt.Sprintf(`{ int _b; scanf("%%d", &_b); %s = _b != 0; }`, x))
		default:
			g.writeLine(fmt.Sprintf(`scanf("%%d", &%s);`, x))
		}
	}
}

func (g *Generator) genSwitch(n *ast.Switch) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write("switch (")
	g.genExpr(n.Subject)
	g.write(") {\n")
	g.indent++
	for _, c := range n.Cases {
		for _, lbl := range c.Labels {
			g.b.WriteString(strings.Repeat("    ", g.indent))
			g.write("case ")
			g.genExpr(lbl)
			g.write(":\n")
		}
		g.indent++
		for _, st := range c.Body.Stmts {
			g.genStmt(st)
		}
		g.writeLine("break;")
		g.indent--
	}
	if n.Default != nil {
		g.writeLine("default:")
		g.indent++
		for _, st := range n.Default.Stmts {
			g.genStmt(st)
		}
		g.writeLine("break;")
		g.indent--
	}
	g.indent--
	g.writeLine("}")
}

var cBinaryOps = map[ast.BinaryOp]string{
	ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.DivInt: "/", ast.Mod: "%",
	ast.Lt: "<", ast.Le: "<=", ast.Gt: ">", ast.Ge: ">=", ast.Eq: "==", ast.Ne: "!=",
	ast.And: "&&", ast.Or: "||",
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
			g.write("true")
		} else {
			g.write("false")
		}
	case *ast.Identifier:
		g.write(n.Name)
	case *ast.Unary:
		switch n.Op {
		case ast.Neg:
			g.write("-(")
		case ast.Not:
			g.write("!(")
		}
		g.genExpr(n.Operand)
		g.write(")")
	case *ast.Binary:
		if n.Op == ast.Pow {
			g.write("pow(")
			g.genExpr(n.Left)
			g.write(", ")
			g.genExpr(n.Right)
			g.write(")")
			return
		}
		g.write("(")
		g.genExpr(n.Left)
		g.write(" " + cBinaryOps[n.Op] + " ")
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
