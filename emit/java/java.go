// Package java emits Java source from a resolved syntax tree. Everything
// is generated into one public Main class: structs become static nested
// classes, declarations become static fields, and functions/procedures
// become static methods sharing one java.util.Scanner for Lire.
package java

import (
	"fmt"
	"strings"

	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/types"
)

// Generator walks a *ast.Program and writes one Main.java source file.
// exprTypes carries the analyzer's resolved type per expression node, used
// to pick the Scanner method for Lire.
type Generator struct {
	indent int
	b      strings.Builder

	structs   map[string]*ast.StructDef
	exprTypes map[ast.Expression]*types.Type

	Diagnostics diag.Stream
}

// New creates a Generator consulting exprTypes for expression types.
func New(exprTypes map[ast.Expression]*types.Type) *Generator {
	return &Generator{structs: make(map[string]*ast.StructDef), exprTypes: exprTypes}
}

// Generate produces Main.java's contents for prog. exprTypes is the
// analyzer's resolved-type map for prog's expressions.
func Generate(prog *ast.Program, exprTypes map[ast.Expression]*types.Type) (string, diag.Stream) {
	g := New(exprTypes)
	for _, sd := range prog.Structs {
		g.structs[sd.Name] = sd
	}

	g.writeLine("import java.util.Scanner;")
	g.writeLine("")
	g.writeLine("public class Main {")
	g.indent++
	g.writeLine("static Scanner _stdin = new Scanner(System.in);")
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

	if g.hasArrayOfStructGlobal(prog) {
		g.genStaticInit(prog)
	}

	for _, fn := range prog.Funcs {
		g.genFuncDef(fn)
	}
	for _, pr := range prog.Procs {
		g.genProcDef(pr)
	}

	g.writeLine("public static void main(String[] args) {")
	g.indent++
	for _, s := range prog.Main.Stmts {
		g.genStmt(s)
	}
	g.indent--
	g.writeLine("}")

	g.indent--
	g.writeLine("}")

	return g.b.String(), g.Diagnostics
}

// hasArrayOfStructGlobal reports whether any top-level array declares an
// element type that is a struct, which Java requires explicit per-element
// construction for (new T[n] leaves each slot null).
func (g *Generator) hasArrayOfStructGlobal(prog *ast.Program) bool {
	for _, d := range prog.Objets {
		vd, ok := d.(*ast.VarDecl)
		if !ok {
			continue
		}
		arr, ok := vd.Type.(*ast.ArrayTypeExpr)
		if !ok {
			continue
		}
		if _, ok := arr.Elem.(*ast.NamedTypeExpr); ok {
			return true
		}
	}
	return false
}

func (g *Generator) genStaticInit(prog *ast.Program) {
	g.writeLine("static {")
	g.indent++
	for _, d := range prog.Objets {
		vd, ok := d.(*ast.VarDecl)
		if !ok {
			continue
		}
		arr, ok := vd.Type.(*ast.ArrayTypeExpr)
		if !ok {
			continue
		}
		named, ok := arr.Elem.(*ast.NamedTypeExpr)
		if !ok {
			continue
		}
		for _, name := range vd.Names {
			g.writeLine(fmt.Sprintf("for (int _i = 0; _i < %s.length; _i++) { %s[_i] = new %s(); }", name, name, named.Name))
		}
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")
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

func (g *Generator) javaType(t ast.TypeExpr) string {
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
			return "String"
		case "booleen":
			return "boolean"
		default:
			return "int"
		}
	case *ast.NamedTypeExpr:
		return n.Name
	case *ast.ArrayTypeExpr:
		return g.javaType(n.Elem) + strings.Repeat("[]", len(n.Dims))
	default:
		return "int"
	}
}

func (g *Generator) zeroValue(t ast.TypeExpr) string {
	switch n := t.(type) {
	case *ast.PrimitiveTypeExpr:
		switch n.Name {
		case "entier":
			return "0"
		case "reel":
			return "0.0"
		case "caractere":
			return "'\\0'"
		case "chaine":
			return `""`
		case "booleen":
			return "false"
		default:
			return "null"
		}
	case *ast.NamedTypeExpr:
		return "new " + n.Name + "()"
	default:
		return "null"
	}
}

func (g *Generator) genStructDef(sd *ast.StructDef) {
	g.writeLine(fmt.Sprintf("static class %s {", sd.Name))
	g.indent++
	for _, f := range sd.Fields {
		if arr, ok := f.Type.(*ast.ArrayTypeExpr); ok {
			g.writeLine(fmt.Sprintf("%s %s = %s;", g.javaType(f.Type), f.Name, g.arrayNewExpr(arr)))
		} else {
			g.writeLine(fmt.Sprintf("%s %s = %s;", g.javaType(f.Type), f.Name, g.zeroValue(f.Type)))
		}
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

func (g *Generator) arrayNewExpr(t *ast.ArrayTypeExpr) string {
	var dims strings.Builder
	for _, d := range t.Dims {
		dims.WriteString("[")
		if d != nil {
			var buf strings.Builder
			g.exprInto(&buf, d)
			dims.WriteString(buf.String())
		}
		dims.WriteString("]")
	}
	return fmt.Sprintf("new %s%s", g.javaType(t.Elem), dims.String())
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

func (g *Generator) genGlobalDecl(d ast.Statement) {
	switch n := d.(type) {
	case *ast.VarDecl:
		for _, name := range n.Names {
			if arr, ok := n.Type.(*ast.ArrayTypeExpr); ok {
				g.writeLine(fmt.Sprintf("static %s %s = %s;", g.javaType(n.Type), name, g.arrayNewExpr(arr)))
			} else {
				g.writeLine(fmt.Sprintf("static %s %s = %s;", g.javaType(n.Type), name, g.zeroValue(n.Type)))
			}
		}
	case *ast.ConstDecl:
		var buf strings.Builder
		g.exprInto(&buf, n.Value)
		g.writeLine(fmt.Sprintf("static final %s %s = %s;", g.javaType(n.Type), n.Name, buf.String()))
	}
}

func (g *Generator) paramList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s %s", g.javaType(p.Type), p.Name)
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) genFuncDef(fn *ast.FuncDef) {
	g.writeLine(fmt.Sprintf("static %s %s(%s) {", g.javaType(fn.ReturnType), fn.Name, g.paramList(fn.Params)))
	g.indent++
	for _, s := range fn.Body.Stmts {
		g.genStmt(s)
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

func (g *Generator) genProcDef(pr *ast.ProcDef) {
	g.writeLine(fmt.Sprintf("static void %s(%s) {", pr.Name, g.paramList(pr.Params)))
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
			if arr, ok := n.Type.(*ast.ArrayTypeExpr); ok {
				g.writeLine(fmt.Sprintf("%s %s = %s;", g.javaType(n.Type), name, g.arrayNewExpr(arr)))
			} else {
				g.writeLine(fmt.Sprintf("%s %s = %s;", g.javaType(n.Type), name, g.zeroValue(n.Type)))
			}
		}
	case *ast.ConstDecl:
		var buf strings.Builder
		g.exprInto(&buf, n.Value)
		g.writeLine(fmt.Sprintf("final %s %s = %s;", g.javaType(n.Type), n.Name, buf.String()))
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
	descending := false
	if n.Step != nil {
		if u, ok := n.Step.(*ast.Unary); ok && u.Op == ast.Neg {
			descending = true
		}
		if lit, ok := n.Step.(*ast.IntLit); ok && lit.Value < 0 {
			descending = true
		}
	}
	if descending {
		g.write(fmt.Sprintf("%s >= ", n.Var))
	} else {
		g.write(fmt.Sprintf("%s <= ", n.Var))
	}
	g.genExpr(n.To)
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

func (g *Generator) genWrite(n *ast.Write) {
	g.b.WriteString(strings.Repeat("    ", g.indent))
	g.write("System.out.println(")
	for i, arg := range n.Args {
		if i > 0 {
			g.write(" + ")
		}
		g.genExpr(arg)
	}
	if len(n.Args) == 0 {
		g.write(`""`)
	}
	g.write(");\n")
}

func (g *Generator) genRead(n *ast.Read) {
	for _, tgt := range n.Targets {
		var read string
		switch g.kindOf(tgt) {
		case types.Real:
			read = "_stdin.nextDouble()"
		case types.Character:
			read = "_stdin.next().charAt(0)"
		case types.String:
			read = "_stdin.next()"
		case types.Boolean:
			read = "_stdin.nextBoolean()"
		default:
			read = "_stdin.nextInt()"
		}
		g.b.WriteString(strings.Repeat("    ", g.indent))
		g.genExpr(tgt)
		g.write(" = " + read + ";\n")
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

var javaBinaryOps = map[ast.BinaryOp]string{
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
			g.write("Math.pow(")
			g.genExpr(n.Left)
			g.write(", ")
			g.genExpr(n.Right)
			g.write(")")
			return
		}
		if n.Op == ast.Eq || n.Op == ast.Ne {
			// String/struct equality needs .equals; this emitter keeps ==/!=
			// for the numeric/boolean/char cases the semantic checker allows.
			g.write("(")
			g.genExpr(n.Left)
			g.write(" " + javaBinaryOps[n.Op] + " ")
			g.genExpr(n.Right)
			g.write(")")
			return
		}
		g.write("(")
		g.genExpr(n.Left)
		g.write(" " + javaBinaryOps[n.Op] + " ")
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
