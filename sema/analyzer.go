// Package sema implements the five-phase semantic analyzer: struct
// pre-declaration, global declarations, function/procedure
// pre-declaration, body checking, and main-block checking.
package sema

import (
	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/types"
)

type context int

const (
	ctxMain context = iota
	ctxFunc
	ctxProc
)

// Info is the analyzer's output surface for emitters: the resolved type
// of every checked expression, keyed by node identity. The tree itself is
// never annotated, so this map is the only way a backend learns what a
// variable reference or call actually is.
type Info struct {
	Types map[ast.Expression]*types.Type
}

// TypeOf returns the resolved type of e, or the error type if e was never
// checked (which only happens for trees that did not analyze cleanly).
func (i *Info) TypeOf(e ast.Expression) *types.Type {
	if t, ok := i.Types[e]; ok {
		return t
	}
	return types.ErrorType
}

// Analyzer walks a resolved *ast.Program, accumulating diagnostics. It
// never mutates the tree; all derived state lives in the scope chain,
// the struct table, the Info map, and the Diagnostics stream.
type Analyzer struct {
	global *Scope
	cur    *Scope

	structs map[string]*types.Type

	ctx     context
	retType *types.Type

	loopDepth   int
	forDepth    int
	switchDepth int

	Info        *Info
	Diagnostics diag.Stream
}

// NewAnalyzer creates an Analyzer with a fresh, empty global scope.
func NewAnalyzer() *Analyzer {
	g := NewScope(nil)
	return &Analyzer{
		global:  g,
		cur:     g,
		structs: make(map[string]*types.Type),
		Info:    &Info{Types: make(map[ast.Expression]*types.Type)},
	}
}

// Analyze runs all five phases over prog and returns the accumulated
// diagnostics. Analysis succeeds iff the returned stream is empty.
func Analyze(prog *ast.Program) diag.Stream {
	_, diags := AnalyzeProgram(prog)
	return diags
}

// AnalyzeProgram runs all five phases over prog, returning the resolved
// expression types alongside the diagnostics. The Info is only meaningful
// when the stream is empty.
func AnalyzeProgram(prog *ast.Program) (*Info, diag.Stream) {
	a := NewAnalyzer()
	a.structPredeclare(prog)
	a.globals(prog)
	a.funcProcPredeclare(prog)
	a.bodies(prog)
	a.main(prog)
	return a.Info, a.Diagnostics
}

func (a *Analyzer) errorf(pos diag.Pos, format string, args ...any) {
	a.Diagnostics.Add(pos, format, args...)
}

func (a *Analyzer) pushScope() { a.cur = NewScope(a.cur) }
func (a *Analyzer) popScope()  { a.cur = a.cur.parent }

// ---- Phase 1: struct pre-declaration ----

// structPredeclare registers every struct name before resolving any field
// types, so mutually-referencing struct fields resolve regardless of
// declaration order.
func (a *Analyzer) structPredeclare(prog *ast.Program) {
	for _, sd := range prog.Structs {
		if _, exists := a.structs[sd.Name]; exists {
			a.errorf(sd.Pos(), "structure dupliquée: %s", sd.Name)
			continue
		}
		a.structs[sd.Name] = types.NewStruct(sd.Name, nil)
	}
	for _, sd := range prog.Structs {
		st, ok := a.structs[sd.Name]
		if !ok {
			continue
		}
		seen := make(map[string]bool)
		var fields []types.Field
		for _, f := range sd.Fields {
			if seen[f.Name] {
				a.errorf(f.Pos(), "champ dupliqué %q dans la structure %s", f.Name, sd.Name)
				continue
			}
			seen[f.Name] = true
			ft := a.resolveType(f.Type)
			fields = append(fields, types.Field{Name: f.Name, Type: ft, Offset: len(fields)})
		}
		st.Fields = fields
	}
}

// ---- Phase 2: global declarations ----

func (a *Analyzer) globals(prog *ast.Program) {
	for _, d := range prog.Objets {
		a.declareAt(a.global, d)
	}
}

func (a *Analyzer) declareAt(scope *Scope, stmt ast.Statement) {
	switch d := stmt.(type) {
	case *ast.VarDecl:
		t := a.resolveType(d.Type)
		for _, name := range d.Names {
			if !scope.DeclareHere(&Symbol{Name: name, Kind: SymVar, Type: t}) {
				a.errorf(d.Pos(), "déclaration en double: %s", name)
			}
		}
	case *ast.ConstDecl:
		t := a.resolveType(d.Type)
		vt := a.checkExpr(d.Value)
		if vt.Kind != types.Error && !types.Assignable(t, vt) {
			a.errorf(d.Pos(), "type incompatible pour la constante %s: attendu %s, trouvé %s", d.Name, t, vt)
		}
		sym := &Symbol{Name: d.Name, Kind: SymConst, Type: t}
		if t.Kind == types.Integer {
			if v, ok := a.foldConstInt(d.Value); ok {
				sym.HasConstValue = true
				sym.ConstValue = v
			}
		}
		if !scope.DeclareHere(sym) {
			a.errorf(d.Pos(), "déclaration en double: %s", d.Name)
		}
	}
}

// ---- Phase 3: function/procedure pre-declaration ----

func (a *Analyzer) funcProcPredeclare(prog *ast.Program) {
	for _, fn := range prog.Funcs {
		a.declareFuncProc(fn.Name, fn.Params, a.resolveType(fn.ReturnType), SymFunc, fn.Pos())
	}
	for _, pr := range prog.Procs {
		a.declareFuncProc(pr.Name, pr.Params, types.VoidType, SymProc, pr.Pos())
	}
}

func (a *Analyzer) declareFuncProc(name string, params []*ast.Param, ret *types.Type, kind SymbolKind, pos diag.Pos) {
	var sig []ParamSig
	for _, p := range params {
		sig = append(sig, ParamSig{Name: p.Name, Type: a.resolveType(p.Type)})
	}
	sym := &Symbol{Name: name, Kind: kind, Type: ret, Params: sig, ReturnType: ret}
	if !a.global.DeclareHere(sym) {
		a.errorf(pos, "déclaration en double: %s", name)
	}
}

// ---- Phase 4: body checking ----

func (a *Analyzer) bodies(prog *ast.Program) {
	for _, fn := range prog.Funcs {
		a.checkFuncBody(fn)
	}
	for _, pr := range prog.Procs {
		a.checkProcBody(pr)
	}
}

func (a *Analyzer) checkFuncBody(fn *ast.FuncDef) {
	sym, _ := a.global.Lookup(fn.Name)
	a.pushScope()
	for _, p := range fn.Params {
		a.cur.DeclareHere(&Symbol{Name: p.Name, Kind: SymParam, Type: a.resolveType(p.Type)})
	}
	prevCtx, prevRet := a.ctx, a.retType
	a.ctx = ctxFunc
	if sym != nil {
		a.retType = sym.ReturnType
	} else {
		a.retType = types.ErrorType
	}
	a.checkBlock(fn.Body)
	a.ctx, a.retType = prevCtx, prevRet
	a.popScope()
}

func (a *Analyzer) checkProcBody(pr *ast.ProcDef) {
	a.pushScope()
	for _, p := range pr.Params {
		a.cur.DeclareHere(&Symbol{Name: p.Name, Kind: SymParam, Type: a.resolveType(p.Type)})
	}
	prevCtx, prevRet := a.ctx, a.retType
	a.ctx = ctxProc
	a.retType = types.VoidType
	a.checkBlock(pr.Body)
	a.ctx, a.retType = prevCtx, prevRet
	a.popScope()
}

// ---- Phase 5: main block ----

func (a *Analyzer) main(prog *ast.Program) {
	prevCtx := a.ctx
	a.ctx = ctxMain
	a.checkBlock(prog.Main)
	a.ctx = prevCtx
}

// ---- Type resolution ----

func (a *Analyzer) resolveType(t ast.TypeExpr) *types.Type {
	switch n := t.(type) {
	case nil:
		return types.ErrorType
	case *ast.PrimitiveTypeExpr:
		switch n.Name {
		case "entier":
			return types.IntegerType
		case "reel":
			return types.RealType
		case "caractere":
			return types.CharType
		case "chaine":
			return types.StringType
		case "booleen":
			return types.BoolType
		default:
			return types.ErrorType
		}
	case *ast.NamedTypeExpr:
		st, ok := a.structs[n.Name]
		if !ok {
			a.errorf(n.Pos(), "structure inconnue: %s", n.Name)
			return types.ErrorType
		}
		return st
	case *ast.ArrayTypeExpr:
		elem := a.resolveType(n.Elem)
		dims := make([]int, len(n.Dims))
		for i, d := range n.Dims {
			if d == nil {
				dims[i] = -1
				continue
			}
			v, ok := a.foldConstInt(d)
			if !ok {
				a.errorf(d.Pos(), "dimension de tableau non repliable en constante entière")
				dims[i] = -1
				continue
			}
			if v <= 0 {
				a.errorf(d.Pos(), "dimension de tableau doit être strictement positive, trouvé %d", v)
				dims[i] = -1
				continue
			}
			dims[i] = int(v)
		}
		return types.NewArray(elem, dims)
	default:
		return types.ErrorType
	}
}

// ---- Constant folding ----

// foldConstInt evaluates e at compile time if it is built entirely from
// integer literals, references to already-folded integer constants,
// unary minus, and the six arithmetic binary operators. Division by zero
// and any non-foldable sub-expression make the whole fold fail; overflow
// wraps per Go's native two's-complement int64 arithmetic.
func (a *Analyzer) foldConstInt(e ast.Expression) (int64, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Value, true
	case *ast.Identifier:
		sym, ok := a.cur.Lookup(n.Name)
		if !ok || sym.Kind != SymConst || !sym.HasConstValue {
			return 0, false
		}
		return sym.ConstValue, true
	case *ast.Unary:
		if n.Op != ast.Neg {
			return 0, false
		}
		v, ok := a.foldConstInt(n.Operand)
		return -v, ok
	case *ast.Binary:
		l, ok1 := a.foldConstInt(n.Left)
		r, ok2 := a.foldConstInt(n.Right)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch n.Op {
		case ast.Add:
			return l + r, true
		case ast.Sub:
			return l - r, true
		case ast.Mul:
			return l * r, true
		case ast.Div, ast.DivInt:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case ast.Mod:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

// ---- Expression checking ----

func numeric(t *types.Type) bool { return t.Kind != types.Error && t.IsNumeric() }

// checkExpr derives e's type, recording it in the Info map on the way out
// so emitters can look it up by node identity.
func (a *Analyzer) checkExpr(e ast.Expression) *types.Type {
	t := a.exprType(e)
	if e != nil {
		a.Info.Types[e] = t
	}
	return t
}

func (a *Analyzer) exprType(e ast.Expression) *types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return types.IntegerType
	case *ast.RealLit:
		return types.RealType
	case *ast.BoolLit:
		return types.BoolType
	case *ast.StringLit:
		return types.StringType
	case *ast.Identifier:
		sym, ok := a.cur.Lookup(n.Name)
		if !ok {
			a.errorf(n.Pos(), "identificateur non déclaré: %s", n.Name)
			return types.ErrorType
		}
		if sym.Kind == SymFunc || sym.Kind == SymProc || sym.Kind == SymStruct {
			a.errorf(n.Pos(), "%s ne peut pas être utilisé comme valeur", n.Name)
			return types.ErrorType
		}
		return sym.Type
	case *ast.Unary:
		return a.checkUnary(n)
	case *ast.Binary:
		return a.checkBinary(n)
	case *ast.Index:
		return a.checkIndex(n)
	case *ast.FieldAccess:
		return a.checkFieldAccess(n)
	case *ast.Call:
		return a.checkCall(n)
	default:
		return types.ErrorType
	}
}

func (a *Analyzer) checkUnary(n *ast.Unary) *types.Type {
	t := a.checkExpr(n.Operand)
	if t.Kind == types.Error {
		return types.ErrorType
	}
	switch n.Op {
	case ast.Not:
		if t.Kind != types.Boolean {
			a.errorf(n.Pos(), "opérande de Non doit être booléen, trouvé %s", t)
		}
		return types.BoolType
	case ast.Neg:
		if !t.IsNumeric() {
			a.errorf(n.Pos(), "opérande de - unaire doit être numérique, trouvé %s", t)
			return types.ErrorType
		}
		return t
	default:
		return types.ErrorType
	}
}

func (a *Analyzer) checkBinary(n *ast.Binary) *types.Type {
	l := a.checkExpr(n.Left)
	r := a.checkExpr(n.Right)
	bothOK := l.Kind != types.Error && r.Kind != types.Error

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Pow:
		if bothOK && (!numeric(l) || !numeric(r)) {
			a.errorf(n.Pos(), "opérandes arithmétiques doivent être numériques, trouvé %s et %s", l, r)
		}
		if !bothOK {
			return types.ErrorType
		}
		if l.Kind == types.Real || r.Kind == types.Real {
			return types.RealType
		}
		return types.IntegerType
	case ast.DivInt, ast.Mod:
		tolerant := func(t *types.Type) bool { return numeric(t) || t.Kind == types.Boolean }
		if bothOK && (!tolerant(l) || !tolerant(r)) {
			a.errorf(n.Pos(), "opérandes de Div/Mod doivent être de type entier (ou assimilé), trouvé %s et %s", l, r)
		}
		if !bothOK {
			return types.ErrorType
		}
		if l.Kind == types.Real || r.Kind == types.Real {
			return types.RealType
		}
		return types.IntegerType
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if bothOK && (!numeric(l) || !numeric(r)) {
			a.errorf(n.Pos(), "opérandes de comparaison doivent être numériques, trouvé %s et %s", l, r)
		}
		return types.BoolType
	case ast.Eq, ast.Ne:
		if bothOK && !(numeric(l) && numeric(r)) && !types.Equal(l, r) {
			a.errorf(n.Pos(), "types incompatibles pour =/<>  : %s et %s", l, r)
		}
		return types.BoolType
	case ast.And, ast.Or:
		if bothOK && (l.Kind != types.Boolean || r.Kind != types.Boolean) {
			a.errorf(n.Pos(), "opérandes de Et/Ou doivent être booléens, trouvé %s et %s", l, r)
		}
		return types.BoolType
	default:
		return types.ErrorType
	}
}

func (a *Analyzer) checkIndex(n *ast.Index) *types.Type {
	base := a.checkExpr(n.Array)
	idx := a.checkExpr(n.Index)
	if base.Kind == types.Error {
		return types.ErrorType
	}
	if base.Kind != types.Array {
		a.errorf(n.Pos(), "indexation d'une valeur non-tableau: %s", base)
		return types.ErrorType
	}
	if idx.Kind != types.Error && !idx.IsIntegerish() {
		a.errorf(n.Pos(), "index de tableau doit être de type entier (ou assimilé), trouvé %s", idx)
	}
	if len(base.Dims) <= 1 {
		return base.Elem
	}
	return &types.Type{Kind: types.Array, Elem: base.Elem, Dims: base.Dims[1:]}
}

func (a *Analyzer) checkFieldAccess(n *ast.FieldAccess) *types.Type {
	base := a.checkExpr(n.Target)
	if base.Kind == types.Error {
		return types.ErrorType
	}
	if base.Kind != types.Struct {
		a.errorf(n.Pos(), "accès à un champ sur une valeur non-structure: %s", base)
		return types.ErrorType
	}
	for _, f := range base.Fields {
		if f.Name == n.Field {
			return f.Type
		}
	}
	a.errorf(n.Pos(), "champ inconnu %q dans la structure %s", n.Field, base.Name)
	return types.ErrorType
}

func (a *Analyzer) checkCall(n *ast.Call) *types.Type {
	sym, ok := a.cur.Lookup(n.Callee)
	if !ok {
		a.errorf(n.Pos(), "fonction ou procédure non déclarée: %s", n.Callee)
		for _, arg := range n.Args {
			a.checkExpr(arg)
		}
		return types.ErrorType
	}
	if sym.Kind != SymFunc && sym.Kind != SymProc {
		a.errorf(n.Pos(), "%s n'est pas une fonction ni une procédure", n.Callee)
		for _, arg := range n.Args {
			a.checkExpr(arg)
		}
		return types.ErrorType
	}
	if len(n.Args) != len(sym.Params) {
		a.errorf(n.Pos(), "nombre d'arguments invalide pour %s: attendu %d, trouvé %d", n.Callee, len(sym.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		at := a.checkExpr(arg)
		if i < len(sym.Params) {
			pt := sym.Params[i].Type
			if at.Kind != types.Error && !types.Assignable(pt, at) {
				a.errorf(arg.Pos(), "argument %d de %s: attendu %s, trouvé %s", i+1, n.Callee, pt, at)
			}
		}
	}
	if sym.Kind == SymProc {
		return types.VoidType
	}
	return sym.ReturnType
}

// ---- Statement checking ----

func (a *Analyzer) checkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	a.pushScope()
	for _, s := range b.Stmts {
		a.checkStmt(s)
	}
	a.popScope()
}

func (a *Analyzer) checkBoolCond(e ast.Expression) {
	t := a.checkExpr(e)
	if t.Kind != types.Error && t.Kind != types.Boolean {
		a.errorf(e.Pos(), "condition doit être booléenne, trouvé %s", t)
	}
}

func (a *Analyzer) checkIntegerish(e ast.Expression) {
	t := a.checkExpr(e)
	if t.Kind != types.Error && !t.IsIntegerish() {
		a.errorf(e.Pos(), "expression doit être de type entier (ou assimilé), trouvé %s", t)
	}
}

func (a *Analyzer) checkStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.VarDecl, *ast.ConstDecl:
		a.declareAt(a.cur, n)
	case *ast.Assign:
		a.checkAssign(n)
	case *ast.If:
		a.checkIf(n)
	case *ast.While:
		a.checkBoolCond(n.Cond)
		a.loopDepth++
		a.checkBlock(n.Body)
		a.loopDepth--
	case *ast.For:
		a.checkFor(n)
	case *ast.Repeat:
		a.loopDepth++
		a.checkBlock(n.Body)
		a.loopDepth--
		a.checkBoolCond(n.Cond)
	case *ast.CallStmt:
		a.checkExpr(n.Call)
	case *ast.Return:
		a.checkReturn(n)
	case *ast.Write:
		for _, arg := range n.Args {
			a.checkExpr(arg)
		}
	case *ast.Read:
		a.checkRead(n)
	case *ast.Break:
		if a.loopDepth == 0 && a.switchDepth == 0 {
			a.errorf(n.Pos(), "Sortir en dehors d'une boucle ou d'un Selon")
		}
	case *ast.QuitFor:
		if a.forDepth == 0 {
			a.errorf(n.Pos(), "Quitter Pour en dehors d'une boucle Pour")
		}
	case *ast.Switch:
		a.checkSwitch(n)
	}
}

func (a *Analyzer) checkAssign(n *ast.Assign) {
	switch n.Target.(type) {
	case *ast.Identifier, *ast.Index, *ast.FieldAccess:
	default:
		a.errorf(n.Pos(), "cible d'affectation invalide: %T", n.Target)
	}
	if ident, ok := n.Target.(*ast.Identifier); ok {
		if sym, found := a.cur.Lookup(ident.Name); found && sym.Kind == SymConst {
			a.errorf(n.Pos(), "impossible d'écrire dans la constante %s", ident.Name)
		}
	}
	tType := a.checkExpr(n.Target)
	vType := a.checkExpr(n.Value)
	if tType.Kind != types.Error && vType.Kind != types.Error && !types.Assignable(tType, vType) {
		a.errorf(n.Pos(), "affectation invalide: %s <- %s", tType, vType)
	}
}

func (a *Analyzer) checkIf(n *ast.If) {
	a.checkBoolCond(n.Cond)
	a.checkBlock(n.Then)
	for _, ei := range n.ElseIfs {
		a.checkBoolCond(ei.Cond)
		a.checkBlock(ei.Then)
	}
	if n.Else != nil {
		a.checkBlock(n.Else)
	}
}

func (a *Analyzer) checkFor(n *ast.For) {
	sym, ok := a.cur.Lookup(n.Var)
	switch {
	case !ok:
		a.errorf(n.Pos(), "variable de boucle non déclarée: %s", n.Var)
	case sym.Kind == SymConst:
		a.errorf(n.Pos(), "variable de boucle %s ne peut pas être une constante", n.Var)
	case !sym.Type.IsIntegerish():
		a.errorf(n.Pos(), "variable de boucle %s doit être de type entier (ou assimilé)", n.Var)
	}
	a.checkIntegerish(n.From)
	a.checkIntegerish(n.To)
	if n.Step != nil {
		a.checkIntegerish(n.Step)
	}
	a.forDepth++
	a.loopDepth++
	a.checkBlock(n.Body)
	a.forDepth--
	a.loopDepth--
}

func (a *Analyzer) checkReturn(n *ast.Return) {
	switch a.ctx {
	case ctxFunc:
		if n.Value == nil {
			a.errorf(n.Pos(), "une fonction doit retourner une valeur")
			return
		}
		vt := a.checkExpr(n.Value)
		if vt.Kind != types.Error && !types.Assignable(a.retType, vt) {
			a.errorf(n.Pos(), "type de retour invalide: attendu %s, trouvé %s", a.retType, vt)
		}
	case ctxProc:
		if n.Value != nil {
			a.errorf(n.Pos(), "une procédure ne peut pas retourner de valeur")
			a.checkExpr(n.Value)
		}
	default:
		a.errorf(n.Pos(), "Retour en dehors d'une fonction ou d'une procédure")
		if n.Value != nil {
			a.checkExpr(n.Value)
		}
	}
}

func (a *Analyzer) checkRead(n *ast.Read) {
	for _, tgt := range n.Targets {
		switch t := tgt.(type) {
		case *ast.Identifier:
			if sym, found := a.cur.Lookup(t.Name); found && sym.Kind == SymConst {
				a.errorf(tgt.Pos(), "lecture impossible dans la constante %s", t.Name)
			}
		case *ast.Index, *ast.FieldAccess:
		default:
			a.errorf(tgt.Pos(), "cible de lecture invalide")
		}
		a.checkExpr(tgt)
	}
}

func (a *Analyzer) checkSwitch(n *ast.Switch) {
	st := a.checkExpr(n.Subject)
	if st.Kind != types.Error && !st.IsIntegerish() {
		a.errorf(n.Pos(), "le sélecteur de Selon doit être de type entier (ou assimilé), trouvé %s", st)
	}
	a.switchDepth++
	seen := make(map[int64]bool)
	for _, c := range n.Cases {
		for _, lbl := range c.Labels {
			v, ok := a.foldConstInt(lbl)
			if !ok {
				a.errorf(lbl.Pos(), "étiquette de Cas non repliable en constante entière")
				continue
			}
			if seen[v] {
				a.errorf(lbl.Pos(), "étiquette de Cas dupliquée: %d", v)
			}
			seen[v] = true
		}
		a.checkBlock(c.Body)
	}
	if n.Default != nil {
		a.checkBlock(n.Default)
	}
	a.switchDepth--
}
