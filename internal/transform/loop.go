package transform

import (
	"strings"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/scope"
	"buble/internal/target"
)

const labeledJumpMessage = "Labels are not currently supported in a loop with locally-scoped variables"

// initForHead gives for, for-in and for-of statements a scope for the
// bindings declared in their head.
func (p *program) initForHead(id ast.NodeID) {
	ls := p.loopOf(id)
	ls.scope = scope.New(scope.Options{
		Parent: p.findScope(p.parent(id), false),
		Block:  true,
		Tree:   p.tree,
		Declare: func(name string) {
			ls.createdDeclarations = append(ls.createdDeclarations, name)
		},
	})
	p.initLoop(id)
}

func (p *program) initForOf(id ast.NodeID) {
	if p.t.Has(target.ForOf) && !p.t.Has(target.DangerousForOf) {
		p.missingTransform(id, "for-of statements", target.ForOf, target.DangerousForOf)
	}
	if ast.As[*ast.ForIn](p.tree, id).Await && p.t.Has(target.AsyncAwait) {
		p.missingTransform(id, "for-await-of statements", target.AsyncAwait)
	}
	p.initForHead(id)
}

func (p *program) initLoop(id ast.NodeID) {
	ls := p.loopOf(id)
	body := p.loopBody(id)
	p.createBlockScope(body)
	ls.createdScope = true

	p.initialiseChildren(id)
	if ls.scope != nil {
		ls.scope.Consolidate()
	}

	if !p.t.Has(target.LetConst) {
		return
	}

	// a binding captured by a closure inside the body needs a fresh copy
	// per iteration, so the body becomes a function
	decls := p.blockOf(body).scope.Declarations()
	if ls.scope != nil {
		decls = append(decls, ls.scope.Declarations()...)
	}
	loopDepth := p.depth(id)
	for _, decl := range decls {
		for _, instance := range decl.Instances {
			fn := p.nearestFunction(instance)
			if fn.IsValid() && p.depth(fn) > loopDepth {
				ls.shouldRewriteAsFunction = true
				break
			}
		}
		if ls.shouldRewriteAsFunction {
			break
		}
	}

	if ls.shouldRewriteAsFunction {
		for _, ref := range ls.thisRefs {
			if p.meta[ref].alias == "" {
				p.meta[ref].alias = p.thisAliasOf(p.findLexicalBoundary(ref))
			}
		}
	}
}

func (p *program) transpileLoop(id ast.NodeID) {
	ls := p.loopOf(id)
	body := p.loopBody(id)
	needsBlock := p.kind(id) != ast.ForOfStatement && p.synthetic(body)

	switch {
	case ls.shouldRewriteAsFunction:
		p.rewriteLoopAsFunction(id, ls, body)
	case needsBlock:
		p.code.AppendLeft(p.start(body), "{ ")
		p.code.PrependRight(p.end(body), " }")
	}

	p.transpileChildren(id)
}

// rewriteLoopAsFunction moves the loop body into `var loop = function () {}`
// declared before the loop and calls it once per iteration.
func (p *program) rewriteLoopAsFunction(id ast.NodeID, ls *loopState, body ast.NodeID) {
	indentStr := p.code.IndentString()
	i0 := p.indentation(id)
	i1 := i0 + indentStr

	argString, paramString := "", ""
	if ls.args != nil {
		argString = " " + strings.Join(ls.args, ", ") + " "
	}
	if ls.params != nil {
		paramString = " " + strings.Join(ls.params, ", ") + " "
	}

	functionScope := p.findScope(id, true)
	loop := functionScope.CreateIdentifier("loop")

	before := "var " + loop + " = function (" + paramString + ") "
	after := ";\n\n" + i0
	if p.synthetic(body) {
		before += "{\n" + i0 + indentStr
		after = "\n" + i0 + "}" + after
	}

	p.code.PrependRight(p.start(body), before)
	p.code.AppendLeft(p.end(body), after)
	p.code.Move(p.start(id), p.start(body), p.end(body))

	if ls.canBreak || ls.canReturn {
		returned := functionScope.CreateIdentifier("returned")

		insert := "{\n" + i1 + "var " + returned + " = " + loop + "(" + argString + ");\n"
		if ls.canBreak {
			insert += "\n" + i1 + "if ( " + returned + " === 'break' ) break;"
		}
		if ls.canReturn {
			insert += "\n" + i1 + "if ( " + returned + " ) return " + returned + ".v;"
		}
		insert += "\n" + i0 + "}"

		p.code.PrependRight(p.end(body), insert)
		return
	}

	call := loop + "(" + argString + ");"
	if p.kind(id) == ast.DoWhileStatement {
		p.code.Overwrite(p.start(id), p.start(body), "do {\n"+i1+call+"\n"+i0+"}")
	} else {
		p.code.PrependRight(p.end(body), call)
	}
}

// headNames lists, per declarator, the source text of the bound names.
func (p *program) headNames(decl ast.NodeID) []string {
	vd := ast.As[*ast.VarDecl](p.tree, decl)
	if vd == nil {
		return []string{}
	}
	names := make([]string, 0, len(vd.Declarations))
	for _, d := range vd.Declarations {
		var parts []string
		for _, ident := range scope.ExtractNames(p.tree, ast.As[*ast.Declarator](p.tree, d).ID) {
			parts = append(parts, p.text(ident))
		}
		names = append(names, strings.Join(parts, ","))
	}
	return names
}

func (p *program) setLoopArgs(ls *loopState, names []string) {
	ls.args = make([]string, len(names))
	ls.params = make([]string, len(names))
	for i, name := range names {
		ls.args[i], ls.params[i] = name, name
		if alias, ok := ls.aliases[name]; ok {
			ls.args[i], ls.params[i] = alias.outer, alias.inner
		}
	}
}

func (p *program) transpileFor(id ast.NodeID) {
	ls := p.loopOf(id)
	f := ast.As[*ast.For](p.tree, id)
	i1 := p.indentation(id) + p.code.IndentString()

	if ls.shouldRewriteAsFunction {
		var names []string
		if f.Init.IsValid() && p.kind(f.Init) == ast.VariableDeclaration {
			names = p.headNames(f.Init)
		} else {
			names = []string{}
		}
		p.setLoopArgs(ls, names)

		var updates []string
		for _, name := range ls.reassignOrder {
			alias, ok := ls.aliases[name]
			if !ok {
				continue
			}
			updates = append(updates, alias.outer+" = "+alias.inner+";")
		}

		if len(updates) > 0 {
			stmts := p.statements(f.Body)
			if p.synthetic(f.Body) {
				p.code.AppendLeft(p.end(stmts[0]), "; "+strings.Join(updates, " "))
			} else if len(stmts) > 0 {
				last := stmts[len(stmts)-1]
				p.code.AppendLeft(p.end(last), "\n\n"+i1+strings.Join(updates, "\n"+i1))
			}
		}
	}

	p.transpileLoop(id)
}

func (p *program) forInPattern(left ast.NodeID) (ast.NodeID, bool) {
	if vd := ast.As[*ast.VarDecl](p.tree, left); vd != nil && p.kind(left) == ast.VariableDeclaration {
		return ast.As[*ast.Declarator](p.tree, vd.Declarations[0]).ID, true
	}
	return left, false
}

func (p *program) transpileForIn(id ast.NodeID) {
	ls := p.loopOf(id)
	f := ast.As[*ast.ForIn](p.tree, id)
	hasDeclaration := p.kind(f.Left) == ast.VariableDeclaration

	if ls.shouldRewriteAsFunction {
		names := []string{}
		if hasDeclaration {
			names = p.headNames(f.Left)
		}
		p.setLoopArgs(ls, names)
	}

	p.transpileLoop(id)

	pattern, _ := p.forInPattern(f.Left)
	if p.kind(pattern).IsDestructuring() && p.t.Has(target.Destructuring) {
		p.destructureForIn(id, f, pattern, hasDeclaration)
	}
}

func (p *program) destructureForIn(id ast.NodeID, f *ast.ForIn, pattern ast.NodeID, isDeclaration bool) {
	sc := p.findScope(id, true)
	i1 := p.indentation(id) + p.code.IndentString()

	ref := sc.CreateIdentifier("ref")

	bodyStart := p.start(f.Body) + 1
	if stmts := p.statements(f.Body); len(stmts) > 0 {
		bodyStart = p.start(stmts[0])
	}

	p.code.Move(p.start(pattern), p.end(pattern), bodyStart)
	if isDeclaration {
		p.code.PrependRight(p.end(pattern), ref)
	} else {
		p.code.PrependRight(p.end(pattern), "var "+ref)
	}

	d := destructurer{
		p:                p,
		createIdentifier: sc.CreateIdentifier,
		resolveName: func(ident ast.NodeID) string {
			return sc.ResolveName(p.name(ident))
		},
	}
	gens := d.destructure(pattern, ref, false, nil)
	emitStatements(gens, bodyStart, ";\n"+i1, ";\n\n"+i1)
}

// emitStatements runs gens in order, giving the last one lastSuffix.
func emitStatements(gens []introGen, start uint32, suffix, lastSuffix string) {
	for i, gen := range gens {
		if i == len(gens)-1 {
			suffix = lastSuffix
		}
		gen(start, "", suffix)
	}
}

func (p *program) transpileForOf(id ast.NodeID) {
	p.transpileLoop(id)
	if !p.t.Has(target.DangerousForOf) {
		return
	}

	f := ast.As[*ast.ForIn](p.tree, id)
	stmts := p.statements(f.Body)

	if len(stmts) == 0 {
		vd := ast.As[*ast.VarDecl](p.tree, f.Left)
		if p.kind(f.Left) == ast.VariableDeclaration && vd.Kind == "var" {
			p.code.Remove(p.start(id), p.start(f.Left))
			p.code.AppendLeft(p.end(f.Left), ";")
			p.code.Remove(p.end(f.Left), p.end(id))
		} else {
			p.code.Remove(p.start(id), p.end(id))
		}
		return
	}

	sc := p.findScope(id, true)
	i0 := p.indentation(id)
	i1 := i0 + p.code.IndentString()

	key := sc.CreateIdentifier("i")
	list := sc.CreateIdentifier("list")

	if p.synthetic(f.Body) {
		p.code.PrependRight(p.start(f.Left), "{\n"+i1)
		p.code.AppendLeft(p.end(stmts[0]), "\n"+i0+"}")
	}

	bodyStart := p.start(stmts[0])

	p.code.Remove(p.end(f.Left), p.start(f.Right))
	p.code.Move(p.start(f.Left), p.end(f.Left), bodyStart)

	p.code.PrependRight(p.start(f.Right), "var "+key+" = 0, "+list+" = ")
	p.code.AppendLeft(p.end(f.Right), "; "+key+" < "+list+".length; "+key+" += 1")

	pattern, isDeclaration := p.forInPattern(f.Left)
	if p.kind(pattern) == ast.Identifier {
		p.code.AppendLeft(p.end(f.Left), " = "+list+"["+key+"];\n\n"+i1)
		return
	}

	ref := sc.CreateIdentifier("ref")
	d := destructurer{
		p:                p,
		createIdentifier: sc.CreateIdentifier,
		resolveName: func(ident ast.NodeID) string {
			return sc.ResolveName(p.name(ident))
		},
	}
	gens := d.destructure(pattern, ref, !isDeclaration, nil)
	emitStatements(gens, bodyStart, ";\n"+i1, ";\n\n"+i1)

	if isDeclaration {
		kw := ast.As[*ast.VarDecl](p.tree, f.Left).Kind
		p.code.AppendLeft(p.start(f.Left)+uint32(len(kw))+1, ref)
		p.code.AppendLeft(p.end(f.Left), " = "+list+"["+key+"];\n"+i1)
	} else {
		p.code.AppendLeft(p.end(f.Left), "var "+ref+" = "+list+"["+key+"];\n"+i1)
	}
}

func (p *program) initBreak(id ast.NodeID) {
	loop := p.nearestLoop(id)
	switchCase := p.tree.FindNearest(id, ast.SwitchCase)
	if loop.IsValid() && (!switchCase.IsValid() || p.depth(loop) > p.depth(switchCase)) {
		p.loopOf(loop).canBreak = true
		p.meta[id].jumpLoop = loop
	}
}

func (p *program) transpileBreak(id ast.NodeID) {
	loop := p.meta[id].jumpLoop
	if !loop.IsValid() || !p.loopOf(loop).shouldRewriteAsFunction {
		return
	}
	if ast.As[*ast.Jump](p.tree, id).Label.IsValid() {
		p.fail(id, diag.UnsLabeledLoopJump, labeledJumpMessage)
	}
	p.code.Overwrite(p.start(id), p.start(id)+uint32(len("break")), "return 'break'")
}

func (p *program) transpileContinue(id ast.NodeID) {
	loop := p.nearestLoop(id)
	if !loop.IsValid() || !p.loopOf(loop).shouldRewriteAsFunction {
		return
	}
	if ast.As[*ast.Jump](p.tree, id).Label.IsValid() {
		p.fail(id, diag.UnsLabeledLoopJump, labeledJumpMessage)
	}
	p.code.Overwrite(p.start(id), p.start(id)+uint32(len("continue")), "return")
}

func (p *program) initReturn(id ast.NodeID) {
	loop := p.nearestLoop(id)
	fn := p.nearestFunction(id)
	if loop.IsValid() && (!fn.IsValid() || p.depth(loop) > p.depth(fn)) {
		p.loopOf(loop).canReturn = true
		p.meta[id].jumpLoop = loop
		p.meta[id].shouldWrap = true
	}
	p.initialise(ast.As[*ast.Argument](p.tree, id).Argument)
}

func (p *program) transpileReturn(id ast.NodeID) {
	st := &p.meta[id]
	shouldWrap := st.shouldWrap && st.jumpLoop.IsValid() && p.loopOf(st.jumpLoop).shouldRewriteAsFunction

	arg := ast.As[*ast.Argument](p.tree, id).Argument
	if arg.IsValid() {
		if shouldWrap {
			p.code.PrependRight(p.start(arg), "{ v: ")
		}
		p.transpile(arg)
		if shouldWrap {
			p.code.AppendLeft(p.end(arg), " }")
		}
	} else if shouldWrap {
		p.code.AppendLeft(p.start(id)+uint32(len("return")), " {}")
	}
}
