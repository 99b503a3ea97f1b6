package transform

import (
	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/scope"
	"buble/internal/target"
)

func (p *program) checkConst(ident ast.NodeID, sc *scope.Scope) {
	name := p.name(ident)
	if decl := sc.FindDeclaration(name); decl != nil && decl.Kind == scope.KindConst {
		p.fail(ident, diag.SemConstReassign, name+" is read-only")
	}
}

// markLoopReassigned records a write to a `for (let ...)` binding from
// inside the loop body, so a rewritten loop copies it back after each call.
func (p *program) markLoopReassigned(id, ident ast.NodeID) {
	name := p.name(ident)
	decl := p.findScope(id, false).FindDeclaration(name)
	if decl == nil {
		return
	}
	stmt := p.tree.Ancestor(decl.Node, 3)
	if !stmt.IsValid() || p.kind(stmt) != ast.ForStatement {
		return
	}
	if p.tree.Contains(p.loopBody(stmt), id) {
		p.loopOf(stmt).markReassigned(name)
	}
}

func (p *program) initAssignment(id ast.NodeID) {
	left := ast.As[*ast.Binary](p.tree, id).Left
	if p.kind(left) == ast.Identifier {
		p.markLoopReassigned(id, left)
	}
	p.initialiseChildren(id)
}

func (p *program) transpileAssignment(id ast.NodeID) {
	b := ast.As[*ast.Binary](p.tree, id)
	if p.kind(b.Left) == ast.Identifier {
		// shadowing declarations after this expression are known by now
		p.checkConst(b.Left, p.findScope(id, false))
	}

	switch {
	case b.Operator == "**=" && p.t.Has(target.Exponentiation):
		p.exponentiationAssignment(id, b)
	case p.kind(b.Left).IsDestructuring() && p.t.Has(target.Destructuring):
		p.destructuringAssignment(id, b)
	}

	p.transpileChildren(id)
}

func (p *program) destructuringAssignment(id ast.NodeID, b *ast.Binary) {
	writeScope := p.findScope(id, true)
	lookupScope := p.findScope(id, false)
	assign := writeScope.CreateDeclaration("assign")
	p.code.AppendRight(p.end(b.Left), "("+assign)
	p.code.AppendLeft(p.end(b.Right), ", ")

	d := destructurer{
		p:                p,
		createIdentifier: writeScope.CreateDeclaration,
		resolveName: func(ident ast.NodeID) string {
			name := lookupScope.ResolveName(p.name(ident))
			p.checkConst(ident, lookupScope)
			return name
		},
	}
	gens := d.destructure(b.Left, assign, true, nil)
	emitStatements(gens, p.end(id), ", ", "")

	if p.kind(p.tree.UnparenthesizedParent(id)) == ast.ExpressionStatement {
		p.code.PrependRight(p.end(id), ")")
	} else {
		p.code.AppendRight(p.end(id), ", "+assign+")")
	}
}

// exponentiationAssignment lowers `a **= b` to `a = Math.pow( a, b )`,
// caching the object and the computed key of a member target when they
// are not plain identifiers.
func (p *program) exponentiationAssignment(id ast.NodeID, b *ast.Binary) {
	sc := p.findScope(id, false)

	c := p.end(b.Left)
	for p.src[c] != '*' {
		c++
	}
	p.code.Remove(c, c+2)

	var base string
	left := p.tree.Unparenthesize(b.Left)

	switch p.kind(left) {
	case ast.Identifier:
		base = sc.ResolveName(p.name(left))

	case ast.MemberExpression:
		m := ast.As[*ast.Member](p.tree, left)
		statement := p.nearestStatement(id)
		i0 := p.indentation(statement)

		var object, property string
		needsObjectVar, needsPropertyVar := false, false

		if p.kind(m.Property) == ast.Identifier {
			property = p.name(m.Property)
			if m.Computed {
				property = sc.ResolveName(property)
			}
		} else {
			property = sc.CreateDeclaration("property")
			needsPropertyVar = true
		}

		if p.kind(m.Object) == ast.Identifier {
			object = sc.ResolveName(p.name(m.Object))
		} else {
			object = sc.CreateDeclaration("object")
			needsObjectVar = true
		}

		objEnd := p.end(m.Object)
		propStart, propEnd := p.start(m.Property), p.end(m.Property)

		if p.start(left) == p.start(statement) {
			switch {
			case needsObjectVar && needsPropertyVar:
				p.code.PrependRight(p.start(statement), object+" = ")
				p.code.Overwrite(objEnd, propStart, ";\n"+i0+property+" = ")
				p.code.Overwrite(propEnd, p.end(left), ";\n"+i0+object+"["+property+"]")
			case needsObjectVar:
				p.code.PrependRight(p.start(statement), object+" = ")
				p.code.AppendLeft(objEnd, ";\n"+i0)
				p.code.AppendLeft(objEnd, object)
			case needsPropertyVar:
				p.code.PrependRight(propStart, property+" = ")
				p.code.AppendLeft(propEnd, ";\n"+i0)
				p.code.Move(propStart, propEnd, p.start(id))

				p.code.AppendLeft(objEnd, "["+property+"]")
				p.code.Remove(objEnd, propStart)
				p.code.Remove(propEnd, p.end(left))
			}
		} else {
			switch {
			case needsObjectVar && needsPropertyVar:
				p.code.PrependRight(p.start(left), "( "+object+" = ")
				p.code.Overwrite(objEnd, propStart, ", "+property+" = ")
				p.code.Overwrite(propEnd, p.end(left), ", "+object+"["+property+"]")
			case needsObjectVar:
				p.code.PrependRight(p.start(left), "( "+object+" = ")
				p.code.AppendLeft(objEnd, ", "+object)
			case needsPropertyVar:
				p.code.PrependRight(propStart, "( "+property+" = ")
				p.code.AppendLeft(propEnd, ", ")
				p.code.Move(propStart, propEnd, p.start(left))

				p.code.Overwrite(objEnd, propStart, "["+property+"]")
				p.code.Remove(propEnd, p.end(left))
			}

			if needsPropertyVar {
				p.code.AppendLeft(p.end(id), " )")
			}
		}

		if m.Computed || needsPropertyVar {
			base = object + "[" + property + "]"
		} else {
			base = object + "." + property
		}
	}

	p.code.PrependRight(p.start(b.Right), "Math.pow( "+base+", ")
	p.code.AppendLeft(p.end(b.Right), " )")
}

func (p *program) transpileBinary(id ast.NodeID) {
	b := ast.As[*ast.Binary](p.tree, id)
	if b.Operator == "**" && p.t.Has(target.Exponentiation) {
		p.code.PrependRight(p.start(id), "Math.pow( ")
		p.code.Overwrite(p.end(b.Left), p.start(b.Right), ", ")
		p.code.AppendLeft(p.end(id), " )")
	}
	p.transpileChildren(id)
}

func (p *program) initUpdate(id ast.NodeID) {
	arg := ast.As[*ast.Unary](p.tree, id).Argument
	if p.kind(arg) == ast.Identifier {
		p.markLoopReassigned(id, arg)
	}
	p.initialiseChildren(id)
}

func (p *program) transpileUpdate(id ast.NodeID) {
	arg := ast.As[*ast.Unary](p.tree, id).Argument
	if p.kind(arg) == ast.Identifier {
		p.checkConst(arg, p.findScope(id, false))
	}
	p.transpileChildren(id)
}

func (p *program) initAwait(id ast.NodeID) {
	if p.t.Has(target.AsyncAwait) {
		p.missingTransform(id, "await", target.AsyncAwait)
	}
	p.initialiseChildren(id)
}
