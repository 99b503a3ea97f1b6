package transform

import (
	"buble/internal/ast"
	"buble/internal/scope"
	"buble/internal/target"
)

func (p *program) initVariableDeclaration(id ast.NodeID) {
	vd := ast.As[*ast.VarDecl](p.tree, id)
	p.meta[id].declScope = p.findScope(id, vd.Kind == "var")
	p.initialiseAll(vd.Declarations)
}

func (p *program) initVariableDeclarator(id ast.NodeID) {
	decl := p.parent(id)
	kind := scope.KindFromVar(ast.As[*ast.VarDecl](p.tree, decl).Kind)
	if kind == scope.KindLet && p.kind(p.parent(decl)) == ast.ForStatement {
		kind = scope.KindForLet
	}

	p.meta[decl].declScope.AddDeclaration(ast.As[*ast.Declarator](p.tree, id).ID, kind)
	p.initialiseChildren(id)
}

func (p *program) transpileVariableDeclaration(id ast.NodeID) {
	vd := ast.As[*ast.VarDecl](p.tree, id)
	i0 := p.indentation(id)
	parent := p.parent(id)

	if p.t.Has(target.LetConst) && vd.Kind != "var" {
		p.code.OverwriteWith(p.start(id), p.start(id)+uint32(len(vd.Kind)), "var", storeNameContentOnly)
	}

	pk := p.kind(parent)
	if !p.t.Has(target.Destructuring) || pk == ast.ForOfStatement || pk == ast.ForInStatement {
		p.transpileAll(vd.Declarations)
		return
	}

	c := p.start(id)
	lastIsPattern := false
	last := len(vd.Declarations) - 1

	for i, declarator := range vd.Declarations {
		p.transpile(declarator)
		d := ast.As[*ast.Declarator](p.tree, declarator)

		if p.kind(d.ID) == ast.Identifier {
			prev := ast.NoNodeID
			if i > 0 {
				prev = ast.As[*ast.Declarator](p.tree, vd.Declarations[i-1]).ID
			}
			if prev.IsValid() && p.kind(prev) != ast.Identifier {
				p.code.Overwrite(c, p.start(d.ID), "var ")
			}
		} else {
			p.destructureDeclarator(declarator, d, i, i == last, c, i0, pk.IsLoop())
		}

		c = p.end(declarator)
		lastIsPattern = p.kind(d.ID) != ast.Identifier
	}

	if lastIsPattern && p.end(id) > c {
		p.code.OverwriteWith(c, p.end(id), "", overwriteContentOnly)
	}
}

// destructureDeclarator lowers `pattern = init` inside a declaration list.
// A plain identifier init is read directly, anything else goes through a
// `ref` variable first.
func (p *program) destructureDeclarator(declarator ast.NodeID, d *ast.Declarator, i int, isLast bool, c uint32, i0 string, inline bool) {
	if !d.Init.IsValid() {
		p.unexpected(declarator)
	}

	if i == 0 {
		p.code.Remove(c, p.start(d.ID))
	} else {
		p.code.Overwrite(c, p.start(d.ID), ";\n"+i0)
	}

	simple := p.kind(d.Init) == ast.Identifier && !p.meta[d.Init].rewritten
	var name string
	switch {
	case simple && p.meta[d.Init].alias != "":
		name = p.meta[d.Init].alias
	case simple:
		name = p.name(d.Init)
	default:
		name = p.findScope(declarator, true).CreateIdentifier("ref")
	}

	var gens []introGen
	if simple {
		p.code.Remove(p.end(d.ID), p.end(declarator))
	} else {
		gens = append(gens, func(start uint32, prefix, suffix string) {
			p.code.PrependRight(p.end(d.ID), "var "+name)
			p.code.AppendLeft(p.end(d.Init), suffix)
			p.code.Move(p.end(d.ID), p.end(declarator), start)
		})
	}

	sc := p.findScope(declarator, false)
	ds := destructurer{
		p:                p,
		createIdentifier: sc.CreateIdentifier,
		resolveName: func(ident ast.NodeID) string {
			return sc.ResolveName(p.name(ident))
		},
	}
	gens = ds.destructure(d.ID, name, inline, gens)

	prefix, suffix := "", ";\n"+i0
	if inline {
		prefix, suffix = "var ", ", "
	}
	for j, gen := range gens {
		if isLast && j == len(gens)-1 {
			suffix = ";"
			if inline {
				suffix = ""
			}
		}
		if j == 0 {
			gen(p.start(declarator), prefix, suffix)
		} else {
			gen(p.start(declarator), "", suffix)
		}
	}
}

func (p *program) transpileVariableDeclarator(id ast.NodeID) {
	d := ast.As[*ast.Declarator](p.tree, id)
	decl := p.parent(id)

	if !d.Init.IsValid() && p.t.Has(target.LetConst) && ast.As[*ast.VarDecl](p.tree, decl).Kind != "var" {
		inLoop := p.nearest(id, func(k ast.Kind) bool { return k.IsFunction() || k.IsLoop() })
		if inLoop.IsValid() && p.kind(inLoop).IsLoop() && !p.isLeftDeclaratorOfLoop(id) {
			p.code.AppendLeft(p.end(d.ID), " = (void 0)")
		}
	}

	p.transpile(d.ID)
	p.transpile(d.Init)
}

// isLeftDeclaratorOfLoop reports whether id is the binding of a for-in or
// for-of head, which the loop itself assigns on every iteration.
func (p *program) isLeftDeclaratorOfLoop(id ast.NodeID) bool {
	decl := p.parent(id)
	if p.kind(decl) != ast.VariableDeclaration {
		return false
	}
	loop := p.parent(decl)
	if k := p.kind(loop); k != ast.ForInStatement && k != ast.ForOfStatement {
		return false
	}
	left := ast.As[*ast.ForIn](p.tree, loop).Left
	if left != decl {
		return false
	}
	decls := ast.As[*ast.VarDecl](p.tree, decl).Declarations
	return len(decls) > 0 && decls[0] == id
}
