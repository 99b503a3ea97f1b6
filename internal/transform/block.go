package transform

import (
	"strconv"
	"strings"

	"buble/internal/ast"
	"buble/internal/magic"
	"buble/internal/scope"
	"buble/internal/target"
)

// introGen emits one prologue statement at start. prefix carries the line
// break and indentation, suffix the statement terminator.
type introGen func(start uint32, prefix, suffix string)

func (p *program) createBlockScope(id ast.NodeID) {
	b := &blockState{}
	p.meta[id].block = b

	parent := p.parent(id)
	b.parentIsFunction = p.kind(parent).IsFunction()
	b.isFunctionBlock = b.parentIsFunction || !parent.IsValid()

	var outer *scope.Scope
	if parent.IsValid() {
		outer = p.findScope(parent, false)
	}
	b.scope = scope.New(scope.Options{
		Parent: outer,
		Block:  !b.isFunctionBlock,
		Tree:   p.tree,
		Declare: func(name string) {
			b.createdDeclarations = append(b.createdDeclarations, name)
		},
	})

	if b.parentIsFunction {
		for _, param := range ast.As[*ast.Function](p.tree, parent).Params {
			b.scope.AddDeclaration(param, scope.KindParam)
		}
	}
}

func (p *program) initBlock(id ast.NodeID) {
	if p.meta[id].block == nil {
		p.createBlockScope(id)
	}
	b := p.blockOf(id)
	b.thisAlias = ""
	b.argumentsAlias = ""

	p.initialiseAll(p.statements(id))
	b.scope.Consolidate()

	if id == p.root {
		p.computeIndentExclusions()
	}
}

func (p *program) thisAliasOf(block ast.NodeID) string {
	b := p.blockOf(block)
	if b.thisAlias == "" {
		b.thisAlias = b.scope.CreateIdentifier("this")
	}
	return b.thisAlias
}

func (p *program) argumentsAliasOf(block ast.NodeID) string {
	b := p.blockOf(block)
	if b.argumentsAlias == "" {
		b.argumentsAlias = b.scope.CreateIdentifier("arguments")
	}
	return b.argumentsAlias
}

func (p *program) argumentsArrayAliasOf(block ast.NodeID) string {
	b := p.blockOf(block)
	if b.argumentsArrayAlias == "" {
		b.argumentsArrayAlias = b.scope.CreateIdentifier("argsArray")
	}
	return b.argumentsArrayAlias
}

// indentation returns the leading whitespace of the block enclosing id.
func (p *program) indentation(id ast.NodeID) string {
	for !p.isBlock(id) {
		id = p.parent(id)
	}
	st := &p.meta[id]
	if st.hasIndentation {
		return st.indentation
	}

	stmts := p.statements(id)
	useOuter := p.synthetic(id) || len(stmts) == 0
	c := int(p.start(id))
	if !useOuter {
		c = int(p.start(stmts[0]))
	}
	for c > 0 && (c >= len(p.src) || p.src[c] != '\n') {
		c--
	}

	var sb strings.Builder
	for {
		c++
		if c >= len(p.src) {
			break
		}
		ch := p.src[c]
		if ch != ' ' && ch != '\t' {
			break
		}
		sb.WriteByte(ch)
	}
	indentation := sb.String()

	indentStr := p.code.IndentString()
	for anc := p.parent(id); anc.IsValid(); anc = p.parent(anc) {
		if p.isBaseConstructor(anc) {
			indentation = strings.Replace(indentation, indentStr, "", 1)
		}
	}
	if useOuter {
		indentation += indentStr
	}

	st.indentation = indentation
	st.hasIndentation = true
	return indentation
}

// isBaseConstructor reports whether id is the constructor of a class
// without a superclass.
func (p *program) isBaseConstructor(id ast.NodeID) bool {
	if p.kind(id) != ast.MethodDefinition {
		return false
	}
	if ast.As[*ast.Method](p.tree, id).Kind != ast.MethodConstructor {
		return false
	}
	class := p.tree.Ancestor(id, 2)
	c := ast.As[*ast.Class](p.tree, class)
	return c != nil && !c.SuperClass.IsValid()
}

func (p *program) isUseStrict(id ast.NodeID) bool {
	es := ast.As[*ast.ExprStmt](p.tree, id)
	if es == nil || p.kind(es.Expression) != ast.Literal {
		return false
	}
	lit := ast.As[*ast.Lit](p.tree, es.Expression)
	return lit.Kind == ast.LitString && lit.Value == "use strict"
}

func (p *program) transpileBlock(id ast.NodeID) {
	b := p.blockOf(id)
	indentation := p.indentation(id)
	parent := p.parent(id)
	stmts := p.statements(id)

	var intro []introGen

	if b.argumentsAlias != "" {
		alias := b.argumentsAlias
		intro = append(intro, func(start uint32, prefix, suffix string) {
			p.code.AppendLeft(start, prefix+"var "+alias+" = arguments"+suffix)
		})
	}
	if b.thisAlias != "" {
		alias := b.thisAlias
		intro = append(intro, func(start uint32, prefix, suffix string) {
			p.code.AppendLeft(start, prefix+"var "+alias+" = this"+suffix)
		})
	}
	if b.argumentsArrayAlias != "" {
		alias := b.argumentsArrayAlias
		intro = append(intro, func(start uint32, prefix, suffix string) {
			i := b.scope.CreateIdentifier("i")
			p.code.AppendLeft(start, prefix+"var "+i+" = arguments.length, "+alias+" = Array("+i+");\n"+
				indentation+"while ( "+i+"-- ) "+alias+"["+i+"] = arguments["+i+"]"+suffix)
		})
	}

	switch {
	case p.kind(parent).IsFunction():
		params := ast.As[*ast.Function](p.tree, parent).Params
		intro = p.transpileParameters(id, params, indentation, intro)
	case p.kind(parent) == ast.CatchClause:
		if param := ast.As[*ast.Catch](p.tree, parent).Param; param.IsValid() {
			intro = p.transpileParameters(id, []ast.NodeID{param}, indentation, intro)
		}
	}

	if p.t.Has(target.LetConst) && b.isFunctionBlock {
		p.transpileBlockScopedIdentifiers(id)
	}

	p.transpileAll(stmts)

	if len(b.createdDeclarations) > 0 {
		intro = append(intro, func(start uint32, prefix, suffix string) {
			p.code.AppendLeft(start, prefix+"var "+strings.Join(b.createdDeclarations, ", ")+suffix)
		})
	}

	if p.synthetic(id) {
		if p.kind(parent) == ast.ArrowFunctionExpression {
			expr := stmts[0]
			if len(intro) > 0 {
				p.code.AppendLeft(p.start(id), "{")
				p.code.PrependRight(p.end(id), p.indentation(parent)+"}")
				p.code.PrependRight(p.start(expr), "\n"+indentation+"return ")
				p.code.AppendLeft(p.end(expr), ";\n")
			} else if p.t.Has(target.Arrow) {
				p.code.PrependRight(p.start(expr), "{ return ")
				p.code.AppendLeft(p.end(expr), "; }")
			}
		} else if len(intro) > 0 {
			p.code.PrependRight(p.start(id), "{")
			p.code.AppendLeft(p.end(id), "}")
		}
	}

	var start uint32
	switch {
	case len(stmts) > 0 && p.isUseStrict(stmts[0]):
		start = p.end(stmts[0])
	case p.synthetic(id) || !parent.IsValid():
		start = p.start(id)
	default:
		start = p.start(id) + 1
	}

	prefix := "\n" + indentation
	suffix := ";"
	for i, gen := range intro {
		if i == len(intro)-1 {
			suffix = ";\n"
		}
		gen(start, prefix, suffix)
	}
}

func isJSSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (p *program) transpileParameters(block ast.NodeID, params []ast.NodeID, indentation string, intro []introGen) []introGen {
	b := p.blockOf(block)
	for _, param := range params {
		switch {
		case p.kind(param) == ast.AssignmentPattern && p.kind(ast.As[*ast.AssignPattern](p.tree, param).Left) == ast.Identifier:
			if !p.t.Has(target.DefaultParameter) {
				continue
			}
			ap := ast.As[*ast.AssignPattern](p.tree, param)
			intro = append(intro, func(start uint32, prefix, suffix string) {
				name := p.name(ap.Left)
				p.code.PrependRight(p.end(ap.Left), prefix+"if ( "+name+" === void 0 ) "+name)
				p.code.Move(p.end(ap.Left), p.end(ap.Right), start)
				p.code.AppendLeft(p.end(ap.Right), suffix)
			})

		case p.kind(param) == ast.RestElement:
			if !p.t.Has(target.SpreadRest) {
				continue
			}
			intro = append(intro, func(start uint32, prefix, suffix string) {
				if len(params) >= 2 {
					p.code.Remove(p.end(params[len(params)-2]), p.end(param))
				} else {
					s, e := p.start(param), p.end(param)
					for s > 0 && isJSSpace(p.src[s-1]) {
						s--
					}
					for int(e) < len(p.src) && isJSSpace(p.src[e]) {
						e++
					}
					p.code.Remove(s, e)
				}

				name := p.name(ast.As[*ast.Argument](p.tree, param).Argument)
				length := b.scope.CreateIdentifier("len")
				count := len(params) - 1

				if count > 0 {
					n := strconv.Itoa(count)
					p.code.PrependRight(start, prefix+"var "+name+" = [], "+length+" = arguments.length - "+n+";\n"+
						indentation+"while ( "+length+"-- > 0 ) "+name+"[ "+length+" ] = arguments[ "+length+" + "+n+" ]"+suffix)
				} else {
					p.code.PrependRight(start, prefix+"var "+name+" = [], "+length+" = arguments.length;\n"+
						indentation+"while ( "+length+"-- ) "+name+"[ "+length+" ] = arguments[ "+length+" ]"+suffix)
				}
			})

		case p.kind(param) != ast.Identifier:
			if !p.t.Has(target.ParameterDestructuring) {
				continue
			}
			ref := b.scope.CreateIdentifier("ref")
			d := destructurer{
				p:                p,
				createIdentifier: b.scope.CreateIdentifier,
				resolveName: func(ident ast.NodeID) string {
					return b.scope.ResolveName(p.name(ident))
				},
			}
			intro = d.destructure(param, ref, false, intro)
			p.code.PrependRight(p.start(param), ref)
		}
	}
	return intro
}

// shorthandProperty returns the shorthand Property whose value is ident,
// either directly or as the target of a default value.
func (p *program) shorthandProperty(ident ast.NodeID) ast.NodeID {
	parent := p.parent(ident)
	if p.kind(parent) == ast.AssignmentPattern && ast.As[*ast.AssignPattern](p.tree, parent).Left == ident {
		parent = p.parent(parent)
	}
	if p.kind(parent) != ast.Property {
		return ast.NoNodeID
	}
	if !ast.As[*ast.Prop](p.tree, parent).Shorthand || p.meta[parent].notShorthand {
		return ast.NoNodeID
	}
	return parent
}

func (p *program) isShorthand(prop ast.NodeID) bool {
	return ast.As[*ast.Prop](p.tree, prop).Shorthand && !p.meta[prop].notShorthand
}

func (p *program) rename(ident ast.NodeID, alias string) {
	p.code.OverwriteWith(p.start(ident), p.end(ident), alias, magic.OverwriteOptions{StoreName: true})
}

func (p *program) transpileBlockScopedIdentifiers(id ast.NodeID) {
	sc := p.blockOf(id).scope
	for _, name := range sc.BlockScopedNames() {
		for _, decl := range sc.BlockScopedDeclarations(name) {
			if decl.Kind == scope.KindForLet {
				forStmt := p.tree.FindNearest(decl.Node, ast.ForStatement)
				ls := p.meta[forStmt].loop
				if ls != nil && ls.shouldRewriteAsFunction {
					outer := sc.CreateIdentifier(name)
					inner := name
					if ls.reassigned[name] {
						inner = sc.CreateIdentifier(name)
					}

					decl.Name = outer
					p.rename(decl.Node, outer)
					ls.aliases[name] = loopAlias{outer: outer, inner: inner}

					body := p.loopBody(forStmt)
					for _, ident := range decl.Instances {
						alias := outer
						if p.tree.Contains(body, ident) {
							alias = inner
						}
						if name != alias {
							p.rename(ident, alias)
						}
					}
					continue
				}
			}

			alias := sc.CreateIdentifier(name)
			if name == alias {
				continue
			}
			decl.Name = alias
			p.rename(decl.Node, alias)
			if prop := p.shorthandProperty(decl.Node); prop.IsValid() {
				p.meta[prop].notShorthand = true
				p.code.PrependLeft(p.start(decl.Node), name+": ")
			}

			for _, ident := range decl.Instances {
				p.meta[ident].rewritten = true
				p.rename(ident, alias)
				if prop := p.shorthandProperty(ident); prop.IsValid() {
					p.meta[prop].notShorthand = true
					p.code.PrependLeft(p.start(ident), name+": ")
				}
			}
		}
	}
}
