package transform

import (
	"buble/internal/ast"
	"buble/internal/scope"
	"buble/internal/target"
)

func (p *program) initArrow(id ast.NodeID) {
	fn := ast.As[*ast.Function](p.tree, id)
	if fn.Async && p.t.Has(target.AsyncAwait) {
		p.missingTransform(id, "async arrow functions", target.AsyncAwait)
	}
	p.createBlockScope(fn.Body)
	p.initialiseChildren(id)
}

// arrowNeedsArguments reports whether lowering the parameters will read
// `arguments`, which an arrow function does not bind.
func (p *program) arrowNeedsArguments(fn *ast.Function) bool {
	if !p.t.Has(target.SpreadRest) {
		return false
	}
	for _, param := range fn.Params {
		if p.kind(param) == ast.RestElement {
			return true
		}
	}
	return false
}

func (p *program) transpileArrow(id ast.NodeID) {
	fn := ast.As[*ast.Function](p.tree, id)
	src := p.src

	openParen := int(p.start(id))
	limit := int(p.start(fn.Body)) - 1
	for openParen < limit && src[openParen] != '(' {
		openParen++
	}
	naked := src[openParen] != '('

	if p.t.Has(target.Arrow) || p.arrowNeedsArguments(fn) {
		c := p.start(fn.Body)
		for src[c] != '=' {
			c--
		}
		p.code.Remove(c, p.start(fn.Body))

		p.transpileChildren(id)

		if naked {
			p.code.PrependRight(p.start(fn.Params[0]), "(")
			p.code.AppendLeft(p.end(fn.Params[0]), ")")
		}

		standalone := p.kind(p.parent(id)) == ast.ExpressionStatement
		text := ""
		if standalone {
			text = "!"
		}
		if fn.Async {
			text += "async "
		}
		text += "function"
		if !standalone {
			text += " "
		}

		start := uint32(openParen)
		if naked {
			start = p.start(fn.Params[0])
		}
		if start > p.start(id) {
			p.code.Overwrite(p.start(id), start, text)
		} else {
			p.code.PrependRight(p.start(id), text)
		}
	} else {
		p.transpileChildren(id)
	}

	if p.t.Has(target.TrailingFunctionCommas) && len(fn.Params) > 0 && !naked {
		p.removeTrailingComma(p.end(fn.Params[len(fn.Params)-1]))
	}
}

func (p *program) checkFunctionSyntax(id ast.NodeID, fn *ast.Function) {
	if fn.Generator && p.t.Has(target.Generator) {
		p.missingTransform(id, "generators", target.Generator)
	}
	if fn.Async && p.t.Has(target.AsyncAwait) {
		p.missingTransform(id, "async functions", target.AsyncAwait)
	}
}

func (p *program) initFunctionDeclaration(id ast.NodeID) {
	fn := ast.As[*ast.Function](p.tree, id)
	p.checkFunctionSyntax(id, fn)
	p.createBlockScope(fn.Body)
	if fn.ID.IsValid() {
		p.findScope(id, true).AddDeclaration(fn.ID, scope.KindFunction)
	}
	p.initialiseChildren(id)
}

func (p *program) initFunctionExpression(id ast.NodeID) {
	fn := ast.As[*ast.Function](p.tree, id)
	p.checkFunctionSyntax(id, fn)
	p.createBlockScope(fn.Body)

	body := p.blockOf(fn.Body).scope
	if fn.ID.IsValid() {
		body.AddDeclaration(fn.ID, scope.KindFunction)
	}
	p.initialiseChildren(id)

	methodName := p.functionMethodName(id, fn)
	if methodName == "" {
		return
	}

	// WebKit rejects a parameter named like the method it belongs to.
	for _, param := range fn.Params {
		if p.kind(param) != ast.Identifier || p.name(param) != methodName {
			continue
		}
		decl := body.Declared(methodName)
		alias := body.CreateIdentifier(methodName)
		p.meta[param].alias = alias
		if decl != nil {
			for _, ident := range decl.Instances {
				p.meta[ident].alias = alias
			}
		}
		break
	}
}

// functionMethodName is the name the function will carry once emitted:
// the key of a concise or class method, or its own id.
func (p *program) functionMethodName(id ast.NodeID, fn *ast.Function) string {
	parent := p.parent(id)
	switch p.kind(parent) {
	case ast.Property:
		prop := ast.As[*ast.Prop](p.tree, parent)
		if p.t.Has(target.ConciseMethodProperty) && prop.Kind == ast.MethodNormal && prop.Method && p.kind(prop.Key) == ast.Identifier {
			return p.name(prop.Key)
		}
	case ast.MethodDefinition:
		m := ast.As[*ast.Method](p.tree, parent)
		if p.t.Has(target.Classes) && m.Kind == ast.MethodNormal && p.kind(m.Key) == ast.Identifier {
			return p.name(m.Key)
		}
	}
	if fn.ID.IsValid() && p.kind(fn.ID) == ast.Identifier {
		if alias := p.meta[fn.ID].alias; alias != "" {
			return alias
		}
		return p.name(fn.ID)
	}
	return ""
}

func (p *program) transpileFunction(id ast.NodeID) {
	p.transpileChildren(id)
	params := ast.As[*ast.Function](p.tree, id).Params
	if p.t.Has(target.TrailingFunctionCommas) && len(params) > 0 {
		p.removeTrailingComma(p.end(params[len(params)-1]))
	}
}
