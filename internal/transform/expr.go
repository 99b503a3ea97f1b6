package transform

import (
	"strings"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/magic"
	"buble/internal/scope"
	"buble/internal/target"
)

var (
	overwriteContentOnly = magic.OverwriteOptions{ContentOnly: true}
	storeNameContentOnly = magic.OverwriteOptions{StoreName: true, ContentOnly: true}
)

func (p *program) isLabel(id ast.NodeID) bool {
	switch p.kind(p.parent(id)) {
	case ast.BreakStatement, ast.ContinueStatement, ast.LabeledStatement:
		return true
	}
	return false
}

// isReference reports whether the identifier id reads or writes a binding,
// as opposed to naming a property, a key or an export.
func (p *program) isReference(id ast.NodeID) bool {
	parent := p.parent(id)
	if !parent.IsValid() {
		return true
	}

	switch p.kind(parent) {
	case ast.FunctionExpression, ast.ClassExpression:
		return false
	case ast.VariableDeclarator:
		return ast.As[*ast.Declarator](p.tree, parent).Init == id
	case ast.MemberExpression:
		m := ast.As[*ast.Member](p.tree, parent)
		return m.Computed || m.Object == id
	case ast.MethodDefinition, ast.PropertyDefinition:
		return ast.As[*ast.Method](p.tree, parent).Computed
	case ast.ArrayPattern:
		return false
	case ast.Property:
		if p.kind(p.parent(parent)) == ast.ObjectPattern {
			return false
		}
		prop := ast.As[*ast.Prop](p.tree, parent)
		return prop.Computed || prop.Value == id
	case ast.ExportSpecifier:
		return ast.As[*ast.ExportSpec](p.tree, parent).Local == id
	case ast.ImportSpecifier:
		return ast.As[*ast.ImportSpec](p.tree, parent).Local == id
	case ast.MetaProperty:
		return false
	}
	return true
}

func (p *program) initIdentifier(id ast.NodeID) {
	if p.isLabel(id) || !p.isReference(id) {
		return
	}

	sc := p.findScope(id, false)
	if p.t.Has(target.Arrow) && p.name(id) == "arguments" && !sc.Contains("arguments") {
		boundary := p.findLexicalBoundary(id)
		arrow := p.tree.FindNearest(id, ast.ArrowFunctionExpression)
		loop := p.nearestLoop(id)

		if arrow.IsValid() && p.depth(arrow) > p.depth(boundary) {
			p.meta[id].alias = p.argumentsAliasOf(boundary)
		}
		if loop.IsValid() && p.tree.Contains(p.loopBody(loop), id) && p.depth(loop) > p.depth(boundary) {
			p.meta[id].alias = p.argumentsAliasOf(boundary)
		}
	}

	sc.AddReference(id)
}

func (p *program) transpileIdentifier(id ast.NodeID) {
	if alias := p.meta[id].alias; alias != "" {
		p.code.OverwriteWith(p.start(id), p.end(id), alias, storeNameContentOnly)
	}
}

func (p *program) initThis(id ast.NodeID) {
	boundary := p.findLexicalBoundary(id)

	if p.t.Has(target.LetConst) {
		// loops up to the boundary may later capture `this` in a rewritten body
		for loop := p.nearestLoop(id); loop.IsValid() && p.depth(loop) > p.depth(boundary); loop = p.nearestLoop(p.parent(loop)) {
			ls := p.loopOf(loop)
			ls.thisRefs = append(ls.thisRefs, id)
		}
	}

	if p.t.Has(target.Arrow) {
		arrow := p.tree.FindNearest(id, ast.ArrowFunctionExpression)
		if arrow.IsValid() && p.depth(arrow) > p.depth(boundary) {
			p.meta[id].alias = p.thisAliasOf(boundary)
		}
	}
}

func (p *program) transpileThis(id ast.NodeID) {
	if alias := p.meta[id].alias; alias != "" {
		p.code.OverwriteWith(p.start(id), p.end(id), alias, storeNameContentOnly)
	}
}

func (p *program) transpileIf(id ast.NodeID) {
	n := ast.As[*ast.If](p.tree, id)

	if p.kind(n.Consequent) != ast.BlockStatement || p.synthetic(n.Consequent) {
		p.code.AppendLeft(p.start(n.Consequent), "{ ")
		p.code.PrependRight(p.end(n.Consequent), " }")
	}

	if alt := n.Alternate; alt.IsValid() && p.kind(alt) != ast.IfStatement &&
		(p.kind(alt) != ast.BlockStatement || p.synthetic(alt)) {
		p.code.AppendLeft(p.start(alt), "{ ")
		p.code.PrependRight(p.end(alt), " }")
	}

	p.transpileChildren(id)
}

func (p *program) initCatch(id ast.NodeID) {
	c := ast.As[*ast.Catch](p.tree, id)
	st := &p.meta[id]
	st.catchScope = scope.New(scope.Options{
		Parent: p.findScope(p.parent(id), false),
		Block:  true,
		Tree:   p.tree,
	})
	if c.Param.IsValid() {
		st.catchScope.AddDeclaration(c.Param, scope.KindCatch)
	}

	p.initialiseChildren(id)
	st.catchScope.Consolidate()
}

func (p *program) transpileMember(id ast.NodeID) {
	m := ast.As[*ast.Member](p.tree, id)
	if p.t.Has(target.ReservedProperties) && !m.Computed && p.kind(m.Property) == ast.Identifier &&
		scope.IsReserved(p.name(m.Property)) {
		p.code.Overwrite(p.end(m.Object), p.start(m.Property), "['")
		p.code.AppendLeft(p.end(m.Property), "']")
	}
	p.transpileChildren(id)
}

func (p *program) initLiteral(id ast.NodeID) {
	if ast.As[*ast.Lit](p.tree, id).Kind == ast.LitString {
		p.indentExclusionNodes = append(p.indentExclusionNodes, id)
	}
}

func (p *program) transpileLiteral(id ast.NodeID) {
	lit := ast.As[*ast.Lit](p.tree, id)

	if p.t.Has(target.NumericLiteral) && lit.Kind == ast.LitNumber && isBinaryOrOctal(lit.Raw) {
		p.code.OverwriteWith(p.start(id), p.end(id), p.literalString(id), storeNameContentOnly)
	}

	switch lit.Kind {
	case ast.LitRegExp:
		if p.t.Has(target.StickyRegExp) && strings.Contains(lit.Flags, "y") {
			p.missingTransform(id, "the regular expression sticky flag", target.StickyRegExp)
		}
		if p.t.Has(target.UnicodeRegExp) && strings.Contains(lit.Flags, "u") {
			pattern, err := rewriteUnicodePattern(lit.Pattern, lit.Flags)
			if err != nil {
				p.fail(id, diag.UnsRegExpPattern, err.Error())
			}
			flags := strings.Replace(lit.Flags, "u", "", 1)
			p.code.OverwriteWith(p.start(id), p.end(id), "/"+pattern+"/"+flags, overwriteContentOnly)
		}

	case ast.LitString:
		if strings.ContainsAny(lit.Value, "\u2028\u2029") {
			raw := strings.NewReplacer("\u2028", `\u2028`, "\u2029", `\u2029`).Replace(lit.Raw)
			p.code.OverwriteWith(p.start(id), p.end(id), raw, overwriteContentOnly)
		}
	}
}

func isBinaryOrOctal(raw string) bool {
	if len(raw) < 2 || raw[0] != '0' {
		return false
	}
	switch raw[1] {
	case 'b', 'B', 'o', 'O':
		return true
	}
	return false
}

func (p *program) initImportExpression(id ast.NodeID) {
	if p.t.Has(target.ModuleImport) {
		p.missingTransform(id, "dynamic import expressions", target.ModuleImport)
	}
	p.initialiseChildren(id)
}

func (p *program) initImportDeclaration(id ast.NodeID) {
	if p.t.Has(target.ModuleImport) {
		p.missingTransform(id, "import", target.ModuleImport)
	}
	p.initialiseChildren(id)
}

func (p *program) initImportSpecifier(id ast.NodeID) {
	local := ast.As[*ast.ImportSpec](p.tree, id).Local
	p.findScope(id, true).AddDeclaration(local, scope.KindImport)
	p.initialiseChildren(id)
}

func (p *program) initExport(id ast.NodeID) {
	if p.t.Has(target.ModuleExport) {
		p.missingTransform(id, "export", target.ModuleExport)
	}
	p.initialiseChildren(id)
}
