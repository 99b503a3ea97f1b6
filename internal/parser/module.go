package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"buble/internal/ast"
)

func (c *converter) moduleSource(n *sitter.Node) ast.NodeID {
	if s := n.ChildByFieldName("source"); s != nil {
		return c.stringLit(s)
	}
	for _, ch := range named(n) {
		if ch.Type() == "from_clause" {
			return c.moduleSource(ch)
		}
	}
	return ast.NoNodeID
}

func (c *converter) importDecl(n *sitter.Node) ast.NodeID {
	d := &ast.ImportDecl{Source: c.moduleSource(n)}
	for _, clause := range named(n) {
		if clause.Type() != "import_clause" {
			continue
		}
		for _, ch := range named(clause) {
			switch ch.Type() {
			case "identifier":
				d.Specifiers = append(d.Specifiers, c.node(ast.ImportDefaultSpecifier, ch, &ast.ImportSpec{Local: c.ident(ch)}))
			case "namespace_import":
				d.Specifiers = append(d.Specifiers, c.node(ast.ImportNamespaceSpecifier, ch, &ast.ImportSpec{Local: c.ident(firstNamed(ch))}))
			case "named_imports":
				for _, spec := range named(ch) {
					name := spec.ChildByFieldName("name")
					local := name
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = alias
					}
					d.Specifiers = append(d.Specifiers, c.node(ast.ImportSpecifier, spec, &ast.ImportSpec{
						Imported: c.expression(name),
						Local:    c.ident(local),
					}))
				}
			}
		}
	}
	return c.node(ast.ImportDeclaration, n, d)
}

func (c *converter) exportDecl(n *sitter.Node) ast.NodeID {
	if hasToken(n, "default", "") {
		var decl ast.NodeID
		if dn := n.ChildByFieldName("declaration"); dn != nil {
			decl = c.statement(dn)
		} else {
			v := n.ChildByFieldName("value")
			switch v.Type() {
			case "class":
				decl = c.class(ast.ClassDeclaration, v)
			case "function_expression", "function", "generator_function":
				decl = c.function(ast.FunctionDeclaration, v)
			default:
				decl = c.expressions(v)
			}
		}
		return c.node(ast.ExportDefaultDeclaration, n, &ast.ExportDefault{Declaration: decl})
	}

	if dn := n.ChildByFieldName("declaration"); dn != nil {
		return c.node(ast.ExportNamedDeclaration, n, &ast.ExportNamed{Declaration: c.statement(dn)})
	}

	src := c.moduleSource(n)
	for _, ch := range named(n) {
		switch ch.Type() {
		case "namespace_export":
			return c.node(ast.ExportAllDeclaration, n, &ast.ExportAll{Exported: c.expression(firstNamed(ch)), Source: src})
		case "export_clause":
			d := &ast.ExportNamed{Source: src}
			for _, spec := range named(ch) {
				name := spec.ChildByFieldName("name")
				exported := name
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					exported = alias
				}
				d.Specifiers = append(d.Specifiers, c.node(ast.ExportSpecifier, spec, &ast.ExportSpec{
					Local:    c.expression(name),
					Exported: c.expression(exported),
				}))
			}
			return c.node(ast.ExportNamedDeclaration, n, d)
		}
	}
	return c.node(ast.ExportAllDeclaration, n, &ast.ExportAll{Source: src})
}
