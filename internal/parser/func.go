package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"buble/internal/ast"
	"buble/internal/diag"
)

func (c *converter) function(kind ast.Kind, n *sitter.Node) ast.NodeID {
	d := &ast.Function{
		Params:    c.params(n.ChildByFieldName("parameters")),
		Body:      c.block(n.ChildByFieldName("body")),
		Async:     hasToken(n, "async", "parameters"),
		Generator: hasToken(n, "*", "parameters"),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		d.ID = c.ident(name)
	}
	return c.node(kind, n, d)
}

func (c *converter) arrow(n *sitter.Node) ast.NodeID {
	d := &ast.Function{}
	if p := n.ChildByFieldName("parameter"); p != nil {
		d.Params = []ast.NodeID{c.pattern(p)}
		d.Async = hasToken(n, "async", "parameter")
	} else {
		d.Params = c.params(n.ChildByFieldName("parameters"))
		d.Async = hasToken(n, "async", "parameters")
	}

	body := n.ChildByFieldName("body")
	if body.Type() == "statement_block" {
		d.Body = c.block(body)
	} else {
		d.Body = c.expression(body)
		d.Expression = true
	}
	return c.node(ast.ArrowFunctionExpression, n, d)
}

func (c *converter) params(n *sitter.Node) []ast.NodeID {
	if n == nil {
		return nil
	}
	var out []ast.NodeID
	for _, ch := range named(n) {
		out = append(out, c.pattern(ch))
	}
	return out
}

// methodValue builds the function of a method. Like acorn, the function
// starts at the parameter list.
func (c *converter) methodValue(n *sitter.Node) ast.NodeID {
	params := n.ChildByFieldName("parameters")
	body := n.ChildByFieldName("body")
	return c.nodeAt(ast.FunctionExpression, params.StartByte(), body.EndByte(), &ast.Function{
		Params:    c.params(params),
		Body:      c.block(body),
		Async:     hasToken(n, "async", "name"),
		Generator: hasToken(n, "*", "name"),
	})
}

func (c *converter) class(kind ast.Kind, n *sitter.Node) ast.NodeID {
	d := &ast.Class{}
	if name := n.ChildByFieldName("name"); name != nil {
		d.ID = c.ident(name)
	}
	for _, ch := range named(n) {
		switch ch.Type() {
		case "class_heritage":
			d.SuperClass = c.expression(firstNamed(ch))
		case "decorator":
			c.fail(ch, diag.PrsUnsupportedNode, "Decorators are not supported")
		}
	}

	body := n.ChildByFieldName("body")
	members := &ast.Block{}
	for _, m := range named(body) {
		members.Body = append(members.Body, c.classMember(m))
	}
	d.Body = c.node(ast.ClassBody, body, members)
	return c.node(kind, n, d)
}

func (c *converter) classMember(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "method_definition":
		key, computed := c.propertyKey(n.ChildByFieldName("name"))
		static := hasToken(n, "static", "name")
		kind := ast.MethodNormal
		switch {
		case hasToken(n, "get", "name"):
			kind = ast.MethodGet
		case hasToken(n, "set", "name"):
			kind = ast.MethodSet
		case !static && !computed && c.keyName(key) == "constructor":
			kind = ast.MethodConstructor
		}
		return c.node(ast.MethodDefinition, n, &ast.Method{
			Key:      key,
			Value:    c.methodValue(n),
			Kind:     kind,
			Static:   static,
			Computed: computed,
		})
	case "field_definition":
		key, computed := c.propertyKey(n.ChildByFieldName("property"))
		value := ast.NoNodeID
		if v := n.ChildByFieldName("value"); v != nil {
			value = c.expression(v)
		}
		return c.node(ast.PropertyDefinition, n, &ast.Method{
			Key:      key,
			Value:    value,
			Static:   hasToken(n, "static", "property"),
			Computed: computed,
		})
	case "class_static_block":
		body := n.ChildByFieldName("body")
		return c.node(ast.StaticBlock, n, &ast.Block{Body: c.statements(body)})
	}
	c.fail(n, diag.PrsUnsupportedNode, "Unexpected token")
	return ast.NoNodeID
}

// keyName returns the static name of a property key.
func (c *converter) keyName(key ast.NodeID) string {
	switch c.tree.Kind(key) {
	case ast.Identifier:
		return c.tree.Name(key)
	case ast.Literal:
		if lit := ast.As[*ast.Lit](c.tree, key); lit.Kind == ast.LitString {
			return lit.Value
		}
	}
	return ""
}
