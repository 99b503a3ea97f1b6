package parser

import (
	"html"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"buble/internal/ast"
	"buble/internal/diag"
)

func (c *converter) jsxElement(n *sitter.Node) ast.NodeID {
	if n.Type() == "jsx_self_closing_element" {
		opening := c.jsxOpening(n, true)
		return c.node(ast.JSXElement, n, &ast.JSXElem{Opening: opening})
	}

	if n.Type() == "jsx_fragment" {
		return c.jsxFragment(n)
	}

	open := n.ChildByFieldName("open_tag")
	closeTag := n.ChildByFieldName("close_tag")
	if open == nil || closeTag == nil {
		c.fail(n, diag.PrsUnexpectedToken, "Unterminated JSX contents")
	}

	children := c.jsxChildren(n, open.EndByte(), c.closingStart(closeTag))

	if open.ChildByFieldName("name") == nil {
		return c.node(ast.JSXFragment, n, &ast.JSXElem{
			Opening:  c.node(ast.JSXOpeningFragment, open, nil),
			Children: children,
			Closing:  c.node(ast.JSXClosingFragment, closeTag, nil),
		})
	}

	return c.node(ast.JSXElement, n, &ast.JSXElem{
		Opening:  c.jsxOpening(open, false),
		Children: children,
		Closing: c.node(ast.JSXClosingElement, closeTag, &ast.JSXClosing{
			Name: c.jsxName(closeTag.ChildByFieldName("name")),
		}),
	})
}

// jsxFragment handles grammars that give `<>...</>` its own node.
func (c *converter) jsxFragment(n *sitter.Node) ast.NodeID {
	openEnd, closeStart := n.StartByte(), n.EndByte()
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.Type() == ">" && openEnd == n.StartByte() {
			openEnd = ch.EndByte()
		}
		if ch.Type() == "</" {
			closeStart = ch.StartByte()
		}
	}
	return c.node(ast.JSXFragment, n, &ast.JSXElem{
		Opening:  c.nodeAt(ast.JSXOpeningFragment, n.StartByte(), openEnd, nil),
		Children: c.jsxChildren(n, openEnd, closeStart),
		Closing:  c.nodeAt(ast.JSXClosingFragment, closeStart, n.EndByte(), nil),
	})
}

func (c *converter) jsxOpening(n *sitter.Node, selfClosing bool) ast.NodeID {
	d := &ast.JSXOpening{
		Name:        c.jsxName(n.ChildByFieldName("name")),
		SelfClosing: selfClosing,
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) != "attribute" {
			continue
		}
		d.Attributes = append(d.Attributes, c.jsxAttribute(n.Child(i)))
	}
	return c.node(ast.JSXOpeningElement, n, d)
}

func (c *converter) jsxAttribute(n *sitter.Node) ast.NodeID {
	if n.Type() == "jsx_expression" {
		inner := firstNamed(n)
		if inner == nil || inner.Type() != "spread_element" {
			c.fail(n, diag.PrsUnexpectedToken, "Unexpected token")
		}
		return c.node(ast.JSXSpreadAttribute, n, &ast.Argument{Argument: c.expression(firstNamed(inner))})
	}

	parts := named(n)
	d := &ast.JSXAttr{Name: c.jsxName(parts[0])}
	if len(parts) > 1 {
		v := parts[1]
		switch v.Type() {
		case "string":
			raw := v.Content(c.src)
			d.Value = c.node(ast.Literal, v, &ast.Lit{
				Kind:  ast.LitString,
				Raw:   raw,
				Value: html.UnescapeString(raw[1 : len(raw)-1]),
			})
		case "jsx_expression":
			d.Value = c.jsxContainer(v)
		default:
			d.Value = c.expression(v)
		}
	}
	return c.node(ast.JSXAttribute, n, d)
}

func (c *converter) jsxContainer(n *sitter.Node) ast.NodeID {
	inner := firstNamed(n)
	var expr ast.NodeID
	if inner == nil {
		expr = c.nodeAt(ast.JSXEmptyExpression, n.StartByte()+1, n.EndByte()-1, nil)
	} else {
		expr = c.expressions(inner)
	}
	return c.node(ast.JSXExpressionContainer, n, &ast.JSXContainer{Expression: expr})
}

// jsxChildren converts the element children between the tags. Text runs
// are recovered from the gaps between nested elements and expressions so
// that their whitespace is kept.
func (c *converter) jsxChildren(n *sitter.Node, start, end uint32) []ast.NodeID {
	var out []ast.NodeID
	pos := start
	addText := func(to uint32) {
		if to <= pos {
			return
		}
		raw := c.text[pos:to]
		out = append(out, c.nodeAt(ast.JSXText, pos, to, &ast.JSXTextData{Value: html.UnescapeString(raw)}))
	}
	for _, ch := range named(n) {
		if ch.StartByte() < start || ch.EndByte() > end {
			continue
		}
		var id ast.NodeID
		switch ch.Type() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			id = c.jsxElement(ch)
		case "jsx_expression":
			id = c.jsxContainer(ch)
		default:
			continue
		}
		addText(ch.StartByte())
		out = append(out, id)
		pos = c.childEnd(ch)
	}
	addText(end)
	return out
}

// closingStart is the offset of the `<` opening a closing tag. Whitespace
// before the tag belongs to the last text child.
func (c *converter) closingStart(closeTag *sitter.Node) uint32 {
	if i := strings.LastIndexByte(c.text[:closeTag.EndByte()], '<'); i >= 0 {
		return uint32(i)
	}
	return closeTag.StartByte()
}

// childEnd is the offset just past the `}` or `>` that closes a child.
func (c *converter) childEnd(ch *sitter.Node) uint32 {
	closer := byte('>')
	if ch.Type() == "jsx_expression" {
		closer = '}'
	}
	raw := c.text[ch.StartByte():ch.EndByte()]
	if i := strings.LastIndexByte(raw, closer); i >= 0 {
		return ch.StartByte() + uint32(i) + 1
	}
	return ch.EndByte()
}

func (c *converter) jsxName(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	switch n.Type() {
	case "identifier", "property_identifier", "jsx_identifier":
		return c.node(ast.JSXIdentifier, n, &ast.Ident{Name: n.Content(c.src)})
	case "jsx_namespace_name":
		parts := named(n)
		return c.node(ast.JSXNamespacedName, n, &ast.JSXNamespaced{
			Namespace: c.jsxName(parts[0]),
			Name:      c.jsxName(parts[1]),
		})
	case "member_expression", "nested_identifier":
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj == nil || prop == nil {
			parts := named(n)
			obj, prop = parts[0], parts[len(parts)-1]
		}
		return c.node(ast.JSXMemberExpression, n, &ast.JSXMember{
			Object:   c.jsxName(obj),
			Property: c.jsxName(prop),
		})
	}
	c.fail(n, diag.PrsUnexpectedToken, "Unexpected token")
	return ast.NoNodeID
}
