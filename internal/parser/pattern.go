package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"buble/internal/ast"
)

// pattern converts a binding or assignment target. Object and array
// literals met in target position are converted to their pattern forms.
func (c *converter) pattern(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return c.ident(n)
	case "object_pattern", "object":
		d := &ast.Object{}
		for _, ch := range named(n) {
			d.Properties = append(d.Properties, c.patternProperty(ch))
		}
		return c.node(ast.ObjectPattern, n, d)
	case "array_pattern", "array":
		return c.node(ast.ArrayPattern, n, &ast.Array{Elements: c.list(n, c.pattern)})
	case "assignment_pattern", "assignment_expression":
		return c.node(ast.AssignmentPattern, n, &ast.AssignPattern{
			Left:  c.pattern(n.ChildByFieldName("left")),
			Right: c.expression(n.ChildByFieldName("right")),
		})
	case "rest_pattern", "spread_element":
		return c.node(ast.RestElement, n, &ast.Argument{Argument: c.pattern(firstNamed(n))})
	}
	return c.expression(n)
}

func (c *converter) patternProperty(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "pair_pattern", "pair":
		key, computed := c.propertyKey(n.ChildByFieldName("key"))
		return c.node(ast.Property, n, &ast.Prop{
			Key:      key,
			Value:    c.pattern(n.ChildByFieldName("value")),
			Computed: computed,
		})
	case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
		return c.node(ast.Property, n, &ast.Prop{
			Key:       c.ident(n),
			Value:     c.ident(n),
			Shorthand: true,
		})
	case "object_assignment_pattern":
		left := n.ChildByFieldName("left")
		value := c.node(ast.AssignmentPattern, n, &ast.AssignPattern{
			Left:  c.pattern(left),
			Right: c.expression(n.ChildByFieldName("right")),
		})
		return c.node(ast.Property, n, &ast.Prop{
			Key:       c.ident(left),
			Value:     value,
			Shorthand: left.Type() != "object_pattern" && left.Type() != "array_pattern",
		})
	case "rest_pattern", "spread_element":
		return c.node(ast.RestElement, n, &ast.Argument{Argument: c.pattern(firstNamed(n))})
	}
	return c.pattern(n)
}
