package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"buble/internal/ast"
	"buble/internal/diag"
)

// expressions converts an expression that may be a comma sequence.
func (c *converter) expressions(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if n.Type() != "sequence_expression" {
		return c.expression(n)
	}
	var items []ast.NodeID
	c.flattenSequence(n, &items)
	return c.node(ast.SequenceExpression, n, &ast.Sequence{Expressions: items})
}

func (c *converter) flattenSequence(n *sitter.Node, items *[]ast.NodeID) {
	for _, ch := range named(n) {
		if ch.Type() == "sequence_expression" {
			c.flattenSequence(ch, items)
			continue
		}
		*items = append(*items, c.expression(ch))
	}
}

func (c *converter) optExpressions(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	return c.expressions(n)
}

func (c *converter) expression(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier", "statement_identifier", "undefined":
		return c.ident(n)
	case "private_property_identifier":
		return c.node(ast.PrivateIdentifier, n, &ast.Ident{Name: strings.TrimPrefix(n.Content(c.src), "#")})
	case "this":
		return c.node(ast.ThisExpression, n, nil)
	case "super":
		return c.node(ast.Super, n, nil)
	case "true", "false":
		return c.node(ast.Literal, n, &ast.Lit{Kind: ast.LitBoolean, Raw: n.Content(c.src), Value: n.Type()})
	case "null":
		return c.node(ast.Literal, n, &ast.Lit{Kind: ast.LitNull, Raw: "null"})
	case "number":
		return c.number(n)
	case "string":
		return c.stringLit(n)
	case "regex":
		return c.regex(n)
	case "template_string":
		return c.template(n)
	case "array":
		return c.array(n)
	case "object":
		return c.object(n)
	case "function_expression", "function", "generator_function":
		return c.function(ast.FunctionExpression, n)
	case "arrow_function":
		return c.arrow(n)
	case "class":
		return c.class(ast.ClassExpression, n)
	case "call_expression":
		return c.call(n)
	case "new_expression":
		return c.newExpr(n)
	case "member_expression":
		return c.node(ast.MemberExpression, n, &ast.Member{
			Object:   c.expression(n.ChildByFieldName("object")),
			Property: c.expression(n.ChildByFieldName("property")),
			Optional: hasToken(n, "?.", "property") || c.hasOptionalChain(n, "property"),
		})
	case "subscript_expression":
		return c.node(ast.MemberExpression, n, &ast.Member{
			Object:   c.expression(n.ChildByFieldName("object")),
			Property: c.expressions(n.ChildByFieldName("index")),
			Computed: true,
			Optional: c.hasOptionalChain(n, "index"),
		})
	case "assignment_expression":
		return c.node(ast.AssignmentExpression, n, &ast.Binary{
			Left:     c.pattern(n.ChildByFieldName("left")),
			Operator: "=",
			Right:    c.expression(n.ChildByFieldName("right")),
		})
	case "augmented_assignment_expression":
		return c.node(ast.AssignmentExpression, n, &ast.Binary{
			Left:     c.expression(n.ChildByFieldName("left")),
			Operator: n.ChildByFieldName("operator").Type(),
			Right:    c.expression(n.ChildByFieldName("right")),
		})
	case "binary_expression":
		op := n.ChildByFieldName("operator").Type()
		kind := ast.BinaryExpression
		if op == "&&" || op == "||" || op == "??" {
			kind = ast.LogicalExpression
		}
		return c.node(kind, n, &ast.Binary{
			Left:     c.expression(n.ChildByFieldName("left")),
			Operator: op,
			Right:    c.expression(n.ChildByFieldName("right")),
		})
	case "unary_expression":
		return c.node(ast.UnaryExpression, n, &ast.Unary{
			Operator: n.ChildByFieldName("operator").Type(),
			Prefix:   true,
			Argument: c.expression(n.ChildByFieldName("argument")),
		})
	case "update_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		return c.node(ast.UpdateExpression, n, &ast.Unary{
			Operator: op.Type(),
			Prefix:   op.StartByte() < arg.StartByte(),
			Argument: c.expression(arg),
		})
	case "await_expression":
		return c.node(ast.AwaitExpression, n, &ast.Argument{Argument: c.expression(firstNamed(n))})
	case "yield_expression":
		return c.node(ast.YieldExpression, n, &ast.Yield{
			Argument: c.optExpressions(firstNamed(n)),
			Delegate: hasToken(n, "*", ""),
		})
	case "ternary_expression":
		return c.node(ast.ConditionalExpression, n, &ast.Conditional{
			Test:       c.expression(n.ChildByFieldName("condition")),
			Consequent: c.expression(n.ChildByFieldName("consequence")),
			Alternate:  c.expression(n.ChildByFieldName("alternative")),
		})
	case "sequence_expression":
		return c.expressions(n)
	case "parenthesized_expression":
		return c.node(ast.ParenthesizedExpression, n, &ast.Paren{Expression: c.expressions(firstNamed(n))})
	case "spread_element":
		return c.node(ast.SpreadElement, n, &ast.Argument{Argument: c.expression(firstNamed(n))})
	case "meta_property":
		return c.metaProperty(n)
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return c.jsxElement(n)
	case "object_pattern", "array_pattern", "assignment_pattern", "rest_pattern":
		return c.pattern(n)
	}
	c.fail(n, diag.PrsUnsupportedNode, "Unexpected token")
	return ast.NoNodeID
}

func (c *converter) hasOptionalChain(n *sitter.Node, stop string) bool {
	if hasToken(n, "?.", stop) {
		return true
	}
	stopNode := n.ChildByFieldName(stop)
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if stopNode != nil && ch.StartByte() >= stopNode.StartByte() {
			break
		}
		if ch.Type() == "optional_chain" {
			return true
		}
	}
	return false
}

// list converts a comma separated list with possible holes (array literals
// and patterns, call arguments). conv is applied to every element.
func (c *converter) list(n *sitter.Node, conv func(*sitter.Node) ast.NodeID) []ast.NodeID {
	items := []ast.NodeID{}
	seen := false
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch {
		case !ch.IsNamed():
			if ch.Type() == "," {
				if !seen {
					items = append(items, ast.NoNodeID)
				}
				seen = false
			}
		case ch.Type() == "comment":
		default:
			items = append(items, conv(ch))
			seen = true
		}
	}
	return items
}

func (c *converter) array(n *sitter.Node) ast.NodeID {
	return c.node(ast.ArrayExpression, n, &ast.Array{Elements: c.list(n, c.expression)})
}

func (c *converter) object(n *sitter.Node) ast.NodeID {
	d := &ast.Object{}
	for _, ch := range named(n) {
		d.Properties = append(d.Properties, c.property(ch))
	}
	return c.node(ast.ObjectExpression, n, d)
}

func (c *converter) property(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "pair":
		key, computed := c.propertyKey(n.ChildByFieldName("key"))
		return c.node(ast.Property, n, &ast.Prop{
			Key:      key,
			Value:    c.expression(n.ChildByFieldName("value")),
			Computed: computed,
		})
	case "shorthand_property_identifier":
		return c.node(ast.Property, n, &ast.Prop{
			Key:       c.ident(n),
			Value:     c.ident(n),
			Shorthand: true,
		})
	case "spread_element":
		return c.expression(n)
	case "method_definition":
		key, computed := c.propertyKey(n.ChildByFieldName("name"))
		kind := ast.MethodNormal
		switch {
		case hasToken(n, "get", "name"):
			kind = ast.MethodGet
		case hasToken(n, "set", "name"):
			kind = ast.MethodSet
		}
		return c.node(ast.Property, n, &ast.Prop{
			Key:      key,
			Value:    c.methodValue(n),
			Kind:     kind,
			Method:   kind == ast.MethodNormal,
			Computed: computed,
		})
	}
	c.fail(n, diag.PrsUnsupportedNode, "Unexpected token")
	return ast.NoNodeID
}

// propertyKey converts an object or class key; computed keys are unwrapped
// from their brackets.
func (c *converter) propertyKey(n *sitter.Node) (ast.NodeID, bool) {
	if n.Type() == "computed_property_name" {
		return c.expressions(firstNamed(n)), true
	}
	return c.expression(n), false
}

func (c *converter) call(n *sitter.Node) ast.NodeID {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")

	if args != nil && args.Type() == "template_string" {
		return c.node(ast.TaggedTemplateExpression, n, &ast.Tagged{
			Tag:   c.expression(fn),
			Quasi: c.template(args),
		})
	}
	if fn.Type() == "import" {
		src := ast.NoNodeID
		if args != nil {
			if first := firstNamed(args); first != nil {
				src = c.expression(first)
			}
		}
		return c.node(ast.ImportExpression, n, &ast.Argument{Argument: src})
	}

	d := &ast.Call{
		Callee:   c.expression(fn),
		Optional: c.hasOptionalChain(n, "arguments"),
	}
	if args != nil {
		d.Arguments = c.arguments(args)
	}
	return c.node(ast.CallExpression, n, d)
}

func (c *converter) arguments(n *sitter.Node) []ast.NodeID {
	var out []ast.NodeID
	for _, ch := range named(n) {
		out = append(out, c.expression(ch))
	}
	return out
}

func (c *converter) newExpr(n *sitter.Node) ast.NodeID {
	d := &ast.Call{Callee: c.expression(n.ChildByFieldName("constructor"))}
	if args := n.ChildByFieldName("arguments"); args != nil {
		d.Arguments = c.arguments(args)
	}
	return c.node(ast.NewExpression, n, d)
}

func (c *converter) metaProperty(n *sitter.Node) ast.NodeID {
	var parts []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if ch := n.Child(i); ch.Type() != "." && ch.Type() != "comment" {
			parts = append(parts, ch)
		}
	}
	if len(parts) != 2 {
		c.fail(n, diag.PrsUnsupportedNode, "Unexpected token")
	}
	mk := func(p *sitter.Node) ast.NodeID {
		return c.node(ast.Identifier, p, &ast.Ident{Name: p.Content(c.src)})
	}
	return c.node(ast.MetaProperty, n, &ast.Meta{Meta: mk(parts[0]), Property: mk(parts[1])})
}

func (c *converter) number(n *sitter.Node) ast.NodeID {
	raw := n.Content(c.src)
	value, bigint := numberValue(raw)
	kind := ast.LitNumber
	if bigint {
		kind = ast.LitBigInt
	}
	return c.node(ast.Literal, n, &ast.Lit{Kind: kind, Raw: raw, Value: value})
}

func (c *converter) stringLit(n *sitter.Node) ast.NodeID {
	raw := n.Content(c.src)
	body := ""
	if len(raw) >= 2 {
		body = raw[1 : len(raw)-1]
	}
	value, _ := cookString(body, false)
	return c.node(ast.Literal, n, &ast.Lit{Kind: ast.LitString, Raw: raw, Value: value})
}

func (c *converter) regex(n *sitter.Node) ast.NodeID {
	d := &ast.Lit{Kind: ast.LitRegExp, Raw: n.Content(c.src)}
	if p := n.ChildByFieldName("pattern"); p != nil {
		d.Pattern = p.Content(c.src)
	}
	if f := n.ChildByFieldName("flags"); f != nil {
		d.Flags = f.Content(c.src)
	}
	return c.node(ast.Literal, n, d)
}

// template splits a template string into quasis at its substitutions.
// Quasi ranges exclude the backticks and the `${` `}` delimiters.
func (c *converter) template(n *sitter.Node) ast.NodeID {
	d := &ast.Template{}
	pos := n.StartByte() + 1
	addQuasi := func(end uint32, tail bool) {
		raw := c.text[pos:end]
		cooked, _ := cookString(raw, true)
		d.Quasis = append(d.Quasis, c.nodeAt(ast.TemplateElement, pos, end, &ast.TemplateElem{
			Raw:    raw,
			Cooked: cooked,
			Tail:   tail,
		}))
	}
	for _, ch := range named(n) {
		if ch.Type() != "template_substitution" {
			continue
		}
		addQuasi(ch.StartByte(), false)
		d.Expressions = append(d.Expressions, c.expressions(firstNamed(ch)))
		pos = ch.EndByte()
	}
	addQuasi(n.EndByte()-1, true)
	return c.node(ast.TemplateLiteral, n, d)
}
