package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/testkit"
)

func parse(t *testing.T, src string) *ast.Tree {
	t.Helper()
	res, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return res.Tree
}

func body(t *testing.T, tree *ast.Tree) []ast.NodeID {
	t.Helper()
	return ast.As[*ast.ProgramData](tree, tree.Root).Body
}

func TestVariableDeclaration(t *testing.T) {
	tree := parse(t, "const x = 1;")
	stmts := body(t, tree)
	require.Len(t, stmts, 1)

	require.Equal(t, ast.VariableDeclaration, tree.Kind(stmts[0]))
	decl := ast.As[*ast.VarDecl](tree, stmts[0])
	require.Equal(t, "const", decl.Kind)
	require.Len(t, decl.Declarations, 1)

	d := ast.As[*ast.Declarator](tree, decl.Declarations[0])
	require.Equal(t, "x", tree.Name(d.ID))
	require.Equal(t, ast.Literal, tree.Kind(d.Init))
	require.Equal(t, "1", ast.As[*ast.Lit](tree, d.Init).Value)

	root := tree.Node(tree.Root)
	require.Equal(t, uint32(0), root.Start)
	require.Equal(t, uint32(12), root.End)
}

func TestForHead(t *testing.T) {
	src := "for (let i = 0; i < n; i++) {}"
	tree := parse(t, src)
	loop := ast.As[*ast.For](tree, body(t, tree)[0])

	require.Equal(t, ast.VariableDeclaration, tree.Kind(loop.Init))
	require.Equal(t, "let i = 0", tree.Text(loop.Init))
	require.Equal(t, ast.BinaryExpression, tree.Kind(loop.Test))
	require.Equal(t, ast.UpdateExpression, tree.Kind(loop.Update))
	require.Equal(t, ast.BlockStatement, tree.Kind(loop.Body))

	tree = parse(t, "for (;;) {}")
	loop = ast.As[*ast.For](tree, body(t, tree)[0])
	require.False(t, loop.Init.IsValid())
	require.False(t, loop.Test.IsValid())
	require.False(t, loop.Update.IsValid())
}

func TestForOfDeclaration(t *testing.T) {
	tree := parse(t, "for (const [a, b] of list) f(a);")
	stmt := body(t, tree)[0]
	require.Equal(t, ast.ForOfStatement, tree.Kind(stmt))

	loop := ast.As[*ast.ForIn](tree, stmt)
	require.Equal(t, ast.VariableDeclaration, tree.Kind(loop.Left))
	require.Equal(t, "const [a, b]", tree.Text(loop.Left))
	decl := ast.As[*ast.VarDecl](tree, loop.Left)
	require.Equal(t, "const", decl.Kind)
	id := ast.As[*ast.Declarator](tree, decl.Declarations[0]).ID
	require.Equal(t, ast.ArrayPattern, tree.Kind(id))
	require.Equal(t, "list", tree.Name(loop.Right))
}

func TestParenthesesArePreserved(t *testing.T) {
	tree := parse(t, "(a + b) * c;\nif (x) y();")
	stmts := body(t, tree)

	mul := ast.As[*ast.ExprStmt](tree, stmts[0]).Expression
	left := ast.As[*ast.Binary](tree, mul).Left
	require.Equal(t, ast.ParenthesizedExpression, tree.Kind(left))
	require.Equal(t, "(a + b)", tree.Text(left))
	require.Equal(t, ast.BinaryExpression, tree.Kind(tree.Unparenthesize(left)))

	cond := ast.As[*ast.If](tree, stmts[1])
	require.Equal(t, ast.Identifier, tree.Kind(cond.Test))
	require.Equal(t, ast.ExpressionStatement, tree.Kind(cond.Consequent))
}

func TestDirectives(t *testing.T) {
	tree := parse(t, "'use strict';\nfoo();\n'not a directive';")
	stmts := body(t, tree)
	require.Equal(t, "use strict", ast.As[*ast.ExprStmt](tree, stmts[0]).Directive)
	require.Empty(t, ast.As[*ast.ExprStmt](tree, stmts[2]).Directive)
}

func TestObjectProperties(t *testing.T) {
	tree := parse(t, "x = { a, b: 1, [c]: 2, m (y) { return y; }, ...rest };")
	assign := ast.As[*ast.ExprStmt](tree, body(t, tree)[0]).Expression
	obj := ast.As[*ast.Binary](tree, assign).Right
	props := ast.As[*ast.Object](tree, obj).Properties
	require.Len(t, props, 5)

	short := ast.As[*ast.Prop](tree, props[0])
	require.True(t, short.Shorthand)
	require.NotEqual(t, short.Key, short.Value)
	require.Equal(t, tree.Node(short.Key).Start, tree.Node(short.Value).Start)

	require.True(t, ast.As[*ast.Prop](tree, props[2]).Computed)
	require.Equal(t, "c", tree.Name(ast.As[*ast.Prop](tree, props[2]).Key))

	method := ast.As[*ast.Prop](tree, props[3])
	require.True(t, method.Method)
	require.Equal(t, ast.FunctionExpression, tree.Kind(method.Value))
	require.Equal(t, "(y) { return y; }", tree.Text(method.Value))

	require.Equal(t, ast.SpreadElement, tree.Kind(props[4]))
}

func TestArrayHoles(t *testing.T) {
	tree := parse(t, "[a, , b, ];")
	arr := ast.As[*ast.ExprStmt](tree, body(t, tree)[0]).Expression
	els := ast.As[*ast.Array](tree, arr).Elements
	require.Len(t, els, 3)
	require.Equal(t, "a", tree.Name(els[0]))
	require.False(t, els[1].IsValid())
	require.Equal(t, "b", tree.Name(els[2]))
}

func TestDestructuringPatterns(t *testing.T) {
	tree := parse(t, "const { a, b = 2, c: { d }, ...rest } = obj;")
	decl := ast.As[*ast.VarDecl](tree, body(t, tree)[0])
	id := ast.As[*ast.Declarator](tree, decl.Declarations[0]).ID
	require.Equal(t, ast.ObjectPattern, tree.Kind(id))

	props := ast.As[*ast.Object](tree, id).Properties
	require.Len(t, props, 4)
	withDefault := ast.As[*ast.Prop](tree, props[1])
	require.True(t, withDefault.Shorthand)
	require.Equal(t, ast.AssignmentPattern, tree.Kind(withDefault.Value))
	require.Equal(t, ast.ObjectPattern, tree.Kind(ast.As[*ast.Prop](tree, props[2]).Value))
	require.Equal(t, ast.RestElement, tree.Kind(props[3]))
}

func TestTemplateQuasis(t *testing.T) {
	src := "`a${b}c\\n`;"
	tree := parse(t, src)
	tpl := ast.As[*ast.ExprStmt](tree, body(t, tree)[0]).Expression
	require.Equal(t, ast.TemplateLiteral, tree.Kind(tpl))

	d := ast.As[*ast.Template](tree, tpl)
	require.Len(t, d.Quasis, 2)
	require.Len(t, d.Expressions, 1)

	first := ast.As[*ast.TemplateElem](tree, d.Quasis[0])
	require.Equal(t, "a", first.Raw)
	require.False(t, first.Tail)
	last := ast.As[*ast.TemplateElem](tree, d.Quasis[1])
	require.Equal(t, `c\n`, last.Raw)
	require.Equal(t, "c\n", last.Cooked)
	require.True(t, last.Tail)
	require.Equal(t, uint32(6), tree.Node(d.Quasis[1]).Start)
}

func TestTaggedTemplate(t *testing.T) {
	tree := parse(t, "tag`x`;")
	expr := ast.As[*ast.ExprStmt](tree, body(t, tree)[0]).Expression
	require.Equal(t, ast.TaggedTemplateExpression, tree.Kind(expr))
}

func TestClassMembers(t *testing.T) {
	tree := parse(t, "class A extends B { constructor () { super(); } static s () {} get g () { return 1; } }")
	cls := ast.As[*ast.Class](tree, body(t, tree)[0])
	require.Equal(t, "A", tree.Name(cls.ID))
	require.Equal(t, "B", tree.Name(cls.SuperClass))

	members := ast.As[*ast.Block](tree, cls.Body).Body
	require.Len(t, members, 3)
	require.Equal(t, ast.MethodConstructor, ast.As[*ast.Method](tree, members[0]).Kind)
	require.True(t, ast.As[*ast.Method](tree, members[1]).Static)
	require.Equal(t, ast.MethodGet, ast.As[*ast.Method](tree, members[2]).Kind)
}

func TestArrowFunctions(t *testing.T) {
	tree := parse(t, "a => a * 2;\n(x, y) => { return x; };")
	stmts := body(t, tree)

	short := ast.As[*ast.Function](tree, ast.As[*ast.ExprStmt](tree, stmts[0]).Expression)
	require.True(t, short.Expression)
	require.Len(t, short.Params, 1)

	long := ast.As[*ast.Function](tree, ast.As[*ast.ExprStmt](tree, stmts[1]).Expression)
	require.False(t, long.Expression)
	require.Len(t, long.Params, 2)
}

func TestJSX(t *testing.T) {
	src := "/** @jsx h */\nvar el = <div id=\"x\" {...props}>\n  hi {name}\n</div>;"
	res, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Equal(t, "h", res.JSXPragma)

	tree := res.Tree
	decl := ast.As[*ast.VarDecl](tree, body(t, tree)[0])
	el := ast.As[*ast.Declarator](tree, decl.Declarations[0]).Init
	require.Equal(t, ast.JSXElement, tree.Kind(el))

	d := ast.As[*ast.JSXElem](tree, el)
	open := ast.As[*ast.JSXOpening](tree, d.Opening)
	require.Equal(t, "div", tree.Name(open.Name))
	require.Len(t, open.Attributes, 2)
	require.Equal(t, ast.JSXAttribute, tree.Kind(open.Attributes[0]))
	require.Equal(t, ast.JSXSpreadAttribute, tree.Kind(open.Attributes[1]))

	require.Len(t, d.Children, 3)
	require.Equal(t, ast.JSXText, tree.Kind(d.Children[0]))
	require.Equal(t, "\n  hi ", ast.As[*ast.JSXTextData](tree, d.Children[0]).Value)
	require.Equal(t, ast.JSXExpressionContainer, tree.Kind(d.Children[1]))
	require.Equal(t, "\n", ast.As[*ast.JSXTextData](tree, d.Children[2]).Value)
	require.True(t, d.Closing.IsValid())

	require.Len(t, tree.Comments, 1)
	require.True(t, tree.Comments[0].Block)
}

// whitespace between the last child and the closing tag is a child of its
// own; the transform uses it to place the closing parenthesis
func TestJSXKeepsBlankLineChildren(t *testing.T) {
	tree := parse(t, "<div>\n  <img/>\n</div>;")
	el := ast.As[*ast.ExprStmt](tree, body(t, tree)[0]).Expression
	d := ast.As[*ast.JSXElem](tree, el)

	require.Len(t, d.Children, 3)
	require.Equal(t, ast.JSXText, tree.Kind(d.Children[0]))
	require.Equal(t, ast.JSXElement, tree.Kind(d.Children[1]))
	require.Equal(t, ast.JSXText, tree.Kind(d.Children[2]))
	require.Equal(t, "\n", ast.As[*ast.JSXTextData](tree, d.Children[2]).Value)
	require.Equal(t, uint32(len("<div>\n  <img/>")), tree.Node(d.Children[2]).Start)
	require.NoError(t, testkit.CheckSpanInvariants(tree))
}

func TestSelfClosingJSX(t *testing.T) {
	tree := parse(t, "<Foo.Bar />;")
	el := ast.As[*ast.ExprStmt](tree, body(t, tree)[0]).Expression
	d := ast.As[*ast.JSXElem](tree, el)
	require.False(t, d.Closing.IsValid())
	open := ast.As[*ast.JSXOpening](tree, d.Opening)
	require.True(t, open.SelfClosing)
	require.Equal(t, ast.JSXMemberExpression, tree.Kind(open.Name))
}

func TestSyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("var a = 1;\nfoo(;\n"))
	require.Error(t, err)

	var ce *diag.CompileError
	require.True(t, errors.As(err, &ce))
	require.Contains(t, ce.Message, "Unexpected")
	require.Equal(t, uint32(2), ce.Loc.Line)
	require.NotEmpty(t, ce.Snippet)
}

func TestCookString(t *testing.T) {
	cases := []struct {
		raw      string
		template bool
		want     string
		ok       bool
	}{
		{`plain`, false, "plain", true},
		{`a\nb`, false, "a\nb", true},
		{`\x41B\u{43}`, false, "ABC", true},
		{`😀`, false, "😀", true},
		{`\'q\'`, false, "'q'", true},
		{"line\\\ncontinued", false, "linecontinued", true},
		{`\101`, false, "A", true},
		{`\0`, true, "\x00", true},
		{`\01`, true, "\x01", false},
		{"a\r\nb", true, "a\nb", true},
	}
	for _, tc := range cases {
		got, ok := cookString(tc.raw, tc.template)
		require.Equal(t, tc.want, got, "raw %q", tc.raw)
		require.Equal(t, tc.ok, ok, "raw %q", tc.raw)
	}
}

func TestNumberValue(t *testing.T) {
	cases := map[string]string{
		"0b101":     "5",
		"0O17":      "15",
		"0xff":      "255",
		"1_000":     "1000",
		"017":       "15",
		"1.50":      "1.5",
		"1e21":      "1e+21",
		"0.0000001": "1e-7",
	}
	for raw, want := range cases {
		got, bigint := numberValue(raw)
		require.False(t, bigint)
		require.Equal(t, want, got, "raw %q", raw)
	}

	got, bigint := numberValue("10n")
	require.True(t, bigint)
	require.Equal(t, "10", got)
}

func TestSpanInvariants(t *testing.T) {
	sources := []string{
		"const x = 1;",
		"function f(a, b = 1) { return a + b; }",
		"class A extends B { m() { return super.m(); } }",
		"var o = { a, b: [1, ...c] };",
		"for (var i = 0; i < n; i++) { if (i) break; }",
		"var el = <div className=\"x\">{y}</div>;",
	}
	for _, src := range sources {
		tree := parse(t, src)
		require.NoError(t, testkit.CheckSpanInvariants(tree), src)
	}
}
