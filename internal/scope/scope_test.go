package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/ast"
)

func ident(tree *ast.Tree, name string) ast.NodeID {
	return tree.New(ast.Identifier, 0, uint32(len(name)), &ast.Ident{Name: name})
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"ref":           "ref",
		"a b":           "ab",
		"foo[bar]":      "foo_bar",
		"my-module.js":  "my_module_js",
		"__a__b":        "_a__b",
		"défaut":        "d_faut",
		"$el":           "$el",
		"this.props[0]": "this_props_0",
	}
	for in, want := range cases {
		require.Equal(t, want, Sanitize(in), "input %q", in)
	}
}

func TestCreateIdentifierAvoidsCollisions(t *testing.T) {
	tree := ast.NewTree("")
	root := New(Options{Tree: tree})

	root.AddDeclaration(ident(tree, "ref"), KindVar)
	require.Equal(t, "ref$1", root.CreateIdentifier("ref"))
	require.Equal(t, "ref$2", root.CreateIdentifier("ref"))

	root.AddReference(ident(tree, "list"))
	root.Consolidate()
	require.Equal(t, "list$1", root.CreateIdentifier("list"))

	require.Equal(t, "this$1", root.CreateIdentifier("this"))
	require.Equal(t, "arguments$1", root.CreateIdentifier("arguments"))
	require.Equal(t, "i", root.CreateIdentifier("i"))
}

func TestCreateDeclarationCallsDeclare(t *testing.T) {
	tree := ast.NewTree("")
	var declared []string
	s := New(Options{Tree: tree, Declare: func(name string) { declared = append(declared, name) }})
	require.Equal(t, "obj", s.CreateDeclaration("obj"))
	require.Equal(t, "obj$1", s.CreateDeclaration("obj"))
	require.Equal(t, []string{"obj", "obj$1"}, declared)
}

func TestConsolidateResolvesForwardReferences(t *testing.T) {
	tree := ast.NewTree("")
	root := New(Options{Tree: tree})
	fn := New(Options{Parent: root})

	use := ident(tree, "x")
	free := ident(tree, "y")
	fn.AddReference(use)
	fn.AddReference(free)
	fn.AddDeclaration(ident(tree, "x"), KindVar)
	fn.Consolidate()

	require.Len(t, fn.Declared("x").Instances, 1)
	require.Equal(t, use, fn.Declared("x").Instances[0])
	require.True(t, fn.HasReference("y"))
	require.False(t, fn.HasReference("x"))

	// y travelled to the root queue
	root.AddDeclaration(ident(tree, "y"), KindFunction)
	root.Consolidate()
	require.Equal(t, []ast.NodeID{free}, root.Declared("y").Instances)

	// after consolidation references resolve immediately
	late := ident(tree, "y")
	root.AddReference(late)
	require.Len(t, root.Declared("y").Instances, 2)
}

func TestBlockScopes(t *testing.T) {
	tree := ast.NewTree("")
	fn := New(Options{Tree: tree})
	block := New(Options{Parent: fn, Block: true})
	inner := New(Options{Parent: block, Block: true})

	require.Same(t, fn, block.FunctionScope)
	require.Same(t, fn, inner.FunctionScope)

	block.AddDeclaration(ident(tree, "a"), KindLet)
	inner.AddDeclaration(ident(tree, "b"), KindConst)
	inner.AddDeclaration(ident(tree, "a"), KindLet)

	require.Equal(t, []string{"a", "b"}, fn.BlockScopedNames())
	require.Len(t, fn.BlockScopedDeclarations("a"), 2)
	require.Nil(t, block.BlockScopedNames())

	require.True(t, inner.Contains("a"))
	require.False(t, fn.Contains("a"))

	block.Declared("a").Name = "a$1"
	require.Equal(t, "a$1", block.ResolveName("a"))
	require.Equal(t, "a", inner.ResolveName("a"))
	require.Equal(t, "zzz", inner.ResolveName("zzz"))
}

func TestExtractNames(t *testing.T) {
	// [a, {b: c, ...d} = {}, ...e]
	tree := ast.NewTree("")
	a, c, d, e := ident(tree, "a"), ident(tree, "c"), ident(tree, "d"), ident(tree, "e")
	prop := tree.New(ast.Property, 0, 0, &ast.Prop{Key: ident(tree, "b"), Value: c})
	rest := tree.New(ast.RestElement, 0, 0, &ast.Argument{Argument: d})
	obj := tree.New(ast.ObjectPattern, 0, 0, &ast.Object{Properties: []ast.NodeID{prop, rest}})
	def := tree.New(ast.AssignmentPattern, 0, 0, &ast.AssignPattern{Left: obj, Right: tree.New(ast.ObjectExpression, 0, 0, nil)})
	restE := tree.New(ast.RestElement, 0, 0, &ast.Argument{Argument: e})
	arr := tree.New(ast.ArrayPattern, 0, 0, &ast.Array{Elements: []ast.NodeID{a, ast.NoNodeID, def, restE}})

	require.Equal(t, []ast.NodeID{a, c, d, e}, ExtractNames(tree, arr))
}

func TestDeclKind(t *testing.T) {
	require.Equal(t, "for.let", KindForLet.String())
	require.Equal(t, KindConst, KindFromVar("const"))
	require.Equal(t, KindVar, KindFromVar("var"))
	require.True(t, KindClass.BlockScoped())
	require.False(t, KindParam.BlockScoped())
}
