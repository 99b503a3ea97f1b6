// Package parser turns ECMAScript source (latest syntax plus JSX) into the
// arena-backed ESTree-shaped tree of package ast.
//
// Parsing itself is done by tree-sitter; this package converts the concrete
// syntax tree into ESTree nodes with acorn-compatible ranges, keeps explicit
// parentheses as ParenthesizedExpression nodes and collects comments.
package parser

import (
	"context"
	"fmt"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/source"
)

// Result is a parsed program.
type Result struct {
	Tree *ast.Tree
	// JSXPragma is the factory named by the first `@jsx name` comment.
	JSXPragma string
}

var jsxPragma = regexp.MustCompile(`@jsx\s+([^\s]+)`)

// Parse parses src as an anonymous module.
func Parse(ctx context.Context, src []byte) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.js", src)
	return ParseFile(ctx, fs.Get(id))
}

// ParseFile parses the content of file. Syntax errors are returned as
// *diag.CompileError located inside file.
func ParseFile(ctx context.Context, file *source.File) (res *Result, err error) {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())

	cst, err := p.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	defer cst.Close()

	c := &converter{
		file: file,
		src:  file.Content,
		text: string(file.Content),
	}
	c.tree = ast.NewTree(c.text)

	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*diag.CompileError)
			if !ok {
				panic(r)
			}
			res, err = nil, ce
		}
	}()

	root := cst.RootNode()
	c.scan(root)
	if c.syntaxErr != nil {
		return nil, c.syntaxErr
	}

	c.tree.Root = c.program(root)

	res = &Result{Tree: c.tree}
	for _, cm := range c.tree.Comments {
		if m := jsxPragma.FindStringSubmatch(cm.Text); m != nil {
			res.JSXPragma = m[1]
			break
		}
	}
	return res, nil
}

type converter struct {
	file *source.File
	src  []byte
	text string
	tree *ast.Tree

	syntaxErr *diag.CompileError
}

func (c *converter) span(start, end uint32) source.Span {
	return source.NewSpan(c.file.ID, start, end)
}

// fail aborts the conversion with a located error.
func (c *converter) fail(n *sitter.Node, code diag.Code, msg string) {
	panic(diag.NewCompileError(c.file, code, c.span(n.StartByte(), n.EndByte()), msg))
}

// scan collects comments and records the first syntax error of the tree.
func (c *converter) scan(n *sitter.Node) {
	switch {
	case n.Type() == "comment":
		c.addComment(n)
		return
	case c.syntaxErr == nil && n.Type() == "ERROR":
		msg := "Unexpected token"
		if n.StartByte() >= uint32(len(c.src)) {
			msg = "Unexpected end of input"
		}
		c.syntaxErr = diag.NewCompileError(c.file, diag.PrsUnexpectedToken, c.span(n.StartByte(), n.StartByte()+1), msg)
	case c.syntaxErr == nil && n.IsMissing():
		c.syntaxErr = diag.NewCompileError(c.file, diag.PrsMissingToken, c.span(n.StartByte(), n.StartByte()),
			fmt.Sprintf("Unexpected token, expected %q", n.Type()))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.scan(n.Child(i))
	}
}

func (c *converter) addComment(n *sitter.Node) {
	raw := n.Content(c.src)
	cm := ast.Comment{Start: n.StartByte(), End: n.EndByte()}
	switch {
	case len(raw) >= 4 && raw[:2] == "/*":
		cm.Block = true
		cm.Text = raw[2 : len(raw)-2]
	case len(raw) >= 2:
		cm.Text = raw[2:]
	}
	c.tree.Comments = append(c.tree.Comments, cm)
}

// named returns the named children of n, comments excluded.
func named(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() != "comment" {
			out = append(out, ch)
		}
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if ch := n.NamedChild(i); ch.Type() != "comment" {
			return ch
		}
	}
	return nil
}

// hasToken reports whether n has an anonymous child token tok before its
// child named stop (or anywhere when stop is empty).
func hasToken(n *sitter.Node, tok, stop string) bool {
	var stopNode *sitter.Node
	if stop != "" {
		stopNode = n.ChildByFieldName(stop)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if stopNode != nil && ch.StartByte() >= stopNode.StartByte() {
			return false
		}
		if !ch.IsNamed() && ch.Type() == tok {
			return true
		}
	}
	return false
}

func (c *converter) node(kind ast.Kind, n *sitter.Node, data ast.Data) ast.NodeID {
	return c.tree.New(kind, n.StartByte(), n.EndByte(), data)
}

func (c *converter) nodeAt(kind ast.Kind, start, end uint32, data ast.Data) ast.NodeID {
	return c.tree.New(kind, start, end, data)
}

func (c *converter) ident(n *sitter.Node) ast.NodeID {
	return c.node(ast.Identifier, n, &ast.Ident{Name: n.Content(c.src)})
}

func (c *converter) program(root *sitter.Node) ast.NodeID {
	body := c.statements(root)
	return c.nodeAt(ast.Program, 0, uint32(len(c.src)), &ast.ProgramData{Body: body})
}

// statements converts the statement children of n and marks the directive
// prologue.
func (c *converter) statements(n *sitter.Node) []ast.NodeID {
	var body []ast.NodeID
	prologue := true
	for _, ch := range named(n) {
		if ch.Type() == "hash_bang_line" {
			continue
		}
		id := c.statement(ch)
		if prologue {
			prologue = c.markDirective(id)
		}
		body = append(body, id)
	}
	return body
}

func (c *converter) markDirective(id ast.NodeID) bool {
	stmt := ast.As[*ast.ExprStmt](c.tree, id)
	if stmt == nil {
		return false
	}
	lit := ast.As[*ast.Lit](c.tree, stmt.Expression)
	if lit == nil || lit.Kind != ast.LitString || c.tree.Kind(stmt.Expression) != ast.Literal {
		return false
	}
	stmt.Directive = lit.Raw[1 : len(lit.Raw)-1]
	return true
}
