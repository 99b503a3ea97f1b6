package transform

import (
	"strings"

	"buble/internal/ast"
	"buble/internal/magic"
	"buble/internal/source"
	"buble/internal/target"
)

// program holds everything one compile shares: the tree, the edit buffer,
// the side tables and the per-program helper caches.
type program struct {
	file *source.File
	tree *ast.Tree
	code *magic.Buffer
	src  string
	opts Options
	t    target.Transforms

	root ast.NodeID
	meta []nodeState

	jsx         string
	jsxFragment string

	// prependAt is where program level helpers are inserted: the first
	// statement after the directive prologue.
	prependAt uint32

	templateObjects        map[string]string
	objectWithoutPropsName string

	indentExclusionNodes []ast.NodeID
	indentExclusions     []bool
}

func newProgram(file *source.File, tree *ast.Tree, opts Options) *program {
	src := tree.Source
	p := &program{
		file:            file,
		tree:            tree,
		code:            magic.New(src),
		src:             src,
		opts:            opts,
		t:               opts.Transforms,
		root:            tree.Root,
		jsx:             "React.createElement",
		jsxFragment:     "React.Fragment",
		templateObjects: make(map[string]string),
	}
	if opts.JSX != "" {
		p.jsx = opts.JSX
	}
	if opts.JSXPragma != "" {
		p.jsx = opts.JSXPragma
	}
	if opts.JSXFragment != "" {
		p.jsxFragment = opts.JSXFragment
	}
	return p
}

// augment wires parent links and depths, wraps single-statement bodies in
// synthetic blocks and records every node boundary as a source map location.
func (p *program) augment() {
	p.wrap(p.root, ast.NoNodeID, 0)

	p.meta = make([]nodeState, p.tree.Len()+1)

	p.prependAt = p.code.Len()
	for _, stmt := range p.statements(p.root) {
		if es := ast.As[*ast.ExprStmt](p.tree, stmt); es != nil && es.Directive != "" {
			continue
		}
		p.prependAt = p.start(stmt)
		break
	}
}

func (p *program) wrap(id, parent ast.NodeID, depth int32) {
	if !id.IsValid() {
		return
	}
	n := p.tree.Node(id)
	n.Parent = parent
	n.Depth = depth
	p.code.AddSourcemapLocation(n.Start)
	p.code.AddSourcemapLocation(n.End)

	switch d := n.Data.(type) {
	case *ast.If:
		d.Consequent = p.synthesizeBlock(d.Consequent)
	case *ast.For:
		d.Body = p.synthesizeBlock(d.Body)
	case *ast.ForIn:
		d.Body = p.synthesizeBlock(d.Body)
	case *ast.While:
		d.Body = p.synthesizeBlock(d.Body)
	case *ast.Function:
		if n.Kind == ast.ArrowFunctionExpression {
			d.Body = p.synthesizeBlock(d.Body)
		}
	}

	for _, child := range p.tree.Children(id) {
		p.wrap(child, id, depth+1)
	}
}

// synthesizeBlock wraps body in a block sharing its bounds. The arena may
// grow here, so node pointers taken before the call are stale after it.
func (p *program) synthesizeBlock(body ast.NodeID) ast.NodeID {
	if !body.IsValid() || p.tree.Kind(body) == ast.BlockStatement {
		return body
	}
	inner := p.tree.Node(body)
	start, end := inner.Start, inner.End
	block := p.tree.New(ast.BlockStatement, start, end, &ast.Block{Body: []ast.NodeID{body}})
	p.tree.Node(block).Synthetic = true
	return block
}

// computeIndentExclusions marks the bytes of string literals and template
// chunks, whose content must never be re-indented.
func (p *program) computeIndentExclusions() {
	p.indentExclusions = make([]bool, len(p.src)+1)
	for _, id := range p.indentExclusionNodes {
		for i := p.start(id); i < p.end(id); i++ {
			p.indentExclusions[i] = true
		}
	}
}

func (p *program) objectWithoutPropertiesHelper() string {
	if p.objectWithoutPropsName == "" {
		p.objectWithoutPropsName = p.rootScope().CreateIdentifier("objectWithoutProperties")
		p.code.PrependLeft(p.prependAt, "function "+p.objectWithoutPropsName+" (obj, exclude) { "+
			"var target = {}; for (var k in obj) "+
			"if (Object.prototype.hasOwnProperty.call(obj, k) && exclude.indexOf(k) === -1) "+
			"target[k] = obj[k]; return target; }\n")
	}
	return p.objectWithoutPropsName
}

// templateObject returns the frozen strings array for a tagged template,
// declared once per distinct set of cooked strings.
func (p *program) templateObject(cooked []string) string {
	quoted := make([]string, len(cooked))
	for i, s := range cooked {
		quoted[i] = jsonString(s)
	}
	key := "[" + strings.Join(quoted, ", ") + "]"
	if name, ok := p.templateObjects[key]; ok {
		return name
	}
	name := p.rootScope().CreateIdentifier("templateObject")
	p.code.PrependLeft(p.prependAt, "var "+name+" = Object.freeze("+key+");\n")
	p.templateObjects[key] = name
	return name
}

func (p *program) export() *Output {
	return &Output{
		Code: p.code.String(),
		Map: p.code.GenerateMap(magic.MapOptions{
			File:           p.opts.File,
			Source:         p.opts.Source,
			IncludeContent: p.opts.IncludeContent,
		}),
	}
}
