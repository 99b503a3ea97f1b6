package ast

import (
	"fmt"
	"strings"
)

// Comment is a source comment collected by the parser.
type Comment struct {
	Start uint32
	End   uint32
	Text  string // without the comment delimiters
	Block bool
}

// Tree owns the arena of nodes produced for one source text.
type Tree struct {
	Source   string
	Root     NodeID
	Comments []Comment
	nodes    *Arena[Node]
}

// NewTree creates an empty tree for source.
func NewTree(source string) *Tree {
	return &Tree{
		Source: source,
		nodes:  NewArena[Node](uint(len(source)/4 + 16)),
	}
}

// New allocates a node and returns its handle.
func (t *Tree) New(kind Kind, start, end uint32, data Data) NodeID {
	if data == nil {
		data = NewData(kind)
	}
	return NodeID(t.nodes.Allocate(Node{Kind: kind, Start: start, End: end, Data: data}))
}

// Node returns the node for id, or nil for NoNodeID.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

// Kind returns the kind of id, Invalid for NoNodeID.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return Invalid
}

// Is reports whether id has one of the given kinds.
func (t *Tree) Is(id NodeID, kinds ...Kind) bool {
	k := t.Kind(id)
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// As returns the payload of id as T, or the zero T when the payload has another type.
func As[T Data](t *Tree, id NodeID) T {
	var zero T
	n := t.Node(id)
	if n == nil {
		return zero
	}
	d, ok := n.Data.(T)
	if !ok {
		return zero
	}
	return d
}

// Name returns the identifier name of id, or "" when id is not an identifier.
func (t *Tree) Name(id NodeID) string {
	if d := As[*Ident](t, id); d != nil {
		return d.Name
	}
	return ""
}

// Text returns the original source text covered by id.
func (t *Tree) Text(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	return t.Source[n.Start:n.End]
}

// Children returns the non-empty children of id in slot order.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil || n.Data == nil {
		return nil
	}
	return n.Data.appendChildren(nil)
}

// Parent returns the parent of id.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Ancestor walks level parents up; NoNodeID when the root is passed.
func (t *Tree) Ancestor(id NodeID, level int) NodeID {
	for ; level > 0 && id.IsValid(); level-- {
		id = t.Parent(id)
	}
	return id
}

// Contains reports whether id is ancestor or a descendant of it.
func (t *Tree) Contains(ancestor, id NodeID) bool {
	for id.IsValid() {
		if id == ancestor {
			return true
		}
		id = t.Parent(id)
	}
	return false
}

// FindNearest returns the closest node, starting at id itself, whose kind is
// one of kinds.
func (t *Tree) FindNearest(id NodeID, kinds ...Kind) NodeID {
	for id.IsValid() {
		if t.Is(id, kinds...) {
			return id
		}
		id = t.Parent(id)
	}
	return NoNodeID
}

// UnparenthesizedParent skips ParenthesizedExpression wrappers above id.
func (t *Tree) UnparenthesizedParent(id NodeID) NodeID {
	p := t.Parent(id)
	for p.IsValid() && t.Kind(p) == ParenthesizedExpression {
		p = t.Parent(p)
	}
	return p
}

// Unparenthesize strips ParenthesizedExpression wrappers from id.
func (t *Tree) Unparenthesize(id NodeID) NodeID {
	for t.Kind(id) == ParenthesizedExpression {
		id = As[*Paren](t, id).Expression
	}
	return id
}

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, child := range t.Children(id) {
		t.Walk(child, fn)
	}
}

// Dump renders the subtree of id as an indented outline for debugging and tests.
func (t *Tree) Dump(id NodeID) string {
	var sb strings.Builder
	t.dump(&sb, id, 0)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID, indent int) {
	n := t.Node(id)
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(sb, "%s %d-%d", n.Kind, n.Start, n.End)
	switch d := n.Data.(type) {
	case *Ident:
		fmt.Fprintf(sb, " %q", d.Name)
	case *Lit:
		fmt.Fprintf(sb, " %s", d.Raw)
	case *Binary:
		fmt.Fprintf(sb, " %s", d.Operator)
	case *Unary:
		fmt.Fprintf(sb, " %s", d.Operator)
	case *VarDecl:
		fmt.Fprintf(sb, " %s", d.Kind)
	}
	if n.Synthetic {
		sb.WriteString(" synthetic")
	}
	sb.WriteByte('\n')
	for _, child := range t.Children(id) {
		t.dump(sb, child, indent+1)
	}
}
