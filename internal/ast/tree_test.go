package ast

import (
	"fmt"
	"strings"
	"testing"
)

func TestEveryKindHasPayload(t *testing.T) {
	for _, k := range Kinds() {
		if NewData(k) == nil {
			t.Fatalf("kind %s has no payload type", k)
		}
		if k.String() == "" || k.String() == "Kind(?)" {
			t.Fatalf("kind %d has no name", k)
		}
	}
}

// slot tables and payload enumerations must agree on arity for fully
// populated nodes
func TestSlotsMatchChildren(t *testing.T) {
	tree := NewTree("")
	leaf := func() NodeID { return tree.New(Identifier, 0, 0, &Ident{Name: "x"}) }

	cases := map[Kind]Data{
		IfStatement:       &If{Test: leaf(), Consequent: leaf(), Alternate: leaf()},
		ForStatement:      &For{Init: leaf(), Test: leaf(), Update: leaf(), Body: leaf()},
		CatchClause:       &Catch{Param: leaf(), Body: leaf()},
		MemberExpression:  &Member{Object: leaf(), Property: leaf()},
		AssignmentPattern: &AssignPattern{Left: leaf(), Right: leaf()},
		TryStatement:      &Try{Block: leaf(), Handler: leaf(), Finalizer: leaf()},
	}
	for kind, data := range cases {
		id := tree.New(kind, 0, 0, data)
		if got, want := len(tree.Children(id)), len(Slots(kind)); got != want {
			t.Fatalf("%s: %d children, %d slots", kind, got, want)
		}
	}
}

func TestNavigation(t *testing.T) {
	src := "(a)"
	tree := NewTree(src)
	a := tree.New(Identifier, 1, 2, &Ident{Name: "a"})
	paren := tree.New(ParenthesizedExpression, 0, 3, &Paren{Expression: a})
	stmt := tree.New(ExpressionStatement, 0, 3, &ExprStmt{Expression: paren})
	prog := tree.New(Program, 0, 3, &ProgramData{Body: []NodeID{stmt}})
	tree.Root = prog
	tree.Node(a).Parent = paren
	tree.Node(paren).Parent = stmt
	tree.Node(stmt).Parent = prog

	if tree.UnparenthesizedParent(a) != stmt {
		t.Fatalf("UnparenthesizedParent should skip the parentheses")
	}
	if tree.Unparenthesize(paren) != a {
		t.Fatalf("Unparenthesize should reach the identifier")
	}
	if tree.Ancestor(a, 3) != prog || tree.Ancestor(a, 4).IsValid() {
		t.Fatalf("Ancestor mismatch")
	}
	if !tree.Contains(stmt, a) || tree.Contains(a, stmt) {
		t.Fatalf("Contains mismatch")
	}
	if tree.FindNearest(a, ExpressionStatement, Program) != stmt {
		t.Fatalf("FindNearest mismatch")
	}
	if tree.Text(paren) != "(a)" || tree.Name(a) != "a" {
		t.Fatalf("Text/Name mismatch")
	}

	var visited []string
	tree.Walk(prog, func(id NodeID) bool {
		visited = append(visited, tree.Kind(id).String())
		return true
	})
	if got := strings.Join(visited, ","); got != "Program,ExpressionStatement,ParenthesizedExpression,Identifier" {
		t.Fatalf("unexpected walk order %s", got)
	}

	dump := tree.Dump(prog)
	if !strings.Contains(dump, fmt.Sprintf("    Identifier 1-2 %q", "a")) {
		t.Fatalf("unexpected dump:\n%s", dump)
	}
}

// only object and array patterns unpack a value; plain and member targets
// are still binding targets
func TestDestructuringKinds(t *testing.T) {
	for _, k := range []Kind{ObjectPattern, ArrayPattern} {
		if !k.IsDestructuring() || !k.IsPattern() {
			t.Errorf("%s should destructure", k)
		}
	}
	for _, k := range []Kind{Identifier, MemberExpression, AssignmentPattern, RestElement} {
		if k.IsDestructuring() {
			t.Errorf("%s must not destructure", k)
		}
		if !k.IsPattern() {
			t.Errorf("%s is a binding target", k)
		}
	}
}
