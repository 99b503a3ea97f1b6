package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"buble/internal/ast"
	"buble/internal/diag"
)

func (c *converter) statement(n *sitter.Node) ast.NodeID {
	switch n.Type() {
	case "expression_statement":
		return c.node(ast.ExpressionStatement, n, &ast.ExprStmt{Expression: c.expressions(firstNamed(n))})
	case "variable_declaration", "lexical_declaration":
		return c.varDecl(n)
	case "statement_block":
		return c.block(n)
	case "empty_statement":
		return c.node(ast.EmptyStatement, n, nil)
	case "debugger_statement":
		return c.node(ast.DebuggerStatement, n, nil)
	case "if_statement":
		return c.ifStmt(n)
	case "switch_statement":
		return c.switchStmt(n)
	case "for_statement":
		return c.forStmt(n)
	case "for_in_statement":
		return c.forInStmt(n)
	case "while_statement":
		return c.node(ast.WhileStatement, n, &ast.While{
			Test: c.condition(n.ChildByFieldName("condition")),
			Body: c.statement(n.ChildByFieldName("body")),
		})
	case "do_statement":
		return c.node(ast.DoWhileStatement, n, &ast.While{
			Body: c.statement(n.ChildByFieldName("body")),
			Test: c.condition(n.ChildByFieldName("condition")),
		})
	case "try_statement":
		return c.tryStmt(n)
	case "return_statement":
		return c.node(ast.ReturnStatement, n, &ast.Argument{Argument: c.optExpressions(firstNamed(n))})
	case "throw_statement":
		return c.node(ast.ThrowStatement, n, &ast.Argument{Argument: c.optExpressions(firstNamed(n))})
	case "break_statement":
		return c.node(ast.BreakStatement, n, &ast.Jump{Label: c.optIdent(n.ChildByFieldName("label"))})
	case "continue_statement":
		return c.node(ast.ContinueStatement, n, &ast.Jump{Label: c.optIdent(n.ChildByFieldName("label"))})
	case "labeled_statement":
		return c.node(ast.LabeledStatement, n, &ast.Labeled{
			Label: c.ident(n.ChildByFieldName("label")),
			Body:  c.statement(n.ChildByFieldName("body")),
		})
	case "with_statement":
		return c.node(ast.WithStatement, n, &ast.With{
			Object: c.condition(n.ChildByFieldName("object")),
			Body:   c.statement(n.ChildByFieldName("body")),
		})
	case "function_declaration", "generator_function_declaration":
		return c.function(ast.FunctionDeclaration, n)
	case "class_declaration":
		return c.class(ast.ClassDeclaration, n)
	case "import_statement":
		return c.importDecl(n)
	case "export_statement":
		return c.exportDecl(n)
	}
	c.fail(n, diag.PrsUnsupportedNode, "Unexpected token")
	return ast.NoNodeID
}

func (c *converter) optIdent(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	return c.ident(n)
}

func (c *converter) block(n *sitter.Node) ast.NodeID {
	return c.node(ast.BlockStatement, n, &ast.Block{Body: c.statements(n)})
}

// condition unwraps the syntactic parentheses of if/while/switch/with heads.
func (c *converter) condition(n *sitter.Node) ast.NodeID {
	if n.Type() == "parenthesized_expression" {
		return c.expressions(firstNamed(n))
	}
	return c.expressions(n)
}

func (c *converter) varDecl(n *sitter.Node) ast.NodeID {
	kind := "var"
	if k := n.ChildByFieldName("kind"); k != nil {
		kind = k.Type()
	} else if first := n.Child(0); first != nil && !first.IsNamed() {
		kind = first.Type()
	}

	d := &ast.VarDecl{Kind: kind}
	for _, ch := range named(n) {
		if ch.Type() != "variable_declarator" {
			continue
		}
		init := ast.NoNodeID
		if v := ch.ChildByFieldName("value"); v != nil {
			init = c.expression(v)
		}
		d.Declarations = append(d.Declarations, c.node(ast.VariableDeclarator, ch, &ast.Declarator{
			ID:   c.pattern(ch.ChildByFieldName("name")),
			Init: init,
		}))
	}
	return c.node(ast.VariableDeclaration, n, d)
}

func (c *converter) ifStmt(n *sitter.Node) ast.NodeID {
	d := &ast.If{
		Test:       c.condition(n.ChildByFieldName("condition")),
		Consequent: c.statement(n.ChildByFieldName("consequence")),
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if alt.Type() == "else_clause" {
			alt = firstNamed(alt)
		}
		d.Alternate = c.statement(alt)
	}
	return c.node(ast.IfStatement, n, d)
}

func (c *converter) switchStmt(n *sitter.Node) ast.NodeID {
	d := &ast.Switch{Discriminant: c.condition(n.ChildByFieldName("value"))}
	for _, ch := range named(n.ChildByFieldName("body")) {
		cs := &ast.Case{}
		if ch.Type() == "switch_case" {
			cs.Test = c.expressions(ch.ChildByFieldName("value"))
		}
		afterColon := false
		for i := 0; i < int(ch.ChildCount()); i++ {
			part := ch.Child(i)
			if !part.IsNamed() {
				if part.Type() == ":" {
					afterColon = true
				}
				continue
			}
			if afterColon && part.Type() != "comment" {
				cs.Consequent = append(cs.Consequent, c.statement(part))
			}
		}
		d.Cases = append(d.Cases, c.node(ast.SwitchCase, ch, cs))
	}
	return c.node(ast.SwitchStatement, n, d)
}

// forStmt reads the three head sections by position, which works for both
// grammar shapes of the head (statement nodes or bare expressions with
// separate semicolons).
func (c *converter) forStmt(n *sitter.Node) ast.NodeID {
	d := &ast.For{}
	body := n.ChildByFieldName("body")
	section := 0
	inHead := false
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if n.FieldNameForChild(i) == "body" {
			break
		}
		switch {
		case !ch.IsNamed():
			switch ch.Type() {
			case "(":
				inHead = true
			case ";":
				section++
			case ")":
				inHead = false
			}
		case !inHead || ch.Type() == "comment":
		case ch.Type() == "empty_statement":
			section++
		case ch.Type() == "variable_declaration" || ch.Type() == "lexical_declaration":
			d.Init = c.headDecl(ch)
			section++
		case ch.Type() == "expression_statement":
			c.setForSection(d, section, c.expressions(firstNamed(ch)))
			section++
		default:
			c.setForSection(d, section, c.expressions(ch))
		}
	}
	d.Body = c.statement(body)
	return c.node(ast.ForStatement, n, d)
}

func (c *converter) setForSection(d *ast.For, section int, id ast.NodeID) {
	switch section {
	case 0:
		d.Init = id
	case 1:
		d.Test = id
	default:
		d.Update = id
	}
}

// headDecl converts a declaration in a for head; acorn ranges exclude the
// terminating semicolon.
func (c *converter) headDecl(n *sitter.Node) ast.NodeID {
	id := c.varDecl(n)
	node := c.tree.Node(id)
	if node.End > node.Start && c.text[node.End-1] == ';' {
		node.End--
	}
	return id
}

func (c *converter) forInStmt(n *sitter.Node) ast.NodeID {
	kind := ast.ForInStatement
	if op := n.ChildByFieldName("operator"); op != nil && op.Type() == "of" {
		kind = ast.ForOfStatement
	}

	left := n.ChildByFieldName("left")
	var leftID ast.NodeID
	if k := n.ChildByFieldName("kind"); k != nil {
		target := c.pattern(left)
		end := left.EndByte()
		init := ast.NoNodeID
		if v := n.ChildByFieldName("value"); v != nil {
			init = c.expression(v)
			end = v.EndByte()
		}
		decl := c.nodeAt(ast.VariableDeclarator, left.StartByte(), end, &ast.Declarator{ID: target, Init: init})
		leftID = c.nodeAt(ast.VariableDeclaration, k.StartByte(), end, &ast.VarDecl{
			Kind:         k.Type(),
			Declarations: []ast.NodeID{decl},
		})
	} else {
		leftID = c.pattern(left)
	}

	return c.node(kind, n, &ast.ForIn{
		Left:  leftID,
		Right: c.expressions(n.ChildByFieldName("right")),
		Body:  c.statement(n.ChildByFieldName("body")),
		Await: hasToken(n, "await", "left"),
	})
}

func (c *converter) tryStmt(n *sitter.Node) ast.NodeID {
	d := &ast.Try{Block: c.block(n.ChildByFieldName("body"))}
	if h := n.ChildByFieldName("handler"); h != nil {
		param := ast.NoNodeID
		if p := h.ChildByFieldName("parameter"); p != nil {
			param = c.pattern(p)
		}
		d.Handler = c.node(ast.CatchClause, h, &ast.Catch{
			Param: param,
			Body:  c.block(h.ChildByFieldName("body")),
		})
	}
	if f := n.ChildByFieldName("finalizer"); f != nil {
		d.Finalizer = c.block(f.ChildByFieldName("body"))
	}
	return c.node(ast.TryStatement, n, d)
}
