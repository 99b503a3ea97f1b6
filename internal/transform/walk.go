package transform

import (
	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/scope"
)

func (p *program) kind(id ast.NodeID) ast.Kind     { return p.tree.Kind(id) }
func (p *program) start(id ast.NodeID) uint32      { return p.tree.Node(id).Start }
func (p *program) end(id ast.NodeID) uint32        { return p.tree.Node(id).End }
func (p *program) parent(id ast.NodeID) ast.NodeID { return p.tree.Parent(id) }
func (p *program) depth(id ast.NodeID) int32       { return p.tree.Node(id).Depth }
func (p *program) synthetic(id ast.NodeID) bool    { return p.tree.Node(id).Synthetic }
func (p *program) name(id ast.NodeID) string       { return p.tree.Name(id) }
func (p *program) text(id ast.NodeID) string       { return p.tree.Text(id) }

func (p *program) isBlock(id ast.NodeID) bool {
	k := p.kind(id)
	return k == ast.Program || k == ast.BlockStatement
}

// statements returns the statement list of a block or the program.
func (p *program) statements(id ast.NodeID) []ast.NodeID {
	switch d := p.tree.Node(id).Data.(type) {
	case *ast.ProgramData:
		return d.Body
	case *ast.Block:
		return d.Body
	}
	return nil
}

func (p *program) nearest(id ast.NodeID, match func(ast.Kind) bool) ast.NodeID {
	for id.IsValid() {
		if match(p.kind(id)) {
			return id
		}
		id = p.parent(id)
	}
	return ast.NoNodeID
}

func (p *program) nearestLoop(id ast.NodeID) ast.NodeID {
	return p.nearest(id, ast.Kind.IsLoop)
}

func (p *program) nearestFunction(id ast.NodeID) ast.NodeID {
	return p.nearest(id, ast.Kind.IsFunction)
}

// nearestStatement finds the closest statement or declaration.
func (p *program) nearestStatement(id ast.NodeID) ast.NodeID {
	return p.nearest(id, isStatementKind)
}

func isStatementKind(k ast.Kind) bool {
	switch k {
	case ast.ExpressionStatement, ast.BlockStatement, ast.EmptyStatement, ast.DebuggerStatement,
		ast.WithStatement, ast.ReturnStatement, ast.LabeledStatement, ast.BreakStatement,
		ast.ContinueStatement, ast.IfStatement, ast.SwitchStatement, ast.ThrowStatement,
		ast.TryStatement, ast.WhileStatement, ast.DoWhileStatement, ast.ForStatement,
		ast.ForInStatement, ast.ForOfStatement, ast.FunctionDeclaration, ast.VariableDeclaration,
		ast.ClassDeclaration, ast.ImportDeclaration, ast.ExportNamedDeclaration,
		ast.ExportDefaultDeclaration, ast.ExportAllDeclaration:
		return true
	}
	return false
}

// loopBody returns the body block of a loop statement.
func (p *program) loopBody(id ast.NodeID) ast.NodeID {
	switch d := p.tree.Node(id).Data.(type) {
	case *ast.For:
		return d.Body
	case *ast.ForIn:
		return d.Body
	case *ast.While:
		return d.Body
	}
	return ast.NoNodeID
}

// findScope returns the scope id belongs to. With functionScope set it skips
// block scopes and returns the enclosing function (or program) scope.
func (p *program) findScope(id ast.NodeID, functionScope bool) *scope.Scope {
	for id.IsValid() {
		st := &p.meta[id]
		switch p.kind(id) {
		case ast.Program, ast.BlockStatement:
			if st.block != nil && (!functionScope || st.block.isFunctionBlock) {
				return st.block.scope
			}
		case ast.CatchClause:
			if !functionScope && st.catchScope != nil {
				return st.catchScope
			}
		case ast.ForStatement, ast.ForInStatement, ast.ForOfStatement:
			if !functionScope && st.loop != nil && st.loop.scope != nil {
				return st.loop.scope
			}
		case ast.WhileStatement, ast.DoWhileStatement:
			if !functionScope && st.loop != nil && st.loop.createdScope {
				return p.blockOf(p.loopBody(id)).scope
			}
		case ast.Identifier:
			if s := p.identifierScope(id); s != nil {
				return s
			}
		}
		id = p.parent(id)
	}
	return nil
}

// identifierScope handles identifiers that belong to the scope of the
// function body rather than to the scope around the function.
func (p *program) identifierScope(id ast.NodeID) *scope.Scope {
	parent := p.parent(id)
	switch p.kind(parent) {
	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpression:
		fn := ast.As[*ast.Function](p.tree, parent)
		if p.kind(parent) == ast.FunctionExpression && fn.ID == id {
			return p.blockOf(fn.Body).scope
		}
		for _, param := range fn.Params {
			if param == id {
				return p.blockOf(fn.Body).scope
			}
		}
	}
	return nil
}

// findLexicalBoundary returns the block that binds `this` and `arguments`
// for id: the program or the body of a non-arrow function.
func (p *program) findLexicalBoundary(id ast.NodeID) ast.NodeID {
	for id.IsValid() {
		if p.isBlock(id) {
			parent := p.parent(id)
			if !parent.IsValid() || p.kind(parent) == ast.FunctionDeclaration || p.kind(parent) == ast.FunctionExpression {
				return id
			}
		}
		id = p.parent(id)
	}
	return p.root
}

func (p *program) initialiseAll(ids []ast.NodeID) {
	for _, id := range ids {
		p.initialise(id)
	}
}

func (p *program) initialiseChildren(id ast.NodeID) {
	p.initialiseAll(p.tree.Children(id))
}

func (p *program) transpileAll(ids []ast.NodeID) {
	for _, id := range ids {
		p.transpile(id)
	}
}

func (p *program) transpileChildren(id ast.NodeID) {
	p.transpileAll(p.tree.Children(id))
}

// initialise is the analysis pass: scopes, declarations, references and
// early rejection of unsupported syntax.
func (p *program) initialise(id ast.NodeID) {
	if !id.IsValid() {
		return
	}
	switch p.kind(id) {
	case ast.Program, ast.BlockStatement:
		p.initBlock(id)
	case ast.ArrayExpression:
		p.initArray(id)
	case ast.ArrowFunctionExpression:
		p.initArrow(id)
	case ast.AssignmentExpression:
		p.initAssignment(id)
	case ast.AwaitExpression:
		p.initAwait(id)
	case ast.BreakStatement:
		p.initBreak(id)
	case ast.CallExpression:
		p.initCall(id)
	case ast.CatchClause:
		p.initCatch(id)
	case ast.ClassDeclaration:
		p.initClassDeclaration(id)
	case ast.ClassExpression:
		p.initClassExpression(id)
	case ast.ExportNamedDeclaration, ast.ExportDefaultDeclaration, ast.ExportAllDeclaration:
		p.initExport(id)
	case ast.ForStatement, ast.ForInStatement:
		p.initForHead(id)
	case ast.ForOfStatement:
		p.initForOf(id)
	case ast.WhileStatement, ast.DoWhileStatement:
		p.initLoop(id)
	case ast.FunctionDeclaration:
		p.initFunctionDeclaration(id)
	case ast.FunctionExpression:
		p.initFunctionExpression(id)
	case ast.Identifier:
		p.initIdentifier(id)
	case ast.ImportExpression:
		p.initImportExpression(id)
	case ast.ImportDeclaration:
		p.initImportDeclaration(id)
	case ast.ImportSpecifier, ast.ImportDefaultSpecifier, ast.ImportNamespaceSpecifier:
		p.initImportSpecifier(id)
	case ast.JSXElement, ast.JSXFragment:
		p.initJSXElement(id)
	case ast.JSXSpreadAttribute:
		p.initJSXSpreadAttribute(id)
	case ast.Literal:
		p.initLiteral(id)
	case ast.NewExpression:
		p.initNew(id)
	case ast.Property:
		p.initProperty(id)
	case ast.PropertyDefinition, ast.StaticBlock:
		p.initClassMember(id)
	case ast.ReturnStatement:
		p.initReturn(id)
	case ast.Super:
		p.initSuper(id)
	case ast.TaggedTemplateExpression:
		p.initTaggedTemplate(id)
	case ast.TemplateElement:
		p.indentExclusionNodes = append(p.indentExclusionNodes, id)
	case ast.ThisExpression:
		p.initThis(id)
	case ast.UpdateExpression:
		p.initUpdate(id)
	case ast.VariableDeclaration:
		p.initVariableDeclaration(id)
	case ast.VariableDeclarator:
		p.initVariableDeclarator(id)

	case ast.ExpressionStatement, ast.EmptyStatement, ast.DebuggerStatement, ast.WithStatement,
		ast.LabeledStatement, ast.ContinueStatement, ast.IfStatement, ast.SwitchStatement,
		ast.SwitchCase, ast.ThrowStatement, ast.TryStatement, ast.ClassBody, ast.MethodDefinition,
		ast.PrivateIdentifier, ast.UnaryExpression, ast.BinaryExpression, ast.LogicalExpression,
		ast.ConditionalExpression, ast.MemberExpression, ast.SequenceExpression,
		ast.YieldExpression, ast.TemplateLiteral, ast.SpreadElement, ast.ParenthesizedExpression,
		ast.ObjectExpression,
		ast.MetaProperty, ast.ObjectPattern, ast.ArrayPattern, ast.RestElement,
		ast.AssignmentPattern, ast.ExportSpecifier, ast.JSXOpeningElement, ast.JSXClosingElement,
		ast.JSXOpeningFragment, ast.JSXClosingFragment, ast.JSXAttribute,
		ast.JSXExpressionContainer, ast.JSXEmptyExpression, ast.JSXText, ast.JSXIdentifier,
		ast.JSXMemberExpression, ast.JSXNamespacedName:
		p.initialiseChildren(id)

	default:
		p.unexpected(id)
	}
}

// transpile is the rewrite pass. Every rule runs its own edits around the
// recursive call into its children.
func (p *program) transpile(id ast.NodeID) {
	if !id.IsValid() {
		return
	}
	switch p.kind(id) {
	case ast.Program, ast.BlockStatement:
		p.transpileBlock(id)
	case ast.ArrayExpression:
		p.transpileArray(id)
	case ast.ArrowFunctionExpression:
		p.transpileArrow(id)
	case ast.AssignmentExpression:
		p.transpileAssignment(id)
	case ast.BinaryExpression:
		p.transpileBinary(id)
	case ast.BreakStatement:
		p.transpileBreak(id)
	case ast.CallExpression:
		p.transpileCall(id)
	case ast.ClassDeclaration:
		p.transpileClassDeclaration(id)
	case ast.ClassExpression:
		p.transpileClassExpression(id)
	case ast.ContinueStatement:
		p.transpileContinue(id)
	case ast.ForStatement:
		p.transpileFor(id)
	case ast.ForInStatement:
		p.transpileForIn(id)
	case ast.ForOfStatement:
		p.transpileForOf(id)
	case ast.WhileStatement, ast.DoWhileStatement:
		p.transpileLoop(id)
	case ast.FunctionDeclaration, ast.FunctionExpression:
		p.transpileFunction(id)
	case ast.Identifier:
		p.transpileIdentifier(id)
	case ast.IfStatement:
		p.transpileIf(id)
	case ast.JSXAttribute:
		p.transpileJSXAttribute(id)
	case ast.JSXClosingElement:
		p.transpileJSXClosingElement(id)
	case ast.JSXClosingFragment:
		p.transpileJSXClosingFragment(id)
	case ast.JSXElement, ast.JSXFragment:
		p.transpileJSXElement(id)
	case ast.JSXExpressionContainer:
		p.transpileJSXExpressionContainer(id)
	case ast.JSXOpeningElement:
		p.transpileJSXOpeningElement(id)
	case ast.JSXOpeningFragment:
		p.transpileJSXOpeningFragment(id)
	case ast.JSXSpreadAttribute:
		p.transpileJSXSpreadAttribute(id)
	case ast.Literal:
		p.transpileLiteral(id)
	case ast.MemberExpression:
		p.transpileMember(id)
	case ast.NewExpression:
		p.transpileNew(id)
	case ast.ObjectExpression:
		p.transpileObject(id)
	case ast.Property:
		p.transpileProperty(id)
	case ast.ReturnStatement:
		p.transpileReturn(id)
	case ast.Super:
		p.transpileSuper(id)
	case ast.TaggedTemplateExpression:
		p.transpileTaggedTemplate(id)
	case ast.TemplateLiteral:
		p.transpileTemplateLiteral(id)
	case ast.ThisExpression:
		p.transpileThis(id)
	case ast.UpdateExpression:
		p.transpileUpdate(id)
	case ast.VariableDeclaration:
		p.transpileVariableDeclaration(id)
	case ast.VariableDeclarator:
		p.transpileVariableDeclarator(id)

	case ast.ExpressionStatement, ast.EmptyStatement, ast.DebuggerStatement, ast.WithStatement,
		ast.LabeledStatement, ast.SwitchStatement, ast.SwitchCase, ast.ThrowStatement,
		ast.TryStatement, ast.CatchClause, ast.ClassBody, ast.MethodDefinition,
		ast.PropertyDefinition, ast.StaticBlock, ast.PrivateIdentifier, ast.UnaryExpression,
		ast.LogicalExpression, ast.ConditionalExpression,
		ast.SequenceExpression, ast.YieldExpression, ast.AwaitExpression, ast.TemplateElement,
		ast.SpreadElement, ast.ParenthesizedExpression, ast.MetaProperty, ast.ImportExpression,
		ast.ObjectPattern, ast.ArrayPattern, ast.RestElement, ast.AssignmentPattern,
		ast.ImportDeclaration, ast.ImportSpecifier, ast.ImportDefaultSpecifier,
		ast.ImportNamespaceSpecifier, ast.ExportNamedDeclaration, ast.ExportDefaultDeclaration,
		ast.ExportAllDeclaration, ast.ExportSpecifier, ast.JSXEmptyExpression, ast.JSXText,
		ast.JSXIdentifier, ast.JSXMemberExpression, ast.JSXNamespacedName:
		p.transpileChildren(id)

	default:
		p.unexpected(id)
	}
}

func (p *program) unexpected(id ast.NodeID) {
	p.fail(id, diag.IntUnexpectedNode, "Unexpected node of type "+p.kind(id).String())
}
