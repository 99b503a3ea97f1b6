package ast

// Kind is the syntax tag of a node. Names follow the ESTree vocabulary.
type Kind uint8

const (
	Invalid Kind = iota
	Program
	ExpressionStatement
	BlockStatement
	EmptyStatement
	DebuggerStatement
	WithStatement
	ReturnStatement
	LabeledStatement
	BreakStatement
	ContinueStatement
	IfStatement
	SwitchStatement
	SwitchCase
	ThrowStatement
	TryStatement
	CatchClause
	WhileStatement
	DoWhileStatement
	ForStatement
	ForInStatement
	ForOfStatement
	FunctionDeclaration
	VariableDeclaration
	VariableDeclarator
	ClassDeclaration
	ClassExpression
	ClassBody
	MethodDefinition
	PropertyDefinition
	StaticBlock
	Identifier
	PrivateIdentifier
	Literal
	ThisExpression
	Super
	ArrayExpression
	ObjectExpression
	Property
	FunctionExpression
	ArrowFunctionExpression
	UnaryExpression
	UpdateExpression
	BinaryExpression
	LogicalExpression
	AssignmentExpression
	ConditionalExpression
	CallExpression
	NewExpression
	MemberExpression
	SequenceExpression
	YieldExpression
	AwaitExpression
	TemplateLiteral
	TemplateElement
	TaggedTemplateExpression
	SpreadElement
	ParenthesizedExpression
	MetaProperty
	ImportExpression
	ObjectPattern
	ArrayPattern
	RestElement
	AssignmentPattern
	ImportDeclaration
	ImportSpecifier
	ImportDefaultSpecifier
	ImportNamespaceSpecifier
	ExportNamedDeclaration
	ExportDefaultDeclaration
	ExportAllDeclaration
	ExportSpecifier
	JSXElement
	JSXFragment
	JSXOpeningElement
	JSXClosingElement
	JSXOpeningFragment
	JSXClosingFragment
	JSXAttribute
	JSXSpreadAttribute
	JSXExpressionContainer
	JSXEmptyExpression
	JSXText
	JSXIdentifier
	JSXMemberExpression
	JSXNamespacedName

	numKinds
)

var kindNames = [numKinds]string{
	Invalid:                  "Invalid",
	Program:                  "Program",
	ExpressionStatement:      "ExpressionStatement",
	BlockStatement:           "BlockStatement",
	EmptyStatement:           "EmptyStatement",
	DebuggerStatement:        "DebuggerStatement",
	WithStatement:            "WithStatement",
	ReturnStatement:          "ReturnStatement",
	LabeledStatement:         "LabeledStatement",
	BreakStatement:           "BreakStatement",
	ContinueStatement:        "ContinueStatement",
	IfStatement:              "IfStatement",
	SwitchStatement:          "SwitchStatement",
	SwitchCase:               "SwitchCase",
	ThrowStatement:           "ThrowStatement",
	TryStatement:             "TryStatement",
	CatchClause:              "CatchClause",
	WhileStatement:           "WhileStatement",
	DoWhileStatement:         "DoWhileStatement",
	ForStatement:             "ForStatement",
	ForInStatement:           "ForInStatement",
	ForOfStatement:           "ForOfStatement",
	FunctionDeclaration:      "FunctionDeclaration",
	VariableDeclaration:      "VariableDeclaration",
	VariableDeclarator:       "VariableDeclarator",
	ClassDeclaration:         "ClassDeclaration",
	ClassExpression:          "ClassExpression",
	ClassBody:                "ClassBody",
	MethodDefinition:         "MethodDefinition",
	PropertyDefinition:       "PropertyDefinition",
	StaticBlock:              "StaticBlock",
	Identifier:               "Identifier",
	PrivateIdentifier:        "PrivateIdentifier",
	Literal:                  "Literal",
	ThisExpression:           "ThisExpression",
	Super:                    "Super",
	ArrayExpression:          "ArrayExpression",
	ObjectExpression:         "ObjectExpression",
	Property:                 "Property",
	FunctionExpression:       "FunctionExpression",
	ArrowFunctionExpression:  "ArrowFunctionExpression",
	UnaryExpression:          "UnaryExpression",
	UpdateExpression:         "UpdateExpression",
	BinaryExpression:         "BinaryExpression",
	LogicalExpression:        "LogicalExpression",
	AssignmentExpression:     "AssignmentExpression",
	ConditionalExpression:    "ConditionalExpression",
	CallExpression:           "CallExpression",
	NewExpression:            "NewExpression",
	MemberExpression:         "MemberExpression",
	SequenceExpression:       "SequenceExpression",
	YieldExpression:          "YieldExpression",
	AwaitExpression:          "AwaitExpression",
	TemplateLiteral:          "TemplateLiteral",
	TemplateElement:          "TemplateElement",
	TaggedTemplateExpression: "TaggedTemplateExpression",
	SpreadElement:            "SpreadElement",
	ParenthesizedExpression:  "ParenthesizedExpression",
	MetaProperty:             "MetaProperty",
	ImportExpression:         "ImportExpression",
	ObjectPattern:            "ObjectPattern",
	ArrayPattern:             "ArrayPattern",
	RestElement:              "RestElement",
	AssignmentPattern:        "AssignmentPattern",
	ImportDeclaration:        "ImportDeclaration",
	ImportSpecifier:          "ImportSpecifier",
	ImportDefaultSpecifier:   "ImportDefaultSpecifier",
	ImportNamespaceSpecifier: "ImportNamespaceSpecifier",
	ExportNamedDeclaration:   "ExportNamedDeclaration",
	ExportDefaultDeclaration: "ExportDefaultDeclaration",
	ExportAllDeclaration:     "ExportAllDeclaration",
	ExportSpecifier:          "ExportSpecifier",
	JSXElement:               "JSXElement",
	JSXFragment:              "JSXFragment",
	JSXOpeningElement:        "JSXOpeningElement",
	JSXClosingElement:        "JSXClosingElement",
	JSXOpeningFragment:       "JSXOpeningFragment",
	JSXClosingFragment:       "JSXClosingFragment",
	JSXAttribute:             "JSXAttribute",
	JSXSpreadAttribute:       "JSXSpreadAttribute",
	JSXExpressionContainer:   "JSXExpressionContainer",
	JSXEmptyExpression:       "JSXEmptyExpression",
	JSXText:                  "JSXText",
	JSXIdentifier:            "JSXIdentifier",
	JSXMemberExpression:      "JSXMemberExpression",
	JSXNamespacedName:        "JSXNamespacedName",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := Kind(1); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// IsFunction reports whether k introduces a function boundary.
func (k Kind) IsFunction() bool {
	return k == FunctionDeclaration || k == FunctionExpression || k == ArrowFunctionExpression
}

// IsLoop reports whether k is one of the loop statements.
func (k Kind) IsLoop() bool {
	switch k {
	case ForStatement, ForInStatement, ForOfStatement, WhileStatement, DoWhileStatement:
		return true
	}
	return false
}

// IsDestructuring reports whether k is an object or array pattern, the
// targets that unpack a value.
func (k Kind) IsDestructuring() bool {
	return k == ObjectPattern || k == ArrayPattern
}

// IsPattern reports whether k can appear as a binding target.
func (k Kind) IsPattern() bool {
	switch k {
	case Identifier, ObjectPattern, ArrayPattern, RestElement, AssignmentPattern, MemberExpression:
		return true
	}
	return false
}
