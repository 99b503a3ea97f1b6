package ast

// slotNames lists, per kind, the child slots in traversal order. It is the
// static counterpart of the payload's appendChildren and is used by Dump and
// by tests that check payload shapes.
var slotNames = [numKinds][]string{
	Program:                  {"body"},
	ExpressionStatement:      {"expression"},
	BlockStatement:           {"body"},
	EmptyStatement:           nil,
	DebuggerStatement:        nil,
	WithStatement:            {"object", "body"},
	ReturnStatement:          {"argument"},
	LabeledStatement:         {"body", "label"},
	BreakStatement:           {"label"},
	ContinueStatement:        {"label"},
	IfStatement:              {"test", "consequent", "alternate"},
	SwitchStatement:          {"discriminant", "cases"},
	SwitchCase:               {"test", "consequent"},
	ThrowStatement:           {"argument"},
	TryStatement:             {"block", "handler", "finalizer"},
	CatchClause:              {"param", "body"},
	WhileStatement:           {"test", "body"},
	DoWhileStatement:         {"body", "test"},
	ForStatement:             {"init", "test", "update", "body"},
	ForInStatement:           {"left", "right", "body"},
	ForOfStatement:           {"left", "right", "body"},
	FunctionDeclaration:      {"id", "params", "body"},
	VariableDeclaration:      {"declarations"},
	VariableDeclarator:       {"id", "init"},
	ClassDeclaration:         {"id", "superClass", "body"},
	ClassExpression:          {"id", "superClass", "body"},
	ClassBody:                {"body"},
	MethodDefinition:         {"key", "value"},
	PropertyDefinition:       {"key", "value"},
	StaticBlock:              {"body"},
	Identifier:               nil,
	PrivateIdentifier:        nil,
	Literal:                  nil,
	ThisExpression:           nil,
	Super:                    nil,
	ArrayExpression:          {"elements"},
	ObjectExpression:         {"properties"},
	Property:                 {"key", "value"},
	FunctionExpression:       {"id", "params", "body"},
	ArrowFunctionExpression:  {"id", "params", "body"},
	UnaryExpression:          {"argument"},
	UpdateExpression:         {"argument"},
	BinaryExpression:         {"left", "right"},
	LogicalExpression:        {"left", "right"},
	AssignmentExpression:     {"left", "right"},
	ConditionalExpression:    {"test", "consequent", "alternate"},
	CallExpression:           {"callee", "arguments"},
	NewExpression:            {"callee", "arguments"},
	MemberExpression:         {"object", "property"},
	SequenceExpression:       {"expressions"},
	YieldExpression:          {"argument"},
	AwaitExpression:          {"argument"},
	TemplateLiteral:          {"expressions", "quasis"},
	TemplateElement:          nil,
	TaggedTemplateExpression: {"tag", "quasi"},
	SpreadElement:            {"argument"},
	ParenthesizedExpression:  {"expression"},
	MetaProperty:             {"meta", "property"},
	ImportExpression:         {"source"},
	ObjectPattern:            {"properties"},
	ArrayPattern:             {"elements"},
	RestElement:              {"argument"},
	AssignmentPattern:        {"left", "right"},
	ImportDeclaration:        {"specifiers", "source"},
	ImportSpecifier:          {"imported", "local"},
	ImportDefaultSpecifier:   {"local"},
	ImportNamespaceSpecifier: {"local"},
	ExportNamedDeclaration:   {"declaration", "specifiers", "source"},
	ExportDefaultDeclaration: {"declaration"},
	ExportAllDeclaration:     {"exported", "source"},
	ExportSpecifier:          {"local", "exported"},
	JSXElement:               {"openingElement", "children", "closingElement"},
	JSXFragment:              {"openingFragment", "children", "closingFragment"},
	JSXOpeningElement:        {"name", "attributes"},
	JSXClosingElement:        {"name"},
	JSXOpeningFragment:       nil,
	JSXClosingFragment:       nil,
	JSXAttribute:             {"name", "value"},
	JSXSpreadAttribute:       {"argument"},
	JSXExpressionContainer:   {"expression"},
	JSXEmptyExpression:       nil,
	JSXText:                  nil,
	JSXIdentifier:            nil,
	JSXMemberExpression:      {"object", "property"},
	JSXNamespacedName:        {"namespace", "name"},
}

// Slots returns the child slot names of k in traversal order.
func Slots(k Kind) []string {
	if k < numKinds {
		return slotNames[k]
	}
	return nil
}

// NewData returns an empty payload of the type used by kind k.
func NewData(k Kind) Data {
	switch k {
	case Program:
		return &ProgramData{}
	case BlockStatement, StaticBlock, ClassBody:
		return &Block{}
	case ExpressionStatement:
		return &ExprStmt{}
	case WithStatement:
		return &With{}
	case ReturnStatement, ThrowStatement, SpreadElement, RestElement, AwaitExpression,
		JSXSpreadAttribute, ImportExpression:
		return &Argument{}
	case LabeledStatement:
		return &Labeled{}
	case BreakStatement, ContinueStatement:
		return &Jump{}
	case IfStatement:
		return &If{}
	case SwitchStatement:
		return &Switch{}
	case SwitchCase:
		return &Case{}
	case TryStatement:
		return &Try{}
	case CatchClause:
		return &Catch{}
	case WhileStatement, DoWhileStatement:
		return &While{}
	case ForStatement:
		return &For{}
	case ForInStatement, ForOfStatement:
		return &ForIn{}
	case FunctionDeclaration, FunctionExpression, ArrowFunctionExpression:
		return &Function{}
	case VariableDeclaration:
		return &VarDecl{}
	case VariableDeclarator:
		return &Declarator{}
	case ClassDeclaration, ClassExpression:
		return &Class{}
	case MethodDefinition, PropertyDefinition:
		return &Method{}
	case Identifier, PrivateIdentifier, JSXIdentifier:
		return &Ident{}
	case Literal:
		return &Lit{}
	case ArrayExpression, ArrayPattern:
		return &Array{}
	case ObjectExpression, ObjectPattern:
		return &Object{}
	case Property:
		return &Prop{}
	case UnaryExpression, UpdateExpression:
		return &Unary{}
	case BinaryExpression, LogicalExpression, AssignmentExpression:
		return &Binary{}
	case ConditionalExpression:
		return &Conditional{}
	case CallExpression, NewExpression:
		return &Call{}
	case MemberExpression:
		return &Member{}
	case SequenceExpression:
		return &Sequence{}
	case YieldExpression:
		return &Yield{}
	case TemplateLiteral:
		return &Template{}
	case TemplateElement:
		return &TemplateElem{}
	case TaggedTemplateExpression:
		return &Tagged{}
	case ParenthesizedExpression:
		return &Paren{}
	case MetaProperty:
		return &Meta{}
	case AssignmentPattern:
		return &AssignPattern{}
	case ImportDeclaration:
		return &ImportDecl{}
	case ImportSpecifier, ImportDefaultSpecifier, ImportNamespaceSpecifier:
		return &ImportSpec{}
	case ExportNamedDeclaration:
		return &ExportNamed{}
	case ExportDefaultDeclaration:
		return &ExportDefault{}
	case ExportAllDeclaration:
		return &ExportAll{}
	case ExportSpecifier:
		return &ExportSpec{}
	case JSXElement, JSXFragment:
		return &JSXElem{}
	case JSXOpeningElement:
		return &JSXOpening{}
	case JSXClosingElement:
		return &JSXClosing{}
	case JSXAttribute:
		return &JSXAttr{}
	case JSXExpressionContainer:
		return &JSXContainer{}
	case JSXText:
		return &JSXTextData{}
	case JSXMemberExpression:
		return &JSXMember{}
	case JSXNamespacedName:
		return &JSXNamespaced{}
	case EmptyStatement, DebuggerStatement, ThisExpression, Super, JSXOpeningFragment,
		JSXClosingFragment, JSXEmptyExpression:
		return &Leaf{}
	}
	return nil
}
