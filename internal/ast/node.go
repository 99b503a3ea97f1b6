package ast

// Node is one syntax node stored in a Tree's arena.
//
// Start/End are byte offsets into the original source. Parent and Depth are
// filled by the augmentor; a Synthetic node was introduced by the augmentor to
// give a single-statement body an explicit block and shares its bounds with
// that statement.
type Node struct {
	Kind      Kind
	Start     uint32
	End       uint32
	Parent    NodeID
	Depth     int32
	Synthetic bool
	Data      Data
}

// Data is the kind-specific payload of a Node. Every payload enumerates its
// children in source-slot order.
type Data interface {
	isData()
	appendChildren(dst []NodeID) []NodeID
}

func appendIDs(dst []NodeID, ids ...NodeID) []NodeID {
	for _, id := range ids {
		if id.IsValid() {
			dst = append(dst, id)
		}
	}
	return dst
}

// Leaf is the payload of kinds without children or attributes
// (EmptyStatement, DebuggerStatement, ThisExpression, Super, ...).
type Leaf struct{}

// ProgramData is the root payload.
type ProgramData struct {
	Body []NodeID
}

// Block holds a statement list (BlockStatement, StaticBlock, ClassBody).
type Block struct {
	Body []NodeID
}

// ExprStmt is an ExpressionStatement. Directive is set for prologue
// strings such as "use strict".
type ExprStmt struct {
	Expression NodeID
	Directive  string
}

type With struct {
	Object NodeID
	Body   NodeID
}

// Argument holds a single optional operand
// (ReturnStatement, ThrowStatement, SpreadElement, RestElement, AwaitExpression,
// JSXSpreadAttribute, ImportExpression).
type Argument struct {
	Argument NodeID
}

type Labeled struct {
	Body  NodeID
	Label NodeID
}

// Jump is a BreakStatement or ContinueStatement.
type Jump struct {
	Label NodeID
}

type If struct {
	Test       NodeID
	Consequent NodeID
	Alternate  NodeID
}

type Switch struct {
	Discriminant NodeID
	Cases        []NodeID
}

// Case is a SwitchCase; Test is NoNodeID for `default`.
type Case struct {
	Test       NodeID
	Consequent []NodeID
}

type Try struct {
	Block     NodeID
	Handler   NodeID
	Finalizer NodeID
}

type Catch struct {
	Param NodeID
	Body  NodeID
}

// While is a WhileStatement or DoWhileStatement.
type While struct {
	Test NodeID
	Body NodeID
}

type For struct {
	Init   NodeID
	Test   NodeID
	Update NodeID
	Body   NodeID
}

// ForIn is a ForInStatement or ForOfStatement.
type ForIn struct {
	Left  NodeID
	Right NodeID
	Body  NodeID
	Await bool
}

// Function is a FunctionDeclaration, FunctionExpression or
// ArrowFunctionExpression. Expression marks an arrow with an expression body.
type Function struct {
	ID         NodeID
	Params     []NodeID
	Body       NodeID
	Generator  bool
	Async      bool
	Expression bool
}

type VarDecl struct {
	Declarations []NodeID
	Kind         string // var, let, const
}

type Declarator struct {
	ID   NodeID
	Init NodeID
}

// Class is a ClassDeclaration or ClassExpression.
type Class struct {
	ID         NodeID
	SuperClass NodeID
	Body       NodeID
}

// MethodKind distinguishes class methods and object property kinds.
type MethodKind uint8

const (
	MethodNormal MethodKind = iota
	MethodConstructor
	MethodGet
	MethodSet
)

func (k MethodKind) String() string {
	switch k {
	case MethodConstructor:
		return "constructor"
	case MethodGet:
		return "get"
	case MethodSet:
		return "set"
	default:
		return "method"
	}
}

// Method is a MethodDefinition or PropertyDefinition (class field).
type Method struct {
	Key      NodeID
	Value    NodeID
	Kind     MethodKind
	Static   bool
	Computed bool
}

type Ident struct {
	Name string
}

// LitKind classifies literals.
type LitKind uint8

const (
	LitString LitKind = iota
	LitNumber
	LitBoolean
	LitNull
	LitRegExp
	LitBigInt
)

// Lit is a Literal. Raw is the source text; Value is the decoded string value
// for string literals. Pattern/Flags are set for regular expressions.
type Lit struct {
	Kind    LitKind
	Raw     string
	Value   string
	Pattern string
	Flags   string
}

// Array is an ArrayExpression or ArrayPattern; NoNodeID entries are holes.
type Array struct {
	Elements []NodeID
}

// Object is an ObjectExpression or ObjectPattern.
type Object struct {
	Properties []NodeID
}

// Prop is an object Property. For shorthand properties Key and Value are
// distinct nodes sharing the same source range.
type Prop struct {
	Key       NodeID
	Value     NodeID
	Kind      MethodKind // MethodNormal (init), MethodGet, MethodSet
	Method    bool
	Shorthand bool
	Computed  bool
}

// Unary is a UnaryExpression or UpdateExpression.
type Unary struct {
	Operator string
	Prefix   bool
	Argument NodeID
}

// Binary is a BinaryExpression, LogicalExpression or AssignmentExpression.
type Binary struct {
	Left     NodeID
	Operator string
	Right    NodeID
}

type Conditional struct {
	Test       NodeID
	Consequent NodeID
	Alternate  NodeID
}

// Call is a CallExpression or NewExpression.
type Call struct {
	Callee    NodeID
	Arguments []NodeID
	Optional  bool
}

type Member struct {
	Object   NodeID
	Property NodeID
	Computed bool
	Optional bool
}

type Sequence struct {
	Expressions []NodeID
}

type Yield struct {
	Argument NodeID
	Delegate bool
}

type Template struct {
	Expressions []NodeID
	Quasis      []NodeID
}

// TemplateElem is one literal chunk of a template. Raw excludes the
// delimiters (` ${ }).
type TemplateElem struct {
	Raw    string
	Cooked string
	Tail   bool
}

type Tagged struct {
	Tag   NodeID
	Quasi NodeID
}

type Paren struct {
	Expression NodeID
}

type Meta struct {
	Meta     NodeID
	Property NodeID
}

type AssignPattern struct {
	Left  NodeID
	Right NodeID
}

type ImportDecl struct {
	Specifiers []NodeID
	Source     NodeID
}

// ImportSpec is an ImportSpecifier, ImportDefaultSpecifier or
// ImportNamespaceSpecifier. Imported is only set for ImportSpecifier.
type ImportSpec struct {
	Imported NodeID
	Local    NodeID
}

type ExportNamed struct {
	Declaration NodeID
	Specifiers  []NodeID
	Source      NodeID
}

type ExportDefault struct {
	Declaration NodeID
}

type ExportAll struct {
	Exported NodeID
	Source   NodeID
}

type ExportSpec struct {
	Local    NodeID
	Exported NodeID
}

// JSXElem is a JSXElement or JSXFragment.
type JSXElem struct {
	Opening  NodeID
	Children []NodeID
	Closing  NodeID
}

type JSXOpening struct {
	Name        NodeID
	Attributes  []NodeID
	SelfClosing bool
}

type JSXClosing struct {
	Name NodeID
}

type JSXAttr struct {
	Name  NodeID
	Value NodeID
}

type JSXContainer struct {
	Expression NodeID
}

type JSXTextData struct {
	Value string
}

type JSXMember struct {
	Object   NodeID
	Property NodeID
}

type JSXNamespaced struct {
	Namespace NodeID
	Name      NodeID
}

func (*Leaf) isData()          {}
func (*ProgramData) isData()   {}
func (*Block) isData()         {}
func (*ExprStmt) isData()      {}
func (*With) isData()          {}
func (*Argument) isData()      {}
func (*Labeled) isData()       {}
func (*Jump) isData()          {}
func (*If) isData()            {}
func (*Switch) isData()        {}
func (*Case) isData()          {}
func (*Try) isData()           {}
func (*Catch) isData()         {}
func (*While) isData()         {}
func (*For) isData()           {}
func (*ForIn) isData()         {}
func (*Function) isData()      {}
func (*VarDecl) isData()       {}
func (*Declarator) isData()    {}
func (*Class) isData()         {}
func (*Method) isData()        {}
func (*Ident) isData()         {}
func (*Lit) isData()           {}
func (*Array) isData()         {}
func (*Object) isData()        {}
func (*Prop) isData()          {}
func (*Unary) isData()         {}
func (*Binary) isData()        {}
func (*Conditional) isData()   {}
func (*Call) isData()          {}
func (*Member) isData()        {}
func (*Sequence) isData()      {}
func (*Yield) isData()         {}
func (*Template) isData()      {}
func (*TemplateElem) isData()  {}
func (*Tagged) isData()        {}
func (*Paren) isData()         {}
func (*Meta) isData()          {}
func (*AssignPattern) isData() {}
func (*ImportDecl) isData()    {}
func (*ImportSpec) isData()    {}
func (*ExportNamed) isData()   {}
func (*ExportDefault) isData() {}
func (*ExportAll) isData()     {}
func (*ExportSpec) isData()    {}
func (*JSXElem) isData()       {}
func (*JSXOpening) isData()    {}
func (*JSXClosing) isData()    {}
func (*JSXAttr) isData()       {}
func (*JSXContainer) isData()  {}
func (*JSXTextData) isData()   {}
func (*JSXMember) isData()     {}
func (*JSXNamespaced) isData() {}

func (*Leaf) appendChildren(dst []NodeID) []NodeID          { return dst }
func (d *ProgramData) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Body...) }
func (d *Block) appendChildren(dst []NodeID) []NodeID       { return appendIDs(dst, d.Body...) }
func (d *ExprStmt) appendChildren(dst []NodeID) []NodeID    { return appendIDs(dst, d.Expression) }
func (d *With) appendChildren(dst []NodeID) []NodeID        { return appendIDs(dst, d.Object, d.Body) }
func (d *Argument) appendChildren(dst []NodeID) []NodeID    { return appendIDs(dst, d.Argument) }
func (d *Labeled) appendChildren(dst []NodeID) []NodeID     { return appendIDs(dst, d.Body, d.Label) }
func (d *Jump) appendChildren(dst []NodeID) []NodeID        { return appendIDs(dst, d.Label) }
func (d *If) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Test, d.Consequent, d.Alternate)
}
func (d *Switch) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(appendIDs(dst, d.Discriminant), d.Cases...)
}
func (d *Case) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(appendIDs(dst, d.Test), d.Consequent...)
}
func (d *Try) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Block, d.Handler, d.Finalizer)
}
func (d *Catch) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Param, d.Body) }
func (d *While) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Test, d.Body) }
func (d *For) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Init, d.Test, d.Update, d.Body)
}
func (d *ForIn) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Left, d.Right, d.Body) }
func (d *Function) appendChildren(dst []NodeID) []NodeID {
	dst = appendIDs(dst, d.ID)
	dst = appendIDs(dst, d.Params...)
	return appendIDs(dst, d.Body)
}
func (d *VarDecl) appendChildren(dst []NodeID) []NodeID    { return appendIDs(dst, d.Declarations...) }
func (d *Declarator) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.ID, d.Init) }
func (d *Class) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.ID, d.SuperClass, d.Body)
}
func (d *Method) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Key, d.Value) }
func (*Ident) appendChildren(dst []NodeID) []NodeID    { return dst }
func (*Lit) appendChildren(dst []NodeID) []NodeID      { return dst }
func (d *Array) appendChildren(dst []NodeID) []NodeID  { return appendIDs(dst, d.Elements...) }
func (d *Object) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Properties...) }
func (d *Prop) appendChildren(dst []NodeID) []NodeID   { return appendIDs(dst, d.Key, d.Value) }
func (d *Unary) appendChildren(dst []NodeID) []NodeID  { return appendIDs(dst, d.Argument) }
func (d *Binary) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Left, d.Right) }
func (d *Conditional) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Test, d.Consequent, d.Alternate)
}
func (d *Call) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(appendIDs(dst, d.Callee), d.Arguments...)
}
func (d *Member) appendChildren(dst []NodeID) []NodeID   { return appendIDs(dst, d.Object, d.Property) }
func (d *Sequence) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Expressions...) }
func (d *Yield) appendChildren(dst []NodeID) []NodeID    { return appendIDs(dst, d.Argument) }
func (d *Template) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(appendIDs(dst, d.Expressions...), d.Quasis...)
}
func (*TemplateElem) appendChildren(dst []NodeID) []NodeID { return dst }
func (d *Tagged) appendChildren(dst []NodeID) []NodeID     { return appendIDs(dst, d.Tag, d.Quasi) }
func (d *Paren) appendChildren(dst []NodeID) []NodeID      { return appendIDs(dst, d.Expression) }
func (d *Meta) appendChildren(dst []NodeID) []NodeID       { return appendIDs(dst, d.Meta, d.Property) }
func (d *AssignPattern) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Left, d.Right)
}
func (d *ImportDecl) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(appendIDs(dst, d.Specifiers...), d.Source)
}
func (d *ImportSpec) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Imported, d.Local)
}
func (d *ExportNamed) appendChildren(dst []NodeID) []NodeID {
	dst = appendIDs(dst, d.Declaration)
	dst = appendIDs(dst, d.Specifiers...)
	return appendIDs(dst, d.Source)
}
func (d *ExportDefault) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Declaration) }
func (d *ExportAll) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Exported, d.Source)
}
func (d *ExportSpec) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Local, d.Exported)
}
func (d *JSXElem) appendChildren(dst []NodeID) []NodeID {
	dst = appendIDs(dst, d.Opening)
	dst = appendIDs(dst, d.Children...)
	return appendIDs(dst, d.Closing)
}
func (d *JSXOpening) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(appendIDs(dst, d.Name), d.Attributes...)
}
func (d *JSXClosing) appendChildren(dst []NodeID) []NodeID   { return appendIDs(dst, d.Name) }
func (d *JSXAttr) appendChildren(dst []NodeID) []NodeID      { return appendIDs(dst, d.Name, d.Value) }
func (d *JSXContainer) appendChildren(dst []NodeID) []NodeID { return appendIDs(dst, d.Expression) }
func (*JSXTextData) appendChildren(dst []NodeID) []NodeID    { return dst }
func (d *JSXMember) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Object, d.Property)
}
func (d *JSXNamespaced) appendChildren(dst []NodeID) []NodeID {
	return appendIDs(dst, d.Namespace, d.Name)
}
