// Package scope models lexical environments: which names a function or block
// declares, which identifiers refer to them, and which names are free. It also
// hands out collision-free identifiers for code the transform synthesizes.
package scope

import (
	"strconv"

	"buble/internal/ast"
)

// DeclKind is the syntactic origin of a binding.
type DeclKind uint8

const (
	KindVar DeclKind = iota
	KindLet
	KindConst
	KindParam
	KindFunction
	KindClass
	KindCatch
	KindImport
	// KindForLet is a let declared in the head of a classic for loop.
	KindForLet
)

var declKindNames = [...]string{
	KindVar:      "var",
	KindLet:      "let",
	KindConst:    "const",
	KindParam:    "param",
	KindFunction: "function",
	KindClass:    "class",
	KindCatch:    "catch",
	KindImport:   "import",
	KindForLet:   "for.let",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "DeclKind(" + strconv.Itoa(int(k)) + ")"
}

// KindFromVar maps a variable declaration keyword to its kind.
func KindFromVar(keyword string) DeclKind {
	switch keyword {
	case "let":
		return KindLet
	case "const":
		return KindConst
	default:
		return KindVar
	}
}

// BlockScoped reports whether the binding lives in its block rather than in
// the enclosing function.
func (k DeclKind) BlockScoped() bool {
	return k == KindLet || k == KindConst || k == KindForLet || k == KindClass
}

// Declaration is one binding. Name may change after construction when a
// block-scoped binding is renamed to avoid a collision.
type Declaration struct {
	Name      string
	Node      ast.NodeID
	Kind      DeclKind
	Instances []ast.NodeID
}

// Options configures a new Scope.
type Options struct {
	Parent *Scope
	// Block marks a `{}` scope that hosts let/const but not var.
	Block bool
	// Declare is called by CreateDeclaration to hoist a synthesized var.
	Declare func(name string)
	// Tree is inherited from Parent when empty.
	Tree *ast.Tree
}

// Scope is one lexical environment.
type Scope struct {
	Parent        *Scope
	IsBlockScope  bool
	FunctionScope *Scope

	tree    *ast.Tree
	declare func(string)

	identifiers  []ast.NodeID
	declarations map[string]*Declaration
	declOrder    []string
	references   map[string]struct{}
	aliases      map[string]struct{}
	consolidated bool

	// только у функциональных областей
	blockScoped      map[string][]*Declaration
	blockScopedNames []string
}

// New creates a scope.
func New(opts Options) *Scope {
	s := &Scope{
		Parent:       opts.Parent,
		IsBlockScope: opts.Block,
		tree:         opts.Tree,
		declare:      opts.Declare,
		declarations: make(map[string]*Declaration),
		references:   make(map[string]struct{}),
		aliases:      make(map[string]struct{}),
	}
	if s.tree == nil && s.Parent != nil {
		s.tree = s.Parent.tree
	}

	fs := s
	for fs.IsBlockScope && fs.Parent != nil {
		fs = fs.Parent
	}
	s.FunctionScope = fs
	if !s.IsBlockScope {
		s.blockScoped = make(map[string][]*Declaration)
	}
	return s
}

// Tree returns the syntax tree the scope's nodes belong to.
func (s *Scope) Tree() *ast.Tree { return s.tree }

// AddDeclaration registers every name bound by the pattern at node.
func (s *Scope) AddDeclaration(node ast.NodeID, kind DeclKind) {
	for _, ident := range ExtractNames(s.tree, node) {
		name := s.tree.Name(ident)
		decl := &Declaration{Name: name, Node: ident, Kind: kind}
		if _, ok := s.declarations[name]; !ok {
			s.declOrder = append(s.declOrder, name)
		}
		s.declarations[name] = decl

		if s.IsBlockScope {
			fs := s.FunctionScope
			if fs.blockScoped == nil {
				continue
			}
			if _, ok := fs.blockScoped[name]; !ok {
				fs.blockScopedNames = append(fs.blockScopedNames, name)
			}
			fs.blockScoped[name] = append(fs.blockScoped[name], decl)
		}
	}
}

// AddReference queues an identifier use. Once the scope is consolidated the
// reference is resolved immediately.
func (s *Scope) AddReference(ident ast.NodeID) {
	if s.consolidated {
		s.consolidateReference(ident)
		return
	}
	s.identifiers = append(s.identifiers, ident)
}

// Consolidate resolves every queued reference against this scope's
// declarations and forwards the rest to the parent.
func (s *Scope) Consolidate() {
	// очередь может расти во время обхода
	for i := 0; i < len(s.identifiers); i++ {
		s.consolidateReference(s.identifiers[i])
	}
	s.consolidated = true
}

func (s *Scope) consolidateReference(ident ast.NodeID) {
	name := s.tree.Name(ident)
	if decl, ok := s.declarations[name]; ok {
		decl.Instances = append(decl.Instances, ident)
		return
	}
	s.references[name] = struct{}{}
	if s.Parent != nil {
		s.Parent.AddReference(ident)
	}
}

// Contains reports whether name is declared here or in an outer scope.
func (s *Scope) Contains(name string) bool {
	return s.FindDeclaration(name) != nil
}

// Declared returns this scope's own declaration of name.
func (s *Scope) Declared(name string) *Declaration {
	return s.declarations[name]
}

// Declarations returns this scope's own declarations in the order their
// names were first declared.
func (s *Scope) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(s.declOrder))
	for _, name := range s.declOrder {
		out = append(out, s.declarations[name])
	}
	return out
}

// HasReference reports whether name was used as a free reference in this
// scope.
func (s *Scope) HasReference(name string) bool {
	_, ok := s.references[name]
	return ok
}

// CreateIdentifier reserves a name derived from base that collides with
// nothing declared, referenced or already generated in this scope.
func (s *Scope) CreateIdentifier(base string) string {
	base = Sanitize(base)

	name := base
	for counter := 1; s.taken(name); counter++ {
		name = base + "$" + strconv.Itoa(counter)
	}
	s.aliases[name] = struct{}{}
	return name
}

func (s *Scope) taken(name string) bool {
	if _, ok := s.declarations[name]; ok {
		return true
	}
	if _, ok := s.references[name]; ok {
		return true
	}
	if _, ok := s.aliases[name]; ok {
		return true
	}
	return IsReserved(name)
}

// CreateDeclaration is CreateIdentifier plus hoisting the name as a var
// through the scope's Declare callback.
func (s *Scope) CreateDeclaration(base string) string {
	id := s.CreateIdentifier(base)
	if s.declare != nil {
		s.declare(id)
	}
	return id
}

// FindDeclaration looks name up along the scope chain.
func (s *Scope) FindDeclaration(name string) *Declaration {
	for sc := s; sc != nil; sc = sc.Parent {
		if decl, ok := sc.declarations[name]; ok {
			return decl
		}
	}
	return nil
}

// ResolveName returns the current, possibly renamed, name of the binding
// name refers to.
func (s *Scope) ResolveName(name string) string {
	if decl := s.FindDeclaration(name); decl != nil {
		return decl.Name
	}
	return name
}

// BlockScopedNames lists, in declaration order, the names declared in block
// scopes nested in this function scope.
func (s *Scope) BlockScopedNames() []string {
	return s.blockScopedNames
}

// BlockScopedDeclarations returns the block-level declarations of name
// nested in this function scope.
func (s *Scope) BlockScopedDeclarations(name string) []*Declaration {
	return s.blockScoped[name]
}
