package transform

import (
	"buble/internal/ast"
	"buble/internal/scope"
)

// nodeState is the per-node side table entry. The initialise pass fills it,
// the transpile pass mostly reads it.
type nodeState struct {
	block *blockState
	loop  *loopState
	super *superState

	// catchScope is the scope of a CatchClause.
	catchScope *scope.Scope
	// declScope is where a VariableDeclaration binds its names.
	declScope *scope.Scope

	// alias replaces an identifier or `this` in the output.
	alias string
	// rewritten marks an identifier renamed by block scoping.
	rewritten bool
	// notShorthand marks a shorthand property whose value got renamed.
	notShorthand bool

	// name is the class name of a ClassDeclaration or ClassExpression.
	name string

	// jumpLoop is the loop a break or return leaves across a function
	// boundary introduced by loop rewriting.
	jumpLoop   ast.NodeID
	shouldWrap bool

	// indentation caches the leading whitespace of a block.
	indentation    string
	hasIndentation bool

	// argumentsArrayAlias is set on a call or array that spreads
	// `arguments`.
	argumentsArrayAlias string
}

// blockState belongs to a BlockStatement or the Program.
type blockState struct {
	scope            *scope.Scope
	parentIsFunction bool
	isFunctionBlock  bool

	thisAlias           string
	argumentsAlias      string
	argumentsArrayAlias string

	createdDeclarations []string
}

// loopAlias is the outer/inner pair of a let loop variable in a loop body
// rewritten as a function.
type loopAlias struct {
	outer, inner string
}

// loopState belongs to one of the loop statements.
type loopState struct {
	// scope is the head scope of for, for-in and for-of.
	scope               *scope.Scope
	createdDeclarations []string
	createdScope        bool

	reassigned    map[string]bool
	reassignOrder []string
	aliases       map[string]loopAlias
	thisRefs      []ast.NodeID

	canBreak                bool
	canReturn               bool
	shouldRewriteAsFunction bool

	args   []string
	params []string
}

func (ls *loopState) markReassigned(name string) {
	if ls.reassigned[name] {
		return
	}
	ls.reassigned[name] = true
	ls.reassignOrder = append(ls.reassignOrder, name)
}

// superState belongs to a Super node.
type superState struct {
	method         ast.NodeID
	superClassName string
	isCalled       bool
	isMember       bool
	noCall         bool
	thisAlias      string
}

func (p *program) loopOf(id ast.NodeID) *loopState {
	st := &p.meta[id]
	if st.loop == nil {
		st.loop = &loopState{
			reassigned: make(map[string]bool),
			aliases:    make(map[string]loopAlias),
		}
	}
	return st.loop
}

func (p *program) blockOf(id ast.NodeID) *blockState {
	return p.meta[id].block
}

// rootScope is the scope of the Program.
func (p *program) rootScope() *scope.Scope {
	return p.meta[p.root].block.scope
}
