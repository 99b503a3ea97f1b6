package transform

import (
	"strings"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/target"
)

func (p *program) isArguments(id ast.NodeID) bool {
	return p.kind(id) == ast.Identifier && p.name(id) == "arguments"
}

func (p *program) spreadArgument(id ast.NodeID) ast.NodeID {
	return ast.As[*ast.Argument](p.tree, id).Argument
}

// inlineSpreads replaces `...[a, b]` by `a, b` in the text and returns the
// element list as it reads afterwards. Literals with holes are left alone.
func (p *program) inlineSpreads(node ast.NodeID, elements []ast.NodeID) []ast.NodeID {
	elements = append([]ast.NodeID(nil), elements...)

	for i := len(elements) - 1; i >= 0; i-- {
		element := elements[i]
		if !element.IsValid() || p.kind(element) != ast.SpreadElement {
			continue
		}
		argument := p.spreadArgument(element)
		if p.kind(argument) != ast.ArrayExpression {
			continue
		}
		subelements := ast.As[*ast.Array](p.tree, argument).Elements
		holes := false
		for _, sub := range subelements {
			if !sub.IsValid() {
				holes = true
				break
			}
		}
		if holes {
			continue
		}

		isLast := i == len(elements)-1
		if len(subelements) == 0 {
			from := p.start(element)
			if isLast && i != 0 {
				from = p.end(elements[i-1])
			}
			to := p.end(node) - 1
			if !isLast {
				to = p.start(elements[i+1])
			}
			p.code.Remove(from, to)
		} else {
			p.code.Remove(p.start(element), p.start(subelements[0]))
			to := p.end(element)
			if isLast {
				to = p.end(node) - 1
			}
			p.code.Remove(p.end(subelements[len(subelements)-1]), to)
		}

		spliced := make([]ast.NodeID, 0, len(elements)+len(subelements)-1)
		spliced = append(spliced, elements[:i]...)
		spliced = append(spliced, subelements...)
		spliced = append(spliced, elements[i+1:]...)
		elements = spliced
		i += len(subelements)
	}
	return elements
}

// needsParentheses reports whether appending a method call to id could
// change what the call applies to.
func (p *program) needsParentheses(id ast.NodeID) bool {
	switch p.kind(id) {
	case ast.ArrayExpression, ast.CallExpression, ast.Identifier, ast.ParenthesizedExpression, ast.ThisExpression:
		return false
	}
	return true
}

// spread lowers a list containing spread elements to a `.concat` chain.
// It reports whether any spread element was found.
func (p *program) spread(elements []ast.NodeID, start uint32, argumentsArrayAlias string, isNew bool) bool {
	firstSpreadIndex := -1
	for i := len(elements) - 1; i >= 0; i-- {
		element := elements[i]
		if element.IsValid() && p.kind(element) == ast.SpreadElement {
			if arg := p.spreadArgument(element); p.isArguments(arg) {
				p.code.Overwrite(p.start(arg), p.end(arg), argumentsArrayAlias)
			}
			firstSpreadIndex = i
		}
	}
	if firstSpreadIndex == -1 {
		return false
	}

	if isNew {
		for _, element := range elements {
			if p.kind(element) == ast.SpreadElement {
				p.code.Remove(p.start(element), p.start(p.spreadArgument(element)))
			} else {
				p.code.PrependRight(p.start(element), "[")
				p.code.PrependRight(p.end(element), "]")
			}
		}
		return true
	}

	element := elements[firstSpreadIndex]
	if firstSpreadIndex == 0 {
		addClosingParen := false
		switch {
		case start != p.start(element):
			addClosingParen = p.needsParentheses(p.spreadArgument(element))
			if addClosingParen {
				p.code.Overwrite(start, p.start(element), "( ")
			} else {
				p.code.Remove(start, p.start(element))
			}
		case p.kind(p.parent(element)) == ast.CallExpression:
			addClosingParen = p.needsParentheses(p.spreadArgument(element))
		default:
			p.fail(element, diag.IntUnexpectedNode, "Unsupported spread construct, please raise an issue at https://github.com/bublejs/buble/issues")
		}
		if addClosingParen {
			p.code.Overwrite(p.end(element), p.start(elements[1]), " ).concat( ")
		} else {
			p.code.Overwrite(p.end(element), p.start(elements[1]), ".concat( ")
		}
	} else {
		previous := elements[firstSpreadIndex-1]
		p.code.Overwrite(p.end(previous), p.start(element), " ].concat( ")
	}

	for _, element := range elements[firstSpreadIndex:] {
		if !element.IsValid() {
			continue
		}
		if p.kind(element) == ast.SpreadElement {
			p.code.Remove(p.start(element), p.start(p.spreadArgument(element)))
		} else {
			p.code.AppendLeft(p.start(element), "[")
			p.code.AppendLeft(p.end(element), "]")
		}
	}
	return true
}

// removeTrailingComma drops the first comma between c and the closing
// parenthesis, skipping comments.
func (p *program) removeTrailingComma(c uint32) {
	src := p.src
	for int(c) < len(src) && src[c] != ')' {
		if src[c] == ',' {
			p.code.Remove(c, c+1)
			return
		}
		if src[c] == '/' && int(c)+1 < len(src) {
			switch src[c+1] {
			case '/':
				nl := strings.IndexByte(src[c:], '\n')
				if nl < 0 {
					return
				}
				c += uint32(nl)
			case '*':
				end := strings.Index(src[c:], "*/")
				if end < 0 {
					return
				}
				c += uint32(end) + 1
			}
		}
		c++
	}
}

func (p *program) hasArgumentsSpread(elements []ast.NodeID) bool {
	for _, el := range elements {
		if el.IsValid() && p.kind(el) == ast.SpreadElement && p.isArguments(p.spreadArgument(el)) {
			return true
		}
	}
	return false
}

func (p *program) initArray(id ast.NodeID) {
	elements := ast.As[*ast.Array](p.tree, id).Elements
	if p.t.Has(target.SpreadRest) && len(elements) > 0 && p.hasArgumentsSpread(elements) {
		p.meta[id].argumentsArrayAlias = p.argumentsArrayAliasOf(p.findLexicalBoundary(id))
	}
	p.initialiseChildren(id)
}

func (p *program) transpileArray(id ast.NodeID) {
	p.transpileChildren(id)
	if !p.t.Has(target.SpreadRest) {
		return
	}

	elements := p.inlineSpreads(id, ast.As[*ast.Array](p.tree, id).Elements)
	if len(elements) > 0 {
		last := elements[len(elements)-1]
		if last.IsValid() && strings.Contains(p.src[p.end(last):p.end(id)], ",") {
			p.code.Overwrite(p.end(last), p.end(id)-1, " ")
		}
	}

	if len(elements) == 1 {
		element := elements[0]
		if element.IsValid() && p.kind(element) == ast.SpreadElement {
			arg := p.spreadArgument(element)
			if p.isArguments(arg) {
				p.code.Overwrite(p.start(id), p.end(id), "[].concat( "+p.meta[id].argumentsArrayAlias+" )")
			} else {
				p.code.Overwrite(p.start(id), p.start(arg), "[].concat( ")
				p.code.Overwrite(p.end(element), p.end(id), " )")
			}
		}
		return
	}

	if p.spread(elements, p.start(id), p.meta[id].argumentsArrayAlias, false) {
		p.code.Overwrite(p.end(id)-1, p.end(id), ")")
	}
}

func (p *program) initCall(id ast.NodeID) {
	args := ast.As[*ast.Call](p.tree, id).Arguments
	if p.t.Has(target.SpreadRest) && len(args) > 1 && p.hasArgumentsSpread(args) {
		p.meta[id].argumentsArrayAlias = p.argumentsArrayAliasOf(p.findLexicalBoundary(id))
	}
	p.initialiseChildren(id)
}

func (p *program) transpileCall(id ast.NodeID) {
	call := ast.As[*ast.Call](p.tree, id)
	args := call.Arguments

	if p.t.Has(target.SpreadRest) && len(args) > 0 {
		args = p.inlineSpreads(id, args)
	}

	if p.t.Has(target.SpreadRest) && len(args) > 0 {
		hasSpreadElements := false
		first := args[0]

		if len(args) == 1 {
			if p.kind(first) == ast.SpreadElement {
				p.code.Remove(p.start(first), p.start(p.spreadArgument(first)))
				hasSpreadElements = true
			}
		} else {
			hasSpreadElements = p.spread(args, p.start(first), p.meta[id].argumentsArrayAlias, false)
		}

		if hasSpreadElements {
			p.applySpreadCall(id, call, args)
		}
	}

	if p.t.Has(target.TrailingFunctionCommas) && len(args) > 0 {
		p.removeTrailingComma(p.end(args[len(args)-1]))
	}

	p.transpile(call.Callee)
	p.transpileAll(args)
}

// applySpreadCall turns `f(a, ...b)` into `f.apply(ctx, [ a ].concat( b ))`.
func (p *program) applySpreadCall(id ast.NodeID, call *ast.Call, args []ast.NodeID) {
	callee := call.Callee
	first := args[0]

	var superNode ast.NodeID
	switch {
	case p.kind(callee) == ast.Super:
		superNode = callee
	case p.kind(callee) == ast.MemberExpression && p.kind(ast.As[*ast.Member](p.tree, callee).Object) == ast.Super:
		superNode = ast.As[*ast.Member](p.tree, callee).Object
	}

	context := "void 0"
	if !superNode.IsValid() && p.kind(callee) == ast.MemberExpression {
		object := ast.As[*ast.Member](p.tree, callee).Object
		if p.kind(object) == ast.Identifier {
			context = p.name(object)
		} else {
			context = p.findScope(id, true).CreateDeclaration("ref")
			p.code.PrependRight(p.start(object), "("+context+" = ")
			p.code.AppendLeft(p.end(object), ")")
		}
	}

	p.code.AppendLeft(p.end(callee), ".apply")
	lastEnd := p.end(args[len(args)-1])

	switch {
	case superNode.IsValid():
		p.superOf(superNode).noCall = true
		if len(args) > 1 {
			if p.kind(first) == ast.SpreadElement {
				if p.needsParentheses(p.spreadArgument(first)) {
					p.code.PrependRight(p.start(first), "( ")
				}
			} else {
				p.code.PrependRight(p.start(first), "[ ")
			}
			p.code.AppendLeft(lastEnd, " )")
		}
	case len(args) == 1:
		p.code.PrependRight(p.start(first), context+", ")
	default:
		if p.kind(first) == ast.SpreadElement {
			if p.needsParentheses(p.spreadArgument(first)) {
				p.code.AppendLeft(p.start(first), context+", ( ")
			} else {
				p.code.AppendLeft(p.start(first), context+", ")
			}
		} else {
			p.code.AppendLeft(p.start(first), context+", [ ")
		}
		p.code.AppendLeft(lastEnd, " )")
	}
}

func (p *program) initNew(id ast.NodeID) {
	args := ast.As[*ast.Call](p.tree, id).Arguments
	if p.t.Has(target.SpreadRest) && len(args) > 0 && p.hasArgumentsSpread(args) {
		p.meta[id].argumentsArrayAlias = p.argumentsArrayAliasOf(p.findLexicalBoundary(id))
	}
	p.initialiseChildren(id)
}

func (p *program) transpileNew(id ast.NodeID) {
	p.transpileChildren(id)

	call := ast.As[*ast.Call](p.tree, id)
	args := call.Arguments
	if p.t.Has(target.SpreadRest) && len(args) > 0 {
		args = p.inlineSpreads(id, args)
	}

	if p.t.Has(target.SpreadRest) && len(args) > 0 {
		first := args[0]
		if p.spread(args, p.start(first), p.meta[id].argumentsArrayAlias, true) {
			p.code.PrependRight(p.start(id)+uint32(len("new")), " (Function.prototype.bind.apply(")
			p.code.Overwrite(p.end(call.Callee), p.start(first), ", [ null ].concat( ")
			p.code.AppendLeft(p.end(id), " ))")
		}
	}

	if len(args) > 0 {
		p.removeTrailingComma(p.end(args[len(args)-1]))
	}
}
