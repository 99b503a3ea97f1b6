package transform

import (
	"regexp"
	"strings"

	"buble/internal/ast"
	"buble/internal/diag"
)

var (
	reJSXTrailingSpace = regexp.MustCompile(`[ \f\n\r\t\v]+$`)
	reJSXLeadingLine   = regexp.MustCompile(`^\n\r?[ \f\n\r\t\v]+`)
	reJSXLineBreak     = regexp.MustCompile(`[ \f\n\r\t\v]*\n\r?[ \f\n\r\t\v]*`)
	reJSXVisible       = regexp.MustCompile(`[^ \f\n\r\t\v]`)
)

// normaliseJSXText collapses the line breaks of a text child into single
// spaces and quotes the result.
func normaliseJSXText(s string, removeTrailingWhitespace bool) string {
	if removeTrailingWhitespace && strings.Contains(s, "\n") {
		s = reJSXTrailingSpace.ReplaceAllString(s, "")
	}
	s = reJSXLeadingLine.ReplaceAllString(s, "")
	s = reJSXLineBreak.ReplaceAllString(s, " ")
	return jsonString(s)
}

// isBlankLine reports whether a JSXText child is only whitespace spanning
// a line break.
func (p *program) isBlankLine(id ast.NodeID) bool {
	if p.kind(id) != ast.JSXText {
		return false
	}
	v := ast.As[*ast.JSXTextData](p.tree, id).Value
	return strings.TrimSpace(v) == "" && strings.Contains(v, "\n")
}

func (p *program) initJSXElement(id ast.NodeID) {
	for _, child := range ast.As[*ast.JSXElem](p.tree, id).Children {
		if p.kind(child) == ast.JSXText {
			p.indentExclusionNodes = append(p.indentExclusionNodes, child)
		}
	}
	p.initialiseChildren(id)
}

// initJSXSpreadAttribute rejects spreads mixed with other attributes when
// there is no helper to merge them.
func (p *program) initJSXSpreadAttribute(id ast.NodeID) {
	opening := ast.As[*ast.JSXOpening](p.tree, p.parent(id))
	if len(opening.Attributes) > 1 && p.opts.ObjectAssign == "" {
		p.fail(id, diag.SemJSXSpreadNoAssign,
			"Mixed JSX attributes ending in spread requires specified objectAssign option with 'Object.assign' or polyfill helper.")
	}
	p.initialiseChildren(id)
}

func (p *program) transpileJSXElement(id ast.NodeID) {
	p.transpileChildren(id)

	el := ast.As[*ast.JSXElem](p.tree, id)
	var children []ast.NodeID
	for _, child := range el.Children {
		if p.kind(child) != ast.JSXText {
			children = append(children, child)
			continue
		}
		// whitespace-only text survives only on a single line
		raw := p.text(child)
		if reJSXVisible.MatchString(raw) || !strings.Contains(raw, "\n") {
			children = append(children, child)
		}
	}

	c := p.end(el.Opening)
	for i, child := range children {
		empty := p.kind(child) == ast.JSXExpressionContainer &&
			p.kind(ast.As[*ast.JSXContainer](p.tree, child).Expression) == ast.JSXEmptyExpression
		if !empty {
			tail := " "
			if p.src[c] == '\n' && p.kind(child) != ast.JSXText {
				tail = ""
			}
			p.code.AppendLeft(c, ","+tail)
		}

		if p.kind(child) == ast.JSXText {
			value := ast.As[*ast.JSXTextData](p.tree, child).Value
			p.code.Overwrite(p.start(child), p.end(child), normaliseJSXText(value, i == len(children)-1))
		}
		c = p.end(child)
	}
}

func (p *program) transpileJSXExpressionContainer(id ast.NodeID) {
	expr := ast.As[*ast.JSXContainer](p.tree, id).Expression
	p.code.Remove(p.start(id), p.start(expr))
	p.code.Remove(p.end(expr), p.end(id))
	p.transpileChildren(id)
}

func (p *program) transpileJSXSpreadAttribute(id ast.NodeID) {
	arg := ast.As[*ast.Argument](p.tree, id).Argument
	p.code.Remove(p.start(id), p.start(arg))
	p.code.Remove(p.end(arg), p.end(id))
	p.transpileChildren(id)
}

// jsxKey quotes attribute names that are not valid identifiers.
func jsxKey(name string) string {
	if strings.ContainsAny(name, "-:") {
		return "'" + name + "'"
	}
	return name
}

func (p *program) transpileJSXAttribute(id ast.NodeID) {
	attr := ast.As[*ast.JSXAttr](p.tree, id)

	end := p.end(attr.Name)
	value := ""
	if attr.Value.IsValid() {
		end = p.start(attr.Value)
	} else {
		value = "true"
	}
	p.code.Overwrite(p.start(attr.Name), end, jsxKey(p.text(attr.Name))+": "+value)

	p.transpileChildren(id)
}

// isHTMLTag reports whether a tag name is an intrinsic element, emitted as
// a string rather than a reference.
func (p *program) isHTMLTag(name ast.NodeID) bool {
	switch p.kind(name) {
	case ast.JSXIdentifier:
		s := p.name(name)
		return s != "" && s[:1] == strings.ToLower(s[:1])
	case ast.JSXNamespacedName:
		return true
	}
	return false
}

func (p *program) transpileJSXOpeningElement(id ast.NodeID) {
	p.transpileChildren(id)

	open := ast.As[*ast.JSXOpening](p.tree, id)
	p.code.Overwrite(p.start(id), p.start(open.Name), p.jsx+"( ")

	html := p.isHTMLTag(open.Name)
	if html {
		p.code.PrependRight(p.start(open.Name), "'")
	}

	attrs := open.Attributes
	c := p.end(open.Name)

	if len(attrs) > 0 {
		hasSpread := false
		for _, attr := range attrs {
			if p.kind(attr) == ast.JSXSpreadAttribute {
				hasSpread = true
				break
			}
		}

		c = p.end(attrs[0])
		for i, attr := range attrs {
			if i > 0 {
				if p.start(attr) == c {
					p.code.PrependRight(c, ", ")
				} else {
					p.code.Overwrite(c, p.start(attr), ", ")
				}
			}

			if hasSpread && p.kind(attr) != ast.JSXSpreadAttribute {
				if i == 0 || p.kind(attrs[i-1]) == ast.JSXSpreadAttribute {
					p.code.PrependRight(p.start(attr), "{ ")
				}
				if i == len(attrs)-1 || p.kind(attrs[i+1]) == ast.JSXSpreadAttribute {
					p.code.AppendLeft(p.end(attr), " }")
				}
			}
			c = p.end(attr)
		}

		var before, after string
		switch {
		case hasSpread && len(attrs) == 1:
			before = ","
		case hasSpread:
			before = ", " + p.opts.ObjectAssign + "({},"
			after = ")"
		default:
			before = ", {"
			after = " }"
		}
		if html {
			before = "'" + before
		}

		p.code.PrependRight(p.end(open.Name), before)
		if after != "" {
			p.code.AppendLeft(p.end(attrs[len(attrs)-1]), after)
		}
	} else {
		if html {
			p.code.AppendLeft(p.end(open.Name), "', null")
		} else {
			p.code.AppendLeft(p.end(open.Name), ", null")
		}
	}

	if open.SelfClosing {
		if len(attrs) > 0 {
			p.code.Overwrite(c, p.end(id), ")")
		} else {
			p.code.Overwrite(c, p.end(id), " )")
		}
	} else {
		p.code.Remove(c, p.end(id))
	}
}

func (p *program) transpileJSXOpeningFragment(id ast.NodeID) {
	p.code.Overwrite(p.start(id), p.end(id), p.jsx+"( "+p.jsxFragment+", null")
}

// closeParen picks ` )` or `)` for a closing tag: no space when the last
// child ends the line.
func (p *program) closeParen(el ast.NodeID, hasAttributes bool) string {
	children := ast.As[*ast.JSXElem](p.tree, el).Children
	if hasAttributes || (len(children) > 0 && p.isBlankLine(children[len(children)-1])) {
		return ")"
	}
	return " )"
}

func (p *program) transpileJSXClosingElement(id ast.NodeID) {
	el := p.parent(id)
	open := ast.As[*ast.JSXOpening](p.tree, ast.As[*ast.JSXElem](p.tree, el).Opening)
	p.code.Overwrite(p.start(id), p.end(id), p.closeParen(el, len(open.Attributes) > 0))
}

func (p *program) transpileJSXClosingFragment(id ast.NodeID) {
	p.code.Overwrite(p.start(id), p.end(id), p.closeParen(p.parent(id), false))
}
