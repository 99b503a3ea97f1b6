package transform

import (
	"cmp"
	"slices"

	"buble/internal/ast"
	"buble/internal/target"
)

func (p *program) initTaggedTemplate(id ast.NodeID) {
	if p.t.Has(target.TemplateString) && !p.t.Has(target.DangerousTaggedTemplateString) {
		p.missingTransform(id, "tagged template strings", target.TemplateString, target.DangerousTaggedTemplateString)
	}
	p.initialiseChildren(id)
}

// templateParts returns the expressions and chunks of a template literal
// in source order.
func (p *program) templateParts(tmpl *ast.Template) []ast.NodeID {
	parts := make([]ast.NodeID, 0, len(tmpl.Expressions)+len(tmpl.Quasis))
	parts = append(parts, tmpl.Expressions...)
	parts = append(parts, tmpl.Quasis...)
	slices.SortStableFunc(parts, func(a, b ast.NodeID) int {
		if c := cmp.Compare(p.start(a), p.start(b)); c != 0 {
			return c
		}
		return cmp.Compare(p.end(a), p.end(b))
	})
	return parts
}

// transpileTaggedTemplate turns tag`a${b}c` into tag(templateObject, b),
// sharing one frozen strings array per distinct set of chunks.
func (p *program) transpileTaggedTemplate(id ast.NodeID) {
	if p.t.Has(target.TemplateString) && p.t.Has(target.DangerousTaggedTemplateString) {
		tagged := ast.As[*ast.Tagged](p.tree, id)
		tmpl := ast.As[*ast.Template](p.tree, tagged.Quasi)
		ordered := p.templateParts(tmpl)

		cooked := make([]string, len(tmpl.Quasis))
		for i, q := range tmpl.Quasis {
			cooked[i] = ast.As[*ast.TemplateElem](p.tree, q).Cooked
		}
		obj := p.templateObject(cooked)

		p.code.Overwrite(p.end(tagged.Tag), p.start(ordered[0]), "("+obj)

		lastIndex := p.start(ordered[0])
		for _, part := range ordered {
			if p.kind(part) == ast.TemplateElement {
				p.code.Remove(lastIndex, p.end(part))
			} else {
				p.code.Overwrite(lastIndex, p.start(part), ", ")
			}
			lastIndex = p.end(part)
		}

		p.code.Overwrite(lastIndex, p.end(id), ")")
	}

	p.transpileChildren(id)
}

// transpileTemplateLiteral concatenates the chunks and expressions of an
// untagged template with `+`.
func (p *program) transpileTemplateLiteral(id ast.NodeID) {
	p.transpileChildren(id)

	parent := p.parent(id)
	if !p.t.Has(target.TemplateString) || p.kind(parent) == ast.TaggedTemplateExpression {
		return
	}

	tmpl := ast.As[*ast.Template](p.tree, id)
	var ordered []ast.NodeID
	for i, part := range p.templateParts(tmpl) {
		// empty chunks only survive at the head
		if p.kind(part) != ast.TemplateElement || p.templateRaw(part) != "" || i == 0 {
			ordered = append(ordered, part)
		}
	}

	// the empty head can go unless the next two parts are both expressions,
	// which could be numbers: 1 + 2 + '3' === '33'
	if len(ordered) >= 3 {
		first, third := ordered[0], ordered[2]
		if p.kind(first) == ast.TemplateElement && p.templateRaw(first) == "" && p.kind(third) == ast.TemplateElement {
			ordered = ordered[1:]
		}
	}

	parenthesise := (len(tmpl.Quasis) != 1 || len(tmpl.Expressions) != 0) && !p.concatenatesSafely(parent)
	if parenthesise {
		p.code.AppendRight(p.start(id), "(")
	}

	lastIndex := p.start(id)
	for i, part := range ordered {
		prefix := " + "
		if i == 0 {
			prefix = ""
			if parenthesise {
				prefix = "("
			}
		}

		if p.kind(part) == ast.TemplateElement {
			cooked := ast.As[*ast.TemplateElem](p.tree, part).Cooked
			p.code.Overwrite(lastIndex, p.end(part), prefix+jsonString(cooked))
		} else {
			wrap := p.kind(part) != ast.Identifier
			if wrap {
				prefix += "("
			}
			p.code.Remove(lastIndex, p.start(part))
			if prefix != "" {
				p.code.PrependRight(p.start(part), prefix)
			}
			if wrap {
				p.code.AppendLeft(p.end(part), ")")
			}
		}
		lastIndex = p.end(part)
	}

	if parenthesise {
		p.code.AppendLeft(lastIndex, ")")
	}
	if lastIndex < p.end(id) {
		p.code.OverwriteWith(lastIndex, p.end(id), "", overwriteContentOnly)
	}
}

func (p *program) templateRaw(id ast.NodeID) string {
	return ast.As[*ast.TemplateElem](p.tree, id).Raw
}

// concatenatesSafely reports whether a `+` chain can stand in parent
// without parentheses.
func (p *program) concatenatesSafely(parent ast.NodeID) bool {
	switch p.kind(parent) {
	case ast.TemplateLiteral, ast.AssignmentExpression, ast.AssignmentPattern, ast.VariableDeclarator:
		return true
	case ast.BinaryExpression:
		return ast.As[*ast.Binary](p.tree, parent).Operator == "+"
	}
	return false
}
