package transform

import (
	"strconv"
	"strings"

	"buble/internal/ast"
	"buble/internal/diag"
)

// destructurer lowers a binding pattern to a sequence of assignments.
// Statements are collected as introGens so the caller decides where they
// land; inline mode chains them with commas instead of `var` statements.
type destructurer struct {
	p                *program
	createIdentifier func(base string) string
	resolveName      func(ident ast.NodeID) string
}

func (d destructurer) destructure(node ast.NodeID, ref string, inline bool, gens []introGen) []introGen {
	switch d.p.kind(node) {
	case ast.Identifier:
		return d.identifier(node, ref, inline, gens)
	case ast.AssignmentPattern:
		return d.assignmentPattern(node, ref, inline, gens)
	case ast.ArrayPattern:
		return d.arrayPattern(node, ref, inline, gens)
	case ast.ObjectPattern:
		return d.objectPattern(node, ref, inline, gens)
	}
	d.p.unexpected(node)
	return gens
}

func varPrefix(inline bool, prefix string) string {
	if inline {
		return prefix
	}
	return prefix + "var "
}

func (d destructurer) identifier(node ast.NodeID, ref string, inline bool, gens []introGen) []introGen {
	p := d.p
	return append(gens, func(start uint32, prefix, suffix string) {
		p.code.Overwrite(p.start(node), p.end(node), varPrefix(inline, prefix)+d.resolveName(node)+" = "+ref+suffix)
		p.code.Move(p.start(node), p.end(node), start)
	})
}

func (d destructurer) member(node ast.NodeID, ref string, inline bool, gens []introGen) []introGen {
	p := d.p
	return append(gens, func(start uint32, prefix, suffix string) {
		p.code.PrependRight(p.start(node), varPrefix(inline, prefix))
		p.code.AppendLeft(p.end(node), " = "+ref+suffix)
		p.code.Move(p.start(node), p.end(node), start)
	})
}

func (d destructurer) assignmentPattern(node ast.NodeID, ref string, inline bool, gens []introGen) []introGen {
	p := d.p
	ap := ast.As[*ast.AssignPattern](p.tree, node)
	isIdentifier := p.kind(ap.Left) == ast.Identifier
	name := ref
	if isIdentifier {
		name = p.name(ap.Left)
	}

	if !inline {
		gens = append(gens, func(start uint32, prefix, suffix string) {
			p.code.PrependRight(p.end(ap.Left), prefix+"if ( "+name+" === void 0 ) "+name)
			p.code.Move(p.end(ap.Left), p.end(ap.Right), start)
			p.code.AppendLeft(p.end(ap.Right), suffix)
		})
	}

	if !isIdentifier {
		gens = d.destructure(ap.Left, ref, inline, gens)
	}
	return gens
}

func (d destructurer) arrayPattern(node ast.NodeID, ref string, inline bool, gens []introGen) []introGen {
	p := d.p
	c := p.start(node)
	for i, el := range ast.As[*ast.Array](p.tree, node).Elements {
		if !el.IsValid() {
			continue
		}
		idx := strconv.Itoa(i)
		if p.kind(el) == ast.RestElement {
			gens = d.handleProperty(c, ast.As[*ast.Argument](p.tree, el).Argument, ref+".slice("+idx+")", inline, gens)
		} else {
			gens = d.handleProperty(c, el, ref+"["+idx+"]", inline, gens)
		}
		c = p.end(el)
	}
	p.code.Remove(c, p.end(node))
	return gens
}

func (d destructurer) objectPattern(node ast.NodeID, ref string, inline bool, gens []introGen) []introGen {
	p := d.p
	c := p.start(node)

	var nonRestKeys []string
	for _, prop := range ast.As[*ast.Object](p.tree, node).Properties {
		var value string
		var content ast.NodeID

		switch p.kind(prop) {
		case ast.Property:
			pr := ast.As[*ast.Prop](p.tree, prop)
			content = pr.Value
			switch {
			case !pr.Computed && p.kind(pr.Key) == ast.Identifier:
				value = ref + "." + p.name(pr.Key)
				nonRestKeys = append(nonRestKeys, `"`+p.name(pr.Key)+`"`)
			case !pr.Computed && p.kind(pr.Key) == ast.Literal:
				value = ref + "[" + ast.As[*ast.Lit](p.tree, pr.Key).Raw + "]"
				nonRestKeys = append(nonRestKeys, jsonString(p.literalString(pr.Key)))
			default:
				expr := p.code.Slice(p.start(pr.Key), p.end(pr.Key))
				value = ref + "[" + expr + "]"
				nonRestKeys = append(nonRestKeys, "String("+expr+")")
			}

		case ast.RestElement:
			arg := ast.As[*ast.Argument](p.tree, prop).Argument
			content = arg
			value = d.createIdentifier("rest")
			keys := strings.Join(nonRestKeys, ", ")
			restName := value
			gens = append(gens, func(start uint32, prefix, suffix string) {
				helper := p.objectWithoutPropertiesHelper()
				p.code.Overwrite(p.start(prop), p.start(arg),
					varPrefix(inline, prefix)+restName+" = "+helper+"( "+ref+", ["+keys+"] )"+suffix)
				p.code.Move(p.start(prop), p.start(arg), start)
			})

		default:
			p.fail(prop, diag.IntUnexpectedNode, "Unexpected node of type "+p.kind(prop).String()+" in object pattern")
		}

		gens = d.handleProperty(c, content, value, inline, gens)
		c = p.end(prop)
	}

	p.code.Remove(c, p.end(node))
	return gens
}

// handleProperty binds node, which sits after offset c, to value.
func (d destructurer) handleProperty(c uint32, node ast.NodeID, value string, inline bool, gens []introGen) []introGen {
	p := d.p
	switch p.kind(node) {
	case ast.Identifier:
		p.code.Remove(c, p.start(node))
		return d.identifier(node, value, inline, gens)

	case ast.MemberExpression:
		p.code.Remove(c, p.start(node))
		return d.member(node, value, true, gens)

	case ast.AssignmentPattern:
		ap := ast.As[*ast.AssignPattern](p.tree, node)
		isIdentifier := p.kind(ap.Left) == ast.Identifier
		var name string
		if isIdentifier {
			name = d.resolveName(ap.Left)
		} else {
			name = d.createIdentifier(value)
		}

		gens = append(gens, func(start uint32, prefix, suffix string) {
			if inline {
				p.code.PrependRight(p.start(ap.Right), name+" = "+value+", "+name+" = "+name+" === void 0 ? ")
				p.code.AppendLeft(p.end(ap.Right), " : "+name+suffix)
			} else {
				p.code.PrependRight(p.start(ap.Right), prefix+"var "+name+" = "+value+"; if ( "+name+" === void 0 ) "+name+" = ")
				p.code.AppendLeft(p.end(ap.Right), suffix)
			}
			p.code.Move(p.start(ap.Right), p.end(ap.Right), start)
		})

		if isIdentifier {
			p.code.Remove(c, p.start(ap.Right))
			return gens
		}
		p.code.Remove(c, p.start(ap.Left))
		p.code.Remove(p.end(ap.Left), p.start(ap.Right))
		return d.handleProperty(c, ap.Left, name, inline, gens)

	case ast.ObjectPattern:
		p.code.Remove(c, p.start(node))

		ref := value
		if len(ast.As[*ast.Object](p.tree, node).Properties) > 1 {
			ref = d.createIdentifier(value)
			gens = append(gens, func(start uint32, prefix, suffix string) {
				s := p.start(node)
				lead := ""
				if !inline {
					lead = prefix + "var "
				}
				p.code.Overwrite(s, s+1, lead+ref+" = "+value+suffix)
				p.code.Move(s, s+1, start)
			})
		}
		return d.objectPattern(node, ref, inline, gens)

	case ast.ArrayPattern:
		p.code.Remove(c, p.start(node))
		c = p.start(node)

		elements := ast.As[*ast.Array](p.tree, node).Elements
		present := 0
		first := -1
		for i, el := range elements {
			if el.IsValid() {
				present++
				if first < 0 {
					first = i
				}
			}
		}

		if present > 1 {
			ref := d.createIdentifier(value)
			gens = append(gens, func(start uint32, prefix, suffix string) {
				s := p.start(node)
				lead := ""
				if !inline {
					lead = prefix + "var "
				}
				p.code.PrependRight(s, lead+ref+" = ")
				p.code.OverwriteWith(s, s+1, value, overwriteContentOnly)
				p.code.AppendLeft(s+1, suffix)
				p.code.Move(s, s+1, start)
			})

			for i, el := range elements {
				if !el.IsValid() {
					continue
				}
				idx := strconv.Itoa(i)
				if p.kind(el) == ast.RestElement {
					gens = d.handleProperty(c, ast.As[*ast.Argument](p.tree, el).Argument, ref+".slice("+idx+")", inline, gens)
				} else {
					gens = d.handleProperty(c, el, ref+"["+idx+"]", inline, gens)
				}
				c = p.end(el)
			}
		} else if first >= 0 {
			el := elements[first]
			idx := strconv.Itoa(first)
			if p.kind(el) == ast.RestElement {
				gens = d.handleProperty(c, ast.As[*ast.Argument](p.tree, el).Argument, value+".slice("+idx+")", inline, gens)
			} else {
				gens = d.handleProperty(c, el, value+"["+idx+"]", inline, gens)
			}
			c = p.end(el)
		}

		p.code.Remove(c, p.end(node))
		return gens
	}

	p.fail(node, diag.IntUnexpectedNode, "Unexpected node type in destructuring ("+p.kind(node).String()+")")
	return gens
}
