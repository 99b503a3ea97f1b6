package transform

import (
	"strings"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/scope"
	"buble/internal/target"
)

const objectSpreadMessage = "Object spread operator requires specified objectAssign option with 'Object.assign' or polyfill helper."

// inlineObjectSpreads drops spreads of object literals and of non-string
// literals, which contribute their own properties or nothing at all.
func (p *program) inlineObjectSpreads(props []ast.NodeID) []ast.NodeID {
	props = append([]ast.NodeID(nil), props...)
	for i := 0; i < len(props); i++ {
		prop := props[i]
		if p.kind(prop) != ast.SpreadElement {
			continue
		}
		arg := p.spreadArgument(prop)
		inlinable := p.kind(arg) == ast.ObjectExpression ||
			(p.kind(arg) == ast.Literal && ast.As[*ast.Lit](p.tree, arg).Kind != ast.LitString)
		if !inlinable {
			continue
		}

		var inner []ast.NodeID
		if p.kind(arg) == ast.ObjectExpression {
			inner = ast.As[*ast.Object](p.tree, arg).Properties
		}
		if len(inner) > 0 {
			p.code.Remove(p.start(prop), p.start(inner[0]))
			p.code.Remove(p.end(inner[len(inner)-1]), p.end(prop))
		} else {
			to := p.end(prop)
			if i < len(props)-1 {
				to = p.start(props[i+1])
			}
			p.code.Remove(p.start(prop), to)
		}

		spliced := make([]ast.NodeID, 0, len(props)+len(inner)-1)
		spliced = append(spliced, props[:i]...)
		spliced = append(spliced, inner...)
		spliced = append(spliced, props[i+1:]...)
		props = spliced
		i--
	}
	return props
}

func (p *program) transpileObject(id ast.NodeID) {
	p.transpileChildren(id)

	props := p.inlineObjectSpreads(ast.As[*ast.Object](p.tree, id).Properties)

	firstPropertyStart := p.start(id) + 1
	spreadCount, computedCount := 0, 0
	firstSpread, firstComputed := -1, -1
	for i, prop := range props {
		switch {
		case p.kind(prop) == ast.SpreadElement:
			spreadCount++
			if firstSpread < 0 {
				firstSpread = i
			}
		case ast.As[*ast.Prop](p.tree, prop).Computed && p.t.Has(target.ComputedProperty):
			computedCount++
			if firstComputed < 0 {
				firstComputed = i
			}
		}
	}

	if spreadCount > 0 && !p.t.Has(target.ObjectRestSpread) && !(computedCount > 0 && p.t.Has(target.ComputedProperty)) {
		spreadCount = 0
		firstSpread = -1
	} else if spreadCount > 0 {
		firstPropertyStart = p.wrapObjectAssign(id, props, computedCount)
	}

	if computedCount > 0 && p.t.Has(target.ComputedProperty) {
		p.lowerComputedProperties(id, props, firstPropertyStart, spreadCount, firstSpread, firstComputed)
	}
}

// wrapObjectAssign turns `{ a, ...b, c }` into `assign({}, {a}, b, {c})`.
// It returns the start of the first property.
func (p *program) wrapObjectAssign(id ast.NodeID, props []ast.NodeID, computedCount int) uint32 {
	assign := p.opts.ObjectAssign
	if assign == "" {
		p.fail(id, diag.SemObjectSpreadNoAssign, objectSpreadMessage)
	}

	for i := len(props) - 1; i >= 0; i-- {
		prop := props[i]

		if p.kind(prop) == ast.Property && computedCount == 0 {
			if i == 0 || p.kind(props[i-1]) != ast.Property {
				p.code.PrependRight(p.start(prop), "{")
			}
			if i == len(props)-1 || p.kind(props[i+1]) != ast.Property {
				p.code.AppendLeft(p.end(prop), "}")
			}
		}

		if p.kind(prop) == ast.SpreadElement {
			arg := p.spreadArgument(prop)
			p.code.Remove(p.start(prop), p.start(arg))
			p.code.Remove(p.end(arg), p.end(prop))
		}
	}

	first := p.start(props[0])
	switch {
	case computedCount == 0:
		p.code.Overwrite(p.start(id), first, assign+"({}, ")
		p.code.Overwrite(p.end(props[len(props)-1]), p.end(id), ")")
	case p.kind(props[0]) == ast.SpreadElement:
		p.code.Overwrite(p.start(id), first, assign+"({}, ")
		p.code.Remove(p.end(id)-1, p.end(id))
		p.code.AppendRight(p.end(id), ")")
	default:
		p.code.PrependLeft(p.start(id), assign+"(")
		p.code.AppendRight(p.end(id), ")")
	}
	return first
}

// simpleAssignmentName returns the binding an object literal is assigned
// to when its computed keys can be set by trailing statements.
func (p *program) simpleAssignmentName(id ast.NodeID) string {
	parent := p.parent(id)
	var binding ast.NodeID
	switch p.kind(parent) {
	case ast.VariableDeclarator:
		d := ast.As[*ast.Declarator](p.tree, parent)
		if len(ast.As[*ast.VarDecl](p.tree, p.parent(parent)).Declarations) == 1 && p.kind(d.ID) == ast.Identifier {
			binding = d.ID
		}
	case ast.AssignmentExpression:
		left := ast.As[*ast.Binary](p.tree, parent).Left
		if p.kind(p.parent(parent)) == ast.ExpressionStatement && p.kind(left) == ast.Identifier {
			binding = left
		}
	case ast.AssignmentPattern:
		left := ast.As[*ast.AssignPattern](p.tree, parent).Left
		if p.kind(left) == ast.Identifier {
			binding = left
		}
	}
	if !binding.IsValid() {
		return ""
	}
	if alias := p.meta[binding].alias; alias != "" {
		return alias
	}
	return p.name(binding)
}

func (p *program) lowerComputedProperties(id ast.NodeID, props []ast.NodeID, start uint32, spreadCount, firstSpread, firstComputed int) {
	i0 := p.indentation(id)
	src := p.src
	end := p.end(id)

	name := p.simpleAssignmentName(id)
	isSimpleAssignment := name != ""
	if spreadCount > 0 {
		isSimpleAssignment = false
	}
	name = p.findScope(id, false).ResolveName(name)

	if !isSimpleAssignment {
		if firstSpread < 0 || firstComputed < firstSpread {
			name = p.findScope(id, true).CreateDeclaration("obj")
			p.code.PrependRight(p.start(id), "( "+name+" = ")
		} else {
			name = ""
		}
	}

	var lastComputed ast.NodeID
	sawNonComputed := false
	isFirst := true

	for i, prop := range props {
		moveStart := start
		if i > 0 {
			moveStart = p.end(props[i-1])
		}

		isProperty := p.kind(prop) == ast.Property
		var pr *ast.Prop
		if isProperty {
			pr = ast.As[*ast.Prop](p.tree, prop)
		}

		switch {
		case isProperty && (pr.Computed || (lastComputed.IsValid() && spreadCount == 0)):
			if i == 0 {
				moveStart = p.start(id) + 1
			}
			lastComputed = prop

			if name == "" {
				name = p.findScope(id, true).CreateDeclaration("obj")
				propID := name
				if !pr.Computed {
					propID += "."
				}
				p.code.AppendRight(p.start(prop), "( "+name+" = {}, "+propID)
			} else {
				propID := ", " + name
				if isSimpleAssignment {
					propID = ";\n" + i0 + name
				}
				if p.kind(pr.Key) != ast.Literal && !pr.Computed {
					propID += "."
				}
				if moveStart < p.start(prop) {
					p.code.Overwrite(moveStart, p.start(prop), propID)
				} else {
					p.code.PrependRight(p.start(prop), propID)
				}
			}

			c := p.end(pr.Key)
			if pr.Computed {
				for src[c] != ']' {
					c++
				}
				c++
			}
			switch {
			case p.kind(pr.Key) == ast.Literal && !pr.Computed:
				p.code.Overwrite(p.start(prop), p.start(pr.Value), "["+p.code.Slice(p.start(prop), p.end(pr.Key))+"] = ")
			case p.isShorthand(prop) || (pr.Method && !pr.Computed && p.t.Has(target.ConciseMethodProperty)):
				// the property rule already inserted a colon after the key
				key := p.code.Slice(p.start(pr.Key), p.end(pr.Key))
				p.code.Overwrite(p.start(pr.Key), p.end(pr.Key), strings.Replace(key, ":", " =", 1))
			default:
				if p.start(pr.Value) > c {
					p.code.Remove(c, p.start(pr.Value))
				}
				p.code.PrependLeft(c, " = ")
			}

			if pr.Method && (pr.Computed || !p.t.Has(target.ConciseMethodProperty)) {
				fn := ast.As[*ast.Function](p.tree, pr.Value)
				if fn.Generator {
					p.code.Remove(p.start(prop), p.start(pr.Key))
				}
				text := "function "
				if fn.Generator {
					text = "function* "
				}
				p.code.PrependRight(p.start(pr.Value), text)
			}

		case !isProperty:
			if name != "" && i > 0 {
				if !lastComputed.IsValid() {
					lastComputed = props[i-1]
				}
				p.code.AppendLeft(p.end(lastComputed), ", "+name+" )")
				lastComputed = ast.NoNodeID
				name = ""
			}

		default:
			if !isFirst && spreadCount > 0 {
				// inside Object.assign plain properties need their own literal
				p.code.PrependRight(p.start(prop), "{")
				p.code.AppendLeft(p.end(prop), "}")
			}
			sawNonComputed = true
		}

		if isFirst && (!isProperty || pr.Computed) {
			beginEnd := end - 1
			if sawNonComputed {
				beginEnd = p.end(props[len(props)-1])
			}
			// a trailing comma would become a leading one
			if src[beginEnd] == ',' {
				beginEnd++
			}
			closing := p.code.Slice(beginEnd, end)
			p.code.PrependLeft(moveStart, closing)
			p.code.Remove(beginEnd, end)
			isFirst = false
		}

		c := p.end(prop)
		if i < len(props)-1 && !sawNonComputed {
			for int(c) < len(src) && src[c] != ',' {
				c++
			}
		} else if i == len(props)-1 {
			c = end
		}
		if p.end(prop) != c {
			p.code.OverwriteWith(p.end(prop), c, "", overwriteContentOnly)
		}
	}

	if !isSimpleAssignment && name != "" && lastComputed.IsValid() {
		p.code.AppendLeft(p.end(lastComputed), ", "+name+" )")
	}
}

func (p *program) initProperty(id ast.NodeID) {
	pr := ast.As[*ast.Prop](p.tree, id)
	if (pr.Kind == ast.MethodGet || pr.Kind == ast.MethodSet) && p.t.Has(target.GetterSetter) {
		p.missingTransform(id, "getters and setters", target.GetterSetter)
	}
	p.initialiseChildren(id)
}

func isPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i] | 0x20
		switch {
		case c >= 'a' && c <= 'z', name[i] == '_', name[i] == '$':
		case i > 0 && name[i] >= '0' && name[i] <= '9':
		default:
			return false
		}
	}
	return true
}

func (p *program) transpileProperty(id ast.NodeID) {
	p.transpileChildren(id)
	pr := ast.As[*ast.Prop](p.tree, id)

	if p.t.Has(target.ConciseMethodProperty) && !pr.Computed && p.kind(p.parent(id)) != ast.ObjectPattern {
		switch {
		case p.isShorthand(id):
			p.code.PrependRight(p.start(id), p.name(pr.Key)+": ")
		case pr.Method:
			fn := ast.As[*ast.Function](p.tree, pr.Value)
			name := ""
			if p.opts.NamedFunctionExpressions {
				switch {
				case p.kind(pr.Key) == ast.Literal && ast.As[*ast.Lit](p.tree, pr.Key).Kind == ast.LitNumber:
				case p.kind(pr.Key) == ast.Identifier:
					key := p.name(pr.Key)
					if scope.IsReserved(key) || !isPlainIdentifier(key) || p.blockOf(fn.Body).scope.HasReference(key) {
						name = p.findScope(id, true).CreateIdentifier(key)
					} else {
						name = key
					}
				default:
					name = p.findScope(id, true).CreateIdentifier(p.literalString(pr.Key))
				}
				name = " " + name
			}

			if p.start(id) < p.start(pr.Key) {
				p.code.Remove(p.start(id), p.start(pr.Key))
			}
			text := ": "
			if fn.Async {
				text += "async "
			}
			text += "function"
			if fn.Generator {
				text += "*"
			}
			p.code.AppendLeft(p.end(pr.Key), text+name)
		}
	}

	if p.t.Has(target.ReservedProperties) && !pr.Computed && !pr.Shorthand && p.kind(pr.Key) == ast.Identifier && scope.IsReserved(p.name(pr.Key)) {
		p.code.PrependRight(p.start(pr.Key), "'")
		p.code.AppendLeft(p.end(pr.Key), "'")
	}
}
