package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/scope"
	"buble/internal/target"
)

func (p *program) initClassDeclaration(id ast.NodeID) {
	c := ast.As[*ast.Class](p.tree, id)
	if c.ID.IsValid() {
		p.meta[id].name = p.name(c.ID)
		p.findScope(id, true).AddDeclaration(c.ID, scope.KindClass)
	} else {
		p.meta[id].name = p.findScope(id, true).CreateIdentifier("defaultExport")
	}
	p.initialiseChildren(id)
}

func (p *program) initClassExpression(id ast.NodeID) {
	c := ast.As[*ast.Class](p.tree, id)
	name := ""
	parent := p.parent(id)
	switch {
	case c.ID.IsValid():
		name = p.name(c.ID)
	case p.kind(parent) == ast.VariableDeclarator:
		name = p.name(ast.As[*ast.Declarator](p.tree, parent).ID)
	case p.kind(parent) == ast.AssignmentExpression:
		left := ast.As[*ast.Binary](p.tree, parent).Left
		switch p.kind(left) {
		case ast.Identifier:
			name = p.name(left)
		case ast.MemberExpression:
			name = p.name(ast.As[*ast.Member](p.tree, left).Property)
		}
	}
	if name == "" {
		name = p.findScope(id, true).CreateIdentifier("anonymous")
	}
	p.meta[id].name = name
	p.initialiseChildren(id)
}

func (p *program) initClassMember(id ast.NodeID) {
	if p.t.Has(target.Classes) {
		feature := "class fields"
		if p.kind(id) == ast.StaticBlock {
			feature = "class static blocks"
		}
		p.fail(id, diag.UnsClassField, "Transforming "+feature+" is not implemented. Use `transforms: { "+
			target.Classes.String()+": false }` to skip transformation and disable this error.")
	}
	p.initialiseChildren(id)
}

func (p *program) superName(superClass ast.NodeID) string {
	if !superClass.IsValid() {
		return ""
	}
	if name := p.name(superClass); name != "" {
		return name
	}
	return "superclass"
}

func (p *program) transpileClassDeclaration(id ast.NodeID) {
	c := ast.As[*ast.Class](p.tree, id)
	if !p.t.Has(target.Classes) {
		p.transpile(c.SuperClass)
		p.transpileClassBody(c.Body, false, "")
		return
	}

	if !c.SuperClass.IsValid() {
		p.deindent(c.Body)
	}

	name := p.meta[id].name
	superName := p.superName(c.SuperClass)
	i0 := p.indentation(id)
	i1 := i0 + p.code.IndentString()

	// `export default var Foo = ...` is not valid, so the export goes after
	// the declaration
	parent := p.parent(id)
	isExportDefault := p.kind(parent) == ast.ExportDefaultDeclaration
	if isExportDefault {
		p.code.Remove(p.start(parent), p.start(id))
	}

	cur := p.start(id)
	if c.ID.IsValid() {
		p.code.Overwrite(cur, p.start(c.ID), "var ")
		cur = p.end(c.ID)
	} else {
		p.code.PrependLeft(cur, "var "+name)
	}

	bodyStart := p.start(c.Body)
	if c.SuperClass.IsValid() {
		if p.end(c.SuperClass) == bodyStart {
			p.code.Remove(cur, p.start(c.SuperClass))
			p.code.AppendLeft(cur, " = /*@__PURE__*/(function ("+superName+") {\n"+i1)
		} else {
			p.code.Overwrite(cur, p.start(c.SuperClass), " = ")
			p.code.Overwrite(p.end(c.SuperClass), bodyStart, "/*@__PURE__*/(function ("+superName+") {\n"+i1)
		}
		p.transpile(c.SuperClass)
	} else if cur == bodyStart {
		p.code.AppendLeft(cur, " = ")
	} else {
		p.code.Overwrite(cur, bodyStart, " = ")
	}

	p.transpileClassBody(c.Body, c.SuperClass.IsValid(), superName)

	syntheticExport := ""
	if isExportDefault {
		syntheticExport = "\n\n" + i0 + "export default " + name + ";"
	}
	switch {
	case c.SuperClass.IsValid():
		p.code.AppendLeft(p.end(id), "\n\n"+i1+"return "+name+";\n"+i0+"}(")
		p.code.Move(p.start(c.SuperClass), p.end(c.SuperClass), p.end(id))
		p.code.PrependRight(p.end(id), "));"+syntheticExport)
	case syntheticExport != "":
		p.code.PrependRight(p.end(id), syntheticExport)
	}
}

func (p *program) transpileClassExpression(id ast.NodeID) {
	c := ast.As[*ast.Class](p.tree, id)
	if !p.t.Has(target.Classes) {
		p.transpile(c.SuperClass)
		p.transpileClassBody(c.Body, false, "")
		return
	}

	name := p.meta[id].name
	superName := p.superName(c.SuperClass)
	if superName == name {
		superName = p.findScope(id, true).CreateIdentifier(name)
	}

	i0 := p.indentation(id)
	i1 := i0 + p.code.IndentString()

	if c.SuperClass.IsValid() {
		p.code.Remove(p.start(id), p.start(c.SuperClass))
		p.code.Remove(p.end(c.SuperClass), p.start(c.Body))
		p.code.AppendRight(p.start(id), "/*@__PURE__*/(function ("+superName+") {\n"+i1)
		p.transpile(c.SuperClass)
	} else {
		p.code.Overwrite(p.start(id), p.start(c.Body), "/*@__PURE__*/(function () {\n"+i1)
	}

	p.transpileClassBody(c.Body, true, superName)

	superClass := ""
	if c.SuperClass.IsValid() {
		superClass = p.code.Slice(p.start(c.SuperClass), p.end(c.SuperClass))
		p.code.Remove(p.start(c.SuperClass), p.end(c.SuperClass))
	}
	p.code.AppendLeft(p.end(id), "\n\n"+i1+"return "+name+";\n"+i0+"}("+superClass+"))")
}

// accessorSet collects getter and setter names in first-seen order.
type accessorSet struct {
	alias string
	names []string
}

func (a *accessorSet) add(name string) {
	for _, n := range a.names {
		if n == name {
			return
		}
	}
	a.names = append(a.names, name)
}

func (a *accessorSet) declaration() string {
	parts := make([]string, len(a.names))
	for i, n := range a.names {
		parts[i] = n + ": { configurable: true }"
	}
	return "var " + a.alias + " = { " + strings.Join(parts, ",") + " };"
}

func (p *program) transpileClassBody(id ast.NodeID, inFunctionExpression bool, superName string) {
	if !p.t.Has(target.Classes) {
		p.transpileChildren(id)
		return
	}

	class := p.parent(id)
	c := ast.As[*ast.Class](p.tree, class)
	name := p.meta[class].name
	methods := ast.As[*ast.Block](p.tree, id).Body
	src := p.src

	indentStr := p.code.IndentString()
	i0 := p.indentation(id)
	if inFunctionExpression {
		i0 += indentStr
	}
	i1 := i0 + indentStr

	constructorIndex := -1
	for i, m := range methods {
		if ast.As[*ast.Method](p.tree, m).Kind == ast.MethodConstructor {
			constructorIndex = i
			break
		}
	}

	introBlock, outroBlock := "", ""

	if len(methods) > 0 {
		p.code.Remove(p.start(id), p.start(methods[0]))
		p.code.Remove(p.end(methods[len(methods)-1]), p.end(id))
	} else {
		p.code.Remove(p.start(id), p.end(id))
	}

	var constructor ast.NodeID
	if constructorIndex >= 0 {
		constructor = methods[constructorIndex]

		if constructorIndex > 0 {
			previous := methods[constructorIndex-1]
			p.code.Remove(p.end(previous), p.start(constructor))
			to := p.end(id) - 1
			if constructorIndex+1 < len(methods) {
				to = p.start(methods[constructorIndex+1])
			}
			p.code.Move(p.start(constructor), to, p.start(methods[0]))
		}

		if !inFunctionExpression {
			p.code.AppendLeft(p.end(constructor), ";")
		}
	}

	namedFunctions := p.opts.NamedFunctionExpressions
	namedConstructor := namedFunctions || c.SuperClass.IsValid() || p.kind(class) != ast.ClassDeclaration

	switch {
	case c.SuperClass.IsValid():
		inheritance := "if ( " + superName + " ) " + name + ".__proto__ = " + superName + ";\n" +
			i0 + name + ".prototype = Object.create( " + superName + " && " + superName + ".prototype );\n" +
			i0 + name + ".prototype.constructor = " + name + ";"

		if constructor.IsValid() {
			introBlock += "\n\n" + i0 + inheritance
		} else {
			fn := "function " + name + " () {"
			if superName != "" {
				fn += "\n" + i1 + superName + ".apply(this, arguments);\n" + i0 + "}"
			} else {
				fn += "}"
			}
			if !inFunctionExpression {
				fn += ";"
			}
			if len(methods) > 0 {
				fn += "\n\n" + i0
			}
			introBlock += fn + inheritance + "\n\n" + i0
		}

	case !constructor.IsValid():
		fn := "function "
		if namedConstructor {
			fn += name + " "
		}
		fn += "() {}"
		if p.kind(class) == ast.ClassDeclaration {
			fn += ";"
		}
		if len(methods) > 0 {
			fn += "\n\n" + i0
		}
		introBlock += fn
	}

	sc := p.findScope(id, false)
	protoAccessors := &accessorSet{}
	staticAccessors := &accessorSet{}

	for i, mid := range methods {
		m := ast.As[*ast.Method](p.tree, mid)
		if (m.Kind == ast.MethodGet || m.Kind == ast.MethodSet) && p.t.Has(target.GetterSetter) {
			p.missingTransform(mid, "getters and setters", target.GetterSetter)
		}

		if m.Kind == ast.MethodConstructor {
			text := "function"
			if namedConstructor {
				text += " " + name
			}
			p.code.Overwrite(p.start(m.Key), p.end(m.Key), text)
			continue
		}

		if m.Static {
			n := uint32(6)
			if src[p.start(mid)+6] == ' ' {
				n = 7
			}
			p.code.Remove(p.start(mid), p.start(mid)+n)
		}

		isAccessor := m.Kind != ast.MethodNormal
		fn := ast.As[*ast.Function](p.tree, m.Value)

		methodName := p.name(m.Key)
		if scope.IsReserved(methodName) || p.blockOf(fn.Body).scope.HasReference(methodName) {
			methodName = sc.CreateIdentifier(methodName)
		}

		// string and number keys are emitted as computed ones
		computed := m.Computed
		fakeComputed := false
		if !computed && p.kind(m.Key) == ast.Literal {
			fakeComputed = true
			computed = true
		}

		var lhs string
		if isAccessor {
			if computed {
				p.fail(mid, diag.UnsComputedAccessor, "Computed accessor properties are not currently supported")
			}
			p.code.Remove(p.start(mid), p.start(m.Key))

			set := protoAccessors
			base := "prototypeAccessors"
			if m.Static {
				set, base = staticAccessors, "staticAccessors"
			}
			set.add(p.name(m.Key))
			if set.alias == "" {
				set.alias = sc.CreateIdentifier(base)
			}
			lhs = set.alias
		} else if m.Static {
			lhs = name
		} else {
			lhs = name + ".prototype"
		}

		if !computed {
			lhs += "."
		}

		insertNewlines := (constructorIndex > 0 && i == constructorIndex+1) ||
			(i == 0 && constructorIndex == len(methods)-1)
		if insertNewlines {
			lhs = "\n\n" + i0 + lhs
		}

		cur := p.end(m.Key)
		if computed {
			if fakeComputed {
				p.code.PrependRight(p.start(m.Key), "[")
				p.code.AppendLeft(p.end(m.Key), "]")
			} else {
				for src[cur] != ']' {
					cur++
				}
				cur++
			}
		}

		funcName := ""
		if !computed && !isAccessor && namedFunctions {
			funcName = methodName + " "
		}
		rhs := ""
		if isAccessor {
			rhs = "." + m.Kind.String()
		}
		rhs += " = "
		if fn.Async {
			rhs += "async "
		}
		rhs += "function"
		if fn.Generator {
			rhs += "* "
		} else {
			rhs += " "
		}
		rhs += funcName

		p.code.Remove(cur, p.start(m.Value))
		p.code.PrependRight(p.start(m.Value), rhs)
		p.code.AppendLeft(p.end(mid), ";")

		if fn.Generator {
			p.code.Remove(p.start(mid), p.start(m.Key))
		}

		start := p.start(m.Key)
		if computed && !fakeComputed {
			for src[start] != '[' {
				start--
			}
		}
		if p.start(mid) < start {
			p.code.Overwrite(p.start(mid), start, lhs)
		} else {
			p.code.PrependRight(p.start(mid), lhs)
		}
	}

	if len(protoAccessors.names) > 0 || len(staticAccessors.names) > 0 {
		var intro, outro []string
		if len(protoAccessors.names) > 0 {
			intro = append(intro, protoAccessors.declaration())
			outro = append(outro, "Object.defineProperties( "+name+".prototype, "+protoAccessors.alias+" );")
		}
		if len(staticAccessors.names) > 0 {
			intro = append(intro, staticAccessors.declaration())
			outro = append(outro, "Object.defineProperties( "+name+", "+staticAccessors.alias+" );")
		}

		if constructor.IsValid() {
			introBlock += "\n\n" + i0
		}
		introBlock += strings.Join(intro, "\n"+i0)
		if !constructor.IsValid() {
			introBlock += "\n\n" + i0
		}
		outroBlock += "\n\n" + i0 + strings.Join(outro, "\n"+i0)
	}

	if constructor.IsValid() {
		p.code.AppendLeft(p.end(constructor), introBlock)
	} else {
		p.code.PrependRight(p.start(id), introBlock)
	}
	p.code.AppendLeft(p.end(id), outroBlock)

	p.transpileChildren(id)
}

// deindent strips one level of indentation from every line of a class body
// that becomes part of the enclosing statement list. It works on the
// original text, skipping string and template contents.
func (p *program) deindent(id ast.NodeID) {
	start, end := p.start(id), p.end(id)
	indentStr := p.code.IndentString()
	n := uint32(len(indentStr))
	if n == 0 {
		return
	}

	if start >= n {
		indentStart := start - n
		if !p.indentExclusions[indentStart] && p.src[indentStart:start] == indentStr {
			p.code.Remove(indentStart, start)
		}
	}

	slice := p.src[start:end]
	for i := 0; i+int(n) < len(slice); {
		if slice[i:i+int(n)] != indentStr {
			i++
			continue
		}
		r, _ := utf8.DecodeRuneInString(slice[i+int(n):])
		if unicode.IsSpace(r) || r == '\uFEFF' {
			i++
			continue
		}
		removeStart := start + uint32(i)
		if !p.indentExclusions[removeStart] {
			p.code.Remove(removeStart, removeStart+n)
		}
		i += int(n) + 1
	}
}

func (p *program) superOf(id ast.NodeID) *superState {
	st := &p.meta[id]
	if st.super == nil {
		st.super = &superState{}
	}
	return st.super
}

func (p *program) initSuper(id ast.NodeID) {
	ss := p.superOf(id)
	parent := p.parent(id)

	if p.t.Has(target.Classes) {
		ss.method = p.tree.FindNearest(id, ast.MethodDefinition)
		if !ss.method.IsValid() {
			p.fail(id, diag.SemSuperOutsideMethod, "use of super outside class method")
		}

		class := p.parent(p.tree.FindNearest(id, ast.ClassBody))
		ss.superClassName = p.superName(ast.As[*ast.Class](p.tree, class).SuperClass)
		if ss.superClassName == "" {
			p.fail(id, diag.SemSuperInBaseClass, "super used in base class")
		}

		ss.isCalled = p.kind(parent) == ast.CallExpression && ast.As[*ast.Call](p.tree, parent).Callee == id
		if ast.As[*ast.Method](p.tree, ss.method).Kind != ast.MethodConstructor && ss.isCalled {
			p.fail(id, diag.SemSuperCallOutsideCtor, "super() not allowed outside class constructor")
		}

		ss.isMember = p.kind(parent) == ast.MemberExpression
		if !ss.isCalled && !ss.isMember {
			p.fail(id, diag.SemSuperUnexpected, "Unexpected use of `super` (expected `super(...)` or `super.*`)")
		}
	}

	if p.t.Has(target.Arrow) {
		boundary := p.findLexicalBoundary(id)
		arrow := p.tree.FindNearest(id, ast.ArrowFunctionExpression)
		loop := p.nearestLoop(id)

		if arrow.IsValid() && p.depth(arrow) > p.depth(boundary) {
			ss.thisAlias = p.thisAliasOf(boundary)
		}
		if loop.IsValid() && p.tree.Contains(p.loopBody(loop), id) && p.depth(loop) > p.depth(boundary) {
			ss.thisAlias = p.thisAliasOf(boundary)
		}
	}
}

func (p *program) transpileSuper(id ast.NodeID) {
	if !p.t.Has(target.Classes) {
		return
	}
	ss := p.superOf(id)

	expression := ss.superClassName + ".prototype"
	if ss.isCalled || ast.As[*ast.Method](p.tree, ss.method).Static {
		expression = ss.superClassName
	}
	p.code.OverwriteWith(p.start(id), p.end(id), expression, storeNameContentOnly)

	call := p.parent(id)
	if !ss.isCalled {
		call = p.parent(call)
	}
	if !call.IsValid() || p.kind(call) != ast.CallExpression {
		return
	}

	c := ast.As[*ast.Call](p.tree, call)
	if !ss.noCall {
		p.code.AppendLeft(p.end(c.Callee), ".call")
	}

	thisAlias := ss.thisAlias
	if thisAlias == "" {
		thisAlias = "this"
	}
	if len(c.Arguments) > 0 {
		p.code.AppendLeft(p.start(c.Arguments[0]), thisAlias+", ")
	} else {
		p.code.AppendLeft(p.end(call)-1, thisAlias)
	}
}
