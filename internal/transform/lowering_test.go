package transform_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/target"
	"buble/internal/transform"
)

func withObjectAssign(o *transform.Options) { o.ObjectAssign = "Object.assign" }

func TestPlainAssignments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"identifier", "x = 1;", "x = 1;"},
		{"member", "o.p = 1;", "o.p = 1;"},
		{"computed member", "o[k] = v;", "o[k] = v;"},
		{"compound", "x += 1;", "x += 1;"},
		{"chained", "a = b = c;", "a = b = c;"},
		{
			"arrow value",
			"function f () {\n\tb = () => this;\n}",
			"function f () {\n\tvar this$1 = this;\n\n\tb = function () { return this$1; };\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, compile(t, tt.input))
		})
	}
}

func TestAssignmentOfObjectSpread(t *testing.T) {
	out := compile(t, "obj = {a: 1, ...b};", withObjectAssign)
	require.Equal(t, "obj = Object.assign({}, {a: 1}, b);", out)
}

func TestDestructuringAssignmentStillLowered(t *testing.T) {
	out := compile(t, "var a, b;\n({ a, b } = obj);")
	require.NotContains(t, out, "{ a, b }")
	require.Contains(t, out, "a = ")
	require.Contains(t, out, ".a")
	require.Contains(t, out, ".b")
}

func TestClassConstructorAssignsMembers(t *testing.T) {
	src := "class Point {\n\tconstructor ( x, y ) {\n\t\tthis.x = x;\n\t\tthis.y = y;\n\t}\n}"
	out := compile(t, src)
	require.Contains(t, out, "var Point = function Point ( x, y ) {")
	require.Contains(t, out, "\tthis.x = x;\n")
	require.Contains(t, out, "\tthis.y = y;\n")
	require.NotContains(t, out, "assign")
}

func TestFunctionPrologues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"default parameter",
			"function f ( a = 1 ) {\n\treturn a;\n}",
			"function f ( a ) {\n\tif ( a === void 0 ) a = 1;\n\n\treturn a;\n}",
		},
		{
			"rest parameter",
			"function f ( a, ...rest ) {\n\treturn rest;\n}",
			"function f ( a ) {\n\tvar rest = [], len = arguments.length - 1;\n\twhile ( len-- > 0 ) rest[ len ] = arguments[ len + 1 ];\n\n\treturn rest;\n}",
		},
		{
			"parameter destructuring",
			"function f ( { a, b } ) {\n\treturn a + b;\n}",
			"function f ( ref ) {\n\tvar a = ref.a;\n\tvar b = ref.b;\n\n\treturn a + b;\n}",
		},
		{
			"arrow this",
			"function foo () {\n\treturn () => this.value;\n}",
			"function foo () {\n\tvar this$1 = this;\n\n\treturn function () { return this$1.value; };\n}",
		},
		{
			"arrow arguments",
			"function foo () {\n\treturn () => arguments[0];\n}",
			"function foo () {\n\tvar arguments$1 = arguments;\n\n\treturn function () { return arguments$1[0]; };\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, compile(t, tt.input))
		})
	}
}

func TestGeneratedNamesAvoidCollisions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			"this alias",
			"function foo () {\n\tvar this$1 = 1;\n\treturn () => this;\n}",
			[]string{"var this$2 = this;", "var this$1 = 1;", "return function () { return this$2; };"},
		},
		{
			"destructuring ref",
			"function f ( { a }, ref ) {\n\treturn a + ref;\n}",
			[]string{"function f ( ref$1, ref ) {", "var a = ref$1.a;", "return a + ref;"},
		},
		{
			"rest length",
			"function f ( len, ...rest ) {\n\treturn len;\n}",
			[]string{"len$1 = arguments.length - 1", "return len;"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := compile(t, tt.input)
			for _, want := range tt.contains {
				require.Contains(t, out, want)
			}
		})
	}
}

func TestLoopBodyCapturingLetBecomesFunction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			"captured binding",
			"function f () {\n\tvar fns = [];\n\tfor ( let i = 0; i < 10; i += 1 ) {\n\t\tfns.push( function () { return i; } );\n\t}\n\treturn fns;\n}",
			[]string{
				"var loop = function ( i ) {",
				"fns.push( function () { return i; } );",
				"for ( var i = 0; i < 10; i += 1 ) loop( i );",
			},
		},
		{
			"break",
			"function f () {\n\tfor ( let i = 0; i < 10; i += 1 ) {\n\t\tsetTimeout( function () { return i; } );\n\t\tif ( i > 5 ) break;\n\t}\n}",
			[]string{
				"return 'break';",
				"var returned = loop( i );",
				"if ( returned === 'break' ) break;",
			},
		},
		{
			"return",
			"function f () {\n\tfor ( let i = 0; i < 10; i += 1 ) {\n\t\tsetTimeout( function () { return i; } );\n\t\tif ( i > 5 ) return i;\n\t}\n}",
			[]string{
				"return { v: i };",
				"var returned = loop( i );",
				"if ( returned ) return returned.v;",
			},
		},
		{
			"reassigned binding is copied back",
			"function f () {\n\tfor ( let i = 0; i < 10; i += 1 ) {\n\t\tsetTimeout( function () { return i; } );\n\t\ti += 1;\n\t}\n}",
			[]string{
				"var loop = function ( i$1 ) {",
				"i$1 += 1;",
				"i = i$1;",
				"loop( i );",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := compile(t, tt.input)
			require.NotContains(t, out, "let ")
			for _, want := range tt.contains {
				require.Contains(t, out, want)
			}
		})
	}
}

func TestLoopWithoutClosureStaysInline(t *testing.T) {
	out := compile(t, "function f () {\n\tfor ( let i = 0; i < 3; i += 1 ) {\n\t\tg( i );\n\t}\n}")
	require.Equal(t, "function f () {\n\tfor ( var i = 0; i < 3; i += 1 ) {\n\t\tg( i );\n\t}\n}", out)
}

func TestSubclassLowering(t *testing.T) {
	src := "class Foo extends Bar {\n\tconstructor ( x ) {\n\t\tsuper( x );\n\t}\n\n\tm () {\n\t\treturn super.m();\n\t}\n}"
	out := compile(t, src)
	for _, want := range []string{
		"var Foo = /*@__PURE__*/(function (Bar) {",
		"function Foo ( x ) {",
		"Bar.call( this, x );",
		"if ( Bar ) Foo.__proto__ = Bar;",
		"Foo.prototype = Object.create( Bar && Bar.prototype );",
		"Foo.prototype.constructor = Foo;",
		"return Bar.prototype.m.call(this);",
		"return Foo;",
		"}(Bar));",
	} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, "super")
}

func TestClassAccessorsAreGrouped(t *testing.T) {
	src := "class Circle {\n\tget area () { return 1; }\n\tset area ( v ) {}\n\tstatic get unit () { return 2; }\n}"
	out := compile(t, src, disable(target.GetterSetter))
	for _, want := range []string{
		"var prototypeAccessors = { area: { configurable: true } };",
		"var staticAccessors = { unit: { configurable: true } };",
		"prototypeAccessors.area.get = function () { return 1; };",
		"prototypeAccessors.area.set = function ( v ) {};",
		"staticAccessors.unit.get = function () { return 2; };",
		"Object.defineProperties( Circle.prototype, prototypeAccessors );",
		"Object.defineProperties( Circle, staticAccessors );",
	} {
		require.Contains(t, out, want)
	}
}

func TestObjectRest(t *testing.T) {
	out := compile(t, "var {a, ...b} = c;")
	require.Equal(t,
		"function objectWithoutProperties (obj, exclude) { var target = {}; for (var k in obj) "+
			"if (Object.prototype.hasOwnProperty.call(obj, k) && exclude.indexOf(k) === -1) target[k] = obj[k]; return target; }\n"+
			"var a = c.a;\nvar rest = objectWithoutProperties( c, [\"a\"] );\nvar b = rest;",
		out)
}

func TestObjectRestHelperIsEmittedOnce(t *testing.T) {
	out := compile(t, "var {a, ...b} = c;\nvar {d, ...e} = f;")
	require.Equal(t, 1, strings.Count(out, "function objectWithoutProperties"))
	require.Contains(t, out, "objectWithoutProperties( f, [\"d\"] )")
}

func TestArraySpread(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"middle", "var c = [ a, ...b, d ];", "var c = [ a ].concat( b, [d] );"},
		{"only", "var c = [ ...b ];", "var c = [].concat( b );"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, compile(t, tt.input))
		})
	}
}

func TestSpreadOfArrayLiteralIsInlined(t *testing.T) {
	out := compile(t, "f( ...[ a, b ] );")
	require.Contains(t, out, "f( a, b")
	require.NotContains(t, out, "...")
	require.NotContains(t, out, "apply")
}

func TestSparseArraySpreadIsNotInlined(t *testing.T) {
	out := compile(t, "var c = [ a, ...[ 1, , 3 ] ];")
	require.Contains(t, out, ".concat(")
	require.Contains(t, out, "[ 1, , 3 ]")
}

func TestComputedProperties(t *testing.T) {
	declared := compile(t, "var o = { [k]: v };")
	require.Contains(t, declared, "o[k] = v")
	require.NotContains(t, declared, "[k]:")

	inline := compile(t, "f({ [k]: v });")
	require.Contains(t, inline, "var obj")
	require.Contains(t, inline, "obj[k] = v")
	require.NotContains(t, inline, "[k]:")
}

func TestIE11Target(t *testing.T) {
	ts, err := target.Resolve(map[string]string{"ie": "11"})
	require.NoError(t, err)
	ie11 := func(o *transform.Options) { o.Transforms = ts }

	out := compile(t, "const add = (a, b = 1) => a + b;\nvar s = `sum ${add(1)}`;", ie11)
	require.NotContains(t, out, "=>")
	require.NotContains(t, out, "`")
	require.NotContains(t, out, "const ")
	require.Contains(t, out, "var add = function (a, b) {")
	require.Contains(t, out, "if ( b === void 0 ) b = 1;")
	require.Contains(t, out, "return a + b;")
	require.Contains(t, out, `"sum " + (add(1))`)
}

func TestIE11KeepsAccessors(t *testing.T) {
	ts, err := target.Resolve(map[string]string{"ie": "11"})
	require.NoError(t, err)

	src := "var o = { get x () { return 1; } };"
	require.Equal(t, src, compile(t, src, func(o *transform.Options) { o.Transforms = ts }))
}

// compiling the output again changes nothing: every lowered construct is
// already in the target syntax
func TestOutputIsStable(t *testing.T) {
	inputs := []string{
		"var f = x => x * 2;",
		"var s = `hello ${name}!`;",
		"var x = a ** b;",
		"f(...args);",
		"var c = [ a, ...b, d ];",
		"var { x, y } = point;",
		"let a = 1; { let a = 2; console.log(a); }",
		"function f ( a = 1 ) {\n\treturn a;\n}",
		"function f ( { a, b } ) {\n\treturn a + b;\n}",
		"class Foo {\n\tconstructor ( answer ) {\n\t\tthis.answer = answer;\n\t}\n\n\tbar () {\n\t\treturn this.answer;\n\t}\n}",
		"function foo () {\n\treturn () => this.value;\n}",
	}
	for _, src := range inputs {
		once := compile(t, src)
		require.Equal(t, once, compile(t, once), "input %q", src)
	}
}
