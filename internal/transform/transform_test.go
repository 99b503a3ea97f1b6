package transform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/diag"
	"buble/internal/parser"
	"buble/internal/target"
	"buble/internal/transform"
)

func compile(t *testing.T, src string, configure ...func(*transform.Options)) string {
	t.Helper()
	res, err := parser.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	opts := transform.DefaultOptions()
	opts.JSXPragma = res.JSXPragma
	for _, fn := range configure {
		fn(&opts)
	}
	out, err := transform.Transform(src, res.Tree, opts)
	require.NoError(t, err)
	return out.Code
}

func compileError(t *testing.T, src string, configure ...func(*transform.Options)) *diag.CompileError {
	t.Helper()
	res, err := parser.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	opts := transform.DefaultOptions()
	for _, fn := range configure {
		fn(&opts)
	}
	_, err = transform.Transform(src, res.Tree, opts)
	require.Error(t, err)

	var ce *diag.CompileError
	require.True(t, errors.As(err, &ce), "expected *diag.CompileError, got %T", err)
	return ce
}

func enable(features ...target.Feature) func(*transform.Options) {
	return func(o *transform.Options) {
		for _, f := range features {
			o.Transforms = o.Transforms.With(f, true)
		}
	}
}

func disable(features ...target.Feature) func(*transform.Options) {
	return func(o *transform.Options) {
		for _, f := range features {
			o.Transforms = o.Transforms.With(f, false)
		}
	}
}

func TestArrowFunction(t *testing.T) {
	require.Equal(t, "var f = function (x) { return x * 2; };", compile(t, "var f = x => x * 2;"))
}

func TestArrowFunctionKeptWhenSupported(t *testing.T) {
	src := "var f = x => x * 2;"
	require.Equal(t, src, compile(t, src, disable(target.Arrow)))
}

func TestTemplateLiteral(t *testing.T) {
	require.Equal(t, `var s = "hello " + name + "!";`, compile(t, "var s = `hello ${name}!`;"))
}

func TestExponentiation(t *testing.T) {
	require.Equal(t, "var x = Math.pow( a, b );", compile(t, "var x = a ** b;"))
}

func TestBinaryAndOctalLiterals(t *testing.T) {
	require.Equal(t, "var n = 5, m = 8;", compile(t, "var n = 0b101, m = 0o10;"))
}

func TestReservedProperty(t *testing.T) {
	require.Equal(t, "foo['default'];", compile(t, "foo.default;", enable(target.ReservedProperties)))
}

func TestSpreadCall(t *testing.T) {
	require.Equal(t, "f.apply(void 0, args);", compile(t, "f(...args);"))
}

func TestObjectDestructuringDeclaration(t *testing.T) {
	require.Equal(t, "var x = point.x;\nvar y = point.y;", compile(t, "var { x, y } = point;"))
}

func TestBlockScopedShadowing(t *testing.T) {
	out := compile(t, "let a = 1; { let a = 2; console.log(a); }")
	require.Equal(t, "var a = 1; { var a$1 = 2; console.log(a$1); }", out)
}

func TestClassLowering(t *testing.T) {
	src := "class Foo {\n\tconstructor ( answer ) {\n\t\tthis.answer = answer;\n\t}\n\n\tbar () {\n\t\treturn this.answer;\n\t}\n}"
	out := compile(t, src)
	require.Contains(t, out, "var Foo = function Foo ( answer ) {")
	require.Contains(t, out, "Foo.prototype.bar = function bar () {")
	require.NotContains(t, out, "class ")
}

func TestJSXElement(t *testing.T) {
	require.Equal(t, "var el = React.createElement( 'div', null );", compile(t, "var el = <div/>;"))
}

func TestJSXPragma(t *testing.T) {
	out := compile(t, "/* @jsx h */\nvar el = <div/>;")
	require.Contains(t, out, "h( 'div', null )")
}

func TestUnicodeRegExp(t *testing.T) {
	require.Equal(t, `var r = /(?:\uD83D\uDE00)/;`, compile(t, `var r = /\u{1F600}/u;`))
}

func TestConstReassignment(t *testing.T) {
	ce := compileError(t, "const a = 1; a = 2;")
	require.Equal(t, diag.SemConstReassign, ce.Code)
	require.Equal(t, "a is read-only", ce.Message)
}

func TestGeneratorsAreRejected(t *testing.T) {
	ce := compileError(t, "function* g() {}")
	require.Equal(t, diag.UnsMissingTransform, ce.Code)
	require.Contains(t, ce.Message, "Transforming generators is not implemented")
	require.Contains(t, ce.Message, "`transforms: { generator: false }`")
}

func TestForOfNeedsDangerousOptIn(t *testing.T) {
	ce := compileError(t, "for (const x of xs) {}")
	require.Equal(t, diag.UnsDangerousTransform, ce.Code)
	require.Contains(t, ce.Message, "dangerousForOf")
}

func TestTaggedTemplateNeedsDangerousOptIn(t *testing.T) {
	ce := compileError(t, "tag`x`;")
	require.Equal(t, diag.UnsDangerousTransform, ce.Code)
	require.Contains(t, ce.Message, "Transforming tagged template strings is not fully supported")
}

func TestImportIsRejected(t *testing.T) {
	ce := compileError(t, "import a from 'b';")
	require.Equal(t, diag.UnsMissingTransform, ce.Code)
	require.Contains(t, ce.Message, "Transforming import is not implemented")
}

func TestImportKeptWithoutModuleTransform(t *testing.T) {
	src := "import a from 'b';\na();"
	require.Equal(t, src, compile(t, src, disable(target.ModuleImport)))
}

func TestObjectSpreadNeedsAssignHelper(t *testing.T) {
	ce := compileError(t, "var a = { ...b };")
	require.Equal(t, diag.SemObjectSpreadNoAssign, ce.Code)
}

func TestStickyRegExpIsRejected(t *testing.T) {
	ce := compileError(t, "var r = /a/y;")
	require.Equal(t, diag.UnsMissingTransform, ce.Code)
	require.Contains(t, ce.Message, "sticky flag")
}

func TestErrorCarriesLocation(t *testing.T) {
	ce := compileError(t, "var a = 1;\nconst b = 2;\nb++;")
	require.Equal(t, diag.SemConstReassign, ce.Code)
	require.EqualValues(t, 3, ce.Loc.Line)
	require.Contains(t, ce.Error(), "(3:")
}
