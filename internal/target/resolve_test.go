package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/diag"
)

func TestResolveEmptyIsConservative(t *testing.T) {
	tr, err := Resolve(nil)
	require.NoError(t, err)

	require.False(t, tr.Has(GetterSetter))
	require.False(t, tr.Has(ReservedProperties))
	for _, f := range []Feature{Arrow, Classes, LetConst, TemplateString, SpreadRest, ObjectRestSpread} {
		require.Truef(t, tr.Has(f), "%s should need a transform", f)
	}
	require.False(t, tr.Has(DangerousForOf))
	require.False(t, tr.Has(DangerousTaggedTemplateString))
}

func TestResolveIE11(t *testing.T) {
	tr, err := Resolve(map[string]string{"ie": "11"})
	require.NoError(t, err)

	for f := Feature(0); f < NumMatrixFeatures; f++ {
		native := f == GetterSetter || f == ReservedProperties
		require.Equalf(t, !native, tr.Has(f), "feature %s", f)
	}
}

func TestResolveIntersectsTargets(t *testing.T) {
	chrome, err := Resolve(map[string]string{"chrome": "60"})
	require.NoError(t, err)
	require.False(t, chrome.Has(Arrow))
	require.False(t, chrome.Has(ObjectRestSpread))
	require.True(t, chrome.Has(ModuleImport))
	require.True(t, chrome.Has(ModuleExport))

	both, err := Resolve(map[string]string{"chrome": "60", "safari": "9"})
	require.NoError(t, err)
	require.True(t, both.Has(Arrow))
	require.True(t, both.Has(LetConst))
	require.False(t, both.Has(GetterSetter))
}

func TestResolveIsDeterministic(t *testing.T) {
	in := map[string]string{"node": "6", "firefox": "45", "edge": "14"}
	first, err := Resolve(in)
	require.NoError(t, err)
	for range 10 {
		again, err := Resolve(in)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve(map[string]string{"netscape": "4"})
	require.EqualError(t, err, "Unknown environment 'netscape'. Please raise an issue at https://github.com/bublejs/buble/issues")

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, diag.CfgUnknownEnvironment, cfgErr.Code)

	_, err = Resolve(map[string]string{"ie": "7"})
	require.EqualError(t, err, "Support data exists for the following versions of ie: 8, 9, 10, 11. Please raise an issue at https://github.com/bublejs/buble/issues")
}

func TestApplyOverrides(t *testing.T) {
	base, err := Resolve(nil)
	require.NoError(t, err)

	tr, err := Apply(base, map[string]bool{"modules": false, "moduleExport": true, "dangerousForOf": true, "arrow": false})
	require.NoError(t, err)
	require.False(t, tr.Has(ModuleImport))
	require.True(t, tr.Has(ModuleExport))
	require.True(t, tr.Has(DangerousForOf))
	require.False(t, tr.Has(Arrow))

	_, err = Apply(base, map[string]bool{"arrows": true})
	require.EqualError(t, err, "Unknown transform 'arrows'")
}

func TestParseTargets(t *testing.T) {
	got, err := ParseTargets("chrome:55, node:8.3")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"chrome": "55", "node": "8.3"}, got)

	_, err = ParseTargets("chrome")
	require.Error(t, err)

	require.Equal(t, map[string]bool{"a": true, "b": false}, ParseOverrides("a", "b"))
}

func TestTransformsString(t *testing.T) {
	var tr Transforms
	tr = tr.With(Classes, true).With(Arrow, true)
	require.Equal(t, "arrow,classes", tr.String())
	require.True(t, tr.Map()["classes"])
	require.False(t, tr.With(Classes, false).Has(Classes))

	f, ok := Lookup("dangerousForOf")
	require.True(t, ok)
	require.True(t, f.Dangerous())
}
