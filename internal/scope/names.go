package scope

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"buble/internal/ast"
)

// reserved lists words that can never be used as generated identifiers or
// as unquoted property names in ES5 output.
var reserved = func() map[string]struct{} {
	words := "do if in for let new try var case else enum eval null this true void with await " +
		"break catch class const false super throw while yield delete export import public " +
		"return static switch typeof default extends finally package private continue debugger " +
		"function arguments interface protected implements instanceof"
	m := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		m[w] = struct{}{}
	}
	return m
}()

// IsReserved reports whether name is a reserved word.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

var (
	reSpace      = regexp.MustCompile(`\s`)
	reBracket    = regexp.MustCompile(`\[([^\]]+)\]`)
	reIllegal    = regexp.MustCompile(`[^a-zA-Z0-9_$]`)
	reUnderscore = regexp.MustCompile(`_{2,}`)
)

// Sanitize turns an arbitrary suggestion into a valid identifier base:
// whitespace is dropped, `a[b]` becomes `a_b`, other illegal characters
// become `_` and the first run of underscores is collapsed.
func Sanitize(base string) string {
	base = norm.NFC.String(base)
	base = reSpace.ReplaceAllString(base, "")
	base = reBracket.ReplaceAllString(base, "_$1")
	base = reIllegal.ReplaceAllString(base, "_")
	if loc := reUnderscore.FindStringIndex(base); loc != nil {
		base = base[:loc[0]] + "_" + base[loc[1]:]
	}
	return base
}

// ExtractNames flattens a binding pattern into the Identifier nodes it binds.
func ExtractNames(tree *ast.Tree, id ast.NodeID) []ast.NodeID {
	var names []ast.NodeID
	extract(tree, id, &names)
	return names
}

func extract(tree *ast.Tree, id ast.NodeID, names *[]ast.NodeID) {
	switch tree.Kind(id) {
	case ast.Identifier:
		*names = append(*names, id)
	case ast.ObjectPattern:
		for _, prop := range ast.As[*ast.Object](tree, id).Properties {
			extract(tree, prop, names)
		}
	case ast.Property:
		extract(tree, ast.As[*ast.Prop](tree, id).Value, names)
	case ast.ArrayPattern:
		for _, el := range ast.As[*ast.Array](tree, id).Elements {
			if el.IsValid() {
				extract(tree, el, names)
			}
		}
	case ast.RestElement:
		extract(tree, ast.As[*ast.Argument](tree, id).Argument, names)
	case ast.AssignmentPattern:
		extract(tree, ast.As[*ast.AssignPattern](tree, id).Left, names)
	}
}
