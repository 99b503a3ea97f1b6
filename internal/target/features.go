package target

import "strings"

// Feature is one syntax feature the compiler knows how to lower. The order of
// the first NumMatrixFeatures values is the bit order of the support matrix.
type Feature uint8

const (
	GetterSetter Feature = iota
	Arrow
	Classes
	ComputedProperty
	ConciseMethodProperty
	DefaultParameter
	Destructuring
	ForOf
	Generator
	LetConst
	ModuleExport
	ModuleImport
	NumericLiteral
	ParameterDestructuring
	SpreadRest
	StickyRegExp
	TemplateString
	UnicodeRegExp

	// ES2016
	Exponentiation

	// not covered by the feature test suite the matrix was built from
	ReservedProperties
	TrailingFunctionCommas
	AsyncAwait
	ObjectRestSpread

	// NumMatrixFeatures is the number of features backed by the support matrix.
	NumMatrixFeatures
)

// Dangerous transforms are never implied by a target; they change semantics
// and must be enabled explicitly.
const (
	DangerousTaggedTemplateString Feature = NumMatrixFeatures + iota
	DangerousForOf

	NumFeatures
)

var featureNames = [NumFeatures]string{
	GetterSetter:                  "getterSetter",
	Arrow:                         "arrow",
	Classes:                       "classes",
	ComputedProperty:              "computedProperty",
	ConciseMethodProperty:         "conciseMethodProperty",
	DefaultParameter:              "defaultParameter",
	Destructuring:                 "destructuring",
	ForOf:                         "forOf",
	Generator:                     "generator",
	LetConst:                      "letConst",
	ModuleExport:                  "moduleExport",
	ModuleImport:                  "moduleImport",
	NumericLiteral:                "numericLiteral",
	ParameterDestructuring:        "parameterDestructuring",
	SpreadRest:                    "spreadRest",
	StickyRegExp:                  "stickyRegExp",
	TemplateString:                "templateString",
	UnicodeRegExp:                 "unicodeRegExp",
	Exponentiation:                "exponentiation",
	ReservedProperties:            "reservedProperties",
	TrailingFunctionCommas:        "trailingFunctionCommas",
	AsyncAwait:                    "asyncAwait",
	ObjectRestSpread:              "objectRestSpread",
	DangerousTaggedTemplateString: "dangerousTaggedTemplateString",
	DangerousForOf:                "dangerousForOf",
}

// String returns the configuration key of the feature.
func (f Feature) String() string {
	if f < NumFeatures {
		return featureNames[f]
	}
	return "unknown"
}

// Dangerous reports whether f is an opt-in-only transform.
func (f Feature) Dangerous() bool {
	return f >= NumMatrixFeatures && f < NumFeatures
}

// Lookup finds a feature by its configuration key.
func Lookup(name string) (Feature, bool) {
	for i, n := range featureNames {
		if n == name {
			return Feature(i), true
		}
	}
	return 0, false
}

// Features returns every feature in bit order, dangerous ones last.
func Features() []Feature {
	out := make([]Feature, 0, NumFeatures)
	for f := Feature(0); f < NumFeatures; f++ {
		out = append(out, f)
	}
	return out
}

// Transforms is the per-feature decision set: bit f set means feature f
// must be lowered.
type Transforms uint32

// Has reports whether f needs a transform.
func (t Transforms) Has(f Feature) bool {
	return t&(1<<f) != 0
}

// With returns a copy of t with f switched on or off.
func (t Transforms) With(f Feature, on bool) Transforms {
	if on {
		return t | 1<<f
	}
	return t &^ (1 << f)
}

// Map expands the set into configuration form.
func (t Transforms) Map() map[string]bool {
	out := make(map[string]bool, NumFeatures)
	for f := Feature(0); f < NumFeatures; f++ {
		out[f.String()] = t.Has(f)
	}
	return out
}

// String lists enabled transforms, comma separated, in bit order.
func (t Transforms) String() string {
	names := make([]string, 0, NumFeatures)
	for f := Feature(0); f < NumFeatures; f++ {
		if t.Has(f) {
			names = append(names, f.String())
		}
	}
	return strings.Join(names, ",")
}

// All has every matrix feature enabled and no dangerous transform.
const All Transforms = 1<<NumMatrixFeatures - 1
