package driver

import (
	"fmt"
	"strings"

	"buble/internal/project"
	"buble/internal/transform"
	"buble/internal/version"
)

// optionsDigest folds every option that changes the output into one hash.
// The JSX pragma is left out: it comes from the content.
func optionsDigest(o transform.Options) project.Digest {
	var sb strings.Builder
	fmt.Fprintf(&sb, "compiler=%s\x00", version.Version)
	fmt.Fprintf(&sb, "transforms=%d\x00", uint32(o.Transforms))
	fmt.Fprintf(&sb, "jsx=%s\x00fragment=%s\x00", o.JSX, o.JSXFragment)
	fmt.Fprintf(&sb, "assign=%s\x00named=%t\x00", o.ObjectAssign, o.NamedFunctionExpressions)
	fmt.Fprintf(&sb, "file=%s\x00source=%s\x00content=%t", o.File, o.Source, o.IncludeContent)
	return project.HashString(sb.String())
}

// CacheKey: H(content || options).
func CacheKey(content project.Digest, o transform.Options) project.Digest {
	return project.Combine(content, optionsDigest(o))
}
