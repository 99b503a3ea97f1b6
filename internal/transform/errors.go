package transform

import (
	"fmt"

	"buble/internal/ast"
	"buble/internal/diag"
	"buble/internal/source"
	"buble/internal/target"
)

// fail aborts the compile with an error located at id.
func (p *program) fail(id ast.NodeID, code diag.Code, msg string) {
	span := source.FileSpan(p.file.ID)
	if n := p.tree.Node(id); n != nil {
		span = source.NewSpan(p.file.ID, n.Start, n.End)
	}
	panic(diag.NewCompileError(p.file, code, span, msg))
}

// missingTransform rejects a construct the enabled transforms cannot lower.
// A dangerous feature names the opt-in that enables a partial lowering.
func (p *program) missingTransform(id ast.NodeID, feature string, key target.Feature, dangerous ...target.Feature) {
	code := diag.UnsMissingTransform
	status := "implemented"
	tail := ""
	if len(dangerous) > 0 {
		code = diag.UnsDangerousTransform
		status = "fully supported"
		tail = fmt.Sprintf(", or `transforms: { %s: true }` if you know what you're doing", dangerous[0])
	}
	msg := fmt.Sprintf("Transforming %s is not %s. Use `transforms: { %s: false }` to skip transformation and disable this error%s.",
		feature, status, key, tail)
	p.fail(id, code, msg)
}
