// Package output renders evaluation results: a colorized text summary
// for terminals, indented JSON for tooling, and the markdown report
// artifact.
package output

import (
	"io"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/score"
)

// Formatter renders one evaluation result.
type Formatter interface {
	Format(w io.Writer, r *score.Result) error
}
