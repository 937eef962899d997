package output

import (
	"encoding/json"
	"io"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/score"
)

// JSONFormatter renders the full evaluation result as pretty-printed
// JSON, including the per-area reports and the markdown report text.
type JSONFormatter struct{}

// Format writes r as an indented JSON object.
func (f *JSONFormatter) Format(w io.Writer, r *score.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
