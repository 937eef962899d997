package output

import (
	"io"
	"strings"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/score"
)

// MarkdownFormatter writes the markdown quality report carried by the
// result, as saved to a report artifact file.
type MarkdownFormatter struct{}

// Format writes the report text, ensuring a single trailing newline.
func (f *MarkdownFormatter) Format(w io.Writer, r *score.Result) error {
	report := strings.TrimRight(r.Report, "\n") + "\n"
	_, err := io.WriteString(w, report)
	return err
}
