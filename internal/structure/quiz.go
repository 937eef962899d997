package structure

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// quizFiles are validated beyond existence: they must parse as JSON and
// should satisfy the quiz schema.
var quizFiles = []string{
	"experiment/pretest.json",
	"experiment/posttest.json",
}

//go:embed quiz.cue
var quizSchema string

// quizViolation is a quiz file that parses as JSON but does not satisfy
// the quiz schema.
type quizViolation struct {
	Path   string
	Detail string
}

// checkQuizzes classifies the quiz files under root. Files that are not
// valid JSON count against compliance; files that parse but fail schema
// validation are reported as violations only. Absent files are left to the
// required-file check.
func checkQuizzes(root string) ([]string, []quizViolation) {
	invalid := make([]string, 0, len(quizFiles))
	violations := make([]quizViolation, 0, len(quizFiles))
	for _, rel := range quizFiles {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		if !json.Valid(data) {
			invalid = append(invalid, rel)
			continue
		}
		if err := validateQuiz(data); err != nil {
			violations = append(violations, quizViolation{
				Path:   rel,
				Detail: fmt.Sprintf("quiz does not satisfy schema: %v", err),
			})
		}
	}
	return invalid, violations
}

// validateQuiz unifies the quiz JSON with the embedded CUE schema.
func validateQuiz(data []byte) error {
	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(quizSchema)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("invalid quiz schema: %w", err)
	}
	dataVal := ctx.CompileBytes(data)
	if err := dataVal.Err(); err != nil {
		return err
	}
	merged := schemaVal.Unify(dataVal)
	return merged.Validate(cue.Concrete(true))
}
