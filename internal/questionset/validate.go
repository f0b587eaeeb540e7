package questionset

import (
	"fmt"
	"strings"

	"github.com/Falanzi121/prepdex/internal/model"
)

// Issue captures a validation problem in a question set.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question set validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// Validate enforces the record invariants on a loaded question set: every
// question has a non-empty stem and at least one option, correct_index is
// absent or within the option list, and tags is a list (possibly empty).
// Empty option text is allowed; the extractor can produce it for bare
// markers in the source.
func Validate(questions []model.Question) error {
	collector := &issueCollector{}
	if len(questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}
	for i, q := range questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Stem) == "" {
			collector.add(prefix+".stem", "is required")
		}
		if len(q.Options) == 0 {
			collector.add(prefix+".options", "must include at least one entry")
		}
		if q.CorrectIndex != nil {
			if idx := *q.CorrectIndex; idx < 0 || idx >= len(q.Options) {
				collector.add(prefix+".correct_index",
					fmt.Sprintf("index %d out of range for %d options", idx, len(q.Options)))
			}
		}
		if q.Tags == nil {
			collector.add(prefix+".tags", "is required (use [] for untagged questions)")
		}
	}
	return collector.result()
}
