package extract

import (
	"strings"

	"github.com/Falanzi121/prepdex/internal/model"
)

// DetectAnswer scans an explanation for the answer signal. Only the first
// non-blank line is examined: if it starts with an option marker whose
// letter maps inside the option list, the zero-based index is returned.
// Later lines are never searched, even when they restate the answer.
func DetectAnswer(explanation string, optionCount int) (int, bool) {
	for _, line := range strings.Split(explanation, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if m := optionPattern.FindStringSubmatch(stripped); m != nil {
			if idx := model.LetterIndex(m[1]); idx < optionCount {
				return idx, true
			}
		}
		break
	}
	return 0, false
}
