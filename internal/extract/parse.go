package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Falanzi121/prepdex/internal/model"
)

// optionPattern matches an option marker at the start of a trimmed line: an
// uppercase letter A-E, a period, optional whitespace, then the option text.
var optionPattern = regexp.MustCompile(`^([A-E])\.\s*(.*)`)

type stage int

const (
	stageStem stage = iota
	stageOptions
	stageExplanation
)

// ParseResult is the outcome of parsing one raw question block: either a
// question, or the reason the block was filtered out.
type ParseResult struct {
	Question model.Question
	Reason   model.RejectReason
}

// OK reports whether the block yielded a question.
func (r ParseResult) OK() bool {
	return r.Reason == ""
}

// ParseBlock converts one raw block into a normalized question.
//
// Lines before the first "A." marker form the stem; markers in the stem
// with any other letter are ordinary stem text. Once the options list is
// open, each marker with a new letter starts the next option and non-marker
// lines continue the current one. A marker whose letter was already seen
// ends the options list: that line and everything after it is the
// explanation. Blocks with an empty stem or no options are rejected.
func ParseBlock(block string) ParseResult {
	trimmed := strings.TrimSpace(block)
	if trimmed == "" {
		return ParseResult{Reason: model.RejectEmptyBlock}
	}

	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}

	var (
		stemLines     []string
		options       []string
		explLines     []string
		currentOption []string
	)
	seen := make(map[string]bool)
	st := stageStem

	// Wrapped option lines are joined with single spaces, blank
	// continuations dropped.
	flushOption := func() {
		if len(currentOption) == 0 {
			return
		}
		parts := make([]string, 0, len(currentOption))
		for _, part := range currentOption {
			if p := strings.TrimSpace(part); p != "" {
				parts = append(parts, p)
			}
		}
		options = append(options, strings.Join(parts, " "))
		currentOption = nil
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		m := optionPattern.FindStringSubmatch(stripped)

		switch st {
		case stageStem:
			if m != nil && m[1] == "A" {
				st = stageOptions
				seen[m[1]] = true
				currentOption = []string{m[2]}
			} else {
				stemLines = append(stemLines, line)
			}

		case stageOptions:
			if m != nil {
				letter := m[1]
				if seen[letter] {
					// Repeated letter: the options list is over and the
					// explanation begins with this raw marker line.
					flushOption()
					explLines = append(explLines, line)
					st = stageExplanation
				} else {
					flushOption()
					seen[letter] = true
					currentOption = []string{m[2]}
				}
			} else {
				currentOption = append(currentOption, line)
			}

		case stageExplanation:
			explLines = append(explLines, line)
		}
	}
	flushOption()

	if len(stemLines) == 0 {
		return ParseResult{Reason: model.RejectEmptyStem}
	}
	if len(options) == 0 {
		return ParseResult{Reason: model.RejectNoOptions}
	}

	stem := strings.TrimSpace(strings.Join(stemLines, "\n"))
	explanation := strings.TrimSpace(strings.Join(explLines, "\n"))
	return ParseResult{Question: model.NewQuestion(stem, options, explanation)}
}
