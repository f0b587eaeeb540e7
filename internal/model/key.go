package model

import "fmt"

// KeyPlaceholder marks a question with no detected answer in an answer key.
const KeyPlaceholder = "-"

// OptionLetter returns the letter label for a zero-based option index
// (0 is "A", 1 is "B").
func OptionLetter(idx int) string {
	return string(rune('A' + idx))
}

// LetterIndex returns the zero-based option index for an uppercase letter
// label ("A" is 0). It does not range-check against any option list.
func LetterIndex(letter string) int {
	return int(letter[0] - 'A')
}

// KeyLine formats one answer-key line with a 1-based ordinal: "3. B",
// or "3. -" when the question has no detected answer.
func KeyLine(ordinal int, correctIndex *int) string {
	letter := KeyPlaceholder
	if correctIndex != nil {
		letter = OptionLetter(*correctIndex)
	}
	return fmt.Sprintf("%d. %s", ordinal, letter)
}

// KeyLines renders the full answer key for questions in document order.
func KeyLines(questions []Question) []string {
	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = KeyLine(i+1, q.CorrectIndex)
	}
	return lines
}
