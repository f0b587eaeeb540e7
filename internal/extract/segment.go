package extract

import "regexp"

// headerPattern matches a question header line: "Question:" at the start of
// a line followed by an integer, case-insensitive, tolerating whitespace
// after the colon and after the ordinal. The ordinal in the header is not
// trusted; output order is document order.
var headerPattern = regexp.MustCompile(`(?mi)^Question:\s*\d+\s*$`)

// Segment splits a raw exam dump into question blocks. Each block spans
// from the end of a header line to the start of the next header, or to the
// end of input for the last block. Text before the first header is ignored.
// A document with no headers yields no blocks.
func Segment(text string) []string {
	matches := headerPattern.FindAllStringIndex(text, -1)
	blocks := make([]string, 0, len(matches))
	for i, m := range matches {
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, text[start:end])
	}
	return blocks
}
