package model

import (
	"time"
)

// RejectReason classifies why a raw question block was filtered out
// during extraction.
type RejectReason string

const (
	// RejectEmptyBlock is a block containing only whitespace.
	RejectEmptyBlock RejectReason = "empty_block"
	// RejectEmptyStem is a block with options but no stem text above them.
	RejectEmptyStem RejectReason = "empty_stem"
	// RejectNoOptions is a block that never opened an options list.
	RejectNoOptions RejectReason = "no_options"
)

// Question represents one normalized multiple-choice question.
// Options are positional: index 0 is choice A, index 1 is choice B, and so on.
// CorrectIndex is nil when no answer could be detected for the question.
type Question struct {
	Stem         string   `json:"stem" yaml:"stem"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex *int     `json:"correct_index" yaml:"correct_index"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
	Tags         []string `json:"tags" yaml:"tags"`
}

// NewQuestion builds a question record with no detected answer. Tags start
// as an empty list rather than nil so the record serializes as "tags": [].
func NewQuestion(stem string, options []string, explanation string) Question {
	return Question{
		Stem:        stem,
		Options:     options,
		Explanation: explanation,
		Tags:        []string{},
	}
}

// ImportBatch records one accepted question-file import into the bank.
type ImportBatch struct {
	ID            string    `json:"id"`
	Path          string    `json:"path"`
	Year          int       `json:"year"`
	QuestionCount int       `json:"question_count"`
	ImportedAt    time.Time `json:"imported_at"`
}

// YearStats summarizes one exam year in the question bank. Rate duplicates
// AnsweredRate so serialized reports carry it without recomputation.
type YearStats struct {
	Year         int         `json:"year"`
	Questions    int         `json:"questions"`
	Answered     int         `json:"answered"`
	Rate         float64     `json:"answered_rate"`
	Tagged       int         `json:"tagged"`
	OptionCounts map[int]int `json:"option_counts"`
}

// AnsweredRate returns the fraction of the year's questions with a
// detected answer, or 0 for an empty year.
func (s YearStats) AnsweredRate() float64 {
	if s.Questions == 0 {
		return 0
	}
	return float64(s.Answered) / float64(s.Questions)
}

// StatsReport is the operator-facing summary of the question bank.
type StatsReport struct {
	Years   []YearStats   `json:"years"`
	Imports []ImportBatch `json:"imports"`
}
