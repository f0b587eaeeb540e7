// Package build drives the batch conversion of raw exam dumps into
// normalized question artifacts and answer keys, one exam year at a time.
package build

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/Falanzi121/prepdex/internal/extract"
	"github.com/Falanzi121/prepdex/internal/model"
	"github.com/Falanzi121/prepdex/internal/source"
)

// DefaultYears is the built-in list of exam years to process.
var DefaultYears = []int{2015, 2016, 2017, 2019, 2022}

// Default directories relative to the working directory.
const (
	DefaultSourceDir = "raw_txt"
	DefaultOutputDir = "questions"
	DefaultKeyDir    = "keys"
)

// ErrMissingSource reports a year whose raw text file does not exist.
var ErrMissingSource = errors.New("missing raw text file")

// ErrNoQuestions reports a source file that yielded no parsable questions.
var ErrNoQuestions = errors.New("no questions parsed")

// Config holds the parameters of one batch run.
type Config struct {
	Years     []int
	SourceDir string
	OutputDir string
	KeyDir    string
	Encoding  string
}

// YearResult is the outcome for a single year.
type YearResult struct {
	Year      int
	Questions int
	Err       error
}

// Summary reports the outcome of a batch run across all requested years.
type Summary struct {
	Results []YearResult
}

// OK reports whether every year produced its artifacts.
func (s Summary) OK() bool {
	for _, r := range s.Results {
		if r.Err != nil {
			return false
		}
	}
	return true
}

// FailedYears lists the years that failed, in request order.
func (s Summary) FailedYears() []int {
	var years []int
	for _, r := range s.Results {
		if r.Err != nil {
			years = append(years, r.Year)
		}
	}
	return years
}

// Run processes each configured year independently and in order. A failed
// year is logged and does not stop the remaining years; the caller decides
// the process exit status from the returned summary.
func Run(cfg Config) Summary {
	var sum Summary
	for _, year := range cfg.Years {
		n, err := processYear(cfg, year)
		if err != nil {
			slog.Error("failed to process year", "year", year, "error", err)
		} else {
			slog.Info("processed questions", "year", year, "count", n)
		}
		sum.Results = append(sum.Results, YearResult{Year: year, Questions: n, Err: err})
	}
	return sum
}

func processYear(cfg Config, year int) (int, error) {
	rawPath := RawPath(cfg.SourceDir, year)
	text, err := source.ReadFile(rawPath, cfg.Encoding)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrMissingSource, rawPath)
		}
		return 0, fmt.Errorf("read source: %w", err)
	}

	questions := ExtractQuestions(text)
	if len(questions) == 0 {
		return 0, fmt.Errorf("%w for year %d", ErrNoQuestions, year)
	}

	if err := WriteQuestions(cfg.OutputDir, year, questions); err != nil {
		return 0, err
	}
	if err := WriteKey(cfg.KeyDir, year, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}

// ExtractQuestions runs the extraction pipeline over one decoded dump:
// segment into blocks, parse each block, detect each answer. Blocks that
// do not form a valid question are dropped.
func ExtractQuestions(text string) []model.Question {
	blocks := extract.Segment(text)
	questions := make([]model.Question, 0, len(blocks))
	for i, block := range blocks {
		res := extract.ParseBlock(block)
		if !res.OK() {
			slog.Debug("filtered question block", "block", i+1, "reason", res.Reason)
			continue
		}
		q := res.Question
		if idx, ok := extract.DetectAnswer(q.Explanation, len(q.Options)); ok {
			q.CorrectIndex = &idx
		}
		questions = append(questions, q)
	}
	return questions
}
