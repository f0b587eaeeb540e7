package questionset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Falanzi121/prepdex/internal/model"
)

func writeSet(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

const validJSON = `[
  {
    "stem": "A neonate presents with cyanosis. Next step?",
    "options": ["Echocardiography", "Chest radiograph"],
    "correct_index": 0,
    "explanation": "A. Echocardiography confirms the diagnosis.",
    "tags": []
  },
  {
    "stem": "Second question stem.",
    "options": ["Only option"],
    "correct_index": null,
    "explanation": "",
    "tags": ["cardiology"]
  }
]`

func TestLoadJSON(t *testing.T) {
	path := writeSet(t, "prep_2015.json", validJSON)
	questions, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].CorrectIndex == nil || *questions[0].CorrectIndex != 0 {
		t.Errorf("correct_index = %v, want 0", questions[0].CorrectIndex)
	}
	if questions[1].CorrectIndex != nil {
		t.Errorf("expected nil correct_index, got %d", *questions[1].CorrectIndex)
	}
	if len(questions[1].Tags) != 1 || questions[1].Tags[0] != "cardiology" {
		t.Errorf("unexpected tags: %v", questions[1].Tags)
	}
}

func TestLoadJSONRoundTrip(t *testing.T) {
	one := 1
	in := []model.Question{
		{
			Stem:         "Stem text",
			Options:      []string{"alpha", "beta"},
			CorrectIndex: &one,
			Explanation:  "B. beta",
			Tags:         []string{},
		},
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	path := writeSet(t, "set.json", string(data))

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	again, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if string(again) != string(data) {
		t.Errorf("round trip changed the document:\n%s\nvs\n%s", data, again)
	}
}

func TestLoadJSONStrict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			"unknown field",
			`[{"stem": "s", "options": ["a"], "correct_index": null, "explanation": "", "tags": [], "difficulty": "hard"}]`,
			"unknown field",
		},
		{
			"multiple documents",
			validJSON + "\n{}",
			"multiple documents",
		},
		{
			"not an array",
			`{"stem": "s"}`,
			"parse json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSet(t, "bad.json", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

const validYAML = `- stem: A hand-written practice question?
  options:
    - First choice
    - Second choice
  correct_index: 1
  explanation: "B. Second choice is right."
  tags: []
`

func TestLoadYAML(t *testing.T) {
	path := writeSet(t, "practice.yaml", validYAML)
	questions, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].CorrectIndex == nil || *questions[0].CorrectIndex != 1 {
		t.Errorf("correct_index = %v, want 1", questions[0].CorrectIndex)
	}
}

func TestLoadYAMLUnknownField(t *testing.T) {
	content := `- stem: q
  options: [a]
  anser: b
  tags: []
`
	path := writeSet(t, "typo.yaml", content)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	zero := 0
	five := 5
	tests := []struct {
		name      string
		questions []model.Question
		wantField string
	}{
		{"empty set", nil, "questions"},
		{
			"blank stem",
			[]model.Question{{Stem: "   ", Options: []string{"a"}, Tags: []string{}}},
			"questions[0].stem",
		},
		{
			"no options",
			[]model.Question{{Stem: "s", Options: nil, Tags: []string{}}},
			"questions[0].options",
		},
		{
			"correct_index out of range",
			[]model.Question{{Stem: "s", Options: []string{"a", "b"}, CorrectIndex: &five, Tags: []string{}}},
			"questions[0].correct_index",
		},
		{
			"missing tags",
			[]model.Question{{Stem: "s", Options: []string{"a"}, CorrectIndex: &zero}},
			"questions[0].tags",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.questions)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, issue := range verr.Issues {
				if issue.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue for field %q in %v", tt.wantField, verr.Issues)
			}
		})
	}
}

func TestValidateAllowsExtractorOutput(t *testing.T) {
	// Bare markers in a source dump produce empty option text; the
	// contract accepts it.
	questions := []model.Question{
		{Stem: "s", Options: []string{"", "real option"}, Tags: []string{}},
	}
	if err := Validate(questions); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateIndexesEveryBadQuestion(t *testing.T) {
	questions := []model.Question{
		{Stem: "fine", Options: []string{"a"}, Tags: []string{}},
		{Stem: "", Options: []string{"a"}, Tags: []string{}},
		{Stem: "also fine", Options: nil, Tags: []string{}},
	}
	err := Validate(questions)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(verr.Issues), verr.Issues)
	}
	if verr.Issues[0].Field != "questions[1].stem" {
		t.Errorf("first issue field = %q", verr.Issues[0].Field)
	}
	if verr.Issues[1].Field != "questions[2].options" {
		t.Errorf("second issue field = %q", verr.Issues[1].Field)
	}
}
