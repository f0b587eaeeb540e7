package store

import (
	"testing"
	"time"

	"github.com/Falanzi121/prepdex/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleQuestions() []model.Question {
	one := 1
	return []model.Question{
		{
			Stem:         "A febrile infant presents with pyuria. Next step?",
			Options:      []string{"Oral antibiotics", "Renal ultrasonography", "Observation"},
			CorrectIndex: &one,
			Explanation:  "B. Renal ultrasonography is recommended.",
			Tags:         []string{},
		},
		{
			Stem:        "Which vaccine is due at this visit?",
			Options:     []string{"MMR", "HPV"},
			Explanation: "",
			Tags:        []string{},
		},
	}
}

func TestImportAndQuery(t *testing.T) {
	s := newTestStore(t)

	// Empty bank.
	count, err := s.QuestionCount()
	if err != nil {
		t.Fatalf("QuestionCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 questions, got %d", count)
	}
	years, err := s.ListYears()
	if err != nil {
		t.Fatalf("ListYears: %v", err)
	}
	if len(years) != 0 {
		t.Fatalf("expected no years, got %v", years)
	}

	if err := s.ImportYear(2015, sampleQuestions()); err != nil {
		t.Fatalf("ImportYear: %v", err)
	}
	if err := s.ImportYear(2017, sampleQuestions()[:1]); err != nil {
		t.Fatalf("ImportYear: %v", err)
	}

	years, err = s.ListYears()
	if err != nil {
		t.Fatalf("ListYears: %v", err)
	}
	if len(years) != 2 || years[0] != 2015 || years[1] != 2017 {
		t.Fatalf("expected [2015 2017], got %v", years)
	}

	questions, err := s.QuestionsForYear(2015)
	if err != nil {
		t.Fatalf("QuestionsForYear: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	q := questions[0]
	if q.Stem != "A febrile infant presents with pyuria. Next step?" {
		t.Errorf("unexpected stem: %q", q.Stem)
	}
	if len(q.Options) != 3 || q.Options[1] != "Renal ultrasonography" {
		t.Errorf("unexpected options: %v", q.Options)
	}
	if q.CorrectIndex == nil || *q.CorrectIndex != 1 {
		t.Errorf("correct_index = %v, want 1", q.CorrectIndex)
	}
	if q.Tags == nil || len(q.Tags) != 0 {
		t.Errorf("expected empty tags, got %v", q.Tags)
	}
	if questions[1].CorrectIndex != nil {
		t.Errorf("expected nil correct_index, got %d", *questions[1].CorrectIndex)
	}

	count, err = s.QuestionCount()
	if err != nil {
		t.Fatalf("QuestionCount: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestQuestionsForYearUnknown(t *testing.T) {
	s := newTestStore(t)
	questions, err := s.QuestionsForYear(2099)
	if err != nil {
		t.Fatalf("QuestionsForYear: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("expected no questions, got %d", len(questions))
	}
}

func TestImportYearReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.ImportYear(2016, sampleQuestions()); err != nil {
		t.Fatalf("ImportYear: %v", err)
	}
	replacement := []model.Question{
		{Stem: "Replacement stem", Options: []string{"Only"}, Tags: []string{}},
	}
	if err := s.ImportYear(2016, replacement); err != nil {
		t.Fatalf("ImportYear replace: %v", err)
	}

	questions, err := s.QuestionsForYear(2016)
	if err != nil {
		t.Fatalf("QuestionsForYear: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question after replace, got %d", len(questions))
	}
	if questions[0].Stem != "Replacement stem" {
		t.Errorf("unexpected stem: %q", questions[0].Stem)
	}
}

func TestUpdateTags(t *testing.T) {
	s := newTestStore(t)
	if err := s.ImportYear(2015, sampleQuestions()); err != nil {
		t.Fatalf("ImportYear: %v", err)
	}

	if err := s.UpdateTags(2015, 1, []string{"nephrology", "infectious disease"}); err != nil {
		t.Fatalf("UpdateTags: %v", err)
	}

	questions, err := s.QuestionsForYear(2015)
	if err != nil {
		t.Fatalf("QuestionsForYear: %v", err)
	}
	if len(questions[0].Tags) != 2 || questions[0].Tags[0] != "nephrology" {
		t.Errorf("unexpected tags: %v", questions[0].Tags)
	}
	if len(questions[1].Tags) != 0 {
		t.Errorf("second question tags should be untouched, got %v", questions[1].Tags)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	if err := s.ImportYear(2015, sampleQuestions()); err != nil {
		t.Fatalf("ImportYear: %v", err)
	}
	if err := s.ImportYear(2019, sampleQuestions()[1:]); err != nil {
		t.Fatalf("ImportYear: %v", err)
	}
	if err := s.UpdateTags(2015, 2, []string{"immunization"}); err != nil {
		t.Fatalf("UpdateTags: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 years, got %d", len(stats))
	}

	st := stats[0]
	if st.Year != 2015 || st.Questions != 2 || st.Answered != 1 || st.Tagged != 1 {
		t.Errorf("unexpected 2015 stats: %+v", st)
	}
	if st.OptionCounts[3] != 1 || st.OptionCounts[2] != 1 {
		t.Errorf("unexpected 2015 option counts: %v", st.OptionCounts)
	}
	if st.Rate != 0.5 {
		t.Errorf("2015 answered rate = %f, want 0.5", st.Rate)
	}

	if stats[1].Year != 2019 || stats[1].Questions != 1 || stats[1].Answered != 0 {
		t.Errorf("unexpected 2019 stats: %+v", stats[1])
	}
}

func TestImportedFileHash(t *testing.T) {
	s := newTestStore(t)

	// Missing file returns empty string.
	hash, err := s.GetImportedFileHash("questions/prep_2015.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "" {
		t.Errorf("expected empty hash, got %q", hash)
	}

	// Set hash.
	if err := s.SetImportedFileHash("questions/prep_2015.json", "abc123"); err != nil {
		t.Fatalf("SetImportedFileHash: %v", err)
	}
	hash, err = s.GetImportedFileHash("questions/prep_2015.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("expected 'abc123', got %q", hash)
	}

	// Update existing.
	if err := s.SetImportedFileHash("questions/prep_2015.json", "def456"); err != nil {
		t.Fatalf("SetImportedFileHash update: %v", err)
	}
	hash, _ = s.GetImportedFileHash("questions/prep_2015.json")
	if hash != "def456" {
		t.Errorf("expected 'def456', got %q", hash)
	}
}

func TestImportBatches(t *testing.T) {
	s := newTestStore(t)

	first := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	batches := []model.ImportBatch{
		{ID: "b1", Path: "questions/prep_2015.json", Year: 2015, QuestionCount: 120, ImportedAt: first},
		{ID: "b2", Path: "questions/prep_2016.json", Year: 2016, QuestionCount: 118, ImportedAt: first.Add(time.Minute)},
	}
	for _, b := range batches {
		if err := s.RecordImportBatch(b); err != nil {
			t.Fatalf("RecordImportBatch: %v", err)
		}
	}

	got, err := s.ListImportBatches()
	if err != nil {
		t.Fatalf("ListImportBatches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "b2" || got[1].ID != "b1" {
		t.Errorf("unexpected order: %q, %q", got[0].ID, got[1].ID)
	}
	if got[0].QuestionCount != 118 {
		t.Errorf("question_count = %d, want 118", got[0].QuestionCount)
	}
}
