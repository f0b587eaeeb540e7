package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Falanzi121/prepdex/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		ord INTEGER NOT NULL,
		stem TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_index INTEGER,
		explanation TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		UNIQUE(year, ord)
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS import_batches (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		year INTEGER NOT NULL,
		question_count INTEGER NOT NULL,
		imported_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// encodeStrings stores a string slice as JSON text; nil becomes [] so the
// column round-trips to an empty list, never null.
func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeStrings(data string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// ImportYear replaces a year's questions with the given records, keeping
// document order as 1-based ordinals.
func (s *Store) ImportYear(year int, questions []model.Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM questions WHERE year = ?`, year); err != nil {
		return err
	}
	for i, q := range questions {
		optionsJSON, err := encodeStrings(q.Options)
		if err != nil {
			return err
		}
		tagsJSON, err := encodeStrings(q.Tags)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO questions (year, ord, stem, options, correct_index, explanation, tags)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			year, i+1, q.Stem, optionsJSON, q.CorrectIndex, q.Explanation, tagsJSON,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// QuestionsForYear returns a year's questions in document order.
func (s *Store) QuestionsForYear(year int) ([]model.Question, error) {
	rows, err := s.db.Query(
		`SELECT stem, options, correct_index, explanation, tags FROM questions WHERE year = ? ORDER BY ord`, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		var (
			q           model.Question
			optionsJSON string
			tagsJSON    string
			correct     sql.NullInt64
		)
		if err := rows.Scan(&q.Stem, &optionsJSON, &correct, &q.Explanation, &tagsJSON); err != nil {
			return nil, err
		}
		if q.Options, err = decodeStrings(optionsJSON); err != nil {
			return nil, err
		}
		if q.Tags, err = decodeStrings(tagsJSON); err != nil {
			return nil, err
		}
		if correct.Valid {
			idx := int(correct.Int64)
			q.CorrectIndex = &idx
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListYears returns the distinct exam years in the bank, ascending.
func (s *Store) ListYears() ([]int, error) {
	rows, err := s.db.Query(`SELECT DISTINCT year FROM questions ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// QuestionCount returns the number of questions in the bank.
func (s *Store) QuestionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}

// UpdateTags replaces the tags of one question addressed by year and
// 1-based ordinal.
func (s *Store) UpdateTags(year, ord int, tags []string) error {
	tagsJSON, err := encodeStrings(tags)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE questions SET tags = ? WHERE year = ? AND ord = ?`, tagsJSON, year, ord)
	return err
}

// Stats aggregates per-year bank statistics in ascending year order.
func (s *Store) Stats() ([]model.YearStats, error) {
	rows, err := s.db.Query(
		`SELECT year, options, correct_index IS NOT NULL, tags != '[]' FROM questions ORDER BY year, ord`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stats []model.YearStats
	for rows.Next() {
		var (
			year        int
			optionsJSON string
			answered    bool
			tagged      bool
		)
		if err := rows.Scan(&year, &optionsJSON, &answered, &tagged); err != nil {
			return nil, err
		}
		if len(stats) == 0 || stats[len(stats)-1].Year != year {
			stats = append(stats, model.YearStats{Year: year, OptionCounts: map[int]int{}})
		}
		st := &stats[len(stats)-1]
		st.Questions++
		if answered {
			st.Answered++
		}
		if tagged {
			st.Tagged++
		}
		options, err := decodeStrings(optionsJSON)
		if err != nil {
			return nil, err
		}
		st.OptionCounts[len(options)]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].Rate = stats[i].AnsweredRate()
	}
	return stats, nil
}
