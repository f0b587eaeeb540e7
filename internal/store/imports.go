package store

import (
	"database/sql"

	"github.com/Falanzi121/prepdex/internal/model"
)

// GetImportedFileHash returns the recorded content hash for a path.
// Returns empty string and nil error if the path was never imported.
func (s *Store) GetImportedFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM imported_files WHERE path = ?`, path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// SetImportedFileHash upserts the content hash for an imported path.
func (s *Store) SetImportedFileHash(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO imported_files (path, hash) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = ?`,
		path, hash, hash,
	)
	return err
}

// RecordImportBatch stores the audit row for one accepted import.
func (s *Store) RecordImportBatch(b model.ImportBatch) error {
	_, err := s.db.Exec(
		`INSERT INTO import_batches (id, path, year, question_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Path, b.Year, b.QuestionCount, b.ImportedAt,
	)
	return err
}

// ListImportBatches returns all import batches, newest first.
func (s *Store) ListImportBatches() ([]model.ImportBatch, error) {
	rows, err := s.db.Query(
		`SELECT id, path, year, question_count, imported_at FROM import_batches ORDER BY imported_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var batches []model.ImportBatch
	for rows.Next() {
		var b model.ImportBatch
		if err := rows.Scan(&b.ID, &b.Path, &b.Year, &b.QuestionCount, &b.ImportedAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
