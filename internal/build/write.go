package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Falanzi121/prepdex/internal/model"
)

// RawPath returns the raw text dump path for a year.
func RawPath(sourceDir string, year int) string {
	return filepath.Join(sourceDir, fmt.Sprintf("prep_%d.txt", year))
}

// ArtifactPath returns the JSON question artifact path for a year.
func ArtifactPath(outputDir string, year int) string {
	return filepath.Join(outputDir, fmt.Sprintf("prep_%d.json", year))
}

// KeyPath returns the answer key path for a year.
func KeyPath(keyDir string, year int) string {
	return filepath.Join(keyDir, fmt.Sprintf("prep_%d_key.txt", year))
}

// WriteQuestions writes the year's records as a pretty-printed JSON array.
func WriteQuestions(dir string, year int, questions []model.Question) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	data = append(data, '\n')
	path := ArtifactPath(dir, year)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteKey writes the year's answer key, one "{ordinal}. {letter}" line per
// question with "-" for undetected answers. The final line carries no
// trailing newline.
func WriteKey(dir string, year int, questions []model.Question) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	content := strings.Join(model.KeyLines(questions), "\n")
	path := KeyPath(dir, year)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
