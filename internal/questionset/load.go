// Package questionset loads and validates normalized question files: the
// structured-output contract that build artifacts follow and that
// downstream presentation tools consume. JSON is the artifact format;
// YAML is accepted for hand-maintained sets.
package questionset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Falanzi121/prepdex/internal/model"
)

// Load reads, parses, and validates a question file. Files with a .json
// extension must hold a single top-level array of question records; any
// other extension is parsed as a YAML sequence of the same records.
func Load(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses and validates question records already read from a file.
// The path picks the format by extension, as in Load.
func Parse(data []byte, path string) ([]model.Question, error) {
	questions, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	if err := Validate(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func parse(data []byte, path string) ([]model.Question, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) ([]model.Question, error) {
	var questions []model.Question
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&questions); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return questions, nil
}

func parseYAML(data []byte) ([]model.Question, error) {
	var questions []model.Question
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&questions); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return questions, nil
}
