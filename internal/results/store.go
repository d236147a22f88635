// Package results persists pipeline artifacts and ranked reports to a
// results directory.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

const defaultDir = "results"

// Store writes run artifacts into a single directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates the results directory if needed. An empty dir selects
// "results" in the working directory.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = defaultDir
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}

	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// SaveJSON writes v as indented JSON under the store directory and returns
// the written path.
func (s *Store) SaveJSON(name string, v any) (string, error) {
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	s.logger.Debug("saved artifact", zap.String("path", path))

	return path, nil
}

// SaveText writes plain text under the store directory and returns the
// written path.
func (s *Store) SaveText(name, text string) (string, error) {
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.Debug("saved artifact", zap.String("path", path))

	return path, nil
}

// SaveCSV writes recommendation rows as CSV under the store directory and
// returns the written path.
func (s *Store) SaveCSV(name string, rows []Recommendation) (string, error) {
	path := filepath.Join(s.dir, name)

	if err := WriteCSV(path, rows); err != nil {
		return "", err
	}

	s.logger.Debug("saved artifact", zap.String("path", path))

	return path, nil
}

// WriteCSV writes recommendation rows as CSV to an arbitrary path.
func WriteCSV(path string, rows []Recommendation) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}

	return nil
}

// DumpToTmpFile writes recommendation rows as pretty JSON to a temp file and
// returns its path.
func DumpToTmpFile(rows []Recommendation) (string, error) {
	file, err := os.CreateTemp("", "recommendations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return "", err
	}

	return file.Name(), nil
}
