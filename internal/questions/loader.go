package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"imagequest/internal/models"
)

// FileName is the question set file inside a character folder.
const FileName = "questions.json"

// ErrNotFound is returned when a character folder has no question set.
var ErrNotFound = errors.New("no questions found for this character")

// Load reads the ordered question set for a character folder. Question IDs
// are 1-based: index qid maps to the slice element qid-1. No validation is
// performed here; sets are validated once, at save time.
func Load(folder string) ([]models.Question, error) {
	data, err := os.ReadFile(filepath.Join(folder, FileName))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read question set: %w", err)
	}

	var qs []models.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("failed to parse question set: %w", err)
	}
	return qs, nil
}

// Save renumbers the set to a contiguous 1..N sequence and writes it into
// the character folder.
func Save(folder string, qs []models.Question) error {
	for i := range qs {
		qs[i].ID = i + 1
	}

	data, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode question set: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, FileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write question set: %w", err)
	}
	return nil
}
