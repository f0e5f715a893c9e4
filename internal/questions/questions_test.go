package questions

import (
	"errors"
	"strings"
	"testing"

	"imagequest/internal/models"
)

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRenumbersAndLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	qs := []models.Question{
		{ID: 9, Question: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		{ID: 2, Question: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: "b"},
	}

	if err := Save(dir, qs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(loaded))
	}
	for i, q := range loaded {
		if q.ID != i+1 {
			t.Errorf("question %d: ID = %d, want %d", i, q.ID, i+1)
		}
	}
	if loaded[1].Question != "Q2" || loaded[1].Answer != "b" {
		t.Errorf("unexpected question content: %+v", loaded[1])
	}
}

func TestParseAndValidate(t *testing.T) {
	valid := `[{"id": 5, "question": "Capital of France?", "options": ["Paris", "Rome", "Berlin", "Oslo"], "answer": "Paris"}]`

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "valid set",
			payload: valid,
		},
		{
			name:    "not an array",
			payload: `{"id": 1}`,
			wantErr: "JSON array",
		},
		{
			name:    "not JSON",
			payload: `hello`,
			wantErr: "JSON array",
		},
		{
			name:    "missing field",
			payload: `[{"id": 1, "question": "Q", "options": ["a", "b", "c", "d"]}]`,
			wantErr: "missing required field: answer",
		},
		{
			name:    "three options",
			payload: `[{"id": 1, "question": "Q", "options": ["a", "b", "c"], "answer": "a"}]`,
			wantErr: "exactly 4 options",
		},
		{
			name:    "five options",
			payload: `[{"id": 1, "question": "Q", "options": ["a", "b", "c", "d", "e"], "answer": "a"}]`,
			wantErr: "exactly 4 options",
		},
		{
			name:    "answer not in options",
			payload: `[{"id": 1, "question": "Q", "options": ["a", "b", "c", "d"], "answer": "z"}]`,
			wantErr: "must be one of the options",
		},
		{
			name:    "options not strings",
			payload: `[{"id": 1, "question": "Q", "options": [1, 2, 3, 4], "answer": "a"}]`,
			wantErr: "options must be an array of strings",
		},
		{
			name: "second question named in error",
			payload: `[{"id": 1, "question": "Q", "options": ["a", "b", "c", "d"], "answer": "a"},
				{"id": 2, "question": "Q", "options": ["a", "b", "c", "d"], "answer": "nope"}]`,
			wantErr: "question 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := ParseAndValidate([]byte(tt.payload))

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ParseAndValidate() error = %v", err)
				}
				if len(qs) != 1 || qs[0].ID != 1 {
					t.Fatalf("expected renumbered single question, got %+v", qs)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !strings.Contains(verr.Message, tt.wantErr) {
				t.Errorf("error %q does not contain %q", verr.Message, tt.wantErr)
			}
		})
	}
}
