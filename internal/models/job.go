package models

import "time"

// Generation job and item statuses.
const (
	JobPending  = "pending"
	JobRunning  = "running"
	JobComplete = "complete"

	ItemPending = "pending"
	ItemDone    = "done"
	ItemFailed  = "failed"
)

// GenerationJob tracks one background image-generation run for a character.
// A job is complete once every prompt has been attempted; individual prompt
// failures are recorded on the items and never abort the run.
type GenerationJob struct {
	ID          string    `json:"id"`
	CharacterID int       `json:"character_id"`
	Status      string    `json:"status"`
	Total       int       `json:"total"`
	Completed   int       `json:"completed"`
	Failed      int       `json:"failed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GenerationItem is the per-prompt record of a job. Index is 1-based and
// matches both the prompt position and the generated image filename.
type GenerationItem struct {
	JobID    string `json:"-"`
	Index    int    `json:"index"`
	Status   string `json:"status"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}
