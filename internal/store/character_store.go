package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"imagequest/internal/models"
)

// CharacterStore persists the character index as a JSON array on disk.
// Reads and read-modify-write cycles are serialized with a mutex so callers
// observe whole-file updates; concurrent processes are last-write-wins.
type CharacterStore struct {
	path string
	mu   sync.Mutex
}

// NewCharacterStore creates a store backed by the given index file.
func NewCharacterStore(path string) *CharacterStore {
	return &CharacterStore{path: path}
}

// List returns all characters in index order. A missing index file is an
// empty catalog, not an error.
func (s *CharacterStore) List() ([]models.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save overwrites the index with the given characters.
func (s *CharacterStore) Save(characters []models.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(characters)
}

// NextID returns the smallest unused positive ID greater than the current
// character count, incrementing past collisions. The ID is not reserved;
// concurrent creates are last-write-wins like every other index mutation.
func (s *CharacterStore) NextID() (int, error) {
	characters, err := s.List()
	if err != nil {
		return 0, err
	}

	existing := make(map[int]bool, len(characters))
	for _, ch := range characters {
		existing[ch.ID] = true
	}
	id := len(characters) + 1
	for existing[id] {
		id++
	}
	return id, nil
}

// Append adds a character to the end of the index.
func (s *CharacterStore) Append(c models.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	characters, err := s.load()
	if err != nil {
		return err
	}
	return s.save(append(characters, c))
}

// Get returns the character with the given ID, or nil if absent.
func (s *CharacterStore) Get(id int) (*models.Character, error) {
	characters, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range characters {
		if characters[i].ID == id {
			return &characters[i], nil
		}
	}
	return nil, nil
}

// SetStatus updates a character's visibility status and returns the updated
// record, or nil if the character does not exist.
func (s *CharacterStore) SetStatus(id int, status string) (*models.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	characters, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range characters {
		if characters[i].ID == id {
			characters[i].Status = status
			if err := s.save(characters); err != nil {
				return nil, err
			}
			return &characters[i], nil
		}
	}
	return nil, nil
}

// Delete removes a character from the index. It reports whether the
// character existed. The caller is responsible for removing the folder.
func (s *CharacterStore) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	characters, err := s.load()
	if err != nil {
		return false, err
	}

	kept := characters[:0]
	found := false
	for _, ch := range characters {
		if ch.ID == id {
			found = true
			continue
		}
		kept = append(kept, ch)
	}
	if !found {
		return false, nil
	}
	return true, s.save(kept)
}

func (s *CharacterStore) load() ([]models.Character, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.Character{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read character index: %w", err)
	}

	var characters []models.Character
	if err := json.Unmarshal(data, &characters); err != nil {
		return nil, fmt.Errorf("failed to parse character index: %w", err)
	}
	return characters, nil
}

func (s *CharacterStore) save(characters []models.Character) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.MarshalIndent(characters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode character index: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write character index: %w", err)
	}
	return nil
}
