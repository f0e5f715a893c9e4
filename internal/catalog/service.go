package catalog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imagequest/internal/assets"
	"imagequest/internal/models"
	"imagequest/internal/questions"
	"imagequest/internal/store"
)

// Page sizes are fixed by platform; clients only choose the offset.
const (
	PageSizeDesktop = 10
	PageSizeMobile  = 8
)

// Sort keys accepted by the admin listing.
const (
	SortOldest   = "oldest"
	SortNewest   = "newest"
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
)

// Page is one window of the character catalog.
type Page struct {
	Characters []models.Character
	Total      int
	Limit      int
	Offset     int
}

// Service owns character lifecycle and listing around the store: visibility
// filtering, sorting, pagination, folder layout on create and delete.
type Service struct {
	store     *store.CharacterStore
	uploadDir string
}

// NewService creates a catalog service over the store and upload root.
func NewService(s *store.CharacterStore, uploadDir string) *Service {
	return &Service{store: s, uploadDir: uploadDir}
}

// PageSize returns the fixed page size for a platform.
func PageSize(platform string) int {
	if strings.EqualFold(platform, "mobile") {
		return PageSizeMobile
	}
	return PageSizeDesktop
}

// VisibleCharacters lists the catalog as seen by one caller: public
// characters plus the caller's own, in index order, paginated.
func (s *Service) VisibleCharacters(userID string, offset int, platform string) (*Page, error) {
	characters, err := s.store.List()
	if err != nil {
		return nil, err
	}

	visible := make([]models.Character, 0, len(characters))
	for _, c := range characters {
		if c.VisibleTo(userID) {
			visible = append(visible, c)
		}
	}

	return s.page(visible, offset, platform), nil
}

// AdminCharacters lists the full catalog unfiltered, sorted then paginated.
// Unknown sort keys fall back to index order (oldest first).
func (s *Service) AdminCharacters(offset int, platform, sortKey string) (*Page, error) {
	characters, err := s.store.List()
	if err != nil {
		return nil, err
	}

	sortCharacters(characters, sortKey)
	return s.page(characters, offset, platform), nil
}

func sortCharacters(characters []models.Character, sortKey string) {
	switch sortKey {
	case SortNewest:
		for i, j := 0, len(characters)-1; i < j; i, j = i+1, j-1 {
			characters[i], characters[j] = characters[j], characters[i]
		}
	case SortNameAsc:
		sort.SliceStable(characters, func(i, j int) bool {
			return strings.ToLower(characters[i].Name) < strings.ToLower(characters[j].Name)
		})
	case SortNameDesc:
		sort.SliceStable(characters, func(i, j int) bool {
			return strings.ToLower(characters[i].Name) > strings.ToLower(characters[j].Name)
		})
	}
}

// page slices out one window and attaches base-image data URIs to the
// returned characters only.
func (s *Service) page(characters []models.Character, offset int, platform string) *Page {
	limit := PageSize(platform)
	total := len(characters)

	remaining := total - offset
	if remaining < 0 {
		remaining = 0
	}
	if remaining < limit {
		limit = remaining
	}

	window := []models.Character{}
	if limit > 0 {
		window = characters[offset : offset+limit]
	}

	for i := range window {
		if window[i].OriginalImage == "" {
			continue
		}
		uri, err := assets.DataURI(window[i].OriginalImage)
		if err != nil {
			log.Printf("Warning: failed to encode base image for character %d: %v", window[i].ID, err)
			continue
		}
		window[i].Image = uri
	}

	return &Page{Characters: window, Total: total, Limit: limit, Offset: offset}
}

// CreateCharacter lays out a character folder (named "<id>_<name>"), saves
// the original image as index 0, writes the already-validated question set,
// and appends the record to the index. The caller validates questions
// before this runs so a rejected set never leaves files behind.
func (s *Service) CreateCharacter(name, owner, imageName string, imageData []byte, qs []models.Question) (*models.Character, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id, err := s.store.NextID()
	if err != nil {
		return nil, err
	}

	safeName := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	folder := filepath.Join(s.uploadDir, fmt.Sprintf("%d_%s", id, safeName))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create character folder: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(imageName))
	if ext == "" {
		ext = ".png"
	}
	originalImage := filepath.Join(folder, "0"+ext)
	if err := os.WriteFile(originalImage, imageData, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save original image: %w", err)
	}
	if err := assets.RecordManifestEntry(folder, 0, "0"+ext); err != nil {
		log.Printf("Warning: failed to record original image in manifest: %v", err)
	}

	if qs != nil {
		if err := questions.Save(folder, qs); err != nil {
			return nil, err
		}
	}

	if owner == "" {
		owner = models.AnonymousOwner
	}

	char := models.Character{
		ID:            id,
		Name:          name,
		OriginalImage: originalImage,
		Folder:        folder,
		Owner:         owner,
		Status:        models.StatusPrivate,
	}
	if err := s.store.Append(char); err != nil {
		return nil, err
	}
	return &char, nil
}

// DeleteCharacter removes a character's folder and its index record.
// It reports whether the character existed. A folder that cannot be removed
// is logged, and the record is deleted anyway.
func (s *Service) DeleteCharacter(id int) (bool, error) {
	char, err := s.store.Get(id)
	if err != nil {
		return false, err
	}
	if char == nil {
		return false, nil
	}

	if char.Folder != "" {
		if err := os.RemoveAll(char.Folder); err != nil {
			log.Printf("Warning: failed to delete folder %s: %v", char.Folder, err)
		}
	}

	return s.store.Delete(id)
}

// SetStatus flips a character's visibility, returning nil if the character
// does not exist.
func (s *Service) SetStatus(id int, status string) (*models.Character, error) {
	return s.store.SetStatus(id, status)
}

// Get returns a single character by ID, or nil if absent.
func (s *Service) Get(id int) (*models.Character, error) {
	return s.store.Get(id)
}
