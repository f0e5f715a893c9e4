package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"imagequest/internal/catalog"
	"imagequest/internal/jobs"
	"imagequest/internal/models"
)

// CatalogHandler serves the character listings and admin lifecycle routes.
type CatalogHandler struct {
	catalog *catalog.Service
	jobs    *jobs.Repository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, jobRepo *jobs.Repository) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService, jobs: jobRepo}
}

// ListCharacters returns the visibility-filtered, paginated catalog.
// Anonymous callers only see public characters.
func (h *CatalogHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(HeaderUserID)
	offset := parseOffset(r)
	platform := platformOf(r)

	page, err := h.catalog.VisibleCharacters(userID, offset, platform)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load characters", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"characters": page.Characters,
		"total":      page.Total,
		"limit":      page.Limit,
		"offset":     page.Offset,
		"platform":   platform,
	})
}

// AdminListCharacters returns the unfiltered catalog, sorted and paginated.
func (h *CatalogHandler) AdminListCharacters(w http.ResponseWriter, r *http.Request) {
	offset := parseOffset(r)
	platform := platformOf(r)
	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = catalog.SortOldest
	}

	page, err := h.catalog.AdminCharacters(offset, platform, sortKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load characters", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"characters": page.Characters,
		"total":      page.Total,
		"limit":      page.Limit,
		"offset":     page.Offset,
		"platform":   platform,
		"sort":       sortKey,
	})
}

// DeleteCharacter removes a character, its folder and its generation jobs.
func (h *CatalogHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.catalog.DeleteCharacter(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete character", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Character not found", nil)
		return
	}

	if err := h.jobs.DeleteCharacterJobs(id); err != nil {
		log.Printf("Warning: failed to delete jobs for character %d: %v", id, err)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Character %d deleted successfully", id),
	})
}

// MakePublic flips a character to public visibility.
func (h *CatalogHandler) MakePublic(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusPublic)
}

// MakePrivate flips a character to private visibility.
func (h *CatalogHandler) MakePrivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusPrivate)
}

func (h *CatalogHandler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	char, err := h.catalog.SetStatus(id, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update character", err)
		return
	}
	if char == nil {
		respondError(w, http.StatusNotFound, "Character not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   fmt.Sprintf("Character %d is now %s", id, status),
		"character": char,
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid character ID", err)
		return 0, false
	}
	return id, true
}

func parseOffset(r *http.Request) int {
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func platformOf(r *http.Request) string {
	if platform := r.URL.Query().Get("platform"); platform != "" {
		return platform
	}
	return "desktop"
}
