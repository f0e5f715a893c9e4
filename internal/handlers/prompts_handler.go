package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// PromptsHandler serves the prompt suggestion list.
type PromptsHandler struct {
	path string
}

// NewPromptsHandler creates a new prompts handler
func NewPromptsHandler(path string) *PromptsHandler {
	return &PromptsHandler{path: path}
}

// GetPrompts returns the suggested prompts. A missing or broken suggestions
// file degrades to an empty list.
func (h *PromptsHandler) GetPrompts(w http.ResponseWriter, r *http.Request) {
	prompts := []string{}

	data, err := os.ReadFile(h.path)
	if err == nil {
		if err := json.Unmarshal(data, &prompts); err != nil {
			log.Printf("Error parsing prompt suggestions: %v", err)
			prompts = []string{}
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Error reading prompt suggestions: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts})
}
