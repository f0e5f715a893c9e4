package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"imagequest/internal/ai"
	"imagequest/internal/catalog"
	"imagequest/internal/generate"
	"imagequest/internal/models"
	"imagequest/internal/questions"
)

// UploadHandler creates characters and drives the AI collaborators.
type UploadHandler struct {
	catalog   *catalog.Service
	generator *generate.Generator
	ai        *ai.Client
	maxSize   int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(catalogService *catalog.Service, generator *generate.Generator, aiClient *ai.Client, maxSize int64) *UploadHandler {
	return &UploadHandler{
		catalog:   catalogService,
		generator: generator,
		ai:        aiClient,
		maxSize:   maxSize,
	}
}

// Upload receives a character (name, base image, prompts, API key, optional
// question set), saves it synchronously, and enqueues image generation in
// the background. The question set is validated strictly before anything is
// written so a rejected upload never leaves files behind.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Character name is required", nil)
		return
	}
	apiKey := r.FormValue("api_key")
	prompts := r.Form["prompts"]

	var questionSet []models.Question
	if questionsJSON := r.FormValue("questions_json"); questionsJSON != "" {
		qs, err := questions.ParseAndValidate([]byte(questionsJSON))
		if err != nil {
			var verr questions.ValidationError
			if errors.As(err, &verr) {
				respondError(w, http.StatusBadRequest, verr.Message, nil)
				return
			}
			respondError(w, http.StatusBadRequest, "Invalid question set", err)
			return
		}
		questionSet = qs
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Base image is required", err)
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read base image", err)
		return
	}

	owner := r.Header.Get(HeaderUserID)
	char, err := h.catalog.CreateCharacter(name, owner, header.Filename, imageData, questionSet)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create character", err)
		return
	}

	response := map[string]interface{}{
		"message":   fmt.Sprintf("Character %q has been added successfully. Images are being generated in the background.", name),
		"character": char,
	}

	if len(prompts) > 0 {
		ext := extOf(char.OriginalImage)
		job, err := h.generator.Enqueue(char, apiKey, prompts, ext)
		if err != nil {
			// The character exists; generation just could not be queued.
			log.Printf("Error enqueueing generation for character %d: %v", char.ID, err)
		} else {
			response["job_id"] = job.ID
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GenerateQuestions delegates quiz generation to the AI collaborator.
// Failures are reported in-band, not as HTTP errors.
func (h *UploadHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	apiKey := r.FormValue("api_key")
	topic := r.FormValue("topic")
	count, err := strconv.Atoi(r.FormValue("num_questions"))
	if err != nil || count < 1 {
		respondError(w, http.StatusBadRequest, "num_questions must be a positive integer", err)
		return
	}

	var difficulties []int
	for _, raw := range r.Form["difficulties"] {
		d, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "difficulties must be integers", err)
			return
		}
		difficulties = append(difficulties, d)
	}

	qs, err := h.ai.GenerateQuestions(r.Context(), apiKey, topic, difficulties, count)
	if err != nil {
		log.Printf("Error generating questions: %v", err)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Failed to generate questions. Please try again.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"questions": qs,
		"count":     len(qs),
	})
}

func extOf(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return ".png"
}
