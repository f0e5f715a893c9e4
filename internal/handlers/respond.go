package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// respondJSON writes a JSON payload with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError writes an {"error": msg} payload. Game routes use status 200
// with an error payload (the frontend contract); admin routes pass real
// HTTP status codes.
func respondError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	respondJSON(w, status, map[string]string{"error": userMsg})
}
