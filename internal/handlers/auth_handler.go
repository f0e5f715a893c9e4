package handlers

import (
	"net/http"

	"imagequest/internal/auth"
)

// AuthHandler verifies the shared admin password for the frontend.
type AuthHandler struct {
	admin *auth.AdminPassword
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(admin *auth.AdminPassword) *AuthHandler {
	return &AuthHandler{admin: admin}
}

// VerifyPassword checks a submitted password against the admin secret.
// The result is always HTTP 200; validity rides in the payload.
func (h *AuthHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	if h.admin.Verify(r.FormValue("password")) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"valid":   true,
			"message": "Authentication successful",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   false,
		"message": "Incorrect password",
	})
}
