package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"metas/internal/session"
)

// AuthHandler issues development session tokens. In production the identity
// provider issues tokens; this endpoint is only routed in development.
type AuthHandler struct {
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	token, err := session.SignToken(body.UserID, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		http.Error(w, "failed to sign token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}
