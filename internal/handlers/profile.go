package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roomly/roomly-backend/internal/middleware"
)

type EditProfileRequest struct {
	Username string `json:"username"`
	AboutMe  string `json:"about_me"`
}

// GetUserProfile returns a user's public profile and their posts.
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
		"posts":   posts,
	})
}

// EditProfile updates the current user's username and about-me blurb.
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Authentication required"})
		return
	}

	var req EditProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	if err := h.users.UpdateProfile(r.Context(), userID, req.Username, req.AboutMe); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Your changes have been saved", User: user})
}
