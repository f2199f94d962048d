package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roomly/roomly-backend/internal/middleware"
	"github.com/roomly/roomly-backend/internal/models"
)

// CreatePost submits a new roommate post. Unconfirmed users are rejected with
// a message pointing them at the confirmation flow.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Authentication required"})
		return
	}

	var req models.PostFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	author, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), author, req.Name, req.Email, req.Gender, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "Your post is now live!", Post: post})
}

// ListPosts returns one page of posts, newest first. The page size comes from
// configuration (POSTS_PER_PAGE).
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result, err := h.posts.ListPage(r.Context(), page, h.cfg.PostsPerPage)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SearchPosts searches posts by gender ("Male"/"Female") or by display name.
func (h *Handler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Search query is required"})
		return
	}

	results, err := h.posts.Search(r.Context(), query)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// EditPost updates a post's fields. Only the owner may edit.
func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Authentication required"})
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, models.ErrNotFound)
		return
	}

	var req models.PostFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	if err := h.posts.Update(r.Context(), postID, userID, req); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Your changes have been saved"})
}

// DeletePost removes a post. Only the owner may delete.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Authentication required"})
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, models.ErrNotFound)
		return
	}

	if err := h.posts.Delete(r.Context(), postID, userID); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Your post has been deleted"})
}
