package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/roomly/roomly-backend/internal/middleware"
	"github.com/roomly/roomly-backend/internal/services"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
	Next     string `json:"next,omitempty"`
}

// Register handles user registration and sends the confirmation email.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.tokens.Issue(services.PurposeConfirmEmail, user.Email, h.cfg.ConfirmTokenTTL)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.mail.SendEmailConfirmation(user.Email, token); err != nil {
		// The account exists either way; the user can request a resend.
		log.Printf("ERROR: failed to send confirmation email to %s: %v", user.Email, err)
	}

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Congratulations, a confirmation email has been sent to you",
		User:    user,
	})
}

// Login verifies credentials, binds a session and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Username and password are required"})
		return
	}

	user, err := h.users.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	// A re-login from a still-valid session of the same user keeps the token
	// and just resets its expiry.
	var sessionToken string
	if existing := middleware.SessionToken(r); existing != "" {
		if existingID, ok, err := h.sessions.Validate(r.Context(), existing); err == nil && ok && existingID == user.ID {
			if err := h.sessions.Refresh(r.Context(), existing, req.Remember); err == nil {
				sessionToken = existing
			}
		}
	}
	if sessionToken == "" {
		token, err := h.sessions.Create(r.Context(), user.ID, req.Remember)
		if err != nil {
			respondError(w, err)
			return
		}
		sessionToken = token
	}

	maxAge := int(services.SessionDuration.Seconds())
	if req.Remember {
		maxAge = int(services.RememberedSessionDuration.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, struct {
		Response
		Redirect string `json:"redirect"`
	}{
		Response: Response{
			Success: true,
			Message: "Login successful",
			User:    user,
			Token:   sessionToken,
		},
		Redirect: middleware.SafeNextPath(req.Next),
	})
}

// Logout unbinds the current session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := h.sessions.Invalidate(r.Context(), token); err != nil {
			log.Printf("ERROR: failed to invalidate session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Logged out"})
}

// Me returns the currently authenticated user, re-resolved from the store.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Authentication required"})
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, User: user})
}
