package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/roomly/roomly-backend/internal/middleware"
	"github.com/roomly/roomly-backend/internal/models"
	"github.com/roomly/roomly-backend/internal/services"
)

type ResetPasswordRequestBody struct {
	Email string `json:"email"`
}

type ResetPasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type ConfirmEmailBody struct {
	Token string `json:"token"`
}

// ResetPasswordRequest issues a reset token and mails it. The response is the
// same whether or not the email belongs to an account, so the endpoint cannot
// be used to probe for registered addresses.
func (h *Handler) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err == nil {
		token, issueErr := h.tokens.Issue(services.PurposeResetPassword, user.ID.String(), h.cfg.ResetTokenTTL)
		if issueErr == nil {
			if mailErr := h.mail.SendPasswordReset(user.Email, token); mailErr != nil {
				log.Printf("ERROR: failed to send password reset email to %s: %v", user.Email, mailErr)
			}
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Check your email for the instructions to reset your password",
	})
}

// ResetPassword redeems a reset token and replaces the stored password hash.
// All sessions of the user are invalidated afterwards.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	subject, err := h.tokens.Verify(services.PurposeResetPassword, req.Token)
	if err != nil {
		respondError(w, err)
		return
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		respondError(w, models.ErrTokenInvalid)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), userID, req.Password); err != nil {
		respondError(w, err)
		return
	}

	if err := h.sessions.InvalidateUserSessions(r.Context(), userID); err != nil {
		log.Printf("ERROR: failed to invalidate sessions for %s: %v", userID, err)
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Your password has been reset"})
}

// ConfirmEmail redeems a confirmation token. Redeeming the same token twice is
// harmless; the account simply stays confirmed.
func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req ConfirmEmailBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	email, err := h.tokens.Verify(services.PurposeConfirmEmail, req.Token)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.users.Confirm(r.Context(), email); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "You have confirmed your account. Thanks!"})
}

// ResendConfirmation re-issues a confirmation token for the logged-in user.
func (h *Handler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
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

	if user.Confirmed {
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "Account already confirmed"})
		return
	}

	token, err := h.tokens.Issue(services.PurposeConfirmEmail, user.Email, h.cfg.ConfirmTokenTTL)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.mail.SendEmailConfirmation(user.Email, token); err != nil {
		log.Printf("ERROR: failed to send confirmation email to %s: %v", user.Email, err)
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "A new confirmation email has been sent to you"})
}
