package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"moodjournal/internal/store"
)

type UserHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewUserHandler(s *store.Store, logger *zap.Logger) *UserHandler {
	return &UserHandler{store: s, logger: logger}
}

// Status reports trial and premium state. Not trial-gated: an expired user
// still needs to see that they are expired.
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	user, err := h.store.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("user status lookup failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get user status")
		return
	}

	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":        user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"trial_active":   user.TrialActive(now),
		"days_remaining": user.TrialDaysRemaining(now),
		"is_premium":     user.IsPremium,
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Mood Journal API is running",
	})
}
