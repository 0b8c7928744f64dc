package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"moodjournal/internal/store"
)

// TrialExpiredMessage is the fixed body every gated endpoint returns once the
// trial window has lapsed without a current premium subscription.
const TrialExpiredMessage = "Trial expired. Please upgrade to premium."

type TrialMiddleware struct {
	store  *store.Store
	logger *zap.Logger
}

func NewTrialMiddleware(s *store.Store, logger *zap.Logger) *TrialMiddleware {
	return &TrialMiddleware{store: s, logger: logger}
}

// RequireActiveTrial gates user-owned data behind the trial/premium rule.
// It runs after RequireAuth. Payment and status routes are deliberately not
// behind it, otherwise an expired user could never upgrade.
func (m *TrialMiddleware) RequireActiveTrial(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("userID").(int)

		user, err := m.store.UserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, "user not found")
				return
			}
			m.logger.Error("trial gate lookup failed", zap.Int("user_id", userID), zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "server error")
			return
		}

		if !user.TrialActive(time.Now().UTC()) {
			writeJSONError(w, http.StatusForbidden, TrialExpiredMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
