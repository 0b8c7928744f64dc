package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"moodjournal/internal/sentiment"
	"moodjournal/internal/store"
)

// summaryWindow is how many recent entries feed the mood summary.
const summaryWindow = 30

type MoodHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewMoodHandler(s *store.Store, logger *zap.Logger) *MoodHandler {
	return &MoodHandler{store: s, logger: logger}
}

// Summary aggregates the most recent entries into channel averages and a
// sentiment histogram. mood_summary is null when the user has no entries,
// which is distinct from a summary of all-zero scores.
func (h *MoodHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	entries, err := h.store.EntriesWithMood(r.Context(), userID, summaryWindow)
	if err != nil {
		h.logger.Error("mood summary fetch failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate mood summary")
		return
	}

	moods := make([]sentiment.EntryMood, 0, len(entries))
	for _, e := range entries {
		moods = append(moods, e.Mood())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mood_summary":   sentiment.Summarize(moods),
		"recent_entries": len(entries),
	})
}
