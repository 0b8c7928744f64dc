package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"moodjournal/internal/sentiment"
	"moodjournal/internal/store"
)

const defaultEntryWindow = 50

type JournalHandler struct {
	store    *store.Store
	analyzer *sentiment.Analyzer
	logger   *zap.Logger
}

func NewJournalHandler(s *store.Store, analyzer *sentiment.Analyzer, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{store: s, analyzer: analyzer, logger: logger}
}

type createEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create stores a journal entry and immediately classifies it. The classifier
// is best-effort: an upstream failure degrades to the default vector but
// the entry is created regardless.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	entry, err := h.store.CreateEntry(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		h.logger.Error("create entry failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create entry")
		return
	}

	vector := h.analyzer.Classify(r.Context(), req.Content)
	if err := h.store.SaveMoodAnalysis(r.Context(), entry.ID, vector); err != nil {
		// The entry exists; a missing analysis row just means this entry
		// contributes zeros to future summaries.
		h.logger.Error("save mood analysis failed", zap.Int("entry_id", entry.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Journal entry created successfully",
		"entry_id":  entry.ID,
		"sentiment": vector,
	})
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	limit := defaultEntryWindow
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.store.EntriesWithMood(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("list entries failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve entries")
		return
	}
	if entries == nil {
		entries = []store.EntryWithMood{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}
