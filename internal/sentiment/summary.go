package sentiment

// EntryMood is one entry's contribution to a mood summary. Entries that were
// never analyzed carry a nil vector and an empty sentiment label.
type EntryMood struct {
	Vector           *EmotionVector
	OverallSentiment string
}

// ChannelAverages holds per-channel means over a window of entries.
type ChannelAverages struct {
	Happiness float64 `json:"happiness"`
	Sadness   float64 `json:"sadness"`
	Anger     float64 `json:"anger"`
	Fear      float64 `json:"fear"`
	Surprise  float64 `json:"surprise"`
	Disgust   float64 `json:"disgust"`
}

type MoodSummary struct {
	MoodAverages          ChannelAverages `json:"mood_averages"`
	SentimentDistribution map[string]int  `json:"sentiment_distribution"`
	TotalEntries          int             `json:"total_entries"`
}

// Summarize reduces a window of entries to channel averages and a sentiment
// histogram. Returns nil for an empty window so callers can distinguish
// "no entries" from a zero-valued summary. Entries lacking a vector still
// count toward the denominator, contributing zeros.
func Summarize(entries []EntryMood) *MoodSummary {
	if len(entries) == 0 {
		return nil
	}

	var totals ChannelAverages
	dist := map[string]int{
		SentimentPositive: 0,
		SentimentNegative: 0,
		SentimentNeutral:  0,
	}

	for _, e := range entries {
		if e.Vector != nil {
			totals.Happiness += e.Vector.Happiness
			totals.Sadness += e.Vector.Sadness
			totals.Anger += e.Vector.Anger
			totals.Fear += e.Vector.Fear
			totals.Surprise += e.Vector.Surprise
			totals.Disgust += e.Vector.Disgust
		}

		label := e.OverallSentiment
		if label == "" {
			label = SentimentNeutral
		}
		dist[label]++
	}

	n := float64(len(entries))
	return &MoodSummary{
		MoodAverages: ChannelAverages{
			Happiness: totals.Happiness / n,
			Sadness:   totals.Sadness / n,
			Anger:     totals.Anger / n,
			Fear:      totals.Fear / n,
			Surprise:  totals.Surprise / n,
			Disgust:   totals.Disgust / n,
		},
		SentimentDistribution: dist,
		TotalEntries:          len(entries),
	}
}
