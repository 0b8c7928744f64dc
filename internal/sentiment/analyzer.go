package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// EmotionVector is the per-entry result of classification: six fixed channels
// plus the polarity and confidence of the single highest-scoring label.
type EmotionVector struct {
	Happiness        float64 `json:"happiness"`
	Sadness          float64 `json:"sadness"`
	Anger            float64 `json:"anger"`
	Fear             float64 `json:"fear"`
	Surprise         float64 `json:"surprise"`
	Disgust          float64 `json:"disgust"`
	OverallSentiment string  `json:"overall_sentiment"`
	Confidence       float64 `json:"confidence"`
}

// DefaultVector is what an entry gets when the classifier is unreachable or
// returns garbage. Analysis is best-effort and never blocks entry creation.
func DefaultVector() EmotionVector {
	return EmotionVector{
		Happiness:        0.5,
		Sadness:          0.1,
		Anger:            0.1,
		Fear:             0.1,
		Surprise:         0.1,
		Disgust:          0.1,
		OverallSentiment: SentimentNeutral,
		Confidence:       0.5,
	}
}

// Analyzer calls a remote text-classification endpoint that returns
// free-form {label, score} pairs.
type Analyzer struct {
	apiURL string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

func NewAnalyzer(apiURL, apiKey string, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends text to the classifier and folds the response into an
// EmotionVector. Every failure path degrades to DefaultVector.
func (a *Analyzer) Classify(ctx context.Context, text string) EmotionVector {
	results, err := a.request(ctx, text)
	if err != nil {
		a.logger.Warn("sentiment classification failed, using default vector", zap.Error(err))
		return DefaultVector()
	}
	return fold(results)
}

func (a *Analyzer) request(ctx context.Context, text string) ([]labelScore, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	// The inference API wraps results in an outer array, one inner array of
	// label/score pairs per input.
	var payload [][]labelScore
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty classifier response")
	}
	return payload[0], nil
}

// fold maps raw label scores onto the six channels and tracks the running
// maximum to derive overall sentiment and confidence. Unrecognized labels are
// dropped from the channels but still compete for the maximum.
func fold(results []labelScore) EmotionVector {
	var v EmotionVector
	v.OverallSentiment = SentimentNeutral

	var maxScore float64
	for _, r := range results {
		label := strings.ToLower(r.Label)
		switch label {
		case "joy", "happiness":
			v.Happiness = r.Score
		case "sadness":
			v.Sadness = r.Score
		case "anger":
			v.Anger = r.Score
		case "fear":
			v.Fear = r.Score
		case "surprise":
			v.Surprise = r.Score
		case "disgust":
			v.Disgust = r.Score
		}

		if r.Score > maxScore {
			maxScore = r.Score
			switch label {
			case "joy", "happiness":
				v.OverallSentiment = SentimentPositive
			case "sadness", "fear", "anger", "disgust":
				v.OverallSentiment = SentimentNegative
			default:
				v.OverallSentiment = SentimentNeutral
			}
		}
	}
	v.Confidence = maxScore
	return v
}
