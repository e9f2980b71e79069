package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samosa1610/murfAI/models"
)

// SummaryResult is the tagged outcome of parsing a feedback response. Exactly
// one of Summary or Err is set; Raw always carries the model's verbatim text
// so a failed parse stays observable instead of vanishing.
type SummaryResult struct {
	Summary *models.SessionSummary
	Raw     string
	Err     error
}

// feedbackPayload mirrors the JSON shape the feedback prompt asks for.
type feedbackPayload struct {
	Score             float64  `json:"score"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	Duration          string   `json:"duration"`
	QuestionsAnswered int      `json:"questionsAnswered"`
}

// ParseFeedback parses the generator's feedback response into a session
// summary. Markdown code fences around the JSON object are tolerated since
// the model frequently adds them despite instructions. Three strengths and
// three improvements are expected but not enforced.
func ParseFeedback(response string) SummaryResult {
	raw := strings.TrimSpace(response)

	cleaned := raw
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var payload feedbackPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return SummaryResult{
			Raw: raw,
			Err: fmt.Errorf("failed to parse feedback response: %w", err),
		}
	}

	// Clamp the score to the 0-10 scale rather than trusting the model.
	if payload.Score < 0 {
		payload.Score = 0
	}
	if payload.Score > 10 {
		payload.Score = 10
	}

	return SummaryResult{
		Summary: &models.SessionSummary{
			Score:             payload.Score,
			Strengths:         payload.Strengths,
			Improvements:      payload.Improvements,
			Duration:          payload.Duration,
			QuestionsAnswered: payload.QuestionsAnswered,
		},
		Raw: raw,
	}
}
