package prediction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

const (
	minCleanedLength  = 5
	defaultConfidence = 50
)

var (
	thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
	jsonFencePattern  = regexp.MustCompile("```json\\s*")
	fencePattern      = regexp.MustCompile("```\\s*")
)

type completionEnvelope struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
		Text json.RawMessage `json:"text"`
	} `json:"choices"`
	Output json.RawMessage `json:"output"`
}

type rawPrediction struct {
	NextPeriodDate       json.RawMessage `json:"nextPeriodDate"`
	PredictedCycleLength json.RawMessage `json:"predictedCycleLength"`
	FertileWindowStart   json.RawMessage `json:"fertileWindowStart"`
	FertileWindowEnd     json.RawMessage `json:"fertileWindowEnd"`
	Insights             json.RawMessage `json:"insights"`
	Tips                 json.RawMessage `json:"tips"`
	Confidence           json.RawMessage `json:"confidence"`
}

// ExtractContent finds the completion text in chat, legacy completion, or plain output shapes.
func ExtractContent(body []byte) (string, error) {
	var envelope completionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("%w: decode completion envelope: %v", ErrInvalidJSON, err)
	}

	candidates := []json.RawMessage{envelope.Output}
	if len(envelope.Choices) > 0 {
		first := envelope.Choices[0]
		candidates = []json.RawMessage{first.Message.Content, first.Text, envelope.Output}
	}
	for _, candidate := range candidates {
		if text, ok := decodeString(candidate); ok && text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyResponse
}

// CleanResponse strips reasoning blocks and markdown fences around the JSON payload.
func CleanResponse(text string) string {
	cleaned := strings.TrimSpace(thinkBlockPattern.ReplaceAllString(text, ""))
	cleaned = jsonFencePattern.ReplaceAllString(cleaned, "")
	cleaned = fencePattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// ParsePrediction validates model output. GeneratedAt and DataHash are left for the caller.
func ParsePrediction(content string) (models.Prediction, error) {
	if strings.TrimSpace(content) == "" {
		return models.Prediction{}, ErrEmptyResponse
	}
	cleaned := CleanResponse(content)
	if len(cleaned) < minCleanedLength {
		return models.Prediction{}, ErrEmptyAfterCleaning
	}

	var raw rawPrediction
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	nextPeriodDate, ok := decodeString(raw.NextPeriodDate)
	if !ok || nextPeriodDate == "" {
		return models.Prediction{}, ErrMissingRequiredFields
	}
	predictedCycleLength, ok := decodeNumber(raw.PredictedCycleLength)
	if !ok {
		return models.Prediction{}, ErrMissingRequiredFields
	}

	fertileWindowStart, _ := decodeString(raw.FertileWindowStart)
	fertileWindowEnd, _ := decodeString(raw.FertileWindowEnd)

	confidence, ok := decodeNumber(raw.Confidence)
	if !ok || confidence == 0 {
		confidence = defaultConfidence
	}
	confidence = math.Min(math.Max(confidence, 0), 100)

	return models.Prediction{
		NextPeriodDate:       nextPeriodDate,
		PredictedCycleLength: int(math.Round(predictedCycleLength)),
		FertileWindowStart:   fertileWindowStart,
		FertileWindowEnd:     fertileWindowEnd,
		Insights:             decodeStringList(raw.Insights, models.MaxPredictionInsights),
		Tips:                 decodeStringList(raw.Tips, models.MaxPredictionTips),
		Confidence:           int(math.Round(confidence)),
	}, nil
}

func finalizePrediction(prediction models.Prediction, generatedAt time.Time, dataHash string) models.Prediction {
	prediction.GeneratedAt = generatedAt
	prediction.DataHash = dataHash
	return prediction
}

// isAbsent treats a missing key and an explicit JSON null the same way.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeString(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

func decodeNumber(raw json.RawMessage) (float64, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err == nil {
		return value, true
	}
	if text, ok := decodeString(raw); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
			return parsed, true
		}
	}
	return 0, false
}

// decodeStringList keeps the first limit elements of a JSON array. Non-string
// elements are rendered as compact JSON; anything that is not an array yields an empty list.
func decodeStringList(raw json.RawMessage, limit int) []string {
	result := make([]string, 0, limit)
	if len(raw) == 0 {
		return result
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return result
	}
	if len(items) > limit {
		items = items[:limit]
	}
	for _, item := range items {
		if text, ok := decodeString(item); ok {
			result = append(result, text)
			continue
		}
		result = append(result, string(item))
	}
	return result
}
