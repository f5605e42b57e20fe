package prediction

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

const recentEntryLimit = 30

const systemPrompt = `You are a menstrual cycle prediction engine.

You analyze structured cycle data and return a prediction.

IMPORTANT: Respond ONLY with valid JSON in this exact format, no markdown, no explanation:
{
  "nextPeriodDate": "YYYY-MM-DD",
  "predictedCycleLength": <number>,
  "fertileWindowStart": "YYYY-MM-DD",
  "fertileWindowEnd": "YYYY-MM-DD",
  "insights": ["insight1", "insight2"],
  "tips": ["tip1", "tip2"],
  "confidence": <0-100>
}

Rules:
- Return ONLY valid JSON.
- No markdown.
- No explanation outside JSON.
- No extra text.
- No medical claims.
- Use ISO date format (YYYY-MM-DD).
- If data is insufficient, return confidence 0.`

type flowPoint struct {
	Date string      `json:"date"`
	Flow models.Flow `json:"flow"`
}

type moodPoint struct {
	Date string      `json:"date"`
	Mood models.Mood `json:"mood"`
}

type symptomPoint struct {
	Date     string           `json:"date"`
	Symptoms []models.Symptom `json:"symptoms"`
}

type temperaturePoint struct {
	Date string  `json:"date"`
	BBT  float64 `json:"bbt"`
}

func SystemPrompt() string {
	return systemPrompt
}

// BuildUserMessage renders the cycle context sent as the user turn. Only the 30
// newest entries contribute per-day data; the total count covers all of them.
func BuildUserMessage(data models.CycleData, profile models.UserProfile, today caldate.Date) string {
	recent := recentEntries(data.Entries, recentEntryLimit)

	flows := make([]flowPoint, 0, len(recent))
	moods := make([]moodPoint, 0, len(recent))
	symptoms := make([]symptomPoint, 0, len(recent))
	temperatures := make([]temperaturePoint, 0, len(recent))
	for _, entry := range recent {
		date := entry.Date.String()
		if entry.Flow != nil && *entry.Flow != models.FlowNone {
			flows = append(flows, flowPoint{Date: date, Flow: *entry.Flow})
		}
		if entry.Mood != nil {
			moods = append(moods, moodPoint{Date: date, Mood: *entry.Mood})
		}
		if len(entry.Symptoms) > 0 {
			symptoms = append(symptoms, symptomPoint{Date: date, Symptoms: entry.Symptoms})
		}
		if entry.BasalBodyTemperature != nil && *entry.BasalBodyTemperature > 0 {
			temperatures = append(temperatures, temperaturePoint{Date: date, BBT: *entry.BasalBodyTemperature})
		}
	}

	lastPeriodStart := "Not set"
	if data.LastPeriodStart != nil && !data.LastPeriodStart.IsZero() {
		lastPeriodStart = data.LastPeriodStart.String()
	}

	temperatureLine := ""
	if len(temperatures) > 0 {
		temperatureLine = "BBT data: " + compactJSON(temperatures)
	}

	lines := []string{
		fmt.Sprintf("Today's date: %s", today),
		fmt.Sprintf("User goal: %s", profile.Goal),
		fmt.Sprintf("Cycle length setting: %d days", data.CycleLength),
		fmt.Sprintf("Period length setting: %d days", data.PeriodLength),
		fmt.Sprintf("Last period start: %s", lastPeriodStart),
		fmt.Sprintf("Total logged entries: %d", len(data.Entries)),
		"",
		"Period flow data: " + compactJSON(flows),
		"Mood data: " + compactJSON(moods),
		"Symptom data: " + compactJSON(symptoms),
		temperatureLine,
		"",
		"Analyze this data and provide cycle predictions.",
	}
	return strings.Join(lines, "\n")
}

func recentEntries(entries []models.CycleEntry, limit int) []models.CycleEntry {
	sorted := append([]models.CycleEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func compactJSON(value any) string {
	var builder strings.Builder
	encoder := json.NewEncoder(&builder)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(builder.String(), "\n")
}
