package services

import (
	"math"
	"sort"

	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

const (
	minPlausibleCycleGap = 15
	maxPlausibleCycleGap = 60
)

type SymptomFrequency struct {
	Symptom models.Symptom `json:"symptom"`
	Count   int            `json:"count"`
}

// ComputeStats derives cycle lengths from gaps between bleeding entries.
// Gaps outside the open interval (15, 60) are treated as logging noise.
func ComputeStats(entries []models.CycleEntry, fallbackCycleLength int) models.CycleStats {
	fallback := models.CycleStats{
		AvgLength:     fallbackCycleLength,
		ShortestCycle: fallbackCycleLength,
		LongestCycle:  fallbackCycleLength,
		TotalEntries:  len(entries),
	}

	markers := periodMarkers(entries)
	if len(markers) < 2 {
		return fallback
	}

	gaps := make([]int, 0, len(markers)-1)
	for index := 1; index < len(markers); index++ {
		gap := markers[index].DaysSince(markers[index-1])
		if gap > minPlausibleCycleGap && gap < maxPlausibleCycleGap {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return fallback
	}

	total := 0
	shortest := gaps[0]
	longest := gaps[0]
	for _, gap := range gaps {
		total += gap
		if gap < shortest {
			shortest = gap
		}
		if gap > longest {
			longest = gap
		}
	}

	return models.CycleStats{
		AvgLength:     int(math.Round(float64(total) / float64(len(gaps)))),
		ShortestCycle: shortest,
		LongestCycle:  longest,
		TotalEntries:  len(entries),
	}
}

func periodMarkers(entries []models.CycleEntry) []caldate.Date {
	markers := make([]caldate.Date, 0, len(entries))
	for _, entry := range entries {
		if entry.HasBleeding() {
			markers = append(markers, entry.Date)
		}
	}
	sort.Slice(markers, func(i, j int) bool {
		return markers[i].Before(markers[j])
	})
	return markers
}

func SymptomFrequencies(entries []models.CycleEntry) []SymptomFrequency {
	counts := make(map[models.Symptom]int)
	for _, entry := range entries {
		for _, symptom := range entry.Symptoms {
			counts[symptom]++
		}
	}

	result := make([]SymptomFrequency, 0, len(counts))
	for symptom, count := range counts {
		result = append(result, SymptomFrequency{Symptom: symptom, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Symptom < result[j].Symptom
		}
		return result[i].Count > result[j].Count
	})
	return result
}
