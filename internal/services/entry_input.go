package services

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/cyclecast/internal/models"
)

var (
	ErrInvalidFlow                = errors.New("invalid flow value")
	ErrInvalidMood                = errors.New("invalid mood value")
	ErrInvalidSymptom             = errors.New("invalid symptom value")
	ErrNotesTooLong               = errors.New("notes too long")
	ErrBasalTemperatureOutOfRange = errors.New("basal body temperature out of range")
	ErrNegativeWaterIntake        = errors.New("water intake must not be negative")
)

type EntryInput struct {
	Flow                 string   `json:"flow"`
	Mood                 string   `json:"mood"`
	Symptoms             []string `json:"symptoms"`
	Notes                string   `json:"notes"`
	BasalBodyTemperature *float64 `json:"basalBodyTemperature"`
	WaterIntakeMl        *int     `json:"waterIntakeMl"`
}

// EntryFields is EntryInput after normalisation; nil pointers mean "not logged".
type EntryFields struct {
	Flow                 *models.Flow
	Mood                 *models.Mood
	Symptoms             []models.Symptom
	Notes                string
	BasalBodyTemperature *float64
	WaterIntakeMl        *int
}

func ValidateEntryInput(input EntryInput) (EntryFields, error) {
	fields := EntryFields{}

	if flow := strings.ToLower(strings.TrimSpace(input.Flow)); flow != "" {
		parsed := models.Flow(flow)
		if !parsed.IsValid() {
			return EntryFields{}, ErrInvalidFlow
		}
		fields.Flow = &parsed
	}

	if mood := strings.ToLower(strings.TrimSpace(input.Mood)); mood != "" {
		parsed := models.Mood(mood)
		if !parsed.IsValid() {
			return EntryFields{}, ErrInvalidMood
		}
		fields.Mood = &parsed
	}

	symptoms, err := normalizeSymptoms(input.Symptoms)
	if err != nil {
		return EntryFields{}, err
	}
	fields.Symptoms = symptoms

	notes := strings.TrimSpace(input.Notes)
	if utf8.RuneCountInString(notes) > models.MaxEntryNotesLength {
		return EntryFields{}, ErrNotesTooLong
	}
	fields.Notes = notes

	if input.BasalBodyTemperature != nil {
		value := *input.BasalBodyTemperature
		if value < models.MinBasalBodyTemperature || value > models.MaxBasalBodyTemperature {
			return EntryFields{}, ErrBasalTemperatureOutOfRange
		}
		fields.BasalBodyTemperature = &value
	}

	if input.WaterIntakeMl != nil {
		value := *input.WaterIntakeMl
		if value < 0 {
			return EntryFields{}, ErrNegativeWaterIntake
		}
		fields.WaterIntakeMl = &value
	}

	return fields, nil
}

func normalizeSymptoms(raw []string) ([]models.Symptom, error) {
	seen := make(map[models.Symptom]struct{}, len(raw))
	symptoms := make([]models.Symptom, 0, len(raw))
	for _, value := range raw {
		symptom := models.Symptom(strings.ToLower(strings.TrimSpace(value)))
		if symptom == "" {
			continue
		}
		if !symptom.IsValid() {
			return nil, ErrInvalidSymptom
		}
		if _, ok := seen[symptom]; ok {
			continue
		}
		seen[symptom] = struct{}{}
		symptoms = append(symptoms, symptom)
	}
	sort.Slice(symptoms, func(i, j int) bool {
		return symptoms[i] < symptoms[j]
	})
	return symptoms, nil
}
