package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

var (
	ErrSettingsCycleLengthOutOfRange  = errors.New("settings cycle length out of range")
	ErrSettingsPeriodLengthOutOfRange = errors.New("settings period length out of range")
	ErrSettingsCycleStartDateInvalid  = errors.New("settings cycle start date invalid")
	ErrSettingsLoadFailed             = errors.New("load cycle settings failed")
	ErrSettingsSaveFailed             = errors.New("save cycle settings failed")
)

type CycleSettingsRepository interface {
	LoadCycleSettings() (models.CycleSettings, error)
	SaveCycleSettings(settings *models.CycleSettings) error
}

type CycleSettingsInput struct {
	CycleLength     int    `json:"cycleLength"`
	PeriodLength    int    `json:"periodLength"`
	LastPeriodStart string `json:"lastPeriodStart"`
}

type CycleSettingsUpdate struct {
	CycleLength     int
	PeriodLength    int
	LastPeriodStart *caldate.Date
}

type SettingsService struct {
	settings CycleSettingsRepository
	now      func() time.Time
	location *time.Location
}

func NewSettingsService(settings CycleSettingsRepository, now func() time.Time, location *time.Location) *SettingsService {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &SettingsService{
		settings: settings,
		now:      now,
		location: location,
	}
}

func IsValidCycleLength(value int) bool {
	return value >= models.MinCycleLength && value <= models.MaxCycleLength
}

func IsValidPeriodLength(value int, cycleLength int) bool {
	return value >= models.MinPeriodLength && value < cycleLength
}

// ValidateCycleSettings enforces the bounds the calculators assume. An empty
// LastPeriodStart clears the anchor.
func ValidateCycleSettings(input CycleSettingsInput, today caldate.Date) (CycleSettingsUpdate, error) {
	if !IsValidCycleLength(input.CycleLength) {
		return CycleSettingsUpdate{}, ErrSettingsCycleLengthOutOfRange
	}
	if !IsValidPeriodLength(input.PeriodLength, input.CycleLength) {
		return CycleSettingsUpdate{}, ErrSettingsPeriodLengthOutOfRange
	}

	update := CycleSettingsUpdate{
		CycleLength:  input.CycleLength,
		PeriodLength: input.PeriodLength,
	}

	rawDate := strings.TrimSpace(input.LastPeriodStart)
	if rawDate == "" {
		return update, nil
	}
	day, err := ValidateLastPeriodStart(rawDate, today)
	if err != nil {
		return CycleSettingsUpdate{}, err
	}
	update.LastPeriodStart = &day
	return update, nil
}

func ValidateLastPeriodStart(raw string, today caldate.Date) (caldate.Date, error) {
	day, err := caldate.Parse(strings.TrimSpace(raw))
	if err != nil || day.After(today) {
		return caldate.Date{}, ErrSettingsCycleStartDateInvalid
	}
	return day, nil
}

func (service *SettingsService) Today() caldate.Date {
	return caldate.Today(service.now(), service.location)
}

func (service *SettingsService) Load() (models.CycleSettings, error) {
	settings, err := service.settings.LoadCycleSettings()
	if err != nil {
		return models.CycleSettings{}, ErrSettingsLoadFailed
	}
	return settings, nil
}

func (service *SettingsService) SaveCycleSettings(input CycleSettingsInput) (models.CycleSettings, error) {
	update, err := ValidateCycleSettings(input, service.Today())
	if err != nil {
		return models.CycleSettings{}, err
	}

	settings, err := service.Load()
	if err != nil {
		return models.CycleSettings{}, err
	}
	settings.CycleLength = update.CycleLength
	settings.PeriodLength = update.PeriodLength
	settings.LastPeriodStart = update.LastPeriodStart
	settings.UpdatedAt = service.now().UTC()

	if err := service.settings.SaveCycleSettings(&settings); err != nil {
		return models.CycleSettings{}, ErrSettingsSaveFailed
	}
	return settings, nil
}

func (service *SettingsService) SetLastPeriodStart(raw string) (models.CycleSettings, error) {
	day, err := ValidateLastPeriodStart(raw, service.Today())
	if err != nil {
		return models.CycleSettings{}, err
	}

	settings, err := service.Load()
	if err != nil {
		return models.CycleSettings{}, err
	}
	settings.LastPeriodStart = &day
	settings.UpdatedAt = service.now().UTC()

	if err := service.settings.SaveCycleSettings(&settings); err != nil {
		return models.CycleSettings{}, ErrSettingsSaveFailed
	}
	return settings, nil
}
