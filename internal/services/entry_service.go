package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

var (
	ErrEntryNotFound        = errors.New("entry not found")
	ErrEntryLoadFailed      = errors.New("load entry failed")
	ErrEntrySaveFailed      = errors.New("save entry failed")
	ErrEntryDeleteFailed    = errors.New("delete entry failed")
	ErrEntryDateInvalid     = errors.New("entry date invalid")
	ErrEntryListFailed      = errors.New("list entries failed")
	ErrCycleDataLoadFailed  = errors.New("load cycle data failed")
	ErrCycleDataSaveFailed  = errors.New("save cycle data failed")
	ErrProfileLoadFailed    = errors.New("load profile failed")
	ErrProfileSaveFailed    = errors.New("save profile failed")
	ErrOnboardingLoadFailed = errors.New("load onboarding state failed")
	ErrOnboardingSaveFailed = errors.New("save onboarding state failed")
)

type EntryRepository interface {
	FindEntryByDate(day caldate.Date) (models.CycleEntry, bool, error)
	UpsertEntry(entry *models.CycleEntry) error
	ListEntries() ([]models.CycleEntry, error)
	DeleteEntryByDate(day caldate.Date) error
}

type EntryService struct {
	entries EntryRepository
	now     func() time.Time
	newID   func() string
}

func NewEntryService(entries EntryRepository, now func() time.Time) *EntryService {
	if now == nil {
		now = time.Now
	}
	return &EntryService{
		entries: entries,
		now:     now,
		newID:   uuid.NewString,
	}
}

// Upsert replaces the logged fields for day. ID and CreatedAt survive from the first save.
func (service *EntryService) Upsert(day caldate.Date, input EntryInput) (models.CycleEntry, error) {
	if day.IsZero() {
		return models.CycleEntry{}, ErrEntryDateInvalid
	}
	fields, err := ValidateEntryInput(input)
	if err != nil {
		return models.CycleEntry{}, err
	}

	entry, found, err := service.entries.FindEntryByDate(day)
	if err != nil {
		return models.CycleEntry{}, ErrEntryLoadFailed
	}

	now := service.now().UTC()
	if !found {
		entry = models.CycleEntry{
			ID:        service.newID(),
			Date:      day,
			CreatedAt: now,
		}
	}
	entry.Flow = fields.Flow
	entry.Mood = fields.Mood
	entry.Symptoms = fields.Symptoms
	entry.Notes = fields.Notes
	entry.BasalBodyTemperature = fields.BasalBodyTemperature
	entry.WaterIntakeMl = fields.WaterIntakeMl
	entry.UpdatedAt = now

	if err := service.entries.UpsertEntry(&entry); err != nil {
		return models.CycleEntry{}, ErrEntrySaveFailed
	}
	return entry, nil
}

func (service *EntryService) Get(day caldate.Date) (models.CycleEntry, error) {
	entry, found, err := service.entries.FindEntryByDate(day)
	if err != nil {
		return models.CycleEntry{}, ErrEntryLoadFailed
	}
	if !found {
		return models.CycleEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

// List returns every entry newest first.
func (service *EntryService) List() ([]models.CycleEntry, error) {
	entries, err := service.entries.ListEntries()
	if err != nil {
		return nil, ErrEntryListFailed
	}
	SortEntriesNewestFirst(entries)
	return entries, nil
}

func (service *EntryService) Delete(day caldate.Date) error {
	if _, err := service.Get(day); err != nil {
		return err
	}
	if err := service.entries.DeleteEntryByDate(day); err != nil {
		return ErrEntryDeleteFailed
	}
	return nil
}

func SortEntriesNewestFirst(entries []models.CycleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}
