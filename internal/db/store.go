package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// singletonID is the primary key of every one-row table in the store.
const singletonID = 1

// clearedTables lists every table ClearAll empties. schema_migrations is kept.
var clearedTables = []string{
	"cycle_entries",
	"cycle_settings",
	"user_profile",
	"app_state",
	"prediction_cache",
}

// Store persists the single user's cycle data, profile and cached prediction.
type Store struct {
	database *gorm.DB
}

func NewStore(database *gorm.DB) *Store {
	return &Store{database: database}
}

func (store *Store) LoadCycleSettings() (models.CycleSettings, error) {
	settings := models.CycleSettings{}
	result := store.database.Where("id = ?", singletonID).Limit(1).Find(&settings)
	if result.Error != nil {
		return models.CycleSettings{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CycleSettings{
			ID:           singletonID,
			CycleLength:  models.DefaultCycleLength,
			PeriodLength: models.DefaultPeriodLength,
		}, nil
	}
	return settings, nil
}

func (store *Store) SaveCycleSettings(settings *models.CycleSettings) error {
	return saveCycleSettings(store.database, settings)
}

func saveCycleSettings(database *gorm.DB, settings *models.CycleSettings) error {
	settings.ID = singletonID
	return database.Clauses(clause.OnConflict{UpdateAll: true}).Create(settings).Error
}

// LoadCycleData assembles settings and every entry. Entries come back oldest first.
func (store *Store) LoadCycleData() (models.CycleData, error) {
	settings, err := store.LoadCycleSettings()
	if err != nil {
		return models.CycleData{}, err
	}
	entries, err := store.ListEntries()
	if err != nil {
		return models.CycleData{}, err
	}

	return models.CycleData{
		LastPeriodStart: settings.LastPeriodStart,
		CycleLength:     settings.CycleLength,
		PeriodLength:    settings.PeriodLength,
		Entries:         entries,
	}, nil
}

// SaveCycleData replaces the settings row and the full entry set atomically.
func (store *Store) SaveCycleData(data models.CycleData) error {
	return store.database.Transaction(func(tx *gorm.DB) error {
		settings := models.CycleSettings{
			LastPeriodStart: data.LastPeriodStart,
			CycleLength:     data.CycleLength,
			PeriodLength:    data.PeriodLength,
		}
		if err := saveCycleSettings(tx, &settings); err != nil {
			return fmt.Errorf("save cycle settings: %w", err)
		}

		if err := tx.Exec(`DELETE FROM cycle_entries`).Error; err != nil {
			return fmt.Errorf("clear cycle entries: %w", err)
		}
		if len(data.Entries) == 0 {
			return nil
		}

		entries := dedupeEntriesByDate(data.Entries)
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("insert cycle entries: %w", err)
		}
		return nil
	})
}

// UpsertEntry inserts entry or, when its date already exists, overwrites the
// logged fields while keeping the stored ID and CreatedAt.
func (store *Store) UpsertEntry(entry *models.CycleEntry) error {
	return store.database.Transaction(func(tx *gorm.DB) error {
		existing := models.CycleEntry{}
		result := tx.Where("date = ?", entry.Date.String()).Limit(1).Find(&existing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if entry.ID == "" {
				entry.ID = uuid.NewString()
			}
			return tx.Create(entry).Error
		}

		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		return tx.Save(entry).Error
	})
}

// dedupeEntriesByDate keeps the last entry seen for each date and fills in missing IDs.
func dedupeEntriesByDate(input []models.CycleEntry) []models.CycleEntry {
	positions := make(map[caldate.Date]int, len(input))
	entries := make([]models.CycleEntry, 0, len(input))
	for _, entry := range input {
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if position, seen := positions[entry.Date]; seen {
			entries[position] = entry
			continue
		}
		positions[entry.Date] = len(entries)
		entries = append(entries, entry)
	}
	return entries
}

func (store *Store) FindEntryByDate(day caldate.Date) (models.CycleEntry, bool, error) {
	entry := models.CycleEntry{}
	result := store.database.Where("date = ?", day.String()).Limit(1).Find(&entry)
	if result.Error != nil {
		return models.CycleEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CycleEntry{}, false, nil
	}
	return entry, true, nil
}

func (store *Store) ListEntries() ([]models.CycleEntry, error) {
	entries := make([]models.CycleEntry, 0)
	if err := store.database.Order("date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (store *Store) DeleteEntryByDate(day caldate.Date) error {
	return store.database.Where("date = ?", day.String()).Delete(&models.CycleEntry{}).Error
}

// LoadProfile returns the stored profile, or the defaults before the first save.
func (store *Store) LoadProfile() (models.UserProfile, error) {
	profile := models.UserProfile{}
	result := store.database.Where("id = ?", singletonID).Limit(1).Find(&profile)
	if result.Error != nil {
		return models.UserProfile{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DefaultUserProfile(), nil
	}
	return profile, nil
}

func (store *Store) SaveProfile(profile *models.UserProfile) error {
	profile.ID = singletonID
	return store.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error
}

func (store *Store) IsOnboardingComplete() (bool, error) {
	state := models.AppState{}
	result := store.database.Where("id = ?", singletonID).Limit(1).Find(&state)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0 && state.OnboardingComplete, nil
}

func (store *Store) SetOnboardingComplete(complete bool) error {
	state := models.AppState{ID: singletonID, OnboardingComplete: complete}
	return store.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(&state).Error
}

func (store *Store) GetCachedPrediction(ctx context.Context) (models.Prediction, bool, error) {
	prediction := models.Prediction{}
	result := store.database.WithContext(ctx).Where("id = ?", singletonID).Limit(1).Find(&prediction)
	if result.Error != nil {
		return models.Prediction{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Prediction{}, false, nil
	}
	return prediction, true, nil
}

func (store *Store) SetCachedPrediction(ctx context.Context, prediction models.Prediction) error {
	prediction.ID = singletonID
	return store.database.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&prediction).Error
}

func (store *Store) ClearCachedPrediction(ctx context.Context) error {
	return store.database.WithContext(ctx).Exec(`DELETE FROM prediction_cache`).Error
}

// ClearAll empties every data table in one transaction.
func (store *Store) ClearAll() error {
	return store.database.Transaction(func(tx *gorm.DB) error {
		for _, table := range clearedTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
