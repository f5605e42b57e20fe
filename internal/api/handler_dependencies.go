package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

// Dependencies are the services the handlers call. All fields except Partner are required.
type Dependencies struct {
	Cycles     services.CycleDataRepository
	Entries    *services.EntryService
	Settings   *services.SettingsService
	Profiles   *services.ProfileService
	Pins       *services.PinService
	Data       *services.DataService
	Reminders  *services.ReminderService
	Partner    *services.PartnerShareService
	Exports    *services.ExportService
	Prediction *services.PredictionController
}

func (deps Dependencies) validate() error {
	missing := make([]string, 0)
	if deps.Cycles == nil {
		missing = append(missing, "cycles")
	}
	if deps.Entries == nil {
		missing = append(missing, "entries")
	}
	if deps.Settings == nil {
		missing = append(missing, "settings")
	}
	if deps.Profiles == nil {
		missing = append(missing, "profiles")
	}
	if deps.Pins == nil {
		missing = append(missing, "pins")
	}
	if deps.Data == nil {
		missing = append(missing, "data")
	}
	if deps.Reminders == nil {
		missing = append(missing, "reminders")
	}
	if deps.Exports == nil {
		missing = append(missing, "exports")
	}
	if deps.Prediction == nil {
		missing = append(missing, "prediction")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", errMissingDependency, missing)
	}
	return nil
}

var errMissingDependency = errors.New("missing handler dependency")

// Wiring collects the storage and outbound adapters the services are built on.
type Wiring struct {
	Store              *db.Store
	Vault              services.PinVault
	Predictor          services.Predictor
	PredictionCache    services.PredictionCache
	SharedCache        services.SharedCacheClearer
	Publisher          services.PartnerPublisher
	PeriodReminderDays int
	Location           *time.Location
	Now                func() time.Time
	Logger             *zap.Logger
}

// NewDependencies builds every service on top of wiring. PredictionCache
// defaults to the store.
func NewDependencies(wiring Wiring) Dependencies {
	cache := wiring.PredictionCache
	if cache == nil {
		cache = wiring.Store
	}

	settings := services.NewSettingsService(wiring.Store, wiring.Now, wiring.Location)
	prediction := services.NewPredictionController(wiring.Predictor, cache, wiring.Now, wiring.Logger)
	data := services.NewDataService(wiring.Store, wiring.Vault, prediction, wiring.Logger)
	if wiring.SharedCache != nil {
		data.WithSharedCache(wiring.SharedCache)
	}

	return Dependencies{
		Cycles:     wiring.Store,
		Entries:    services.NewEntryService(wiring.Store, wiring.Now),
		Settings:   settings,
		Profiles:   services.NewProfileService(wiring.Store, wiring.Store, settings),
		Pins:       services.NewPinService(wiring.Vault, wiring.Store),
		Data:       data,
		Reminders:  services.NewReminderService(wiring.PeriodReminderDays, wiring.Location),
		Partner:    services.NewPartnerShareService(wiring.Publisher, wiring.Now, wiring.Location),
		Exports:    services.NewExportService(wiring.Store),
		Prediction: prediction,
	}
}
