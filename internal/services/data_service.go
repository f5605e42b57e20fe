package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var ErrDeleteAllDataFailed = errors.New("delete all data failed")

type DataWiper interface {
	ClearAll() error
}

type PinWiper interface {
	Clear() error
}

type PredictionResetter interface {
	Reset()
}

// SharedCacheClearer is a prediction cache that lives outside the store, such as Redis.
type SharedCacheClearer interface {
	ClearCachedPrediction(ctx context.Context) error
}

type DataService struct {
	store      DataWiper
	vault      PinWiper
	prediction PredictionResetter
	shared     SharedCacheClearer
	logger     *zap.Logger
}

func NewDataService(store DataWiper, vault PinWiper, prediction PredictionResetter, logger *zap.Logger) *DataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataService{
		store:      store,
		vault:      vault,
		prediction: prediction,
		logger:     logger,
	}
}

func (service *DataService) WithSharedCache(shared SharedCacheClearer) *DataService {
	service.shared = shared
	return service
}

// DeleteAllData wipes entries, settings, profile, onboarding, cached prediction and the PIN.
// There is no undo.
func (service *DataService) DeleteAllData(ctx context.Context) error {
	if err := service.store.ClearAll(); err != nil {
		service.logger.Error("clear store failed", zap.Error(err))
		return ErrDeleteAllDataFailed
	}
	if err := service.vault.Clear(); err != nil {
		service.logger.Error("clear pin vault failed", zap.Error(err))
		return ErrDeleteAllDataFailed
	}
	if service.shared != nil {
		if err := service.shared.ClearCachedPrediction(ctx); err != nil {
			service.logger.Error("clear shared prediction cache failed", zap.Error(err))
			return ErrDeleteAllDataFailed
		}
	}
	if service.prediction != nil {
		service.prediction.Reset()
	}
	service.logger.Warn("all user data deleted")
	return nil
}
