package services

import (
	"context"
	"sync"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
	"go.uber.org/zap"
)

const PredictionTTL = 6 * time.Hour

type Predictor interface {
	Predict(ctx context.Context, data models.CycleData, profile models.UserProfile) (models.Prediction, error)
}

type PredictionCache interface {
	GetCachedPrediction(ctx context.Context) (models.Prediction, bool, error)
	SetCachedPrediction(ctx context.Context, prediction models.Prediction) error
}

// PredictionState is a snapshot; later changes never reach a caller that already holds one.
type PredictionState struct {
	Prediction *models.Prediction `json:"prediction"`
	Loading    bool               `json:"loading"`
	Error      string             `json:"error,omitempty"`
}

type PredictionController struct {
	predictor Predictor
	cache     PredictionCache
	now       func() time.Time
	logger    *zap.Logger
	ttl       time.Duration

	mu         sync.Mutex
	inFlight   bool
	prediction *models.Prediction
	lastError  string
}

func NewPredictionController(predictor Predictor, cache PredictionCache, now func() time.Time, logger *zap.Logger) *PredictionController {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionController{
		predictor: predictor,
		cache:     cache,
		now:       now,
		logger:    logger,
		ttl:       PredictionTTL,
	}
}

// IsFresh requires both an unexpired TTL and a matching fingerprint.
func IsFresh(cached models.Prediction, data models.CycleData, ttl time.Duration, now time.Time) bool {
	return now.Sub(cached.GeneratedAt) < ttl && cached.DataHash == DataHash(data)
}

// Load serves a fresh cached prediction when one exists and fetches otherwise.
// A call made while another fetch is running returns the current state untouched.
func (controller *PredictionController) Load(ctx context.Context, data models.CycleData, profile models.UserProfile) (PredictionState, error) {
	return controller.run(ctx, data, profile, true)
}

// Refresh always fetches when there is enough data and nothing is in flight.
func (controller *PredictionController) Refresh(ctx context.Context, data models.CycleData, profile models.UserProfile) (PredictionState, error) {
	return controller.run(ctx, data, profile, false)
}

func (controller *PredictionController) State() PredictionState {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	state := PredictionState{
		Loading: controller.inFlight,
		Error:   controller.lastError,
	}
	if controller.prediction != nil {
		prediction := *controller.prediction
		state.Prediction = &prediction
	}
	return state
}

// Reset drops the displayed prediction and error without touching the persisted cache.
func (controller *PredictionController) Reset() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.prediction = nil
	controller.lastError = ""
}

func (controller *PredictionController) run(ctx context.Context, data models.CycleData, profile models.UserProfile, useCache bool) (PredictionState, error) {
	if !controller.acquire() {
		controller.logger.Debug("prediction fetch already in flight, dropping call")
		return controller.State(), nil
	}

	// A started fetch runs to completion even if the requester goes away.
	err := controller.fetch(context.WithoutCancel(ctx), data, profile, useCache)
	return controller.State(), err
}

func (controller *PredictionController) fetch(ctx context.Context, data models.CycleData, profile models.UserProfile, useCache bool) error {
	defer controller.release()

	if !data.HasMinimumData() {
		controller.setPrediction(nil)
		return nil
	}

	if useCache {
		cached, found, err := controller.cache.GetCachedPrediction(ctx)
		switch {
		case err != nil:
			controller.logger.Warn("read cached prediction failed", zap.Error(err))
		case found && IsFresh(cached, data, controller.ttl, controller.now()):
			controller.logger.Debug("serving cached prediction", zap.String("data_hash", cached.DataHash))
			controller.setPrediction(&cached)
			return nil
		}
	}

	controller.setError("")
	prediction, err := controller.predictor.Predict(ctx, data, profile)
	if err != nil {
		controller.logger.Warn("prediction fetch failed", zap.Error(err))
		controller.setError(err.Error())
		return err
	}

	if err := controller.cache.SetCachedPrediction(ctx, prediction); err != nil {
		controller.logger.Warn("persist prediction failed", zap.Error(err))
	}
	controller.setPrediction(&prediction)
	controller.logger.Info("prediction generated",
		zap.Int("confidence", prediction.Confidence),
		zap.String("data_hash", prediction.DataHash),
	)
	return nil
}

func (controller *PredictionController) acquire() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.inFlight {
		return false
	}
	controller.inFlight = true
	return true
}

func (controller *PredictionController) release() {
	controller.mu.Lock()
	controller.inFlight = false
	controller.mu.Unlock()
}

func (controller *PredictionController) setPrediction(prediction *models.Prediction) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.prediction = prediction
}

func (controller *PredictionController) setError(message string) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.lastError = message
}
