package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

// GetPrediction answers with the controller state. Fetch failures are part of
// that state, so the status stays 200 unless the local data could not be read.
func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	return handler.respondPrediction(c, handler.deps.Prediction.Load)
}

func (handler *Handler) RefreshPrediction(c *fiber.Ctx) error {
	return handler.respondPrediction(c, handler.deps.Prediction.Refresh)
}

type predictionRun func(ctx context.Context, data models.CycleData, profile models.UserProfile) (services.PredictionState, error)

func (handler *Handler) respondPrediction(c *fiber.Ctx, run predictionRun) error {
	data, profile, err := handler.loadContext()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycle data")
	}

	state, err := run(c.UserContext(), data, profile)
	if err != nil {
		handler.logger.Warn("prediction unavailable", zap.Error(err))
	}
	return c.JSON(state)
}

func (handler *Handler) GetReminders(c *fiber.Ctx) error {
	data, profile, err := handler.loadContext()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycle data")
	}

	reminders := handler.deps.Reminders.DueReminders(profile, data, handler.now())
	if reminders == nil {
		reminders = []services.Reminder{}
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

func (handler *Handler) SyncPartner(c *fiber.Ctx) error {
	if handler.deps.Partner == nil {
		return respondServiceError(c, services.ErrPartnerSyncUnavailable)
	}

	data, profile, err := handler.loadContext()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycle data")
	}

	snapshot, err := handler.deps.Partner.Sync(c.UserContext(), profile, data)
	if err != nil {
		if serviceErrorStatus(err) >= fiber.StatusInternalServerError {
			handler.logger.Warn("partner sync failed", zap.Error(err))
		}
		return respondServiceError(c, err)
	}
	return c.JSON(snapshot)
}
