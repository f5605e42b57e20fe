package api

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

type pinInput struct {
	Pin string `json:"pin"`
}

func (handler *Handler) SetPin(c *fiber.Ctx) error {
	input := pinInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.deps.Pins.SetPin(input.Pin); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "pinEnabled": true})
}

func (handler *Handler) DisablePin(c *fiber.Ctx) error {
	if err := handler.deps.Pins.ForgetPin(); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "pinEnabled": false})
}

// UnlockPin trades the PIN for a short-lived session token. Failures count
// against the client address.
func (handler *Handler) UnlockPin(c *fiber.Ctx) error {
	now := handler.now()
	key := requestLimiterKey(c)
	if blocked, retryAfter := handler.unlockLimiter.blocked(key, now); blocked {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		return apiError(c, fiber.StatusTooManyRequests, "too many unlock attempts")
	}

	input := pinInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.deps.Pins.VerifyPin(input.Pin); err != nil {
		if errors.Is(err, services.ErrPinMismatch) {
			handler.unlockLimiter.recordFailure(key, now)
			handler.logger.Warn("pin unlock rejected", zap.String("ip", key))
		}
		return respondServiceError(c, err)
	}
	handler.unlockLimiter.reset(key)

	// Token expiry is checked against the wall clock by the session middleware.
	token, expiresAt, err := handler.buildUnlockToken(time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{
		"token":     token,
		"expiresAt": expiresAt.UTC(),
	})
}

// ForgetPin needs an unlock session like every other route. It removes the PIN
// only; entries stay. A locked-out user recovers with the reset-pin command.
func (handler *Handler) ForgetPin(c *fiber.Ctx) error {
	if err := handler.deps.Pins.ForgetPin(); err != nil {
		return respondServiceError(c, err)
	}
	handler.logger.Info("pin forgotten, lock disabled")
	return c.JSON(fiber.Map{"ok": true, "pinEnabled": false})
}

func (handler *Handler) DeleteAllData(c *fiber.Ctx) error {
	if err := handler.deps.Data.DeleteAllData(c.UserContext()); err != nil {
		handler.logger.Error("delete all data failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to delete data")
	}
	return c.JSON(fiber.Map{"ok": true})
}
