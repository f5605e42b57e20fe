// Package api exposes the cycle tracker over a JSON HTTP API.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

const (
	defaultUnlockTokenTTL = 15 * time.Minute
	unlockAttemptsLimit   = 5
	unlockAttemptsWindow  = 15 * time.Minute
)

var ErrSecretKeyRequired = errors.New("secret key is required")

type Options struct {
	SecretKey      string
	UnlockTokenTTL time.Duration
	Location       *time.Location
	Now            func() time.Time
	Logger         *zap.Logger
}

type Handler struct {
	deps           Dependencies
	secretKey      []byte
	unlockTokenTTL time.Duration
	location       *time.Location
	now            func() time.Time
	logger         *zap.Logger
	unlockLimiter  *attemptLimiter
	pinSession     fiber.Handler
}

func NewHandler(deps Dependencies, options Options) (*Handler, error) {
	if options.SecretKey == "" {
		return nil, ErrSecretKeyRequired
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if options.UnlockTokenTTL <= 0 {
		options.UnlockTokenTTL = defaultUnlockTokenTTL
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	handler := &Handler{
		deps:           deps,
		secretKey:      []byte(options.SecretKey),
		unlockTokenTTL: options.UnlockTokenTTL,
		location:       options.Location,
		now:            options.Now,
		logger:         options.Logger,
		unlockLimiter:  newAttemptLimiter(unlockAttemptsLimit, unlockAttemptsWindow),
	}
	handler.pinSession = handler.newPinSessionMiddleware()
	return handler, nil
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) today() caldate.Date {
	return caldate.Today(handler.now(), handler.location)
}

// loadContext reads the cycle aggregate and profile most handlers work from.
func (handler *Handler) loadContext() (models.CycleData, models.UserProfile, error) {
	data, err := handler.deps.Cycles.LoadCycleData()
	if err != nil {
		handler.logger.Error("load cycle data failed", zap.Error(err))
		return models.CycleData{}, models.UserProfile{}, services.ErrCycleDataLoadFailed
	}
	profile, err := handler.deps.Profiles.Load()
	if err != nil {
		handler.logger.Error("load profile failed", zap.Error(err))
		return models.CycleData{}, models.UserProfile{}, err
	}
	return data, profile, nil
}
