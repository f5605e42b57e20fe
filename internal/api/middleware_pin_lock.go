package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	pinUnlockPurpose = "pin_unlock"
	pinSessionLocal  = "pin_session"
)

type pinUnlockClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

var errPinSessionPurpose = errors.New("token is not a pin unlock session")

// pinLockExempt lists routes reachable while the app is locked.
var pinLockExempt = map[string]struct{}{
	fiber.MethodGet + " /api/onboarding":  {},
	fiber.MethodPost + " /api/pin/unlock": {},
}

// lockRouteKey matches how the router resolves paths: a trailing slash
// reaches the same handler, so it must hit the same exemption entry.
func lockRouteKey(method, path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return method + " " + path
}

// PinLock requires an unlock session token on /api routes while the PIN lock is on.
func (handler *Handler) PinLock(c *fiber.Ctx) error {
	if _, exempt := pinLockExempt[lockRouteKey(c.Method(), c.Path())]; exempt {
		return c.Next()
	}

	profile, err := handler.deps.Profiles.Load()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	if !profile.PinEnabled {
		return c.Next()
	}
	return handler.pinSession(c)
}

func (handler *Handler) newPinSessionMiddleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: handler.secretKey},
		ContextKey: pinSessionLocal,
		Claims:     &pinUnlockClaims{},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(pinSessionLocal).(*jwt.Token)
			if !ok {
				return apiError(c, fiber.StatusUnauthorized, "pin unlock required")
			}
			claims, ok := token.Claims.(*pinUnlockClaims)
			if !ok || claims.Purpose != pinUnlockPurpose {
				handler.logger.Warn("rejected pin session", zap.Error(errPinSessionPurpose))
				return apiError(c, fiber.StatusUnauthorized, "pin unlock required")
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apiError(c, fiber.StatusUnauthorized, "pin unlock required")
		},
	})
}

func (handler *Handler) buildUnlockToken(now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(handler.unlockTokenTTL)
	claims := pinUnlockClaims{
		Purpose: pinUnlockPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(1),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(handler.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
