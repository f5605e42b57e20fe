package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func parseDateParam(c *fiber.Ctx, name string) (caldate.Date, error) {
	return caldate.Parse(strings.TrimSpace(c.Params(name)))
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("cyclecast-export-%s.%s", now.Format("2006-01-02"), extension)
}

var badRequestErrors = []error{
	services.ErrInvalidFlow,
	services.ErrInvalidMood,
	services.ErrInvalidSymptom,
	services.ErrNotesTooLong,
	services.ErrBasalTemperatureOutOfRange,
	services.ErrNegativeWaterIntake,
	services.ErrEntryDateInvalid,
	services.ErrSettingsCycleLengthOutOfRange,
	services.ErrSettingsPeriodLengthOutOfRange,
	services.ErrSettingsCycleStartDateInvalid,
	services.ErrProfileNameTooLong,
	services.ErrProfileGoalInvalid,
	services.ErrProfileReminderTimeInvalid,
	services.ErrOnboardingStartDateRequired,
	services.ErrPinFormatInvalid,
}

// serviceErrorStatus maps service sentinels to HTTP status codes. Anything
// unknown is a server-side failure.
func serviceErrorStatus(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return fiber.StatusBadRequest
		}
	}
	switch {
	case errors.Is(err, services.ErrEntryNotFound), errors.Is(err, services.ErrPinNotSet):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrPinMismatch):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrPartnerSyncDisabled):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrPartnerSyncUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrPartnerPublishFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondServiceError(c *fiber.Ctx, err error) error {
	return apiError(c, serviceErrorStatus(err), err.Error())
}
