package api

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/services"
)

func (handler *Handler) GetCycleSettings(c *fiber.Ctx) error {
	settings, err := handler.deps.Settings.Load()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cycleSettingsPayload(settings.CycleLength, settings.PeriodLength, settings.LastPeriodStart))
}

// cycleSettingsRequest keeps lastPeriodStart raw so an omitted key can be told
// apart from an explicit null.
type cycleSettingsRequest struct {
	CycleLength     int             `json:"cycleLength"`
	PeriodLength    int             `json:"periodLength"`
	LastPeriodStart json.RawMessage `json:"lastPeriodStart"`
}

// UpdateCycleSettings keeps the stored anchor when lastPeriodStart is omitted.
// An explicit null or empty string clears it.
func (handler *Handler) UpdateCycleSettings(c *fiber.Ctx) error {
	request := cycleSettingsRequest{}
	if err := json.Unmarshal(c.Body(), &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	input := services.CycleSettingsInput{
		CycleLength:  request.CycleLength,
		PeriodLength: request.PeriodLength,
	}
	switch raw := bytes.TrimSpace(request.LastPeriodStart); {
	case len(raw) == 0:
		current, err := handler.deps.Settings.Load()
		if err != nil {
			return respondServiceError(c, err)
		}
		if current.LastPeriodStart != nil && !current.LastPeriodStart.IsZero() {
			input.LastPeriodStart = current.LastPeriodStart.String()
		}
	case bytes.Equal(raw, []byte("null")):
	default:
		if err := json.Unmarshal(raw, &input.LastPeriodStart); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}

	settings, err := handler.deps.Settings.SaveCycleSettings(input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cycleSettingsPayload(settings.CycleLength, settings.PeriodLength, settings.LastPeriodStart))
}

func (handler *Handler) SetLastPeriodStart(c *fiber.Ctx) error {
	input := struct {
		LastPeriodStart string `json:"lastPeriodStart"`
	}{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	settings, err := handler.deps.Settings.SetLastPeriodStart(input.LastPeriodStart)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cycleSettingsPayload(settings.CycleLength, settings.PeriodLength, settings.LastPeriodStart))
}

func cycleSettingsPayload(cycleLength int, periodLength int, lastPeriodStart *caldate.Date) fiber.Map {
	payload := fiber.Map{
		"cycleLength":     cycleLength,
		"periodLength":    periodLength,
		"lastPeriodStart": nil,
	}
	if lastPeriodStart != nil && !lastPeriodStart.IsZero() {
		payload["lastPeriodStart"] = lastPeriodStart.String()
	}
	return payload
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := handler.deps.Profiles.Load()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	patch := services.ProfilePatch{}
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	profile, err := handler.deps.Profiles.Update(patch)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

func (handler *Handler) GetOnboarding(c *fiber.Ctx) error {
	complete, err := handler.deps.Profiles.IsOnboardingComplete()
	if err != nil {
		return respondServiceError(c, err)
	}
	profile, err := handler.deps.Profiles.Load()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"complete":   complete,
		"pinEnabled": profile.PinEnabled,
	})
}

func (handler *Handler) CompleteOnboarding(c *fiber.Ctx) error {
	input := services.OnboardingInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	profile, data, err := handler.deps.Profiles.CompleteOnboarding(input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"profile":  profile,
		"settings": cycleSettingsPayload(data.CycleLength, data.PeriodLength, data.LastPeriodStart),
	})
}
