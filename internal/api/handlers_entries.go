package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	entries, err := handler.deps.Entries.List()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (handler *Handler) GetEntry(c *fiber.Ctx) error {
	day, err := parseDateParam(c, "date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.deps.Entries.Get(day)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) UpsertEntry(c *fiber.Ctx) error {
	day, err := parseDateParam(c, "date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	input := services.EntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.deps.Entries.Upsert(day, input)
	if err != nil {
		if serviceErrorStatus(err) == fiber.StatusInternalServerError {
			handler.logger.Error("upsert entry failed", zap.String("date", day.String()), zap.Error(err))
		}
		return respondServiceError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	day, err := parseDateParam(c, "date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	if err := handler.deps.Entries.Delete(day); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
