package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	summary, err := handler.deps.Exports.BuildSummary()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	now := handler.now().In(handler.location)

	var output bytes.Buffer
	if err := handler.deps.Exports.WriteCSV(&output); err != nil {
		handler.logger.Error("csv export failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	entries, err := handler.deps.Exports.BuildJSONEntries()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}
	now := handler.now().In(handler.location)

	payload := fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}

	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportXLSX(c *fiber.Ctx) error {
	workbook, err := handler.deps.Exports.BuildXLSX()
	if err != nil {
		handler.logger.Error("xlsx export failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, xlsxContentType, buildExportFilename(handler.now().In(handler.location), "xlsx"))
	return c.Send(workbook)
}
