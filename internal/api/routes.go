package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api", handler.PinLock)

	api.Get("/status", handler.GetStatus)
	api.Get("/stats", handler.GetStats)

	entries := api.Group("/entries")
	entries.Get("", handler.ListEntries)
	entries.Get("/:date", handler.GetEntry)
	entries.Put("/:date", handler.UpsertEntry)
	entries.Delete("/:date", handler.DeleteEntry)

	api.Get("/settings/cycle", handler.GetCycleSettings)
	api.Put("/settings/cycle", handler.UpdateCycleSettings)
	api.Put("/settings/last-period-start", handler.SetLastPeriodStart)

	api.Get("/profile", handler.GetProfile)
	api.Patch("/profile", handler.UpdateProfile)

	api.Get("/onboarding", handler.GetOnboarding)
	api.Post("/onboarding", handler.CompleteOnboarding)

	api.Get("/prediction", handler.GetPrediction)
	api.Post("/prediction/refresh", handler.RefreshPrediction)

	api.Get("/reminders", handler.GetReminders)
	api.Post("/partner/sync", handler.SyncPartner)

	export := api.Group("/export")
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
	export.Get("/xlsx", handler.ExportXLSX)

	pin := api.Group("/pin")
	pin.Post("", handler.SetPin)
	pin.Delete("", handler.DisablePin)
	pin.Post("/unlock", handler.UnlockPin)
	pin.Post("/forget", handler.ForgetPin)

	api.Delete("/data", handler.DeleteAllData)
}
