package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
)

type statusResponse struct {
	Today           caldate.Date       `json:"today"`
	Status          models.CycleStatus `json:"status"`
	PregnancyChance string             `json:"pregnancyChance"`
	Fertility       string             `json:"fertility"`
	NextPeriodStart caldate.Date       `json:"nextPeriodStart"`
	PregnancyWeek   *int               `json:"pregnancyWeek,omitempty"`
	HasMinimumData  bool               `json:"hasMinimumData"`
}

type statsResponse struct {
	Stats    models.CycleStats           `json:"stats"`
	Symptoms []services.SymptomFrequency `json:"symptoms"`
}

func (handler *Handler) GetStatus(c *fiber.Ctx) error {
	data, profile, err := handler.loadContext()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycle data")
	}

	today := handler.today()
	status := services.ComputeStatus(data, today)
	chance, fertility := services.FertilityOutlook(status)

	response := statusResponse{
		Today:           today,
		Status:          status,
		PregnancyChance: chance,
		Fertility:       fertility,
		NextPeriodStart: services.NextPeriodStart(status, today),
		HasMinimumData:  data.HasMinimumData(),
	}
	if profile.Goal == models.GoalPregnancy {
		week := services.PregnancyWeek(data.LastPeriodStart, today)
		response.PregnancyWeek = &week
	}
	return c.JSON(response)
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	data, err := handler.deps.Cycles.LoadCycleData()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycle data")
	}

	return c.JSON(statsResponse{
		Stats:    services.ComputeStats(data.Entries, data.CycleLength),
		Symptoms: services.SymptomFrequencies(data.Entries),
	})
}
