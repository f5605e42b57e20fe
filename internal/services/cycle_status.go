package services

import (
	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

// LutealPhaseDays is the fixed span between ovulation and the next period.
const LutealPhaseDays = 14

const (
	fertileDaysBeforeOvulation = 5
	fertileDaysAfterOvulation  = 1
)

// ComputeStatus places today inside the recurring cycle anchored at LastPeriodStart.
// It never validates its input; out-of-range settings degrade instead of failing.
func ComputeStatus(data models.CycleData, today caldate.Date) models.CycleStatus {
	if data.LastPeriodStart == nil || data.LastPeriodStart.IsZero() {
		return models.CycleStatus{
			CurrentDay: 1,
			Phase:      models.PhasePeriod,
		}
	}

	cycleLength := data.CycleLength
	if cycleLength <= 0 {
		cycleLength = models.DefaultCycleLength
	}

	elapsed := today.DaysSince(*data.LastPeriodStart)
	if elapsed < 0 {
		elapsed = 0
	}

	currentDay := elapsed%cycleLength + 1
	daysUntilPeriod := cycleLength - currentDay + 1
	if daysUntilPeriod < 0 {
		daysUntilPeriod = 0
	}

	ovulationDay, fertileStart, fertileEnd := FertileWindowDays(cycleLength)
	inFertileWindow := currentDay >= fertileStart && currentDay <= fertileEnd

	phase := models.PhaseLuteal
	switch {
	case currentDay <= data.PeriodLength:
		phase = models.PhasePeriod
	case currentDay < fertileStart:
		phase = models.PhaseFollicular
	case inFertileWindow:
		phase = models.PhaseOvulation
	}

	return models.CycleStatus{
		CurrentDay:      currentDay,
		Phase:           phase,
		DaysUntilPeriod: daysUntilPeriod,
		FertileWindow:   inFertileWindow,
		OvulationDay:    currentDay == ovulationDay,
	}
}

// FertileWindowDays returns 1-indexed cycle days for ovulation and the fertile window bounds.
// Values can be zero or negative for cycles shorter than the luteal span.
func FertileWindowDays(cycleLength int) (ovulationDay int, fertileStart int, fertileEnd int) {
	ovulationDay = cycleLength - LutealPhaseDays
	return ovulationDay, ovulationDay - fertileDaysBeforeOvulation, ovulationDay + fertileDaysAfterOvulation
}

func FertilityOutlook(status models.CycleStatus) (pregnancyChance string, fertility string) {
	switch {
	case status.OvulationDay:
		return "High", "Peak"
	case status.FertileWindow:
		return "Medium", "High"
	case status.Phase == models.PhasePeriod:
		return "Very Low", "Low"
	default:
		return "Low", "Increasing"
	}
}

// PregnancyWeek counts completed weeks since the last menstrual period.
func PregnancyWeek(lastPeriodStart *caldate.Date, today caldate.Date) int {
	if lastPeriodStart == nil || lastPeriodStart.IsZero() {
		return 0
	}
	days := today.DaysSince(*lastPeriodStart)
	if days < 0 {
		return 0
	}
	return days / 7
}

// NextPeriodStart projects the upcoming period start from the current status.
func NextPeriodStart(status models.CycleStatus, today caldate.Date) caldate.Date {
	return today.AddDays(status.DaysUntilPeriod)
}
