package models

import (
	"time"

	"github.com/terraincognita07/cyclecast/internal/caldate"
)

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
	MinCycleLength      = 15
	MaxCycleLength      = 60
	MinPeriodLength     = 1
)

// CycleSettings is the single persisted row holding the cycle configuration.
type CycleSettings struct {
	ID              uint          `gorm:"primaryKey"`
	LastPeriodStart *caldate.Date `gorm:"type:text"`
	CycleLength     int           `gorm:"not null"`
	PeriodLength    int           `gorm:"not null"`
	UpdatedAt       time.Time
}

func (CycleSettings) TableName() string {
	return "cycle_settings"
}

// CycleData is the aggregate the calculators work on. Entries carry no ordering guarantee.
type CycleData struct {
	LastPeriodStart *caldate.Date `json:"lastPeriodStart"`
	CycleLength     int           `json:"cycleLength"`
	PeriodLength    int           `json:"periodLength"`
	Entries         []CycleEntry  `json:"entries"`
}

func DefaultCycleData() CycleData {
	return CycleData{
		CycleLength:  DefaultCycleLength,
		PeriodLength: DefaultPeriodLength,
		Entries:      []CycleEntry{},
	}
}

func (data CycleData) HasMinimumData() bool {
	return data.LastPeriodStart != nil && !data.LastPeriodStart.IsZero() && len(data.Entries) > 0
}

type CycleStatus struct {
	CurrentDay      int   `json:"currentDay"`
	Phase           Phase `json:"phase"`
	DaysUntilPeriod int   `json:"daysUntilPeriod"`
	FertileWindow   bool  `json:"fertileWindow"`
	OvulationDay    bool  `json:"ovulationDay"`
}

type CycleStats struct {
	AvgLength     int `json:"avgLength"`
	ShortestCycle int `json:"shortestCycle"`
	LongestCycle  int `json:"longestCycle"`
	TotalEntries  int `json:"totalEntries"`
}
