package models

import (
	"time"

	"github.com/terraincognita07/cyclecast/internal/caldate"
	"gorm.io/datatypes"
)

const (
	MaxEntryNotesLength     = 500
	MinBasalBodyTemperature = 35.0
	MaxBasalBodyTemperature = 42.0
)

type CycleEntry struct {
	ID                   string                       `gorm:"primaryKey" json:"id"`
	Date                 caldate.Date                 `gorm:"type:text;not null;uniqueIndex" json:"date"`
	Flow                 *Flow                        `json:"flow,omitempty"`
	Mood                 *Mood                        `json:"mood,omitempty"`
	Symptoms             datatypes.JSONSlice[Symptom] `json:"symptoms"`
	Notes                string                       `gorm:"not null" json:"notes,omitempty"`
	BasalBodyTemperature *float64                     `json:"basalBodyTemperature,omitempty"`
	WaterIntakeMl        *int                         `json:"waterIntakeMl,omitempty"`
	CreatedAt            time.Time                    `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt            time.Time                    `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (CycleEntry) TableName() string {
	return "cycle_entries"
}

// HasBleeding reports whether the entry counts as a period-start marker candidate.
func (entry CycleEntry) HasBleeding() bool {
	return entry.Flow != nil && entry.Flow.IsBleeding()
}
