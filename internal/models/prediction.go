package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MaxPredictionInsights = 5
	MaxPredictionTips     = 4
)

type Prediction struct {
	ID                   uint                        `gorm:"primaryKey" json:"-"`
	NextPeriodDate       string                      `gorm:"not null" json:"nextPeriodDate"`
	PredictedCycleLength int                         `gorm:"not null" json:"predictedCycleLength"`
	FertileWindowStart   string                      `gorm:"not null" json:"fertileWindowStart"`
	FertileWindowEnd     string                      `gorm:"not null" json:"fertileWindowEnd"`
	Insights             datatypes.JSONSlice[string] `json:"insights"`
	Tips                 datatypes.JSONSlice[string] `json:"tips"`
	Confidence           int                         `gorm:"not null" json:"confidence"`
	GeneratedAt          time.Time                   `gorm:"autoCreateTime:false" json:"generatedAt"`
	DataHash             string                      `gorm:"not null" json:"dataHash"`
}

func (Prediction) TableName() string {
	return "prediction_cache"
}
