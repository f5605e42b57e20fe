package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

const partnerMoodLookbackDays = 7

var (
	ErrPartnerSyncDisabled    = errors.New("partner sync disabled")
	ErrPartnerSyncUnavailable = errors.New("partner sync not configured")
	ErrPartnerPublishFailed   = errors.New("partner publish failed")
)

type PartnerPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot PartnerSnapshot) error
}

type PartnerMood struct {
	Date caldate.Date `json:"date"`
	Mood models.Mood  `json:"mood"`
}

// PartnerSnapshot holds only what the owner agreed to share. Absent fields were not shared.
type PartnerSnapshot struct {
	Name            string        `json:"name,omitempty"`
	Date            caldate.Date  `json:"date"`
	Phase           *models.Phase `json:"phase,omitempty"`
	CurrentDay      *int          `json:"currentDay,omitempty"`
	DaysUntilPeriod *int          `json:"daysUntilPeriod,omitempty"`
	FertileWindow   *bool         `json:"fertileWindow,omitempty"`
	OvulationDay    *bool         `json:"ovulationDay,omitempty"`
	RecentMoods     []PartnerMood `json:"recentMoods,omitempty"`
	GeneratedAt     time.Time     `json:"generatedAt"`
}

type PartnerShareService struct {
	publisher PartnerPublisher
	now       func() time.Time
	location  *time.Location
}

func NewPartnerShareService(publisher PartnerPublisher, now func() time.Time, location *time.Location) *PartnerShareService {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &PartnerShareService{
		publisher: publisher,
		now:       now,
		location:  location,
	}
}

func BuildPartnerSnapshot(profile models.UserProfile, data models.CycleData, now time.Time, location *time.Location) PartnerSnapshot {
	today := caldate.FromTime(now, location)
	status := ComputeStatus(data, today)

	snapshot := PartnerSnapshot{
		Name:        profile.Name,
		Date:        today,
		GeneratedAt: now.UTC(),
	}
	if profile.SharePeriodStatus {
		phase := status.Phase
		currentDay := status.CurrentDay
		daysUntilPeriod := status.DaysUntilPeriod
		snapshot.Phase = &phase
		snapshot.CurrentDay = &currentDay
		snapshot.DaysUntilPeriod = &daysUntilPeriod
	}
	if profile.ShareFertileWindow {
		fertileWindow := status.FertileWindow
		ovulationDay := status.OvulationDay
		snapshot.FertileWindow = &fertileWindow
		snapshot.OvulationDay = &ovulationDay
	}
	if profile.ShareMoods {
		snapshot.RecentMoods = recentPartnerMoods(data.Entries, today)
	}
	return snapshot
}

// recentPartnerMoods copies only date and mood, so notes, symptoms and
// measurements never reach the snapshot.
func recentPartnerMoods(entries []models.CycleEntry, today caldate.Date) []PartnerMood {
	moods := make([]PartnerMood, 0)
	oldest := today.AddDays(-partnerMoodLookbackDays + 1)
	for _, entry := range entries {
		if entry.Date.Before(oldest) || entry.Date.After(today) {
			continue
		}
		if entry.Mood == nil {
			continue
		}
		moods = append(moods, PartnerMood{Date: entry.Date, Mood: *entry.Mood})
	}
	sortPartnerMoodsNewestFirst(moods)
	return moods
}

func sortPartnerMoodsNewestFirst(moods []PartnerMood) {
	sort.Slice(moods, func(i, j int) bool {
		return moods[i].Date.After(moods[j].Date)
	})
}

func (service *PartnerShareService) Sync(ctx context.Context, profile models.UserProfile, data models.CycleData) (PartnerSnapshot, error) {
	if !profile.PartnerSyncEnabled {
		return PartnerSnapshot{}, ErrPartnerSyncDisabled
	}
	if service.publisher == nil {
		return PartnerSnapshot{}, ErrPartnerSyncUnavailable
	}

	snapshot := BuildPartnerSnapshot(profile, data, service.now(), service.location)
	if err := service.publisher.PublishSnapshot(ctx, snapshot); err != nil {
		return PartnerSnapshot{}, ErrPartnerPublishFailed
	}
	return snapshot, nil
}
