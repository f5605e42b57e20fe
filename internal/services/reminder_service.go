package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

const DefaultPeriodReminderDays = 2

type ReminderKind string

const (
	ReminderDailyLog      ReminderKind = "daily_log"
	ReminderPeriod        ReminderKind = "period"
	ReminderFertileWindow ReminderKind = "fertile_window"
)

type Reminder struct {
	Kind    ReminderKind `json:"kind"`
	Message string       `json:"message"`
	Date    caldate.Date `json:"date"`
}

type ReminderService struct {
	periodReminderDays int
	location           *time.Location
}

func NewReminderService(periodReminderDays int, location *time.Location) *ReminderService {
	if periodReminderDays < 0 {
		periodReminderDays = DefaultPeriodReminderDays
	}
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{
		periodReminderDays: periodReminderDays,
		location:           location,
	}
}

// DueReminders lists what the user should be nudged about at now. It is evaluated
// on request; nothing is scheduled or sent.
func (service *ReminderService) DueReminders(profile models.UserProfile, data models.CycleData, now time.Time) []Reminder {
	reminders := make([]Reminder, 0, 3)
	if !profile.NotificationsEnabled {
		return reminders
	}

	localNow := now.In(service.location)
	today := caldate.FromTime(localNow, service.location)

	if service.dailyLogDue(profile, data, localNow, today) {
		reminders = append(reminders, Reminder{
			Kind:    ReminderDailyLog,
			Message: "Take a moment to log how you feel today.",
			Date:    today,
		})
	}

	if data.LastPeriodStart == nil || data.LastPeriodStart.IsZero() {
		return reminders
	}

	status := ComputeStatus(data, today)
	if status.DaysUntilPeriod == service.periodReminderDays {
		nextPeriod := NextPeriodStart(status, today)
		reminders = append(reminders, Reminder{
			Kind: ReminderPeriod,
			Message: fmt.Sprintf("Your predicted period starts in %d day(s) on %s.",
				service.periodReminderDays,
				nextPeriod.Time(time.UTC).Format("Jan 2"),
			),
			Date: nextPeriod,
		})
	}

	_, fertileStart, _ := FertileWindowDays(data.CycleLength)
	if profile.Goal == models.GoalPregnant && status.CurrentDay == fertileStart {
		reminders = append(reminders, Reminder{
			Kind: ReminderFertileWindow,
			Message: fmt.Sprintf("Your fertile window starts today (%s).",
				today.Time(time.UTC).Format("Jan 2"),
			),
			Date: today,
		})
	}

	return reminders
}

func (service *ReminderService) dailyLogDue(profile models.UserProfile, data models.CycleData, localNow time.Time, today caldate.Date) bool {
	for _, entry := range data.Entries {
		if entry.Date.Equal(today) {
			return false
		}
	}

	reminderTime := profile.ReminderTime
	if reminderTime == "" {
		reminderTime = models.DefaultReminderTime
	}
	clock, err := ParseReminderTime(reminderTime)
	if err != nil {
		return false
	}

	minutesNow := localNow.Hour()*60 + localNow.Minute()
	return minutesNow >= clock.Hour()*60+clock.Minute()
}
