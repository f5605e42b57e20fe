package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

func reminderKinds(reminders []Reminder) map[ReminderKind]Reminder {
	kinds := make(map[ReminderKind]Reminder, len(reminders))
	for _, reminder := range reminders {
		kinds[reminder.Kind] = reminder
	}
	return kinds
}

func TestDueRemindersDailyLogRespectsReminderTime(t *testing.T) {
	t.Parallel()

	service := NewReminderService(DefaultPeriodReminderDays, time.UTC)
	profile := models.DefaultUserProfile()
	data := models.DefaultCycleData()

	early := time.Date(2026, time.February, 15, 8, 59, 0, 0, time.UTC)
	if _, ok := reminderKinds(service.DueReminders(profile, data, early))[ReminderDailyLog]; ok {
		t.Fatal("expected no daily reminder before 9:00 AM")
	}

	onTime := time.Date(2026, time.February, 15, 9, 0, 0, 0, time.UTC)
	if _, ok := reminderKinds(service.DueReminders(profile, data, onTime))[ReminderDailyLog]; !ok {
		t.Fatal("expected daily reminder at 9:00 AM")
	}

	data.Entries = []models.CycleEntry{flowEntry("2026-02-15", models.FlowNone)}
	if _, ok := reminderKinds(service.DueReminders(profile, data, onTime))[ReminderDailyLog]; ok {
		t.Fatal("expected no daily reminder once today is logged")
	}
}

func TestDueRemindersPeriodAndFertileWindow(t *testing.T) {
	t.Parallel()

	service := NewReminderService(2, time.UTC)
	profile := models.DefaultUserProfile()
	profile.ReminderTime = "11:59 PM"
	data := cycleDataFrom("2026-01-01", 28, 5)

	// Day 27 of 28: period in two days.
	periodDay := time.Date(2026, time.January, 27, 10, 0, 0, 0, time.UTC)
	kinds := reminderKinds(service.DueReminders(profile, data, periodDay))
	period, ok := kinds[ReminderPeriod]
	if !ok {
		t.Fatal("expected period reminder two days ahead")
	}
	if period.Date.String() != "2026-01-29" {
		t.Fatalf("expected next period 2026-01-29, got %s", period.Date)
	}

	// Day 9: fertile window opens.
	fertileDay := time.Date(2026, time.January, 9, 10, 0, 0, 0, time.UTC)
	if _, ok := reminderKinds(service.DueReminders(profile, data, fertileDay))[ReminderFertileWindow]; ok {
		t.Fatal("expected no fertile reminder for tracking goal")
	}
	profile.Goal = models.GoalPregnant
	if _, ok := reminderKinds(service.DueReminders(profile, data, fertileDay))[ReminderFertileWindow]; !ok {
		t.Fatal("expected fertile reminder when trying to conceive")
	}
}

func TestDueRemindersDisabledNotifications(t *testing.T) {
	t.Parallel()

	service := NewReminderService(2, time.UTC)
	profile := models.DefaultUserProfile()
	profile.NotificationsEnabled = false
	data := cycleDataFrom("2026-01-01", 28, 5)

	if reminders := service.DueReminders(profile, data, time.Date(2026, time.January, 27, 22, 0, 0, 0, time.UTC)); len(reminders) != 0 {
		t.Fatalf("expected no reminders, got %+v", reminders)
	}
}
