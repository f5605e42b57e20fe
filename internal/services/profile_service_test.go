package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

func newProfileServiceFixture(now time.Time) (*ProfileService, *profileRepositoryStub) {
	repo := newProfileRepositoryStub()
	settings := NewSettingsService(repo, func() time.Time { return now }, time.UTC)
	return NewProfileService(repo, repo, settings), repo
}

func TestProfileUpdateMergesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	service, repo := newProfileServiceFixture(time.Now())
	name := "  Ada  "
	shareMoods := true

	profile, err := service.Update(ProfilePatch{Name: &name, ShareMoods: &shareMoods})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if profile.Name != "Ada" || !profile.ShareMoods {
		t.Fatalf("expected patched fields, got %+v", profile)
	}
	if profile.ReminderTime != models.DefaultReminderTime || !profile.NotificationsEnabled || profile.Goal != models.GoalTrack {
		t.Fatalf("expected untouched defaults, got %+v", profile)
	}
	if repo.saves != 1 {
		t.Fatalf("expected one save, got %d", repo.saves)
	}
}

func TestProfileUpdateValidation(t *testing.T) {
	t.Parallel()

	service, repo := newProfileServiceFixture(time.Now())
	longName := strings.Repeat("n", 65)
	badGoal := "lose weight"
	badTime := "25:99"

	if _, err := service.Update(ProfilePatch{Name: &longName}); !errors.Is(err, ErrProfileNameTooLong) {
		t.Fatalf("expected ErrProfileNameTooLong, got %v", err)
	}
	if _, err := service.Update(ProfilePatch{Goal: &badGoal}); !errors.Is(err, ErrProfileGoalInvalid) {
		t.Fatalf("expected ErrProfileGoalInvalid, got %v", err)
	}
	if _, err := service.Update(ProfilePatch{ReminderTime: &badTime}); !errors.Is(err, ErrProfileReminderTimeInvalid) {
		t.Fatalf("expected ErrProfileReminderTimeInvalid, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no saves for invalid patches, got %d", repo.saves)
	}

	lateReminder := "8:30 pm"
	profile, err := service.Update(ProfilePatch{ReminderTime: &lateReminder})
	if err != nil {
		t.Fatalf("expected lowercase meridiem accepted, got %v", err)
	}
	if profile.ReminderTime != "8:30 pm" {
		t.Fatalf("expected reminder time stored as given, got %q", profile.ReminderTime)
	}
}

func TestCompleteOnboardingStoresCycleAnchorAndFlag(t *testing.T) {
	t.Parallel()

	service, repo := newProfileServiceFixture(time.Date(2026, time.February, 15, 9, 0, 0, 0, time.UTC))
	repo.data.Entries = []models.CycleEntry{flowEntry("2026-02-01", models.FlowHeavy)}

	profile, data, err := service.CompleteOnboarding(OnboardingInput{
		Name:            "Mia",
		Goal:            "pregnant",
		LastPeriodStart: "2026-02-01",
		CycleLength:     30,
	})
	if err != nil {
		t.Fatalf("onboarding failed: %v", err)
	}
	if profile.Name != "Mia" || profile.Goal != models.GoalPregnant {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if data.CycleLength != 30 || data.PeriodLength != models.DefaultPeriodLength || data.LastPeriodStart.String() != "2026-02-01" {
		t.Fatalf("unexpected cycle data %+v", data)
	}
	if len(repo.data.Entries) != 1 {
		t.Fatalf("expected existing entries kept, got %d", len(repo.data.Entries))
	}
	complete, err := service.IsOnboardingComplete()
	if err != nil || !complete {
		t.Fatalf("expected onboarding complete, got %v (%v)", complete, err)
	}
}

func TestCompleteOnboardingRequiresValidStartDate(t *testing.T) {
	t.Parallel()

	service, repo := newProfileServiceFixture(time.Date(2026, time.February, 15, 9, 0, 0, 0, time.UTC))

	if _, _, err := service.CompleteOnboarding(OnboardingInput{Name: "Mia"}); !errors.Is(err, ErrOnboardingStartDateRequired) {
		t.Fatalf("expected ErrOnboardingStartDateRequired, got %v", err)
	}
	if _, _, err := service.CompleteOnboarding(OnboardingInput{LastPeriodStart: "2026-03-01"}); !errors.Is(err, ErrSettingsCycleStartDateInvalid) {
		t.Fatalf("expected future start rejected, got %v", err)
	}
	if repo.onboardingComplete {
		t.Fatal("expected onboarding flag untouched after failures")
	}
}
