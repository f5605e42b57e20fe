package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/cyclecast/internal/models"
)

const maxProfileNameLength = 64

var (
	ErrProfileNameTooLong          = errors.New("profile name too long")
	ErrProfileGoalInvalid          = errors.New("profile goal invalid")
	ErrProfileReminderTimeInvalid  = errors.New("profile reminder time invalid")
	ErrOnboardingStartDateRequired = errors.New("onboarding start date is required")
)

const reminderTimeLayout = "3:04 PM"

type ProfileRepository interface {
	LoadProfile() (models.UserProfile, error)
	SaveProfile(profile *models.UserProfile) error
	IsOnboardingComplete() (bool, error)
	SetOnboardingComplete(complete bool) error
}

type CycleDataRepository interface {
	LoadCycleData() (models.CycleData, error)
	SaveCycleData(data models.CycleData) error
}

// ProfilePatch carries only the fields a client sent; nil leaves the stored value alone.
type ProfilePatch struct {
	Name                 *string `json:"name"`
	Goal                 *string `json:"goal"`
	BiometricEnabled     *bool   `json:"biometricEnabled"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
	ReminderTime         *string `json:"reminderTime"`
	PartnerSyncEnabled   *bool   `json:"partnerSyncEnabled"`
	SharePeriodStatus    *bool   `json:"sharePeriodStatus"`
	ShareFertileWindow   *bool   `json:"shareFertileWindow"`
	ShareMoods           *bool   `json:"shareMoods"`
}

type OnboardingInput struct {
	Name            string `json:"name"`
	Goal            string `json:"goal"`
	LastPeriodStart string `json:"lastPeriodStart"`
	CycleLength     int    `json:"cycleLength"`
	PeriodLength    int    `json:"periodLength"`
}

type ProfileService struct {
	profiles ProfileRepository
	cycles   CycleDataRepository
	settings *SettingsService
}

func NewProfileService(profiles ProfileRepository, cycles CycleDataRepository, settings *SettingsService) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		cycles:   cycles,
		settings: settings,
	}
}

func (service *ProfileService) Load() (models.UserProfile, error) {
	profile, err := service.profiles.LoadProfile()
	if err != nil {
		return models.UserProfile{}, ErrProfileLoadFailed
	}
	return profile, nil
}

func (service *ProfileService) Update(patch ProfilePatch) (models.UserProfile, error) {
	profile, err := service.Load()
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := ApplyProfilePatch(&profile, patch); err != nil {
		return models.UserProfile{}, err
	}
	if err := service.profiles.SaveProfile(&profile); err != nil {
		return models.UserProfile{}, ErrProfileSaveFailed
	}
	return profile, nil
}

func ApplyProfilePatch(profile *models.UserProfile, patch ProfilePatch) error {
	if patch.Name != nil {
		name, err := NormalizeProfileName(*patch.Name)
		if err != nil {
			return err
		}
		profile.Name = name
	}
	if patch.Goal != nil {
		goal, err := ParseGoal(*patch.Goal)
		if err != nil {
			return err
		}
		profile.Goal = goal
	}
	if patch.ReminderTime != nil {
		reminderTime := strings.TrimSpace(*patch.ReminderTime)
		if _, err := ParseReminderTime(reminderTime); err != nil {
			return err
		}
		profile.ReminderTime = reminderTime
	}
	if patch.BiometricEnabled != nil {
		profile.BiometricEnabled = *patch.BiometricEnabled
	}
	if patch.NotificationsEnabled != nil {
		profile.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.PartnerSyncEnabled != nil {
		profile.PartnerSyncEnabled = *patch.PartnerSyncEnabled
	}
	if patch.SharePeriodStatus != nil {
		profile.SharePeriodStatus = *patch.SharePeriodStatus
	}
	if patch.ShareFertileWindow != nil {
		profile.ShareFertileWindow = *patch.ShareFertileWindow
	}
	if patch.ShareMoods != nil {
		profile.ShareMoods = *patch.ShareMoods
	}
	return nil
}

func NormalizeProfileName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > maxProfileNameLength {
		return "", ErrProfileNameTooLong
	}
	return name, nil
}

func ParseGoal(raw string) (models.Goal, error) {
	goal := models.Goal(strings.ToLower(strings.TrimSpace(raw)))
	if !goal.IsValid() {
		return "", ErrProfileGoalInvalid
	}
	return goal, nil
}

// ParseReminderTime accepts the 12-hour clock format shown in the app, e.g. "9:00 AM".
func ParseReminderTime(raw string) (time.Time, error) {
	parsed, err := time.Parse(reminderTimeLayout, strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return time.Time{}, ErrProfileReminderTimeInvalid
	}
	return parsed, nil
}

func (service *ProfileService) IsOnboardingComplete() (bool, error) {
	complete, err := service.profiles.IsOnboardingComplete()
	if err != nil {
		return false, ErrOnboardingLoadFailed
	}
	return complete, nil
}

// CompleteOnboarding stores the first cycle anchor and profile basics, then flips the onboarding flag.
func (service *ProfileService) CompleteOnboarding(input OnboardingInput) (models.UserProfile, models.CycleData, error) {
	if strings.TrimSpace(input.LastPeriodStart) == "" {
		return models.UserProfile{}, models.CycleData{}, ErrOnboardingStartDateRequired
	}
	cycleLength, periodLength := ResolveCycleAndPeriodDefaults(input.CycleLength, input.PeriodLength)
	update, err := ValidateCycleSettings(CycleSettingsInput{
		CycleLength:     cycleLength,
		PeriodLength:    periodLength,
		LastPeriodStart: input.LastPeriodStart,
	}, service.settings.Today())
	if err != nil {
		return models.UserProfile{}, models.CycleData{}, err
	}

	profile, err := service.Load()
	if err != nil {
		return models.UserProfile{}, models.CycleData{}, err
	}
	name, err := NormalizeProfileName(input.Name)
	if err != nil {
		return models.UserProfile{}, models.CycleData{}, err
	}
	profile.Name = name
	if strings.TrimSpace(input.Goal) != "" {
		goal, err := ParseGoal(input.Goal)
		if err != nil {
			return models.UserProfile{}, models.CycleData{}, err
		}
		profile.Goal = goal
	}

	data, err := service.cycles.LoadCycleData()
	if err != nil {
		return models.UserProfile{}, models.CycleData{}, ErrCycleDataLoadFailed
	}
	data.LastPeriodStart = update.LastPeriodStart
	data.CycleLength = update.CycleLength
	data.PeriodLength = update.PeriodLength

	if err := service.cycles.SaveCycleData(data); err != nil {
		return models.UserProfile{}, models.CycleData{}, ErrCycleDataSaveFailed
	}
	if err := service.profiles.SaveProfile(&profile); err != nil {
		return models.UserProfile{}, models.CycleData{}, ErrProfileSaveFailed
	}
	if err := service.profiles.SetOnboardingComplete(true); err != nil {
		return models.UserProfile{}, models.CycleData{}, ErrOnboardingSaveFailed
	}
	return profile, data, nil
}

// ResolveCycleAndPeriodDefaults substitutes defaults for values the client left at zero.
func ResolveCycleAndPeriodDefaults(cycleLength int, periodLength int) (int, int) {
	if cycleLength == 0 {
		cycleLength = models.DefaultCycleLength
	}
	if periodLength == 0 {
		periodLength = models.DefaultPeriodLength
	}
	return cycleLength, periodLength
}
