package models

const DefaultReminderTime = "9:00 AM"

type UserProfile struct {
	ID                   uint   `gorm:"primaryKey" json:"-"`
	Name                 string `gorm:"not null" json:"name"`
	Goal                 Goal   `gorm:"not null" json:"goal"`
	PinEnabled           bool   `gorm:"not null" json:"pinEnabled"`
	BiometricEnabled     bool   `gorm:"not null" json:"biometricEnabled"`
	NotificationsEnabled bool   `gorm:"not null" json:"notificationsEnabled"`
	ReminderTime         string `gorm:"not null" json:"reminderTime"`
	PartnerSyncEnabled   bool   `gorm:"not null" json:"partnerSyncEnabled"`
	SharePeriodStatus    bool   `gorm:"not null" json:"sharePeriodStatus"`
	ShareFertileWindow   bool   `gorm:"not null" json:"shareFertileWindow"`
	ShareMoods           bool   `gorm:"not null" json:"shareMoods"`
}

func (UserProfile) TableName() string {
	return "user_profile"
}

func DefaultUserProfile() UserProfile {
	return UserProfile{
		Goal:                 GoalTrack,
		NotificationsEnabled: true,
		ReminderTime:         DefaultReminderTime,
		SharePeriodStatus:    true,
		ShareFertileWindow:   true,
	}
}

type AppState struct {
	ID                 uint `gorm:"primaryKey"`
	OnboardingComplete bool `gorm:"not null"`
}

func (AppState) TableName() string {
	return "app_state"
}

// PinCredential lives only in the PIN vault database, never next to entry data.
type PinCredential struct {
	ID      uint   `gorm:"primaryKey"`
	PinHash string `gorm:"not null"`
}

func (PinCredential) TableName() string {
	return "pin_credentials"
}
