package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/cyclecast/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const pinLength = 4

var (
	ErrPinFormatInvalid = errors.New("pin must be exactly 4 digits")
	ErrPinMismatch      = errors.New("pin does not match")
	ErrPinNotSet        = errors.New("pin not set")
	ErrPinStoreFailed   = errors.New("store pin failed")
	ErrPinLoadFailed    = errors.New("load pin failed")
)

type PinVault interface {
	SetPinHash(hash string) error
	LoadPinHash() (string, bool, error)
	Clear() error
}

type PinProfileRepository interface {
	LoadProfile() (models.UserProfile, error)
	SaveProfile(profile *models.UserProfile) error
}

// PinService keeps the PIN hash in the vault and mirrors its presence in UserProfile.PinEnabled.
type PinService struct {
	vault    PinVault
	profiles PinProfileRepository
	cost     int
}

func NewPinService(vault PinVault, profiles PinProfileRepository) *PinService {
	return &PinService{
		vault:    vault,
		profiles: profiles,
		cost:     bcrypt.DefaultCost,
	}
}

func ValidatePin(raw string) (string, error) {
	pin := strings.TrimSpace(raw)
	if len(pin) != pinLength {
		return "", ErrPinFormatInvalid
	}
	for _, char := range pin {
		if char < '0' || char > '9' {
			return "", ErrPinFormatInvalid
		}
	}
	return pin, nil
}

func (service *PinService) SetPin(raw string) error {
	pin, err := ValidatePin(raw)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), service.cost)
	if err != nil {
		return ErrPinStoreFailed
	}
	if err := service.vault.SetPinHash(string(hash)); err != nil {
		return ErrPinStoreFailed
	}
	return service.setPinEnabled(true)
}

func (service *PinService) VerifyPin(raw string) error {
	hash, found, err := service.vault.LoadPinHash()
	if err != nil {
		return ErrPinLoadFailed
	}
	if !found {
		return ErrPinNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(raw))) != nil {
		return ErrPinMismatch
	}
	return nil
}

func (service *PinService) HasPin() (bool, error) {
	_, found, err := service.vault.LoadPinHash()
	if err != nil {
		return false, ErrPinLoadFailed
	}
	return found, nil
}

// ForgetPin removes the PIN and unlocks the app. Entry data is left alone.
func (service *PinService) ForgetPin() error {
	if err := service.vault.Clear(); err != nil {
		return ErrPinStoreFailed
	}
	return service.setPinEnabled(false)
}

func (service *PinService) setPinEnabled(enabled bool) error {
	profile, err := service.profiles.LoadProfile()
	if err != nil {
		return ErrProfileLoadFailed
	}
	if profile.PinEnabled == enabled {
		return nil
	}
	profile.PinEnabled = enabled
	if err := service.profiles.SaveProfile(&profile); err != nil {
		return ErrProfileSaveFailed
	}
	return nil
}
