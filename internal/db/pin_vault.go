package db

import (
	"github.com/terraincognita07/cyclecast/internal/models"
	embeddedmigrations "github.com/terraincognita07/cyclecast/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PinVault stores the PIN hash in its own SQLite file, readable by the owner only.
type PinVault struct {
	database *gorm.DB
}

func OpenPinVault(dbPath string, logger *zap.Logger) (*PinVault, error) {
	database, err := openSQLite(dbPath, 0o600, embeddedmigrations.Vault, "vault", logger)
	if err != nil {
		return nil, err
	}
	return &PinVault{database: database}, nil
}

func (vault *PinVault) SetPinHash(hash string) error {
	credential := models.PinCredential{ID: singletonID, PinHash: hash}
	return vault.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(&credential).Error
}

func (vault *PinVault) LoadPinHash() (string, bool, error) {
	credential := models.PinCredential{}
	result := vault.database.Where("id = ?", singletonID).Limit(1).Find(&credential)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 || credential.PinHash == "" {
		return "", false, nil
	}
	return credential.PinHash, true, nil
}

func (vault *PinVault) Clear() error {
	return vault.database.Exec(`DELETE FROM pin_credentials`).Error
}

func (vault *PinVault) Close() error {
	return Close(vault.database)
}
