// Package cli holds the maintenance commands that run outside the HTTP server.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/security"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

var ErrPinConfirmationMismatch = errors.New("pins do not match")

type Paths struct {
	DBPath    string
	PinDBPath string
}

type pinPrompt func(label string) (string, error)

// RunResetPinCommand replaces the PIN with a random temporary one and prints it.
func RunResetPinCommand(paths Paths, out io.Writer, logger *zap.Logger) error {
	pins, closeAll, err := openPinService(paths, logger)
	if err != nil {
		return err
	}
	defer closeAll()

	temporaryPin, err := generateTemporaryPin()
	if err != nil {
		return fmt.Errorf("generate temporary pin: %w", err)
	}
	if err := pins.SetPin(temporaryPin); err != nil {
		return fmt.Errorf("store temporary pin: %w", err)
	}

	fmt.Fprintln(out, "PIN reset successful")
	fmt.Fprintf(out, "Temporary PIN: %s\n", temporaryPin)
	fmt.Fprintln(out, "Choose a new PIN after unlocking.")
	return nil
}

func RunSetPinCommand(paths Paths, out io.Writer, logger *zap.Logger) error {
	return runSetPin(paths, out, logger, terminalPinPrompt(out))
}

func runSetPin(paths Paths, out io.Writer, logger *zap.Logger, prompt pinPrompt) error {
	pin, err := prompt("New PIN (4 digits): ")
	if err != nil {
		return fmt.Errorf("read pin: %w", err)
	}
	if _, err := services.ValidatePin(pin); err != nil {
		return err
	}
	confirmation, err := prompt("Repeat PIN: ")
	if err != nil {
		return fmt.Errorf("read pin confirmation: %w", err)
	}
	if confirmation != pin {
		return ErrPinConfirmationMismatch
	}

	pins, closeAll, err := openPinService(paths, logger)
	if err != nil {
		return err
	}
	defer closeAll()

	if err := pins.SetPin(pin); err != nil {
		return fmt.Errorf("store pin: %w", err)
	}
	fmt.Fprintln(out, "PIN lock enabled")
	return nil
}

func terminalPinPrompt(out io.Writer) pinPrompt {
	return func(label string) (string, error) {
		fmt.Fprint(out, label)
		value, err := readPinNoEcho(os.Stdin)
		fmt.Fprintln(out)
		return value, err
	}
}

func openPinService(paths Paths, logger *zap.Logger) (*services.PinService, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	database, err := db.OpenSQLite(paths.DBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	vault, err := db.OpenPinVault(paths.PinDBPath, logger)
	if err != nil {
		_ = db.Close(database)
		return nil, nil, fmt.Errorf("pin vault init failed: %w", err)
	}

	closeAll := func() {
		_ = vault.Close()
		_ = db.Close(database)
	}
	return services.NewPinService(vault, db.NewStore(database)), closeAll, nil
}

func generateTemporaryPin() (string, error) {
	return security.RandomDigits(4)
}
