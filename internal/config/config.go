package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultBankID = "aib"
const defaultBankName = "Allied Irish Banks"
const defaultInitialFloat = "1000"

// Config carries process-level settings for one ATM instance. An empty
// StoreDSN selects the in-memory account store; anything else is handed to
// the postgres driver.
type Config struct {
	StoreDSN     string
	BankID       string
	BankName     string
	InitialFloat decimal.Decimal
}

func Load() (Config, error) {
	bankID := strings.TrimSpace(os.Getenv("ATM_BANK_ID"))
	if bankID == "" {
		bankID = defaultBankID
	}

	bankName := strings.TrimSpace(os.Getenv("ATM_BANK_NAME"))
	if bankName == "" {
		bankName = defaultBankName
	}

	rawFloat := strings.TrimSpace(os.Getenv("ATM_INITIAL_FLOAT"))
	if rawFloat == "" {
		rawFloat = defaultInitialFloat
	}

	initialFloat, err := decimal.NewFromString(rawFloat)
	if err != nil {
		return Config{}, fmt.Errorf("ATM_INITIAL_FLOAT must be a valid number: %w", err)
	}
	if initialFloat.IsNegative() {
		return Config{}, fmt.Errorf("ATM_INITIAL_FLOAT cannot be negative")
	}

	return Config{
		StoreDSN:     strings.TrimSpace(os.Getenv("ATM_STORE_DSN")),
		BankID:       bankID,
		BankName:     bankName,
		InitialFloat: initialFloat,
	}, nil
}
