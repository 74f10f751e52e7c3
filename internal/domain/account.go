package domain

import (
	"crypto/subtle"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Account is a single customer's identity and balance. The PIN is never
// stored in the clear; PINHash carries a bcrypt hash and travels with the
// account token so that Matches can detect tampering field by field.
type Account struct {
	IBAN    int64           `json:"iban"`
	Name    string          `json:"name"`
	PINHash string          `json:"pinHash"`
	Admin   bool            `json:"admin"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount builds an account with a zero balance. The PIN must be exactly
// four digits.
func NewAccount(iban int64, name string, pin string, admin bool) (Account, error) {
	if !IsFourDigitPIN(pin) {
		return Account{}, ErrInvalidPINFormat
	}

	hashed, err := hashPIN(pin)
	if err != nil {
		return Account{}, err
	}

	return Account{
		IBAN:    iban,
		Name:    name,
		PINHash: hashed,
		Admin:   admin,
		Balance: decimal.Zero,
	}, nil
}

// Deposit adds the amount to the balance. Callers enforce positivity.
func (a *Account) Deposit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// Withdraw removes the amount from the balance, rejecting any mutation that
// would leave it negative.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)

	return nil
}

// CheckPIN reports whether the given PIN matches the stored hash.
func (a Account) CheckPIN(pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PINHash), []byte(pin)) == nil
}

// ResetPIN replaces the account PIN after validating the new one is exactly
// four digits.
func (a *Account) ResetPIN(newPIN string) error {
	if !IsFourDigitPIN(newPIN) {
		return ErrInvalidPINFormat
	}

	hashed, err := hashPIN(newPIN)
	if err != nil {
		return err
	}
	a.PINHash = hashed

	return nil
}

// Matches reports whether two account values describe the same account data.
// Every field must agree, the PIN hash under a constant-time comparison, so a
// caller holding a doctored copy cannot pass it off as the stored record.
func (a Account) Matches(other Account) bool {
	if a.IBAN != other.IBAN || a.Name != other.Name || a.Admin != other.Admin {
		return false
	}
	if !a.Balance.Equal(other.Balance) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(a.PINHash), []byte(other.PINHash)) == 1
}

// IsFourDigitPIN reports whether the PIN is exactly four ASCII digits.
func IsFourDigitPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}

	for _, ch := range pin {
		if ch < '0' || ch > '9' {
			return false
		}
	}

	return true
}

func hashPIN(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}

	return string(hashed), nil
}
