package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/api-sage/atm-ledger/internal/domain"
	"github.com/api-sage/atm-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// Ledger is the single authority for account identity, authentication and
// balance truth within one bank. Every mutation is a read-modify-write
// against the injected store: the authoritative copy is re-read before the
// change and the full account is written back after it. Nothing is cached
// across operations.
type Ledger struct {
	name     string
	store    domain.AccountStore
	nextIBAN int64
}

func NewLedger(name string, store domain.AccountStore) *Ledger {
	return &Ledger{
		name:     name,
		store:    store,
		nextIBAN: 1,
	}
}

// Name returns the bank's display identifier.
func (l *Ledger) Name() string {
	return l.name
}

// CreateAccount adds a customer account with a zero balance and returns its
// IBAN. The PIN must be exactly four digits.
func (l *Ledger) CreateAccount(ctx context.Context, name string, pin string) (int64, error) {
	return l.create(ctx, name, pin, false)
}

// CreateAdminAccount adds an account carrying the admin capability flag.
func (l *Ledger) CreateAdminAccount(ctx context.Context, name string, pin string) (int64, error) {
	return l.create(ctx, name, pin, true)
}

func (l *Ledger) create(ctx context.Context, name string, pin string, admin bool) (int64, error) {
	account, err := domain.NewAccount(l.nextIBAN, name, pin, admin)
	if err != nil {
		return 0, err
	}

	if err := l.store.Put(ctx, storeKey(account.IBAN), account); err != nil {
		return 0, fmt.Errorf("persist account %d: %w", account.IBAN, err)
	}

	// The counter moves only after a successful write, so an IBAN is never
	// handed out twice.
	l.nextIBAN++

	logger.Info("ledger account created", logger.Fields{
		"bank":  l.name,
		"iban":  account.IBAN,
		"admin": admin,
	})

	return account.IBAN, nil
}

// Contains reports whether an account with the given IBAN exists.
func (l *Ledger) Contains(ctx context.Context, iban int64) (bool, error) {
	return l.store.Contains(ctx, storeKey(iban))
}

// Authenticate looks up an account by identity alone. PIN verification is a
// precondition enforced by the dispenser before any session begins.
func (l *Ledger) Authenticate(ctx context.Context, iban int64) (domain.Account, error) {
	account, err := l.store.Get(ctx, storeKey(iban))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrAuthenticationFailed
		}
		return domain.Account{}, fmt.Errorf("authenticate account %d: %w", iban, err)
	}

	return account, nil
}

// VerifyIntegrity re-fetches the authoritative record for the candidate's
// IBAN and reports whether the candidate matches it. This is the defense
// against a caller presenting a doctored in-memory account.
func (l *Ledger) VerifyIntegrity(ctx context.Context, candidate domain.Account) (bool, error) {
	authoritative, err := l.Authenticate(ctx, candidate.IBAN)
	if err != nil {
		return false, err
	}

	return candidate.Matches(authoritative), nil
}

// Balance returns the authoritative balance for a validated account token.
func (l *Ledger) Balance(ctx context.Context, candidate domain.Account) (decimal.Decimal, error) {
	account, err := l.validated(ctx, candidate)
	if err != nil {
		return decimal.Zero, err
	}

	return account.Balance, nil
}

// Deposit credits the account after validating the amount and the token.
func (l *Ledger) Deposit(ctx context.Context, candidate domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	account, err := l.validated(ctx, candidate)
	if err != nil {
		return err
	}

	account.Deposit(amount)
	if err := l.store.Put(ctx, storeKey(account.IBAN), account); err != nil {
		return fmt.Errorf("persist account %d: %w", account.IBAN, err)
	}

	logger.Info("ledger deposit", logger.Fields{
		"bank":   l.name,
		"iban":   account.IBAN,
		"amount": amount.String(),
	})

	return nil
}

// Withdraw debits the account. Insufficient balance is surfaced unchanged
// and nothing is written back unless the in-memory mutation succeeded.
func (l *Ledger) Withdraw(ctx context.Context, candidate domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	account, err := l.validated(ctx, candidate)
	if err != nil {
		return err
	}

	if err := account.Withdraw(amount); err != nil {
		return err
	}
	if err := l.store.Put(ctx, storeKey(account.IBAN), account); err != nil {
		return fmt.Errorf("persist account %d: %w", account.IBAN, err)
	}

	logger.Info("ledger withdrawal", logger.Fields{
		"bank":   l.name,
		"iban":   account.IBAN,
		"amount": amount.String(),
	})

	return nil
}

// IsAdmin returns the authoritative admin flag for a validated token.
func (l *Ledger) IsAdmin(ctx context.Context, candidate domain.Account) (bool, error) {
	account, err := l.validated(ctx, candidate)
	if err != nil {
		return false, err
	}

	return account.Admin, nil
}

// ResetPIN replaces the account PIN after validating the token and the new
// PIN's format.
func (l *Ledger) ResetPIN(ctx context.Context, candidate domain.Account, newPIN string) error {
	account, err := l.validated(ctx, candidate)
	if err != nil {
		return err
	}

	if err := account.ResetPIN(newPIN); err != nil {
		return err
	}
	if err := l.store.Put(ctx, storeKey(account.IBAN), account); err != nil {
		return fmt.Errorf("persist account %d: %w", account.IBAN, err)
	}

	logger.Info("ledger pin reset", logger.Fields{
		"bank": l.name,
		"iban": account.IBAN,
	})

	return nil
}

// Credit books an incoming transfer against the target account. There is no
// token for a remote account, so the lookup is by IBAN alone.
func (l *Ledger) Credit(ctx context.Context, iban int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	account, err := l.Authenticate(ctx, iban)
	if err != nil {
		return err
	}

	account.Deposit(amount)
	if err := l.store.Put(ctx, storeKey(account.IBAN), account); err != nil {
		return fmt.Errorf("persist account %d: %w", account.IBAN, err)
	}

	logger.Info("ledger incoming transfer credit", logger.Fields{
		"bank":   l.name,
		"iban":   account.IBAN,
		"amount": amount.String(),
	})

	return nil
}

// validated runs the integrity check and returns a fresh authoritative copy
// for the mutation that follows.
func (l *Ledger) validated(ctx context.Context, candidate domain.Account) (domain.Account, error) {
	ok, err := l.VerifyIntegrity(ctx, candidate)
	if err != nil {
		return domain.Account{}, err
	}
	if !ok {
		return domain.Account{}, domain.ErrIntegrityViolation
	}

	return l.Authenticate(ctx, candidate.IBAN)
}

func storeKey(iban int64) string {
	return strconv.FormatInt(iban, 10)
}
