package usecase

import (
	"context"

	"github.com/api-sage/atm-ledger/internal/domain"
	"github.com/api-sage/atm-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// Dispenser is an ATM: it holds the machine's own cash float, authenticates
// sessions against its home ledger and gates every financial operation
// through both the account's rules and the float. The float check always
// runs before the ledger write, and the ledger write before the float
// mutation, so a ledger failure leaves the float untouched.
type Dispenser struct {
	float     decimal.Decimal
	home      *Ledger
	connected map[string]*Ledger
	journal   *Journal
}

func NewDispenser(home *Ledger, initialFloat decimal.Decimal) *Dispenser {
	return &Dispenser{
		float:     initialFloat,
		home:      home,
		connected: map[string]*Ledger{},
		journal:   NewJournal(),
	}
}

// Login authenticates a session. The ledger lookup is identity-only; the PIN
// is verified here, and both failures surface as the same error so a caller
// cannot probe which part was wrong.
func (d *Dispenser) Login(ctx context.Context, iban int64, pin string) (domain.Account, error) {
	account, err := d.home.Authenticate(ctx, iban)
	if err != nil {
		return domain.Account{}, err
	}
	if !account.CheckPIN(pin) {
		return domain.Account{}, domain.ErrAuthenticationFailed
	}

	logger.Info("atm login", logger.Fields{
		"bank": d.home.Name(),
		"iban": account.IBAN,
	})

	return account, nil
}

// UserBalance returns the authoritative balance for the presented token.
func (d *Dispenser) UserBalance(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	return d.home.Balance(ctx, account)
}

// UserWithdraw dispenses cash. The machine must physically hold the amount,
// so the float shortfall check runs before the account is touched.
func (d *Dispenser) UserWithdraw(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if amount.GreaterThan(d.float) {
		return domain.ErrDispenserShortfall
	}

	if err := d.home.Withdraw(ctx, account, amount); err != nil {
		return err
	}
	d.float = d.float.Sub(amount)

	entry := d.journal.Record(JournalWithdrawal, account.IBAN, amount)
	logger.Info("atm cash withdrawal", logger.Fields{
		"reference": entry.Reference.String(),
		"iban":      account.IBAN,
		"amount":    amount.String(),
		"float":     d.float.String(),
	})

	return nil
}

// UserDeposit accepts cash into the machine and credits the account. No
// shortfall check applies; the float grows by the inserted amount.
func (d *Dispenser) UserDeposit(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	if err := d.home.Deposit(ctx, account, amount); err != nil {
		return err
	}
	d.float = d.float.Add(amount)

	entry := d.journal.Record(JournalDeposit, account.IBAN, amount)
	logger.Info("atm cash deposit", logger.Fields{
		"reference": entry.Reference.String(),
		"iban":      account.IBAN,
		"amount":    amount.String(),
		"float":     d.float.String(),
	})

	return nil
}

// UserTransfer withdraws from the source account, then credits the target
// account at a connected bank. A failed withdrawal means no transfer attempt
// and no float change. A failure after the withdrawal has committed is
// surfaced, not reversed; the caller decides on compensation.
func (d *Dispenser) UserTransfer(ctx context.Context, account domain.Account, amount decimal.Decimal, targetBank string, targetIBAN int64) error {
	if err := d.UserWithdraw(ctx, account, amount); err != nil {
		return err
	}

	target, ok := d.connected[targetBank]
	if !ok {
		return domain.ErrUnknownLedger
	}

	if err := target.Credit(ctx, targetIBAN, amount); err != nil {
		return err
	}

	entry := d.journal.Record(JournalTransfer, account.IBAN, amount)
	logger.Info("atm transfer", logger.Fields{
		"reference":  entry.Reference.String(),
		"iban":       account.IBAN,
		"amount":     amount.String(),
		"targetBank": targetBank,
		"targetIban": targetIBAN,
	})

	return nil
}

// UserResetPIN delegates to the ledger's reset path.
func (d *Dispenser) UserResetPIN(ctx context.Context, account domain.Account, newPIN string) error {
	return d.home.ResetPIN(ctx, account, newPIN)
}

// AdminWithdraw removes cash from the machine. Only the float changes, never
// the admin's own account balance.
func (d *Dispenser) AdminWithdraw(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if err := d.requireAdmin(ctx, account); err != nil {
		return err
	}
	if amount.GreaterThan(d.float) {
		return domain.ErrDispenserShortfall
	}

	d.float = d.float.Sub(amount)

	entry := d.journal.Record(JournalFloatWithdrawal, account.IBAN, amount)
	logger.Info("atm float withdrawal", logger.Fields{
		"reference": entry.Reference.String(),
		"iban":      account.IBAN,
		"amount":    amount.String(),
		"float":     d.float.String(),
	})

	return nil
}

// AdminDeposit loads cash into the machine.
func (d *Dispenser) AdminDeposit(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if err := d.requireAdmin(ctx, account); err != nil {
		return err
	}

	d.float = d.float.Add(amount)

	entry := d.journal.Record(JournalFloatDeposit, account.IBAN, amount)
	logger.Info("atm float deposit", logger.Fields{
		"reference": entry.Reference.String(),
		"iban":      account.IBAN,
		"amount":    amount.String(),
		"float":     d.float.String(),
	})

	return nil
}

// Float returns the machine's cash balance to an admin.
func (d *Dispenser) Float(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	if err := d.requireAdmin(ctx, account); err != nil {
		return decimal.Zero, err
	}

	return d.float, nil
}

// Transactions returns the journal of completed transactions to an admin.
func (d *Dispenser) Transactions(ctx context.Context, account domain.Account) ([]JournalEntry, error) {
	if err := d.requireAdmin(ctx, account); err != nil {
		return nil, err
	}

	return d.journal.Entries(), nil
}

// AddConnectedLedger registers a peer bank as a transfer destination. The
// home ledger is never registered and a name is registered at most once;
// those calls return false without effect.
func (d *Dispenser) AddConnectedLedger(ledger *Ledger) bool {
	if ledger == nil || ledger == d.home || ledger.Name() == d.home.Name() {
		return false
	}
	if _, ok := d.connected[ledger.Name()]; ok {
		return false
	}

	d.connected[ledger.Name()] = ledger

	return true
}

// IsLedgerConnected reports whether a bank name is a known transfer target.
func (d *Dispenser) IsLedgerConnected(name string) bool {
	_, ok := d.connected[name]
	return ok
}

// ConnectedLedger returns the connected ledger registered under the name.
func (d *Dispenser) ConnectedLedger(name string) (*Ledger, bool) {
	ledger, ok := d.connected[name]
	return ledger, ok
}

// ConnectedLedgers returns a copy of the transfer-destination directory.
func (d *Dispenser) ConnectedLedgers() map[string]*Ledger {
	out := make(map[string]*Ledger, len(d.connected))
	for name, ledger := range d.connected {
		out[name] = ledger
	}

	return out
}

func (d *Dispenser) requireAdmin(ctx context.Context, account domain.Account) error {
	admin, err := d.home.IsAdmin(ctx, account)
	if err != nil {
		return err
	}
	if !admin {
		return domain.ErrNotAuthorized
	}

	return nil
}
