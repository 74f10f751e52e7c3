package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type JournalKind string

const (
	JournalWithdrawal      JournalKind = "WITHDRAWAL"
	JournalDeposit         JournalKind = "DEPOSIT"
	JournalTransfer        JournalKind = "TRANSFER"
	JournalFloatWithdrawal JournalKind = "FLOAT_WITHDRAWAL"
	JournalFloatDeposit    JournalKind = "FLOAT_DEPOSIT"
)

// JournalEntry is the receipt for one successful dispenser transaction.
type JournalEntry struct {
	Reference uuid.UUID
	Kind      JournalKind
	IBAN      int64
	Amount    decimal.Decimal
	At        time.Time
}

// Journal is an append-only record of the transactions a dispenser has
// completed. Failed operations are never recorded.
type Journal struct {
	entries []JournalEntry
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) Record(kind JournalKind, iban int64, amount decimal.Decimal) JournalEntry {
	entry := JournalEntry{
		Reference: uuid.New(),
		Kind:      kind,
		IBAN:      iban,
		Amount:    amount,
		At:        time.Now(),
	}
	j.entries = append(j.entries, entry)

	return entry
}

// Entries returns a copy of the recorded transactions, oldest first.
func (j *Journal) Entries() []JournalEntry {
	out := make([]JournalEntry, len(j.entries))
	copy(out, j.entries)

	return out
}
