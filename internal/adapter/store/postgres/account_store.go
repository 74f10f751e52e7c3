package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/api-sage/atm-ledger/internal/domain"
)

// AccountStore persists serialized accounts in a single key-value table.
// Rows are scoped by bank id so several ledgers can share one database
// without their IBAN sequences colliding.
type AccountStore struct {
	db     *sql.DB
	bankID string
}

func NewAccountStore(db *sql.DB, bankID string) *AccountStore {
	return &AccountStore{db: db, bankID: bankID}
}

func (s *AccountStore) Get(ctx context.Context, key string) (domain.Account, error) {
	const query = `
SELECT data
FROM atm_accounts
WHERE bank_id = $1 AND iban = $2`

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, s.bankID, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account %q: %w", key, err)
	}

	var account domain.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return domain.Account{}, fmt.Errorf("decode account %q: %w", key, err)
	}

	return account, nil
}

func (s *AccountStore) Put(ctx context.Context, key string, account domain.Account) error {
	const query = `
INSERT INTO atm_accounts (bank_id, iban, data, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (bank_id, iban)
DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	raw, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode account %q: %w", key, err)
	}

	if _, err := s.db.ExecContext(ctx, query, s.bankID, key, raw); err != nil {
		return fmt.Errorf("put account %q: %w", key, err)
	}

	return nil
}

func (s *AccountStore) Contains(ctx context.Context, key string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM atm_accounts WHERE bank_id = $1 AND iban = $2
)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, s.bankID, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("contains account %q: %w", key, err)
	}

	return exists, nil
}
