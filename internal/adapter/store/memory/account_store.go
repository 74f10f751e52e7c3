package memory

import (
	"context"

	"github.com/api-sage/atm-ledger/internal/domain"
)

// AccountStore is a map-backed store used by tests and demo mode. The ledger
// model is single-writer, so no locking is attempted here.
type AccountStore struct {
	accounts map[string]domain.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: map[string]domain.Account{}}
}

func (s *AccountStore) Get(_ context.Context, key string) (domain.Account, error) {
	account, ok := s.accounts[key]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	return account, nil
}

func (s *AccountStore) Put(_ context.Context, key string, account domain.Account) error {
	s.accounts[key] = account
	return nil
}

func (s *AccountStore) Contains(_ context.Context, key string) (bool, error) {
	_, ok := s.accounts[key]
	return ok, nil
}
