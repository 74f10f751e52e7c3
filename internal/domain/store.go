package domain

import "context"

// AccountStore is the persistent key-value store behind a ledger. Keys are
// the string form of the IBAN and the value is the full serialized account.
// Implementations must make each Put durable before returning.
type AccountStore interface {
	Get(ctx context.Context, key string) (Account, error)
	Put(ctx context.Context, key string, account Account) error
	Contains(ctx context.Context, key string) (bool, error)
}
