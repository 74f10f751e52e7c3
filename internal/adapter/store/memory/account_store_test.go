package memory_test

import (
	"context"
	"testing"

	"github.com/api-sage/atm-ledger/internal/adapter/store/memory"
	"github.com/api-sage/atm-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()

	_, err := store.Get(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	ok, err := store.Contains(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	account, err := domain.NewAccount(1, "Aidan", "1234", false)
	require.NoError(t, err)
	account.Deposit(decimal.NewFromInt(10))

	require.NoError(t, store.Put(ctx, "1", account))

	ok, err = store.Contains(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, got.Matches(account))

	// Put overwrites the full value.
	account.Deposit(decimal.NewFromInt(5))
	require.NoError(t, store.Put(ctx, "1", account))

	got, err = store.Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(15)))
}
