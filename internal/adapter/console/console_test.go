package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/api-sage/atm-ledger/internal/adapter/console"
	"github.com/api-sage/atm-ledger/internal/adapter/store/memory"
	"github.com/api-sage/atm-ledger/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispenser(t *testing.T) *usecase.Dispenser {
	t.Helper()
	ctx := context.Background()

	home := usecase.NewLedger("Allied Irish Banks", memory.NewAccountStore())
	_, err := home.CreateAccount(ctx, "Aidan", "1234")
	require.NoError(t, err)
	_, err = home.CreateAdminAccount(ctx, "Admin", "1010")
	require.NoError(t, err)

	return usecase.NewDispenser(home, decimal.NewFromInt(1000))
}

func run(t *testing.T, dispenser *usecase.Dispenser, script string) string {
	t.Helper()
	var out bytes.Buffer

	ui := console.New(dispenser, strings.NewReader(script), &out)
	require.NoError(t, ui.Run(context.Background()))

	return out.String()
}

func TestCustomerDepositAndBalance(t *testing.T) {
	script := strings.Join([]string{
		"1",    // customer
		"1",    // iban
		"1234", // pin
		"3",    // deposit
		"100",
		"1", // check balance
		"l", // logout
		"q",
	}, "\n") + "\n"

	out := run(t, newDispenser(t), script)

	assert.Contains(t, out, "Deposit accepted.")
	assert.Contains(t, out, "Balance: 100.00")
}

func TestCustomerWithdrawInsufficientFunds(t *testing.T) {
	script := strings.Join([]string{
		"1",
		"1",
		"1234",
		"2", // withdraw
		"50",
		"l",
		"q",
	}, "\n") + "\n"

	out := run(t, newDispenser(t), script)

	assert.Contains(t, out, "insufficient funds")
}

func TestLoginFailureReturnsToWelcome(t *testing.T) {
	script := strings.Join([]string{
		"1",
		"1",
		"9999", // wrong pin
		"q",
	}, "\n") + "\n"

	out := run(t, newDispenser(t), script)

	assert.Contains(t, out, "Login failed")
}

func TestAdminFloatReadout(t *testing.T) {
	script := strings.Join([]string{
		"2",    // admin
		"2",    // iban
		"1010", // pin
		"1",    // check float
		"l",
		"q",
	}, "\n") + "\n"

	out := run(t, newDispenser(t), script)

	assert.Contains(t, out, "ATM float: 1000.00")
}
