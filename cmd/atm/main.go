package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/api-sage/atm-ledger/internal/adapter/console"
	"github.com/api-sage/atm-ledger/internal/adapter/store/memory"
	"github.com/api-sage/atm-ledger/internal/adapter/store/postgres"
	"github.com/api-sage/atm-ledger/internal/config"
	"github.com/api-sage/atm-ledger/internal/domain"
	"github.com/api-sage/atm-ledger/internal/usecase"
)

const peerBankID = "boi"
const peerBankName = "Bank of Ireland"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	homeStore, peerStore, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	dispenser, err := setup(ctx, cfg, homeStore, peerStore)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	ui := console.New(dispenser, os.Stdin, os.Stdout)
	if err := ui.Run(ctx); err != nil {
		log.Fatalf("console: %v", err)
	}
}

func openStores(ctx context.Context, cfg config.Config) (domain.AccountStore, domain.AccountStore, error) {
	if cfg.StoreDSN == "" {
		return memory.NewAccountStore(), memory.NewAccountStore(), nil
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := postgres.Open(openCtx, cfg.StoreDSN)
	if err != nil {
		return nil, nil, err
	}

	return postgres.NewAccountStore(db, cfg.BankID), postgres.NewAccountStore(db, peerBankID), nil
}

// setup builds the demo world: a home bank with a customer and an admin, a
// connected peer bank with one customer, and the dispenser itself. The core
// holds no implicit state; everything is constructed here.
func setup(ctx context.Context, cfg config.Config, homeStore, peerStore domain.AccountStore) (*usecase.Dispenser, error) {
	home := usecase.NewLedger(cfg.BankName, homeStore)

	userIBAN, err := home.CreateAccount(ctx, "Aidan", "1234")
	if err != nil {
		return nil, err
	}
	adminIBAN, err := home.CreateAdminAccount(ctx, "Admin", "1010")
	if err != nil {
		return nil, err
	}

	peer := usecase.NewLedger(peerBankName, peerStore)
	peerIBAN, err := peer.CreateAccount(ctx, "Conor", "4321")
	if err != nil {
		return nil, err
	}

	dispenser := usecase.NewDispenser(home, cfg.InitialFloat)
	dispenser.AddConnectedLedger(peer)

	log.Printf("demo accounts: customer iban=%d pin=1234, admin iban=%d pin=1010, %s iban=%d",
		userIBAN, adminIBAN, peerBankName, peerIBAN)

	return dispenser, nil
}
