package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/api-sage/atm-ledger/internal/domain"
	"github.com/api-sage/atm-ledger/internal/usecase"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// Console runs the interactive ATM menu loop. It owns all raw input parsing
// and retry prompting; validation of amounts, PINs and authorization stays
// in the core.
type Console struct {
	dispenser *usecase.Dispenser
	in        *bufio.Scanner
	out       io.Writer
	readPIN   func(prompt string) (string, error)
}

// session keeps the credentials entered at login so the account token can be
// refreshed after each mutation. A stale token fails the ledger's integrity
// check on purpose, so the UI re-authenticates rather than reusing it.
type session struct {
	iban    int64
	pin     string
	account domain.Account
}

func New(dispenser *usecase.Dispenser, in io.Reader, out io.Writer) *Console {
	c := &Console{
		dispenser: dispenser,
		in:        bufio.NewScanner(in),
		out:       out,
	}
	c.readPIN = c.promptLine

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		c.readPIN = func(prompt string) (string, error) {
			fmt.Fprint(out, prompt)
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(raw)), nil
		}
	}

	return c
}

func (c *Console) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "=== Welcome ===")
		fmt.Fprintln(c.out, "1) Customer")
		fmt.Fprintln(c.out, "2) Admin")
		fmt.Fprintln(c.out, "q) Quit")

		choice, err := c.promptLine("-> ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.customerSession(ctx)
		case "2":
			c.adminSession(ctx)
		case "q":
			return nil
		}
	}
}

func (c *Console) login(ctx context.Context) (*session, error) {
	rawIBAN, err := c.promptLine("IBAN: ")
	if err != nil {
		return nil, err
	}
	iban, err := strconv.ParseInt(rawIBAN, 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "IBAN must be a number.")
		return nil, nil
	}

	pin, err := c.readPIN("PIN: ")
	if err != nil {
		return nil, err
	}

	account, err := c.dispenser.Login(ctx, iban, pin)
	if err != nil {
		fmt.Fprintf(c.out, "Login failed: %v\n", err)
		return nil, nil
	}

	return &session{iban: iban, pin: pin, account: account}, nil
}

// refresh re-authenticates after a mutation so the next operation carries a
// token matching the authoritative record.
func (c *Console) refresh(ctx context.Context, s *session) {
	account, err := c.dispenser.Login(ctx, s.iban, s.pin)
	if err != nil {
		fmt.Fprintf(c.out, "Session refresh failed: %v\n", err)
		return
	}
	s.account = account
}

func (c *Console) customerSession(ctx context.Context) {
	s, err := c.login(ctx)
	if err != nil || s == nil {
		return
	}

	for {
		fmt.Fprintln(c.out)
		fmt.Fprintf(c.out, "=== Main Menu (%s) ===\n", s.account.Name)
		fmt.Fprintln(c.out, "1) Check Balance")
		fmt.Fprintln(c.out, "2) Withdraw")
		fmt.Fprintln(c.out, "3) Deposit")
		fmt.Fprintln(c.out, "4) Transfer Funds")
		fmt.Fprintln(c.out, "5) Reset PIN")
		fmt.Fprintln(c.out, "l) Logout")

		choice, err := c.promptLine("-> ")
		if err != nil {
			return
		}

		switch choice {
		case "1":
			balance, err := c.dispenser.UserBalance(ctx, s.account)
			if err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(c.out, "Balance: %s\n", balance.StringFixed(2))
		case "2":
			amount, ok := c.promptAmount()
			if !ok {
				continue
			}
			if err := c.dispenser.UserWithdraw(ctx, s.account, amount); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "Please take your cash.")
			c.refresh(ctx, s)
		case "3":
			amount, ok := c.promptAmount()
			if !ok {
				continue
			}
			if err := c.dispenser.UserDeposit(ctx, s.account, amount); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "Deposit accepted.")
			c.refresh(ctx, s)
		case "4":
			c.transfer(ctx, s)
		case "5":
			newPIN, err := c.readPIN("New PIN: ")
			if err != nil {
				return
			}
			if err := c.dispenser.UserResetPIN(ctx, s.account, newPIN); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "PIN updated.")
			s.pin = newPIN
			c.refresh(ctx, s)
		case "l":
			return
		}
	}
}

func (c *Console) transfer(ctx context.Context, s *session) {
	banks := c.dispenser.ConnectedLedgers()
	if len(banks) == 0 {
		fmt.Fprintln(c.out, "No connected banks available.")
		return
	}

	fmt.Fprintln(c.out, "Connected banks:")
	for name := range banks {
		fmt.Fprintf(c.out, "  - %s\n", name)
	}

	bankName, err := c.promptLine("Destination bank: ")
	if err != nil {
		return
	}

	rawIBAN, err := c.promptLine("Destination IBAN: ")
	if err != nil {
		return
	}
	targetIBAN, err := strconv.ParseInt(rawIBAN, 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "IBAN must be a number.")
		return
	}

	amount, ok := c.promptAmount()
	if !ok {
		return
	}

	if err := c.dispenser.UserTransfer(ctx, s.account, amount, bankName, targetIBAN); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Transfer complete.")
	c.refresh(ctx, s)
}

func (c *Console) adminSession(ctx context.Context) {
	s, err := c.login(ctx)
	if err != nil || s == nil {
		return
	}

	for {
		fmt.Fprintln(c.out)
		fmt.Fprintf(c.out, "=== Admin Menu (%s) ===\n", s.account.Name)
		fmt.Fprintln(c.out, "1) Check ATM Float")
		fmt.Fprintln(c.out, "2) Load Cash")
		fmt.Fprintln(c.out, "3) Remove Cash")
		fmt.Fprintln(c.out, "4) Transaction Journal")
		fmt.Fprintln(c.out, "l) Logout")

		choice, err := c.promptLine("-> ")
		if err != nil {
			return
		}

		switch choice {
		case "1":
			float, err := c.dispenser.Float(ctx, s.account)
			if err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(c.out, "ATM float: %s\n", float.StringFixed(2))
		case "2":
			amount, ok := c.promptAmount()
			if !ok {
				continue
			}
			if err := c.dispenser.AdminDeposit(ctx, s.account, amount); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "Cash loaded.")
		case "3":
			amount, ok := c.promptAmount()
			if !ok {
				continue
			}
			if err := c.dispenser.AdminWithdraw(ctx, s.account, amount); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "Cash removed.")
		case "4":
			entries, err := c.dispenser.Transactions(ctx, s.account)
			if err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}
			for _, entry := range entries {
				fmt.Fprintf(c.out, "%s  %-16s  iban=%d  amount=%s\n",
					entry.Reference, entry.Kind, entry.IBAN, entry.Amount.StringFixed(2))
			}
		case "l":
			return
		}
	}
}

func (c *Console) promptAmount() (decimal.Decimal, bool) {
	raw, err := c.promptLine("Amount: ")
	if err != nil {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Fprintln(c.out, "Amount must be a number.")
		return decimal.Zero, false
	}

	return amount, true
}

func (c *Console) promptLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(c.in.Text()), nil
}
