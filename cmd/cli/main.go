// Command cli drives the xbank service layer from the terminal: account
// creation, transfers, withdrawals, deposits and ledger queries. The acting
// identity comes from XBANK_IDENTITY; mutations that allow it fall back to the
// configured system identity.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/xbank/xbank/pkg/app"
	"github.com/xbank/xbank/pkg/config"
	"github.com/xbank/xbank/pkg/repository"
	accountsvc "github.com/xbank/xbank/pkg/service/account"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  create <account> [balance] [currency]")
	fmt.Println("  deposit <account> <amount>")
	fmt.Println("  withdraw <account> <amount>")
	fmt.Println("  transfer <account> <to_account> <amount>")
	fmt.Println("  balance <account>")
	fmt.Println("  accounts | transactions [page]")
}

func run() error {
	if len(os.Args) < 2 {
		usage()
		return nil
	}
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	defer a.Close()

	ctx := context.Background()
	identity := os.Getenv("XBANK_IDENTITY")

	switch cmd := os.Args[1]; cmd {
	case "create":
		if len(os.Args) < 3 {
			usage()
			return nil
		}
		create := accountsvc.CreateAccountCommand{Account: os.Args[2]}
		if len(os.Args) > 3 {
			create.Balance, err = decimal.NewFromString(os.Args[3])
			if err != nil {
				return fmt.Errorf("invalid balance: %w", err)
			}
		}
		if len(os.Args) > 4 {
			create.Currency = os.Args[4]
		}
		acct, err := a.Accounts.CreateAccount(ctx, identity, create)
		if err != nil {
			return err
		}
		fmt.Printf("Account created: %s owner=%s balance=%s %s\n",
			acct.Account, acct.Owner, acct.Balance, acct.Currency)
	case "deposit", "withdraw":
		if len(os.Args) < 4 {
			usage()
			return nil
		}
		amount, err := decimal.NewFromString(os.Args[3])
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmd == "deposit" {
			res, err := a.Accounts.Deposit(ctx, identity, accountsvc.DepositCommand{Account: os.Args[2], Amount: amount})
			if err != nil {
				return err
			}
			fmt.Printf("Deposited %s to %s. New balance: %s %s\n", amount, res.Account, res.Balance, res.Currency)
		} else {
			res, err := a.Accounts.Withdraw(ctx, identity, accountsvc.WithdrawCommand{Account: os.Args[2], Amount: amount})
			if err != nil {
				return err
			}
			fmt.Printf("Withdrew %s from %s. New balance: %s %s\n", amount, res.Account, res.Balance, res.Currency)
		}
	case "transfer":
		if len(os.Args) < 5 {
			usage()
			return nil
		}
		amount, err := decimal.NewFromString(os.Args[4])
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		res, err := a.Accounts.Transfer(ctx, identity, accountsvc.TransferCommand{
			Account:   os.Args[2],
			ToAccount: os.Args[3],
			Amount:    amount,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Transferred %s from %s to %s. Source balance: %s %s\n",
			amount, os.Args[2], os.Args[3], res.Balance, res.Currency)
	case "balance":
		if len(os.Args) < 3 {
			usage()
			return nil
		}
		acct, err := a.Accounts.GetAccountDetail(ctx, identity, os.Args[2])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s %s\n", acct.Account, acct.Balance, acct.Currency)
	case "accounts":
		accounts, err := a.Accounts.ListAccounts(ctx, pageArg(2))
		if err != nil {
			return err
		}
		for _, acct := range accounts {
			fmt.Printf("%s owner=%s balance=%s %s\n", acct.Account, acct.Owner, acct.Balance, acct.Currency)
		}
	case "transactions":
		transactions, err := a.Transactions.ListTransactions(ctx, pageArg(2))
		if err != nil {
			return err
		}
		for _, tx := range transactions {
			fmt.Printf("%s %s %s->%s %s %s result=%d\n",
				tx.TransactAt.Format("2006-01-02 15:04:05"), tx.Action,
				tx.Account, tx.ToAccount, tx.Amount, tx.Currency, tx.Result)
		}
	default:
		usage()
	}
	return nil
}

func pageArg(i int) repository.Pagination {
	p := repository.Pagination{Page: 1}
	if len(os.Args) > i {
		fmt.Sscanf(os.Args[i], "%d", &p.Page)
	}
	return p
}
