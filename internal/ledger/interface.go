package ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_adapter.go github.com/hillking/richgetricher/internal/ledger Adapter

import (
	"context"
)

// Adapter defines the interface for atomic token movement between accounts.
// A transfer either moves the full amount or fails leaving both balances
// untouched; the bidding invariants depend on this never partially applying.
type Adapter interface {
	// Transfer atomically moves Amount from one account to another
	Transfer(ctx context.Context, input *TransferInput) (*TransferOutput, error)

	// Deposit credits an account out of thin air (faucet/funding path)
	Deposit(ctx context.Context, input *DepositInput) error

	// GetBalance retrieves the current balance of an account
	GetBalance(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error)

	// GetHistory retrieves the most recent transfers touching an account
	GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error)
}
