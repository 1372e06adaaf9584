package ledger

import (
	"fmt"

	"github.com/hillking/richgetricher/internal/models"
)

type TransferInput struct {
	// FromAccount is the account to debit
	FromAccount string

	// ToAccount is the account to credit
	ToAccount string

	// Amount is the value to move
	Amount uint64
}

type TransferOutput struct {
	// RecordID is the id of the audit record written for the transfer
	RecordID string
}

type DepositInput struct {
	Account string
	Amount  uint64
}

type GetBalanceInput struct {
	Account string
}

type GetBalanceOutput struct {
	Balance uint64
}

type GetHistoryInput struct {
	Account string

	// Limit caps the number of records returned; 0 means all
	Limit int
}

type GetHistoryOutput struct {
	Records []*models.TransferRecord
}

// GameAccount returns the escrow account holding a game's pot.
func GameAccount(gameID uint64) string {
	return fmt.Sprintf("game:%d", gameID)
}
