package models

// TransferRecord is the audit entry written for every executed transfer.
type TransferRecord struct {
	// ID is the unique identifier for the transfer record
	ID string

	// FromAccount is the account that was debited
	FromAccount string

	// ToAccount is the account that was credited
	ToAccount string

	// Amount is the value moved
	Amount uint64

	// Height is the block height at which the transfer executed
	Height uint64
}
