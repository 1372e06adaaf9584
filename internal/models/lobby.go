package models

// Lobby is the single named container that holds every game ever created.
// A deployment supports exactly one lobby; its name and entry fee are
// immutable once set, and the game list is append-only.
type Lobby struct {
	// Name is the lobby's identifier, assigned exactly once
	Name string

	// EntryFee is the fee associated with opening a game in this lobby
	EntryFee uint64

	// GameIDs holds the ids of every game created in the lobby, oldest first
	GameIDs []uint64

	// CreatedAt is the block height at which the lobby was created
	CreatedAt uint64
}

// GameSummary is the per-game row returned by a lobby listing.
type GameSummary struct {
	// ID is the game's unique identifier
	ID uint64

	// Name is the game's descriptive label
	Name string

	// Leader is the identity of the current top bidder
	Leader string

	// HighestBid is the current highest accepted bid
	HighestBid uint64

	// ExpiresAt is the block height at which bidding closes
	ExpiresAt uint64
}
