package models

// Game is a time-bounded bidding contest. The current leader's bid and every
// bid before it sit escrowed in the game's pot until settlement pays the pot
// out to the last leader standing.
type Game struct {
	// ID is the unique identifier for the game, sequential and never reused
	ID uint64

	// Name is a descriptive label chosen by the creator
	Name string

	// CreatorID is the identity that opened the game
	CreatorID string

	// EntryAmount is the creator's initial commitment and the opening bid
	EntryAmount uint64

	// Leader is the identity of the current top bidder
	Leader string

	// HighestBid is the highest accepted bid so far
	HighestBid uint64

	// Message is the taunt attached by the current leader
	Message string

	// Pot is the total escrowed value held for the game
	Pot uint64

	// Duration is the number of blocks the game stays open for bidding
	Duration uint64

	// CreatedAt is the block height at creation
	CreatedAt uint64

	// ExpiresAt is CreatedAt + Duration; bidding is closed at this height
	ExpiresAt uint64

	// Settled indicates the pot has been paid out; terminal once true
	Settled bool
}

// Expired reports whether bidding is closed at the given block height.
func (g *Game) Expired(height uint64) bool {
	return height >= g.ExpiresAt
}

// Summary returns the lobby-listing row for the game.
func (g *Game) Summary() *GameSummary {
	return &GameSummary{
		ID:         g.ID,
		Name:       g.Name,
		Leader:     g.Leader,
		HighestBid: g.HighestBid,
		ExpiresAt:  g.ExpiresAt,
	}
}
