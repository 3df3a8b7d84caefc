package types

// UserID identifies an authenticated user.
type UserID int32

// RoundID identifies a round. It is generated when the round is created.
type RoundID string

// ItemID identifies an item within a round.
type ItemID int
