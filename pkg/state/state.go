package state

import (
	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/messages"
)

// RoundTransition computes the next value of a round at the given tick and
// the messages that the change produced. Transitions must be pure: they are
// called while the registry holds its lock.
type RoundTransition func(round types.Round, tick int64) (types.Round, []messages.ClientMessage)

// RoundRegistry is the single store of all rounds in progress and of the
// round each user is playing in. Implementations must be thread-safe and
// must run every read-modify-write of a round as one atomic step.
type RoundRegistry interface {
	// CreateRound creates a round with creatorID as its only player and makes
	// it the creator's active round. If the creator already has an active round
	// that round is returned and nothing is created.
	CreateRound(creatorID types.UserID) (types.Round, bool)
	// FindActiveRound returns a copy of the round userID is playing in.
	FindActiveRound(userID types.UserID) (types.Round, bool)
	// FindRound returns a copy of the round with the given ID.
	FindRound(roundID types.RoundID) (types.Round, bool)
	// ApplyToActiveRound runs transition on the active round of userID and
	// stores the result. It returns false if the user has no active round.
	ApplyToActiveRound(userID types.UserID, transition RoundTransition) ([]messages.ClientMessage, bool)
	// TickAll runs transition once on every round at the current tick, then
	// advances the tick counter by one.
	TickAll(transition RoundTransition) []messages.ClientMessage
	// ListJoinableRounds returns the IDs of rounds still in the lobby, oldest first.
	ListJoinableRounds() []types.RoundID
	// JoinRound adds userID to a round in the lobby and makes it the user's
	// active round. It returns false if the round does not exist or has
	// already started.
	JoinRound(userID types.UserID, roundID types.RoundID) (types.Round, bool)
	// Tick returns the value the next TickAll will run at.
	Tick() int64
}
