package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() types.RoundID {
	next := 0
	return func() types.RoundID {
		next++
		return types.RoundID(fmt.Sprintf("round-%d", next))
	}
}

func newTestRegistry() *InMemoryRoundRegistry {
	return NewInMemoryRoundRegistry(NewInMemoryRoundRegistryOptions{
		NewRoundID: sequentialIDs(),
	})
}

// addReady is a transition that marks the user as ready and reports one
// message per call.
func addReady(userID types.UserID) RoundTransition {
	return func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
		round.Phase.PlayersReady = append(round.Phase.PlayersReady, userID)
		return round, []messages.ClientMessage{{UserID: userID}}
	}
}

func TestInMemoryRoundRegistry_CreateRound(t *testing.T) {
	registry := newTestRegistry()

	round, created := registry.CreateRound(1)
	require.True(t, created)
	assert.Equal(t, types.RoundID("round-1"), round.ID)
	assert.Equal(t, []types.UserID{1}, round.Players)
	assert.True(t, round.InLobby())

	again, created := registry.CreateRound(1)
	assert.False(t, created)
	assert.Equal(t, round, again)
	assert.Equal(t, []types.RoundID{"round-1"}, registry.ListJoinableRounds())

	active, ok := registry.FindActiveRound(1)
	require.True(t, ok)
	assert.Equal(t, round.ID, active.ID)

	_, ok = registry.FindActiveRound(2)
	assert.False(t, ok)
}

func TestInMemoryRoundRegistry_CreateRound_duplicateID(t *testing.T) {
	registry := NewInMemoryRoundRegistry(NewInMemoryRoundRegistryOptions{
		NewRoundID: func() types.RoundID { return "same" },
	})

	_, created := registry.CreateRound(1)
	require.True(t, created)
	_, created = registry.CreateRound(2)
	assert.False(t, created)
	_, ok := registry.FindActiveRound(2)
	assert.False(t, ok)
}

func TestInMemoryRoundRegistry_FindRound_returnsCopy(t *testing.T) {
	registry := newTestRegistry()
	round, _ := registry.CreateRound(1)

	round.Players[0] = 99
	stored, ok := registry.FindRound(round.ID)
	require.True(t, ok)
	assert.Equal(t, []types.UserID{1}, stored.Players)

	_, ok = registry.FindRound("missing")
	assert.False(t, ok)
}

func TestInMemoryRoundRegistry_ApplyToActiveRound(t *testing.T) {
	registry := newTestRegistry()
	round, _ := registry.CreateRound(1)

	_, ok := registry.ApplyToActiveRound(2, addReady(2))
	assert.False(t, ok)

	msgs, ok := registry.ApplyToActiveRound(1, addReady(1))
	require.True(t, ok)
	assert.Equal(t, []messages.ClientMessage{{UserID: 1}}, msgs)

	stored, _ := registry.FindRound(round.ID)
	assert.Equal(t, []types.UserID{1}, stored.Phase.PlayersReady)
}

func TestInMemoryRoundRegistry_ApplyToActiveRound_passesTick(t *testing.T) {
	registry := newTestRegistry()
	registry.CreateRound(1)
	noop := func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
		return round, nil
	}
	registry.TickAll(noop)
	registry.TickAll(noop)

	var seen int64 = -1
	registry.ApplyToActiveRound(1, func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
		seen = tick
		return round, nil
	})

	assert.Equal(t, int64(2), seen)
}

func TestInMemoryRoundRegistry_TickAll(t *testing.T) {
	registry := newTestRegistry()
	registry.CreateRound(1)
	registry.CreateRound(2)
	registry.CreateRound(3)

	var visited []types.RoundID
	var ticks []int64
	msgs := registry.TickAll(func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
		visited = append(visited, round.ID)
		ticks = append(ticks, tick)
		return round, []messages.ClientMessage{{UserID: round.Players[0]}}
	})

	assert.Equal(t, []types.RoundID{"round-1", "round-2", "round-3"}, visited)
	assert.Equal(t, []int64{0, 0, 0}, ticks)
	assert.Len(t, msgs, 3)
	assert.Equal(t, int64(1), registry.Tick())
}

func TestInMemoryRoundRegistry_ListJoinableRounds(t *testing.T) {
	registry := newTestRegistry()
	assert.Equal(t, []types.RoundID{}, registry.ListJoinableRounds())

	registry.CreateRound(1)
	registry.CreateRound(2)
	registry.ApplyToActiveRound(1, func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
		round.Phase = types.NewLevelPhase(&types.LevelState{})
		return round, nil
	})

	assert.Equal(t, []types.RoundID{"round-2"}, registry.ListJoinableRounds())
}

func TestInMemoryRoundRegistry_JoinRound(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(r *InMemoryRoundRegistry)
		userID      types.UserID
		roundID     types.RoundID
		wantOK      bool
		wantPlayers []types.UserID
	}{
		{
			name:        "join lobby",
			setup:       func(r *InMemoryRoundRegistry) { r.CreateRound(1) },
			userID:      2,
			roundID:     "round-1",
			wantOK:      true,
			wantPlayers: []types.UserID{1, 2},
		},
		{
			name:        "already a player",
			setup:       func(r *InMemoryRoundRegistry) { r.CreateRound(1) },
			userID:      1,
			roundID:     "round-1",
			wantOK:      true,
			wantPlayers: []types.UserID{1},
		},
		{
			name:    "unknown round",
			setup:   func(r *InMemoryRoundRegistry) { r.CreateRound(1) },
			userID:  2,
			roundID: "round-9",
			wantOK:  false,
		},
		{
			name: "round already started",
			setup: func(r *InMemoryRoundRegistry) {
				r.CreateRound(1)
				r.ApplyToActiveRound(1, func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
					round.Phase = types.NewLevelPhase(&types.LevelState{})
					return round, nil
				})
			},
			userID:  2,
			roundID: "round-1",
			wantOK:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := newTestRegistry()
			tt.setup(registry)

			round, ok := registry.JoinRound(tt.userID, tt.roundID)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantPlayers, round.Players)
			active, ok := registry.FindActiveRound(tt.userID)
			require.True(t, ok)
			assert.Equal(t, tt.roundID, active.ID)
		})
	}
}

func TestInMemoryRoundRegistry_JoinRound_leavesPreviousRound(t *testing.T) {
	registry := newTestRegistry()
	registry.CreateRound(1)
	registry.CreateRound(2)
	registry.JoinRound(3, "round-1")

	// user 2 leaves round-2 empty, so it goes away
	_, ok := registry.JoinRound(2, "round-1")
	require.True(t, ok)
	_, ok = registry.FindRound("round-2")
	assert.False(t, ok)
	assert.Equal(t, []types.RoundID{"round-1"}, registry.ListJoinableRounds())

	// user 3 moves to a fresh round, round-1 keeps its other players
	registry.ApplyToActiveRound(3, addReady(3))
	registry.CreateRound(4)
	_, ok = registry.JoinRound(3, "round-3")
	require.True(t, ok)

	round, ok := registry.FindRound("round-1")
	require.True(t, ok)
	assert.Equal(t, []types.UserID{1, 2}, round.Players)
	assert.Empty(t, round.Phase.PlayersReady)
}

func TestInMemoryRoundRegistry_concurrentUpdatesAreNotLost(t *testing.T) {
	registry := newTestRegistry()
	round, _ := registry.CreateRound(1)
	for userID := types.UserID(2); userID <= 10; userID++ {
		_, ok := registry.JoinRound(userID, round.ID)
		require.True(t, ok)
	}

	const perUser = 50
	var wg sync.WaitGroup
	for userID := types.UserID(1); userID <= 10; userID++ {
		wg.Add(1)
		go func(userID types.UserID) {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				registry.ApplyToActiveRound(userID, addReady(userID))
			}
		}(userID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < perUser; i++ {
			registry.TickAll(func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
				return round, nil
			})
		}
	}()
	wg.Wait()

	stored, ok := registry.FindRound(round.ID)
	require.True(t, ok)
	assert.Len(t, stored.Phase.PlayersReady, 10*perUser)
	assert.Equal(t, int64(perUser), registry.Tick())
}
