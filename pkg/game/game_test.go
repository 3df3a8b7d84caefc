package game

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/cbodonnell/rocketjam/pkg/game/constants"
	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/cbodonnell/rocketjam/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(registry state.RoundRegistry, ch chan messages.ClientMessage) *GameManager {
	return NewGameManager(NewGameManagerOptions{
		Registry:          registry,
		ServerMessageChan: ch,
		GameLoopInterval:  time.Millisecond,
		Rand:              rand.New(rand.NewSource(1)),
	})
}

func TestGameManager_Start_invalidInterval(t *testing.T) {
	gm := NewGameManager(NewGameManagerOptions{
		Registry:          state.NewInMemoryRoundRegistry(state.NewInMemoryRoundRegistryOptions{}),
		ServerMessageChan: make(chan messages.ClientMessage),
	})

	assert.Error(t, gm.Start(context.Background()))
}

func TestGameManager_Start_stopsOnCancel(t *testing.T) {
	registry := state.NewInMemoryRoundRegistry(state.NewInMemoryRoundRegistryOptions{})
	gm := newTestManager(registry, make(chan messages.ClientMessage, 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- gm.Start(ctx)
	}()

	require.Eventually(t, func() bool { return registry.Tick() > 2 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("game loop did not stop")
	}
}

func TestGameManager_gameTick_idleRoundsAreQuiet(t *testing.T) {
	registry := state.NewInMemoryRoundRegistry(state.NewInMemoryRoundRegistryOptions{})
	_, created := registry.CreateRound(1)
	require.True(t, created)
	ch := make(chan messages.ClientMessage, 8)
	gm := newTestManager(registry, ch)

	for i := 0; i < 10; i++ {
		gm.gameTick()
	}

	assert.Equal(t, int64(10), registry.Tick())
	assert.Empty(t, ch)
}

// TestGameManager_twoPlayerRound plays a round the way two clients would:
// both get ready, the level starts, nobody acts and the first instructions
// run out.
func TestGameManager_twoPlayerRound(t *testing.T) {
	registry := state.NewInMemoryRoundRegistry(state.NewInMemoryRoundRegistryOptions{
		NewRoundID: func() types.RoundID { return "round-1" },
	})
	ch := make(chan messages.ClientMessage, 16)
	gm := newTestManager(registry, ch)
	rng := rand.New(rand.NewSource(2))

	_, created := registry.CreateRound(1)
	require.True(t, created)
	_, ok := registry.JoinRound(2, "round-1")
	require.True(t, ok)
	assert.Equal(t, []types.RoundID{"round-1"}, registry.ListJoinableRounds())

	toggle := func(userID types.UserID) []messages.ClientMessage {
		msgs, ok := registry.ApplyToActiveRound(userID, func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
			return ApplyCommand(rng, round, userID, messages.Command{Type: messages.CommandTypeToggleReady}, tick)
		})
		require.True(t, ok)
		return msgs
	}

	msgs := toggle(1)
	require.Len(t, msgs, 2)
	assert.Equal(t, messages.NewLobbyClientState(2, 1), *msgs[0].Update.ClientState)

	msgs = toggle(2)
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		clientState := msg.Update.ClientState
		require.Equal(t, messages.ClientStateTypeInGame, clientState.Type)
		assert.Len(t, clientState.InGame.Items, constants.ItemsPerPlayer)
		assert.NotEmpty(t, clientState.InGame.CurrentInstruction)
	}
	assert.Empty(t, registry.ListJoinableRounds())

	for i := int64(0); i <= constants.InstructionWindowTicks; i++ {
		gm.gameTick()
	}
	require.Len(t, ch, 2)
	for i := 0; i < 2; i++ {
		msg := <-ch
		assert.Equal(t, 2, msg.Update.ClientState.InGame.MissedCount)
	}

	round, ok := registry.FindRound("round-1")
	require.True(t, ok)
	assert.Equal(t, 2, round.Phase.Level.MissedCount)
	for _, instruction := range round.Phase.Level.Instructions {
		assert.Equal(t, 2*constants.InstructionWindowTicks, instruction.ExpiresAtTick)
	}
}

func TestGameManager_gameTick_dropsWhenChannelFull(t *testing.T) {
	registry := state.NewInMemoryRoundRegistry(state.NewInMemoryRoundRegistryOptions{})
	round, _ := registry.CreateRound(1)
	_, ok := registry.JoinRound(2, round.ID)
	require.True(t, ok)
	rng := rand.New(rand.NewSource(3))
	for _, userID := range []types.UserID{1, 2} {
		userID := userID
		registry.ApplyToActiveRound(userID, func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
			return ApplyCommand(rng, round, userID, messages.Command{Type: messages.CommandTypeToggleReady}, tick)
		})
	}

	ch := make(chan messages.ClientMessage, 1)
	gm := newTestManager(registry, ch)
	for i := int64(0); i <= constants.InstructionWindowTicks; i++ {
		gm.gameTick()
	}

	assert.Len(t, ch, 1)
}
