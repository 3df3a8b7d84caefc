package workers

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	mocks "github.com/cbodonnell/rocketjam/mocks/github.com/cbodonnell/rocketjam/pkg/queue"
	"github.com/cbodonnell/rocketjam/pkg/auth"
	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/cbodonnell/rocketjam/pkg/network"
	"github.com/cbodonnell/rocketjam/pkg/repositories/models"
	"github.com/cbodonnell/rocketjam/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeIdentities knows users 1 to 9.
type fakeIdentities struct {
	auth.IdentityResolver
}

func (fakeIdentities) FindByID(ctx context.Context, id types.UserID) (*models.User, error) {
	if id < 1 || id > 9 {
		return nil, auth.ErrUserNotFound
	}
	return &models.User{ID: id}, nil
}

type actionFixture struct {
	worker   *ActionWorker
	sessions *network.SessionManager
	registry *state.InMemoryRoundRegistry
	out      chan messages.ClientMessage
}

func newActionFixture(actionQueue *mocks.Queue) *actionFixture {
	sessions := network.NewSessionManager()
	for userID := types.UserID(1); userID <= 10; userID++ {
		sessions.RegisterOrSupersede(tokenFor(userID), userID)
	}
	registry := state.NewInMemoryRoundRegistry(state.NewInMemoryRoundRegistryOptions{
		NewRoundID: func() types.RoundID { return "round-1" },
	})
	out := make(chan messages.ClientMessage, 64)
	worker := NewActionWorker(NewActionWorkerOptions{
		ActionQueue:       actionQueue,
		Sessions:          sessions,
		Identities:        fakeIdentities{},
		Registry:          registry,
		ServerMessageChan: out,
		Rand:              rand.New(rand.NewSource(1)),
	})
	return &actionFixture{worker: worker, sessions: sessions, registry: registry, out: out}
}

func tokenFor(userID types.UserID) string {
	return fmt.Sprintf("token-%d", userID)
}

func action(userID types.UserID, command messages.Command) *messages.ActionEnvelope {
	return &messages.ActionEnvelope{Token: tokenFor(userID), Command: command}
}

func updateTypes(msgs []messages.ClientMessage) []messages.UpdateType {
	got := make([]messages.UpdateType, 0, len(msgs))
	for _, msg := range msgs {
		got = append(got, msg.Update.Type)
	}
	return got
}

func TestActionWorker_processAction_resolutionFailures(t *testing.T) {
	f := newActionFixture(nil)
	ctx := context.Background()

	assert.Empty(t, f.worker.processAction(ctx, &messages.ActionEnvelope{
		Token:   "unknown",
		Command: messages.Command{Type: messages.CommandTypeStartGame},
	}))
	// token-10 is registered for user 10, who does not exist
	assert.Empty(t, f.worker.processAction(ctx, action(10, messages.Command{Type: messages.CommandTypeStartGame})))
	assert.Empty(t, f.registry.ListJoinableRounds())
}

func TestActionWorker_processAction_lobbyDiscovery(t *testing.T) {
	f := newActionFixture(nil)
	ctx := context.Background()

	msgs := f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeInit}))
	assert.Equal(t, []messages.UpdateType{messages.UpdateTypeHelloClient, messages.UpdateTypeAvailableRounds}, updateTypes(msgs))
	assert.Empty(t, msgs[1].Update.RoundIDs)

	msgs = f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeToggleReady}))
	assert.Empty(t, msgs)

	msgs = f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeStartGame}))
	require.Len(t, msgs, 1)
	assert.Equal(t, types.UserID(1), msgs[0].UserID)
	assert.Equal(t, messages.UpdateTypeEnterRound, msgs[0].Update.Type)
	assert.Equal(t, messages.NewLobbyClientState(1, 0), *msgs[0].Update.ClientState)

	msgs = f.worker.processAction(ctx, action(2, messages.Command{Type: messages.CommandTypeGetAvailableRounds}))
	require.Len(t, msgs, 1)
	assert.Equal(t, []types.RoundID{"round-1"}, msgs[0].Update.RoundIDs)

	msgs = f.worker.processAction(ctx, action(2, messages.Command{Type: messages.CommandTypeJoinGame, RoundID: "round-1"}))
	require.Len(t, msgs, 2)
	assert.Equal(t, types.UserID(1), msgs[0].UserID)
	assert.Equal(t, messages.UpdateTypeUpdateGameState, msgs[0].Update.Type)
	assert.Equal(t, messages.NewLobbyClientState(2, 0), *msgs[0].Update.ClientState)
	assert.Equal(t, types.UserID(2), msgs[1].UserID)
	assert.Equal(t, messages.UpdateTypeEnterRound, msgs[1].Update.Type)

	msgs = f.worker.processAction(ctx, action(3, messages.Command{Type: messages.CommandTypeJoinGame, RoundID: "round-9"}))
	assert.Empty(t, msgs)
}

func TestActionWorker_processAction_initInsideRound(t *testing.T) {
	f := newActionFixture(nil)
	ctx := context.Background()
	f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeStartGame}))

	msgs := f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeInit}))

	assert.Equal(t, []messages.UpdateType{messages.UpdateTypeHelloClient, messages.UpdateTypeEnterRound}, updateTypes(msgs))
}

func TestActionWorker_processAction_startGameTwice(t *testing.T) {
	f := newActionFixture(nil)
	ctx := context.Background()

	first := f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeStartGame}))
	second := f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeStartGame}))

	require.Len(t, first, 1)
	// inside a round StartGame is a no-op of the state machine
	assert.Empty(t, second)
	assert.Len(t, f.registry.ListJoinableRounds(), 1)
}

func TestActionWorker_processAction_playsARound(t *testing.T) {
	f := newActionFixture(nil)
	ctx := context.Background()
	f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeStartGame}))
	f.worker.processAction(ctx, action(2, messages.Command{Type: messages.CommandTypeJoinGame, RoundID: "round-1"}))

	msgs := f.worker.processAction(ctx, action(1, messages.Command{Type: messages.CommandTypeToggleReady}))
	require.Len(t, msgs, 2)
	assert.Equal(t, 1, msgs[0].Update.ClientState.Lobby.PlayerReadyCount)

	msgs = f.worker.processAction(ctx, action(2, messages.Command{Type: messages.CommandTypeToggleReady}))
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.Equal(t, messages.ClientStateTypeInGame, msg.Update.ClientState.Type)
	}
	assert.Empty(t, f.registry.ListJoinableRounds())

	// user 1 works through its instruction on user 2's item
	round, ok := f.registry.FindActiveRound(1)
	require.True(t, ok)
	instruction, ok := round.Phase.Level.InstructionFor(1)
	require.True(t, ok)
	msgs = f.worker.processAction(ctx, action(2, messages.Command{
		Type:   messages.CommandTypeChangeSetting,
		ItemID: instruction.ItemID,
		Value:  instruction.RequiredState,
	}))
	require.Len(t, msgs, 2)
	assert.Equal(t, 1, msgs[0].Update.ClientState.InGame.ExecutedCount)
}

func TestActionWorker_Start(t *testing.T) {
	actionQueue := mocks.NewQueue(t)
	f := newActionFixture(actionQueue)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	actionQueue.EXPECT().Dequeue(mock.Anything).Return(action(1, messages.Command{Type: messages.CommandTypeInit}), nil).Once()
	actionQueue.EXPECT().Dequeue(mock.Anything).Return("not an action", nil).Once()
	actionQueue.EXPECT().Dequeue(mock.Anything).RunAndReturn(func(ctx context.Context) (interface{}, error) {
		cancel()
		return nil, context.Canceled
	}).Once()

	f.worker.Start(ctx)

	require.Len(t, f.out, 2)
	assert.Equal(t, messages.UpdateTypeHelloClient, (<-f.out).Update.Type)
	assert.Equal(t, messages.UpdateTypeAvailableRounds, (<-f.out).Update.Type)
}
