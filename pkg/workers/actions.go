package workers

import (
	"context"
	"math/rand"
	"time"

	"github.com/cbodonnell/rocketjam/pkg/auth"
	"github.com/cbodonnell/rocketjam/pkg/game"
	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/cbodonnell/rocketjam/pkg/network"
	"github.com/cbodonnell/rocketjam/pkg/queue"
	"github.com/cbodonnell/rocketjam/pkg/state"
)

// SessionLookup resolves session tokens.
type SessionLookup interface {
	GetSession(token string) (network.Session, bool)
}

// ActionWorker applies client actions, in arrival order, one at a time.
type ActionWorker struct {
	actionQueue       queue.Queue
	sessions          SessionLookup
	identities        auth.IdentityResolver
	registry          state.RoundRegistry
	serverMessageChan chan<- messages.ClientMessage
	rng               *rand.Rand
}

type NewActionWorkerOptions struct {
	// ActionQueue holds *messages.ActionEnvelope items.
	ActionQueue       queue.Queue
	Sessions          SessionLookup
	Identities        auth.IdentityResolver
	Registry          state.RoundRegistry
	ServerMessageChan chan<- messages.ClientMessage
	// Rand defaults to a source seeded from the clock.
	Rand *rand.Rand
}

func NewActionWorker(opts NewActionWorkerOptions) *ActionWorker {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ActionWorker{
		actionQueue:       opts.ActionQueue,
		sessions:          opts.Sessions,
		identities:        opts.Identities,
		registry:          opts.Registry,
		serverMessageChan: opts.ServerMessageChan,
		rng:               rng,
	}
}

// Start processes actions until ctx is done.
func (w *ActionWorker) Start(ctx context.Context) {
	for {
		item, err := w.actionQueue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("Failed to dequeue action: %v", err)
			continue
		}

		action, ok := item.(*messages.ActionEnvelope)
		if !ok {
			log.Error("Unexpected item of type %T in action queue", item)
			continue
		}

		msgs := w.processAction(ctx, action)
		if dropped := messages.Publish(w.serverMessageChan, msgs); dropped > 0 {
			log.Warn("Server message channel full, dropped %d messages for %s", dropped, action.Command.Type)
		}
	}
}

func (w *ActionWorker) processAction(ctx context.Context, action *messages.ActionEnvelope) []messages.ClientMessage {
	session, ok := w.sessions.GetSession(action.Token)
	if !ok {
		log.Error("Couldn't find session for token %s", action.Token)
		return nil
	}
	user, err := w.identities.FindByID(ctx, session.UserID)
	if err != nil {
		log.Error("Session %s references missing user %d: %v", action.Token, session.UserID, err)
		return nil
	}

	userID := user.ID
	command := action.Command
	log.Debug("Processing %s from user %d", command.Type, userID)

	if command.Type == messages.CommandTypeInit {
		return w.handleInit(userID)
	}

	msgs, inRound := w.registry.ApplyToActiveRound(userID, func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
		return game.ApplyCommand(w.rng, round, userID, command, tick)
	})
	if inRound {
		return msgs
	}

	switch command.Type {
	case messages.CommandTypeGetAvailableRounds:
		return []messages.ClientMessage{w.availableRounds(userID)}
	case messages.CommandTypeStartGame:
		return w.handleStartGame(userID)
	case messages.CommandTypeJoinGame:
		return w.handleJoinGame(userID, command.RoundID)
	default:
		log.Debug("User %d is not in a round, ignoring %s", userID, command.Type)
		return nil
	}
}

// handleInit greets the client, then either puts it back into its round or
// lists the rounds it can join.
func (w *ActionWorker) handleInit(userID types.UserID) []messages.ClientMessage {
	msgs := []messages.ClientMessage{{UserID: userID, Update: messages.NewHelloClient()}}
	if round, ok := w.registry.FindActiveRound(userID); ok {
		return append(msgs, messages.ClientMessage{
			UserID: userID,
			Update: messages.NewEnterRound(game.ClientStateFor(userID, round)),
		})
	}
	return append(msgs, w.availableRounds(userID))
}

func (w *ActionWorker) availableRounds(userID types.UserID) messages.ClientMessage {
	return messages.ClientMessage{
		UserID: userID,
		Update: messages.NewAvailableRounds(w.registry.ListJoinableRounds()),
	}
}

func (w *ActionWorker) handleStartGame(userID types.UserID) []messages.ClientMessage {
	round, created := w.registry.CreateRound(userID)
	if !created && round.ID == "" {
		log.Error("Failed to create a round for user %d", userID)
		return nil
	}
	if created {
		log.Info("User %d created round %s", userID, round.ID)
	}
	return []messages.ClientMessage{{
		UserID: userID,
		Update: messages.NewEnterRound(game.ClientStateFor(userID, round)),
	}}
}

func (w *ActionWorker) handleJoinGame(userID types.UserID, roundID types.RoundID) []messages.ClientMessage {
	round, ok := w.registry.JoinRound(userID, roundID)
	if !ok {
		log.Warn("User %d could not join round %s", userID, roundID)
		return nil
	}
	log.Info("User %d joined round %s", userID, roundID)

	msgs := make([]messages.ClientMessage, 0, len(round.Players))
	for _, playerID := range round.Players {
		if playerID == userID {
			continue
		}
		msgs = append(msgs, messages.ClientMessage{
			UserID: playerID,
			Update: messages.NewUpdateGameState(game.ClientStateFor(playerID, round)),
		})
	}
	return append(msgs, messages.ClientMessage{
		UserID: userID,
		Update: messages.NewEnterRound(game.ClientStateFor(userID, round)),
	})
}
