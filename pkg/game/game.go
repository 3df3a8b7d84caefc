package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/cbodonnell/rocketjam/pkg/state"
)

// GameManager advances every round on a fixed tick.
type GameManager struct {
	registry          state.RoundRegistry
	serverMessageChan chan<- messages.ClientMessage
	gameLoopInterval  time.Duration
	rng               *rand.Rand
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Registry          state.RoundRegistry
	ServerMessageChan chan<- messages.ClientMessage
	GameLoopInterval  time.Duration
	// Rand is the random source for replacement instructions. Defaults to a
	// source seeded from the clock.
	Rand *rand.Rand
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GameManager{
		registry:          opts.Registry,
		serverMessageChan: opts.ServerMessageChan,
		gameLoopInterval:  opts.GameLoopInterval,
		rng:               rng,
	}
}

// Start runs the game loop until ctx is done.
func (gm *GameManager) Start(ctx context.Context) error {
	if gm.gameLoopInterval <= 0 {
		return fmt.Errorf("game loop interval must be positive, got %v", gm.gameLoopInterval)
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.gameTick()
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick() {
	msgs := gm.registry.TickAll(func(round types.Round, tick int64) (types.Round, []messages.ClientMessage) {
		return ApplyTick(gm.rng, round, tick)
	})
	if len(msgs) == 0 {
		return
	}

	log.Trace("Tick produced %d messages", len(msgs))
	if dropped := messages.Publish(gm.serverMessageChan, msgs); dropped > 0 {
		log.Warn("Server message channel full, dropped %d tick messages", dropped)
	}
}
