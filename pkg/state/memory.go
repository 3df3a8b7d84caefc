package state

import (
	"sync"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/google/uuid"
)

var _ RoundRegistry = &InMemoryRoundRegistry{}

// InMemoryRoundRegistry keeps every round in memory behind one lock.
// Critical sections only run pure transitions, never I/O.
type InMemoryRoundRegistry struct {
	lock              sync.RWMutex
	roundsByID        map[types.RoundID]types.Round
	activeRoundByUser map[types.UserID]types.RoundID
	// order keeps round IDs in creation order so sweeps and listings are stable
	order      []types.RoundID
	tick       int64
	newRoundID func() types.RoundID
}

type NewInMemoryRoundRegistryOptions struct {
	// NewRoundID generates round IDs. Defaults to random UUIDs.
	NewRoundID func() types.RoundID
}

func NewInMemoryRoundRegistry(opts NewInMemoryRoundRegistryOptions) *InMemoryRoundRegistry {
	newRoundID := opts.NewRoundID
	if newRoundID == nil {
		newRoundID = func() types.RoundID {
			return types.RoundID(uuid.NewString())
		}
	}
	return &InMemoryRoundRegistry{
		roundsByID:        make(map[types.RoundID]types.Round),
		activeRoundByUser: make(map[types.UserID]types.RoundID),
		newRoundID:        newRoundID,
	}
}

func (m *InMemoryRoundRegistry) CreateRound(creatorID types.UserID) (types.Round, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if roundID, ok := m.activeRoundByUser[creatorID]; ok {
		log.Debug("User %d already plays in round %s", creatorID, roundID)
		return m.roundsByID[roundID].Copy(), false
	}

	roundID := m.newRoundID()
	if _, exists := m.roundsByID[roundID]; exists {
		log.Error("Round ID %s generated twice", roundID)
		return types.Round{}, false
	}
	round := types.NewRound(roundID, creatorID)
	m.roundsByID[roundID] = round
	m.activeRoundByUser[creatorID] = roundID
	m.order = append(m.order, roundID)

	return round.Copy(), true
}

func (m *InMemoryRoundRegistry) FindActiveRound(userID types.UserID) (types.Round, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	roundID, ok := m.activeRoundByUser[userID]
	if !ok {
		return types.Round{}, false
	}
	round, ok := m.roundsByID[roundID]
	if !ok {
		return types.Round{}, false
	}
	return round.Copy(), true
}

func (m *InMemoryRoundRegistry) FindRound(roundID types.RoundID) (types.Round, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	round, ok := m.roundsByID[roundID]
	if !ok {
		return types.Round{}, false
	}
	return round.Copy(), true
}

func (m *InMemoryRoundRegistry) ApplyToActiveRound(userID types.UserID, transition RoundTransition) ([]messages.ClientMessage, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	roundID, ok := m.activeRoundByUser[userID]
	if !ok {
		return nil, false
	}
	round, ok := m.roundsByID[roundID]
	if !ok {
		log.Error("User %d is indexed to missing round %s", userID, roundID)
		delete(m.activeRoundByUser, userID)
		return nil, false
	}

	next, msgs := transition(round.Copy(), m.tick)
	m.roundsByID[roundID] = next
	return msgs, true
}

func (m *InMemoryRoundRegistry) TickAll(transition RoundTransition) []messages.ClientMessage {
	m.lock.Lock()
	defer m.lock.Unlock()

	var msgs []messages.ClientMessage
	for _, roundID := range m.order {
		next, roundMsgs := transition(m.roundsByID[roundID].Copy(), m.tick)
		m.roundsByID[roundID] = next
		msgs = append(msgs, roundMsgs...)
	}
	m.tick++

	return msgs
}

func (m *InMemoryRoundRegistry) ListJoinableRounds() []types.RoundID {
	m.lock.RLock()
	defer m.lock.RUnlock()

	roundIDs := make([]types.RoundID, 0)
	for _, roundID := range m.order {
		if m.roundsByID[roundID].InLobby() {
			roundIDs = append(roundIDs, roundID)
		}
	}
	return roundIDs
}

func (m *InMemoryRoundRegistry) JoinRound(userID types.UserID, roundID types.RoundID) (types.Round, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	round, ok := m.roundsByID[roundID]
	if !ok {
		log.Warn("Round %s not found", roundID)
		return types.Round{}, false
	}
	if round.HasPlayer(userID) {
		m.activeRoundByUser[userID] = roundID
		return round.Copy(), true
	}
	if !round.InLobby() {
		log.Warn("Round %s has already started, user %d cannot join", roundID, userID)
		return types.Round{}, false
	}

	if previousID, ok := m.activeRoundByUser[userID]; ok {
		m.removePlayer(userID, previousID)
	}

	next := round.Copy()
	next.Players = append(next.Players, userID)
	m.roundsByID[roundID] = next
	m.activeRoundByUser[userID] = roundID

	return next.Copy(), true
}

func (m *InMemoryRoundRegistry) Tick() int64 {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.tick
}

// removePlayer takes userID out of a round it is leaving and drops the round
// once nobody is left in it. The caller must hold the write lock.
func (m *InMemoryRoundRegistry) removePlayer(userID types.UserID, roundID types.RoundID) {
	round, ok := m.roundsByID[roundID]
	if !ok {
		return
	}

	next := round.Copy()
	next.Players = without(next.Players, userID)
	next.Phase.PlayersReady = without(next.Phase.PlayersReady, userID)
	if next.Phase.Level != nil {
		instructions := make([]types.Instruction, 0, len(next.Phase.Level.Instructions))
		for _, instruction := range next.Phase.Level.Instructions {
			if instruction.TargetID != userID {
				instructions = append(instructions, instruction)
			}
		}
		next.Phase.Level.Instructions = instructions
	}
	delete(m.activeRoundByUser, userID)

	if len(next.Players) > 0 {
		m.roundsByID[roundID] = next
		return
	}

	log.Info("Round %s has no players left, removing it", roundID)
	delete(m.roundsByID, roundID)
	order := make([]types.RoundID, 0, len(m.order))
	for _, id := range m.order {
		if id != roundID {
			order = append(order, id)
		}
	}
	m.order = order
}

func without(users []types.UserID, userID types.UserID) []types.UserID {
	if users == nil {
		return nil
	}
	filtered := make([]types.UserID, 0, len(users))
	for _, id := range users {
		if id != userID {
			filtered = append(filtered, id)
		}
	}
	return filtered
}
