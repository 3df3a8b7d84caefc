package types

// PhaseKind tells which part of its lifetime a round is in.
type PhaseKind int

const (
	// PhaseLobby is the readiness gate before a level starts
	PhaseLobby PhaseKind = iota
	// PhaseLevel is the timed-task gameplay. A round never leaves it.
	PhaseLevel
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseLobby:
		return "lobby"
	case PhaseLevel:
		return "level"
	default:
		return "unknown"
	}
}

// Round is one running instance of the game.
// Rounds are treated as values: code that changes a round builds a new one
// with Copy and never edits a round that is visible to another goroutine.
type Round struct {
	ID RoundID
	// Players in join order, without duplicates
	Players []UserID
	Phase   Phase
}

// Phase holds the lobby or level specific part of a round.
type Phase struct {
	Kind PhaseKind
	// PlayersReady is only meaningful in PhaseLobby and is a subset of the round's players
	PlayersReady []UserID
	// Level is only set in PhaseLevel
	Level *LevelState
}

// LevelState is the gameplay state of a round in PhaseLevel.
type LevelState struct {
	// AvailableItems is the shuffled pool items are dealt from, consumed from the end
	AvailableItems []CatalogItem
	Items          []Item
	Instructions   []Instruction
	ExecutedCount  int
	MissedCount    int
}

// CatalogItem is an item that has not been dealt to a player yet.
type CatalogItem struct {
	ID       ItemID
	Label    string
	MaxValue int
}

// Item is an item owned by one player. Only its owner can change its state,
// and only other players are instructed to have it changed.
type Item struct {
	ID       ItemID
	Label    string
	State    int
	OwnerID  UserID
	MaxValue int
}

// Instruction asks TargetID to get ItemID into RequiredState before ExpiresAtTick.
type Instruction struct {
	TargetID      UserID
	ItemID        ItemID
	RequiredState int
	ExpiresAtTick int64
}

// NewRound returns a round in the lobby with creatorID as its only player.
func NewRound(id RoundID, creatorID UserID) Round {
	return Round{
		ID:      id,
		Players: []UserID{creatorID},
		Phase:   NewLobbyPhase(),
	}
}

// NewLobbyPhase returns an empty lobby.
func NewLobbyPhase() Phase {
	return Phase{
		Kind:         PhaseLobby,
		PlayersReady: []UserID{},
	}
}

// NewLevelPhase returns a level phase wrapping state.
func NewLevelPhase(state *LevelState) Phase {
	return Phase{
		Kind:  PhaseLevel,
		Level: state,
	}
}

// InLobby reports whether the round is still gated on readiness.
func (r Round) InLobby() bool {
	return r.Phase.Kind == PhaseLobby
}

// HasPlayer reports whether userID has joined the round.
func (r Round) HasPlayer(userID UserID) bool {
	return containsUser(r.Players, userID)
}

// IsReady reports whether userID is in the lobby's ready set.
func (p Phase) IsReady(userID UserID) bool {
	return containsUser(p.PlayersReady, userID)
}

// Copy returns a deep copy of the round.
func (r Round) Copy() Round {
	return Round{
		ID:      r.ID,
		Players: append([]UserID{}, r.Players...),
		Phase:   r.Phase.Copy(),
	}
}

// Copy returns a deep copy of the phase.
func (p Phase) Copy() Phase {
	c := Phase{Kind: p.Kind}
	if p.PlayersReady != nil {
		c.PlayersReady = append([]UserID{}, p.PlayersReady...)
	}
	if p.Level != nil {
		c.Level = p.Level.Copy()
	}
	return c
}

// Copy returns a deep copy of the level state.
func (l *LevelState) Copy() *LevelState {
	return &LevelState{
		AvailableItems: append([]CatalogItem{}, l.AvailableItems...),
		Items:          append([]Item{}, l.Items...),
		Instructions:   append([]Instruction{}, l.Instructions...),
		ExecutedCount:  l.ExecutedCount,
		MissedCount:    l.MissedCount,
	}
}

// FindItem returns the item with the given ID.
func (l *LevelState) FindItem(itemID ItemID) (Item, bool) {
	for _, item := range l.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// InstructionFor returns the live instruction targeting userID.
func (l *LevelState) InstructionFor(userID UserID) (Instruction, bool) {
	for _, instruction := range l.Instructions {
		if instruction.TargetID == userID {
			return instruction, true
		}
	}
	return Instruction{}, false
}

func containsUser(users []UserID, userID UserID) bool {
	for _, id := range users {
		if id == userID {
			return true
		}
	}
	return false
}
