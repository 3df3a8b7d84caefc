package messages

import (
	"fmt"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
)

// CommandType is the variant tag of a Command sent by a client.
type CommandType string

const (
	CommandTypeInit               CommandType = "Init"
	CommandTypeStartGame          CommandType = "StartGame"
	CommandTypeToggleReady        CommandType = "ToggleReady"
	CommandTypeChangeSetting      CommandType = "ChangeSetting"
	CommandTypeGetAvailableRounds CommandType = "GetAvailableRounds"
	CommandTypeJoinGame           CommandType = "JoinGame"
)

// Command is a client request. ItemID and Value are set for ChangeSetting,
// RoundID for JoinGame.
type Command struct {
	Type    CommandType   `json:"type"`
	ItemID  types.ItemID  `json:"itemId,omitempty"`
	Value   int           `json:"value,omitempty"`
	RoundID types.RoundID `json:"roundId,omitempty"`
}

// Validate checks that the command is a known variant carrying its fields.
func (c Command) Validate() error {
	switch c.Type {
	case CommandTypeInit, CommandTypeStartGame, CommandTypeToggleReady, CommandTypeGetAvailableRounds:
		return nil
	case CommandTypeChangeSetting:
		if c.Value < 0 {
			return fmt.Errorf("setting value must not be negative: %d", c.Value)
		}
		return nil
	case CommandTypeJoinGame:
		if c.RoundID == "" {
			return fmt.Errorf("join game requires a round id")
		}
		return nil
	default:
		return fmt.Errorf("unknown command type: %q", c.Type)
	}
}

// ActionEnvelope wraps a client command with the session token it was sent with.
type ActionEnvelope struct {
	Token   string  `json:"token"`
	Command Command `json:"command"`
}

// UpdateType is the variant tag of an Update sent to a client.
type UpdateType string

const (
	UpdateTypeHelloClient     UpdateType = "HelloClient"
	UpdateTypeUpdateGameState UpdateType = "UpdateGameState"
	UpdateTypeAvailableRounds UpdateType = "AvailableRounds"
	UpdateTypeEnterRound      UpdateType = "EnterRound"
)

// Update is a message from the server to one client.
type Update struct {
	Type        UpdateType      `json:"type"`
	ClientState *ClientState    `json:"clientState,omitempty"`
	RoundIDs    []types.RoundID `json:"roundIds,omitempty"`
}

func NewHelloClient() Update {
	return Update{Type: UpdateTypeHelloClient}
}

func NewUpdateGameState(state ClientState) Update {
	return Update{Type: UpdateTypeUpdateGameState, ClientState: &state}
}

func NewEnterRound(state ClientState) Update {
	return Update{Type: UpdateTypeEnterRound, ClientState: &state}
}

func NewAvailableRounds(roundIDs []types.RoundID) Update {
	return Update{Type: UpdateTypeAvailableRounds, RoundIDs: roundIDs}
}

// ClientStateType is the variant tag of a ClientState.
type ClientStateType string

const (
	ClientStateTypeLobby  ClientStateType = "Lobby"
	ClientStateTypeInGame ClientStateType = "InGame"
)

// ClientState is what one player gets to see of a round.
// Exactly one of Lobby and InGame is set, matching Type.
type ClientState struct {
	Type   ClientStateType `json:"type"`
	Lobby  *LobbyState     `json:"lobby,omitempty"`
	InGame *InGameState    `json:"inGame,omitempty"`
}

type LobbyState struct {
	PlayerCount      int `json:"playerCount"`
	PlayerReadyCount int `json:"playerReadyCount"`
}

type InGameState struct {
	CurrentInstruction string       `json:"currentInstruction"`
	Items              []ClientItem `json:"items"`
	ExecutedCount      int          `json:"executedCount"`
	MissedCount        int          `json:"missedCount"`
}

// ClientItem is an item as shown to its owner.
type ClientItem struct {
	ID       types.ItemID `json:"id"`
	Label    string       `json:"label"`
	State    int          `json:"state"`
	MaxValue int          `json:"maxValue"`
}

func NewLobbyClientState(playerCount, playerReadyCount int) ClientState {
	return ClientState{
		Type: ClientStateTypeLobby,
		Lobby: &LobbyState{
			PlayerCount:      playerCount,
			PlayerReadyCount: playerReadyCount,
		},
	}
}

func NewInGameClientState(state InGameState) ClientState {
	return ClientState{
		Type:   ClientStateTypeInGame,
		InGame: &state,
	}
}

// ClientMessage is an update addressed to every live session of a user.
type ClientMessage struct {
	UserID types.UserID
	Update Update
}

// EnvelopeType is the variant tag of an Envelope written to a push stream.
type EnvelopeType string

const (
	// EnvelopeTypeAppMsg carries an Update
	EnvelopeTypeAppMsg EnvelopeType = "AppMsg"
	// EnvelopeTypeSuperseded tells the stream consumer that a newer stream
	// took over its session and that it should stop
	EnvelopeTypeSuperseded EnvelopeType = "Superseded"
)

// Envelope is the unit written to a session's push channel.
type Envelope struct {
	Type   EnvelopeType `json:"type"`
	Update *Update      `json:"update,omitempty"`
}

func NewAppEnvelope(update Update) Envelope {
	return Envelope{Type: EnvelopeTypeAppMsg, Update: &update}
}

func NewSupersededEnvelope() Envelope {
	return Envelope{Type: EnvelopeTypeSuperseded}
}

// IsSuperseded reports whether the envelope is the terminal supersession signal.
func (e Envelope) IsSuperseded() bool {
	return e.Type == EnvelopeTypeSuperseded
}

// Publish hands msgs to ch without blocking. Messages that do not fit are
// dropped and counted; the return value is the number dropped.
func Publish(ch chan<- ClientMessage, msgs []ClientMessage) int {
	dropped := 0
	for _, msg := range msgs {
		select {
		case ch <- msg:
		default:
			dropped++
		}
	}
	return dropped
}
