package game

import (
	"fmt"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
)

// ClientStateFor projects the round as seen by viewer. In a level the viewer
// only sees their own items and their own instruction.
func ClientStateFor(viewer types.UserID, round types.Round) messages.ClientState {
	if round.Phase.Kind != types.PhaseLevel || round.Phase.Level == nil {
		return messages.NewLobbyClientState(len(round.Players), len(round.Phase.PlayersReady))
	}

	level := round.Phase.Level
	items := make([]messages.ClientItem, 0)
	for _, item := range level.Items {
		if item.OwnerID != viewer {
			continue
		}
		items = append(items, messages.ClientItem{
			ID:       item.ID,
			Label:    item.Label,
			State:    item.State,
			MaxValue: item.MaxValue,
		})
	}

	return messages.NewInGameClientState(messages.InGameState{
		CurrentInstruction: instructionText(viewer, round),
		Items:              items,
		ExecutedCount:      level.ExecutedCount,
		MissedCount:        level.MissedCount,
	})
}

func instructionText(viewer types.UserID, round types.Round) string {
	level := round.Phase.Level
	instruction, ok := level.InstructionFor(viewer)
	if !ok {
		log.Debug("User %d has no instruction in round %s", viewer, round.ID)
		return ""
	}
	item, ok := level.FindItem(instruction.ItemID)
	if !ok {
		log.Error("Instruction for user %d references unknown item %d in round %s", viewer, instruction.ItemID, round.ID)
		return ""
	}
	return fmt.Sprintf("Turn %s to %d", item.Label, instruction.RequiredState)
}

// UpdatesForPlayers returns one UpdateGameState per player of the round,
// each carrying that player's own projection.
func UpdatesForPlayers(round types.Round) []messages.ClientMessage {
	msgs := make([]messages.ClientMessage, 0, len(round.Players))
	for _, userID := range round.Players {
		msgs = append(msgs, messages.ClientMessage{
			UserID: userID,
			Update: messages.NewUpdateGameState(ClientStateFor(userID, round)),
		})
	}
	return msgs
}
