package game

import (
	"math/rand"

	"github.com/cbodonnell/rocketjam/pkg/game/constants"
	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
)

// The functions in this file are the round state machine. They never touch
// shared state: each takes a round by value and returns the next round along
// with the messages the transition produced. Randomness comes only from the
// rng argument so a seeded source replays a round exactly.

// InitRound returns a new round in the lobby with the creator as its only player.
func InitRound(id types.RoundID, creatorID types.UserID) types.Round {
	return types.NewRound(id, creatorID)
}

// ApplyCommand applies a command sent by actor to the round.
// Commands that do not match the round's phase, or that reference something
// the actor does not own, leave the round unchanged and produce no messages.
func ApplyCommand(rng *rand.Rand, round types.Round, actor types.UserID, command messages.Command, currentTick int64) (types.Round, []messages.ClientMessage) {
	if !round.HasPlayer(actor) {
		log.Debug("User %d is not a player of round %s, ignoring %s", actor, round.ID, command.Type)
		return round, nil
	}

	var next types.Round
	var changed bool
	switch {
	case command.Type == messages.CommandTypeToggleReady && round.Phase.Kind == types.PhaseLobby:
		next, changed = toggleReady(rng, round, actor, currentTick)
	case command.Type == messages.CommandTypeChangeSetting && round.Phase.Kind == types.PhaseLevel:
		next, changed = changeSetting(rng, round, actor, command.ItemID, command.Value, currentTick)
	default:
		log.Debug("Ignoring %s from user %d in %s of round %s", command.Type, actor, round.Phase.Kind, round.ID)
	}
	if !changed {
		return round, nil
	}

	return next, UpdatesForPlayers(next)
}

// ApplyTick expires every instruction that reaches the end of its window at
// currentTick, counts it as missed and hands its target a new instruction.
// A round with nothing to expire is returned as is, with no messages.
func ApplyTick(rng *rand.Rand, round types.Round, currentTick int64) (types.Round, []messages.ClientMessage) {
	if round.Phase.Kind != types.PhaseLevel || round.Phase.Level == nil {
		return round, nil
	}

	level := round.Phase.Level
	expired := false
	for _, instruction := range level.Instructions {
		if instruction.ExpiresAtTick == currentTick {
			expired = true
			break
		}
	}
	if !expired {
		return round, nil
	}

	next := round.Copy()
	nextLevel := next.Phase.Level
	instructions := make([]types.Instruction, 0, len(nextLevel.Instructions))
	for _, instruction := range nextLevel.Instructions {
		if instruction.ExpiresAtTick != currentTick {
			instructions = append(instructions, instruction)
			continue
		}

		nextLevel.MissedCount++
		replacement, ok := MakeInstruction(rng, instruction.TargetID, nextLevel.Items, currentTick)
		if !ok {
			log.Error("No item to instruct user %d with in round %s", instruction.TargetID, round.ID)
			continue
		}
		instructions = append(instructions, replacement)
	}
	nextLevel.Instructions = instructions

	return next, UpdatesForPlayers(next)
}

// MakeInstruction picks an item not owned by target, uniformly at random, and
// asks target to get it to the opposite end of its range: an item at 0 must be
// turned to its max value, any other item back to 0.
// It returns false when every item belongs to target.
func MakeInstruction(rng *rand.Rand, target types.UserID, items []types.Item, currentTick int64) (types.Instruction, bool) {
	candidates := make([]types.Item, 0, len(items))
	for _, item := range items {
		if item.OwnerID != target {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return types.Instruction{}, false
	}

	item := candidates[rng.Intn(len(candidates))]
	requiredState := 0
	if item.State == 0 {
		requiredState = item.MaxValue
	}

	return types.Instruction{
		TargetID:      target,
		ItemID:        item.ID,
		RequiredState: requiredState,
		ExpiresAtTick: currentTick + constants.InstructionWindowTicks,
	}, true
}

// toggleReady flips actor's readiness. When every other player is already
// ready, the actor's toggle starts the level instead.
func toggleReady(rng *rand.Rand, round types.Round, actor types.UserID, currentTick int64) (types.Round, bool) {
	next := round.Copy()

	if round.Phase.IsReady(actor) {
		log.Debug("User %d was ready in round %s, turning off", actor, round.ID)
		ready := make([]types.UserID, 0, len(next.Phase.PlayersReady))
		for _, id := range next.Phase.PlayersReady {
			if id != actor {
				ready = append(ready, id)
			}
		}
		next.Phase.PlayersReady = ready
		return next, true
	}

	if len(round.Phase.PlayersReady) == len(round.Players)-1 {
		log.Info("Everybody is ready in round %s, starting level", round.ID)
		next.Phase = types.NewLevelPhase(newLevel(rng, round, currentTick))
		return next, true
	}

	log.Debug("User %d wasn't ready in round %s, turning on", actor, round.ID)
	next.Phase.PlayersReady = append(next.Phase.PlayersReady, actor)
	return next, true
}

// changeSetting sets the state of an item owned by actor and executes every
// instruction the new state satisfies.
func changeSetting(rng *rand.Rand, round types.Round, actor types.UserID, itemID types.ItemID, value int, currentTick int64) (types.Round, bool) {
	item, ok := round.Phase.Level.FindItem(itemID)
	if !ok || item.OwnerID != actor {
		log.Debug("User %d does not own item %d in round %s", actor, itemID, round.ID)
		return round, false
	}
	if value < 0 || value > item.MaxValue {
		log.Debug("Value %d out of range for item %d in round %s", value, itemID, round.ID)
		return round, false
	}

	next := round.Copy()
	level := next.Phase.Level
	for i := range level.Items {
		if level.Items[i].ID == itemID {
			level.Items[i].State = value
		}
	}

	instructions := make([]types.Instruction, 0, len(level.Instructions))
	for _, instruction := range level.Instructions {
		if instruction.ItemID != itemID || instruction.RequiredState != value {
			instructions = append(instructions, instruction)
			continue
		}

		level.ExecutedCount++
		replacement, ok := MakeInstruction(rng, instruction.TargetID, level.Items, currentTick)
		if !ok {
			log.Error("No item to instruct user %d with in round %s", instruction.TargetID, round.ID)
			continue
		}
		instructions = append(instructions, replacement)
	}
	level.Instructions = instructions

	return next, true
}

// newLevel deals items to every player from a freshly shuffled catalog and
// gives each player a first instruction.
func newLevel(rng *rand.Rand, round types.Round, currentTick int64) *types.LevelState {
	available := make([]types.CatalogItem, 0, len(constants.ItemCatalog))
	for i, label := range constants.ItemCatalog {
		available = append(available, types.CatalogItem{
			ID:       types.ItemID(i),
			Label:    label,
			MaxValue: constants.ItemMinMaxValue + rng.Intn(constants.ItemMaxMaxValue-constants.ItemMinMaxValue),
		})
	}
	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	items := make([]types.Item, 0, len(round.Players)*constants.ItemsPerPlayer)
	for _, userID := range round.Players {
		var dealt []types.Item
		dealt, available = dealItems(userID, constants.ItemsPerPlayer, available)
		items = append(items, dealt...)
	}

	instructions := make([]types.Instruction, 0, len(round.Players))
	for _, userID := range round.Players {
		instruction, ok := MakeInstruction(rng, userID, items, currentTick)
		if !ok {
			log.Error("No item to instruct user %d with in round %s", userID, round.ID)
			continue
		}
		instructions = append(instructions, instruction)
	}

	return &types.LevelState{
		AvailableItems: available,
		Items:          items,
		Instructions:   instructions,
	}
}

// dealItems pops up to count items off the end of available.
func dealItems(userID types.UserID, count int, available []types.CatalogItem) ([]types.Item, []types.CatalogItem) {
	items := make([]types.Item, 0, count)
	for i := 0; i < count; i++ {
		if len(available) == 0 {
			log.Warn("Ran out of available items dealing to user %d", userID)
			break
		}
		next := available[len(available)-1]
		available = available[:len(available)-1]
		items = append(items, types.Item{
			ID:       next.ID,
			Label:    next.Label,
			State:    0,
			OwnerID:  userID,
			MaxValue: next.MaxValue,
		})
	}
	return items, available
}
