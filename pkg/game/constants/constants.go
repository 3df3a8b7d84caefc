package constants

const (
	// ItemsPerPlayer is the number of items dealt to each player when a level starts
	ItemsPerPlayer int = 4
	// InstructionWindowTicks is the number of ticks a player has to carry out an instruction
	InstructionWindowTicks int64 = 5
	// ItemMinMaxValue is the lowest max value an item can be dealt with (inclusive)
	ItemMinMaxValue int = 2
	// ItemMaxMaxValue is the highest max value an item can be dealt with (exclusive)
	ItemMaxMaxValue int = 10
)

// ItemCatalog lists the labels items are dealt from. An item's ID is its
// index in this list.
var ItemCatalog = []string{
	"Chemex Coffeemaker",
	"Sound system",
	"Pizza oven",
	"Foot massager",
	"Heating",
	"Radio",
	"Windshield wiper",
	"Flux compensator",
	"Warp Core",
	"Fridge",
	"Fireplace",
	"Ventilation",
}
