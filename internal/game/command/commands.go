// Package command provides the command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryMovement      = "movement"
	CategoryWorld         = "world"
	CategoryCharacter     = "character"
	CategorySpells        = "spells"
	CategoryCombat        = "combat"
	CategoryCommunication = "communication"
	CategorySystem        = "system"
	CategoryAdmin         = "admin"
)

// Handler identifiers mapping commands to game server handlers.
const (
	HandlerMove     = "move"
	HandlerLook     = "look"
	HandlerExits    = "exits"
	HandlerSay      = "say"
	HandlerEmote    = "emote"
	HandlerWho      = "who"
	HandlerQuit     = "quit"
	HandlerHelp     = "help"
	HandlerScore    = "score"
	HandlerHouse    = "house"
	HandlerStatus   = "status"
	HandlerRemind   = "remind"
	HandlerCast     = "cast"
	HandlerHit      = "hit"
	HandlerGet      = "get"
	HandlerDrop     = "drop"
	HandlerTeleport = "teleport"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (movement, world, spells, system).
	Category string
	// Handler names the game server handler that runs the command.
	Handler string
	// Superuser commands are hidden from and refused to ordinary players.
	Superuser bool
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Movement commands
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northeast", Aliases: []string{"ne"}, Help: "Move northeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northwest", Aliases: []string{"nw"}, Help: "Move northwest", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southeast", Aliases: []string{"se"}, Help: "Move southeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southwest", Aliases: []string{"sw"}, Help: "Move southwest", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "up", Aliases: []string{"u"}, Help: "Move up", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "down", Aliases: []string{"d"}, Help: "Move down", Category: CategoryMovement, Handler: HandlerMove},

		// World commands
		{Name: "look", Aliases: []string{"l"}, Help: "Look around the current room", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "exits", Aliases: nil, Help: "List available exits", Category: CategoryWorld, Handler: HandlerExits},
		{Name: "get", Aliases: []string{"take"}, Help: "Take a wand from a wand rack (get wand)", Category: CategoryWorld, Handler: HandlerGet},
		{Name: "drop", Aliases: nil, Help: "Drop your wand (drop wand)", Category: CategoryWorld, Handler: HandlerDrop},

		// Character commands
		{Name: "score", Aliases: nil, Help: "Show a player's score (score <player> [+|= <value>])", Category: CategoryCharacter, Handler: HandlerScore},
		{Name: "house", Aliases: nil, Help: "Reveal the house of a player (house [player])", Category: CategoryCharacter, Handler: HandlerHouse},
		{Name: "status", Aliases: []string{"stat"}, Help: "Show your health, will and score", Category: CategoryCharacter, Handler: HandlerStatus},
		{Name: "remind", Aliases: nil, Help: "Repeat a spell puzzle (remind <number>)", Category: CategoryCharacter, Handler: HandlerRemind},

		// Spells
		{Name: "avis", Aliases: nil, Help: "Conjure a flock of birds", Category: CategorySpells, Handler: HandlerCast},
		{Name: "arania", Aliases: nil, Help: "Blast giant spiders away (arania exumai)", Category: CategorySpells, Handler: HandlerCast},
		{Name: "expecto", Aliases: nil, Help: "Drive off dementors (expecto patronum)", Category: CategorySpells, Handler: HandlerCast},
		{Name: "riddikulus", Aliases: nil, Help: "Laugh a boggart out of shape", Category: CategorySpells, Handler: HandlerCast},
		{Name: "immobulus", Aliases: nil, Help: "Freeze vermin in place", Category: CategorySpells, Handler: HandlerCast},
		{Name: "lumos", Aliases: nil, Help: "Flood the room with light (lumos maxima)", Category: CategorySpells, Handler: HandlerCast},
		{Name: "reducto", Aliases: nil, Help: "Blast a solid target apart", Category: CategorySpells, Handler: HandlerCast},
		{Name: "incendio", Aliases: nil, Help: "Set something on fire", Category: CategorySpells, Handler: HandlerCast},

		// Combat
		{Name: "hit", Aliases: []string{"attack", "kill"}, Help: "Strike a monster with your bare hands (hit <monster>)", Category: CategoryCombat, Handler: HandlerHit},

		// Communication commands
		{Name: "say", Aliases: []string{"'"}, Help: "Say something to the room", Category: CategoryCommunication, Handler: HandlerSay},
		{Name: "emote", Aliases: []string{"em", ":"}, Help: "Perform an emote action", Category: CategoryCommunication, Handler: HandlerEmote},

		// System commands
		{Name: "who", Aliases: nil, Help: "List connected players", Category: CategorySystem, Handler: HandlerWho},
		{Name: "quit", Aliases: []string{"exit", "logout"}, Help: "Disconnect from the game", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},

		// Admin commands
		{Name: "teleport", Aliases: []string{"tp"}, Help: "Move yourself to a room (teleport <room>)", Category: CategoryAdmin, Handler: HandlerTeleport, Superuser: true},
	}
}

// IsMovementCommand reports whether the command name is a movement direction.
func IsMovementCommand(name string) bool {
	switch name {
	case "north", "south", "east", "west",
		"northeast", "northwest", "southeast", "southwest",
		"up", "down":
		return true
	default:
		return false
	}
}
