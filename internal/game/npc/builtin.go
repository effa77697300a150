package npc

// Builtin returns validated copies of the stock monster table. It is used
// when no monster directory is configured.
func Builtin() []*Template {
	table := []Template{
		{
			ID:            "spider",
			Name:          "Giant Spider",
			Description:   "A spider the size of a carriage horse, legs clicking on the stone.",
			Kind:          KindMobile,
			FullHealth:    20,
			DeadTimer:     "100s",
			TickInterval:  Interval{Min: 2, Max: 3},
			MoveChance:    DefaultMoveChance,
			Damage:        "2",
			ScorePenalty:  1,
			Resource:      ResourceHealth,
			RequiresMagic: true,
			KillCounter:   "spiders",
			AttackVerbs:   []string{"pierces", "slashes"},
			Echoes: []string{
				"You hear a dry clicking of many legs.",
				"Strands of web drift down from the ceiling.",
			},
		},
		{
			ID:            "rodent",
			Name:          "Cannibulus Rodent",
			Description:   "A rat grown fat on its own kind. Its teeth are yellow and long.",
			Kind:          KindMobile,
			FullHealth:    15,
			DeadTimer:     "80s",
			TickInterval:  Interval{Min: 2, Max: 3},
			MoveChance:    DefaultMoveChance,
			Damage:        "1d3",
			ScorePenalty:  1,
			Resource:      ResourceHealth,
			RequiresMagic: true,
			KillCounter:   "rodents",
			AttackVerbs:   []string{"bites", "gnaws"},
			Texts: Texts{
				Defeat: "The rodents swarm over you and everything goes dark ...\n",
			},
		},
		{
			ID:            "dementor",
			Name:          "Dementor",
			Description:   "A hooded shape glides above the floor. The air turns to frost around it.",
			Kind:          KindStatic,
			FullHealth:    30,
			DeadTimer:     "120s",
			TickInterval:  Interval{Min: 3, Max: 4},
			Damage:        "3",
			ScorePenalty:  1,
			Resource:      ResourceWill,
			RequiresMagic: true,
			KillCounter:   "dementors",
			AttackVerbs:   []string{"drains", "chills"},
			Echoes:        []string{"Every happy memory seems suddenly far away."},
			Texts: Texts{
				Win: "A silver light floods the room and the Dementor flees into the dark.",
			},
		},
		{
			ID:            "parallax",
			Name:          "Parallax",
			Description:   "A shifting cloud of fear with a face that is never quite there.",
			Kind:          KindStatic,
			FullHealth:    25,
			DeadTimer:     "90s",
			TickInterval:  Interval{Min: 3, Max: 4},
			Damage:        "2",
			ScorePenalty:  1,
			Resource:      ResourceWill,
			RequiresMagic: true,
			KillCounter:   "parallax",
			AttackVerbs:   []string{"feeds on"},
		},
		{
			ID:            "medusa",
			Name:          "Medusa",
			Description:   "Snakes hiss where her hair should be. You know better than to meet her eyes.",
			Kind:          KindStatic,
			FullHealth:    40,
			DeadTimer:     "150s",
			TickInterval:  Interval{Min: 3, Max: 4},
			Damage:        "1d4+1",
			ScorePenalty:  2,
			Resource:      ResourceHealth,
			RequiresMagic: true,
			KillCounter:   "medusa",
			AttackVerbs:   []string{"glares at", "bites"},
		},
		{
			ID:            "willow",
			Name:          "Whomping Willow",
			Description:   "An ancient willow. Its branches twitch as you come closer.",
			Kind:          KindStatic,
			FullHealth:    50,
			DeadTimer:     "120s",
			TickInterval:  Interval{Min: 3, Max: 4},
			Damage:        "2d3",
			ScorePenalty:  2,
			Resource:      ResourceHealth,
			RequiresMagic: true,
			KillCounter:   "willow",
			AttackVerbs:   []string{"whomps", "lashes"},
			Texts: Texts{
				Win:     "The Whomping Willow freezes mid-swing, its branches hanging still.",
				Respawn: "The Whomping Willow creaks and starts to sway menacingly again.",
			},
		},
		{
			ID:            "boggart",
			Name:          "Boggart",
			Description:   "It looks exactly like the thing you fear the most.",
			Kind:          KindStatic,
			FullHealth:    20,
			DeadTimer:     "90s",
			TickInterval:  Interval{Min: 3, Max: 4},
			Damage:        "1d4",
			ScorePenalty:  1,
			Resource:      ResourceWill,
			RequiresMagic: true,
			KillCounter:   "boggart",
			AttackVerbs:   []string{"terrifies", "taunts"},
		},
	}

	out := make([]*Template, 0, len(table))
	for i := range table {
		t := table[i]
		if err := t.Validate(); err != nil {
			panic(err)
		}
		out = append(out, &t)
	}
	return out
}
