package wordpack

var Classic = Pack{
	ID:   "classic",
	Name: "Classic",
	Icon: "🕵️",
	Words: []string{
		"APPLE", "BANANA", "ORANGE", "LEMON", "CHERRY", "GRAPE",
		"DOG", "CAT", "LION", "TIGER", "BEAR", "ZEBRA", "MONKEY",
		"SHARK", "WHALE", "DOLPHIN", "OCTOPUS", "EAGLE", "OWL", "PARROT",
		"PIANO", "GUITAR", "DRUM", "TRUMPET", "VIOLIN",
		"CASTLE", "KING", "QUEEN", "DRAGON", "KNIGHT", "WIZARD",
		"SHIP", "ANCHOR", "TREASURE", "ISLAND",
		"MOON", "STAR", "ROCKET", "PLANET",
		"SNOW", "ICE", "FIRE", "RAIN", "CLOUD",
		"BALL", "BAT", "NET", "GOAL",
		"CAKE", "COOKIE", "HONEY", "BREAD",
		"GHOST", "WITCH", "PUMPKIN", "SPIDER",
	},
}

var Nature = Pack{
	ID:   "nature",
	Name: "Nature",
	Icon: "🌿",
	Words: []string{
		"TREE", "FLOWER", "RIVER", "MOUNTAIN", "BEACH", "ISLAND", "DESERT",
		"FOREST", "MUSHROOM", "BEE", "SPIDER", "OWL", "EAGLE", "BEAR",
		"FISH", "WHALE", "SHARK", "DOLPHIN", "SNOW", "ICE", "RAIN",
		"CLOUD", "WIND", "SUN", "MOON", "STAR", "WAVE", "SAND",
		"LEAF", "GRASS", "ROCK", "VOLCANO",
	},
}

var Fantasy = Pack{
	ID:   "fantasy",
	Name: "Fantasy",
	Icon: "🐉",
	Words: []string{
		"DRAGON", "WIZARD", "WITCH", "KNIGHT", "KING", "QUEEN", "PRINCE",
		"CASTLE", "TOWER", "SWORD", "SHIELD", "CROWN", "TREASURE", "GOLD",
		"GHOST", "GIANT", "TROLL", "UNICORN", "FAIRY", "POTION", "WAND",
		"CAVE", "FOREST", "MAP", "SHIP", "PIRATE", "ISLAND", "OWL",
	},
}
