package advisor

// Association links a candidate clue to the board words it hints at.
type Association struct {
	Clue    string
	Related []string
}

// Table is an ordered association table. Order matters: ties between
// equally scored clues go to the entry that appears first.
type Table []Association

var DefaultTable = Table{
	{"FRUIT", []string{"APPLE", "BANANA", "ORANGE", "LEMON", "CHERRY", "GRAPE"}},
	{"YELLOW", []string{"BANANA", "LEMON", "SUN", "HONEY", "STAR", "GOLD", "SAND"}},
	{"SWEET", []string{"HONEY", "CAKE", "COOKIE", "CHERRY", "APPLE", "GRAPE"}},
	{"BAKE", []string{"CAKE", "COOKIE", "BREAD", "PUMPKIN"}},
	{"KITCHEN", []string{"BREAD", "CAKE", "COOKIE", "KNIFE", "ICE"}},
	{"PET", []string{"DOG", "CAT", "FISH", "PARROT"}},
	{"ZOO", []string{"LION", "TIGER", "BEAR", "ZEBRA", "MONKEY", "EAGLE", "PARROT"}},
	{"STRIPES", []string{"TIGER", "ZEBRA", "BEE"}},
	{"CLAW", []string{"CAT", "LION", "TIGER", "BEAR", "EAGLE", "DRAGON"}},
	{"BARK", []string{"DOG", "TREE", "LEAF"}},
	{"OCEAN", []string{"SHARK", "WHALE", "DOLPHIN", "OCTOPUS", "SHIP", "WAVE", "FISH", "ISLAND"}},
	{"SWIM", []string{"FISH", "SHARK", "WHALE", "DOLPHIN", "OCTOPUS", "BEACH"}},
	{"DIVE", []string{"DOLPHIN", "WHALE", "EAGLE", "OCTOPUS"}},
	{"SAIL", []string{"SHIP", "ANCHOR", "WIND", "ISLAND", "PIRATE"}},
	{"WING", []string{"EAGLE", "OWL", "BEE", "BAT", "DRAGON", "PARROT", "FAIRY"}},
	{"NEST", []string{"EAGLE", "OWL", "PARROT", "TREE", "SPIDER"}},
	{"NIGHT", []string{"MOON", "STAR", "OWL", "BAT", "GHOST"}},
	{"MUSIC", []string{"PIANO", "GUITAR", "DRUM", "TRUMPET", "VIOLIN"}},
	{"ORCHESTRA", []string{"VIOLIN", "TRUMPET", "DRUM", "PIANO"}},
	{"BAND", []string{"GUITAR", "DRUM", "TRUMPET"}},
	{"LOUD", []string{"DRUM", "TRUMPET", "LION", "VOLCANO"}},
	{"STRINGS", []string{"GUITAR", "VIOLIN", "PIANO"}},
	{"ROYAL", []string{"KING", "QUEEN", "PRINCE", "CROWN", "CASTLE"}},
	{"PALACE", []string{"KING", "QUEEN", "PRINCE", "CROWN", "TOWER"}},
	{"FAIRYTALE", []string{"CASTLE", "DRAGON", "WITCH", "WIZARD", "PRINCE", "GIANT", "TROLL", "UNICORN"}},
	{"MAGIC", []string{"WIZARD", "WITCH", "POTION", "WAND", "UNICORN", "FAIRY"}},
	{"ARMOR", []string{"KNIGHT", "SHIELD", "SWORD"}},
	{"BATTLE", []string{"KNIGHT", "SWORD", "SHIELD", "DRAGON", "GIANT"}},
	{"PIRATES", []string{"SHIP", "ANCHOR", "TREASURE", "ISLAND", "PARROT", "MAP"}},
	{"GOLDEN", []string{"CROWN", "TREASURE", "HONEY", "SUN", "KING"}},
	{"SPACE", []string{"MOON", "STAR", "ROCKET", "PLANET", "SUN"}},
	{"SKY", []string{"CLOUD", "SUN", "STAR", "MOON", "EAGLE", "RAIN", "ROCKET", "WIND"}},
	{"LAUNCH", []string{"ROCKET", "SHIP", "BALL"}},
	{"WINTER", []string{"SNOW", "ICE", "WIND"}},
	{"COLD", []string{"SNOW", "ICE", "WIND", "RAIN"}},
	{"WEATHER", []string{"SNOW", "RAIN", "CLOUD", "SUN", "WIND"}},
	{"WET", []string{"RAIN", "RIVER", "WAVE", "FISH", "CLOUD"}},
	{"HOT", []string{"SUN", "FIRE", "DRAGON", "DESERT", "VOLCANO"}},
	{"FLAME", []string{"FIRE", "DRAGON", "ROCKET", "VOLCANO"}},
	{"LAVA", []string{"VOLCANO", "FIRE", "ROCK", "MOUNTAIN"}},
	{"WOODS", []string{"TREE", "BEAR", "OWL", "MUSHROOM", "LEAF", "FOREST"}},
	{"GARDEN", []string{"FLOWER", "TREE", "BEE", "GRASS", "LEAF"}},
	{"GREEN", []string{"GRASS", "LEAF", "TREE", "GRAPE", "TROLL"}},
	{"HIGH", []string{"MOUNTAIN", "TOWER", "ROCKET", "EAGLE", "GIANT", "CLOUD"}},
	{"CLIMB", []string{"MOUNTAIN", "TREE", "TOWER", "ROCK", "MONKEY"}},
	{"SHORE", []string{"BEACH", "WAVE", "SAND", "ISLAND", "ANCHOR"}},
	{"DRY", []string{"DESERT", "SAND", "SUN", "BREAD"}},
	{"SPORT", []string{"BALL", "BAT", "NET", "GOAL"}},
	{"SOCCER", []string{"BALL", "NET", "GOAL"}},
	{"BASEBALL", []string{"BALL", "BAT"}},
	{"HALLOWEEN", []string{"GHOST", "WITCH", "PUMPKIN", "SPIDER", "BAT"}},
	{"SCARY", []string{"GHOST", "SPIDER", "SHARK", "WITCH", "DRAGON", "TROLL"}},
	{"WEB", []string{"SPIDER", "NET"}},
	{"STING", []string{"BEE", "OCTOPUS"}},
	{"DARK", []string{"CAVE", "NIGHT", "GHOST", "BAT"}},
	{"HIDE", []string{"CAVE", "TREASURE", "GHOST", "OCTOPUS"}},
	{"DIG", []string{"TREASURE", "SAND", "DOG", "CAVE"}},
	{"RICH", []string{"GOLD", "TREASURE", "KING", "CROWN"}},
	{"BIG", []string{"WHALE", "GIANT", "MOUNTAIN", "ELEPHANT", "PLANET"}},
	{"HORN", []string{"UNICORN", "TRUMPET", "ROCKET"}},
	{"BREW", []string{"POTION", "WITCH", "HONEY"}},
}

// SimpleWords are easy, everyday clue words. Clues drawn from this list get
// a scoring bonus.
var SimpleWords = map[string]bool{
	"ANIMAL": true, "PET": true, "ZOO": true, "OCEAN": true, "WING": true,
	"NEST": true, "BARK": true, "CLAW": true, "FRUIT": true, "SWEET": true,
	"YELLOW": true, "KITCHEN": true, "BAKE": true, "MUSIC": true, "BAND": true,
	"LOUD": true, "SWIM": true, "DIVE": true, "SAIL": true, "NIGHT": true,
	"SKY": true, "HALLOWEEN": true, "SCARY": true, "SPORT": true, "SOCCER": true,
	"BASEBALL": true, "WINTER": true, "COLD": true, "HOT": true, "WET": true,
	"FLAME": true, "GARDEN": true, "GREEN": true, "HIGH": true, "BIG": true,
	"DARK": true, "HIDE": true, "DIG": true, "MAGIC": true, "SPACE": true,
	"ORCHESTRA": true, "CLIMB": true, "DRY": true,
}
