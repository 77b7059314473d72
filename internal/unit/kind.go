// Package unit runs bot logic for game units: it reads one unit state per
// line, dispatches on the unit's kind and answers with "<id>:<action>".
// Per-unit scratch memory lives in a match arena.
package unit

import "fmt"

// Kind is the closed set of unit types a player can field.
type Kind uint8

const (
	AcidAnt Kind = iota
	BloatedBedbug
	DungBeetle
	EngorgedTick
	FamishedTick
	ForagingMaggot
	InfectedMouse
	LavaAnt
	Mantis
	MawingBeaver
	PlagueBat
	RhinoBeetle
	SwoopingBat
	TaintedCockroach
	TunnelingMole

	numKinds
)

var kindNames = [numKinds]string{
	AcidAnt:          "acid_ant",
	BloatedBedbug:    "bloated_bedbug",
	DungBeetle:       "dung_beetle",
	EngorgedTick:     "engorged_tick",
	FamishedTick:     "famished_tick",
	ForagingMaggot:   "foraging_maggot",
	InfectedMouse:    "infected_mouse",
	LavaAnt:          "lava_ant",
	Mantis:           "mantis",
	MawingBeaver:     "mawing_beaver",
	PlagueBat:        "plague_bat",
	RhinoBeetle:      "rhino_beetle",
	SwoopingBat:      "swooping_bat",
	TaintedCockroach: "tainted_cockroach",
	TunnelingMole:    "tunneling_mole",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// ParseKind maps a wire name such as "acid_ant" to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
