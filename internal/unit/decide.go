package unit

import "fmt"

// Action is what a unit does this tick.
type Action uint8

const (
	Idle Action = iota
	Attack
	Block
	Move
	Dig
	Fly
	Burrow
)

var actionNames = [...]string{
	Idle:   "idle",
	Attack: "attack",
	Block:  "block",
	Move:   "move",
	Dig:    "dig",
	Fly:    "fly",
	Burrow: "burrow",
}

func (a Action) String() string {
	if int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", a)
	}
	return actionNames[a]
}

// lowHP is the health below which fragile units turn defensive.
const lowHP = 30

// Decide picks the action of self for this tick. It is the only dispatch
// point: every Kind has exactly one arm.
func Decide(kind Kind, self Unit, scratch *Scratch) Action {
	tick := count(scratch, keyTicks)

	var act Action
	switch kind {
	case AcidAnt:
		act = Attack
	case BloatedBedbug:
		act = guarded(self, Attack)
	case DungBeetle:
		act = alternate(tick, Dig, Move)
	case EngorgedTick:
		act = guarded(self, Attack)
	case FamishedTick:
		act = Attack
	case ForagingMaggot:
		act = Move
	case InfectedMouse:
		act = guarded(self, Move)
	case LavaAnt:
		act = Attack
	case Mantis:
		act = alternate(tick, Attack, Block)
	case MawingBeaver:
		act = alternate(tick, Attack, Dig)
	case PlagueBat:
		act = Fly
	case RhinoBeetle:
		act = guarded(self, alternate(tick, Attack, Block))
	case SwoopingBat:
		act = alternate(tick, Fly, Attack)
	case TaintedCockroach:
		act = guarded(self, Move)
	case TunnelingMole:
		act = Burrow
	default:
		act = Idle
	}

	scratch.Set(keyLast, WordOf(act.String()))
	return act
}

// alternate returns even on even ticks and odd on odd ones.
func alternate(tick int, even, odd Action) Action {
	if tick%2 == 0 {
		return even
	}
	return odd
}

// guarded blocks when self is badly hurt.
func guarded(self Unit, act Action) Action {
	if self.HP < lowHP {
		return Block
	}
	return act
}
