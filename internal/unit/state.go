package unit

import (
	"errors"
	"fmt"

	"github.com/go-json-experiment/json"
)

var (
	// ErrUnknownKind is returned for unit types outside the roster.
	ErrUnknownKind = errors.New("unit: unknown unit type")
	// ErrNoUnit is returned for states that name no unit.
	ErrNoUnit = errors.New("unit: state has no unit")
	// ErrTooManyUnits is returned when a new unit does not fit in match memory.
	ErrTooManyUnits = errors.New("unit: too many units in match")
)

// ID identifies a unit for the length of a match.
type ID int32

// Unit is the part of a state describing one unit.
type Unit struct {
	ID   ID     `json:"id"`
	Type string `json:"type"`
	HP   int32  `json:"hp"`
	X    int32  `json:"x"`
	Y    int32  `json:"y"`
}

// State is one tick of input. Current senders put the acting unit under
// "self"; older ones send a "units" list whose first element acts.
type State struct {
	Self  *Unit  `json:"self"`
	Units []Unit `json:"units"`
}

// ParseState decodes one line of input.
func ParseState(line []byte) (State, error) {
	var s State
	if err := json.Unmarshal(line, &s); err != nil {
		return State{}, fmt.Errorf("unit: decode state: %w", err)
	}
	return s, nil
}

// Acting returns the unit the state asks a decision for.
func (s State) Acting() (Unit, error) {
	switch {
	case s.Self != nil:
		return *s.Self, nil
	case len(s.Units) > 0:
		return s.Units[0], nil
	default:
		return Unit{}, ErrNoUnit
	}
}
