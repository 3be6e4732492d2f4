package tkbackend

import (
	"strconv"
	"strings"
)

// Event is the snapshot delivered to callbacks registered with Bind. It
// holds the Tk event substitutions %x %y %X %Y %h %w %k %K %b.
type Event struct {
	// X and Y are relative to the widget the event was bound on.
	X, Y int
	// RootX and RootY are relative to the screen.
	RootX, RootY int
	// Height and Width are the event's dimensions, e.g. for Configure.
	Height, Width int
	KeyCode       uint32
	// KeySymbol is the key name, e.g. "space" or "e".
	KeySymbol string
	// MouseButton is 1 for left, 3 for right, and so on.
	MouseButton uint32
}

// eventFields is the number of colon separated values after the key in a
// cb1e line.
const eventFields = 9

// parseEvent decodes the fields following the key of a cb1e line. Missing or
// malformed numbers are zero; this never fails.
func parseEvent(fields []string) Event {
	field := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	return Event{
		X:           atoiOrZero(field(0)),
		Y:           atoiOrZero(field(1)),
		RootX:       atoiOrZero(field(2)),
		RootY:       atoiOrZero(field(3)),
		Height:      atoiOrZero(field(4)),
		Width:       atoiOrZero(field(5)),
		KeyCode:     uintOrZero(field(6)),
		KeySymbol:   field(7),
		MouseButton: uintOrZero(field(8)),
	}
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func uintOrZero(s string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
