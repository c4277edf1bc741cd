package catalog

import (
	"fmt"
	"strings"
)

// Console is one of the supported platforms.
type Console string

const (
	NES       Console = "NES"
	SNES      Console = "SNES"
	N64       Console = "N64"
	GameCube  Console = "GameCube"
	MegaDrive Console = "MégaDrive"
)

// Consoles lists every supported platform in display order.
var Consoles = []Console{NES, SNES, N64, GameCube, MegaDrive}

// Valid reports whether c is exactly one of the supported platforms.
func (c Console) Valid() bool {
	for _, known := range Consoles {
		if c == known {
			return true
		}
	}
	return false
}

func (c Console) String() string {
	return string(c)
}

// ParseConsole resolves user input to a Console, ignoring case, accents and
// surrounding whitespace ("megadrive" → MégaDrive).
func ParseConsole(s string) (Console, error) {
	key := consoleKey(s)
	if key == "" {
		return "", fmt.Errorf("console is required")
	}
	for _, c := range Consoles {
		if consoleKey(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown console %q: must be one of %v", s, Consoles)
}

func consoleKey(s string) string {
	return Fold(StripAccents(strings.TrimSpace(s)))
}
