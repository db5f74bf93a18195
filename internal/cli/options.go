package cli

import (
	"github.com/aretw0/tabula/internal/logging"
)

// Options collects the flags shared by the tabula commands.
type Options struct {
	// Paths lists the YAML table definitions to load.
	Paths []string

	Debug     bool
	LogFormat logging.Format

	// Style is the glamour style for terminal output. Empty picks one from
	// the terminal background.
	Style string
	// Plain prints raw markdown even on a terminal.
	Plain bool

	// StateDir enables file persistence of table state.
	StateDir string
	// RedisAddr enables Redis persistence and locking. It wins over StateDir.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// StateKey is a base64 encoded 32 byte key. When set, snapshots are encrypted.
	StateKey string
	// MaskKeys are regular expressions of state keys masked before saving.
	MaskKeys []string
}

// persistent reports whether any state store is configured.
func (o Options) persistent() bool {
	return o.StateDir != "" || o.RedisAddr != ""
}
