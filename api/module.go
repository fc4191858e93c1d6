package api

import "github.com/bwmarrin/discordgo"

// Module is a feature that can be switched on from the command line.
type Module interface {
	Name() string
	// Load registers handlers on the session and dispatcher. It runs before
	// the session connects.
	Load(ds *discordgo.Session, d *Dispatcher) error
	// Unload releases background work during shutdown.
	Unload()
}
