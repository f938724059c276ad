package traitswap

import (
	"sync"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

var registerOnce sync.Once

// RegisterCommands registers the /trait command with Dragonfly. Calling it
// more than once has no effect.
func RegisterCommands() {
	registerOnce.Do(func() {
		cmd.Register(cmd.New("trait", "Shows your current trait.", nil, traitCommand{}))
	})
}

// traitCommand implements /trait.
type traitCommand struct{}

// Allow restricts the command to players.
func (traitCommand) Allow(src cmd.Source) bool {
	_, ok := src.(*player.Player)
	return ok
}

// Run replies with the caller's current trait.
func (traitCommand) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, sess := Command(src)
	if p == nil || sess == nil || sess.Closed() || sess.Manager() == nil {
		o.Error("This command can only be used by players.")
		return
	}
	p.Message(sess.Manager().Coordinator().Describe(sess.UUID()))
}

// sessionFromPlayer extracts the session from a player's handler.
// Returns nil if the player doesn't have a SessionHandler.
func sessionFromPlayer(p *player.Player) *Session {
	h, ok := p.Handler().(*SessionHandler)
	if !ok {
		return nil
	}
	return h.Session()
}

// Command extracts the player and session from a command source.
// Returns (nil, nil) if the source is not a player or has no session.
//
// Usage:
//
//	func (c MyCommand) Run(src cmd.Source, out *cmd.Output, tx *world.Tx) {
//	    p, sess := traitswap.Command(src)
//	    if p == nil || sess == nil {
//	        out.Error("Player-only command")
//	        return
//	    }
//	}
func Command(src cmd.Source) (*player.Player, *Session) {
	p, ok := src.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, sessionFromPlayer(p)
}
