package server

import (
	"net"

	"github.com/TerryHenrard/Pente-game/internal/model"
)

// Player is one connected client. All fields are owned by the command
// processor goroutine; nothing here needs locking.
type Player struct {
	conn   net.Conn
	remote string
	state  ConnState

	// account is nil until the connection authenticates.
	account *model.Account

	// gameName references the live session the player occupies, "" when
	// not in a game. The session itself is owned by the registry.
	gameName string
}

func newPlayer(conn net.Conn) *Player {
	remote := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	return &Player{
		conn:   conn,
		remote: remote,
		state:  StateConnected,
	}
}

// Username returns the authenticated account name, "" before auth.
func (p *Player) Username() string {
	if p.account == nil {
		return ""
	}
	return p.account.Username
}

// Authenticated reports whether the connection has passed auth.
func (p *Player) Authenticated() bool {
	return p.state == StateAuthenticated
}

// InGame reports whether the player occupies a live session.
func (p *Player) InGame() bool {
	return p.gameName != ""
}
