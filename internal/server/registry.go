package server

import (
	"errors"
	"net"
	"sort"

	"github.com/TerryHenrard/Pente-game/internal/game"
	"github.com/TerryHenrard/Pente-game/internal/metrics"
)

// Registry errors surfaced to handlers.
var (
	ErrDuplicateGameName = errors.New("a game with this name already exists")
	ErrNameConnected     = errors.New("account is already connected")
)

// Registry is the process-wide directory of connected players and live
// game sessions. It owns both collections; sessions reference players by
// username only, players reference sessions by name only, so removal is
// a plain map delete plus back-reference clearing. Owned exclusively by
// the command processor goroutine.
type Registry struct {
	players  map[net.Conn]*Player
	byName   map[string]*Player
	sessions map[string]*game.Session

	nextSessionID int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		players:  make(map[net.Conn]*Player),
		byName:   make(map[string]*Player),
		sessions: make(map[string]*game.Session),

		nextSessionID: 1,
	}
}

// AddPlayer registers a freshly admitted connection.
func (r *Registry) AddPlayer(p *Player) {
	r.players[p.conn] = p
}

// BindName indexes an authenticated player by username. Fails if another
// connection already holds the name.
func (r *Registry) BindName(p *Player) error {
	name := p.Username()
	if _, taken := r.byName[name]; taken {
		return ErrNameConnected
	}
	r.byName[name] = p
	return nil
}

// RemovePlayer drops the player from both indexes. Session cleanup is the
// caller's responsibility.
func (r *Registry) RemovePlayer(p *Player) {
	delete(r.players, p.conn)
	if name := p.Username(); name != "" {
		delete(r.byName, name)
	}
}

// PlayerByConn finds the player owning a connection, nil if unknown.
func (r *Registry) PlayerByConn(conn net.Conn) *Player {
	return r.players[conn]
}

// PlayerByName finds an authenticated player by username, nil if absent.
func (r *Registry) PlayerByName(name string) *Player {
	return r.byName[name]
}

// PlayerCount returns the number of connected players.
func (r *Registry) PlayerCount() int {
	return len(r.players)
}

// AddSession registers a live session under its unique name and assigns
// its numeric id.
func (r *Registry) AddSession(s *game.Session) error {
	if _, exists := r.sessions[s.Name]; exists {
		return ErrDuplicateGameName
	}
	s.ID = r.nextSessionID
	r.nextSessionID++
	r.sessions[s.Name] = s
	metrics.ActiveSessions.Inc()
	metrics.TotalSessions.Inc()
	return nil
}

// RemoveSession destroys a session and clears the back-reference of every
// participant that is still connected.
func (r *Registry) RemoveSession(name string) {
	s, ok := r.sessions[name]
	if !ok {
		return
	}
	delete(r.sessions, name)
	metrics.ActiveSessions.Dec()
	for _, username := range s.Players() {
		if p := r.byName[username]; p != nil && p.gameName == name {
			p.gameName = ""
		}
	}
}

// SessionByName finds a live session, nil if absent.
func (r *Registry) SessionByName(name string) *game.Session {
	return r.sessions[name]
}

// SessionByParticipant finds the session a username is seated in, nil if
// none.
func (r *Registry) SessionByParticipant(username string) *game.Session {
	for _, s := range r.sessions {
		if s.HasParticipant(username) {
			return s
		}
	}
	return nil
}

// Sessions lists the live sessions sorted by name for stable lobby
// listings.
func (r *Registry) Sessions() []*game.Session {
	out := make([]*game.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
