package game

import "errors"

// Session adjudication errors. Handlers map these to verb failure
// responses without touching session state.
var (
	ErrGameFull       = errors.New("game already has two players")
	ErrGameStarted    = errors.New("game already ongoing")
	ErrNotReady       = errors.New("game needs two players to start")
	ErrNotOngoing     = errors.New("game is not ongoing")
	ErrNotParticipant = errors.New("player is not part of this game")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrOutOfBounds    = errors.New("move is outside the board")
	ErrCellOccupied   = errors.New("cell is already occupied")
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusWaiting Status = iota
	StatusOngoing
)

// capturesToWin ends the game when a player's session capture counter
// reaches it.
const capturesToWin = 5

// Session is one Pente match. It references its participants by username
// only; ownership of both players and of the session itself lives in the
// server registry. Capture counters are session-scoped and reset when the
// match starts.
type Session struct {
	// ID is assigned by the registry when the session is listed.
	ID     int
	Name   string
	Host   string
	Joiner string
	Status Status
	Board  Board

	// Turn holds the username of the current-turn holder, meaningful
	// only while ongoing.
	Turn string

	hostCaptures   int
	joinerCaptures int
}

// MoveResult reports the outcome of a legal move.
type MoveResult struct {
	// CapturedNow is the number of pairs taken by this move.
	CapturedNow int
	// TotalCaptures is the mover's capture counter after the move.
	TotalCaptures int
	// Victory is set when the move ends the game, by alignment or by
	// reaching five captures.
	Victory bool
}

// NewSession creates a waiting session hosted by the given player.
func NewSession(name, host string) *Session {
	return &Session{
		Name:   name,
		Host:   host,
		Status: StatusWaiting,
	}
}

// Join seats a second player. The host seat is filled at creation, so
// Join only ever fills the joiner seat.
func (s *Session) Join(username string) error {
	if s.Status != StatusWaiting {
		return ErrGameStarted
	}
	if s.Joiner != "" {
		return ErrGameFull
	}
	s.Joiner = username
	return nil
}

// Leave clears the joiner seat while the session is still waiting. The
// host leaving destroys the session instead, which is the registry's call.
func (s *Session) Leave(username string) {
	if s.Status == StatusWaiting && s.Joiner == username {
		s.Joiner = ""
	}
}

// Start promotes the session to ongoing: the board is seeded with the
// host marker at the center, capture counters reset, and the joiner takes
// the first free move.
func (s *Session) Start() error {
	if s.Status != StatusWaiting {
		return ErrGameStarted
	}
	if s.Joiner == "" {
		return ErrNotReady
	}
	s.Board = NewBoard()
	s.Status = StatusOngoing
	s.Turn = s.Joiner
	s.hostCaptures = 0
	s.joinerCaptures = 0
	return nil
}

// HasParticipant reports whether username occupies either seat.
func (s *Session) HasParticipant(username string) bool {
	return username != "" && (s.Host == username || s.Joiner == username)
}

// Opponent returns the other participant's username, or "" if username is
// not seated or has no opponent yet.
func (s *Session) Opponent(username string) string {
	switch username {
	case s.Host:
		return s.Joiner
	case s.Joiner:
		return s.Host
	default:
		return ""
	}
}

// Mark returns the board marker played by username.
func (s *Session) Mark(username string) byte {
	if username == s.Host {
		return HostMark
	}
	return JoinerMark
}

// Captures returns username's session capture counter.
func (s *Session) Captures(username string) int {
	if username == s.Host {
		return s.hostCaptures
	}
	return s.joinerCaptures
}

// Players lists the seated usernames, host first.
func (s *Session) Players() []string {
	players := []string{s.Host}
	if s.Joiner != "" {
		players = append(players, s.Joiner)
	}
	return players
}

// ApplyMove places username's marker at (row, col), resolves captures in
// a single pass over the eight directions, then checks victory: alignment
// first, then the five-captures rule. On a non-terminal move the turn
// passes to the opponent. Illegal moves return an error and change
// nothing.
func (s *Session) ApplyMove(username string, row, col int) (MoveResult, error) {
	if s.Status != StatusOngoing {
		return MoveResult{}, ErrNotOngoing
	}
	if !s.HasParticipant(username) {
		return MoveResult{}, ErrNotParticipant
	}
	if s.Turn != username {
		return MoveResult{}, ErrNotYourTurn
	}
	if !InBounds(row, col) {
		return MoveResult{}, ErrOutOfBounds
	}
	if s.Board.At(row, col) != Empty {
		return MoveResult{}, ErrCellOccupied
	}

	own := s.Mark(username)
	opp := byte(JoinerMark)
	if own == JoinerMark {
		opp = HostMark
	}

	s.Board.set(row, col, own)
	taken := s.Board.resolveCaptures(row, col, own, opp)

	total := taken
	if username == s.Host {
		s.hostCaptures += taken
		total = s.hostCaptures
	} else {
		s.joinerCaptures += taken
		total = s.joinerCaptures
	}

	res := MoveResult{CapturedNow: taken, TotalCaptures: total}
	if s.Board.alignedFive(row, col, own) || total >= capturesToWin {
		res.Victory = true
		return res, nil
	}

	s.Turn = s.Opponent(username)
	return res, nil
}
