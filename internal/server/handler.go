package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"unicode"

	"github.com/TerryHenrard/Pente-game/internal/db"
	"github.com/TerryHenrard/Pente-game/internal/game"
	"github.com/TerryHenrard/Pente-game/internal/metrics"
	"github.com/TerryHenrard/Pente-game/internal/model"
	"github.com/TerryHenrard/Pente-game/internal/protocol"
)

// maxNameLen bounds usernames and game names.
const maxNameLen = 49

// handlerFunc processes one decoded request for one player. Handlers run
// on the processor goroutine only.
type handlerFunc func(s *Server, ctx context.Context, p *Player, data []byte)

// verbHandlers builds the verb dispatch table.
func verbHandlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		protocol.VerbAuth:        (*Server).handleAuth,
		protocol.VerbNewAccount:  (*Server).handleNewAccount,
		protocol.VerbGetLobby:    (*Server).handleGetLobby,
		protocol.VerbDisconnect:  (*Server).handleDisconnect,
		protocol.VerbCreateGame:  (*Server).handleCreateGame,
		protocol.VerbJoinGame:    (*Server).handleJoinGame,
		protocol.VerbReadyToPlay: (*Server).handleReadyToPlay,
		protocol.VerbPlayMove:    (*Server).handlePlayMove,
		protocol.VerbQuitGame:    (*Server).handleQuitGame,
	}
}

// dispatch routes one frame to its verb handler. Malformed frames and
// unknown verbs answer unknown_command and keep the connection.
func (s *Server) dispatch(ctx context.Context, p *Player, frame []byte, malformed bool) {
	if malformed {
		s.send(p, protocol.UnknownCommand{Type: protocol.TypeUnknownCommand})
		return
	}

	var env protocol.Envelope
	if err := json.Unmarshal(frame, &env); err != nil || env.Type == "" {
		slog.Debug("malformed request frame", "remote", p.remote, "err", err)
		s.send(p, protocol.UnknownCommand{Type: protocol.TypeUnknownCommand})
		return
	}

	handler, ok := s.handlers[env.Type]
	if !ok {
		slog.Debug("unknown verb", "verb", env.Type, "remote", p.remote)
		s.send(p, protocol.UnknownCommand{Type: protocol.TypeUnknownCommand})
		return
	}

	metrics.RequestsReceived.WithLabelValues(env.Type).Inc()
	handler(s, ctx, p, frame)
}

// requireAuth gates a verb; on failure the verb's failure shape is sent.
func (s *Server) requireAuth(p *Player, failure any) bool {
	if p.Authenticated() {
		return true
	}
	slog.Debug("gated verb from unauthenticated client", "remote", p.remote)
	s.send(p, failure)
	return false
}

func statusFail(kind string) protocol.StatusResponse {
	return protocol.StatusResponse{Type: kind, Status: protocol.StatusFailure}
}

func statsFail(kind string) protocol.StatsResponse {
	return protocol.StatsResponse{Type: kind, Status: protocol.StatusFailure}
}

func (s *Server) handleAuth(ctx context.Context, p *Player, data []byte) {
	fail := statsFail(protocol.TypeAuthResponse)

	if p.Authenticated() {
		s.send(p, fail)
		return
	}

	var req protocol.CredentialsRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Username == "" || req.Password == "" {
		s.send(p, fail)
		return
	}

	acc, err := s.accounts.GetByName(ctx, req.Username)
	if err != nil {
		slog.Error("database error during auth", "err", err, "remote", p.remote)
		s.send(p, fail)
		return
	}
	if acc == nil || !s.hasher.Verify(req.Password, acc.PasswordHash) {
		slog.Warn("auth failed", "username", req.Username, "remote", p.remote)
		s.send(p, fail)
		return
	}

	p.account = acc
	if err := s.registry.BindName(p); err != nil {
		// The account is already online on another connection.
		slog.Warn("auth rejected: already connected", "username", acc.Username, "remote", p.remote)
		p.account = nil
		s.send(p, fail)
		return
	}
	p.state = StateAuthenticated

	slog.Info("auth success", "username", acc.Username, "remote", p.remote)
	s.send(p, protocol.StatsResponse{
		Type:        protocol.TypeAuthResponse,
		Status:      protocol.StatusSuccess,
		PlayerStats: &acc.Stats,
	})
}

func (s *Server) handleNewAccount(ctx context.Context, p *Player, data []byte) {
	fail := statsFail(protocol.TypeNewAccountResponse)

	if p.Authenticated() {
		s.send(p, fail)
		return
	}

	var req protocol.CredentialsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.send(p, fail)
		return
	}
	if !validName(req.Username) || req.Password == "" || req.Password != req.ConfPassword {
		s.send(p, fail)
		return
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "err", err)
		s.send(p, fail)
		return
	}

	acc, err := s.accounts.Insert(ctx, req.Username, passwordHash)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateUsername) {
			slog.Warn("registration rejected: duplicate username", "username", req.Username)
		} else {
			slog.Error("database error during registration", "err", err)
		}
		s.send(p, fail)
		return
	}

	p.account = acc
	if err := s.registry.BindName(p); err != nil {
		p.account = nil
		s.send(p, fail)
		return
	}
	p.state = StateAuthenticated

	slog.Info("account created", "username", acc.Username, "id", acc.ID, "remote", p.remote)
	s.send(p, protocol.StatsResponse{
		Type:        protocol.TypeNewAccountResponse,
		Status:      protocol.StatusSuccess,
		PlayerStats: &acc.Stats,
	})
}

func (s *Server) handleGetLobby(ctx context.Context, p *Player, _ []byte) {
	if !s.requireAuth(p, statusFail(protocol.TypeGetLobbyResponse)) {
		return
	}

	sessions := s.registry.Sessions()
	games := make([]protocol.LobbyGame, 0, len(sessions))
	for _, sess := range sessions {
		games = append(games, protocol.LobbyGame{
			ID:      sess.ID,
			Name:    sess.Name,
			Status:  int(sess.Status),
			Players: sess.Players(),
		})
	}

	s.send(p, protocol.LobbyResponse{
		Type:               protocol.TypeGetLobbyResponse,
		Status:             protocol.StatusSuccess,
		TotalActivePlayers: s.activeConnections,
		Games:              games,
	})
}

func (s *Server) handleDisconnect(ctx context.Context, p *Player, _ []byte) {
	s.send(p, protocol.StatusResponse{
		Type:   protocol.TypeDisconnectAck,
		Status: protocol.StatusSuccess,
	})
	slog.Info("client requested disconnect", "remote", p.remote, "player", p.Username())
	s.teardown(ctx, p)
}

func (s *Server) handleCreateGame(ctx context.Context, p *Player, data []byte) {
	fail := protocol.CreateGameResponse{Type: protocol.TypeCreateGameResponse, Status: protocol.StatusFailure}
	if !s.requireAuth(p, fail) {
		return
	}

	var req protocol.GameNameRequest
	if err := json.Unmarshal(data, &req); err != nil || !validName(req.GameName) || p.InGame() {
		s.send(p, fail)
		return
	}

	sess := game.NewSession(req.GameName, p.Username())
	if err := s.registry.AddSession(sess); err != nil {
		slog.Warn("create_game rejected", "game", req.GameName, "err", err)
		s.send(p, fail)
		return
	}
	p.gameName = sess.Name

	slog.Info("game created", "game", sess.Name, "host", p.Username())
	s.send(p, protocol.CreateGameResponse{
		Type:   protocol.TypeCreateGameResponse,
		Status: protocol.StatusSuccess,
		Game: &protocol.GameInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Status:  int(sess.Status),
			Host:    sess.Host,
			Players: sess.Players(),
		},
	})
}

func (s *Server) handleJoinGame(ctx context.Context, p *Player, data []byte) {
	fail := statusFail(protocol.TypeJoinGameResponse)
	if !s.requireAuth(p, fail) {
		return
	}

	var req protocol.GameNameRequest
	if err := json.Unmarshal(data, &req); err != nil || req.GameName == "" || p.InGame() {
		s.send(p, fail)
		return
	}

	sess := s.registry.SessionByName(req.GameName)
	if sess == nil {
		s.send(p, fail)
		return
	}
	if err := sess.Join(p.Username()); err != nil {
		slog.Warn("join_game rejected", "game", req.GameName, "player", p.Username(), "err", err)
		s.send(p, fail)
		return
	}
	p.gameName = sess.Name

	slog.Info("player joined game", "game", sess.Name, "player", p.Username())
	s.send(p, protocol.StatusResponse{
		Type:   protocol.TypeJoinGameResponse,
		Status: protocol.StatusSuccess,
	})
}

func (s *Server) handleReadyToPlay(ctx context.Context, p *Player, _ []byte) {
	fail := statusFail(protocol.TypeReadyToPlayResp)
	if !s.requireAuth(p, fail) {
		return
	}

	sess := s.registry.SessionByName(p.gameName)
	if sess == nil {
		s.send(p, fail)
		return
	}
	if err := sess.Start(); err != nil {
		slog.Warn("ready_to_play rejected", "game", sess.Name, "err", err)
		s.send(p, fail)
		return
	}

	opponent := s.registry.PlayerByName(sess.Opponent(p.Username()))
	slog.Info("game started", "game", sess.Name, "host", sess.Host, "joiner", sess.Joiner)

	// Opponent notification first, then the caller's alert.
	var opponentAccount *model.Account
	if opponent != nil {
		opponentAccount = opponent.account
		s.send(opponent, startAlert(sess, p.account))
	}
	s.send(p, startAlert(sess, opponentAccount))
}

func (s *Server) handlePlayMove(ctx context.Context, p *Player, data []byte) {
	fail := protocol.MoveResponse{Type: protocol.TypeMoveResponse, Status: protocol.StatusFailure}
	if !s.requireAuth(p, fail) {
		return
	}

	var req protocol.MoveRequest
	if err := json.Unmarshal(data, &req); err != nil || req.X == nil || req.Y == nil {
		s.send(p, fail)
		return
	}

	sess := s.registry.SessionByName(p.gameName)
	if sess == nil {
		s.send(p, fail)
		return
	}

	res, err := sess.ApplyMove(p.Username(), *req.X, *req.Y)
	if err != nil {
		slog.Debug("move rejected", "game", sess.Name, "player", p.Username(), "err", err)
		s.send(p, fail)
		return
	}

	opponent := s.registry.PlayerByName(sess.Opponent(p.Username()))

	if res.Victory {
		outcome := "alignment"
		if res.TotalCaptures >= 5 {
			outcome = "captures"
		}
		s.settleVictory(ctx, sess, p, opponent, false, outcome)
		return
	}

	// Non-terminal: push the updated board to the opponent before
	// answering the caller.
	if opponent != nil {
		s.send(opponent, protocol.BoardState{
			Type:       protocol.TypeNewBoardState,
			Status:     protocol.StatusSuccess,
			BoardState: sess.Board.String(),
		})
	}
	s.send(p, protocol.MoveResponse{
		Type:       protocol.TypeMoveResponse,
		Status:     protocol.StatusSuccess,
		BoardState: sess.Board.String(),
		Captures:   res.TotalCaptures,
	})
}

func (s *Server) handleQuitGame(ctx context.Context, p *Player, _ []byte) {
	fail := statsFail(protocol.TypeQuitGameResponse)
	if !s.requireAuth(p, fail) {
		return
	}

	sess := s.registry.SessionByName(p.gameName)
	if sess == nil {
		s.send(p, fail)
		return
	}

	if sess.Status == game.StatusWaiting {
		// Abandon while waiting: destroyed silently, stats untouched.
		slog.Info("waiting game abandoned", "game", sess.Name, "player", p.Username())
		s.registry.RemoveSession(sess.Name)
		s.send(p, protocol.StatsResponse{
			Type:        protocol.TypeQuitGameResponse,
			Status:      protocol.StatusSuccess,
			PlayerStats: &p.account.Stats,
		})
		return
	}

	s.settleForfeit(ctx, sess, p)
	s.send(p, protocol.StatsResponse{
		Type:        protocol.TypeQuitGameResponse,
		Status:      protocol.StatusSuccess,
		PlayerStats: &p.account.Stats,
	})
}

// settleForfeit ends an ongoing session in favor of the remaining
// participant. Used by quit_game and by the disconnect cleanup path.
func (s *Server) settleForfeit(ctx context.Context, sess *game.Session, forfeiter *Player) {
	winner := s.registry.PlayerByName(sess.Opponent(forfeiter.Username()))
	s.settleVictory(ctx, sess, winner, forfeiter, true, "forfeit")
}

// settleVictory applies the Elo delta and stat updates, persists both
// accounts, notifies the loser then the winner, and destroys the session.
// In-memory stats are committed per account only after the store accepts
// the update, so memory never diverges from persistence.
func (s *Server) settleVictory(ctx context.Context, sess *game.Session, winner, loser *Player, forfeited bool, outcome string) {
	delta := 0
	if winner != nil && loser != nil {
		delta = game.ScoreDelta(winner.account.Stats.Score, loser.account.Stats.Score)
	}

	if winner != nil {
		updated := *winner.account
		updated.RecordWin(delta)
		if err := s.accounts.UpdateStats(ctx, &updated); err != nil {
			slog.Error("failed to persist winner stats", "username", updated.Username, "err", err)
		} else {
			*winner.account = updated
		}
	}
	if loser != nil {
		updated := *loser.account
		updated.RecordLoss(delta, forfeited)
		if err := s.accounts.UpdateStats(ctx, &updated); err != nil {
			slog.Error("failed to persist loser stats", "username", updated.Username, "err", err)
		} else {
			*loser.account = updated
		}
	}

	metrics.GamesFinished.WithLabelValues(outcome).Inc()
	slog.Info("game over",
		"game", sess.Name,
		"winner", playerName(winner),
		"loser", playerName(loser),
		"outcome", outcome,
		"delta", delta)

	// Loser notification precedes the winner's response; a forfeiting
	// quitter is answered by quit_game_response instead, and a
	// disconnected loser is already gone.
	if loser != nil && !forfeited {
		s.send(loser, protocol.StatsResponse{
			Type:        protocol.TypeGameOver,
			Status:      protocol.StatusDefeat,
			PlayerStats: &loser.account.Stats,
		})
	}
	if winner != nil {
		s.send(winner, protocol.StatsResponse{
			Type:        protocol.TypeGameOver,
			Status:      protocol.StatusVictory,
			PlayerStats: &winner.account.Stats,
		})
	}

	s.registry.RemoveSession(sess.Name)
}

func startAlert(sess *game.Session, opponent *model.Account) protocol.StartGameAlert {
	info := protocol.OpponentInfo{}
	if opponent != nil {
		info.PlayerStats = opponent.Stats
		info.Name = opponent.Username
	}
	return protocol.StartGameAlert{
		Type:         protocol.TypeAlertStartGame,
		Status:       protocol.StatusSuccess,
		Board:        sess.Board.String(),
		OpponentInfo: info,
		GameName:     sess.Name,
	}
}

func playerName(p *Player) string {
	if p == nil {
		return ""
	}
	return p.Username()
}

// validName accepts non-empty printable names of at most maxNameLen runes.
func validName(name string) bool {
	if name == "" || len([]rune(name)) > maxNameLen {
		return false
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
