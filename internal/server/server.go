package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/TerryHenrard/Pente-game/internal/auth"
	"github.com/TerryHenrard/Pente-game/internal/config"
	"github.com/TerryHenrard/Pente-game/internal/game"
	"github.com/TerryHenrard/Pente-game/internal/metrics"
	"github.com/TerryHenrard/Pente-game/internal/protocol"
)

// refusalSentinel is written verbatim to connections refused at capacity,
// before the socket is closed and without registering the client.
const refusalSentinel = "SERVER_CLOSE: Connexion refusée : Limite atteinte."

// welcomeMessage greets every admitted connection.
const welcomeMessage = "Welcome to the Pente server"

type commandKind int

const (
	cmdConnect commandKind = iota
	cmdFrame
	cmdHangup
)

// command is one unit of work for the processor goroutine. Readers and
// the accept loop produce commands; only the processor consumes them.
type command struct {
	kind commandKind
	conn net.Conn

	// frame is the raw request bytes; nil with malformed set when the
	// frame could not be read as a bounded line.
	frame     []byte
	malformed bool
}

// Server is the Pente session coordinator. A single processor goroutine
// owns the registry, every game session, the connection counters and the
// account store handle, which gives handlers the same serialization
// contract as a select-based reactor: no two handlers ever run
// concurrently, and per-client commands are handled in arrival order.
type Server struct {
	cfg      config.Server
	accounts AccountRepository
	hasher   *auth.Hasher
	registry *Registry
	handlers map[string]handlerFunc

	commands chan command

	// Owned by the processor goroutine.
	totalConnections  int
	activeConnections int

	listener net.Listener
	mu       sync.Mutex
}

// New creates a Server around the given account repository.
func New(cfg config.Server, accounts AccountRepository) *Server {
	s := &Server{
		cfg:      cfg,
		accounts: accounts,
		hasher:   auth.NewHasher(),
		registry: NewRegistry(),
		commands: make(chan command),
	}
	s.handlers = verbHandlers()
	return s
}

// Addr returns the listening address, nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens on cfg.BindAddress:cfg.Port and serves until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve accepts connections from a ready listener. Split from Run so
// tests can serve on an arbitrary listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.process(ctx)
	}()

	slog.Info("pente server started", "address", ln.Addr())
	s.acceptLoop(ctx, ln)

	wg.Wait()
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("failed to accept new connection", "err", err)
			continue
		}
		select {
		case s.commands <- command{kind: cmdConnect, conn: conn}:
		case <-ctx.Done():
			conn.Close()
			return
		}
	}
}

// process is the single command processor. Every mutation of the
// registry, of any session and of connection counters happens here.
func (s *Server) process(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case cmd := <-s.commands:
			switch cmd.kind {
			case cmdConnect:
				s.admit(ctx, cmd.conn)
			case cmdFrame:
				if p := s.registry.PlayerByConn(cmd.conn); p != nil {
					s.dispatch(ctx, p, cmd.frame, cmd.malformed)
				}
			case cmdHangup:
				if p := s.registry.PlayerByConn(cmd.conn); p != nil {
					slog.Info("client disconnected", "remote", p.remote, "player", p.Username())
					s.teardown(ctx, p)
				}
			}
		}
	}
}

// admit registers a new connection or refuses it at capacity.
func (s *Server) admit(ctx context.Context, conn net.Conn) {
	if s.activeConnections >= s.cfg.MaxConnections {
		metrics.RefusedConnections.Inc()
		slog.Warn("connection refused: limit reached",
			"remote", conn.RemoteAddr(),
			"active", s.activeConnections,
			"max", s.cfg.MaxConnections)
		if _, err := conn.Write([]byte(refusalSentinel)); err != nil {
			slog.Debug("failed to send refusal sentinel", "err", err)
		}
		conn.Close()
		return
	}

	s.totalConnections++
	s.activeConnections++
	metrics.TotalConnections.Inc()
	metrics.ActiveConnections.Inc()

	p := newPlayer(conn)
	s.registry.AddPlayer(p)
	slog.Info("new connection accepted",
		"remote", p.remote,
		"active", s.activeConnections,
		"max", s.cfg.MaxConnections,
		"total", s.totalConnections)

	s.send(p, protocol.Welcome{Type: protocol.TypeWelcome, Message: welcomeMessage})

	go s.readLoop(ctx, conn)
}

// readLoop frames requests off one connection and forwards them to the
// processor. It never touches shared state.
func (s *Server) readLoop(ctx context.Context, conn net.Conn) {
	r := protocol.NewFrameReader(conn)
	for {
		frame, err := protocol.ReadFrame(r)
		var cmd command
		switch {
		case err == nil:
			cmd = command{kind: cmdFrame, conn: conn, frame: frame}
		case errors.Is(err, protocol.ErrFrameTooLarge):
			cmd = command{kind: cmdFrame, conn: conn, malformed: true}
		default:
			// Peer close or transport error: full cleanup path.
			cmd = command{kind: cmdHangup, conn: conn}
		}

		select {
		case s.commands <- cmd:
		case <-ctx.Done():
			return
		}
		if cmd.kind == cmdHangup {
			return
		}
	}
}

// send writes one response frame; write failures are logged, the
// connection's eventual read error runs the cleanup path.
func (s *Server) send(p *Player, v any) {
	if err := protocol.WriteFrame(p.conn, v); err != nil {
		slog.Warn("failed to write response", "remote", p.remote, "err", err)
	}
}

// teardown removes a departing player: forfeits an ongoing game, destroys
// a hosted waiting game, frees a joined waiting seat, then unregisters
// and closes the connection.
func (s *Server) teardown(ctx context.Context, p *Player) {
	if sess := s.registry.SessionByName(p.gameName); sess != nil {
		switch {
		case sess.Status == game.StatusOngoing:
			s.settleForfeit(ctx, sess, p)
		case sess.Host == p.Username():
			// Host abandons a waiting game: destroyed silently.
			s.registry.RemoveSession(sess.Name)
		default:
			sess.Leave(p.Username())
			p.gameName = ""
		}
	}

	s.registry.RemovePlayer(p)
	s.activeConnections--
	metrics.ActiveConnections.Dec()
	p.conn.Close()
}

// shutdown closes every remaining connection in deterministic order.
func (s *Server) shutdown() {
	for _, sess := range s.registry.Sessions() {
		s.registry.RemoveSession(sess.Name)
	}
	for conn := range s.registry.players {
		conn.Close()
	}
	slog.Info("pente server stopped", "total_connections", s.totalConnections)
}
