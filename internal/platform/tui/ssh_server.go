package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/arcade-hub/internal/config"
	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/hub"
	"github.com/vovakirdan/arcade-hub/internal/storage"
)

const shutdownGrace = 10 * time.Second

// SSHServerConfig configures the remote arcade.
type SSHServerConfig struct {
	// Address is host:port, e.g. ":2222".
	Address string

	// HostKeyPath is created on first start if missing. A relative path
	// is resolved under ~/.arcade.
	HostKeyPath string

	IdleTimeout time.Duration

	// MaxSessions caps concurrent players; 0 means unlimited.
	MaxSessions int

	// Hub is the token policy every session's hub uses. Feed and Logger
	// are shared.
	Hub hub.Options

	TickRate int
}

// SSHServer hosts one arcade session per SSH connection. Sessions share
// the store; each gets its own hub logged in as the SSH user.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	logger   *log.Logger
	sessions atomic.Int32
}

// NewSSHServer builds the server. The store is owned by the caller.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "ssh",
		})
	}
	if cfg.Hub.Logger == nil {
		cfg.Hub.Logger = logger.WithPrefix("hub")
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{config: cfg, store: store, logger: logger}

	// Wish runs middleware last to first: log, require a terminal, check
	// capacity, then hand the session to Bubble Tea.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newSession),
			s.capacity,
			activeterm.Middleware(),
			s.audit,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	s.server = server
	return s, nil
}

// hostKeyPath resolves the key location and makes sure its directory
// exists so Wish can write a fresh key there.
func hostKeyPath(path string) (string, error) {
	path = config.ExpandHome(path)
	if path == "" {
		path = "host_key"
	}
	if !filepath.IsAbs(path) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve host key: %w", err)
		}
		path = filepath.Join(home, ".arcade", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create host key directory: %w", err)
	}
	return path, nil
}

// newSession builds the session model for one connection. The SSH user
// name is the player name.
func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	h := hub.New(s.store, s.config.Hub)
	if err := h.LoginSession(sess.User()); err != nil {
		// The session still opens on the login screen.
		s.logger.Warn("login failed", "user", sess.User(), "err", err)
	}

	model := NewSessionModel(SessionOptions{
		Hub: h,
		Config: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.TickRate,
			Seed:     time.Now().UnixNano(),
		},
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// capacity turns players away once the arcade is full.
func (s *SSHServer) capacity(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.sessions.Add(1)
		defer s.sessions.Add(-1)
		if limit := s.config.MaxSessions; limit > 0 && int(n) > limit {
			s.logger.Warn("arcade full", "user", sess.User(), "limit", limit)
			wish.Fatalln(sess, "The arcade is full, try again later.")
			return
		}
		next(sess)
	}
}

// audit logs each connection with its duration.
func (s *SSHServer) audit(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		l := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		l.Info("session started")
		next(sess)
		l.Info("session ended", "duration", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("listening", "address", s.config.Address, "max_sessions", s.config.MaxSessions)

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down", "sessions", s.Sessions())
		return s.Shutdown()
	}
}

// Shutdown stops accepting connections and waits briefly for open ones.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Sessions returns the number of connected players.
func (s *SSHServer) Sessions() int {
	return int(s.sessions.Load())
}
