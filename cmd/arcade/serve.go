package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-hub/internal/platform/tui"
	"github.com/vovakirdan/arcade-hub/internal/relay"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server and live score feed",
	Long: `Start an SSH server that lets players connect and play.

The SSH user name is the player name, so 'ssh ann@host' plays as ann
with ann's wallet. All players share the leaderboards.

Live score updates and game results are pushed as JSON to websocket
clients on /ws; /health reports the number of watchers. Pass --ws ""
to disable the feed.

Examples:
  arcade serve                           # Listen on the configured addresses
  arcade serve --ssh :2222               # Listen on port 2222
  arcade serve --ws :8080                # Live feed on ws://host:8080/ws
  arcade serve --host-key ./my_host_key  # Use specific host key

Players can connect with:
  ssh -p 2222 ann@localhost`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Websocket feed address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", 0, "Maximum concurrent players (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	srvCfg := arcadeCfg.Server
	if flagSSHAddr != "" {
		srvCfg.SSHAddr = flagSSHAddr
	}
	if cmd.Flags().Changed("ws") {
		srvCfg.WSAddr = flagWSAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = flagIdleTimeout
	}
	if flagMaxSessions > 0 {
		srvCfg.MaxSessions = flagMaxSessions
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := hubOptions()
	errCh := make(chan error, 2)
	listeners := 1

	if srvCfg.WSAddr != "" {
		feed := relay.New(logger.WithPrefix("relay"))
		defer feed.Close()
		opts.Feed = feed
		listeners++
		go func() {
			errCh <- feed.ListenAndServe(ctx, srvCfg.WSAddr)
		}()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     srvCfg.SSHAddr,
		HostKeyPath: srvCfg.HostKey,
		IdleTimeout: srvCfg.IdleTimeout,
		MaxSessions: srvCfg.MaxSessions,
		Hub:         opts,
		TickRate:    flagFPS,
	}, store, logger.WithPrefix("ssh"))
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	go func() {
		errCh <- server.ListenAndServe(ctx)
	}()

	fmt.Printf("Arcade open on %s\n", server.Addr())
	if srvCfg.WSAddr != "" {
		fmt.Printf("Live feed on ws://%s/ws\n", srvCfg.WSAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	// The first listener to stop takes the other one down with it.
	var firstErr error
	for range listeners {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
		stop()
	}
	return firstErr
}
