// Package app owns the lifecycle of one peer: the sync server and the
// command loop run in a single scope and stop together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"meshsync/internal/client"
	"meshsync/internal/config"
	"meshsync/internal/console"
	httpapi "meshsync/internal/microservices/http-api"
	"meshsync/internal/microservices/http-api/service"
	"meshsync/internal/scene"
)

// Ports are the two required process arguments.
type Ports struct {
	Listen int
	Peer   int
}

// Validate checks both ports are usable TCP ports.
func (p Ports) Validate() error {
	if p.Listen < 1 || p.Listen > 65535 {
		return fmt.Errorf("listen port must be between 1 and 65535, got %d", p.Listen)
	}
	if p.Peer < 1 || p.Peer > 65535 {
		return fmt.Errorf("peer port must be between 1 and 65535, got %d", p.Peer)
	}
	return nil
}

type Peer struct {
	Scene   *scene.Scene
	Service service.MeshService
	Server  *httpapi.Server
	Client  *client.HTTPClient
	Loop    *console.Loop
	logger  *slog.Logger
}

// NewPeer wires one peer. Operator output goes to out, access logs to accessLog.
func NewPeer(cfg *config.Config, ports Ports, lines *console.Lines, out, accessLog io.Writer, logger *slog.Logger) *Peer {
	if logger == nil {
		logger = slog.Default()
	}

	store := scene.New(logger)
	meshService := service.NewMeshService(store, cfg.MeshName, service.FileAssetLoader(cfg.AssetPath), logger)
	server := httpapi.NewServer(
		net.JoinHostPort(cfg.ListenHost, fmt.Sprint(ports.Listen)),
		meshService,
		httpapi.Options{
			MaxSnapshotBytes: cfg.MaxSnapshotBytes,
			RateLimit:        cfg.SnapshotRateLimit,
			RateBurst:        cfg.SnapshotRateBurst,
			AccessLog:        accessLog,
		},
		logger,
	)
	httpClient := client.NewHTTPClient(cfg.PeerHost, ports.Peer, cfg.CommitTimeout)

	loop := console.NewLoop(meshService, httpClient, lines, out, logger)
	loop.PlaceholderOnInvalid = cfg.PlaceholderOnInvalid

	return &Peer{
		Scene:   store,
		Service: meshService,
		Server:  server,
		Client:  httpClient,
		Loop:    loop,
		logger:  logger,
	}
}

// Start listens on the configured address and runs the peer.
func (p *Peer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to start sync server, error: %w", err)
	}
	return p.Run(ctx, ln)
}

// Run serves on ln and runs the command loop until ctx is cancelled, the
// operator quits, or the server fails. The loop ending on EOF or a failed
// commit leaves the server running.
func (p *Peer) Run(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.Server.Serve(gctx, ln)
	})

	g.Go(func() error {
		err := p.Loop.Run(gctx)
		switch {
		case errors.Is(err, console.ErrQuit):
			p.logger.Info("quit_requested")
			cancel()
		case err == nil:
			p.logger.Info("command_loop_finished", "reason", "end of input")
		case errors.Is(err, context.Canceled):
		default:
			p.logger.Error("command_loop_stopped", "error", err.Error())
		}
		return nil
	})

	return g.Wait()
}
