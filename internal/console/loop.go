// Package console runs the operator command loop: create a mesh from the
// asset, commit the current mesh to the peer, or inspect it.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"meshsync/internal/geometry"
	"meshsync/internal/microservices/http-api/service"
	"meshsync/internal/scene"
)

// ErrQuit is returned by Run when the operator asks to stop the process.
var ErrQuit = errors.New("quit requested")

// Committer sends a snapshot to the peer.
type Committer interface {
	Commit(ctx context.Context, snap geometry.Snapshot) error
}

var (
	warn    = color.New(color.FgYellow)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	info    = color.New(color.FgCyan)
)

type Loop struct {
	meshService service.MeshService
	committer   Committer
	lines       *Lines
	out         io.Writer
	logger      *slog.Logger

	// PlaceholderOnInvalid makes unrecognized commands replace the mesh with
	// a single placeholder triangle before reporting the error.
	PlaceholderOnInvalid bool
}

func NewLoop(meshService service.MeshService, committer Committer, lines *Lines, out io.Writer, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		meshService: meshService,
		committer:   committer,
		lines:       lines,
		out:         out,
		logger:      logger,
	}
}

// Run prompts and dispatches until input ends (nil), the operator quits
// (ErrQuit), ctx is cancelled (ctx.Err()) or a commit fails.
func (l *Loop) Run(ctx context.Context) error {
	defer l.lines.Close() // nothing reads input after the loop
	for {
		fmt.Fprint(l.out, "Command: ")
		line, err := l.lines.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(l.out)
				return nil
			}
			return err
		}
		if err := l.Dispatch(ctx, line); err != nil {
			return err
		}
	}
}

// Dispatch runs one command line. Only fatal conditions are returned; every
// other outcome is reported to the operator.
func (l *Loop) Dispatch(ctx context.Context, line string) error {
	switch cmd := strings.TrimSpace(line); cmd {
	case "":
		return nil
	case "create":
		l.create(ctx)
		return nil
	case "commit":
		return l.commit(ctx)
	case "status":
		l.status(ctx)
		return nil
	case "quit", "exit":
		return ErrQuit
	default:
		if l.PlaceholderOnInvalid {
			if _, err := l.meshService.CreatePlaceholder(ctx); err != nil {
				failure.Fprintf(l.out, "Placeholder failed: %v\n", err)
			}
		}
		warn.Fprintln(l.out, "Invalid command!")
		l.logger.Debug("invalid_command", "command", cmd)
		return nil
	}
}

func (l *Loop) create(ctx context.Context) {
	if l.meshService.Exists() {
		warn.Fprintln(l.out, "Mesh already exists!")
		return
	}

	h, err := l.meshService.CreateFromAsset(ctx)
	if err != nil {
		if errors.Is(err, scene.ErrDuplicateName) {
			warn.Fprintln(l.out, "Mesh already exists!")
			return
		}
		failure.Fprintf(l.out, "Create failed: %v\n", err)
		l.logger.Error("create_failed", "error", err.Error())
		return
	}
	success.Fprintf(l.out, "Created %s (%s)\n", h.Name, h.ID)
}

func (l *Loop) commit(ctx context.Context) error {
	if !l.meshService.Exists() {
		warn.Fprintln(l.out, "Mesh doesn't exist!")
		return nil
	}

	snap, err := l.meshService.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, scene.ErrMissingName) {
			warn.Fprintln(l.out, "Mesh doesn't exist!")
			return nil
		}
		return fmt.Errorf("read mesh for commit: %w", err)
	}

	digest := geometry.Digest(snap.Faces)
	if err := l.committer.Commit(ctx, snap); err != nil {
		failure.Fprintf(l.out, "Commit failed: %v\n", err)
		l.logger.Error("commit_failed", "digest", digest, "error", err.Error())
		return err
	}

	l.logger.Info("commit_sent", "faces", len(snap.Faces), "digest", digest)
	success.Fprintf(l.out, "Committed %d faces (%s)\n", len(snap.Faces), digest[:12])
	return nil
}

func (l *Loop) status(ctx context.Context) {
	st, err := l.meshService.Status(ctx)
	if err != nil {
		if errors.Is(err, scene.ErrMissingName) {
			warn.Fprintln(l.out, "Mesh doesn't exist!")
			return
		}
		failure.Fprintf(l.out, "Status failed: %v\n", err)
		return
	}
	info.Fprintf(l.out, "%s %s\n", st.Handle.Name, st.Handle.ID)
	info.Fprintf(l.out, "  vertices: %d  faces: %d  triangles: %d\n", st.Vertices, st.Faces, st.Triangles)
	info.Fprintf(l.out, "  digest:   %s\n", st.Handle.Digest)
}
