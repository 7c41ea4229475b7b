package command

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"meshsync/internal/app"
	"meshsync/internal/console"
)

// resolvePorts takes the last two arguments after "--" when the separator is
// present (dashAt >= 0), otherwise prompts for both on lines.
func resolvePorts(ctx context.Context, dashAt int, args []string, lines *console.Lines, out io.Writer) (app.Ports, error) {
	var ports app.Ports

	if dashAt >= 0 {
		if len(args)-dashAt < 2 {
			return ports, fmt.Errorf("expected <listen-port> <peer-port> after --, got %d argument(s)", len(args)-dashAt)
		}
		var err error
		if ports.Listen, err = parsePort(args[len(args)-2]); err != nil {
			return ports, fmt.Errorf("listen port: %w", err)
		}
		if ports.Peer, err = parsePort(args[len(args)-1]); err != nil {
			return ports, fmt.Errorf("peer port: %w", err)
		}
		return ports, ports.Validate()
	}

	var err error
	if ports.Listen, err = promptPort(ctx, "My port: ", lines, out); err != nil {
		return ports, fmt.Errorf("listen port: %w", err)
	}
	if ports.Peer, err = promptPort(ctx, "Peer port: ", lines, out); err != nil {
		return ports, fmt.Errorf("peer port: %w", err)
	}
	return ports, ports.Validate()
}

func promptPort(ctx context.Context, prompt string, lines *console.Lines, out io.Writer) (int, error) {
	fmt.Fprint(out, prompt)
	line, err := lines.Next(ctx)
	if err != nil {
		return 0, err
	}
	return parsePort(line)
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if p < 1 {
		return 0, fmt.Errorf("port must be positive, got %d", p)
	}
	return p, nil
}

func printBanner(out io.Writer, ports app.Ports) {
	fmt.Fprintf(out,
		"+-------------------------------------+\n"+
			"| My port: %05d                      |\n"+
			"| Peer port: %05d                    |\n"+
			"|                                     |\n"+
			"| Commands:                           |\n"+
			"| - create: Create a new mesh.        |\n"+
			"| - commit: Commit the current mesh.  |\n"+
			"| - status: Show the current mesh.    |\n"+
			"| - quit:   Stop this peer.           |\n"+
			"+-------------------------------------+\n",
		ports.Listen, ports.Peer)
}
