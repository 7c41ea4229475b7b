package command

// root.go defines the meshsync command: it resolves the two ports, then runs
// the sync server and the operator command loop until interrupted.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"meshsync/internal/app"
	"meshsync/internal/config"
	"meshsync/internal/console"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshsync [-- <listen-port> <peer-port>]",
	Short: "meshsync - exchange one editable mesh with a peer",
	Long: `meshsync keeps a single mesh and exchanges it with one peer over HTTP.
The operator can:
- create: load the mesh from the asset file
- commit: send the current mesh to the peer
- status: show the current mesh
- quit:   stop both the server and the command loop

Ports come from the two tokens after "--", or are prompted for.
Everything else is configured through the environment or a .env file.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	out := cmd.OutOrStdout()
	lines := console.NewLines(cmd.InOrStdin())

	ports, err := resolvePorts(cmd.Context(), cmd.ArgsLenAtDash(), args, lines, out)
	if err != nil {
		return err
	}
	printBanner(out, ports)

	logger.Info("starting_peer",
		"listen_port", ports.Listen,
		"peer", fmt.Sprintf("%s:%d", cfg.PeerHost, ports.Peer),
		"mesh_name", cfg.MeshName,
	)

	peer := app.NewPeer(cfg, ports, lines, out, cmd.ErrOrStderr(), logger)
	if err := peer.Start(cmd.Context()); err != nil {
		return err
	}
	logger.Info("peer_stopped")
	return nil
}
