package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/gocull/internal/config"
	"github.com/philipparndt/gocull/internal/logging"
	"github.com/philipparndt/gocull/version"
	"github.com/spf13/cobra"
)

// rootOptions is shared by every command. cfg and log are ready once the
// persistent pre-run has finished.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gocull",
		Short: "Frustum culling and bounding volume queries for 3D scenes",
		Long: `gocull places STL, OpenSCAD and primitive models in a scene, builds a bounding
sphere and an oriented box for each of them, and answers the questions a renderer
and a physics pass ask every frame: which objects are visible, which overlap, and
which contain a point.`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newInfoCmd(opts),
		newCullCmd(opts),
		newIntersectCmd(opts),
		newPointCmd(opts),
		newSweepCmd(opts),
		newRenderCmd(opts),
	)
	return cmd
}

func (o *rootOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	o.cfg = cfg
	o.log = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
