package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gnatci/gprstep/pkg/daemon"
	"github.com/gnatci/gprstep/pkg/launcher"
	"github.com/gnatci/gprstep/pkg/logging"
)

// NewDaemonCommand returns the specification of the `daemon` command.
func NewDaemonCommand() *cli.Command {
	return &cli.Command{
		Name:   "daemon",
		Usage:  "serve installation management and build steps over HTTP",
		Action: daemonCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address (overrides .env.toml)",
			},
		},
	}
}

func daemonCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(ProcessContext())
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if l := c.String("listen"); l != "" {
		cfg.Daemon.Listen = l
	}

	registry, closeStore, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint

	srv, err := daemon.New(cfg, registry, launcher.NewLocal())
	if err != nil {
		return err
	}

	exiting := make(chan struct{})
	defer close(exiting)

	go func() {
		select {
		case <-ctx.Done():
		case <-exiting:
			// no need to shutdown in this case.
			return
		}

		logging.S().Infow("shutting down daemon")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logging.S().Fatalw("failed to shut down daemon", "err", err)
		}
		logging.S().Infow("daemon stopped")
	}()

	err = srv.Serve()
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}
