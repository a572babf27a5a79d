package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arcwright/lambda-gateway/config"
)

const (
	ServiceName      = "lambda-gatewayd"
	ServiceNamespace = "arcwright"
)

var (
	version = "0.0.0"
	commit  = "hash"
	branch  = "branch"
)

// Run builds and executes the CLI app. Its single subcommand, serve, boots
// the full fx graph: rendezvous, mailbox, runtime manager, orchestrator,
// and the HTTP surface described in spec.md §6.
func Run() error {
	app := &cli.App{
		Name:    ServiceName,
		Usage:   "local emulator for the AWS Lambda Runtime Interface",
		Version: version,
		Commands: []*cli.Command{
			serveCmd(),
		},
	}

	return app.Run(os.Args)
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Aliases:   []string{"s"},
		Usage:     "start the gateway, spawning workers with <command> [args...]",
		ArgsUsage: "[command] [args...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to an optional YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "override the listen address (also AWS_LAMBDA_RUNTIME_API advertised to workers)",
			},
			&cli.DurationFlag{
				Name:  "worker-lifetime",
				Usage: "override the age budget after which a worker becomes eligible for reaping",
			},
			&cli.DurationFlag{
				Name:  "gc-interval",
				Usage: "override the runtime manager's reaper tick cadence",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "switch the logger from JSON to human-readable text output",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			// Positional arguments override the worker command the
			// gateway spawns; spec.md §6 defaults to "./main" with no
			// args when none are given.
			if c.NArg() > 0 {
				cfg.WorkerCommand = c.Args().First()
				cfg.WorkerArgs = c.Args().Tail()
			}
			if addr := c.String("listen"); addr != "" {
				cfg.ListenAddr = addr
			}
			if d := c.Duration("worker-lifetime"); d != time.Duration(0) {
				cfg.WorkerLifetime = d
			}
			if d := c.Duration("gc-interval"); d != time.Duration(0) {
				cfg.GCInterval = d
			}
			if c.Bool("dev") {
				cfg.Dev = true
			}

			app := NewApp(cfg)

			if err := app.Start(c.Context); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			slog.Info("cmd: shutting down")
			return app.Stop(context.Background())
		},
	}
}
