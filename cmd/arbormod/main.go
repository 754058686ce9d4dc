package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "arbormod",
		Usage:   "moderation and rate-limiting daemon for the arbor forum",
		Version: versioninfo.Short(),
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for HTTP APIs",
			Value:   ":3899",
			EnvVars: []string{"ARBORMOD_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3898",
			EnvVars: []string{"ARBORMOD_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for durable actor reputation; in-memory store when unset",
			EnvVars: []string{"ARBORMOD_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "rules-file-json",
			Usage:   "file path of extra moderation rules to merge with the built-ins",
			EnvVars: []string{"ARBORMOD_RULES_FILE_JSON"},
		},
		&cli.StringFlag{
			Name:    "action-webhook-url",
			Usage:   "webhook URL to POST decided moderation actions to",
			EnvVars: []string{"ARBORMOD_ACTION_WEBHOOK_URL"},
		},
		&cli.BoolFlag{
			Name:    "strict-mode",
			Usage:   "lower the content risk threshold from 0.5 to 0.2",
			EnvVars: []string{"ARBORMOD_STRICT_MODE"},
		},
		&cli.BoolFlag{
			Name:    "fail-closed",
			Usage:   "reject events when a checker fails, instead of permitting them",
			EnvVars: []string{"ARBORMOD_FAIL_CLOSED"},
		},
		&cli.Float64Flag{
			Name:    "spam-threshold",
			Usage:   "spam score above which an event is spam",
			Value:   0.5,
			EnvVars: []string{"ARBORMOD_SPAM_THRESHOLD"},
		},
		&cli.IntFlag{
			Name:    "audit-capacity",
			Usage:   "max in-memory audit log entries before bulk eviction",
			Value:   10_000,
			EnvVars: []string{"ARBORMOD_AUDIT_CAPACITY"},
		},
		&cli.DurationFlag{
			Name:    "eval-timeout",
			Usage:   "per-evaluation deadline (0 disables)",
			EnvVars: []string{"ARBORMOD_EVAL_TIMEOUT"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		srv, err := NewServer(Config{
			Bind:             cctx.String("bind"),
			RedisURL:         cctx.String("redis-url"),
			RulesFileJSON:    cctx.String("rules-file-json"),
			ActionWebhookURL: cctx.String("action-webhook-url"),
			StrictMode:       cctx.Bool("strict-mode"),
			FailClosed:       cctx.Bool("fail-closed"),
			SpamThreshold:    cctx.Float64("spam-threshold"),
			AuditCapacity:    cctx.Int("audit-capacity"),
			EvalTimeout:      cctx.Duration("eval-timeout"),
			Logger:           logger,
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				os.Exit(1)
			}
		}()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.RunAPI(cctx.String("bind"))
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}
