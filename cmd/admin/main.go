package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yigit/advisorly/internal/app/repositories"
	"github.com/yigit/advisorly/internal/app/services"
	"github.com/yigit/advisorly/internal/bootstrap"
	"github.com/yigit/advisorly/internal/pkg/logger"
	"github.com/yigit/advisorly/internal/seed"
)

func main() {
	app := &cli.App{
		Name:  "advisorly-admin",
		Usage: "maintenance tasks for the Advisorly database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to the YAML configuration",
				Value:       bootstrap.DefaultConfigPath,
				Destination: &bootstrap.DefaultConfigPath,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending SQL migrations",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "create the demo advisor, students and project",
				Action: seedDemo,
			},
			{
				Name:  "sweep",
				Usage: "expire appointments nobody answered before their scheduled time",
				Flags: []cli.Flag{
					&cli.TimestampFlag{
						Name:   "now",
						Usage:  "reference time for the sweep (RFC 3339)",
						Layout: time.RFC3339,
					},
				},
				Action: sweep,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func migrate(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return err
	}
	pool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	return bootstrap.RunMigrations(c.Context, cfg, pool, lgr)
}

func seedDemo(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return err
	}
	pool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	return seed.CreateDefaultData(c.Context, pool, lgr)
}

func sweep(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return err
	}
	pool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	now := time.Now()
	if ts := c.Timestamp("now"); ts != nil {
		now = *ts
	}

	// no pusher: the sweep does not notify anyone
	svc := services.NewServices(repositories.NewRepositories(pool), bootstrap.NewJWTService(cfg), nil, cfg.Location())

	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()
	expired, err := svc.Appointment.SweepExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("sweep finished with errors after expiring %d appointments: %w", expired, err)
	}
	lgr.Info().Int("expired", expired).Time("now", now).Msg("Sweep complete")
	return nil
}
