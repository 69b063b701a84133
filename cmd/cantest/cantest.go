package main

import (
	"context"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/team5607/go-controller/pkg/hardware"
	"github.com/team5607/go-controller/pkg/logging"
	"github.com/team5607/go-controller/pkg/robotconfig"
)

func main() {
	app := &cli.App{
		Name:      "cantest",
		Usage:     "spin one SPARK MAX for bring-up",
		ArgsUsage: "<motor name or CAN ID>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   robotconfig.DefaultPath,
				Usage:   "overlay configuration from `FILE`",
			},
			&cli.Float64Flag{
				Name:  "duty",
				Value: 0.1,
				Usage: "duty cycle in [-1, 1]",
			},
			&cli.DurationFlag{
				Name:  "duration",
				Value: 2 * time.Second,
				Usage: "how long to run the motor",
			},
			&cli.BoolFlag{
				Name:  "dummy",
				Usage: "log instead of driving the motor",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func resolveMotor(cfg *robotconfig.Config, arg string) (int, error) {
	ids := cfg.MotorCanIDs()
	if id, ok := ids[arg]; ok {
		return id, nil
	}
	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return 0, errors.Errorf("unknown motor %q; known motors: %s", arg, strings.Join(names, ", "))
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected one motor name or CAN ID", 2)
	}
	logger, err := logging.New("cantest", true)
	if err != nil {
		return err
	}
	cfg, err := robotconfig.Load(c.String("config"))
	if err != nil {
		return err
	}
	canID, err := resolveMotor(cfg, c.Args().First())
	if err != nil {
		return err
	}

	var hw hardware.Interface
	if c.Bool("dummy") {
		hw = hardware.NewDummy(logger.Named("hw"))
	} else {
		h, err := hardware.New(logger.Named("hw"), cfg.Hardware)
		if err != nil {
			return err
		}
		hw = h
	}
	ctx, cancel := context.WithCancel(c.Context)
	hw.Start(ctx)
	defer hw.Shutdown()
	defer cancel()

	m, err := hw.Motor(canID)
	if err != nil {
		return err
	}
	duty := c.Float64("duty")
	logger.Infow("Running motor", "canID", canID, "duty", duty, "for", c.Duration("duration"))

	// The controller drops to neutral if the setpoint isn't refreshed.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(c.Duration("duration"))
	for {
		if err := m.Set(duty); err != nil {
			return err
		}
		select {
		case <-deadline:
			logger.Info("Done")
			return m.StopMotor()
		case <-ctx.Done():
			return m.StopMotor()
		case <-ticker.C:
		}
	}
}
