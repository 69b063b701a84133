package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/team5607/go-controller/pkg/joystick"
	"github.com/team5607/go-controller/pkg/logging"
)

func main() {
	app := &cli.App{
		Name:  "joytests",
		Usage: "print events from a joystick",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   0,
				EnvVars: []string{"JOYSTICK_PORT"},
				Usage:   "controller port (/dev/input/js<port>)",
			},
		},
		Action: func(c *cli.Context) error {
			logger, err := logging.New("joytests", true)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			j, err := joystick.NewJoystick(joystick.DevicePath(c.Int("port")))
			if err != nil {
				return err
			}
			logger.Info("Opened joystick")

			go func() {
				// Unblocks the read in Loop.
				<-ctx.Done()
				_ = j.Close()
			}()

			events := make(chan *joystick.Event)
			go func() {
				if err := j.Loop(ctx, events); err != nil && ctx.Err() == nil {
					logger.Errorw("Joystick failed", "error", err)
				}
			}()
			for je := range events {
				logger.Infow("Event", "event", je.String(), "init", je.Init)
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
