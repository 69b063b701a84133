package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/team5607/go-controller/pkg/climb"
	"github.com/team5607/go-controller/pkg/command"
	"github.com/team5607/go-controller/pkg/hardware"
	"github.com/team5607/go-controller/pkg/joystick"
	"github.com/team5607/go-controller/pkg/logging"
	"github.com/team5607/go-controller/pkg/notesensor"
	"github.com/team5607/go-controller/pkg/oi"
	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/screen"
	"github.com/team5607/go-controller/pkg/sound"
	"github.com/team5607/go-controller/pkg/vision"
)

func main() {
	app := &cli.App{
		Name:  "controller",
		Usage: "run the robot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   robotconfig.DefaultPath,
				Usage:   "overlay configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  "in-use",
				Value: robotconfig.InUsePath,
				Usage: "write the effective configuration to `FILE`",
			},
			&cli.BoolFlag{
				Name:  "dummy",
				Usage: "log hardware calls instead of driving the robot",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	logger, err := logging.New("controller", c.Bool("debug"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Infow("---- 5607 ----", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	cfg, err := robotconfig.Load(c.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.WriteInUse(c.String("in-use")); err != nil {
		logger.Warnw("Failed to record config in use", "error", err)
	}

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(c.Context)

	hw, err := newHardware(logger.Named("hw"), cfg, c.Bool("dummy"))
	if err != nil {
		cancel()
		return err
	}
	defer func() {
		logger.Info("Zeroing motors for shut down")
		hw.Shutdown()
		time.Sleep(100 * time.Millisecond)
	}()
	// Runs before Shutdown, which waits for the hardware loops to see it.
	defer cancel()

	// Hook Ctrl-C etc.
	registerSignalHandlers(logger, cancel)

	hw.Start(ctx)
	screen.SetMode("TELEOP")

	sched := command.NewScheduler(logger.Named("scheduler"))

	climbMotor, err := hw.Motor(cfg.Climb.MotorPort)
	if err != nil {
		return err
	}
	climber := climb.New(logger.Named("climb"), climbMotor, cfg.Climb)

	notes, err := notesensor.New(logger.Named("notes"), hw, cfg.Intake, cfg.LED)
	if err != nil {
		return err
	}

	table := vision.NewMemTable()
	listener, err := vision.Listen(logger.Named("vision"), cfg.Hardware.VisionListenAddr, table)
	if err != nil {
		logger.Warnw("Vision disabled", "error", err)
	} else {
		go listener.Loop(ctx)
	}

	sched.Register(climber, notes, vision.NewMonitor(table, cfg.Vision))

	driver := oi.New(logger.Named("oi"), sched, cfg.OI)
	driver.WhileHeld(joystick.ButtonR1, climb.NewLeftCommand(climber, cfg.Climb.StopWhenPolled))
	driver.OnPress(joystick.ButtonR1, command.Instant("ClimbCue", func() {
		hw.PlaySound(sound.Climb)
	}))
	driver.OnPress(joystick.ButtonSquare, command.Instant("StopClimb", climber.StopClimb, climber))
	go driver.Run(ctx)

	hw.PlaySound(sound.Startup)
	sched.Run(ctx, cfg.Hardware.ControlPeriod)
	return nil
}

func newHardware(logger *zap.SugaredLogger, cfg *robotconfig.Config, dummy bool) (hardware.Interface, error) {
	if dummy {
		return hardware.NewDummy(logger), nil
	}
	hw, err := hardware.New(logger, cfg.Hardware)
	if err != nil {
		return nil, err
	}
	return hw, nil
}

func registerSignalHandlers(logger *zap.SugaredLogger, cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		logger.Infow("Signal", "signal", s)
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
