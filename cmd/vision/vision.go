package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/team5607/go-controller/pkg/logging"
	"github.com/team5607/go-controller/pkg/tracker"
	"github.com/team5607/go-controller/pkg/vision"
)

func main() {
	app := &cli.App{
		Name:  "vision",
		Usage: "find notes and AprilTags and send them to the controller",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "camera-config",
				Value: vision.DefaultCameraConfigPath,
				Usage: "read camera settings from `FILE`",
			},
			&cli.StringFlag{
				Name:  "calibration",
				Value: "cal.txt",
				Usage: "camera intrinsics `FILE` (fx, fy, cx, cy)",
			},
			&cli.IntFlag{
				Name:  "ring-camera",
				Value: 2,
				Usage: "video device index of the note camera",
			},
			&cli.StringFlag{
				Name:  "controller",
				Value: "10.56.7.2:5800",
				Usage: "controller `ADDR` to send results to",
			},
			&cli.BoolFlag{
				Name:  "no-rings",
				Usage: "disable note tracking",
			},
			&cli.BoolFlag{
				Name:  "no-tags",
				Usage: "disable AprilTag detection",
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
	logger, err := logging.New("vision", c.Bool("debug"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pub, err := vision.Dial(c.String("controller"))
	if err != nil {
		return err
	}
	defer pub.Close()

	var (
		tagCam  *tracker.Camera
		tags    *tracker.TagDetector
		ringCam *tracker.Camera
		rings   *tracker.RingTracker
	)

	if !c.Bool("no-tags") {
		camCfg, err := vision.ReadCameraConfig(logger, c.String("camera-config"))
		if err != nil {
			return err
		}
		if len(camCfg.Cameras) == 0 {
			return cli.Exit("no cameras configured", 1)
		}
		cal, err := vision.ReadCalibration(c.String("calibration"))
		if err != nil {
			return err
		}
		cam := camCfg.Cameras[0]
		logger.Infow("Starting camera", "name", cam.Name, "path", cam.Path)
		tagCam, err = tracker.OpenCamera(logger.Named(cam.Name), cam.Path)
		if err != nil {
			return err
		}
		defer tagCam.Close()
		tags = tracker.NewTagDetector(cal)
		defer tags.Close()
	}
	if !c.Bool("no-rings") {
		ringCam, err = tracker.OpenCamera(logger.Named("rings"), c.Int("ring-camera"))
		if err != nil {
			logger.Warnw("Rings disabled", "error", err)
		} else {
			defer ringCam.Close()
			rings = tracker.NewRingTracker(tracker.RingColour)
		}
	}

	loopCtx, stopLoops := context.WithCancel(ctx)
	done := make(chan struct{}, 2)
	for _, cam := range []*tracker.Camera{tagCam, ringCam} {
		if cam == nil {
			continue
		}
		go func(cam *tracker.Camera) {
			defer func() { done <- struct{}{} }()
			cam.Loop(loopCtx)
		}(cam)
	}
	defer func() {
		stopLoops()
		for _, cam := range []*tracker.Camera{tagCam, ringCam} {
			if cam != nil {
				<-done
			}
		}
	}()

	processFrames(ctx, logger, pub, tagCam, tags, ringCam, rings)
	return nil
}

func processFrames(
	ctx context.Context,
	logger *zap.SugaredLogger,
	pub *vision.Publisher,
	tagCam *tracker.Camera,
	tags *tracker.TagDetector,
	ringCam *tracker.Camera,
	rings *tracker.RingTracker,
) {
	tagFrame := gocv.NewMat()
	defer tagFrame.Close()
	ringFrame := gocv.NewMat()
	defer ringFrame.Close()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if ringCam != nil && ringCam.Latest(&ringFrame) {
			p := rings.Find(ringFrame)
			vision.PublishRings(pub, [2]float64{float64(p.X), float64(p.Y)})
		}
		if tagCam != nil && tagCam.Latest(&tagFrame) {
			// The tag camera is mounted upside down.
			gocv.Rotate(tagFrame, &tagFrame, gocv.Rotate180Clockwise)
			found := tags.Detect(tagFrame)
			for _, t := range found {
				logger.Debugw("Tag", "id", t.ID, "center", t.Center, "dist", t.Distance)
			}
			vision.PublishTags(pub, time.Now(), found)
		}
		if err := pub.Flush(); err != nil {
			logger.Warnw("Failed to send vision update", "error", err)
		}
	}
}
