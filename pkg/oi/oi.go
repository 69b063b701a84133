// Package oi binds the driver's controller to commands.
package oi

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/team5607/go-controller/pkg/command"
	"github.com/team5607/go-controller/pkg/joystick"
	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/screen"
)

const noJoy = "NO JOY"

type Scheduler interface {
	Schedule(cmd command.Command)
	Cancel(cmd command.Command)
}

// ApplyDeadband zeroes |value| <= deadband and rescales the rest so the
// output still spans [-1, 1].
func ApplyDeadband(value, deadband float64) float64 {
	if math.Abs(value) <= deadband {
		return 0
	}
	if value > 0 {
		return (value - deadband) / (1 - deadband)
	}
	return (value + deadband) / (1 - deadband)
}

type Controller struct {
	log   *zap.SugaredLogger
	sched Scheduler
	cfg   robotconfig.OIConfig

	lock      sync.Mutex
	whileHeld map[uint8][]command.Command
	onPress   map[uint8][]command.Command
	held      map[uint8]bool
	axes      map[uint8]float64
}

func New(log *zap.SugaredLogger, sched Scheduler, cfg robotconfig.OIConfig) *Controller {
	return &Controller{
		log:       log,
		sched:     sched,
		cfg:       cfg,
		whileHeld: map[uint8][]command.Command{},
		onPress:   map[uint8][]command.Command{},
		held:      map[uint8]bool{},
		axes:      map[uint8]float64{},
	}
}

// WhileHeld schedules cmd when button goes down and cancels it when the
// button comes up.
func (c *Controller) WhileHeld(button uint8, cmd command.Command) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.whileHeld[button] = append(c.whileHeld[button], cmd)
}

func (c *Controller) OnPress(button uint8, cmd command.Command) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onPress[button] = append(c.onPress[button], cmd)
}

// Axis returns the last reading of axis with the deadband applied.
func (c *Controller) Axis(axis uint8) float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return ApplyDeadband(c.axes[axis], c.cfg.DriveDeadband)
}

func (c *Controller) HandleEvent(e *joystick.Event) {
	c.lock.Lock()
	defer c.lock.Unlock()

	switch e.Type {
	case joystick.EventTypeAxis:
		c.axes[e.Number] = e.AxisValue()
	case joystick.EventTypeButton:
		if e.Init {
			// Only act on real edges; a button held at connect time is ignored
			// until it is released and pressed again.
			return
		}
		down := e.Value != 0
		if down == c.held[e.Number] {
			return
		}
		c.held[e.Number] = down
		if down {
			for _, cmd := range c.whileHeld[e.Number] {
				c.sched.Schedule(cmd)
			}
			for _, cmd := range c.onPress[e.Number] {
				c.sched.Schedule(cmd)
			}
		} else {
			for _, cmd := range c.whileHeld[e.Number] {
				c.sched.Cancel(cmd)
			}
		}
	}
}

// releaseAll cancels every while-held command, as if all buttons came up.
func (c *Controller) releaseAll() {
	c.lock.Lock()
	defer c.lock.Unlock()
	for button, down := range c.held {
		if !down {
			continue
		}
		for _, cmd := range c.whileHeld[button] {
			c.sched.Cancel(cmd)
		}
		delete(c.held, button)
	}
	for axis := range c.axes {
		c.axes[axis] = 0
	}
}

// Run reads the driver controller until ctx is done, reopening it if it
// disconnects.  Losing the controller releases every held button.
func (c *Controller) Run(ctx context.Context) {
	device := joystick.DevicePath(c.cfg.DriverControllerPort)
	firstLog := true
	for ctx.Err() == nil {
		j, err := joystick.NewJoystick(device)
		if err != nil {
			if firstLog {
				screen.SetNotice(noJoy, screen.LevelErr)
				c.log.Infow("Waiting for joystick", "error", err)
				firstLog = false
			}
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		screen.ClearNotice(noJoy)
		c.log.Infow("Opened joystick", "device", device)
		firstLog = true

		events := make(chan *joystick.Event)
		done := make(chan error, 1)
		go func() {
			done <- j.Loop(ctx, events)
		}()
		for e := range events {
			c.log.Debugf("Event from joystick: %s", e)
			c.HandleEvent(e)
		}
		if err := <-done; err != nil && ctx.Err() == nil {
			c.log.Warnw("Joystick failed", "error", err)
		}
		_ = j.Close()
		c.releaseAll()
	}
}
