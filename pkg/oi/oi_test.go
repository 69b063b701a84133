package oi

import (
	"testing"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/team5607/go-controller/pkg/command"
	"github.com/team5607/go-controller/pkg/joystick"
	"github.com/team5607/go-controller/pkg/robotconfig"
)

type call struct {
	op  string
	cmd command.Command
}

type fakeScheduler struct {
	calls []call
}

func (f *fakeScheduler) Schedule(cmd command.Command) {
	f.calls = append(f.calls, call{"schedule", cmd})
}

func (f *fakeScheduler) Cancel(cmd command.Command) {
	f.calls = append(f.calls, call{"cancel", cmd})
}

func button(n uint8, v int16) *joystick.Event {
	return &joystick.Event{Type: joystick.EventTypeButton, Number: n, Value: v}
}

func newTestController(t *testing.T) (*Controller, *fakeScheduler) {
	sched := &fakeScheduler{}
	return New(zaptest.NewLogger(t).Sugar(), sched, robotconfig.Default().OI), sched
}

func TestApplyDeadband(t *testing.T) {
	test.That(t, ApplyDeadband(0.04, 0.05), test.ShouldEqual, 0.0)
	test.That(t, ApplyDeadband(-0.05, 0.05), test.ShouldEqual, 0.0)
	test.That(t, ApplyDeadband(1, 0.05), test.ShouldAlmostEqual, 1.0)
	test.That(t, ApplyDeadband(-1, 0.05), test.ShouldAlmostEqual, -1.0)
	test.That(t, ApplyDeadband(0.525, 0.05), test.ShouldAlmostEqual, 0.5)
	test.That(t, ApplyDeadband(0.3, 0), test.ShouldEqual, 0.3)
}

func TestWhileHeld(t *testing.T) {
	c, sched := newTestController(t)
	climb := command.Instant("climb", func() {})
	c.WhileHeld(joystick.ButtonR1, climb)

	c.HandleEvent(button(joystick.ButtonR1, 1))
	// Repeated press reports are not new edges.
	c.HandleEvent(button(joystick.ButtonR1, 1))
	c.HandleEvent(button(joystick.ButtonL1, 1))
	c.HandleEvent(button(joystick.ButtonR1, 0))

	test.That(t, sched.calls, test.ShouldResemble, []call{
		{"schedule", climb},
		{"cancel", climb},
	})
}

func TestOnPress(t *testing.T) {
	c, sched := newTestController(t)
	stop := command.Instant("stop", func() {})
	c.OnPress(joystick.ButtonSquare, stop)

	c.HandleEvent(button(joystick.ButtonSquare, 1))
	c.HandleEvent(button(joystick.ButtonSquare, 0))
	c.HandleEvent(button(joystick.ButtonSquare, 1))

	test.That(t, sched.calls, test.ShouldResemble, []call{
		{"schedule", stop},
		{"schedule", stop},
	})
}

func TestInitEventsIgnored(t *testing.T) {
	c, sched := newTestController(t)
	c.WhileHeld(joystick.ButtonR1, command.Instant("climb", func() {}))
	e := button(joystick.ButtonR1, 1)
	e.Init = true
	c.HandleEvent(e)
	test.That(t, sched.calls, test.ShouldBeEmpty)
}

func TestReleaseAllCancelsHeld(t *testing.T) {
	c, sched := newTestController(t)
	climb := command.Instant("climb", func() {})
	c.WhileHeld(joystick.ButtonR1, climb)
	c.HandleEvent(button(joystick.ButtonR1, 1))
	c.HandleEvent(&joystick.Event{Type: joystick.EventTypeAxis, Number: joystick.AxisLStickY, Value: joystick.AxisMax})
	test.That(t, c.Axis(joystick.AxisLStickY), test.ShouldAlmostEqual, 1.0)

	c.releaseAll()
	test.That(t, sched.calls[len(sched.calls)-1], test.ShouldResemble, call{"cancel", climb})
	test.That(t, c.Axis(joystick.AxisLStickY), test.ShouldEqual, 0.0)

	// The next press is a fresh edge.
	c.HandleEvent(button(joystick.ButtonR1, 1))
	test.That(t, sched.calls[len(sched.calls)-1], test.ShouldResemble, call{"schedule", climb})
}
