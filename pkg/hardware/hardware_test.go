package hardware

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/team5607/go-controller/pkg/canbus"
	"github.com/team5607/go-controller/pkg/pca9685"
	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/sparkmax"
)

func newTestHardware(t *testing.T) (*Hardware, *canbus.Dummy, *pca9685.Dummy) {
	t.Helper()
	bus := canbus.NewDummy()
	pwm := pca9685.NewDummy()
	cfg := robotconfig.Default().Hardware
	cfg.SoundDir = t.TempDir()
	cfg.ScreenDevice = ""
	cfg.BatteryDevice = ""
	sounds := make(chan string)
	go func() {
		for range sounds {
		}
	}()
	return newWithBus(zaptest.NewLogger(t).Sugar(), cfg, bus, pwm, sounds), bus, pwm
}

func TestMotorIsCachedPerID(t *testing.T) {
	h, bus, _ := newTestHardware(t)
	m1, err := h.Motor(14)
	test.That(t, err, test.ShouldBeNil)
	m2, err := h.Motor(14)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m1, test.ShouldEqual, m2)

	test.That(t, m1.Set(0.1), test.ShouldBeNil)
	frames := bus.Frames()
	test.That(t, len(frames), test.ShouldEqual, 1)
	test.That(t, frames[0].ID, test.ShouldEqual, sparkmax.ArbitrationID(sparkmax.APIDutyCycleSet, 14))

	_, err = h.Motor(99)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnconfiguredDIOPort(t *testing.T) {
	h, _, _ := newTestHardware(t)
	_, err := h.DigitalInput(9)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = h.DigitalOutput(9)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSetPWMUsesPulse(t *testing.T) {
	h, _, pwm := newTestHardware(t)
	h.SetPWM(8, 0.73)
	v, ok := pwm.Value(8)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, 0.73)
}

func TestHeartbeatAndShutdown(t *testing.T) {
	h, bus, _ := newTestHardware(t)
	_, err := h.Motor(3)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	h.loopsDone.Add(1)
	go h.loopSendingHeartbeat(ctx)
	time.Sleep(5 * heartbeatPeriod)
	cancel()
	h.Shutdown()

	var heartbeats int
	frames := bus.Frames()
	for _, f := range frames {
		if f.ID == sparkmax.ArbitrationID(sparkmax.APIHeartbeat, 0) {
			heartbeats++
			test.That(t, binary.LittleEndian.Uint64(f.Data), test.ShouldEqual, uint64(1<<3))
		}
	}
	test.That(t, heartbeats, test.ShouldBeGreaterThan, 0)

	// Shutdown stops every opened motor.
	last := frames[len(frames)-1]
	test.That(t, last.ID, test.ShouldEqual, sparkmax.ArbitrationID(sparkmax.APIDutyCycleSet, 3))
	test.That(t, binary.LittleEndian.Uint32(last.Data[0:4]), test.ShouldEqual, uint32(0))
}

func TestDummy(t *testing.T) {
	d := NewDummy(zaptest.NewLogger(t).Sugar())

	in, err := d.DigitalInput(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, in.Get(), test.ShouldBeTrue)
	d.SetInput(0, false)
	test.That(t, in.Get(), test.ShouldBeFalse)

	out, err := d.DigitalOutput(2)
	test.That(t, err, test.ShouldBeNil)
	out.Set(true)
	test.That(t, d.Output(2), test.ShouldBeTrue)

	m, err := d.Motor(14)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Set(0.1), test.ShouldBeNil)
	test.That(t, d.DummyMotor(14).Speed(), test.ShouldEqual, 0.1)

	d.PlaySound("climb")
	test.That(t, d.Sounds(), test.ShouldResemble, []string{"climb"})

	d.Shutdown()
	test.That(t, d.DummyMotor(14).Speed(), test.ShouldEqual, 0.0)
}
