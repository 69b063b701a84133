package sparkmax

import (
	"encoding/binary"
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/team5607/go-controller/pkg/canbus"
)

func TestArbitrationID(t *testing.T) {
	test.That(t, ArbitrationID(APIDutyCycleSet, 14), test.ShouldEqual, uint32(0x0205008e))
	test.That(t, ArbitrationID(APIHeartbeat, 0), test.ShouldEqual, uint32(0x02052c80))
}

func TestSetSendsDutyCycle(t *testing.T) {
	bus := canbus.NewDummy()
	c, err := New(bus, 14)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, c.Set(0.1), test.ShouldBeNil)
	test.That(t, c.Set(3), test.ShouldBeNil)
	test.That(t, c.StopMotor(), test.ShouldBeNil)

	frames := bus.Frames()
	test.That(t, len(frames), test.ShouldEqual, 3)
	for _, f := range frames {
		test.That(t, f.ID, test.ShouldEqual, uint32(0x0205008e))
		test.That(t, f.Extended, test.ShouldBeTrue)
		test.That(t, len(f.Data), test.ShouldEqual, 8)
	}
	setpoint := func(f canbus.Frame) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(f.Data[0:4]))
	}
	test.That(t, setpoint(frames[0]), test.ShouldEqual, float32(0.1))
	test.That(t, setpoint(frames[1]), test.ShouldEqual, float32(1))
	test.That(t, setpoint(frames[2]), test.ShouldEqual, float32(0))
}

func TestRejectsBadInput(t *testing.T) {
	_, err := New(canbus.NewDummy(), 63)
	test.That(t, err, test.ShouldNotBeNil)

	c, err := New(canbus.NewDummy(), 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Set(math.NaN()), test.ShouldNotBeNil)
}

func TestHeartbeatMask(t *testing.T) {
	f := HeartbeatFrame([]int{1, 14, 99})
	test.That(t, binary.LittleEndian.Uint64(f.Data), test.ShouldEqual, uint64(1<<1|1<<14))
}
