// Package sparkmax drives REV SPARK MAX motor controllers in duty-cycle mode
// over CAN.
package sparkmax

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/team5607/go-controller/pkg/canbus"
)

// Arbitration ID layout, FRC CAN spec:
//
//	bits 28-24  device type      (2 = motor controller)
//	bits 23-16  manufacturer     (5 = REV)
//	bits 15-10  API class
//	bits  9-6   API index
//	bits  5-0   device number
const (
	deviceTypeMotorController = 2
	manufacturerREV           = 5

	MaxDeviceID = 62
)

type API struct {
	Class, Index uint32
}

var (
	APIDutyCycleSet = API{Class: 0, Index: 2}
	// Enables outputs when there is no roboRIO on the bus.  Payload is a
	// bitmask of device numbers.
	APIHeartbeat = API{Class: 11, Index: 2}
)

func ArbitrationID(api API, deviceID int) uint32 {
	return deviceTypeMotorController<<24 |
		manufacturerREV<<16 |
		api.Class<<10 |
		api.Index<<6 |
		uint32(deviceID)
}

type Controller struct {
	bus      canbus.Sender
	deviceID int
}

func New(bus canbus.Sender, deviceID int) (*Controller, error) {
	if deviceID < 0 || deviceID > MaxDeviceID {
		return nil, errors.Errorf("SPARK MAX device ID out of range: %d", deviceID)
	}
	return &Controller{
		bus:      bus,
		deviceID: deviceID,
	}, nil
}

func (c *Controller) DeviceID() int {
	return c.deviceID
}

// Set commands a duty cycle in [-1, 1]; values outside are clamped.
func (c *Controller) Set(duty float64) error {
	if math.IsNaN(duty) {
		return errors.New("duty cycle is NaN")
	}
	duty = math.Max(-1, math.Min(1, duty))

	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[0:4], math.Float32bits(float32(duty)))
	err := c.bus.Send(canbus.Frame{
		ID:       ArbitrationID(APIDutyCycleSet, c.deviceID),
		Extended: true,
		Data:     data,
	})
	return errors.Wrapf(err, "setting SPARK MAX %d duty cycle", c.deviceID)
}

func (c *Controller) StopMotor() error {
	return c.Set(0)
}

// HeartbeatFrame enables the listed devices.  It must be resent more often
// than the controllers' 100ms timeout.
func HeartbeatFrame(deviceIDs []int) canbus.Frame {
	var mask uint64
	for _, id := range deviceIDs {
		if id >= 0 && id <= MaxDeviceID {
			mask |= 1 << uint(id)
		}
	}
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, mask)
	return canbus.Frame{
		ID:       ArbitrationID(APIHeartbeat, 0),
		Extended: true,
		Data:     data,
	}
}
