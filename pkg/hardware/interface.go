package hardware

import "context"

// Interface is everything the robot code needs from the controller.  Ports use
// the same numbering as the robot's wiring (CAN IDs, DIO and PWM channels).
type Interface interface {
	Start(ctx context.Context)

	Motor(canID int) (Motor, error)
	DigitalInput(port int) (DigitalInput, error)
	DigitalOutput(port int) (DigitalOutput, error)
	SetPWM(port int, value float64)

	// BatteryVoltage returns the last reading, or 0 before the first one.
	BatteryVoltage() float64

	PlaySound(name string)

	// Shutdown stops every motor and releases the hardware.
	Shutdown()
}

type Motor interface {
	Set(speed float64) error
	StopMotor() error
}

type DigitalInput interface {
	Get() bool
}

type DigitalOutput interface {
	Set(on bool)
}
