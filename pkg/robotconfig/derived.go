package robotconfig

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

const metersPerInch = 0.0254

func InchesToMeters(inches float64) float64 {
	return inches * metersPerInch
}

// IdleMode is what a motor controller does when commanded to zero output.
type IdleMode int

const (
	IdleModeCoast IdleMode = iota
	IdleModeBrake
)

func (m IdleMode) String() string {
	switch m {
	case IdleModeCoast:
		return "coast"
	case IdleModeBrake:
		return "brake"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

func (m IdleMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

func (m *IdleMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "coast":
		*m = IdleModeCoast
	case "brake":
		*m = IdleModeBrake
	default:
		return errors.Errorf("unknown idle mode %q", s)
	}
	return nil
}

// Translation2d is a position on the field plane, metres, +X forwards, +Y left.
type Translation2d struct {
	X, Y float64
}

type TrapezoidConstraints struct {
	MaxVelocity     float64
	MaxAcceleration float64
}

// ModuleTranslations returns the swerve module positions relative to the
// robot centre in front-left, front-right, back-left, back-right order.
func (d DriveConfig) ModuleTranslations() [4]Translation2d {
	return [4]Translation2d{
		{d.WheelBase / 2, d.TrackWidth / 2},
		{d.WheelBase / 2, -d.TrackWidth / 2},
		{-d.WheelBase / 2, d.TrackWidth / 2},
		{-d.WheelBase / 2, -d.TrackWidth / 2},
	}
}

// MotorCanIDs names every motor controller on the CAN bus.
func (c *Config) MotorCanIDs() map[string]int {
	return map[string]int{
		"front-left-driving":  c.Drive.FrontLeftDrivingCanID,
		"rear-left-driving":   c.Drive.RearLeftDrivingCanID,
		"front-right-driving": c.Drive.FrontRightDrivingCanID,
		"rear-right-driving":  c.Drive.RearRightDrivingCanID,
		"front-left-turning":  c.Drive.FrontLeftTurningCanID,
		"rear-left-turning":   c.Drive.RearLeftTurningCanID,
		"front-right-turning": c.Drive.FrontRightTurningCanID,
		"rear-right-turning":  c.Drive.RearRightTurningCanID,
		"axle-master":         c.Axle.MasterAxleMotorPort,
		"axle-minion":         c.Axle.MinionAxleMotorPort,
		"shooter-master":      c.Shooter.MasterShooterMotorPort,
		"shooter-minion":      c.Shooter.MinionShooterMotorPort,
		"intake":              c.Intake.MasterIntakeMotorPort,
		"climb":               c.Climb.MotorPort,
	}
}

// ThetaControllerConstraints bounds the motion-profiled heading controller.
func (a AutoConfig) ThetaControllerConstraints() TrapezoidConstraints {
	return TrapezoidConstraints{
		MaxVelocity:     a.MaxAngularSpeedRadiansPerSecond,
		MaxAcceleration: a.MaxAngularSpeedRadiansPerSecondSquared,
	}
}

func (c *Config) DrivingMotorFreeSpeedRps() float64 {
	return c.NeoMotor.FreeSpeedRpm / 60
}

func (m ModuleConfig) WheelCircumferenceMeters() float64 {
	return m.WheelDiameterMeters * math.Pi
}

// DrivingMotorReduction: 45 teeth on the wheel's bevel gear, 22 on the first
// stage spur gear, 15 on the bevel pinion.
func (m ModuleConfig) DrivingMotorReduction() float64 {
	return (45.0 * 22) / (float64(m.DrivingMotorPinionTeeth) * 15)
}

func (c *Config) DriveWheelFreeSpeedRps() float64 {
	return (c.DrivingMotorFreeSpeedRps() * c.Module.WheelCircumferenceMeters()) / c.Module.DrivingMotorReduction()
}

// DrivingEncoderPositionFactor converts motor rotations to metres.
func (m ModuleConfig) DrivingEncoderPositionFactor() float64 {
	return (m.WheelDiameterMeters * math.Pi) / m.DrivingMotorReduction()
}

// DrivingEncoderVelocityFactor converts motor RPM to metres per second.
func (m ModuleConfig) DrivingEncoderVelocityFactor() float64 {
	return ((m.WheelDiameterMeters * math.Pi) / m.DrivingMotorReduction()) / 60.0
}

// TurningEncoderPositionFactor converts rotations to radians.
func (m ModuleConfig) TurningEncoderPositionFactor() float64 {
	return 2 * math.Pi
}

// TurningEncoderVelocityFactor converts RPM to radians per second.
func (m ModuleConfig) TurningEncoderVelocityFactor() float64 {
	return (2 * math.Pi) / 60.0
}

func (m ModuleConfig) TurningEncoderPositionPIDMaxInput() float64 {
	return m.TurningEncoderPositionFactor()
}

func (c *Config) DrivingFF() float64 {
	return 1 / c.DriveWheelFreeSpeedRps()
}

// CenterOfScreen is the pixel at the middle of the camera frame.
func (v VisionConfig) CenterOfScreen() [2]float64 {
	return [2]float64{float64(v.CameraMaxWidth / 2), float64(v.CameraMaxHeight / 2)}
}

// NeededPos is where a target should sit in the frame when aimed.
func (v VisionConfig) NeededPos() [2]float64 {
	return v.CenterOfScreen()
}

// PinMap maps DIO ports to GPIO pin names.  A config file that sets it replaces
// the whole map rather than merging into the defaults.
type PinMap map[int]string

func (m *PinMap) UnmarshalYAML(unmarshal func(interface{}) error) error {
	fresh := map[int]string{}
	if err := unmarshal(&fresh); err != nil {
		return err
	}
	*m = fresh
	return nil
}
