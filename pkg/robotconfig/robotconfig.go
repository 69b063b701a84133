// Package robotconfig holds the wiring, geometry and tuning values for the robot.
//
// A Config is built once at start-up (Default or Load) and handed to each
// subsystem.  Subsystems take the group they need by value, so nothing can
// mutate the shared copy after start-up.
package robotconfig

import (
	"math"
	"time"
)

type Config struct {
	Drive    DriveConfig
	Module   ModuleConfig
	OI       OIConfig
	Auto     AutoConfig
	NeoMotor NeoMotorConfig
	Vision   VisionConfig
	Axle     AxleConfig
	Shooter  ShooterConfig
	LED      LEDConfig
	Intake   IntakeConfig
	Climb    ClimbConfig
	AutoAim  AutoAimConfig
	Hardware HardwareConfig
}

// DriveConfig values are the allowed maximum speeds, not what the chassis is
// physically capable of.
type DriveConfig struct {
	MaxSpeedMetersPerSecond float64
	MaxAngularSpeed         float64 // radians per second

	DirectionSlewRate  float64 // radians per second
	MagnitudeSlewRate  float64 // percent per second (1 = 100%)
	RotationalSlewRate float64 // percent per second (1 = 100%)

	// Distance between centres of right and left wheels.
	TrackWidth float64
	// Distance between front and back wheels.
	WheelBase float64

	// Angular offsets of the modules relative to the chassis, radians.
	FrontLeftChassisAngularOffset  float64
	FrontRightChassisAngularOffset float64
	BackLeftChassisAngularOffset   float64
	BackRightChassisAngularOffset  float64

	// SPARK MAX CAN IDs.
	FrontLeftDrivingCanID  int
	RearLeftDrivingCanID   int
	FrontRightDrivingCanID int
	RearRightDrivingCanID  int

	FrontLeftTurningCanID  int
	RearLeftTurningCanID   int
	FrontRightTurningCanID int
	RearRightTurningCanID  int

	GyroReversed bool
}

type ModuleConfig struct {
	// The MAXSwerve module takes a 12T, 13T or 14T pinion.  More teeth drives
	// faster.
	DrivingMotorPinionTeeth int

	// The output shaft turns the opposite way to the steering motor.
	TurningEncoderInverted bool

	WheelDiameterMeters float64

	DrivingP         float64
	DrivingI         float64
	DrivingD         float64
	DrivingMinOutput float64
	DrivingMaxOutput float64

	TurningP         float64
	TurningI         float64
	TurningD         float64
	TurningFF        float64
	TurningMinOutput float64
	TurningMaxOutput float64

	TurningEncoderPositionPIDMinInput float64 // radians

	DrivingMotorIdleMode IdleMode
	TurningMotorIdleMode IdleMode

	DrivingMotorCurrentLimit int // amps
	TurningMotorCurrentLimit int // amps
}

type OIConfig struct {
	DriverControllerPort int
	DriveDeadband        float64
}

type AutoConfig struct {
	MaxSpeedMetersPerSecond                float64
	MaxAccelerationMetersPerSecondSquared  float64
	MaxAngularSpeedRadiansPerSecond        float64
	MaxAngularSpeedRadiansPerSecondSquared float64

	PXController     float64
	PYController     float64
	PThetaController float64
}

type NeoMotorConfig struct {
	FreeSpeedRpm float64
}

type VisionConfig struct {
	CameraCenterX        int
	DecelerationDistance float64
	TotalAprilTags       int

	CameraFOV float64

	CameraMaxWidth  float32
	CameraMaxHeight float32

	DriveAimErrorRange float64 // pixels
}

type AxleConfig struct {
	MasterAxleMotorPort int
	MinionAxleMotorPort int
	TopLimitSwitchPort  int

	DefaultHeight         float64
	AmpHeight             float64
	IntakeHeight          float64
	BasicSpeakerAimHeight float64
	MeasuredPosHorizontal float64
	AxleTestSpeed         float64
	ManualAimSpeed        float64
	TestHeight            float64
	TestRadiansNeeded     float64
}

type ShooterConfig struct {
	MasterShooterMotorPort int
	MinionShooterMotorPort int

	ShootSpeakerSpeed float64
	ShootAmpSpeed     float64
	ReverseIndexSpeed float64

	TestVelocity float64
}

type LEDConfig struct {
	LEDPort int
}

type IntakeConfig struct {
	MasterIntakeMotorPort int

	IntakeMotorSpeed  float64
	IndexSpeed        float64
	IndexSpeedSlow    float64
	IndexReverseSpeed float64

	IntakeSensorPort    int
	IntakeOutputPort    int
	NoteDetectedLEDPort int
	NoteReadyLEDPort    int

	// Level each beam-break reads when a note is in front of it.
	IntakeSensorNoteDetected bool
	OutputSensorNoteDetected bool
}

type ClimbConfig struct {
	MotorPort     int
	MotorSpeed    float64
	DefaultHeight float64

	// StopWhenPolled makes the climb command stop the motor every time the
	// scheduler asks whether it is done, as the 2024 robot did.  Off by
	// default.
	StopWhenPolled bool
}

// AutoAimConfig distances are in metres and angles in degrees.  Values marked
// provisional on the robot are still subject to change.
type AutoAimConfig struct {
	LaunchStartingHeight     float64 // height of the note launch point
	LaunchToCameraDifference float64 // added to camera distance; positive if launcher is behind camera
	TargetX                  float64 // speaker X relative to origin
	TargetY                  float64 // speaker target height
	LaunchVelocity           float64 // metres per second
	GravitationalConstant    float64

	MaxIterations    int     // before giving up on angle solving
	RangeForAimAngle float64 // required accuracy of the aim angle search
	RangeForMax      float64 // required accuracy of the max angle search

	TagToSpeakerDistance float64

	DriveRotationPower float64

	MaxPhysicalAngleDegrees           float64
	PhysicalShooterAngleOffsetDegrees float64 // added to the axle angle for the shooter

	ShooterAimErrorRangeDegrees float64
}

// HardwareConfig describes how the roboRIO-style ports map onto this
// controller's buses.
type HardwareConfig struct {
	CANInterface string

	// DIO port number to periph GPIO pin name.
	DIOPins PinMap

	PWMDevice     string
	BatteryDevice string

	SoundDir     string
	ScreenDevice string

	ControlPeriod time.Duration

	VisionListenAddr string
}

func Default() *Config {
	wheelBase := InchesToMeters(23.5)
	trackWidth := InchesToMeters(23.5)
	return &Config{
		Drive: DriveConfig{
			MaxSpeedMetersPerSecond: 4.8,
			MaxAngularSpeed:         2 * math.Pi,

			DirectionSlewRate:  1.2,
			MagnitudeSlewRate:  1.8,
			RotationalSlewRate: 2.0,

			TrackWidth: trackWidth,
			WheelBase:  wheelBase,

			FrontLeftChassisAngularOffset:  -math.Pi / 2,
			FrontRightChassisAngularOffset: 0,
			BackLeftChassisAngularOffset:   math.Pi,
			BackRightChassisAngularOffset:  math.Pi / 2,

			FrontLeftDrivingCanID:  7,
			RearLeftDrivingCanID:   4,
			FrontRightDrivingCanID: 8,
			RearRightDrivingCanID:  2,

			FrontLeftTurningCanID:  5,
			RearLeftTurningCanID:   1,
			FrontRightTurningCanID: 3,
			RearRightTurningCanID:  6,

			GyroReversed: false,
		},
		Module: ModuleConfig{
			DrivingMotorPinionTeeth: 13,
			TurningEncoderInverted:  true,
			WheelDiameterMeters:     0.0762,

			DrivingP:         0.04,
			DrivingI:         0,
			DrivingD:         0,
			DrivingMinOutput: -1,
			DrivingMaxOutput: 1,

			TurningP:         1,
			TurningI:         0,
			TurningD:         0,
			TurningFF:        0,
			TurningMinOutput: -1,
			TurningMaxOutput: 1,

			TurningEncoderPositionPIDMinInput: 0,

			DrivingMotorIdleMode: IdleModeBrake,
			TurningMotorIdleMode: IdleModeBrake,

			DrivingMotorCurrentLimit: 50,
			TurningMotorCurrentLimit: 20,
		},
		OI: OIConfig{
			DriverControllerPort: 0,
			DriveDeadband:        0.15,
		},
		Auto: AutoConfig{
			MaxSpeedMetersPerSecond:                1.5,
			MaxAccelerationMetersPerSecondSquared:  3,
			MaxAngularSpeedRadiansPerSecond:        math.Pi,
			MaxAngularSpeedRadiansPerSecondSquared: math.Pi,

			PXController:     1,
			PYController:     1,
			PThetaController: 1,
		},
		NeoMotor: NeoMotorConfig{
			FreeSpeedRpm: neoFreeSpeedRpm,
		},
		Vision: VisionConfig{
			CameraCenterX:        285,
			DecelerationDistance: 9,
			TotalAprilTags:       12,
			CameraFOV:            68.5,
			CameraMaxWidth:       650,
			CameraMaxHeight:      570,
			DriveAimErrorRange:   10,
		},
		Axle: AxleConfig{
			MasterAxleMotorPort: 9,
			MinionAxleMotorPort: 10,
			TopLimitSwitchPort:  5,

			DefaultHeight:         .003,
			AmpHeight:             .276,
			IntakeHeight:          .003,
			BasicSpeakerAimHeight: .003,
			MeasuredPosHorizontal: 0.023,
			AxleTestSpeed:         .2,
			ManualAimSpeed:        0.1,
			TestHeight:            0.0,
			TestRadiansNeeded:     math.Pi / 2,
		},
		Shooter: ShooterConfig{
			MasterShooterMotorPort: 11,
			MinionShooterMotorPort: 12,

			ShootSpeakerSpeed: 0.5,
			ShootAmpSpeed:     .2,
			ReverseIndexSpeed: -.2,

			TestVelocity: 100.0,
		},
		LED: LEDConfig{
			LEDPort: 8,
		},
		Intake: IntakeConfig{
			MasterIntakeMotorPort: 13,

			IntakeMotorSpeed:  -1.0,
			IndexSpeed:        -1.0,
			IndexSpeedSlow:    -0.1,
			IndexReverseSpeed: .2,

			IntakeSensorPort:    0,
			IntakeOutputPort:    1,
			NoteDetectedLEDPort: 2,
			NoteReadyLEDPort:    3,

			// May need swapping after testing the sensors.
			IntakeSensorNoteDetected: false,
			OutputSensorNoteDetected: false,
		},
		Climb: ClimbConfig{
			MotorPort:     14,
			MotorSpeed:    0.1,
			DefaultHeight: 0,
		},
		AutoAim: AutoAimConfig{
			LaunchStartingHeight:     0.35,
			LaunchToCameraDifference: 0.2,
			TargetX:                  0,
			TargetY:                  2.0,
			LaunchVelocity:           7.0,
			GravitationalConstant:    9.80665,

			MaxIterations:    100,
			RangeForAimAngle: 0.01,
			RangeForMax:      0.01,

			TagToSpeakerDistance: 0.25,
			DriveRotationPower:   0.1,

			MaxPhysicalAngleDegrees:           50,
			PhysicalShooterAngleOffsetDegrees: 20,
			ShooterAimErrorRangeDegrees:       5,
		},
		Hardware: HardwareConfig{
			CANInterface: "can0",
			DIOPins: PinMap{
				0: "GPIO17",
				1: "GPIO27",
				2: "GPIO22",
				3: "GPIO23",
				5: "GPIO24",
			},
			PWMDevice:        "/dev/i2c-1",
			BatteryDevice:    "/dev/i2c-1",
			SoundDir:         "/sounds",
			ScreenDevice:     "/dev/fb1",
			ControlPeriod:    20 * time.Millisecond,
			VisionListenAddr: ":5800",
		},
	}
}

const neoFreeSpeedRpm = 5676
