package robotconfig

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestDefaultLiterals(t *testing.T) {
	cfg := Default()

	test.That(t, cfg.Drive.MaxSpeedMetersPerSecond, test.ShouldEqual, 4.8)
	test.That(t, cfg.Drive.MaxAngularSpeed, test.ShouldEqual, 2*math.Pi)
	test.That(t, cfg.Drive.TrackWidth, test.ShouldAlmostEqual, 0.5969)
	test.That(t, cfg.Drive.WheelBase, test.ShouldAlmostEqual, 0.5969)
	test.That(t, cfg.Drive.FrontLeftChassisAngularOffset, test.ShouldEqual, -math.Pi/2)
	test.That(t, cfg.Drive.BackLeftChassisAngularOffset, test.ShouldEqual, math.Pi)
	test.That(t, cfg.Drive.FrontLeftDrivingCanID, test.ShouldEqual, 7)
	test.That(t, cfg.Drive.RearLeftTurningCanID, test.ShouldEqual, 1)
	test.That(t, cfg.Drive.GyroReversed, test.ShouldBeFalse)

	test.That(t, cfg.Module.DrivingMotorPinionTeeth, test.ShouldEqual, 13)
	test.That(t, cfg.Module.TurningEncoderInverted, test.ShouldBeTrue)
	test.That(t, cfg.Module.DrivingMotorIdleMode, test.ShouldEqual, IdleModeBrake)
	test.That(t, cfg.Module.DrivingMotorCurrentLimit, test.ShouldEqual, 50)
	test.That(t, cfg.Module.TurningMotorCurrentLimit, test.ShouldEqual, 20)

	test.That(t, cfg.OI.DriveDeadband, test.ShouldEqual, 0.15)
	test.That(t, cfg.NeoMotor.FreeSpeedRpm, test.ShouldEqual, 5676.0)
	test.That(t, cfg.Vision.CameraFOV, test.ShouldEqual, 68.5)
	test.That(t, cfg.Axle.TestRadiansNeeded, test.ShouldEqual, math.Pi/2)
	test.That(t, cfg.Shooter.ReverseIndexSpeed, test.ShouldEqual, -.2)
	test.That(t, cfg.LED.LEDPort, test.ShouldEqual, 8)
	test.That(t, cfg.Intake.NoteReadyLEDPort, test.ShouldEqual, 3)
	test.That(t, cfg.Climb.MotorPort, test.ShouldEqual, 14)
	test.That(t, cfg.Climb.MotorSpeed, test.ShouldEqual, 0.1)
	test.That(t, cfg.Climb.StopWhenPolled, test.ShouldBeFalse)
	test.That(t, cfg.AutoAim.GravitationalConstant, test.ShouldEqual, 9.80665)
	test.That(t, cfg.AutoAim.MaxIterations, test.ShouldEqual, 100)
	test.That(t, cfg.Hardware.ControlPeriod, test.ShouldEqual, 20*time.Millisecond)
}

func TestDerivedValues(t *testing.T) {
	cfg := Default()

	test.That(t, cfg.DrivingMotorFreeSpeedRps(), test.ShouldEqual, 5676.0/60)
	test.That(t, cfg.Module.DrivingMotorReduction(), test.ShouldEqual, 990.0/195)
	test.That(t, cfg.Module.WheelCircumferenceMeters(), test.ShouldAlmostEqual, 0.0762*math.Pi)

	wheelRps := (5676.0 / 60 * 0.0762 * math.Pi) / (990.0 / 195)
	test.That(t, cfg.DriveWheelFreeSpeedRps(), test.ShouldAlmostEqual, wheelRps)
	test.That(t, cfg.DrivingFF(), test.ShouldAlmostEqual, 1/wheelRps)
	test.That(t, cfg.Module.DrivingEncoderVelocityFactor(), test.ShouldAlmostEqual,
		cfg.Module.DrivingEncoderPositionFactor()/60)
	test.That(t, cfg.Module.TurningEncoderPositionPIDMaxInput(), test.ShouldEqual, 2*math.Pi)

	mods := cfg.Drive.ModuleTranslations()
	half := cfg.Drive.WheelBase / 2
	test.That(t, mods[0], test.ShouldResemble, Translation2d{half, half})
	test.That(t, mods[3], test.ShouldResemble, Translation2d{-half, -half})

	theta := cfg.Auto.ThetaControllerConstraints()
	test.That(t, theta.MaxVelocity, test.ShouldEqual, math.Pi)
	test.That(t, theta.MaxAcceleration, test.ShouldEqual, math.Pi)

	test.That(t, cfg.Vision.CenterOfScreen(), test.ShouldResemble, [2]float64{325, 285})
	test.That(t, cfg.MotorCanIDs()["climb"], test.ShouldEqual, 14)
}

func TestPinionOverrideFlowsThroughDerivedValues(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("module:\n  drivingmotorpinionteeth: 14\n"), cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Module.DrivingMotorReduction(), test.ShouldEqual, 990.0/210)
	// Untouched fields keep their defaults.
	test.That(t, cfg.Module.WheelDiameterMeters, test.ShouldEqual, 0.0762)
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	data, err := cfg.Marshal()
	test.That(t, err, test.ShouldBeNil)

	var out Config
	test.That(t, Parse(data, &out), test.ShouldBeNil)
	test.That(t, &out, test.ShouldResemble, cfg)
	test.That(t, out.Drive.MaxAngularSpeed, test.ShouldEqual, 2*math.Pi)

	// Loading always overlays onto the defaults, so the dump must survive that too.
	onto := Default()
	test.That(t, Parse(data, onto), test.ShouldBeNil)
	test.That(t, onto, test.ShouldResemble, cfg)
}

func TestDIOPinsReplaceDefaults(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("hardware:\n  diopins:\n    0: GPIO5\n"), cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Hardware.DIOPins, test.ShouldResemble, PinMap{0: "GPIO5"})
	test.That(t, cfg.Hardware.CANInterface, test.ShouldEqual, "can0")

	err = Parse([]byte("hardware:\n  diopins: [GPIO5]\n"), cfg)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestIdleModeYAML(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("module:\n  turningmotoridlemode: coast\n"), cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Module.TurningMotorIdleMode, test.ShouldEqual, IdleModeCoast)

	err = Parse([]byte("module:\n  turningmotoridlemode: floppy\n"), cfg)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "floppy")
}

func TestUnknownKeyRejected(t *testing.T) {
	err := Parse([]byte("climb:\n  motorspede: 1\n"), Default())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg, test.ShouldResemble, Default())

	path := filepath.Join(dir, "robot.yaml")
	test.That(t, os.WriteFile(path, []byte("climb:\n  motorspeed: 0.25\nhardware:\n  controlperiod: 10ms\n"), 0o644), test.ShouldBeNil)
	cfg, err = Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Climb.MotorSpeed, test.ShouldEqual, 0.25)
	test.That(t, cfg.Hardware.ControlPeriod, test.ShouldEqual, 10*time.Millisecond)

	inUse := filepath.Join(dir, "in-use.yaml")
	test.That(t, cfg.WriteInUse(inUse), test.ShouldBeNil)
	again, err := Load(inUse)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldResemble, cfg)

	test.That(t, os.WriteFile(path, []byte("climb: [\n"), 0o644), test.ShouldBeNil)
	_, err = Load(path)
	test.That(t, err, test.ShouldNotBeNil)
}
