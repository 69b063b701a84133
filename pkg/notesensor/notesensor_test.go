package notesensor

import (
	"testing"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/team5607/go-controller/pkg/hardware"
	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/sound"
)

func newTestSensor(t *testing.T) (*Subsystem, *hardware.Dummy, robotconfig.IntakeConfig) {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	cfg := robotconfig.Default()
	hw := hardware.NewDummy(log)
	s, err := New(log, hw, cfg.Intake, cfg.LED)
	test.That(t, err, test.ShouldBeNil)
	return s, hw, cfg.Intake
}

func TestEmptyWhenBeamsIntact(t *testing.T) {
	s, hw, cfg := newTestSensor(t)
	// Detected level is false, so an unbroken (high) beam means no note.
	s.Periodic()
	test.That(t, s.State(), test.ShouldResemble, State{})
	test.That(t, hw.Output(cfg.NoteDetectedLEDPort), test.ShouldBeFalse)
	test.That(t, hw.Output(cfg.NoteReadyLEDPort), test.ShouldBeFalse)
	test.That(t, hw.PWM(8), test.ShouldEqual, LEDEmpty)
	test.That(t, hw.Sounds(), test.ShouldBeEmpty)
}

func TestNoteMovesThroughIntake(t *testing.T) {
	s, hw, cfg := newTestSensor(t)
	s.Periodic()

	hw.SetInput(cfg.IntakeSensorPort, false)
	s.Periodic()
	test.That(t, s.State(), test.ShouldResemble, State{NoteDetected: true})
	test.That(t, hw.Output(cfg.NoteDetectedLEDPort), test.ShouldBeTrue)
	test.That(t, hw.PWM(8), test.ShouldEqual, LEDDetected)

	hw.SetInput(cfg.IntakeSensorPort, true)
	hw.SetInput(cfg.IntakeOutputPort, false)
	s.Periodic()
	test.That(t, s.State(), test.ShouldResemble, State{NoteReady: true})
	test.That(t, hw.Output(cfg.NoteReadyLEDPort), test.ShouldBeTrue)
	test.That(t, hw.PWM(8), test.ShouldEqual, LEDReady)

	// Holding the note does not repeat the cue.
	s.Periodic()
	s.Periodic()
	test.That(t, hw.Sounds(), test.ShouldResemble, []string{sound.NoteReady})
}

func TestStateString(t *testing.T) {
	test.That(t, State{}.String(), test.ShouldEqual, "empty")
	test.That(t, State{NoteDetected: true}.String(), test.ShouldEqual, "intaking")
	test.That(t, State{NoteDetected: true, NoteReady: true}.String(), test.ShouldEqual, "ready")
}
