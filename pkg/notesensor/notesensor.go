// Package notesensor watches the intake beam breaks and shows whether a note
// is loaded.
package notesensor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/team5607/go-controller/pkg/hardware"
	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/screen"
	"github.com/team5607/go-controller/pkg/sound"
)

// LED strip colours, as REV Blinkin pulse values.
const (
	LEDEmpty    = 0.99 // black
	LEDDetected = 0.65 // orange
	LEDReady    = 0.77 // green
)

type State struct {
	// NoteDetected is true while the intake beam is broken.
	NoteDetected bool
	// NoteReady is true while the note sits at the output sensor.
	NoteReady bool
}

func (s State) String() string {
	switch {
	case s.NoteReady:
		return "ready"
	case s.NoteDetected:
		return "intaking"
	default:
		return "empty"
	}
}

func (s State) ledValue() float64 {
	switch {
	case s.NoteReady:
		return LEDReady
	case s.NoteDetected:
		return LEDDetected
	default:
		return LEDEmpty
	}
}

type Subsystem struct {
	log *zap.SugaredLogger
	hw  hardware.Interface
	cfg robotconfig.IntakeConfig

	ledPort int

	intake, output        hardware.DigitalInput
	detectedLED, readyLED hardware.DigitalOutput

	lock  sync.Mutex
	state State
	first bool
}

func New(log *zap.SugaredLogger, hw hardware.Interface, intake robotconfig.IntakeConfig, led robotconfig.LEDConfig) (*Subsystem, error) {
	s := &Subsystem{
		log:     log,
		hw:      hw,
		cfg:     intake,
		ledPort: led.LEDPort,
		first:   true,
	}
	var err error
	if s.intake, err = hw.DigitalInput(intake.IntakeSensorPort); err != nil {
		return nil, err
	}
	if s.output, err = hw.DigitalInput(intake.IntakeOutputPort); err != nil {
		return nil, err
	}
	if s.detectedLED, err = hw.DigitalOutput(intake.NoteDetectedLEDPort); err != nil {
		return nil, err
	}
	if s.readyLED, err = hw.DigitalOutput(intake.NoteReadyLEDPort); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Subsystem) Name() string {
	return "notesensor"
}

func (s *Subsystem) Periodic() {
	next := State{
		NoteDetected: s.intake.Get() == s.cfg.IntakeSensorNoteDetected,
		NoteReady:    s.output.Get() == s.cfg.OutputSensorNoteDetected,
	}

	s.lock.Lock()
	prev, first := s.state, s.first
	s.state = next
	s.first = false
	s.lock.Unlock()

	if !first && next == prev {
		return
	}

	s.detectedLED.Set(next.NoteDetected)
	s.readyLED.Set(next.NoteReady)
	s.hw.SetPWM(s.ledPort, next.ledValue())
	screen.SetLine("note", next.String())

	s.log.Infow("Note state changed", "state", next.String())
	if next.NoteReady && !prev.NoteReady {
		s.hw.PlaySound(sound.NoteReady)
	}
}

func (s *Subsystem) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}
