package climb

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/team5607/go-controller/pkg/robotconfig"
)

type Motor interface {
	Set(speed float64) error
	StopMotor() error
}

// Subsystem owns the climb motor.
type Subsystem struct {
	log   *zap.SugaredLogger
	motor Motor
	cfg   robotconfig.ClimbConfig

	moving int32
}

func New(log *zap.SugaredLogger, motor Motor, cfg robotconfig.ClimbConfig) *Subsystem {
	return &Subsystem{
		log:   log,
		motor: motor,
		cfg:   cfg,
	}
}

func (s *Subsystem) Name() string {
	return "climb"
}

// MoveClimbLeft runs the climb motor at the configured speed.  Called every
// tick while climbing, so it only logs on the transition.
func (s *Subsystem) MoveClimbLeft() {
	if atomic.SwapInt32(&s.moving, 1) == 0 {
		s.log.Infof("Climbing at %.2f", s.cfg.MotorSpeed)
	}
	if err := s.motor.Set(s.cfg.MotorSpeed); err != nil {
		s.log.Errorw("Failed to set climb motor", "error", err)
	}
}

func (s *Subsystem) StopClimb() {
	if atomic.SwapInt32(&s.moving, 0) == 1 {
		s.log.Info("Stopping climb")
	}
	if err := s.motor.StopMotor(); err != nil {
		s.log.Errorw("Failed to stop climb motor", "error", err)
	}
}

// Moving reports whether the last request was a move.  Safe to call from any
// goroutine.
func (s *Subsystem) Moving() bool {
	return atomic.LoadInt32(&s.moving) == 1
}
