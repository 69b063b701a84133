package climb

import (
	"github.com/team5607/go-controller/pkg/command"
)

type Climber interface {
	command.Subsystem
	MoveClimbLeft()
	StopClimb()
}

// LeftCommand drives the climb while it is scheduled.  It never finishes by
// itself; bind it with WhileHeld or cancel it explicitly.
type LeftCommand struct {
	climb Climber

	// stopWhenPolled reproduces the 2024 robot, which stopped the motor
	// every time it was asked whether it was done.
	stopWhenPolled bool
}

var _ command.Command = (*LeftCommand)(nil)

func NewLeftCommand(climb Climber, stopWhenPolled bool) *LeftCommand {
	return &LeftCommand{
		climb:          climb,
		stopWhenPolled: stopWhenPolled,
	}
}

func (c *LeftCommand) Start() {}

func (c *LeftCommand) Tick() {
	c.climb.MoveClimbLeft()
}

func (c *LeftCommand) Stop(interrupted bool) {
	if interrupted {
		c.climb.StopClimb()
	}
}

func (c *LeftCommand) Done() bool {
	if c.stopWhenPolled {
		c.climb.StopClimb()
	}
	return false
}

func (c *LeftCommand) Requirements() []command.Subsystem {
	return []command.Subsystem{c.climb}
}

func (c *LeftCommand) String() string {
	return "ClimbLeft"
}
