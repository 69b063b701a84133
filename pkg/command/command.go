package command

// Subsystem is a hardware-owning component.  At most one command may require a
// given subsystem at a time.
type Subsystem interface {
	Name() string
}

// Periodic subsystems are polled once per scheduler tick, before any command
// runs.
type Periodic interface {
	Periodic()
}

// Command is driven by the Scheduler.  All methods are called from the
// scheduler's goroutine and must not block.
//
// Implementations must be comparable (pointer types in practice) since the
// scheduler tracks them by identity.
type Command interface {
	// Start is called once when the command is scheduled.
	Start()
	// Tick is called every control period while the command is scheduled.
	Tick()
	// Stop is called once when the command ends, with interrupted set if it
	// was cancelled or displaced rather than finishing by itself.
	Stop(interrupted bool)
	// Done is polled after each Tick.  It should have no side effects.
	Done() bool
	// Requirements lists the subsystems the command takes exclusive use of.
	Requirements() []Subsystem
}

// Instant returns a command that calls fn once and finishes on its first
// tick.
func Instant(name string, fn func(), requirements ...Subsystem) Command {
	return &instant{name: name, fn: fn, requirements: requirements}
}

type instant struct {
	name         string
	fn           func()
	requirements []Subsystem
}

func (c *instant) Start() {
	c.fn()
}

func (c *instant) Tick() {}

func (c *instant) Stop(interrupted bool) {}

func (c *instant) Done() bool {
	return true
}

func (c *instant) Requirements() []Subsystem {
	return c.requirements
}

func (c *instant) String() string {
	return c.name
}
