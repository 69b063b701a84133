package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type requestKind int

const (
	requestSchedule requestKind = iota
	requestCancel
	requestCancelAll
)

type request struct {
	kind requestKind
	cmd  Command
}

// Scheduler runs commands cooperatively, one Tick per control period.
//
// Schedule and Cancel may be called from any goroutine; they are queued and
// applied at the start of the next tick so that every Command and Periodic
// hook runs on the scheduler goroutine.
type Scheduler struct {
	log *zap.SugaredLogger

	lock      sync.Mutex // Guards pending and scheduled.
	pending   []request
	scheduled map[Command]bool

	// Only touched from the scheduler goroutine.
	subsystems []Subsystem
	running    []Command
	owners     map[Subsystem]Command
}

func NewScheduler(log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		log:       log,
		scheduled: map[Command]bool{},
		owners:    map[Subsystem]Command{},
	}
}

// Register adds subsystems whose Periodic hook (if any) runs every tick.
// Call before Run.
func (s *Scheduler) Register(subsystems ...Subsystem) {
	s.subsystems = append(s.subsystems, subsystems...)
}

func (s *Scheduler) Schedule(cmd Command) {
	s.enqueue(request{kind: requestSchedule, cmd: cmd})
}

func (s *Scheduler) Cancel(cmd Command) {
	s.enqueue(request{kind: requestCancel, cmd: cmd})
}

func (s *Scheduler) CancelAll() {
	s.enqueue(request{kind: requestCancelAll})
}

func (s *Scheduler) enqueue(r request) {
	s.lock.Lock()
	s.pending = append(s.pending, r)
	s.lock.Unlock()
}

// IsScheduled reports whether cmd was running as of the last applied request.
func (s *Scheduler) IsScheduled(cmd Command) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.scheduled[cmd]
}

// Run ticks the scheduler every period until ctx is done, then interrupts
// every running command.
func (s *Scheduler) Run(ctx context.Context, period time.Duration) {
	s.log.Infof("Scheduler running every %v", period)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	defer s.log.Info("Scheduler loop exited")

	for {
		select {
		case <-ctx.Done():
			s.CancelAll()
			s.applyPending()
			return
		case <-ticker.C:
		}
		start := time.Now()
		s.Tick()
		if loopTime := time.Since(start); loopTime > period {
			s.log.Warnf("Loop overrun: tick took %v (period %v)", loopTime, period)
		}
	}
}

// Tick runs one control period: queued requests, then subsystem Periodic
// hooks, then each running command's Tick and Done check.
func (s *Scheduler) Tick() {
	s.applyPending()

	for _, sub := range s.subsystems {
		if p, ok := sub.(Periodic); ok {
			p.Periodic()
		}
	}

	for _, cmd := range append([]Command(nil), s.running...) {
		if !s.isRunning(cmd) {
			// Displaced by a command scheduled earlier in this tick.
			continue
		}
		cmd.Tick()
		if cmd.Done() {
			s.end(cmd, false)
		}
	}
}

func (s *Scheduler) applyPending() {
	s.lock.Lock()
	pending := s.pending
	s.pending = nil
	s.lock.Unlock()

	for _, r := range pending {
		switch r.kind {
		case requestSchedule:
			s.start(r.cmd)
		case requestCancel:
			if s.isRunning(r.cmd) {
				s.end(r.cmd, true)
			}
		case requestCancelAll:
			for _, cmd := range append([]Command(nil), s.running...) {
				s.end(cmd, true)
			}
		}
	}
}

func (s *Scheduler) start(cmd Command) {
	if s.isRunning(cmd) {
		return
	}
	for _, req := range cmd.Requirements() {
		if owner, ok := s.owners[req]; ok {
			s.log.Infof("%v interrupts %v (both require %s)", describe(cmd), describe(owner), req.Name())
			s.end(owner, true)
		}
	}
	s.log.Debugf("Starting %v", describe(cmd))
	cmd.Start()
	s.running = append(s.running, cmd)
	for _, req := range cmd.Requirements() {
		s.owners[req] = cmd
	}
	s.lock.Lock()
	s.scheduled[cmd] = true
	s.lock.Unlock()
}

func (s *Scheduler) end(cmd Command, interrupted bool) {
	s.log.Debugf("Stopping %v interrupted=%v", describe(cmd), interrupted)
	for i, c := range s.running {
		if c == cmd {
			s.running = append(s.running[:i], s.running[i+1:]...)
			break
		}
	}
	for _, req := range cmd.Requirements() {
		if s.owners[req] == cmd {
			delete(s.owners, req)
		}
	}
	s.lock.Lock()
	delete(s.scheduled, cmd)
	s.lock.Unlock()
	cmd.Stop(interrupted)
}

func (s *Scheduler) isRunning(cmd Command) bool {
	for _, c := range s.running {
		if c == cmd {
			return true
		}
	}
	return false
}

func describe(cmd Command) string {
	if st, ok := cmd.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", cmd)
}
