package vision

import (
	"fmt"
	"time"

	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/screen"
)

// TagMaxAge is how long a tag sighting stays usable.
const TagMaxAge = 500 * time.Millisecond

// Monitor is a subsystem that shows the latest vision results on the screen.
type Monitor struct {
	table *MemTable
	cfg   robotconfig.VisionConfig
	now   func() time.Time

	lastLine string
}

func NewMonitor(table *MemTable, cfg robotconfig.VisionConfig) *Monitor {
	return &Monitor{table: table, cfg: cfg, now: time.Now}
}

func (m *Monitor) Name() string {
	return "vision"
}

// Status describes the nearest tag and whether the robot is aimed at it.
func (m *Monitor) Status() string {
	tag, ok := m.table.NearestTag(m.now(), TagMaxAge)
	if !ok {
		return "no tag"
	}
	offset, aimed := AimError(tag.Center, m.cfg)
	if aimed {
		return fmt.Sprintf("#%d %.1fm aimed", tag.ID, tag.Distance)
	}
	return fmt.Sprintf("#%d %.1fm %+.0fpx", tag.ID, tag.Distance, offset)
}

func (m *Monitor) Periodic() {
	line := m.Status()
	if line != m.lastLine {
		screen.SetLine("tag", line)
		m.lastLine = line
	}
}
