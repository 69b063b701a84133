package vision

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Table keys, as the robot code reads them.
const (
	KeyRings = "Rings"

	suffixTimeSeen = "-TimeSeen"
	suffixCenter   = "-Center"
	suffixTopLeft  = "-TopLft"
	suffixBotRight = "-BotRht"
	suffixDist     = "-Dist"
	suffixXYZ      = "-XYZ"
)

func TagKey(id int, suffix string) string {
	return strconv.Itoa(id) + suffix
}

type Table interface {
	PutNumber(key string, v float64)
	PutNumberArray(key string, v []float64)
}

// PublishTags writes each usable detection under its tag ID.  TimeSeen is in
// microseconds since the epoch.
func PublishTags(t Table, now time.Time, tags []TagDetection) {
	for _, d := range tags {
		if !d.Usable() {
			continue
		}
		t.PutNumber(TagKey(d.ID, suffixTimeSeen), float64(now.UnixMicro()))
		t.PutNumberArray(TagKey(d.ID, suffixCenter), d.Center[:])
		t.PutNumberArray(TagKey(d.ID, suffixTopLeft), d.TopLeft[:])
		t.PutNumberArray(TagKey(d.ID, suffixBotRight), d.BottomRight[:])
		t.PutNumber(TagKey(d.ID, suffixDist), d.Distance)
		t.PutNumberArray(TagKey(d.ID, suffixXYZ), d.Rotation[:])
	}
}

func PublishRings(t Table, center [2]float64) {
	t.PutNumberArray(KeyRings, center[:])
}

// MemTable is a Table held in memory.  Single numbers are stored as one
// element arrays.
type MemTable struct {
	lock    sync.Mutex
	entries map[string][]float64
}

var _ Table = (*MemTable)(nil)

func NewMemTable() *MemTable {
	return &MemTable{entries: map[string][]float64{}}
}

func (m *MemTable) PutNumber(key string, v float64) {
	m.PutNumberArray(key, []float64{v})
}

func (m *MemTable) PutNumberArray(key string, v []float64) {
	m.lock.Lock()
	m.entries[key] = append([]float64(nil), v...)
	m.lock.Unlock()
}

func (m *MemTable) GetNumber(key string) (float64, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	v, ok := m.entries[key]
	if !ok || len(v) == 0 {
		return 0, false
	}
	return v[0], true
}

func (m *MemTable) GetNumberArray(key string) ([]float64, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	v, ok := m.entries[key]
	return append([]float64(nil), v...), ok
}

// Apply copies every entry of u into the table.
func (m *MemTable) Apply(u Update) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for k, v := range u.Entries {
		m.entries[k] = append([]float64(nil), v...)
	}
}

func (m *MemTable) Rings() ([2]float64, bool) {
	v, ok := m.GetNumberArray(KeyRings)
	if !ok || len(v) < 2 {
		return [2]float64{}, false
	}
	return [2]float64{v[0], v[1]}, true
}

// Tag rebuilds the last detection of tag id and when it was seen.
func (m *MemTable) Tag(id int) (TagDetection, time.Time, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	seen, ok := m.entries[TagKey(id, suffixTimeSeen)]
	if !ok || len(seen) == 0 {
		return TagDetection{}, time.Time{}, false
	}
	d := TagDetection{ID: id}
	copy(d.Center[:], m.entries[TagKey(id, suffixCenter)])
	copy(d.TopLeft[:], m.entries[TagKey(id, suffixTopLeft)])
	copy(d.BottomRight[:], m.entries[TagKey(id, suffixBotRight)])
	copy(d.Rotation[:], m.entries[TagKey(id, suffixXYZ)])
	if dist := m.entries[TagKey(id, suffixDist)]; len(dist) > 0 {
		d.Distance = dist[0]
	}
	return d, time.UnixMicro(int64(seen[0])), true
}

func (m *MemTable) tagIDs() []int {
	m.lock.Lock()
	defer m.lock.Unlock()
	var ids []int
	for k := range m.entries {
		if !strings.HasSuffix(k, suffixTimeSeen) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(k, suffixTimeSeen))
		if err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// NearestTag returns the closest tag seen within maxAge of now.
func (m *MemTable) NearestTag(now time.Time, maxAge time.Duration) (TagDetection, bool) {
	var best TagDetection
	found := false
	for _, id := range m.tagIDs() {
		d, seen, ok := m.Tag(id)
		if !ok || now.Sub(seen) > maxAge {
			continue
		}
		if !found || d.Distance < best.Distance {
			best = d
			found = true
		}
	}
	return best, found
}
