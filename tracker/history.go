package tracker

import (
	"sort"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"telemetry/models"
)

// historyWindow bounds how long a snapshot stays visible to the debug
// surface before it expires.
const historyWindow = 30 * time.Minute

// History retains recent event snapshots for the debug surface. Entries are
// keyed by a time-ordered uuid and evicted after historyWindow; loss is
// acceptable, this is diagnostic state only.
type History struct {
	entries *cache.Cache
}

// NewHistory creates a History with a 30-minute retention window.
func NewHistory() *History {
	return &History{entries: cache.New(historyWindow, time.Hour)}
}

// Add retains a snapshot.
func (h *History) Add(snap *models.LastEvent) {
	h.entries.Set(uuid.Must(uuid.NewV7()).String(), *snap, cache.DefaultExpiration)
}

// Recent returns the retained snapshots, newest first.
func (h *History) Recent() []models.LastEvent {
	items := h.entries.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	// V7 uuids sort lexicographically by creation time.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]models.LastEvent, 0, len(keys))
	for _, k := range keys {
		if snap, ok := items[k].Object.(models.LastEvent); ok {
			out = append(out, snap)
		}
	}
	return out
}
