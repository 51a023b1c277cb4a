package observers

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/harunnryd/callpanel/pkg/metrics"
	"github.com/harunnryd/callpanel/pkg/redact"
)

// TimelineObserver appends every call-scoped event to <dir>/<call>.jsonl.
// Files are opened per event; a call produces a handful of lines.
type TimelineObserver struct {
	dir string
	mu  sync.Mutex
	err error
}

type timelineEntry struct {
	Time   time.Time      `json:"time"`
	Event  string         `json:"event"`
	CallID string         `json:"call_id"`
	Value  float64        `json:"value,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func NewTimelineObserver(dir string) *TimelineObserver {
	return &TimelineObserver{dir: dir}
}

func (o *TimelineObserver) RecordEvent(ev metrics.MetricsEvent) {
	path := artifactPath(o.dir, ev.CallID(), SuffixTimeline)
	if path == "" {
		return
	}
	line, err := json.Marshal(timelineEntry{
		Time:   ev.Time.UTC(),
		Event:  ev.Name,
		CallID: redact.CallID(ev.CallID()),
		Value:  ev.Value,
		Fields: sanitizeFields(ev.Fields),
	})
	if err != nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = appendLine(o.dir, path, line)
}

// Err returns the last write failure, if any.
func (o *TimelineObserver) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

func appendLine(dir, path string, line []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open timeline: %w", err)
	}
	_, werr := f.Write(append(line, '\n'))
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

var _ metrics.Observer = (*TimelineObserver)(nil)
