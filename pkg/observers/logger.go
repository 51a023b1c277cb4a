package observers

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/harunnryd/callpanel/pkg/metrics"
	"github.com/harunnryd/callpanel/pkg/redact"
)

// LoggerObserver mirrors events into the structured log at debug level, one
// record per event named after it.
type LoggerObserver struct {
	log *slog.Logger
}

func NewLoggerObserver(log *slog.Logger) *LoggerObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LoggerObserver{log: log.With("component", "events")}
}

func (o *LoggerObserver) RecordEvent(ev metrics.MetricsEvent) {
	if !o.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	args := make([]any, 0, 2+2*(len(ev.Tags)+len(ev.Fields)))
	if id := ev.CallID(); id != "" {
		args = append(args, metrics.TagCallID, redact.CallID(id))
	}
	if ev.Value != 0 {
		args = append(args, "value", ev.Value)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Tags)) {
		if k != metrics.TagCallID {
			args = append(args, k, ev.Tags[k])
		}
	}
	fields := sanitizeFields(ev.Fields)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, k, fields[k])
	}
	o.log.Debug("event_"+ev.Name, args...)
}

// MultiObserver fans one event out to several observers; nil entries are skipped.
type MultiObserver []metrics.Observer

func NewMultiObserver(list ...metrics.Observer) MultiObserver {
	return MultiObserver(list)
}

func (m MultiObserver) RecordEvent(ev metrics.MetricsEvent) {
	for _, obs := range m {
		if obs != nil {
			obs.RecordEvent(ev)
		}
	}
}
