package observers

import (
	"log/slog"
	"sync"
	"time"

	"github.com/harunnryd/callpanel/pkg/metrics"
	"github.com/harunnryd/callpanel/pkg/redact"
)

// LatencyObserver logs how long each placement step took: build to verified
// record, and verified record to dispatch outcome.
type LatencyObserver struct {
	mu     sync.Mutex
	traces map[string]*trace
	log    *slog.Logger
}

type trace struct {
	built    time.Time
	verified time.Time
}

func NewLatencyObserver(log *slog.Logger) *LatencyObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LatencyObserver{
		traces: make(map[string]*trace),
		log:    log,
	}
}

func (o *LatencyObserver) RecordEvent(ev metrics.MetricsEvent) {
	id := ev.CallID()
	if id == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	switch ev.Name {
	case metrics.EventCallBuilt:
		o.traces[id] = &trace{built: ev.Time}
	case metrics.EventRecordVerified:
		tr := o.traces[id]
		if tr == nil {
			return
		}
		tr.verified = ev.Time
		o.log.Info("record_verify_latency",
			"call_id", redact.CallID(id),
			"ms", ev.Time.Sub(tr.built).Milliseconds(),
			"attempts", int(ev.Value))
	case metrics.EventCallDispatched, metrics.EventDispatchFailed:
		tr := o.traces[id]
		delete(o.traces, id)
		if tr == nil || tr.verified.IsZero() {
			return
		}
		o.log.Info("dispatch_latency",
			"call_id", redact.CallID(id),
			"ms", ev.Time.Sub(tr.verified).Milliseconds(),
			"ok", ev.Name == metrics.EventCallDispatched)
	case metrics.EventRecordFailed:
		delete(o.traces, id)
	}
}

var _ metrics.Observer = (*LatencyObserver)(nil)
