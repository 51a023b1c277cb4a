package metrics

import "time"

// Event names emitted by the panel.
const (
	EventSelectionChanged  = "selection_changed"
	EventCallBuilt         = "call_built"
	EventRecordVerifyRetry = "record_verify_attempt"
	EventRecordVerified    = "record_verified"
	EventRecordFailed      = "record_verify_failed"
	EventCallDispatched    = "call_dispatched"
	EventDispatchFailed    = "call_dispatch_failed"
	EventDocumentUploaded  = "document_uploaded"
	EventDocumentDeleted   = "document_deleted"
)

// TagCallID carries the call id on call-scoped events.
const TagCallID = "call_id"

type MetricsEvent struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

// CallID returns the call id tag, if any.
func (ev MetricsEvent) CallID() string {
	if ev.Tags == nil {
		return ""
	}
	return ev.Tags[TagCallID]
}

// NewCallEvent stamps a call-scoped event with the current time.
func NewCallEvent(name, callID string, fields map[string]any) MetricsEvent {
	return MetricsEvent{
		Name:   name,
		Time:   time.Now(),
		Tags:   map[string]string{TagCallID: callID},
		Fields: fields,
	}
}

type Observer interface {
	RecordEvent(ev MetricsEvent)
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(MetricsEvent) {}
