package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/cost"
	"github.com/harunnryd/callpanel/pkg/dispatch"
	"github.com/harunnryd/callpanel/pkg/documents"
	"github.com/harunnryd/callpanel/pkg/errorsx"
	"github.com/harunnryd/callpanel/pkg/logging"
	"github.com/harunnryd/callpanel/pkg/metrics"
	"github.com/harunnryd/callpanel/pkg/recordstore"
	"github.com/harunnryd/callpanel/pkg/redact"
	"github.com/harunnryd/callpanel/pkg/resilience"
	"github.com/harunnryd/callpanel/pkg/resolver"
	"github.com/harunnryd/callpanel/pkg/session"
)

// Call outcomes.
const (
	StatusPlaced              = "placed"
	StatusConfiguredNotPlaced = "configured_not_placed"
)

// Deps are the collaborators a Service needs.
type Deps struct {
	Resolver   *resolver.Resolver
	Records    recordstore.Store
	Documents  documents.Store
	Dispatcher dispatch.Dispatcher
	AgentName  string
	Verify     resilience.RetryPolicy
	Breaker    *resilience.CircuitBreaker
	Observer   metrics.Observer
	Logger     *slog.Logger
}

// Service runs panel operations for a session: edits, cost, call placement
// and knowledge-base documents.
type Service struct {
	resolver   *resolver.Resolver
	estimator  *cost.Estimator
	builder    *callrequest.Builder
	records    recordstore.Store
	docs       documents.Store
	dispatcher dispatch.Dispatcher
	agentName  string
	verify     resilience.RetryPolicy
	breaker    *resilience.CircuitBreaker
	obs        metrics.Observer
	log        *slog.Logger
}

func NewService(d Deps) *Service {
	est := cost.NewEstimator(d.Resolver.Catalog())
	obs := d.Observer
	if obs == nil {
		obs = metrics.NoopObserver{}
	}
	breaker := d.Breaker
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(3, 30*time.Second, nil)
	}
	verify := d.Verify
	if verify.MaxAttempts <= 0 {
		verify = resilience.NewRetryPolicy(15, time.Second)
	}
	agent := d.AgentName
	if strings.TrimSpace(agent) == "" {
		agent = dispatch.DefaultAgentName
	}
	return &Service{
		resolver:   d.Resolver,
		estimator:  est,
		builder:    callrequest.NewBuilder(d.Resolver, est),
		records:    d.Records,
		docs:       d.Documents,
		dispatcher: d.Dispatcher,
		agentName:  agent,
		verify:     verify,
		breaker:    breaker,
		obs:        obs,
		log:        logging.NewComponentLogger(d.Logger, "panel"),
	}
}

// View renders the session's current selection, options and cost.
func (s *Service) View(sess *session.Session) View {
	state, form := sess.Snapshot()
	return s.view(state, form)
}

// Apply runs one edit against the session. Option errors carry
// errorsx.ReasonValidation; integrity errors carry errorsx.ReasonCatalogIntegrity.
// The session is unchanged on error.
func (s *Service) Apply(sess *session.Session, ev resolver.Event) (View, error) {
	state, err := sess.Apply(ev)
	if err != nil {
		s.log.Warn("selection_rejected", "user", sess.User, "component", ev.Component, "kind", ev.Kind, "value", ev.Value, "error", err)
		return View{}, classify(err)
	}
	s.obs.RecordEvent(metrics.MetricsEvent{
		Name: metrics.EventSelectionChanged,
		Time: time.Now(),
		Tags: map[string]string{"user": sess.User, "component": string(ev.Component), "axis": string(ev.Kind)},
		Fields: map[string]any{
			"value": ev.Value,
			"model": state.Get(ev.Component).Model,
		},
	})
	_, form := sess.Snapshot()
	return s.view(state, form), nil
}

// UpdateForm replaces the session's free-form fields.
func (s *Service) UpdateForm(sess *session.Session, f callrequest.Form) View {
	sess.UpdateForm(func(cur *callrequest.Form) { *cur = f })
	return s.View(sess)
}

// Estimate prices the session's current selection.
func (s *Service) Estimate(sess *session.Session) cost.Estimate {
	state, _ := sess.Snapshot()
	return s.estimator.Estimate(state)
}

// Outcome is the result of a placement attempt. CallID is set once the record
// was persisted, even when dispatch failed.
type Outcome struct {
	CallID         string                   `json:"call_id,omitempty"`
	Status         string                   `json:"status,omitempty"`
	Output         string                   `json:"output,omitempty"`
	VerifyAttempts int                      `json:"verify_attempts,omitempty"`
	Request        *callrequest.CallRequest `json:"-"`
}

// PlaceCall builds a request from the session, persists it, waits until the
// record reads back, then dispatches the agent. A dispatch failure returns the
// outcome with StatusConfiguredNotPlaced alongside the error; Redispatch can
// retry it.
func (s *Service) PlaceCall(ctx context.Context, sess *session.Session) (Outcome, error) {
	state, form := sess.Snapshot()
	req, err := s.builder.Build(state, form, callrequest.Options{IncludeCost: true})
	if err != nil {
		return Outcome{}, classify(err)
	}
	log := s.log.With("call_id", redact.CallID(req.ID), "user", sess.User)
	s.obs.RecordEvent(metrics.NewCallEvent(metrics.EventCallBuilt, req.ID, builtFields(req)))

	attempts, err := recordstore.WriteAndVerify(ctx, s.records, recordstore.NewRecord(req.ID, req.Metadata()), s.verify, func(attempt int) {
		log.Debug("record_verify_attempt", "attempt", attempt)
		ev := metrics.NewCallEvent(metrics.EventRecordVerifyRetry, req.ID, nil)
		ev.Value = float64(attempt)
		s.obs.RecordEvent(ev)
	})
	if err != nil {
		log.Error("call_record_failed", "attempts", attempts, "error", err)
		failed := metrics.NewCallEvent(metrics.EventRecordFailed, req.ID, map[string]any{"error": err.Error()})
		failed.Value = float64(attempts)
		s.obs.RecordEvent(failed)
		return Outcome{VerifyAttempts: attempts}, err
	}
	verified := metrics.NewCallEvent(metrics.EventRecordVerified, req.ID, nil)
	verified.Value = float64(attempts)
	s.obs.RecordEvent(verified)
	log.Info("call_record_verified", "attempts", attempts, "phone", redact.Phone(req.PhoneNumber))

	out, err := s.dispatch(ctx, req.ID, req.PhoneNumber)
	out.VerifyAttempts = attempts
	out.Request = req
	return out, err
}

// Redispatch retries dispatch for a call whose record is already persisted.
func (s *Service) Redispatch(ctx context.Context, callID string) (Outcome, error) {
	rec, ok, err := s.records.Fetch(ctx, callID)
	if err != nil {
		return Outcome{}, errorsx.Wrap(fmt.Errorf("fetch record %s: %w", callID, err), errorsx.ReasonRecordStore)
	}
	if !ok {
		return Outcome{}, errorsx.Errorf(errorsx.ReasonNotFound, "call %s has no stored record", callID)
	}
	req, err := callrequest.FromMetadata(rec.Metadata)
	if err != nil {
		return Outcome{}, errorsx.Wrap(err, errorsx.ReasonRecordStore)
	}
	out, err := s.dispatch(ctx, req.ID, req.PhoneNumber)
	out.Request = req
	return out, err
}

func (s *Service) dispatch(ctx context.Context, callID, phone string) (Outcome, error) {
	out := Outcome{CallID: callID, Status: StatusConfiguredNotPlaced}
	log := s.log.With("call_id", redact.CallID(callID))
	if !s.breaker.Allow() {
		err := errorsx.Errorf(errorsx.ReasonDispatchUnavailable, "dispatch paused after repeated failures until %s: %w", s.breaker.OpenUntil().Format(time.RFC3339), resilience.ErrOpen)
		s.obs.RecordEvent(metrics.NewCallEvent(metrics.EventDispatchFailed, callID, map[string]any{"error": err.Error()}))
		log.Warn("call_dispatch_skipped", "error", err)
		return out, err
	}
	res, err := s.dispatcher.Dispatch(ctx, dispatch.Request{AgentName: s.agentName, RecordID: callID, PhoneNumber: phone})
	out.Output = res.Output
	if err != nil {
		s.breaker.OnError(err)
		fields := map[string]any{"error": err.Error()}
		var de *dispatch.Error
		if errors.As(err, &de) {
			fields["exit_code"] = de.ExitCode
			out.Output = strings.TrimSpace(de.Stderr)
		}
		s.obs.RecordEvent(metrics.NewCallEvent(metrics.EventDispatchFailed, callID, fields))
		log.Error("call_dispatch_failed", "error", err)
		return out, errorsx.Wrap(err, errorsx.ReasonDispatch)
	}
	s.breaker.OnSuccess()
	out.Status = StatusPlaced
	s.obs.RecordEvent(metrics.NewCallEvent(metrics.EventCallDispatched, callID, map[string]any{"output": res.Output, "reference": res.Reference}))
	log.Info("call_dispatched", "reference", res.Reference)
	return out, nil
}

func builtFields(req *callrequest.CallRequest) map[string]any {
	fields := map[string]any{
		"stt_model":    req.STTModel,
		"llm_model":    req.LLMModel,
		"tts_provider": req.TTSProvider,
	}
	for k, v := range map[string]*float64{
		"stt_cost_per_min":   req.STTCost,
		"llm_cost_per_min":   req.LLMCost,
		"tts_cost_per_min":   req.TTSCost,
		"total_cost_per_min": req.TotalCost,
	} {
		if v != nil {
			fields[k] = *v
		}
	}
	return fields
}

// UploadDocument stores a knowledge-base file.
func (s *Service) UploadDocument(ctx context.Context, filename string, data []byte) (documents.Document, error) {
	doc, err := s.docs.Upload(ctx, filename, data)
	if err != nil {
		return documents.Document{}, errorsx.Wrap(err, errorsx.ReasonDocumentStore)
	}
	s.obs.RecordEvent(metrics.MetricsEvent{
		Name:   metrics.EventDocumentUploaded,
		Time:   time.Now(),
		Value:  float64(doc.Size),
		Fields: map[string]any{"id": doc.ID, "name": doc.Name},
	})
	return doc, nil
}

func (s *Service) ListDocuments(ctx context.Context) ([]documents.Document, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDocumentStore)
	}
	return docs, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, id); err != nil {
		var nf *documents.ErrNotFound
		if errors.As(err, &nf) {
			return errorsx.Wrap(err, errorsx.ReasonNotFound)
		}
		return errorsx.Wrap(err, errorsx.ReasonDocumentStore)
	}
	s.obs.RecordEvent(metrics.MetricsEvent{
		Name:   metrics.EventDocumentDeleted,
		Time:   time.Now(),
		Fields: map[string]any{"id": id},
	})
	return nil
}

// classify attaches a reason to resolver and builder errors.
func classify(err error) error {
	var (
		ve  *callrequest.ValidationError
		oe  *resolver.OptionError
		cie *resolver.CatalogIntegrityError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &oe):
		return errorsx.Wrap(err, errorsx.ReasonValidation)
	case errors.As(err, &cie):
		return errorsx.Wrap(err, errorsx.ReasonCatalogIntegrity)
	default:
		return err
	}
}
