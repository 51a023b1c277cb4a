package panel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harunnryd/callpanel/pkg/auth"
	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/dispatch"
	"github.com/harunnryd/callpanel/pkg/documents"
	"github.com/harunnryd/callpanel/pkg/errorsx"
	"github.com/harunnryd/callpanel/pkg/metrics"
	"github.com/harunnryd/callpanel/pkg/recordstore"
	"github.com/harunnryd/callpanel/pkg/resilience"
	"github.com/harunnryd/callpanel/pkg/resolver"
	"github.com/harunnryd/callpanel/pkg/session"
	"golang.org/x/crypto/bcrypt"
)

type stubDispatcher struct {
	calls []dispatch.Request
	err   error
}

func (s *stubDispatcher) Dispatch(_ context.Context, req dispatch.Request) (dispatch.Result, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return dispatch.Result{}, s.err
	}
	return dispatch.Result{Output: "room created", Reference: req.RecordID}, nil
}

type fixture struct {
	svc        *Service
	sess       *session.Session
	records    *recordstore.MemoryStore
	dispatcher *stubDispatcher
	events     *metrics.MemoryObserver
}

func newFixture(t *testing.T, lag int) *fixture {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users, err := auth.NewUsers(map[string]string{"ops": string(h)})
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	res := resolver.New(catalog.Default())
	sess, err := session.NewManager(users, res, time.Hour).Login("ops", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	f := &fixture{
		sess:       sess,
		records:    recordstore.NewMemoryStore(lag),
		dispatcher: &stubDispatcher{},
		events:     metrics.NewMemoryObserver(),
	}
	f.svc = NewService(Deps{
		Resolver:   res,
		Records:    f.records,
		Documents:  documents.NewMemoryStore(),
		Dispatcher: f.dispatcher,
		Verify:     resilience.RetryPolicy{MaxAttempts: 15, Interval: time.Millisecond},
		Breaker:    resilience.NewCircuitBreaker(2, time.Hour, nil),
		Observer:   f.events,
	})
	return f
}

func (f *fixture) fillForm() {
	f.svc.UpdateForm(f.sess, callrequest.Form{
		PhoneNumber:  "+919876543210",
		FirstMessage: "Namaste",
		SystemPrompt: "Be brief.",
		Temperature:  0.3,
	})
}

func TestViewListsOptionsForCurrentSelection(t *testing.T) {
	f := newFixture(t, 0)
	v := f.svc.View(f.sess)
	tts := v.Options[catalog.TTS]
	if len(tts.Providers) != 5 {
		t.Fatalf("expected 5 tts providers, got %v", tts.Providers)
	}
	for _, m := range tts.Models {
		if lang, ok := catalog.Default().ModelLanguage(catalog.TTS, m); !ok || lang != "hi-IN" {
			t.Fatalf("voice %s does not match hi-IN", m)
		}
	}
	if len(v.Options[catalog.LLM].Languages) != 0 {
		t.Fatalf("llm has no language axis")
	}
	found := false
	for _, l := range v.Options[catalog.STT].Languages {
		if l.Code == "hi-IN" && l.Name == "Hindi" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Hindi in stt languages")
	}
	if v.CostText == "" {
		t.Fatalf("expected cost text")
	}
}

func TestApplyClassifiesErrors(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.svc.Apply(f.sess, resolver.Event{Kind: resolver.ProviderChanged, Component: catalog.TTS, Value: "polly"})
	if !errorsx.HasReason(err, errorsx.ReasonValidation) {
		t.Fatalf("expected validation reason, got %v", err)
	}
	_, err = f.svc.Apply(f.sess, resolver.Event{Kind: resolver.LanguageChanged, Component: catalog.STT, Value: "pa-IN"})
	if !errorsx.HasReason(err, errorsx.ReasonCatalogIntegrity) {
		t.Fatalf("expected integrity reason, got %v", err)
	}
	v, err := f.svc.Apply(f.sess, resolver.Event{Kind: resolver.ModelChanged, Component: catalog.TTS, Value: "azure:ta-IN-PallaviNeural"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v.State.TTS.Language != "ta-IN" {
		t.Fatalf("expected derived language, got %s", v.State.TTS.Language)
	}
	if names := f.events.Named(); len(names) != 1 || names[0] != metrics.EventSelectionChanged {
		t.Fatalf("expected one selection event, got %v", names)
	}
}

func TestPlaceCallHappyPath(t *testing.T) {
	f := newFixture(t, 2)
	f.fillForm()
	out, err := f.svc.PlaceCall(context.Background(), f.sess)
	if err != nil {
		t.Fatalf("place call: %v", err)
	}
	if out.Status != StatusPlaced || out.VerifyAttempts != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(f.dispatcher.calls) != 1 {
		t.Fatalf("expected one dispatch")
	}
	got := f.dispatcher.calls[0]
	if got.AgentName != dispatch.DefaultAgentName || got.RecordID != out.CallID {
		t.Fatalf("unexpected dispatch request %+v", got)
	}
	rec, ok, err := f.records.Fetch(context.Background(), out.CallID)
	if err != nil || !ok {
		t.Fatalf("expected stored record: %v", err)
	}
	back, err := callrequest.FromMetadata(rec.Metadata)
	if err != nil || back.LLMModel != "gpt-4o" {
		t.Fatalf("unexpected stored request %+v (%v)", back, err)
	}
	names := f.events.Named()
	if names[0] != metrics.EventCallBuilt || names[len(names)-1] != metrics.EventCallDispatched {
		t.Fatalf("unexpected event order %v", names)
	}
}

func TestPlaceCallValidationTouchesNothing(t *testing.T) {
	f := newFixture(t, 0)
	f.svc.UpdateForm(f.sess, callrequest.Form{PhoneNumber: "9876543210", FirstMessage: "hi"})
	_, err := f.svc.PlaceCall(context.Background(), f.sess)
	var ve *callrequest.ValidationError
	if !errors.As(err, &ve) || ve.Field != "phone_number" || !errorsx.HasReason(err, errorsx.ReasonValidation) {
		t.Fatalf("expected phone validation error, got %v", err)
	}
	if len(f.dispatcher.calls) != 0 || len(f.events.Events()) != 0 {
		t.Fatalf("expected no side effects")
	}
}

func TestPlaceCallAbortsWhenRecordNeverVisible(t *testing.T) {
	f := newFixture(t, 1000)
	f.fillForm()
	out, err := f.svc.PlaceCall(context.Background(), f.sess)
	if !errorsx.HasReason(err, errorsx.ReasonRecordVerify) {
		t.Fatalf("expected verify failure, got %v", err)
	}
	if out.VerifyAttempts != 15 {
		t.Fatalf("expected 15 attempts, got %d", out.VerifyAttempts)
	}
	if len(f.dispatcher.calls) != 0 {
		t.Fatalf("dispatch must not run without a verified record")
	}
	names := f.events.Named()
	if len(names) == 0 || names[len(names)-1] != metrics.EventRecordFailed {
		t.Fatalf("expected %s as the terminal event, got %v", metrics.EventRecordFailed, names)
	}
}

func TestDispatchFailureIsConfiguredNotPlaced(t *testing.T) {
	f := newFixture(t, 0)
	f.fillForm()
	f.dispatcher.err = &dispatch.Error{ExitCode: 1, Stderr: "agent offline"}
	out, err := f.svc.PlaceCall(context.Background(), f.sess)
	if !errorsx.HasReason(err, errorsx.ReasonDispatch) {
		t.Fatalf("expected dispatch reason, got %v", err)
	}
	if out.Status != StatusConfiguredNotPlaced || out.CallID == "" || out.Output != "agent offline" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if _, ok, _ := f.records.Fetch(context.Background(), out.CallID); !ok {
		t.Fatalf("record should stay persisted")
	}

	f.dispatcher.err = nil
	again, err := f.svc.Redispatch(context.Background(), out.CallID)
	if err != nil || again.Status != StatusPlaced {
		t.Fatalf("expected redispatch to succeed, got %+v (%v)", again, err)
	}
}

func TestDispatchBreakerOpens(t *testing.T) {
	f := newFixture(t, 0)
	f.fillForm()
	f.dispatcher.err = errors.New("boom")
	for i := 0; i < 2; i++ {
		if _, err := f.svc.PlaceCall(context.Background(), f.sess); !errorsx.HasReason(err, errorsx.ReasonDispatch) {
			t.Fatalf("attempt %d: expected dispatch error, got %v", i, err)
		}
	}
	out, err := f.svc.PlaceCall(context.Background(), f.sess)
	if !errorsx.HasReason(err, errorsx.ReasonDispatchUnavailable) {
		t.Fatalf("expected breaker to refuse, got %v", err)
	}
	if !errors.Is(err, resilience.ErrOpen) {
		t.Fatalf("expected %v in chain, got %v", resilience.ErrOpen, err)
	}
	if out.CallID == "" || len(f.dispatcher.calls) != 2 {
		t.Fatalf("expected record kept and dispatcher skipped: %+v, %d calls", out, len(f.dispatcher.calls))
	}
}

func TestRedispatchUnknownCall(t *testing.T) {
	f := newFixture(t, 0)
	if _, err := f.svc.Redispatch(context.Background(), "call-missing"); !errorsx.HasReason(err, errorsx.ReasonNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDocumentOperations(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	if _, err := f.svc.UploadDocument(ctx, "logo.png", []byte{1}); !errorsx.HasReason(err, errorsx.ReasonValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	doc, err := f.svc.UploadDocument(ctx, "faq.md", []byte("# FAQ"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	docs, err := f.svc.ListDocuments(ctx)
	if err != nil || len(docs) != 1 {
		t.Fatalf("expected one document, got %v (%v)", docs, err)
	}
	if err := f.svc.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.DeleteDocument(ctx, doc.ID); !errorsx.HasReason(err, errorsx.ReasonNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
