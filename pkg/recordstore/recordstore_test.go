package recordstore

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/cost"
	"github.com/harunnryd/callpanel/pkg/errorsx"
	"github.com/harunnryd/callpanel/pkg/resilience"
	"github.com/harunnryd/callpanel/pkg/resolver"
	"github.com/redis/go-redis/v9"
)

type stubRedis struct {
	data    map[string]string
	ttl     map[string]time.Duration
	getErr  error
	setErr  error
	getHits int
}

func newStubRedis() *stubRedis {
	return &stubRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (s *stubRedis) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	if s.setErr != nil {
		return redis.NewStatusResult("", s.setErr)
	}
	switch v := value.(type) {
	case []byte:
		s.data[key] = string(v)
	case string:
		s.data[key] = v
	}
	s.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (s *stubRedis) Get(_ context.Context, key string) *redis.StringCmd {
	s.getHits++
	if s.getErr != nil {
		return redis.NewStringResult("", s.getErr)
	}
	v, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (s *stubRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			delete(s.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func fastPolicy(attempts int) resilience.RetryPolicy {
	return resilience.RetryPolicy{MaxAttempts: attempts, Interval: time.Millisecond}
}

func builtRequest(t *testing.T) *callrequest.CallRequest {
	t.Helper()
	cat := catalog.Default()
	r := resolver.New(cat)
	s, err := r.Apply(r.Initial(), resolver.Event{Kind: resolver.ProviderChanged, Component: catalog.STT, Value: "sarvam"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	req, err := callrequest.NewBuilder(r, cost.NewEstimator(cat)).Build(s, callrequest.Form{
		PhoneNumber:  "+919876543210",
		FirstMessage: "Hello",
		Temperature:  0.2,
		Toggles:      callrequest.Toggles{AutoEndCall: true, MinSilenceDuration: 0.8},
	}, callrequest.Options{IncludeCost: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return req
}

func TestPlaceholderVector(t *testing.T) {
	v := PlaceholderVector()
	if len(v) != 384 {
		t.Fatalf("expected 384 dims, got %d", len(v))
	}
	for _, x := range v {
		if x != 0.5 {
			t.Fatalf("expected 0.5, got %v", x)
		}
	}
}

func TestRedisStoreRoundTripsCallRequest(t *testing.T) {
	stub := newStubRedis()
	store := newRedisStore(stub, RedisSettings{Namespace: "test"})
	req := builtRequest(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, NewRecord(req.ID, req.Metadata())); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	key := "callpanel:record:test:" + req.ID
	if stub.ttl[key] != 24*time.Hour {
		t.Fatalf("expected default ttl on %s, got %v", key, stub.ttl[key])
	}
	got, ok, err := store.Fetch(ctx, req.ID)
	if err != nil || !ok {
		t.Fatalf("fetch: ok=%v err=%v", ok, err)
	}
	if len(got.Values) != PlaceholderDimensions {
		t.Fatalf("expected placeholder vector, got %d values", len(got.Values))
	}
	back, err := callrequest.FromMetadata(got.Metadata)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(req, back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", req, back)
	}
	if !SameMetadata(req.Metadata(), got.Metadata) {
		t.Fatalf("expected metadata to compare equal")
	}
}

func TestRedisStoreMissingAndDelete(t *testing.T) {
	stub := newStubRedis()
	store := newRedisStore(stub, RedisSettings{KeyPrefix: "p:", TTL: time.Minute})
	ctx := context.Background()
	if _, ok, err := store.Fetch(ctx, "nope"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Upsert(ctx, NewRecord("a", map[string]any{"x": "y"})); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if stub.ttl["p:a"] != time.Minute {
		t.Fatalf("expected configured ttl")
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Fetch(ctx, "a"); ok {
		t.Fatalf("expected record to be gone")
	}
}

func TestNewRedisStoreValidatesSettings(t *testing.T) {
	if _, err := NewRedisStore(map[string]any{"db": 1}); err == nil {
		t.Fatalf("expected missing addr error")
	}
}

func TestWriteAndVerifyWaitsForVisibility(t *testing.T) {
	store := NewMemoryStore(3)
	var seen []int
	n, err := WriteAndVerify(context.Background(), store, NewRecord("call-1", map[string]any{"k": "v"}), fastPolicy(15), func(a int) {
		seen = append(seen, a)
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if n != 4 || len(seen) != 4 {
		t.Fatalf("expected 4 attempts, got %d (%v)", n, seen)
	}
}

func TestWriteAndVerifyGivesUp(t *testing.T) {
	store := NewMemoryStore(100)
	n, err := WriteAndVerify(context.Background(), store, NewRecord("call-1", nil), fastPolicy(15), nil)
	if !errorsx.HasReason(err, errorsx.ReasonRecordVerify) {
		t.Fatalf("expected verify reason, got %v", err)
	}
	if n != 15 {
		t.Fatalf("expected 15 attempts, got %d", n)
	}
}

func TestWriteAndVerifyWriteFailure(t *testing.T) {
	stub := newStubRedis()
	stub.setErr = errors.New("connection refused")
	_, err := WriteAndVerify(context.Background(), newRedisStore(stub, RedisSettings{}), NewRecord("a", nil), fastPolicy(3), nil)
	if !errorsx.HasReason(err, errorsx.ReasonRecordStore) {
		t.Fatalf("expected record store reason, got %v", err)
	}
	if stub.getHits != 0 {
		t.Fatalf("expected no polling after failed write")
	}
}

func TestWriteAndVerifyRetriesFetchErrors(t *testing.T) {
	stub := newStubRedis()
	stub.getErr = errors.New("timeout")
	_, err := WriteAndVerify(context.Background(), newRedisStore(stub, RedisSettings{}), NewRecord("a", nil), fastPolicy(3), nil)
	if !errorsx.HasReason(err, errorsx.ReasonRecordVerify) || stub.getHits != 3 {
		t.Fatalf("expected 3 polls then verify failure, got %v after %d", err, stub.getHits)
	}
}
