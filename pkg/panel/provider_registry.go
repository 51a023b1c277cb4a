package panel

import (
	"context"
	"fmt"
	"sort"

	"github.com/harunnryd/callpanel/pkg/dispatch"
	"github.com/harunnryd/callpanel/pkg/documents"
	"github.com/harunnryd/callpanel/pkg/recordstore"
)

type RecordStoreFactory func(ctx context.Context, cfg Config) (recordstore.Store, error)
type DocumentStoreFactory func(ctx context.Context, cfg Config) (documents.Store, error)
type DispatcherFactory func(cfg Config) (dispatch.Dispatcher, error)

// ProviderRegistry maps backend provider names from config to constructors.
type ProviderRegistry struct {
	records     map[string]RecordStoreFactory
	docs        map[string]DocumentStoreFactory
	dispatchers map[string]DispatcherFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		records:     make(map[string]RecordStoreFactory),
		docs:        make(map[string]DocumentStoreFactory),
		dispatchers: make(map[string]DispatcherFactory),
	}
}

// DefaultRegistry registers every built-in backend.
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.RegisterRecordStore("memory", func(context.Context, Config) (recordstore.Store, error) {
		return recordstore.NewMemoryStore(0), nil
	})
	r.RegisterRecordStore("redis", func(_ context.Context, cfg Config) (recordstore.Store, error) {
		return recordstore.NewRedisStore(cfg.RecordStore.Settings)
	})
	r.RegisterDocumentStore("memory", func(context.Context, Config) (documents.Store, error) {
		return documents.NewMemoryStore(), nil
	})
	r.RegisterDocumentStore("s3", func(ctx context.Context, cfg Config) (documents.Store, error) {
		return documents.NewS3Store(ctx, cfg.DocumentStore.Settings)
	})
	r.RegisterDispatcher("command", func(cfg Config) (dispatch.Dispatcher, error) {
		settings := make(map[string]any, len(cfg.Dispatch.Settings)+1)
		for k, v := range cfg.Dispatch.Settings {
			settings[k] = v
		}
		if _, ok := settings["timeout_ms"]; !ok && cfg.Dispatch.TimeoutMS > 0 {
			settings["timeout_ms"] = cfg.Dispatch.TimeoutMS
		}
		return dispatch.NewCommandDispatcher(settings)
	})
	r.RegisterDispatcher("twilio", func(cfg Config) (dispatch.Dispatcher, error) {
		return dispatch.NewTwilioDispatcher(cfg.Dispatch.Settings)
	})
	return r
}

func (r *ProviderRegistry) RegisterRecordStore(name string, factory RecordStoreFactory) {
	r.records[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) RegisterDocumentStore(name string, factory DocumentStoreFactory) {
	r.docs[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) RegisterDispatcher(name string, factory DispatcherFactory) {
	r.dispatchers[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) BuildRecordStore(ctx context.Context, cfg Config) (recordstore.Store, error) {
	fn := r.records[normalizeProvider(cfg.RecordStore.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("record store provider not registered: %s (have %v)", cfg.RecordStore.Provider, keys(r.records))
	}
	return fn(ctx, cfg)
}

func (r *ProviderRegistry) BuildDocumentStore(ctx context.Context, cfg Config) (documents.Store, error) {
	fn := r.docs[normalizeProvider(cfg.DocumentStore.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("document store provider not registered: %s (have %v)", cfg.DocumentStore.Provider, keys(r.docs))
	}
	return fn(ctx, cfg)
}

func (r *ProviderRegistry) BuildDispatcher(cfg Config) (dispatch.Dispatcher, error) {
	fn := r.dispatchers[normalizeProvider(cfg.Dispatch.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("dispatch provider not registered: %s (have %v)", cfg.Dispatch.Provider, keys(r.dispatchers))
	}
	return fn(cfg)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
