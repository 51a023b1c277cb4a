package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/harunnryd/callpanel/pkg/auth"
	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/configutil"
	"github.com/harunnryd/callpanel/pkg/httpapi"
	"github.com/harunnryd/callpanel/pkg/metrics"
	"github.com/harunnryd/callpanel/pkg/observers"
	"github.com/harunnryd/callpanel/pkg/panel"
	"github.com/harunnryd/callpanel/pkg/resilience"
	"github.com/harunnryd/callpanel/pkg/resolver"
	"github.com/harunnryd/callpanel/pkg/runner"
	"github.com/harunnryd/callpanel/pkg/session"
)

type app struct {
	server   *httpapi.Server
	async    *metrics.AsyncObserver
	closers  []func() error
	sessions *session.Manager
}

func (a *app) drainers() runner.Drainers {
	d := runner.Drainers{a.server}
	if a.async != nil {
		d = append(d, a.async)
	}
	for _, c := range a.closers {
		d = append(d, runner.DrainFunc(c))
	}
	return d
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func build(ctx context.Context, cfg panel.Config, reg *panel.ProviderRegistry, log *slog.Logger) (*app, error) {
	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	res := resolver.New(cat)

	users, err := auth.NewUsers(cfg.Auth.Users)
	if err != nil {
		return nil, fmt.Errorf("auth.users: %w", err)
	}
	records, err := reg.BuildRecordStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	docs, err := reg.BuildDocumentStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	dispatcher, err := reg.BuildDispatcher(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{}
	if c, ok := records.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}
	obs, err := a.buildObservers(cfg, log)
	if err != nil {
		return nil, err
	}

	policy := resilience.NewRetryPolicy(cfg.Verify.MaxAttempts, configutil.Millis(cfg.Verify.IntervalMS, time.Second))
	policy.Exponential = cfg.Verify.Exponential
	svc := panel.NewService(panel.Deps{
		Resolver:   res,
		Records:    records,
		Documents:  docs,
		Dispatcher: dispatcher,
		AgentName:  cfg.Agent.Name,
		Verify:     policy,
		Breaker:    resilience.NewCircuitBreaker(cfg.Dispatch.BreakerThreshold, configutil.Millis(cfg.Dispatch.BreakerCooldownMS, 30*time.Second), nil),
		Observer:   obs,
		Logger:     log,
	})
	a.sessions = session.NewManager(users, res, configutil.Millis(cfg.Auth.SessionTTLMS, 12*time.Hour))
	a.server = httpapi.New(httpapi.Config{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: configutil.Millis(cfg.Server.ReadHeaderTimeoutMS, 5*time.Second),
		ShutdownTimeout:   configutil.Millis(cfg.Server.ShutdownTimeoutMS, 10*time.Second),
		AllowedOrigins:    cfg.Server.AllowedOrigins,
	}, svc, a.sessions, log)

	log.Info("callpanel_configured",
		"record_store", cfg.RecordStore.Provider,
		"document_store", cfg.DocumentStore.Provider,
		"dispatch", cfg.Dispatch.Provider,
		"agent", cfg.Agent.Name,
		"operators", users.Len())
	return a, nil
}

// buildObservers fans events out to the log and, when configured, to the
// event stream and per-call artifacts. File-backed observers sit behind an
// AsyncObserver so request handlers never block on disk.
func (a *app) buildObservers(cfg panel.Config, log *slog.Logger) (metrics.Observer, error) {
	direct := []metrics.Observer{
		observers.NewLoggerObserver(log),
		observers.NewLatencyObserver(log),
	}
	var slow []metrics.Observer
	if path := strings.TrimSpace(cfg.Observability.EventsPath); path != "" {
		jsonl, err := metrics.OpenJSONLObserver(path)
		if err != nil {
			return nil, fmt.Errorf("observability.events_path: %w", err)
		}
		a.closers = append(a.closers, jsonl.Close)
		slow = append(slow, jsonl)
	}
	if dir := strings.TrimSpace(cfg.Observability.ArtifactsDir); dir != "" {
		if cfg.Observability.RetentionDays > 0 {
			maxAge := time.Duration(cfg.Observability.RetentionDays) * 24 * time.Hour
			n, err := observers.PurgeArtifacts(dir, maxAge)
			if err != nil {
				log.Warn("artifact_purge_failed", "dir", dir, "error", err)
			} else if n > 0 {
				log.Info("artifacts_purged", "dir", dir, "removed", n)
			}
		}
		dir = filepath.Clean(dir)
		slow = append(slow, observers.NewCostObserver(dir), observers.NewTimelineObserver(dir))
	}
	if len(slow) > 0 {
		a.async = metrics.NewAsyncObserver(observers.NewMultiObserver(slow...), 1024)
		direct = append(direct, a.async)
	}
	return observers.NewMultiObserver(direct...), nil
}

func shutdownTimeout(cfg panel.Config) time.Duration {
	// Leave headroom past the HTTP shutdown for observer flushing.
	return configutil.Millis(cfg.Server.ShutdownTimeoutMS, 10*time.Second) + 5*time.Second
}
