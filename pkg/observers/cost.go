package observers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/harunnryd/callpanel/pkg/metrics"
	"github.com/harunnryd/callpanel/pkg/redact"
)

// CostSummary is the per-call cost file written next to the call timeline.
type CostSummary struct {
	CallID        string   `json:"call_id"`
	STTModel      string   `json:"stt_model,omitempty"`
	LLMModel      string   `json:"llm_model,omitempty"`
	TTSProvider   string   `json:"tts_provider,omitempty"`
	STTPerMin     *float64 `json:"stt_cost_per_min"`
	LLMPerMin     *float64 `json:"llm_cost_per_min"`
	TTSPerMin     *float64 `json:"tts_cost_per_min"`
	TotalPerMin   *float64 `json:"total_cost_per_min"`
	Status        string   `json:"status"`
	RecordedAtUTC string   `json:"recorded_at_utc"`
}

// Call statuses recorded in a summary.
const (
	StatusConfigured = "configured"
	StatusPlaced     = "placed"
	StatusNotPlaced  = "configured_not_placed"
	StatusAborted    = "record_failed"
)

// CostObserver writes <dir>/<call>.cost.json when a call is built and
// rewrites it with the dispatch outcome.
type CostObserver struct {
	dir   string
	mu    sync.Mutex
	stats map[string]*CostSummary
	err   error
}

func NewCostObserver(dir string) *CostObserver {
	return &CostObserver{dir: dir, stats: make(map[string]*CostSummary)}
}

func (o *CostObserver) RecordEvent(ev metrics.MetricsEvent) {
	if strings.TrimSpace(o.dir) == "" {
		return
	}
	id := ev.CallID()
	if id == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	switch ev.Name {
	case metrics.EventCallBuilt:
		o.stats[id] = &CostSummary{
			CallID:      redact.CallID(id),
			STTModel:    stringField(ev.Fields, "stt_model"),
			LLMModel:    stringField(ev.Fields, "llm_model"),
			TTSProvider: stringField(ev.Fields, "tts_provider"),
			STTPerMin:   floatField(ev.Fields, "stt_cost_per_min"),
			LLMPerMin:   floatField(ev.Fields, "llm_cost_per_min"),
			TTSPerMin:   floatField(ev.Fields, "tts_cost_per_min"),
			TotalPerMin: floatField(ev.Fields, "total_cost_per_min"),
			Status:      StatusConfigured,
		}
	case metrics.EventCallDispatched, metrics.EventDispatchFailed, metrics.EventRecordFailed:
		stat := o.stats[id]
		if stat == nil {
			return
		}
		switch ev.Name {
		case metrics.EventCallDispatched:
			stat.Status = StatusPlaced
		case metrics.EventDispatchFailed:
			stat.Status = StatusNotPlaced
		default:
			stat.Status = StatusAborted
		}
	default:
		return
	}
	o.err = o.write(id, o.stats[id])
	if ev.Name != metrics.EventCallBuilt {
		delete(o.stats, id)
	}
}

// Err returns the last write failure, if any.
func (o *CostObserver) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

func (o *CostObserver) write(callID string, stat *CostSummary) error {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return err
	}
	stat.RecordedAtUTC = time.Now().UTC().Format(time.RFC3339)
	b, err := json.MarshalIndent(stat, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(artifactPath(o.dir, callID, SuffixCost), b, 0o644); err != nil {
		return fmt.Errorf("write cost summary: %w", err)
	}
	return nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func floatField(fields map[string]any, key string) *float64 {
	switch v := fields[key].(type) {
	case float64:
		return &v
	case *float64:
		if v == nil {
			return nil
		}
		f := *v
		return &f
	default:
		return nil
	}
}

var _ metrics.Observer = (*CostObserver)(nil)
