package cost

import (
	"fmt"

	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/resolver"
)

// Unavailable is the display value of an estimate with an unpriced leg.
const Unavailable = "unavailable"

// Legs holds per-minute prices per component; nil means unpriced.
type Legs struct {
	STT *float64 `json:"stt"`
	LLM *float64 `json:"llm"`
	TTS *float64 `json:"tts"`
}

// Estimate is a per-minute cost. Total is nil when any leg is unpriced.
type Estimate struct {
	PerLeg Legs     `json:"per_leg"`
	Total  *float64 `json:"total"`
}

// Available reports whether every leg was priced.
func (e Estimate) Available() bool { return e.Total != nil }

// String renders the total as "$0.0393/min" or "unavailable".
func (e Estimate) String() string {
	if e.Total == nil {
		return Unavailable
	}
	return FormatPerMinute(*e.Total)
}

// FormatPerMinute renders a price to 4 decimal places. Only the display is rounded.
func FormatPerMinute(v float64) string {
	return fmt.Sprintf("$%.4f/min", v)
}

// Estimator prices selections from the catalog's cost table.
type Estimator struct {
	cat *catalog.Catalog
}

func NewEstimator(cat *catalog.Catalog) *Estimator {
	return &Estimator{cat: cat}
}

// Estimate looks up STT and LLM by exact model id and TTS by provider only.
func (e *Estimator) Estimate(s resolver.State) Estimate {
	out := Estimate{
		PerLeg: Legs{
			STT: e.lookup(catalog.STT, s.STT.Model),
			LLM: e.lookup(catalog.LLM, s.LLM.Model),
			TTS: e.lookup(catalog.TTS, s.TTS.Provider),
		},
	}
	if out.PerLeg.STT != nil && out.PerLeg.LLM != nil && out.PerLeg.TTS != nil {
		total := *out.PerLeg.STT + *out.PerLeg.LLM + *out.PerLeg.TTS
		out.Total = &total
	}
	return out
}

func (e *Estimator) lookup(comp catalog.Component, key string) *float64 {
	v, ok := e.cat.Cost(comp, key)
	if !ok {
		return nil
	}
	return &v
}
