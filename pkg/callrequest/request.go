package callrequest

import (
	"fmt"

	"github.com/harunnryd/callpanel/pkg/configutil"
)

// Toggles are optional agent behaviours carried with a call.
type Toggles struct {
	UseKnowledgeBase   bool    `json:"use_knowledge_base" mapstructure:"use_knowledge_base"`
	AutoEndCall        bool    `json:"auto_end_call" mapstructure:"auto_end_call"`
	AllowInterruptions bool    `json:"allow_interruptions" mapstructure:"allow_interruptions"`
	BackgroundSound    bool    `json:"background_sound" mapstructure:"background_sound"`
	MinSilenceDuration float64 `json:"min_silence_duration" mapstructure:"min_silence_duration"`
}

// Form holds the free-form fields an operator types next to the selection.
type Form struct {
	PhoneNumber  string  `json:"phone_number"`
	FirstMessage string  `json:"first_message"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
	Toggles
}

// CallRequest is the immutable record of one call attempt. Model and voice ids
// are stored without their provider prefix.
type CallRequest struct {
	ID           string `mapstructure:"call_id"`
	PhoneNumber  string `mapstructure:"phone_number"`
	FirstMessage string `mapstructure:"first_message"`

	STTProvider string `mapstructure:"stt_provider"`
	STTLanguage string `mapstructure:"stt_language"`
	STTModel    string `mapstructure:"stt_model"`

	LLMProvider  string  `mapstructure:"llm_provider"`
	LLMModel     string  `mapstructure:"llm_model"`
	SystemPrompt string  `mapstructure:"system_prompt"`
	Temperature  float64 `mapstructure:"temperature"`

	TTSProvider string `mapstructure:"tts_provider"`
	TTSLanguage string `mapstructure:"tts_language"`
	TTSVoice    string `mapstructure:"tts_voice"`

	Toggles `mapstructure:",squash"`

	STTCost   *float64 `mapstructure:"stt_cost_per_min"`
	LLMCost   *float64 `mapstructure:"llm_cost_per_min"`
	TTSCost   *float64 `mapstructure:"tts_cost_per_min"`
	TotalCost *float64 `mapstructure:"total_cost_per_min"`

	CreatedAt int64 `mapstructure:"created_at"`
}

// Metadata flattens the request into scalar values for the record store.
// Unpriced legs are omitted rather than written as null.
func (r *CallRequest) Metadata() map[string]any {
	m := map[string]any{
		"call_id":              r.ID,
		"phone_number":         r.PhoneNumber,
		"first_message":        r.FirstMessage,
		"stt_provider":         r.STTProvider,
		"stt_language":         r.STTLanguage,
		"stt_model":            r.STTModel,
		"llm_provider":         r.LLMProvider,
		"llm_model":            r.LLMModel,
		"system_prompt":        r.SystemPrompt,
		"temperature":          r.Temperature,
		"tts_provider":         r.TTSProvider,
		"tts_language":         r.TTSLanguage,
		"tts_voice":            r.TTSVoice,
		"use_knowledge_base":   r.UseKnowledgeBase,
		"auto_end_call":        r.AutoEndCall,
		"allow_interruptions":  r.AllowInterruptions,
		"background_sound":     r.BackgroundSound,
		"min_silence_duration": r.MinSilenceDuration,
		"created_at":           r.CreatedAt,
	}
	putCost(m, "stt_cost_per_min", r.STTCost)
	putCost(m, "llm_cost_per_min", r.LLMCost)
	putCost(m, "tts_cost_per_min", r.TTSCost)
	putCost(m, "total_cost_per_min", r.TotalCost)
	return m
}

func putCost(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

// FromMetadata rebuilds a request from record-store metadata. Numeric values
// may come back as float64 or json.Number depending on the store.
func FromMetadata(m map[string]any) (*CallRequest, error) {
	var r CallRequest
	if err := configutil.DecodeSettings(m, &r); err != nil {
		return nil, fmt.Errorf("decode call metadata: %w", err)
	}
	if r.ID == "" {
		return nil, fmt.Errorf("decode call metadata: call_id missing")
	}
	return &r, nil
}
