package catalog

import (
	"fmt"
	"strings"
)

// Component is one configuration axis of the voice agent.
type Component string

const (
	STT Component = "stt"
	LLM Component = "llm"
	TTS Component = "tts"
)

// Components returns every axis in display order.
func Components() []Component {
	return []Component{STT, LLM, TTS}
}

// ParseComponent accepts "stt", "STT", " tts " and so on.
func ParseComponent(v string) (Component, error) {
	switch c := Component(strings.ToLower(strings.TrimSpace(v))); c {
	case STT, LLM, TTS:
		return c, nil
	default:
		return "", fmt.Errorf("unknown component %q", v)
	}
}

func (c Component) String() string { return strings.ToUpper(string(c)) }

// HasLanguageAxis reports whether selections for c carry a language.
func (c Component) HasLanguageAxis() bool {
	return c == STT || c == TTS
}

// LanguageEncoding describes how a provider embeds a language in its model/voice ids.
type LanguageEncoding string

const (
	// EncodingNone means ids carry no language, e.g. "sarvam:Diya".
	EncodingNone LanguageEncoding = ""
	// EncodingRegion means ids start with a region-qualified code, e.g. "azure:hi-IN-AaravNeural".
	EncodingRegion LanguageEncoding = "region"
	// EncodingBare means ids start with a bare code, e.g. "cartesia:hi-Apoorva".
	EncodingBare LanguageEncoding = "bare"
)

// ProviderOf returns the provider prefix of a model or voice id.
func ProviderOf(id string) string {
	provider, _, ok := strings.Cut(id, ":")
	if !ok {
		return ""
	}
	return provider
}

// StripProvider removes the leading "provider:" segment only, so
// "sarvam:saarika:v2" becomes "saarika:v2".
func StripProvider(id string) string {
	_, rest, ok := strings.Cut(id, ":")
	if !ok {
		return id
	}
	return rest
}
