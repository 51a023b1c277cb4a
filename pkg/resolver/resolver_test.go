package resolver

import (
	"errors"
	"slices"
	"testing"

	"github.com/harunnryd/callpanel/pkg/catalog"
)

func newDefault() *Resolver {
	return New(catalog.Default())
}

func mustApply(t *testing.T, r *Resolver, s State, ev Event) State {
	t.Helper()
	out, err := r.Apply(s, ev)
	if err != nil {
		t.Fatalf("apply %+v: %v", ev, err)
	}
	return out
}

func TestInitialStateIsConsistent(t *testing.T) {
	r := newDefault()
	s := r.Initial()
	if err := r.Verify(s); err != nil {
		t.Fatalf("initial state inconsistent: %v", err)
	}
	if s.STT != (Selection{Provider: "azure", Language: "hi-IN", Model: "azure:default"}) {
		t.Fatalf("unexpected stt default %+v", s.STT)
	}
	if s.LLM != (Selection{Provider: "openai", Model: "openai:gpt-4o"}) {
		t.Fatalf("unexpected llm default %+v", s.LLM)
	}
	if s.TTS != (Selection{Provider: "azure", Language: "hi-IN", Model: "azure:hi-IN-AaravNeural"}) {
		t.Fatalf("unexpected tts default %+v", s.TTS)
	}
}

func TestProviderChangeYieldsValidSelectionForEveryProvider(t *testing.T) {
	r := newDefault()
	cat := r.Catalog()
	for _, comp := range catalog.Components() {
		for _, p := range cat.ProvidersFor(comp) {
			s := mustApply(t, r, r.Initial(), Event{Kind: ProviderChanged, Component: comp, Value: p})
			sel := s.Get(comp)
			if sel.Provider != p {
				t.Fatalf("%s/%s: provider not applied: %+v", comp, p, sel)
			}
			if langs := cat.LanguagesFor(comp, p); len(langs) > 0 && !slices.Contains(langs, sel.Language) {
				t.Fatalf("%s/%s: language %q not in %v", comp, p, sel.Language, langs)
			}
			if models := cat.ModelsFor(comp, p); len(models) > 0 && !slices.Contains(models, sel.Model) {
				t.Fatalf("%s/%s: model %q not in %v", comp, p, sel.Model, models)
			}
			if s.LastTouched != (Touch{Component: comp, Axis: AxisProvider}) {
				t.Fatalf("unexpected touch %+v", s.LastTouched)
			}
		}
	}
}

func TestProviderChangeIsIdempotent(t *testing.T) {
	r := newDefault()
	for _, comp := range catalog.Components() {
		for _, p := range r.Catalog().ProvidersFor(comp) {
			ev := Event{Kind: ProviderChanged, Component: comp, Value: p}
			once := mustApply(t, r, r.Initial(), ev)
			twice := mustApply(t, r, once, ev)
			if once != twice {
				t.Fatalf("%s/%s: not idempotent: %+v vs %+v", comp, p, once, twice)
			}
		}
	}
}

func TestProviderChangeKeepsSupportedLanguageAndPicksFirstVoice(t *testing.T) {
	r := newDefault()
	s := r.Initial()
	s = mustApply(t, r, s, Event{Kind: ProviderChanged, Component: catalog.TTS, Value: "cartesia"})
	if s.TTS.Language != "hi-IN" || s.TTS.Model != "cartesia:hi-Apoorva" {
		t.Fatalf("unexpected tts %+v", s.TTS)
	}
	s = mustApply(t, r, s, Event{Kind: ProviderChanged, Component: catalog.TTS, Value: "groq"})
	if s.TTS.Language != "en-IN" || s.TTS.Model != "groq:en-Arista-PlayAI" {
		t.Fatalf("expected fallback to first groq language, got %+v", s.TTS)
	}
}

func TestEmptyFilteredVoicesFallBackToProviderList(t *testing.T) {
	r := newDefault()
	s := mustApply(t, r, r.Initial(), Event{Kind: LanguageChanged, Component: catalog.TTS, Value: "od-IN"})
	// Azure spells Odia voices "or-IN", so the od-IN filter is empty.
	if s.TTS.Provider != "azure" || s.TTS.Language != "od-IN" {
		t.Fatalf("unexpected tts %+v", s.TTS)
	}
	if s.TTS.Model != "azure:hi-IN-AaravNeural" {
		t.Fatalf("expected provider-list fallback, got %q", s.TTS.Model)
	}
}

func TestLanguageChangeSwitchesToFirstSupportingProvider(t *testing.T) {
	r := newDefault()
	s := r.Initial()
	s = mustApply(t, r, s, Event{Kind: ProviderChanged, Component: catalog.TTS, Value: "cartesia"})
	s = mustApply(t, r, s, Event{Kind: LanguageChanged, Component: catalog.TTS, Value: "ta-IN"})
	if s.TTS.Provider != "azure" {
		t.Fatalf("expected azure, got %+v", s.TTS)
	}
	if s.TTS.Model != "azure:ta-IN-PallaviNeural" {
		t.Fatalf("expected first tamil voice, got %+v", s.TTS)
	}

	s = mustApply(t, r, s, Event{Kind: ProviderChanged, Component: catalog.STT, Value: "deepgram"})
	s = mustApply(t, r, s, Event{Kind: LanguageChanged, Component: catalog.STT, Value: "en-IN"})
	if s.STT.Provider != "deepgram" || s.STT.Model != "deepgram:nova-2-general" {
		t.Fatalf("expected deepgram kept, got %+v", s.STT)
	}
}

func TestLanguageChangeWithoutSupportingProviderIsIntegrityError(t *testing.T) {
	r := newDefault()
	s := r.Initial()
	// Punjabi has a display name but no STT provider lists it.
	out, err := r.Apply(s, Event{Kind: LanguageChanged, Component: catalog.STT, Value: "pa-IN"})
	var integrity *CatalogIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if out != s {
		t.Fatalf("state mutated on error")
	}
}

func TestLanguageChangeRejectsUnknownCode(t *testing.T) {
	r := newDefault()
	_, err := r.Apply(r.Initial(), Event{Kind: LanguageChanged, Component: catalog.TTS, Value: "fr-FR"})
	var opt *OptionError
	if !errors.As(err, &opt) || opt.Axis != AxisLanguage {
		t.Fatalf("expected option error, got %v", err)
	}
	_, err = r.Apply(r.Initial(), Event{Kind: LanguageChanged, Component: catalog.LLM, Value: "hi-IN"})
	if !errors.As(err, &opt) {
		t.Fatalf("expected option error for llm language, got %v", err)
	}
}

func TestModelChangeDerivesLanguage(t *testing.T) {
	r := newDefault()
	cases := []struct {
		provider string
		voice    string
		want     string
	}{
		{"azure", "azure:hi-IN-AaravNeural", "hi-IN"},
		{"azure", "azure:or-IN-SukantNeural", "or-IN"},
		{"cartesia", "cartesia:hi-Apoorva", "hi-IN"},
		{"elevenlabs", "elevenlabs:en-Brittney", "en-IN"},
	}
	for _, tc := range cases {
		s := mustApply(t, r, r.Initial(), Event{Kind: ProviderChanged, Component: catalog.TTS, Value: tc.provider})
		s = mustApply(t, r, s, Event{Kind: ModelChanged, Component: catalog.TTS, Value: tc.voice})
		if s.TTS.Language != tc.want || s.TTS.Model != tc.voice {
			t.Fatalf("%s: expected language %s, got %+v", tc.voice, tc.want, s.TTS)
		}
		if s.LastTouched.Axis != AxisModel {
			t.Fatalf("expected model touch, got %+v", s.LastTouched)
		}
	}
}

func TestModelChangeKeepsLanguageForUnencodedVoices(t *testing.T) {
	r := newDefault()
	s := mustApply(t, r, r.Initial(), Event{Kind: ProviderChanged, Component: catalog.TTS, Value: "sarvam"})
	s = mustApply(t, r, s, Event{Kind: LanguageChanged, Component: catalog.TTS, Value: "ta-IN"})
	s = mustApply(t, r, s, Event{Kind: ModelChanged, Component: catalog.TTS, Value: "sarvam:Neel"})
	if s.TTS.Language != "ta-IN" {
		t.Fatalf("expected language kept, got %+v", s.TTS)
	}
}

func TestModelChangeRejectsForeignModel(t *testing.T) {
	r := newDefault()
	s := r.Initial()
	_, err := r.Apply(s, Event{Kind: ModelChanged, Component: catalog.LLM, Value: "groq:qwen-qwq-32b"})
	var opt *OptionError
	if !errors.As(err, &opt) || opt.Axis != AxisModel {
		t.Fatalf("expected option error, got %v", err)
	}
}

func TestUnknownProviderAndComponent(t *testing.T) {
	r := newDefault()
	var opt *OptionError
	if _, err := r.Apply(r.Initial(), Event{Kind: ProviderChanged, Component: catalog.STT, Value: "whisperx"}); !errors.As(err, &opt) {
		t.Fatalf("expected option error, got %v", err)
	}
	if _, err := r.Apply(r.Initial(), Event{Kind: ProviderChanged, Component: "vad", Value: "x"}); !errors.As(err, &opt) {
		t.Fatalf("expected option error, got %v", err)
	}
}

func TestComponentNameIsNormalized(t *testing.T) {
	r := newDefault()
	s := mustApply(t, r, r.Initial(), Event{Kind: ProviderChanged, Component: "LLM", Value: "groq"})
	if s.LLM.Provider != "groq" || s.LastTouched.Component != catalog.LLM {
		t.Fatalf("unexpected state %+v", s)
	}
}

func sparseCatalog() *catalog.Catalog {
	return catalog.New(map[catalog.Component]catalog.Axis{
		catalog.STT: {
			Providers: []string{"full", "nolang", "nomodel"},
			Models: map[string][]string{
				"full":    {"full:a"},
				"nolang":  {"nolang:b"},
				"nomodel": {},
			},
			Languages: map[string][]string{
				"full":    {"hi-IN"},
				"nolang":  {},
				"nomodel": {"hi-IN"},
			},
		},
		catalog.LLM: {
			Providers: []string{"x"},
			Models:    map[string][]string{"x": {"x:1"}},
		},
		catalog.TTS: {
			Providers: []string{"v"},
			Models:    map[string][]string{"v": {"v:en-A"}},
			Languages: map[string][]string{"v": {"en-IN"}},
			Encoding:  map[string]catalog.LanguageEncoding{"v": catalog.EncodingBare},
		},
	}, map[string]string{"hi-IN": "Hindi", "en-IN": "English"})
}

func TestEmptySetsHoldPriorValues(t *testing.T) {
	r := New(sparseCatalog())
	s := r.Initial()
	if s.STT != (Selection{Provider: "full", Language: "hi-IN", Model: "full:a"}) {
		t.Fatalf("unexpected initial %+v", s.STT)
	}
	s = mustApply(t, r, s, Event{Kind: ProviderChanged, Component: catalog.STT, Value: "nolang"})
	if s.STT.Language != "hi-IN" || s.STT.Model != "nolang:b" {
		t.Fatalf("expected held language, got %+v", s.STT)
	}
	s = mustApply(t, r, s, Event{Kind: ProviderChanged, Component: catalog.STT, Value: "nomodel"})
	if s.STT.Model != "nolang:b" {
		t.Fatalf("expected held model, got %+v", s.STT)
	}
}

func TestVerifyDetectsInconsistency(t *testing.T) {
	r := newDefault()
	s := r.Initial()
	s.TTS.Language = "ta-IN"
	s.TTS.Model = "azure:hi-IN-AaravNeural"
	if err := r.Verify(s); err != nil {
		t.Fatalf("ta-IN is an azure language, expected ok: %v", err)
	}
	s.TTS.Provider = "groq"
	if err := r.Verify(s); err == nil {
		t.Fatalf("expected foreign model to fail")
	}
	s = r.Initial()
	s.STT.Language = "pa-IN"
	if err := r.Verify(s); err == nil {
		t.Fatalf("expected unsupported language to fail")
	}
}
