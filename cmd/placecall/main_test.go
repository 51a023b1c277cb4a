package main

import (
	"testing"

	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/panel"
	"github.com/harunnryd/callpanel/pkg/redact"
	"github.com/harunnryd/callpanel/pkg/resolver"
	"github.com/harunnryd/callpanel/pkg/session"
)

func TestParseSelection(t *testing.T) {
	ev, err := parseSelection("TTS.model=azure:ta-IN-PallaviNeural")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := resolver.Event{Kind: resolver.ModelChanged, Component: catalog.TTS, Value: "azure:ta-IN-PallaviNeural"}
	if ev != want {
		t.Fatalf("expected %+v, got %+v", want, ev)
	}
	for _, bad := range []string{"stt.provider", "provider=sarvam", "vad.provider=x", "llm.voice=x"} {
		if _, err := parseSelection(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormFromKeepsToggles(t *testing.T) {
	f := formFrom(session.DefaultForm(), " +919876543210 ", "Namaste", "", 0.2)
	if f.PhoneNumber != "+919876543210" || f.Temperature != 0.2 {
		t.Fatalf("unexpected form %+v", f)
	}
	if !f.AllowInterruptions || f.MinSilenceDuration != 0.5 {
		t.Fatalf("expected default toggles, got %+v", f.Toggles)
	}
}

func TestConfigureAppliesPrivacySetting(t *testing.T) {
	prev := redact.Enabled()
	t.Cleanup(func() { redact.SetEnabled(prev) })

	var cfg panel.Config
	cfg.Privacy.RedactPII = true
	if configure(cfg) == nil {
		t.Fatalf("expected logger")
	}
	if !redact.Enabled() {
		t.Fatalf("expected redaction on")
	}
	cfg.Privacy.RedactPII = false
	configure(cfg)
	if redact.Enabled() {
		t.Fatalf("expected redaction off")
	}
}
