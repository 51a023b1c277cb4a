package configutil

import (
	"errors"
	"testing"
	"time"
)

type redisSettings struct {
	Addr      string        `mapstructure:"addr"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

func TestDecodeSettingsNormalizesKeys(t *testing.T) {
	var out redisSettings
	err := DecodeSettings(map[string]any{
		"Addr":       "localhost:6379",
		"db":         "2",
		"ttl":        "24h",
		"key-prefix": "calls:",
	}, &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Addr != "localhost:6379" || out.DB != 2 || out.TTL != 24*time.Hour || out.KeyPrefix != "calls:" {
		t.Fatalf("unexpected settings %+v", out)
	}
}

func TestValidateSettingsReportsMissingAndUnknown(t *testing.T) {
	err := ValidateSettings(map[string]any{
		"bucket": " ",
		"colour": "blue",
	}, Schema{Required: []string{"bucket", "region"}, Optional: []string{"prefix"}})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if len(se.Missing) != 2 || se.Missing[0] != "bucket" || se.Missing[1] != "region" {
		t.Fatalf("unexpected missing %v", se.Missing)
	}
	if len(se.Unknown) != 1 || se.Unknown[0] != "colour" {
		t.Fatalf("unexpected unknown %v", se.Unknown)
	}
}

func TestValidateSettingsAcceptsVariantSpelling(t *testing.T) {
	err := ValidateSettings(map[string]any{"Key-Prefix": "x", "addr": "a"}, Schema{Required: []string{"addr"}, Optional: []string{"key_prefix"}})
	if err != nil {
		t.Fatalf("expected valid settings, got %v", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CALLPANEL_TEST_SECRET", "s3cr3t")
	got := ExpandEnv(map[string]any{
		"password": "${CALLPANEL_TEST_SECRET}",
		"nested":   map[string]any{"token": "$CALLPANEL_TEST_SECRET"},
		"port":     6379,
	})
	if got["password"] != "s3cr3t" {
		t.Fatalf("unexpected password %v", got["password"])
	}
	if got["nested"].(map[string]any)["token"] != "s3cr3t" {
		t.Fatalf("nested value not expanded")
	}
	if got["port"] != 6379 {
		t.Fatalf("non-string value changed")
	}
}

func TestMillis(t *testing.T) {
	if Millis(0, time.Second) != time.Second {
		t.Fatalf("expected fallback")
	}
	if Millis(250, time.Second) != 250*time.Millisecond {
		t.Fatalf("expected 250ms")
	}
}
