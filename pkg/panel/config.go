package panel

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/harunnryd/callpanel/pkg/configutil"
	"github.com/harunnryd/callpanel/pkg/dispatch"
	"github.com/spf13/viper"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Server        ServerConfig        `mapstructure:"server"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Agent         AgentConfig         `mapstructure:"agent"`
	Verify        VerifyConfig        `mapstructure:"verify"`
	Dispatch      DispatchConfig      `mapstructure:"dispatch"`
	RecordStore   BackendConfig       `mapstructure:"record_store"`
	DocumentStore BackendConfig       `mapstructure:"document_store"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// BackendConfig selects a registered backend and carries its free-form settings.
type BackendConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type ServerConfig struct {
	Addr                string   `mapstructure:"addr"`
	ReadHeaderTimeoutMS int      `mapstructure:"read_header_timeout_ms"`
	ShutdownTimeoutMS   int      `mapstructure:"shutdown_timeout_ms"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Users        map[string]string `mapstructure:"users"`
	SessionTTLMS int               `mapstructure:"session_ttl_ms"`
}

type AgentConfig struct {
	Name string `mapstructure:"name"`
}

type VerifyConfig struct {
	MaxAttempts int  `mapstructure:"max_attempts"`
	IntervalMS  int  `mapstructure:"interval_ms"`
	Exponential bool `mapstructure:"exponential"`
}

type DispatchConfig struct {
	BackendConfig     `mapstructure:",squash"`
	TimeoutMS         int `mapstructure:"timeout_ms"`
	BreakerThreshold  int `mapstructure:"breaker_threshold"`
	BreakerCooldownMS int `mapstructure:"breaker_cooldown_ms"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

type ObservabilityConfig struct {
	EventsPath    string `mapstructure:"events_path"`
	ArtifactsDir  string `mapstructure:"artifacts_dir"`
	RetentionDays int    `mapstructure:"retention_days"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout_ms", 5000)
	v.SetDefault("server.shutdown_timeout_ms", 10000)
	v.SetDefault("catalog.path", "")
	v.SetDefault("auth.session_ttl_ms", 12*60*60*1000)
	v.SetDefault("agent.name", dispatch.DefaultAgentName)
	v.SetDefault("verify.max_attempts", 15)
	v.SetDefault("verify.interval_ms", 1000)
	v.SetDefault("verify.exponential", false)
	v.SetDefault("dispatch.provider", "command")
	v.SetDefault("dispatch.timeout_ms", 60000)
	v.SetDefault("dispatch.breaker_threshold", 3)
	v.SetDefault("dispatch.breaker_cooldown_ms", 30000)
	v.SetDefault("record_store.provider", "memory")
	v.SetDefault("document_store.provider", "memory")
	v.SetDefault("privacy.redact_pii", true)
	v.SetDefault("observability.events_path", "")
	v.SetDefault("observability.artifacts_dir", "")
	v.SetDefault("observability.retention_days", 0)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Auth.Users) == 0 {
		return fmt.Errorf("auth.users needs at least one operator")
	}
	if err := configutil.RequireString(c.Agent.Name, "agent.name"); err != nil {
		return err
	}
	if err := configutil.RequireString(c.RecordStore.Provider, "record_store.provider"); err != nil {
		return err
	}
	if err := configutil.RequireString(c.DocumentStore.Provider, "document_store.provider"); err != nil {
		return err
	}
	if err := configutil.RequireString(c.Dispatch.Provider, "dispatch.provider"); err != nil {
		return err
	}
	if c.Verify.MaxAttempts <= 0 {
		return fmt.Errorf("verify.max_attempts must be positive")
	}
	return nil
}

// expandEnvStrings leaves auth.users alone: bcrypt hashes contain '$'.
func expandEnvStrings(cfg *Config) {
	users := cfg.Auth.Users
	cfg.Auth.Users = nil
	expandValue(reflect.ValueOf(cfg))
	cfg.Auth.Users = users
	cfg.RecordStore.Settings = configutil.ExpandEnv(cfg.RecordStore.Settings)
	cfg.DocumentStore.Settings = configutil.ExpandEnv(cfg.DocumentStore.Settings)
	cfg.Dispatch.Settings = configutil.ExpandEnv(cfg.Dispatch.Settings)
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && v.Type().Elem().Kind() == reflect.String {
			for _, key := range v.MapKeys() {
				val := v.MapIndex(key)
				v.SetMapIndex(key, reflect.ValueOf(os.ExpandEnv(val.String())))
			}
		}
	}
}

// normalizeProvider matches registry keys.
func normalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
