package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/harunnryd/callpanel/pkg/auth"
	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/configutil"
	"github.com/harunnryd/callpanel/pkg/logging"
	"github.com/harunnryd/callpanel/pkg/panel"
	"github.com/harunnryd/callpanel/pkg/redact"
	"github.com/harunnryd/callpanel/pkg/resilience"
	"github.com/harunnryd/callpanel/pkg/resolver"
	"github.com/harunnryd/callpanel/pkg/session"
	"github.com/joho/godotenv"
)

// selections collects repeated -select component.axis=value flags.
type selections []resolver.Event

func (s *selections) String() string { return fmt.Sprint(len(*s)) }

func (s *selections) Set(v string) error {
	ev, err := parseSelection(v)
	if err != nil {
		return err
	}
	*s = append(*s, ev)
	return nil
}

func parseSelection(v string) (resolver.Event, error) {
	key, value, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(value) == "" {
		return resolver.Event{}, fmt.Errorf("selection %q must look like stt.provider=sarvam", v)
	}
	compName, axis, ok := strings.Cut(key, ".")
	if !ok {
		return resolver.Event{}, fmt.Errorf("selection %q must name component.axis", v)
	}
	comp, err := catalog.ParseComponent(compName)
	if err != nil {
		return resolver.Event{}, err
	}
	kind := resolver.EventKind(strings.ToLower(strings.TrimSpace(axis)))
	switch kind {
	case resolver.ProviderChanged, resolver.LanguageChanged, resolver.ModelChanged:
	default:
		return resolver.Event{}, fmt.Errorf("selection %q: axis must be provider, language or model", v)
	}
	return resolver.Event{Kind: kind, Component: comp, Value: strings.TrimSpace(value)}, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "")
	user := flag.String("user", "", "operator name from auth.users")
	to := flag.String("to", "", "destination number, +91 followed by 10 digits")
	firstMessage := flag.String("first_message", "", "")
	systemPrompt := flag.String("system_prompt", "", "")
	temperature := flag.Float64("temperature", 0.7, "")
	dryRun := flag.Bool("dry_run", false, "print the request without storing or dispatching it")
	var sel selections
	flag.Var(&sel, "select", "component.axis=value, repeatable")
	flag.Parse()
	if *user == "" || *to == "" || *firstMessage == "" {
		fmt.Println("usage: placecall -user=ops -to=+919876543210 -first_message=... [-select=llm.provider=openai] [-config=...]")
		return 1
	}
	_ = godotenv.Load()
	password := os.Getenv("CALLPANEL_PASSWORD")

	cfg, err := panel.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		return 1
	}
	log := configure(cfg)

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		if cat, err = catalog.LoadFile(cfg.Catalog.Path); err != nil {
			fmt.Println("catalog error:", err)
			return 1
		}
	}
	res := resolver.New(cat)
	users, err := auth.NewUsers(cfg.Auth.Users)
	if err != nil {
		fmt.Println("auth error:", err)
		return 1
	}
	sess, err := session.NewManager(users, res, time.Hour).Login(*user, password)
	if err != nil {
		fmt.Println("login error:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	reg := panel.DefaultRegistry()
	records, err := reg.BuildRecordStore(ctx, cfg)
	if err != nil {
		fmt.Println("record store error:", err)
		return 1
	}
	docs, err := reg.BuildDocumentStore(ctx, cfg)
	if err != nil {
		fmt.Println("document store error:", err)
		return 1
	}
	dispatcher, err := reg.BuildDispatcher(cfg)
	if err != nil {
		fmt.Println("dispatch error:", err)
		return 1
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
		Logger:     log,
	})

	for _, ev := range sel {
		if _, err := svc.Apply(sess, ev); err != nil {
			fmt.Println("selection error:", err)
			return 1
		}
	}
	view := svc.UpdateForm(sess, formFrom(session.DefaultForm(), *to, *firstMessage, *systemPrompt, *temperature))
	fmt.Println("cost:", view.CostText)

	if *dryRun {
		printJSON(view.State)
		return 0
	}
	out, err := svc.PlaceCall(ctx, sess)
	if out.CallID != "" {
		printJSON(out)
	}
	if err != nil {
		fmt.Println("call error:", err)
		return 1
	}
	return 0
}

// configure applies the process-wide settings from cfg and returns the logger.
func configure(cfg panel.Config) *slog.Logger {
	redact.SetEnabled(cfg.Privacy.RedactPII)
	return logging.InitLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
}

func formFrom(base callrequest.Form, to, firstMessage, systemPrompt string, temperature float64) callrequest.Form {
	base.PhoneNumber = strings.TrimSpace(to)
	base.FirstMessage = firstMessage
	base.SystemPrompt = systemPrompt
	base.Temperature = temperature
	return base
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
