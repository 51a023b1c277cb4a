package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/harunnryd/callpanel/pkg/configutil"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSettings configures direct outbound dialing. The voice webhook at
// PublicURL+VoicePath receives call_id and agent query parameters so the agent
// can load the persisted record.
type TwilioSettings struct {
	AccountSID         string `mapstructure:"account_sid"`
	AuthToken          string `mapstructure:"auth_token"`
	FromNumber         string `mapstructure:"from_number"`
	PublicURL          string `mapstructure:"public_url"`
	VoicePath          string `mapstructure:"voice_path"`
	StatusCallbackPath string `mapstructure:"status_callback_path"`
}

// TwilioSchema lists the accepted settings keys.
var TwilioSchema = configutil.Schema{
	Required: []string{"account_sid", "auth_token", "from_number", "public_url"},
	Optional: []string{"voice_path", "status_callback_path"},
}

func (c TwilioSettings) withDefaults() TwilioSettings {
	if c.VoicePath == "" {
		c.VoicePath = "/voice"
	}
	return c
}

type callCreator interface {
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

// TwilioDispatcher places the call through the Twilio REST API instead of an
// agent dispatch command.
type TwilioDispatcher struct {
	cfg    TwilioSettings
	client callCreator
}

func NewTwilioDispatcher(settings map[string]any) (*TwilioDispatcher, error) {
	if err := configutil.ValidateSettings(settings, TwilioSchema); err != nil {
		return nil, configutil.Describe("dispatch", err)
	}
	var cfg TwilioSettings
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return nil, fmt.Errorf("dispatch.settings: %w", err)
	}
	return &TwilioDispatcher{cfg: cfg.withDefaults()}, nil
}

func (d *TwilioDispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	// The REST client takes no context, so cancellation is honored before the request.
	if err := ctx.Err(); err != nil {
		return Result{}, &Error{ExitCode: -1, Err: err}
	}
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return Result{}, &Error{ExitCode: -1, Err: errors.New("phone number is required")}
	}
	client := d.client
	if client == nil {
		rest := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: d.cfg.AccountSID,
			Password: d.cfg.AuthToken,
		})
		client = rest.Api
	}
	params := &api.CreateCallParams{}
	params.SetTo(req.PhoneNumber)
	params.SetFrom(d.cfg.FromNumber)
	params.SetUrl(d.webhookURL(d.cfg.VoicePath, req))
	if d.cfg.StatusCallbackPath != "" {
		params.SetStatusCallback(d.webhookURL(d.cfg.StatusCallbackPath, req))
	}
	resp, err := client.CreateCall(params)
	if err != nil {
		return Result{}, &Error{ExitCode: -1, Err: err}
	}
	if resp == nil || resp.Sid == nil {
		return Result{}, &Error{ExitCode: -1, Err: errors.New("missing call sid")}
	}
	return Result{Output: "call " + *resp.Sid + " created", Reference: *resp.Sid}, nil
}

func (d *TwilioDispatcher) webhookURL(path string, req Request) string {
	q := url.Values{}
	q.Set("call_id", req.RecordID)
	q.Set("agent", req.AgentName)
	return "https://" + normalizePublicURL(d.cfg.PublicURL) + path + "?" + q.Encode()
}

func normalizePublicURL(v string) string {
	v = strings.TrimPrefix(v, "https://")
	v = strings.TrimPrefix(v, "http://")
	return strings.TrimRight(v, "/")
}

var _ Dispatcher = (*TwilioDispatcher)(nil)
