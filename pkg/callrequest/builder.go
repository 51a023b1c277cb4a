package callrequest

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/cost"
	"github.com/harunnryd/callpanel/pkg/resolver"
)

var phoneRe = regexp.MustCompile(`^\+91\d{10}$`)

// ValidationError is a field-level input error. Building never mutates state
// when it returns one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidPhone reports whether v is "+91" followed by exactly 10 digits.
func ValidPhone(v string) bool {
	return phoneRe.MatchString(v)
}

// NewCallID formats "call-{phone}-{unixSeconds}-{6 digits}".
func NewCallID(phone string, now time.Time, sixDigits int) string {
	return fmt.Sprintf("call-%s-%d-%06d", phone, now.Unix(), sixDigits)
}

// Options tune a single Build.
type Options struct {
	IncludeCost bool
}

// Builder validates a selection plus form and assembles a CallRequest. It does no I/O.
type Builder struct {
	resolver  *resolver.Resolver
	estimator *cost.Estimator
	now       func() time.Time
	digits    func() int
}

func NewBuilder(r *resolver.Resolver, e *cost.Estimator) *Builder {
	return &Builder{
		resolver:  r,
		estimator: e,
		now:       time.Now,
		digits:    func() int { return 100000 + rand.IntN(900000) },
	}
}

// Build validates in order: phone present, first message present, phone
// format, temperature range, silence duration, then the selection itself.
// The first failure is returned.
func (b *Builder) Build(s resolver.State, f Form, opts Options) (*CallRequest, error) {
	phone := strings.TrimSpace(f.PhoneNumber)
	if phone == "" {
		return nil, &ValidationError{Field: "phone_number", Message: "required"}
	}
	if strings.TrimSpace(f.FirstMessage) == "" {
		return nil, &ValidationError{Field: "first_message", Message: "required"}
	}
	if !ValidPhone(phone) {
		return nil, &ValidationError{Field: "phone_number", Message: "must be +91 followed by 10 digits"}
	}
	if f.Temperature < 0 || f.Temperature > 1 {
		return nil, &ValidationError{Field: "temperature", Message: "must be between 0.0 and 1.0"}
	}
	if f.MinSilenceDuration < 0 {
		return nil, &ValidationError{Field: "min_silence_duration", Message: "must not be negative"}
	}
	if err := b.resolver.Verify(s); err != nil {
		return nil, err
	}

	now := b.now()
	req := &CallRequest{
		ID:           NewCallID(phone, now, b.digits()),
		PhoneNumber:  phone,
		FirstMessage: f.FirstMessage,
		STTProvider:  s.STT.Provider,
		STTLanguage:  s.STT.Language,
		STTModel:     catalog.StripProvider(s.STT.Model),
		LLMProvider:  s.LLM.Provider,
		LLMModel:     catalog.StripProvider(s.LLM.Model),
		SystemPrompt: f.SystemPrompt,
		Temperature:  f.Temperature,
		TTSProvider:  s.TTS.Provider,
		TTSLanguage:  s.TTS.Language,
		TTSVoice:     catalog.StripProvider(s.TTS.Model),
		Toggles:      f.Toggles,
		CreatedAt:    now.Unix(),
	}
	if opts.IncludeCost && b.estimator != nil {
		est := b.estimator.Estimate(s)
		req.STTCost = est.PerLeg.STT
		req.LLMCost = est.PerLeg.LLM
		req.TTSCost = est.PerLeg.TTS
		req.TotalCost = est.Total
	}
	return req, nil
}
