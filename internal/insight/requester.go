package insight

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"opsboard/internal/inventory"
)

// DefaultFallbackDelay is how long a canned report takes to "arrive".
const DefaultFallbackDelay = 1500 * time.Millisecond

const recordTimeout = 5 * time.Second

// ErrEmptyResponse is logged when the backend answers with no text.
var ErrEmptyResponse = errors.New("insight: empty response from generator")

// Generator produces text for a prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Recorder persists finished outcomes.
type Recorder interface {
	RecordOutcome(ctx context.Context, o Outcome) error
}

// Config wires a Requester. A nil Generator means no backend is configured
// and every request takes the fallback path.
type Config struct {
	Generator     Generator
	FallbackDelay time.Duration
	Logger        *zerolog.Logger
	Recorder      Recorder
}

// Outcome is the terminal result of one request.
type Outcome struct {
	Kind   Kind   `json:"kind"`
	State  State  `json:"state"`
	Text   string `json:"text"`
	Prompt string `json:"prompt,omitempty"`
}

// Requester builds prompts and turns generator results into Outcomes. It is
// immutable after construction and safe for concurrent use.
type Requester struct {
	gen      Generator
	delay    time.Duration
	log      zerolog.Logger
	recorder Recorder
}

// NewRequester builds a Requester from cfg.
func NewRequester(cfg Config) *Requester {
	delay := cfg.FallbackDelay
	if delay <= 0 {
		delay = DefaultFallbackDelay
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Requester{
		gen:      cfg.Generator,
		delay:    delay,
		log:      log.With().Str("component", "insight").Logger(),
		recorder: cfg.Recorder,
	}
}

// Available reports whether a generation backend is configured.
func (r *Requester) Available() bool {
	return r.gen != nil
}

// GenerateDEXReport produces the digital-experience report.
func (r *Requester) GenerateDEXReport(ctx context.Context, metrics []inventory.DEXMetric, devices []inventory.Device) Outcome {
	return r.request(ctx, KindDEXReport, DEXReportPrompt(metrics, devices), FallbackDEXReport())
}

// GenerateMaintenancePlan produces a maintenance plan for the devices.
func (r *Requester) GenerateMaintenancePlan(ctx context.Context, devices []inventory.Device) Outcome {
	return r.request(ctx, KindMaintenancePlan, MaintenancePlanPrompt(devices), FallbackMaintenancePlan())
}

// GetSupportSuggestion produces troubleshooting advice for a ticket.
func (r *Requester) GetSupportSuggestion(ctx context.Context, ticket inventory.SupportTicket) Outcome {
	return r.request(ctx, KindTicketSuggestion, TicketSuggestionPrompt(ticket), FallbackTicketSuggestion(ticket.Subject))
}

func (r *Requester) request(ctx context.Context, kind Kind, prompt, fallback string) Outcome {
	o := r.resolve(ctx, kind, prompt, fallback)
	r.record(ctx, o)
	return o
}

func (r *Requester) resolve(ctx context.Context, kind Kind, prompt, fallback string) Outcome {
	out := Outcome{Kind: kind, Prompt: prompt}

	if r.gen == nil {
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			out.State, out.Text = StateFallback, fallback
		case <-ctx.Done():
			r.log.Warn().Err(ctx.Err()).Str("kind", string(kind)).Msg("fallback request cancelled")
			out.State, out.Text = StateFailed, kind.ErrorMessage()
		}
		return out
	}

	text, err := r.gen.GenerateText(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		r.log.Error().Err(err).Str("kind", string(kind)).Msg("text generation failed")
		out.State, out.Text = StateFailed, kind.ErrorMessage()
		return out
	}

	out.State, out.Text = StateSucceeded, text
	return out
}

func (r *Requester) record(ctx context.Context, o Outcome) {
	if r.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := r.recorder.RecordOutcome(ctx, o); err != nil {
		r.log.Warn().Err(err).Str("kind", string(o.Kind)).Msg("failed to record outcome")
	}
}
