package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/relaykit/contact-relay/internal/contacts"
	"github.com/relaykit/contact-relay/internal/dispatch/waclient"
	"github.com/relaykit/contact-relay/internal/observability/metrics"
)

// FailureCause classifies a terminal per-record send failure.
type FailureCause string

const (
	CauseGatewayRejected FailureCause = "gateway_rejected"
	CauseTransportError  FailureCause = "transport_error"
)

// Outcome is the terminal result of one templated send attempt.
type Outcome struct {
	Row       int          `json:"row"`
	Name      string       `json:"name"`
	To        string       `json:"to"`
	Sent      bool         `json:"sent"`
	MessageID string       `json:"message_id,omitempty"`
	Cause     FailureCause `json:"cause,omitempty"`
	Detail    string       `json:"detail,omitempty"`
}

// Gateway is the messaging surface the dispatcher drives. *waclient.Client
// satisfies it.
type Gateway interface {
	SendTemplate(ctx context.Context, msg waclient.TemplateMessage) (*waclient.SendResult, error)
}

// Config controls the template binding and pacing of the send loop.
type Config struct {
	Template     string
	LanguageCode string
	Spacing      time.Duration
	Logger       *slog.Logger
	Metrics      *metrics.PipelineMetrics
}

// Dispatcher sends one templated message per accepted record, sequentially,
// with a fixed delay between consecutive records to respect gateway rate
// limits. It performs no retries of its own.
type Dispatcher struct {
	gateway  Gateway
	template string
	language string
	spacing  time.Duration
	logger   *slog.Logger
	metrics  *metrics.PipelineMetrics
}

// New creates a Dispatcher. The template name must be pre-approved on the
// gateway side.
func New(gateway Gateway, cfg Config) (*Dispatcher, error) {
	if gateway == nil {
		return nil, errors.New("dispatch: gateway is required")
	}
	if cfg.Template == "" {
		return nil, errors.New("dispatch: template name is required")
	}
	spacing := cfg.Spacing
	if spacing < 0 {
		spacing = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		gateway:  gateway,
		template: cfg.Template,
		language: cfg.LanguageCode,
		spacing:  spacing,
		logger:   logger,
		metrics:  cfg.Metrics,
	}, nil
}

// DispatchAll produces exactly one Outcome per accepted record, in input
// order. Individual failures never abort the batch. Cancelling ctx stops
// the loop between records; the remaining records are recorded as transport
// failures so the result still covers every input.
func (d *Dispatcher) DispatchAll(ctx context.Context, accepted []contacts.Accepted) []Outcome {
	outcomes := make([]Outcome, 0, len(accepted))
	for i, record := range accepted {
		if i > 0 && d.spacing > 0 {
			if err := sleep(ctx, d.spacing); err != nil {
				for _, rest := range accepted[i:] {
					outcomes = append(outcomes, canceledOutcome(rest, err))
				}
				return outcomes
			}
		}
		if ctx.Err() != nil {
			for _, rest := range accepted[i:] {
				outcomes = append(outcomes, canceledOutcome(rest, ctx.Err()))
			}
			return outcomes
		}

		outcome := d.send(ctx, record)
		outcomes = append(outcomes, outcome)
		d.logger.Info("dispatched contact",
			"row", record.Row,
			"progress", fmt.Sprintf("%d/%d", i+1, len(accepted)),
			"sent", outcome.Sent,
		)
	}
	return outcomes
}

func (d *Dispatcher) send(ctx context.Context, record contacts.Accepted) Outcome {
	outcome := Outcome{Row: record.Row, Name: record.Name, To: record.Canonical}
	start := time.Now()
	result, err := d.gateway.SendTemplate(ctx, waclient.TemplateMessage{
		To:             record.Canonical,
		Template:       d.template,
		LanguageCode:   d.language,
		BodyParameters: []string{record.Name},
	})
	d.metrics.ObserveSendLatency(time.Since(start).Seconds())
	if err == nil {
		outcome.Sent = true
		outcome.MessageID = result.MessageID
		if outcome.MessageID == "" {
			outcome.MessageID = "N/A"
		}
		return outcome
	}

	var apiErr *waclient.APIError
	if errors.As(err, &apiErr) {
		outcome.Cause = CauseGatewayRejected
		outcome.Detail = fmt.Sprintf("status %d: %s", apiErr.StatusCode, apiErr.Message)
	} else {
		outcome.Cause = CauseTransportError
		outcome.Detail = err.Error()
	}
	d.logger.Warn("send failed",
		"row", record.Row,
		"cause", string(outcome.Cause),
		"detail", outcome.Detail,
	)
	return outcome
}

func canceledOutcome(record contacts.Accepted, err error) Outcome {
	return Outcome{
		Row:    record.Row,
		Name:   record.Name,
		To:     record.Canonical,
		Cause:  CauseTransportError,
		Detail: err.Error(),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
