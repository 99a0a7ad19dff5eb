// Package pipeline drives one batch end to end: classify every row, then
// either encode contact cards or dispatch templated messages, and assemble
// the per-row report.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/google/uuid"

	"github.com/relaykit/contact-relay/internal/contacts"
	"github.com/relaykit/contact-relay/internal/dispatch"
	"github.com/relaykit/contact-relay/internal/enrich"
	"github.com/relaykit/contact-relay/internal/observability/metrics"
)

// Mode selects the downstream path for accepted records. The paths are
// mutually exclusive per run.
type Mode string

const (
	ModeClassify Mode = "classify"
	ModeExport   Mode = "export"
	ModeSend     Mode = "send"
)

// RunConfig is the per-batch configuration.
type RunConfig struct {
	Mode    Mode
	Mapping contacts.FieldMapping
	Plan    contacts.DialPlan
}

// RowResult is one line of the final report, mirroring the input row order.
type RowResult struct {
	Row           int    `json:"row"`
	Name          string `json:"name"`
	OriginalPhone string `json:"original_phone"`
	Status        string `json:"status"`
	Detail        string `json:"detail,omitempty"`
}

// Report is the outcome of one batch run.
type Report struct {
	BatchID  string             `json:"batch_id"`
	Mode     Mode               `json:"mode"`
	Total    int                `json:"total"`
	Accepted int                `json:"accepted"`
	Rejected int                `json:"rejected"`
	Sent     int                `json:"sent,omitempty"`
	Failed   int                `json:"failed,omitempty"`
	Rows     []RowResult        `json:"rows"`
	VCard    string             `json:"vcard,omitempty"`
	Outcomes []dispatch.Outcome `json:"outcomes,omitempty"`
}

// Pipeline wires the engine to its collaborators. Dispatcher, enricher and
// metrics are all optional; a nil dispatcher simply disables ModeSend.
type Pipeline struct {
	dispatcher *dispatch.Dispatcher
	enricher   *enrich.Enricher
	metrics    *metrics.PipelineMetrics
	logger     *slog.Logger
}

func New(dispatcher *dispatch.Dispatcher, enricher *enrich.Enricher, m *metrics.PipelineMetrics, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		dispatcher: dispatcher,
		enricher:   enricher,
		metrics:    m,
		logger:     logger,
	}
}

// SendEnabled reports whether ModeSend runs can be served.
func (p *Pipeline) SendEnabled() bool {
	return p.dispatcher != nil
}

// Run classifies rows and follows the configured path. Classification
// failures are data and land in the report; the only errors returned are
// precondition failures detected before any row is processed.
func (p *Pipeline) Run(ctx context.Context, rows []contacts.RawContact, cfg RunConfig) (*Report, error) {
	switch cfg.Mode {
	case ModeClassify, ModeExport:
	case ModeSend:
		if p.dispatcher == nil {
			return nil, errors.New("pipeline: send mode requires a configured messaging gateway")
		}
	default:
		return nil, fmt.Errorf("pipeline: unknown mode %q", cfg.Mode)
	}

	accepted, rejected, err := contacts.Classify(rows, cfg.Mapping, cfg.Plan)
	if err != nil {
		return nil, err
	}

	report := &Report{
		BatchID:  uuid.NewString(),
		Mode:     cfg.Mode,
		Total:    len(rows),
		Accepted: len(accepted),
		Rejected: len(rejected),
	}
	p.logger.Info("batch classified",
		"batch_id", report.BatchID,
		"total", report.Total,
		"accepted", report.Accepted,
		"rejected", report.Rejected,
	)

	results := make(map[int]*RowResult, len(rows))
	order := make([]int, 0, len(rows))
	for _, row := range rows {
		results[row.Row] = &RowResult{
			Row:           row.Row,
			Name:          row.Fields[cfg.Mapping.NameColumn],
			OriginalPhone: row.Fields[cfg.Mapping.PhoneColumn],
		}
		order = append(order, row.Row)
	}

	for _, a := range accepted {
		p.metrics.ObserveClassified("accepted", "")
		if r := results[a.Row]; r != nil {
			r.Status = "accepted"
			r.Detail = a.Display
		}
	}
	for _, rej := range rejected {
		p.metrics.ObserveClassified("rejected", string(rej.Reason.Code))
		gloss := p.explain(ctx, rej, cfg.Mapping)
		if r := results[rej.Row]; r != nil {
			r.Status = "rejected"
			r.Detail = gloss
		}
	}

	switch cfg.Mode {
	case ModeExport:
		report.VCard = contacts.EncodeVCards(accepted)
	case ModeSend:
		report.Outcomes = p.dispatcher.DispatchAll(ctx, accepted)
		for _, o := range report.Outcomes {
			r := results[o.Row]
			if o.Sent {
				report.Sent++
				p.metrics.ObserveDispatch("sent", "")
				if r != nil {
					r.Status = "sent"
					r.Detail = "message id: " + o.MessageID
				}
				continue
			}
			report.Failed++
			p.metrics.ObserveDispatch("failed", string(o.Cause))
			if r != nil {
				r.Status = "failed"
				r.Detail = o.Detail
			}
		}
	}

	report.Rows = make([]RowResult, 0, len(order))
	for _, row := range order {
		report.Rows = append(report.Rows, *results[row])
	}
	return report, nil
}

func (p *Pipeline) explain(ctx context.Context, rej contacts.Rejected, mapping contacts.FieldMapping) string {
	original := rej.Fields[mapping.PhoneColumn]
	if rej.Reason.Code == contacts.RejectMissingName {
		// Nothing for the text collaborator to phrase; the canned line is exact.
		p.metrics.ObserveGloss("fallback")
		return enrich.FallbackGloss(rej.Reason)
	}
	gloss := p.enricher.Explain(ctx, original, rej.Reason)
	if gloss == enrich.FallbackGloss(rej.Reason) {
		p.metrics.ObserveGloss("fallback")
	} else {
		p.metrics.ObserveGloss("llm")
	}
	return gloss
}
