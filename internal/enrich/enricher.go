// Package enrich turns rejection reasons into natural-language explanations
// for the final report. It is a best-effort annotation step: every path
// degrades to a canned local sentence and nothing here ever fails the batch.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/relaykit/contact-relay/internal/contacts"
)

// LLMClient is the narrow text-generation surface the enricher depends on.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config controls the enricher's retry budget and backoff.
type Config struct {
	Attempts int
	Backoff  time.Duration
	Logger   *slog.Logger
}

// Enricher explains rejections through an LLM with a guaranteed-total
// fallback. A nil client or cache simply narrows it to the fallback path.
type Enricher struct {
	client   LLMClient
	cache    *GlossCache
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

// New creates an Enricher. client and cache may both be nil.
func New(client LLMClient, cache *GlossCache, cfg Config) *Enricher {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		client:   client,
		cache:    cache,
		attempts: attempts,
		backoff:  backoff,
		logger:   logger,
	}
}

// Explain phrases a rejection in natural language. It never returns an
// empty string and never surfaces an error to the caller.
func (e *Enricher) Explain(ctx context.Context, original string, rej contacts.Rejection) string {
	if e == nil || e.client == nil {
		return FallbackGloss(rej)
	}
	if cached, ok := e.cache.Get(ctx, original, rej.Code); ok {
		return cached
	}

	prompt := buildPrompt(original, rej)
	for attempt := 0; attempt < e.attempts; attempt++ {
		if attempt > 0 {
			if err := backoffSleep(ctx, e.backoff*time.Duration(1<<attempt)); err != nil {
				break
			}
		}
		text, err := e.client.Complete(ctx, prompt)
		if err == nil {
			if gloss := strings.TrimSpace(text); gloss != "" {
				e.cache.Set(ctx, original, rej.Code, gloss)
				return gloss
			}
			err = fmt.Errorf("enrich: empty completion")
		}
		e.logger.Warn("gloss attempt failed",
			"attempt", attempt+1,
			"code", string(rej.Code),
			"error", err,
		)
	}
	return FallbackGloss(rej)
}

// FallbackGloss is the deterministic local explanation used when the text
// collaborator is unavailable. It depends on the rejection code alone.
func FallbackGloss(rej contacts.Rejection) string {
	switch rej.Code {
	case contacts.RejectEmptyInput:
		return "The phone field is empty; fill in a number and reimport the row."
	case contacts.RejectMalformedSeparator:
		return "The number's final group after the hyphen is not 4 digits; check for truncated or extra digits."
	case contacts.RejectInvalidLength:
		return "The number has an unsupported digit count; expected between 8 and 13 digits."
	case contacts.RejectMissingCountryCode:
		return "The number carries neither the configured country code nor a recognizable local shape."
	case contacts.RejectNotMobileFormat:
		return "The number is not a mobile subscriber number under the configured numbering plan."
	case contacts.RejectMissingName:
		return "The name field is blank; a contact needs a name to be exported or messaged."
	default:
		return "The row could not be classified; inspect the original value."
	}
}

func buildPrompt(original string, rej contacts.Rejection) string {
	return fmt.Sprintf(
		"A contact import rejected the phone number %q with reason %q (%s). "+
			"In one short sentence, explain to a non-technical operator what is wrong "+
			"and how to fix the row.",
		original, rej.Code, rej.Detail,
	)
}

func backoffSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
