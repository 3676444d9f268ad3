package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bbc.edu.in/college-chatbot/internal/metrics"
	"bbc.edu.in/college-chatbot/internal/store"
)

const (
	SourceFAQ        = "faq"
	SourceCompletion = "completion"
	SourceFallback   = "fallback"
)

// FAQLister is the read side of the FAQ store used for matching.
type FAQLister interface {
	ListFAQs(ctx context.Context) ([]store.FAQ, error)
}

// Resolution describes which tier produced a reply.
type Resolution struct {
	Reply    string `json:"reply"`
	Source   string `json:"source"`
	FAQID    int64  `json:"faq_id,omitempty"`
	Category string `json:"category,omitempty"`
}

// Resolver turns one user message into one reply: FAQ substring match, then
// the completion service, then the keyword fallback table. It holds no
// per-call state.
type Resolver struct {
	faqs      FAQLister
	completer Completer
	fallback  *FallbackTable
	logger    *slog.Logger
	metrics   *metrics.ResolverMetrics
}

type ResolverOption func(*Resolver)

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMetrics(m *metrics.ResolverMetrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver wires the three tiers. A nil completer disables the completion
// tier; a nil table uses DefaultFallbackTable.
func NewResolver(faqs FAQLister, completer Completer, table *FallbackTable, opts ...ResolverOption) *Resolver {
	if table == nil {
		table = DefaultFallbackTable()
	}
	r := &Resolver{
		faqs:      faqs,
		completer: completer,
		fallback:  table,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CompletionEnabled reports whether a completion backend was injected.
func (r *Resolver) CompletionEnabled() bool {
	return r.completer != nil
}

// Fallback exposes the rule table for diagnostics.
func (r *Resolver) Fallback() *FallbackTable {
	return r.fallback
}

// Answer returns the reply for message. userID is only carried for logging;
// it never changes the outcome.
func (r *Resolver) Answer(ctx context.Context, message string, userID int64) string {
	res := r.Resolve(ctx, message)
	r.logger.Debug("chat message resolved", "user_id", userID, "source", res.Source, "faq_id", res.FAQID, "category", res.Category)
	return res.Reply
}

// Resolve runs the tiers in order and never fails.
func (r *Resolver) Resolve(ctx context.Context, message string) Resolution {
	if res, ok := r.matchFAQ(ctx, message); ok {
		r.metrics.ObserveResolution(SourceFAQ)
		return res
	}

	if r.completer != nil {
		if reply, ok := r.complete(ctx, message); ok {
			r.metrics.ObserveResolution(SourceCompletion)
			return Resolution{Reply: reply, Source: SourceCompletion}
		}
	}

	reply, category := r.fallback.Resolve(message)
	r.metrics.ObserveResolution(SourceFallback)
	return Resolution{Reply: reply, Source: SourceFallback, Category: category}
}

func (r *Resolver) matchFAQ(ctx context.Context, message string) (Resolution, bool) {
	if r.faqs == nil {
		return Resolution{}, false
	}
	faqs, err := r.faqs.ListFAQs(ctx)
	if err != nil {
		r.logger.Error("failed to load FAQs, skipping FAQ matching", "error", err)
		return Resolution{}, false
	}

	lower := strings.ToLower(message)
	for _, faq := range faqs {
		// Fragment-in-message: a short fragment matches any message containing it.
		if strings.Contains(lower, strings.ToLower(faq.Question)) {
			return Resolution{Reply: faq.Answer, Source: SourceFAQ, FAQID: faq.ID}, true
		}
	}
	return Resolution{}, false
}

func (r *Resolver) complete(ctx context.Context, message string) (string, bool) {
	start := time.Now()
	reply, err := r.completer.Complete(ctx, message)
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(err, ErrUnavailable):
		r.metrics.ObserveCompletion("unavailable", elapsed)
		r.logger.Info("completion service unavailable, using fallback responses")
		return "", false
	case err != nil:
		r.metrics.ObserveCompletion("error", elapsed)
		r.logger.Warn("completion failed, using fallback responses", "error", err)
		return "", false
	case reply == "":
		r.metrics.ObserveCompletion("empty", elapsed)
		r.logger.Warn("completion returned empty text, using fallback responses")
		return "", false
	}
	r.metrics.ObserveCompletion("ok", elapsed)
	return reply, true
}
