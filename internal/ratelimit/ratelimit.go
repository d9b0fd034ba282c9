// Package ratelimit enforces fixed-window request budgets per client and tier.
// It is always the first stage of the submission pipeline so that over-budget
// clients are rejected before any validation or domain-state read happens.
package ratelimit

import (
	"context"
	"time"

	"ethidata/internal/config"
)

// Tier is an independent counting window. A client key is counted separately
// under each tier it passes through.
type Tier struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

var (
	// TierGeneral is the coarse backstop applied to all API traffic.
	TierGeneral = Tier{
		Name:    "general",
		Limit:   config.GeneralLimit,
		Window:  config.GeneralWindow,
		Message: "Too many requests, please try again later.",
	}

	// TierForm covers contact, event registration and resource download
	// submissions.
	TierForm = Tier{
		Name:    "form",
		Limit:   config.FormLimit,
		Window:  config.FormWindow,
		Message: "Too many form submissions, please try again later.",
	}

	// TierApplication covers job applications, the most abuse-sensitive
	// workflow since it accepts file uploads.
	TierApplication = Tier{
		Name:    "application",
		Limit:   config.ApplicationLimit,
		Window:  config.ApplicationWindow,
		Message: "Too many applications submitted, please try again tomorrow.",
	}
)

// CounterStore counts hits per key within a fixed window. The returned count
// includes the current hit; the counter resets once the window elapses.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter decides allow/deny per (client, tier).
type Limiter struct {
	store CounterStore
}

// New creates a limiter backed by the given counter store.
func New(store CounterStore) *Limiter {
	return &Limiter{store: store}
}

// Allow counts one hit for clientKey under tier and reports whether it is
// within budget. The store error, if any, is returned so callers can decide to
// fail open.
func (l *Limiter) Allow(ctx context.Context, clientKey string, tier Tier) (bool, error) {
	count, err := l.store.Incr(ctx, tier.Name+":"+clientKey, tier.Window)
	if err != nil {
		return false, err
	}
	return count <= tier.Limit, nil
}
