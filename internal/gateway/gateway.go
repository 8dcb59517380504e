// Package gateway is the thin façade between the session controller and the
// external backend: the identity provider and the document store. It bounds
// every call with a timeout and folds failures into the domain error
// taxonomy, so callers only ever see classified errors.
package gateway

import (
	"context"
	"fmt"
	"time"

	"solo-quiz-service/internal/domain"
)

// DefaultTimeout bounds each backend call when no timeout is configured, so
// an unresponsive backend surfaces as a classified error instead of a hang.
const DefaultTimeout = 5 * time.Second

// AuthProvider is the external identity provider. One operation: anonymous
// sign-in returning an opaque, stable-for-session subject id.
type AuthProvider interface {
	SignInAnonymously(ctx context.Context) (string, error)
}

// DocumentStore is the external document database. Three access patterns:
// unordered full read of the question pool, insert-only score write, and an
// ordered+limited read of the top scores.
type DocumentStore interface {
	FetchQuestionPool(ctx context.Context) ([]domain.Question, error)
	InsertScore(ctx context.Context, rec domain.ScoreRecord) error
	FetchTopScores(ctx context.Context, limit int) ([]domain.RankingEntry, error)
}

// Gateway implements app.Backend on top of the two collaborators.
type Gateway struct {
	auth    AuthProvider
	store   DocumentStore
	timeout time.Duration
}

func New(auth AuthProvider, store DocumentStore, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{auth: auth, store: store, timeout: timeout}
}

// Authenticate signs the visitor in anonymously. Failures, including
// timeouts, come back as ErrAuth.
func (g *Gateway) Authenticate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	uid, err := g.auth.SignInAnonymously(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	if uid == "" {
		return "", fmt.Errorf("%w: provider returned an empty subject id", domain.ErrAuth)
	}
	return uid, nil
}

// QuestionPool fetches the full pool. An empty pool is a valid result and is
// returned as-is; only transport/backend faults become ErrFetch.
func (g *Gateway) QuestionPool(ctx context.Context) ([]domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	pool, err := g.store.FetchQuestionPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	return pool, nil
}

// SubmitScore inserts the record as a whole document. Callers do not retry,
// so there is no duplicate-write risk.
func (g *Gateway) SubmitScore(ctx context.Context, rec domain.ScoreRecord) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.store.InsertScore(ctx, rec); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	return nil
}

// TopScores fetches the leaderboard, score descending, at most limit entries.
// The store orders; the gateway truncates anything past limit.
func (g *Gateway) TopScores(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	entries, err := g.store.FetchTopScores(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
