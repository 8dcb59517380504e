package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"solo-quiz-service/internal/domain"
)

func TestErrorsAreClassified(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	gw := New(
		stubAuth{err: boom},
		&stubStore{err: boom},
		time.Second,
	)

	if _, err := gw.Authenticate(ctx); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if _, err := gw.QuestionPool(ctx); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if err := gw.SubmitScore(ctx, domain.ScoreRecord{}); !errors.Is(err, domain.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if _, err := gw.TopScores(ctx, 10); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch for ranking, got %v", err)
	}
}

func TestEmptySubjectIDIsRejected(t *testing.T) {
	gw := New(stubAuth{}, &stubStore{}, time.Second)
	if _, err := gw.Authenticate(context.Background()); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for empty subject id, got %v", err)
	}
}

func TestEmptyPoolIsAValidResult(t *testing.T) {
	gw := New(stubAuth{uid: "u1"}, &stubStore{}, time.Second)
	pool, err := gw.QuestionPool(context.Background())
	if err != nil {
		t.Fatalf("expected empty pool to succeed, got %v", err)
	}
	if len(pool) != 0 {
		t.Fatalf("expected empty pool, got %d", len(pool))
	}
}

func TestTopScoresTruncatedToLimit(t *testing.T) {
	entries := make([]domain.RankingEntry, 12)
	gw := New(stubAuth{uid: "u1"}, &stubStore{entries: entries}, time.Second)

	got, err := gw.TopScores(context.Background(), 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(got))
	}
}

func TestHangingCallTimesOut(t *testing.T) {
	gw := New(stubAuth{uid: "u1"}, &stubStore{hang: true}, 20*time.Millisecond)

	start := time.Now()
	_, err := gw.QuestionPool(context.Background())
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch on timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout did not bound the call, took %v", elapsed)
	}
}

type stubAuth struct {
	uid string
	err error
}

func (s stubAuth) SignInAnonymously(context.Context) (string, error) {
	return s.uid, s.err
}

type stubStore struct {
	pool    []domain.Question
	entries []domain.RankingEntry
	err     error
	hang    bool
}

func (s *stubStore) FetchQuestionPool(ctx context.Context) ([]domain.Question, error) {
	if s.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.pool, s.err
}

func (s *stubStore) InsertScore(ctx context.Context, _ domain.ScoreRecord) error {
	if s.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func (s *stubStore) FetchTopScores(ctx context.Context, _ int) ([]domain.RankingEntry, error) {
	if s.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.entries, s.err
}
