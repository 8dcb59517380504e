package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solo-quiz-service/internal/domain"
)

// DocumentStore is an in-memory implementation of gateway.DocumentStore,
// used for dev mode and tests.
type DocumentStore struct {
	clock func() time.Time

	mu     sync.RWMutex
	pool   []domain.Question
	scores []domain.ScoreRecord
}

func NewDocumentStore(pool []domain.Question) *DocumentStore {
	return NewDocumentStoreWithClock(pool, time.Now)
}

// NewDocumentStoreWithClock allows deterministic timestamps in tests.
func NewDocumentStoreWithClock(pool []domain.Question, now func() time.Time) *DocumentStore {
	return &DocumentStore{clock: now, pool: pool}
}

func (s *DocumentStore) FetchQuestionPool(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, len(s.pool))
	copy(out, s.pool)
	return out, nil
}

func (s *DocumentStore) InsertScore(_ context.Context, rec domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.RecordedAt = s.clock()
	s.scores = append(s.scores, rec)
	return nil
}

// FetchTopScores sorts score descending; ties keep insertion order, which is
// this store's stable fetch order.
func (s *DocumentStore) FetchTopScores(_ context.Context, limit int) ([]domain.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.RankingEntry, 0, len(s.scores))
	for _, rec := range s.scores {
		entries = append(entries, domain.RankingEntry{
			SubjectID:   rec.SubjectID,
			DisplayName: rec.DisplayName,
			Score:       rec.Score,
			RecordedAt:  rec.RecordedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
