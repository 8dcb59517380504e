// Package postgres implements the document store on Postgres. Question
// content lives as JSONB rows in the shape it is authored in; scores get
// real columns so the leaderboard read can order and limit in SQL.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"solo-quiz-service/internal/domain"
)

type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

type questionPayload struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

func (s *DocumentStore) FetchQuestionPool(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, data FROM quizzes`)
	if err != nil {
		return nil, fmt.Errorf("select quizzes: %w", err)
	}
	defer rows.Close()

	var pool []domain.Question
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan quiz row: %w", err)
		}
		var payload questionPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal quiz %s: %w", id, err)
		}
		q := domain.Question{
			ID:          id,
			Prompt:      payload.Question,
			Options:     payload.Options,
			Answer:      payload.Answer,
			Explanation: payload.Explanation,
		}
		if !q.Valid() {
			slog.Warn("skipping malformed quiz row", "id", id)
			continue
		}
		pool = append(pool, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quizzes: %w", err)
	}
	return pool, nil
}

// InsertScore stores the record; recorded_at is assigned by the database.
func (s *DocumentStore) InsertScore(ctx context.Context, rec domain.ScoreRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (anonymous_uid, user_name, score) VALUES ($1, NULLIF($2, ''), $3)`,
		rec.SubjectID, rec.DisplayName, rec.Score,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *DocumentStore) FetchTopScores(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT anonymous_uid, COALESCE(user_name, ''), score, recorded_at
		 FROM scores ORDER BY score DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select scores: %w", err)
	}
	defer rows.Close()

	var entries []domain.RankingEntry
	for rows.Next() {
		var (
			entry      domain.RankingEntry
			recordedAt time.Time
		)
		if err := rows.Scan(&entry.SubjectID, &entry.DisplayName, &entry.Score, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		entry.RecordedAt = recordedAt
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return entries, nil
}
