// Package mongo implements the document store against MongoDB, with the
// collection layout the quiz content is authored in: a "quizzes" collection
// read whole and unordered, and an insert-only "scores" collection read back
// sorted by score for the leaderboard.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"solo-quiz-service/internal/domain"
)

type DocumentStore struct {
	quizzes *mongo.Collection
	scores  *mongo.Collection
	clock   func() time.Time
}

func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{
		quizzes: db.Collection("quizzes"),
		scores:  db.Collection("scores"),
		clock:   time.Now,
	}
}

type questionDoc struct {
	ID          string   `bson:"_id,omitempty"`
	Question    string   `bson:"question"`
	Options     []string `bson:"options"`
	Answer      string   `bson:"answer"`
	Explanation string   `bson:"explanation,omitempty"`
}

type scoreDoc struct {
	AnonymousUID string    `bson:"anonymousUid"`
	UserName     string    `bson:"userName,omitempty"`
	Score        int       `bson:"score"`
	Timestamp    time.Time `bson:"timestamp"`
}

func (s *DocumentStore) FetchQuestionPool(ctx context.Context) ([]domain.Question, error) {
	cur, err := s.quizzes.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find quizzes: %w", err)
	}
	defer cur.Close(ctx)

	var pool []domain.Question
	for cur.Next(ctx) {
		var doc questionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode quiz: %w", err)
		}
		q := domain.Question{
			ID:          doc.ID,
			Prompt:      doc.Question,
			Options:     doc.Options,
			Answer:      doc.Answer,
			Explanation: doc.Explanation,
		}
		if !q.Valid() {
			slog.Warn("skipping malformed quiz document", "id", doc.ID)
			continue
		}
		pool = append(pool, q)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate quizzes: %w", err)
	}
	return pool, nil
}

func (s *DocumentStore) InsertScore(ctx context.Context, rec domain.ScoreRecord) error {
	_, err := s.scores.InsertOne(ctx, scoreDoc{
		AnonymousUID: rec.SubjectID,
		UserName:     rec.DisplayName,
		Score:        rec.Score,
		Timestamp:    s.clock(),
	})
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *DocumentStore) FetchTopScores(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.scores.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find scores: %w", err)
	}
	defer cur.Close(ctx)

	var entries []domain.RankingEntry
	for cur.Next(ctx) {
		var doc scoreDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		entries = append(entries, domain.RankingEntry{
			SubjectID:   doc.AnonymousUID,
			DisplayName: doc.UserName,
			Score:       doc.Score,
			RecordedAt:  doc.Timestamp,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return entries, nil
}
