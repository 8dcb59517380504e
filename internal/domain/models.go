package domain

import "time"

// Session-wide constants. The fixed labels match the language the quiz
// content is authored in.
const (
	// SessionSize is how many questions one play-through draws from the pool.
	SessionSize = 10
	// PointsPerCorrect converts a correct-answer count into a score.
	PointsPerCorrect = 10
	// MaxDisplayNameLen caps nicknames, counted in runes.
	MaxDisplayNameLen = 15
	// RankingLimit is the fixed size of the leaderboard projection.
	RankingLimit = 10
	// DefaultNamePrefix labels players who skipped nickname entry.
	DefaultNamePrefix = "匿名ユーザー "
	// NoExplanation is shown when a question carries no explanation text.
	NoExplanation = "解説が登録されていません。"
)

// Question is one multiple-choice entry from the externally authored pool.
// Content is read-only to this system; Answer must equal one of Options.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// Valid reports whether the question satisfies the authoring contract:
// at least two options and the answer present among them.
func (q Question) Valid() bool {
	if len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// Player is an anonymous visitor: an opaque subject id from the identity
// provider plus an optional nickname.
type Player struct {
	SubjectID   string `json:"subjectId"`
	DisplayName string `json:"displayName,omitempty"`
}

// ScoreRecord is the persisted outcome of one completed session. It is
// written exactly once and never updated; RecordedAt is assigned by the
// store at insert time.
type ScoreRecord struct {
	SubjectID   string    `json:"anonymousUid"`
	DisplayName string    `json:"userName,omitempty"`
	Score       int       `json:"score"`
	RecordedAt  time.Time `json:"timestamp"`
}

// RankingEntry is the read projection of a ScoreRecord used by the
// leaderboard, ordered by score descending by the store.
type RankingEntry struct {
	SubjectID   string    `json:"anonymousUid"`
	DisplayName string    `json:"userName,omitempty"`
	Score       int       `json:"score"`
	RecordedAt  time.Time `json:"timestamp"`
}
