package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/shuffle"
)

// Backend is the slice of the backend gateway the controller drives. All I/O
// for a session goes through it, one call at a time.
type Backend interface {
	Authenticate(ctx context.Context) (string, error)
	QuestionPool(ctx context.Context) ([]domain.Question, error)
	SubmitScore(ctx context.Context, rec domain.ScoreRecord) error
	TopScores(ctx context.Context, limit int) ([]domain.RankingEntry, error)
}

// NameCache persists the last-used display name across sessions.
// Single key, last-write-wins.
type NameCache interface {
	Load() (string, error)
	Store(name string) error
}

// Phase is the current stage of a quiz session.
type Phase int

const (
	PhaseNamingPlayer Phase = iota
	PhaseAwaitingAnswer
	PhaseShowingFeedback
	PhaseFinished
	PhaseShowingRanking
)

func (p Phase) String() string {
	switch p {
	case PhaseNamingPlayer:
		return "namingPlayer"
	case PhaseAwaitingAnswer:
		return "awaitingAnswer"
	case PhaseShowingFeedback:
		return "showingFeedback"
	case PhaseFinished:
		return "finished"
	case PhaseShowingRanking:
		return "showingRanking"
	}
	return "unknown"
}

// Feedback is what the player sees after answering one question.
type Feedback struct {
	Correct     bool
	Answer      string
	Explanation string
}

// Controller owns the state of one quiz session and is the only place that
// mutates it. Transitions happen through the named intent methods; the
// rendering layer reads snapshots via View.
type Controller struct {
	backend Backend
	names   NameCache
	rnd     *rand.Rand
	size    int

	mu             sync.Mutex
	player         domain.Player
	questions      []domain.Question
	options        [][]string // per-question option order, shuffled once at start
	index          int
	correct        int
	phase          Phase
	feedback       *Feedback
	scoreSubmitted bool
	submitErr      error
	ranking        []domain.RankingEntry
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand injects a deterministic randomness source for tests.
func WithRand(rnd *rand.Rand) Option {
	return func(c *Controller) { c.rnd = rnd }
}

// WithSessionSize overrides how many questions a session draws from the pool.
func WithSessionSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.size = n
		}
	}
}

func NewController(backend Backend, names NameCache, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		names:   names,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		size:    domain.SessionSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start authenticates the visitor anonymously and enters the naming phase
// with any cached display name prefilled. An auth failure is fatal to the
// session; the caller surfaces it and closes.
func (c *Controller) Start(ctx context.Context) error {
	uid, err := c.backend.Authenticate(ctx)
	if err != nil {
		return err
	}

	cached, err := c.names.Load()
	if err != nil {
		// A broken cache only costs the prefill.
		cached = ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = domain.Player{SubjectID: uid, DisplayName: cached}
	c.questions = nil
	c.options = nil
	c.index = 0
	c.correct = 0
	c.feedback = nil
	c.scoreSubmitted = false
	c.submitErr = nil
	c.ranking = nil
	c.phase = PhaseNamingPlayer
	return nil
}

// SubmitName fixes the player's nickname, persists it, loads the question
// pool and starts the quiz. An empty name after trimming falls back to a
// generated default derived from the subject id. A failed pool fetch leaves
// the session in the naming phase so the intent can be re-sent; an empty
// pool is terminal.
func (c *Controller) SubmitName(ctx context.Context, raw string) error {
	c.mu.Lock()
	if c.phase != PhaseNamingPlayer {
		c.mu.Unlock()
		return domain.ErrBadIntent
	}
	name := strings.TrimSpace(raw)
	if runes := []rune(name); len(runes) > domain.MaxDisplayNameLen {
		name = string(runes[:domain.MaxDisplayNameLen])
	}
	if name == "" {
		name = domain.DefaultNamePrefix + runePrefix(c.player.SubjectID, 4)
	}
	c.player.DisplayName = name
	c.mu.Unlock()

	// Best effort: losing the cache only loses the prefill next time.
	_ = c.names.Store(name)

	pool, err := c.backend.QuestionPool(ctx)
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		return domain.ErrDataUnavailable
	}

	picked := shuffle.Pick(c.rnd, pool, c.size)
	optionOrder := make([][]string, len(picked))
	for i, q := range picked {
		optionOrder[i] = shuffle.Slice(c.rnd, q.Options)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions = picked
	c.options = optionOrder
	c.index = 0
	c.correct = 0
	c.feedback = nil
	c.phase = PhaseAwaitingAnswer
	return nil
}

// SelectOption checks the chosen option against the current question. The
// comparison is exact and case-sensitive. A repeated dispatch while feedback
// is showing returns the recorded feedback and changes nothing, so a slow or
// misbehaving client cannot answer the same question twice.
func (c *Controller) SelectOption(choice string) (Feedback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseShowingFeedback:
		return *c.feedback, nil
	case PhaseAwaitingAnswer:
	default:
		return Feedback{}, domain.ErrBadIntent
	}

	q := c.questions[c.index]
	fb := Feedback{
		Correct:     choice == q.Answer,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
	if fb.Explanation == "" {
		fb.Explanation = domain.NoExplanation
	}
	if fb.Correct {
		c.correct++
	}
	c.feedback = &fb
	c.phase = PhaseShowingFeedback
	return fb, nil
}

// Advance moves past the feedback view: either to the next question or, after
// the last one, into the finished phase where the score record is submitted.
// The submission happens exactly once per session and is never retried; a
// write failure is recorded and surfaced but does not block the ranking.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseShowingFeedback {
		c.mu.Unlock()
		return domain.ErrBadIntent
	}
	c.index++
	c.feedback = nil
	if c.index < len(c.questions) {
		c.phase = PhaseAwaitingAnswer
		c.mu.Unlock()
		return nil
	}

	c.phase = PhaseFinished
	rec := domain.ScoreRecord{
		SubjectID:   c.player.SubjectID,
		DisplayName: c.player.DisplayName,
		Score:       c.correct * domain.PointsPerCorrect,
		// RecordedAt is assigned by the store at insert time.
	}
	c.mu.Unlock()

	err := c.backend.SubmitScore(ctx, rec)

	c.mu.Lock()
	c.scoreSubmitted = err == nil
	c.submitErr = err
	c.mu.Unlock()
	return err
}

// Ranking fetches the top-10 leaderboard and enters the ranking view. On a
// fetch failure the phase is unchanged and the intent can be re-sent.
func (c *Controller) Ranking(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseFinished && c.phase != PhaseShowingRanking {
		c.mu.Unlock()
		return domain.ErrBadIntent
	}
	c.mu.Unlock()

	entries, err := c.backend.TopScores(ctx, domain.RankingLimit)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranking = entries
	c.phase = PhaseShowingRanking
	return nil
}

// Restart throws the whole session away and runs the start sequence again,
// including a fresh anonymous sign-in, the same as reloading the page.
func (c *Controller) Restart(ctx context.Context) error {
	return c.Start(ctx)
}

// CorrectCount reports the running number of correct answers.
func (c *Controller) CorrectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.correct
}

// Phase reports the session's current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n])
}
