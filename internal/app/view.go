package app

import (
	"solo-quiz-service/internal/domain"
)

// View is a render-ready snapshot of the session. It carries everything the
// rendering surface needs and nothing it should compute itself.
type View struct {
	Phase          string        `json:"phase"`
	PlayerName     string        `json:"playerName"`
	QuestionNumber int           `json:"questionNumber,omitempty"` // 1-based
	TotalQuestions int           `json:"totalQuestions,omitempty"`
	Prompt         string        `json:"prompt,omitempty"`
	Options        []string      `json:"options,omitempty"`
	CorrectCount   int           `json:"correctCount"`
	Feedback       *FeedbackView `json:"feedback,omitempty"`
	FinalScore     int           `json:"finalScore,omitempty"`
	ScoreSubmitted bool          `json:"scoreSubmitted,omitempty"`
	SubmitError    string        `json:"submitError,omitempty"`
	Ranking        []RankingRow  `json:"ranking,omitempty"`
}

// FeedbackView mirrors Feedback for the wire. Answer and Explanation are only
// filled for incorrect answers, matching what the player gets shown.
type FeedbackView struct {
	Correct     bool   `json:"correct"`
	Answer      string `json:"answer,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// RankingRow is one leaderboard line: rank is 1-based and contiguous, the
// label is the display name or a redacted subject-id prefix.
type RankingRow struct {
	Rank  int    `json:"rank"`
	Score int    `json:"score"`
	Label string `json:"label"`
}

// View renders the current state. Pure read: no transition happens here.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Phase:        c.phase.String(),
		PlayerName:   c.player.DisplayName,
		CorrectCount: c.correct,
	}

	switch c.phase {
	case PhaseAwaitingAnswer, PhaseShowingFeedback:
		q := c.questions[c.index]
		v.QuestionNumber = c.index + 1
		v.TotalQuestions = len(c.questions)
		v.Prompt = q.Prompt
		v.Options = c.options[c.index]
		if c.phase == PhaseShowingFeedback {
			fb := &FeedbackView{Correct: c.feedback.Correct}
			if !fb.Correct {
				fb.Answer = c.feedback.Answer
				fb.Explanation = c.feedback.Explanation
			}
			v.Feedback = fb
		}
	case PhaseFinished:
		v.TotalQuestions = len(c.questions)
		v.FinalScore = c.correct * domain.PointsPerCorrect
		v.ScoreSubmitted = c.scoreSubmitted
		if c.submitErr != nil {
			v.SubmitError = c.submitErr.Error()
		}
	case PhaseShowingRanking:
		v.FinalScore = c.correct * domain.PointsPerCorrect
		v.Ranking = make([]RankingRow, 0, len(c.ranking))
		for i, entry := range c.ranking {
			v.Ranking = append(v.Ranking, RankingRow{
				Rank:  i + 1,
				Score: entry.Score,
				Label: rankingLabel(entry),
			})
		}
	}
	return v
}

// rankingLabel prefers the stored nickname and falls back to a redacted
// subject-id prefix for nameless records.
func rankingLabel(entry domain.RankingEntry) string {
	if entry.DisplayName != "" {
		return entry.DisplayName
	}
	return runePrefix(entry.SubjectID, 8) + "..."
}
