package domain

// Question models a multiple-choice question with exactly one correct option.
type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
	Correct int      `json:"correct" yaml:"correct"` // 0-based index into Options
	Level   int      `json:"level" yaml:"level"`
	Image   string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// Achievement is an unlockable badge. Unlocked only ever flips to true within a run.
type Achievement struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Unlocked    bool   `json:"unlocked" yaml:"-"`
}

// Bank is a question set together with the achievements a run can unlock.
type Bank struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Questions    []Question    `json:"questions" yaml:"questions"`
	Achievements []Achievement `json:"achievements" yaml:"achievements"`
}

// Clone returns a deep copy so callers can never mutate a shared bank.
func (b Bank) Clone() Bank {
	out := b
	out.Questions = make([]Question, len(b.Questions))
	for i, q := range b.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	out.Achievements = append([]Achievement(nil), b.Achievements...)
	return out
}

// State is a point-in-time copy of a run.
type State struct {
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	Score                int           `json:"score"`
	SelectedAnswer       *int          `json:"selectedAnswer,omitempty"`
	AnsweredQuestionIDs  []int         `json:"answeredQuestionIds"`
	Achievements         []Achievement `json:"achievements"`
}

// AnswerResult summarizes the outcome of a single submission.
type AnswerResult struct {
	QuestionID int      `json:"questionId"`
	Choice     int      `json:"choice"`
	Correct    bool     `json:"correct"`
	Expected   int      `json:"expected"`
	Unlocked   []string `json:"unlocked,omitempty"` // achievement IDs unlocked by this submission
}

// OptionStatus is how an option should be shown once the question is answered.
type OptionStatus string

const (
	OptionIdle    OptionStatus = "idle"
	OptionCorrect OptionStatus = "correct"
	OptionWrong   OptionStatus = "wrong"
)

// Feedback describes an answered question for display.
type Feedback struct {
	Correct       bool           `json:"correct"`
	CorrectOption string         `json:"correctOption"`
	Options       []OptionStatus `json:"options"`
}

// Tier grades a finished run.
type Tier string

const (
	TierPerfect       Tier = "perfect"
	TierGood          Tier = "good"
	TierNeedsPractice Tier = "needs-practice"
)

// Stats are display values derived from a run. They are never stored.
type Stats struct {
	Answered             int     `json:"answered"`
	Total                int     `json:"total"`
	Score                int     `json:"score"`
	ProgressPercent      float64 `json:"progressPercent"`
	AccuracyPercent      float64 `json:"accuracyPercent"`
	CurrentLevel         int     `json:"currentLevel"`
	LevelPercent         float64 `json:"levelPercent"`
	UnlockedAchievements int     `json:"unlockedAchievements"`
	TotalAchievements    int     `json:"totalAchievements"`
	Complete             bool    `json:"complete"`
	Tier                 Tier    `json:"tier,omitempty"` // set only when Complete
}
