package app

import (
	"fmt"

	"traffic-quiz/internal/domain"
)

// Engine runs one pass over a question bank: it tracks the current question,
// the score, answered questions and achievement flags.
//
// An Engine belongs to a single session and is not safe for concurrent use.
type Engine struct {
	title     string
	questions []domain.Question
	rules     map[string]Rule

	index        int
	score        int
	selected     *int
	answered     []int
	achievements []domain.Achievement
}

// Option customizes engine construction.
type Option func(*engineOptions)

type engineOptions struct {
	ruleConfig RuleConfig
	rules      map[string]Rule
}

// WithRuleConfig tunes the built-in unlock rules.
func WithRuleConfig(cfg RuleConfig) Option {
	return func(o *engineOptions) {
		o.ruleConfig = cfg
	}
}

// WithRules adds unlock rules or replaces built-in ones with the same achievement ID.
func WithRules(rules map[string]Rule) Option {
	return func(o *engineOptions) {
		for id, rule := range rules {
			o.rules[id] = rule
		}
	}
}

// NewEngine validates bank and returns an engine positioned on its first question.
func NewEngine(bank domain.Bank, opts ...Option) (*Engine, error) {
	o := &engineOptions{rules: make(map[string]Rule)}
	for _, opt := range opts {
		opt(o)
	}
	rules := DefaultRules(o.ruleConfig)
	for id, rule := range o.rules {
		rules[id] = rule
	}

	if err := ValidateBank(bank, rules); err != nil {
		return nil, err
	}

	questions := make([]domain.Question, len(bank.Questions))
	for i, q := range bank.Questions {
		q.Options = append([]string(nil), q.Options...)
		questions[i] = q
	}
	achievements := make([]domain.Achievement, len(bank.Achievements))
	for i, a := range bank.Achievements {
		a.Unlocked = false
		achievements[i] = a
	}

	return &Engine{
		title:        bank.Title,
		questions:    questions,
		rules:        rules,
		answered:     make([]int, 0, len(questions)),
		achievements: achievements,
	}, nil
}

// ValidateBank checks that bank can drive a run with the given unlock rules.
func ValidateBank(bank domain.Bank, rules map[string]Rule) error {
	if len(bank.Questions) == 0 {
		return fmt.Errorf("%w: no questions", domain.ErrInvalidBank)
	}
	seenQuestions := make(map[int]struct{}, len(bank.Questions))
	for i, q := range bank.Questions {
		if _, dup := seenQuestions[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", domain.ErrInvalidBank, q.ID)
		}
		seenQuestions[q.ID] = struct{}{}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d (position %d) has no options", domain.ErrInvalidBank, q.ID, i)
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct option %d outside %d options", domain.ErrInvalidBank, q.ID, q.Correct, len(q.Options))
		}
		if q.Level < 1 {
			return fmt.Errorf("%w: question %d has level %d", domain.ErrInvalidBank, q.ID, q.Level)
		}
	}

	seenAchievements := make(map[string]struct{}, len(bank.Achievements))
	for _, a := range bank.Achievements {
		if a.ID == "" {
			return fmt.Errorf("%w: achievement without id", domain.ErrInvalidBank)
		}
		if _, dup := seenAchievements[a.ID]; dup {
			return fmt.Errorf("%w: duplicate achievement id %q", domain.ErrInvalidBank, a.ID)
		}
		seenAchievements[a.ID] = struct{}{}
		if _, ok := rules[a.ID]; !ok {
			return fmt.Errorf("%w: no unlock rule for achievement %q", domain.ErrInvalidBank, a.ID)
		}
	}
	return nil
}

// Title is the bank title the engine was built from.
func (e *Engine) Title() string {
	return e.title
}

// Total is the number of questions in a run.
func (e *Engine) Total() int {
	return len(e.questions)
}

// Questions returns a copy of the question set in presentation order.
func (e *Engine) Questions() []domain.Question {
	out := make([]domain.Question, len(e.questions))
	for i, q := range e.questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Current returns the question at the current index.
func (e *Engine) Current() domain.Question {
	q := e.questions[e.index]
	q.Options = append([]string(nil), q.Options...)
	return q
}

// IsLast reports whether the current question is the final one.
func (e *Engine) IsLast() bool {
	return e.index == len(e.questions)-1
}

// IsComplete reports whether every question has been answered in this run.
func (e *Engine) IsComplete() bool {
	return len(e.answered) == len(e.questions)
}

// SubmitAnswer records choice for the current question. A rejected submission leaves the run untouched.
func (e *Engine) SubmitAnswer(choice int) (domain.AnswerResult, error) {
	if e.selected != nil {
		return domain.AnswerResult{}, domain.ErrAlreadyAnswered
	}
	q := e.questions[e.index]
	if choice < 0 || choice >= len(q.Options) {
		return domain.AnswerResult{}, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrChoiceOutOfRange, choice, len(q.Options))
	}

	answeredBefore := len(e.answered)
	selected := choice
	e.selected = &selected
	correct := choice == q.Correct
	if correct {
		e.score++
	}
	e.answered = append(e.answered, q.ID)

	result := domain.AnswerResult{
		QuestionID: q.ID,
		Choice:     choice,
		Correct:    correct,
		Expected:   q.Correct,
	}
	if correct {
		result.Unlocked = e.evaluateRules(Progress{
			QuestionID:     q.ID,
			Score:          e.score,
			AnsweredBefore: answeredBefore,
			Answered:       len(e.answered),
			Total:          len(e.questions),
		})
	}
	return result, nil
}

// evaluateRules unlocks every still-locked achievement whose rule fires and returns their IDs.
func (e *Engine) evaluateRules(p Progress) []string {
	var unlocked []string
	for i := range e.achievements {
		a := &e.achievements[i]
		if a.Unlocked {
			continue
		}
		if rule, ok := e.rules[a.ID]; ok && rule(p) {
			a.Unlocked = true
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}

// Next moves to the following question. On the last question it does nothing;
// completion is read from IsComplete.
func (e *Engine) Next() error {
	if e.selected == nil {
		return domain.ErrNotAnswered
	}
	if e.IsLast() {
		return nil
	}
	e.index++
	e.selected = nil
	return nil
}

// Restart resets the run, including every achievement.
func (e *Engine) Restart() {
	e.index = 0
	e.score = 0
	e.selected = nil
	e.answered = e.answered[:0]
	for i := range e.achievements {
		e.achievements[i].Unlocked = false
	}
}

// State returns a deep copy of the run.
func (e *Engine) State() domain.State {
	st := domain.State{
		CurrentQuestionIndex: e.index,
		Score:                e.score,
		AnsweredQuestionIDs:  append([]int{}, e.answered...),
		Achievements:         append([]domain.Achievement{}, e.achievements...),
	}
	if e.selected != nil {
		selected := *e.selected
		st.SelectedAnswer = &selected
	}
	return st
}

// Feedback describes the current question once it has been answered.
func (e *Engine) Feedback() (domain.Feedback, bool) {
	if e.selected == nil {
		return domain.Feedback{}, false
	}
	q := e.questions[e.index]
	statuses := make([]domain.OptionStatus, len(q.Options))
	for i := range q.Options {
		switch {
		case i == q.Correct:
			statuses[i] = domain.OptionCorrect
		case i == *e.selected:
			statuses[i] = domain.OptionWrong
		default:
			statuses[i] = domain.OptionIdle
		}
	}
	return domain.Feedback{
		Correct:       *e.selected == q.Correct,
		CorrectOption: q.Options[q.Correct],
		Options:       statuses,
	}, true
}
