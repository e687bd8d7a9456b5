package app_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"traffic-quiz/internal/app"
	"traffic-quiz/internal/content"
	"traffic-quiz/internal/domain"
)

func TestTrafficLightQuestionFirstUnlocksTwoAchievements(t *testing.T) {
	engine := newTrafficEngine(t)

	result, err := engine.SubmitAnswer(2) // "Green"
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Correct || result.QuestionID != 1 {
		t.Fatalf("expected correct answer to question 1, got %+v", result)
	}
	want := []string{app.AchievementFirstStep, app.AchievementTrafficLightExpert}
	if !slices.Equal(result.Unlocked, want) {
		t.Fatalf("expected %v unlocked, got %v", want, result.Unlocked)
	}
	if got := unlockedIDs(engine); !slices.Equal(got, want) {
		t.Fatalf("state unlocked %v, want %v", got, want)
	}
	if stats := app.Project(engine); stats.ProgressPercent != 20 {
		t.Fatalf("expected 20%% progress, got %v", stats.ProgressPercent)
	}
}

func TestPerfectRun(t *testing.T) {
	engine := newTrafficEngine(t)

	for i := 0; i < engine.Total(); i++ {
		result := answerCorrectly(t, engine)
		last := i == engine.Total()-1
		topStudent := slices.Contains(result.Unlocked, app.AchievementTopStudent)
		master := slices.Contains(result.Unlocked, app.AchievementRulesMaster)
		if topStudent != last || master != last {
			t.Fatalf("question %d: unexpected unlocks %v", i+1, result.Unlocked)
		}
		if err := engine.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	if !engine.IsComplete() {
		t.Fatalf("expected run complete")
	}
	stats := app.Project(engine)
	if stats.Tier != domain.TierPerfect {
		t.Fatalf("expected perfect tier, got %q", stats.Tier)
	}
	if stats.UnlockedAchievements != 4 || stats.AccuracyPercent != 100 || stats.ProgressPercent != 100 {
		t.Fatalf("unexpected final stats %+v", stats)
	}
	if stats.CurrentLevel != 2 || stats.LevelPercent != 100 {
		t.Fatalf("expected level 2 at 100%%, got %d at %v", stats.CurrentLevel, stats.LevelPercent)
	}
}

func TestNextOnLastQuestionIsNoop(t *testing.T) {
	engine := newTrafficEngine(t)
	for i := 0; i < engine.Total(); i++ {
		answerCorrectly(t, engine)
		if err := engine.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	before := engine.State()
	if err := engine.Next(); err != nil {
		t.Fatalf("next on last question: %v", err)
	}
	after := engine.State()
	if after.CurrentQuestionIndex != engine.Total()-1 || before.CurrentQuestionIndex != after.CurrentQuestionIndex {
		t.Fatalf("index moved past the end: %d -> %d", before.CurrentQuestionIndex, after.CurrentQuestionIndex)
	}
	if after.SelectedAnswer == nil {
		t.Fatalf("selected answer cleared on last question")
	}
}

func TestFinalTiers(t *testing.T) {
	cases := []struct {
		name    string
		correct int
		want    domain.Tier
	}{
		{"perfect", 5, domain.TierPerfect},
		{"eighty percent is good", 4, domain.TierGood},
		{"sixty percent needs practice", 3, domain.TierNeedsPractice},
		{"zero", 0, domain.TierNeedsPractice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTrafficEngine(t)
			for i := 0; i < engine.Total(); i++ {
				q := engine.Current()
				choice := q.Correct
				if i >= tc.correct {
					choice = (q.Correct + 1) % len(q.Options)
				}
				if _, err := engine.SubmitAnswer(choice); err != nil {
					t.Fatalf("submit: %v", err)
				}
				_ = engine.Next()
			}
			stats := app.Project(engine)
			if stats.Score != tc.correct || stats.Tier != tc.want {
				t.Fatalf("score %d tier %q, want %d %q", stats.Score, stats.Tier, tc.correct, tc.want)
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		score, total int
		want         domain.Tier
	}{
		{10, 10, domain.TierPerfect},
		{7, 10, domain.TierGood},
		{6, 10, domain.TierNeedsPractice},
		{3, 5, domain.TierNeedsPractice},
		{4, 5, domain.TierGood},
		{7, 9, domain.TierGood},
	}
	for _, tc := range cases {
		if got := app.TierFor(tc.score, tc.total); got != tc.want {
			t.Fatalf("TierFor(%d, %d) = %q, want %q", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestSubmitTwiceIsRejected(t *testing.T) {
	engine := newTrafficEngine(t)
	answerCorrectly(t, engine)
	before := engine.State()

	_, err := engine.SubmitAnswer(0)
	if !errors.Is(err, domain.ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
	after := engine.State()
	if after.Score != before.Score || !slices.Equal(after.AnsweredQuestionIDs, before.AnsweredQuestionIDs) {
		t.Fatalf("state changed by rejected submit: %+v -> %+v", before, after)
	}
	if *after.SelectedAnswer != *before.SelectedAnswer {
		t.Fatalf("selected answer overwritten: %d -> %d", *before.SelectedAnswer, *after.SelectedAnswer)
	}
}

func TestNextRequiresAnswer(t *testing.T) {
	engine := newTrafficEngine(t)

	if err := engine.Next(); !errors.Is(err, domain.ErrNotAnswered) {
		t.Fatalf("expected ErrNotAnswered, got %v", err)
	}
	if st := engine.State(); st.CurrentQuestionIndex != 0 {
		t.Fatalf("index advanced without an answer: %d", st.CurrentQuestionIndex)
	}
}

func TestChoiceOutOfRange(t *testing.T) {
	engine := newTrafficEngine(t)

	for _, choice := range []int{-1, 4, 100} {
		if _, err := engine.SubmitAnswer(choice); !errors.Is(err, domain.ErrChoiceOutOfRange) {
			t.Fatalf("choice %d: expected ErrChoiceOutOfRange, got %v", choice, err)
		}
	}
	st := engine.State()
	if st.SelectedAnswer != nil || len(st.AnsweredQuestionIDs) != 0 {
		t.Fatalf("rejected choice changed state: %+v", st)
	}
}

func TestRestartResetsEverything(t *testing.T) {
	engine := newTrafficEngine(t)
	for i := 0; i < 3; i++ {
		answerCorrectly(t, engine)
		if err := engine.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	answerCorrectly(t, engine)

	engine.Restart()

	st := engine.State()
	if st.CurrentQuestionIndex != 0 || st.Score != 0 || st.SelectedAnswer != nil || len(st.AnsweredQuestionIDs) != 0 {
		t.Fatalf("restart left state behind: %+v", st)
	}
	if got := unlockedIDs(engine); len(got) != 0 {
		t.Fatalf("restart left achievements unlocked: %v", got)
	}

	// A fresh run unlocks again.
	result := answerCorrectly(t, engine)
	if !slices.Contains(result.Unlocked, app.AchievementFirstStep) {
		t.Fatalf("expected first-step after restart, got %v", result.Unlocked)
	}
}

func TestFirstStepNeedsCorrectFirstAnswer(t *testing.T) {
	engine := newTrafficEngine(t)

	result, err := engine.SubmitAnswer(0) // wrong
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct || len(result.Unlocked) != 0 {
		t.Fatalf("wrong answer unlocked %v", result.Unlocked)
	}
	if err := engine.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	result = answerCorrectly(t, engine)
	if len(result.Unlocked) != 0 {
		t.Fatalf("second answer must not unlock first-step, got %v", result.Unlocked)
	}
}

func TestInvariantsHoldForRandomPlay(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	engine := newTrafficEngine(t)

	for round := 0; round < 500; round++ {
		prev := engine.State()

		switch op := rnd.Intn(10); {
		case op < 6:
			_, _ = engine.SubmitAnswer(rnd.Intn(5) - 1)
		case op < 9:
			_ = engine.Next()
		default:
			engine.Restart()
			prev = engine.State()
		}

		st := engine.State()
		if st.Score > len(st.AnsweredQuestionIDs) {
			t.Fatalf("round %d: score %d exceeds answered %d", round, st.Score, len(st.AnsweredQuestionIDs))
		}
		if len(st.AnsweredQuestionIDs) < len(prev.AnsweredQuestionIDs) || len(st.AnsweredQuestionIDs) > engine.Total() {
			t.Fatalf("round %d: answered count %d out of bounds", round, len(st.AnsweredQuestionIDs))
		}
		current := engine.Current().ID
		if (st.SelectedAnswer != nil) != slices.Contains(st.AnsweredQuestionIDs, current) {
			t.Fatalf("round %d: selected=%v but answered=%v for question %d", round, st.SelectedAnswer, st.AnsweredQuestionIDs, current)
		}
		for i, a := range prev.Achievements {
			if a.Unlocked && !st.Achievements[i].Unlocked {
				t.Fatalf("round %d: achievement %q re-locked without restart", round, a.ID)
			}
		}
	}
}

func TestStatsBeforeAnyAnswer(t *testing.T) {
	stats := app.Project(newTrafficEngine(t))

	if stats.AccuracyPercent != 0 || stats.ProgressPercent != 0 {
		t.Fatalf("expected zero percentages, got %+v", stats)
	}
	if stats.CurrentLevel != 1 {
		t.Fatalf("expected default level 1, got %d", stats.CurrentLevel)
	}
	if stats.Complete || stats.Tier != "" {
		t.Fatalf("tier must be empty before completion, got %q", stats.Tier)
	}
	if stats.TotalAchievements != 4 || stats.UnlockedAchievements != 0 {
		t.Fatalf("unexpected achievement counts %+v", stats)
	}
}

func TestAccuracyAndLevelMidRun(t *testing.T) {
	engine := newTrafficEngine(t)
	answers := []int{2, 0, 1, 2} // correct, wrong, correct, correct (level 2)
	for _, choice := range answers {
		if _, err := engine.SubmitAnswer(choice); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if err := engine.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	stats := app.Project(engine)
	if stats.Answered != 4 || stats.Score != 3 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.AccuracyPercent != 75 || stats.ProgressPercent != 80 {
		t.Fatalf("unexpected percentages %+v", stats)
	}
	if stats.CurrentLevel != 2 {
		t.Fatalf("expected level 2, got %d", stats.CurrentLevel)
	}
}

func TestFeedback(t *testing.T) {
	engine := newTrafficEngine(t)
	if _, ok := engine.Feedback(); ok {
		t.Fatalf("feedback before answering")
	}

	if _, err := engine.SubmitAnswer(0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	fb, ok := engine.Feedback()
	if !ok {
		t.Fatalf("expected feedback")
	}
	want := []domain.OptionStatus{domain.OptionWrong, domain.OptionIdle, domain.OptionCorrect, domain.OptionIdle}
	if fb.Correct || fb.CorrectOption != "Green" || !slices.Equal(fb.Options, want) {
		t.Fatalf("unexpected feedback %+v", fb)
	}
}

func TestStateIsACopy(t *testing.T) {
	engine := newTrafficEngine(t)
	answerCorrectly(t, engine)

	st := engine.State()
	st.AnsweredQuestionIDs[0] = 99
	st.Achievements[0].Unlocked = false
	*st.SelectedAnswer = 3
	q := engine.Current()
	q.Options[0] = "changed"

	again := engine.State()
	if again.AnsweredQuestionIDs[0] != 1 || !again.Achievements[0].Unlocked || *again.SelectedAnswer != 2 {
		t.Fatalf("snapshot mutation leaked into engine: %+v", again)
	}
	if engine.Current().Options[0] != "Red" {
		t.Fatalf("question mutation leaked into engine")
	}
}

func TestRuleConfigAndCustomRules(t *testing.T) {
	bank := content.TrafficSafety()
	bank.Achievements = append(bank.Achievements, domain.Achievement{ID: "level-two", Title: "Level two"})

	levels := map[int]int{}
	for _, q := range bank.Questions {
		levels[q.ID] = q.Level
	}
	engine, err := app.NewEngine(bank,
		app.WithRuleConfig(app.RuleConfig{TrafficLightQuestionID: 3, TopStudentScore: 2}),
		app.WithRules(map[string]app.Rule{
			"level-two": func(p app.Progress) bool { return levels[p.QuestionID] >= 2 },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	r1 := answerCorrectly(t, engine)
	if slices.Contains(r1.Unlocked, app.AchievementTrafficLightExpert) {
		t.Fatalf("traffic-light badge moved to question 3, got %v on question 1", r1.Unlocked)
	}
	_ = engine.Next()
	r2 := answerCorrectly(t, engine)
	if !slices.Equal(r2.Unlocked, []string{app.AchievementTopStudent}) {
		t.Fatalf("expected top-student at score 2, got %v", r2.Unlocked)
	}
	_ = engine.Next()
	r3 := answerCorrectly(t, engine)
	if !slices.Equal(r3.Unlocked, []string{app.AchievementTrafficLightExpert}) {
		t.Fatalf("expected traffic-light badge on question 3, got %v", r3.Unlocked)
	}
	_ = engine.Next()
	r4 := answerCorrectly(t, engine)
	if !slices.Equal(r4.Unlocked, []string{"level-two"}) {
		t.Fatalf("expected custom rule on level 2 question, got %v", r4.Unlocked)
	}
}

func TestNewEngineRejectsInvalidBanks(t *testing.T) {
	valid := func() domain.Bank { return content.TrafficSafety() }
	cases := []struct {
		name   string
		mutate func(b *domain.Bank)
	}{
		{"no questions", func(b *domain.Bank) { b.Questions = nil }},
		{"duplicate question id", func(b *domain.Bank) { b.Questions[1].ID = b.Questions[0].ID }},
		{"empty options", func(b *domain.Bank) { b.Questions[2].Options = nil }},
		{"correct index too large", func(b *domain.Bank) { b.Questions[0].Correct = 4 }},
		{"negative correct index", func(b *domain.Bank) { b.Questions[0].Correct = -1 }},
		{"zero level", func(b *domain.Bank) { b.Questions[3].Level = 0 }},
		{"empty achievement id", func(b *domain.Bank) { b.Achievements[0].ID = "" }},
		{"duplicate achievement", func(b *domain.Bank) { b.Achievements[1].ID = b.Achievements[0].ID }},
		{"achievement without rule", func(b *domain.Bank) { b.Achievements[0].ID = "mystery" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bank := valid()
			tc.mutate(&bank)
			if _, err := app.NewEngine(bank); !errors.Is(err, domain.ErrInvalidBank) {
				t.Fatalf("expected ErrInvalidBank, got %v", err)
			}
		})
	}
}

func TestNewEngineStartsLocked(t *testing.T) {
	bank := content.TrafficSafety()
	bank.Achievements[0].Unlocked = true

	engine, err := app.NewEngine(bank)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if got := unlockedIDs(engine); len(got) != 0 {
		t.Fatalf("expected all achievements locked, got %v", got)
	}
}

func newTrafficEngine(t *testing.T) *app.Engine {
	t.Helper()
	engine, err := app.NewEngine(content.TrafficSafety())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func answerCorrectly(t *testing.T, engine *app.Engine) domain.AnswerResult {
	t.Helper()
	result, err := engine.SubmitAnswer(engine.Current().Correct)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Correct {
		t.Fatalf("expected correct answer, got %+v", result)
	}
	return result
}

func unlockedIDs(engine *app.Engine) []string {
	var ids []string
	for _, a := range engine.State().Achievements {
		if a.Unlocked {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
