package terminal

import (
	"fmt"
	"io"
	"math"

	"traffic-quiz/internal/app"
	"traffic-quiz/internal/domain"
)

const helpText = `Answer with an option letter or number. Commands: (n)ext or Enter, (r)estart, (s)tats, achievemen(t)s, (h)elp, (q)uit.`

func renderHeader(w io.Writer, e *app.Engine) {
	st := e.State()
	fmt.Fprintf(w, "\n🚦 %s\n", e.Title())
	fmt.Fprintf(w, "Progress: %d/%d   Score: %d\n", len(st.AnsweredQuestionIDs), e.Total(), st.Score)
}

func renderQuestion(w io.Writer, e *app.Engine) {
	q := e.Current()
	st := e.State()
	fmt.Fprintf(w, "\nLevel %d · Question %d of %d\n", q.Level, st.CurrentQuestionIndex+1, e.Total())
	if q.Image != "" {
		fmt.Fprintf(w, "[illustration: %s]\n", q.Image)
	}
	fmt.Fprintln(w, q.Prompt)

	feedback, answered := e.Feedback()
	for i, option := range q.Options {
		marker := string(rune('A' + i))
		if answered {
			switch feedback.Options[i] {
			case domain.OptionCorrect:
				marker = "✅"
			case domain.OptionWrong:
				marker = "❌"
			}
		}
		fmt.Fprintf(w, "  %s) %s\n", marker, option)
	}
	if e.IsLast() && !answered {
		fmt.Fprintln(w, "Last question: answer it to finish the quiz.")
	}
}

func renderResult(w io.Writer, e *app.Engine) {
	feedback, ok := e.Feedback()
	if !ok {
		return
	}
	if feedback.Correct {
		fmt.Fprintln(w, "🎉 Correct! Keep it up! +1 point")
		return
	}
	fmt.Fprintf(w, "💪 Not quite. Correct answer: %s\n", feedback.CorrectOption)
}

func renderUnlocked(w io.Writer, achievements []domain.Achievement, ids []string) {
	for _, id := range ids {
		for _, a := range achievements {
			if a.ID == id {
				fmt.Fprintf(w, "✨ Achievement unlocked: %s\n", a.Title)
			}
		}
	}
}

func renderSummary(w io.Writer, stats domain.Stats) {
	fmt.Fprintln(w, "\n🏆 Quiz complete!")
	fmt.Fprintf(w, "Your result: %d/%d\n", stats.Score, stats.Total)
	fmt.Fprintln(w, app.SummaryMessage(stats.Tier))
	fmt.Fprintln(w, `Type "restart" to play again.`)
}

func renderStats(w io.Writer, stats domain.Stats) {
	fmt.Fprintln(w, "\n📊 Your progress")
	fmt.Fprintf(w, "Questions answered: %d/%d (%d%%)\n", stats.Answered, stats.Total, percent(stats.ProgressPercent))
	fmt.Fprintf(w, "Correct answers:    %d/%d (%d%%)\n", stats.Score, max(stats.Answered, 1), percent(stats.AccuracyPercent))
	fmt.Fprintf(w, "Current level:      Level %d (%d%%)\n", stats.CurrentLevel, percent(stats.LevelPercent))
	fmt.Fprintf(w, "Achievements:       %d/%d\n", stats.UnlockedAchievements, stats.TotalAchievements)
}

func renderAchievements(w io.Writer, achievements []domain.Achievement) {
	fmt.Fprintln(w, "\n🏅 Achievements")
	for _, a := range achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(w, "%s %s: %s\n", mark, a.Title, a.Description)
	}
}

func percent(v float64) int {
	return int(math.Round(v))
}
