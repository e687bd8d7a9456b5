package app

import "traffic-quiz/internal/domain"

// View is the read-only side of a run that statistics are derived from.
type View interface {
	Questions() []domain.Question
	State() domain.State
}

// Project derives display statistics from v. Nothing is cached.
func Project(v View) domain.Stats {
	questions := v.Questions()
	st := v.State()

	total := len(questions)
	answered := len(st.AnsweredQuestionIDs)

	stats := domain.Stats{
		Answered:          answered,
		Total:             total,
		Score:             st.Score,
		CurrentLevel:      currentLevel(questions, st.AnsweredQuestionIDs),
		TotalAchievements: len(st.Achievements),
		Complete:          total > 0 && answered == total,
	}
	if total > 0 {
		stats.ProgressPercent = 100 * float64(answered) / float64(total)
	}
	stats.AccuracyPercent = 100 * float64(st.Score) / float64(max(answered, 1))

	if top := maxLevel(questions); top > 0 {
		stats.LevelPercent = 100 * float64(stats.CurrentLevel) / float64(top)
	}
	for _, a := range st.Achievements {
		if a.Unlocked {
			stats.UnlockedAchievements++
		}
	}
	if stats.Complete {
		stats.Tier = TierFor(st.Score, total)
	}
	return stats
}

// TierFor grades a finished run: perfect, at least 70% correct, or below.
func TierFor(score, total int) domain.Tier {
	switch {
	case score == total:
		return domain.TierPerfect
	case 10*score >= 7*total:
		return domain.TierGood
	default:
		return domain.TierNeedsPractice
	}
}

// SummaryMessage is the encouragement shown next to a final tier.
func SummaryMessage(tier domain.Tier) string {
	switch tier {
	case domain.TierPerfect:
		return "Excellent! You really know your traffic rules! 🌟"
	case domain.TierGood:
		return "Good job! A little more practice! 👍"
	default:
		return "Keep learning, you will get there! 💪"
	}
}

// currentLevel is the highest level among answered questions, or 1 before any answer.
func currentLevel(questions []domain.Question, answered []int) int {
	levels := make(map[int]int, len(questions))
	for _, q := range questions {
		levels[q.ID] = q.Level
	}
	level := 1
	for _, id := range answered {
		if l, ok := levels[id]; ok && l > level {
			level = l
		}
	}
	return level
}

func maxLevel(questions []domain.Question) int {
	top := 0
	for _, q := range questions {
		top = max(top, q.Level)
	}
	return top
}
