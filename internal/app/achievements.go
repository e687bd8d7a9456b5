package app

// Identifiers of the achievements the built-in rules know how to unlock.
const (
	AchievementFirstStep          = "first-step"
	AchievementTrafficLightExpert = "traffic-light-expert"
	AchievementTopStudent         = "top-student"
	AchievementRulesMaster        = "traffic-rules-master"
)

// Progress is what a Rule sees. It is taken after the score and the answered
// list have been updated for the submission being evaluated.
type Progress struct {
	QuestionID     int
	Score          int
	AnsweredBefore int
	Answered       int
	Total          int
}

// Rule reports whether an achievement should unlock for a correct answer.
type Rule func(p Progress) bool

// RuleConfig tunes the built-in rules. Zero values fall back to the defaults.
type RuleConfig struct {
	TrafficLightQuestionID int
	TopStudentScore        int
}

// DefaultRuleConfig targets question 1 for the traffic-light badge and a score of 5 for top student.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{TrafficLightQuestionID: 1, TopStudentScore: 5}
}

func (c RuleConfig) withDefaults() RuleConfig {
	def := DefaultRuleConfig()
	if c.TrafficLightQuestionID == 0 {
		c.TrafficLightQuestionID = def.TrafficLightQuestionID
	}
	if c.TopStudentScore <= 0 {
		c.TopStudentScore = def.TopStudentScore
	}
	return c
}

// DefaultRules returns the unlock rule for every built-in achievement, keyed by achievement ID.
func DefaultRules(cfg RuleConfig) map[string]Rule {
	cfg = cfg.withDefaults()
	return map[string]Rule{
		AchievementFirstStep: func(p Progress) bool {
			return p.AnsweredBefore == 0
		},
		AchievementTrafficLightExpert: func(p Progress) bool {
			return p.QuestionID == cfg.TrafficLightQuestionID
		},
		AchievementTopStudent: func(p Progress) bool {
			return p.Score >= cfg.TopStudentScore
		},
		AchievementRulesMaster: func(p Progress) bool {
			return p.Answered == p.Total && p.Score == p.Total
		},
	}
}
