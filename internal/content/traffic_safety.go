// Package content holds the question banks compiled into the binary.
package content

import (
	"traffic-quiz/internal/app"
	"traffic-quiz/internal/domain"
)

// TrafficSafetyID identifies the built-in traffic-safety bank.
const TrafficSafetyID = "traffic-safety"

// TrafficSafety is the children's traffic-rules quiz. Question 1 is the
// traffic-light question the traffic-light-expert badge is tied to.
func TrafficSafety() domain.Bank {
	return domain.Bank{
		ID:    TrafficSafetyID,
		Title: "Traffic rules for kids",
		Questions: []domain.Question{
			{
				ID:      1,
				Prompt:  "On which traffic light colour may you cross the road?",
				Options: []string{"Red", "Yellow", "Green", "Any"},
				Correct: 2,
				Level:   1,
				Image:   "images/traffic-light.jpg",
			},
			{
				ID:      2,
				Prompt:  "Where is it safe to cross the road?",
				Options: []string{"Anywhere", "At a zebra crossing", "Between parked cars", "On a bend"},
				Correct: 1,
				Level:   1,
			},
			{
				ID:      3,
				Prompt:  "What does a red traffic light mean?",
				Options: []string{"Get ready", "Stop", "Go", "Run"},
				Correct: 1,
				Level:   1,
			},
			{
				ID:      4,
				Prompt:  "How should you get around a bus?",
				Options: []string{"In front of it", "Behind it", "Better wait until it leaves", "Crawl under it"},
				Correct: 2,
				Level:   2,
			},
			{
				ID:      5,
				Prompt:  "Is it OK to play near the road?",
				Options: []string{"Yes, if careful", "No, it is dangerous", "Yes, on the pavement", "Only with a ball"},
				Correct: 1,
				Level:   2,
				Image:   "images/playground.jpg",
			},
		},
		Achievements: []domain.Achievement{
			{ID: app.AchievementFirstStep, Title: "First step", Description: "Answered the first question", Icon: "Star"},
			{ID: app.AchievementTrafficLightExpert, Title: "Traffic-light expert", Description: "Answered the traffic-light question correctly", Icon: "Award"},
			{ID: app.AchievementTopStudent, Title: "Top student", Description: "Scored 5 points", Icon: "Trophy"},
			{ID: app.AchievementRulesMaster, Title: "Traffic-rules master", Description: "Answered every question correctly", Icon: "Medal"},
		},
	}
}

// Banks returns every built-in bank keyed by ID.
func Banks() map[string]domain.Bank {
	return map[string]domain.Bank{
		TrafficSafetyID: TrafficSafety(),
	}
}
