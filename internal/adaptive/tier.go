// Package adaptive maps a learner's rolling average score to a
// generation difficulty tier.
package adaptive

import "github.com/hkdse-prep/backend/internal/models"

// TierFor returns the difficulty tier for a rolling average score.
// Below 60 is easy, above 85 is hard, everything else (including both
// boundaries) is medium. Total over all reals; no error condition.
func TierFor(averageScore float64) models.Difficulty {
	switch {
	case averageScore < 60:
		return models.DifficultyEasy
	case averageScore > 85:
		return models.DifficultyHard
	default:
		return models.DifficultyMedium
	}
}

// AverageScore computes totalScore/questionCount, guarding against a
// zero count before any question has been answered.
func AverageScore(totalScore, questionCount int) float64 {
	if questionCount < 1 {
		questionCount = 1
	}
	return float64(totalScore) / float64(questionCount)
}
