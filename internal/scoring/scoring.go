// Package scoring compares a submitted choice against the canonical
// answer. It is stateless: aggregating totals into a session is the
// caller's responsibility.
package scoring

import (
	"fmt"
	"strings"

	"github.com/hkdse-prep/backend/internal/models"
)

// Result is the outcome of scoring a single submission.
type Result struct {
	IsCorrect bool
	Feedback  string
	Score     int
}

const correctScore = 100

// Score grades a submitted key against the question's answer.
// Comparison is case-insensitive; scoring is binary, 100 or 0, with no
// partial credit. Feedback depends only on correctness, never on which
// wrong option was chosen.
func Score(q models.Question, submittedKey string) Result {
	if strings.EqualFold(submittedKey, q.Answer) {
		return Result{
			IsCorrect: true,
			Feedback:  "✅ 完全正確！概念掌握很好！",
			Score:     correctScore,
		}
	}
	return Result{
		IsCorrect: false,
		Feedback:  fmt.Sprintf("❌ 正確答案：%s\n💡 提示：重新檢查計算步驟", q.Answer),
		Score:     0,
	}
}
