package generator

import (
	"fmt"

	"github.com/hkdse-prep/backend/internal/models"
)

// scenarios are narrative framings mixed into generation prompts purely
// to diversify output across calls.
var scenarios = []string{"小明", "小華", "工程師", "科學家", "建築師", "醫生"}

// Canonical reference problem used by the grading prompt when the
// caller does not supply one.
const (
	DefaultProblem       = "x² - 5x + 6 = 0"
	DefaultCorrectAnswer = "x=2, x=3"
)

// BuildQuestionPrompt assembles the generation instruction. The
// effective difficulty (recomputed from the student's rolling score)
// drives the requested question level; the caller-supplied difficulty
// is only echoed back in the response schema. The variation id and
// scenario keep consecutive prompts from collapsing onto the same
// question.
func BuildQuestionPrompt(topic string, echoDifficulty, effective models.Difficulty, variationID int, scenario string) string {
	return fmt.Sprintf(`%s正在練習第%d題 HKDSE %s %s題。

**生成全新題目**（數字、情境、表述完全不同）：
1. 返回純 JSON（不要其他文字）
2. 4個選項 A/B/C/D，1個正確答案
3. 題目含 LaTeX 數學符號
4. 隨機答案標明 answer: "A/B/C/D"
5. **絕對不要重複之前題目**

JSON 格式：
{
  "question": "全新題目（含 LaTeX）",
  "options": {
    "A": "選項A",
    "B": "選項B",
    "C": "選項C",
    "D": "選項D"
  },
  "answer": "A/B/C/D",
  "latex_steps": "$$步驟1$$$$步驟2$$",
  "difficulty": "%s"
}`, scenario, variationID, topic, effective, echoDifficulty)
}

// BuildGradingPrompt assembles the vision-grading instruction for one
// photographed handwritten answer. The reference problem and its
// canonical answer are embedded in the prompt; the reply must be bare
// JSON matching the documented schema.
func BuildGradingPrompt(problem, correctAnswer string) string {
	return fmt.Sprintf(`請仔細識別這張學生手寫數學答案照片，批改這題：**%s**

要求返回嚴格 JSON 格式（不要其他文字）：
{
  "extracted": "識別出的完整答案文字",
  "score": 數字分數0-100,
  "isCorrect": true/false,
  "feedback": "批改意見（繁體中文）",
  "correctAnswer": "正確答案 %s"
}`, problem, correctAnswer)
}
