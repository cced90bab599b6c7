package models

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// ── Core Structs ───────────────────────────────────────

// Question is one multiple-choice item. Options always carries exactly
// the keys A-D and Answer is one of them. Questions are created fresh
// per request and never mutated.
type Question struct {
	Topic      string            `json:"topic,omitempty"`
	Question   string            `json:"question"`
	Options    map[string]string `json:"options"`
	Answer     string            `json:"answer"`
	LatexSteps string            `json:"latex_steps"`
	Difficulty Difficulty        `json:"difficulty,omitempty"`
}

// GradingResult is the structured verdict for one handwritten submission.
// Confidence is a fixed placeholder, not derived from the model's own
// certainty.
type GradingResult struct {
	ExtractedAnswer string `json:"extractedAnswer"`
	Score           int    `json:"score"`
	IsCorrect       bool   `json:"isCorrect"`
	Feedback        string `json:"feedback"`
	CorrectAnswer   string `json:"correctAnswer"`
	Confidence      int    `json:"confidence"`
	Model           string `json:"model"`
}

type MarkingScheme struct {
	MarkingText      string   `json:"markingText"`
	ExtractedAnswers []string `json:"extractedAnswers"`
	TotalPages       int      `json:"totalPages"`
}

// ── Request / Response DTOs ────────────────────────────

type GenerateQuestionRequest struct {
	Topic        string     `json:"topic"`
	UseAI        bool       `json:"useAI"`
	StudentScore float64    `json:"studentScore"`
	Difficulty   Difficulty `json:"difficulty"`
}

type SubmitAnswerRequest struct {
	Question      Question `json:"question"`
	StudentAnswer string   `json:"studentAnswer"`
}

type SubmitAnswerResponse struct {
	IsCorrect  bool   `json:"isCorrect"`
	Feedback   string `json:"feedback"`
	Score      int    `json:"score"`
	TotalScore int    `json:"totalScore"`
}

type SenAnimationRequest struct {
	Topic string `json:"topic"`
}

type SenAnimation struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type AutoMarkRequest struct {
	OCRText       string `json:"ocrText"`
	MarkingScheme string `json:"markingScheme"`
}

type AutoMarkResponse struct {
	Score       int      `json:"score"`
	IsCorrect   bool     `json:"isCorrect"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	ServiceReady bool   `json:"serviceReady"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
