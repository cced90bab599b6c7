package generator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hkdse-prep/backend/internal/adaptive"
	"github.com/hkdse-prep/backend/internal/models"
)

// Generator wraps an LLMClient and builds adaptive question requests.
type Generator struct {
	llm LLMClient
}

func New(llm LLMClient) *Generator {
	return &Generator{llm: llm}
}

func (g *Generator) ModelName() string {
	return g.llm.ModelName()
}

// GenerateQuestion requests one fresh question from the generative
// service. The effective difficulty is recomputed from studentScore
// rather than trusted from the caller; the caller-supplied difficulty
// is only echoed in the output. Any parse failure comes back as a
// *GenerationError so the caller can fall back to the static bank.
// There is no retry against the service.
func (g *Generator) GenerateQuestion(ctx context.Context, topic string, difficulty models.Difficulty, studentScore float64) (*models.Question, error) {
	effective := adaptive.TierFor(studentScore)
	variationID := int(time.Now().UnixMilli() % 1000)
	scenario := scenarios[rand.Intn(len(scenarios))]

	log.Printf("[generator] V%d %s %s (student score %.0f)", variationID, topic, effective, studentScore)

	prompt := BuildQuestionPrompt(topic, difficulty, effective, variationID, scenario)

	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	q, err := ParseQuestion(raw)
	if err != nil {
		return nil, err
	}

	if q.Topic == "" {
		q.Topic = topic
	}
	return q, nil
}
