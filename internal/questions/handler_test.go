package questions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hkdse-prep/backend/internal/bank"
	"github.com/hkdse-prep/backend/internal/generator"
	"github.com/hkdse-prep/backend/internal/models"
)

// stubLLM implements generator.LLMClient for handler tests.
type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) CompleteWithImage(ctx context.Context, prompt string, imageBase64 string, mediaType string) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) ModelName() string { return "stub-model" }

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeQuestion(t *testing.T, rec *httptest.ResponseRecorder) models.Question {
	t.Helper()
	var q models.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode question: %v (body: %s)", err, rec.Body.String())
	}
	return q
}

func TestGenerateQuestionFromBank(t *testing.T) {
	h := NewHandler(nil)

	rec := postJSON(t, h.GenerateQuestion, "/generate-question", `{"topic":"HKDSE 代數","useAI":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	q := decodeQuestion(t, rec)
	if len(q.Options) != 4 {
		t.Errorf("expected 4 options, got %d", len(q.Options))
	}
	if _, ok := q.Options[q.Answer]; !ok {
		t.Errorf("answer %q not among options", q.Answer)
	}
	if q.Topic != "HKDSE 代數" {
		t.Errorf("topic = %q", q.Topic)
	}
}

func TestGenerateQuestionDefaultsTopic(t *testing.T) {
	h := NewHandler(nil)

	rec := postJSON(t, h.GenerateQuestion, "/generate-question", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if q := decodeQuestion(t, rec); q.Topic != bank.DefaultTopic {
		t.Errorf("topic = %q, want default %q", q.Topic, bank.DefaultTopic)
	}
}

func TestGenerateQuestionUsesGenerator(t *testing.T) {
	llm := &stubLLM{reply: `{
		"question": "解 $4x=20$",
		"options": {"A": "x=4", "B": "x=5", "C": "x=6", "D": "x=8"},
		"answer": "B",
		"latex_steps": "$$x=5$$",
		"difficulty": "medium"
	}`}
	h := NewHandler(generator.New(llm))

	rec := postJSON(t, h.GenerateQuestion, "/generate-question", `{"topic":"HKDSE 代數","useAI":true,"studentScore":70}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if q := decodeQuestion(t, rec); q.Question != "解 $4x=20$" {
		t.Errorf("expected generated question, got %q", q.Question)
	}
}

func TestGenerateQuestionFallsBackSilently(t *testing.T) {
	// Unparseable generation output must be invisible to the caller:
	// still a 200 with a valid bank entry.
	h := NewHandler(generator.New(&stubLLM{reply: "not json at all"}))

	rec := postJSON(t, h.GenerateQuestion, "/generate-question", `{"topic":"HKDSE 幾何","useAI":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	q := decodeQuestion(t, rec)
	if len(q.Options) != 4 {
		t.Errorf("fallback question has %d options", len(q.Options))
	}
	if q.Topic != "HKDSE 幾何" {
		t.Errorf("fallback topic = %q", q.Topic)
	}
}

func TestGenerateQuestionServiceErrorFallsBack(t *testing.T) {
	h := NewHandler(generator.New(&stubLLM{err: errors.New("connection refused")}))

	rec := postJSON(t, h.GenerateQuestion, "/generate-question", `{"useAI":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	decodeQuestion(t, rec)
}

func TestGenerateQuestionInvalidDifficulty(t *testing.T) {
	h := NewHandler(nil)

	rec := postJSON(t, h.GenerateQuestion, "/generate-question", `{"difficulty":"impossible"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitAnswer(t *testing.T) {
	h := NewHandler(nil)
	question := `{"question":"解 $x^2-5x+6=0$","options":{"A":"x=1,6","B":"x=2,3","C":"x=1,2","D":"x=5,6"},"answer":"B"}`

	tests := []struct {
		answer      string
		wantCorrect bool
		wantScore   int
	}{
		{"B", true, 100},
		{"b", true, 100},
		{"A", false, 0},
	}

	for _, tt := range tests {
		rec := postJSON(t, h.SubmitAnswer, "/submit-answer",
			`{"question":`+question+`,"studentAnswer":"`+tt.answer+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp models.SubmitAnswerResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.IsCorrect != tt.wantCorrect {
			t.Errorf("answer %q: isCorrect = %t, want %t", tt.answer, resp.IsCorrect, tt.wantCorrect)
		}
		if resp.Score != tt.wantScore {
			t.Errorf("answer %q: score = %d, want %d", tt.answer, resp.Score, tt.wantScore)
		}
		if resp.Feedback == "" {
			t.Errorf("answer %q: empty feedback", tt.answer)
		}
	}
}

func TestSubmitAnswerMissingFields(t *testing.T) {
	h := NewHandler(nil)

	rec := postJSON(t, h.SubmitAnswer, "/submit-answer", `{"studentAnswer":"B"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing question: status = %d, want 400", rec.Code)
	}

	rec = postJSON(t, h.SubmitAnswer, "/submit-answer", `{"question":{"answer":"B"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing answer: status = %d, want 400", rec.Code)
	}
}

func TestSenAnimation(t *testing.T) {
	h := NewHandler(nil)

	rec := postJSON(t, h.SenAnimation, "/sen-animation", `{"topic":"HKDSE 幾何"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var anim models.SenAnimation
	if err := json.Unmarshal(rec.Body.Bytes(), &anim); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if anim.Type != "triangle_angles" {
		t.Errorf("type = %q", anim.Type)
	}

	rec = postJSON(t, h.SenAnimation, "/sen-animation", `{"topic":"未知主題"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &anim); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if anim.Type != "apple_addition" {
		t.Errorf("unknown topic should get the default animation, got %q", anim.Type)
	}
}

func TestAutoMark(t *testing.T) {
	h := NewHandler(nil)

	rec := postJSON(t, h.AutoMark, "/auto-mark", `{"ocrText":"x=2, x=3"}`)
	var resp models.AutoMarkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsCorrect || resp.Score != 95 {
		t.Errorf("correct text: isCorrect = %t, score = %d", resp.IsCorrect, resp.Score)
	}

	rec = postJSON(t, h.AutoMark, "/auto-mark", `{"ocrText":"x=7"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IsCorrect || resp.Score != 68 {
		t.Errorf("wrong text: isCorrect = %t, score = %d", resp.IsCorrect, resp.Score)
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)

	rec := httptest.NewRecorder()
	NewHandler(nil).Health(rec, req)
	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.ServiceReady {
		t.Errorf("without generator: %+v", resp)
	}

	rec = httptest.NewRecorder()
	NewHandler(generator.New(&stubLLM{})).Health(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.ServiceReady {
		t.Error("with generator: serviceReady should be true")
	}
}
