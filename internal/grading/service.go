// Package grading delegates recognition and scoring of photographed
// handwritten answers to an external vision-capable generative service.
package grading

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hkdse-prep/backend/internal/generator"
	"github.com/hkdse-prep/backend/internal/models"
)

// fixedConfidence is a documented placeholder: the upstream service does
// not report genuine certainty, so the result carries a constant.
const fixedConfidence = 95

// Reference is the problem context threaded into the grading prompt.
// Empty fields fall back to the canonical reference problem.
type Reference struct {
	Problem       string
	CorrectAnswer string
}

// Service runs the grading pipeline: persist the upload to a scoped
// temp file, read it back, send it inline to the vision service, and
// parse the structured verdict. The temp file is removed on every exit
// path.
type Service struct {
	llm       generator.LLMClient
	uploadDir string
}

func NewService(llm generator.LLMClient, uploadDir string) *Service {
	return &Service{llm: llm, uploadDir: uploadDir}
}

func (s *Service) Ready() bool {
	return s.llm != nil
}

// Grade processes one uploaded answer image and returns the service's
// verdict. Failures are returned as *ServiceError; there is no retry
// and no offline substitute.
func (s *Service) Grade(ctx context.Context, upload io.Reader, ref Reference) (*models.GradingResult, error) {
	if s.llm == nil {
		return nil, &ServiceError{Category: CategoryAuth, Err: errors.New("no generative service configured")}
	}

	path, err := s.saveUpload(upload)
	if err != nil {
		return nil, &ServiceError{Category: CategoryTransient, Err: fmt.Errorf("persist upload: %w", err)}
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ServiceError{Category: CategoryTransient, Err: fmt.Errorf("read upload: %w", err)}
	}

	problem := ref.Problem
	if problem == "" {
		problem = generator.DefaultProblem
	}
	correctAnswer := ref.CorrectAnswer
	if correctAnswer == "" {
		correctAnswer = generator.DefaultCorrectAnswer
	}

	log.Printf("[grading] grading %q (%dKB image)", problem, len(data)/1024)

	encoded := base64.StdEncoding.EncodeToString(data)
	prompt := generator.BuildGradingPrompt(problem, correctAnswer)

	raw, err := s.llm.CompleteWithImage(ctx, prompt, encoded, detectMediaType(data))
	if err != nil {
		log.Printf("[grading] service call failed (%dKB image): %v", len(data)/1024, err)
		return nil, Classify(err)
	}

	var reply struct {
		Extracted     string `json:"extracted"`
		Score         int    `json:"score"`
		IsCorrect     bool   `json:"isCorrect"`
		Feedback      string `json:"feedback"`
		CorrectAnswer string `json:"correctAnswer"`
	}
	if err := json.Unmarshal([]byte(generator.StripCodeFences(raw)), &reply); err != nil {
		log.Printf("[grading] unparseable reply: %v", err)
		return nil, &ServiceError{Category: CategoryTransient, Err: fmt.Errorf("parse grading reply: %w", err)}
	}

	result := &models.GradingResult{
		ExtractedAnswer: reply.Extracted,
		Score:           reply.Score,
		IsCorrect:       reply.IsCorrect,
		Feedback:        reply.Feedback,
		CorrectAnswer:   reply.CorrectAnswer,
		Confidence:      fixedConfidence,
		Model:           s.llm.ModelName(),
	}
	if result.ExtractedAnswer == "" {
		result.ExtractedAnswer = "無法識別"
	}
	if result.Feedback == "" {
		result.Feedback = "分析完成"
	}
	if result.CorrectAnswer == "" {
		result.CorrectAnswer = correctAnswer
	}

	return result, nil
}

// saveUpload writes the upload to a uuid-named file under the upload
// directory. The caller owns removal.
func (s *Service) saveUpload(upload io.Reader) (string, error) {
	dir := s.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.NewString())
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, upload); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func detectMediaType(data []byte) string {
	if t := http.DetectContentType(data); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
