package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/hkdse-prep/backend/internal/bank"
	"github.com/hkdse-prep/backend/internal/generator"
	"github.com/hkdse-prep/backend/internal/grading"
	"github.com/hkdse-prep/backend/internal/questions"
	"github.com/rs/cors"
)

func main() {
	// Fail fast on a structurally broken or positionally biased corpus.
	if err := bank.Validate(); err != nil {
		log.Fatalf("Question bank validation failed: %v", err)
	}

	llm := generator.NewClientFromEnv()

	var gen *generator.Generator
	if llm != nil {
		gen = generator.New(llm)
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = filepath.Join(os.TempDir(), "hkdse-uploads")
	}

	questionsHandler := questions.NewHandler(gen)
	gradingHandler := grading.NewHandler(grading.NewService(llm, uploadDir))

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/generate-question", questionsHandler.GenerateQuestion).Methods("POST")
	r.HandleFunc("/submit-answer", questionsHandler.SubmitAnswer).Methods("POST")
	r.HandleFunc("/sen-animation", questionsHandler.SenAnimation).Methods("POST")
	r.HandleFunc("/auto-mark", questionsHandler.AutoMark).Methods("POST")
	r.HandleFunc("/grade-handwritten-answer", gradingHandler.GradeHandwritten).Methods("POST")
	r.HandleFunc("/parse-marking-scheme", gradingHandler.ParseMarkingScheme).Methods("POST")
	r.HandleFunc("/health", questionsHandler.Health).Methods("GET")

	// CORS
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
