package grading

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hkdse-prep/backend/internal/models"
)

const maxUploadBytes = 10 << 20 // 10MB

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GradeHandwritten accepts a multipart image upload in the
// "answerImage" field and relays the vision service's verdict. Optional
// "question" and "correctAnswer" fields thread the actual problem into
// the grading prompt; without them the canonical reference problem is
// used. Missing file is a 400; service failures are 500 with a
// categorized message.
func (h *Handler) GradeHandwritten(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("answerImage")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "請上傳圖片"})
		return
	}
	defer file.Close()

	log.Printf("[grading] upload %q (%d bytes)", header.Filename, header.Size)

	ref := Reference{
		Problem:       r.FormValue("question"),
		CorrectAnswer: r.FormValue("correctAnswer"),
	}

	result, err := h.service.Grade(r.Context(), file, ref)
	if err != nil {
		var se *ServiceError
		if !errors.As(err, &se) {
			se = Classify(err)
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: se.UserMessage()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ParseMarkingScheme accepts a multipart PDF in the "pdfFile" field.
// PDF extraction is stubbed: a fixed scheme stands in until real
// parsing lands.
func (h *Handler) ParseMarkingScheme(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("pdfFile")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "請上傳 PDF"})
		return
	}
	file.Close()

	log.Printf("[grading] marking scheme upload %q (%d bytes)", header.Filename, header.Size)

	writeJSON(w, http.StatusOK, models.MarkingScheme{
		MarkingText:      "Model Answer: x²-5x+6=0 → (x-2)(x-3)=0 → x=2, x=3 (Full marks)",
		ExtractedAnswers: []string{"x=2, x=3", "(x-2)(x-3)=0"},
		TotalPages:       1,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
