package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quizbackend/models"
	"quizbackend/services"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	quizzes := []models.Quiz{
		{ID: 1, Title: "Networking basics", Code: "AB12CD34", ProfessorID: 7},
	}
	questions := []models.Question{
		{ID: 1, QuizID: 1},
		{ID: 2, QuizID: 1},
	}
	responses := []models.Response{
		{ID: 10, QuestionID: 1, IsCorrect: true},
		{ID: 11, QuestionID: 1, IsCorrect: true},
		{ID: 12, QuestionID: 1, IsCorrect: false},
		{ID: 20, QuestionID: 2, IsCorrect: true},
		{ID: 21, QuestionID: 2, IsCorrect: false},
	}

	service := services.NewParticipationService(
		services.NewMemoryQuizReader(quizzes, questions, responses),
		services.NewMemoryParticipationStore(),
	)
	handler := NewParticipationHandler(service, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/quiz/:id/submit", handler.SubmitQuiz)
	router.POST("/api/quiz/join/:code", handler.JoinByCode)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitQuizEndpoint(t *testing.T) {
	router := newTestRouter()

	w := postJSON(router, "/api/quiz/1/submit", `{"selectedResponseIds":[10,11,20],"guestId":5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var view struct {
		Score   string `json:"score"`
		GuestID *uint  `json:"guestId"`
		Quiz    struct {
			Code string `json:"code"`
		} `json:"quiz"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Score != "100" {
		t.Fatalf("expected score 100, got %q", view.Score)
	}
	if view.GuestID == nil || *view.GuestID != 5 {
		t.Fatalf("expected guestId 5, got %+v", view.GuestID)
	}
	if view.Quiz.Code != "AB12CD34" {
		t.Fatalf("expected embedded quiz summary, got %+v", view.Quiz)
	}

	// Same guest again: conflict, mapped to 409.
	w = postJSON(router, "/api/quiz/1/submit", `{"selectedResponseIds":[],"guestId":5}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate submission, got %d", w.Code)
	}
}

func TestSubmitQuizEndpointUnknownQuiz(t *testing.T) {
	router := newTestRouter()

	w := postJSON(router, "/api/quiz/999/submit", `{"selectedResponseIds":[10]}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestJoinByCodeEndpoint(t *testing.T) {
	router := newTestRouter()

	w := postJSON(router, "/api/quiz/join/ab12cd34", `{"guestId":9}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view struct {
		Score string `json:"score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Score != "0" {
		t.Fatalf("placeholder score should be 0, got %q", view.Score)
	}

	w = postJSON(router, "/api/quiz/join/NOPE0000", `{"guestId":9}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", w.Code)
	}
}
