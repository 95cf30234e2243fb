package services

import (
	"context"
	"testing"

	"quizbackend/models"

	"github.com/shopspring/decimal"
)

const (
	testQuizID      = 1
	testQuizCode    = "AB12CD34"
	testProfessorID = 7
	emptyQuizID     = 2
	emptyQuizCode   = "EF56AB78"
)

// Fixture mirrors the worked example from the scoring rules: Q1 has
// correct responses {10,11} among {10,11,12}; Q2 has correct response
// {20} among {20,21}. A third quiz holds a question with no correct
// responses at all.
func newTestService() (*ParticipationService, *MemoryParticipationStore) {
	quizzes := []models.Quiz{
		{ID: testQuizID, Title: "Networking basics", Code: testQuizCode, ProfessorID: testProfessorID},
		{ID: emptyQuizID, Title: "Empty quiz", Code: emptyQuizCode, ProfessorID: testProfessorID},
		{ID: 3, Title: "No correct answers", Code: "CD78EF12", ProfessorID: testProfessorID},
	}
	questions := []models.Question{
		{ID: 1, QuizID: testQuizID, QuestionText: "Pick the two transport protocols"},
		{ID: 2, QuizID: testQuizID, QuestionText: "Pick the connectionless one"},
		{ID: 30, QuizID: 3, QuestionText: "Trick question"},
	}
	responses := []models.Response{
		{ID: 10, QuestionID: 1, IsCorrect: true},
		{ID: 11, QuestionID: 1, IsCorrect: true},
		{ID: 12, QuestionID: 1, IsCorrect: false},
		{ID: 20, QuestionID: 2, IsCorrect: true},
		{ID: 21, QuestionID: 2, IsCorrect: false},
		{ID: 40, QuestionID: 30, IsCorrect: false},
		{ID: 41, QuestionID: 30, IsCorrect: false},
	}

	store := NewMemoryParticipationStore()
	return NewParticipationService(NewMemoryQuizReader(quizzes, questions, responses), store), store
}

func uintPtr(v uint) *uint {
	return &v
}

func TestSubmitAnswersScoring(t *testing.T) {
	cases := []struct {
		name     string
		selected []uint
		want     string
	}{
		{"exact match on both questions", []uint{10, 11, 20}, "100"},
		{"subset of multi-correct question", []uint{10, 20}, "50"},
		{"nothing selected", nil, "0"},
		{"superset with one extra incorrect", []uint{10, 11, 12, 20}, "50"},
		{"wrong response on second question", []uint{10, 11, 21}, "50"},
		{"extra selection on second question", []uint{10, 11, 20, 21}, "50"},
		{"unknown response ids are ignored", []uint{10, 11, 20, 999}, "100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newTestService()
			// Anonymous untracked submission: no duplicate guard in play.
			p, err := service.SubmitAnswers(context.Background(), testQuizID, tc.selected, Identity{})
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			if want := decimal.RequireFromString(tc.want); !p.Score.Equal(want) {
				t.Fatalf("expected score %s, got %s", want, p.Score)
			}
			if p.SubmittedAt == nil {
				t.Fatal("expected submitted_at to be set")
			}
		})
	}
}

func TestCrossQuestionContamination(t *testing.T) {
	service, _ := newTestService()

	// 20 is correct, but for question 2; it must not complete question 1's
	// correct set {10,11}.
	p, err := service.SubmitAnswers(context.Background(), testQuizID, []uint{10, 20}, Identity{})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if want := decimal.RequireFromString("50"); !p.Score.Equal(want) {
		t.Fatalf("expected score %s, got %s", want, p.Score)
	}
}

func TestQuestionWithNoCorrectResponses(t *testing.T) {
	service, _ := newTestService()

	p, err := service.SubmitAnswers(context.Background(), 3, nil, Identity{})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if want := decimal.RequireFromString("100"); !p.Score.Equal(want) {
		t.Fatalf("selecting nothing for an all-incorrect question should count correct, got %s", p.Score)
	}

	p, err = service.SubmitAnswers(context.Background(), 3, []uint{40}, Identity{})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !p.Score.Equal(decimal.Zero) {
		t.Fatalf("selecting an incorrect response should count incorrect, got %s", p.Score)
	}
}

func TestSubmitAnswersEmptyQuiz(t *testing.T) {
	service, _ := newTestService()

	p, err := service.SubmitAnswers(context.Background(), emptyQuizID, []uint{10, 20}, Identity{})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got := p.Score.StringFixed(2); got != "0.00" {
		t.Fatalf("expected 0.00 for a quiz without questions, got %s", got)
	}
}

func TestSubmitAnswersUnknownQuiz(t *testing.T) {
	service, _ := newTestService()

	_, err := service.SubmitAnswers(context.Background(), 999, nil, Identity{})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestScoreRounding(t *testing.T) {
	questions := []models.Question{
		{ID: 1, QuizID: 1}, {ID: 2, QuizID: 1}, {ID: 3, QuizID: 1},
	}
	responses := []models.Response{
		{ID: 10, QuestionID: 1, IsCorrect: true},
		{ID: 20, QuestionID: 2, IsCorrect: true},
		{ID: 30, QuestionID: 3, IsCorrect: true},
	}

	if got := scoreSubmission(questions, responses, []uint{10}).StringFixed(2); got != "33.33" {
		t.Fatalf("expected 33.33 for 1/3, got %s", got)
	}
	if got := scoreSubmission(questions, responses, []uint{10, 20}).StringFixed(2); got != "66.67" {
		t.Fatalf("expected 66.67 for 2/3, got %s", got)
	}
}

func TestSubmitTwiceConflicts(t *testing.T) {
	service, store := newTestService()
	ident := Identity{UserID: uintPtr(42)}

	first, err := service.SubmitAnswers(context.Background(), testQuizID, []uint{10, 11, 20}, ident)
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err = service.SubmitAnswers(context.Background(), testQuizID, nil, ident)
	if KindOf(err) != KindConflict {
		t.Fatalf("expected Conflict on second submit, got %v", err)
	}

	// The first score must survive untouched.
	stored, err := store.ForIdentity(context.Background(), testQuizID, ident)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !stored.Score.Equal(first.Score) {
		t.Fatalf("second submit overwrote the score: %s != %s", stored.Score, first.Score)
	}
}

func TestGuestSubmitTwiceConflicts(t *testing.T) {
	service, _ := newTestService()
	ident := Identity{GuestID: uintPtr(5)}

	if _, err := service.SubmitAnswers(context.Background(), testQuizID, nil, ident); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := service.SubmitAnswers(context.Background(), testQuizID, nil, ident)
	if KindOf(err) != KindConflict {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestBothIdentitiesRejected(t *testing.T) {
	service, _ := newTestService()

	_, err := service.SubmitAnswers(context.Background(), testQuizID, nil,
		Identity{UserID: uintPtr(1), GuestID: uintPtr(2)})
	if KindOf(err) != KindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestAnonymousSubmissionsAreUntracked(t *testing.T) {
	service, _ := newTestService()

	for i := 0; i < 2; i++ {
		if _, err := service.SubmitAnswers(context.Background(), testQuizID, nil, Identity{}); err != nil {
			t.Fatalf("anonymous submit %d failed: %v", i, err)
		}
	}

	participations, err := service.ListForQuiz(context.Background(), testQuizID, testProfessorID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(participations) != 2 {
		t.Fatalf("expected 2 untracked participations, got %d", len(participations))
	}
}

func TestRegisterByCodeUnknownCode(t *testing.T) {
	service, _ := newTestService()

	_, err := service.RegisterByCode(context.Background(), "NOPE0000", Identity{UserID: uintPtr(1)})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRegisterByCodePlaceholderLifecycle(t *testing.T) {
	service, _ := newTestService()
	ident := Identity{UserID: uintPtr(42)}

	// Lowercase input resolves against the stored uppercase code.
	placeholder, err := service.RegisterByCode(context.Background(), "ab12cd34", ident)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if got := placeholder.Score.StringFixed(2); got != "0.00" {
		t.Fatalf("placeholder score should be 0.00, got %s", got)
	}
	if placeholder.SubmittedAt != nil {
		t.Fatal("placeholder should not be marked submitted")
	}

	// Joining again is idempotent: same row, no conflict.
	again, err := service.RegisterByCode(context.Background(), testQuizCode, ident)
	if err != nil {
		t.Fatalf("repeat join failed: %v", err)
	}
	if again.ID != placeholder.ID {
		t.Fatalf("expected the same placeholder row, got %d and %d", placeholder.ID, again.ID)
	}

	// Submitting upgrades the placeholder in place.
	submitted, err := service.SubmitAnswers(context.Background(), testQuizID, []uint{10, 11, 20}, ident)
	if err != nil {
		t.Fatalf("submit after join failed: %v", err)
	}
	if submitted.ID != placeholder.ID {
		t.Fatalf("submit should reuse the placeholder row, got %d and %d", placeholder.ID, submitted.ID)
	}
	if want := decimal.RequireFromString("100"); !submitted.Score.Equal(want) {
		t.Fatalf("expected score %s, got %s", want, submitted.Score)
	}

	// Once submitted, both paths conflict.
	if _, err := service.RegisterByCode(context.Background(), testQuizCode, ident); KindOf(err) != KindConflict {
		t.Fatalf("expected Conflict on join after submit, got %v", err)
	}
	if _, err := service.SubmitAnswers(context.Background(), testQuizID, nil, ident); KindOf(err) != KindConflict {
		t.Fatalf("expected Conflict on second submit, got %v", err)
	}
}

func TestListForQuizOwnership(t *testing.T) {
	service, _ := newTestService()

	if _, err := service.SubmitAnswers(context.Background(), testQuizID, nil, Identity{UserID: uintPtr(1)}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.SubmitAnswers(context.Background(), testQuizID, nil, Identity{UserID: uintPtr(2)}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	participations, err := service.ListForQuiz(context.Background(), testQuizID, testProfessorID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(participations) != 2 {
		t.Fatalf("expected 2 participations, got %d", len(participations))
	}
	if participations[0].ID > participations[1].ID {
		t.Fatal("expected creation order")
	}

	// A valid professor who does not own the quiz is still rejected.
	_, err = service.ListForQuiz(context.Background(), testQuizID, testProfessorID+1)
	if KindOf(err) != KindForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	_, err = service.ListForQuiz(context.Background(), 999, testProfessorID)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestListForUser(t *testing.T) {
	service, _ := newTestService()
	ident := Identity{UserID: uintPtr(42)}

	if _, err := service.SubmitAnswers(context.Background(), testQuizID, nil, ident); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.SubmitAnswers(context.Background(), emptyQuizID, nil, ident); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.SubmitAnswers(context.Background(), testQuizID, nil, Identity{UserID: uintPtr(7)}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	participations, err := service.ListForUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(participations) != 2 {
		t.Fatalf("expected 2 participations for user 42, got %d", len(participations))
	}
}

func TestParticipationViews(t *testing.T) {
	service, _ := newTestService()

	p, err := service.SubmitAnswers(context.Background(), testQuizID, []uint{10, 11, 20}, Identity{UserID: uintPtr(42)})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	view, err := service.View(context.Background(), p)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if view.Quiz.ID != testQuizID || view.Quiz.Code != testQuizCode || view.Quiz.Title != "Networking basics" {
		t.Fatalf("unexpected quiz summary: %+v", view.Quiz)
	}
	if view.UserID == nil || *view.UserID != 42 || view.GuestID != nil {
		t.Fatalf("unexpected identity on view: %+v", view)
	}
}
