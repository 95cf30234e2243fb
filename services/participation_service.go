package services

import (
	"context"
	"strings"
	"time"

	"quizbackend/models"

	"github.com/shopspring/decimal"
)

// Identity is the submitting party: at most one of UserID/GuestID is set.
// Both nil means an anonymous untracked submission (allowed, no duplicate
// guard applies).
type Identity struct {
	UserID  *uint
	GuestID *uint
}

func (i Identity) Tracked() bool {
	return i.UserID != nil || i.GuestID != nil
}

func (i Identity) valid() bool {
	return i.UserID == nil || i.GuestID == nil
}

// QuizReader is the read-only quiz lookup surface the participation engine
// depends on. Implementations return a NotFound kinded error when the quiz
// does not exist.
type QuizReader interface {
	QuizByID(ctx context.Context, quizID uint) (*models.Quiz, error)
	QuizByCode(ctx context.Context, code string) (*models.Quiz, error)
	// AnswerKey returns the quiz's questions in insertion order together
	// with every response belonging to them.
	AnswerKey(ctx context.Context, quizID uint) ([]models.Question, []models.Response, error)
}

// ParticipationStore persists participations. Create must fail with a
// Conflict kinded error when a row for the same (quiz, identity) already
// exists, and MarkSubmitted must only touch rows that are still
// unsubmitted, so that concurrent submissions from the same identity can
// never both win.
type ParticipationStore interface {
	ForIdentity(ctx context.Context, quizID uint, ident Identity) (*models.Participation, error)
	Create(ctx context.Context, p *models.Participation) error
	MarkSubmitted(ctx context.Context, p *models.Participation) error
	ByQuiz(ctx context.Context, quizID uint) ([]models.Participation, error)
	ByUser(ctx context.Context, userID uint) ([]models.Participation, error)
}

// ParticipationService owns duplicate-participation prevention, answer-set
// evaluation and score computation. It holds no state of its own; every
// call is a short-lived unit of work against the stores.
type ParticipationService struct {
	quizzes QuizReader
	parts   ParticipationStore
}

func NewParticipationService(quizzes QuizReader, parts ParticipationStore) *ParticipationService {
	return &ParticipationService{
		quizzes: quizzes,
		parts:   parts,
	}
}

// SubmitAnswers evaluates the selected response ids against the quiz's
// answer key and records the attempt. A join placeholder created earlier
// by RegisterByCode is upgraded in place; a second completed attempt for
// the same identity fails with Conflict.
func (s *ParticipationService) SubmitAnswers(ctx context.Context, quizID uint, selectedResponseIDs []uint, ident Identity) (*models.Participation, error) {
	if !ident.valid() {
		return nil, ValidationError("provide either a user identity or a guest id, not both")
	}

	quiz, err := s.quizzes.QuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var existing *models.Participation
	if ident.Tracked() {
		existing, err = s.parts.ForIdentity(ctx, quiz.ID, ident)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.SubmittedAt != nil {
			return nil, ConflictError("already participated in this quiz")
		}
	}

	questions, responses, err := s.quizzes.AnswerKey(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}

	score := scoreSubmission(questions, responses, selectedResponseIDs)
	now := time.Now().UTC()

	if existing != nil {
		existing.Score = score
		existing.SubmittedAt = &now
		if err := s.parts.MarkSubmitted(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	participation := &models.Participation{
		QuizID:      quiz.ID,
		UserID:      ident.UserID,
		GuestID:     ident.GuestID,
		Score:       score,
		SubmittedAt: &now,
	}
	if err := s.parts.Create(ctx, participation); err != nil {
		return nil, err
	}
	return participation, nil
}

// RegisterByCode records intent to participate before answers are
// submitted. The placeholder carries a 0.00 score and no submission time.
// Calling it again for the same identity returns the existing placeholder
// unchanged; once the identity has a completed attempt it conflicts.
func (s *ParticipationService) RegisterByCode(ctx context.Context, code string, ident Identity) (*models.Participation, error) {
	if !ident.valid() {
		return nil, ValidationError("provide either a user identity or a guest id, not both")
	}

	quiz, err := s.quizzes.QuizByCode(ctx, NormalizeQuizCode(code))
	if err != nil {
		return nil, err
	}

	if ident.Tracked() {
		existing, err := s.parts.ForIdentity(ctx, quiz.ID, ident)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.SubmittedAt != nil {
				return nil, ConflictError("already participated in this quiz")
			}
			return existing, nil
		}
	}

	participation := &models.Participation{
		QuizID:  quiz.ID,
		UserID:  ident.UserID,
		GuestID: ident.GuestID,
		Score:   decimal.Zero,
	}
	if err := s.parts.Create(ctx, participation); err != nil {
		return nil, err
	}
	return participation, nil
}

// ListForQuiz returns a quiz's participations for its owning professor.
func (s *ParticipationService) ListForQuiz(ctx context.Context, quizID, professorID uint) ([]models.Participation, error) {
	quiz, err := s.quizzes.QuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.ProfessorID != professorID {
		return nil, ForbiddenError("not the owner of this quiz")
	}
	return s.parts.ByQuiz(ctx, quiz.ID)
}

// ListForUser returns every participation of an authenticated user.
func (s *ParticipationService) ListForUser(ctx context.Context, userID uint) ([]models.Participation, error) {
	return s.parts.ByUser(ctx, userID)
}

// scoreSubmission computes the all-or-nothing percentage score. A question
// counts as correct only when the responses selected for it are exactly
// its correct-response set. Selected ids that match no response of the
// quiz contribute nothing.
func scoreSubmission(questions []models.Question, responses []models.Response, selectedResponseIDs []uint) decimal.Decimal {
	if len(questions) == 0 {
		return decimal.Zero
	}

	selected := make(map[uint]bool, len(selectedResponseIDs))
	for _, id := range selectedResponseIDs {
		selected[id] = true
	}

	byQuestion := make(map[uint][]models.Response, len(questions))
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r)
	}

	correctCount := 0
	for _, q := range questions {
		wanted, chosen := 0, 0
		allCorrect := true
		for _, r := range byQuestion[q.ID] {
			if r.IsCorrect {
				wanted++
			}
			if selected[r.ID] {
				chosen++
				if !r.IsCorrect {
					allCorrect = false
				}
			}
		}
		if allCorrect && chosen == wanted {
			correctCount++
		}
	}

	// round(correct/total*100, 2, half-up)
	return decimal.NewFromInt(int64(correctCount) * 100).
		DivRound(decimal.NewFromInt(int64(len(questions))), 2)
}

// NormalizeQuizCode maps user-entered codes onto the stored uppercase form.
func NormalizeQuizCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
