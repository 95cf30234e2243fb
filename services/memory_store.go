package services

import (
	"context"
	"sync"
	"time"

	"quizbackend/models"
)

// MemoryQuizReader is a fixed in-memory QuizReader used by tests and local
// development; it mirrors the lookup semantics of GormQuizReader.
type MemoryQuizReader struct {
	quizzes   []models.Quiz
	questions []models.Question
	responses []models.Response
}

func NewMemoryQuizReader(quizzes []models.Quiz, questions []models.Question, responses []models.Response) *MemoryQuizReader {
	return &MemoryQuizReader{
		quizzes:   quizzes,
		questions: questions,
		responses: responses,
	}
}

func (r *MemoryQuizReader) QuizByID(ctx context.Context, quizID uint) (*models.Quiz, error) {
	for i := range r.quizzes {
		if r.quizzes[i].ID == quizID {
			quiz := r.quizzes[i]
			return &quiz, nil
		}
	}
	return nil, NotFoundError("quiz not found")
}

func (r *MemoryQuizReader) QuizByCode(ctx context.Context, code string) (*models.Quiz, error) {
	for i := range r.quizzes {
		if r.quizzes[i].Code == code {
			quiz := r.quizzes[i]
			return &quiz, nil
		}
	}
	return nil, NotFoundError("quiz not found")
}

func (r *MemoryQuizReader) AnswerKey(ctx context.Context, quizID uint) ([]models.Question, []models.Response, error) {
	var questions []models.Question
	questionIDs := make(map[uint]bool)
	for _, q := range r.questions {
		if q.QuizID == quizID {
			questions = append(questions, q)
			questionIDs[q.ID] = true
		}
	}

	var responses []models.Response
	for _, resp := range r.responses {
		if questionIDs[resp.QuestionID] {
			responses = append(responses, resp)
		}
	}
	return questions, responses, nil
}

// MemoryParticipationStore keeps participations in insertion order behind a
// mutex so the check-then-insert sequence stays atomic, matching what the
// partial unique indexes guarantee in the relational store.
type MemoryParticipationStore struct {
	mu             sync.Mutex
	nextID         uint
	participations []models.Participation
}

func NewMemoryParticipationStore() *MemoryParticipationStore {
	return &MemoryParticipationStore{nextID: 1}
}

func (s *MemoryParticipationStore) ForIdentity(ctx context.Context, quizID uint, ident Identity) (*models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexForIdentity(quizID, ident); i >= 0 {
		p := s.participations[i]
		return &p, nil
	}
	return nil, nil
}

func (s *MemoryParticipationStore) Create(ctx context.Context, p *models.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ident := Identity{UserID: p.UserID, GuestID: p.GuestID}
	if ident.Tracked() && s.indexForIdentity(p.QuizID, ident) >= 0 {
		return ConflictError("already participated in this quiz")
	}

	p.ID = s.nextID
	s.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.participations = append(s.participations, *p)
	return nil
}

func (s *MemoryParticipationStore) MarkSubmitted(ctx context.Context, p *models.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.participations {
		if s.participations[i].ID == p.ID {
			if s.participations[i].SubmittedAt != nil {
				return ConflictError("already participated in this quiz")
			}
			s.participations[i].Score = p.Score
			s.participations[i].SubmittedAt = p.SubmittedAt
			return nil
		}
	}
	return NotFoundError("participation not found")
}

func (s *MemoryParticipationStore) ByQuiz(ctx context.Context, quizID uint) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Participation
	for _, p := range s.participations {
		if p.QuizID == quizID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryParticipationStore) ByUser(ctx context.Context, userID uint) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Participation
	for _, p := range s.participations {
		if p.UserID != nil && *p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryParticipationStore) indexForIdentity(quizID uint, ident Identity) int {
	for i := range s.participations {
		p := &s.participations[i]
		if p.QuizID != quizID {
			continue
		}
		if ident.UserID != nil && p.UserID != nil && *p.UserID == *ident.UserID {
			return i
		}
		if ident.GuestID != nil && p.GuestID != nil && *p.GuestID == *ident.GuestID {
			return i
		}
	}
	return -1
}
