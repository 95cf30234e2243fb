package services

import (
	"context"
	"errors"

	"quizbackend/models"

	"gorm.io/gorm"
)

// GormQuizReader serves the participation engine's read-only quiz lookups
// from the relational store, with join-code lookups going through the
// redis cache when one is configured.
type GormQuizReader struct {
	db    *gorm.DB
	cache *QuizCache
}

func NewGormQuizReader(db *gorm.DB, cache *QuizCache) *GormQuizReader {
	return &GormQuizReader{db: db, cache: cache}
}

func (r *GormQuizReader) QuizByID(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("quiz not found")
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *GormQuizReader) QuizByCode(ctx context.Context, code string) (*models.Quiz, error) {
	load := func() (*models.Quiz, error) {
		var quiz models.Quiz
		if err := r.db.WithContext(ctx).Where("code = ?", code).First(&quiz).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NotFoundError("quiz not found")
			}
			return nil, err
		}
		return &quiz, nil
	}

	if r.cache == nil {
		return load()
	}
	return r.cache.QuizByCode(ctx, code, load)
}

func (r *GormQuizReader) AnswerKey(ctx context.Context, quizID uint) ([]models.Question, []models.Response, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("id").
		Find(&questions).Error; err != nil {
		return nil, nil, err
	}
	if len(questions) == 0 {
		return questions, nil, nil
	}

	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	var responses []models.Response
	if err := r.db.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("id").
		Find(&responses).Error; err != nil {
		return nil, nil, err
	}
	return questions, responses, nil
}

// GormParticipationStore persists participations. The duplicate guard is
// ultimately enforced by the partial unique indexes on (quiz_id, user_id)
// and (quiz_id, guest_id): a concurrent submission that slips past the
// existence check lands on the index and comes back as a Conflict.
type GormParticipationStore struct {
	db *gorm.DB
}

func NewGormParticipationStore(db *gorm.DB) *GormParticipationStore {
	return &GormParticipationStore{db: db}
}

func (s *GormParticipationStore) ForIdentity(ctx context.Context, quizID uint, ident Identity) (*models.Participation, error) {
	query := s.db.WithContext(ctx).Where("quiz_id = ?", quizID)
	switch {
	case ident.UserID != nil:
		query = query.Where("user_id = ?", *ident.UserID)
	case ident.GuestID != nil:
		query = query.Where("guest_id = ?", *ident.GuestID)
	default:
		return nil, nil
	}

	var participation models.Participation
	if err := query.First(&participation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &participation, nil
}

func (s *GormParticipationStore) Create(ctx context.Context, p *models.Participation) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ConflictError("already participated in this quiz")
		}
		return err
	}
	return nil
}

func (s *GormParticipationStore) MarkSubmitted(ctx context.Context, p *models.Participation) error {
	result := s.db.WithContext(ctx).Model(&models.Participation{}).
		Where("id = ? AND submitted_at IS NULL", p.ID).
		Updates(map[string]interface{}{
			"score":        p.Score,
			"submitted_at": p.SubmittedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race against another submission for the same placeholder.
		return ConflictError("already participated in this quiz")
	}
	return nil
}

func (s *GormParticipationStore) ByQuiz(ctx context.Context, quizID uint) ([]models.Participation, error) {
	var participations []models.Participation
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at, id").
		Find(&participations).Error
	return participations, err
}

func (s *GormParticipationStore) ByUser(ctx context.Context, userID uint) ([]models.Participation, error) {
	var participations []models.Participation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&participations).Error
	return participations, err
}
