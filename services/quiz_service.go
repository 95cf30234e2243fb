package services

import (
	"context"
	"errors"
	"strings"

	"quizbackend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizService struct {
	db    *gorm.DB
	cache *QuizCache
}

func NewQuizService(db *gorm.DB, cache *QuizCache) *QuizService {
	return &QuizService{db: db, cache: cache}
}

type CreateQuizRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Duration    int                     `json:"duration" binding:"omitempty,min=1,max=600"`
	Questions   []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	QuestionText string                  `json:"question_text" binding:"required"`
	Responses    []CreateResponseRequest `json:"responses"`
}

type CreateResponseRequest struct {
	ResponseText string `json:"response_text" binding:"required"`
	IsCorrect    bool   `json:"is_correct"`
}

type UpdateQuizRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    *int   `json:"duration" binding:"omitempty,min=1,max=600"`
}

func (s *QuizService) CreateQuiz(ctx context.Context, professorID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	code, err := s.generateUniqueCode(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		ProfessorID: professorID,
		Code:        code,
	}

	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, qReq := range req.Questions {
		question := models.Question{
			QuizID:       quiz.ID,
			QuestionText: qReq.QuestionText,
		}

		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		for _, rReq := range qReq.Responses {
			response := models.Response{
				QuestionID:   question.ID,
				ResponseText: rReq.ResponseText,
				IsCorrect:    rReq.IsCorrect,
			}

			if err := tx.Create(&response).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetQuizByID(ctx, quiz.ID)
}

func (s *QuizService) GetQuizByID(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("responses.id")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("quiz not found")
		}
		return nil, err
	}
	return &quiz, nil
}

// GetOwnedQuiz fetches a quiz and verifies ownership. The quiz is looked
// up by id alone first so a foreign professor gets Forbidden, not NotFound.
func (s *QuizService) GetOwnedQuiz(ctx context.Context, quizID, professorID uint) (*models.Quiz, error) {
	quiz, err := s.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.ProfessorID != professorID {
		return nil, ForbiddenError("not the owner of this quiz")
	}
	return quiz, nil
}

func (s *QuizService) GetQuizByCode(ctx context.Context, code string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Where("code = ?", NormalizeQuizCode(code)).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("responses.id")
		}).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("quiz not found")
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) GetProfessorQuizzes(ctx context.Context, professorID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("responses.id")
		}).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) GetAllQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) UpdateQuiz(ctx context.Context, quizID, professorID uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.GetOwnedQuiz(ctx, quizID, professorID)
	if err != nil {
		return nil, err
	}

	// The join code is immutable; only title, description and duration move.
	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if req.Duration != nil {
		quiz.Duration = *req.Duration
	}

	if err := s.db.WithContext(ctx).Save(quiz).Error; err != nil {
		return nil, err
	}

	return s.GetQuizByID(ctx, quiz.ID)
}

func (s *QuizService) DeleteQuiz(ctx context.Context, quizID, professorID uint) error {
	quiz, err := s.GetOwnedQuiz(ctx, quizID, professorID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Quiz{}, quiz.ID).Error; err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, quiz.Code)
	}
	return nil
}

func (s *QuizService) AddQuestion(ctx context.Context, quizID, professorID uint, req *CreateQuestionRequest) (*models.Question, error) {
	if _, err := s.GetOwnedQuiz(ctx, quizID, professorID); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	question := models.Question{
		QuizID:       quizID,
		QuestionText: req.QuestionText,
	}

	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, rReq := range req.Responses {
		response := models.Response{
			QuestionID:   question.ID,
			ResponseText: rReq.ResponseText,
			IsCorrect:    rReq.IsCorrect,
		}

		if err := tx.Create(&response).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("responses.id")
		}).
		First(&question, question.ID).Error
	return &question, err
}

func (s *QuizService) AddResponse(ctx context.Context, questionID, professorID uint, req *CreateResponseRequest) (*models.Response, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("question not found")
		}
		return nil, err
	}

	if _, err := s.GetOwnedQuiz(ctx, question.QuizID, professorID); err != nil {
		return nil, err
	}

	response := models.Response{
		QuestionID:   questionID,
		ResponseText: req.ResponseText,
		IsCorrect:    req.IsCorrect,
	}

	if err := s.db.WithContext(ctx).Create(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

// generateUniqueCode draws 8-char uppercase codes from a random 128-bit
// identifier until one is free. Collisions on 8 hex chars are rare enough
// that the loop almost never runs twice.
func (s *QuizService) generateUniqueCode(tx *gorm.DB) (string, error) {
	for {
		code := randomQuizCode()

		var count int64
		if err := tx.Model(&models.Quiz{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}

func randomQuizCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
