package services

import "quizbackend/models"

// QuizPreview is what joiners see before submitting.
type QuizPreview struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Code        string            `json:"code"`
	Duration    int               `json:"duration"`
	Questions   []QuestionPreview `json:"questions"`
}

type QuestionPreview struct {
	ID           uint              `json:"id"`
	QuestionText string            `json:"question_text"`
	Responses    []ResponsePreview `json:"responses"`
}

type ResponsePreview struct {
	ID           uint   `json:"id"`
	ResponseText string `json:"response_text"`
	// Don't include IsCorrect before submission
}

func NewQuizPreview(quiz *models.Quiz) *QuizPreview {
	preview := &QuizPreview{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Code:        quiz.Code,
		Duration:    quiz.Duration,
		Questions:   make([]QuestionPreview, len(quiz.Questions)),
	}

	for i, question := range quiz.Questions {
		qp := QuestionPreview{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			Responses:    make([]ResponsePreview, len(question.Responses)),
		}
		for j, response := range question.Responses {
			qp.Responses[j] = ResponsePreview{
				ID:           response.ID,
				ResponseText: response.ResponseText,
				// IsCorrect is intentionally omitted
			}
		}
		preview.Questions[i] = qp
	}
	return preview
}
