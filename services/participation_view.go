package services

import (
	"context"
	"time"

	"quizbackend/models"

	"github.com/shopspring/decimal"
)

// ParticipationView is the flattened shape returned to clients. Raw
// participation rows never cross the API boundary; the embedded quiz
// summary is materialized here so handlers don't chase relations.
type ParticipationView struct {
	ID        uint            `json:"id"`
	Score     decimal.Decimal `json:"score"`
	CreatedAt time.Time       `json:"createdAt"`
	UserID    *uint           `json:"userId"`
	GuestID   *uint           `json:"guestId"`
	Quiz      QuizSummary     `json:"quiz"`
}

type QuizSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

func (s *ParticipationService) View(ctx context.Context, p *models.Participation) (*ParticipationView, error) {
	views, err := s.Views(ctx, []models.Participation{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ParticipationService) Views(ctx context.Context, participations []models.Participation) ([]ParticipationView, error) {
	summaries := make(map[uint]QuizSummary)
	views := make([]ParticipationView, 0, len(participations))

	for _, p := range participations {
		summary, ok := summaries[p.QuizID]
		if !ok {
			quiz, err := s.quizzes.QuizByID(ctx, p.QuizID)
			if err != nil {
				return nil, err
			}
			summary = QuizSummary{ID: quiz.ID, Title: quiz.Title, Code: quiz.Code}
			summaries[p.QuizID] = summary
		}
		views = append(views, ParticipationView{
			ID:        p.ID,
			Score:     p.Score,
			CreatedAt: p.CreatedAt,
			UserID:    p.UserID,
			GuestID:   p.GuestID,
			Quiz:      summary,
		})
	}
	return views, nil
}
