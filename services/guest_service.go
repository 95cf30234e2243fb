package services

import (
	"context"

	"quizbackend/models"

	"gorm.io/gorm"
)

// GuestService hands out server-issued guest identities so anonymous
// participants can still be held to the one-participation-per-quiz rule.
type GuestService struct {
	db *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{db: db}
}

func (s *GuestService) IssueGuest(ctx context.Context) (*models.Guest, error) {
	guest := models.Guest{}
	if err := s.db.WithContext(ctx).Create(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}
