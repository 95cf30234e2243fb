package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	QuizID       uint           `json:"quiz_id" gorm:"not null;index"`
	QuestionText string         `json:"question_text" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz      Quiz       `json:"quiz,omitempty"`
	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:QuestionID"`
}
