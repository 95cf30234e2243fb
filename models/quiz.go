package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	ProfessorID uint           `json:"professor_id" gorm:"not null"`
	Code        string         `json:"code" gorm:"uniqueIndex;not null;size:8"` // immutable after creation
	Duration    int            `json:"duration"`                                // minutes, 0 = untimed
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Professor      User            `json:"professor,omitempty" gorm:"foreignKey:ProfessorID"`
	Questions      []Question      `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Participations []Participation `json:"participations,omitempty" gorm:"foreignKey:QuizID"`
}
