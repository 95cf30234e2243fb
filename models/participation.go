package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Participation is one attempt at a quiz by one identity. Exactly one of
// UserID/GuestID is set for tracked attempts; both are nil for anonymous
// untracked submissions. A nil SubmittedAt marks a join placeholder that
// has not been scored yet.
//
// Rows are append-only except for the single placeholder upgrade performed
// when answers arrive; there is no update or delete path. Uniqueness of
// (quiz_id, user_id) and (quiz_id, guest_id) is enforced with partial
// unique indexes created at migration time.
type Participation struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	QuizID      uint            `json:"quiz_id" gorm:"not null;index"`
	UserID      *uint           `json:"user_id" gorm:"index"`
	GuestID     *uint           `json:"guest_id" gorm:"index"`
	Score       decimal.Decimal `json:"score" gorm:"type:decimal(5,2);not null"`
	SubmittedAt *time.Time      `json:"submitted_at"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Quiz  Quiz   `json:"quiz,omitempty"`
	User  *User  `json:"user,omitempty"`
	Guest *Guest `json:"guest,omitempty"`
}
