package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent       = "STUDENT"
	RoleProfessorFree = "PROFESSOR_FREE"
	RoleProfessorVIP  = "PROFESSOR_VIP"
	RoleAdmin         = "ADMIN"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      string         `json:"role" gorm:"not null"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsProfessor reports whether the user may author quizzes.
func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessorFree || u.Role == RoleProfessorVIP || u.Role == RoleAdmin
}
