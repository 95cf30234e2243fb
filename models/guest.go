package models

import "time"

// Guest is a server-issued identity for unauthenticated participants,
// mutually exclusive with a user id on a participation.
type Guest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
