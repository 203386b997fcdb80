package model

import "time"

// User is created once at registration and never mutated afterwards.
// The password is stored only as a bcrypt hash.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	Username     string    `gorm:"size:25;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:50;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
