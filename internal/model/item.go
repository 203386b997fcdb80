package model

import "time"

// Item is publicly listed but mutable only by its author. Author is the
// owning user's username, set at creation and immutable thereafter.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Author    string    `gorm:"size:25;not null;index" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
