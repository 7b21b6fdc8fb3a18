package model

import "time"

// ChatMessage is a single chat line as it is stored and listed on page load.
type ChatMessage struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Nickname  string    `json:"nickname" gorm:"type:varchar(50);not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// TableName keeps the GORM mapping on the same table the migrations create.
func (ChatMessage) TableName() string {
	return "messages"
}
