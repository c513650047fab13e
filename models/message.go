package models

import "time"

// MaxMessageLength bounds Message.Text, counted in runes.
const MaxMessageLength = 140

// Message represents a message in the system
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:140;not null"`
	Timestamp time.Time `gorm:"not null;autoCreateTime;index"`
	UserID    uint      `gorm:"not null;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM
func (Message) TableName() string {
	return "messages"
}
