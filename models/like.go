package models

// Like records that a user liked a message. One row per (user, message).
type Like struct {
	ID        uint    `gorm:"primaryKey"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_likes_pair"`
	MessageID uint    `gorm:"not null;uniqueIndex:idx_likes_pair;index"`
	User      User    `gorm:"constraint:OnDelete:CASCADE"`
	Message   Message `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM
func (Like) TableName() string {
	return "likes"
}
