package models

// Follow is a directed edge: UserFollowingID follows UserBeingFollowedID.
type Follow struct {
	ID                  uint `gorm:"primaryKey"`
	UserBeingFollowedID uint `gorm:"not null;uniqueIndex:idx_follows_pair"`
	UserFollowingID     uint `gorm:"not null;uniqueIndex:idx_follows_pair;index"`
	UserBeingFollowed   User `gorm:"foreignKey:UserBeingFollowedID;constraint:OnDelete:CASCADE"`
	UserFollowing       User `gorm:"foreignKey:UserFollowingID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM
func (Follow) TableName() string {
	return "follows"
}
