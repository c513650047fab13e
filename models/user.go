package models

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.png"
)

// User represents a user in the database
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:40;not null;uniqueIndex"`
	Email          string `gorm:"size:50;not null;uniqueIndex"`
	Password       string `gorm:"not null" json:"-"`
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}
