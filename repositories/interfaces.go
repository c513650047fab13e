package repositories

import (
	"context"

	"warbler/models"
)

// UserRepository is the user directory and the follow graph.
// Lists are snapshots; edge lists come back in insertion order.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Search matches q as a case-insensitive substring of the username.
	// An empty q returns every user.
	Search(ctx context.Context, q string) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, username string) (bool, error)

	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id uint) (*models.Message, error)
	// Delete removes the message if requesterID owns it.
	Delete(ctx context.Context, id, requesterID uint) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	// Timeline returns the user's messages and those of everyone they follow, newest first.
	Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	Latest(ctx context.Context, limit int) ([]models.Message, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type LikeRepository interface {
	// Toggle removes the (user, message) like if present and adds it otherwise.
	// It reports whether the message is liked afterwards and the user's like count.
	Toggle(ctx context.Context, userID, messageID uint) (liked bool, total int64, err error)
	LikedMessages(ctx context.Context, userID uint) ([]models.Message, error)
	LikedMessageIDs(ctx context.Context, userID uint) ([]uint, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountByMessage(ctx context.Context, messageID uint) (int64, error)
}
