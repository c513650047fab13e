package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warbler/apperrors"
	"warbler/models"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create a new user. Duplicate usernames or emails fail with a constraint error.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil && apperrors.KindOf(translate(err, "user")) == apperrors.KindConstraint {
		return apperrors.Constraint(r.duplicateMessage(ctx, user), err)
	}
	return translate(err, "user")
}

func (r *userRepository) duplicateMessage(ctx context.Context, user *models.User) string {
	if exists, _ := r.Exists(ctx, user.Username); exists {
		return "Username already taken"
	}
	return "Email already taken"
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *userRepository) Search(ctx context.Context, q string) ([]models.User, error) {
	query := r.db.WithContext(ctx).Order("id")
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where(`LOWER(username) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q))+"%")
	}
	var users []models.User
	err := query.Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil && apperrors.KindOf(translate(err, "user")) == apperrors.KindConstraint {
		var other models.User
		if r.db.WithContext(ctx).Where("username = ? AND id <> ?", user.Username, user.ID).First(&other).Error == nil {
			return apperrors.Constraint("Username already taken", err)
		}
		return apperrors.Constraint("Email already taken", err)
	}
	return translate(err, "user")
}

// Delete removes the user; messages, follows and likes cascade.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// Check if a user exists by username
func (r *userRepository) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Follow a user. Following an already followed user is a no-op.
func (r *userRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return apperrors.Validation("You cannot follow yourself")
	}
	follow := models.Follow{UserFollowingID: followerID, UserBeingFollowedID: followedID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
	return translate(err, "follow")
}

// Unfollow a user
func (r *userRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	return translate(err, "follow")
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Take(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// IsFollowedBy reports whether otherID follows userID.
func (r *userRepository) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return r.IsFollowing(ctx, otherID, userID)
}

// Get followers of a user
func (r *userRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("INNER JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", userID).
		Order("follows.id").
		Find(&users).Error
	return users, err
}

// Get the users a user follows
func (r *userRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("INNER JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", userID).
		Order("follows.id").
		Find(&users).Error
	return users, err
}

func (r *userRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_following_id = ?", userID).
		Order("id").
		Pluck("user_being_followed_id", &ids).Error
	return ids, err
}

func (r *userRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_being_followed_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *userRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_following_id = ?", userID).
		Count(&count).Error
	return count, err
}
