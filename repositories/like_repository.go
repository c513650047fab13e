package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"warbler/models"
)

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, userID, messageID uint) (bool, int64, error) {
	var liked bool
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.Select("id").First(&message, messageID).Error; err != nil {
			return translate(err, "message")
		}

		var like models.Like
		err := tx.Where("user_id = ? AND message_id = ?", userID, messageID).Take(&like).Error
		switch {
		case err == nil:
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			like = models.Like{UserID: userID, MessageID: messageID}
			if err := tx.Omit("User", "Message").Create(&like).Error; err != nil {
				return translate(err, "like")
			}
			liked = true
		default:
			return err
		}

		return tx.Model(&models.Like{}).Where("user_id = ?", userID).Count(&total).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, total, nil
}

func (r *likeRepository) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Joins("INNER JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Preload("User").
		Order("likes.id").
		Find(&messages).Error
	return messages, err
}

func (r *likeRepository) LikedMessageIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("message_id", &ids).Error
	return ids, err
}

func (r *likeRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *likeRepository) CountByMessage(ctx context.Context, messageID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("message_id = ?", messageID).Count(&count).Error
	return count, err
}
