package repositories

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"warbler/apperrors"
	"warbler/models"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if strings.TrimSpace(message.Text) == "" {
		return apperrors.Validation("Message text is required")
	}
	if utf8.RuneCountInString(message.Text) > models.MaxMessageLength {
		return apperrors.Validation(fmt.Sprintf("Message text must be at most %d characters", models.MaxMessageLength))
	}
	if message.UserID == 0 {
		return apperrors.Validation("Message owner is required")
	}
	return translate(r.db.WithContext(ctx).Omit("User").Create(message).Error, "message")
}

func (r *messageRepository) FindByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
		return nil, translate(err, "message")
	}
	return &message, nil
}

func (r *messageRepository) Delete(ctx context.Context, id, requesterID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.First(&message, id).Error; err != nil {
			return translate(err, "message")
		}
		if message.UserID != requesterID {
			return apperrors.Unauthorized("Access unauthorized.")
		}
		return tx.Delete(&message).Error
	})
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Preload("User").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	following := r.db.Model(&models.Follow{}).
		Select("user_being_followed_id").
		Where("user_following_id = ?", userID)

	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR user_id IN (?)", userID, following).
		Preload("User").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) Latest(ctx context.Context, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).Preload("User").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
