package repository

import (
	"context"
	"time"

	"clubhouse/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Delete(ctx context.Context, id uint) error
	ListRecent(ctx context.Context) ([]*models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create stamps DateCreated when the caller left it zero.
func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.DateCreated.IsZero() {
		msg.DateCreated = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the message; a missing id is not an error.
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Message{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListRecent returns every message, newest first, with its author preloaded.
// Messages created in the same instant keep insertion order reversed by id.
func (r *messageRepository) ListRecent(ctx context.Context) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("date_created DESC").
		Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
