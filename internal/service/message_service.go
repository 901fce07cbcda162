package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/middleware"
	"clubhouse/internal/models"
	"clubhouse/internal/observability"
	"clubhouse/internal/repository"
	"clubhouse/internal/timeago"
	"clubhouse/internal/validation"
)

const defaultMessageMaxLength = 1000

type MessageService struct {
	messageRepo repository.MessageRepository
	maxLength   int
}

func NewMessageService(messageRepo repository.MessageRepository, maxLength int) *MessageService {
	if maxLength <= 0 {
		maxLength = defaultMessageMaxLength
	}
	return &MessageService{messageRepo: messageRepo, maxLength: maxLength}
}

// Post stores text as a new message by author.
func (s *MessageService) Post(ctx context.Context, author *models.User, text string) (*models.Message, error) {
	if author == nil {
		return nil, models.NewAuthorizationError("log in to post messages")
	}

	var errs validation.Errors
	if errs.Require("text", text, "text field cannot be empty") {
		errs.MaxLength("text", text, s.maxLength,
			fmt.Sprintf("text cannot be longer than %d characters", s.maxLength))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	authorID := author.ID
	msg := &models.Message{
		Text:     text,
		AuthorID: &authorID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	observability.MessagesPosted.Inc()
	return msg, nil
}

// Delete removes a message on behalf of actor, who must be an admin.
// Deleting a message that no longer exists succeeds.
func (s *MessageService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if !actor.IsAdmin() {
		return models.NewAuthorizationError("admin privileges required")
	}
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return err
	}

	observability.MessagesDeleted.Inc()
	middleware.Logger.InfoContext(ctx, "Message deleted",
		slog.Uint64("message_id", uint64(id)),
		slog.Uint64("admin_id", uint64(actor.ID)),
	)
	return nil
}

// ListFor returns every message, newest first, as seen by viewer.
func (s *MessageService) ListFor(ctx context.Context, viewer *models.User, now time.Time) ([]models.MessageView, error) {
	messages, err := s.messageRepo.ListRecent(ctx)
	if err != nil {
		return nil, err
	}

	privileged := viewer.CanSeeAuthors()
	views := make([]models.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, Project(m, privileged, now))
	}
	return views, nil
}

// Project reduces msg to what the viewer may see. Non-privileged viewers get
// only the id and text.
func Project(msg *models.Message, privileged bool, now time.Time) models.MessageView {
	view := models.MessageView{
		ID:   msg.ID,
		Text: msg.Text,
	}
	if !privileged {
		return view
	}

	created := msg.DateCreated
	view.Author = msg.Author
	view.DateCreated = &created
	view.Elapsed = timeago.Format(created, now)
	return view
}
