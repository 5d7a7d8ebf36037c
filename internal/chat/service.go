package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	"github.com/frahmantamala/cxm/internal/core/events"
)

var ErrUnknownParticipants = internal.NewValidationFieldError("participant_ids", "برخی از شرکت‌کنندگان یافت نشدند", internal.ErrCodeInvalidValue)

// Publisher is the part of the event bus the chat service needs.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ServiceAPI interface {
	ListConversations(ctx context.Context, actor internal.Identity) ([]*Conversation, error)
	CreateConversation(ctx context.Context, actor internal.Identity, dto CreateConversationDTO) (*Conversation, error)
	Messages(ctx context.Context, actor internal.Identity, conversationID string, before *time.Time, limit int) ([]*Message, error)
	SendMessage(ctx context.Context, actor internal.Identity, conversationID string, dto SendMessageDTO) (*Message, error)
	MarkRead(ctx context.Context, actor internal.Identity, conversationID string) error
	Directory(ctx context.Context, actor internal.Identity) ([]*DirectoryUser, error)
	Authorize(ctx context.Context, actor internal.Identity, conversationID string) error
}

type Service struct {
	repo      RepositoryAPI
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) ListConversations(ctx context.Context, actor internal.Identity) ([]*Conversation, error) {
	convs, err := s.repo.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// CreateConversation always includes the creator and needs at least one other active user.
func (s *Service) CreateConversation(ctx context.Context, actor internal.Identity, dto CreateConversationDTO) (*Conversation, error) {
	others := uniqueOthers(dto.ParticipantIDs, actor.ID)

	v := validation.NewValidator()
	v.Field("participant_ids", others).Required()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	n, err := s.repo.CountActiveUsers(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("check participants: %w", err)
	}
	if n != len(others) {
		return nil, ErrUnknownParticipants
	}

	c := &Conversation{
		Title:     strings.TrimSpace(dto.Title),
		CreatedBy: actor.ID,
	}
	participants := append([]string{actor.ID}, others...)
	if err := s.repo.CreateConversation(ctx, c, participants); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	c.Participants, err = s.repo.Participants(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	s.logger.InfoContext(ctx, "conversation created", "conversation_id", c.ID, "participants", len(participants))
	return c, nil
}

// Authorize returns not found for a missing conversation and forbidden for non-participants.
func (s *Service) Authorize(ctx context.Context, actor internal.Identity, conversationID string) error {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return internal.ErrConversationNotFound
	}
	ok, err := s.repo.IsParticipant(ctx, conversationID, actor.ID)
	if err != nil {
		return fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return internal.ErrPermissionDenied
	}
	return nil
}

func (s *Service) Messages(ctx context.Context, actor internal.Identity, conversationID string, before *time.Time, limit int) ([]*Message, error) {
	if err := s.Authorize(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	msgs, err := s.repo.ListMessages(ctx, conversationID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *Service) SendMessage(ctx context.Context, actor internal.Identity, conversationID string, dto SendMessageDTO) (*Message, error) {
	content := strings.TrimSpace(dto.Content)

	v := validation.NewValidator()
	v.Field("content", content).Required().Custom(func(value interface{}) *internal.AppError {
		if utf8.RuneCountInString(content) > MaxMessageLength {
			msg := fmt.Sprintf("%s نباید بیشتر از %d کاراکتر باشد", validation.Label("content"), MaxMessageLength)
			return internal.NewValidationFieldError("content", msg, internal.ErrCodeInvalidValue)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, actor, conversationID); err != nil {
		return nil, err
	}

	m := &Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Content:        content,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if s.publisher != nil {
		event := events.NewChatMessageSentEvent(m.ID, m.ConversationID, m.SenderID, m.SenderName, m.Content, m.CreatedAt)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish chat message event", "message_id", m.ID, "error", err)
		}
	}
	return m, nil
}

func (s *Service) MarkRead(ctx context.Context, actor internal.Identity, conversationID string) error {
	if err := s.Authorize(ctx, actor, conversationID); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, conversationID, actor.ID, s.now()); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *Service) Directory(ctx context.Context, actor internal.Identity) ([]*DirectoryUser, error) {
	users, err := s.repo.ActiveUsers(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list chat users: %w", err)
	}
	return users, nil
}

func uniqueOthers(ids []string, self string) []string {
	seen := map[string]bool{self: true}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
