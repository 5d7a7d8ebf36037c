package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/cxm/internal/chat"
	"github.com/frahmantamala/cxm/internal/core/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ChatRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db, now: time.Now}
}

// ListForUser returns the user's conversations, most recently active first, with the latest
// message preview and the count of messages from others since the user's read marker.
func (r *ChatRepository) ListForUser(ctx context.Context, userID string) ([]*chat.Conversation, error) {
	var out []*chat.Conversation
	err := r.db.SelectContext(ctx, &out, `
SELECT c.id, c.title, c.created_by, c.created_at, c.updated_at,
	lm.content AS last_message, lm.created_at AS last_message_at,
	(SELECT COUNT(*) FROM chat_messages m
	  WHERE m.conversation_id = c.id AND m.sender_id <> $1
	    AND (p.last_read_at IS NULL OR m.created_at > p.last_read_at)) AS unread_count
FROM chat_conversations c
JOIN chat_participants p ON p.conversation_id = c.id AND p.user_id = $1
LEFT JOIN LATERAL (
	SELECT content, created_at FROM chat_messages
	WHERE conversation_id = c.id ORDER BY created_at DESC LIMIT 1
) lm ON TRUE
ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ChatRepository) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	var c chat.Conversation
	err := r.db.GetContext(ctx, &c, `SELECT id, title, created_by, created_at, updated_at FROM chat_conversations WHERE id = $1`, id)
	if miss, err := store.NoRows(err); miss || err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) Participants(ctx context.Context, conversationID string) ([]*chat.Participant, error) {
	var out []*chat.Participant
	err := r.db.SelectContext(ctx, &out, `
SELECT p.conversation_id, p.user_id, u.name, p.last_read_at, p.joined_at
FROM chat_participants p
JOIN users u ON u.id = p.user_id
WHERE p.conversation_id = $1
ORDER BY p.joined_at, u.name`, conversationID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ChatRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok,
		`SELECT EXISTS(SELECT 1 FROM chat_participants WHERE conversation_id = $1 AND user_id = $2)`,
		conversationID, userID)
	return ok, err
}

// CreateConversation inserts the conversation and all participant rows in one transaction.
func (r *ChatRepository) CreateConversation(ctx context.Context, c *chat.Conversation, participantIDs []string) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := r.now()
	c.CreatedAt, c.UpdatedAt = now, now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `
INSERT INTO chat_conversations (id, title, created_by, created_at, updated_at)
VALUES (:id, :title, :created_by, :created_at, :updated_at)`, c); err != nil {
		return err
	}

	for _, uid := range participantIDs {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO chat_participants (conversation_id, user_id, joined_at)
VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, c.ID, uid, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListMessages pages backwards from before and returns the page in chronological order.
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*chat.Message, error) {
	var w store.Where
	w.Add("m.conversation_id = ?", conversationID)
	if before != nil {
		w.Add("m.created_at < ?", *before)
	}

	query := `SELECT m.id, m.conversation_id, m.sender_id, COALESCE(u.name, '') AS sender_name, m.content, m.created_at
FROM chat_messages m LEFT JOIN users u ON u.id = m.sender_id` + w.SQL() + " ORDER BY m.created_at DESC LIMIT ?"
	args := append(w.Args(), limit)

	var out []*chat.Message
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// CreateMessage stores the message, bumps the conversation and advances the sender's read marker.
func (r *ChatRepository) CreateMessage(ctx context.Context, m *chat.Message) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `
INSERT INTO chat_messages (id, conversation_id, sender_id, content, created_at)
VALUES (:id, :conversation_id, :sender_id, :content, :created_at)`, m); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE chat_conversations SET updated_at = $1 WHERE id = $2`, m.CreatedAt, m.ConversationID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE chat_participants SET last_read_at = $1 WHERE conversation_id = $2 AND user_id = $3`,
		m.CreatedAt, m.ConversationID, m.SenderID); err != nil {
		return err
	}
	if err = tx.GetContext(ctx, &m.SenderName, `SELECT name FROM users WHERE id = $1`, m.SenderID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ChatRepository) MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE chat_participants SET last_read_at = $1 WHERE conversation_id = $2 AND user_id = $3`,
		at, conversationID, userID)
	return err
}

func (r *ChatRepository) ActiveUsers(ctx context.Context, excludeID string) ([]*chat.DirectoryUser, error) {
	var out []*chat.DirectoryUser
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, name, email, role FROM users WHERE is_active = TRUE AND id <> $1 ORDER BY name`, excludeID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ChatRepository) CountActiveUsers(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM users WHERE is_active = TRUE AND id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), args...); err != nil {
		return 0, err
	}
	return n, nil
}
