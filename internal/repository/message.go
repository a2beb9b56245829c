package repository

import (
	"context"
	"errors"
	"fmt"

	"distance-backend/internal/apperror"
	"distance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, sender_id, receiver_id, content, msg_type, read, created_at`

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Content,
		&m.MsgType, &m.Read, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) queryMessages(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return msgs, nil
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Content,
		msg.MsgType, msg.Read, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	msg, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("message", id)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListByReceiver returns all messages addressed to a user, oldest first
func (r *MessageRepository) ListByReceiver(ctx context.Context, receiverID string) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE receiver_id = $1
		ORDER BY created_at ASC
	`
	return r.queryMessages(ctx, query, receiverID)
}

// ListBySenderAndReceiver returns the messages sent from one user to
// another, oldest first
func (r *MessageRepository) ListBySenderAndReceiver(ctx context.Context, senderID, receiverID string) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE sender_id = $1 AND receiver_id = $2
		ORDER BY created_at ASC
	`
	return r.queryMessages(ctx, query, senderID, receiverID)
}

// MarkReadByReceiver flips the read flag on every message addressed to
// a user, optionally restricted to one sender (empty senderID means all)
func (r *MessageRepository) MarkReadByReceiver(ctx context.Context, receiverID, senderID string) error {
	var err error
	if senderID == "" {
		_, err = r.db.Exec(ctx,
			`UPDATE messages SET read = TRUE WHERE receiver_id = $1 AND read = FALSE`, receiverID)
	} else {
		_, err = r.db.Exec(ctx,
			`UPDATE messages SET read = TRUE WHERE receiver_id = $1 AND sender_id = $2 AND read = FALSE`,
			receiverID, senderID)
	}
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// CountUnread returns the unread badge count for a user
func (r *MessageRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read = FALSE`
	var count int
	if err := r.db.QueryRow(ctx, query, receiverID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// PendingRequestExists checks for an outstanding friend request in the
// sender→receiver direction
func (r *MessageRepository) PendingRequestExists(ctx context.Context, senderID, receiverID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM messages
			WHERE sender_id = $1 AND receiver_id = $2 AND msg_type = $3
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, senderID, receiverID, models.MsgTypeFriendRequest).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// Delete deletes a message by ID
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("message", id)
	}
	return nil
}
