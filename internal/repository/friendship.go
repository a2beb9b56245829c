package repository

import (
	"context"
	"fmt"
	"time"

	"distance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendshipRepository handles the symmetric connections set. Friendship
// is stored as two rows, one per direction; both are written and removed
// inside a single transaction so the symmetry invariant holds under
// concurrent access.
type FriendshipRepository struct {
	db *pgxpool.Pool
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// AreFriends checks whether a connection exists from userID to friendID
func (r *FriendshipRepository) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM connections WHERE user_id = $1 AND friend_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, friendID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// ListFriends returns all users connected to userID
func (r *FriendshipRepository) ListFriends(ctx context.Context, userID string) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		JOIN connections ON connections.friend_id = users.id
		WHERE connections.user_id = $1
		ORDER BY users.username
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.User
	for rows.Next() {
		friend, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friends: %w", err)
	}
	return friends, nil
}

// Befriend inserts both directions of the connection and deletes the
// consumed friend-request message, all in one transaction.
func (r *FriendshipRepository) Befriend(ctx context.Context, userID, friendID, requestMsgID string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		now := time.Now()
		insert := `
			INSERT INTO connections (user_id, friend_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, friend_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, insert, userID, friendID, now); err != nil {
			return fmt.Errorf("failed to add connection: %w", err)
		}
		if _, err := tx.Exec(ctx, insert, friendID, userID, now); err != nil {
			return fmt.Errorf("failed to add reverse connection: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = $1`, requestMsgID); err != nil {
			return fmt.Errorf("failed to consume friend request: %w", err)
		}
		return nil
	})
}

// Unfriend removes both directions of the connection in one transaction.
// Returns whether any connection actually existed.
func (r *FriendshipRepository) Unfriend(ctx context.Context, userID, friendID string) (bool, error) {
	var removed bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM connections WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
		if err != nil {
			return fmt.Errorf("failed to remove connection: %w", err)
		}
		removed = result.RowsAffected() > 0
		if _, err := tx.Exec(ctx,
			`DELETE FROM connections WHERE user_id = $1 AND friend_id = $2`, friendID, userID); err != nil {
			return fmt.Errorf("failed to remove reverse connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
