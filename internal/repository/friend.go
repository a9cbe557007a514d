package repository

import (
	"context"
	"errors"
	"fmt"

	"locket-backend/internal/apperr"
	"locket-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendRequestRepository handles database operations for friend requests
type FriendRequestRepository struct {
	db *pgxpool.Pool
}

// NewFriendRequestRepository creates a new friend request repository
func NewFriendRequestRepository(db *pgxpool.Pool) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

// Create inserts a pending request. The unique index on the unordered
// sender/receiver pair rejects a second active request in either direction.
func (r *FriendRequestRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.SenderID, req.ReceiverID, req.Status, req.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.KindConflict, "Friend request already exists between these users", err)
		}
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

// GetByID retrieves a friend request by ID
func (r *FriendRequestRepository) GetByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, status, created_at
		FROM friend_requests
		WHERE id = $1
	`
	var req models.FriendRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Friend request not found")
		}
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	return &req, nil
}

// Accept transitions a request from pending to accepted and inserts both
// friend rows in one transaction, so the friendship is symmetric or not
// created at all. The status check-and-set makes a concurrent second accept
// a no-op conflict instead of a double insert.
func (r *FriendRequestRepository) Accept(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin accept transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var senderID, receiverID string
	err = tx.QueryRow(ctx, `
		UPDATE friend_requests
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING sender_id, receiver_id
	`, models.RequestAccepted, id, models.RequestPending).Scan(&senderID, &receiverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.Conflict("Friend request already processed")
		}
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO friends (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to insert friend links: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit accept: %w", err)
	}
	return nil
}

// Delete removes a still-pending request row entirely. After rejection
// nothing remains to collide with the pair uniqueness index, so the sender
// can re-request. The status condition mirrors Accept's check-and-set: an
// already-accepted request cannot be rejected away, which would delete the
// pair index row out from under a standing friendship.
func (r *FriendRequestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM friend_requests WHERE id = $1 AND status = $2`,
		id, models.RequestPending,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("Friend request already processed")
	}
	return nil
}

// ListInvolving returns every request in which userID is sender or receiver,
// regardless of status. The relationship resolver keys them by the other
// party; the pair uniqueness index guarantees at most one per pair.
func (r *FriendRequestRepository) ListInvolving(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, status, created_at
		FROM friend_requests
		WHERE sender_id = $1 OR receiver_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	var requests []models.FriendRequest
	for rows.Next() {
		var req models.FriendRequest
		if err := rows.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friend requests: %w", err)
	}
	return requests, nil
}

// ListReceived returns pending requests addressed to userID with the sender resolved
func (r *FriendRequestRepository) ListReceived(ctx context.Context, userID string) ([]models.ReceivedRequest, error) {
	query := `
		SELECT fr.id, u.id, u.username, u.email, fr.receiver_id, fr.status, fr.created_at
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.receiver_id = $1 AND fr.status = $2
		ORDER BY fr.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list received requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ReceivedRequest
	for rows.Next() {
		var req models.ReceivedRequest
		err := rows.Scan(
			&req.ID, &req.Sender.ID, &req.Sender.Username, &req.Sender.Email,
			&req.ReceiverID, &req.Status, &req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan received request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating received requests: %w", err)
	}
	return requests, nil
}

// ListSent returns pending requests sent by userID with the receiver resolved
func (r *FriendRequestRepository) ListSent(ctx context.Context, userID string) ([]models.SentRequest, error) {
	query := `
		SELECT fr.id, fr.sender_id, u.id, u.username, u.email, fr.status, fr.created_at
		FROM friend_requests fr
		JOIN users u ON u.id = fr.receiver_id
		WHERE fr.sender_id = $1 AND fr.status = $2
		ORDER BY fr.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent requests: %w", err)
	}
	defer rows.Close()

	var requests []models.SentRequest
	for rows.Next() {
		var req models.SentRequest
		err := rows.Scan(
			&req.ID, &req.SenderID, &req.Receiver.ID, &req.Receiver.Username, &req.Receiver.Email,
			&req.Status, &req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sent request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sent requests: %w", err)
	}
	return requests, nil
}
