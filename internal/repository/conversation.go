package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"locket-backend/internal/apperr"
	"locket-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository handles database operations for message threads
type ConversationRepository struct {
	db *pgxpool.Pool
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// AppendToPair appends one entry to the thread for pairKey, creating the
// thread on first contact, all in one transaction: a failed append leaves
// no empty thread behind. Concurrent first-sends race on the insert; the
// unique constraint on pair_key collapses them to a single row and the
// follow-up select sees whichever insert won. last_message_at is bumped to
// the entry's timestamp.
func (r *ConversationRepository) AppendToPair(ctx context.Context, id, pairKey, senderID, receiverID, messageID, content string, attachedPictureID *string, createdAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin append transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO conversations (id, participant_a, participant_b, pair_key, last_message_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (pair_key) DO NOTHING
	`, id, senderID, receiverID, pairKey, createdAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	var conversationID string
	err = tx.QueryRow(ctx, `SELECT id FROM conversations WHERE pair_key = $1`, pairKey).Scan(&conversationID)
	if err != nil {
		return fmt.Errorf("failed to get conversation by pair key: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO conversation_messages (id, conversation_id, sender_id, content, attached_picture_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, messageID, conversationID, senderID, content, attachedPictureID, createdAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Wrap(apperr.KindNotFound, "Attached picture not found", err)
		}
		return fmt.Errorf("failed to append message: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE conversations SET last_message_at = $1 WHERE id = $2
	`, createdAt, conversationID)
	if err != nil {
		return fmt.Errorf("failed to bump last_message_at: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit append: %w", err)
	}
	return nil
}

// ListByUser returns thread summaries for the threads userID participates
// in, most recently active first.
func (r *ConversationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Conversation, error) {
	query := `
		SELECT c.id, c.pair_key, c.last_message_at,
		       ua.id, ua.username, ub.id, ub.username
		FROM conversations c
		JOIN users ua ON ua.id = c.participant_a
		JOIN users ub ON ub.id = c.participant_b
		WHERE c.participant_a = $1 OR c.participant_b = $1
		ORDER BY c.last_message_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		var a, b models.UserSummary
		err := rows.Scan(&c.ID, &c.PairKey, &c.LastMessageAt, &a.ID, &a.Username, &b.ID, &b.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		c.Participants = []models.UserSummary{a, b}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}
	return conversations, nil
}

// Messages returns one page of a thread's log, newest first, with any
// attachment resolved to its picture url, plus the total entry count.
func (r *ConversationRepository) Messages(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM conversation_messages WHERE conversation_id = $1`,
		conversationID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `
		SELECT m.id, m.sender_id, m.content, m.read_by::text[], m.created_at,
		       p.id, p.url
		FROM conversation_messages m
		LEFT JOIN pictures p ON p.id = m.attached_picture_id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		var pictureID, pictureURL *string
		err := rows.Scan(&m.ID, &m.Sender, &m.Content, &m.ReadBy, &m.CreatedAt, &pictureID, &pictureURL)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		if pictureID != nil && pictureURL != nil {
			m.AttachedPicture = &models.PictureRef{ID: *pictureID, URL: *pictureURL}
			m.AttachmentURL = *pictureURL
		}
		if m.ReadBy == nil {
			m.ReadBy = []string{}
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, total, nil
}

// GetByID retrieves a thread summary by id
func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `
		SELECT c.id, c.pair_key, c.last_message_at,
		       ua.id, ua.username, ub.id, ub.username
		FROM conversations c
		JOIN users ua ON ua.id = c.participant_a
		JOIN users ub ON ub.id = c.participant_b
		WHERE c.id = $1
	`
	var c models.Conversation
	var a, b models.UserSummary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.PairKey, &c.LastMessageAt, &a.ID, &a.Username, &b.ID, &b.Username,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Conversation not found")
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	c.Participants = []models.UserSummary{a, b}
	return &c, nil
}
