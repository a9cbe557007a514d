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

// PictureRepository handles database operations for pictures and reactions
type PictureRepository struct {
	db *pgxpool.Pool
}

// NewPictureRepository creates a new picture repository
func NewPictureRepository(db *pgxpool.Pool) *PictureRepository {
	return &PictureRepository{db: db}
}

// Create creates a new picture owned by pic.Uploader.ID
func (r *PictureRepository) Create(ctx context.Context, pic *models.Picture) error {
	query := `
		INSERT INTO pictures (id, url, uploader_id, message, time_note, location, upload_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		pic.ID, pic.URL, pic.Uploader.ID, pic.Message, pic.Time, pic.Location, pic.UploadAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create picture: %w", err)
	}
	return nil
}

// Exists checks whether a picture id is present
func (r *PictureRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pictures WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check picture existence: %w", err)
	}
	return exists, nil
}

// ListByUploaders returns one page of pictures uploaded by any id in
// uploaderIDs, newest first, plus the total count for pagination meta.
func (r *PictureRepository) ListByUploaders(ctx context.Context, uploaderIDs []string, limit, offset int) ([]models.Picture, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM pictures WHERE uploader_id = ANY($1::uuid[])`,
		uploaderIDs,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pictures: %w", err)
	}

	query := `
		SELECT p.id, p.url, u.id, u.username, p.message, p.time_note, p.location, p.upload_at
		FROM pictures p
		JOIN users u ON u.id = p.uploader_id
		WHERE p.uploader_id = ANY($1::uuid[])
		ORDER BY p.upload_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, uploaderIDs, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pictures: %w", err)
	}
	defer rows.Close()

	var pictures []models.Picture
	for rows.Next() {
		var p models.Picture
		err := rows.Scan(
			&p.ID, &p.URL, &p.Uploader.ID, &p.Uploader.Username,
			&p.Message, &p.Time, &p.Location, &p.UploadAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan picture: %w", err)
		}
		pictures = append(pictures, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating pictures: %w", err)
	}
	return pictures, total, nil
}

// GetDetail retrieves a picture with its uploader identity and reactions resolved
func (r *PictureRepository) GetDetail(ctx context.Context, id string) (*models.Picture, error) {
	query := `
		SELECT p.id, p.url, u.id, u.username, u.email, p.message, p.time_note, p.location, p.upload_at
		FROM pictures p
		JOIN users u ON u.id = p.uploader_id
		WHERE p.id = $1
	`
	var p models.Picture
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.URL, &p.Uploader.ID, &p.Uploader.Username, &p.Uploader.Email,
		&p.Message, &p.Time, &p.Location, &p.UploadAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Picture not found")
		}
		return nil, fmt.Errorf("failed to get picture: %w", err)
	}

	reactions, err := r.reactions(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Reactions = reactions
	return &p, nil
}

func (r *PictureRepository) reactions(ctx context.Context, pictureID string) ([]models.Reaction, error) {
	query := `
		SELECT pr.icon, u.id, u.username, pr.created_at
		FROM picture_reactions pr
		JOIN users u ON u.id = pr.user_id
		WHERE pr.picture_id = $1
		ORDER BY pr.created_at
	`
	rows, err := r.db.Query(ctx, query, pictureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	defer rows.Close()

	var reactions []models.Reaction
	for rows.Next() {
		var re models.Reaction
		if err := rows.Scan(&re.Icon, &re.User.ID, &re.User.Username, &re.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions = append(reactions, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reactions: %w", err)
	}
	return reactions, nil
}

// AddReaction records a reaction on a picture
func (r *PictureRepository) AddReaction(ctx context.Context, id, pictureID, userID, icon string) error {
	query := `
		INSERT INTO picture_reactions (id, picture_id, user_id, icon)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, id, pictureID, userID, icon)
	if err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}
