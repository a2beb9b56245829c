package repository

import (
	"context"
	"fmt"

	"distance-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageRepository handles database operations for shared images
type ImageRepository struct {
	db *pgxpool.Pool
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create creates a new shared image
func (r *ImageRepository) Create(ctx context.Context, img *models.Image) error {
	query := `
		INSERT INTO images (id, user1_id, user2_id, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, img.ID, img.User1ID, img.User2ID, img.ImageURL, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// ListForPair returns every image owned by the pair, matching the two
// owner slots in either order
func (r *ImageRepository) ListForPair(ctx context.Context, userA, userB string) ([]*models.Image, error) {
	query := `
		SELECT id, user1_id, user2_id, image_url, created_at
		FROM images
		WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.User1ID, &img.User2ID, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return images, nil
}

// DeleteForPairByURL removes images with the given URL scoped to the
// pair. Returns whether anything was deleted.
func (r *ImageRepository) DeleteForPairByURL(ctx context.Context, userA, userB, imageURL string) (bool, error) {
	query := `
		DELETE FROM images
		WHERE image_url = $3
		AND ((user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1))
	`
	result, err := r.db.Exec(ctx, query, userA, userB, imageURL)
	if err != nil {
		return false, fmt.Errorf("failed to delete image: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
