package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"distance-backend/internal/apperror"
	"distance-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImageService handles the pairwise shared background images.
type ImageService struct {
	friendRepo FriendStore
	imageRepo  ImageStore
}

// NewImageService creates a new image service
func NewImageService(friendRepo FriendStore, imageRepo ImageStore) *ImageService {
	return &ImageService{
		friendRepo: friendRepo,
		imageRepo:  imageRepo,
	}
}

func (s *ImageService) requireFriendship(ctx context.Context, userID, friendID string) error {
	friends, err := s.friendRepo.AreFriends(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !friends {
		return apperror.NotFriends()
	}
	return nil
}

// Add records a new shared image for the pair. The caller must be
// friends with the other owner and the URL must be an absolute http(s)
// URL.
func (s *ImageService) Add(ctx context.Context, userID, friendID, imageURL string) (*models.Image, error) {
	if err := s.requireFriendship(ctx, userID, friendID); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(imageURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, apperror.ValidationFailed("image_url", "image URL must be an absolute http or https URL")
	}

	img := &models.Image{
		ID:        uuid.New().String(),
		User1ID:   userID,
		User2ID:   friendID,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to add image: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("friend_id", friendID).
		Msg("Shared image added")
	return img, nil
}

// ListFor returns the pair's images regardless of slot order.
func (s *ImageService) ListFor(ctx context.Context, userID, friendID string) ([]*models.Image, error) {
	if err := s.requireFriendship(ctx, userID, friendID); err != nil {
		return nil, err
	}
	return s.imageRepo.ListForPair(ctx, userID, friendID)
}

// DeleteByURL removes an image from the pair's collection, keyed by its
// URL. Either owner may delete; the pair scoping enforces ownership.
func (s *ImageService) DeleteByURL(ctx context.Context, userID, friendID, imageURL string) (bool, error) {
	if err := s.requireFriendship(ctx, userID, friendID); err != nil {
		return false, err
	}
	removed, err := s.imageRepo.DeleteForPairByURL(ctx, userID, friendID, imageURL)
	if err != nil {
		return false, err
	}
	if removed {
		log.Info().
			Str("user_id", userID).
			Str("friend_id", friendID).
			Msg("Shared image deleted")
	}
	return removed, nil
}
