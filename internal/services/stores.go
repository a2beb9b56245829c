package services

import (
	"context"

	"distance-backend/internal/geo"
	"distance-backend/internal/models"
	"distance-backend/internal/weather"
)

// Store interfaces consumed by the services. The pgx repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateSettings(ctx context.Context, userID string, timezone string, lat, lng float64, tempUnit, city, country string) error
}

type FriendStore interface {
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]*models.User, error)
	Befriend(ctx context.Context, userID, friendID, requestMsgID string) error
	Unfriend(ctx context.Context, userID, friendID string) (bool, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]*models.Message, error)
	ListBySenderAndReceiver(ctx context.Context, senderID, receiverID string) ([]*models.Message, error)
	MarkReadByReceiver(ctx context.Context, receiverID, senderID string) error
	CountUnread(ctx context.Context, receiverID string) (int, error)
	PendingRequestExists(ctx context.Context, senderID, receiverID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type ImageStore interface {
	Create(ctx context.Context, img *models.Image) error
	ListForPair(ctx context.Context, userA, userB string) ([]*models.Image, error)
	DeleteForPairByURL(ctx context.Context, userA, userB, imageURL string) (bool, error)
}

// Geocoder resolves coordinates into address components.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (geo.Address, error)
}

// WeatherProvider fetches current conditions for a coordinate pair.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lng float64) (weather.Observation, error)
}
