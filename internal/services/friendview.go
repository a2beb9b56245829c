package services

import (
	"context"
	"time"

	"distance-backend/internal/apperror"
	"distance-backend/internal/clock"
	"distance-backend/internal/models"
	"distance-backend/internal/weather"

	"github.com/rs/zerolog/log"
)

const weatherNotFound = "Not Found"

// FriendView is the composed read model for one friend pairing: local
// clock offsets, weather, shared images and the incoming message
// thread. Fields suffixed 1 belong to the viewer, 2 to the friend.
type FriendView struct {
	Friend *models.User `json:"friend"`

	HrOffset1  int `json:"hr_offset1"`
	MinOffset1 int `json:"min_offset1"`
	HrOffset2  int `json:"hr_offset2"`
	MinOffset2 int `json:"min_offset2"`

	Temp1   string `json:"temp1"`
	Temp2   string `json:"temp2"`
	Status1 string `json:"status1"`
	Status2 string `json:"status2"`

	City1    string `json:"city1"`
	Country1 string `json:"country1"`
	City2    string `json:"city2"`
	Country2 string `json:"country2"`

	Images      []string          `json:"images"`
	Messages    []*models.Message `json:"msg_list"`
	UnreadCount int               `json:"num_msgs"`
}

// FriendViewService aggregates the friend page payload.
type FriendViewService struct {
	userRepo   UserStore
	friendRepo FriendStore
	imageRepo  ImageStore
	msgRepo    MessageStore
	weather    WeatherProvider
	now        func() time.Time
}

// NewFriendViewService creates a new friend view service
func NewFriendViewService(userRepo UserStore, friendRepo FriendStore, imageRepo ImageStore, msgRepo MessageStore, provider WeatherProvider) *FriendViewService {
	return &FriendViewService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		imageRepo:  imageRepo,
		msgRepo:    msgRepo,
		weather:    provider,
		now:        time.Now,
	}
}

// conditions resolves current weather for a coordinate pair in the
// given display unit, degrading to "Not Found" when the provider fails.
func (s *FriendViewService) conditions(ctx context.Context, lat, lng float64, unit string) (temp, status string) {
	obs, err := s.weather.Current(ctx, lat, lng)
	if err != nil {
		log.Warn().Err(err).
			Float64("lat", lat).
			Float64("lng", lng).
			Msg("Weather lookup failed, degrading to placeholder")
		return weatherNotFound, weatherNotFound
	}
	return weather.FormatTemp(obs.TempKelvin, unit), obs.Description
}

// Compose builds the friend view for the viewer/friend pairing. The
// only mutation is the read flag on the friend's messages to the
// viewer. Both temperatures use the viewer's display unit.
func (s *FriendViewService) Compose(ctx context.Context, viewerID, friendID string) (*FriendView, error) {
	friends, err := s.friendRepo.AreFriends(ctx, viewerID, friendID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, apperror.NotFriends()
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	friend, err := s.userRepo.GetByID(ctx, friendID)
	if err != nil {
		return nil, err
	}

	at := s.now()
	hr1, min1, err := clock.Offset(viewer.Timezone, at)
	if err != nil {
		return nil, apperror.ValidationFailed("timezone", err.Error())
	}
	hr2, min2, err := clock.Offset(friend.Timezone, at)
	if err != nil {
		return nil, apperror.ValidationFailed("timezone", err.Error())
	}

	temp1, status1 := s.conditions(ctx, viewer.Lat, viewer.Lng, viewer.TempUnit)
	temp2, status2 := s.conditions(ctx, friend.Lat, friend.Lng, viewer.TempUnit)

	imgs, err := s.imageRepo.ListForPair(ctx, viewerID, friendID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(imgs))
	for _, img := range imgs {
		urls = append(urls, img.ImageURL)
	}

	msgs, err := s.msgRepo.ListBySenderAndReceiver(ctx, friendID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.msgRepo.MarkReadByReceiver(ctx, viewerID, friendID); err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		msg.Read = true
	}

	unread, err := s.msgRepo.CountUnread(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return &FriendView{
		Friend:      friend,
		HrOffset1:   hr1,
		MinOffset1:  min1,
		HrOffset2:   hr2,
		MinOffset2:  min2,
		Temp1:       temp1,
		Temp2:       temp2,
		Status1:     status1,
		Status2:     status2,
		City1:       viewer.City,
		Country1:    viewer.Country,
		City2:       friend.City,
		Country2:    friend.Country,
		Images:      urls,
		Messages:    msgs,
		UnreadCount: unread,
	}, nil
}
