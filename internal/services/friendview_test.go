package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"distance-backend/internal/apperror"
	"distance-backend/internal/models"
	"distance-backend/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFriendViewService(f *fakes, provider WeatherProvider) *FriendViewService {
	svc := NewFriendViewService(f.users, f.friends, f.imgs, f.msgs, provider)
	// Mid-January, standard time everywhere in the test zones.
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCompose_RequiresFriendship(t *testing.T) {
	f := newFakes()
	svc := newFriendViewService(f, &fakeWeather{})
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	_, err := svc.Compose(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFriends)
}

func TestCompose_FullPayload(t *testing.T) {
	f := newFakes()
	svc := newFriendViewService(f, &fakeWeather{
		obs: weather.Observation{TempKelvin: 295.4, Description: "clear sky"},
	})

	alice := f.addUser(t, "alice")
	alice.Timezone = "Asia/Kolkata"
	alice.TempUnit = models.UnitFahrenheit
	alice.City, alice.Country = "Mumbai", "India"

	bob := f.addUser(t, "bob")
	bob.Timezone = "America/Chicago"
	bob.City, bob.Country = "Chicago", "United States of America"

	f.befriend(alice, bob)

	imgSvc := NewImageService(f.friends, f.imgs)
	_, err := imgSvc.Add(context.Background(), bob.ID, alice.ID, "http://x/1.png")
	require.NoError(t, err)

	msgSvc := NewMessageService(f.users, f.friends, f.msgs)
	_, err = msgSvc.Send(context.Background(), bob.ID, "alice", "hi alice")
	require.NoError(t, err)
	_, err = msgSvc.Send(context.Background(), alice.ID, "bob", "hi bob")
	require.NoError(t, err)

	view, err := svc.Compose(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, bob.ID, view.Friend.ID)

	// Viewer offsets, then friend offsets.
	assert.Equal(t, 5, view.HrOffset1)
	assert.Equal(t, 30, view.MinOffset1)
	assert.Equal(t, -6, view.HrOffset2)
	assert.Equal(t, 0, view.MinOffset2)

	// Both temperatures use the viewer's unit.
	assert.Equal(t, "72°F", view.Temp1)
	assert.Equal(t, "72°F", view.Temp2)
	assert.Equal(t, "clear sky", view.Status1)
	assert.Equal(t, "clear sky", view.Status2)

	assert.Equal(t, "Mumbai", view.City1)
	assert.Equal(t, "India", view.Country1)
	assert.Equal(t, "Chicago", view.City2)
	assert.Equal(t, "United States of America", view.Country2)

	assert.Equal(t, []string{"http://x/1.png"}, view.Images)

	// Only incoming bob→alice messages appear, marked read.
	require.Len(t, view.Messages, 1)
	assert.Equal(t, "hi alice", view.Messages[0].Content)
	assert.True(t, view.Messages[0].Read)
	assert.Equal(t, 0, view.UnreadCount)
}

func TestCompose_WeatherFailureDegrades(t *testing.T) {
	f := newFakes()
	svc := newFriendViewService(f, &fakeWeather{err: errors.New("provider down")})
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	view, err := svc.Compose(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, "Not Found", view.Temp1)
	assert.Equal(t, "Not Found", view.Temp2)
	assert.Equal(t, "Not Found", view.Status1)
	assert.Equal(t, "Not Found", view.Status2)
}

func TestCompose_BadStoredTimezone(t *testing.T) {
	f := newFakes()
	svc := newFriendViewService(f, &fakeWeather{})
	alice := f.addUser(t, "alice")
	alice.Timezone = "Nowhere/Atlantis"
	bob := f.addUser(t, "bob")
	f.befriend(alice, bob)

	_, err := svc.Compose(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
