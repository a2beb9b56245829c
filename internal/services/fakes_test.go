package services

import (
	"context"
	"testing"
	"time"

	"distance-backend/internal/apperror"
	"distance-backend/internal/geo"
	"distance-backend/internal/models"
	"distance-backend/internal/weather"

	"github.com/google/uuid"
)

// fakes bundles in-memory implementations of the four store interfaces
// over one shared state, the way the pgx repositories share one pool.
type fakes struct {
	state   *fakeState
	users   *fakeUserStore
	friends *fakeFriendStore
	msgs    *fakeMessageStore
	imgs    *fakeImageStore
}

type fakeState struct {
	users    map[string]*models.User
	conns    map[string]map[string]bool
	messages map[string]*models.Message
	msgOrder []string
	images   map[string]*models.Image
	imgOrder []string
}

func newFakes() *fakes {
	state := &fakeState{
		users:    make(map[string]*models.User),
		conns:    make(map[string]map[string]bool),
		messages: make(map[string]*models.Message),
		images:   make(map[string]*models.Image),
	}
	return &fakes{
		state:   state,
		users:   &fakeUserStore{state},
		friends: &fakeFriendStore{state},
		msgs:    &fakeMessageStore{state},
		imgs:    &fakeImageStore{state},
	}
}

// --- UserStore ---

type fakeUserStore struct{ s *fakeState }

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	stored := *user
	f.s.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.s.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, user := range f.s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateSettings(_ context.Context, userID string, timezone string, lat, lng float64, tempUnit, city, country string) error {
	user, ok := f.s.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	user.Timezone, user.Lat, user.Lng = timezone, lat, lng
	user.TempUnit, user.City, user.Country = tempUnit, city, country
	return nil
}

// --- FriendStore ---

type fakeFriendStore struct{ s *fakeState }

func (f *fakeFriendStore) AreFriends(_ context.Context, userID, friendID string) (bool, error) {
	return f.s.conns[userID][friendID], nil
}

func (f *fakeFriendStore) ListFriends(_ context.Context, userID string) ([]*models.User, error) {
	var friends []*models.User
	for friendID := range f.s.conns[userID] {
		if user, ok := f.s.users[friendID]; ok {
			result := *user
			friends = append(friends, &result)
		}
	}
	return friends, nil
}

func (s *fakeState) connect(a, b string) {
	if s.conns[a] == nil {
		s.conns[a] = make(map[string]bool)
	}
	s.conns[a][b] = true
}

func (f *fakeFriendStore) Befriend(_ context.Context, userID, friendID, requestMsgID string) error {
	f.s.connect(userID, friendID)
	f.s.connect(friendID, userID)
	delete(f.s.messages, requestMsgID)
	return nil
}

func (f *fakeFriendStore) Unfriend(_ context.Context, userID, friendID string) (bool, error) {
	removed := f.s.conns[userID][friendID]
	delete(f.s.conns[userID], friendID)
	delete(f.s.conns[friendID], userID)
	return removed, nil
}

// --- MessageStore ---

type fakeMessageStore struct{ s *fakeState }

func (f *fakeMessageStore) Create(_ context.Context, msg *models.Message) error {
	stored := *msg
	f.s.messages[msg.ID] = &stored
	f.s.msgOrder = append(f.s.msgOrder, msg.ID)
	return nil
}

func (f *fakeMessageStore) GetByID(_ context.Context, id string) (*models.Message, error) {
	msg, ok := f.s.messages[id]
	if !ok {
		return nil, apperror.NotFound("message", id)
	}
	result := *msg
	return &result, nil
}

func (f *fakeMessageStore) list(match func(*models.Message) bool) []*models.Message {
	var msgs []*models.Message
	for _, id := range f.s.msgOrder {
		msg, ok := f.s.messages[id]
		if !ok {
			continue
		}
		if match(msg) {
			result := *msg
			msgs = append(msgs, &result)
		}
	}
	return msgs
}

func (f *fakeMessageStore) ListByReceiver(_ context.Context, receiverID string) ([]*models.Message, error) {
	return f.list(func(m *models.Message) bool {
		return m.ReceiverID == receiverID
	}), nil
}

func (f *fakeMessageStore) ListBySenderAndReceiver(_ context.Context, senderID, receiverID string) ([]*models.Message, error) {
	return f.list(func(m *models.Message) bool {
		return m.SenderID == senderID && m.ReceiverID == receiverID
	}), nil
}

func (f *fakeMessageStore) MarkReadByReceiver(_ context.Context, receiverID, senderID string) error {
	for _, msg := range f.s.messages {
		if msg.ReceiverID != receiverID {
			continue
		}
		if senderID != "" && msg.SenderID != senderID {
			continue
		}
		msg.Read = true
	}
	return nil
}

func (f *fakeMessageStore) CountUnread(_ context.Context, receiverID string) (int, error) {
	count := 0
	for _, msg := range f.s.messages {
		if msg.ReceiverID == receiverID && !msg.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) PendingRequestExists(_ context.Context, senderID, receiverID string) (bool, error) {
	for _, msg := range f.s.messages {
		if msg.SenderID == senderID && msg.ReceiverID == receiverID && msg.MsgType == models.MsgTypeFriendRequest {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessageStore) Delete(_ context.Context, id string) error {
	if _, ok := f.s.messages[id]; !ok {
		return apperror.NotFound("message", id)
	}
	delete(f.s.messages, id)
	return nil
}

// --- ImageStore ---

type fakeImageStore struct{ s *fakeState }

func (f *fakeImageStore) Create(_ context.Context, img *models.Image) error {
	stored := *img
	f.s.images[img.ID] = &stored
	f.s.imgOrder = append(f.s.imgOrder, img.ID)
	return nil
}

func (f *fakeImageStore) ListForPair(_ context.Context, userA, userB string) ([]*models.Image, error) {
	var images []*models.Image
	for _, id := range f.s.imgOrder {
		img, ok := f.s.images[id]
		if !ok {
			continue
		}
		if samePair(img, userA, userB) {
			result := *img
			images = append(images, &result)
		}
	}
	return images, nil
}

func (f *fakeImageStore) DeleteForPairByURL(_ context.Context, userA, userB, imageURL string) (bool, error) {
	removed := false
	for id, img := range f.s.images {
		if img.ImageURL == imageURL && samePair(img, userA, userB) {
			delete(f.s.images, id)
			removed = true
		}
	}
	return removed, nil
}

func samePair(img *models.Image, userA, userB string) bool {
	return (img.User1ID == userA && img.User2ID == userB) ||
		(img.User1ID == userB && img.User2ID == userA)
}

// --- providers ---

type fakeGeocoder struct {
	addr geo.Address
	err  error
}

func (g *fakeGeocoder) Reverse(context.Context, float64, float64) (geo.Address, error) {
	return g.addr, g.err
}

type fakeWeather struct {
	obs weather.Observation
	err error
}

func (w *fakeWeather) Current(context.Context, float64, float64) (weather.Observation, error) {
	return w.obs, w.err
}

// --- helpers ---

func (f *fakes) addUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Timezone:  "UTC",
		TempUnit:  models.UnitKelvin,
		City:      "Chicago",
		Country:   "United States of America",
		CreatedAt: time.Now(),
	}
	f.state.users[user.ID] = user
	return user
}

func (f *fakes) befriend(a, b *models.User) {
	f.state.connect(a.ID, b.ID)
	f.state.connect(b.ID, a.ID)
}
