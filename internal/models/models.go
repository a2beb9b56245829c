package models

import "time"

// Temperature display units.
const (
	UnitKelvin     = "K"
	UnitCelsius    = "C"
	UnitFahrenheit = "F"
)

// Message types.
const (
	MsgTypeFriendRequest = "FR"
	MsgTypeNormal        = "NM"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Timezone     string    `json:"timezone"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	TempUnit     string    `json:"temp_unit"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is a directed communication between two users. A message is
// either a normal message or a pending friend request; a friend request
// is deleted when it is accepted or rejected.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	MsgType    string    `json:"msg_type"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Image is a background image jointly owned by a pair of friends.
// The user1/user2 slots carry no meaning; lookups match either order.
type Image struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
