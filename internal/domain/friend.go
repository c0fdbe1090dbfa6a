package domain

import "time"

type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
)

// FriendEdge links a requester (UserID) and a recipient (FriendID).
type FriendEdge struct {
	ID        string       `bson:"_id" json:"id"`
	UserID    string       `bson:"user_id" json:"user_id"`
	FriendID  string       `bson:"friend_id" json:"friend_id"`
	Status    FriendStatus `bson:"status" json:"status"`
	PairKey   string       `bson:"pair_key" json:"-"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}

// PairKey identifies the unordered pair {a, b}.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// Other returns the end of the edge that is not userID.
func (e FriendEdge) Other(userID string) string {
	if e.UserID == userID {
		return e.FriendID
	}
	return e.UserID
}

func (e FriendEdge) Connects(a, b string) bool {
	return (e.UserID == a && e.FriendID == b) || (e.UserID == b && e.FriendID == a)
}
