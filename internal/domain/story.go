package domain

import "time"

const StoryTTL = 24 * time.Hour

type Story struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Location  GeoPoint  `bson:"location" json:"location"`
	Media     Media     `bson:"media" json:"media"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

// Active reports whether the story is still visible at now.
func (s Story) Active(now time.Time) bool {
	return !now.After(s.ExpiresAt)
}

type NearbyStory struct {
	Story    `bson:",inline"`
	Distance float64 `bson:"distance" json:"distance"`
}
