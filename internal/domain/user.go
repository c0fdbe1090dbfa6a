package domain

import "time"

type User struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	Bio          string    `bson:"bio" json:"bio"`
	Avatar       string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Location     *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// UserUpdate holds the fields to change; nil fields are left untouched.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Bio          *string
	Avatar       *string
	Role         *Role
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.PasswordHash == nil &&
		u.Bio == nil && u.Avatar == nil && u.Role == nil
}

// NearbyUser is a user returned by a proximity query.
type NearbyUser struct {
	User     `bson:",inline"`
	Distance float64 `bson:"distance" json:"distance"`
}
