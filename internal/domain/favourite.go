package domain

import "time"

// Favourite is a directed edge from UserID to FavUserID.
type Favourite struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	FavUserID int       `json:"fav_user_id" db:"fav_user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
