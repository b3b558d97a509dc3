package domain

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Photo        *string   `json:"photo" db:"photo"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
}

// RankedUser is a user together with the attributes the favourites
// leaderboards sort on. Parish and BirthYear come from the user's earliest
// profile and are nil when the user has none.
type RankedUser struct {
	User
	Parish        *string `json:"parish" db:"parish"`
	BirthYear     *int    `json:"birth_year" db:"birth_year"`
	FavoriteCount int     `json:"favorite_count" db:"favorite_count"`
}
