package domain

import (
	"strings"
	"time"
)

// MaxProfilesPerUser caps how many profiles a single user may own.
const MaxProfilesPerUser = 3

type Profile struct {
	ID               int       `json:"id" db:"id"`
	UserID           int       `json:"user_id" db:"user_id"`
	Description      *string   `json:"description" db:"description"`
	Parish           *string   `json:"parish" db:"parish"`
	Biography        *string   `json:"biography" db:"biography"`
	Sex              *string   `json:"sex" db:"sex"`
	Race             *string   `json:"race" db:"race"`
	BirthYear        *int      `json:"birth_year" db:"birth_year"`
	Height           *float64  `json:"height" db:"height"`
	FavCuisine       *string   `json:"fav_cuisine" db:"fav_cuisine"`
	FavColour        *string   `json:"fav_colour" db:"fav_colour"`
	FavSchoolSubject *string   `json:"fav_school_subject" db:"fav_school_subject"`
	Political        *bool     `json:"political" db:"political"`
	Religious        *bool     `json:"religious" db:"religious"`
	FamilyOriented   *bool     `json:"family_oriented" db:"family_oriented"`
	Photo            *string   `json:"photo" db:"photo"`
	IsComplete       bool      `json:"is_complete" db:"is_complete"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileWithName is a profile joined with its owner's display name.
type ProfileWithName struct {
	Profile
	Name string `json:"name" db:"name"`
}

// CheckCompleteness recomputes and stores IsComplete. A profile is complete
// when every required attribute is present: strings non-blank, birth year
// and height non-zero, booleans non-null.
func (p *Profile) CheckCompleteness() bool {
	p.IsComplete = filled(p.Description) &&
		filled(p.Parish) &&
		filled(p.Biography) &&
		filled(p.Sex) &&
		filled(p.Race) &&
		p.BirthYear != nil && *p.BirthYear != 0 &&
		p.Height != nil && *p.Height != 0 &&
		filled(p.FavCuisine) &&
		filled(p.FavColour) &&
		filled(p.FavSchoolSubject) &&
		p.Political != nil &&
		p.Religious != nil &&
		p.FamilyOriented != nil
	return p.IsComplete
}

func (p *Profile) IsOwnedBy(userID int) bool {
	return p.UserID == userID
}

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
