package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

var profileColumnNames = []string{
	"id", "user_id", "description", "parish", "biography", "sex", "race",
	"birth_year", "height", "fav_cuisine", "fav_colour", "fav_school_subject",
	"political", "religious", "family_oriented", "photo", "is_complete",
	"created_at", "updated_at",
}

// profileColumns renders the profile column list, qualified with alias when set.
func profileColumns(alias string) string {
	if alias == "" {
		return strings.Join(profileColumnNames, ", ")
	}
	cols := make([]string, len(profileColumnNames))
	for i, c := range profileColumnNames {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			user_id, description, parish, biography, sex, race,
			birth_year, height, fav_cuisine, fav_colour, fav_school_subject,
			political, religious, family_oriented, photo, is_complete
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	return conn(ctx, r.db).QueryRowContext(
		ctx, query,
		profile.UserID, profile.Description, profile.Parish, profile.Biography,
		profile.Sex, profile.Race, profile.BirthYear, profile.Height,
		profile.FavCuisine, profile.FavColour, profile.FavSchoolSubject,
		profile.Political, profile.Religious, profile.FamilyOriented,
		profile.Photo, profile.IsComplete,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id int) (*domain.Profile, error) {
	return r.getByID(ctx, id, "")
}

func (r *profileRepository) GetByIDForUpdate(ctx context.Context, id int) (*domain.Profile, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *profileRepository) getByID(ctx context.Context, id int, lock string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns("") + ` FROM profiles WHERE id = $1` + lock
	err := conn(ctx, r.db).GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetWithName(ctx context.Context, id int) (*domain.ProfileWithName, error) {
	var profile domain.ProfileWithName
	query := `
		SELECT ` + profileColumns("p") + `, u.name
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	err := conn(ctx, r.db).GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET description = $1, parish = $2, biography = $3, sex = $4, race = $5,
		    birth_year = $6, height = $7, fav_cuisine = $8, fav_colour = $9,
		    fav_school_subject = $10, political = $11, religious = $12,
		    family_oriented = $13, photo = $14, is_complete = $15,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $16
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowContext(
		ctx, query,
		profile.Description, profile.Parish, profile.Biography, profile.Sex, profile.Race,
		profile.BirthYear, profile.Height, profile.FavCuisine, profile.FavColour,
		profile.FavSchoolSubject, profile.Political, profile.Religious,
		profile.FamilyOriented, profile.Photo, profile.IsComplete,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *profileRepository) CountByUserID(ctx context.Context, userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM profiles WHERE user_id = $1`
	err := conn(ctx, r.db).GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *profileRepository) HasCompleteProfile(ctx context.Context, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1 AND is_complete = true)`
	err := conn(ctx, r.db).GetContext(ctx, &exists, query, userID)
	return exists, err
}

func (r *profileRepository) ListLatest(ctx context.Context, limit int) ([]*domain.ProfileWithName, error) {
	profiles := []*domain.ProfileWithName{}
	query := `
		SELECT ` + profileColumns("p") + `, u.name
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
	`
	err := conn(ctx, r.db).SelectContext(ctx, &profiles, query, limit)
	return profiles, err
}

func (r *profileRepository) ListByOtherUsers(ctx context.Context, userID int) ([]*domain.ProfileWithName, error) {
	profiles := []*domain.ProfileWithName{}
	query := `
		SELECT ` + profileColumns("p") + `, u.name
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id <> $1
		ORDER BY p.id
	`
	err := conn(ctx, r.db).SelectContext(ctx, &profiles, query, userID)
	return profiles, err
}

func (r *profileRepository) Search(ctx context.Context, filter repository.ProfileSearch) ([]*domain.ProfileWithName, error) {
	profiles := []*domain.ProfileWithName{}

	query := `SELECT ` + profileColumns("p") + `, u.name FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id <> $1`
	args := []interface{}{filter.ExcludeUserID}
	argCount := 2

	if filter.Name != "" {
		query += fmt.Sprintf(` AND u.name ILIKE '%%' || $%d || '%%'`, argCount)
		args = append(args, likeEscaper.Replace(filter.Name))
		argCount++
	}

	if filter.BirthYear != nil {
		query += fmt.Sprintf(" AND p.birth_year = $%d", argCount)
		args = append(args, *filter.BirthYear)
		argCount++
	}

	if filter.Sex != "" {
		query += fmt.Sprintf(" AND p.sex = $%d", argCount)
		args = append(args, filter.Sex)
		argCount++
	}

	if filter.Race != "" {
		query += fmt.Sprintf(" AND p.race = $%d", argCount)
		args = append(args, filter.Race)
	}

	query += " ORDER BY p.id"

	err := conn(ctx, r.db).SelectContext(ctx, &profiles, query, args...)
	return profiles, err
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID int) error {
	query := `DELETE FROM profiles WHERE user_id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, userID)
	return err
}
