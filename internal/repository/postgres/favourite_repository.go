package postgres

import (
	"context"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

// rankedUserColumns selects a user (aliased u) with the parish and birth
// year of their earliest profile, joined through firstProfileJoin. Callers
// add favorite_count themselves.
const rankedUserColumns = `
	u.id, u.username, u.password_hash, u.name, u.email, u.photo, u.date_joined,
	fp.parish, fp.birth_year`

const firstProfileJoin = `
	LEFT JOIN LATERAL (
		SELECT p.parish, p.birth_year
		FROM profiles p
		WHERE p.user_id = u.id
		ORDER BY p.id
		LIMIT 1
	) fp ON true`

type favouriteRepository struct {
	db *sqlx.DB
}

func NewFavouriteRepository(db *sqlx.DB) repository.FavouriteRepository {
	return &favouriteRepository{db: db}
}

func (r *favouriteRepository) Create(ctx context.Context, fav *domain.Favourite) error {
	query := `
		INSERT INTO favourites (user_id, fav_user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, fav.UserID, fav.FavUserID).
		Scan(&fav.ID, &fav.CreatedAt)
	if _, ok := pqViolation(err, pqUniqueViolation); ok {
		return domain.ErrFavouriteExists
	}
	if _, ok := pqViolation(err, pqCheckViolation); ok {
		return domain.ErrSelfFavourite
	}
	if _, ok := pqViolation(err, pqForeignKeyViolation); ok {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *favouriteRepository) Delete(ctx context.Context, userID, favUserID int) error {
	query := `DELETE FROM favourites WHERE user_id = $1 AND fav_user_id = $2`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, userID, favUserID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrFavouriteNotFound
	}
	return nil
}

func (r *favouriteRepository) ListTargets(ctx context.Context, userID int) ([]*domain.RankedUser, error) {
	users := []*domain.RankedUser{}
	query := `
		SELECT ` + rankedUserColumns + `,
		       (SELECT COUNT(*) FROM favourites c WHERE c.fav_user_id = u.id) AS favorite_count
		FROM favourites f
		JOIN users u ON u.id = f.fav_user_id
		` + firstProfileJoin + `
		WHERE f.user_id = $1
		ORDER BY f.id
	`
	err := conn(ctx, r.db).SelectContext(ctx, &users, query, userID)
	return users, err
}

func (r *favouriteRepository) CountByTarget(ctx context.Context) ([]*domain.RankedUser, error) {
	users := []*domain.RankedUser{}
	query := `
		SELECT ` + rankedUserColumns + `, agg.favorite_count
		FROM (
			SELECT fav_user_id, COUNT(*) AS favorite_count
			FROM favourites
			GROUP BY fav_user_id
		) agg
		JOIN users u ON u.id = agg.fav_user_id
		` + firstProfileJoin + `
		ORDER BY agg.favorite_count DESC, u.id
	`
	err := conn(ctx, r.db).SelectContext(ctx, &users, query)
	return users, err
}

func (r *favouriteRepository) DeleteByUserID(ctx context.Context, userID int) error {
	query := `DELETE FROM favourites WHERE user_id = $1 OR fav_user_id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, userID)
	return err
}
