package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, password_hash, name, email, photo, date_joined`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, name, email, photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_joined
	`
	err := conn(ctx, r.db).QueryRowContext(
		ctx, query,
		user.Username, user.PasswordHash, user.Name, user.Email, user.Photo,
	).Scan(&user.ID, &user.DateJoined)
	if constraint, ok := pqViolation(err, pqUniqueViolation); ok {
		switch constraint {
		case "users_email_key":
			return domain.ErrEmailTaken
		default:
			return domain.ErrUsernameTaken
		}
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := conn(ctx, r.db).GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	err := conn(ctx, r.db).GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	err := conn(ctx, r.db).GetContext(ctx, &exists, query, username)
	return exists, err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := conn(ctx, r.db).GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	err := conn(ctx, r.db).SelectContext(ctx, &users, query)
	return users, err
}

func (r *userRepository) LockByID(ctx context.Context, id int) error {
	var locked int
	query := `SELECT id FROM users WHERE id = $1 FOR UPDATE`
	err := conn(ctx, r.db).GetContext(ctx, &locked, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *userRepository) UpdatePhoto(ctx context.Context, id int, photo string) error {
	query := `UPDATE users SET photo = $1 WHERE id = $2`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, photo, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
