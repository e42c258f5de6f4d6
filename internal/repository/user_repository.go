package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"user-service/internal/database"
	"user-service/internal/entities"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*entities.User, error)
	FindByRole(ctx context.Context, role entities.Role) ([]*entities.User, error)
	FindBornAfter(ctx context.Context, date time.Time) ([]*entities.User, error)
	FindAll(ctx context.Context) ([]*entities.User, error)
	FindPage(ctx context.Context, offset, limit int) ([]*entities.User, int64, error)
	Update(ctx context.Context, user *entities.User) (*entities.User, error)
	// Delete removes the user and its cards, returning the ids of the removed cards
	Delete(ctx context.Context, id int64) ([]int64, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, name, surname, birth_date, email, password_hash, role"

func scanUser(row rowScanner) (*entities.User, error) {
	var user entities.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Surname,
		&user.BirthDate,
		&user.Email,
		&user.PasswordHash,
		&role,
	)
	if err != nil {
		return nil, err
	}
	user.Role = entities.Role(role)
	return &user, nil
}

func (r *userRepository) queryOne(ctx context.Context, query string, args ...any) (*entities.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *userRepository) queryMany(ctx context.Context, query string, args ...any) ([]*entities.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*entities.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		INSERT INTO users (name, surname, birth_date, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.BirthDate, user.Email, user.PasswordHash, string(user.Role),
	))
	if isIntegrityViolation(err) {
		return nil, fmt.Errorf("failed to create user: %w: %w", ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// FindByID finds a user by id
func (r *userRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail finds a user by email, ignoring case
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []int64) ([]*entities.User, error) {
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}
	in, args := inClause(ids, 1)
	return r.queryMany(ctx, `SELECT `+userColumns+` FROM users WHERE id IN (`+in+`) ORDER BY id`, args...)
}

func (r *userRepository) FindByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	return r.queryMany(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, string(role))
}

// FindBornAfter returns users whose birth date is strictly after date
func (r *userRepository) FindBornAfter(ctx context.Context, date time.Time) ([]*entities.User, error) {
	return r.queryMany(ctx, `SELECT `+userColumns+` FROM users WHERE birth_date > $1 ORDER BY id`, date)
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	return r.queryMany(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// FindPage returns one id-ordered page and the total row count
func (r *userRepository) FindPage(ctx context.Context, offset, limit int) ([]*entities.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := r.queryMany(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update overwrites every mutable column of the user
func (r *userRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		UPDATE users
		SET name = $1, surname = $2, birth_date = $3, email = $4, password_hash = $5, role = $6
		WHERE id = $7
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.BirthDate, user.Email, user.PasswordHash, string(user.Role), user.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isIntegrityViolation(err) {
		return nil, fmt.Errorf("failed to update user: %w: %w", ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) ([]int64, error) {
	var cardIDs []int64
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `DELETE FROM card_info WHERE user_id = $1 RETURNING id`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user cards: %w", err)
		}
		for rows.Next() {
			var cardID int64
			if err := rows.Scan(&cardID); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan deleted card id: %w", err)
			}
			cardIDs = append(cardIDs, cardID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to delete user cards: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cardIDs, nil
}
