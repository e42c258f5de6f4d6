package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"user-service/internal/entities"
)

// CardInfoRepository defines the interface for card database operations
type CardInfoRepository interface {
	Create(ctx context.Context, card *entities.CardInfo) (*entities.CardInfo, error)
	FindByID(ctx context.Context, id int64) (*entities.CardInfo, error)
	// FindByNumber returns the lowest-id card with the number
	FindByNumber(ctx context.Context, number string) (*entities.CardInfo, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*entities.CardInfo, error)
	FindByUserID(ctx context.Context, userID int64) ([]*entities.CardInfo, error)
	// FindExpired returns cards whose expiration date is before the current date
	FindExpired(ctx context.Context) ([]*entities.CardInfo, error)
	FindAll(ctx context.Context) ([]*entities.CardInfo, error)
	FindPage(ctx context.Context, offset, limit int) ([]*entities.CardInfo, int64, error)
	Update(ctx context.Context, card *entities.CardInfo) (*entities.CardInfo, error)
	Delete(ctx context.Context, id int64) error
}

type cardInfoRepository struct {
	db *sql.DB
}

// NewCardInfoRepository creates a new card repository
func NewCardInfoRepository(db *sql.DB) CardInfoRepository {
	return &cardInfoRepository{db: db}
}

const cardColumns = "id, number, holder, expiration_date, user_id"

func scanCard(row rowScanner) (*entities.CardInfo, error) {
	var card entities.CardInfo
	var expiration sql.NullTime
	var userID sql.NullInt64
	if err := row.Scan(&card.ID, &card.Number, &card.Holder, &expiration, &userID); err != nil {
		return nil, err
	}
	if expiration.Valid {
		t := expiration.Time
		card.ExpirationDate = &t
	}
	if userID.Valid {
		id := userID.Int64
		card.UserID = &id
	}
	return &card, nil
}

func nullableCardArgs(card *entities.CardInfo) (sql.NullTime, sql.NullInt64) {
	var expiration sql.NullTime
	if card.ExpirationDate != nil {
		expiration = sql.NullTime{Time: *card.ExpirationDate, Valid: true}
	}
	var userID sql.NullInt64
	if card.UserID != nil {
		userID = sql.NullInt64{Int64: *card.UserID, Valid: true}
	}
	return expiration, userID
}

func (r *cardInfoRepository) queryOne(ctx context.Context, query string, args ...any) (*entities.CardInfo, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

func (r *cardInfoRepository) queryMany(ctx context.Context, query string, args ...any) ([]*entities.CardInfo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []*entities.CardInfo{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}

func (r *cardInfoRepository) Create(ctx context.Context, card *entities.CardInfo) (*entities.CardInfo, error) {
	query := `
		INSERT INTO card_info (number, holder, expiration_date, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + cardColumns

	expiration, userID := nullableCardArgs(card)
	created, err := scanCard(r.db.QueryRowContext(ctx, query, card.Number, card.Holder, expiration, userID))
	if isIntegrityViolation(err) {
		return nil, fmt.Errorf("failed to create card: %w: %w", ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return created, nil
}

func (r *cardInfoRepository) FindByID(ctx context.Context, id int64) (*entities.CardInfo, error) {
	return r.queryOne(ctx, `SELECT `+cardColumns+` FROM card_info WHERE id = $1`, id)
}

func (r *cardInfoRepository) FindByNumber(ctx context.Context, number string) (*entities.CardInfo, error) {
	return r.queryOne(ctx, `SELECT `+cardColumns+` FROM card_info WHERE number = $1 ORDER BY id LIMIT 1`, number)
}

func (r *cardInfoRepository) FindByIDs(ctx context.Context, ids []int64) ([]*entities.CardInfo, error) {
	if len(ids) == 0 {
		return []*entities.CardInfo{}, nil
	}
	in, args := inClause(ids, 1)
	return r.queryMany(ctx, `SELECT `+cardColumns+` FROM card_info WHERE id IN (`+in+`) ORDER BY id`, args...)
}

func (r *cardInfoRepository) FindByUserID(ctx context.Context, userID int64) ([]*entities.CardInfo, error) {
	return r.queryMany(ctx, `SELECT `+cardColumns+` FROM card_info WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *cardInfoRepository) FindExpired(ctx context.Context) ([]*entities.CardInfo, error) {
	return r.queryMany(ctx, `SELECT `+cardColumns+` FROM card_info WHERE expiration_date < CURRENT_DATE ORDER BY id`)
}

func (r *cardInfoRepository) FindAll(ctx context.Context) ([]*entities.CardInfo, error) {
	return r.queryMany(ctx, `SELECT `+cardColumns+` FROM card_info ORDER BY id`)
}

func (r *cardInfoRepository) FindPage(ctx context.Context, offset, limit int) ([]*entities.CardInfo, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_info`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}

	cards, err := r.queryMany(ctx,
		`SELECT `+cardColumns+` FROM card_info ORDER BY id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *cardInfoRepository) Update(ctx context.Context, card *entities.CardInfo) (*entities.CardInfo, error) {
	query := `
		UPDATE card_info
		SET number = $1, holder = $2, expiration_date = $3, user_id = $4
		WHERE id = $5
		RETURNING ` + cardColumns

	expiration, userID := nullableCardArgs(card)
	updated, err := scanCard(r.db.QueryRowContext(ctx, query, card.Number, card.Holder, expiration, userID, card.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isIntegrityViolation(err) {
		return nil, fmt.Errorf("failed to update card: %w: %w", ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return updated, nil
}

func (r *cardInfoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM card_info WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
