package dbhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/ray-remotestate/burgerhouse/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const uniqueViolation = "23505"

const userColumns = `id, role, email, name, surname, phone, address, card_number, card_expiry, card_cvv, created_at`

type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (u *Users) IsUserExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := u.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).Scan(&count)
	return count > 0, err
}

// CreateUser stores a new account with the role decided by the caller.
func (u *Users) CreateUser(ctx context.Context, reg models.Registration, hashedPassword string, role models.Role) (models.AppUser, error) {
	row := u.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, role, name, surname, phone, address, card_number, card_expiry, card_cvv)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+userColumns,
		reg.Email, hashedPassword, role, reg.Name, reg.Surname, reg.Phone, reg.Address,
		reg.Card.CardNumber, reg.Card.CardExpiry, reg.Card.CardCvv)

	user, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.AppUser{}, ErrUserExists
		}
		return models.AppUser{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByPassword returns the account matching email once the password checks out.
func (u *Users) GetUserByPassword(ctx context.Context, email, password string) (models.AppUser, error) {
	var hashedPassword string
	row := u.db.QueryRowContext(ctx, `
		SELECT password, `+userColumns+` FROM users
		WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email)

	user, err := scanUser(row, &hashedPassword)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AppUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.AppUser{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) != nil {
		return models.AppUser{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile returns (nil, nil) when no active account has that id.
func (u *Users) GetProfile(ctx context.Context, userID uuid.UUID) (*models.AppUser, error) {
	row := u.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND archived_at IS NULL`, userID)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertProfile writes the non-nil fields of update. Role and email are never touched.
func (u *Users) UpsertProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (models.AppUser, error) {
	var cardNumber, cardExpiry, cardCvv *string
	if update.Card != nil {
		cardNumber, cardExpiry, cardCvv = &update.Card.CardNumber, &update.Card.CardExpiry, &update.Card.CardCvv
	}

	row := u.db.QueryRowContext(ctx, `
		UPDATE users SET
			name        = COALESCE($2, name),
			surname     = COALESCE($3, surname),
			phone       = COALESCE($4, phone),
			address     = COALESCE($5, address),
			card_number = COALESCE($6, card_number),
			card_expiry = COALESCE($7, card_expiry),
			card_cvv    = COALESCE($8, card_cvv)
		WHERE id = $1 AND archived_at IS NULL
		RETURNING `+userColumns,
		userID, nullable(update.Name), nullable(update.Surname), nullable(update.Phone), nullable(update.Address),
		nullable(cardNumber), nullable(cardExpiry), nullable(cardCvv))

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AppUser{}, ErrUserNotFound
	}
	if err != nil {
		return models.AppUser{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// scanUser reads userColumns, preceded by any extra destinations.
func scanUser(row *sql.Row, leading ...any) (models.AppUser, error) {
	var user models.AppUser
	dest := append(leading,
		&user.ID, &user.Role, &user.Email, &user.Name, &user.Surname, &user.Phone, &user.Address,
		&user.Card.CardNumber, &user.Card.CardExpiry, &user.Card.CardCvv, &user.CreatedAt)
	if err := row.Scan(dest...); err != nil {
		return models.AppUser{}, err
	}
	return user, nil
}
