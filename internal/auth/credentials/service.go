package credentials

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/account"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
)

// Service handles explicit email+password registration and login.
// Accounts created here resolve to the same row when the user later
// signs in through a federated provider with the same email.
type Service struct {
	db       *db.DB
	accounts account.Store
}

func NewService(db *db.DB, accounts account.Store) *Service {
	return &Service{db: db, accounts: accounts}
}

func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	// 1. Find or create account by email
	acct, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if acct == nil {
		acct, err = s.accounts.CreateWithPassword(ctx, email)
		if err != nil {
			return "", err
		}
	}

	// 2. Check if credentials already exist
	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE account_id = $1
		)
	`, acct.ID).Scan(&exists)

	if err != nil {
		return "", err
	}

	if exists {
		return "", ErrAlreadyRegistered
	}

	// 3. Hash password
	hash, version, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	// 4. Insert credentials
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (account_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, acct.ID, hash, version)

	if err != nil {
		return "", err
	}

	return acct.ID, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	var (
		accountID    uuid.UUID
		passwordHash string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, c.password_hash
		FROM accounts a
		JOIN credentials c ON c.account_id = a.id
		WHERE LOWER(a.email) = LOWER($1)
	`, email).Scan(&accountID, &passwordHash)

	if err == sql.ErrNoRows {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := VerifyPassword(passwordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return accountID.String(), nil
}
