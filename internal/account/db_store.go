package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/db"
)

// DBStore is the canonical postgres-backed account store.
type DBStore struct {
	db *db.DB
}

func NewDBStore(db *db.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) scanAccount(ctx context.Context, row *sql.Row) (*Account, error) {
	var (
		a  Account
		id uuid.UUID
	)
	err := row.Scan(
		&id,
		&a.Email,
		&a.EmailVerified,
		&a.Name,
		&a.Picture,
		&a.SignupProvider,
		&a.IsAdmin,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.ID = id.String()

	rows, err := s.db.QueryContext(ctx, `
		SELECT provider
		FROM identities
		WHERE account_id = $1
		ORDER BY created_at
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		a.LinkedProviders = append(a.LinkedProviders, p)
	}
	return &a, rows.Err()
}

const accountColumns = `
	id, email, email_verified, name, picture, signup_provider, is_admin
`

func (s *DBStore) FindByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)
	return s.scanAccount(ctx, row)
}

func (s *DBStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return s.scanAccount(ctx, row)
}

func (s *DBStore) FindAccountIDByIdentity(
	ctx context.Context,
	provider string,
	providerUserID string,
) (string, error) {

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`, provider, providerUserID).Scan(&id)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *DBStore) FindAccountIDByProviderEmail(
	ctx context.Context,
	provider string,
	email string,
) (string, error) {

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id
		FROM identities
		WHERE provider = $1
		  AND LOWER(email) = LOWER($2)
	`, provider, email).Scan(&id)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *DBStore) Create(ctx context.Context, identity *auth.Identity) (*Account, error) {
	if identity == nil {
		return nil, errors.New("account: identity is nil")
	}

	// Account and identity rows commit together: a taken identity
	// rolls the fresh account row back instead of stranding it.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO accounts (email, email_verified, name, picture, signup_provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		identity.Email,
		identity.EmailVerified,
		identity.Name,
		identity.Picture,
		identity.Provider,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO identities (account_id, provider, provider_user_id, email)
		VALUES ($1, $2, $3, $4)
	`,
		id,
		identity.Provider,
		identity.ProviderUserID,
		identity.Email,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrIdentityTaken
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id.String())
}

func (s *DBStore) CreateWithPassword(ctx context.Context, email string) (*Account, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (email, email_verified, signup_provider)
		VALUES ($1, false, 'password')
		RETURNING id
	`, email).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id.String())
}

func (s *DBStore) LinkIdentity(
	ctx context.Context,
	accountID string,
	identity *auth.Identity,
) error {

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (account_id, provider, provider_user_id, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_user_id) DO NOTHING
	`,
		accountID,
		identity.Provider,
		identity.ProviderUserID,
		identity.Email,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrIdentityTaken
		}
		return err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if inserted > 0 {
		return nil
	}

	// Row already exists: a re-link of the same identity to the same
	// account is a no-op, any other owner is a conflict.
	var owner uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		SELECT account_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`, identity.Provider, identity.ProviderUserID).Scan(&owner)
	if err != nil {
		return err
	}
	if owner.String() != accountID {
		return ErrIdentityTaken
	}
	return nil
}

func (s *DBStore) EnrichProfile(
	ctx context.Context,
	accountID string,
	identity *auth.Identity,
) error {

	_, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET email   = CASE WHEN email   = '' THEN $2 ELSE email   END,
		    name    = CASE WHEN name    = '' THEN $3 ELSE name    END,
		    picture = CASE WHEN picture = '' THEN $4 ELSE picture END,
		    updated_at = NOW()
		WHERE id = $1
	`,
		accountID,
		identity.Email,
		identity.Name,
		identity.Picture,
	)
	return err
}
