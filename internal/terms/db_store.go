package terms

import (
	"context"
	"database/sql"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/db"
)

// DBStore is the postgres-backed agreement store.
type DBStore struct {
	db *db.DB
}

func NewDBStore(db *db.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Append(ctx context.Context, a Agreement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO terms_agreements (account_id, kind, version, agreed_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		a.AccountID,
		a.Kind,
		a.Version,
		a.AgreedAt,
		a.IPAddress,
		a.UserAgent,
	)
	return err
}

func (s *DBStore) Latest(ctx context.Context, accountID, kind string) (*Agreement, error) {
	var a Agreement
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, kind, version, agreed_at, ip_address, user_agent
		FROM terms_agreements
		WHERE account_id = $1
		  AND kind = $2
		ORDER BY agreed_at DESC
		LIMIT 1
	`, accountID, kind).Scan(
		&a.AccountID,
		&a.Kind,
		&a.Version,
		&a.AgreedAt,
		&a.IPAddress,
		&a.UserAgent,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
