package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smarthome_proxy/internal/models"
)

type CredentialSQLite struct {
	db *sql.DB
}

var _ CredentialStore = (*CredentialSQLite)(nil)

func NewCredentialSQLite(db *sql.DB) *CredentialSQLite {
	return &CredentialSQLite{db: db}
}

const (
	upsertCredentialSQL = `
		INSERT INTO credentials (session_id, access_token, refresh_token, expires_at, refresh_expires_at, region, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			access_token=excluded.access_token,
			refresh_token=excluded.refresh_token,
			expires_at=excluded.expires_at,
			refresh_expires_at=excluded.refresh_expires_at,
			region=excluded.region,
			updated_at=excluded.updated_at
	`

	selectCredentialSQL = `
		SELECT access_token, refresh_token, expires_at, refresh_expires_at, region
		FROM credentials WHERE session_id=?
	`

	deleteCredentialSQL = `DELETE FROM credentials WHERE session_id=?`
)

// nullTime stores the zero time as NULL.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (r *CredentialSQLite) Save(ctx context.Context, sessionID string, c models.Credential) error {
	_, err := r.db.ExecContext(ctx, upsertCredentialSQL,
		sessionID,
		c.AccessToken,
		c.RefreshToken,
		nullTime(c.ExpiresAt),
		nullTime(c.RefreshExpiresAt),
		string(c.Region),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

// Load returns (nil, nil) if the session has no row or the row holds no access token.
func (r *CredentialSQLite) Load(ctx context.Context, sessionID string) (*models.Credential, error) {
	var (
		c          models.Credential
		region     string
		expires    sql.NullTime
		rtExpires  sql.NullTime
		refreshTok sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectCredentialSQL, sessionID).
		Scan(&c.AccessToken, &refreshTok, &expires, &rtExpires, &region)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select credential: %w", err)
	}
	if c.AccessToken == "" {
		return nil, nil
	}
	c.RefreshToken = refreshTok.String
	c.Region = models.Region(region)
	if expires.Valid {
		c.ExpiresAt = expires.Time.UTC()
	}
	if rtExpires.Valid {
		c.RefreshExpiresAt = rtExpires.Time.UTC()
	}
	return &c, nil
}

func (r *CredentialSQLite) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, deleteCredentialSQL, sessionID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
