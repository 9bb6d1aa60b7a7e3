package repository

import (
	"context"
	"database/sql"
	"time"

	"smarthome_proxy/internal/models"
)

// CredentialStore persists upstream credentials per session.
type CredentialStore interface {
	Save(ctx context.Context, sessionID string, c models.Credential) error
	// Load returns (nil, nil) when nothing usable is stored for the session.
	Load(ctx context.Context, sessionID string) (*models.Credential, error)
	Delete(ctx context.Context, sessionID string) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.DeviceEvent) error
	List(ctx context.Context, sessionID string, from, to time.Time, typ string) ([]models.DeviceEvent, error)
}

type Repository struct {
	Credentials CredentialStore
	EventRepo   EventRepo
}

// NewRepository wires the journal to db and uses creds for credentials.
// When creds is nil the credentials live in db as well.
func NewRepository(db *sql.DB, creds CredentialStore) *Repository {
	if creds == nil {
		creds = NewCredentialSQLite(db)
	}
	return &Repository{
		Credentials: creds,
		EventRepo:   NewEventSQLite(db),
	}
}
