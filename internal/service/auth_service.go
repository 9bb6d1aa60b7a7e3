package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/models"
	"smarthome_proxy/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	sessionIssuer = "smarthome-proxy"
	oauthStateLen = 10

	loginMethodOAuth    = "oauth"
	loginMethodPassword = "password"
)

type AuthConfig struct {
	SigningKey string
	SessionTTL time.Duration
	Refresh    bool // trade the refresh token for a new access token on expiry
}

// Claims defines the session token claims.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// AuthService maps proxy sessions to stored upstream credentials.
type AuthService struct {
	cfg     AuthConfig
	gateway Gateway
	store   repository.CredentialStore
	conns   Connections
	journal *journal
	log     *logger.Logger

	refreshes singleflight.Group
	now       func() time.Time
	newID     func() string
}

func NewAuthService(cfg AuthConfig, gw Gateway, store repository.CredentialStore, conns Connections, j *journal, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthService{
		cfg:     cfg,
		gateway: gw,
		store:   store,
		conns:   conns,
		journal: j,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func newOAuthState() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:oauthStateLen]
}

// LoginURL returns the upstream OAuth page the client should open.
func (s *AuthService) LoginURL() string {
	return s.gateway.LoginURL(newOAuthState())
}

// ExchangeCode completes the OAuth flow and starts a session.
func (s *AuthService) ExchangeCode(ctx context.Context, code, region string) (models.Session, error) {
	r, err := models.ParseRegion(region)
	if err != nil {
		return models.Session{}, err
	}
	cred, err := s.gateway.ExchangeCode(ctx, code, r)
	if err != nil {
		return models.Session{}, err
	}
	return s.startSession(ctx, *cred, loginMethodOAuth)
}

// PasswordLogin signs in with account credentials and starts a session.
func (s *AuthService) PasswordLogin(ctx context.Context, in cloud.PasswordLogin) (models.Session, error) {
	cred, err := s.gateway.PasswordLogin(ctx, in)
	if err != nil {
		return models.Session{}, err
	}
	return s.startSession(ctx, *cred, loginMethodPassword)
}

func (s *AuthService) startSession(ctx context.Context, cred models.Credential, method string) (models.Session, error) {
	id := s.newID()
	if err := s.store.Save(ctx, id, cred); err != nil {
		return models.Session{}, fmt.Errorf("save credential: %w", err)
	}
	token, exp, err := s.issueToken(id)
	if err != nil {
		return models.Session{}, err
	}

	s.journal.record(ctx, models.DeviceEvent{
		SessionID:   id,
		Type:        models.EventLogin,
		Description: "session started",
		Metadata:    map[string]any{"method": method, "region": string(cred.Region)},
	})
	s.log.Infow("session_started", "session", id, "region", cred.Region, "method", method)

	return models.Session{ID: id, Token: token, Region: cred.Region, ExpiresAt: exp}, nil
}

func (s *AuthService) issueToken(sessionID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	})
	signed, err := token.SignedString([]byte(s.cfg.SigningKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp.UTC().Truncate(time.Second), nil
}

func (s *AuthService) parseClaims(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseToken validates a session token and returns its session id.
func (s *AuthService) ParseToken(token string) (string, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}

// Resume describes the session behind a still-valid token.
func (s *AuthService) Resume(ctx context.Context, token string) (models.Session, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return models.Session{}, err
	}
	cred, err := s.Credential(ctx, claims.SessionID)
	if err != nil {
		return models.Session{}, err
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time.UTC()
	}
	return models.Session{ID: claims.SessionID, Token: token, Region: cred.Region, ExpiresAt: exp}, nil
}

// Credential returns a usable upstream credential for the session, refreshing it
// when it has expired and refresh is enabled.
func (s *AuthService) Credential(ctx context.Context, sessionID string) (*models.Credential, error) {
	cred, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if cred == nil {
		return nil, ErrInvalidCredential
	}
	now := s.now()
	if cred.IsValid(now) {
		return cred, nil
	}
	if !s.cfg.Refresh || !cred.CanRefresh(now) {
		return nil, ErrInvalidCredential
	}
	return s.refresh(ctx, sessionID)
}

// refresh runs at most one upstream refresh per session at a time; concurrent
// callers share its result.
func (s *AuthService) refresh(ctx context.Context, sessionID string) (*models.Credential, error) {
	v, err, _ := s.refreshes.Do(sessionID, func() (any, error) {
		ctx := context.WithoutCancel(ctx)

		cur, err := s.store.Load(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("load credential: %w", err)
		}
		if cur == nil {
			return nil, ErrInvalidCredential
		}
		if cur.IsValid(s.now()) {
			return cur, nil
		}

		next, err := s.gateway.Refresh(ctx, *cur)
		if err != nil {
			s.log.Warnw("credential_refresh_failed", "session", sessionID, "err", err)
			if errors.Is(err, cloud.ErrUpstreamUnavailable) {
				return nil, err
			}
			return nil, ErrInvalidCredential
		}
		if err := s.store.Save(ctx, sessionID, *next); err != nil {
			return nil, fmt.Errorf("save credential: %w", err)
		}

		s.journal.record(ctx, models.DeviceEvent{
			SessionID:   sessionID,
			Type:        models.EventRefresh,
			Description: "access token refreshed",
		})
		s.log.Infow("credential_refreshed", "session", sessionID)
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Credential), nil
}

// Logout forgets the session's credential and closes its push channel.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if s.conns != nil {
		s.conns.Unregister(sessionID)
	}
	s.journal.record(ctx, models.DeviceEvent{
		SessionID:   sessionID,
		Type:        models.EventLogout,
		Description: "session ended",
	})
	s.log.Infow("session_ended", "session", sessionID)
	return nil
}
