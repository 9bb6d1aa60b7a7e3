package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"smarthome_proxy/internal/models"

	"github.com/google/renameio/v2"
)

const credentialFileMode = 0o600

// ErrCorruptCredentialFile is returned by Save and Delete when the existing file
// cannot be decoded. The file is left untouched.
var ErrCorruptCredentialFile = errors.New("credential file is corrupt")

// credentialDocument is the on-disk layout of the credential file.
type credentialDocument struct {
	Sessions map[string]models.Credential `json:"sessions"`
}

// CredentialFile keeps every session's credential in one JSON document.
// The file is replaced atomically so readers never see a partial write.
type CredentialFile struct {
	path string
	mu   sync.Mutex
}

var _ CredentialStore = (*CredentialFile)(nil)

func NewCredentialFile(path string) *CredentialFile {
	return &CredentialFile{path: path}
}

func (s *CredentialFile) Save(_ context.Context, sessionID string, c models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Sessions[sessionID] = c
	return s.write(doc)
}

// Load reports a missing, unreadable or corrupt file as an absent credential.
func (s *CredentialFile) Load(_ context.Context, sessionID string) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, nil
	}
	c, ok := doc.Sessions[sessionID]
	if !ok || c.AccessToken == "" {
		return nil, nil
	}
	return &c, nil
}

func (s *CredentialFile) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Sessions[sessionID]; !ok {
		return nil
	}
	delete(doc.Sessions, sessionID)
	return s.write(doc)
}

// read returns the current document. Only a missing file counts as empty.
func (s *CredentialFile) read() (credentialDocument, error) {
	doc := credentialDocument{Sessions: map[string]models.Credential{}}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read credential file %q: %w", s.path, err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("%w: %q: %v", ErrCorruptCredentialFile, s.path, err)
	}
	if doc.Sessions == nil {
		doc.Sessions = map[string]models.Credential{}
	}
	return doc, nil
}

func (s *CredentialFile) write(doc credentialDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := renameio.WriteFile(s.path, b, credentialFileMode); err != nil {
		return fmt.Errorf("replace credential file %q: %w", s.path, err)
	}
	return nil
}
