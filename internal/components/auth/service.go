package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type (
	// CredentialSource resolves a username to its stored credentials.
	// A (nil, nil) return means the username is unknown.
	CredentialSource interface {
		Credentials(ctx context.Context, username string) (*Credentials, error)
	}

	servicer interface {
		Authenticate(ctx context.Context, username, password string) (*Identity, error)
	}

	service struct {
		source CredentialSource
	}
)

func NewService(source CredentialSource) servicer {
	return &service{source: source}
}

// Authenticate looks up the user by exact username and verifies the password
// against the stored hash. Unknown usernames and wrong passwords both produce
// ErrInvalidCredentials so the response cannot be used for enumeration.
func (s *service) Authenticate(ctx context.Context, username, password string) (*Identity, error) {
	creds, err := s.source.Credentials(ctx, username)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		ID:       creds.ID,
		Username: creds.Username,
	}, nil
}
