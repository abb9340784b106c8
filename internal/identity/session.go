package identity

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "t2048"

// sessionClaims is the payload of a persisted session token.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// saveSession writes a signed token for u. No-op without a session path.
func (p *Provider) saveSession(u User) error {
	if p.opts.SessionPath == "" {
		return nil
	}
	if len(p.opts.Secret) == 0 {
		return errors.New("identity: session secret is not configured")
	}

	now := p.opts.Now()
	claims := sessionClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.opts.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.opts.Secret)
	if err != nil {
		return fmt.Errorf("identity: cannot sign session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.opts.SessionPath), 0o700); err != nil {
		return fmt.Errorf("identity: cannot create session directory: %w", err)
	}
	if err := os.WriteFile(p.opts.SessionPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("identity: cannot write session: %w", err)
	}
	return nil
}

// loadSession returns the account id of a valid persisted token, or "" when
// there is none.
func (p *Provider) loadSession() (string, error) {
	if p.opts.SessionPath == "" {
		return "", nil
	}

	data, err := os.ReadFile(p.opts.SessionPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("identity: cannot read session: %w", err)
	}

	var claims sessionClaims
	_, err = jwt.ParseWithClaims(
		strings.TrimSpace(string(data)),
		&claims,
		func(*jwt.Token) (any, error) { return p.opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.opts.Now),
	)
	if err != nil {
		return "", fmt.Errorf("identity: invalid session: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("identity: session has no subject")
	}
	return claims.Subject, nil
}

func (p *Provider) clearSession() error {
	if p.opts.SessionPath == "" {
		return nil
	}
	if err := os.Remove(p.opts.SessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("identity: cannot remove session: %w", err)
	}
	return nil
}

// LoadOrCreateSecret reads the signing key at path, generating a random
// 32-byte key there on first use.
func LoadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("identity: cannot read secret: %w", err)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("identity: cannot generate secret: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("identity: cannot create secret directory: %w", err)
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("identity: cannot write secret: %w", err)
	}
	return secret, nil
}
