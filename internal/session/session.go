// Package session reads the cached operator identity used to authorize API
// calls. The session file is written by the login flow; flockdash only reads it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserKey is the store key holding the serialized identity.
const UserKey = "user"

const defaultSessionPath = "~/.config/flockdash/session.json"

// ErrNoUser is returned when the store has no "user" entry.
var ErrNoUser = errors.New("session has no user")

// User is the identity object cached by the login flow.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	AccessToken string   `json:"accessToken"`
	TokenType   string   `json:"tokenType"`
}

// AuthorizationHeader returns the value for the Authorization header, or ""
// when the user carries no token.
func (u User) AuthorizationHeader() string {
	token := strings.TrimSpace(u.AccessToken)
	if token == "" {
		return ""
	}
	scheme := strings.TrimSpace(u.TokenType)
	if scheme == "" {
		scheme = "Bearer"
	}
	return scheme + " " + token
}

// DisplayName returns the best available label for the header bar.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Username); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	if claims, err := u.Claims(); err == nil && claims.Subject != "" {
		return claims.Subject
	}
	return "anonymous"
}

// Claims is the subset of access token claims shown to the operator.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token has a known expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the access token without verifying its signature. The
// backend verifies tokens; this is only for display.
func (u User) Claims() (Claims, error) {
	token := strings.TrimSpace(u.AccessToken)
	if token == "" {
		return Claims{}, fmt.Errorf("no access token")
	}
	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &registered); err != nil {
		return Claims{}, fmt.Errorf("decode access token: %w", err)
	}
	out := Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		out.ExpiresAt = registered.ExpiresAt.Time
	}
	return out, nil
}

// Load reads the session store at path and returns its user entry.
func Load(path string) (User, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return User{}, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return User{}, fmt.Errorf("%w: %s not found", ErrNoUser, resolved)
		}
		return User{}, fmt.Errorf("read session: %w", err)
	}
	return Parse(data)
}

// Parse decodes a session store document. The "user" entry may be an object
// or, as browsers store it, a JSON string holding the object.
func Parse(data []byte) (User, error) {
	var store map[string]json.RawMessage
	if err := json.Unmarshal(data, &store); err != nil {
		return User{}, fmt.Errorf("parse session: %w", err)
	}
	raw, ok := store[UserKey]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return User{}, ErrNoUser
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return User{}, fmt.Errorf("parse session user: %w", err)
	}
	return user, nil
}

// DefaultPath returns the default session store path.
func DefaultPath() string {
	return defaultSessionPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
