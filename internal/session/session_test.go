package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestParse_ObjectAndStringEncodedUser(t *testing.T) {
	cases := map[string]string{
		"object": `{"user": {"id": 3, "username": "amina", "accessToken": "abc", "tokenType": "Bearer"}}`,
		"string": `{"user": "{\"id\":3,\"username\":\"amina\",\"accessToken\":\"abc\"}"}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			user, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if user.ID != 3 || user.Username != "amina" {
				t.Fatalf("user = %#v, want id=3 username=amina", user)
			}
			if got := user.AuthorizationHeader(); got != "Bearer abc" {
				t.Fatalf("AuthorizationHeader = %q, want %q", got, "Bearer abc")
			}
		})
	}
}

func TestParse_MissingUser(t *testing.T) {
	for _, doc := range []string{`{}`, `{"user": null}`} {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrNoUser) {
			t.Fatalf("Parse(%s) error = %v, want ErrNoUser", doc, err)
		}
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Fatalf("Parse returned nil error for invalid json")
	}
}

func TestLoad_ReadsFileAndReportsMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte(`{"user": {"username": "kofi"}}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	user, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if user.DisplayName() != "kofi" {
		t.Fatalf("DisplayName = %q, want kofi", user.DisplayName())
	}
	if user.AuthorizationHeader() != "" {
		t.Fatalf("AuthorizationHeader = %q, want empty without token", user.AuthorizationHeader())
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrNoUser) {
		t.Fatalf("Load missing error = %v, want ErrNoUser", err)
	}
}

func TestClaims_DecodesUnverifiedToken(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "manager@kombe.farm",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("not-the-server-key"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	user := User{AccessToken: token}
	claims, err := user.Claims()
	if err != nil {
		t.Fatalf("Claims returned error: %v", err)
	}
	if claims.Subject != "manager@kombe.farm" {
		t.Fatalf("Subject = %q, want manager@kombe.farm", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
	if !claims.Expired(time.Now()) {
		t.Fatalf("Expired = false, want true")
	}
	if user.DisplayName() != "manager@kombe.farm" {
		t.Fatalf("DisplayName = %q, want subject fallback", user.DisplayName())
	}

	if _, err := (User{AccessToken: "garbage"}).Claims(); err == nil {
		t.Fatalf("Claims returned nil error for malformed token")
	}
}
