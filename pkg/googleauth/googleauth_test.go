package googleauth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		TokenFile:    filepath.Join(t.TempDir(), "token.json"),
	})
}

func TestAuthURLRequestsOfflineAccess(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	u := m.AuthURL("xyz")
	for _, want := range []string{"access_type=offline", "state=xyz", "client_id=client-id"} {
		if !strings.Contains(u, want) {
			t.Fatalf("auth url missing %q: %s", want, u)
		}
	}
	if !strings.Contains(u, "gmail.modify") || !strings.Contains(u, "calendar") {
		t.Fatalf("auth url missing scopes: %s", u)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	if m.IsAuthenticated() {
		t.Fatal("fresh manager must not be authenticated")
	}

	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	if err := m.saveToken(tok); err != nil {
		t.Fatalf("save token: %v", err)
	}

	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated after save")
	}
	loaded, err := m.loadToken()
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Fatalf("unexpected token: %+v", loaded)
	}

	info, err := os.Stat(m.tokenFile)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestExpiredTokenWithRefreshCountsAsAuthenticated(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	if err := m.saveToken(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("refresh token should keep the session authenticated")
	}
}

func TestLogoutRemovesToken(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	if err := m.saveToken(&oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := m.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatal("logout must drop the token")
	}

	// Logging out twice is fine.
	if err := m.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestTokenSourceWithoutToken(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	if _, err := m.TokenSource(t.Context()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestPersistingSourceSavesRefreshedToken(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	old := &oauth2.Token{AccessToken: "old", RefreshToken: "refresh"}
	if err := m.saveToken(old); err != nil {
		t.Fatalf("save token: %v", err)
	}

	fresh := &oauth2.Token{AccessToken: "fresh", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)}
	src := &persistingSource{
		manager: m,
		source:  oauth2.StaticTokenSource(fresh),
		last:    old,
	}

	got, err := src.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if got.AccessToken != "fresh" {
		t.Fatalf("unexpected access token: %s", got.AccessToken)
	}

	loaded, err := m.loadToken()
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if loaded.AccessToken != "fresh" {
		t.Fatalf("refreshed token not persisted: %+v", loaded)
	}
}
