package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

var ErrNotAuthenticated = errors.New("not authenticated with Google")

type Config struct {
	ClientID     string `envconfig:"CLIENT_ID" split_words:"true" required:"true"`
	ClientSecret string `envconfig:"CLIENT_SECRET" split_words:"true" required:"true"`
	RedirectURL  string `envconfig:"REDIRECT_URL" split_words:"true" default:"http://localhost:8080/auth/callback"`
	TokenFile    string `envconfig:"TOKEN_FILE" split_words:"true" default:"token.json"`
}

// Manager handles the Google OAuth flow and token persistence. Tokens are
// stored as JSON on disk so a restart does not force a re-login; refreshed
// access tokens are written back transparently.
type Manager struct {
	conf      *oauth2.Config
	tokenFile string

	mu sync.Mutex
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     googleoauth.Endpoint,
			Scopes: []string{
				gmail.GmailModifyScope,
				gmail.GmailSendScope,
				calendar.CalendarScope,
				calendar.CalendarEventsScope,
			},
		},
		tokenFile: cfg.TokenFile,
	}
}

// AuthURL returns the consent page URL. Offline access is requested so the
// response carries a refresh token.
func (m *Manager) AuthURL(state string) string {
	return m.conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens and persists them.
func (m *Manager) Exchange(ctx context.Context, code string) error {
	tok, err := m.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}
	return m.saveToken(tok)
}

// IsAuthenticated reports whether a stored token exists. It does not probe
// the network; an expired token with a refresh token still counts.
func (m *Manager) IsAuthenticated() bool {
	tok, err := m.loadToken()
	return err == nil && (tok.RefreshToken != "" || tok.Valid())
}

// TokenSource returns a refreshing token source backed by the stored token.
// Refreshed tokens are written back to disk.
func (m *Manager) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := m.loadToken()
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return &persistingSource{
		manager: m,
		source:  m.conf.TokenSource(ctx, tok),
		last:    tok,
	}, nil
}

// Logout removes the stored token. A missing token file is not an error.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.Remove(m.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func (m *Manager) loadToken() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := os.ReadFile(m.tokenFile)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &tok, nil
}

func (m *Manager) saveToken(tok *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(m.tokenFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token directory: %w", err)
		}
	}
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(m.tokenFile, raw, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// persistingSource wraps the refreshing source and saves any token the
// refresh produced.
type persistingSource struct {
	manager *Manager
	source  oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.source.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	changed := p.last == nil || tok.AccessToken != p.last.AccessToken
	p.last = tok
	p.mu.Unlock()

	if changed {
		if err := p.manager.saveToken(tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}
