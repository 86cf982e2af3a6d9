package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
)

const (
	storageKeyToken     = "token"
	storageKeyPrincipal = "principal"
)

// Session is the durable authentication store. It owns the bearer token and
// the cached principal, persists both through a Storage, and registers itself
// on the Client as token source and 401 observer: any authenticated request
// rejected with 401 logs the session out.
type Session struct {
	client  *Client
	storage Storage
	auth    *AuthAPI

	mu          sync.RWMutex
	token       string
	principal   *Principal
	loading     bool
	initialized bool
}

// NewSession wires a Session onto the client. Call Initialize before reading
// session state.
func NewSession(client *Client, storage Storage) *Session {
	s := &Session{
		client:  client,
		storage: storage,
		auth:    NewAuthAPI(client),
	}
	client.SetTokenSource(s)
	client.OnResponse(s.observe)
	return s
}

// Token implements TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Principal returns the cached principal, or nil when anonymous.
func (s *Session) Principal() *Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal
}

// IsLoading reports whether the session is still resolving: before and during
// Initialize, and while a login or registration is in flight.
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.initialized || s.loading
}

// IsAuthenticated reports whether both a token and a principal are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.principal != nil
}

// Initialize restores a persisted session. Missing or malformed stored state
// resolves to anonymous, never an error, and the stored garbage is cleared.
// The session always ends up not-loading, whatever happens.
func (s *Session) Initialize() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	token, principal := s.restore()

	s.mu.Lock()
	s.token = token
	s.principal = principal
	s.loading = false
	s.initialized = true
	s.mu.Unlock()
}

func (s *Session) restore() (string, *Principal) {
	token, err := s.storage.Get(storageKeyToken)
	if err != nil || token == "" {
		s.clearStorage()
		return "", nil
	}
	raw, err := s.storage.Get(storageKeyPrincipal)
	if err != nil {
		s.clearStorage()
		return "", nil
	}
	var principal Principal
	if err := json.Unmarshal([]byte(raw), &principal); err != nil || principal.ID == "" {
		s.clearStorage()
		return "", nil
	}
	return token, &principal
}

// Login authenticates and persists the session. On failure the prior session
// state, if any, is left untouched.
func (s *Session) Login(ctx context.Context, credential, password string) error {
	return s.authenticate(func() (*AuthData, error) {
		return s.auth.Login(ctx, credential, password)
	})
}

// Register creates an account and starts a session with it. Fail closed: on
// error nothing changes.
func (s *Session) Register(ctx context.Context, input RegisterInput) error {
	return s.authenticate(func() (*AuthData, error) {
		return s.auth.Register(ctx, input)
	})
}

func (s *Session) authenticate(call func() (*AuthData, error)) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	data, err := call()
	if err != nil {
		return err
	}
	if data.Token == "" || data.Admin == nil {
		return errors.New("client: malformed auth response")
	}

	s.persist(data.Token, data.Admin)

	s.mu.Lock()
	s.token = data.Token
	s.principal = data.Admin
	s.initialized = true
	s.mu.Unlock()
	return nil
}

// Logout discards the session synchronously. Idempotent: logging out an
// anonymous session is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.principal = nil
	s.mu.Unlock()
	s.clearStorage()
}

// UpdateProfile updates the principal's editable fields and re-persists the
// principal. The token is untouched.
func (s *Session) UpdateProfile(ctx context.Context, input UpdateProfileInput) error {
	principal, err := s.auth.UpdateProfile(ctx, input)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.principal = principal
	s.mu.Unlock()

	if raw, err := json.Marshal(principal); err == nil {
		_ = s.storage.Set(storageKeyPrincipal, string(raw))
	}
	return nil
}

func (s *Session) persist(token string, principal *Principal) {
	_ = s.storage.Set(storageKeyToken, token)
	if raw, err := json.Marshal(principal); err == nil {
		_ = s.storage.Set(storageKeyPrincipal, string(raw))
	}
}

func (s *Session) clearStorage() {
	_ = s.storage.Delete(storageKeyToken)
	_ = s.storage.Delete(storageKeyPrincipal)
}

// observe is the response interceptor: an authenticated session that sees a
// 401 is over. Responses during login/initialize are ignored so a failed
// login attempt cannot log out an existing session.
func (s *Session) observe(status int) {
	if status != http.StatusUnauthorized {
		return
	}
	s.mu.RLock()
	active := s.initialized && !s.loading && s.token != "" && s.principal != nil
	s.mu.RUnlock()
	if active {
		s.Logout()
	}
}
