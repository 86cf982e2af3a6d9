package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedSession(t *testing.T, role string) *Session {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"admin":{"id":"p1","name":"Alice","role":"` + role + `","isActive":true},"token":"tok123"}}`))
	}))
	t.Cleanup(srv.Close)

	session := NewSession(New(srv.URL), NewMemoryStorage())
	session.Initialize()
	require.NoError(t, session.Login(context.Background(), "alice@example.com", "secret123"))
	return session
}

func TestRequireAuth_LoadingBeforeInitialize(t *testing.T) {
	session := NewSession(New("http://unused"), NewMemoryStorage())

	d := RequireAuth(session, "/admin/contacts")
	assert.Equal(t, Loading, d.Kind, "unresolved session must not redirect")
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	session := NewSession(New("http://unused"), NewMemoryStorage())
	session.Initialize()

	d := RequireAuth(session, "/admin/contacts")
	assert.Equal(t, RedirectToLogin, d.Kind)
	assert.Equal(t, "/admin/contacts", d.From, "attempted route preserved for post-login return")
}

func TestRequireAuth_AllowsAuthenticated(t *testing.T) {
	session := loadedSession(t, "admin")

	d := RequireAuth(session, "/admin/contacts")
	assert.Equal(t, Allow, d.Kind)
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	// Older accounts carry display-cased roles like "Sub Admin".
	session := loadedSession(t, "Sub Admin")

	d := RequireRole(session, "/admin/contacts", "admin", "sub_admin")
	assert.Equal(t, Allow, d.Kind)
}

func TestRequireRole_DeniesWithContext(t *testing.T) {
	session := loadedSession(t, "volunteer")

	d := RequireRole(session, "/admin/settings", "admin")
	assert.Equal(t, Denied, d.Kind)
	assert.Equal(t, []string{"admin"}, d.Required)
	assert.Equal(t, "volunteer", d.Actual)
}

func TestRequireRole_AnonymousRedirectsBeforeRoleCheck(t *testing.T) {
	session := NewSession(New("http://unused"), NewMemoryStorage())
	session.Initialize()

	d := RequireRole(session, "/admin/settings", "admin")
	assert.Equal(t, RedirectToLogin, d.Kind)
}
