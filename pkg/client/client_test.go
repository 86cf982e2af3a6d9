package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"c1","name":"Alice"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.Get(context.Background(), "/api/contacts/c1", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.Equal(t, "Alice", out.Name)
}

func TestClient_ErrorUsesBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"contact not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/api/contacts/missing", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "contact not found", apiErr.Message)
}

func TestClient_ErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/api/contacts", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "An error occurred", apiErr.Message)
}

func TestClient_SuccessFalseIsError(t *testing.T) {
	// A 200 carrying success:false still fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"forbidden"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/api/settings", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "forbidden", apiErr.Message)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokenSource(staticToken("tok123"))
	require.NoError(t, c.Get(context.Background(), "/api/contacts", nil, nil))
	assert.Equal(t, "Bearer tok123", gotAuth)

	// An empty token means no header at all.
	c.SetTokenSource(staticToken(""))
	require.NoError(t, c.Get(context.Background(), "/api/contacts", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_InterceptorsSeeEveryStatus(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	var seen []int
	c := New(srv.URL)
	c.OnResponse(func(code int) { seen = append(seen, code) })

	require.NoError(t, c.Get(context.Background(), "/a", nil, nil))
	status = http.StatusUnauthorized
	require.Error(t, c.Get(context.Background(), "/b", nil, nil))

	assert.Equal(t, []int{http.StatusOK, http.StatusUnauthorized}, seen)
}
