package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (string, *domain.Principal, error)
	operatorFn func(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error)
	loginFn    func(ctx context.Context, credential, password string) (string, *domain.Principal, error)
	profileFn  func(ctx context.Context, id string) (*domain.Principal, error)
	updateFn   func(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.Principal, error)
	passwordFn func(ctx context.Context, id, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.Principal, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) CreateOperator(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
	return s.operatorFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, credential, password string) (string, *domain.Principal, error) {
	return s.loginFn(ctx, credential, password)
}

func (s *stubAuthService) Profile(ctx context.Context, id string) (*domain.Principal, error) {
	return s.profileFn(ctx, id)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.Principal, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	return s.passwordFn(ctx, id, current, next)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, credential, password string) (string, *domain.Principal, error) {
			if credential != "alice@example.com" || password != "secret123" {
				t.Fatalf("unexpected credentials: %s %s", credential, password)
			}
			return "tok123", &domain.Principal{ID: "p1", Name: "Alice", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"credential":"alice@example.com","password":"secret123"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Admin *domain.Principal `json:"admin"`
			Token string            `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope")
	}
	if resp.Data.Token != "tok123" {
		t.Fatalf("expected token in payload, got %q", resp.Data.Token)
	}
	if resp.Data.Admin == nil || resp.Data.Admin.ID != "p1" {
		t.Fatalf("expected principal under admin key")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, credential, password string) (string, *domain.Principal, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"credential":"alice@example.com","password":"wrong-pass"}`)

	err := handler.Login(c)
	if err == nil {
		t.Fatalf("expected error")
	}
	// The central error handler maps this to 401; the handler just passes
	// the domain error through.
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login", `{"credential":"alice@example.com"}`)

	err := handler.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", he.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (string, *domain.Principal, error) {
			if input.Name != "Alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return "tok123", &domain.Principal{ID: "p1", Name: input.Name, Role: domain.RoleVolunteer}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret123","role":"volunteer"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_CreateOperator_Success(t *testing.T) {
	stub := &stubAuthService{
		operatorFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
			if input.Role != "sub_admin" {
				t.Fatalf("role not forwarded: %+v", input)
			}
			return &domain.Principal{ID: "p2", Name: input.Name, Role: domain.RoleSubAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/operators",
		`{"name":"Bob","email":"bob@example.com","password":"secret123","role":"sub_admin"}`)

	if err := handler.CreateOperator(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    *domain.Principal `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data == nil || resp.Data.Role != domain.RoleSubAdmin {
		t.Fatalf("expected sub_admin principal in payload, got %+v", resp.Data)
	}
}

func TestAuthHandler_UpdateProfile_RequiresPrincipal(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(t, http.MethodPut, "/api/auth/profile", `{"name":"Bob"}`)

	err := handler.UpdateProfile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	var gotCurrent, gotNext string
	stub := &stubAuthService{
		passwordFn: func(ctx context.Context, id, current, next string) error {
			gotCurrent, gotNext = current, next
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/api/auth/password",
		`{"currentPassword":"old-secret","newPassword":"new-secret"}`)
	c.Set("principal_id", "p1")
	c.Set("role", "admin")

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotCurrent != "old-secret" || gotNext != "new-secret" {
		t.Fatalf("passwords not forwarded: %q %q", gotCurrent, gotNext)
	}
}
