package client

import "context"

// AuthData is the login/register payload: the principal under the legacy
// "admin" key plus the bearer token.
type AuthData struct {
	Admin *Principal `json:"admin"`
	Token string     `json:"token"`
}

// RegisterInput carries the fields of the registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged server-side.
type UpdateProfileInput struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// AuthAPI is the typed façade over the auth endpoints. It adds no error
// handling of its own; the wrapper's APIError passes straight through.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

func (a *AuthAPI) Login(ctx context.Context, credential, password string) (*AuthData, error) {
	body := map[string]string{"credential": credential, "password": password}
	var out AuthData
	if err := a.c.Post(ctx, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Register(ctx context.Context, input RegisterInput) (*AuthData, error) {
	var out AuthData
	if err := a.c.Post(ctx, "/api/auth/register", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Profile(ctx context.Context) (*Principal, error) {
	var out Principal
	if err := a.c.Get(ctx, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*Principal, error) {
	var out Principal
	if err := a.c.Put(ctx, "/api/auth/profile", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) ChangePassword(ctx context.Context, current, newPassword string) error {
	body := map[string]string{"currentPassword": current, "newPassword": newPassword}
	return a.c.Put(ctx, "/api/auth/password", body, nil)
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.Post(ctx, "/api/auth/logout", nil, nil)
}
