package rest_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	workhive "github.com/workhive/workhive"
	"github.com/workhive/workhive/rest"
)

func newAuthApp(auther workhive.Authenticator) *fiber.App {
	app := fiber.New()

	ctrl := rest.NewAuthController(
		rest.WithAuthLogger(testLogger{}),
		rest.WithAuthenticator(auther),
	)
	ctrl.RegisterRoutes(app)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

func TestLoginSuccess(t *testing.T) {
	auther := new(MockAuthenticator)
	account := &workhive.Account{
		Email: "dev@example.com",
		Role:  workhive.RoleCandidate,
	}

	auther.On("Login", mock.Anything, "dev@example.com", "correct password").
		Return(&workhive.LoginResult{
			Account: account,
			TokenPair: workhive.TokenPair{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
			},
		}, nil).Once()

	app := newAuthApp(auther)

	status, body := postJSON(t, app, "/auth/login",
		`{"email":"dev@example.com","password":"correct password"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "access-token", body["token"])
	assert.Equal(t, "refresh-token", body["refresh_token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dev@example.com", user["email"])
	// the credential hash never appears in the response
	_, leaked := user["password_hash"]
	assert.False(t, leaked)
}

func TestLoginBadCredentials(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, "dev@example.com", "wrong").
		Return(nil, workhive.ErrInvalidCredentials).Once()

	app := newAuthApp(auther)

	status, body := postJSON(t, app, "/auth/login",
		`{"email":"dev@example.com","password":"wrong"}`)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body["error"])
}

func TestLoginUnknownEmailSameShapeAsWrongPassword(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, "ghost@example.com", "whatever").
		Return(nil, workhive.ErrInvalidCredentials).Once()
	auther.On("Login", mock.Anything, "real@example.com", "wrong").
		Return(nil, workhive.ErrInvalidCredentials).Once()

	app := newAuthApp(auther)

	ghostStatus, ghostBody := postJSON(t, app, "/auth/login",
		`{"email":"ghost@example.com","password":"whatever"}`)
	realStatus, realBody := postJSON(t, app, "/auth/login",
		`{"email":"real@example.com","password":"wrong"}`)

	// byte-for-byte identical failure shape, no account enumeration
	assert.Equal(t, ghostStatus, realStatus)
	assert.Equal(t, ghostBody, realBody)
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Missing email", `{"password":"something"}`},
		{"Missing password", `{"email":"dev@example.com"}`},
		{"Bad email format", `{"email":"not-an-email","password":"something"}`},
		{"Malformed JSON", `{"email":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auther := new(MockAuthenticator)
			app := newAuthApp(auther)

			status, body := postJSON(t, app, "/auth/login", tt.body)

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.NotEmpty(t, body["error"])
			// the store is never touched on a shape failure
			auther.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRefreshSuccess(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Refresh", mock.Anything, "a-refresh-token").
		Return("new-access-token", nil).Once()

	app := newAuthApp(auther)

	status, body := postJSON(t, app, "/auth/refresh",
		`{"refresh_token":"a-refresh-token"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "new-access-token", body["token"])
}

func TestRefreshRejectsBadToken(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Refresh", mock.Anything, "stale").
		Return("", workhive.ErrTokenMalformed).Once()

	app := newAuthApp(auther)

	status, body := postJSON(t, app, "/auth/refresh",
		`{"refresh_token":"stale"}`)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid or expired token", body["error"])
}

func TestRefreshRequiresToken(t *testing.T) {
	auther := new(MockAuthenticator)
	app := newAuthApp(auther)

	status, _ := postJSON(t, app, "/auth/refresh", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLogout(t *testing.T) {
	auther := new(MockAuthenticator)
	app := newAuthApp(auther)

	status, body := postJSON(t, app, "/auth/logout", ``)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "logged out", body["message"])
}

func TestRegisterEndpoint(t *testing.T) {
	repo, _ := setupTestRepo(t)
	auther := new(MockAuthenticator)

	app := fiber.New()
	ctrl := rest.NewAuthController(
		rest.WithAuthLogger(testLogger{}),
		rest.WithAuthenticator(auther),
		rest.WithRegistrar(workhive.NewRegisterAccountHandler(repo)),
	)
	ctrl.RegisterRoutes(app)

	status, body := postJSON(t, app, "/auth/register", `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "ada@example.com",
		"role": "candidate",
		"password": "a long enough password",
		"confirm_password": "a long enough password"
	}`)

	assert.Equal(t, fiber.StatusCreated, status)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", user["email"])
}

func TestRegisterValidation(t *testing.T) {
	repo, _ := setupTestRepo(t)
	auther := new(MockAuthenticator)

	app := fiber.New()
	ctrl := rest.NewAuthController(
		rest.WithAuthLogger(testLogger{}),
		rest.WithAuthenticator(auther),
		rest.WithRegistrar(workhive.NewRegisterAccountHandler(repo)),
	)
	ctrl.RegisterRoutes(app)

	tests := []struct {
		name string
		body string
	}{
		{"Admin role rejected", `{
			"first_name": "Eve", "last_name": "Intruder",
			"email": "eve@example.com", "role": "admin",
			"password": "a long enough password",
			"confirm_password": "a long enough password"
		}`},
		{"Password mismatch", `{
			"first_name": "Ada", "last_name": "Lovelace",
			"email": "ada@example.com", "role": "candidate",
			"password": "a long enough password",
			"confirm_password": "a different password!"
		}`},
		{"Short password", `{
			"first_name": "Ada", "last_name": "Lovelace",
			"email": "ada@example.com", "role": "candidate",
			"password": "short", "confirm_password": "short"
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/auth/register", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.NotEmpty(t, body["details"])
		})
	}
}
