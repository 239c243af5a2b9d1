package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"filevault-backend/config"
	"filevault-backend/internal/auth"
	"filevault-backend/internal/middleware"
	"filevault-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memUserStore struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (m *memUserStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return m.byID[id], nil
}

type memTokenStore struct {
	records map[string]*models.RefreshToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{records: make(map[string]*models.RefreshToken)}
}

func (m *memTokenStore) Insert(_ context.Context, token *models.RefreshToken) error {
	m.records[token.ID] = token
	return nil
}

func (m *memTokenStore) FindByHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, rec := range m.records {
		if rec.TokenHash == tokenHash {
			return rec, nil
		}
	}
	return nil, nil
}

func (m *memTokenStore) Revoke(_ context.Context, id string) error {
	if rec, ok := m.records[id]; ok {
		rec.Revoked = true
	}
	return nil
}

func (m *memTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	for _, rec := range m.records {
		if rec.UserID == userID {
			rec.Revoked = true
		}
	}
	return nil
}

func (m *memTokenStore) Rotate(_ context.Context, oldID string, next *models.RefreshToken) (bool, error) {
	rec, ok := m.records[oldID]
	if !ok || rec.Revoked {
		return false, nil
	}
	rec.Revoked = true
	m.records[next.ID] = next
	return true, nil
}

func testConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret",
		AccessTTLSeconds:  900,
		RefreshTTLSeconds: 3600,
		BcryptCost:        4,
		PasswordMinLength: 8,
	}
}

func newAuthTestApp() *fiber.App {
	authService := auth.NewService(newMemUserStore(), newMemTokenStore(), testConfig())
	authHandler := NewAuthHandler(authService)

	app := fiber.New()
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/refresh", authHandler.RefreshToken)
	app.Post("/auth/logout", authHandler.Logout)
	app.Get("/auth/me", middleware.Protected(authService), authHandler.GetMe)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestAuthFlow(t *testing.T) {
	app := newAuthTestApp()

	// Register
	resp := postJSON(t, app, "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodeBody(t, resp)
	assert.Equal(t, "alice@example.com", registered["email"])
	assert.NotEmpty(t, registered["id"])
	assert.NotEmpty(t, registered["created_at"])
	assert.NotContains(t, registered, "password_hash")

	// Duplicate registration conflicts
	resp = postJSON(t, app, "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login
	resp = postJSON(t, app, "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokens := decodeBody(t, resp)
	assert.Equal(t, "bearer", tokens["token_type"])
	assert.Equal(t, float64(900), tokens["expires_in"])
	accessToken := tokens["access_token"].(string)
	refreshToken := tokens["refresh_token"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	// Me
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	me := decodeBody(t, meResp)
	assert.Equal(t, "alice@example.com", me["email"])

	// Me without a token
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	noAuthResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, noAuthResp.StatusCode)

	// Refresh rotates the pair
	resp = postJSON(t, app, "/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decodeBody(t, resp)
	assert.NotEqual(t, refreshToken, rotated["refresh_token"])
	assert.NotEmpty(t, rotated["access_token"])

	// Replaying the consumed refresh token fails
	resp = postJSON(t, app, "/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newAuthTestApp()

	resp := postJSON(t, app, "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	wrongPassword := postJSON(t, app, "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPass1!",
	})
	unknownEmail := postJSON(t, app, "/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "Secret123!",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	// Same response body for both, no enumeration leak.
	assert.Equal(t, decodeBody(t, wrongPassword), decodeBody(t, unknownEmail))
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	app := newAuthTestApp()

	resp := postJSON(t, app, "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	app := newAuthTestApp()

	resp := postJSON(t, app, "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "Secret123!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokens := decodeBody(t, resp)
	refreshToken := tokens["refresh_token"].(string)

	// Logout is a 204 with no body
	resp = postJSON(t, app, "/auth/logout", LogoutRequest{RefreshToken: refreshToken})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The revoked token can no longer refresh
	resp = postJSON(t, app, "/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout with an invalid token still succeeds
	resp = postJSON(t, app, "/auth/logout", LogoutRequest{RefreshToken: "garbage"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
