package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/octopus-tms/auth-service/internal/domain"
	"github.com/octopus-tms/auth-service/internal/repository"
)

type fakeDenylist struct {
	denied map[string]bool
	err    error
}

func (f *fakeDenylist) IsDenied(_ context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.denied[tokenID], nil
}

func newFilterApp(t *testing.T, users repository.UserRepository, denylist Denylist) (*fiber.App, *TokenManager) {
	t.Helper()
	tm := NewTokenManager("test-secret", "test-refresh", time.Hour, time.Hour)
	mw := NewMiddleware(tm, users, denylist, zap.NewNop())

	app := fiber.New()
	app.Use(mw.Handle)
	app.Get("/probe", func(c *fiber.Ctx) error {
		if principal, ok := PrincipalFromContext(c); ok {
			return c.JSON(fiber.Map{"subject": principal.User.Username, "role": string(principal.Role)})
		}
		return c.JSON(fiber.Map{"subject": ""})
	})
	return app, tm
}

func seedFilterUser(t *testing.T, users *repository.MemoryUserRepository) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     "driver@carrier.example",
		Email:        "driver@carrier.example",
		PasswordHash: "irrelevant",
		Role:         domain.RoleDriver,
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func probe(t *testing.T, app *fiber.App, authHeader string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestFilterAnonymousWithoutHeader(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	app, _ := newFilterApp(t, users, nil)

	body := probe(t, app, "")
	assert.Contains(t, body, `"subject":""`)
}

func TestFilterAnonymousOnMalformedHeader(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	app, _ := newFilterApp(t, users, nil)

	for _, header := range []string{"Bearer", "Token abc", "abc"} {
		body := probe(t, app, header)
		assert.Contains(t, body, `"subject":""`, "header %q", header)
	}
}

func TestFilterAnonymousOnInvalidToken(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	app, _ := newFilterApp(t, users, nil)

	body := probe(t, app, "Bearer not-a-token")
	assert.Contains(t, body, `"subject":""`)
}

func TestFilterAttachesPrincipal(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	user := seedFilterUser(t, users)
	app, tm := newFilterApp(t, users, nil)

	token, _, err := tm.GenerateAccessToken(Identity{UserID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, err)

	body := probe(t, app, "Bearer "+token)
	assert.Contains(t, body, `"subject":"driver@carrier.example"`)
	assert.Contains(t, body, `"role":"DRIVER"`)
}

func TestFilterAnonymousWhenSubjectGone(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	app, tm := newFilterApp(t, users, nil)

	token, _, err := tm.GenerateAccessToken(Identity{Username: "ghost@nowhere.example", Role: domain.RoleDriver})
	require.NoError(t, err)

	body := probe(t, app, "Bearer "+token)
	assert.Contains(t, body, `"subject":""`)
}

func TestFilterAnonymousWhenDenylisted(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	user := seedFilterUser(t, users)

	denylist := &fakeDenylist{denied: map[string]bool{}}
	app, tm := newFilterApp(t, users, denylist)

	token, _, err := tm.GenerateAccessToken(Identity{UserID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, err)

	claims, err := tm.VerifyAccessToken(token)
	require.NoError(t, err)
	denylist.denied[claims.ID] = true

	body := probe(t, app, "Bearer "+token)
	assert.Contains(t, body, `"subject":""`)
}

func TestFilterFailsOpenOnDenylistError(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	user := seedFilterUser(t, users)

	denylist := &fakeDenylist{err: context.DeadlineExceeded}
	app, tm := newFilterApp(t, users, denylist)

	token, _, err := tm.GenerateAccessToken(Identity{UserID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, err)

	body := probe(t, app, "Bearer "+token)
	assert.Contains(t, body, `"subject":"driver@carrier.example"`)
}
