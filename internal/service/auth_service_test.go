package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/octopus-tms/auth-service/internal/auth"
	"github.com/octopus-tms/auth-service/internal/config"
	"github.com/octopus-tms/auth-service/internal/domain"
	"github.com/octopus-tms/auth-service/internal/events"
	"github.com/octopus-tms/auth-service/internal/repository"
	apperrors "github.com/octopus-tms/auth-service/pkg/util"
)

type fakeRevoker struct {
	denied map[string]time.Duration
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{denied: make(map[string]time.Duration)}
}

func (f *fakeRevoker) Deny(_ context.Context, tokenID string, ttl time.Duration) error {
	f.denied[tokenID] = ttl
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			RefreshSecret:         "test-refresh-secret",
			AccessTokenTTLMinutes: 60,
			RefreshTokenTTLHours:  24,
			PasswordResetTTLHours: 7 * 24,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

type authFixture struct {
	svc       *AuthService
	users     *repository.MemoryUserRepository
	companies *repository.MemoryCompanyRepository
	revoker   *fakeRevoker
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	companies := repository.NewMemoryCompanyRepository()
	revoker := newFakeRevoker()

	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:    users,
		CompanyRepo: companies,
		Revoker:     revoker,
		Dispatcher:  events.NewInMemoryDispatcher(),
		Logger:      zap.NewNop(),
	})
	return &authFixture{svc: svc, users: users, companies: companies, revoker: revoker}
}

func (f *authFixture) seedUser(t *testing.T, username, password string, mutate func(*domain.User)) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Username:     username,
		Email:        username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
		Role:         domain.RoleDispatcher,
		Status:       domain.UserStatusActive,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	return de.Code
}

func TestAuthenticateSuccess(t *testing.T) {
	f := newAuthFixture(t)
	company := &domain.Company{Name: "Acme Freight", Type: domain.CompanyTypeCarrier}
	require.NoError(t, f.companies.Create(context.Background(), company))
	f.seedUser(t, "dispatch@acme.example", "GoodPass123", func(u *domain.User) {
		u.CompanyID = &company.ID
	})

	pair, err := f.svc.Authenticate(context.Background(), "dispatch@acme.example", "GoodPass123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := f.svc.TokenManager().VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dispatch@acme.example", claims.Subject)
	assert.Equal(t, []string{"DISPATCHER"}, claims.Roles)
	assert.Equal(t, company.ID, claims.CompanyID)
	assert.Equal(t, "Acme Freight", claims.CompanyName)
	assert.Equal(t, "CARRIER", claims.CompanyType)
}

func TestAuthenticateCaseInsensitiveUsername(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "Dispatch@Acme.Example", "GoodPass123", nil)

	pair, err := f.svc.Authenticate(context.Background(), "dispatch@acme.example", "GoodPass123")
	require.NoError(t, err)

	claims, err := f.svc.TokenManager().VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Dispatch@Acme.Example", claims.Subject)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "known@acme.example", "GoodPass123", nil)

	_, errWrongPass := f.svc.Authenticate(context.Background(), "known@acme.example", "BadPass")
	_, errNoUser := f.svc.Authenticate(context.Background(), "nobody@acme.example", "BadPass")

	assert.Equal(t, "INVALID_CREDENTIALS", domainErrCode(t, errWrongPass))
	assert.Equal(t, "INVALID_CREDENTIALS", domainErrCode(t, errNoUser))
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestAuthenticateSuspendedUser(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "frozen@acme.example", "GoodPass123", func(u *domain.User) {
		u.Status = domain.UserStatusSuspended
	})

	_, err := f.svc.Authenticate(context.Background(), "frozen@acme.example", "GoodPass123")
	assert.Equal(t, "INVALID_CREDENTIALS", domainErrCode(t, err))
}

func TestAuthenticateMissingCompanyStillSucceeds(t *testing.T) {
	f := newAuthFixture(t)
	orphaned := "no-such-company"
	f.seedUser(t, "lonely@acme.example", "GoodPass123", func(u *domain.User) {
		u.CompanyID = &orphaned
	})

	pair, err := f.svc.Authenticate(context.Background(), "lonely@acme.example", "GoodPass123")
	require.NoError(t, err)

	claims, err := f.svc.TokenManager().VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Empty(t, claims.CompanyID)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dispatch@acme.example", "GoodPass123", nil)

	pair, err := f.svc.Authenticate(context.Background(), "dispatch@acme.example", "GoodPass123")
	require.NoError(t, err)

	next, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.svc.TokenManager().VerifyAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dispatch@acme.example", claims.Subject)
}

func TestRefreshRejectsGarbageAndAccessTokens(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dispatch@acme.example", "GoodPass123", nil)

	pair, err := f.svc.Authenticate(context.Background(), "dispatch@acme.example", "GoodPass123")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), "garbage")
	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, err))

	_, err = f.svc.Refresh(context.Background(), pair.AccessToken)
	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, err))
}

func TestLogoutRecordsTokenID(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "dispatch@acme.example", "GoodPass123", nil)

	pair, err := f.svc.Authenticate(context.Background(), "dispatch@acme.example", "GoodPass123")
	require.NoError(t, err)

	claims, err := f.svc.TokenManager().VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)

	principal := &auth.Principal{
		User:      user,
		Role:      user.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	require.NoError(t, f.svc.Logout(context.Background(), principal))

	ttl, ok := f.revoker.denied[claims.ID]
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "dispatch@acme.example", "OldPass123", nil)

	err := f.svc.ChangePassword(context.Background(), user.ID, "WrongOld", "NewPass123")
	assert.Equal(t, "INVALID_CREDENTIALS", domainErrCode(t, err))

	require.NoError(t, f.svc.ChangePassword(context.Background(), user.ID, "OldPass123", "NewPass123"))

	_, err = f.svc.Authenticate(context.Background(), "dispatch@acme.example", "NewPass123")
	assert.NoError(t, err)
	_, err = f.svc.Authenticate(context.Background(), "dispatch@acme.example", "OldPass123")
	assert.Error(t, err)
}
