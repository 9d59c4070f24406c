package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/octopus-tms/auth-service/internal/domain"
)

func newUserService(f *authFixture) *UserService {
	return NewUserService(testConfig(), f.users, f.companies, zap.NewNop())
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	f := newAuthFixture(t)
	svc := newUserService(f)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "x@example.com",
		Email:    "x@example.com",
		Password: "Pass123",
		Role:     domain.Role("WIZARD"),
	})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	f := newAuthFixture(t)
	svc := newUserService(f)
	f.seedUser(t, "taken@example.com", "Pass123", nil)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "Taken@Example.com",
		Email:    "taken@example.com",
		Password: "Pass123",
		Role:     domain.RoleSales,
	})
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))
}

func TestCreateUserRejectsMissingCompany(t *testing.T) {
	f := newAuthFixture(t)
	svc := newUserService(f)
	ghost := "no-such-company"

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username:  "y@example.com",
		Email:     "y@example.com",
		Password:  "Pass123",
		Role:      domain.RoleAccounting,
		CompanyID: &ghost,
	})
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestCreateUserHashesPasswordAndAllowsLogin(t *testing.T) {
	f := newAuthFixture(t)
	svc := newUserService(f)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username:  "fresh@example.com",
		Email:     "fresh@example.com",
		FirstName: "Fresh",
		LastName:  "Hire",
		Password:  "Pass123",
		Role:      domain.RoleSupport,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "Pass123", user.PasswordHash)
	assert.Equal(t, domain.UserStatusActive, user.Status)

	_, err = f.svc.Authenticate(context.Background(), "fresh@example.com", "Pass123")
	assert.NoError(t, err)
}
