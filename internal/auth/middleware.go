package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/octopus-tms/auth-service/internal/domain"
	"github.com/octopus-tms/auth-service/internal/repository"
)

const principalKey = "auth_principal"

// Denylist answers whether a token id has been revoked before its expiry.
type Denylist interface {
	IsDenied(ctx context.Context, tokenID string) (bool, error)
}

// Principal represents the authenticated caller for the rest of the request.
type Principal struct {
	User      *domain.User
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// Middleware resolves bearer tokens into principals. It never rejects a
// request itself: any verification failure leaves the request anonymous and
// per-route guards decide whether that is acceptable.
type Middleware struct {
	tokens   *TokenManager
	users    repository.UserRepository
	denylist Denylist
	logger   *zap.Logger
}

// NewMiddleware constructs the filter.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, denylist Denylist, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, denylist: denylist, logger: logger}
}

// Handle runs once per request before business logic.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	claims, err := m.tokens.VerifyAccessToken(parts[1])
	if err != nil {
		m.logger.Warn("token rejected", zap.Error(err))
		return c.Next()
	}

	if m.denylist != nil && claims.ID != "" {
		denied, err := m.denylist.IsDenied(c.UserContext(), claims.ID)
		if err != nil {
			// denylist outage fails open: the token stays valid until expiry
			m.logger.Warn("denylist unavailable", zap.Error(err))
		} else if denied {
			m.logger.Warn("revoked token presented", zap.String("jti", claims.ID))
			return c.Next()
		}
	}

	user, err := m.users.GetByUsername(c.UserContext(), claims.Subject)
	if err != nil {
		m.logger.Warn("token subject not resolvable", zap.String("sub", claims.Subject), zap.Error(err))
		return c.Next()
	}

	principal := &Principal{
		User:      user,
		Role:      user.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
