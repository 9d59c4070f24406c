package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octopus-tms/auth-service/internal/domain"
)

// MemoryUserRepository is an in-memory UserRepository used by tests and local
// runs without a database. Lookups match the Postgres implementation,
// including case-insensitive username/email matching.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryUserRepository returns an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	if u.CompanyID != nil {
		v := *u.CompanyID
		cp.CompanyID = &v
	}
	if u.ResetToken != nil {
		v := *u.ResetToken
		cp.ResetToken = &v
	}
	if u.ResetTokenIssuedAt != nil {
		v := *u.ResetTokenIssuedAt
		cp.ResetTokenIssuedAt = &v
	}
	return &cp
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return cloneUser(u), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) SetResetToken(_ context.Context, userID, token string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.ResetToken = &token
	u.ResetTokenIssuedAt = &issuedAt
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) CompletePasswordReset(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenIssuedAt = nil
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

// MemoryCompanyRepository is the in-memory counterpart for companies.
type MemoryCompanyRepository struct {
	mu        sync.RWMutex
	companies map[string]*domain.Company
}

// NewMemoryCompanyRepository returns an empty in-memory repository.
func NewMemoryCompanyRepository() *MemoryCompanyRepository {
	return &MemoryCompanyRepository{companies: make(map[string]*domain.Company)}
}

func (r *MemoryCompanyRepository) GetByID(_ context.Context, id string) (*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryCompanyRepository) Create(_ context.Context, company *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now
	cp := *company
	r.companies[company.ID] = &cp
	return nil
}
