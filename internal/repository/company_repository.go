package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octopus-tms/auth-service/internal/domain"
)

// CompanyRepository resolves tenant records for token claims.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	Create(ctx context.Context, company *domain.Company) error
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	const query = `
        SELECT id, name, type, created_at, updated_at
        FROM companies WHERE id=$1`

	var company domain.Company
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.Type,
		&company.CreatedAt,
		&company.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, type)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		company.Name,
		company.Type,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
}
