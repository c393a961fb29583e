package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const uniqueViolation = "23505"

// CompanyRepository writes companies with one statement per row so a failing
// row never rolls back its neighbours.
type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

func (r *CompanyRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	key := cnpjKey(cnpj)
	if key == nil {
		return false, nil
	}

	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM companies WHERE cnpj_digits = $1)", *key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check cnpj: %w", err)
	}
	return exists, nil
}

func (r *CompanyRepository) Insert(ctx context.Context, c domain.Company) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
INSERT INTO companies (
  name, cnpj, cnpj_digits, phone, email, city, state, sector, website, type,
  annual_revenue, number_of_employees, size, owner_id,
  contact_name, contact_phone, contact_cargo, created_at, updated_at
) VALUES (
  $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
  $11, $12, $13, $14,
  $15, $16, $17, NOW(), NOW()
)
RETURNING id::text
`,
		c.Name,
		nullableText(c.CNPJ),
		cnpjKey(c.CNPJ),
		nullableText(c.Phone),
		nullableText(c.Email),
		nullableText(c.City),
		nullableText(c.State),
		nullableText(c.Sector),
		nullableText(c.Website),
		c.Type,
		nullableDecimal(c.AnnualRevenue),
		c.NumberOfEmployees,
		nullableText(c.Size),
		c.OwnerID,
		nullableText(c.ContactName),
		nullableText(c.ContactPhone),
		nullableText(c.ContactRole),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert company: %w", domain.ErrDuplicateTaxID)
		}
		return "", fmt.Errorf("insert company: %w", err)
	}
	return id, nil
}

type OpportunityRepository struct {
	pool *pgxpool.Pool
}

func NewOpportunityRepository(pool *pgxpool.Pool) *OpportunityRepository {
	return &OpportunityRepository{pool: pool}
}

func (r *OpportunityRepository) Insert(ctx context.Context, o domain.Opportunity) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
INSERT INTO opportunities (company_id, stage_id, owner_id, title, value, probability, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING id::text
`, o.CompanyID, o.StageID, o.OwnerID, o.Title, decimal.NewFromFloat(o.Value), o.Probability).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert opportunity: %w", err)
	}
	return id, nil
}

// cnpjKey is the uniqueness key of a tax id: its digits, or the trimmed text
// when it has none.
func cnpjKey(cnpj string) *string {
	if digits := domain.DigitsOnly(cnpj); digits != "" {
		return &digits
	}
	return nullableText(cnpj)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullableText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func nullableDecimal(value *float64) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*value))
}
