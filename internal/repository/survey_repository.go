package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsehq/demosnap/internal/domain"
)

// surveyRepository implements SurveyDirectory over the surveys table.
type surveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository creates a Postgres-backed survey directory.
func NewSurveyRepository(pool *pgxpool.Pool) SurveyDirectory {
	return &surveyRepository{pool: pool}
}

// GetScope resolves the owning survey's company and optional department
// restriction. An empty department_filter means the survey covers the
// whole company.
func (r *surveyRepository) GetScope(ctx context.Context, surveyID uuid.UUID) (SurveyScope, error) {
	var scope SurveyScope
	err := r.pool.QueryRow(ctx,
		`SELECT company_id, COALESCE(department_filter, '{}') FROM surveys WHERE id = $1`,
		surveyID,
	).Scan(&scope.CompanyID, &scope.DepartmentIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SurveyScope{}, domain.ErrSurveyNotFound
		}
		return SurveyScope{}, fmt.Errorf("failed to get survey scope: %w", err)
	}
	return scope, nil
}
