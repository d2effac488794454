package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userDirectory implements UserDirectory over the platform's users table.
type userDirectory struct {
	pool *pgxpool.Pool
}

// NewUserDirectory creates a Postgres-backed user directory.
func NewUserDirectory(pool *pgxpool.Pool) UserDirectory {
	return &userDirectory{pool: pool}
}

// ListActive reads the live workforce for a company. Department filtering
// and the disabled-user cutoff happen in SQL so the directory read stays
// a single round trip.
func (d *userDirectory) ListActive(ctx context.Context, companyID uuid.UUID, departmentIDs []string, includeInactive bool) ([]UserRecord, error) {
	query := `SELECT id, department, role, location, team, level, created_at, preferences
		 FROM users
		 WHERE company_id = $1`
	args := []any{companyID}

	if !includeInactive {
		query += ` AND NOT disabled`
	}
	if len(departmentIDs) > 0 {
		args = append(args, departmentIDs)
		query += fmt.Sprintf(` AND department = ANY($%d)`, len(args))
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []UserRecord{}
	for rows.Next() {
		var (
			user            UserRecord
			preferencesJSON []byte
		)
		if err := rows.Scan(&user.ID, &user.Department, &user.Role,
			&user.Location, &user.Team, &user.Level,
			&user.CreatedAt, &preferencesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if len(preferencesJSON) > 0 {
			if err := json.Unmarshal(preferencesJSON, &user.Preferences); err != nil {
				return nil, fmt.Errorf("failed to decode preferences for user %s: %w", user.ID, err)
			}
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}
