package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/repository/models"
	"bizlevel/internal/util"

	"github.com/jmoiron/sqlx"
)

const profileColumns = `id, email, display_name, role, current_plan, created_at, updated_at`

// ProfileDatabaseAdapter implements domain.ProfileRepository on PostgreSQL.
type ProfileDatabaseAdapter struct {
	db *sqlx.DB
}

// NewProfileDatabaseAdapter creates a new profile repository.
func NewProfileDatabaseAdapter(db *sqlx.DB) domain.ProfileRepository {
	return &ProfileDatabaseAdapter{db: db}
}

// GetProfile retrieves a profile by the auth user id.
func (a *ProfileDatabaseAdapter) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var row models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return toDomainProfile(&row), nil
}

// EnsureProfile creates the profile on first sight and refreshes the email afterwards.
// Role and plan are never overwritten here.
func (a *ProfileDatabaseAdapter) EnsureProfile(ctx context.Context, profile *domain.Profile) error {
	now := time.Now()
	role := profile.Role
	if role == "" {
		role = domain.RoleUser
	}
	query := `INSERT INTO profiles (id, email, display_name, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (id) DO UPDATE SET
	              email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE profiles.email END,
	              updated_at = EXCLUDED.updated_at`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, profile.ID, profile.Email, profile.DisplayName, role, now)
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// UpdateCurrentPlan records the plan bought by the user. A missing profile row is created.
func (a *ProfileDatabaseAdapter) UpdateCurrentPlan(ctx context.Context, userID string, plan domain.Plan) error {
	query := `INSERT INTO profiles (id, current_plan, created_at, updated_at) VALUES ($1, $2, NOW(), NOW())
	          ON CONFLICT (id) DO UPDATE SET current_plan = EXCLUDED.current_plan, updated_at = NOW()`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, userID, string(plan)); err != nil {
		return fmt.Errorf("failed to update current plan: %w", err)
	}
	return nil
}

// GetDisplayNames maps user ids to display names, falling back to the email.
func (a *ProfileDatabaseAdapter) GetDisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	exec := GetExecutor(ctx, a.db)
	query, args, err := sqlx.In(`SELECT id, display_name, email FROM profiles WHERE id IN (?)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build display name query: %w", err)
	}

	var rows []struct {
		ID          string `db:"id"`
		DisplayName string `db:"display_name"`
		Email       string `db:"email"`
	}
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get display names: %w", err)
	}
	for _, r := range rows {
		if r.DisplayName != "" {
			names[r.ID] = r.DisplayName
		} else {
			names[r.ID] = r.Email
		}
	}
	return names, nil
}

func toDomainProfile(m *models.Profile) *domain.Profile {
	if m == nil {
		return nil
	}
	return &domain.Profile{
		ID:          m.ID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		CurrentPlan: util.NullStringToPtr(m.CurrentPlan),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
