package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/database"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) auth.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// Create stores s, assigning its ID when empty.
func (r *sessionRepositoryImpl) Create(ctx context.Context, s *auth.Session) error {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO console_sessions (
			id, user_id, email, role, company_id, selected_company_id,
			backend_token, user_agent, ip_address, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := q.Exec(ctx, query,
		s.ID, s.UserID, s.Email, string(s.Role), s.CompanyID, s.SelectedCompanyID,
		s.BackendToken, s.UserAgent, s.IPAddress, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (auth.Session, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := uuid.Parse(id); err != nil {
		return auth.Session{}, auth.ErrSessionNotFound
	}

	query := `
		SELECT id, user_id, email, role, company_id, selected_company_id,
			   backend_token, user_agent, ip_address, created_at, expires_at, revoked_at
		FROM console_sessions
		WHERE id = $1
	`

	var s auth.Session
	var role string
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Email, &role, &s.CompanyID, &s.SelectedCompanyID,
		&s.BackendToken, &s.UserAgent, &s.IPAddress, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	s.Role = user.Role(role)

	return s, nil
}

func (r *sessionRepositoryImpl) SetSelectedCompany(ctx context.Context, id string, companyID *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE console_sessions
		SET selected_company_id = $2
		WHERE id = $1 AND revoked_at IS NULL
	`
	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update selected company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepositoryImpl) Revoke(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE console_sessions
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`
	if _, err := q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired or were revoked before the cutoff.
func (r *sessionRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM console_sessions
		WHERE expires_at < $1 OR revoked_at < $1
	`
	tag, err := q.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
