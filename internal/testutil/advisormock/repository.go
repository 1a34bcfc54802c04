package advisormock

import (
	"context"

	domain "club-event-approval/internal/domain/advisor"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers are no-ops; unset readers return context.Canceled.
type Repo struct {
	CreateFn                     func(ctx context.Context, a *domain.Assignment) error
	ListActiveByClubFn           func(ctx context.Context, clubID string) ([]domain.Assignment, error)
	CountActiveByClubFn          func(ctx context.Context, clubID string) (int64, error)
	ListByClubFn                 func(ctx context.Context, clubID string) ([]domain.Assignment, error)
	GetByAssignmentIDForUpdateFn func(ctx context.Context, assignmentID string) (*domain.Assignment, error)
	DeactivateFn                 func(ctx context.Context, a *domain.Assignment) error
	IsActiveAdvisorFn            func(ctx context.Context, clubID, advisorID string) (bool, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Assignment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListActiveByClub(ctx context.Context, clubID string) ([]domain.Assignment, error) {
	if m.ListActiveByClubFn != nil {
		return m.ListActiveByClubFn(ctx, clubID)
	}
	return nil, context.Canceled
}

func (m *Repo) CountActiveByClub(ctx context.Context, clubID string) (int64, error) {
	if m.CountActiveByClubFn != nil {
		return m.CountActiveByClubFn(ctx, clubID)
	}
	return 0, context.Canceled
}

func (m *Repo) ListByClub(ctx context.Context, clubID string) ([]domain.Assignment, error) {
	if m.ListByClubFn != nil {
		return m.ListByClubFn(ctx, clubID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByAssignmentIDForUpdate(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	if m.GetByAssignmentIDForUpdateFn != nil {
		return m.GetByAssignmentIDForUpdateFn(ctx, assignmentID)
	}
	return nil, context.Canceled
}

func (m *Repo) Deactivate(ctx context.Context, a *domain.Assignment) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, a)
	}
	return nil
}

func (m *Repo) IsActiveAdvisor(ctx context.Context, clubID, advisorID string) (bool, error) {
	if m.IsActiveAdvisorFn != nil {
		return m.IsActiveAdvisorFn(ctx, clubID, advisorID)
	}
	return false, context.Canceled
}
