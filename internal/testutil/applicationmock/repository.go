package applicationmock

import (
	"context"

	domain "club-event-approval/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers are no-ops; unset readers return context.Canceled.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.EventApplication) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.EventApplication, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, applicationID string) (*domain.EventApplication, error)
	UpdateReviewFn                func(ctx context.Context, a *domain.EventApplication) error
	ListFn                        func(ctx context.Context, f domain.ListFilter) ([]domain.EventApplication, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.EventApplication) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.EventApplication, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.EventApplication, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, applicationID)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateReview(ctx context.Context, a *domain.EventApplication) error {
	if m.UpdateReviewFn != nil {
		return m.UpdateReviewFn(ctx, a)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.EventApplication, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}
