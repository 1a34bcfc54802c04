package advisor

import "context"

type Repository interface {
	Create(ctx context.Context, a *Assignment) error

	// Active assignments of a club, ordered by slot
	ListActiveByClub(ctx context.Context, clubID string) ([]Assignment, error)

	CountActiveByClub(ctx context.Context, clubID string) (int64, error)

	// Every assignment of a club, newest first
	ListByClub(ctx context.Context, clubID string) ([]Assignment, error)

	GetByAssignmentIDForUpdate(ctx context.Context, assignmentID string) (*Assignment, error)

	// Deactivate persists a terminated assignment only while the stored row
	// is still active.
	Deactivate(ctx context.Context, a *Assignment) error

	IsActiveAdvisor(ctx context.Context, clubID, advisorID string) (bool, error)
}
