package application

import "context"

type ListFilter struct {
	ClubID string
	Status Status
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, a *EventApplication) error

	GetByApplicationID(ctx context.Context, applicationID string) (*EventApplication, error)

	// Lock the row for the rest of the transaction
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*EventApplication, error)

	// UpdateReview persists status, decisions and ledger only if the stored
	// version still equals a.Version, then bumps a.Version.
	UpdateReview(ctx context.Context, a *EventApplication) error

	List(ctx context.Context, f ListFilter) ([]EventApplication, error)
}
