package uow

import (
	"context"

	"club-event-approval/internal/domain/advisor"
	"club-event-approval/internal/domain/application"
)

// domain/uow/uow.go
type Repos struct {
	Applications application.Repository
	Assignments  advisor.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.EventApplication) error) error
	// serialize against every other assignment change of the same club
	WithinClubTx(ctx context.Context, clubID string, fn func(r Repos) error) error
}
