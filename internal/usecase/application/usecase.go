package application

import (
	"context"
	"fmt"
	"log/slog"

	"club-event-approval/internal/domain/access"
	"club-event-approval/internal/domain/apperr"
	domain "club-event-approval/internal/domain/application"
	"club-event-approval/internal/domain/uow"
	"club-event-approval/pkg/id"
)

// Recorder receives the outcome of every workflow operation.
type Recorder interface {
	ObserveTransition(operation string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTransition(string, error) {}

type Usecase struct {
	repo    domain.Repository
	uow     uow.UnitOfWork
	metrics Recorder
	log     *slog.Logger
}

// NewUsecase: reads go through apps, every write through tx. rec and log
// may be nil.
func NewUsecase(apps domain.Repository, tx uow.UnitOfWork, rec Recorder, log *slog.Logger) *Usecase {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: apps, uow: tx, metrics: rec, log: log}
}

func (u *Usecase) Submit(ctx context.Context, caller access.Identity, in SubmitInput) (dto *ApplicationDTO, err error) {
	defer func() { u.metrics.ObserveTransition("submit", err) }()

	if caller.Role == access.RoleClub && (in.ClubID == nil || !caller.OwnsClub(*in.ClubID)) {
		return nil, fmt.Errorf("%w: club accounts submit for their own club only", access.ErrForbidden)
	}
	a, err := domain.NewApplication(in.draft(), id.NewID32())
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "application submitted",
		slog.String("application_id", a.ApplicationID),
		slog.String("club_name", a.ClubName),
		slog.String("by", caller.Subject))
	out := toDTO(a)
	return &out, nil
}

func (u *Usecase) Get(ctx context.Context, caller access.Identity, applicationID string) (*ApplicationDTO, error) {
	a, err := u.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(caller, a) {
		return nil, fmt.Errorf("%w: application %s belongs to another club", access.ErrForbidden, applicationID)
	}
	out := toDTO(a)
	return &out, nil
}

// List returns applications newest first. Club accounts only ever see
// their own club.
func (u *Usecase) List(ctx context.Context, caller access.Identity, in ListInput) ([]ApplicationDTO, error) {
	f := domain.ListFilter{ClubID: in.ClubID, Status: domain.Status(in.Status), Limit: in.Limit}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Invalid("status", "unknown status "+in.Status)
	}
	if caller.Role == access.RoleClub {
		f.ClubID = caller.ClubID
	}
	apps, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, toDTO(&apps[i]))
	}
	return out, nil
}

// RecordAdvisorDecision applies the first-stage review. Advisors may only
// review applications of a club they are actively assigned to.
func (u *Usecase) RecordAdvisorDecision(ctx context.Context, caller access.Identity, applicationID string, in DecisionInput) (res *DecisionResultDTO, err error) {
	defer func() { u.metrics.ObserveTransition("advisor_decision", err) }()

	err = u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domain.EventApplication) error {
		if caller.Role == access.RoleAdvisor {
			if err := checkAdvisorScope(ctx, r, caller, a); err != nil {
				return err
			}
		}
		d, verdicts := in.decision(caller.Subject)
		applied, err := a.RecordAdvisorDecision(d, verdicts...)
		if err != nil {
			return err
		}
		if applied {
			if err := r.Applications.UpdateReview(ctx, a); err != nil {
				return err
			}
		}
		res = &DecisionResultDTO{Applied: applied, Application: toDTO(a)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "advisor decision",
		slog.String("application_id", applicationID),
		slog.Bool("approved", in.Approved),
		slog.Bool("applied", res.Applied),
		slog.String("status", res.Application.Status),
		slog.String("by", caller.Subject))
	return res, nil
}

// RecordSksDecision applies the second-stage review.
func (u *Usecase) RecordSksDecision(ctx context.Context, caller access.Identity, applicationID string, in DecisionInput) (res *DecisionResultDTO, err error) {
	defer func() { u.metrics.ObserveTransition("sks_decision", err) }()

	err = u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domain.EventApplication) error {
		d, verdicts := in.decision(caller.Subject)
		applied, err := a.RecordSksDecision(d, verdicts...)
		if err != nil {
			return err
		}
		if applied {
			if err := r.Applications.UpdateReview(ctx, a); err != nil {
				return err
			}
		}
		res = &DecisionResultDTO{Applied: applied, Application: toDTO(a)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "sks decision",
		slog.String("application_id", applicationID),
		slog.Bool("approved", in.Approved),
		slog.Bool("applied", res.Applied),
		slog.String("status", res.Application.Status),
		slog.String("by", caller.Subject))
	return res, nil
}

// Revise forks a new pending application from a rejected one. The
// rejected record is locked for the duration but never modified.
func (u *Usecase) Revise(ctx context.Context, caller access.Identity, applicationID string, in ReviseInput) (dto *ApplicationDTO, err error) {
	defer func() { u.metrics.ObserveTransition("revise", err) }()

	var next *domain.EventApplication
	err = u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, old *domain.EventApplication) error {
		if caller.Role == access.RoleClub && (old.ClubID == nil || !caller.OwnsClub(*old.ClubID)) {
			return fmt.Errorf("%w: club accounts revise their own applications only", access.ErrForbidden)
		}
		revised, err := domain.Revise(old, in.revision(), id.NewID32())
		if err != nil {
			return err
		}
		if err := r.Applications.Create(ctx, revised); err != nil {
			return err
		}
		next = revised
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "application revised",
		slog.String("application_id", next.ApplicationID),
		slog.String("revised_from", applicationID),
		slog.String("by", caller.Subject))
	out := toDTO(next)
	return &out, nil
}

func checkAdvisorScope(ctx context.Context, r uow.Repos, caller access.Identity, a *domain.EventApplication) error {
	if a.ClubID == nil {
		return fmt.Errorf("%w: application %s has no club; only admins can review it", access.ErrForbidden, a.ApplicationID)
	}
	ok, err := r.Assignments.IsActiveAdvisor(ctx, *a.ClubID, caller.Subject)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not an active advisor of club %s", access.ErrForbidden, caller.Subject, *a.ClubID)
	}
	return nil
}

func visibleTo(caller access.Identity, a *domain.EventApplication) bool {
	if caller.Role != access.RoleClub {
		return true
	}
	return a.ClubID != nil && caller.OwnsClub(*a.ClubID)
}
