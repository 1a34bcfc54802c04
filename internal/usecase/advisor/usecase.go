package advisor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domain "club-event-approval/internal/domain/advisor"
	"club-event-approval/internal/domain/uow"
	"club-event-approval/pkg/id"
)

type Recorder interface {
	ObserveAssignment(operation string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAssignment(string, error) {}

type Usecase struct {
	repo    domain.Repository
	uow     uow.UnitOfWork
	metrics Recorder
	log     *slog.Logger
	now     func() time.Time
}

func NewUsecase(assignments domain.Repository, tx uow.UnitOfWork, rec Recorder, log *slog.Logger) *Usecase {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: assignments, uow: tx, metrics: rec, log: log, now: time.Now}
}

// AddAdvisor seats an advisor on a club. Counting the active assignments
// and inserting the new one happen under the club's lock, so concurrent
// calls cannot both take the last seat.
func (u *Usecase) AddAdvisor(ctx context.Context, in AddAdvisorInput) (dto *AssignmentDTO, err error) {
	defer func() { u.metrics.ObserveAssignment("add", err) }()

	in.ClubID = strings.TrimSpace(in.ClubID)
	in.AdvisorID = strings.TrimSpace(in.AdvisorID)
	if err := domain.ValidateAdd(in.ClubID, in.AdvisorID, in.RequestPetitionRef); err != nil {
		return nil, err
	}

	var created *domain.Assignment
	err = u.uow.WithinClubTx(ctx, in.ClubID, func(r uow.Repos) error {
		active, err := r.Assignments.ListActiveByClub(ctx, in.ClubID)
		if err != nil {
			return err
		}
		a, err := domain.NewAssignment(in.ClubID, in.AdvisorID, in.RequestPetitionRef, id.NewID32(), active, u.now())
		if err != nil {
			return err
		}
		if err := r.Assignments.Create(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		u.log.WarnContext(ctx, "advisor not added",
			slog.String("club_id", in.ClubID),
			slog.String("advisor_id", in.AdvisorID),
			slog.String("error", err.Error()))
		return nil, err
	}

	u.log.InfoContext(ctx, "advisor added",
		slog.String("club_id", created.ClubID),
		slog.String("advisor_id", created.AdvisorID),
		slog.String("assignment_id", created.AssignmentID),
		slog.Int("slot", *created.Slot))
	out := toDTO(created)
	return &out, nil
}

// RemoveAdvisor terminates an active assignment of the club. A second
// removal of the same assignment fails with InvalidState.
func (u *Usecase) RemoveAdvisor(ctx context.Context, in RemoveAdvisorInput) (dto *AssignmentDTO, err error) {
	defer func() { u.metrics.ObserveAssignment("remove", err) }()

	in.ClubID = strings.TrimSpace(in.ClubID)
	in.AssignmentID = strings.TrimSpace(in.AssignmentID)
	if err := domain.ValidateRemove(in.ClubID, in.AssignmentID, in.TerminationPetitionRef); err != nil {
		return nil, err
	}

	var removed *domain.Assignment
	err = u.uow.WithinClubTx(ctx, in.ClubID, func(r uow.Repos) error {
		a, err := r.Assignments.GetByAssignmentIDForUpdate(ctx, in.AssignmentID)
		if err != nil {
			return err
		}
		if err := a.Terminate(in.ClubID, in.TerminationPetitionRef, u.now()); err != nil {
			return err
		}
		if err := r.Assignments.Deactivate(ctx, a); err != nil {
			return err
		}
		removed = a
		return nil
	})
	if err != nil {
		u.log.WarnContext(ctx, "advisor not removed",
			slog.String("club_id", in.ClubID),
			slog.String("assignment_id", in.AssignmentID),
			slog.String("error", err.Error()))
		return nil, err
	}

	u.log.InfoContext(ctx, "advisor removed",
		slog.String("club_id", removed.ClubID),
		slog.String("advisor_id", removed.AdvisorID),
		slog.String("assignment_id", removed.AssignmentID))
	out := toDTO(removed)
	return &out, nil
}

func (u *Usecase) ActiveCount(ctx context.Context, clubID string) (int64, error) {
	return u.repo.CountActiveByClub(ctx, clubID)
}

func (u *Usecase) ActiveAdvisors(ctx context.Context, clubID string) (*ClubAdvisorsDTO, error) {
	active, err := u.repo.ListActiveByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return &ClubAdvisorsDTO{
		ClubID:      clubID,
		ActiveCount: len(active),
		Capacity:    domain.MaxActivePerClub,
		Advisors:    toDTOs(active),
	}, nil
}

// History lists every assignment of the club, terminated ones included.
func (u *Usecase) History(ctx context.Context, clubID string) ([]AssignmentDTO, error) {
	all, err := u.repo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return toDTOs(all), nil
}
