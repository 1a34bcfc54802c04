package mysql

import (
	"context"
	"fmt"
	"time"

	advisorDomain "club-event-approval/internal/domain/advisor"
	"club-event-approval/internal/domain/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository struct{ db *gorm.DB }

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *advisorDomain.Assignment) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AssignmentRepository) ListActiveByClub(ctx context.Context, clubID string) ([]advisorDomain.Assignment, error) {
	var out []advisorDomain.Assignment
	res := r.db.WithContext(ctx).
		Where("club_id = ? AND active = ?", clubID, true).
		Order("slot ASC").
		Find(&out)
	return out, translate(res.Error)
}

func (r *AssignmentRepository) CountActiveByClub(ctx context.Context, clubID string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&advisorDomain.Assignment{}).
		Where("club_id = ? AND active = ?", clubID, true).
		Count(&n)
	return n, translate(res.Error)
}

func (r *AssignmentRepository) ListByClub(ctx context.Context, clubID string) ([]advisorDomain.Assignment, error) {
	var out []advisorDomain.Assignment
	res := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, translate(res.Error)
}

func (r *AssignmentRepository) GetByAssignmentIDForUpdate(ctx context.Context, assignmentID string) (*advisorDomain.Assignment, error) {
	var out advisorDomain.Assignment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("assignment_id = ?", assignmentID).
		First(&out)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return &out, nil
}

func (r *AssignmentRepository) Deactivate(ctx context.Context, a *advisorDomain.Assignment) error {
	res := r.db.WithContext(ctx).
		Model(&advisorDomain.Assignment{}).
		Where("id = ? AND active = ?", a.ID, true).
		Updates(map[string]any{
			"active":                   false,
			"slot":                     nil,
			"end_date":                 a.EndDate,
			"termination_petition_ref": a.TerminationPetitionRef,
			"updated_at":               time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: assignment %s is no longer active", apperr.ErrInvalidState, a.AssignmentID)
	}
	return nil
}

func (r *AssignmentRepository) IsActiveAdvisor(ctx context.Context, clubID, advisorID string) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&advisorDomain.Assignment{}).
		Where("club_id = ? AND advisor_id = ? AND active = ?", clubID, advisorID, true).
		Count(&n)
	return n > 0, translate(res.Error)
}
