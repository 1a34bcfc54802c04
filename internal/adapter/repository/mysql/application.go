package mysql

import (
	"context"
	"fmt"
	"time"

	"club-event-approval/internal/domain/apperr"
	appDomain "club-event-approval/internal/domain/application"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultListLimit = 100

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.EventApplication) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*appDomain.EventApplication, error) {
	var out appDomain.EventApplication
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return &out, nil
}

func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*appDomain.EventApplication, error) {
	var out appDomain.EventApplication
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", applicationID).
		First(&out)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return &out, nil
}

func (r *ApplicationRepository) UpdateReview(ctx context.Context, a *appDomain.EventApplication) error {
	res := r.db.WithContext(ctx).
		Model(&appDomain.EventApplication{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"status":               a.Status,
			"advisor_decision":     a.AdvisorDecision,
			"sks_decision":         a.SksDecision,
			"approval_ledger":      a.ApprovalLedger,
			"additional_documents": a.AdditionalDocuments,
			"version":              a.Version + 1,
			"updated_at":           time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: application %s changed since version %d", apperr.ErrConflict, a.ApplicationID, a.Version)
	}
	a.Version++
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context, f appDomain.ListFilter) ([]appDomain.EventApplication, error) {
	q := r.db.WithContext(ctx).Model(&appDomain.EventApplication{})
	if f.ClubID != "" {
		q = q.Where("club_id = ?", f.ClubID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	limit := f.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	var out []appDomain.EventApplication
	res := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out)
	return out, translate(res.Error)
}
