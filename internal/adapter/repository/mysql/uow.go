package mysql

import (
	"context"
	"time"

	"club-event-approval/internal/domain/application"
	"club-event-approval/internal/domain/uow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// clubGuard is one row per club; locking it serializes assignment changes
// of that club without touching other clubs.
type clubGuard struct {
	ClubID    string    `gorm:"column:club_id;primaryKey;size:64"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (clubGuard) TableName() string { return "club_advisor_guards" }

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Applications: &ApplicationRepository{db: tx},
		Assignments:  &AssignmentRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return translate(u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	}))
}

func (u *GormUoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *application.EventApplication) error) error {
	return translate(u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the application row up-front to prevent races
		a, err := r.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		return fn(r, a)
	}))
}

func (u *GormUoW) WithinClubTx(ctx context.Context, clubID string, fn func(r uow.Repos) error) error {
	return translate(u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&clubGuard{ClubID: clubID}).Error; err != nil {
			return err
		}
		var g clubGuard
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("club_id = ?", clubID).First(&g).Error; err != nil {
			return err
		}
		return fn(reposFor(tx))
	}))
}
