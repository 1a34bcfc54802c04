package mysql

import (
	"club-event-approval/internal/domain/advisor"
	"club-event-approval/internal/domain/application"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the repositories use.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&application.EventApplication{},
		&advisor.Assignment{},
		&clubGuard{},
	)
}
