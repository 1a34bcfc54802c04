package mysql

import (
	"errors"
	"fmt"

	"club-event-approval/internal/domain/apperr"

	driver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MySQL: 1205 lock wait timeout, 1213 deadlock.
// Postgres: 40001 serialization failure, 40P01 deadlock, 55P03 lock not available.
var (
	mysqlRetryable    = map[uint16]bool{1205: true, 1213: true}
	postgresRetryable = map[string]bool{"40001": true, "40P01": true, "55P03": true}
)

// translate maps store errors onto the domain taxonomy, keeping the
// original error in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConflict) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", apperr.ErrConflict, err)
	}
	var myErr *driver.MySQLError
	if errors.As(err, &myErr) && mysqlRetryable[myErr.Number] {
		return fmt.Errorf("%w: %w", apperr.ErrConflict, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && postgresRetryable[pgErr.Code] {
		return fmt.Errorf("%w: %w", apperr.ErrConflict, err)
	}
	return err
}
