package dbx

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// StorageError wraps a driver error into a *common.StorageError, classifying
// it as a connection failure, a constraint violation or an unknown failure.
// A nil err yields nil.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}

	se := &common.StorageError{Op: op, Kind: common.KindUnknown, Err: err}

	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError
	var netErr net.Error

	switch {
	case errors.As(err, &pgErr):
		se.Code = pgErr.Code
		// class 23: integrity constraint violation
		if strings.HasPrefix(pgErr.Code, "23") {
			se.Kind = common.KindConstraintViolation
		}
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded),
		pgconn.Timeout(err):
		se.Kind = common.KindConnectionFailure
	}

	return se
}
