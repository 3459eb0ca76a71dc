package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"catalog/internal/errs"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// gormError tags a GORM failure with the matching errs sentinel.
// Duplicate keys are only recognised when the DB was opened with
// TranslateError enabled.
func gormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", errs.ErrConstraint, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("%w: %w", errs.ErrUnavailable, err)
	}
	return err
}

// mongoError tags a MongoDB driver failure with the matching errs sentinel.
func mongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", errs.ErrConstraint, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %w", errs.ErrUnavailable, err)
	}
	return err
}

// escapeLike escapes the LIKE wildcards in s so it is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
