package db

import (
	"errors"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err comes from a unique index or
// primary key conflict, on either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	for _, e := range unwrapGorm(err) {
		if e != err && IsUniqueViolation(e) {
			return true
		}
	}
	return false
}

// IsDuplicateObject reports a postgres "already exists" error (42710).
func IsDuplicateObject(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42710"
}

// IsNotFound reports whether err is gorm's record not found.
func IsNotFound(err error) bool {
	return gorm.IsRecordNotFoundError(err)
}

// gorm v1 collects several errors into gorm.Errors, which does not unwrap.
func unwrapGorm(err error) []error {
	var errs gorm.Errors
	if errors.As(err, &errs) {
		return errs.GetErrors()
	}
	return nil
}
