package services

import (
	"fmt"

	dbpkg "foodgram/db"

	"github.com/jinzhu/gorm"
)

// inTx runs fn inside a transaction. Everything fn touches must go through
// tx: sqlite runs with a single connection.
func inTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// notFound maps gorm's record not found to ErrNotFound.
func notFound(err error, what string) error {
	if dbpkg.IsNotFound(err) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
