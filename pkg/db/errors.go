package db

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFound reports whether the error is gorm's record-not-found sentinel,
// possibly wrapped.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
