package repository

import (
	"errors"

	"github.com/lshigami/fieldsurvey/internal/apperror"
	"gorm.io/gorm"
)

// translate maps gorm's missing-row error onto the shared not-found sentinel.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}
