package persistence

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// translateError maps GORM errors onto domain errors.
// Domain errors pass through untouched so transactions can return them.
func translateError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)

	switch {
	case errors.As(err, &notFound), errors.As(err, &validation), errors.As(err, &conflict):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewConflictError(entity, "already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.NewNotFoundError(entity, id)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}
