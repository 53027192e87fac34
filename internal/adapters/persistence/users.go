package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	db *gorm.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureBySubject implements ports.UserRepository.
func (r *UserRepository) EnsureBySubject(ctx context.Context, subject string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject"}},
		DoNothing: true,
	}).Create(&userRow{Subject: subject}).Error
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	// Always re-read: an ignored insert leaves no id to trust.
	var row userRow
	if err := db.Where("subject = ?", subject).Take(&row).Error; err != nil {
		return nil, translateError(err, "user", 0)
	}

	return &domain.User{ID: row.ID, Subject: row.Subject, CreatedAt: row.CreatedAt}, nil
}
