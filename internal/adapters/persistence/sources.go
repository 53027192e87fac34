package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// SourceRepository implements ports.SourceRepository.
type SourceRepository struct {
	db *gorm.DB
}

var _ ports.SourceRepository = (*SourceRepository)(nil)

// NewSourceRepository creates a source repository.
func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Create implements ports.SourceRepository.
func (r *SourceRepository) Create(ctx context.Context, s *domain.Source) error {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return err
	}

	row := toSourceRow(s)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateError(err, "source", s.ID)
	}

	s.ID = row.ID

	return nil
}

// Update implements ports.SourceRepository.
func (r *SourceRepository) Update(ctx context.Context, s *domain.Source) error {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing sourceRow
		if err := tx.Take(&existing, s.ID).Error; err != nil {
			return translateError(err, "source", s.ID)
		}

		err := tx.Model(&existing).Updates(map[string]any{"name": s.Name, "kind": string(s.Kind)}).Error

		return translateError(err, "source", s.ID)
	})
}

// Delete implements ports.SourceRepository. Quotes and their votes go with it.
func (r *SourceRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&sourceRow{}, id)
	if res.Error != nil {
		return translateError(res.Error, "source", id)
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("source", id)
	}

	return nil
}

// Get implements ports.SourceRepository.
func (r *SourceRepository) Get(ctx context.Context, id int64) (*domain.Source, error) {
	var row sourceRow
	if err := r.db.WithContext(ctx).Take(&row, id).Error; err != nil {
		return nil, translateError(err, "source", id)
	}

	s := row.toDomain()

	return &s, nil
}

// List implements ports.SourceRepository.
func (r *SourceRepository) List(ctx context.Context) ([]domain.Source, error) {
	var rows []sourceRow
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	out := make([]domain.Source, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}

	return out, nil
}
