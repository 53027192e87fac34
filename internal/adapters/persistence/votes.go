package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// VoteRepository implements ports.VoteRepository.
type VoteRepository struct {
	db *gorm.DB
}

var _ ports.VoteRepository = (*VoteRepository)(nil)

// NewVoteRepository creates a vote repository.
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert implements ports.VoteRepository. The write is a single
// INSERT ... ON CONFLICT (user_id, quote_id) DO UPDATE statement.
func (r *VoteRepository) Upsert(ctx context.Context, userID, quoteID int64, value domain.VoteValue) error {
	db := r.db.WithContext(ctx)

	var exists int64
	if err := db.Model(&quoteRow{}).Where("id = ?", quoteID).Count(&exists).Error; err != nil {
		return fmt.Errorf("check quote: %w", err)
	}

	if exists == 0 {
		return domain.NewNotFoundError("quote", quoteID)
	}

	row := voteRow{UserID: userID, QuoteID: quoteID, Value: int(value)}

	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "quote_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		// The quote can disappear between the check and the insert.
		return translateError(err, "quote", quoteID)
	}

	return nil
}

// Counts implements ports.VoteRepository.
func (r *VoteRepository) Counts(ctx context.Context, quoteID int64) (domain.VoteCounts, error) {
	var out struct {
		Likes    int64
		Dislikes int64
	}

	err := r.db.WithContext(ctx).
		Model(&voteRow{}).
		Select(`COALESCE(SUM(CASE WHEN value = 1 THEN 1 ELSE 0 END), 0) AS likes,
			COALESCE(SUM(CASE WHEN value = -1 THEN 1 ELSE 0 END), 0) AS dislikes`).
		Where("quote_id = ?", quoteID).
		Scan(&out).Error
	if err != nil {
		return domain.VoteCounts{}, fmt.Errorf("count votes: %w", err)
	}

	return domain.VoteCounts{Likes: out.Likes, Dislikes: out.Dislikes}, nil
}

// Delete implements ports.VoteRepository.
func (r *VoteRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&voteRow{}, id)
	if res.Error != nil {
		return translateError(res.Error, "vote", id)
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("vote", id)
	}

	return nil
}
