package persistence

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// statsColumns annotates each quote with its source and vote counts so a
// page is produced by a single statement.
const statsColumns = `quotes.id, quotes.text, quotes.source_id, quotes.weight, quotes.views, quotes.created_at,
	sources.name AS source_name, sources.kind AS source_kind,
	(SELECT COUNT(*) FROM votes WHERE votes.quote_id = quotes.id AND votes.value = 1) AS likes_count,
	(SELECT COUNT(*) FROM votes WHERE votes.quote_id = quotes.id AND votes.value = -1) AS dislikes_count`

var orderColumns = map[domain.SortOrder]string{
	domain.SortByLikes: "likes_count",
	domain.SortByViews: "quotes.views",
	domain.SortByDate:  "quotes.created_at",
}

// QuoteRepository implements ports.QuoteRepository.
type QuoteRepository struct {
	db *gorm.DB
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

// NewQuoteRepository creates a quote repository.
func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create implements ports.QuoteRepository.
func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	q.Normalize()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardQuoteWrite(tx, q); err != nil {
			return err
		}

		row := toQuoteRow(q)
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return translateError(err, "quote", q.ID)
		}

		q.ID = row.ID
		q.CreatedAt = row.CreatedAt

		return nil
	})
}

// Update implements ports.QuoteRepository.
func (r *QuoteRepository) Update(ctx context.Context, q *domain.Quote) error {
	q.Normalize()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing quoteRow
		if err := tx.Take(&existing, q.ID).Error; err != nil {
			return translateError(err, "quote", q.ID)
		}

		if err := guardQuoteWrite(tx, q); err != nil {
			return err
		}

		err := tx.Model(&existing).Omit(clause.Associations).Updates(map[string]any{
			"text":      q.Text,
			"source_id": q.SourceID,
			"weight":    q.Weight,
		}).Error
		if err != nil {
			return translateError(err, "quote", q.ID)
		}

		q.Views = existing.Views
		q.CreatedAt = existing.CreatedAt

		return nil
	})
}

// guardQuoteWrite locks the target source and checks the per-source limit
// and the quote's own rules. It must run inside the write's transaction.
func guardQuoteWrite(tx *gorm.DB, q *domain.Quote) error {
	var src sourceRow

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&src, q.SourceID).Error
	if err != nil {
		return translateError(err, "source", q.SourceID)
	}

	var others int64
	if err := tx.Model(&quoteRow{}).
		Where("source_id = ? AND id <> ?", q.SourceID, q.ID).
		Count(&others).Error; err != nil {
		return fmt.Errorf("count source quotes: %w", err)
	}

	if err := domain.CheckSourceCapacity(others); err != nil {
		return err
	}

	return q.Validate()
}

// Delete implements ports.QuoteRepository.
func (r *QuoteRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&quoteRow{}, id)
	if res.Error != nil {
		return translateError(res.Error, "quote", id)
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("quote", id)
	}

	return nil
}

// Get implements ports.QuoteRepository.
func (r *QuoteRepository) Get(ctx context.Context, id int64) (*domain.QuoteStats, error) {
	var rows []quoteStatsRow
	if err := r.statsQuery(ctx).Where("quotes.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, translateError(err, "quote", id)
	}

	if len(rows) == 0 {
		return nil, domain.NewNotFoundError("quote", id)
	}

	stats := rows[0].toDomain()

	return &stats, nil
}

// List implements ports.QuoteRepository.
func (r *QuoteRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.QuoteStats, error) {
	filter := q.Filter.Normalized()

	tx := applyScope(applyFilter(r.statsQuery(ctx), filter), q.Scope).
		Order(orderColumns[filter.Order] + " " + strings.ToUpper(string(filter.Direction))).
		Order("quotes.id DESC")

	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []quoteStatsRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	return toStats(rows), nil
}

// Top implements ports.QuoteRepository.
func (r *QuoteRepository) Top(ctx context.Context, n int) ([]domain.QuoteStats, error) {
	var rows []quoteStatsRow

	err := r.statsQuery(ctx).
		Order("likes_count DESC").
		Order("quotes.created_at DESC").
		Order("quotes.id DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top quotes: %w", err)
	}

	return toStats(rows), nil
}

// Weights implements ports.QuoteRepository.
func (r *QuoteRepository) Weights(ctx context.Context) ([]domain.WeightedID, error) {
	var rows []struct {
		ID     int64
		Weight int
	}

	if err := r.db.WithContext(ctx).Table("quotes").Select("id, weight").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	out := make([]domain.WeightedID, len(rows))
	for i, row := range rows {
		out[i] = domain.WeightedID{ID: row.ID, Weight: row.Weight}
	}

	return out, nil
}

// IncrementViews implements ports.QuoteRepository.
func (r *QuoteRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&quoteRow{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("quote", id)
		}

		return tx.Model(&quoteRow{}).Where("id = ?", id).Select("views").Scan(&views).Error
	})
	if err != nil {
		return 0, translateError(err, "quote", id)
	}

	return views, nil
}

func (r *QuoteRepository) statsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("quotes").
		Select(statsColumns).
		Joins("JOIN sources ON sources.id = quotes.source_id")
}

func applyFilter(tx *gorm.DB, f domain.ListFilter) *gorm.DB {
	if f.Text != "" {
		tx = tx.Where(nameMatch(tx), nameContains(f.Text))
	}

	if f.Kind != "" {
		tx = tx.Where("sources.kind = ?", f.Kind)
	}

	return tx
}

func applyScope(tx *gorm.DB, s domain.ListScope) *gorm.DB {
	switch s.Kind {
	case domain.ScopeLiked:
		return tx.Where("EXISTS (SELECT 1 FROM votes sv WHERE sv.quote_id = quotes.id AND sv.user_id = ? AND sv.value = ?)",
			s.UserID, int(domain.VoteLike))
	case domain.ScopeDisliked:
		return tx.Where("EXISTS (SELECT 1 FROM votes sv WHERE sv.quote_id = quotes.id AND sv.user_id = ? AND sv.value = ?)",
			s.UserID, int(domain.VoteDislike))
	case domain.ScopeUnvoted:
		return tx.Where("NOT EXISTS (SELECT 1 FROM votes sv WHERE sv.quote_id = quotes.id AND sv.user_id = ?)", s.UserID)
	default:
		return tx
	}
}

// nameMatch returns a case-insensitive substring match on the source name.
// SQLite's own LOWER and LIKE fold ASCII only, so it goes through the
// registered unicode_lower function.
func nameMatch(tx *gorm.DB) string {
	if tx.Dialector.Name() == DriverPostgres {
		return `sources.name ILIKE ? ESCAPE '\'`
	}

	return unicodeLowerFunc + `(sources.name) LIKE ? ESCAPE '\'`
}

// nameContains builds the LIKE pattern. Lowering it is harmless for ILIKE.
func nameContains(text string) string {
	return "%" + escapeLike(strings.ToLower(text)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toStats(rows []quoteStatsRow) []domain.QuoteStats {
	out := make([]domain.QuoteStats, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}

	return out
}
