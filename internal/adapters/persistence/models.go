package persistence

import (
	"time"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

type userRow struct {
	ID        int64     `gorm:"primaryKey"`
	Subject   string    `gorm:"size:255;not null;uniqueIndex:idx_users_subject"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (userRow) TableName() string { return "users" }

type sourceRow struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null;uniqueIndex:idx_sources_name"`
	Kind string `gorm:"size:10;not null;default:other;check:chk_sources_kind,kind IN ('film','book','other')"`
}

func (sourceRow) TableName() string { return "sources" }

type quoteRow struct {
	ID        int64     `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null;uniqueIndex:idx_quotes_text"`
	SourceID  int64     `gorm:"not null;index:idx_quotes_source_id"`
	Source    sourceRow `gorm:"foreignKey:SourceID;constraint:OnDelete:CASCADE"`
	Weight    int       `gorm:"not null;check:chk_quotes_weight,weight >= 1"`
	Views     int64     `gorm:"not null;default:0;check:chk_quotes_views,views >= 0"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_quotes_created_at"`
}

func (quoteRow) TableName() string { return "quotes" }

type voteRow struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_votes_user_quote,priority:1;index:idx_votes_user_id"`
	User      userRow   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	QuoteID   int64     `gorm:"not null;uniqueIndex:idx_votes_user_quote,priority:2;index:idx_votes_quote_id"`
	Quote     quoteRow  `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	Value     int       `gorm:"not null;check:chk_votes_value,value IN (1, -1)"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (voteRow) TableName() string { return "votes" }

// quoteStatsRow is the projection produced by the annotated quote queries.
type quoteStatsRow struct {
	ID            int64
	Text          string
	SourceID      int64
	Weight        int
	Views         int64
	CreatedAt     time.Time
	SourceName    string
	SourceKind    string
	LikesCount    int64
	DislikesCount int64
}

func (r quoteStatsRow) toDomain() domain.QuoteStats {
	return domain.QuoteStats{
		Quote: domain.Quote{
			ID:        r.ID,
			Text:      r.Text,
			SourceID:  r.SourceID,
			Weight:    r.Weight,
			Views:     r.Views,
			CreatedAt: r.CreatedAt,
		},
		SourceName: r.SourceName,
		SourceKind: domain.SourceKind(r.SourceKind),
		Likes:      r.LikesCount,
		Dislikes:   r.DislikesCount,
	}
}

func toSourceRow(s *domain.Source) sourceRow {
	return sourceRow{ID: s.ID, Name: s.Name, Kind: string(s.Kind)}
}

func (r sourceRow) toDomain() domain.Source {
	return domain.Source{ID: r.ID, Name: r.Name, Kind: domain.SourceKind(r.Kind)}
}

func toQuoteRow(q *domain.Quote) quoteRow {
	return quoteRow{
		ID:        q.ID,
		Text:      q.Text,
		SourceID:  q.SourceID,
		Weight:    q.Weight,
		Views:     q.Views,
		CreatedAt: q.CreatedAt,
	}
}
