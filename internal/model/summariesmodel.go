package model

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ SummariesModel = (*defaultSummariesModel)(nil)

// Summary is one persisted summarize result. Rows are append-only; nothing
// in this system updates or deletes them.
type Summary struct {
	Id        int64     `db:"id"`
	Ticker    string    `db:"ticker"`
	Summary   string    `db:"summary"`
	Price     float64   `db:"price"`
	Sentiment string    `db:"sentiment"`
	Timestamp time.Time `db:"timestamp"`
}

type (
	// SummariesModel is an interface to be customized, add more methods here,
	// and implement the added methods in defaultSummariesModel.
	SummariesModel interface {
		Insert(ctx context.Context, data *Summary) (int64, error)
		FindAllDesc(ctx context.Context) ([]*Summary, error)
	}

	defaultSummariesModel struct {
		conn sqlx.SqlConn
	}
)

// NewSummariesModel returns a model for the summaries table.
func NewSummariesModel(conn sqlx.SqlConn) SummariesModel {
	return &defaultSummariesModel{conn: conn}
}

// Insert appends one summary row and returns its generated id. Each insert
// is its own committed transaction.
func (m *defaultSummariesModel) Insert(ctx context.Context, data *Summary) (int64, error) {
	const query = `
INSERT INTO summaries (ticker, summary, price, sentiment, timestamp)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	var id int64
	err := m.conn.QueryRowCtx(ctx, &id, query,
		data.Ticker, data.Summary, data.Price, data.Sentiment, data.Timestamp)
	if err != nil {
		return 0, err
	}
	data.Id = id
	return id, nil
}

// FindAllDesc returns every summary row, newest timestamp first.
func (m *defaultSummariesModel) FindAllDesc(ctx context.Context) ([]*Summary, error) {
	const query = `
SELECT id, ticker, summary, price, sentiment, timestamp
FROM summaries
ORDER BY timestamp DESC`

	var rows []*Summary
	if err := m.conn.QueryRowsCtx(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}
