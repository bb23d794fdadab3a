package brief

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quantbrief/internal/model"
)

var (
	// ErrUnusablePrice indicates the price could not be coerced to a number;
	// the record is skipped rather than persisted with a bad value.
	ErrUnusablePrice = errors.New("brief: price is missing or not numeric")
	// ErrStoreDisabled indicates no database is configured.
	ErrStoreDisabled = errors.New("brief: record store is not configured")
)

// Store appends and lists summary records. It owns price coercion: an
// append with an unusable price is skipped entirely and reported via
// ErrUnusablePrice.
type Store struct {
	summaries model.SummariesModel
	nowFn     func() time.Time
}

// NewStore wraps a summaries model. A nil model yields a disabled store
// whose operations report ErrStoreDisabled.
func NewStore(summaries model.SummariesModel) *Store {
	return &Store{summaries: summaries, nowFn: time.Now}
}

// Append persists one record stamped with the current UTC instant.
func (s *Store) Append(ctx context.Context, ticker, summary string, price any, sentiment Sentiment) (*model.Summary, error) {
	value, ok := coercePrice(price)
	if !ok {
		return nil, ErrUnusablePrice
	}
	if s == nil || s.summaries == nil {
		return nil, ErrStoreDisabled
	}

	rec := &model.Summary{
		Ticker:    ticker,
		Summary:   summary,
		Price:     value,
		Sentiment: string(sentiment),
		Timestamp: s.nowFn().UTC(),
	}
	if _, err := s.summaries.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("brief: append record: %w", err)
	}
	return rec, nil
}

// History returns all records, newest first.
func (s *Store) History(ctx context.Context) ([]*model.Summary, error) {
	if s == nil || s.summaries == nil {
		return nil, ErrStoreDisabled
	}
	records, err := s.summaries.FindAllDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("brief: list records: %w", err)
	}
	return records, nil
}

// coercePrice accepts the price shapes the pipeline produces: a float, a
// possibly-nil float pointer, or a string like "123.45". Anything else,
// including "N/A", is unusable.
func coercePrice(price any) (float64, bool) {
	switch v := price.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case nil:
		return 0, false
	default:
		return 0, false
	}
}
