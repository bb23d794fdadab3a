package news

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// maxRelevant caps how many articles a fetch returns. Scanning stops as soon
// as the cap is reached.
const maxRelevant = 3

// companyNewsWindow is the trailing date range for company news queries.
const companyNewsWindow = 7 * 24 * time.Hour

// Fetcher retrieves provider news and filters it down to articles relevant
// to one asset. Provider failures are logged and reported as an empty
// result, never as an error.
type Fetcher struct {
	client *Client
	nowFn  func() time.Time
}

// NewFetcher constructs a Fetcher on top of a news client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client, nowFn: time.Now}
}

// FetchRelevant returns at most maxRelevant articles mentioning the symbol
// or display name. Crypto assets use the category feed; stocks use company
// news over the trailing seven UTC calendar days.
func (f *Fetcher) FetchRelevant(ctx context.Context, symbol, displayName string, isCrypto bool) []Article {
	var (
		articles []Article
		err      error
	)
	if isCrypto {
		articles, err = f.client.CategoryNews(ctx, "crypto")
	} else {
		to := f.nowFn().UTC()
		from := to.Add(-companyNewsWindow)
		articles, err = f.client.CompanyNews(ctx, strings.ToUpper(symbol), from, to)
	}
	if err != nil {
		logx.WithContext(ctx).Errorf("news fetch failed for %s: %v", symbol, err)
		return nil
	}

	return filterRelevant(articles, symbol, displayName)
}

// filterRelevant keeps articles whose headline or body mentions one of the
// terms, preserving provider order and stopping at maxRelevant. Empty terms
// never match.
func filterRelevant(articles []Article, terms ...string) []Article {
	needles := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			needles = append(needles, term)
		}
	}
	if len(needles) == 0 {
		return nil
	}

	var relevant []Article
	for _, article := range articles {
		headline := strings.ToLower(article.Headline)
		summary := strings.ToLower(article.Summary)
		for _, needle := range needles {
			if strings.Contains(headline, needle) || strings.Contains(summary, needle) {
				relevant = append(relevant, article)
				break
			}
		}
		if len(relevant) == maxRelevant {
			break
		}
	}
	return relevant
}
