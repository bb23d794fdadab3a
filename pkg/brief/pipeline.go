package brief

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"quantbrief/internal/model"
	"quantbrief/pkg/journal"
	"quantbrief/pkg/market/coingecko"
	"quantbrief/pkg/news"
)

// StockData is the slice of the stock provider the pipeline needs.
type StockData interface {
	ShortName(ctx context.Context, symbol string) (string, error)
	DailyClose(ctx context.Context, symbol string) (float64, error)
}

// CryptoData is the slice of the crypto provider the pipeline needs.
type CryptoData interface {
	ResolveCoin(ctx context.Context, query string) (coingecko.Coin, error)
	SpotPrice(ctx context.Context, id string) (float64, error)
}

// NewsSource fetches relevance-filtered articles for one asset.
type NewsSource interface {
	FetchRelevant(ctx context.Context, symbol, displayName string, isCrypto bool) []news.Article
}

// Outcome is the result of one summarize workflow, rendered by the caller.
type Outcome struct {
	Asset        string
	Kind         string // "stock" | "crypto"
	ProviderID   string
	Sentiment    Sentiment
	Summary      string
	Price        *float64
	ArticleCount int
	Stored       bool
	NoNews       bool
}

// Pipeline wires the fetchers, summarizer, classifier and store into the
// two summarize workflows. Every provider failure has already been reduced
// to an absence value by the time the pipeline branches on it.
type Pipeline struct {
	News       NewsSource
	Stocks     StockData
	Crypto     CryptoData
	Summarizer Summarizer
	Classifier Classifier
	Store      *Store
	Journal    *journal.Writer
}

// SummarizeStock runs the stock workflow: news, price, summary, sentiment,
// append. With no relevant news the workflow aborts early; nothing is
// summarized or stored.
func (p *Pipeline) SummarizeStock(ctx context.Context, symbol string) *Outcome {
	out := &Outcome{Asset: symbol, Kind: "stock"}

	displayName := p.resolveStockName(ctx, symbol)
	articles := p.News.FetchRelevant(ctx, symbol, displayName, false)
	out.Price = p.stockPrice(ctx, symbol)

	if len(articles) == 0 {
		out.NoNews = true
		p.writeJournal(out)
		return out
	}

	fallback := fmt.Sprintf("No news found for %s. Price is $%s.", symbol, FormatPrice(out.Price))
	p.summarizeAndStore(ctx, out, articles, fallback)
	return out
}

// SummarizeCrypto runs the crypto workflow. An unresolved coin proceeds
// with absent price and id; an empty news set falls back to a price-only
// sentence instead of aborting.
func (p *Pipeline) SummarizeCrypto(ctx context.Context, name string) *Outcome {
	out := &Outcome{Asset: name, Kind: "crypto"}

	var displayName string
	coin, err := p.Crypto.ResolveCoin(ctx, name)
	switch {
	case err == nil:
		out.ProviderID = coin.ID
		displayName = firstWordLower(coin.Name)
	case errors.Is(err, coingecko.ErrCoinNotFound):
		logx.WithContext(ctx).Errorf("unable to find matching coin id for %q", name)
	default:
		logx.WithContext(ctx).Errorf("coin resolution failed for %q: %v", name, err)
	}

	if out.ProviderID != "" {
		out.Price = p.cryptoPrice(ctx, out.ProviderID)
	}
	articles := p.News.FetchRelevant(ctx, name, displayName, true)

	fallback := fmt.Sprintf("Price of %s is $%s", name, FormatPrice(out.Price))
	p.summarizeAndStore(ctx, out, articles, fallback)
	return out
}

// History returns all stored records, newest first.
func (p *Pipeline) History(ctx context.Context) ([]*model.Summary, error) {
	return p.Store.History(ctx)
}

// summarizeAndStore is the shared tail of both workflows: build the text
// list from non-empty article bodies, summarize (or fall back), classify,
// and append.
func (p *Pipeline) summarizeAndStore(ctx context.Context, out *Outcome, articles []news.Article, fallback string) {
	texts := make([]string, 0, len(articles))
	for _, a := range articles {
		if a.Summary != "" {
			texts = append(texts, a.Summary)
		}
	}
	out.ArticleCount = len(texts)
	logx.WithContext(ctx).Infof("summarizing %d article(s) for %s", len(texts), out.Asset)

	if len(texts) > 0 {
		out.Summary = p.Summarizer.Summarize(ctx, texts)
	} else {
		out.Summary = p.Summarizer.Summarize(ctx, []string{fallback})
	}
	out.Sentiment = p.Classifier.Classify(out.Summary)

	_, err := p.Store.Append(ctx, out.Asset, out.Summary, out.Price, out.Sentiment)
	switch {
	case err == nil:
		out.Stored = true
	case errors.Is(err, ErrUnusablePrice):
		logx.WithContext(ctx).Errorf("skipping record insert for %s: missing price", out.Asset)
	case errors.Is(err, ErrStoreDisabled):
		logx.WithContext(ctx).Errorf("skipping record insert for %s: store not configured", out.Asset)
	default:
		logx.WithContext(ctx).Errorf("record insert failed for %s: %v", out.Asset, err)
	}

	p.writeJournal(out)
}

func (p *Pipeline) resolveStockName(ctx context.Context, symbol string) string {
	name, err := p.Stocks.ShortName(ctx, symbol)
	if err != nil {
		logx.WithContext(ctx).Debugf("short name lookup failed for %s: %v", symbol, err)
		return ""
	}
	return firstWordLower(name)
}

func (p *Pipeline) stockPrice(ctx context.Context, symbol string) *float64 {
	price, err := p.Stocks.DailyClose(ctx, symbol)
	if err != nil {
		logx.WithContext(ctx).Errorf("stock price fetch failed for %s: %v", symbol, err)
		return nil
	}
	return &price
}

func (p *Pipeline) cryptoPrice(ctx context.Context, id string) *float64 {
	price, err := p.Crypto.SpotPrice(ctx, id)
	if err != nil {
		logx.WithContext(ctx).Errorf("crypto price fetch failed for %s: %v", id, err)
		return nil
	}
	return &price
}

// writeJournal records the run best-effort; journal failures never affect
// the workflow result.
func (p *Pipeline) writeJournal(out *Outcome) {
	if p.Journal == nil {
		return
	}
	_, err := p.Journal.WriteRun(&journal.RunRecord{
		Asset:      out.Asset,
		Kind:       out.Kind,
		ProviderID: out.ProviderID,
		Articles:   out.ArticleCount,
		Sentiment:  string(out.Sentiment),
		Price:      out.Price,
		Stored:     out.Stored,
		NoNews:     out.NoNews,
	})
	if err != nil {
		logx.Errorf("journal write failed: %v", err)
	}
}

// FormatPrice renders an optional price for prompts and console output.
func FormatPrice(price *float64) string {
	if price == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}

func firstWordLower(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
