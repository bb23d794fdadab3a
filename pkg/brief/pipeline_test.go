package brief

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"quantbrief/pkg/market/coingecko"
	"quantbrief/pkg/news"
)

type fakeStocks struct {
	name     string
	nameErr  error
	price    float64
	priceErr error
}

func (f *fakeStocks) ShortName(ctx context.Context, symbol string) (string, error) {
	return f.name, f.nameErr
}

func (f *fakeStocks) DailyClose(ctx context.Context, symbol string) (float64, error) {
	return f.price, f.priceErr
}

type fakeCrypto struct {
	coin     coingecko.Coin
	coinErr  error
	price    float64
	priceErr error
}

func (f *fakeCrypto) ResolveCoin(ctx context.Context, query string) (coingecko.Coin, error) {
	return f.coin, f.coinErr
}

func (f *fakeCrypto) SpotPrice(ctx context.Context, id string) (float64, error) {
	return f.price, f.priceErr
}

type fakeNews struct {
	articles    []news.Article
	gotSymbol   string
	gotName     string
	gotIsCrypto bool
}

func (f *fakeNews) FetchRelevant(ctx context.Context, symbol, displayName string, isCrypto bool) []news.Article {
	f.gotSymbol, f.gotName, f.gotIsCrypto = symbol, displayName, isCrypto
	return f.articles
}

type fakeSummarizer struct {
	reply    string
	gotTexts []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, texts []string) string {
	f.gotTexts = texts
	return f.reply
}

func newTestPipeline(stocks *fakeStocks, crypto *fakeCrypto, src *fakeNews, sum *fakeSummarizer, store *fakeSummariesModel) *Pipeline {
	return &Pipeline{
		News:       src,
		Stocks:     stocks,
		Crypto:     crypto,
		Summarizer: sum,
		Classifier: KeywordClassifier{},
		Store:      NewStore(store),
	}
}

func TestSummarizeStock(t *testing.T) {
	stocks := &fakeStocks{name: "Apple Inc.", price: 123.45}
	src := &fakeNews{articles: []news.Article{
		{Headline: "Apple ships", Summary: "strong quarter"},
		{Headline: "Apple again", Summary: ""},
	}}
	sum := &fakeSummarizer{reply: "Summary: solid. Sentiment: Positive."}
	recs := &fakeSummariesModel{}

	out := newTestPipeline(stocks, &fakeCrypto{}, src, sum, recs).SummarizeStock(context.Background(), "AAPL")

	require.False(t, out.NoNews)
	require.Equal(t, SentimentPositive, out.Sentiment)
	require.True(t, out.Stored)
	require.NotNil(t, out.Price)
	require.Equal(t, 123.45, *out.Price)

	// Display name is the lowercase first token of the short name.
	require.Equal(t, "apple", src.gotName)
	require.False(t, src.gotIsCrypto)

	// Empty article bodies are dropped before summarization.
	require.Equal(t, []string{"strong quarter"}, sum.gotTexts)
	require.Equal(t, 1, out.ArticleCount)

	require.Len(t, recs.inserted, 1)
	require.Equal(t, "AAPL", recs.inserted[0].Ticker)
	require.Equal(t, "Positive", recs.inserted[0].Sentiment)
}

func TestSummarizeStockNoNewsAborts(t *testing.T) {
	// Scenario: no matching news means no summary and no store append.
	stocks := &fakeStocks{name: "Apple Inc.", price: 123.45}
	sum := &fakeSummarizer{reply: "should never run"}
	recs := &fakeSummariesModel{}

	out := newTestPipeline(stocks, &fakeCrypto{}, &fakeNews{}, sum, recs).SummarizeStock(context.Background(), "AAPL")

	require.True(t, out.NoNews)
	require.Empty(t, out.Summary)
	require.False(t, out.Stored)
	require.Nil(t, sum.gotTexts)
	require.Empty(t, recs.inserted)
}

func TestSummarizeStockNameLookupFailureStillRuns(t *testing.T) {
	stocks := &fakeStocks{nameErr: errors.New("metadata down"), price: 10}
	src := &fakeNews{articles: []news.Article{{Headline: "AAPL news", Summary: "body"}}}
	sum := &fakeSummarizer{reply: "Sentiment: Neutral"}

	out := newTestPipeline(stocks, &fakeCrypto{}, src, sum, &fakeSummariesModel{}).SummarizeStock(context.Background(), "AAPL")

	require.Equal(t, "", src.gotName)
	require.Equal(t, SentimentNeutral, out.Sentiment)
}

func TestSummarizeStockUnusablePriceSkipsInsert(t *testing.T) {
	stocks := &fakeStocks{name: "Apple Inc.", priceErr: errors.New("no data")}
	src := &fakeNews{articles: []news.Article{{Headline: "Apple", Summary: "body"}}}
	sum := &fakeSummarizer{reply: "Sentiment: Negative"}
	recs := &fakeSummariesModel{}

	out := newTestPipeline(stocks, &fakeCrypto{}, src, sum, recs).SummarizeStock(context.Background(), "AAPL")

	require.Nil(t, out.Price)
	require.Equal(t, SentimentNegative, out.Sentiment)
	// The workflow completes, but nothing is persisted.
	require.False(t, out.Stored)
	require.Empty(t, recs.inserted)
}

func TestSummarizeCrypto(t *testing.T) {
	crypto := &fakeCrypto{
		coin:  coingecko.Coin{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		price: 2500.0,
	}
	src := &fakeNews{articles: []news.Article{
		{Headline: "Ethereum upgrade released", Summary: "ETH 2.0 brings more scalability"},
	}}
	sum := &fakeSummarizer{reply: "Sentiment: Positive overall"}
	recs := &fakeSummariesModel{}

	out := newTestPipeline(&fakeStocks{}, crypto, src, sum, recs).SummarizeCrypto(context.Background(), "ETH")

	require.Equal(t, "ethereum", out.ProviderID)
	require.Equal(t, "ethereum", src.gotName)
	require.True(t, src.gotIsCrypto)
	require.NotNil(t, out.Price)
	require.Equal(t, 2500.0, *out.Price)
	require.True(t, out.Stored)
	require.Equal(t, "ETH", recs.inserted[0].Ticker)
}

func TestSummarizeCryptoUnresolvedProceedsWithAbsences(t *testing.T) {
	crypto := &fakeCrypto{coinErr: coingecko.ErrCoinNotFound}
	src := &fakeNews{}
	sum := &fakeSummarizer{reply: "Sentiment: Neutral"}
	recs := &fakeSummariesModel{}

	out := newTestPipeline(&fakeStocks{}, crypto, src, sum, recs).SummarizeCrypto(context.Background(), "notacoin")

	require.Empty(t, out.ProviderID)
	require.Nil(t, out.Price)
	require.False(t, out.NoNews)
	// Empty news still summarizes the price-only fallback sentence.
	require.Equal(t, []string{"Price of notacoin is $N/A"}, sum.gotTexts)
	// Absent price means the record insert is skipped.
	require.False(t, out.Stored)
	require.Empty(t, recs.inserted)
}

func TestSummarizeCryptoEmptyNewsUsesPriceFallback(t *testing.T) {
	crypto := &fakeCrypto{
		coin:  coingecko.Coin{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		price: 34000.50,
	}
	sum := &fakeSummarizer{reply: "Sentiment: Neutral"}
	recs := &fakeSummariesModel{}

	out := newTestPipeline(&fakeStocks{}, crypto, &fakeNews{}, sum, recs).SummarizeCrypto(context.Background(), "BTC")

	require.Equal(t, []string{"Price of BTC is $34000.5"}, sum.gotTexts)
	require.True(t, out.Stored)
	require.Equal(t, 34000.50, recs.inserted[0].Price)
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "N/A", FormatPrice(nil))

	v := 123.45
	require.Equal(t, "123.45", FormatPrice(&v))

	whole := 34000.0
	require.Equal(t, "34000", FormatPrice(&whole))
}
