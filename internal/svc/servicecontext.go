package svc

import (
	"log"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"quantbrief/internal/config"
	"quantbrief/internal/model"
	"quantbrief/pkg/brief"
	"quantbrief/pkg/journal"
	llmpkg "quantbrief/pkg/llm"
	marketpkg "quantbrief/pkg/market"
	newspkg "quantbrief/pkg/news"
)

// ServiceContext holds every wired dependency the CLI commands need.
type ServiceContext struct {
	Config *config.Config

	LLMConfig    *llmpkg.Config
	MarketConfig *marketpkg.Config
	NewsConfig   *newspkg.Config

	DBConn         sqlx.SqlConn
	SummariesModel model.SummariesModel

	Pipeline *brief.Pipeline
}

func NewServiceContext(c *config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config:       c,
		LLMConfig:    c.LLMConfig(),
		MarketConfig: c.MarketConfig(),
		NewsConfig:   c.NewsConfig(),
	}

	llmClient, err := llmpkg.NewClient(svc.LLMConfig)
	if err != nil {
		log.Fatalf("failed to init llm client: %v", err)
	}

	newsClient := newspkg.NewClient(svc.NewsConfig)
	stockClient := svc.MarketConfig.NewStockClient()
	cryptoClient := svc.MarketConfig.NewCryptoClient()

	// Records are only persisted when a DSN is configured; everything else
	// works without a database.
	if c.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn
		svc.SummariesModel = model.NewSummariesModel(conn)
	}

	var journalWriter *journal.Writer
	if c.Journal.Dir != "" {
		journalWriter = journal.NewWriter(c.Journal.Dir)
	}

	svc.Pipeline = &brief.Pipeline{
		News:       newspkg.NewFetcher(newsClient),
		Stocks:     stockClient,
		Crypto:     cryptoClient,
		Summarizer: brief.NewLLMSummarizer(llmClient),
		Classifier: brief.KeywordClassifier{},
		Store:      brief.NewStore(svc.SummariesModel),
		Journal:    journalWriter,
	}
	return svc
}
