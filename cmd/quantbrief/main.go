package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/zeromicro/go-zero/core/logx"

	"quantbrief/internal/cli"
	"quantbrief/internal/config"
	"quantbrief/internal/svc"
	"quantbrief/pkg/brief"
)

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

func main() {
	var (
		configPath = flag.String("config", "etc/quantbrief.yaml", "path to main configuration")
		ticker     = flag.String("ticker", "", "stock ticker symbol")
		crypto     = flag.String("crypto", "", "cryptocurrency name")
		history    = flag.Bool("history", false, "view summary history")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	logx.MustSetup(logx.LogConf{Level: cfg.LogLevel})
	logx.DisableStat()

	svcCtx := svc.NewServiceContext(cfg)
	render := cli.NewRenderer()
	ctx := context.Background()

	// Mode precedence: history, then ticker, then crypto.
	switch {
	case *history:
		records, err := svcCtx.Pipeline.History(ctx)
		if err != nil {
			if errors.Is(err, brief.ErrStoreDisabled) {
				render.Warn("History unavailable: no database configured.")
				return
			}
			fatalf("load history: %v", err)
		}
		render.History(records)

	case *ticker != "":
		render.Info("Fetching news...")
		render.Info("Fetching price...")
		out := svcCtx.Pipeline.SummarizeStock(ctx, *ticker)
		if !out.NoNews {
			render.Notice("Number of articles being summarized: %d", out.ArticleCount)
		}
		render.Outcome(out)

	case *crypto != "":
		render.Info("Fetching price...")
		render.Info("Fetching news...")
		out := svcCtx.Pipeline.SummarizeCrypto(ctx, *crypto)
		render.Notice("Number of articles being summarized: %d", out.ArticleCount)
		render.Outcome(out)

	default:
		flag.Usage()
	}
}
