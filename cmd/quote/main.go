package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"kisopenapi/internal/config"
	"kisopenapi/internal/httpx"
	"kisopenapi/internal/kis"
	"kisopenapi/internal/kis/auth"
	"kisopenapi/internal/kis/quote"
	"kisopenapi/internal/logger"
	"kisopenapi/internal/marketdata"
	"kisopenapi/internal/ratelimit"
)

func main() {
	var op string
	var symbolsCSV string
	var market string
	var period string
	var startDay string
	var endDay string
	var adjusted bool
	var timeout int
	var configPath string

	flag.StringVar(&op, "op", getenv("OP", "daily"), "operation: daily, periodic or rank")
	flag.StringVar(&symbolsCSV, "symbols", getenv("SYMBOLS", "005930"), "comma-separated 6-digit issue codes")
	flag.StringVar(&market, "market", getenv("MARKET", "J"), "market division code (J, NX, UN)")
	flag.StringVar(&period, "period", getenv("PERIOD", "D"), "period code (D, W, M, Y)")
	flag.StringVar(&startDay, "start", "", "range start YYYYMMDD (periodic only)")
	flag.StringVar(&endDay, "end", "", "range end YYYYMMDD (periodic only)")
	flag.BoolVar(&adjusted, "adjusted", getenvBool("ADJUSTED", true), "request prices adjusted for corporate actions")
	flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 0), "request timeout seconds (0 = config)")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.Parse()

	// .env is optional; real deployments inject the variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}

	log := logger.New(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})

	env, err := kis.ParseEnvironment(cfg.KIS.Environment)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if cfg.KIS.AppKey == "" || cfg.KIS.AppSecret == "" {
		log.Fatal("KIS_APP_KEY and KIS_APP_SECRET must be set")
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	creds := auth.NewCredentials(cfg.KIS.AppKey, cfg.KIS.AppSecret)
	account := kis.Account{Number: cfg.KIS.AccountNo, ProductCode: cfg.KIS.AccountProductCode}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
	defer cancel()

	authClient := auth.NewClient(env, auth.WithHTTPClient(httpClient))
	token, err := authClient.IssueToken(ctx, creds.AppKey(), creds.AppSecret())
	if err != nil {
		log.WithError(err).Fatal("issuing token")
	}
	creds.SetToken(token.AccessToken)
	log.WithField("expires_at", token.ExpiresAt).Debug("token issued")

	client, err := quote.NewClient(env, creds, account, quote.WithHTTPClient(httpClient))
	if err != nil {
		log.WithError(err).Fatal("quote client")
	}
	limiter := ratelimit.NewTokenBucket(float64(cfg.KIS.MaxRequestsPerSecond), cfg.KIS.Burst)

	switch op {
	case "rank":
		runRank(ctx, log, client, limiter, kis.MarketCode(market))
	case "daily", "periodic":
		symbols := splitCSV(symbolsCSV)
		if len(symbols) == 0 {
			log.Fatal("no symbols provided")
		}
		runCandles(ctx, log, client, limiter, op, symbols, kis.MarketCode(market), kis.PeriodCode(period), startDay, endDay, adjusted)
	default:
		log.Fatalf("unknown op %q", op)
	}
}

func runRank(ctx context.Context, log *logrus.Logger, client *quote.Client, limiter *ratelimit.TokenBucket, market kis.MarketCode) {
	if err := limiter.Wait(ctx); err != nil {
		log.Fatal(err)
	}
	res, err := client.VolumeRank(ctx, quote.VolumeRankParams{
		Market:        market,
		ScreenCode:    "20171",
		InputCode:     "0000",
		Division:      "0",
		Belong:        "0",
		Target:        "111111111",
		TargetExclude: "0000000000",
	})
	if err != nil {
		log.Fatal(err)
	}
	rows, err := marketdata.RowsFromVolumeRank(res)
	if err != nil {
		log.Fatal(err)
	}
	printJSON(struct {
		Rows []marketdata.RankRow `json:"rows"`
	}{Rows: rows})
}

func runCandles(ctx context.Context, log *logrus.Logger, client *quote.Client, limiter *ratelimit.TokenBucket, op string, symbols []string, market kis.MarketCode, period kis.PeriodCode, startDay, endDay string, adjusted bool) {
	var mu sync.Mutex
	batches := make([][]marketdata.Candle, 0, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			var candles []marketdata.Candle
			switch op {
			case "daily":
				res, err := client.DailyPrice(gctx, market, symbol, period, adjusted)
				if err != nil {
					return fmt.Errorf("%s: %w", symbol, err)
				}
				candles, err = marketdata.CandlesFromDailyPrice(symbol, res)
				if err != nil {
					return fmt.Errorf("%s: %w", symbol, err)
				}
			case "periodic":
				res, err := client.PeriodicPrice(gctx, market, symbol, startDay, endDay, period, adjusted)
				if err != nil {
					return fmt.Errorf("%s: %w", symbol, err)
				}
				candles, err = marketdata.CandlesFromPeriodicPrice(symbol, res)
				if err != nil {
					return fmt.Errorf("%s: %w", symbol, err)
				}
			}
			mu.Lock()
			batches = append(batches, candles)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	printJSON(struct {
		Candles []marketdata.Candle `json:"candles"`
	}{Candles: marketdata.Merge(batches...)})
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if x, err := strconv.Atoi(v); err == nil {
			return x
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			return true
		case "0", "false", "no", "n":
			return false
		}
	}
	return def
}
