package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"kisopenapi/internal/cache"
	"kisopenapi/internal/config"
	"kisopenapi/internal/httpx"
	"kisopenapi/internal/kis"
	"kisopenapi/internal/kis/auth"
	"kisopenapi/internal/kis/quote"
	"kisopenapi/internal/logger"
	"kisopenapi/internal/marketdata"
	"kisopenapi/internal/ratelimit"
)

// server bundles the dispatcher with the gating and caching layers the
// binary puts in front of it. The dispatcher itself stays free of rate,
// retry and cache behavior.
type server struct {
	log     *logrus.Logger
	client  *quote.Client
	limiter *ratelimit.TokenBucket
	candles *cache.TTLMap[string, []marketdata.Candle]
	timeout time.Duration
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
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

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(timeout)
	creds := auth.NewCredentials(cfg.KIS.AppKey, cfg.KIS.AppSecret)

	startCtx, cancel := context.WithTimeout(context.Background(), timeout)
	authClient := auth.NewClient(env, auth.WithHTTPClient(httpClient))
	token, err := authClient.IssueToken(startCtx, creds.AppKey(), creds.AppSecret())
	cancel()
	if err != nil {
		log.WithError(err).Fatal("issuing token")
	}
	creds.SetToken(token.AccessToken)
	log.WithFields(logrus.Fields{"environment": env, "expires_at": token.ExpiresAt}).Info("token issued")

	client, err := quote.NewClient(env, creds, kis.Account{
		Number:      cfg.KIS.AccountNo,
		ProductCode: cfg.KIS.AccountProductCode,
	}, quote.WithHTTPClient(httpClient))
	if err != nil {
		log.WithError(err).Fatal("quote client")
	}

	s := &server{
		log:     log,
		client:  client,
		limiter: ratelimit.NewTokenBucket(float64(cfg.KIS.MaxRequestsPerSecond), cfg.KIS.Burst),
		candles: &cache.TTLMap[string, []marketdata.Candle]{
			TTL:      time.Duration(cfg.KIS.CacheTTLSeconds) * time.Second,
			MaxItems: cfg.KIS.CacheMaxItems,
		},
		timeout: timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/daily-price", s.handleDailyPrice)
	mux.HandleFunc("/api/volume-rank", s.handleVolumeRank)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(recoverPanic(log, mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server")
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
}

func (s *server) handleDailyPrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		http.Error(w, "missing symbol query param", http.StatusBadRequest)
		return
	}
	market := kis.MarketCode(defaultStr(r.URL.Query().Get("market"), string(kis.MarketKRX)))
	period := kis.PeriodCode(defaultStr(r.URL.Query().Get("period"), string(kis.PeriodDay)))
	adjusted := r.URL.Query().Get("adjusted") != "0"

	cacheKey := fmt.Sprintf("%s|%s|%s|%t", market, symbol, period, adjusted)
	if candles, ok := s.candles.Get(cacheKey); ok {
		s.writeJSON(w, struct {
			Candles []marketdata.Candle `json:"candles"`
		}{Candles: candles})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	if err := s.limiter.Wait(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	res, err := s.client.DailyPrice(ctx, market, symbol, period, adjusted)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	candles, err := marketdata.CandlesFromDailyPrice(symbol, res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.candles.Set(cacheKey, candles)
	s.writeJSON(w, struct {
		Candles []marketdata.Candle `json:"candles"`
	}{Candles: candles})
}

func (s *server) handleVolumeRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	market := kis.MarketCode(defaultStr(r.URL.Query().Get("market"), string(kis.MarketKRX)))

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	if err := s.limiter.Wait(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	res, err := s.client.VolumeRank(ctx, quote.VolumeRankParams{
		Market:        market,
		ScreenCode:    "20171",
		InputCode:     "0000",
		Division:      "0",
		Belong:        "0",
		Target:        "111111111",
		TargetExclude: "0000000000",
	})
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	rows, err := marketdata.RowsFromVolumeRank(res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.writeJSON(w, struct {
		Rows []marketdata.RankRow `json:"rows"`
	}{Rows: rows})
}

// writeUpstreamError maps the dispatcher's error classes onto HTTP codes.
func (s *server) writeUpstreamError(w http.ResponseWriter, err error) {
	s.log.WithError(err).Warn("upstream call failed")
	var statusErr *quote.StatusError
	switch {
	case errors.Is(err, quote.ErrTokenUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &statusErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, quote.ErrDecode):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	}
}

// writeJSON encodes v as the 200 response. The status line is already on
// the wire when encoding starts, so a mid-stream failure can only be
// logged, not turned into an error status.
func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.log.WithError(err).Error("writing response")
	}
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// recoverPanic protects handlers from panics.
func recoverPanic(log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).Error("handler panic")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func defaultStr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
