// Command mock-providers serves fake weather and places APIs for local runs.
//
// Point the trip finder at it with:
//
//	TRIP_OPENWEATHER_BASE_URL=http://localhost:9090
//	TRIP_FOURSQUARE_BASE_URL=http://localhost:9090
//	TRIP_OPENWEATHER_API_KEY=any TRIP_FOURSQUARE_API_KEY=any
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/okian/tripfinder/internal/mockprovider"
	"github.com/okian/tripfinder/pkg/logger"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("mock-providers")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := getEnv("MOCK_ADDR", ":9090")
	minMS := getEnvInt("MOCK_LATENCY_MIN_MS", 50)
	maxMS := getEnvInt("MOCK_LATENCY_MAX_MS", 300)
	failureRate, err := strconv.ParseFloat(getEnv("MOCK_FAILURE_RATE", "0.1"), 64)
	if err != nil {
		log.Warn(ctx, "invalid MOCK_FAILURE_RATE; using 0", logger.Error(err))
		failureRate = 0
	}

	mock := mockprovider.New(
		mockprovider.WithLatencyRange(time.Duration(minMS)*time.Millisecond, time.Duration(maxMS)*time.Millisecond),
		mockprovider.WithFailureRate(failureRate),
		mockprovider.WithLogger(log),
	)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mock.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		log.Info(ctx, "mock providers listening",
			logger.String("addr", addr),
			logger.Int("latencyMinMS", minMS),
			logger.Int("latencyMaxMS", maxMS),
			logger.Float64("failureRate", failureRate),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server error", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown error", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
