package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/SundaeSwap-finance/holder-snapshot/badapi"
	"github.com/SundaeSwap-finance/holder-snapshot/calculation"
	"github.com/SundaeSwap-finance/holder-snapshot/logger"
	"github.com/SundaeSwap-finance/holder-snapshot/metrics"
	"github.com/SundaeSwap-finance/holder-snapshot/retry"
	"github.com/SundaeSwap-finance/holder-snapshot/store"
	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; flags and the environment still apply
	_ = godotenv.Load()

	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	settingsFlag := flag.String("settings", "", "path to the snapshot settings JSON file")
	outFlag := flag.String("out", "", "write payouts to this file instead of stdout")
	formatFlag := flag.String("format", "json", "output format (json or csv)")

	apiURLFlag := flag.String("api-url", "https://api.badfoxmc.com", "indexing service base URL (or set BADAPI_URL env var)")
	apiKeyFlag := flag.String("api-key", "", "indexing service API key (or set BADAPI_KEY env var)")
	requestsPerSecondFlag := flag.Float64("requests-per-second", 5, "maximum requests per second to the indexing service (0 = unlimited)")
	retriesFlag := flag.Int("max-attempts", retry.DefaultConfig().MaxAttempts, "attempts per request before the snapshot fails")
	timeoutFlag := flag.Duration("request-timeout", time.Minute, "timeout for a single request")

	dbFlag := flag.String("db", "", "bolt database for finished snapshots (or set SNAPSHOT_DB env var); empty disables it")
	freshFlag := flag.Bool("fresh", false, "ignore any finished snapshot saved for these settings")

	metricsAddrFlag := flag.String("metrics-addr", "", "address to serve prometheus metrics on while the snapshot runs (e.g. :9090)")

	flag.Parse()

	log := logger.New(*verboseFlag)

	if envURL := os.Getenv("BADAPI_URL"); envURL != "" {
		*apiURLFlag = envURL
	}
	if envKey := os.Getenv("BADAPI_KEY"); envKey != "" {
		*apiKeyFlag = envKey
	}
	if envDB := os.Getenv("SNAPSHOT_DB"); envDB != "" {
		*dbFlag = envDB
	}
	if envRPS := os.Getenv("BADAPI_REQUESTS_PER_SECOND"); envRPS != "" {
		rps, err := strconv.ParseFloat(envRPS, 64)
		if err != nil {
			return fmt.Errorf("invalid BADAPI_REQUESTS_PER_SECOND: %w", err)
		}
		*requestsPerSecondFlag = rps
	}

	if *settingsFlag == "" {
		return fmt.Errorf("--settings is required")
	}
	if *formatFlag != "json" && *formatFlag != "csv" {
		return fmt.Errorf("--format must be json or csv, got %q", *formatFlag)
	}

	settings, err := loadSettings(*settingsFlag)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	settingsID, err := settings.Hash()
	if err != nil {
		return fmt.Errorf("failed to hash settings: %w", err)
	}
	log.Info("snapshot: loaded settings", "settings", settingsID, "policies", len(settings.HolderPolicies), "pools", len(settings.StakePools))

	var db *store.Store
	var existing types.PayoutList
	if *dbFlag != "" {
		db, err = store.Open(*dbFlag)
		if err != nil {
			return err
		}
		defer db.Close()
		if *freshFlag {
			if err := db.Delete(settings); err != nil {
				return fmt.Errorf("failed to clear saved snapshot: %w", err)
			}
		} else {
			record, err := db.Get(settings)
			switch {
			case err == nil:
				log.Info("snapshot: reusing saved snapshot", "created_at", record.CreatedAt, "holders", len(record.Payouts))
				existing = record.Payouts
			case errors.Is(err, store.ErrNotFound):
			default:
				return err
			}
		}
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = *retriesFlag
	client := badapi.NewClient(*apiURLFlag, &http.Client{Timeout: *timeoutFlag},
		badapi.WithAPIKey(*apiKeyFlag),
		badapi.WithRateLimit(*requestsPerSecondFlag, 1),
		badapi.WithRetry(retryCfg),
		badapi.WithLogger(log),
	)

	if *metricsAddrFlag != "" {
		go func() {
			listener, err := net.Listen("tcp", *metricsAddrFlag)
			if err != nil {
				log.Error("failed to start prometheus metrics server listener", "error", err)
				return
			}
			log.Info("prometheus metrics server listening", "address", listener.Addr().String())
			http.Handle("/metrics", promhttp.Handler())
			if err := http.Serve(listener, nil); err != nil {
				log.Error("failed to start prometheus metrics server", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	payouts, err := calculation.RunSnapshot(ctx, client, settings, existing, newProgressLogger(log))
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SnapshotRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("snapshot failed: %w", err)
	}
	metrics.SnapshotRunsTotal.WithLabelValues("success").Inc()
	metrics.SnapshotPayoutHolders.Set(float64(len(payouts)))

	log.Info("snapshot: done", "holders", len(payouts), "total", payouts.Total(), "duration", time.Since(start).Round(time.Millisecond))

	if db != nil && existing == nil && len(payouts) > 0 {
		record, err := db.Put(settings, payouts, time.Now())
		if err != nil {
			return err
		}
		log.Info("snapshot: saved", "settings", record.SettingsID, "payouts", record.PayoutHash)
	}

	return writePayouts(*outFlag, *formatFlag, payouts)
}

func loadSettings(path string) (types.SnapshotSettings, error) {
	var settings types.SnapshotSettings
	b, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(b, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings %v: %w", path, err)
	}
	return settings, nil
}

type progressLogger struct {
	log     *slog.Logger
	message string
}

func newProgressLogger(log *slog.Logger) *progressLogger {
	return &progressLogger{log: log}
}

func (p *progressLogger) OnProgress(progress calculation.Progress) {
	if progress.Message != p.message {
		p.message = progress.Message
		p.log.Info("snapshot: " + progress.Message)
	}
	p.log.Debug("snapshot: progress",
		"pool", fmt.Sprintf("%d/%d", progress.Pool.Current, progress.Pool.Max),
		"policy", fmt.Sprintf("%d/%d", progress.Policy.Current, progress.Policy.Max),
		"token", fmt.Sprintf("%d/%d", progress.Token.Current, progress.Token.Max),
	)
}
