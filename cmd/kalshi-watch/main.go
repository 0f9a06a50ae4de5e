// Command kalshi-watch streams live market data channels to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc"

	"github.com/tradewell/kalshi/config"
	"github.com/tradewell/kalshi/internal/observability"
	"github.com/tradewell/kalshi/lib/telemetry"
	"github.com/tradewell/kalshi/pkg/kalshi"
	"github.com/tradewell/kalshi/pkg/schema"
)

const (
	watchLoggerPrefix        = "kalshi-watch "
	telemetryShutdownTimeout = 5 * time.Second
)

type options struct {
	configPath    string
	environment   string
	channels      []string
	tickers       []string
	statsInterval time.Duration
	verbose       bool
}

func main() {
	opts := parseFlags()
	ctx, cancel := newSignalContext()
	defer cancel()

	logger := log.New(os.Stderr, watchLoggerPrefix, log.LstdFlags|log.Lmicroseconds)

	// Missing .env is fine, credentials may come from the real environment.
	_ = godotenv.Load()

	cfg, err := loadConfig(opts)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	level := observability.LevelInfo
	if opts.verbose {
		level = observability.LevelDebug
	}
	observability.SetLogger(observability.NewStdLogger(logger, level))

	_, shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatalf("initialize telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Printf("telemetry shutdown: %v", err)
		}
	}()

	client, err := kalshi.New(cfg)
	if err != nil {
		logger.Fatalf("initialize client: %v", err)
	}
	logger.Printf("environment=%s channels=%s tickers=%s",
		client.Environment(), strings.Join(opts.channels, ","), strings.Join(opts.tickers, ","))

	feed := client.Feed()
	for _, channel := range opts.channels {
		if len(opts.tickers) > 0 {
			feed.Subscribe(channel, kalshi.WithMarketTickers(opts.tickers...))
		} else {
			feed.Subscribe(channel)
		}
	}

	stream, err := feed.Stream(ctx)
	if err != nil {
		logger.Fatalf("open stream: %v", err)
	}

	var lifecycle conc.WaitGroup
	lifecycle.Go(func() {
		for msg := range stream {
			printMessage(msg)
		}
	})
	lifecycle.Go(func() {
		reportStats(ctx, logger, feed, opts.statsInterval)
	})
	lifecycle.Wait()
	logger.Printf("stream closed: messages=%d reconnects=%d", feed.MessagesReceived(), feed.ReconnectCount())
}

func parseFlags() options {
	configPath := flag.String("config", "", "path to YAML configuration file")
	environment := flag.String("env", "", "override environment: production or demo")
	channels := flag.String("channels", schema.ChannelTicker, "comma-separated channels to subscribe")
	tickers := flag.String("tickers", "", "comma-separated market tickers (empty subscribes venue-wide)")
	statsInterval := flag.Duration("stats", 30*time.Second, "interval between feed statistics reports (0 disables)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	return options{
		configPath:    *configPath,
		environment:   *environment,
		channels:      splitList(*channels),
		tickers:       splitList(*tickers),
		statsInterval: *statsInterval,
		verbose:       *verbose,
	}
}

func newSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if opts.environment != "" {
		cfg.Environment = config.Environment(opts.environment)
	}
	if keyID := os.Getenv("KALSHI_KEY_ID"); keyID != "" {
		cfg.Auth.KeyID = keyID
	}
	if keyPath := os.Getenv("KALSHI_PRIVATE_KEY_PATH"); keyPath != "" {
		cfg.Auth.PrivateKeyPath = keyPath
	}
	return cfg, cfg.Validate()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printMessage(msg *schema.Message) {
	payload, err := json.Marshal(msg.Payload())
	if err != nil {
		payload = msg.Raw
	}
	fmt.Printf("%s channel=%s sid=%d seq=%d %s\n",
		msg.ReceivedAt.Format(time.RFC3339Nano), msg.Channel, msg.SID, msg.Seq, payload)
}

func reportStats(ctx context.Context, logger *log.Logger, feed *kalshi.Feed, interval time.Duration) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			line := fmt.Sprintf("connected=%t messages=%d reconnects=%d",
				feed.IsConnected(), feed.MessagesReceived(), feed.ReconnectCount())
			if latency, ok := feed.LatencyMillis(); ok {
				line += fmt.Sprintf(" latency_ms=%d", latency)
			}
			if uptime, ok := feed.Uptime(); ok {
				line += fmt.Sprintf(" uptime=%s", uptime.Round(time.Second))
			}
			logger.Print(line)
		}
	}
}
