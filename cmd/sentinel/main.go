package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"

	"github.com/sentinel-quant/sentinel/internal/config"
	"github.com/sentinel-quant/sentinel/internal/engine"
	"github.com/sentinel-quant/sentinel/internal/executor"
	"github.com/sentinel-quant/sentinel/internal/ledger"
	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/market"
	"github.com/sentinel-quant/sentinel/internal/notifier"
	"github.com/sentinel-quant/sentinel/internal/scheduler"
	"github.com/sentinel-quant/sentinel/internal/tracker"
	"github.com/sentinel-quant/sentinel/internal/version"
)

// runAction wires every collaborator from the configuration and runs the
// scan and exit-check loops until interrupted.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if symbols := cmd.StringSlice("symbols"); len(symbols) > 0 {
		cfg.Symbols = symbols
	}

	if cmd.Bool("live") {
		cfg.Trading.Enabled = true
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("live mode rejected: %w", err)
		}
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	l, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync() //nolint:errcheck

	provider := market.NewBinanceProvider(
		cfg.Credentials.BinanceAPIKey, cfg.Credentials.BinanceSecretKey, l)

	eng := engine.New(cfg.EngineConfig(), provider, l)
	trk := tracker.New(l)

	led, err := ledger.LoadOrNew(cfg.Ledger.Path, cfg.Ledger.StartingBalance, l)
	if err != nil {
		return fmt.Errorf("failed to open equity ledger: %w", err)
	}

	var notif notifier.Notifier
	if cfg.Credentials.TelegramBotToken != "" && cfg.Credentials.TelegramChatID != "" {
		notif = notifier.NewTelegram(cfg.Credentials.TelegramBotToken, cfg.Credentials.TelegramChatID, l)
	} else {
		l.Info("telegram credentials absent, alerts go to the log only")
		notif = notifier.NewLogNotifier(l)
	}

	var exec executor.TradeExecutor
	if cfg.Trading.Enabled {
		exec, err = executor.NewBinanceExecutor(
			cfg.Credentials.BinanceAPIKey, cfg.Credentials.BinanceSecretKey, cfg.Trading.Leverage, l)
		if err != nil {
			return fmt.Errorf("failed to create executor: %w", err)
		}
	} else {
		exec = executor.NewPaperExecutor(l)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(cfg, eng, provider, trk, led, notif, exec, l)
	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	l.Info("scanner stopped")

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "sentinel",
		Usage:   "Multi-indicator futures signal scanner with exit tracking",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
			},
			&cli.StringSliceFlag{
				Name:    "symbols",
				Aliases: []string{"s"},
				Usage:   "Override the configured symbol list",
			},
			&cli.BoolFlag{
				Name:  "live",
				Usage: "Enable live order execution (requires Binance credentials)",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
