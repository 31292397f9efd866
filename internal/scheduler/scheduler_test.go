package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sentinel-quant/sentinel/internal/config"
	"github.com/sentinel-quant/sentinel/internal/engine"
	"github.com/sentinel-quant/sentinel/internal/ledger"
	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/tracker"
	"github.com/sentinel-quant/sentinel/internal/types"
	"github.com/sentinel-quant/sentinel/pkg/errors"
)

// stubProvider serves fixed current prices and fails everything else.
type stubProvider struct {
	prices map[string]float64
}

func (p *stubProvider) Candles(_ context.Context, symbol, _ string, _ int) (types.Series, error) {
	return nil, errors.Newf(errors.ErrCodeCandleDataMissing, "no candles for %s", symbol)
}

func (p *stubProvider) CurrentPrice(_ context.Context, symbol string) (float64, error) {
	price, ok := p.prices[symbol]
	if !ok {
		return 0, errors.Newf(errors.ErrCodePriceUnavailable, "no price for %s", symbol)
	}

	return price, nil
}

func (p *stubProvider) FundingRate(_ context.Context, symbol string) (*types.FundingData, error) {
	return nil, errors.Newf(errors.ErrCodeFundingUnavailable, "no funding for %s", symbol)
}

func (p *stubProvider) OpenInterestTrend(_ context.Context, symbol string) (*types.OpenInterestData, error) {
	return nil, errors.Newf(errors.ErrCodeOpenInterestMissing, "no open interest for %s", symbol)
}

func (p *stubProvider) ClearCache() {}

// recordingNotifier captures every delivered message.
type recordingNotifier struct {
	signals  []types.Signal
	exits    []tracker.ExitEvent
	statuses []string
}

func (n *recordingNotifier) SignalAlert(_ context.Context, sig types.Signal) error {
	n.signals = append(n.signals, sig)
	return nil
}

func (n *recordingNotifier) ExitAlert(_ context.Context, event tracker.ExitEvent) error {
	n.exits = append(n.exits, event)
	return nil
}

func (n *recordingNotifier) Status(_ context.Context, text string) error {
	n.statuses = append(n.statuses, text)
	return nil
}

// recordingExecutor captures executed signals, optionally failing.
type recordingExecutor struct {
	executed  []types.Signal
	notionals []float64
	err       error
}

func (e *recordingExecutor) Execute(_ context.Context, sig types.Signal, notional float64) error {
	if e.err != nil {
		return e.err
	}

	e.executed = append(e.executed, sig)
	e.notionals = append(e.notionals, notional)

	return nil
}

type SchedulerTestSuite struct {
	suite.Suite

	cfg       config.Config
	provider  *stubProvider
	notifier  *recordingNotifier
	executor  *recordingExecutor
	tracker   *tracker.ExitTracker
	ledger    *ledger.Ledger
	scheduler *Scheduler
	clock     time.Time
}

func (s *SchedulerTestSuite) SetupTest() {
	nop := logger.NewNopLogger()

	s.cfg = config.DefaultConfig()
	s.cfg.Symbols = []string{"BTCUSDT", "ETHUSDT"}
	s.cfg.MaxOpenPositions = 2

	s.provider = &stubProvider{prices: map[string]float64{}}
	s.notifier = &recordingNotifier{}
	s.executor = &recordingExecutor{}
	s.tracker = tracker.New(nop)

	var err error
	s.ledger, err = ledger.LoadOrNew(
		filepath.Join(s.T().TempDir(), "ledger.yaml"), ledger.DefaultStartingBalance, nop)
	s.Require().NoError(err)

	eng := engine.New(s.cfg.EngineConfig(), s.provider, nop)

	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.scheduler = New(s.cfg, eng, s.provider, s.tracker, s.ledger, s.notifier, s.executor, nop)
	s.scheduler.now = func() time.Time { return s.clock }
}

func testSignal(symbol string) types.Signal {
	return types.Signal{
		Symbol:          symbol,
		Direction:       types.DirectionLong,
		Score:           82,
		Price:           100.0,
		StopLoss:        97.0,
		TakeProfit1:     103.0,
		TakeProfit2:     106.0,
		PositionSizePct: 5.0,
		ExitAfter:       4 * time.Hour,
	}
}

func (s *SchedulerTestSuite) TestScanCycleWithoutDataProducesNothing() {
	s.scheduler.runScanCycle(context.Background())

	s.Empty(s.notifier.signals)
	s.Empty(s.executor.executed)
	s.Equal(0, s.tracker.OpenCount())
}

func (s *SchedulerTestSuite) TestExecutionAllowedGates() {
	allowed, _ := s.scheduler.executionAllowed(testSignal("BTCUSDT"))
	s.True(allowed)

	// One position per symbol.
	s.tracker.Track(testSignal("BTCUSDT"))
	allowed, reason := s.scheduler.executionAllowed(testSignal("BTCUSDT"))
	s.False(allowed)
	s.Equal("position already open", reason)

	// Open-position cap.
	s.tracker.Track(testSignal("ETHUSDT"))
	allowed, reason = s.scheduler.executionAllowed(testSignal("SOLUSDT"))
	s.False(allowed)
	s.Contains(reason, "max open positions")
}

func (s *SchedulerTestSuite) TestExecuteAppliesCooldown() {
	sig := testSignal("BTCUSDT")

	s.scheduler.execute(context.Background(), sig)
	s.Require().Len(s.executor.executed, 1)
	// 5% of the 46.00 starting balance.
	s.InDelta(2.3, s.executor.notionals[0], 1e-9)

	allowed, reason := s.scheduler.executionAllowed(sig)
	s.False(allowed)
	s.Contains(reason, "cooldown active")

	// The cooldown expires after the configured hour.
	s.clock = s.clock.Add(61 * time.Minute)
	allowed, _ = s.scheduler.executionAllowed(sig)
	s.True(allowed)
}

func (s *SchedulerTestSuite) TestExecuteFailureSkipsCooldown() {
	s.executor.err = errors.New(errors.ErrCodeOrderFailed, "rejected")

	s.scheduler.execute(context.Background(), testSignal("BTCUSDT"))

	allowed, _ := s.scheduler.executionAllowed(testSignal("BTCUSDT"))
	s.True(allowed)
}

func (s *SchedulerTestSuite) TestExitCheckRecordsTerminalExit() {
	s.tracker.Track(testSignal("BTCUSDT"))
	s.provider.prices["BTCUSDT"] = 96.0

	s.scheduler.runExitCheck(context.Background())

	s.Require().Len(s.notifier.exits, 1)
	s.Equal(types.ExitReasonStopLoss, s.notifier.exits[0].Reason)

	trades := s.ledger.Trades()
	s.Require().Len(trades, 1)
	s.InDelta(-4.0, trades[0].PnLPct, 1e-9)
	// 2.30 notional losing 4% costs 0.092.
	s.InDelta(45.908, s.ledger.Balance(), 1e-9)

	// The ledger update went out as a status message.
	s.Require().NotEmpty(s.notifier.statuses)
	s.Contains(s.notifier.statuses[len(s.notifier.statuses)-1], "Challenge update")
}

func (s *SchedulerTestSuite) TestExitCheckPartialIsNotRecorded() {
	s.tracker.Track(testSignal("BTCUSDT"))
	s.provider.prices["BTCUSDT"] = 103.5

	s.scheduler.runExitCheck(context.Background())

	s.Require().Len(s.notifier.exits, 1)
	s.Equal(types.ExitReasonTakeProfit1, s.notifier.exits[0].Reason)
	s.False(s.notifier.exits[0].Terminal)
	s.Empty(s.ledger.Trades())
	s.Equal(1, s.tracker.OpenCount())
}

func (s *SchedulerTestSuite) TestExitCheckSkipsWhenNoPositions() {
	s.scheduler.runExitCheck(context.Background())

	s.Empty(s.notifier.exits)
	s.Empty(s.notifier.statuses)
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}
