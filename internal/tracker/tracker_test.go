package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/types"
)

type TrackerTestSuite struct {
	suite.Suite

	tracker *ExitTracker
	clock   time.Time
}

func (s *TrackerTestSuite) SetupTest() {
	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.tracker = New(logger.NewNopLogger())
	s.tracker.now = func() time.Time { return s.clock }
}

func (s *TrackerTestSuite) advance(d time.Duration) {
	s.clock = s.clock.Add(d)
}

func longSignal() types.Signal {
	return types.Signal{
		Symbol:          "BTCUSDT",
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

func shortSignal() types.Signal {
	return types.Signal{
		Symbol:          "ETHUSDT",
		Direction:       types.DirectionShort,
		Score:           91,
		Price:           200.0,
		StopLoss:        206.0,
		TakeProfit1:     194.0,
		TakeProfit2:     188.0,
		PositionSizePct: 10.0,
		ExitAfter:       4 * time.Hour,
	}
}

func fixedPrices(prices map[string]float64) PriceFunc {
	return func(symbol string) (float64, bool) {
		p, ok := prices[symbol]
		return p, ok
	}
}

func (s *TrackerTestSuite) TestTrackOpensPosition() {
	pos := s.tracker.Track(longSignal())

	s.NotEmpty(pos.ID)
	s.Equal("BTCUSDT", pos.Symbol)
	s.Equal(types.PositionStatusOpen, pos.Status)
	s.Equal(100.0, pos.EntryPrice)
	s.Equal(97.0, pos.StopLoss)
	s.Equal(s.clock, pos.OpenedAt)
	s.Equal(1, s.tracker.OpenCount())
	s.True(s.tracker.HasOpen("BTCUSDT"))
	s.False(s.tracker.HasOpen("ETHUSDT"))
}

func (s *TrackerTestSuite) TestRetrackForceClosesExisting() {
	first := s.tracker.Track(longSignal())
	second := s.tracker.Track(longSignal())

	s.NotEqual(first.ID, second.ID)
	s.Equal(1, s.tracker.OpenCount())

	history := s.tracker.History()
	s.Require().Len(history, 1)
	s.Equal(first.ID, history[0].ID)
	s.Equal(types.PositionStatusClosed, history[0].Status)
	s.Equal(types.ExitReasonManual, history[0].ExitReason)
	s.Equal(s.clock, history[0].ClosedAt)
}

func (s *TrackerTestSuite) TestStopLossLong() {
	s.tracker.Track(longSignal())

	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 96.5}))

	s.Require().Len(events, 1)
	ev := events[0]
	s.Equal(types.ExitReasonStopLoss, ev.Reason)
	s.True(ev.Terminal)
	s.Equal(96.5, ev.Price)
	s.InDelta(-3.5, ev.PnLPct, 1e-9)
	s.Equal(types.PositionStatusClosed, ev.Position.Status)
	s.Equal(0, s.tracker.OpenCount())
	s.Len(s.tracker.History(), 1)
}

func (s *TrackerTestSuite) TestStopLossShort() {
	s.tracker.Track(shortSignal())

	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"ETHUSDT": 206.0}))

	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonStopLoss, events[0].Reason)
	s.InDelta(-3.0, events[0].PnLPct, 1e-9)
}

func (s *TrackerTestSuite) TestPartialThenBreakevenThenFull() {
	s.tracker.Track(longSignal())

	// TP1 fires first and is non-terminal.
	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 103.2}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonTakeProfit1, events[0].Reason)
	s.False(events[0].Terminal)
	s.Equal(types.PositionStatusPartialTaken, events[0].Position.Status)
	s.Equal(100.0, events[0].Position.StopLoss)
	s.Equal(1, s.tracker.OpenCount())
	s.Empty(s.tracker.History())

	// A pullback to entry now triggers the breakeven stop.
	events = s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 100.0}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonStopLoss, events[0].Reason)
	s.True(events[0].Terminal)
	s.InDelta(0.0, events[0].PnLPct, 1e-9)
	s.Equal(0, s.tracker.OpenCount())
}

func (s *TrackerTestSuite) TestFullTakeProfitAfterPartial() {
	s.tracker.Track(longSignal())

	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 103.5}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonTakeProfit1, events[0].Reason)

	events = s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 106.4}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonTakeProfit2, events[0].Reason)
	s.True(events[0].Terminal)
	s.InDelta(6.4, events[0].PnLPct, 1e-9)
	s.Equal(0, s.tracker.OpenCount())
	s.Len(s.tracker.History(), 1)
}

func (s *TrackerTestSuite) TestPartialStopsCheckingSamePass() {
	// When TP2 is already exceeded on the same update that first crosses
	// TP1, only the partial fires; TP2 waits for the next pass.
	s.tracker.Track(longSignal())

	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 107.0}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonTakeProfit1, events[0].Reason)

	events = s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 107.0}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonTakeProfit2, events[0].Reason)
}

func (s *TrackerTestSuite) TestStopLossTakesPriorityOverTargets() {
	// A short whose stop and TP region are both satisfied by a bad quote
	// resolves as a stop.
	sig := shortSignal()
	sig.StopLoss = 194.0
	s.tracker.Track(sig)

	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"ETHUSDT": 194.0}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonStopLoss, events[0].Reason)
}

func (s *TrackerTestSuite) TestTimeExit() {
	s.tracker.Track(longSignal())

	s.advance(3 * time.Hour)
	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 101.0}))
	s.Empty(events)

	s.advance(time.Hour)
	events = s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 101.0}))
	s.Require().Len(events, 1)
	s.Equal(types.ExitReasonTimeExit, events[0].Reason)
	s.True(events[0].Terminal)
	s.InDelta(1.0, events[0].PnLPct, 1e-9)
}

func (s *TrackerTestSuite) TestMissingPriceSkipsSymbol() {
	s.tracker.Track(longSignal())
	s.tracker.Track(shortSignal())

	events := s.tracker.CheckExits(fixedPrices(map[string]float64{"ETHUSDT": 187.0}))

	s.Require().Len(events, 1)
	s.Equal("ETHUSDT", events[0].Position.Symbol)
	s.Equal(types.ExitReasonTakeProfit2, events[0].Reason)
	s.Equal(1, s.tracker.OpenCount())
	s.True(s.tracker.HasOpen("BTCUSDT"))
}

func (s *TrackerTestSuite) TestOpenPositionsExcludesClosed() {
	s.tracker.Track(longSignal())
	s.tracker.Track(shortSignal())

	s.tracker.CheckExits(fixedPrices(map[string]float64{"BTCUSDT": 90.0}))

	open := s.tracker.OpenPositions()
	s.Require().Len(open, 1)
	s.Equal("ETHUSDT", open[0].Symbol)
}

func TestTrackerTestSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}
