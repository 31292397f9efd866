package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/tracker"
	"github.com/sentinel-quant/sentinel/internal/types"
)

func sampleSignal() types.Signal {
	return types.Signal{
		Symbol:          "BTCUSDT",
		Direction:       types.DirectionLong,
		Score:           84,
		Strength:        types.StrengthStrong,
		Price:           50000.0,
		EntryLow:        49850.0,
		EntryHigh:       50050.0,
		StopLoss:        49250.0,
		TakeProfit1:     50750.0,
		TakeProfit2:     51500.0,
		RiskReward:      2.0,
		PositionSizePct: 5.0,
		Primary: []types.Opinion{
			{Name: "EMA Cross", Direction: types.DirectionLong, Confidence: 0.8, Rationale: "EMA 9 crossed above EMA 21"},
		},
		Extra: []types.Opinion{
			{Name: "Funding Rate", Direction: types.DirectionLong, Confidence: 0.4, Rationale: "funding slightly negative"},
		},
		ConfirmationAligned: true,
		ConfirmationDetails: "2/3 trend indicators agree on 4h",
		VolumeQuality:       "above average",
		MarketFilterNote:    "BTCUSDT 1h: +0.20% (normal)",
		Levels: &types.PivotLevels{
			Supports:     []types.PivotLevel{{Price: 48900.0, Touches: 3}, {Price: 47500.0, Touches: 2}},
			Resistances:  []types.PivotLevel{{Price: 51200.0, Touches: 2}, {Price: 52800.0, Touches: 4}},
			CurrentPrice: 50000.0,
		},
		ExitAfter: 4 * time.Hour,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type FormatTestSuite struct {
	suite.Suite
}

func (s *FormatTestSuite) TestFormatSignal() {
	msg := FormatSignal(sampleSignal())

	s.Contains(msg, "*BTCUSDT* LONG")
	s.Contains(msg, "*Score:* 84/100 Strong")
	s.Contains(msg, "*Price:* `50000.00`")
	s.Contains(msg, "*Entry zone:* `49850.00` - `50050.00`")
	s.Contains(msg, "*Stop loss:* `49250.00`")
	s.Contains(msg, "*TP2 (full):* `51500.00`")
	s.Contains(msg, "Risk/Reward:* 1:2.0")
	s.Contains(msg, "EMA Cross: EMA 9 crossed above EMA 21")
	s.Contains(msg, "Funding Rate: funding slightly negative")
	s.Contains(msg, "*Volume:* above average")
	// The nearest levels to price are reported, not the strongest.
	s.Contains(msg, "*Support:* `48900.00` (3x)")
	s.Contains(msg, "*Resistance:* `51200.00` (2x)")
	s.Contains(msg, "confirmed, 2/3 trend indicators agree on 4h")
	s.Contains(msg, "2026-03-01 12:00 UTC")
}

func (s *FormatTestSuite) TestFormatSignalSubDollarPrecision() {
	sig := sampleSignal()
	sig.Price = 0.1234567
	sig.StopLoss = 0.1197
	sig.Levels = nil

	msg := FormatSignal(sig)
	s.Contains(msg, "*Price:* `0.123457`")
	s.Contains(msg, "*Stop loss:* `0.119700`")
}

func (s *FormatTestSuite) TestFormatExitTerminal() {
	event := tracker.ExitEvent{
		Position: types.TrackedPosition{
			Symbol:          "ETHUSDT",
			Direction:       types.DirectionShort,
			EntryPrice:      200.0,
			PositionSizePct: 10.0,
		},
		Reason:   types.ExitReasonStopLoss,
		Price:    206.0,
		PnLPct:   -3.0,
		Terminal: true,
	}

	msg := FormatExit(event)
	s.Contains(msg, "STOP LOSS")
	s.Contains(msg, "*ETHUSDT* SHORT")
	s.Contains(msg, "`-3.00%`")
	s.NotContains(msg, "breakeven")
}

func (s *FormatTestSuite) TestFormatExitPartial() {
	event := tracker.ExitEvent{
		Position: types.TrackedPosition{
			Symbol:      "BTCUSDT",
			Direction:   types.DirectionLong,
			EntryPrice:  100.0,
			StopLoss:    100.0,
			TakeProfit2: 106.0,
		},
		Reason:   types.ExitReasonTakeProfit1,
		Price:    103.0,
		PnLPct:   3.0,
		Terminal: false,
	}

	msg := FormatExit(event)
	s.Contains(msg, "TAKE PROFIT 1 (partial)")
	s.Contains(msg, "Stop moved to breakeven")
	s.Contains(msg, "Waiting for TP2: `106.0000`")
}

func TestFormatTestSuite(t *testing.T) {
	suite.Run(t, new(FormatTestSuite))
}

type TelegramTestSuite struct {
	suite.Suite

	requests []map[string]string
	paths    []string
	status   int
	server   *httptest.Server
	telegram *Telegram
}

func (s *TelegramTestSuite) SetupTest() {
	s.requests = nil
	s.paths = nil
	s.status = http.StatusOK

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		s.Require().NoError(err)

		var payload map[string]string
		s.Require().NoError(json.Unmarshal(body, &payload))

		s.requests = append(s.requests, payload)
		s.paths = append(s.paths, r.URL.Path)
		w.WriteHeader(s.status)
	}))

	s.telegram = NewTelegram("test-token", "12345", logger.NewNopLogger())
	s.telegram.baseURL = s.server.URL
}

func (s *TelegramTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *TelegramTestSuite) TestSignalAlertPostsMarkdown() {
	err := s.telegram.SignalAlert(context.Background(), sampleSignal())
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal("/bottest-token/sendMessage", s.paths[0])
	s.Equal("12345", s.requests[0]["chat_id"])
	s.Equal("Markdown", s.requests[0]["parse_mode"])
	s.Contains(s.requests[0]["text"], "*BTCUSDT* LONG")
}

func (s *TelegramTestSuite) TestStatusPostsVerbatim() {
	err := s.telegram.Status(context.Background(), "Challenge status")
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal("Challenge status", s.requests[0]["text"])
}

func (s *TelegramTestSuite) TestNonOKStatusIsError() {
	s.status = http.StatusBadRequest

	err := s.telegram.Status(context.Background(), "oops")
	s.Error(err)
}

func TestTelegramTestSuite(t *testing.T) {
	suite.Run(t, new(TelegramTestSuite))
}
