package executor

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/types"
	"github.com/sentinel-quant/sentinel/internal/utils"
	"github.com/sentinel-quant/sentinel/pkg/errors"
)

const (
	// BinanceDecimalPrecision is a default quantity precision used as a fallback.
	// Production systems should use symbol-specific precision from Binance
	// exchange info (LOT_SIZE, PRICE_FILTER).
	BinanceDecimalPrecision = 3

	pricePrecision = 2
)

// Service interfaces for mocking the Binance futures API

// CreateOrderService interface for creating futures orders.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side futures.SideType) CreateOrderService
	Type(orderType futures.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	StopPrice(price string) CreateOrderService
	ClosePosition(close bool) CreateOrderService
	Do(ctx context.Context) (*futures.CreateOrderResponse, error)
}

// ChangeLeverageService interface for setting symbol leverage.
type ChangeLeverageService interface {
	Symbol(symbol string) ChangeLeverageService
	Leverage(leverage int) ChangeLeverageService
	Do(ctx context.Context) (*futures.SymbolLeverage, error)
}

// FuturesClient interface abstracts the Binance futures client for testing.
type FuturesClient interface {
	NewCreateOrderService() CreateOrderService
	NewChangeLeverageService() ChangeLeverageService
}

// realFuturesClient wraps the actual futures.Client.
type realFuturesClient struct {
	client *futures.Client
}

func (r *realFuturesClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realFuturesClient) NewChangeLeverageService() ChangeLeverageService {
	return &realChangeLeverageService{service: r.client.NewChangeLeverageService()}
}

type realCreateOrderService struct {
	service *futures.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side futures.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType futures.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) StopPrice(price string) CreateOrderService {
	s.service = s.service.StopPrice(price)

	return s
}

func (s *realCreateOrderService) ClosePosition(close bool) CreateOrderService {
	s.service = s.service.ClosePosition(close)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*futures.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realChangeLeverageService struct {
	service *futures.ChangeLeverageService
}

func (s *realChangeLeverageService) Symbol(symbol string) ChangeLeverageService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realChangeLeverageService) Leverage(leverage int) ChangeLeverageService {
	s.service = s.service.Leverage(leverage)

	return s
}

func (s *realChangeLeverageService) Do(ctx context.Context) (*futures.SymbolLeverage, error) {
	return s.service.Do(ctx)
}

// BinanceExecutor places bracket orders on Binance USD-M futures: a market
// entry plus close-position stop and take-profit orders at the signal levels.
type BinanceExecutor struct {
	client           FuturesClient
	logger           *logger.Logger
	leverage         int
	decimalPrecision int
}

// NewBinanceExecutor creates a live executor for the given credentials.
func NewBinanceExecutor(apiKey, secretKey string, leverage int, l *logger.Logger) (*BinanceExecutor, error) {
	if leverage <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "leverage must be positive, got %d", leverage)
	}

	return &BinanceExecutor{
		client:           &realFuturesClient{client: binance.NewFuturesClient(apiKey, secretKey)},
		logger:           l,
		leverage:         leverage,
		decimalPrecision: BinanceDecimalPrecision,
	}, nil
}

// newBinanceExecutorWithClient creates an executor with a custom client.
// This is used for testing with mock clients.
func newBinanceExecutorWithClient(client FuturesClient, leverage int, l *logger.Logger) *BinanceExecutor {
	return &BinanceExecutor{
		client:           client,
		logger:           l,
		leverage:         leverage,
		decimalPrecision: BinanceDecimalPrecision,
	}
}

// Execute sets leverage, opens the position with a market order, then
// attaches a stop-market order at the stop level and a take-profit-market
// order at the full target, both closing the whole position.
func (e *BinanceExecutor) Execute(ctx context.Context, sig types.Signal, notional float64) error {
	var entrySide, exitSide futures.SideType

	switch sig.Direction {
	case types.DirectionLong:
		entrySide, exitSide = futures.SideTypeBuy, futures.SideTypeSell
	case types.DirectionShort:
		entrySide, exitSide = futures.SideTypeSell, futures.SideTypeBuy
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported signal direction: %s", sig.Direction)
	}

	quantity := utils.RoundToDecimalPrecision(
		utils.OrderQuantity(notional, sig.Price, e.leverage), e.decimalPrecision)
	if quantity <= 0 {
		return errors.Newf(errors.ErrCodeInsufficientFunds,
			"notional %.2f at price %.2f yields no tradable quantity", notional, sig.Price)
	}

	if _, err := e.client.NewChangeLeverageService().
		Symbol(sig.Symbol).
		Leverage(e.leverage).
		Do(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeLeverageRejected, err,
			"failed to set %dx leverage for %s", e.leverage, sig.Symbol)
	}

	quantityStr := strconv.FormatFloat(quantity, 'f', e.decimalPrecision, 64)

	if _, err := e.client.NewCreateOrderService().
		Symbol(sig.Symbol).
		Side(entrySide).
		Type(futures.OrderTypeMarket).
		Quantity(quantityStr).
		Do(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeOrderFailed, err,
			"failed to place entry order for %s", sig.Symbol)
	}

	if _, err := e.client.NewCreateOrderService().
		Symbol(sig.Symbol).
		Side(exitSide).
		Type(futures.OrderTypeStopMarket).
		StopPrice(strconv.FormatFloat(sig.StopLoss, 'f', pricePrecision, 64)).
		ClosePosition(true).
		Do(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeOrderFailed, err,
			"failed to place stop order for %s", sig.Symbol)
	}

	if _, err := e.client.NewCreateOrderService().
		Symbol(sig.Symbol).
		Side(exitSide).
		Type(futures.OrderTypeTakeProfitMarket).
		StopPrice(strconv.FormatFloat(sig.TakeProfit2, 'f', pricePrecision, 64)).
		ClosePosition(true).
		Do(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeOrderFailed, err,
			"failed to place take-profit order for %s", sig.Symbol)
	}

	e.logger.Info("bracket order placed",
		zap.String("symbol", sig.Symbol),
		zap.String("direction", string(sig.Direction)),
		zap.Float64("quantity", quantity),
		zap.Int("leverage", e.leverage),
		zap.Float64("stop_loss", sig.StopLoss),
		zap.Float64("take_profit", sig.TakeProfit2))

	return nil
}
