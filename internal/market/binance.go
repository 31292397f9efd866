package market

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/types"
	"github.com/sentinel-quant/sentinel/pkg/errors"
)

const oiHistoryPeriod = "5m"
const oiHistoryLimit = 30

// BinanceProvider reads USDT-M futures market data from Binance. Reads are
// cached in memory until ClearCache, so repeated lookups within one scan
// cycle cost a single request.
type BinanceProvider struct {
	client *futures.Client
	logger *logger.Logger

	mu    sync.RWMutex
	cache map[string]any
}

var _ DataProvider = (*BinanceProvider)(nil)

// NewBinanceProvider builds a provider on the Binance USDT-M futures API.
// Credentials may be empty for the public market-data endpoints.
func NewBinanceProvider(apiKey, secretKey string, l *logger.Logger) *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewFuturesClient(apiKey, secretKey),
		logger: l,
		cache:  make(map[string]any),
	}
}

// ClearCache drops all cached market data. Call at the start of a scan cycle.
func (p *BinanceProvider) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[string]any)
}

func (p *BinanceProvider) cached(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.cache[key]
	return v, ok
}

func (p *BinanceProvider) store(key string, v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[key] = v
}

// Candles fetches klines and converts them into a Series.
func (p *BinanceProvider) Candles(ctx context.Context, symbol, interval string, limit int) (types.Series, error) {
	key := fmt.Sprintf("%s_%s", symbol, interval)
	if v, ok := p.cached(key); ok {
		return v.(types.Series), nil
	}

	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCandleDataMissing, err,
			"failed to fetch %s %s klines", symbol, interval)
	}
	if len(klines) == 0 {
		return nil, errors.Newf(errors.ErrCodeCandleDataMissing,
			"no klines returned for %s %s", symbol, interval)
	}

	series := make(types.Series, 0, len(klines))
	for _, k := range klines {
		candle, err := parseKline(k)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeCandleDataMalformed, err,
				"malformed kline for %s %s", symbol, interval)
		}
		series = append(series, candle)
	}

	p.store(key, series)
	p.logger.Debug("fetched candles",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("count", len(series)))

	return series, nil
}

func parseKline(k *futures.Kline) (types.Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.Candle{}, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.Candle{}, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.Candle{}, err
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.Candle{}, err
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.Candle{}, err
	}

	return types.Candle{
		OpenTime: time.UnixMilli(k.OpenTime).UTC(),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closePrice,
		Volume:   volume,
	}, nil
}

// CurrentPrice returns the latest traded price for the symbol.
func (p *BinanceProvider) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := p.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodePriceUnavailable, err,
			"failed to fetch price for %s", symbol)
	}
	for _, pr := range prices {
		if pr.Symbol != symbol {
			continue
		}
		price, err := strconv.ParseFloat(pr.Price, 64)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrCodePriceUnavailable, err,
				"malformed price for %s", symbol)
		}
		return price, nil
	}

	return 0, errors.Newf(errors.ErrCodePriceUnavailable, "symbol %s not in price list", symbol)
}

// FundingRate returns the current funding snapshot from the premium index.
func (p *BinanceProvider) FundingRate(ctx context.Context, symbol string) (*types.FundingData, error) {
	key := symbol + "_funding"
	if v, ok := p.cached(key); ok {
		return v.(*types.FundingData), nil
	}

	res, err := p.client.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFundingUnavailable, err,
			"failed to fetch premium index for %s", symbol)
	}

	// The API returns a slice even when a symbol is given.
	for _, r := range res {
		if r.Symbol != symbol {
			continue
		}
		rate, err := strconv.ParseFloat(r.LastFundingRate, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFundingUnavailable, err,
				"malformed funding rate for %s", symbol)
		}
		mark, _ := strconv.ParseFloat(r.MarkPrice, 64)
		index, _ := strconv.ParseFloat(r.IndexPrice, 64)

		data := &types.FundingData{
			Rate:            rate,
			MarkPrice:       mark,
			IndexPrice:      index,
			NextFundingTime: time.UnixMilli(r.NextFundingTime).UTC(),
		}
		p.store(key, data)

		return data, nil
	}

	return nil, errors.Newf(errors.ErrCodeFundingUnavailable, "no premium index for %s", symbol)
}

// OpenInterestTrend fetches the latest open interest and its recent history
// in parallel.
func (p *BinanceProvider) OpenInterestTrend(ctx context.Context, symbol string) (*types.OpenInterestData, error) {
	key := symbol + "_oi"
	if v, ok := p.cached(key); ok {
		return v.(*types.OpenInterestData), nil
	}

	data := &types.OpenInterestData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := p.client.NewGetOpenInterestService().Symbol(symbol).Do(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch open interest: %w", err)
		}
		latest, err := strconv.ParseFloat(res.OpenInterest, 64)
		if err != nil {
			return fmt.Errorf("malformed open interest: %w", err)
		}
		data.Latest = latest
		return nil
	})

	g.Go(func() error {
		hist, err := p.client.NewOpenInterestStatisticsService().
			Symbol(symbol).
			Period(oiHistoryPeriod).
			Limit(oiHistoryLimit).
			Do(gctx)
		if err != nil {
			// History is optional on thin contracts; the evaluator
			// degrades to Neutral without it.
			p.logger.Debug("open interest history unavailable",
				zap.String("symbol", symbol), zap.Error(err))
			return nil
		}
		values := make([]float64, 0, len(hist))
		for _, h := range hist {
			oi, err := strconv.ParseFloat(h.SumOpenInterest, 64)
			if err != nil {
				continue
			}
			values = append(values, oi)
		}
		data.History = values
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeOpenInterestMissing, err,
			"open interest fetch failed for %s", symbol)
	}

	p.store(key, data)

	return data, nil
}
