package kalshi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/tradewell/kalshi/internal/rest"
	"github.com/tradewell/kalshi/pkg/schema"
)

// MarketsService exposes the public market-data endpoints.
type MarketsService struct {
	rest *rest.Client
}

// MarketFilter narrows a market listing.
type MarketFilter struct {
	EventTicker  string
	SeriesTicker string
	Status       string
	Tickers      []string
	Limit        int
	Cursor       string
}

func (f MarketFilter) query() url.Values {
	query := url.Values{}
	if f.EventTicker != "" {
		query.Set("event_ticker", f.EventTicker)
	}
	if f.SeriesTicker != "" {
		query.Set("series_ticker", f.SeriesTicker)
	}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if len(f.Tickers) > 0 {
		query.Set("tickers", strings.Join(f.Tickers, ","))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query.Set("limit", strconv.Itoa(limit))
	if f.Cursor != "" {
		query.Set("cursor", f.Cursor)
	}
	return query
}

type marketsPage struct {
	Cursor  string          `json:"cursor"`
	Markets []schema.Market `json:"markets"`
}

// GetMarkets returns one page of markets plus the cursor of the next page.
func (s *MarketsService) GetMarkets(ctx context.Context, filter MarketFilter) ([]schema.Market, string, error) {
	var page marketsPage
	if err := s.rest.Get(ctx, "/markets", filter.query(), &page); err != nil {
		return nil, "", fmt.Errorf("get markets: %w", err)
	}
	return page.Markets, page.Cursor, nil
}

// GetAllMarkets walks every page matching the filter.
func (s *MarketsService) GetAllMarkets(ctx context.Context, filter MarketFilter) ([]schema.Market, error) {
	return rest.Collect(ctx, func(ctx context.Context, cursor string) ([]schema.Market, string, error) {
		filter.Cursor = cursor
		return s.GetMarkets(ctx, filter)
	})
}

// GetMarket fetches a single market by ticker.
func (s *MarketsService) GetMarket(ctx context.Context, ticker string) (schema.Market, error) {
	var out struct {
		Market schema.Market `json:"market"`
	}
	if err := s.rest.Get(ctx, "/markets/"+url.PathEscape(ticker), nil, &out); err != nil {
		return schema.Market{}, fmt.Errorf("get market %s: %w", ticker, err)
	}
	return out.Market, nil
}

// GetOrderbook fetches the resting book for a market. Depth limits the
// number of levels per side; zero requests the venue default.
func (s *MarketsService) GetOrderbook(ctx context.Context, ticker string, depth int) (schema.Orderbook, error) {
	query := url.Values{}
	if depth > 0 {
		query.Set("depth", strconv.Itoa(depth))
	}
	var out struct {
		Orderbook schema.Orderbook `json:"orderbook"`
	}
	if err := s.rest.Get(ctx, "/markets/"+url.PathEscape(ticker)+"/orderbook", query, &out); err != nil {
		return schema.Orderbook{}, fmt.Errorf("get orderbook %s: %w", ticker, err)
	}
	return out.Orderbook, nil
}

// GetOrderbooks fetches books for several markets concurrently, preserving
// input order in the result.
func (s *MarketsService) GetOrderbooks(ctx context.Context, tickers []string, depth int) ([]schema.Orderbook, error) {
	books := make([]schema.Orderbook, len(tickers))
	p := pool.New().WithContext(ctx).WithCancelOnError()
	for i, ticker := range tickers {
		p.Go(func(ctx context.Context) error {
			book, err := s.GetOrderbook(ctx, ticker, depth)
			if err != nil {
				return err
			}
			books[i] = book
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return books, nil
}

type eventsPage struct {
	Cursor string         `json:"cursor"`
	Events []schema.Event `json:"events"`
}

// GetEvents returns one page of events.
func (s *MarketsService) GetEvents(ctx context.Context, seriesTicker, status, cursor string, limit int) ([]schema.Event, string, error) {
	query := url.Values{}
	if seriesTicker != "" {
		query.Set("series_ticker", seriesTicker)
	}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	var page eventsPage
	if err := s.rest.Get(ctx, "/events", query, &page); err != nil {
		return nil, "", fmt.Errorf("get events: %w", err)
	}
	return page.Events, page.Cursor, nil
}

// GetEvent fetches one event with its nested markets.
func (s *MarketsService) GetEvent(ctx context.Context, eventTicker string) (schema.Event, error) {
	query := url.Values{"with_nested_markets": []string{"true"}}
	var out struct {
		Event schema.Event `json:"event"`
	}
	if err := s.rest.Get(ctx, "/events/"+url.PathEscape(eventTicker), query, &out); err != nil {
		return schema.Event{}, fmt.Errorf("get event %s: %w", eventTicker, err)
	}
	return out.Event, nil
}

type tradesPage struct {
	Cursor string               `json:"cursor"`
	Trades []schema.PublicTrade `json:"trades"`
}

// GetTrades returns one page of the public trade tape, optionally filtered
// by market.
func (s *MarketsService) GetTrades(ctx context.Context, ticker, cursor string, limit int) ([]schema.PublicTrade, string, error) {
	query := url.Values{}
	if ticker != "" {
		query.Set("ticker", ticker)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	var page tradesPage
	if err := s.rest.Get(ctx, "/markets/trades", query, &page); err != nil {
		return nil, "", fmt.Errorf("get trades: %w", err)
	}
	return page.Trades, page.Cursor, nil
}
