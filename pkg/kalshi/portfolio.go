package kalshi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/tradewell/kalshi/errs"
	"github.com/tradewell/kalshi/internal/rest"
	"github.com/tradewell/kalshi/pkg/schema"
)

// PortfolioService exposes the authenticated account endpoints.
type PortfolioService struct {
	rest *rest.Client
}

// GetBalance fetches the account balance and portfolio value, in cents.
func (s *PortfolioService) GetBalance(ctx context.Context) (schema.Balance, error) {
	var out schema.Balance
	if err := s.rest.Get(ctx, "/portfolio/balance", nil, &out); err != nil {
		return schema.Balance{}, fmt.Errorf("get balance: %w", err)
	}
	return out, nil
}

// PositionFilter narrows a positions listing.
type PositionFilter struct {
	Ticker      string
	EventTicker string
	CountFilter string
	Limit       int
	Cursor      string
}

func (f PositionFilter) query() url.Values {
	query := url.Values{}
	if f.Ticker != "" {
		query.Set("ticker", f.Ticker)
	}
	if f.EventTicker != "" {
		query.Set("event_ticker", f.EventTicker)
	}
	if f.CountFilter != "" {
		query.Set("count_filter", f.CountFilter)
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

type positionsPage struct {
	Cursor          string            `json:"cursor"`
	MarketPositions []schema.Position `json:"market_positions"`
}

// GetPositions returns one page of market positions.
func (s *PortfolioService) GetPositions(ctx context.Context, filter PositionFilter) ([]schema.Position, string, error) {
	var page positionsPage
	if err := s.rest.Get(ctx, "/portfolio/positions", filter.query(), &page); err != nil {
		return nil, "", fmt.Errorf("get positions: %w", err)
	}
	return page.MarketPositions, page.Cursor, nil
}

// GetAllPositions walks every positions page matching the filter.
func (s *PortfolioService) GetAllPositions(ctx context.Context, filter PositionFilter) ([]schema.Position, error) {
	return rest.Collect(ctx, func(ctx context.Context, cursor string) ([]schema.Position, string, error) {
		filter.Cursor = cursor
		return s.GetPositions(ctx, filter)
	})
}

// PlaceOrder submits an order. A missing client order id is filled with a
// fresh UUID so resubmissions are distinguishable venue-side.
func (s *PortfolioService) PlaceOrder(ctx context.Context, req schema.OrderRequest) (schema.Order, error) {
	if req.Ticker == "" {
		return schema.Order{}, errs.New(errs.CodeInvalid, errs.WithMessage("order ticker required"))
	}
	if req.Count <= 0 {
		return schema.Order{}, errs.New(errs.CodeInvalid, errs.WithMessage("order count must be positive"))
	}
	if req.ClientOrderID == "" {
		req.ClientOrderID = uuid.NewString()
	}
	if req.Type == "" {
		req.Type = schema.OrderTypeLimit
	}
	var out struct {
		Order schema.Order `json:"order"`
	}
	if err := s.rest.Post(ctx, "/portfolio/orders", req, &out); err != nil {
		return schema.Order{}, fmt.Errorf("place order: %w", err)
	}
	return out.Order, nil
}

// GetOrder fetches a single order by id.
func (s *PortfolioService) GetOrder(ctx context.Context, orderID string) (schema.Order, error) {
	var out struct {
		Order schema.Order `json:"order"`
	}
	if err := s.rest.Get(ctx, "/portfolio/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return schema.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return out.Order, nil
}

type ordersPage struct {
	Cursor string         `json:"cursor"`
	Orders []schema.Order `json:"orders"`
}

// GetOrders returns one page of orders, optionally filtered by status.
func (s *PortfolioService) GetOrders(ctx context.Context, status, cursor string, limit int) ([]schema.Order, string, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	var page ordersPage
	if err := s.rest.Get(ctx, "/portfolio/orders", query, &page); err != nil {
		return nil, "", fmt.Errorf("get orders: %w", err)
	}
	return page.Orders, page.Cursor, nil
}

// CancelOrder cancels a resting order and returns its final state.
func (s *PortfolioService) CancelOrder(ctx context.Context, orderID string) (schema.Order, error) {
	var out struct {
		Order schema.Order `json:"order"`
	}
	if err := s.rest.Delete(ctx, "/portfolio/orders/"+url.PathEscape(orderID), &out); err != nil {
		return schema.Order{}, fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return out.Order, nil
}

type fillsPage struct {
	Cursor string                 `json:"cursor"`
	Fills  []schema.PortfolioFill `json:"fills"`
}

// GetFills returns one page of the caller's executions, optionally filtered
// by market or order.
func (s *PortfolioService) GetFills(ctx context.Context, ticker, orderID, cursor string, limit int) ([]schema.PortfolioFill, string, error) {
	query := url.Values{}
	if ticker != "" {
		query.Set("ticker", ticker)
	}
	if orderID != "" {
		query.Set("order_id", orderID)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	var page fillsPage
	if err := s.rest.Get(ctx, "/portfolio/fills", query, &page); err != nil {
		return nil, "", fmt.Errorf("get fills: %w", err)
	}
	return page.Fills, page.Cursor, nil
}
