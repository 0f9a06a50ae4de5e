package kalshi

import (
	"context"
	"fmt"

	"github.com/tradewell/kalshi/internal/rest"
	"github.com/tradewell/kalshi/pkg/schema"
)

// ExchangeService exposes exchange-wide status endpoints.
type ExchangeService struct {
	rest *rest.Client
}

// GetStatus fetches the current exchange and trading status.
func (s *ExchangeService) GetStatus(ctx context.Context) (schema.ExchangeStatus, error) {
	var out schema.ExchangeStatus
	if err := s.rest.Get(ctx, "/exchange/status", nil, &out); err != nil {
		return schema.ExchangeStatus{}, fmt.Errorf("get exchange status: %w", err)
	}
	return out, nil
}

// IsTrading reports whether trading is currently open.
func (s *ExchangeService) IsTrading(ctx context.Context) (bool, error) {
	status, err := s.GetStatus(ctx)
	if err != nil {
		return false, err
	}
	return status.ExchangeActive && status.TradingActive, nil
}

// GetSchedule fetches the trading calendar.
func (s *ExchangeService) GetSchedule(ctx context.Context) (schema.Schedule, error) {
	var out struct {
		Schedule schema.Schedule `json:"schedule"`
	}
	if err := s.rest.Get(ctx, "/exchange/schedule", nil, &out); err != nil {
		return schema.Schedule{}, fmt.Errorf("get exchange schedule: %w", err)
	}
	return out.Schedule, nil
}

// GetAnnouncements fetches current exchange-wide notices.
func (s *ExchangeService) GetAnnouncements(ctx context.Context) ([]schema.Announcement, error) {
	var out struct {
		Announcements []schema.Announcement `json:"announcements"`
	}
	if err := s.rest.Get(ctx, "/exchange/announcements", nil, &out); err != nil {
		return nil, fmt.Errorf("get announcements: %w", err)
	}
	return out.Announcements, nil
}
