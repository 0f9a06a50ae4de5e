package schema

import "time"

// ExchangeStatus reports whether the exchange and trading are live.
type ExchangeStatus struct {
	ExchangeActive      bool       `json:"exchange_active"`
	TradingActive       bool       `json:"trading_active"`
	EstimatedResumeTime *time.Time `json:"exchange_estimated_resume_time,omitempty"`
}

// DailyHours is one day's trading window.
type DailyHours struct {
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// StandardHours is the regular weekly trading schedule.
type StandardHours struct {
	Monday    []DailyHours `json:"monday,omitempty"`
	Tuesday   []DailyHours `json:"tuesday,omitempty"`
	Wednesday []DailyHours `json:"wednesday,omitempty"`
	Thursday  []DailyHours `json:"thursday,omitempty"`
	Friday    []DailyHours `json:"friday,omitempty"`
	Saturday  []DailyHours `json:"saturday,omitempty"`
	Sunday    []DailyHours `json:"sunday,omitempty"`
}

// MaintenanceWindow is a scheduled trading pause.
type MaintenanceWindow struct {
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
}

// Schedule is the exchange trading calendar.
type Schedule struct {
	StandardHours      StandardHours       `json:"standard_hours"`
	MaintenanceWindows []MaintenanceWindow `json:"maintenance_windows,omitempty"`
}

// Announcement is one exchange-wide notice.
type Announcement struct {
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	DeliveryTime time.Time `json:"delivery_time"`
}

// APIKey describes one registered API key.
type APIKey struct {
	APIKeyID  string    `json:"api_key_id"`
	Name      string    `json:"name,omitempty"`
	CreatedTS time.Time `json:"created_ts"`
}

// GeneratedAPIKey is the one-time response of server-side key generation; the
// private key is returned exactly once.
type GeneratedAPIKey struct {
	APIKeyID   string `json:"api_key_id"`
	Name       string `json:"name,omitempty"`
	PrivateKey string `json:"private_key"`
}

// APILimits reports the per-key request budget.
type APILimits struct {
	Tier            string `json:"tier,omitempty"`
	ReadsPerSecond  int    `json:"reads_per_second"`
	WritesPerSecond int    `json:"writes_per_second"`
}
