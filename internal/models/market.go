// Package models defines the normalized data shapes returned by provider adapters.
package models

import "time"

// ChartPoint is a single OHLCV observation in a price chart.
type ChartPoint struct {
	Datetime time.Time `json:"datetime"`
	Open     *float64  `json:"open"`
	High     *float64  `json:"high"`
	Low      *float64  `json:"low"`
	Close    *float64  `json:"close"`
	Volume   *int64    `json:"volume"`
}

// ChartSummary aggregates a chart series for quick inspection.
type ChartSummary struct {
	Count      int      `json:"count"`
	StartClose *float64 `json:"start_close"`
	EndClose   *float64 `json:"end_close"`
	PctChange  *float64 `json:"pct_change"`
}

// ChartSeries is the normalized price chart returned by the chart provider.
type ChartSeries struct {
	Symbol   string       `json:"symbol"`
	Range    string       `json:"range"`
	Interval string       `json:"interval"`
	Currency string       `json:"currency,omitempty"`
	Points   []ChartPoint `json:"points"`
	Summary  ChartSummary `json:"summary"`
}

// OptionContract is a single call or put in an options chain.
type OptionContract struct {
	ContractSymbol string  `json:"contract_symbol"`
	Strike         float64 `json:"strike"`
	LastPrice      float64 `json:"last_price"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Volume         int64   `json:"volume"`
	OpenInterest   int64   `json:"open_interest"`
	ImpliedVol     float64 `json:"implied_volatility"`
	InTheMoney     bool    `json:"in_the_money"`
}

// OptionsChain is the normalized options chain for one expiration.
type OptionsChain struct {
	Symbol      string           `json:"symbol"`
	Expiration  time.Time        `json:"expiration"`
	Expirations []time.Time      `json:"expirations,omitempty"`
	Calls       []OptionContract `json:"calls"`
	Puts        []OptionContract `json:"puts"`
}

// MacroObservation is a dated value in a macroeconomic series.
// Value is nil when the provider reports a missing observation.
type MacroObservation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// MacroSeries is a normalized macroeconomic series from FRED or ECOS.
type MacroSeries struct {
	SeriesID     string             `json:"series_id"`
	Title        string             `json:"title,omitempty"`
	Unit         string             `json:"unit,omitempty"`
	Observations []MacroObservation `json:"observations"`
	Error        string             `json:"error,omitempty"`
}

// Filing is a single regulatory filing record.
type Filing struct {
	CorpName   string `json:"corp_name"`
	CorpCode   string `json:"corp_code,omitempty"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	ReceiptNo  string `json:"receipt_no,omitempty"`
	FiledDate  string `json:"filed_date,omitempty"`
	Submitter  string `json:"submitter,omitempty"`
	ReportType string `json:"report_type,omitempty"`
}

// NewsItem is a normalized news article from any feed.
type NewsItem struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
}

// FeedSource is one entry from the configured feed list.
type FeedSource struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Category string `yaml:"category" json:"category,omitempty"`
}

// FinancialMetrics holds the health indicators derived from a financial statement.
type FinancialMetrics struct {
	ROE          *float64 `json:"roe,omitempty"`
	DebtRatio    *float64 `json:"debt_ratio,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	Revenue      *float64 `json:"revenue,omitempty"`
	NetIncome    *float64 `json:"net_income,omitempty"`
}

// FinancialHealth is the scored assessment for one company.
type FinancialHealth struct {
	Healthy  bool             `json:"healthy"`
	Score    int              `json:"score"`
	MaxScore int              `json:"max_score"`
	Reason   string           `json:"reason,omitempty"`
	Metrics  FinancialMetrics `json:"metrics"`
}

// IndustryPick is one analyzed company in an industry recommendation.
type IndustryPick struct {
	CorpName string          `json:"corp_name"`
	CorpCode string          `json:"corp_code"`
	Health   FinancialHealth `json:"health"`
	Error    string          `json:"error,omitempty"`
}

// IndustryReport ranks companies in an industry by financial health.
type IndustryReport struct {
	Industry        string         `json:"industry"`
	Year            int            `json:"year"`
	Recommendations []IndustryPick `json:"recommendations"`
	AllCompanies    []IndustryPick `json:"all_companies"`
}
