package models

import (
	"intraday-arb/internal/config"
	"intraday-arb/internal/data"
)

// DataSource says where the trades of a request come from.
type DataSource struct {
	Type    string             `json:"type" binding:"required,oneof=inline dataset"`
	Dataset string             `json:"dataset,omitempty"` // file name under the server data dir
	Trades  []data.TradeRecord `json:"trades,omitempty"`  // inline trades
}

// ScanRequest represents the request body for running a scan
type ScanRequest struct {
	DataSource DataSource          `json:"data_source" binding:"required"`
	Preset     string              `json:"preset,omitempty"` // preset id, applied before Config
	Config     config.ScanOverride `json:"config"`
	Options    ScanOptions         `json:"options,omitempty"`
}

// ScanOptions contains optional scan parameters
type ScanOptions struct {
	IncludeOpportunities bool `json:"include_opportunities,omitempty"` // default: false
}

// CompareScanRequest runs several parameter variations over the same trades
type CompareScanRequest struct {
	DataSource DataSource          `json:"data_source" binding:"required"`
	Preset     string              `json:"preset,omitempty"`
	BaseConfig config.ScanOverride `json:"base_config"`
	Variations []ScanVariation     `json:"variations" binding:"required,min=1,dive"`
}

// ScanVariation defines a variation to test
type ScanVariation struct {
	Name   string              `json:"name" binding:"required"`
	Config config.ScanOverride `json:"config"`
}

// StatsRequest ranks products by price dispersion
type StatsRequest struct {
	DataSource DataSource `json:"data_source" binding:"required"`
	Limit      int        `json:"limit,omitempty" default:"10" binding:"gte=0"`
}

// ProductQuery is the query string of GET /products
type ProductQuery struct {
	DeliveryEnd string  `form:"delivery_end" binding:"required"`
	Duration    float64 `form:"duration" default:"60"`
}
