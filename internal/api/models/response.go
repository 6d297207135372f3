package models

import (
	"time"

	"intraday-arb/internal/analysis"
	"intraday-arb/internal/config"
	"intraday-arb/internal/intraday"
	"intraday-arb/internal/model"
)

// ScanResponse represents the response from a scan
type ScanResponse struct {
	ID            string              `json:"id"`
	Status        string              `json:"status"`
	Summary       ScanSummary         `json:"summary"`
	Opportunities []model.Opportunity `json:"opportunities,omitempty"`
}

// ScanSummary contains aggregated scan results
type ScanSummary struct {
	Params intraday.Params `json:"params"`
	intraday.Stats
	FirstWindow *time.Time `json:"first_window,omitempty"`
	LastWindow  *time.Time `json:"last_window,omitempty"`
}

// LegsResponse is the flattened leg table of a stored scan
type LegsResponse struct {
	ID    string            `json:"id"`
	Count int               `json:"count"`
	Legs  []intraday.LegRow `json:"legs"`
}

// CompareScanResponse represents the response from a comparison
type CompareScanResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation. Error is set instead
// of Summary when the variation's parameters are invalid.
type ComparisonResult struct {
	Name    string       `json:"name"`
	Summary *ScanSummary `json:"summary,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// StatsResponse represents the product ranking
type StatsResponse struct {
	Trades   int       `json:"trades"`
	Products []string  `json:"products"`
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked product
type Ranking struct {
	Rank int `json:"rank"`
	analysis.ProductStats
}

// ProductResponse is the result of a product code lookup
type ProductResponse struct {
	Product         string    `json:"product"`
	Kind            string    `json:"kind"`
	Index           int       `json:"index,omitempty"`
	DeliveryEnd     time.Time `json:"delivery_end"`
	DurationMinutes float64   `json:"duration_minutes"`
}

// PresetInfo represents a scan preset file
type PresetInfo struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	File        string            `json:"file"`
	Scan        config.ScanConfig `json:"scan"`
}

// ParameterInfo describes a scan parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "duration", "float", "int", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
