package intraday

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// FillTolerance is the residual volume (MW) below which a side counts as filled.
const FillTolerance = 0.001

var (
	ErrInvalidParams  = errors.New("invalid scan parameters")
	ErrMalformedTrade = errors.New("malformed trade")
)

// Params is one scan configuration.
// Units:
// - WindowLength: execution-time bucket size
// - VolumeTarget: MW to assemble on each side
// - MinSpread: EUR/MWh; zero or negative accepts every filled window
type Params struct {
	WindowLength time.Duration `json:"window_length"`
	VolumeTarget float64       `json:"volume_target"`
	MinSpread    float64       `json:"min_spread"`

	// Workers bounds concurrent window evaluation. 0 uses GOMAXPROCS.
	Workers int `json:"workers,omitempty"`

	// Session optionally restricts which windows are evaluated.
	Session Session `json:"session"`
}

func DefaultParams() Params {
	return Params{
		WindowLength: 5 * time.Minute,
		VolumeTarget: 5.0,
		MinSpread:    50,
	}
}

func (p Params) Validate() error {
	if p.WindowLength <= 0 {
		return fmt.Errorf("%w: window_length must be > 0", ErrInvalidParams)
	}
	if p.VolumeTarget <= 0 || math.IsInf(p.VolumeTarget, 0) || math.IsNaN(p.VolumeTarget) {
		return fmt.Errorf("%w: volume_target must be a positive finite number", ErrInvalidParams)
	}
	if math.IsNaN(p.MinSpread) {
		return fmt.Errorf("%w: min_spread must be a number", ErrInvalidParams)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidParams)
	}
	if _, err := p.Session.compile(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
