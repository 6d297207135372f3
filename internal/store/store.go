package store

import (
	"context"
	"errors"

	"intraday-arb/internal/intraday"
)

// ErrNotFound is returned for unknown or expired result ids.
var ErrNotFound = errors.New("result not found")

// ResultStore keeps finished scans so their legs can be fetched later.
type ResultStore interface {
	Put(ctx context.Context, res *intraday.Result) error
	Get(ctx context.Context, id string) (*intraday.Result, error)
	Close() error
}
