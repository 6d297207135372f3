package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProductKind is the contract family of a delivery period.
type ProductKind int

const (
	ProductUnknown ProductKind = iota
	ProductPowerHour
	ProductHalfHour
	ProductQuarterHour
)

// Prefix returns the label prefix used in product codes ("PH", "HH", "QH").
func (k ProductKind) Prefix() string {
	switch k {
	case ProductPowerHour:
		return "PH"
	case ProductHalfHour:
		return "HH"
	case ProductQuarterHour:
		return "QH"
	default:
		return ""
	}
}

func (k ProductKind) String() string {
	switch k {
	case ProductPowerHour:
		return "power_hour"
	case ProductHalfHour:
		return "half_hour"
	case ProductQuarterHour:
		return "quarter_hour"
	default:
		return "unknown"
	}
}

// DurationMinutes is the delivery length of the family, 0 for unknown.
func (k ProductKind) DurationMinutes() float64 {
	switch k {
	case ProductPowerHour:
		return 60
	case ProductHalfHour:
		return 30
	case ProductQuarterHour:
		return 15
	default:
		return 0
	}
}

// ProductCode is a standardized delivery contract label such as PH-14,
// HH-28 or QH-56. Index is derived from the delivery end and is ignored
// for ProductUnknown.
//
// The zero value is the Unknown product.
type ProductCode struct {
	Kind  ProductKind
	Index int
}

// UnknownProduct is the label for deliveries that are not 60, 30 or 15 minutes.
var UnknownProduct = ProductCode{Kind: ProductUnknown}

// ProductCodeFor maps a delivery end and a delivery duration to its contract label.
// It is total: every input yields a code, Unknown for unsupported durations.
//
//	60 min -> PH-{hour}
//	30 min -> HH-{hour*2 + 1 if minute==30}
//	15 min -> QH-{hour*4 + minute/15}
func ProductCodeFor(deliveryEnd time.Time, durationMinutes float64) ProductCode {
	hour := deliveryEnd.Hour()
	minute := deliveryEnd.Minute()

	switch durationMinutes {
	case 60:
		return ProductCode{Kind: ProductPowerHour, Index: hour}
	case 30:
		n := hour * 2
		if minute == 30 {
			n++
		}
		return ProductCode{Kind: ProductHalfHour, Index: n}
	case 15:
		return ProductCode{Kind: ProductQuarterHour, Index: hour*4 + minute/15}
	default:
		return UnknownProduct
	}
}

func (p ProductCode) IsUnknown() bool { return p.Kind == ProductUnknown }

func (p ProductCode) String() string {
	if p.Kind == ProductUnknown {
		return "Unknown"
	}
	return fmt.Sprintf("%s-%02d", p.Kind.Prefix(), p.Index)
}

// ParseProductCode is the inverse of ProductCode.String.
func ParseProductCode(s string) (ProductCode, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") {
		return UnknownProduct, nil
	}
	prefix, num, ok := strings.Cut(s, "-")
	if !ok {
		return ProductCode{}, fmt.Errorf("invalid product code %q", s)
	}
	var kind ProductKind
	switch strings.ToUpper(prefix) {
	case "PH":
		kind = ProductPowerHour
	case "HH":
		kind = ProductHalfHour
	case "QH":
		kind = ProductQuarterHour
	default:
		return ProductCode{}, fmt.Errorf("invalid product code %q: unknown prefix %q", s, prefix)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return ProductCode{}, fmt.Errorf("invalid product code %q: bad index", s)
	}
	return ProductCode{Kind: kind, Index: n}, nil
}

func (p ProductCode) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ProductCode) UnmarshalText(b []byte) error {
	parsed, err := ParseProductCode(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
