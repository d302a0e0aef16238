package core

import (
	"github.com/shopspring/decimal"
)

// Number of fractional digits that metrics are rounded to
// when they are serialized
const MetricPlaces = 5

// A Metric is a fixed point value that can also be not-a-number.
//
// A participant who never played a match has a NaN average score.
// NaN propagates through additions and divisions.
type Metric struct {
	value decimal.Decimal
	nan   bool
}

var (
	NaN  = Metric{nan: true}
	Zero = Metric{value: decimal.Zero}
)

func NewMetric(value decimal.Decimal) Metric {
	return Metric{value: value}
}

func MetricFromInt(value int) Metric {
	return Metric{value: decimal.NewFromInt(int64(value))}
}

func (m Metric) IsNaN() bool {
	return m.nan
}

// Returns the underlying decimal. It is zero for NaN.
func (m Metric) Decimal() decimal.Decimal {
	return m.value
}

func (m Metric) Add(other Metric) Metric {
	if m.nan || other.nan {
		return NaN
	}
	return Metric{value: m.value.Add(other.value)}
}

// Divides the metric by n which has to be greater than zero
func (m Metric) Div(n int) Metric {
	if m.nan {
		return NaN
	}
	return Metric{value: m.value.Div(decimal.NewFromInt(int64(n)))}
}

// Compares two metrics. NaN is less than every number
// and equal to itself.
func (m Metric) Cmp(other Metric) int {
	switch {
	case m.nan && other.nan:
		return 0
	case m.nan:
		return -1
	case other.nan:
		return 1
	}
	return m.value.Cmp(other.value)
}

func (m Metric) Equal(other Metric) bool {
	return m.Cmp(other) == 0
}

// Returns the metric rounded half away from zero
// to MetricPlaces fractional digits
func (m Metric) Rounded() decimal.Decimal {
	return m.value.Round(MetricPlaces)
}

func (m Metric) String() string {
	if m.nan {
		return "NaN"
	}
	return m.Rounded().StringFixed(MetricPlaces)
}

// Metrics are encoded as numbers with exactly MetricPlaces
// fractional digits. NaN has no JSON number and becomes null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if m.nan {
		return []byte("null"), nil
	}
	return []byte(m.Rounded().StringFixed(MetricPlaces)), nil
}
