package metrics

import "github.com/shopspring/decimal"

// money accumulates currency amounts without float drift.
type money struct {
	sum decimal.Decimal
	n   int // number of amounts added
}

func newMoney() *money {
	return &money{sum: decimal.Zero}
}

// add skips NaN and infinite amounts; decimal cannot represent them.
func (m *money) add(v float64) {
	if !isFinite(v) {
		return
	}
	m.sum = m.sum.Add(decimal.NewFromFloat(v))
	m.n++
}

// addPtr adds v when it is recorded.
func (m *money) addPtr(v *float64) {
	if v != nil {
		m.add(*v)
	}
}

func (m *money) float() float64 {
	return m.sum.InexactFloat64()
}

// mean returns sum / n, or 0 when nothing was added.
func (m *money) mean() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum.Div(decimal.NewFromInt(int64(m.n))).InexactFloat64()
}
