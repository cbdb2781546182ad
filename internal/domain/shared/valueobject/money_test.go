package valueobject

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("rounds to the cent on construction", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(10.005), USD)
		require.NoError(t, err)
		assert.Equal(t, "10.01", m.StringFixed())
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})

	t.Run("returns error for malformed currency", func(t *testing.T) {
		for _, code := range []Currency{"usd", "US", "USDX", "U$D"} {
			_, err := NewMoney(decimal.NewFromInt(1), code)
			assert.Error(t, err, string(code))
		}
	})

	t.Run("accepts well-formed but unrecognized currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(1), "XAU")
		require.NoError(t, err)
		assert.False(t, m.Currency().IsRecognized())
	})

	t.Run("rejects amounts beyond the magnitude bound", func(t *testing.T) {
		over := MaxMoneyMagnitude.Add(decimal.NewFromInt(1))
		_, err := NewMoney(over, USD)
		assert.Error(t, err)
		_, err = NewMoney(over.Neg(), USD)
		assert.Error(t, err)
	})
}

func TestNewMoneyFromFloat(t *testing.T) {
	t.Run("valid float", func(t *testing.T) {
		m, err := NewMoneyFromFloat(99.99, USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
	})

	t.Run("rejects NaN and infinities", func(t *testing.T) {
		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := NewMoneyFromFloat(f, USD)
			assert.Error(t, err)
		}
	})
}

func TestNewMoneyUSDFromFloat(t *testing.T) {
	t.Run("valid float", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(250000)
		assert.Equal(t, "250000.00", m.StringFixed())
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("panics on non-finite amounts", func(t *testing.T) {
		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			assert.Panics(t, func() { NewMoneyUSDFromFloat(f) })
		}
	})
}

func TestNewMoneyFromCents(t *testing.T) {
	m, err := NewMoneyFromCents(150050, USD)
	require.NoError(t, err)
	assert.Equal(t, "1500.50", m.StringFixed())
}

func TestParseMoney(t *testing.T) {
	t.Run("strips symbols and separators, defaults USD", func(t *testing.T) {
		m, err := ParseMoney("$1,500,000.50")
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(1500000.50)))
	})

	t.Run("trailing currency code", func(t *testing.T) {
		m, err := ParseMoney("2,500.00 CAD")
		require.NoError(t, err)
		assert.Equal(t, CAD, m.Currency())
		assert.Equal(t, "2500.00", m.StringFixed())
	})

	t.Run("leading currency code", func(t *testing.T) {
		m, err := ParseMoney("USD 42.10")
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.Equal(t, "42.10", m.StringFixed())
	})

	t.Run("negative amount", func(t *testing.T) {
		m, err := ParseMoney("-$250.75")
		require.NoError(t, err)
		assert.True(t, m.IsNegative())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, s := range []string{"", "abc", "$", "12x.00"} {
			_, err := ParseMoney(s)
			assert.Error(t, err, s)
		}
	})
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyUSDFromFloat(100.10)
	b := NewMoneyUSDFromFloat(0.65)

	t.Run("add then subtract returns the original", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		back, err := sum.Subtract(b)
		require.NoError(t, err)
		assert.True(t, back.Equals(a))
	})

	t.Run("currency mismatch fails", func(t *testing.T) {
		other, _ := NewMoneyFromFloat(1, CAD)
		_, err := a.Add(other)
		assert.Error(t, err)
		_, err = a.Subtract(other)
		assert.Error(t, err)
	})

	t.Run("results stay rounded to the cent", func(t *testing.T) {
		x := NewMoneyUSDFromFloat(0.1)
		sum := ZeroUSD()
		for range 10 {
			sum = sum.MustAdd(x)
		}
		assert.Equal(t, "1.00", sum.StringFixed())
	})
}

func TestMoney_MultiplyDivide(t *testing.T) {
	m := NewMoneyUSDFromFloat(33.33)

	t.Run("multiply rounds to the cent", func(t *testing.T) {
		result := m.Multiply(decimal.NewFromInt(3))
		assert.Equal(t, "99.99", result.StringFixed())
	})

	t.Run("multiply by float rejects NaN", func(t *testing.T) {
		_, err := m.MultiplyByFloat(math.NaN())
		assert.Error(t, err)
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		_, err := m.Divide(decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("divide rounds to the cent", func(t *testing.T) {
		result, err := NewMoneyUSDFromFloat(10).Divide(decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.Equal(t, "3.33", result.StringFixed())
	})

	t.Run("percentage", func(t *testing.T) {
		result := NewMoneyUSDFromFloat(200).Percentage(decimal.NewFromFloat(12.5))
		assert.Equal(t, "25.00", result.StringFixed())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(10)
	big := NewMoneyUSDFromFloat(20)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, small.Equals(NewMoneyUSDFromFloat(10)))

	other, _ := NewMoneyFromFloat(10, GBP)
	_, err = small.LessThan(other)
	assert.Error(t, err)
	assert.False(t, small.Equals(other))
}

func TestMoney_SignPredicates(t *testing.T) {
	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, NewMoneyUSDFromFloat(1).IsPositive())
	assert.True(t, NewMoneyUSDFromFloat(-1).IsNegative())
	assert.True(t, NewMoneyUSDFromFloat(-5).Abs().IsPositive())
	assert.True(t, NewMoneyUSDFromFloat(5).Negate().IsNegative())
}

func TestMoney_JSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(1234.56)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"1234.56","currency":"USD"}`, string(data))

		var back Money
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, back.Equals(m))
	})

	t.Run("unmarshal validates currency", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"10.00","currency":"usd"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoney_SQL(t *testing.T) {
	m := NewMoneyUSDFromFloat(99.95)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "99.95", v)

	var scanned Money
	require.NoError(t, scanned.Scan("99.95"))
	assert.Equal(t, DefaultCurrency, scanned.Currency())
	assert.True(t, scanned.Amount().Equal(m.Amount()))
}
