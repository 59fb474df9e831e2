package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)

		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")

		assert.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same-currency amounts", func(t *testing.T) {
		a := NewMoneyUSD(decimal.NewFromFloat(10.50))
		b := NewMoneyUSD(decimal.NewFromFloat(4.50))

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.Equal(t, "15.00", sum.StringFixed(2))
	})

	t.Run("fails across currencies", func(t *testing.T) {
		a := NewMoneyUSD(decimal.NewFromInt(10))
		b, _ := NewMoney(decimal.NewFromInt(10), EUR)

		_, err := a.Add(b)

		assert.Error(t, err)
	})
}

func TestMoney_CalculatePercentage(t *testing.T) {
	t.Run("computes percentage of amount", func(t *testing.T) {
		m := NewMoneyUSD(decimal.NewFromInt(1500))

		result := m.CalculatePercentage(decimal.NewFromInt(4))

		assert.Equal(t, "60.00", result.StringFixed(2))
	})

	t.Run("one percent of 1500 is 15", func(t *testing.T) {
		m := NewMoneyUSD(decimal.NewFromInt(1500))

		result := m.CalculatePercentage(decimal.NewFromInt(1))

		assert.Equal(t, "15.00", result.StringFixed(2))
	})

	t.Run("zero percent yields zero", func(t *testing.T) {
		m := NewMoneyUSD(decimal.NewFromInt(1500))

		result := m.CalculatePercentage(decimal.Zero)

		assert.True(t, result.IsZero())
	})
}

func TestMoney_RoundBank(t *testing.T) {
	t.Run("rounds half to even", func(t *testing.T) {
		assert.Equal(t, "1.12", NewMoneyUSD(decimal.NewFromFloat(1.125)).RoundBank(2).StringFixed(2))
		assert.Equal(t, "1.14", NewMoneyUSD(decimal.NewFromFloat(1.135)).RoundBank(2).StringFixed(2))
	})
}

func TestMoney_Scan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		err := m.Scan("42.50")

		require.NoError(t, err)
		assert.Equal(t, "42.50", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		err := m.Scan(nil)

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})
}
