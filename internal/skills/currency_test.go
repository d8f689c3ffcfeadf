package skills

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/themobileprof/omnibar/internal/mocks"
	"github.com/themobileprof/omnibar/internal/rates"
	"github.com/themobileprof/omnibar/pkg/models"
)

// freshService returns a currency skill backed by an already-warm rate
// cache, so matches resolve synchronously without any fetch.
func freshService(t *testing.T, rateMap map[string]float64, localizer *mocks.MockLocalizer) (*CurrencySkill, *mocks.MockRateProvider) {
	t.Helper()

	cache := &mocks.MockRateCache{}
	require.NoError(t, cache.Save(models.RateTable{
		Base:      "USD",
		Rates:     rateMap,
		FetchedAt: time.Now().UnixMilli(),
	}))

	provider := &mocks.MockRateProvider{Rates: rateMap}
	svc := rates.NewService(provider, cache, rates.DefaultTTL, "USD", zap.NewNop())
	return NewCurrencySkill(svc, localizer), provider
}

func TestCurrencySkill_ExplicitTarget(t *testing.T) {
	skill, provider := freshService(t, map[string]float64{"USD": 1, "EUR": 0.92}, &mocks.MockLocalizer{})

	m := skill.Match("100 usd to eur")
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Score)
	assert.Equal(t, "100 USD = 92.00 EUR", m.Preview)

	data, ok := m.Data.(CurrencyData)
	require.True(t, ok)
	assert.Equal(t, "USD", data.From)
	assert.Equal(t, "EUR", data.To)
	require.NotNil(t, data.Result)
	assert.InDelta(t, 92.0, *data.Result, 1e-9)

	// Cache was warm, so no network fetch happened
	assert.Equal(t, 0, provider.Fetches())
}

func TestCurrencySkill_SymbolsAndArithmetic(t *testing.T) {
	skill, _ := freshService(t, map[string]float64{"USD": 1, "EUR": 0.9, "JPY": 150}, &mocks.MockLocalizer{})

	m := skill.Match("(100+50) $ to €")
	require.NotNil(t, m)
	data := m.Data.(CurrencyData)
	assert.Equal(t, "USD", data.From)
	assert.Equal(t, "EUR", data.To)
	assert.InDelta(t, 150.0, data.Amount, 1e-9)

	m = skill.Match("convert 1000 ¥ in usd")
	require.NotNil(t, m)
	data = m.Data.(CurrencyData)
	assert.Equal(t, "JPY", data.From)
	assert.Equal(t, "USD", data.To)
}

func TestCurrencySkill_DefaultTarget(t *testing.T) {
	rateMap := map[string]float64{"USD": 1, "EUR": 0.9, "GBP": 0.8, "SEK": 10}

	tests := []struct {
		name     string
		locale   string
		timezone string
		want     string
	}{
		{"no signals", "", "", "USD"},
		{"timezone only", "", "SEK", "SEK"},
		{"locale only", "GBP", "", "GBP"},
		{"timezone beats generic USD locale", "USD", "EUR", "EUR"},
		{"non-USD locale beats timezone", "GBP", "EUR", "GBP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skill, _ := freshService(t, rateMap, &mocks.MockLocalizer{Locale: tt.locale, Timezone: tt.timezone})

			m := skill.Match("100 usd")
			require.NotNil(t, m)
			assert.Equal(t, tt.want, m.Data.(CurrencyData).To)
		})
	}
}

func TestCurrencySkill_PendingWhenCacheCold(t *testing.T) {
	provider := &mocks.MockRateProvider{Err: assert.AnError}
	svc := rates.NewService(provider, &mocks.MockRateCache{}, rates.DefaultTTL, "USD", zap.NewNop())
	skill := NewCurrencySkill(svc, &mocks.MockLocalizer{})

	m := skill.Match("100 usd to eur")
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Score, "confidence reflects pattern recognition, not data availability")
	assert.Equal(t, "Convert 100 USD to EUR...", m.Preview)
	assert.Nil(t, m.Data.(CurrencyData).Result)
}

func TestCurrencySkill_NoMatch(t *testing.T) {
	skill, _ := freshService(t, map[string]float64{"USD": 1, "EUR": 0.9}, &mocks.MockLocalizer{})

	for _, query := range []string{
		"",
		"2+2", // pure arithmetic, no currency token
		"hello world",
		"usd to eur",    // no amount
		"100 kr to usd", // only single-char symbols and 3-letter codes
	} {
		t.Run(query, func(t *testing.T) {
			assert.Nil(t, skill.Match(query))
		})
	}
}

func TestCurrencySkill_UnknownCodeMatchesButStaysPending(t *testing.T) {
	skill, _ := freshService(t, map[string]float64{"USD": 1, "EUR": 0.9}, &mocks.MockLocalizer{})

	// Unknown 3-letter codes still match the pattern shape; they fail at
	// conversion time, not at recognition time.
	m := skill.Match("100 zzz to eur")
	require.NotNil(t, m)
	assert.Nil(t, m.Data.(CurrencyData).Result)
}

func TestCurrencySkill_FreshCacheNeverFetches(t *testing.T) {
	skill, provider := freshService(t, map[string]float64{"USD": 1, "EUR": 0.9}, &mocks.MockLocalizer{})

	// Repeated matches against a fresh table stay off the network, even
	// for codes the table cannot convert.
	for i := 0; i < 3; i++ {
		require.NotNil(t, skill.Match("100 usd to eur"))
		require.NotNil(t, skill.Match("100 zzz to eur"))
	}

	// The pending branch warms the cache in the background; give it a
	// moment before counting.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, provider.Fetches(), "only staleness triggers a fetch")
}

func TestCurrencySkill_ExecutePrecomputed(t *testing.T) {
	skill, provider := freshService(t, map[string]float64{"USD": 1, "EUR": 0.92}, &mocks.MockLocalizer{})

	result := 92.0
	out, err := skill.Execute(context.Background(), CurrencyData{
		Amount: 100, From: "USD", To: "EUR", Result: &result,
	})
	require.NoError(t, err)
	assert.Equal(t, "92.00", out)
	assert.Equal(t, 0, provider.Fetches())
}

func TestCurrencySkill_ExecuteResolvesPending(t *testing.T) {
	provider := &mocks.MockRateProvider{Rates: map[string]float64{"USD": 1, "EUR": 0.92}}
	svc := rates.NewService(provider, &mocks.MockRateCache{}, rates.DefaultTTL, "USD", zap.NewNop())
	skill := NewCurrencySkill(svc, &mocks.MockLocalizer{})

	out, err := skill.Execute(context.Background(), CurrencyData{Amount: 100, From: "USD", To: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, "92.00", out)
	assert.Equal(t, 1, provider.Fetches())
}

func TestCurrencySkill_ExecuteErrors(t *testing.T) {
	t.Run("rates unavailable", func(t *testing.T) {
		provider := &mocks.MockRateProvider{Err: assert.AnError}
		svc := rates.NewService(provider, &mocks.MockRateCache{}, rates.DefaultTTL, "USD", zap.NewNop())
		skill := NewCurrencySkill(svc, &mocks.MockLocalizer{})

		_, err := skill.Execute(context.Background(), CurrencyData{Amount: 100, From: "USD", To: "EUR"})
		assert.ErrorIs(t, err, ErrRateUnavailable)
	})

	t.Run("unsupported currency", func(t *testing.T) {
		skill, _ := freshService(t, map[string]float64{"USD": 1, "EUR": 0.92}, &mocks.MockLocalizer{})

		_, err := skill.Execute(context.Background(), CurrencyData{Amount: 100, From: "USD", To: "ZZZ"})
		var unsupported UnsupportedCurrencyError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "ZZZ", unsupported.Code)
	})
}
