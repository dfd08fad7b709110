package configs

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadTariffDefaults(t *testing.T) {
	tr, err := LoadTariff()
	require.NoError(t, err)
	assert.True(t, tr.BaseFee.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 10.0, tr.FreeAllowance)
	assert.True(t, tr.UnitRate.Equal(decimal.NewFromInt(10)))
	assert.True(t, tr.LateFee.Equal(decimal.NewFromInt(20)))
	assert.True(t, tr.ReconnectionFee.Equal(decimal.NewFromInt(100)))
}

func TestLoadTariffFromEnv(t *testing.T) {
	t.Setenv("TARIFF_BASE_FEE", "150.50")
	t.Setenv("TARIFF_FREE_ALLOWANCE", "5")

	tr, err := LoadTariff()
	require.NoError(t, err)
	assert.Equal(t, "150.5", tr.BaseFee.String())
	assert.Equal(t, 5.0, tr.FreeAllowance)
}

func TestLoadTariffRejectsGarbage(t *testing.T) {
	t.Setenv("TARIFF_LATE_FEE", "twenty")
	_, err := LoadTariff()
	assert.Error(t, err)

	t.Setenv("TARIFF_LATE_FEE", "-1")
	_, err = LoadTariff()
	assert.Error(t, err)
}

func TestGetEnvFallback(t *testing.T) {
	assert.Equal(t, "fallback", GetEnv("WB_SURELY_UNSET_KEY", "fallback"))
	t.Setenv("WB_SURELY_UNSET_KEY", " set ")
	assert.Equal(t, "set", GetEnv("WB_SURELY_UNSET_KEY", "fallback"))
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, "https://a.example,https://b.example", CORSOrigins())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zap.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zap.InfoLevel, ParseLevel("nonsense"))
}
