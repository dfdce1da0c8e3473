package kis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisopenapi/internal/kis"
)

func TestEnvironmentBaseURL(t *testing.T) {
	assert.Equal(t, "https://openapi.koreainvestment.com:9443", kis.Real.BaseURL())
	assert.Equal(t, "https://openapivts.koreainvestment.com:29443", kis.Virtual.BaseURL())
}

func TestParseEnvironment(t *testing.T) {
	env, err := kis.ParseEnvironment("real")
	require.NoError(t, err)
	assert.Equal(t, kis.Real, env)

	env, err = kis.ParseEnvironment("virtual")
	require.NoError(t, err)
	assert.Equal(t, kis.Virtual, env)

	_, err = kis.ParseEnvironment("staging")
	require.Error(t, err)
}

func TestTrIDValues(t *testing.T) {
	assert.Equal(t, kis.TrID("FHKST01010400"), kis.TrIDDailyPrice)
	assert.Equal(t, kis.TrID("FHKST03010100"), kis.TrIDPeriodicPrice)
	assert.Equal(t, kis.TrID("FHPST01710000"), kis.TrIDVolumeRank)
}
