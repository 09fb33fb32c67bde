package ecg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "psykit/internal/errors"
)

func TestHRVTimeDomain(t *testing.T) {
	rri := []float64{800, 860, 790, 820}

	features, err := HRVTimeDomain(rri)
	require.NoError(t, err)

	assert.InDelta(t, 817.5, features.MeanNN, 1e-9)
	assert.InDelta(t, 30.9570, features.SDNN, 1e-3)
	assert.InDelta(t, 55.9762, features.RMSSD, 1e-3)
	assert.InDelta(t, 68.0686, features.SDSD, 1e-3)
	assert.InDelta(t, 0.037868, features.CVNN, 1e-5)
	// successive differences are 60, -70, 30
	assert.InDelta(t, 66.6667, features.PNN50, 1e-3)
	assert.InDelta(t, 100.0, features.PNN20, 1e-9)

	assert.InDelta(t, 73.4719, features.MeanHR, 1e-3)
	assert.InDelta(t, 2.7256, features.StdHR, 1e-3)
	assert.InDelta(t, 69.7674, features.MinHR, 1e-3)
	assert.InDelta(t, 75.9494, features.MaxHR, 1e-3)
}

func TestHRVTimeDomain_InsufficientData(t *testing.T) {
	_, err := HRVTimeDomain([]float64{800})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)
}

func TestTimeDomainFeatures_Map(t *testing.T) {
	features, err := HRVTimeDomain([]float64{800, 820, 790})
	require.NoError(t, err)

	m := features.Map()
	assert.Len(t, m, 11)
	assert.Equal(t, features.RMSSD, m["hrv_rmssd"])
	assert.Equal(t, features.MeanHR, m["hr_mean"])
}
