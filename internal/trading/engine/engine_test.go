package engine

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCutoffOn(t *testing.T) {
	loc := time.FixedZone("ET", -5*3600)
	now := time.Date(2025, 3, 10, 9, 31, 12, 0, loc)

	cutoff, err := DefaultLiveConfig().CutoffOn(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 18, 0, 0, 0, loc), cutoff)

	cutoff, err = LiveConfig{Cutoff: "07:05", PollInterval: time.Minute}.CutoffOn(now)
	require.NoError(t, err)
	assert.True(t, cutoff.Before(now))

	_, err = LiveConfig{Cutoff: "25:00"}.CutoffOn(now)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = LiveConfig{Cutoff: "noon"}.CutoffOn(now)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestLiveConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultLiveConfig().Validate())
	assert.Error(t, LiveConfig{Cutoff: "18:00"}.Validate())
	assert.Error(t, LiveConfig{Cutoff: "6pm", PollInterval: time.Minute}.Validate())
}
