package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	s := NewSettings(NewMemSettings())
	assert.Equal(t, DefaultThresholds, s.Thresholds(context.Background()))
}

func TestSettingsSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(NewMemSettings())

	require.NoError(t, s.Set(ctx, ThresholdAtRisk, 1.5))
	assert.Equal(t, 1.5, s.Get(ctx, ThresholdAtRisk))
	assert.Equal(t, 3.0, s.Get(ctx, ThresholdAverage))

	err := s.Set(ctx, ThresholdTop, 5.5)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 3.5, s.Get(ctx, ThresholdTop))

	err = s.Set(ctx, "honours", 4)
	assert.ErrorIs(t, err, ErrUnknownThreshold)
	assert.Zero(t, s.Get(ctx, "honours"))
}

func TestSettingsSaveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(NewMemSettings())

	err := s.Save(ctx, Thresholds{AtRisk: 1.0, Average: 2.0, Top: -1})
	assert.True(t, IsValidation(err))
	assert.Equal(t, DefaultThresholds, s.Thresholds(ctx))

	want := Thresholds{AtRisk: 1.8, Average: 2.8, Top: 3.8}
	require.NoError(t, s.Save(ctx, want))
	assert.Equal(t, want, s.Thresholds(ctx))
}

func TestSettingsStoreFailureFallsBack(t *testing.T) {
	store := NewMemSettings()
	store.FailWith = errors.New("connection refused")
	s := NewSettings(store)

	assert.Equal(t, DefaultThresholds, s.Thresholds(context.Background()))
	assert.True(t, IsStorage(s.Set(context.Background(), ThresholdTop, 3.9)))
}

func TestThresholdsGetSet(t *testing.T) {
	var th Thresholds
	for i, name := range ThresholdNames {
		require.NoError(t, th.Set(name, float64(i)))
		v, err := th.Get(name)
		require.NoError(t, err)
		assert.Equal(t, float64(i), v)
	}
	_, err := th.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownThreshold)
}

// recordingSettings counts writes reaching the store.
type recordingSettings struct {
	*MemSettings
	single, batch int
}

func (r *recordingSettings) SetThreshold(ctx context.Context, name ThresholdName, v float64) error {
	r.single++
	return r.MemSettings.SetThreshold(ctx, name, v)
}

func (r *recordingSettings) SetThresholds(ctx context.Context, t Thresholds) error {
	r.batch++
	return r.MemSettings.SetThresholds(ctx, t)
}

func TestSettingsSaveWritesOnce(t *testing.T) {
	tests := []struct {
		name      string
		failWith  error
		wantStore bool
		want      Thresholds
	}{
		{"stored", nil, false, Thresholds{AtRisk: 1.7, Average: 2.7, Top: 3.7}},
		{"store failure keeps previous values", errors.New("connection reset"), true, DefaultThresholds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := &recordingSettings{MemSettings: NewMemSettings()}
			store.FailWith = tt.failWith
			s := NewSettings(store)

			err := s.Save(ctx, Thresholds{AtRisk: 1.7, Average: 2.7, Top: 3.7})
			assert.Equal(t, tt.wantStore, IsStorage(err), "err = %v", err)
			assert.Equal(t, 1, store.batch)
			assert.Zero(t, store.single)

			store.FailWith = nil
			assert.Equal(t, tt.want, s.Thresholds(ctx))
		})
	}
}
