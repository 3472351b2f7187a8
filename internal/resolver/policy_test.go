package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/gamepass-price-scanner/internal/resolver"
)

func TestParseSampling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		speedMode string
		want      resolver.Sampling
		wantErr   bool
	}{
		{name: "empty defaults to all in fast mode", speedMode: resolver.SpeedFast, want: resolver.SampleAll},
		{name: "empty defaults to none in turbo", speedMode: resolver.SpeedTurbo, want: resolver.SampleNone},
		{name: "explicit anonymous", in: "anonymous", speedMode: resolver.SpeedTurbo, want: resolver.SampleAnonymous},
		{name: "explicit all", in: "all", want: resolver.SampleAll},
		{name: "unknown", in: "some", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.ParseSampling(tt.in, tt.speedMode)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_AllowRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		policy    resolver.Policy
		available bool
		want      bool
	}{
		{name: "turbo", policy: resolver.Policy{SpeedMode: resolver.SpeedTurbo}, available: true},
		{name: "not fast mode", policy: resolver.Policy{SpeedMode: resolver.SpeedFast}, want: true},
		{
			name:      "fast with auto and available",
			policy:    resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: true, AutoRenderOnFail: true},
			available: true,
			want:      true,
		},
		{
			name:   "fast with auto, unavailable",
			policy: resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: true, AutoRenderOnFail: true},
		},
		{
			name:      "fast without auto",
			policy:    resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: true},
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.policy.AllowRender(tt.available))
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := resolver.DefaultPolicy()
	assert.Equal(t, resolver.SpeedFast, p.SpeedMode)
	assert.True(t, p.FastMode)
	assert.True(t, p.AutoRenderOnFail)
	assert.False(t, p.ForceRender)
	assert.Equal(t, resolver.SampleAll, p.Sampling)
}
