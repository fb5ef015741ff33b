package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anzel0/New-Bot/internal/domain"
)

func TestBuildDefault(t *testing.T) {
	spec := BuildDefault()

	q, ok := spec.Lookup(domain.DirectiveQuality)
	require.True(t, ok)
	assert.Equal(t, "auto:low", q)

	h, ok := spec.Lookup(domain.DirectiveHeight)
	require.True(t, ok)
	assert.Equal(t, "360", h)

	assert.Equal(t, "quality=auto:low,fetch_format=auto/height=360,crop=scale", spec.String())
}

func TestBuildAdvanced(t *testing.T) {
	quality := domain.Selection{Dimension: domain.DimensionQuality, Value: "auto:22"}
	resolution := domain.Selection{Dimension: domain.DimensionResolution, Value: "480"}

	tests := []struct {
		name       string
		selections []domain.Selection
		wantErr    error
	}{
		{name: "complete in order", selections: []domain.Selection{quality, resolution}},
		{name: "empty", selections: nil, wantErr: domain.ErrIncompleteOptions},
		{name: "quality only", selections: []domain.Selection{quality}, wantErr: domain.ErrIncompleteOptions},
		{name: "resolution first", selections: []domain.Selection{resolution, quality}, wantErr: domain.ErrOutOfOrder},
		{name: "resolution only", selections: []domain.Selection{resolution}, wantErr: domain.ErrOutOfOrder},
		{name: "duplicate", selections: []domain.Selection{quality, quality}, wantErr: domain.ErrOutOfOrder},
		{name: "too many", selections: []domain.Selection{quality, resolution, resolution}, wantErr: domain.ErrOutOfOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := BuildAdvanced(tt.selections)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, spec.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "quality=auto:22,fetch_format=auto/height=480,crop=scale", spec.String())
		})
	}
}

func TestBuildAdvanced_RejectsUnknownValue(t *testing.T) {
	_, err := BuildAdvanced([]domain.Selection{
		{Dimension: domain.DimensionQuality, Value: "auto:99"},
		{Dimension: domain.DimensionResolution, Value: "480"},
	})
	assert.Error(t, err)
}

func TestNextDimension(t *testing.T) {
	d, ok := NextDimension(nil)
	assert.True(t, ok)
	assert.Equal(t, domain.DimensionQuality, d)

	d, ok = NextDimension([]domain.Selection{{Dimension: domain.DimensionQuality, Value: "auto:18"}})
	assert.True(t, ok)
	assert.Equal(t, domain.DimensionResolution, d)

	_, ok = NextDimension([]domain.Selection{
		{Dimension: domain.DimensionQuality, Value: "auto:18"},
		{Dimension: domain.DimensionResolution, Value: "240"},
	})
	assert.False(t, ok)
}
