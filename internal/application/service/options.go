package service

import (
	"fmt"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// Recommended preset values.
const (
	DefaultQuality    = "auto:low"
	DefaultResolution = "360"
)

// BuildDefault returns the recommended compression preset.
func BuildDefault() domain.TransformSpec {
	return buildSpec(DefaultQuality, DefaultResolution)
}

// BuildAdvanced validates user selections and turns them into a spec. The
// selections must name every dimension exactly once, in DimensionOrder.
func BuildAdvanced(selections []domain.Selection) (domain.TransformSpec, error) {
	for i, sel := range selections {
		if i >= len(domain.DimensionOrder) {
			return domain.TransformSpec{}, fmt.Errorf("%w: unexpected %s", domain.ErrOutOfOrder, sel.Dimension)
		}
		if want := domain.DimensionOrder[i]; sel.Dimension != want {
			return domain.TransformSpec{}, fmt.Errorf("%w: got %s, want %s", domain.ErrOutOfOrder, sel.Dimension, want)
		}
		if !sel.Dimension.Accepts(sel.Value) {
			return domain.TransformSpec{}, fmt.Errorf("invalid %s value %q", sel.Dimension, sel.Value)
		}
	}
	if next, ok := NextDimension(selections); ok {
		return domain.TransformSpec{}, fmt.Errorf("%w: missing %s", domain.ErrIncompleteOptions, next)
	}
	return buildSpec(selections[0].Value, selections[1].Value), nil
}

// NextDimension returns the first dimension without a selection.
func NextDimension(selections []domain.Selection) (domain.Dimension, bool) {
	if len(selections) < len(domain.DimensionOrder) {
		return domain.DimensionOrder[len(selections)], true
	}
	return 0, false
}

func buildSpec(quality, height string) domain.TransformSpec {
	return domain.TransformSpec{Steps: []domain.TransformStep{
		{
			{Key: domain.DirectiveQuality, Value: quality},
			{Key: domain.DirectiveFetchFormat, Value: "auto"},
		},
		{
			{Key: domain.DirectiveHeight, Value: height},
			{Key: domain.DirectiveCrop, Value: "scale"},
		},
	}}
}
