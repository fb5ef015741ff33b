package domain

import (
	"fmt"
	"strings"
)

// Dimension is one axis of the advanced compression menu.
type Dimension int

const (
	DimensionQuality Dimension = iota + 1
	DimensionResolution
)

// DimensionOrder is the fixed order in which advanced options are collected.
var DimensionOrder = []Dimension{DimensionQuality, DimensionResolution}

func (d Dimension) String() string {
	switch d {
	case DimensionQuality:
		return "quality"
	case DimensionResolution:
		return "resolution"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// ParseDimension maps a dimension name back to its value.
func ParseDimension(name string) (Dimension, bool) {
	for _, d := range DimensionOrder {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

// OptionChoice is a selectable value on an advanced menu.
type OptionChoice struct {
	Label string
	Value string
}

var dimensionChoices = map[Dimension][]OptionChoice{
	DimensionQuality: {
		{Label: "18", Value: "auto:18"},
		{Label: "22", Value: "auto:22"},
		{Label: "28", Value: "auto:28"},
	},
	DimensionResolution: {
		{Label: "240p", Value: "240"},
		{Label: "360p", Value: "360"},
		{Label: "480p", Value: "480"},
		{Label: "720p", Value: "720"},
		{Label: "1080p", Value: "1080"},
	},
}

// Choices returns the selectable values of a dimension.
func (d Dimension) Choices() []OptionChoice {
	return dimensionChoices[d]
}

// Accepts reports whether value is one of the dimension's choices.
func (d Dimension) Accepts(value string) bool {
	for _, c := range dimensionChoices[d] {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Selection is one (dimension, value) pair chosen by the user.
type Selection struct {
	Dimension Dimension
	Value     string
}

// Directive keys understood by the transform backends.
const (
	DirectiveQuality     = "quality"
	DirectiveFetchFormat = "fetch_format"
	DirectiveHeight      = "height"
	DirectiveCrop        = "crop"
)

// Directive is a single key/value instruction for a transform backend.
type Directive struct {
	Key   string
	Value string
}

// TransformStep groups directives applied together.
type TransformStep []Directive

// TransformSpec is a validated, ordered set of compression directives.
type TransformSpec struct {
	Steps []TransformStep
}

// Lookup returns the first directive value stored under key.
func (s TransformSpec) Lookup(key string) (string, bool) {
	for _, step := range s.Steps {
		for _, d := range step {
			if d.Key == key {
				return d.Value, true
			}
		}
	}
	return "", false
}

// IsZero reports whether s has no directives.
func (s TransformSpec) IsZero() bool {
	return len(s.Steps) == 0
}

func (s TransformSpec) String() string {
	steps := make([]string, 0, len(s.Steps))
	for _, step := range s.Steps {
		parts := make([]string, 0, len(step))
		for _, d := range step {
			parts = append(parts, d.Key+"="+d.Value)
		}
		steps = append(steps, strings.Join(parts, ","))
	}
	return strings.Join(steps, "/")
}
