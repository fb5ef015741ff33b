package domain

import (
	"fmt"
	"strings"
)

// ActionKind identifies what a keyboard button asks for.
type ActionKind int

const (
	ActionCompress ActionKind = iota + 1
	ActionCancel
	ActionPresetDefault
	ActionPresetAdvanced
	ActionAdvancedOption
	ActionStartAdvanced
	ActionWithThumbnail
	ActionNoThumbnail
	ActionAsFile
	ActionRenameYes
	ActionRenameNo
)

const advancedPrefix = "adv_"

var actionTokens = map[ActionKind]string{
	ActionCompress:       "action_compress",
	ActionCancel:         "cancel",
	ActionPresetDefault:  "compressopt_default",
	ActionPresetAdvanced: "compressopt_advanced",
	ActionStartAdvanced:  "start_advanced_compression",
	ActionWithThumbnail:  "convertopt_withthumb",
	ActionNoThumbnail:    "convertopt_nothumb",
	ActionAsFile:         "convertopt_asfile",
	ActionRenameYes:      "renameopt_yes",
	ActionRenameNo:       "renameopt_no",
}

var tokenActions = func() map[string]ActionKind {
	m := make(map[string]ActionKind, len(actionTokens))
	for k, v := range actionTokens {
		m[v] = k
	}
	return m
}()

// Action is a parsed button press. Dimension and Value are only set for
// ActionAdvancedOption.
type Action struct {
	Kind      ActionKind
	Dimension Dimension
	Value     string
}

// NewAction returns a plain action without payload.
func NewAction(kind ActionKind) Action {
	return Action{Kind: kind}
}

// NewAdvancedOption returns the action selecting value for dimension d.
func NewAdvancedOption(d Dimension, value string) Action {
	return Action{Kind: ActionAdvancedOption, Dimension: d, Value: value}
}

// Token encodes the action as callback data.
func (a Action) Token() string {
	if a.Kind == ActionAdvancedOption {
		return advancedPrefix + a.Dimension.String() + "_" + a.Value
	}
	return actionTokens[a.Kind]
}

func (a Action) String() string {
	return a.Token()
}

// ParseAction decodes callback data into an Action.
func ParseAction(token string) (Action, error) {
	if kind, ok := tokenActions[token]; ok {
		return Action{Kind: kind}, nil
	}
	rest, ok := strings.CutPrefix(token, advancedPrefix)
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	name, value, ok := strings.Cut(rest, "_")
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	dim, ok := ParseDimension(name)
	if !ok || !dim.Accepts(value) {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	return NewAdvancedOption(dim, value), nil
}
