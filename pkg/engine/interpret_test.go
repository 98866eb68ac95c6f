package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fablerun/fable/pkg/types"
)

func TestInterpretClassification(t *testing.T) {
	tests := []struct {
		name string
		step types.Step
		want Action
	}{
		{
			name: "navigate from value",
			step: types.Step{Action: "Navigate to the shop", Value: "https://x.test/shop"},
			want: Action{Kind: ActionNavigate, Value: "https://x.test/shop"},
		},
		{
			name: "navigate falls back to element for the URL",
			step: types.Step{Action: "go to checkout", Element: "/checkout"},
			want: Action{Kind: ActionNavigate, Value: "/checkout"},
		},
		{
			name: "click",
			step: types.Step{Action: "Click the save button", Element: "save button"},
			want: Action{Kind: ActionClick, Target: "save button"},
		},
		{
			name: "tap is a click",
			step: types.Step{Action: "Tap the menu", Element: "menu"},
			want: Action{Kind: ActionClick, Target: "menu"},
		},
		{
			name: "fill",
			step: types.Step{Action: "Type the email", Element: "email field", Value: "a@b.test"},
			want: Action{Kind: ActionFill, Target: "email field", Value: "a@b.test"},
		},
		{
			name: "select",
			step: types.Step{Action: "Choose a country", Element: "country", Value: "Chile"},
			want: Action{Kind: ActionSelect, Target: "country", Value: "Chile"},
		},
		{
			name: "check",
			step: types.Step{Action: "Check the terms box", Element: "terms"},
			want: Action{Kind: ActionCheck, Target: "terms"},
		},
		{
			name: "uncheck is not swallowed by check",
			step: types.Step{Action: "Uncheck the newsletter box", Element: "newsletter"},
			want: Action{Kind: ActionUncheck, Target: "newsletter"},
		},
		{
			name: "wait",
			step: types.Step{Action: "Wait for the page", Value: "2500"},
			want: Action{Kind: ActionWait, Value: "2500"},
		},
		{
			name: "scroll",
			step: types.Step{Action: "Scroll to the footer", Element: "footer"},
			want: Action{Kind: ActionScroll, Target: "footer"},
		},
		{
			name: "hover",
			step: types.Step{Action: "Hover over the tooltip", Element: "tooltip"},
			want: Action{Kind: ActionHover, Target: "tooltip"},
		},
		{
			name: "focus",
			step: types.Step{Action: "Focus the search box", Element: "search"},
			want: Action{Kind: ActionFocus, Target: "search"},
		},
		{
			name: "case insensitive",
			step: types.Step{Action: "CLICK THE BUTTON", Element: "button"},
			want: Action{Kind: ActionClick, Target: "button"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Interpret(tc.step))
		})
	}
}

func TestInterpretTieBreakOrder(t *testing.T) {
	// A label matching several keyword groups resolves to the first group
	// in the fixed list.
	got := Interpret(types.Step{Action: "click and wait", Element: "save"})
	assert.Equal(t, ActionClick, got.Kind)

	got = Interpret(types.Step{Action: "navigate then click", Value: "/home"})
	assert.Equal(t, ActionNavigate, got.Kind)
}

func TestInterpretSelectorPrecedence(t *testing.T) {
	got := Interpret(types.Step{Action: "click it", Selector: "#save", Element: "the save button"})
	assert.Equal(t, "#save", got.Target)
}

func TestInterpretDefaultsToClick(t *testing.T) {
	got := Interpret(types.Step{Action: "do the thing", Element: "the thing"})
	assert.Equal(t, Action{Kind: ActionClick, Target: "the thing"}, got)
}
