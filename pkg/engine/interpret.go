package engine

import (
	"strings"

	"github.com/fablerun/fable/pkg/types"
)

// ActionKind is one of the fixed interaction primitives a step can map to.
type ActionKind int

const (
	ActionNavigate ActionKind = iota
	ActionClick
	ActionFill
	ActionSelect
	ActionCheck
	ActionUncheck
	ActionWait
	ActionScroll
	ActionHover
	ActionPress
	ActionFocus
)

func (k ActionKind) String() string {
	switch k {
	case ActionNavigate:
		return "navigate"
	case ActionClick:
		return "click"
	case ActionFill:
		return "fill"
	case ActionSelect:
		return "select"
	case ActionCheck:
		return "check"
	case ActionUncheck:
		return "uncheck"
	case ActionWait:
		return "wait"
	case ActionScroll:
		return "scroll"
	case ActionHover:
		return "hover"
	case ActionPress:
		return "press"
	case ActionFocus:
		return "focus"
	default:
		return "unknown"
	}
}

// Action is an interpreted step: a primitive plus its operands.
type Action struct {
	Kind   ActionKind
	Target string
	Value  string
}

type actionRule struct {
	keywords []string
	// excludes guards substring collisions between groups ("uncheck"
	// contains "check") without disturbing the declared group order.
	excludes []string
	build    func(s types.Step) Action
}

func (r actionRule) matches(label string) bool {
	for _, ex := range r.excludes {
		if strings.Contains(label, ex) {
			return false
		}
	}
	for _, kw := range r.keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

// actionRules is evaluated in order and the first matching keyword group
// wins. The ordering is a deliberate tie-break for labels containing multiple
// keywords: "click and wait" classifies as a click. Authored stories may
// depend on this precedence, so do not reorder.
var actionRules = []actionRule{
	{keywords: []string{"navigate", "go to"}, build: func(s types.Step) Action {
		url := s.Value
		if url == "" {
			url = s.Element
		}
		return Action{Kind: ActionNavigate, Value: url}
	}},
	{keywords: []string{"click", "tap"}, build: func(s types.Step) Action {
		return Action{Kind: ActionClick, Target: s.Target()}
	}},
	{keywords: []string{"type", "enter", "fill"}, build: func(s types.Step) Action {
		return Action{Kind: ActionFill, Target: s.Target(), Value: s.Value}
	}},
	{keywords: []string{"select", "choose"}, build: func(s types.Step) Action {
		return Action{Kind: ActionSelect, Target: s.Target(), Value: s.Value}
	}},
	{keywords: []string{"check"}, excludes: []string{"uncheck"}, build: func(s types.Step) Action {
		return Action{Kind: ActionCheck, Target: s.Target()}
	}},
	{keywords: []string{"uncheck"}, build: func(s types.Step) Action {
		return Action{Kind: ActionUncheck, Target: s.Target()}
	}},
	{keywords: []string{"wait"}, build: func(s types.Step) Action {
		return Action{Kind: ActionWait, Value: s.Value}
	}},
	{keywords: []string{"scroll"}, build: func(s types.Step) Action {
		return Action{Kind: ActionScroll, Target: s.Target()}
	}},
	{keywords: []string{"hover"}, build: func(s types.Step) Action {
		return Action{Kind: ActionHover, Target: s.Target()}
	}},
	{keywords: []string{"press"}, build: func(s types.Step) Action {
		return Action{Kind: ActionPress, Value: s.Value}
	}},
	{keywords: []string{"focus"}, build: func(s types.Step) Action {
		return Action{Kind: ActionFocus, Target: s.Target()}
	}},
}

// Interpret classifies a step's free-text action label into an interaction
// primitive by case-insensitive substring match against the ordered keyword
// groups. Labels matching no group default to a click on the step's target.
func Interpret(step types.Step) Action {
	label := strings.ToLower(step.Action)
	for _, rule := range actionRules {
		if rule.matches(label) {
			return rule.build(step)
		}
	}
	return Action{Kind: ActionClick, Target: step.Target()}
}
