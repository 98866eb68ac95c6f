package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/fablerun/fable/pkg/browser"
	"github.com/fablerun/fable/pkg/types"
)

const (
	// settleDelay absorbs asynchronous UI updates after an action before
	// the step is reported successful.
	settleDelay = 100 * time.Millisecond

	defaultWaitMillis = 1000
)

// StepExecutor executes one interpreted step against a session's page. Any
// failure during resolution or the action itself is returned as an error and
// never panics past the step boundary.
type StepExecutor struct {
	session  *browser.Session
	resolver *Resolver
}

// NewStepExecutor binds an executor to a session.
func NewStepExecutor(session *browser.Session) *StepExecutor {
	return &StepExecutor{
		session:  session,
		resolver: NewResolver(session.Page()),
	}
}

// Execute interprets and performs one step, then applies the settle delay.
func (e *StepExecutor) Execute(step types.Step) error {
	action := Interpret(step)
	if err := e.perform(action); err != nil {
		return fmt.Errorf("%s: %w", action.Kind, err)
	}
	time.Sleep(settleDelay)
	return nil
}

func (e *StepExecutor) perform(action Action) error {
	switch action.Kind {
	case ActionNavigate:
		if action.Value == "" {
			return fmt.Errorf("no URL to navigate to")
		}
		return e.session.Navigate(action.Value)
	case ActionWait:
		time.Sleep(parseWaitDuration(action.Value))
		return nil
	case ActionPress:
		return e.session.Page().Keyboard.Press(parseKey(action.Value))
	}

	el, err := e.resolver.Resolve(action.Target)
	if err != nil {
		return err
	}

	switch action.Kind {
	case ActionClick:
		return el.Click(proto.InputMouseButtonLeft, 1)
	case ActionFill:
		if err := el.SelectAllText(); err != nil {
			return fmt.Errorf("clearing field: %w", err)
		}
		return el.Input(action.Value)
	case ActionSelect:
		return el.Select([]string{action.Value}, true, rod.SelectorTypeText)
	case ActionCheck:
		return e.setChecked(el, true)
	case ActionUncheck:
		return e.setChecked(el, false)
	case ActionScroll:
		return el.ScrollIntoView()
	case ActionHover:
		return el.Hover()
	case ActionFocus:
		return el.Focus()
	default:
		return fmt.Errorf("unsupported action kind %d", action.Kind)
	}
}

func (e *StepExecutor) setChecked(el *rod.Element, want bool) error {
	checked, err := el.Property("checked")
	if err != nil {
		return fmt.Errorf("reading checked state: %w", err)
	}
	if checked.Bool() == want {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// parseWaitDuration reads the step value as integer milliseconds, defaulting
// when missing or unparseable.
func parseWaitDuration(value string) time.Duration {
	ms, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || ms < 0 {
		ms = defaultWaitMillis
	}
	return time.Duration(ms) * time.Millisecond
}

var namedKeys = map[string]input.Key{
	"enter":      input.Enter,
	"tab":        input.Tab,
	"escape":     input.Escape,
	"esc":        input.Escape,
	"backspace":  input.Backspace,
	"delete":     input.Delete,
	"arrowup":    input.ArrowUp,
	"arrowdown":  input.ArrowDown,
	"arrowleft":  input.ArrowLeft,
	"arrowright": input.ArrowRight,
	"up":         input.ArrowUp,
	"down":       input.ArrowDown,
	"left":       input.ArrowLeft,
	"right":      input.ArrowRight,
}

// parseKey maps a named key to its input key, defaulting to Enter. Single
// characters are sent as themselves.
func parseKey(value string) input.Key {
	name := strings.ToLower(strings.TrimSpace(value))
	if key, ok := namedKeys[name]; ok {
		return key
	}
	if runes := []rune(value); len(runes) == 1 {
		return input.Key(runes[0])
	}
	return input.Enter
}
