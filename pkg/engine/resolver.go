package engine

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// probeTimeout bounds the existence+visibility check of one resolution
// strategy. Strategies are cheap guesses; a miss should fail fast so the
// cascade can move on.
const probeTimeout = time.Second

type strategyKind int

const (
	strategyCSS strategyKind = iota
	strategyText
	strategyLabel
)

// strategy is one candidate lookup in the resolution cascade. CSS strategies
// query by selector alone; text strategies match visible text against a
// case-insensitive regex scoped to a selector; the label strategy finds a
// <label> by text and follows it to its control.
type strategy struct {
	name     string
	kind     strategyKind
	selector string
	pattern  string
}

// looksLikeSelector reports whether the target is syntactically a CSS
// selector rather than a natural-language description. Such targets are used
// literally with no fallback cascade.
func looksLikeSelector(target string) bool {
	return strings.HasPrefix(target, "#") ||
		strings.HasPrefix(target, ".") ||
		strings.HasPrefix(target, "[") ||
		strings.Contains(target, "=")
}

func textPattern(target string) string {
	return "/" + regexp.QuoteMeta(target) + "/i"
}

func attrContains(attr, target string) string {
	escaped := strings.ReplaceAll(target, `"`, `\"`)
	return fmt.Sprintf(`[%s*="%s" i]`, attr, escaped)
}

// buildStrategies constructs the ordered candidate list for a
// natural-language target: type-specific CSS guesses seeded by keywords in
// the lowercased target, then the generic semantic strategies in fixed
// order. First visible match wins downstream.
func buildStrategies(target string) []strategy {
	lower := strings.ToLower(target)
	var out []strategy

	if strings.Contains(lower, "email") {
		out = append(out, strategy{
			name:     "email-field",
			kind:     strategyCSS,
			selector: `input[type="email"], input[name*="email" i], input[id*="email" i]`,
		})
	}
	if strings.Contains(lower, "password") {
		out = append(out, strategy{
			name:     "password-field",
			kind:     strategyCSS,
			selector: `input[type="password"], input[name*="password" i], input[id*="password" i]`,
		})
	}
	if strings.Contains(lower, "username") {
		out = append(out, strategy{
			name:     "username-field",
			kind:     strategyCSS,
			selector: `input[autocomplete="username"], input[name*="user" i], input[id*="user" i]`,
		})
	}
	if strings.Contains(lower, "submit") || strings.Contains(lower, "login") || strings.Contains(lower, "sign in") {
		out = append(out, strategy{
			name:     "submit-control",
			kind:     strategyCSS,
			selector: `button[type="submit"], input[type="submit"], button[name*="login" i], button[id*="login" i]`,
		})
	}

	out = append(out,
		strategy{name: "label", kind: strategyLabel, selector: "label", pattern: textPattern(target)},
		strategy{name: "placeholder", kind: strategyCSS, selector: attrContains("placeholder", target)},
		strategy{
			name:     "role-textbox",
			kind:     strategyCSS,
			selector: strings.Join([]string{"input" + attrContains("aria-label", target), "textarea" + attrContains("aria-label", target), `[role="textbox"]` + attrContains("aria-label", target)}, ", "),
		},
		strategy{
			name:     "role-button",
			kind:     strategyText,
			selector: `button, [role="button"], input[type="submit"], input[type="button"]`,
			pattern:  textPattern(target),
		},
		strategy{name: "role-link", kind: strategyText, selector: "a", pattern: textPattern(target)},
		strategy{
			name:     "free-text",
			kind:     strategyText,
			selector: "button, a, label, span, p, li, td, th, h1, h2, h3, h4, h5, h6, div",
			pattern:  textPattern(target),
		},
	)
	return out
}

// Resolver turns a target string into exactly one concrete, currently
// visible element on the page, or fails with the original target in the
// error so the authored description survives into step results.
type Resolver struct {
	page *rod.Page
}

// NewResolver returns a resolver bound to a page.
func NewResolver(page *rod.Page) *Resolver {
	return &Resolver{page: page}
}

// Resolve finds the element the target describes. CSS-like targets are used
// literally. Descriptions walk the strategy cascade and stop at the first
// strategy yielding a visible element; if every strategy misses, the raw
// target is tried as a literal selector so the surfaced error names what the
// author wrote.
func (r *Resolver) Resolve(target string) (*rod.Element, error) {
	if target == "" {
		return nil, fmt.Errorf("step has no target to resolve")
	}
	if looksLikeSelector(target) {
		el, err := r.probe(strategy{name: "literal", kind: strategyCSS, selector: target})
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", target, err)
		}
		return el, nil
	}

	for _, st := range buildStrategies(target) {
		el, err := r.probe(st)
		if err == nil {
			return el, nil
		}
	}

	el, err := r.probe(strategy{name: "fallback-literal", kind: strategyCSS, selector: target})
	if err != nil {
		return nil, fmt.Errorf("no visible element matching %q: %w", target, err)
	}
	return el, nil
}

// probe runs one strategy with a bounded wait and requires the first match
// to be visible.
func (r *Resolver) probe(st strategy) (*rod.Element, error) {
	page := r.page.Timeout(probeTimeout)

	var el *rod.Element
	var err error
	switch st.kind {
	case strategyText:
		el, err = page.ElementR(st.selector, st.pattern)
	case strategyLabel:
		el, err = r.resolveLabel(page, st)
	default:
		el, err = page.Element(st.selector)
	}
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", st.name, err)
	}
	el = el.CancelTimeout()

	visible, err := el.Visible()
	if err != nil {
		return nil, fmt.Errorf("strategy %s: visibility check: %w", st.name, err)
	}
	if !visible {
		return nil, fmt.Errorf("strategy %s: element not visible", st.name)
	}
	return el, nil
}

// resolveLabel follows a matching <label> to its control, honoring the `for`
// attribute before falling back to a nested form control.
func (r *Resolver) resolveLabel(page *rod.Page, st strategy) (*rod.Element, error) {
	label, err := page.ElementR(st.selector, st.pattern)
	if err != nil {
		return nil, err
	}
	if forID, err := label.Attribute("for"); err == nil && forID != nil && *forID != "" {
		return page.Element("#" + *forID)
	}
	return label.Element("input, select, textarea")
}
