package types

// Story is a declarative UI test: an ordered sequence of steps plus
// the outcome verifications evaluated after all steps pass.
type Story struct {
	ID           string         `yaml:"id" json:"id"`
	Name         string         `yaml:"name" json:"name"`
	Steps        []Step         `yaml:"steps" json:"steps"`
	Outcome      []Verification `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	RequiredRole string         `yaml:"required_role,omitempty" json:"required_role,omitempty"`
}

// Step is one action within a story. Action is a free-text label matched
// case-insensitively. Selector takes precedence over Element wherever both
// could apply as a target; Element doubles as a generic value holder for
// navigation URLs.
type Step struct {
	Action      string `yaml:"action" json:"action"`
	Selector    string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Element     string `yaml:"element,omitempty" json:"element,omitempty"`
	Value       string `yaml:"value,omitempty" json:"value,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Target returns the step's resolution target, preferring the explicit
// selector over the natural-language element description.
func (s Step) Target() string {
	if s.Selector != "" {
		return s.Selector
	}
	return s.Element
}

// Verification is a post-condition assertion against final page state.
type Verification struct {
	Type     string `yaml:"type" json:"type"`
	Target   string `yaml:"target,omitempty" json:"target,omitempty"`
	Expected string `yaml:"expected" json:"expected"`
}

// Verification types understood by the evaluator. Anything else is a no-op.
const (
	VerifyURL     = "url"
	VerifyElement = "element"
	VerifyContent = "content"
)

// AuthType identifies the authentication scheme of an environment.
type AuthType string

const (
	AuthNone  AuthType = "none"
	AuthBasic AuthType = "basic"
	AuthForm  AuthType = "form"
	AuthOAuth AuthType = "oauth"
)

// AuthConfig describes how to log the automated session in before a story
// executes. Only AuthForm produces authentication behavior; the other types
// are accepted and ignored.
type AuthConfig struct {
	Type             AuthType `yaml:"type" json:"type"`
	LoginURL         string   `yaml:"login_url,omitempty" json:"login_url,omitempty"`
	UsernameSelector string   `yaml:"username_selector,omitempty" json:"username_selector,omitempty"`
	PasswordSelector string   `yaml:"password_selector,omitempty" json:"password_selector,omitempty"`
	SubmitSelector   string   `yaml:"submit_selector,omitempty" json:"submit_selector,omitempty"`
	SuccessIndicator string   `yaml:"success_indicator,omitempty" json:"success_indicator,omitempty"`
}

// Credentials is an already-decrypted username/password pair. Values are held
// in memory only for the duration of one story's authentication.
type Credentials struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Environment is the target a run executes against: a base URL, an optional
// auth configuration, and credentials keyed by role.
type Environment struct {
	BaseURL     string                 `yaml:"base_url" json:"base_url"`
	Auth        *AuthConfig            `yaml:"auth,omitempty" json:"auth,omitempty"`
	Credentials map[string]Credentials `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

// ExecutionOptions is the per-invocation policy for running one story.
type ExecutionOptions struct {
	RetryCount          int
	ScreenshotOnFailure bool
	Credentials         *Credentials
	AuthConfig          *AuthConfig
}
