package security

import (
	"sort"
	"strings"

	"github.com/fablerun/fable/pkg/types"
)

// Redactor replaces configured credential values in log output. Decrypted
// passwords live in memory only during authentication, but log lines outlive
// the story, so everything that could echo a secret passes through here.
type Redactor struct {
	secrets []string
}

// NewRedactor seeds a redactor from an environment's decrypted credentials.
func NewRedactor(credentials map[string]types.Credentials) *Redactor {
	var secrets []string
	for _, creds := range credentials {
		if creds.Password != "" {
			secrets = append(secrets, creds.Password)
		}
		if creds.Username != "" {
			secrets = append(secrets, creds.Username)
		}
	}
	// Longer secrets first so a secret containing another is not left
	// half-revealed.
	sort.Slice(secrets, func(i, j int) bool {
		return len(secrets[i]) > len(secrets[j])
	})
	return &Redactor{secrets: secrets}
}

// Redact masks every known secret in s.
func (r *Redactor) Redact(s string) string {
	if r == nil || len(r.secrets) == 0 {
		return s
	}
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, "********")
	}
	return s
}
