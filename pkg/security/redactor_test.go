package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fablerun/fable/pkg/types"
)

func TestRedactorMasksCredentials(t *testing.T) {
	r := NewRedactor(map[string]types.Credentials{
		"admin": {Username: "root@example.test", Password: "hunter2"},
	})

	assert.Equal(t, "filling password ********", r.Redact("filling password hunter2"))
	assert.Equal(t, "user ******** logged in", r.Redact("user root@example.test logged in"))
	assert.Equal(t, "nothing secret here", r.Redact("nothing secret here"))
}

func TestRedactorLongerSecretsFirst(t *testing.T) {
	r := NewRedactor(map[string]types.Credentials{
		"a": {Password: "secret"},
		"b": {Password: "secret-extended"},
	})

	assert.Equal(t, "value ********", r.Redact("value secret-extended"))
}

func TestRedactorNilAndEmpty(t *testing.T) {
	var r *Redactor
	assert.Equal(t, "as-is", r.Redact("as-is"))

	r = NewRedactor(nil)
	assert.Equal(t, "as-is", r.Redact("as-is"))
}
