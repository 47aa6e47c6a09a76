package confirm

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	assert.ErrorIs(t, Require(false), ErrRequired)
	assert.NoError(t, Require(true))
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("DELETE", "/api/v1/employees/e1", nil)
	assert.False(t, FromRequest(r))

	r.Header.Set(Header, "true")
	assert.True(t, FromRequest(r))

	r = httptest.NewRequest("DELETE", "/api/v1/employees/e1?confirm=1", nil)
	assert.True(t, FromRequest(r))

	r = httptest.NewRequest("DELETE", "/api/v1/employees/e1?confirm=no", nil)
	assert.False(t, FromRequest(r))
}
