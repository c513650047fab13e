package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeUserAddForm(t *testing.T) {
	var form UserAddForm
	errs, err := Decode(postForm(url.Values{
		"username":   {"  testuser "},
		"email":      {"test@test.com"},
		"password":   {"secret1"},
		"confirm":    {"secret1"},
		"csrf_token": {"ignored"},
	}), &form)

	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "testuser", form.Username)
	assert.Equal(t, "secret1", form.Password)
}

func TestUserAddFormRules(t *testing.T) {
	var form UserAddForm
	errs, err := Decode(postForm(url.Values{
		"username": {strings.Repeat("u", 41)},
		"email":    {"invalid-email"},
		"password": {"pass1"},
		"confirm":  {"pass2"},
	}), &form)

	require.NoError(t, err)
	assert.Equal(t, "Field must be at most 40 characters long.", errs.Get("username"))
	assert.Equal(t, "Invalid email address.", errs.Get("email"))
	assert.Equal(t, "Field must be at least 6 characters long.", errs.Get("password"))
}

func TestPasswordsMustMatch(t *testing.T) {
	errs := Validate(&UserAddForm{Username: "u", Email: "u@test.com", Password: "secret1", Confirm: "secret2"})
	assert.Equal(t, "Passwords must match.", errs.Get("password"))
}

func TestRequiredFields(t *testing.T) {
	errs := Validate(&MessageForm{})
	assert.Equal(t, "This field is required.", errs.Get("text"))

	errs = Validate(&LoginForm{Password: "secret1"})
	assert.Equal(t, "This field is required.", errs.Get("username"))

	errs = Validate(&UserEditForm{Username: "u", Email: "u@test.com"})
	assert.Equal(t, "This field is required.", errs.Get("password"))
	assert.Empty(t, errs.Get("bio"))
}

func TestMessageTooLong(t *testing.T) {
	errs := Validate(&MessageForm{Text: strings.Repeat("x", 141)})
	assert.Equal(t, "Field must be at most 140 characters long.", errs.Get("text"))
	assert.Nil(t, Validate(&MessageForm{Text: strings.Repeat("x", 140)}))
}
