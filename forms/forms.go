package forms

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// MessageForm is the form for adding messages.
type MessageForm struct {
	Text string `schema:"text" validate:"required,max=140"`
}

// UserAddForm is the signup form.
type UserAddForm struct {
	Username string `schema:"username" validate:"required,max=40"`
	Email    string `schema:"email" validate:"required,email,max=50"`
	Password string `schema:"password" validate:"required,min=6,eqfield=Confirm"`
	Confirm  string `schema:"confirm"`
	ImageURL string `schema:"image_url"`
}

// LoginForm is the login form.
type LoginForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"min=6"`
}

// UserEditForm edits the current user's profile. Password is the current
// password, checked before saving.
type UserEditForm struct {
	Username       string `schema:"username" validate:"required,max=40"`
	Email          string `schema:"email" validate:"required,email,max=50"`
	Password       string `schema:"password" validate:"required,min=6"`
	ImageURL       string `schema:"image_url"`
	HeaderImageURL string `schema:"header_image_url"`
	Bio            string `schema:"bio"`
	Location       string `schema:"location"`
}

// Errors maps a form field name to its first error message.
type Errors map[string]string

func (e Errors) Get(field string) string {
	return e[field]
}

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses the request form into dst and validates it. A malformed body
// is returned as err; failed rules come back as a non-empty Errors.
func Decode(r *http.Request, dst interface{}) (Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}
	trimStrings(dst)
	return Validate(dst), nil
}

// Validate runs the struct's rules and returns nil when they all pass.
func Validate(form interface{}) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"": err.Error()}
	}
	errs := Errors{}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = message(fe)
		}
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "max":
		return fmt.Sprintf("Field must be at most %s characters long.", fe.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "eqfield":
		return "Passwords must match."
	}
	return "Invalid value."
}

// trimStrings strips surrounding whitespace from every string field except passwords.
func trimStrings(dst interface{}) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.String || !f.CanSet() {
			continue
		}
		switch t.Field(i).Name {
		case "Password", "Confirm":
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
}
