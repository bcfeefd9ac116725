package authform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// htmlEmail is the WHATWG "valid e-mail address" pattern browsers apply to type=email inputs.
// A dotless domain such as localhost is allowed; a non-ASCII local part is not.
var htmlEmail = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+" +
	"@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("html_email", func(fl validator.FieldLevel) bool {
		return htmlEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

type loginInput struct {
	Email    string `validate:"required,html_email"`
	Password string `validate:"required"`
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,html_email"`
	Password string `validate:"required"`
	Role     string `validate:"required,oneof=mentee mentor"`
}

// Validate applies the checks the rendered form asks the browser for (required fields, the
// browser's email format, a known role) and returns field name -> message. Nil means the state may be submitted.
func Validate(s State) map[string]string {
	var payload any
	if s.IsLogin() {
		payload = &loginInput{Email: s.Email, Password: s.Password}
	} else {
		payload = &registerInput{Name: s.Name, Email: s.Email, Password: s.Password, Role: string(s.Role)}
	}

	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fieldName := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[fieldName] = fmt.Sprintf("The %s field is required.", e.Field())
			case "email", "html_email":
				errors[fieldName] = fmt.Sprintf("The %s must be a valid email address.", e.Field())
			case "oneof":
				errors[fieldName] = fmt.Sprintf("The %s must be one of: %s.", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
			default:
				errors[fieldName] = fmt.Sprintf("The %s field is invalid.", e.Field())
			}
		}
	}

	return errors
}
