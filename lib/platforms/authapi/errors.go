package authapi

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
)

const (
	MessageAuthFailed       = "خطا در عملیات احراز هویت"
	MessageFieldRequired    = "پر کردن این فیلد الزامی است"
	MessagePasswordTooShort = "رمز عبور باید حداقل ۶ کاراکتر باشد"
)

// AuthError is returned for non-2xx responses from the auth service and for
// requests that fail validation before being sent. Field names the offending
// input when known.
type AuthError struct {
	Status  int
	Message string
	Field   string
}

func (e *AuthError) Error() string {
	return e.Message
}

func newAuthError(res *resty.Response) *AuthError {
	var body struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	_ = json.Unmarshal(res.Body(), &body)

	message := body.Message
	if message == "" {
		message = MessageAuthFailed
	}
	return &AuthError{
		Status:  res.StatusCode(),
		Message: message,
		Field:   body.Field,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(jsonFieldName)
}

// validateRequest turns the first validator failure into an AuthError
// carrying the json field name.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	message := MessageFieldRequired
	if first.Tag() == "min" {
		message = MessagePasswordTooShort
	}
	return &AuthError{Message: message, Field: first.Field()}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
