package http

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"sweetdelivery/internal/core/domain/model/kernel"

	"github.com/go-playground/validator/v10"
)

const tagTimeWindow = "timewindow"

// RequestValidator checks decoded bodies against their struct tags.
// It implements echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation(tagTimeWindow, func(fl validator.FieldLevel) bool {
		_, err := kernel.ParseTimeWindow(fl.Field().String())
		return err == nil
	})
	return &RequestValidator{validate: v}
}

// Validate returns a *requestError listing every failed field.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}
	return &requestError{messages: validationMessages(err)}
}

// decodeItem strictly decodes one bulk record and validates it.
func (rv *RequestValidator) decodeItem(raw json.RawMessage, dest any) []string {
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return []string{err.Error()}
	}
	if err := rv.validate.Struct(dest); err != nil {
		return validationMessages(err)
	}
	return nil
}

func validationMessages(err error) []string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s %s", fe.Field(), validationMessage(fe)))
	}
	return messages
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case tagTimeWindow:
		return "must be in HH:MM-HH:MM format"
	}
	return "is invalid"
}
