package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// newValidator регистрирует notblank: строка из одних пробелов — пустая.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validator: %v", err))
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateInput(v *validator.Validate, input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must be provided"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// resourcePath собирает путь с экранированными идентификаторами:
// resourcePath("/events/%s/join", id).
func resourcePath(format string, ids ...models.ID) (string, error) {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if id.IsZero() {
			return "", ErrInvalidID
		}
		args[i] = url.PathEscape(strings.TrimSpace(id.String()))
	}
	return fmt.Sprintf(format, args...), nil
}

// decodeList принимает и голый массив, и объект-обёртку {key: [...]}.
func decodeList[T any](env models.Envelope, keys ...string) ([]T, error) {
	out := []T{}
	raw := []byte(env.Data)
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return out, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
		found := false
		for _, k := range keys {
			if inner, ok := wrapper[k]; ok {
				raw, found = inner, true
				break
			}
		}
		if !found {
			return out, nil
		}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response data: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// decodeObject принимает объект как есть или обёрнутый {key: {...}}.
func decodeObject[T any](env models.Envelope, key string) (*T, error) {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var wrapper map[string]json.RawMessage
	if json.Unmarshal(env.Data, &wrapper) == nil {
		if inner, ok := wrapper[key]; ok && len(inner) > 0 && inner[0] == '{' {
			env.Data = inner
		}
	}
	var out T
	if err := env.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
