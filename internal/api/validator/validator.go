package validator

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kaixxz/MediNote/internal/api/contract"
	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/metrics"
)

const sep = " and "

type Error struct {
	FailedField string
	Tag         string
	Value       interface{}
}

type IXValidator interface {
	// Validator parses the request body into data and validates it. A
	// non-empty Code in the returned response means the request was
	// rejected and the status has already been set on c.
	Validator(data any, message string, c *fiber.Ctx) contract.Response
	Validate(data any) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(v *validator.Validate, metrics *metrics.Metrics) (IXValidator, error) {
	for tag, fn := range valid {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %q validation: %w", tag, err)
		}
	}

	v.RegisterTagNameFunc(jsonFieldName)

	return &XValidator{validator: v, metrics: metrics}, nil
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

func (x *XValidator) Validator(data any, message string, c *fiber.Ctx) contract.Response {
	if err := c.BodyParser(data); err != nil {
		c.Status(http.StatusBadRequest)
		return contract.Response{
			Code:    constants.ErrCodeInvalidRequestBody,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
		}
	}

	errs := x.Validate(data)
	if len(errs) == 0 {
		return contract.Response{}
	}

	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, fmt.Sprintf(message, err.FailedField))
		if x.metrics != nil {
			x.metrics.RecordValidationError(err.FailedField, err.Tag)
		}
	}

	c.Status(http.StatusUnprocessableEntity)

	return contract.Response{
		Code:    constants.ErrCodeValidationFailed,
		Message: strings.Join(msgs, sep),
	}
}

func (x *XValidator) Validate(data any) []Error {
	err := x.validator.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []Error{{FailedField: "body", Tag: "invalid"}}
	}

	out := make([]Error, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, Error{FailedField: fe.Field(), Tag: fe.Tag(), Value: fe.Value()})
	}
	return out
}
