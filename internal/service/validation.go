package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"user-service/internal/apperrors"
)

var timeType = reflect.TypeOf(time.Time{})

// fieldMessages maps "<Struct>.<jsonField>.<tag>" to the message reported for that failure
var fieldMessages = map[string]string{
	"UserDto.name.notblank":      "Name cannot be blank",
	"UserDto.name.max":           "Name must be less than 50 characters",
	"UserDto.surname.notblank":   "Surname cannot be blank",
	"UserDto.surname.max":        "Surname must be less than 50 characters",
	"UserDto.birthDate.required": "Birth date cannot be null",
	"UserDto.birthDate.past":     "Birth date must be in the past",
	"UserDto.email.notblank":     "Email address may not be blank",
	"UserDto.email.email":        "Please provide a valid email address",
	"UserDto.password.notblank":  "Password may not be blank",
	"UserDto.password.min":       "Password size must be between 5 and 255",
	"UserDto.password.max":       "Password size must be between 5 and 255",
	"UserDto.role.required":      "Role cannot be null",
	"UserDto.role.oneof":         "Role must be one of USER, ADMIN",

	"CardInfoDto.number.notblank":       "Card number cannot be blank",
	"CardInfoDto.number.len":            "Card number must be exactly 16 characters",
	"CardInfoDto.number.number":         "Card number must contain only digits",
	"CardInfoDto.holder.notblank":       "Card holder cannot be blank",
	"CardInfoDto.holder.max":            "Card holder must be less than 100 characters",
	"CardInfoDto.expirationDate.future": "Expiration date must be in the future",
}

// Validator checks DTOs and reports failures keyed by JSON field name
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewValidator() *Validator {
	return newValidatorAt(time.Now)
}

func newValidatorAt(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation("notblank", validators.NotBlank)
	_ = v.validate.RegisterValidation("past", v.isPast)
	_ = v.validate.RegisterValidation("future", v.isFuture)

	return v
}

// Struct validates every field of dto
func (v *Validator) Struct(dto any) error {
	return v.translate(v.validate.Struct(dto))
}

// StructExcept validates dto skipping the named Go fields
func (v *Validator) StructExcept(dto any, fields ...string) error {
	return v.translate(v.validate.StructExcept(dto, fields...))
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Namespace()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		fields[fe.Field()] = msg
	}
	return apperrors.Validation(fields)
}

func (v *Validator) today() time.Time {
	y, m, d := v.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOf(fl validator.FieldLevel) (time.Time, bool) {
	field := fl.Field()
	if !field.Type().ConvertibleTo(timeType) {
		return time.Time{}, false
	}
	t := field.Convert(timeType).Interface().(time.Time)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func (v *Validator) isPast(fl validator.FieldLevel) bool {
	t, ok := dateOf(fl)
	return ok && t.Before(v.today())
}

func (v *Validator) isFuture(fl validator.FieldLevel) bool {
	t, ok := dateOf(fl)
	return ok && t.After(v.today())
}
