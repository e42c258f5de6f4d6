package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-service/internal/apperrors"
	"user-service/internal/models"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.KindValidation, appErr.Kind)
	return appErr.FieldErrors
}

func TestValidateUser(t *testing.T) {
	v := newValidatorAt(func() time.Time { return fixedNow })

	cases := []struct {
		name   string
		mutate func(*models.UserDto)
		field  string
		want   string
	}{
		{"long name", func(u *models.UserDto) { u.Name = strings.Repeat("a", 51) }, "name", "Name must be less than 50 characters"},
		{"blank surname", func(u *models.UserDto) { u.Surname = "\t" }, "surname", "Surname cannot be blank"},
		{"missing birth date", func(u *models.UserDto) { u.BirthDate = models.Date{} }, "birthDate", "Birth date cannot be null"},
		{"birth date today", func(u *models.UserDto) { u.BirthDate = models.DateOf(fixedNow) }, "birthDate", "Birth date must be in the past"},
		{"bad email", func(u *models.UserDto) { u.Email = "not-an-email" }, "email", "Please provide a valid email address"},
		{"blank email", func(u *models.UserDto) { u.Email = "" }, "email", "Email address may not be blank"},
		{"blank password", func(u *models.UserDto) { u.Password = " " }, "password", "Password may not be blank"},
		{"long password", func(u *models.UserDto) { u.Password = strings.Repeat("p", 256) }, "password", "Password size must be between 5 and 255"},
		{"missing role", func(u *models.UserDto) { u.Role = "" }, "role", "Role cannot be null"},
		{"unknown role", func(u *models.UserDto) { u.Role = "KING" }, "role", "Role must be one of USER, ADMIN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto := jonSnowDto()
			tc.mutate(dto)
			fields := fieldErrors(t, v.Struct(dto))
			assert.Equal(t, tc.want, fields[tc.field])
			assert.Len(t, fields, 1)
		})
	}
}

func TestValidateUser_Valid(t *testing.T) {
	v := newValidatorAt(func() time.Time { return fixedNow })
	assert.NoError(t, v.Struct(jonSnowDto()))
}

func TestValidateCard(t *testing.T) {
	v := newValidatorAt(func() time.Time { return fixedNow })

	short := cardDto(nil)
	short.Number = "411111111111"
	assert.Equal(t, "Card number must be exactly 16 characters", fieldErrors(t, v.Struct(short))["number"])

	blank := cardDto(nil)
	blank.Number = ""
	assert.Equal(t, "Card number cannot be blank", fieldErrors(t, v.Struct(blank))["number"])

	longHolder := cardDto(nil)
	longHolder.Holder = strings.Repeat("H", 101)
	assert.Equal(t, "Card holder must be less than 100 characters", fieldErrors(t, v.Struct(longHolder))["holder"])

	today := models.DateOf(fixedNow)
	expiresToday := cardDto(nil)
	expiresToday.ExpirationDate = &today
	assert.Equal(t, "Expiration date must be in the future", fieldErrors(t, v.Struct(expiresToday))["expirationDate"])

	noExpiry := cardDto(nil)
	noExpiry.ExpirationDate = nil
	assert.NoError(t, v.Struct(noExpiry))
}

func TestValidateCard_ExceptExpiration(t *testing.T) {
	v := newValidatorAt(func() time.Time { return fixedNow })

	past := models.NewDate(2001, time.January, 1)
	dto := cardDto(nil)
	dto.ExpirationDate = &past

	assert.NoError(t, v.StructExcept(dto, "ExpirationDate"))
	assert.Error(t, v.Struct(dto))
}
