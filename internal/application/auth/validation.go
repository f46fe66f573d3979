package auth

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

const (
	MinPasswordLen = 6
	// bcrypt ignores input past 72 bytes, so longer passwords are rejected up front.
	MaxPasswordBytes = 72

	tagBcryptLen = "bcrypt_len"
)

// RegisterInput is the registration payload. Field order is the order in
// which constraints are reported.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,bcrypt_len"`
	Role     string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	IsActive *bool  `json:"isActive"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) normalize() {
	in.Email = domain.NormalizeEmail(in.Email)
}

// Validator checks payload shape before any side effect.
// It reports only the first violated constraint.
type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation(tagBcryptLen, func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	_ = v.RegisterTranslation(tagBcryptLen, trans,
		func(t ut.Translator) error {
			return t.Add(tagBcryptLen, "{0} must be at most {1} bytes", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tagBcryptLen, fe.Field(), strconv.Itoa(MaxPasswordBytes))
			return msg
		},
	)

	return &Validator{v: v, trans: trans}
}

func (val *Validator) ValidateRegistration(in RegisterInput) error {
	return val.first(in)
}

func (val *Validator) ValidateLogin(in LoginInput) error {
	return val.first(in)
}

func (val *Validator) first(payload any) error {
	err := val.v.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}

	fe := verrs[0]
	return domain.ErrValidation(fe.Field(), fe.Translate(val.trans))
}
