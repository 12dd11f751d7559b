package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	prayerStatusTag = "prayer_status"
	dateTag         = "amal_date"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(prayerStatusTag, prayerStatusValidation)
	_ = Validate.RegisterValidation(dateTag, dateValidation)

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{prayerStatusTag, dateTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case prayerStatusTag:
		return fe.Field() + " must be one of completed, masbuq, munfarid"
	case dateTag:
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	default:
		return ""
	}
}

func prayerStatusValidation(fl validator.FieldLevel) bool {
	return models.PrayerStatus(fl.Field().String()).Valid()
}

func dateValidation(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

// IsDate reports whether s is a real calendar date in canonical YYYY-MM-DD form.
func IsDate(s string) bool {
	t, err := time.Parse(models.DateLayout, s)
	return err == nil && t.Format(models.DateLayout) == s
}

// Struct validates v and flattens any field errors into one readable error.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(Translator))
	}
	return errors.New(strings.Join(msgs, "; "))
}
