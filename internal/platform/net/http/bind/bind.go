// Package bind decodes request bodies into structs and validates them
// validation failures become perr validation errors naming the offending form field
package bind

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "bear/internal/platform/errors"
	"bear/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

// setup builds the shared validator with english messages keyed by form tag names
func setup() {
	once.Do(func() {
		loc := en.New()
		trans, _ = ut.New(loc, loc).GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := tagName(f, "form"); name != "" {
				return name
			}
			return f.Name
		})
		_ = en_translations.RegisterDefaultTranslations(validate, trans)
		short(validate, "min", "{0} must be at least {1}")
		short(validate, "max", "{0} must be at most {1}")
	})
}

func short(v *validator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// FormOptions controls form parsing
type FormOptions struct {
	MaxBytes  int64 // 64KB when zero
	TrimSpace bool
}

// ParseForm fills the exported string fields of T tagged `form:"name"` from the urlencoded body
// query parameters never satisfy a field
func ParseForm[T any](w http.ResponseWriter, r *http.Request, opts ...FormOptions) (T, error) {
	var o FormOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = 64 << 10
	}
	r.Body = http.MaxBytesReader(w, r.Body, o.MaxBytes)

	var zero, dst T
	if err := r.ParseForm(); err != nil {
		return zero, perr.InvalidArgf("invalid form: %v", err)
	}
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return zero, perr.Newf(perr.ErrorCodeUnknown, "form target must be a struct, got %s", rv.Kind())
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Type().Field(i)
		name := tagName(f, "form")
		if name == "" || !f.IsExported() || f.Type.Kind() != reflect.String {
			continue
		}
		val := r.PostForm.Get(name)
		if o.TrimSpace {
			val = strings.TrimSpace(val)
		}
		rv.Field(i).SetString(val)
	}

	if err := Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// Struct validates v; the first failing field is reported
func Struct(v any) error {
	setup()
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		logger.Get().Error().Err(err).Msg("bind: validator misuse")
		return perr.Newf(perr.ErrorCodeValidation, "validation error")
	}
	fe := verrs[0]
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(trans)), fe.Field())
}

// tagName is the name part of a struct tag, empty when absent or "-"
func tagName(f reflect.StructField, key string) string {
	name, _, _ := strings.Cut(f.Tag.Get(key), ",")
	if name == "-" {
		return ""
	}
	return name
}
