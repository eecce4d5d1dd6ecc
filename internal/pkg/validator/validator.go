package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// Violations переводит ошибки валидатора в сообщения для пользователя.
// Ошибки не от валидатора возвращаются одним сообщением.
func Violations(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Il campo %s è obbligatorio", field)
	case "min":
		return fmt.Sprintf("Il campo %s deve avere almeno %s elementi", field, fe.Param())
	case "max":
		return fmt.Sprintf("Il campo %s supera il limite di %s", field, fe.Param())
	case "url", "http_url":
		return fmt.Sprintf("Il campo %s deve essere un URL valido", field)
	case "latitude":
		return fmt.Sprintf("Il campo %s deve essere una latitudine valida", field)
	case "longitude":
		return fmt.Sprintf("Il campo %s deve essere una longitudine valida", field)
	case "oneof":
		return fmt.Sprintf("Il campo %s deve essere uno tra: %s", field, fe.Param())
	default:
		return fmt.Sprintf("Il campo %s non è valido (%s)", field, fe.Tag())
	}
}
