package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return fieldName(f.Tag.Get("json"), f.Name)
		})
	})
	return validate
}

// Struct validates request tags and reports the first failure as a
// *shared.ValidationError naming the offending field
func Struct(request interface{}) error {
	err := instance().Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	return shared.NewValidationError(trimRoot(first.Namespace()), describe(first))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}

// trimRoot drops the struct type prefix: "CreateOfferCommand.offering[0].item_id" -> "offering[0].item_id"
func trimRoot(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldName(jsonTag, goName string) string {
	name := strings.SplitN(jsonTag, ",", 2)[0]
	if name == "" || name == "-" {
		return goName
	}
	return name
}
