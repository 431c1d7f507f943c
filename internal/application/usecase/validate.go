package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/asset-ledger/internal/domain"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

func validateStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		reason := domain.ReasonInvalidField
		if verrs[0].Tag() == "required" {
			reason = domain.ReasonMissingField
		}
		return domain.NewValidationError(reason, verrs[0].Field(), "valor inválido para "+verrs[0].Field())
	}
	return domain.NewValidationError(domain.ReasonInvalidField, "", err.Error())
}

// wrapReferenceError ErrDuplicate pasa sin cambios (409); el resto es error de almacenamiento.
func wrapReferenceError(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	return domain.WrapStorage(op, err)
}
