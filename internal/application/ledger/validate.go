package ledger

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Reportar el nombre del campo tal como lo envía el cliente.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct aplica los tags validate del DTO y traduce el primer fallo a ValidationError.
func validateStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(domain.ReasonInvalidField, "", err.Error())
	}
	fe := verrs[0]
	reason := domain.ReasonInvalidField
	switch fe.Tag() {
	case "required":
		reason = domain.ReasonMissingField
	case "datetime":
		reason = domain.ReasonInvalidDate
	case "oneof":
		if fe.Field() == "status" {
			reason = domain.ReasonInvalidStatus
		}
	}
	return domain.NewValidationError(reason, fe.Field(), "valor inválido para "+fe.Field()+" ("+fe.Tag()+")")
}

// Las cantidades se guardan como NUMERIC(18,4): hasta 4 decimales y 14 dígitos enteros.
const quantityScale = 4

var quantityLimit = decimal.New(1, 18-quantityScale)

func requirePositive(qty decimal.Decimal, field string) error {
	if !qty.IsPositive() {
		return domain.NewValidationError(domain.ReasonNonPositiveQuantity, field, "la cantidad debe ser mayor que cero")
	}
	if !qty.Equal(qty.Truncate(quantityScale)) {
		return domain.NewValidationError(domain.ReasonInvalidField, field, "la cantidad admite como máximo 4 decimales")
	}
	if qty.GreaterThanOrEqual(quantityLimit) {
		return domain.NewValidationError(domain.ReasonInvalidField, field, "la cantidad excede el máximo admitido")
	}
	return nil
}

// parseDate interpreta YYYY-MM-DD; vacío = nil.
func parseDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidDate, field, "fecha inválida, se espera YYYY-MM-DD")
	}
	return &t, nil
}

func rawScope(req dto.StatsRequest) (domainledger.RawScope, error) {
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return domainledger.RawScope{}, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return domainledger.RawScope{}, err
	}
	return domainledger.RawScope{
		BaseID:          req.BaseID,
		EquipmentTypeID: req.EquipmentTypeID,
		StartDate:       start,
		EndDate:         end,
	}, nil
}
