package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Assignment asignación de equipo a personal. Quantity es la cantidad asignada;
// Returned es el único campo mutable y nunca decrece.
type Assignment struct {
	RecordHeader
	BaseID        string
	PersonnelName string
	PersonnelID   string
	Returned      decimal.Decimal
	ReturnDate    *time.Time
}

func (a *Assignment) Kind() RecordKind { return KindAssignment }
func (a *Assignment) Header() *RecordHeader { return &a.RecordHeader }
func (*Assignment) sealed() {}

// Outstanding cantidad asignada aún no devuelta.
func (a *Assignment) Outstanding() decimal.Decimal {
	return a.Quantity.Sub(a.Returned)
}
