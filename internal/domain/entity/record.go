package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind tipo de registro del libro mayor.
type RecordKind string

// Tipos de registro.
const (
	KindPurchase    RecordKind = "purchase"
	KindTransfer    RecordKind = "transfer"
	KindAssignment  RecordKind = "assignment"
	KindExpenditure RecordKind = "expenditure"
)

// IsValid indica si k es uno de los tipos conocidos.
func (k RecordKind) IsValid() bool {
	switch k {
	case KindPurchase, KindTransfer, KindAssignment, KindExpenditure:
		return true
	}
	return false
}

// RecordHeader campos comunes a todo registro del libro mayor.
// Date es un día calendario (medianoche UTC).
type RecordHeader struct {
	ID                string
	EquipmentTypeID   string
	EquipmentTypeName string
	Quantity          decimal.Decimal
	Date              time.Time
	CreatedBy         string
	CreatedAt         time.Time
}

// Record variante cerrada: *Purchase, *Transfer, *Assignment o *Expenditure.
type Record interface {
	Kind() RecordKind
	Header() *RecordHeader
	sealed()
}

var (
	_ Record = (*Purchase)(nil)
	_ Record = (*Transfer)(nil)
	_ Record = (*Assignment)(nil)
	_ Record = (*Expenditure)(nil)
)

// Day trunca t a su día calendario, expresado como medianoche UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
