package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// RecordFilter filtro de lectura del libro mayor. From es inclusivo y Until exclusivo
// (días calendario). Para transferencias BaseID coincide con origen o destino.
// Limit/Offset se aplican por tipo de registro; Limit 0 = sin límite.
type RecordFilter struct {
	BaseID          string
	EquipmentTypeID string
	From            *time.Time
	Until           *time.Time
	Kinds           []entity.RecordKind // vacío = todos
	TransferStatus  string
	Limit           int
	Offset          int
}

// Includes indica si el filtro pide registros de tipo k.
func (f RecordFilter) Includes(k entity.RecordKind) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	for _, kind := range f.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// LedgerSnapshot lecturas sobre una vista consistente del almacén.
type LedgerSnapshot interface {
	ListRecords(ctx context.Context, filter RecordFilter) ([]entity.Record, error)
}

// LedgerReader abre una vista consistente (snapshot) y ejecuta fn sobre ella.
// Todo lo que fn lee observa el mismo estado del almacén.
type LedgerReader interface {
	ReadSnapshot(ctx context.Context, fn func(snap LedgerSnapshot) error) error
}

// LedgerWriter escrituras del libro mayor. Cada implementación opera dentro de una transacción.
// Get* devuelven (nil, nil) si no existe.
type LedgerWriter interface {
	CreatePurchase(ctx context.Context, p *entity.Purchase) error
	CreateTransfer(ctx context.Context, t *entity.Transfer) error
	GetTransfer(ctx context.Context, id string) (*entity.Transfer, error)
	// UpdateTransferStatus cambia el estado solo si el actual está en from; false si no aplicó.
	UpdateTransferStatus(ctx context.Context, id string, from []string, to string) (bool, error)
	CreateAssignment(ctx context.Context, a *entity.Assignment) error
	GetAssignment(ctx context.Context, id string) (*entity.Assignment, error)
	// AddReturn suma qty a la cantidad devuelta solo si returned+qty <= assigned; false si no aplicó.
	AddReturn(ctx context.Context, id string, qty decimal.Decimal, returnDate time.Time) (bool, error)
	CreateExpenditure(ctx context.Context, e *entity.Expenditure) error
}
