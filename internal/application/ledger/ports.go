// Package ledger contiene los casos de uso del libro mayor de activos: la fachada de
// estadísticas (conciliación), las escrituras atómicas, los listados y el reporte PDF.
package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Es el único camino de escritura sobre el libro mayor.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerWriter,
		baseRepo repository.BaseRepository,
		equipmentRepo repository.EquipmentTypeRepository,
	) error) error
}

// StatsCache cache versionado de estadísticas por alcance efectivo.
// Bump invalida todas las entradas; se llama tras cada escritura exitosa. Si Bump
// falla, FetchStats no debe servir entradas hasta que otro Bump funcione.
type StatsCache interface {
	FetchStats(ctx context.Context, key string, loader func(context.Context) (*dto.StatsResponse, error)) (*dto.StatsResponse, error)
	Bump(ctx context.Context) error
}

// StatsReportRenderer genera el PDF de una conciliación.
type StatsReportRenderer interface {
	RenderStats(stats *dto.StatsResponse, generatedAt time.Time) ([]byte, error)
}
