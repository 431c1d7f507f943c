package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// ReportUseCase genera el reporte PDF de una conciliación.
type ReportUseCase struct {
	stats    *StatsUseCase
	renderer StatsReportRenderer
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(stats *StatsUseCase, renderer StatsReportRenderer) *ReportUseCase {
	return &ReportUseCase{stats: stats, renderer: renderer, now: time.Now}
}

// StatsPDF calcula las estadísticas con las mismas reglas de acceso y las renderiza en PDF.
func (uc *ReportUseCase) StatsPDF(ctx context.Context, caller entity.Caller, req dto.StatsRequest) ([]byte, error) {
	stats, err := uc.stats.GetStats(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderStats(stats, uc.now())
}
