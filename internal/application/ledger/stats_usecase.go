package ledger

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
	"github.com/jhoicas/asset-ledger/pkg/logger"
)

// writeEpoch cuenta las escrituras confirmadas en este proceso.
var writeEpoch atomic.Int64

// StatsUseCase fachada de estadísticas: resuelve el alcance, lee un snapshot del libro mayor
// y concilia apertura, agregados y asignaciones en paralelo sobre ese mismo snapshot.
//
// Llamadas concurrentes con el mismo alcance comparten un único cálculo (singleflight)
// y, si hay cache, el resultado queda guardado hasta la próxima escritura. Con cache el
// agrupamiento lo hace la cache sobre la clave versionada; sin cache, la clave del grupo
// incluye el contador de escrituras del proceso.
type StatsUseCase struct {
	reader     repository.LedgerReader
	resolver   *domainledger.Resolver
	reconciler *domainledger.Reconciler
	cache      StatsCache
	log        *logger.Logger
	now        func() time.Time
	group      singleflight.Group
}

// NewStatsUseCase construye la fachada. cache puede ser nil.
func NewStatsUseCase(
	reader repository.LedgerReader,
	resolver *domainledger.Resolver,
	reconciler *domainledger.Reconciler,
	cache StatsCache,
	log *logger.Logger,
) *StatsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StatsUseCase{
		reader:     reader,
		resolver:   resolver,
		reconciler: reconciler,
		cache:      cache,
		log:        log,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj que cierra rangos abiertos.
func (uc *StatsUseCase) WithClock(now func() time.Time) *StatsUseCase {
	uc.now = now
	return uc
}

// GetStats devuelve la conciliación del alcance pedido, restringido a lo que el caller puede ver.
func (uc *StatsUseCase) GetStats(ctx context.Context, caller entity.Caller, req dto.StatsRequest) (*dto.StatsResponse, error) {
	scope, err := uc.Resolve(caller, req)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		key := string(uc.reconciler.Mode()) + ":" + scope.Key()
		return uc.cache.FetchStats(ctx, key, func(ctx context.Context) (*dto.StatsResponse, error) {
			return uc.reconcile(ctx, scope)
		})
	}
	return uc.compute(ctx, scope)
}

// Resolve valida el request y devuelve el alcance efectivo para el caller.
func (uc *StatsUseCase) Resolve(caller entity.Caller, req dto.StatsRequest) (domainledger.Scope, error) {
	if err := validateStruct(req); err != nil {
		return domainledger.Scope{}, err
	}
	raw, err := rawScope(req)
	if err != nil {
		return domainledger.Scope{}, err
	}
	return uc.resolver.Resolve(raw, caller, uc.now())
}

// compute agrupa llamadas idénticas concurrentes en un solo cálculo. Una llamada que
// llega después de una escritura no se une a un cálculo iniciado antes de ella.
func (uc *StatsUseCase) compute(ctx context.Context, scope domainledger.Scope) (*dto.StatsResponse, error) {
	key := strconv.FormatInt(writeEpoch.Load(), 10) + ":" + scope.Key()
	resultChan := uc.group.DoChan(key, func() (interface{}, error) {
		return uc.reconcile(context.WithoutCancel(ctx), scope)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		stats := *res.Val.(*dto.StatsResponse)
		return &stats, nil
	}
}

func (uc *StatsUseCase) reconcile(ctx context.Context, scope domainledger.Scope) (*dto.StatsResponse, error) {
	var records []entity.Record
	err := uc.reader.ReadSnapshot(ctx, func(snap repository.LedgerSnapshot) error {
		var err error
		records, err = snap.ListRecords(ctx, scope.Filter())
		return err
	})
	if err != nil {
		return nil, domain.WrapStorage("ledger.snapshot", err)
	}

	var (
		opening decimal.Decimal
		totals  domainledger.LedgerTotals
		tracked domainledger.AssignmentTotals
		g       errgroup.Group
	)
	g.Go(func() error {
		var err error
		opening, err = uc.reconciler.Opening(records, scope)
		return err
	})
	g.Go(func() error {
		totals = domainledger.Aggregate(records, scope)
		return nil
	})
	g.Go(func() error {
		var err error
		tracked, err = uc.reconciler.Track(records, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.logIntegrity(scope, err)
		return nil, err
	}

	balance, err := domainledger.Combine(scope, opening, totals, tracked)
	if err != nil {
		uc.logIntegrity(scope, err)
		return nil, err
	}
	return toStatsResponse(balance, uc.reconciler.Mode()), nil
}

func (uc *StatsUseCase) logIntegrity(scope domainledger.Scope, err error) {
	var ce *domain.ConsistencyError
	if !errors.As(err, &ce) {
		return
	}
	uc.log.Error().
		Str("integrity", "fatal").
		Str("subject", ce.Subject).
		Str("base_id", scope.BaseID).
		Str("equipment_type_id", scope.EquipmentTypeID).
		Str("scope", scope.Key()).
		Msg(ce.Detail)
}
