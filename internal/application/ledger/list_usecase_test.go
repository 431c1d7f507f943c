package ledger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/pdf"
)

func TestList_TransferenciasPorEstadoYBase(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)
	ctx := context.Background()

	_, err := e.records.RecordTransfer(ctx, admin, dto.CreateTransferRequest{
		FromBaseID: baseB, ToBaseID: baseA, EquipmentTypeID: radio, Quantity: qty(2), TransferDate: "2024-01-15",
	})
	require.NoError(t, err)

	all, err := e.lists.List(ctx, commanderB, entity.KindTransfer, dto.ListRecordsRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2, "origen o destino")
	assert.Equal(t, "2024-01-15", all.Items[0].Date, "más recientes primero")
	assert.Equal(t, 20, all.Page.Limit)

	pending, err := e.lists.List(ctx, commanderB, entity.KindTransfer, dto.ListRecordsRequest{Status: entity.TransferPending})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "Radio", pending.Items[0].EquipmentTypeName)
}

func TestList_Asignaciones(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)

	out, err := e.lists.List(context.Background(), admin, entity.KindAssignment, dto.ListRecordsRequest{BaseID: baseA})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	item := out.Items[0]
	assert.Equal(t, "John Smith", item.PersonnelName)
	assertDec(t, "15", *item.OutstandingQuantity)
	assert.Equal(t, "2024-01-04", item.ReturnDate)
}

func TestList_Errores(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	ctx := context.Background()

	_, err := e.lists.List(ctx, admin, entity.RecordKind("loan"), dto.ListRecordsRequest{})
	requireReason(t, err, domain.ReasonInvalidField)

	_, err = e.lists.List(ctx, admin, entity.KindPurchase, dto.ListRecordsRequest{Status: entity.TransferPending})
	requireReason(t, err, domain.ReasonInvalidField)

	_, err = e.lists.List(ctx, admin, entity.KindPurchase, dto.ListRecordsRequest{Limit: 500})
	requireReason(t, err, domain.ReasonInvalidField)

	_, err = e.lists.List(ctx, commanderA, entity.KindPurchase, dto.ListRecordsRequest{BaseID: baseB})
	requireAccess(t, err, domain.ReasonForbiddenScope)
}

func TestStatsPDF(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)
	report := ledger.NewReportUseCase(e.stats, pdf.NewStatsReportGenerator())

	out, err := report.StatsPDF(context.Background(), commanderA, dto.StatsRequest{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = report.StatsPDF(context.Background(), commanderA, dto.StatsRequest{BaseID: baseB})
	requireAccess(t, err, domain.ReasonForbiddenScope)
}

