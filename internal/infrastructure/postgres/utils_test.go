package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("op", nil))
	assert.ErrorIs(t, classify("op", &pgconn.PgError{Code: "40001"}), domain.ErrConflict)
	assert.ErrorIs(t, classify("op", &pgconn.PgError{Code: "40P01"}), domain.ErrConflict)
	assert.ErrorIs(t, classify("op", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)

	plain := errors.New("boom")
	err := classify("op", plain)
	assert.ErrorIs(t, err, plain)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestClassify_ValorRechazadoEsValidacion(t *testing.T) {
	for _, pgErr := range []*pgconn.PgError{
		{Code: "23514", ConstraintName: "purchases_quantity_check"},
		{Code: "22003", ColumnName: "quantity"},
	} {
		err := classify("purchase.create", pgErr)
		var ve *domain.ValidationError
		if assert.ErrorAs(t, err, &ve, pgErr.Code) {
			assert.Equal(t, domain.ReasonInvalidField, ve.Reason)
		}
		var se *domain.StorageError
		assert.False(t, errors.As(domain.WrapStorage("purchase.create", err), &se), "no se reporta como almacenamiento caído")
	}
}

func TestRecordQuery_Build(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	f := repository.RecordFilter{
		BaseID:          "base-a",
		EquipmentTypeID: "eq-1",
		From:            &from,
		Until:           &until,
		TransferStatus:  entity.TransferCompleted,
		Limit:           20,
		Offset:          40,
	}

	var transfers recordQuery
	for _, q := range recordQueries {
		if q.kind == entity.KindTransfer {
			transfers = q
		}
	}
	query, args := transfers.build(f)
	assert.Contains(t, query, "(t.from_base_id = $1 OR t.to_base_id = $1)")
	assert.Contains(t, query, "t.equipment_type_id = $2")
	assert.Contains(t, query, "t.transfer_date >= $3")
	assert.Contains(t, query, "t.transfer_date < $4")
	assert.Contains(t, query, "t.status = $5")
	assert.Contains(t, query, "LIMIT $6")
	assert.Contains(t, query, "OFFSET $7")
	assert.Equal(t, []any{"base-a", "eq-1", from, until, entity.TransferCompleted, 20, 40}, args)

	query, args = recordQueries[0].build(repository.RecordFilter{})
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}
