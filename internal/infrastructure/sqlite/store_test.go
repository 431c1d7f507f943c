package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/sqlite"
)

func day(n int) time.Time { return time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC) }

func header(id string, qty int64, date time.Time) entity.RecordHeader {
	return entity.RecordHeader{
		ID:              id,
		EquipmentTypeID: "eq-rifle",
		Quantity:        decimal.NewFromInt(qty),
		Date:            date,
		CreatedBy:       "u-1",
		CreatedAt:       date.Add(8 * time.Hour),
	}
}

func seed(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()
	store := sqlite.NewTestStore(t)
	now := time.Now().UTC()
	require.NoError(t, store.Bases().Create(ctx, &entity.Base{ID: "b-alpha", Name: "Alpha", CreatedAt: now}))
	require.NoError(t, store.Bases().Create(ctx, &entity.Base{ID: "b-bravo", Name: "Bravo", CreatedAt: now}))
	require.NoError(t, store.EquipmentTypes().Create(ctx, &entity.EquipmentType{ID: "eq-rifle", Name: "Rifle", Category: "weapon", CreatedAt: now}))
	return store
}

func write(t *testing.T, store *sqlite.Store, fn func(repo repository.LedgerWriter) error) {
	t.Helper()
	err := store.Run(context.Background(), func(l repository.LedgerWriter, _ repository.BaseRepository, _ repository.EquipmentTypeRepository) error {
		return fn(l)
	})
	require.NoError(t, err)
}

func list(t *testing.T, store *sqlite.Store, f repository.RecordFilter) []entity.Record {
	t.Helper()
	var out []entity.Record
	err := store.ReadSnapshot(context.Background(), func(snap repository.LedgerSnapshot) error {
		var err error
		out, err = snap.ListRecords(context.Background(), f)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestStore_ReferenceData(t *testing.T) {
	ctx := context.Background()
	store := seed(t)

	b, err := store.Bases().GetByID(ctx, "b-alpha")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "Alpha", b.Name)

	missing, err := store.Bases().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	bases, err := store.Bases().List(ctx)
	require.NoError(t, err)
	require.Len(t, bases, 2)
	assert.Equal(t, "Alpha", bases[0].Name)

	err = store.Bases().Create(ctx, &entity.Base{ID: "b-other", Name: "Alpha", CreatedAt: time.Now()})
	assert.True(t, errors.Is(err, domain.ErrDuplicate), "nombre repetido: %v", err)
}

func TestStore_ListRecords_FiltraYOrdena(t *testing.T) {
	store := seed(t)
	write(t, store, func(repo repository.LedgerWriter) error {
		if err := repo.CreatePurchase(context.Background(), &entity.Purchase{RecordHeader: header("p-1", 100, day(1)), BaseID: "b-alpha", Supplier: "ACME"}); err != nil {
			return err
		}
		if err := repo.CreatePurchase(context.Background(), &entity.Purchase{RecordHeader: header("p-2", 5, day(10)), BaseID: "b-bravo"}); err != nil {
			return err
		}
		if err := repo.CreateTransfer(context.Background(), &entity.Transfer{RecordHeader: header("t-1", 20, day(5)), FromBaseID: "b-alpha", ToBaseID: "b-bravo", Status: entity.TransferCompleted}); err != nil {
			return err
		}
		return repo.CreateExpenditure(context.Background(), &entity.Expenditure{RecordHeader: header("e-1", 3, day(6)), BaseID: "b-alpha", Reason: "training"})
	})

	all := list(t, store, repository.RecordFilter{BaseID: "b-alpha"})
	require.Len(t, all, 3)

	p := all[0].(*entity.Purchase)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "Rifle", p.EquipmentTypeName)
	assert.True(t, p.Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, day(1), p.Date)
	assert.Equal(t, "ACME", p.Supplier)

	tr := all[1].(*entity.Transfer)
	assert.Equal(t, "b-bravo", tr.ToBaseID)

	until := day(6)
	windowed := list(t, store, repository.RecordFilter{From: ptr(day(2)), Until: &until})
	require.Len(t, windowed, 1, "from inclusivo, until exclusivo")
	assert.Equal(t, "t-1", windowed[0].Header().ID)

	bravo := list(t, store, repository.RecordFilter{BaseID: "b-bravo", Kinds: []entity.RecordKind{entity.KindTransfer}})
	require.Len(t, bravo, 1, "la transferencia aparece también en la base destino")

	pending := list(t, store, repository.RecordFilter{TransferStatus: entity.TransferPending})
	assert.Empty(t, pending)
}

func TestStore_ListRecords_Paginacion(t *testing.T) {
	store := seed(t)
	write(t, store, func(repo repository.LedgerWriter) error {
		for i, id := range []string{"p-a", "p-b", "p-c"} {
			if err := repo.CreatePurchase(context.Background(), &entity.Purchase{RecordHeader: header(id, 1, day(i+1)), BaseID: "b-alpha"}); err != nil {
				return err
			}
		}
		return nil
	})

	page := list(t, store, repository.RecordFilter{Kinds: []entity.RecordKind{entity.KindPurchase}, Limit: 2, Offset: 1})
	require.Len(t, page, 2)
	assert.Equal(t, "p-b", page[0].Header().ID, "más recientes primero")
	assert.Equal(t, "p-a", page[1].Header().ID)
}

func TestStore_UpdateTransferStatus_Condicional(t *testing.T) {
	store := seed(t)
	write(t, store, func(repo repository.LedgerWriter) error {
		return repo.CreateTransfer(context.Background(), &entity.Transfer{RecordHeader: header("t-1", 10, day(2)), FromBaseID: "b-alpha", ToBaseID: "b-bravo", Status: entity.TransferPending})
	})

	write(t, store, func(repo repository.LedgerWriter) error {
		ok, err := repo.UpdateTransferStatus(context.Background(), "t-1", []string{entity.TransferPending}, entity.TransferInTransit)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.UpdateTransferStatus(context.Background(), "t-1", []string{entity.TransferPending}, entity.TransferCancelled)
		require.NoError(t, err)
		assert.False(t, ok, "el estado observado ya no es pending")

		got, err := repo.GetTransfer(context.Background(), "t-1")
		require.NoError(t, err)
		assert.Equal(t, entity.TransferInTransit, got.Status)

		missing, err := repo.GetTransfer(context.Background(), "t-x")
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
}

func TestStore_AddReturn_NoExcedeAsignado(t *testing.T) {
	store := seed(t)
	write(t, store, func(repo repository.LedgerWriter) error {
		return repo.CreateAssignment(context.Background(), &entity.Assignment{
			RecordHeader:  header("a-1", 10, day(3)),
			BaseID:        "b-alpha",
			PersonnelName: "Sgt. Rivera",
			Returned:      decimal.Zero,
		})
	})

	write(t, store, func(repo repository.LedgerWriter) error {
		ok, err := repo.AddReturn(context.Background(), "a-1", decimal.NewFromInt(4), day(8))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.AddReturn(context.Background(), "a-1", decimal.NewFromInt(7), day(9))
		require.NoError(t, err)
		assert.False(t, ok, "4 + 7 supera lo asignado")

		ok, err = repo.AddReturn(context.Background(), "a-1", decimal.NewFromInt(6), day(9))
		require.NoError(t, err)
		assert.True(t, ok)

		a, err := repo.GetAssignment(context.Background(), "a-1")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.True(t, a.Returned.Equal(decimal.NewFromInt(10)))
		assert.True(t, a.Outstanding().IsZero())
		require.NotNil(t, a.ReturnDate)
		assert.Equal(t, day(9), *a.ReturnDate)
		return nil
	})
}

func TestStore_Run_RollbackEnError(t *testing.T) {
	store := seed(t)
	boom := errors.New("boom")
	err := store.Run(context.Background(), func(l repository.LedgerWriter, _ repository.BaseRepository, _ repository.EquipmentTypeRepository) error {
		if err := l.CreatePurchase(context.Background(), &entity.Purchase{RecordHeader: header("p-1", 1, day(1)), BaseID: "b-alpha"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, list(t, store, repository.RecordFilter{}))
}

func TestStore_DuplicateID(t *testing.T) {
	store := seed(t)
	write(t, store, func(repo repository.LedgerWriter) error {
		return repo.CreatePurchase(context.Background(), &entity.Purchase{RecordHeader: header("p-1", 1, day(1)), BaseID: "b-alpha"})
	})
	err := store.Run(context.Background(), func(l repository.LedgerWriter, _ repository.BaseRepository, _ repository.EquipmentTypeRepository) error {
		return l.CreatePurchase(context.Background(), &entity.Purchase{RecordHeader: header("p-1", 1, day(1)), BaseID: "b-alpha"})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func ptr(t time.Time) *time.Time { return &t }
