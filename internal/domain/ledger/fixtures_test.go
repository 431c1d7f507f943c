package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

const (
	baseA = "base-a"
	baseB = "base-b"
	rifle = "eq-rifle"
	radio = "eq-radio"
)

var names = map[string]string{rifle: "Rifle", radio: "Radio"}

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func header(id, eq string, qty int64, d int) entity.RecordHeader {
	return entity.RecordHeader{
		ID:                id,
		EquipmentTypeID:   eq,
		EquipmentTypeName: names[eq],
		Quantity:          decimal.NewFromInt(qty),
		Date:              day(d),
		CreatedBy:         "tester",
	}
}

func purchase(id, base, eq string, qty int64, d int) *entity.Purchase {
	return &entity.Purchase{RecordHeader: header(id, eq, qty, d), BaseID: base, Supplier: "Defense Corp"}
}

func transfer(id, from, to, eq string, qty int64, d int, status string) *entity.Transfer {
	return &entity.Transfer{RecordHeader: header(id, eq, qty, d), FromBaseID: from, ToBaseID: to, Status: status}
}

func assignment(id, base, eq string, qty, returned int64, d int) *entity.Assignment {
	return &entity.Assignment{
		RecordHeader:  header(id, eq, qty, d),
		BaseID:        base,
		PersonnelName: "John Smith",
		Returned:      decimal.NewFromInt(returned),
	}
}

func expenditure(id, base, eq string, qty int64, d int) *entity.Expenditure {
	return &entity.Expenditure{RecordHeader: header(id, eq, qty, d), BaseID: base, Reason: "Training exercise"}
}

// scenario compra 100 rifles en A (día 1), transfiere 30 a B completada (día 2),
// asigna 20 en A (día 3) de los que se devuelven 5.
func scenario() []entity.Record {
	return []entity.Record{
		purchase("p1", baseA, rifle, 100, 1),
		transfer("t1", baseA, baseB, rifle, 30, 2, entity.TransferCompleted),
		assignment("a1", baseA, rifle, 20, 5, 3),
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]interface{}{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}
