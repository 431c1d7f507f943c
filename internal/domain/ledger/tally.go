package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// EquipmentTotal total por tipo de equipo.
type EquipmentTotal struct {
	EquipmentTypeID   string
	EquipmentTypeName string
	Total             decimal.Decimal
}

// tally acumula totales por tipo de equipo.
type tally map[string]*EquipmentTotal

func (t tally) add(id, name string, qty decimal.Decimal) {
	e, ok := t[id]
	if !ok {
		e = &EquipmentTotal{EquipmentTypeID: id, EquipmentTypeName: name, Total: decimal.Zero}
		t[id] = e
	}
	if e.EquipmentTypeName == "" {
		e.EquipmentTypeName = name
	}
	e.Total = e.Total.Add(qty)
}

func (t tally) addAll(list []EquipmentTotal, sign int64) {
	for _, e := range list {
		t.add(e.EquipmentTypeID, e.EquipmentTypeName, e.Total.Mul(decimal.NewFromInt(sign)))
	}
}

// sorted devuelve los totales ordenados por nombre (collation Unicode) y luego por id.
func (t tally) sorted() []EquipmentTotal {
	out := make([]EquipmentTotal, 0, len(t))
	for _, e := range t {
		out = append(out, *e)
	}
	sortEquipment(out)
	return out
}

func sortEquipment(list []EquipmentTotal) {
	// collate.Collator no es seguro para uso concurrente.
	c := collate.New(language.Und)
	sort.SliceStable(list, func(i, j int) bool {
		if cmp := c.CompareString(list[i].EquipmentTypeName, list[j].EquipmentTypeName); cmp != 0 {
			return cmp < 0
		}
		return list[i].EquipmentTypeID < list[j].EquipmentTypeID
	})
}

// sumTotals suma los totales de una lista.
func sumTotals(list []EquipmentTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range list {
		sum = sum.Add(e.Total)
	}
	return sum
}
