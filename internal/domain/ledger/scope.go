// Package ledger contiene el núcleo de conciliación del libro mayor: resolución de alcance,
// agregación, seguimiento de asignaciones y conciliación de balances. Todas las funciones
// son puras sobre un conjunto de registros ya leído de un snapshot.
package ledger

import (
	"fmt"
	"time"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

// DateRange rango de días calendario [From, Until). From nil = todo el historial.
type DateRange struct {
	From  *time.Time
	Until time.Time
}

// Contains indica si el día d cae dentro del rango.
func (r DateRange) Contains(d time.Time) bool {
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	return d.Before(r.Until)
}

// Scope alcance efectivo ya validado contra el caller. BaseID vacío = todas las bases.
type Scope struct {
	BaseID          string
	EquipmentTypeID string
	Range           DateRange
}

// Preceding devuelve el periodo inmediatamente anterior con los mismos filtros.
// ok=false si el rango ya abarca todo el historial (balance de apertura cero).
func (s Scope) Preceding() (Scope, bool) {
	if s.Range.From == nil {
		return Scope{}, false
	}
	return Scope{
		BaseID:          s.BaseID,
		EquipmentTypeID: s.EquipmentTypeID,
		Range:           DateRange{Until: *s.Range.From},
	}, true
}

// Key identifica el alcance de forma estable (cache, singleflight).
func (s Scope) Key() string {
	from := "-"
	if s.Range.From != nil {
		from = s.Range.From.Format(time.DateOnly)
	}
	return fmt.Sprintf("b=%s|e=%s|from=%s|until=%s", s.BaseID, s.EquipmentTypeID, from, s.Range.Until.Format(time.DateOnly))
}

// Filter filtro de lectura que cubre el alcance y todo su historial previo,
// suficiente para conciliar apertura y periodo con una sola lectura.
func (s Scope) Filter() repository.RecordFilter {
	until := s.Range.Until
	return repository.RecordFilter{
		BaseID:          s.BaseID,
		EquipmentTypeID: s.EquipmentTypeID,
		Until:           &until,
	}
}

func (s Scope) coversBase(id string) bool {
	return s.BaseID == "" || s.BaseID == id
}

// matches filtra por tipo de equipo y rango de fechas.
func (s Scope) matches(h *entity.RecordHeader) bool {
	return (s.EquipmentTypeID == "" || s.EquipmentTypeID == h.EquipmentTypeID) && s.Range.Contains(h.Date)
}
