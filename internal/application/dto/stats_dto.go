package dto

import "github.com/shopspring/decimal"

// StatsRequest filtros de GET /api/dashboard/stats. Fechas en formato YYYY-MM-DD, ambas inclusivas.
type StatsRequest struct {
	BaseID          string `query:"base_id" validate:"omitempty,max=64"`
	EquipmentTypeID string `query:"equipment_type_id" validate:"omitempty,max=64"`
	StartDate       string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// BreakdownEntry total por tipo de equipo.
type BreakdownEntry struct {
	EquipmentTypeID   string          `json:"equipment_type_id"`
	EquipmentTypeName string          `json:"equipment_type_name"`
	Total             decimal.Decimal `json:"total"`
}

// StatsBreakdown desglose por tipo de equipo, ordenado por nombre.
type StatsBreakdown struct {
	Purchases    []BreakdownEntry `json:"purchases"`
	TransfersIn  []BreakdownEntry `json:"transfers_in"`
	TransfersOut []BreakdownEntry `json:"transfers_out"`
	Assigned     []BreakdownEntry `json:"assigned"`
	Expended     []BreakdownEntry `json:"expended"`
	Net          []BreakdownEntry `json:"net"`
}

// StatsResponse conciliación de un alcance efectivo.
// closing_balance = opening_balance + net_movement.
type StatsResponse struct {
	BaseID          string `json:"base_id,omitempty"`
	EquipmentTypeID string `json:"equipment_type_id,omitempty"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date"`
	ExpenditureMode string `json:"expenditure_mode"`

	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	NetMovement      decimal.Decimal `json:"net_movement"`
	Purchases        decimal.Decimal `json:"purchases"`
	TransfersIn      decimal.Decimal `json:"transfers_in"`
	TransfersOut     decimal.Decimal `json:"transfers_out"`
	AssignedTotal    decimal.Decimal `json:"assigned_total"`
	ReturnedTotal    decimal.Decimal `json:"returned_total"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	ExpendedTotal    decimal.Decimal `json:"expended_total"`

	Breakdown StatsBreakdown `json:"breakdown"`
}
