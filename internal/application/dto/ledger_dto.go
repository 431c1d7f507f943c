package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	BaseID          string          `json:"base_id" validate:"required,max=64"`
	EquipmentTypeID string          `json:"equipment_type_id" validate:"required,max=64"`
	Quantity        decimal.Decimal `json:"quantity"`
	Supplier        string          `json:"supplier" validate:"max=200"`
	PurchaseDate    string          `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateTransferRequest body para POST /api/transfers. Status por defecto: pending.
type CreateTransferRequest struct {
	FromBaseID      string          `json:"from_base_id" validate:"required,max=64"`
	ToBaseID        string          `json:"to_base_id" validate:"required,max=64"`
	EquipmentTypeID string          `json:"equipment_type_id" validate:"required,max=64"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status" validate:"omitempty,oneof=pending in_transit completed"`
	TransferDate    string          `json:"transfer_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTransferStatusRequest body para PATCH /api/transfers/:id/status.
type UpdateTransferStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_transit completed cancelled"`
}

// CreateAssignmentRequest body para POST /api/assignments.
type CreateAssignmentRequest struct {
	BaseID          string          `json:"base_id" validate:"required,max=64"`
	EquipmentTypeID string          `json:"equipment_type_id" validate:"required,max=64"`
	PersonnelName   string          `json:"personnel_name" validate:"required,max=200"`
	PersonnelID     string          `json:"personnel_id" validate:"omitempty,max=50"`
	Quantity        decimal.Decimal `json:"assigned_quantity"`
	AssignmentDate  string          `json:"assignment_date" validate:"omitempty,datetime=2006-01-02"`
}

// RecordReturnRequest body para POST /api/assignments/:id/returns.
type RecordReturnRequest struct {
	Quantity   decimal.Decimal `json:"quantity"`
	ReturnDate string          `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateExpenditureRequest body para POST /api/expenditures.
type CreateExpenditureRequest struct {
	BaseID          string          `json:"base_id" validate:"required,max=64"`
	EquipmentTypeID string          `json:"equipment_type_id" validate:"required,max=64"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reason          string          `json:"reason" validate:"required,max=500"`
	ExpenditureDate string          `json:"expenditure_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListRecordsRequest filtros de los listados GET /api/{purchases,transfers,assignments,expenditures}.
type ListRecordsRequest struct {
	BaseID          string `query:"base_id" validate:"omitempty,max=64"`
	EquipmentTypeID string `query:"equipment_type_id" validate:"omitempty,max=64"`
	StartDate       string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status          string `query:"status" validate:"omitempty,oneof=pending in_transit completed cancelled"`
	Limit           int    `query:"limit" validate:"min=0,max=100"`
	Offset          int    `query:"offset" validate:"min=0"`
}

// Filters filtros de alcance del listado.
func (r ListRecordsRequest) Filters() StatsRequest {
	return StatsRequest{BaseID: r.BaseID, EquipmentTypeID: r.EquipmentTypeID, StartDate: r.StartDate, EndDate: r.EndDate}
}

// Page paginación del listado con valores por defecto aplicados.
func (r ListRecordsRequest) Page() PageRequest {
	p := PageRequest{Limit: r.Limit, Offset: r.Offset}
	p.DefaultPage()
	return p
}

// RecordResponse registro del libro mayor en forma plana; los campos vacíos dependen de Kind.
type RecordResponse struct {
	ID                string          `json:"id"`
	Kind              string          `json:"kind"`
	EquipmentTypeID   string          `json:"equipment_type_id"`
	EquipmentTypeName string          `json:"equipment_type_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	Date              string          `json:"date"`
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`

	BaseID     string `json:"base_id,omitempty"`
	FromBaseID string `json:"from_base_id,omitempty"`
	ToBaseID   string `json:"to_base_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Supplier   string `json:"supplier,omitempty"`
	Reason     string `json:"reason,omitempty"`

	PersonnelName       string           `json:"personnel_name,omitempty"`
	PersonnelID         string           `json:"personnel_id,omitempty"`
	ReturnedQuantity    *decimal.Decimal `json:"returned_quantity,omitempty"`
	OutstandingQuantity *decimal.Decimal `json:"outstanding_quantity,omitempty"`
	ReturnDate          string           `json:"return_date,omitempty"`
}

// RecordListResponse lista paginada de registros.
type RecordListResponse struct {
	Items []RecordResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
