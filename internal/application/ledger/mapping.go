package ledger

import (
	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
)

func toStatsResponse(b domainledger.Balance, mode domainledger.ExpenditureMode) *dto.StatsResponse {
	out := &dto.StatsResponse{
		BaseID:           b.Scope.BaseID,
		EquipmentTypeID:  b.Scope.EquipmentTypeID,
		EndDate:          b.Scope.Range.Until.AddDate(0, 0, -1).Format(dto.DateLayout),
		ExpenditureMode:  string(mode),
		OpeningBalance:   b.Opening,
		ClosingBalance:   b.Closing,
		NetMovement:      b.NetMovement,
		Purchases:        b.Purchases,
		TransfersIn:      b.TransfersIn,
		TransfersOut:     b.TransfersOut,
		AssignedTotal:    b.Assigned,
		ReturnedTotal:    b.Returned,
		OutstandingTotal: b.Outstanding,
		ExpendedTotal:    b.Expended,
		Breakdown: dto.StatsBreakdown{
			Purchases:    toBreakdown(b.Breakdown.Purchases),
			TransfersIn:  toBreakdown(b.Breakdown.TransfersIn),
			TransfersOut: toBreakdown(b.Breakdown.TransfersOut),
			Assigned:     toBreakdown(b.Breakdown.Assigned),
			Expended:     toBreakdown(b.Breakdown.Expended),
			Net:          toBreakdown(b.Breakdown.Net),
		},
	}
	if b.Scope.Range.From != nil {
		out.StartDate = b.Scope.Range.From.Format(dto.DateLayout)
	}
	return out
}

func toBreakdown(list []domainledger.EquipmentTotal) []dto.BreakdownEntry {
	out := make([]dto.BreakdownEntry, 0, len(list))
	for _, e := range list {
		out = append(out, dto.BreakdownEntry{
			EquipmentTypeID:   e.EquipmentTypeID,
			EquipmentTypeName: e.EquipmentTypeName,
			Total:             e.Total,
		})
	}
	return out
}

func toRecordResponse(rec entity.Record) dto.RecordResponse {
	h := rec.Header()
	out := dto.RecordResponse{
		ID:                h.ID,
		Kind:              string(rec.Kind()),
		EquipmentTypeID:   h.EquipmentTypeID,
		EquipmentTypeName: h.EquipmentTypeName,
		Quantity:          h.Quantity,
		Date:              h.Date.Format(dto.DateLayout),
		CreatedBy:         h.CreatedBy,
		CreatedAt:         h.CreatedAt,
	}
	switch r := rec.(type) {
	case *entity.Purchase:
		out.BaseID = r.BaseID
		out.Supplier = r.Supplier
	case *entity.Transfer:
		out.FromBaseID = r.FromBaseID
		out.ToBaseID = r.ToBaseID
		out.Status = r.Status
	case *entity.Assignment:
		returned, outstanding := r.Returned, r.Outstanding()
		out.BaseID = r.BaseID
		out.PersonnelName = r.PersonnelName
		out.PersonnelID = r.PersonnelID
		out.ReturnedQuantity = &returned
		out.OutstandingQuantity = &outstanding
		if r.ReturnDate != nil {
			out.ReturnDate = r.ReturnDate.Format(dto.DateLayout)
		}
	case *entity.Expenditure:
		out.BaseID = r.BaseID
		out.Reason = r.Reason
	}
	return out
}
