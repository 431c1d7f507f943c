package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

var (
	_ repository.LedgerWriter   = (*LedgerRepo)(nil)
	_ repository.LedgerSnapshot = (*LedgerRepo)(nil)
)

// LedgerRepo libro mayor sobre SQLite. Siempre atado a una transacción del Store.
type LedgerRepo struct {
	q querier
}

func (r *LedgerRepo) CreatePurchase(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO purchases (id, base_id, equipment_type_id, quantity, supplier, purchase_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.BaseID, p.EquipmentTypeID, p.Quantity.String(), p.Supplier,
		formatDate(p.Date), p.CreatedBy, p.CreatedAt.UTC().Format(timestampLayout),
	)
	return classify("insert purchase", err)
}

func (r *LedgerRepo) CreateTransfer(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO transfers (id, from_base_id, to_base_id, equipment_type_id, quantity, status, transfer_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.FromBaseID, t.ToBaseID, t.EquipmentTypeID, t.Quantity.String(), t.Status,
		formatDate(t.Date), t.CreatedBy, t.CreatedAt.UTC().Format(timestampLayout),
	)
	return classify("insert transfer", err)
}

func (r *LedgerRepo) GetTransfer(ctx context.Context, id string) (*entity.Transfer, error) {
	rec, err := scanTransfer(r.q.QueryRowContext(ctx, transferSelect+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get transfer", err)
	}
	return rec, nil
}

// UpdateTransferStatus UPDATE condicionado al estado actual.
func (r *LedgerRepo) UpdateTransferStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	args := []any{to, id}
	for _, s := range from {
		args = append(args, s)
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE transfers SET status = ? WHERE id = ? AND status IN (`+placeholders(len(from))+`)`, args...)
	if err != nil {
		return false, classify("update transfer status", err)
	}
	n, err := res.RowsAffected()
	return n == 1, classify("update transfer status", err)
}

func (r *LedgerRepo) CreateAssignment(ctx context.Context, a *entity.Assignment) error {
	var returnDate *string
	if a.ReturnDate != nil {
		s := formatDate(*a.ReturnDate)
		returnDate = &s
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO assignments (id, base_id, equipment_type_id, personnel_name, personnel_id,
			assigned_quantity, returned_quantity, assignment_date, return_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.BaseID, a.EquipmentTypeID, a.PersonnelName, a.PersonnelID,
		a.Quantity.String(), a.Returned.String(), formatDate(a.Date), returnDate,
		a.CreatedBy, a.CreatedAt.UTC().Format(timestampLayout),
	)
	return classify("insert assignment", err)
}

func (r *LedgerRepo) GetAssignment(ctx context.Context, id string) (*entity.Assignment, error) {
	rec, err := scanAssignment(r.q.QueryRowContext(ctx, assignmentSelect+` WHERE a.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get assignment", err)
	}
	return rec, nil
}

// AddReturn SQLite no compara decimales en TEXT: se lee el valor, se valida en Go y se escribe
// con un UPDATE condicionado al valor leído (falla si otra escritura se adelantó).
func (r *LedgerRepo) AddReturn(ctx context.Context, id string, qty decimal.Decimal, returnDate time.Time) (bool, error) {
	var assignedText, returnedText string
	err := r.q.QueryRowContext(ctx,
		`SELECT assigned_quantity, returned_quantity FROM assignments WHERE id = ?`, id,
	).Scan(&assignedText, &returnedText)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify("add return", err)
	}
	assigned, err := decimal.NewFromString(assignedText)
	if err != nil {
		return false, classify("add return", err)
	}
	returned, err := decimal.NewFromString(returnedText)
	if err != nil {
		return false, classify("add return", err)
	}
	next := returned.Add(qty)
	if next.GreaterThan(assigned) {
		return false, nil
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE assignments SET returned_quantity = ?, return_date = ? WHERE id = ? AND returned_quantity = ?`,
		next.String(), formatDate(returnDate), id, returnedText,
	)
	if err != nil {
		return false, classify("add return", err)
	}
	n, err := res.RowsAffected()
	return n == 1, classify("add return", err)
}

func (r *LedgerRepo) CreateExpenditure(ctx context.Context, e *entity.Expenditure) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO expenditures (id, base_id, equipment_type_id, quantity, reason, expenditure_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BaseID, e.EquipmentTypeID, e.Quantity.String(), e.Reason,
		formatDate(e.Date), e.CreatedBy, e.CreatedAt.UTC().Format(timestampLayout),
	)
	return classify("insert expenditure", err)
}

// ListRecords un SELECT por tipo pedido; más recientes primero.
func (r *LedgerRepo) ListRecords(ctx context.Context, f repository.RecordFilter) ([]entity.Record, error) {
	var out []entity.Record
	for _, rq := range recordQueries {
		if !f.Includes(rq.kind) {
			continue
		}
		if f.TransferStatus != "" && rq.kind != entity.KindTransfer {
			continue
		}
		query, args := rq.build(f)
		recs, err := r.list(ctx, rq, query, args)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func (r *LedgerRepo) list(ctx context.Context, rq recordQuery, query string, args []any) ([]entity.Record, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list "+string(rq.kind), err)
	}
	defer rows.Close()

	var out []entity.Record
	for rows.Next() {
		rec, err := rq.scan(rows)
		if err != nil {
			return nil, classify("scan "+string(rq.kind), err)
		}
		out = append(out, rec)
	}
	return out, classify("list "+string(rq.kind), rows.Err())
}

type scanner interface{ Scan(...any) error }

const (
	purchaseSelect = `
		SELECT p.id, p.equipment_type_id, et.name, p.quantity, p.purchase_date, p.created_by, p.created_at,
			p.base_id, p.supplier
		FROM purchases p JOIN equipment_types et ON et.id = p.equipment_type_id`
	transferSelect = `
		SELECT t.id, t.equipment_type_id, et.name, t.quantity, t.transfer_date, t.created_by, t.created_at,
			t.from_base_id, t.to_base_id, t.status
		FROM transfers t JOIN equipment_types et ON et.id = t.equipment_type_id`
	assignmentSelect = `
		SELECT a.id, a.equipment_type_id, et.name, a.assigned_quantity, a.assignment_date, a.created_by, a.created_at,
			a.base_id, a.personnel_name, a.personnel_id, a.returned_quantity, a.return_date
		FROM assignments a JOIN equipment_types et ON et.id = a.equipment_type_id`
	expenditureSelect = `
		SELECT e.id, e.equipment_type_id, et.name, e.quantity, e.expenditure_date, e.created_by, e.created_at,
			e.base_id, e.reason
		FROM expenditures e JOIN equipment_types et ON et.id = e.equipment_type_id`
)

type recordQuery struct {
	kind       entity.RecordKind
	selectSQL  string
	alias      string
	dateColumn string
	baseCols   []string
	scan       func(scanner) (entity.Record, error)
}

var recordQueries = []recordQuery{
	{entity.KindPurchase, purchaseSelect, "p", "purchase_date", []string{"base_id"},
		func(s scanner) (entity.Record, error) { return scanPurchase(s) }},
	{entity.KindTransfer, transferSelect, "t", "transfer_date", []string{"from_base_id", "to_base_id"},
		func(s scanner) (entity.Record, error) { return scanTransfer(s) }},
	{entity.KindAssignment, assignmentSelect, "a", "assignment_date", []string{"base_id"},
		func(s scanner) (entity.Record, error) { return scanAssignment(s) }},
	{entity.KindExpenditure, expenditureSelect, "e", "expenditure_date", []string{"base_id"},
		func(s scanner) (entity.Record, error) { return scanExpenditure(s) }},
}

func (s recordQuery) build(f repository.RecordFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	col := func(name string) string { return s.alias + "." + name }

	if f.BaseID != "" {
		var ors []string
		for _, c := range s.baseCols {
			ors = append(ors, col(c)+" = ?")
			args = append(args, f.BaseID)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.EquipmentTypeID != "" {
		conds = append(conds, col("equipment_type_id")+" = ?")
		args = append(args, f.EquipmentTypeID)
	}
	if f.From != nil {
		conds = append(conds, col(s.dateColumn)+" >= ?")
		args = append(args, formatDate(*f.From))
	}
	if f.Until != nil {
		conds = append(conds, col(s.dateColumn)+" < ?")
		args = append(args, formatDate(*f.Until))
	}
	if f.TransferStatus != "" && s.kind == entity.KindTransfer {
		conds = append(conds, col("status")+" = ?")
		args = append(args, f.TransferStatus)
	}

	query := s.selectSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + col(s.dateColumn) + " DESC, " + col("created_at") + " DESC, " + col("id")
	if f.Limit > 0 || f.Offset > 0 {
		limit := f.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, f.Offset)
	}
	return query, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// headerFields destinos de Scan para las columnas comunes; finish convierte texto a tipos.
func headerFields(h *entity.RecordHeader) (dest []any, finish func() error) {
	var qty, date, createdAt string
	dest = []any{&h.ID, &h.EquipmentTypeID, &h.EquipmentTypeName, &qty, &date, &h.CreatedBy, &createdAt}
	finish = func() error {
		var err error
		if h.Quantity, err = decimal.NewFromString(qty); err != nil {
			return err
		}
		if h.Date, err = parseDate(date); err != nil {
			return err
		}
		h.CreatedAt, err = parseTimestamp(createdAt)
		return err
	}
	return dest, finish
}

func scanPurchase(s scanner) (*entity.Purchase, error) {
	var p entity.Purchase
	dest, finish := headerFields(&p.RecordHeader)
	if err := s.Scan(append(dest, &p.BaseID, &p.Supplier)...); err != nil {
		return nil, err
	}
	return &p, finish()
}

func scanTransfer(s scanner) (*entity.Transfer, error) {
	var t entity.Transfer
	dest, finish := headerFields(&t.RecordHeader)
	if err := s.Scan(append(dest, &t.FromBaseID, &t.ToBaseID, &t.Status)...); err != nil {
		return nil, err
	}
	return &t, finish()
}

func scanAssignment(s scanner) (*entity.Assignment, error) {
	var (
		a          entity.Assignment
		returned   string
		returnDate sql.NullString
	)
	dest, finish := headerFields(&a.RecordHeader)
	if err := s.Scan(append(dest, &a.BaseID, &a.PersonnelName, &a.PersonnelID, &returned, &returnDate)...); err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	var err error
	if a.Returned, err = decimal.NewFromString(returned); err != nil {
		return nil, err
	}
	if returnDate.Valid {
		d, err := parseDate(returnDate.String)
		if err != nil {
			return nil, err
		}
		a.ReturnDate = &d
	}
	return &a, nil
}

func scanExpenditure(s scanner) (*entity.Expenditure, error) {
	var e entity.Expenditure
	dest, finish := headerFields(&e.RecordHeader)
	if err := s.Scan(append(dest, &e.BaseID, &e.Reason)...); err != nil {
		return nil, err
	}
	return &e, finish()
}
