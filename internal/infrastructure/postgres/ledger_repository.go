package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

var (
	_ repository.LedgerWriter   = (*LedgerRepo)(nil)
	_ repository.LedgerSnapshot = (*LedgerRepo)(nil)
)

// LedgerRepo lecturas y escrituras del libro mayor (compras, transferencias, asignaciones, gastos).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// CreatePurchase persiste una compra.
func (r *LedgerRepo) CreatePurchase(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, base_id, equipment_type_id, quantity, supplier, purchase_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BaseID, p.EquipmentTypeID, p.Quantity, p.Supplier, p.Date, p.CreatedBy, p.CreatedAt,
	)
	return classify("insert purchase", err)
}

// CreateTransfer persiste una transferencia.
func (r *LedgerRepo) CreateTransfer(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, from_base_id, to_base_id, equipment_type_id, quantity, status, transfer_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FromBaseID, t.ToBaseID, t.EquipmentTypeID, t.Quantity, t.Status, t.Date, t.CreatedBy, t.CreatedAt,
	)
	return classify("insert transfer", err)
}

// GetTransfer obtiene una transferencia por ID.
func (r *LedgerRepo) GetTransfer(ctx context.Context, id string) (*entity.Transfer, error) {
	query := transferSelect + ` WHERE t.id = $1`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get transfer", err)
	}
	return t, nil
}

// UpdateTransferStatus cambia el estado solo si el actual está en from.
func (r *LedgerRepo) UpdateTransferStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	query := `UPDATE transfers SET status = $2 WHERE id = $1 AND status = ANY($3)`
	cmd, err := r.q.Exec(ctx, query, id, to, from)
	if err != nil {
		return false, classify("update transfer status", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// CreateAssignment persiste una asignación.
func (r *LedgerRepo) CreateAssignment(ctx context.Context, a *entity.Assignment) error {
	query := `
		INSERT INTO assignments (id, base_id, equipment_type_id, personnel_name, personnel_id,
			assigned_quantity, returned_quantity, assignment_date, return_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.BaseID, a.EquipmentTypeID, a.PersonnelName, a.PersonnelID,
		a.Quantity, a.Returned, a.Date, a.ReturnDate, a.CreatedBy, a.CreatedAt,
	)
	return classify("insert assignment", err)
}

// GetAssignment obtiene una asignación por ID.
func (r *LedgerRepo) GetAssignment(ctx context.Context, id string) (*entity.Assignment, error) {
	query := assignmentSelect + ` WHERE a.id = $1`
	a, err := scanAssignment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get assignment", err)
	}
	return a, nil
}

// AddReturn suma qty a returned_quantity solo si no supera assigned_quantity.
func (r *LedgerRepo) AddReturn(ctx context.Context, id string, qty decimal.Decimal, returnDate time.Time) (bool, error) {
	query := `
		UPDATE assignments
		SET returned_quantity = returned_quantity + $2, return_date = $3
		WHERE id = $1 AND returned_quantity + $2 <= assigned_quantity`
	cmd, err := r.q.Exec(ctx, query, id, qty, returnDate)
	if err != nil {
		return false, classify("add return", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// CreateExpenditure persiste un gasto.
func (r *LedgerRepo) CreateExpenditure(ctx context.Context, e *entity.Expenditure) error {
	query := `
		INSERT INTO expenditures (id, base_id, equipment_type_id, quantity, reason, expenditure_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.BaseID, e.EquipmentTypeID, e.Quantity, e.Reason, e.Date, e.CreatedBy, e.CreatedAt,
	)
	return classify("insert expenditure", err)
}

// ListRecords lee los registros que cumplen el filtro, un SELECT por tipo pedido.
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
		rows, err := r.q.Query(ctx, query, args...)
		if err != nil {
			return nil, classify("list "+string(rq.kind), err)
		}
		for rows.Next() {
			rec, err := rq.scan(rows)
			if err != nil {
				rows.Close()
				return nil, classify("scan "+string(rq.kind), err)
			}
			out = append(out, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, classify("list "+string(rq.kind), err)
		}
	}
	return out, nil
}

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
	baseCols   []string // transferencias: origen o destino
	scan       func(pgx.Row) (entity.Record, error)
}

var recordQueries = []recordQuery{
	{entity.KindPurchase, purchaseSelect, "p", "purchase_date", []string{"base_id"},
		func(row pgx.Row) (entity.Record, error) { return scanPurchase(row) }},
	{entity.KindTransfer, transferSelect, "t", "transfer_date", []string{"from_base_id", "to_base_id"},
		func(row pgx.Row) (entity.Record, error) { return scanTransfer(row) }},
	{entity.KindAssignment, assignmentSelect, "a", "assignment_date", []string{"base_id"},
		func(row pgx.Row) (entity.Record, error) { return scanAssignment(row) }},
	{entity.KindExpenditure, expenditureSelect, "e", "expenditure_date", []string{"base_id"},
		func(row pgx.Row) (entity.Record, error) { return scanExpenditure(row) }},
}

// build arma el SELECT con filtros posicionales ($n).
func (s recordQuery) build(f repository.RecordFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	col := func(name string) string { return s.alias + "." + name }

	if f.BaseID != "" {
		p := arg(f.BaseID)
		var ors []string
		for _, c := range s.baseCols {
			ors = append(ors, col(c)+" = "+p)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.EquipmentTypeID != "" {
		conds = append(conds, col("equipment_type_id")+" = "+arg(f.EquipmentTypeID))
	}
	if f.From != nil {
		conds = append(conds, col(s.dateColumn)+" >= "+arg(*f.From))
	}
	if f.Until != nil {
		conds = append(conds, col(s.dateColumn)+" < "+arg(*f.Until))
	}
	if f.TransferStatus != "" && s.kind == entity.KindTransfer {
		conds = append(conds, col("status")+" = "+arg(f.TransferStatus))
	}

	query := s.selectSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s DESC, %s DESC, %s", col(s.dateColumn), col("created_at"), col("id"))
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}
	return query, args
}

func scanHeader(h *entity.RecordHeader) []any {
	return []any{&h.ID, &h.EquipmentTypeID, &h.EquipmentTypeName, &h.Quantity, &h.Date, &h.CreatedBy, &h.CreatedAt}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	if err := row.Scan(append(scanHeader(&p.RecordHeader), &p.BaseID, &p.Supplier)...); err != nil {
		return nil, err
	}
	p.Date = entity.Day(p.Date)
	return &p, nil
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	if err := row.Scan(append(scanHeader(&t.RecordHeader), &t.FromBaseID, &t.ToBaseID, &t.Status)...); err != nil {
		return nil, err
	}
	t.Date = entity.Day(t.Date)
	return &t, nil
}

func scanAssignment(row pgx.Row) (*entity.Assignment, error) {
	var a entity.Assignment
	if err := row.Scan(append(scanHeader(&a.RecordHeader),
		&a.BaseID, &a.PersonnelName, &a.PersonnelID, &a.Returned, &a.ReturnDate)...); err != nil {
		return nil, err
	}
	a.Date = entity.Day(a.Date)
	return &a, nil
}

func scanExpenditure(row pgx.Row) (*entity.Expenditure, error) {
	var e entity.Expenditure
	if err := row.Scan(append(scanHeader(&e.RecordHeader), &e.BaseID, &e.Reason)...); err != nil {
		return nil, err
	}
	e.Date = entity.Day(e.Date)
	return &e, nil
}
