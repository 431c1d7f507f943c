package entity

// Expenditure gasto registrado (consumo, pérdida, daño): sale del inventario de BaseID.
type Expenditure struct {
	RecordHeader
	BaseID string
	Reason string
}

func (e *Expenditure) Kind() RecordKind { return KindExpenditure }
func (e *Expenditure) Header() *RecordHeader { return &e.RecordHeader }
func (*Expenditure) sealed() {}
