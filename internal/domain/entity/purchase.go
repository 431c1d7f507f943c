package entity

// Purchase compra: incrementa el inventario en BaseID.
type Purchase struct {
	RecordHeader
	BaseID   string
	Supplier string
}

func (p *Purchase) Kind() RecordKind { return KindPurchase }
func (p *Purchase) Header() *RecordHeader { return &p.RecordHeader }
func (*Purchase) sealed() {}
