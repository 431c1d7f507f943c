package entity

// Estados de una transferencia.
const (
	TransferPending   = "pending"
	TransferInTransit = "in_transit"
	TransferCompleted = "completed"
	TransferCancelled = "cancelled"
)

// Transfer traslado entre bases. Solo afecta balances cuando Status == completed.
type Transfer struct {
	RecordHeader
	FromBaseID string
	ToBaseID   string
	Status     string
}

func (t *Transfer) Kind() RecordKind { return KindTransfer }
func (t *Transfer) Header() *RecordHeader { return &t.RecordHeader }
func (*Transfer) sealed() {}

// IsCompleted indica si la transferencia cuenta en los balances.
func (t *Transfer) IsCompleted() bool { return t.Status == TransferCompleted }

// IsValidTransferStatus indica si s es un estado conocido.
func IsValidTransferStatus(s string) bool {
	switch s {
	case TransferPending, TransferInTransit, TransferCompleted, TransferCancelled:
		return true
	}
	return false
}

// transferTransitions pending -> in_transit -> completed; pending|in_transit -> cancelled.
var transferTransitions = map[string][]string{
	TransferPending:   {TransferInTransit, TransferCompleted, TransferCancelled},
	TransferInTransit: {TransferCompleted, TransferCancelled},
}

// CanTransition indica si from -> to es un cambio de estado permitido.
// completed y cancelled son terminales.
func CanTransition(from, to string) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
