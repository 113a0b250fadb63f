package ports

import "context"

const (
	AuditImbalance Topic = "Audit Imbalance"
	AuditFailure   Topic = "Audit Failure"
)

type Topic string

type Alerts interface {
	Publish(ctx context.Context, topic Topic, message interface{}) error
}

// AuditImbalanceAlert reports an escrow balance that doesn't match the coin supply. Amounts are
// decimal strings in account units.
type AuditImbalanceAlert struct {
	AssetId       string
	Escrow        string
	Supply        uint64
	Expected      string
	EscrowBalance string
}
