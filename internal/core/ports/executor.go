package ports

import "context"

// TxExecutor runs raw transactions of the UTXO chain. When commit is false the transaction is
// only simulated.
type TxExecutor interface {
	Execute(ctx context.Context, rawTx []byte, commit bool) (int32, error)
	Close()
}
