// Package oracle resolves on-chain balances for wallet addresses.
package oracle

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceOracle reports the currently available on-chain balance of an
// asset held by a wallet address on a network. The oracle knows nothing
// about funds committed to stakes; callers subtract those themselves.
type BalanceOracle interface {
	GetBalance(ctx context.Context, address, network, asset string) (decimal.Decimal, error)
}
