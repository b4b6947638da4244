package oracle

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// StaticOracle serves balances from a fixed table. Used in tests and for
// offline runs; it can also simulate failures or a hanging endpoint.
type StaticOracle struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal

	// Err, when set, is returned from every GetBalance call.
	Err error
	// Block, when set, makes GetBalance wait until the context is done,
	// simulating an unresponsive endpoint.
	Block bool
}

// NewStaticOracle creates an oracle with no balances set.
func NewStaticOracle() *StaticOracle {
	return &StaticOracle{balances: make(map[string]decimal.Decimal)}
}

func balanceKey(address, network, asset string) string {
	return strings.ToLower(fmt.Sprintf("%s|%s|%s", address, network, asset))
}

// SetBalance sets the balance returned for the given wallet/network/asset.
func (o *StaticOracle) SetBalance(address, network, asset string, balance decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.balances[balanceKey(address, network, asset)] = balance
}

// GetBalance returns the configured balance, zero if none is set.
func (o *StaticOracle) GetBalance(ctx context.Context, address, network, asset string) (decimal.Decimal, error) {
	if o.Block {
		<-ctx.Done()
		return decimal.Zero, ctx.Err()
	}
	if o.Err != nil {
		return decimal.Zero, o.Err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.balances[balanceKey(address, network, asset)], nil
}
