package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/stakeline/stakeline/internal/util"
)

// NetworkConfig describes one EVM network the oracle can query.
type NetworkConfig struct {
	// RPCURL is the JSON-RPC endpoint for the network.
	RPCURL string
	// NativeAsset is the symbol of the chain's native coin (ETH, BNB, ...).
	NativeAsset string
	// NativeDecimals is the native coin's decimal precision (18 for EVM).
	NativeDecimals int
	// USDTContract is the ERC-20 USDT contract address, empty if the
	// network has no supported USDT token.
	USDTContract string
	// USDTDecimals is the token's decimal precision (6 for mainnet USDT).
	USDTDecimals int
}

// EthOracle resolves balances over EVM JSON-RPC. Native coin balances come
// from eth_getBalance; USDT balances from an ERC-20 balanceOf call.
type EthOracle struct {
	networks map[string]NetworkConfig
	limiter  *rate.Limiter
	retry    *util.RetryConfig

	mu      sync.Mutex
	clients map[string]*ethclient.Client
}

// balanceOfSelector is the 4-byte selector of balanceOf(address).
var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// NewEthOracle creates an oracle over the given network table. rps bounds
// outbound RPC calls per second across all networks.
func NewEthOracle(networks map[string]NetworkConfig, rps float64, retryConfig *util.RetryConfig) *EthOracle {
	if rps <= 0 {
		rps = 10
	}
	if retryConfig == nil {
		retryConfig = util.DefaultRetryConfig()
	}
	return &EthOracle{
		networks: networks,
		limiter:  rate.NewLimiter(rate.Limit(rps), int(rps)),
		retry:    retryConfig,
		clients:  make(map[string]*ethclient.Client),
	}
}

// GetBalance returns the wallet's balance of the asset on the network.
func (o *EthOracle) GetBalance(ctx context.Context, address, network, asset string) (decimal.Decimal, error) {
	netCfg, ok := o.networks[network]
	if !ok {
		return decimal.Zero, fmt.Errorf("unsupported network: %s", network)
	}
	if !common.IsHexAddress(address) {
		return decimal.Zero, fmt.Errorf("invalid address: %s", address)
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	client, err := o.client(ctx, network, netCfg.RPCURL)
	if err != nil {
		return decimal.Zero, err
	}

	addr := common.HexToAddress(address)

	switch {
	case strings.EqualFold(asset, netCfg.NativeAsset):
		return o.nativeBalance(ctx, client, addr, netCfg.NativeDecimals)
	case strings.EqualFold(asset, "USDT") && netCfg.USDTContract != "":
		return o.tokenBalance(ctx, client, addr, common.HexToAddress(netCfg.USDTContract), netCfg.USDTDecimals)
	default:
		return decimal.Zero, fmt.Errorf("asset %s not supported on network %s", asset, network)
	}
}

func (o *EthOracle) client(ctx context.Context, network, rpcURL string) (*ethclient.Client, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if c, ok := o.clients[network]; ok {
		return c, nil
	}

	client, result := util.RetryWithValue(ctx, o.retry, func() (*ethclient.Client, error) {
		return ethclient.DialContext(ctx, rpcURL)
	})
	if result.LastError != nil {
		return nil, fmt.Errorf("connect to %s rpc: %w", network, result.LastError)
	}

	o.clients[network] = client
	return client, nil
}

func (o *EthOracle) nativeBalance(ctx context.Context, client *ethclient.Client, addr common.Address, decimals int) (decimal.Decimal, error) {
	wei, result := util.RetryWithValue(ctx, o.retry, func() (*big.Int, error) {
		return client.BalanceAt(ctx, addr, nil)
	})
	if result.LastError != nil {
		return decimal.Zero, fmt.Errorf("native balance query: %w", result.LastError)
	}
	return fromBaseUnits(wei, decimals), nil
}

func (o *EthOracle) tokenBalance(ctx context.Context, client *ethclient.Client, addr, token common.Address, decimals int) (decimal.Decimal, error) {
	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(addr.Bytes(), 32)...)

	msg := ethereum.CallMsg{To: &token, Data: data}
	raw, result := util.RetryWithValue(ctx, o.retry, func() ([]byte, error) {
		return client.CallContract(ctx, msg, nil)
	})
	if result.LastError != nil {
		return decimal.Zero, fmt.Errorf("token balance query: %w", result.LastError)
	}
	if len(raw) == 0 {
		return decimal.Zero, fmt.Errorf("empty balanceOf response from %s", token.Hex())
	}
	return fromBaseUnits(new(big.Int).SetBytes(raw), decimals), nil
}

// Close releases all cached RPC connections.
func (o *EthOracle) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, c := range o.clients {
		c.Close()
	}
	o.clients = make(map[string]*ethclient.Client)
}

// fromBaseUnits converts an integer chain amount to a decimal using the
// asset's precision (e.g. wei with 18 decimals -> ether).
func fromBaseUnits(amount *big.Int, decimals int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}
