package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Client is the gas/price oracle: chain reads through ethclient, ETH/USD from a
// CoinGecko-compatible endpoint.
type Client struct {
	eth        *ethclient.Client
	priceURL   string
	httpClient *http.Client
	log        *zap.Logger
}

func Dial(ctx context.Context, rpcURL, priceURL string, log *zap.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &Client{
		eth:        eth,
		priceURL:   priceURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}, nil
}

func (c *Client) Eth() *ethclient.Client {
	return c.eth
}

func (c *Client) Close() {
	c.eth.Close()
}

// VerifyChainID fails when the RPC endpoint serves a different network than configured.
func (c *Client) VerifyChainID(ctx context.Context, want int64) error {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}
	if id.Int64() != want {
		return fmt.Errorf("rpc serves chain %s, expected %d", id, want)
	}
	return nil
}

type GasSnapshot struct {
	GasPrice    *big.Int
	BlockNumber uint64
}

func (c *Client) GasPriceAndBlock(ctx context.Context) (GasSnapshot, error) {
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return GasSnapshot{}, fmt.Errorf("gas price: %w", err)
	}
	block, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return GasSnapshot{}, fmt.Errorf("block number: %w", err)
	}
	return GasSnapshot{GasPrice: price, BlockNumber: block}, nil
}

func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address %q", address)
	}
	return c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
}

type priceResponse struct {
	Ethereum struct {
		USD float64 `json:"usd"`
	} `json:"ethereum"`
}

// EthUsdPrice reports false when the price API is unreachable or malformed.
func (c *Client) EthUsdPrice(ctx context.Context) (float64, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.priceURL, nil)
	if err != nil {
		return 0, false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("eth price fetch failed", zap.Error(err))
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("eth price api returned non-200", zap.Int("status", resp.StatusCode))
		return 0, false
	}
	var pr priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		c.log.Warn("eth price decode failed", zap.Error(err))
		return 0, false
	}
	if pr.Ethereum.USD <= 0 {
		return 0, false
	}
	return pr.Ethereum.USD, true
}
