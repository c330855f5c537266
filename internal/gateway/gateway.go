package gateway

import (
	"context"
	"net/http"
	"time"

	"eth-telegram-bot/internal/metrics"
	"eth-telegram-bot/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AssetETH is the CoinPaprika id of Ether.
const AssetETH = "eth-ethereum"

// Gateway is the read-only view of blockchain and market data used by the background checks.
type Gateway interface {
	GasOracle(ctx context.Context) (types.GasOracle, error)
	SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
	Balance(ctx context.Context, address string) (decimal.Decimal, error)
	LatestTransaction(ctx context.Context, address string) (*types.Transaction, error)
	TokenTransfers(ctx context.Context, address string) ([]types.TokenTransfer, error)
}

type Config struct {
	EtherscanURL    string
	EtherscanAPIKey string
	ChainID         int
	EtherscanRPS    float64

	// NodeURL is an Ethereum JSON-RPC endpoint; balances go through Etherscan when empty.
	NodeURL string

	PaprikaAPIKey string
	PaprikaRPS    float64

	HTTPClient *http.Client
}

// Client implements Gateway plus the extra reads the chat commands need.
type Client struct {
	etherscan *etherscan
	paprika   *paprika
	node      *node
}

var _ Gateway = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	c := &Client{
		etherscan: newEtherscan(cfg.EtherscanURL, cfg.EtherscanAPIKey, cfg.ChainID, httpClient,
			NewLimiter(cfg.EtherscanRPS, 1, "etherscan")),
		paprika: newPaprika(cfg.PaprikaAPIKey, httpClient, NewLimiter(cfg.PaprikaRPS, 1, "coinpaprika")),
	}

	if cfg.NodeURL != "" {
		n, err := dialNode(cfg.NodeURL, NewLimiter(cfg.EtherscanRPS, 1, "node"))
		if err != nil {
			return nil, errors.Wrap(err, "could not connect to ethereum node")
		}
		c.node = n
	}

	return c, nil
}

func observe(provider, op string, err error) {
	status := "ok"
	if err != nil {
		status = KindOf(err).String()
	}
	metrics.Default.GatewayRequests.WithLabelValues(provider, op, status).Inc()
}

func (c *Client) GasOracle(ctx context.Context) (types.GasOracle, error) {
	gas, err := c.etherscan.gasOracle(ctx)
	observe("etherscan", "gas_oracle", err)
	return gas, err
}

func (c *Client) SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	p, err := c.paprika.spotPrice(ctx, assetID)
	observe("coinpaprika", "spot_price", err)
	return p, err
}

// Balance returns the ETH balance of address.
func (c *Client) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	if c.node != nil {
		b, err := c.node.balance(ctx, address)
		observe("node", "balance", err)
		return b, err
	}
	b, err := c.etherscan.balance(ctx, address)
	observe("etherscan", "balance", err)
	return b, err
}

// LatestTransaction returns nil without error when the address has no transactions.
func (c *Client) LatestTransaction(ctx context.Context, address string) (*types.Transaction, error) {
	txs, err := c.etherscan.transactions(ctx, address, 1)
	observe("etherscan", "latest_transaction", err)
	if err != nil || len(txs) == 0 {
		return nil, err
	}
	return &txs[0], nil
}

// Transactions returns up to limit transactions, most recent first.
func (c *Client) Transactions(ctx context.Context, address string, limit int) ([]types.Transaction, error) {
	txs, err := c.etherscan.transactions(ctx, address, limit)
	observe("etherscan", "transactions", err)
	return txs, err
}

func (c *Client) TokenTransfers(ctx context.Context, address string) ([]types.TokenTransfer, error) {
	transfers, err := c.etherscan.tokenTransfers(ctx, address)
	observe("etherscan", "token_transfers", err)
	return transfers, err
}

// TokenBalance returns the balance of an ERC-20 contract scaled by decimals.
func (c *Client) TokenBalance(ctx context.Context, contract, address string, decimals int32) (decimal.Decimal, error) {
	b, err := c.etherscan.tokenBalance(ctx, contract, address, decimals)
	observe("etherscan", "token_balance", err)
	return b, err
}

// PriceHistory returns USD prices of assetID since the given time, oldest first.
func (c *Client) PriceHistory(ctx context.Context, assetID string, since time.Time) ([]types.PricePoint, error) {
	points, err := c.paprika.history(ctx, assetID, since)
	observe("coinpaprika", "price_history", err)
	return points, err
}
