package gateway

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

// node reads balances straight from an Ethereum JSON-RPC endpoint.
type node struct {
	client  *ethclient.Client
	limiter *Limiter
}

func dialNode(rawURL string, limiter *Limiter) (*node, error) {
	client, err := ethclient.Dial(rawURL)
	if err != nil {
		return nil, err
	}
	return &node{client: client, limiter: limiter}, nil
}

func (n *node) balance(ctx context.Context, address string) (decimal.Decimal, error) {
	const op = "balance"

	if err := n.limiter.Wait(ctx); err != nil {
		return decimal.Zero, newError(Network, op, err)
	}

	wei, err := n.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, newError(classify(err), op, err)
	}
	return decimal.NewFromBigInt(wei, -weiDecimals), nil
}
