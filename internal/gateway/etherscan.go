package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eth-telegram-bot/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const weiDecimals = 18

type etherscan struct {
	baseURL string
	apiKey  string
	chainID int
	http    *http.Client
	limiter *Limiter
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func newEtherscan(baseURL, apiKey string, chainID int, httpClient *http.Client, limiter *Limiter) *etherscan {
	return &etherscan{
		baseURL: baseURL,
		apiKey:  apiKey,
		chainID: chainID,
		http:    httpClient,
		limiter: limiter,
	}
}

// isEmptyResult reports the "nothing found" answers Etherscan returns with status 0.
func isEmptyResult(message string) bool {
	lower := strings.ToLower(message)
	return strings.HasPrefix(lower, "no transactions found") || strings.HasPrefix(lower, "no token transfers found") ||
		strings.HasPrefix(lower, "no records found")
}

// call performs one API request and decodes the result field into out.
// It returns found=false for empty answers, leaving out untouched.
func (e *etherscan) call(ctx context.Context, op, module, action string, params url.Values, out interface{}) (bool, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return false, newError(Network, op, err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("module", module)
	params.Set("action", action)
	if e.chainID > 0 {
		params.Set("chainid", strconv.Itoa(e.chainID))
	}
	if e.apiKey != "" {
		params.Set("apikey", e.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return false, newError(Malformed, op, err)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return false, newError(Network, op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return false, newError(RateLimited, op, errors.Errorf("http status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return false, newError(NotFound, op, errors.Errorf("http status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return false, newError(Network, op, errors.Errorf("http status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, newError(Malformed, op, errors.Wrap(err, "could not decode response"))
	}

	if env.Status != "1" {
		if isEmptyResult(env.Message) {
			return false, nil
		}
		detail := env.Message
		var text string
		if json.Unmarshal(env.Result, &text) == nil && text != "" {
			detail = fmt.Sprintf("%s: %s", env.Message, text)
		}
		if strings.Contains(strings.ToLower(detail), "rate limit") {
			return false, newError(RateLimited, op, errors.New(detail))
		}
		return false, newError(Malformed, op, errors.New(detail))
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return false, newError(Malformed, op, errors.Wrap(err, "could not decode result"))
	}
	return true, nil
}

func (e *etherscan) gasOracle(ctx context.Context) (types.GasOracle, error) {
	const op = "gas oracle"

	var result struct {
		SafeGasPrice    string `json:"SafeGasPrice"`
		ProposeGasPrice string `json:"ProposeGasPrice"`
		FastGasPrice    string `json:"FastGasPrice"`
		SuggestBaseFee  string `json:"suggestBaseFee"`
	}
	found, err := e.call(ctx, op, "gastracker", "gasoracle", nil, &result)
	if err != nil {
		return types.GasOracle{}, err
	}
	if !found {
		return types.GasOracle{}, newError(NotFound, op, errors.New("empty gas oracle"))
	}

	var gas types.GasOracle
	for _, f := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{result.FastGasPrice, &gas.Fast},
		{result.ProposeGasPrice, &gas.Standard},
		{result.SafeGasPrice, &gas.Slow},
		{result.SuggestBaseFee, &gas.BaseFee},
	} {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return types.GasOracle{}, newError(Malformed, op, errors.Wrapf(err, "invalid gas price %q", f.raw))
		}
		*f.dst = v
	}
	return gas, nil
}

type rawTransaction struct {
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
}

func (e *etherscan) transactions(ctx context.Context, address string, limit int) ([]types.Transaction, error) {
	const op = "transactions"

	params := url.Values{}
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", strconv.Itoa(limit))
	params.Set("sort", "desc")

	var raw []rawTransaction
	if _, err := e.call(ctx, op, "account", "txlist", params, &raw); err != nil {
		return nil, err
	}

	txs := make([]types.Transaction, 0, len(raw))
	for _, r := range raw {
		value, err := decimal.NewFromString(r.Value)
		if err != nil {
			return nil, newError(Malformed, op, errors.Wrapf(err, "invalid value in %s", r.Hash))
		}
		block, _ := strconv.ParseUint(r.BlockNumber, 10, 64)
		ts, _ := strconv.ParseInt(r.TimeStamp, 10, 64)
		txs = append(txs, types.Transaction{
			Hash:        r.Hash,
			From:        r.From,
			To:          r.To,
			Value:       value.Shift(-weiDecimals),
			BlockNumber: block,
			Timestamp:   time.Unix(ts, 0).UTC(),
		})
	}
	return txs, nil
}

func (e *etherscan) tokenTransfers(ctx context.Context, address string) ([]types.TokenTransfer, error) {
	const op = "token transfers"

	params := url.Values{}
	params.Set("address", address)
	params.Set("sort", "desc")

	var raw []struct {
		Hash            string `json:"hash"`
		From            string `json:"from"`
		To              string `json:"to"`
		ContractAddress string `json:"contractAddress"`
		TokenName       string `json:"tokenName"`
		TokenSymbol     string `json:"tokenSymbol"`
		TokenDecimal    string `json:"tokenDecimal"`
		Value           string `json:"value"`
	}
	if _, err := e.call(ctx, op, "account", "tokentx", params, &raw); err != nil {
		return nil, err
	}

	transfers := make([]types.TokenTransfer, 0, len(raw))
	for _, r := range raw {
		decimals := int64(weiDecimals)
		if r.TokenDecimal != "" {
			d, err := strconv.ParseInt(r.TokenDecimal, 10, 32)
			if err != nil {
				log.WithField("hash", r.Hash).Debugf("invalid token decimals %q, assuming 18", r.TokenDecimal)
			} else {
				decimals = d
			}
		}
		value, err := decimal.NewFromString(r.Value)
		if err != nil {
			return nil, newError(Malformed, op, errors.Wrapf(err, "invalid value in %s", r.Hash))
		}
		transfers = append(transfers, types.TokenTransfer{
			Hash:            r.Hash,
			From:            r.From,
			To:              r.To,
			ContractAddress: r.ContractAddress,
			TokenName:       r.TokenName,
			TokenSymbol:     r.TokenSymbol,
			Decimals:        int32(decimals),
			Amount:          value.Shift(-int32(decimals)),
		})
	}
	return transfers, nil
}

func (e *etherscan) tokenBalance(ctx context.Context, contract, address string, decimals int32) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("contractaddress", contract)
	params.Set("address", address)
	params.Set("tag", "latest")
	return e.units(ctx, "token balance", "tokenbalance", params, decimals)
}

func (e *etherscan) balance(ctx context.Context, address string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("tag", "latest")
	return e.units(ctx, "balance", "balance", params, weiDecimals)
}

// units decodes an integer string result and scales it down by decimals.
func (e *etherscan) units(ctx context.Context, op, action string, params url.Values, decimals int32) (decimal.Decimal, error) {
	var raw string
	found, err := e.call(ctx, op, "account", action, params, &raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, newError(Malformed, op, errors.Wrapf(err, "invalid amount %q", raw))
	}
	return v.Shift(-decimals), nil
}
