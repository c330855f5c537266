package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

// newTestClient serves every Etherscan action from responses keyed by action name.
func newTestClient(t *testing.T, responses map[string]string) (*Client, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		body, ok := responses[r.URL.Query().Get("action")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{
		EtherscanURL:    srv.URL,
		EtherscanAPIKey: "key",
		ChainID:         1,
		HTTPClient:      srv.Client(),
	})
	require.NoError(t, err)
	return c, &seen
}

func TestGasOracle(t *testing.T) {
	c, seen := newTestClient(t, map[string]string{
		"gasoracle": `{"status":"1","message":"OK","result":{"LastBlock":"1","SafeGasPrice":"12","ProposeGasPrice":"18.5","FastGasPrice":"25","suggestBaseFee":"11.873","gasUsedRatio":"0.5"}}`,
	})

	gas, err := c.GasOracle(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25").Equal(gas.Fast))
	assert.True(t, decimal.RequireFromString("18.5").Equal(gas.Standard))
	assert.True(t, decimal.RequireFromString("12").Equal(gas.Slow))
	assert.True(t, decimal.RequireFromString("11.873").Equal(gas.BaseFee))

	require.Len(t, *seen, 1)
	q := (*seen)[0].URL.Query()
	assert.Equal(t, "gastracker", q.Get("module"))
	assert.Equal(t, "key", q.Get("apikey"))
	assert.Equal(t, "1", q.Get("chainid"))
}

func TestLatestTransaction(t *testing.T) {
	c, seen := newTestClient(t, map[string]string{
		"txlist": `{"status":"1","message":"OK","result":[
			{"blockNumber":"19000000","timeStamp":"1700000000","hash":"0x111","from":"0xa","to":"0xb","value":"1500000000000000000"}
		]}`,
	})

	tx, err := c.LatestTransaction(context.Background(), testAddress)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, "0x111", tx.Hash)
	assert.Equal(t, "1.5", tx.Value.String())
	assert.Equal(t, uint64(19000000), tx.BlockNumber)
	assert.Equal(t, int64(1700000000), tx.Timestamp.Unix())

	q := (*seen)[0].URL.Query()
	assert.Equal(t, "desc", q.Get("sort"))
	assert.Equal(t, "1", q.Get("offset"))
	assert.Equal(t, testAddress, q.Get("address"))
}

func TestLatestTransactionNoHistory(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"txlist": `{"status":"0","message":"No transactions found","result":[]}`,
	})

	tx, err := c.LatestTransaction(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestTokenTransfersScaleByDecimals(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"tokentx": `{"status":"1","message":"OK","result":[
			{"hash":"0x1","from":"0xa","to":"0xb","contractAddress":"0xdac17f958d2ee523a2206206994597c13d831ec7","tokenName":"Tether USD","tokenSymbol":"USDT","tokenDecimal":"6","value":"2500000"},
			{"hash":"0x2","from":"0xa","to":"0xb","contractAddress":"0xc","tokenName":"NoDecimals","tokenSymbol":"ND","tokenDecimal":"","value":"1000000000000000000"}
		]}`,
	})

	transfers, err := c.TokenTransfers(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, "2.5", transfers[0].Amount.String())
	assert.Equal(t, int32(6), transfers[0].Decimals)
	assert.Equal(t, "USDT", transfers[0].TokenSymbol)
	assert.Equal(t, "1", transfers[1].Amount.String())
}

func TestBalanceFallsBackToEtherscan(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"balance":      `{"status":"1","message":"OK","result":"40807178566070000000000"}`,
		"tokenbalance": `{"status":"1","message":"OK","result":"135499"}`,
	})

	b, err := c.Balance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, "40807.17856607", b.String())

	usdt, err := c.TokenBalance(context.Background(), "0xdAC17F958D2ee523a2206206994597C13D831ec7", testAddress, 6)
	require.NoError(t, err)
	assert.Equal(t, "0.135499", usdt.String())
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind Kind
	}{
		{
			name: "rate limit in result",
			body: `{"status":"0","message":"NOTOK","result":"Max rate limit reached, please use API Key for higher rate limit"}`,
			kind: RateLimited,
		},
		{
			name: "other NOTOK",
			body: `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`,
			kind: Malformed,
		},
		{
			name: "broken json",
			body: `{"status":"1","message":"OK","result":`,
			kind: Malformed,
		},
		{
			name: "non numeric gas",
			body: `{"status":"1","message":"OK","result":{"SafeGasPrice":"x","ProposeGasPrice":"1","FastGasPrice":"1","suggestBaseFee":"1"}}`,
			kind: Malformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, map[string]string{"gasoracle": tt.body})

			_, err := c.GasOracle(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))

			var gerr *Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, "gas oracle", gerr.Op)
		})
	}
}

func TestHTTPStatusKinds(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusTooManyRequests, RateLimited},
		{http.StatusNotFound, NotFound},
		{http.StatusBadGateway, Network},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c, err := New(Config{EtherscanURL: srv.URL, HTTPClient: srv.Client()})
			require.NoError(t, err)

			_, err = c.GasOracle(context.Background())
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := New(Config{EtherscanURL: srv.URL})
	require.NoError(t, err)

	_, err = c.LatestTransaction(context.Background(), testAddress)
	require.Error(t, err)
	assert.Equal(t, Network, KindOf(err))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, RateLimited, classify(errors.New("429 Too Many Requests")))
	assert.Equal(t, NotFound, classify(errors.New("id not found")))
	assert.Equal(t, Malformed, classify(errors.New("json: cannot unmarshal string into Go value")))
	assert.Equal(t, Network, classify(errors.New("dial tcp: connection refused")))
	assert.Equal(t, Network, KindOf(errors.New("plain")))
}
