package registry

import (
	"sync"
	"testing"

	"eth-telegram-bot/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

func TestGasAlertSlot(t *testing.T) {
	r := New()

	_, ok := r.GasAlert()
	assert.False(t, ok)

	first := r.SetGasAlert(42, decimal.NewFromInt(20))
	second := r.SetGasAlert(7, decimal.NewFromInt(15))

	got, ok := r.GasAlert()
	require.True(t, ok)
	assert.Equal(t, types.ChatID(7), got.ChatID, "a new alert overwrites the slot")

	assert.False(t, r.ClearGasAlert(first.Seq), "stale alert must not clear the newer one")
	_, ok = r.GasAlert()
	assert.True(t, ok)

	assert.True(t, r.ClearGasAlert(second.Seq))
	assert.False(t, r.ClearGasAlert(second.Seq), "second clear is a no-op")
	_, ok = r.GasAlert()
	assert.False(t, ok)
}

func TestPriceAlertSlotIndependentOfGas(t *testing.T) {
	r := New()

	gas := r.SetGasAlert(42, decimal.NewFromInt(20))
	price := r.SetPriceAlert(42, decimal.NewFromInt(2500))
	assert.NotEqual(t, gas.Seq, price.Seq)

	assert.True(t, r.ClearPriceAlert(price.Seq))
	_, ok := r.GasAlert()
	assert.True(t, ok)
	_, ok = r.PriceAlert()
	assert.False(t, ok)
}

func TestSwapLastPrice(t *testing.T) {
	r := New()

	_, ok := r.SwapLastPrice(decimal.NewFromInt(100))
	assert.False(t, ok, "first observation has no previous price")

	prev, ok := r.SwapLastPrice(decimal.NewFromInt(106))
	require.True(t, ok)
	assert.True(t, prev.Equal(decimal.NewFromInt(100)))

	prev, _ = r.SwapLastPrice(decimal.NewFromInt(104))
	assert.True(t, prev.Equal(decimal.NewFromInt(106)))
}

func TestPriceMonitor(t *testing.T) {
	r := New()

	_, ok := r.PriceMonitor()
	assert.False(t, ok)

	r.StartPriceMonitor(42)
	chat, ok := r.PriceMonitor()
	require.True(t, ok)
	assert.Equal(t, types.ChatID(42), chat)
}

func TestAddWatchIsIdempotent(t *testing.T) {
	r := New()

	assert.True(t, r.AddWatch(addr, 42))
	assert.False(t, r.AddWatch(addr, 42))
	assert.True(t, r.AddWatch(addr, 7), "another chat watching the same address is new")

	watches := r.Watches()
	require.Len(t, watches, 1)
	assert.Equal(t, addr, watches[0].Address)
	assert.Equal(t, []types.ChatID{7, 42}, watches[0].ChatIDs)
	assert.Equal(t, 1, r.WatchCount())

	assert.Len(t, r.WatchesFor(42), 1)
	assert.Empty(t, r.WatchesFor(99))
}

func TestMarkSeenPerAddress(t *testing.T) {
	r := New()
	other := "0x0000000000000000000000000000000000000001"
	r.AddWatch(addr, 42)
	r.AddWatch(other, 42)

	assert.True(t, r.MarkSeen(addr, "0x111"))
	assert.False(t, r.MarkSeen(addr, "0x111"))

	assert.True(t, r.MarkSeen(other, "0x111"), "hashes are scoped per address")
	assert.False(t, r.MarkSeen(other, "0x111"))

	assert.False(t, r.MarkSeen("0xunwatched", "0x111"))
}

func TestConcurrentMarkSeenReportsNewOnce(t *testing.T) {
	r := New()
	r.AddWatch(addr, 42)

	var wg sync.WaitGroup
	var mu sync.Mutex
	newCount := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.MarkSeen(addr, "0xabc") {
				mu.Lock()
				newCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, newCount)
}
