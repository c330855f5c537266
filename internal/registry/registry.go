// Package registry owns every piece of mutable monitoring state: the gas and price alert
// slots, the price-move monitor, watched wallets and the transaction hashes already reported.
//
// One Registry is built at start and shared by the command handlers and the periodic checks.
// All methods are safe for concurrent use; each one is a single critical section.
package registry

import (
	"sort"
	"sync"
	"time"

	"eth-telegram-bot/internal/types"
	"github.com/shopspring/decimal"
)

type watch struct {
	chats map[types.ChatID]struct{}
	since time.Time
	seen  map[string]struct{}
}

type Registry struct {
	mu  sync.Mutex
	seq uint64
	now func() time.Time

	gasAlert   *types.GasAlert
	priceAlert *types.PriceAlert

	monitorChat  *types.ChatID
	lastPrice    decimal.Decimal
	lastPriceSet bool

	watches map[string]*watch
}

func New() *Registry {
	return &Registry{
		now:     time.Now,
		watches: make(map[string]*watch),
	}
}

func (r *Registry) nextSeq() uint64 {
	r.seq++
	return r.seq
}

// SetGasAlert replaces the single gas alert slot and returns the stored alert.
func (r *Registry) SetGasAlert(chatID types.ChatID, threshold decimal.Decimal) types.GasAlert {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := types.GasAlert{Seq: r.nextSeq(), ChatID: chatID, Threshold: threshold, CreatedAt: r.now()}
	r.gasAlert = &a
	return a
}

func (r *Registry) GasAlert() (types.GasAlert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gasAlert == nil {
		return types.GasAlert{}, false
	}
	return *r.gasAlert, true
}

// ClearGasAlert empties the slot only if it still holds the alert with seq.
// It reports whether this call cleared it.
func (r *Registry) ClearGasAlert(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gasAlert == nil || r.gasAlert.Seq != seq {
		return false
	}
	r.gasAlert = nil
	return true
}

// SetPriceAlert replaces the single price alert slot and returns the stored alert.
func (r *Registry) SetPriceAlert(chatID types.ChatID, threshold decimal.Decimal) types.PriceAlert {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := types.PriceAlert{Seq: r.nextSeq(), ChatID: chatID, Threshold: threshold, CreatedAt: r.now()}
	r.priceAlert = &a
	return a
}

func (r *Registry) PriceAlert() (types.PriceAlert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.priceAlert == nil {
		return types.PriceAlert{}, false
	}
	return *r.priceAlert, true
}

// ClearPriceAlert empties the slot only if it still holds the alert with seq.
func (r *Registry) ClearPriceAlert(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.priceAlert == nil || r.priceAlert.Seq != seq {
		return false
	}
	r.priceAlert = nil
	return true
}

// StartPriceMonitor routes price-move notifications to chatID. The last observed price is kept.
func (r *Registry) StartPriceMonitor(chatID types.ChatID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.monitorChat = &chatID
}

func (r *Registry) PriceMonitor() (types.ChatID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.monitorChat == nil {
		return 0, false
	}
	return *r.monitorChat, true
}

// SwapLastPrice stores price as the last observed price and returns the previous one.
// ok is false on the very first observation.
func (r *Registry) SwapLastPrice(price decimal.Decimal) (previous decimal.Decimal, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok = r.lastPrice, r.lastPriceSet
	r.lastPrice, r.lastPriceSet = price, true
	return previous, ok
}

// AddWatch watches address on behalf of chatID. Addresses must already be normalized.
// It returns false when the pair was already watched.
func (r *Registry) AddWatch(address string, chatID types.ChatID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watches[address]
	if !ok {
		w = &watch{
			chats: make(map[types.ChatID]struct{}),
			since: r.now(),
			seen:  make(map[string]struct{}),
		}
		r.watches[address] = w
	}
	if _, dup := w.chats[chatID]; dup {
		return false
	}
	w.chats[chatID] = struct{}{}
	return true
}

// Watches returns a snapshot of every watched address sorted by address.
func (r *Registry) Watches() []types.Watch {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.Watch, 0, len(r.watches))
	for addr, w := range r.watches {
		out = append(out, w.snapshot(addr))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// WatchesFor returns the watches requested by chatID.
func (r *Registry) WatchesFor(chatID types.ChatID) []types.Watch {
	var out []types.Watch
	for _, w := range r.Watches() {
		for _, c := range w.ChatIDs {
			if c == chatID {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

func (r *Registry) WatchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.watches)
}

// MarkSeen records hash for address and reports whether it was new.
// Hashes of unwatched addresses are never recorded.
func (r *Registry) MarkSeen(address, hash string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watches[address]
	if !ok {
		return false
	}
	if _, dup := w.seen[hash]; dup {
		return false
	}
	w.seen[hash] = struct{}{}
	return true
}

func (w *watch) snapshot(address string) types.Watch {
	chats := make([]types.ChatID, 0, len(w.chats))
	for c := range w.chats {
		chats = append(chats, c)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
	return types.Watch{Address: address, ChatIDs: chats, Since: w.since}
}
